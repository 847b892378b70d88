package food

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Ahmad-Mosha/cyborg-nutrition/internal/constants"
	apperrors "github.com/Ahmad-Mosha/cyborg-nutrition/internal/errors"
	"github.com/Ahmad-Mosha/cyborg-nutrition/internal/logger"
	"github.com/Ahmad-Mosha/cyborg-nutrition/internal/models"
)

const (
	searchPageSize = 20
	maxErrorBody   = 512
)

// OpenFoodFactsClient resolves foods against the Open Food Facts API.
// Products are identified by barcode; all values are per 100 g.
type OpenFoodFactsClient struct {
	baseURL   string
	userAgent string
	client    *http.Client
}

// NewOpenFoodFactsClient creates a client for baseURL. Empty arguments fall
// back to the public endpoint, the default timeout and the default user agent.
func NewOpenFoodFactsClient(baseURL string, timeout time.Duration, userAgent string) *OpenFoodFactsClient {
	if baseURL == "" {
		baseURL = constants.DefaultFoodAPIURL
	}
	if timeout <= 0 {
		timeout = constants.DefaultFoodAPITimeout
	}
	if userAgent == "" {
		userAgent = constants.DefaultUserAgent
	}
	return &OpenFoodFactsClient{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

type offProduct struct {
	Code        string                     `json:"code"`
	ProductName string                     `json:"product_name"`
	Brands      string                     `json:"brands"`
	Nutriments  map[string]json.RawMessage `json:"nutriments"`
}

type offProductResponse struct {
	Status  int        `json:"status"`
	Product offProduct `json:"product"`
}

type offSearchResponse struct {
	Count    int          `json:"count"`
	Products []offProduct `json:"products"`
}

// GetByID fetches one product by barcode.
func (c *OpenFoodFactsClient) GetByID(ctx context.Context, externalID string) (FoodRecord, error) {
	code := strings.TrimSpace(externalID)
	if code == "" {
		return FoodRecord{}, apperrors.InvalidInput("external food id is empty")
	}

	var resp offProductResponse
	status, err := c.get(ctx, "/api/v2/product/"+url.PathEscape(code)+".json", nil, &resp)
	if status == http.StatusNotFound {
		return FoodRecord{}, apperrors.NotFound("external food %s", code)
	}
	if err != nil {
		return FoodRecord{}, apperrors.ExternalLookup(err, "fetch product %s", code)
	}
	if resp.Status != 1 {
		return FoodRecord{}, apperrors.NotFound("external food %s", code)
	}
	if resp.Product.Code == "" {
		resp.Product.Code = code
	}
	return resp.Product.record(), nil
}

// Search runs a free-text product search and returns the first page.
func (c *OpenFoodFactsClient) Search(ctx context.Context, query string) ([]FoodRecord, error) {
	params := url.Values{}
	params.Set("search_terms", query)
	params.Set("search_simple", "1")
	params.Set("action", "process")
	params.Set("json", "1")
	params.Set("page_size", strconv.Itoa(searchPageSize))

	var resp offSearchResponse
	if _, err := c.get(ctx, "/cgi/search.pl", params, &resp); err != nil {
		return nil, apperrors.ExternalLookup(err, "search %q", query)
	}

	records := make([]FoodRecord, 0, len(resp.Products))
	for _, p := range resp.Products {
		if p.ProductName == "" {
			continue
		}
		records = append(records, p.record())
	}
	return records, nil
}

// get performs a GET and decodes a 200 response into out. The status code is
// returned alongside any error so callers can tell a 404 apart.
func (c *OpenFoodFactsClient) get(ctx context.Context, path string, params url.Values, out interface{}) (int, error) {
	reqURL, err := url.Parse(c.baseURL + path)
	if err != nil {
		return 0, fmt.Errorf("failed to parse request URL: %w", err)
	}
	if params != nil {
		reqURL.RawQuery = params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	logger.Debug("Food API request", "url", reqURL.String())
	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return resp.StatusCode, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.StatusCode, fmt.Errorf("failed to decode response: %w", err)
	}
	return resp.StatusCode, nil
}

func (p offProduct) record() FoodRecord {
	n := p.Nutriments
	return FoodRecord{
		ExternalID:  p.Code,
		Name:        strings.TrimSpace(p.ProductName),
		Brand:       firstBrand(p.Brands),
		ServingSize: constants.DefaultReferenceServing,
		ServingUnit: constants.DefaultServingUnit,
		Nutrients: models.NutrientSet{
			Calories:      nutriment(n, "energy-kcal_100g"),
			Protein:       nutriment(n, "proteins_100g"),
			Carbohydrates: nutriment(n, "carbohydrates_100g"),
			Fat:           nutriment(n, "fat_100g"),
			Fiber:         nutriment(n, "fiber_100g"),
			Sugar:         nutriment(n, "sugars_100g"),
			// reported in grams, stored in milligrams
			Sodium:      nutriment(n, "sodium_100g") * 1000,
			Cholesterol: nutriment(n, "cholesterol_100g") * 1000,
		},
	}
}

// nutriment reads a numeric nutriment. Open Food Facts serves numbers and
// numeric strings interchangeably; anything else reads as zero.
func nutriment(n map[string]json.RawMessage, key string) float64 {
	raw, ok := n[key]
	if !ok {
		return 0
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return f
		}
	}
	return 0
}

func firstBrand(brands string) string {
	first, _, _ := strings.Cut(brands, ",")
	return strings.TrimSpace(first)
}
