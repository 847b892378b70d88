package models

// NutrientSet holds the nutrient values of a portion of food.
// Calories in kcal; protein, carbohydrates, fat, fiber and sugar in grams;
// sodium and cholesterol in milligrams.
type NutrientSet struct {
	Calories      float64 `json:"calories"`
	Protein       float64 `json:"protein"`
	Carbohydrates float64 `json:"carbohydrates"`
	Fat           float64 `json:"fat"`
	Fiber         float64 `json:"fiber"`
	Sugar         float64 `json:"sugar"`
	Sodium        float64 `json:"sodium"`
	Cholesterol   float64 `json:"cholesterol"`
}

// Add returns the field-wise sum of n and other.
func (n NutrientSet) Add(other NutrientSet) NutrientSet {
	return NutrientSet{
		Calories:      n.Calories + other.Calories,
		Protein:       n.Protein + other.Protein,
		Carbohydrates: n.Carbohydrates + other.Carbohydrates,
		Fat:           n.Fat + other.Fat,
		Fiber:         n.Fiber + other.Fiber,
		Sugar:         n.Sugar + other.Sugar,
		Sodium:        n.Sodium + other.Sodium,
		Cholesterol:   n.Cholesterol + other.Cholesterol,
	}
}

// Scale returns every field multiplied by factor.
func (n NutrientSet) Scale(factor float64) NutrientSet {
	return NutrientSet{
		Calories:      n.Calories * factor,
		Protein:       n.Protein * factor,
		Carbohydrates: n.Carbohydrates * factor,
		Fat:           n.Fat * factor,
		Fiber:         n.Fiber * factor,
		Sugar:         n.Sugar * factor,
		Sodium:        n.Sodium * factor,
		Cholesterol:   n.Cholesterol * factor,
	}
}

// MacroGoals are per-meal macro targets in grams.
type MacroGoals struct {
	Protein float64 `json:"protein"`
	Carbs   float64 `json:"carbs"`
	Fat     float64 `json:"fat"`
}
