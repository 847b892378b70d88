package constants

const (
	// Energy per gram of each macro, in kcal.
	KcalPerGramProtein = 4.0
	KcalPerGramCarbs   = 4.0
	KcalPerGramFat     = 9.0

	// Share of a meal's calories assigned to each macro when goals are generated.
	// They must sum to 1.0.
	MacroShareProtein = 0.25
	MacroShareCarbs   = 0.50
	MacroShareFat     = 0.25

	DefaultTargetCalories = 2000

	// Distribution normalization defaults
	DistributionTolerance    = 0.1  // percentage points a distribution may drift from 100
	MaxNewMealPercentage     = 50.0 // upper bound on the share a newly inserted meal may take
	DefaultNewMealPercentage = 20.0

	// Reference portion assumed when a food has no serving size of its own
	DefaultReferenceServing = 100.0
	DefaultServingUnit      = "g"

	// Meal names with a default clock time
	MealBreakfast      = "Breakfast"
	MealMorningSnack   = "Morning Snack"
	MealLunch          = "Lunch"
	MealAfternoonSnack = "Afternoon Snack"
	MealDinner         = "Dinner"
	MealEveningSnack   = "Evening Snack"
)

// DefaultMealTimes maps well-known meal names to their default HH:MM.
// Unknown names fall back to DefaultMealTime.
var DefaultMealTimes = map[string]string{
	MealBreakfast:      "08:00",
	MealMorningSnack:   "10:30",
	MealLunch:          "13:00",
	MealAfternoonSnack: "16:00",
	MealDinner:         "19:00",
	MealEveningSnack:   "21:00",
}

func init() {
	// Runtime validation: macro split must cover all of a meal's calories
	if MacroShareProtein+MacroShareCarbs+MacroShareFat != 1.0 {
		panic("MacroShareProtein, MacroShareCarbs and MacroShareFat must sum to 1.0")
	}
}
