/*
Package models holds the plain data records exchanged between the prompt
builders, the response parser and the feature controllers.

JSON tags follow the field names the model is asked to produce, so a value
can be encoded straight back into its schema-conformant form.
*/
package models

/* =================================================================================
								FINANCE
=================================================================================*/

// Expense is a single spending entry.
type Expense struct {
	ID       string  `json:"id"`
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

// Investment is a single holding.
type Investment struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Type  string  `json:"type"`
	Value float64 `json:"value"`
}

// FinancialAdvice is produced once per advice request and replaced wholesale.
type FinancialAdvice struct {
	SavingsSuggestions []string `json:"savingsSuggestions"`
	TaxOptimization    []string `json:"taxOptimization"`
}

// CategoryTotal is one bucket of the expense breakdown chart.
type CategoryTotal struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

/* =================================================================================
								RECIPES
=================================================================================*/

type Recipe struct {
	RecipeName   string   `json:"recipeName"`
	Ingredients  []string `json:"ingredients"`
	Instructions []string `json:"instructions"`
}

/* =================================================================================
								FITNESS
=================================================================================*/

// UserProfile is always fully present. Weight is in kg, height in cm.
type UserProfile struct {
	Age    float64 `json:"age"`
	Weight float64 `json:"weight"`
	Height float64 `json:"height"`
	Goal   string  `json:"goal"`
}

type Progress struct {
	Notes string `json:"notes"`
}

type WorkoutDay struct {
	Day     string `json:"day"`
	Workout string `json:"workout"`
	Details string `json:"details"`
}

type MealDay struct {
	Day       string `json:"day"`
	Breakfast string `json:"breakfast"`
	Lunch     string `json:"lunch"`
	Dinner    string `json:"dinner"`
}

// FitnessPlan replaces any prior plan on each generation.
type FitnessPlan struct {
	WorkoutPlan []WorkoutDay `json:"workoutPlan"`
	MealPlan    []MealDay    `json:"mealPlan"`
}

/* =================================================================================
								GOALS
=================================================================================*/

type SubTask struct {
	Task      string `json:"task"`
	Completed bool   `json:"completed"`
}

// Goal owns its sub-tasks. Only the Completed flags change after creation.
type Goal struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	Target      string    `json:"target,omitempty"`
	Deadline    string    `json:"deadline,omitempty"`
	SubTasks    []SubTask `json:"subTasks"`
}

// Clone returns a deep copy so callers cannot mutate a controller's sub-tasks.
func (g Goal) Clone() Goal {
	out := g
	out.SubTasks = append([]SubTask(nil), g.SubTasks...)
	if out.SubTasks == nil {
		out.SubTasks = []SubTask{}
	}
	return out
}

// ToggleSubTask returns a copy of the goal with the flag at index flipped.
// ok is false when index is out of range, in which case g is returned unchanged.
func (g Goal) ToggleSubTask(index int) (Goal, bool) {
	if index < 0 || index >= len(g.SubTasks) {
		return g, false
	}
	out := g.Clone()
	out.SubTasks[index].Completed = !out.SubTasks[index].Completed
	return out, true
}
