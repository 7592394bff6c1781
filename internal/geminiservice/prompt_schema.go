package geminiservice

/* =================================================================================
							GEMINI SCHEMA DEFINITION
	This is the core structure that tells Gemini how to format its JSON response
=================================================================================*/

// Schema kinds, spelled the way the Gemini API expects them.
const (
	TypeObject  = "OBJECT"
	TypeArray   = "ARRAY"
	TypeString  = "STRING"
	TypeBoolean = "BOOLEAN"
	TypeNumber  = "NUMBER"
	TypeInteger = "INTEGER"
)

// GeminiSchema defines the structure for "Controlled Generation" (Structured Output).
// The same value is sent to the model and used by the parser to validate the reply.
type GeminiSchema struct {
	// Type defines the data type (e.g., "OBJECT", "ARRAY", "STRING", "BOOLEAN").
	Type string `json:"type"`

	// Description explains the field's purpose to the AI, helping it generate better content.
	Description string `json:"description,omitempty"`

	// Properties maps field names to their child schemas (used when Type is "OBJECT").
	Properties map[string]*GeminiSchema `json:"properties,omitempty"`

	// Items defines the schema for elements within an array (used when Type is "ARRAY").
	Items *GeminiSchema `json:"items,omitempty"`

	// Required lists the field names that the AI MUST include in the response.
	Required []string `json:"required,omitempty"`
}

// UseCase identifies one of the four fixed generation scenarios.
type UseCase string

const (
	UseCaseAdvice  UseCase = "advice"
	UseCaseRecipes UseCase = "recipes"
	UseCaseFitness UseCase = "fitness"
	UseCaseGoals   UseCase = "goals"
)

// SchemaFor returns the response schema of a use case, or nil if uc is unknown.
func SchemaFor(uc UseCase) *GeminiSchema {
	switch uc {
	case UseCaseAdvice:
		return FinancialAdviceSchema
	case UseCaseRecipes:
		return RecipesSchema
	case UseCaseFitness:
		return FitnessPlanSchema
	case UseCaseGoals:
		return SubTasksSchema
	}
	return nil
}

func stringField(description string) *GeminiSchema {
	return &GeminiSchema{Type: TypeString, Description: description}
}

func stringList(description string) *GeminiSchema {
	return &GeminiSchema{
		Type:        TypeArray,
		Description: description,
		Items:       &GeminiSchema{Type: TypeString},
	}
}

/*
FinancialAdviceSchema describes the advice object:
{savingsSuggestions: string[], taxOptimization: string[]}.
*/
var FinancialAdviceSchema = &GeminiSchema{
	Type: TypeObject,
	Properties: map[string]*GeminiSchema{
		"savingsSuggestions": stringList("Actionable tips to save money based on spending habits."),
		"taxOptimization":    stringList("Suggestions to optimize taxes based on investments and financial situation."),
	},
	Required: []string{"savingsSuggestions", "taxOptimization"},
}

/*
RecipesSchema describes an array of recipes:
[{recipeName: string, ingredients: string[], instructions: string[]}].
*/
var RecipesSchema = &GeminiSchema{
	Type: TypeArray,
	Items: &GeminiSchema{
		Type: TypeObject,
		Properties: map[string]*GeminiSchema{
			"recipeName":   stringField("A creative name for the recipe."),
			"ingredients":  stringList("All required ingredients with quantities."),
			"instructions": stringList("Step-by-step instructions."),
		},
		Required: []string{"recipeName", "ingredients", "instructions"},
	},
}

/*
FitnessPlanSchema describes the weekly plan:
{workoutPlan: [{day, workout, details}], mealPlan: [{day, breakfast, lunch, dinner}]}.
*/
var FitnessPlanSchema = &GeminiSchema{
	Type: TypeObject,
	Properties: map[string]*GeminiSchema{
		"workoutPlan": {
			Type: TypeArray,
			Items: &GeminiSchema{
				Type: TypeObject,
				Properties: map[string]*GeminiSchema{
					"day":     stringField(""),
					"workout": stringField("The main workout focus of the day."),
					"details": stringField("Exercises, sets and reps."),
				},
				Required: []string{"day", "workout", "details"},
			},
		},
		"mealPlan": {
			Type: TypeArray,
			Items: &GeminiSchema{
				Type: TypeObject,
				Properties: map[string]*GeminiSchema{
					"day":       stringField(""),
					"breakfast": stringField(""),
					"lunch":     stringField(""),
					"dinner":    stringField(""),
				},
				Required: []string{"day", "breakfast", "lunch", "dinner"},
			},
		},
	},
	Required: []string{"workoutPlan", "mealPlan"},
}

/*
SubTasksSchema describes the goal breakdown:
[{task: string, completed: boolean}].
*/
var SubTasksSchema = &GeminiSchema{
	Type: TypeArray,
	Items: &GeminiSchema{
		Type: TypeObject,
		Properties: map[string]*GeminiSchema{
			"task":      stringField("A single, actionable step towards the main goal."),
			"completed": {Type: TypeBoolean, Description: "Whether the task is completed or not."},
		},
		Required: []string{"task", "completed"},
	},
}
