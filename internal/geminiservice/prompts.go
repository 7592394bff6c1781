package geminiservice

import (
	"fmt"
	"strconv"
	"strings"

	"AssistantDashboard_V0.1/internal/models"
)

/* =================================================================================
						PROMPT ENGINEERING
=================================================================================*/

// NotSpecified replaces any optional field the user left empty.
const NotSpecified = "Not specified"

// noneListed replaces an empty expense or investment list.
const noneListed = "None"

/*
SystemPrompt is sent as the system instruction on every call.
It keeps the model to the schema and away from markdown.
*/
const SystemPrompt = `You are a personal assistant covering finance, cooking, fitness and goal planning.
Give practical, specific and safe suggestions.

RESPONSE FORMAT:
- Return ONLY the JSON structure defined in the schema
- Do NOT add markdown, explanations, or preamble`

const financialAdviceTemplate = `
Based on the following financial data, provide personalized advice.
Expenses: %s
Investments: %s

Provide 2-3 actionable savings suggestions and 2-3 tax optimization tips.`

const recipeTemplate = `
Generate 3 diverse recipes based on the following criteria.
Available ingredients: %s
Dietary preferences: %s

For each recipe, provide a creative name, a list of all required ingredients with quantities, and step-by-step instructions.`

const fitnessPlanTemplate = `
Create a personalized 7-day fitness and meal plan for the following user, dynamically adjusting based on their progress.
User Profile:
- Age: %s
- Weight: %s kg
- Height: %s cm
- Goal: %s

Recent Progress & Notes: %s

The workout plan should specify the day, the main workout focus, and details (e.g., exercises, sets, reps).
The meal plan should suggest ideas for breakfast, lunch, and dinner for each day.`

const goalTemplate = `
Break down the following goal into a series of simple, actionable sub-tasks.
Goal: %s
Target: %s
Deadline: %s

Provide a list of 3-5 clear, concise sub-tasks that will help achieve this goal. For each sub-task, provide a 'task' description and a 'completed' status, which should be false.`

// BuildFinancialAdvicePrompt renders expenses as "Category: $amount" and
// investments as "Name (Type): $value".
func BuildFinancialAdvicePrompt(expenses []models.Expense, investments []models.Investment) string {
	expenseParts := make([]string, 0, len(expenses))
	for _, e := range expenses {
		expenseParts = append(expenseParts, fmt.Sprintf("%s: $%s", e.Category, formatNumber(e.Amount)))
	}

	investmentParts := make([]string, 0, len(investments))
	for _, i := range investments {
		investmentParts = append(investmentParts, fmt.Sprintf("%s (%s): $%s", i.Name, i.Type, formatNumber(i.Value)))
	}

	return fmt.Sprintf(
		financialAdviceTemplate,
		joinOr(expenseParts, noneListed),
		joinOr(investmentParts, noneListed),
	)
}

// BuildRecipePrompt renders the ingredient list and dietary preferences.
func BuildRecipePrompt(ingredients, preferences string) string {
	return fmt.Sprintf(recipeTemplate, orNotSpecified(ingredients), orNotSpecified(preferences))
}

// BuildFitnessPlanPrompt renders the profile and the latest progress notes.
func BuildFitnessPlanPrompt(profile models.UserProfile, progress models.Progress) string {
	return fmt.Sprintf(
		fitnessPlanTemplate,
		formatNumber(profile.Age),
		formatNumber(profile.Weight),
		formatNumber(profile.Height),
		orNotSpecified(profile.Goal),
		orNotSpecified(progress.Notes),
	)
}

// BuildGoalPrompt renders the goal; target and deadline are optional.
func BuildGoalPrompt(description, target, deadline string) string {
	return fmt.Sprintf(goalTemplate, orNotSpecified(description), orNotSpecified(target), orNotSpecified(deadline))
}

/*=================================================================================
								HELPER FUNCTIONS
=================================================================================*/

// formatNumber prints the shortest exact form: 50, 12.5, 0.1.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func orNotSpecified(s string) string {
	if strings.TrimSpace(s) == "" {
		return NotSpecified
	}
	return s
}

func joinOr(parts []string, empty string) string {
	if len(parts) == 0 {
		return empty
	}
	return strings.Join(parts, ", ")
}
