package features

import (
	"context"
	"slices"
	"strings"
	"sync"

	"AssistantDashboard_V0.1/internal/geminiservice"
	"AssistantDashboard_V0.1/internal/models"
)

const recipesFailureMessage = "Failed to generate recipes. Please try again."

type Recipes struct {
	mu          sync.Mutex
	p           pipeline
	ingredients string
	preferences string
	recipes     []models.Recipe
	status      Status
}

type RecipesSnapshot struct {
	Status
	Ingredients string          `json:"ingredients"`
	Preferences string          `json:"preferences"`
	Recipes     []models.Recipe `json:"recipes"`
}

func NewRecipes(gen Generator, notifier Notifier) *Recipes {
	return &Recipes{
		p: pipeline{
			feature:        FeatureRecipes,
			failureMessage: recipesFailureMessage,
			gen:            gen,
			notifier:       notifier,
		},
		recipes: []models.Recipe{},
	}
}

// Generate asks for three recipes. ingredients must not be blank.
func (r *Recipes) Generate(ctx context.Context, ingredients, preferences string) (*Call, error) {
	r.mu.Lock()
	if r.status.Loading {
		r.mu.Unlock()
		return nil, ErrGenerationInFlight
	}
	if strings.TrimSpace(ingredients) == "" {
		err := invalid("ingredients", "Please list some ingredients.")
		r.status.Error = err.Message
		r.mu.Unlock()
		return nil, err
	}

	r.ingredients, r.preferences = ingredients, preferences
	prompt := geminiservice.BuildRecipePrompt(ingredients, preferences)
	r.status = Status{Loading: true}
	r.mu.Unlock()

	return start(ctx, r.p, geminiservice.UseCaseRecipes, prompt, geminiservice.ParseRecipes,
		func(recipes []models.Recipe, err error) {
			r.mu.Lock()
			defer r.mu.Unlock()

			r.status.Loading = false
			if err != nil {
				r.status.Error = r.p.failureMessage
				return
			}
			r.recipes = recipes
		}), nil
}

func (r *Recipes) Snapshot() RecipesSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]models.Recipe, len(r.recipes))
	for i, rec := range r.recipes {
		out[i] = models.Recipe{
			RecipeName:   rec.RecipeName,
			Ingredients:  slices.Clone(rec.Ingredients),
			Instructions: slices.Clone(rec.Instructions),
		}
	}

	return RecipesSnapshot{
		Status:      r.status,
		Ingredients: r.ingredients,
		Preferences: r.preferences,
		Recipes:     out,
	}
}
