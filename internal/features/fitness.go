package features

import (
	"context"
	"math"
	"slices"
	"sync"

	"AssistantDashboard_V0.1/internal/geminiservice"
	"AssistantDashboard_V0.1/internal/models"
)

const fitnessFailureMessage = "Failed to generate fitness plan. Please try again."

// DefaultProfile and DefaultProgress seed a new fitness tab.
var (
	DefaultProfile  = models.UserProfile{Age: 30, Weight: 70, Height: 175, Goal: "Build muscle and improve cardio"}
	DefaultProgress = models.Progress{Notes: "Completed most workouts last week, feeling stronger."}
)

type Fitness struct {
	mu       sync.Mutex
	p        pipeline
	profile  models.UserProfile
	progress models.Progress
	plan     *models.FitnessPlan
	status   Status
}

type FitnessSnapshot struct {
	Status
	Profile  models.UserProfile  `json:"profile"`
	Progress models.Progress     `json:"progress"`
	Plan     *models.FitnessPlan `json:"plan"`
}

func NewFitness(gen Generator, notifier Notifier) *Fitness {
	return &Fitness{
		p: pipeline{
			feature:        FeatureFitness,
			failureMessage: fitnessFailureMessage,
			gen:            gen,
			notifier:       notifier,
		},
		profile:  DefaultProfile,
		progress: DefaultProgress,
	}
}

// UpdateProfile replaces the profile. Age, weight and height must be positive.
func (f *Fitness) UpdateProfile(p models.UserProfile) error {
	switch {
	case !positive(p.Age):
		return invalid("age", "Age must be a positive number.")
	case !positive(p.Weight):
		return invalid("weight", "Weight must be a positive number.")
	case !positive(p.Height):
		return invalid("height", "Height must be a positive number.")
	}

	f.mu.Lock()
	f.profile = p
	f.mu.Unlock()
	return nil
}

func (f *Fitness) UpdateProgress(p models.Progress) {
	f.mu.Lock()
	f.progress = p
	f.mu.Unlock()
}

// GeneratePlan starts a 7-day plan generation from the current profile and progress.
func (f *Fitness) GeneratePlan(ctx context.Context) (*Call, error) {
	f.mu.Lock()
	if f.status.Loading {
		f.mu.Unlock()
		return nil, ErrGenerationInFlight
	}
	prompt := geminiservice.BuildFitnessPlanPrompt(f.profile, f.progress)
	f.status = Status{Loading: true}
	f.mu.Unlock()

	return start(ctx, f.p, geminiservice.UseCaseFitness, prompt, geminiservice.ParseFitnessPlan,
		func(plan models.FitnessPlan, err error) {
			f.mu.Lock()
			defer f.mu.Unlock()

			f.status.Loading = false
			if err != nil {
				f.status.Error = f.p.failureMessage
				return
			}
			f.plan = &plan
		}), nil
}

func (f *Fitness) Snapshot() FitnessSnapshot {
	f.mu.Lock()
	defer f.mu.Unlock()

	snap := FitnessSnapshot{
		Status:   f.status,
		Profile:  f.profile,
		Progress: f.progress,
	}
	if f.plan != nil {
		plan := models.FitnessPlan{
			WorkoutPlan: slices.Clone(f.plan.WorkoutPlan),
			MealPlan:    slices.Clone(f.plan.MealPlan),
		}
		snap.Plan = &plan
	}
	return snap
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}
