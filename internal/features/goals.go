package features

import (
	"context"
	"slices"
	"strings"
	"sync"

	"AssistantDashboard_V0.1/internal/geminiservice"
	"AssistantDashboard_V0.1/internal/models"
	"github.com/google/uuid"
)

const goalsFailureMessage = "Failed to generate a plan for your goal. Please try again."

type Goals struct {
	mu     sync.Mutex
	p      pipeline
	goals  []models.Goal
	status Status
}

type GoalsSnapshot struct {
	Status
	Goals []models.Goal `json:"goals"`
}

func NewGoals(gen Generator, notifier Notifier) *Goals {
	return &Goals{
		p: pipeline{
			feature:        FeatureGoals,
			failureMessage: goalsFailureMessage,
			gen:            gen,
			notifier:       notifier,
		},
	}
}

/*
AddGoal generates sub-tasks for the goal and appends it once generation succeeds.
Target and deadline are optional. Every generated sub-task starts uncompleted,
whatever the model returned.
*/
func (g *Goals) AddGoal(ctx context.Context, description, target, deadline string) (*Call, error) {
	g.mu.Lock()
	if g.status.Loading {
		g.mu.Unlock()
		return nil, ErrGenerationInFlight
	}
	if strings.TrimSpace(description) == "" {
		err := invalid("description", "Please enter a goal description.")
		g.status.Error = err.Message
		g.mu.Unlock()
		return nil, err
	}
	prompt := geminiservice.BuildGoalPrompt(description, target, deadline)
	g.status = Status{Loading: true}
	g.mu.Unlock()

	return start(ctx, g.p, geminiservice.UseCaseGoals, prompt, geminiservice.ParseSubTasks,
		func(subTasks []models.SubTask, err error) {
			g.mu.Lock()
			defer g.mu.Unlock()

			g.status.Loading = false
			if err != nil {
				g.status.Error = g.p.failureMessage
				return
			}

			for i := range subTasks {
				subTasks[i].Completed = false
			}
			g.goals = append(g.goals, models.Goal{
				ID:          uuid.NewString(),
				Description: description,
				Target:      target,
				Deadline:    deadline,
				SubTasks:    subTasks,
			})
		}), nil
}

func (g *Goals) RemoveGoal(id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	i := g.indexOf(id)
	if i < 0 {
		return ErrGoalNotFound
	}
	g.goals = slices.Delete(g.goals, i, i+1)
	return nil
}

// ToggleSubTask flips one completed flag. An out-of-range index is an
// explicit error and changes nothing.
func (g *Goals) ToggleSubTask(goalID string, index int) (models.Goal, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	i := g.indexOf(goalID)
	if i < 0 {
		return models.Goal{}, ErrGoalNotFound
	}

	toggled, ok := g.goals[i].ToggleSubTask(index)
	if !ok {
		return models.Goal{}, ErrSubTaskIndexOutOfRange
	}
	g.goals[i] = toggled
	return toggled.Clone(), nil
}

// Goal returns a copy of one goal.
func (g *Goals) Goal(id string) (models.Goal, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	i := g.indexOf(id)
	if i < 0 {
		return models.Goal{}, ErrGoalNotFound
	}
	return g.goals[i].Clone(), nil
}

func (g *Goals) Snapshot() GoalsSnapshot {
	g.mu.Lock()
	defer g.mu.Unlock()

	out := make([]models.Goal, len(g.goals))
	for i, goal := range g.goals {
		out[i] = goal.Clone()
	}
	return GoalsSnapshot{Status: g.status, Goals: out}
}

// indexOf must be called with mu held.
func (g *Goals) indexOf(id string) int {
	return slices.IndexFunc(g.goals, func(goal models.Goal) bool { return goal.ID == id })
}
