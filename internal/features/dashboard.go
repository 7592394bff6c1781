package features

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog/log"
)

// Dashboard owns one controller per feature area. Controllers never share state.
type Dashboard struct {
	ID        string
	CreatedAt time.Time

	Finance *Finance
	Recipes *Recipes
	Fitness *Fitness
	Goals   *Goals
}

type DashboardSnapshot struct {
	ID      string          `json:"id"`
	Finance FinanceSnapshot `json:"finance"`
	Recipes RecipesSnapshot `json:"recipes"`
	Fitness FitnessSnapshot `json:"fitness"`
	Goals   GoalsSnapshot   `json:"goals"`
}

func NewDashboard(id string, gen Generator, notifier Notifier) *Dashboard {
	return &Dashboard{
		ID:        id,
		CreatedAt: time.Now(),
		Finance:   NewFinance(gen, notifier),
		Recipes:   NewRecipes(gen, notifier),
		Fitness:   NewFitness(gen, notifier),
		Goals:     NewGoals(gen, notifier),
	}
}

func (d *Dashboard) Snapshot() DashboardSnapshot {
	return DashboardSnapshot{
		ID:      d.ID,
		Finance: d.Finance.Snapshot(),
		Recipes: d.Recipes.Snapshot(),
		Fitness: d.Fitness.Snapshot(),
		Goals:   d.Goals.Snapshot(),
	}
}

// NotifierFactory builds the notifier of a new dashboard. It may return nil.
type NotifierFactory func(dashboardID string) Notifier

/*
Store keeps dashboards in memory, one per browser session. It is bounded:
the least recently used dashboard is evicted, which is the same as the user
reloading the page. Nothing is persisted.
*/
type Store struct {
	mu     sync.Mutex
	cache  *lru.Cache[string, *Dashboard]
	gen    Generator
	notify NotifierFactory
}

func NewStore(size int, gen Generator, notify NotifierFactory) (*Store, error) {
	cache, err := lru.NewWithEvict(size, func(id string, _ *Dashboard) {
		log.Info().Str("dashboard_id", id).Msg("Dashboard evicted from store")
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create dashboard cache: %w", err)
	}
	return &Store{cache: cache, gen: gen, notify: notify}, nil
}

// Get returns an existing dashboard.
func (s *Store) Get(id string) (*Dashboard, bool) {
	return s.cache.Get(id)
}

// GetOrCreate returns the dashboard for id, or a fresh one under a new id
// when id is empty or unknown. created reports the latter.
func (s *Store) GetOrCreate(id string) (d *Dashboard, created bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id != "" {
		if d, ok := s.cache.Get(id); ok {
			return d, false
		}
	}

	id = uuid.NewString()
	var notifier Notifier
	if s.notify != nil {
		notifier = s.notify(id)
	}
	d = NewDashboard(id, s.gen, notifier)
	s.cache.Add(id, d)

	log.Info().Str("dashboard_id", id).Msg("Dashboard created")
	return d, true
}

func (s *Store) Len() int {
	return s.cache.Len()
}
