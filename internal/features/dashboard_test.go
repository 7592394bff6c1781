package features

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_GetOrCreate(t *testing.T) {
	s, err := NewStore(4, &fakeGenerator{}, nil)
	require.NoError(t, err)

	d, created := s.GetOrCreate("")
	require.True(t, created)
	assert.NotEmpty(t, d.ID)

	same, created := s.GetOrCreate(d.ID)
	assert.False(t, created)
	assert.Same(t, d, same)

	other, created := s.GetOrCreate("unknown-id")
	assert.True(t, created)
	assert.NotEqual(t, "unknown-id", other.ID)
	assert.Equal(t, 2, s.Len())
}

func TestStore_EvictsLeastRecentlyUsed(t *testing.T) {
	s, err := NewStore(1, &fakeGenerator{}, nil)
	require.NoError(t, err)

	first, _ := s.GetOrCreate("")
	second, _ := s.GetOrCreate("")

	_, ok := s.Get(first.ID)
	assert.False(t, ok)
	got, ok := s.Get(second.ID)
	assert.True(t, ok)
	assert.Same(t, second, got)
}

func TestNewStore_InvalidSize(t *testing.T) {
	_, err := NewStore(0, &fakeGenerator{}, nil)
	assert.Error(t, err)
}

func TestDashboard_FeatureAreasAreIsolated(t *testing.T) {
	gen := &fakeGenerator{err: errTransport}
	perDashboard := map[string]*recordingNotifier{}
	s, err := NewStore(4, gen, func(id string) Notifier {
		n := &recordingNotifier{}
		perDashboard[id] = n
		return n
	})
	require.NoError(t, err)

	d, _ := s.GetOrCreate("")
	_, err = d.Finance.AddExpense("Food", 12)
	require.NoError(t, err)

	call, err := d.Recipes.Generate(context.Background(), "eggs", "")
	require.NoError(t, err)
	assert.Error(t, wait(t, call))

	snap := d.Snapshot()
	assert.Equal(t, d.ID, snap.ID)
	assert.Equal(t, recipesFailureMessage, snap.Recipes.Error)
	assert.Empty(t, snap.Finance.Error)
	assert.Empty(t, snap.Fitness.Error)
	assert.Empty(t, snap.Goals.Error)
	assert.Len(t, snap.Finance.Expenses, 1)

	events := perDashboard[d.ID].all()
	require.Len(t, events, 1)
	assert.Equal(t, FeatureRecipes, events[0].feature)
}

func TestDashboard_ConcurrentFeatureGenerations(t *testing.T) {
	gen := &fakeGenerator{raw: adviceJSON, block: make(chan struct{})}
	d := NewDashboard("d1", gen, nil)

	adviceCall, err := d.Finance.RequestAdvice(context.Background())
	require.NoError(t, err)
	planCall, err := d.Fitness.GeneratePlan(context.Background())
	require.NoError(t, err)

	assert.True(t, d.Finance.Snapshot().Loading)
	assert.True(t, d.Fitness.Snapshot().Loading)

	close(gen.block)
	assert.NoError(t, wait(t, adviceCall))
	// The advice reply does not fit the fitness schema.
	assert.Error(t, wait(t, planCall))
}
