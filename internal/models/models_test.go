package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func sampleGoal() Goal {
	return Goal{
		ID:          "g1",
		Description: "Learn X",
		Target:      "Build a demo",
		SubTasks: []SubTask{
			{Task: "one"},
			{Task: "two"},
			{Task: "three", Completed: true},
		},
	}
}

func TestGoal_ToggleSubTask(t *testing.T) {
	g := sampleGoal()

	toggled, ok := g.ToggleSubTask(1)

	assert.True(t, ok)
	assert.Equal(t, []SubTask{{Task: "one"}, {Task: "two", Completed: true}, {Task: "three", Completed: true}}, toggled.SubTasks)
	assert.Equal(t, g.ID, toggled.ID)
	assert.Equal(t, g.Description, toggled.Description)
	assert.Equal(t, g.Target, toggled.Target)
	assert.Equal(t, g.Deadline, toggled.Deadline)

	// The receiver is left untouched.
	assert.False(t, g.SubTasks[1].Completed)
}

func TestGoal_ToggleSubTaskTwiceRestores(t *testing.T) {
	g := sampleGoal()

	once, _ := g.ToggleSubTask(2)
	twice, _ := once.ToggleSubTask(2)

	assert.Equal(t, g, twice)
}

func TestGoal_ToggleSubTaskOutOfRange(t *testing.T) {
	g := sampleGoal()

	for _, idx := range []int{-1, 3, 100} {
		out, ok := g.ToggleSubTask(idx)
		assert.False(t, ok)
		assert.Equal(t, g, out)
	}
}

func TestGoal_CloneIsDeep(t *testing.T) {
	g := sampleGoal()
	c := g.Clone()
	c.SubTasks[0].Completed = true

	assert.False(t, g.SubTasks[0].Completed)
	assert.NotNil(t, Goal{}.Clone().SubTasks)
}
