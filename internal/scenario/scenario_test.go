// File: internal/scenario/scenario_test.go
package scenario

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestByIndexBounds(t *testing.T) {
	for _, n := range []int{0, -1, len(scenarios) + 1} {
		_, err := ByIndex(n)
		assert.Error(t, err, "index %d", n)
	}

	first, err := ByIndex(1)
	require.NoError(t, err)
	assert.Equal(t, scenarios[0].Name, first.Name)

	last, err := ByIndex(len(scenarios))
	require.NoError(t, err)
	assert.Equal(t, scenarios[len(scenarios)-1].Name, last.Name)
}

func TestListIsACopy(t *testing.T) {
	list := List()
	require.NotEmpty(t, list)
	list[0].Name = "mutated"
	assert.NotEqual(t, "mutated", scenarios[0].Name)
}

func TestScenariosAreComplete(t *testing.T) {
	for i, sc := range List() {
		assert.NotEmpty(t, sc.Name, "scenario %d", i+1)
		assert.NotEmpty(t, sc.TaskPrompt, "scenario %d", i+1)
	}
}
