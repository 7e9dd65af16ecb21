package main

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPlan(t *testing.T) {
	p := newPlan(rand.New(rand.NewSource(42)))

	assert.Len(t, p.Authors, 10)
	assert.Len(t, p.Categories, 10)
	require.Len(t, p.Books, 83)

	titles := map[string]bool{}
	for _, b := range p.Books {
		assert.False(t, titles[b.Name], "duplicate title %q", b.Name)
		titles[b.Name] = true

		assert.GreaterOrEqual(t, b.Author, 0)
		assert.Less(t, b.Author, len(p.Authors))

		require.GreaterOrEqual(t, len(b.Categories), 1)
		require.LessOrEqual(t, len(b.Categories), 3)
		seen := map[int]bool{}
		for _, c := range b.Categories {
			assert.False(t, seen[c], "category repeated in %q", b.Name)
			seen[c] = true
		}
	}
}

func TestNewPlan_Deterministic(t *testing.T) {
	assert.Equal(t, newPlan(rand.New(rand.NewSource(7))), newPlan(rand.New(rand.NewSource(7))))
}

func TestUniqueNames_FallsBackToNumbering(t *testing.T) {
	names := uniqueNames(rand.New(rand.NewSource(1)), 3, func() string { return "Same" })
	assert.Equal(t, []string{"Same", "Same 2", "Same 3"}, names)
}
