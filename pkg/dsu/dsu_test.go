package dsu_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edp1096/toy-circuit/pkg/dsu"
)

func TestSingletons(t *testing.T) {
	d := dsu.New(4)
	require.Equal(t, 4, d.Len())
	assert.Equal(t, 4, d.Sets())
	for i := 0; i < 4; i++ {
		assert.Equal(t, i, d.Find(i))
	}
}

func TestUnionTransitive(t *testing.T) {
	d := dsu.New(6)

	assert.True(t, d.Union(0, 1))
	assert.True(t, d.Union(2, 3))
	assert.True(t, d.Union(1, 3))
	assert.False(t, d.Union(0, 2), "already joined through 1-3")

	assert.True(t, d.Same(0, 3))
	assert.False(t, d.Same(0, 4))
	assert.Equal(t, 3, d.Sets())
}

func TestLongChainCompresses(t *testing.T) {
	const n = 1000
	d := dsu.New(n)
	for i := 1; i < n; i++ {
		d.Union(i-1, i)
	}
	root := d.Find(n - 1)
	for i := 0; i < n; i++ {
		require.Equal(t, root, d.Find(i))
	}
	assert.Equal(t, 1, d.Sets())
}

func TestEmpty(t *testing.T) {
	d := dsu.New(0)
	assert.Equal(t, 0, d.Sets())
	assert.Equal(t, 0, d.Len())
}
