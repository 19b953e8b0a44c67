package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_GetReusesView(t *testing.T) {
	r := NewRegistry(returning(nil, nil), time.Hour)

	a := r.Get("s1", "t1")
	b := r.Get("s1", "t2")
	c := r.Get("s2", "t3")

	assert.Same(t, a, b)
	assert.NotSame(t, a, c)
	assert.Equal(t, 2, r.Len())
}

func TestRegistry_Discard(t *testing.T) {
	r := NewRegistry(returning(nil, nil), time.Hour)
	first := r.Get("s1", "t")

	r.Discard("s1")
	r.Discard("missing")

	assert.Equal(t, 0, r.Len())
	assert.NotSame(t, first, r.Get("s1", "t"))
}

func TestRegistry_PrunesIdleViews(t *testing.T) {
	r := NewRegistry(returning(nil, nil), time.Minute)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return now }

	r.Get("stale", "t")
	now = now.Add(2 * time.Minute)
	r.Get("fresh", "t")

	assert.Equal(t, 1, r.Len())
}

func TestRegistry_RevisitPrunesOtherIdleViews(t *testing.T) {
	r := NewRegistry(returning(nil, nil), time.Minute)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return now }

	stale := r.Get("stale", "t")
	r.Get("steady", "t")
	require.Equal(t, 2, r.Len())

	// Only an existing session comes back; no new view is created
	now = now.Add(45 * time.Second)
	r.Get("steady", "t")
	now = now.Add(45 * time.Second)
	r.Get("steady", "t")

	assert.Equal(t, 1, r.Len())
	assert.NotSame(t, stale, r.Get("stale", "t"))
}
