package mstring

import (
	"sync"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countReleases(t *testing.T) *int {
	count := 0
	releaseHook = func(*String) { count++ }
	t.Cleanup(func() { releaseHook = nil })
	return &count
}

func TestOwnedRefcountExactness(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "domfront.mstring")
	defer teardown()
	//
	count := countReleases(t)
	s := FromOwned([]byte("hello"))
	s.Retain()
	s.Retain()
	assert.Equal(t, 3, s.Refs())
	s.Release()
	s.Release()
	assert.Equal(t, 0, *count, "release strategy invoked before the last release")
	assert.False(t, s.Released())
	s.Release()
	assert.Equal(t, 1, *count, "expected release strategy to run exactly once")
	assert.True(t, s.Released())
}

func TestForeignRelease(t *testing.T) {
	buf := []byte("foreign text")
	var handedBack [][]byte
	s := FromForeign(buf, func(b []byte) {
		handedBack = append(handedBack, b)
	})
	require.Equal(t, "foreign text", s.String())
	require.Equal(t, Foreign, s.Strategy())
	s.Retain().Release()
	require.Empty(t, handedBack)
	s.Release()
	require.Len(t, handedBack, 1)
	assert.Same(t, &buf[0], &handedBack[0][0], "expected the original buffer to be handed back")
}

func TestConstantNeverFreed(t *testing.T) {
	count := countReleases(t)
	s := FromConstant("div")
	assert.Equal(t, Constant, s.Strategy())
	s.Release()
	assert.Equal(t, 1, *count) // strategy dispatched, but it is a no-op
	assert.True(t, s.Released())
}

func TestReleasePastZeroPanics(t *testing.T) {
	s := FromDuplicate("x")
	s.Release()
	assert.Panics(t, func() { s.Release() })
}

func TestRetainOfReleasedPanics(t *testing.T) {
	s := FromDuplicate("x")
	s.Release()
	assert.Panics(t, func() { s.Retain() })
}

func TestUseAfterReleasePanics(t *testing.T) {
	s := FromDuplicateBytes([]byte("gone"))
	s.Release()
	assert.Panics(t, func() { _ = s.String() })
}

func TestDuplicateCopies(t *testing.T) {
	buf := []byte("abc")
	s := FromDuplicateBytes(buf)
	buf[0] = 'x'
	assert.Equal(t, "abc", s.String())
}

func TestConcat(t *testing.T) {
	a, b := FromConstant("one "), FromDuplicate("two")
	c := Concat(a, b)
	assert.Equal(t, "one two", c.String())
	assert.Equal(t, Owned, c.Strategy())
	assert.Equal(t, 1, a.Refs())
	assert.True(t, c.Equal(FromConstant("one two")))
	assert.False(t, c.Equal(nil))
}

func TestConcurrentRefcount(t *testing.T) {
	count := countReleases(t)
	s := FromDuplicate("shared")
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				s.Retain()
				s.Release()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, s.Refs())
	assert.Equal(t, 0, *count)
	s.Release()
	assert.Equal(t, 1, *count)
}
