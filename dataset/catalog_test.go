package dataset

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vegasq/insightq/query"
)

func TestCatalog(t *testing.T) {
	c := NewCatalog()

	courses := &Dataset{ID: "courses", Kind: "courses", Rows: []query.Row{{"courses_avg": query.Number(1)}}}
	rooms := &Dataset{ID: "rooms", Kind: "rooms"}

	require.NoError(t, c.Add(rooms))
	require.NoError(t, c.Add(courses))

	err := c.Add(&Dataset{ID: "courses", Kind: "rooms"})
	assert.True(t, errors.Is(err, ErrExists), "error = %v", err)

	got, err := c.Get("courses")
	require.NoError(t, err)
	assert.Same(t, courses, got)

	assert.Equal(t, []Info{
		{ID: "courses", Kind: "courses", NumRows: 1},
		{ID: "rooms", Kind: "rooms", NumRows: 0},
	}, c.List())

	replacement := &Dataset{ID: "courses", Kind: "courses"}
	c.Put(replacement)
	got, err = c.Get("courses")
	require.NoError(t, err)
	assert.Same(t, replacement, got)

	require.NoError(t, c.Remove("rooms"))
	_, err = c.Get("rooms")
	assert.True(t, errors.Is(err, ErrNotFound), "error = %v", err)
	assert.True(t, errors.Is(c.Remove("rooms"), ErrNotFound))
}

func TestCatalogConcurrentAccess(t *testing.T) {
	c := NewCatalog()
	var wg sync.WaitGroup

	for i := 0; i < 16; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			c.Put(&Dataset{ID: fmt.Sprintf("d%d", i), Kind: "courses"})
		}(i)
		go func() {
			defer wg.Done()
			_ = c.List()
			_, _ = c.Get("d0")
		}()
	}
	wg.Wait()

	assert.Len(t, c.List(), 16)
}
