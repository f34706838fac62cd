package feed

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pageSet builds a Page func serving fixed pages of ints in order, returning
// a cursor for every page but the last. It counts fetches so tests can
// assert how far pagination ran.
func pageSet(pages [][]int, fetches *int) Page[int] {
	return func(ctx context.Context, cursor string) ([]int, string, error) {
		if fetches != nil {
			*fetches++
		}
		idx := 0
		if cursor != "" {
			if _, err := fmt.Sscanf(cursor, "page-%d", &idx); err != nil {
				return nil, "", fmt.Errorf("bad cursor %q: %w", cursor, err)
			}
		}
		if idx >= len(pages) {
			return nil, "", nil
		}
		next := ""
		if idx+1 < len(pages) {
			next = fmt.Sprintf("page-%d", idx+1)
		}
		return pages[idx], next, nil
	}
}

func identity(v int) (int, bool) { return v, true }

func TestCollect_StopsExactlyAtTarget(t *testing.T) {
	// Two pages of five, target seven: all of page one plus two of page two.
	fetches := 0
	fetch := pageSet([][]int{{1, 2, 3, 4, 5}, {6, 7, 8, 9, 10}}, &fetches)

	got, err := Collect(context.Background(), fetch, identity, nil, 7)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7}, got)
	assert.Equal(t, 2, fetches)
}

func TestCollect_NeverExceedsTarget(t *testing.T) {
	tests := []struct {
		name   string
		pages  [][]int
		target int
		want   int
	}{
		{"single oversized page", [][]int{{1, 2, 3, 4, 5, 6, 7, 8}}, 3, 3},
		{"target equals page size", [][]int{{1, 2, 3}}, 3, 3},
		{"target one", [][]int{{1, 2, 3}}, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Collect(context.Background(), pageSet(tt.pages, nil), identity, nil, tt.target)
			require.NoError(t, err)
			assert.Len(t, got, tt.want)
		})
	}
}

func TestCollect_MidPageStopSkipsRemainingFetches(t *testing.T) {
	// Target satisfied inside page one: page two must never be requested.
	fetches := 0
	fetch := pageSet([][]int{{1, 2, 3, 4, 5}, {6, 7}}, &fetches)

	got, err := Collect(context.Background(), fetch, identity, nil, 2)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, got)
	assert.Equal(t, 1, fetches)
}

func TestCollect_ExhaustionBeforeTargetIsNotAnError(t *testing.T) {
	got, err := Collect(context.Background(), pageSet([][]int{{1, 2}, {3}}, nil), identity, nil, 10)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, got)
}

func TestCollect_EmptyFirstPage(t *testing.T) {
	got, err := Collect(context.Background(), pageSet([][]int{{}}, nil), identity, nil, 5)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCollect_StopsOnMissingCursorEvenWithFullPage(t *testing.T) {
	// A page with items but no next cursor ends pagination.
	fetches := 0
	fetch := func(ctx context.Context, cursor string) ([]int, string, error) {
		fetches++
		return []int{1, 2, 3}, "", nil
	}

	got, err := Collect(context.Background(), fetch, identity, nil, 10)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, got)
	assert.Equal(t, 1, fetches)
}

func TestCollect_PredicateFiltersItems(t *testing.T) {
	even := func(v int) bool { return v%2 == 0 }

	got, err := Collect(context.Background(), pageSet([][]int{{1, 2, 3, 4}, {5, 6, 7, 8}}, nil), identity, even, 3)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 4, 6}, got)
}

func TestCollect_NormalizeDropsInvalidItems(t *testing.T) {
	// Odd values are "invalid" and must be skipped without erroring.
	evenOnly := func(v int) (int, bool) { return v, v%2 == 0 }

	got, err := Collect(context.Background(), pageSet([][]int{{1, 2, 3, 4, 5, 6}}, nil), evenOnly, nil, 10)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 4, 6}, got)
}

func TestCollect_FetchErrorReturnsPartialResult(t *testing.T) {
	boom := errors.New("provider unavailable")
	calls := 0
	fetch := func(ctx context.Context, cursor string) ([]int, string, error) {
		calls++
		if calls == 2 {
			return nil, "", boom
		}
		return []int{1, 2}, "more", nil
	}

	got, err := Collect(context.Background(), fetch, identity, nil, 10)
	require.ErrorIs(t, err, boom)
	assert.Equal(t, []int{1, 2}, got, "items gathered before the failure are kept")
	assert.Equal(t, 2, calls, "no retry after the failing fetch")
}

func TestCollect_NonPositiveTarget(t *testing.T) {
	fetches := 0
	fetch := pageSet([][]int{{1, 2, 3}}, &fetches)

	for _, target := range []int{0, -1} {
		got, err := Collect(context.Background(), fetch, identity, nil, target)
		require.NoError(t, err)
		assert.Nil(t, got)
	}
	assert.Equal(t, 0, fetches, "no fetch for a non-positive target")
}

func TestCollect_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fetches := 0
	got, err := Collect(ctx, pageSet([][]int{{1, 2, 3}}, &fetches), identity, nil, 5)
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, got)
	assert.Equal(t, 0, fetches)
}
