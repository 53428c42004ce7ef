package window

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBound() Bound {
	return Bound{Min: EarliestDate, Max: "2025-10-19"}
}

func TestNewSelector_ClampsInitialRange(t *testing.T) {
	s := NewSelector(testBound(), DefaultSpan, Range{Start: "1980-01-01", End: "2030-01-01"})
	assert.Equal(t, Range{Start: EarliestDate, End: "2025-10-19"}, s.Range())

	s = NewSelector(testBound(), DefaultSpan, Range{Start: "2025-09-18", End: "2025-09-01"})
	assert.Equal(t, Range{Start: "2025-09-18", End: "2025-09-18"}, s.Range())
}

func TestNewSelector_KeepsDefaultRange(t *testing.T) {
	s := NewSelector(testBound(), DefaultSpan, Range{Start: "2025-09-18", End: "2025-10-01"})
	assert.Equal(t, Range{Start: "2025-09-18", End: "2025-10-01"}, s.Range())
}

func TestSelector_SetStartRecomputesEnd(t *testing.T) {
	s := NewSelector(testBound(), DefaultSpan, Range{Start: "2025-09-18", End: "2025-10-01"})

	var seen []Range
	s.OnChange(func(r Range) { seen = append(seen, r) })

	require.NoError(t, s.SetStart("2025-09-20"))
	assert.Equal(t, Range{Start: "2025-09-20", End: "2025-09-28"}, s.Range())

	require.NoError(t, s.SetStart("2025-10-18"))
	assert.Equal(t, Range{Start: "2025-10-18", End: "2025-10-19"}, s.Range())

	require.Len(t, seen, 2)
	assert.Equal(t, "2025-09-28", seen[0].End)
	assert.Equal(t, "2025-10-19", seen[1].End)
}

func TestSelector_SetStartHonorsCustomSpan(t *testing.T) {
	s := NewSelector(testBound(), 3, Range{})
	require.NoError(t, s.SetStart("2025-09-18"))
	assert.Equal(t, Range{Start: "2025-09-18", End: "2025-09-20"}, s.Range())
	assert.Equal(t, 3, s.Span())
}

func TestSelector_SetStartInvalid(t *testing.T) {
	s := NewSelector(testBound(), DefaultSpan, Range{Start: "2025-09-18", End: "2025-09-26"})
	called := false
	s.OnChange(func(Range) { called = true })

	assert.Error(t, s.SetStart("yesterday"))
	assert.False(t, called)
	assert.Equal(t, Range{Start: "2025-09-18", End: "2025-09-26"}, s.Range())
}

func TestSelector_SetStartEmptyLeavesRangeIncomplete(t *testing.T) {
	s := NewSelector(testBound(), DefaultSpan, Range{Start: "2025-09-18", End: "2025-09-26"})
	require.NoError(t, s.SetStart(""))
	assert.False(t, s.Range().IsComplete())
}

func TestSelector_SetEnd(t *testing.T) {
	s := NewSelector(testBound(), DefaultSpan, Range{Start: "2025-09-18", End: "2025-09-26"})

	require.NoError(t, s.SetEnd("2025-09-19"))
	assert.Equal(t, "2025-09-19", s.Range().End)

	require.NoError(t, s.SetEnd("2031-01-01"))
	assert.Equal(t, "2025-10-19", s.Range().End)

	assert.Error(t, s.SetEnd("2025-09-01"))
	assert.Equal(t, "2025-10-19", s.Range().End)
}

func TestSelector_SetStartNotifiesEveryListener(t *testing.T) {
	s := NewSelector(testBound(), DefaultSpan, Range{Start: "2025-09-18", End: "2025-09-26"})

	var first, second []Range
	s.OnChange(func(r Range) { first = append(first, r) })
	s.OnChange(func(r Range) { second = append(second, r) })

	require.NoError(t, s.SetStart("2025-09-01"))

	want := []Range{{Start: "2025-09-01", End: "2025-09-09"}}
	assert.Equal(t, want, first)
	assert.Equal(t, want, second)
}

func TestSelector_ListenerMayRegisterAnother(t *testing.T) {
	s := NewSelector(testBound(), DefaultSpan, Range{})

	late := 0
	s.OnChange(func(Range) {
		s.OnChange(func(Range) { late++ })
	})

	require.NoError(t, s.SetStart("2025-09-01"))
	assert.Equal(t, 0, late, "listeners added during a notification wait for the next change")

	require.NoError(t, s.SetStart("2025-09-02"))
	assert.Equal(t, 1, late)
}

func TestSelector_NonPositiveSpanMatchesDeriveEnd(t *testing.T) {
	for _, span := range []int{0, -3} {
		s := NewSelector(testBound(), span, Range{})
		require.NoError(t, s.SetStart("2025-09-18"))

		want, err := DeriveEnd("2025-09-18", testBound(), span)
		require.NoError(t, err)
		assert.Equal(t, want, s.Range().End, "span %d", span)
		assert.Equal(t, Range{Start: "2025-09-18", End: "2025-09-18"}, s.Range())
		assert.Equal(t, 1, s.Span())
	}
}
