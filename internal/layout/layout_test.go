package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fp(v float64) *float64 {
	return &v
}

func TestDefaultDescriptorParses(t *testing.T) {
	descriptor, err := Default()
	require.NoError(t, err)
	assert.NotEmpty(t, descriptor)
	assert.GreaterOrEqual(t, descriptor.MaxPage(), 3)

	ein, ok := descriptor["ein"]
	require.True(t, ok)
	assert.True(t, ein.Positional())
	assert.NotEmpty(t, ein.XPositions)
}

func TestParseRejectsPositionalWithoutPages(t *testing.T) {
	_, err := Parse([]byte(`{"business_name": {"x": 60, "y": 90}}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "without pages")
}

func TestParseRejectsBadPageKey(t *testing.T) {
	_, err := Parse([]byte(`{
		"ein": {"pages": [1], "x_positions": [10, 20], "y": 50, "page_positions": {"two": {"y": 80}}}
	}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad page key")
}

func TestParseRejectsEmptyDescriptor(t *testing.T) {
	_, err := Parse([]byte(`{}`))
	assert.Error(t, err)
}

func TestPositionForPageOverride(t *testing.T) {
	field := Field{
		Pages:      []int{1, 2},
		Y:          fp(50),
		XPositions: []float64{10, 20, 30},
		PagePositions: map[string]Position{
			"2": {Y: fp(120)},
		},
	}

	_, y := field.PositionFor(1).Point()
	assert.Equal(t, 50.0, y)
	assert.Equal(t, []float64{10, 20, 30}, field.PositionFor(1).XPositions)

	// override wins for declared members, defaults fill the rest
	over := field.PositionFor(2)
	_, y = over.Point()
	assert.Equal(t, 120.0, y)
	assert.Equal(t, []float64{10, 20, 30}, over.XPositions)
}

// An anchor declared at the template origin is still positional, and an
// explicit zero in a page override beats the field default.
func TestPositionZeroIsPresent(t *testing.T) {
	parsed, err := Parse([]byte(`{
		"corner_mark": {"pages": [1], "x": 0, "y": 0},
		"ein": {"pages": [1, 2], "x": 40, "y": 50, "page_positions": {"2": {"y": 0}}}
	}`))
	require.NoError(t, err)

	mark := parsed["corner_mark"]
	assert.True(t, mark.Positional())
	x, y := mark.PositionFor(1).Point()
	assert.Equal(t, 0.0, x)
	assert.Equal(t, 0.0, y)

	x, y = parsed["ein"].PositionFor(2).Point()
	assert.Equal(t, 40.0, x)
	assert.Equal(t, 0.0, y)
}

func TestOnPage(t *testing.T) {
	field := Field{Pages: []int{1, 3}}
	assert.True(t, field.OnPage(1))
	assert.False(t, field.OnPage(2))
	assert.True(t, field.OnPage(3))
}

func TestStoreReplace(t *testing.T) {
	initial, err := Parse([]byte(`{"business_name": {"pages": [1], "x": 60, "y": 90}}`))
	require.NoError(t, err)
	store := NewStore(initial)

	replacement, err := Parse([]byte(`{"business_name": {"pages": [1], "x": 61, "y": 91}}`))
	require.NoError(t, err)
	require.NoError(t, store.Replace(replacement))
	x, _ := store.Current()["business_name"].PositionFor(1).Point()
	assert.Equal(t, 61.0, x)

	// invalid replacement is rejected and the previous layout survives
	err = store.Replace(Layout{"business_name": {X: fp(5), Y: fp(5)}})
	require.Error(t, err)
	x, _ = store.Current()["business_name"].PositionFor(1).Point()
	assert.Equal(t, 61.0, x)
}
