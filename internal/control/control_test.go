package control

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClampsInitialValue(t *testing.T) {
	d := New(Integer, -100, 100, 1, 500)
	require.Equal(t, int64(100), d.Value())

	d = New(Integer, -100, 100, 1, -500)
	require.Equal(t, int64(-100), d.Value())
}

func TestSetClampsAndReportsLimit(t *testing.T) {
	d := New(Integer, 0, 10, 1, 5)

	changed, atLimit := d.Set(20)
	assert.True(t, changed)
	assert.True(t, atLimit)
	assert.Equal(t, int64(10), d.Value())

	changed, atLimit = d.Set(10)
	assert.False(t, changed)
	assert.True(t, atLimit)
}

func TestAddClamp(t *testing.T) {
	d := New(Integer, -10, 10, 1, 8)
	changed, atLimit := d.Add(5)
	assert.True(t, changed)
	assert.True(t, atLimit)
	assert.Equal(t, int64(10), d.Value())
}

func TestBoolean(t *testing.T) {
	d := New(Boolean, 0, 1, 1, 1)
	assert.True(t, d.Bool())
	d.SetBool(false)
	assert.False(t, d.Bool())
	assert.Equal(t, int64(0), d.Value())
}

func TestClampInvariantAcrossSequence(t *testing.T) {
	d := New(Integer, -612000, 612000, 1, 0)
	deltas := []int64{700000, -2000000, 300000, 1000000, -5}
	for _, delta := range deltas {
		d.Add(delta)
		assert.GreaterOrEqual(t, d.Value(), d.Min)
		assert.LessOrEqual(t, d.Value(), d.Max)
	}
}
