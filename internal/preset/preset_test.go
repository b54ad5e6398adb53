package preset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemStoreRecordAndRecover(t *testing.T) {
	s := NewMemStore()

	_, ok, err := s.Recover(0, 1)
	require.NoError(t, err)
	assert.False(t, ok, "expected no row before Record")

	want := Preset{Pan: 18000, Tilt: -10800, Zoom: 4, FocusAuto: true, WBAuto: false, Temperature: 5600}
	require.NoError(t, s.Record(0, 1, want))

	got, ok, err := s.Recover(0, 1)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want, got)
}

func TestMemStoreClearRemovesRow(t *testing.T) {
	s := NewMemStore()
	require.NoError(t, s.Record(0, 1, Preset{Pan: 1}))
	require.NoError(t, s.Clear(0, 1))

	_, ok, err := s.Recover(0, 1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemStoreKeysAreScopedPerCamera(t *testing.T) {
	s := NewMemStore()
	require.NoError(t, s.Record(0, 1, Preset{Pan: 1}))
	require.NoError(t, s.Record(1, 1, Preset{Pan: 2}))

	p0, ok, err := s.Recover(0, 1)
	require.NoError(t, err)
	require.True(t, ok)
	assert.EqualValues(t, 1, p0.Pan)

	p1, ok, err := s.Recover(1, 1)
	require.NoError(t, err)
	require.True(t, ok)
	assert.EqualValues(t, 2, p1.Pan)
}
