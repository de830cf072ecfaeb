package kv

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backends(t *testing.T) map[string]Store {
	t.Helper()
	disk, err := NewDisk(t.TempDir())
	require.NoError(t, err)
	return map[string]Store{
		"memory": NewMemory(),
		"disk":   disk,
	}
}

func TestStore_RoundTrip(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Set("focus_sessions", []byte(`[]`)))

			got, err := s.Get("focus_sessions")
			require.NoError(t, err)
			assert.Equal(t, `[]`, string(got))

			require.NoError(t, s.Set("focus_sessions", []byte(`[1]`)))
			got, err = s.Get("focus_sessions")
			require.NoError(t, err)
			assert.Equal(t, `[1]`, string(got))
		})
	}
}

func TestStore_GetMissing(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Get("nope")
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrNotFound)
			assert.Equal(t, KindNotFound, KindOf(err))
		})
	}
}

func TestStore_RemoveIsIdempotent(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Set("k", []byte("v")))
			require.NoError(t, s.Remove("k"))
			require.NoError(t, s.Remove("k"))

			_, err := s.Get("k")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestDisk_PersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()
	a, err := NewDisk(dir)
	require.NoError(t, err)
	require.NoError(t, a.Set("selected_apps_for_focus", []byte(`["a"]`)))

	b, err := NewDisk(dir)
	require.NoError(t, err)
	got, err := b.Get("selected_apps_for_focus")
	require.NoError(t, err)
	assert.Equal(t, `["a"]`, string(got))
}

func TestMemory_CopiesValues(t *testing.T) {
	m := NewMemory()
	buf := []byte("abc")
	require.NoError(t, m.Set("k", buf))
	buf[0] = 'z'

	got, err := m.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}

func TestJSONHelpers(t *testing.T) {
	m := NewMemory()
	require.NoError(t, SetJSON(m, "ids", []string{"a", "b"}))

	var ids []string
	require.NoError(t, GetJSON(m, "ids", &ids))
	assert.Equal(t, []string{"a", "b"}, ids)

	require.NoError(t, m.Set("bad", []byte("{not json")))
	err := GetJSON(m, "bad", &ids)
	require.Error(t, err)
	assert.Equal(t, KindDecode, KindOf(err))
}

func TestError_Format(t *testing.T) {
	cause := errors.New("disk full")
	err := WriteError("focus_sessions", cause)
	assert.Equal(t, `kv write "focus_sessions": disk full`, err.Error())
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Equal(t, Kind(""), KindOf(cause))
}
