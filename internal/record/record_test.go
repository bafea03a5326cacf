package record

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignitedb/ignite/internal/codec"
)

func TestSetRecordRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	_, err := codec.Encode(&buf, NewSet("a", "1"))
	require.NoError(t, err)

	var got Record
	require.NoError(t, codec.DecodeOne(&buf, &got))

	assert.True(t, got.IsSet())
	require.NotNil(t, got.Set)
	assert.Equal(t, "a", got.Set.Key)
	assert.Equal(t, "1", got.Set.Value)
	assert.Nil(t, got.Remove)

	key, err := got.Key()
	require.NoError(t, err)
	assert.Equal(t, "a", key)
}

func TestRemoveRecordRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	_, err := codec.Encode(&buf, NewRemove("a"))
	require.NoError(t, err)

	var got Record
	require.NoError(t, codec.DecodeOne(&buf, &got))

	assert.False(t, got.IsSet())
	require.NotNil(t, got.Remove)
	assert.Equal(t, "a", got.Remove.Key)
	assert.Nil(t, got.Set)
}

func TestEmptyKeyAndValue(t *testing.T) {
	var buf bytes.Buffer
	_, err := codec.Encode(&buf, NewSet("", ""))
	require.NoError(t, err)

	var got Record
	require.NoError(t, codec.DecodeOne(&buf, &got))
	assert.True(t, got.IsSet())
	assert.Equal(t, "", got.Set.Key)
	assert.Equal(t, "", got.Set.Value)
}

func TestKeyOnZeroValueErrors(t *testing.T) {
	var r Record
	_, err := r.Key()
	assert.Error(t, err)
}
