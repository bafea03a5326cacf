package codec

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testValue struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

func TestEncodeDecodeOne(t *testing.T) {
	var buf bytes.Buffer
	want := testValue{Key: "a", Value: "1"}

	_, err := Encode(&buf, want)
	require.NoError(t, err)

	var got testValue
	require.NoError(t, DecodeOne(&buf, &got))
	assert.Equal(t, want, got)
}

func TestDecodeStreamReportsOffsets(t *testing.T) {
	var buf bytes.Buffer
	values := []testValue{
		{Key: "a", Value: "1"},
		{Key: "b", Value: "2"},
		{Key: "c", Value: "3"},
	}
	for _, v := range values {
		_, err := Encode(&buf, v)
		require.NoError(t, err)
	}

	full := buf.Bytes()

	var got []testValue
	var starts, ends []int64
	err := DecodeStream(bytes.NewReader(full), func(start, end int64, value testValue) error {
		got = append(got, value)
		starts = append(starts, start)
		ends = append(ends, end)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, values, got)

	require.Len(t, starts, 3)
	for i := range starts {
		assert.Greater(t, ends[i], starts[i])
		segment := full[starts[i]:ends[i]]
		v, err := DecodeBounded[testValue](segment)
		require.NoError(t, err)
		assert.Equal(t, values[i], v)
	}
}

func TestDecodeStreamStopsCleanlyOnTruncatedTail(t *testing.T) {
	var buf bytes.Buffer
	_, err := Encode(&buf, testValue{Key: "a", Value: "1"})
	require.NoError(t, err)
	_, err = Encode(&buf, testValue{Key: "b", Value: "2"})
	require.NoError(t, err)

	full := buf.Bytes()
	truncated := full[:len(full)-5] // cut off mid-second-record

	var got []testValue
	err = DecodeStream(bytes.NewReader(truncated), func(start, end int64, value testValue) error {
		got = append(got, value)
		return nil
	})

	require.Error(t, err)
	var decErr *DecodeError
	require.ErrorAs(t, err, &decErr)
	assert.Equal(t, []testValue{{Key: "a", Value: "1"}}, got)
}

func TestDecodeBoundedRejectsTrailingGarbage(t *testing.T) {
	_, err := DecodeBounded[testValue]([]byte(`{"key":"a","value":"1"} garbage`))
	assert.Error(t, err)
}

func TestDecodeBoundedEmptyStrings(t *testing.T) {
	v, err := DecodeBounded[testValue]([]byte(`{"key":"","value":""}`))
	require.NoError(t, err)
	assert.Equal(t, testValue{}, v)
}

func TestEncodeIsWhitespaceDelimited(t *testing.T) {
	var buf bytes.Buffer
	_, err := Encode(&buf, testValue{Key: "a", Value: "1"})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(buf.String(), "\n"))
}
