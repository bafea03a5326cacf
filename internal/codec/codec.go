// Package codec implements the self-framing JSON encoding shared by segment
// records and the wire protocol: pretty-printed JSON objects back to back,
// with a streaming decoder that reports the byte offset before and after
// each value so callers can derive (offset, length) without rereading.
package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// Encode serializes v as an indented JSON object followed by a newline.
// The exact indentation is not load-bearing for decoding — DecodeStream
// locates boundaries from the JSON grammar itself — but pretty-printing
// makes segment files and wire captures readable in a terminal.
func Encode(w io.Writer, v any) ([]byte, error) {
	buf, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding record: %w", err)
	}
	buf = append(buf, '\n')

	if _, err := w.Write(buf); err != nil {
		return nil, fmt.Errorf("writing encoded record: %w", err)
	}
	return buf, nil
}

// DecodeOne decodes exactly one value of type v from r.
func DecodeOne(r io.Reader, v any) error {
	return json.NewDecoder(r).Decode(v)
}

// DecodeStream reads consecutive JSON values of type T from r, invoking fn
// with the byte offset of the first byte of each value, the offset of the
// byte following it, and the decoded value. It stops at the first value it
// cannot decode — which callers treat as the effective end of the stream,
// since a half-written trailing record is expected after an unclean
// shutdown and must not prevent loading the records that precede it.
func DecodeStream[T any](r io.Reader, fn func(start, end int64, value T) error) error {
	dec := json.NewDecoder(r)

	for dec.More() {
		start := dec.InputOffset()

		var value T
		if err := dec.Decode(&value); err != nil {
			if err == io.EOF {
				return nil
			}
			return &DecodeError{Offset: start, Err: err}
		}

		end := dec.InputOffset()
		if err := fn(start, end, value); err != nil {
			return err
		}
	}

	return nil
}

// DecodeError reports a decode failure at a specific byte offset, used by
// DecodeStream to tell callers where a malformed or truncated record began.
type DecodeError struct {
	Offset int64
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding record at offset %d: %v", e.Offset, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// DecodeBounded decodes exactly one value of type T from a length-bounded
// slice, returning an error if trailing garbage follows the value within
// that slice. This backs the reader pool's positional reads, where the
// caller already knows the record's exact byte length from its locator.
func DecodeBounded[T any](b []byte) (T, error) {
	var value T
	dec := json.NewDecoder(bytes.NewReader(b))
	if err := dec.Decode(&value); err != nil {
		return value, fmt.Errorf("decoding bounded record: %w", err)
	}
	if dec.More() {
		return value, fmt.Errorf("decoding bounded record: trailing data after value")
	}
	return value, nil
}
