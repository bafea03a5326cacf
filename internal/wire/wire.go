// Package wire implements the request/response framing the request server
// speaks: the same self-framing JSON used by segment records, one request
// per connection.
package wire

import (
	"fmt"
	"io"

	"github.com/ignitedb/ignite/internal/codec"
)

// GetRequest asks for the value stored under Key.
type GetRequest struct {
	Key string `json:"key"`
}

// SetRequest stores Value under Key.
type SetRequest struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// RemoveRequest deletes Key.
type RemoveRequest struct {
	Key string `json:"key"`
}

// Request is one of Get, Set, or Remove. Exactly one field is set.
type Request struct {
	Get    *GetRequest    `json:"Get,omitempty"`
	Set    *SetRequest    `json:"Set,omitempty"`
	Remove *RemoveRequest `json:"Remove,omitempty"`
}

// NewGetRequest builds a Get request.
func NewGetRequest(key string) Request {
	return Request{Get: &GetRequest{Key: key}}
}

// NewSetRequest builds a Set request.
func NewSetRequest(key, value string) Request {
	return Request{Set: &SetRequest{Key: key, Value: value}}
}

// NewRemoveRequest builds a Remove request.
func NewRemoveRequest(key string) Request {
	return Request{Remove: &RemoveRequest{Key: key}}
}

// GetResponse answers a Get request: Value is set only when Found is true.
type GetResponse struct {
	Found bool   `json:"found"`
	Value string `json:"value,omitempty"`
	Err   string `json:"err,omitempty"`
}

// SetResponse answers a Set request.
type SetResponse struct {
	Err string `json:"err,omitempty"`
}

// RemoveResponse answers a Remove request.
type RemoveResponse struct {
	Err string `json:"err,omitempty"`
}

// OkGetResponse reports a successful lookup, found or not.
func OkGetResponse(value string, found bool) GetResponse {
	return GetResponse{Found: found, Value: value}
}

// ErrGetResponse reports a failed Get.
func ErrGetResponse(msg string) GetResponse {
	return GetResponse{Err: msg}
}

// ErrSetResponse reports a failed Set. The zero SetResponse is the Ok case.
func ErrSetResponse(msg string) SetResponse {
	return SetResponse{Err: msg}
}

// ErrRemoveResponse reports a failed Remove. The zero RemoveResponse is the
// Ok case.
func ErrRemoveResponse(msg string) RemoveResponse {
	return RemoveResponse{Err: msg}
}

// EncodeRequest writes req to w using the shared self-framing encoding.
func EncodeRequest(w io.Writer, req Request) error {
	_, err := codec.Encode(w, req)
	return err
}

// DecodeRequest reads exactly one Request from r.
func DecodeRequest(r io.Reader) (Request, error) {
	var req Request
	if err := codec.DecodeOne(r, &req); err != nil {
		return Request{}, fmt.Errorf("decoding request: %w", err)
	}
	return req, nil
}

// EncodeGetResponse, EncodeSetResponse, EncodeRemoveResponse write the
// corresponding response using the shared self-framing encoding.

func EncodeGetResponse(w io.Writer, resp GetResponse) error {
	_, err := codec.Encode(w, resp)
	return err
}

func EncodeSetResponse(w io.Writer, resp SetResponse) error {
	_, err := codec.Encode(w, resp)
	return err
}

func EncodeRemoveResponse(w io.Writer, resp RemoveResponse) error {
	_, err := codec.Encode(w, resp)
	return err
}

// DecodeGetResponse, DecodeSetResponse, DecodeRemoveResponse read exactly
// one response of the corresponding type from r.

func DecodeGetResponse(r io.Reader) (GetResponse, error) {
	var resp GetResponse
	err := codec.DecodeOne(r, &resp)
	return resp, err
}

func DecodeSetResponse(r io.Reader) (SetResponse, error) {
	var resp SetResponse
	err := codec.DecodeOne(r, &resp)
	return resp, err
}

func DecodeRemoveResponse(r io.Reader) (RemoveResponse, error) {
	var resp RemoveResponse
	err := codec.DecodeOne(r, &resp)
	return resp, err
}
