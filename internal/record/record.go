// Package record defines the self-framing log entry written to segment
// files: either a key/value Set or a key-only Remove.
package record

import "fmt"

// SetRecord captures a key/value write.
type SetRecord struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// RemoveRecord captures a key deletion.
type RemoveRecord struct {
	Key string `json:"key"`
}

// Record is one of Set or Remove, matching the segment file's
// `{"Set":{...}}` / `{"Remove":{...}}` framing. Exactly one field is set.
type Record struct {
	Set    *SetRecord    `json:"Set,omitempty"`
	Remove *RemoveRecord `json:"Remove,omitempty"`
}

// NewSet builds a Set record.
func NewSet(key, value string) Record {
	return Record{Set: &SetRecord{Key: key, Value: value}}
}

// NewRemove builds a Remove record.
func NewRemove(key string) Record {
	return Record{Remove: &RemoveRecord{Key: key}}
}

// Key returns the record's key regardless of variant.
func (r Record) Key() (string, error) {
	switch {
	case r.Set != nil:
		return r.Set.Key, nil
	case r.Remove != nil:
		return r.Remove.Key, nil
	default:
		return "", fmt.Errorf("record has neither Set nor Remove variant")
	}
}

// IsSet reports whether the record is a Set variant.
func (r Record) IsSet() bool {
	return r.Set != nil
}
