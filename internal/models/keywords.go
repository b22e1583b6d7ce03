package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

const (
	MinKeywords = 2
	MaxKeywords = 5
)

// ErrInvalidKeywords is returned when a keyword list has the wrong size.
var ErrInvalidKeywords = errors.New("invalid keywords")

// Keywords is the validated keyword list attached to a card. It is either
// empty or holds between MinKeywords and MaxKeywords entries.
type Keywords []string

// NewKeywords trims the given words, drops blanks and validates the count.
func NewKeywords(words ...string) (Keywords, error) {
	out := make(Keywords, 0, len(words))
	for _, w := range words {
		if w = strings.TrimSpace(w); w != "" {
			out = append(out, w)
		}
	}
	if err := out.Validate(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}

// ParseKeywords splits a comma separated list, e.g. "noun, plural".
func ParseKeywords(s string) (Keywords, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	return NewKeywords(strings.Split(s, ",")...)
}

// Validate checks the size bound.
func (k Keywords) Validate() error {
	if len(k) == 0 {
		return nil
	}
	if len(k) < MinKeywords || len(k) > MaxKeywords {
		return fmt.Errorf("%w: need %d-%d keywords, got %d", ErrInvalidKeywords, MinKeywords, MaxKeywords, len(k))
	}
	return nil
}

func (k Keywords) String() string {
	return strings.Join(k, ", ")
}

// MarshalJSON renders an empty list as [] rather than null.
func (k Keywords) MarshalJSON() ([]byte, error) {
	if k == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(k))
}

// Value stores the keywords as a JSON array.
func (k Keywords) Value() (driver.Value, error) {
	if len(k) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal([]string(k))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan reads a JSON array column and re-validates it.
func (k *Keywords) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*k = nil
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("keywords: unsupported column type %T", src)
	}

	var words []string
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &words); err != nil {
			return fmt.Errorf("keywords: %w", err)
		}
	}
	parsed, err := NewKeywords(words...)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
