package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Priority is ordered so that a larger value is more urgent.
type Priority int8

const (
	PriorityLow Priority = iota + 1
	PriorityMedium
	PriorityHigh
)

const DefaultPriority = PriorityMedium

var ErrInvalidPriority = errors.New("priority must be one of: High, Medium, Low")

var Priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "Low"
	case PriorityMedium:
		return "Medium"
	case PriorityHigh:
		return "High"
	default:
		return fmt.Sprintf("Priority(%d)", int8(p))
	}
}

func (p Priority) Valid() bool {
	return p >= PriorityLow && p <= PriorityHigh
}

// ParsePriority accepts any casing of High, Medium or Low.
func ParsePriority(value string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "low":
		return PriorityLow, nil
	case "medium":
		return PriorityMedium, nil
	case "high":
		return PriorityHigh, nil
	default:
		return 0, ErrInvalidPriority
	}
}

func (p Priority) MarshalJSON() ([]byte, error) {
	if !p.Valid() {
		return nil, ErrInvalidPriority
	}

	return json.Marshal(p.String()) //nolint:wrapcheck
}

func (p *Priority) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decoding priority: %w", err)
	}

	parsed, err := ParsePriority(raw)
	if err != nil {
		return err
	}

	*p = parsed

	return nil
}

// Value stores the priority as its canonical name.
func (p Priority) Value() (driver.Value, error) {
	if !p.Valid() {
		return nil, ErrInvalidPriority
	}

	return p.String(), nil
}

func (p *Priority) Scan(src any) error {
	var raw string

	switch v := src.(type) {
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("cannot scan %T into Priority", src)
	}

	parsed, err := ParsePriority(raw)
	if err != nil {
		return err
	}

	*p = parsed

	return nil
}
