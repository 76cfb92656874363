package model

import "time"

type Metadata struct {
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Touch moves UpdatedAt forward to now. A clock that steps backwards never rewinds it.
func (m *Metadata) Touch(now time.Time) {
	if now.After(m.UpdatedAt) {
		m.UpdatedAt = now
	}
}

// Stamp initialises both timestamps for a freshly created record.
func (m *Metadata) Stamp(now time.Time) {
	m.CreatedAt = now
	m.UpdatedAt = now
}
