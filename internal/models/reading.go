// ABOUTME: Reading model for clinical measurements recorded against a patient.
// ABOUTME: A reading is a named component, its value, and when it was measured.
package models

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Length limits for reading fields, in characters.
const (
	MaxComponentLen = 100
	MaxValueLen     = 255
)

// Reading is one clinical measurement, such as a blood pressure or heart rate.
// PatientID is filled in by the store and is not part of the stored record.
type Reading struct {
	ID         string
	PatientID  string
	Component  string
	Value      string
	MeasuredAt time.Time
}

// NewReadingID returns a generated ID of the form R-1a2b3c4d.
func NewReadingID() string {
	return "R-" + uuid.New().String()[:8]
}

// NewReading creates a Reading with a generated ID, measured now.
func NewReading(component, value string) *Reading {
	return &Reading{
		ID:         NewReadingID(),
		Component:  component,
		Value:      value,
		MeasuredAt: time.Now(),
	}
}

// WithMeasuredAt sets when the reading was taken. A zero time keeps the current value.
func (r *Reading) WithMeasuredAt(t time.Time) *Reading {
	if !t.IsZero() {
		r.MeasuredAt = t
	}
	return r
}

// WithID replaces the generated ID.
func (r *Reading) WithID(id string) *Reading {
	if id != "" {
		r.ID = id
	}
	return r
}

// Clone returns a copy of the reading.
func (r *Reading) Clone() *Reading {
	c := *r
	return &c
}

// String returns a short human-readable form.
func (r *Reading) String() string {
	return fmt.Sprintf("Reading(%s): %s = %s", r.ID, r.Component, r.Value)
}

// Validate checks required fields and their lengths.
func (r *Reading) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return &ValidationError{Field: "reading id", Message: "is required"}
	}
	if err := validateText("component", r.Component, MaxComponentLen); err != nil {
		return err
	}
	if err := validateText("value", r.Value, MaxValueLen); err != nil {
		return err
	}
	if r.MeasuredAt.IsZero() {
		return &ValidationError{Field: "measured_at", Message: "is required"}
	}
	return nil
}

// Apply applies the fields present in u and reports whether anything was applied.
func (r *Reading) Apply(u ReadingUpdate) bool {
	changed := false
	if !blank(u.Component) {
		r.Component = *u.Component
		changed = true
	}
	if !blank(u.Value) {
		r.Value = *u.Value
		changed = true
	}
	if u.MeasuredAt != nil && !u.MeasuredAt.IsZero() {
		r.MeasuredAt = *u.MeasuredAt
		changed = true
	}
	return changed
}

// ReadingUpdate is a partial update of a reading. A nil field is left unchanged.
type ReadingUpdate struct {
	Component  *string
	Value      *string
	MeasuredAt *time.Time
}

// IsEmpty reports whether the update carries no applicable field.
func (u ReadingUpdate) IsEmpty() bool {
	return blank(u.Component) && blank(u.Value) &&
		(u.MeasuredAt == nil || u.MeasuredAt.IsZero())
}

// Validate checks the length limits of the fields present in u.
func (u ReadingUpdate) Validate() error {
	if !blank(u.Component) {
		if err := validateText("component", *u.Component, MaxComponentLen); err != nil {
			return err
		}
	}
	if !blank(u.Value) {
		if err := validateText("value", *u.Value, MaxValueLen); err != nil {
			return err
		}
	}
	return nil
}

func validateText(field, s string, limit int) error {
	if strings.TrimSpace(s) == "" {
		return &ValidationError{Field: field, Message: "is required"}
	}
	if utf8.RuneCountInString(s) > limit {
		return &ValidationError{Field: field, Message: fmt.Sprintf("must be at most %d characters", limit)}
	}
	return nil
}
