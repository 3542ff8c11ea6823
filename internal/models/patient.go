// ABOUTME: Patient model and partial-update request for clinic records.
// ABOUTME: Patients are owned by the store; updates go through PatientUpdate.
package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Age bounds accepted by Validate.
const (
	MinAge = 0
	MaxAge = 150
)

// Patient represents one patient record.
type Patient struct {
	ID        string
	Name      string
	Age       int
	Phone     string
	Email     *string
	Address   *string
	Notes     *string // medical history
	CreatedAt time.Time
	UpdatedAt time.Time
	Readings  []*Reading
}

// NewPatientID returns a generated ID of the form P-1a2b3c4d.
func NewPatientID() string {
	return "P-" + uuid.New().String()[:8]
}

// NewPatient creates a Patient with CreatedAt and UpdatedAt set to now.
func NewPatient(id, name string, age int, phone string) *Patient {
	now := time.Now()
	return &Patient{
		ID:        id,
		Name:      name,
		Age:       age,
		Phone:     phone,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// WithEmail sets the email address.
func (p *Patient) WithEmail(email string) *Patient {
	p.Email = optional(email)
	return p
}

// WithAddress sets the home address.
func (p *Patient) WithAddress(address string) *Patient {
	p.Address = optional(address)
	return p
}

// WithNotes sets the medical history notes.
func (p *Patient) WithNotes(notes string) *Patient {
	p.Notes = optional(notes)
	return p
}

// Clone returns a deep copy of the patient.
func (p *Patient) Clone() *Patient {
	c := *p
	c.Email = cloneString(p.Email)
	c.Address = cloneString(p.Address)
	c.Notes = cloneString(p.Notes)
	if p.Readings != nil {
		c.Readings = make([]*Reading, len(p.Readings))
		for i, r := range p.Readings {
			c.Readings[i] = r.Clone()
		}
	}
	return &c
}

// String returns a short human-readable form.
func (p *Patient) String() string {
	return fmt.Sprintf("Patient(%s): %s, Age: %d", p.ID, p.Name, p.Age)
}

// Validate checks required fields and the age range.
func (p *Patient) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return &ValidationError{Field: "id", Message: "is required"}
	}
	if strings.TrimSpace(p.Name) == "" {
		return &ValidationError{Field: "name", Message: "is required"}
	}
	if strings.TrimSpace(p.Phone) == "" {
		return &ValidationError{Field: "phone", Message: "is required"}
	}
	return ValidateAge(p.Age)
}

// ValidateAge reports whether age lies within [MinAge, MaxAge].
func ValidateAge(age int) error {
	if age < MinAge || age > MaxAge {
		return &ValidationError{
			Field:   "age",
			Message: fmt.Sprintf("must be between %d and %d", MinAge, MaxAge),
		}
	}
	return nil
}

// Apply applies the fields present in u and reports whether anything was applied.
// Nil and empty-string fields mean "keep the current value". UpdatedAt only
// moves when at least one field was applied, and always moves forward.
func (p *Patient) Apply(u PatientUpdate) bool {
	changed := false
	if u.Name != nil && *u.Name != "" {
		p.Name = *u.Name
		changed = true
	}
	if u.Age != nil {
		p.Age = *u.Age
		changed = true
	}
	if u.Phone != nil && *u.Phone != "" {
		p.Phone = *u.Phone
		changed = true
	}
	if u.Email != nil && *u.Email != "" {
		p.Email = cloneString(u.Email)
		changed = true
	}
	if u.Address != nil && *u.Address != "" {
		p.Address = cloneString(u.Address)
		changed = true
	}
	if u.Notes != nil && *u.Notes != "" {
		p.Notes = cloneString(u.Notes)
		changed = true
	}
	if changed {
		p.touch()
	}
	return changed
}

// touch advances UpdatedAt to now, or by one nanosecond when the clock
// has not moved past the previous value.
func (p *Patient) touch() {
	now := time.Now()
	if !now.After(p.UpdatedAt) {
		now = p.UpdatedAt.Add(time.Nanosecond)
	}
	p.UpdatedAt = now
}

// PatientUpdate is a partial update. A nil field is left unchanged.
// ID and CreatedAt are deliberately absent.
type PatientUpdate struct {
	Name    *string
	Age     *int
	Phone   *string
	Email   *string
	Address *string
	Notes   *string
}

// IsEmpty reports whether the update carries no applicable field.
func (u PatientUpdate) IsEmpty() bool {
	return blank(u.Name) && u.Age == nil && blank(u.Phone) &&
		blank(u.Email) && blank(u.Address) && blank(u.Notes)
}

// ValidationError describes a rejected field value.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func blank(s *string) bool {
	return s == nil || *s == ""
}
