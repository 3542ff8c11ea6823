// ABOUTME: Snapshot document layout and patient record serialization.
// ABOUTME: Converts models.Patient to and from the plain field mapping stored on disk.
package storage

import (
	"fmt"
	"time"

	"github.com/harperreed/clinic/internal/models"
)

// Document is the top-level snapshot layout: one object with a patients array.
type Document struct {
	Patients []PatientRecord `json:"patients" yaml:"patients"`
}

// PatientRecord is the serialized form of a patient.
// Required fields are pointers so a missing key can be told apart from a zero value.
type PatientRecord struct {
	ID             *string `json:"patient_id" yaml:"patient_id"`
	Name           *string `json:"name" yaml:"name"`
	Age            *int    `json:"age" yaml:"age"`
	Phone          *string `json:"phone_number" yaml:"phone_number"`
	Email          *string `json:"email,omitempty" yaml:"email,omitempty"`
	Address        *string `json:"address,omitempty" yaml:"address,omitempty"`
	MedicalHistory *string `json:"medical_history,omitempty" yaml:"medical_history,omitempty"`
	CreatedAt      string  `json:"created_at,omitempty" yaml:"created_at,omitempty"`
	UpdatedAt      string  `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`

	Readings []ReadingRecord `json:"readings,omitempty" yaml:"readings,omitempty"`
}

// ReadingRecord is the serialized form of a reading, nested under its patient.
type ReadingRecord struct {
	ID         *string `json:"reading_id" yaml:"reading_id"`
	Component  *string `json:"component_name" yaml:"component_name"`
	Value      *string `json:"component_value" yaml:"component_value"`
	MeasuredAt string  `json:"measured_at" yaml:"measured_at"`
}

// timestampLayouts are tried in order when parsing stored timestamps.
// The zone-less layout accepts files written by older tools.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
}

// FormatTimestamp renders t in the snapshot timestamp format.
func FormatTimestamp(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}

// ParseTimestamp parses a snapshot timestamp.
func ParseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// EncodePatient converts a patient into its serialized record.
func EncodePatient(p *models.Patient) PatientRecord {
	id, name, phone, age := p.ID, p.Name, p.Phone, p.Age
	return PatientRecord{
		ID:             &id,
		Name:           &name,
		Age:            &age,
		Phone:          &phone,
		Email:          copyString(p.Email),
		Address:        copyString(p.Address),
		MedicalHistory: copyString(p.Notes),
		CreatedAt:      FormatTimestamp(p.CreatedAt),
		UpdatedAt:      FormatTimestamp(p.UpdatedAt),
		Readings:       encodeReadings(p.Readings),
	}
}

func encodeReadings(readings []*models.Reading) []ReadingRecord {
	if len(readings) == 0 {
		return nil
	}
	out := make([]ReadingRecord, 0, len(readings))
	for _, r := range readings {
		id, component, value := r.ID, r.Component, r.Value
		out = append(out, ReadingRecord{
			ID:         &id,
			Component:  &component,
			Value:      &value,
			MeasuredAt: FormatTimestamp(r.MeasuredAt),
		})
	}
	return out
}

// DecodeReading converts a serialized reading belonging to patientID.
func DecodeReading(patientID string, r ReadingRecord) (*models.Reading, error) {
	switch {
	case r.ID == nil || *r.ID == "":
		return nil, fmt.Errorf("reading missing reading_id")
	case r.Component == nil:
		return nil, fmt.Errorf("reading %s missing component_name", *r.ID)
	case r.Value == nil:
		return nil, fmt.Errorf("reading %s missing component_value", *r.ID)
	case r.MeasuredAt == "":
		return nil, fmt.Errorf("reading %s missing measured_at", *r.ID)
	}

	measured, err := ParseTimestamp(r.MeasuredAt)
	if err != nil {
		return nil, fmt.Errorf("reading %s measured_at: %w", *r.ID, err)
	}
	return &models.Reading{
		ID:         *r.ID,
		PatientID:  patientID,
		Component:  *r.Component,
		Value:      *r.Value,
		MeasuredAt: measured,
	}, nil
}

// DecodePatient converts a serialized record into a patient.
// Missing optional fields stay nil; a missing timestamp falls back to now.
func DecodePatient(r PatientRecord) (*models.Patient, error) {
	switch {
	case r.ID == nil || *r.ID == "":
		return nil, fmt.Errorf("record missing patient_id")
	case r.Name == nil:
		return nil, fmt.Errorf("record %s missing name", *r.ID)
	case r.Age == nil:
		return nil, fmt.Errorf("record %s missing age", *r.ID)
	case r.Phone == nil:
		return nil, fmt.Errorf("record %s missing phone_number", *r.ID)
	}

	p := &models.Patient{
		ID:      *r.ID,
		Name:    *r.Name,
		Age:     *r.Age,
		Phone:   *r.Phone,
		Email:   nonEmpty(r.Email),
		Address: nonEmpty(r.Address),
		Notes:   nonEmpty(r.MedicalHistory),
	}

	now := time.Now()
	var err error
	if r.UpdatedAt != "" {
		if p.UpdatedAt, err = ParseTimestamp(r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("record %s updated_at: %w", p.ID, err)
		}
	}
	if r.CreatedAt != "" {
		if p.CreatedAt, err = ParseTimestamp(r.CreatedAt); err != nil {
			return nil, fmt.Errorf("record %s created_at: %w", p.ID, err)
		}
	}
	switch {
	case p.CreatedAt.IsZero() && p.UpdatedAt.IsZero():
		p.CreatedAt, p.UpdatedAt = now, now
	case p.CreatedAt.IsZero():
		p.CreatedAt = p.UpdatedAt
	case p.UpdatedAt.IsZero():
		p.UpdatedAt = now
	}
	if p.UpdatedAt.Before(p.CreatedAt) {
		p.UpdatedAt = p.CreatedAt
	}

	for _, rr := range r.Readings {
		reading, err := DecodeReading(p.ID, rr)
		if err != nil {
			return nil, fmt.Errorf("record %s: %w", p.ID, err)
		}
		p.Readings = append(p.Readings, reading)
	}
	return p, nil
}

// EncodeDocument builds a snapshot document from patients in the given order.
func EncodeDocument(patients []*models.Patient) Document {
	doc := Document{Patients: make([]PatientRecord, 0, len(patients))}
	for _, p := range patients {
		doc.Patients = append(doc.Patients, EncodePatient(p))
	}
	return doc
}

// DecodeDocument decodes every record in doc, failing on the first bad record
// or on a repeated patient_id or reading_id.
func DecodeDocument(doc Document) ([]*models.Patient, error) {
	patients := make([]*models.Patient, 0, len(doc.Patients))
	seen := make(map[string]struct{}, len(doc.Patients))
	seenReadings := make(map[string]struct{})
	for i, r := range doc.Patients {
		p, err := DecodePatient(r)
		if err != nil {
			return nil, fmt.Errorf("patient %d: %w", i, err)
		}
		if _, dup := seen[p.ID]; dup {
			return nil, fmt.Errorf("patient %d: duplicate patient_id %s", i, p.ID)
		}
		seen[p.ID] = struct{}{}
		for _, reading := range p.Readings {
			if _, dup := seenReadings[reading.ID]; dup {
				return nil, fmt.Errorf("patient %d: duplicate reading_id %s", i, reading.ID)
			}
			seenReadings[reading.ID] = struct{}{}
		}
		patients = append(patients, p)
	}
	return patients, nil
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return copyString(s)
}
