// ABOUTME: Clinical readings stored under each patient.
// ABOUTME: Add, update, delete, and list readings; every mutation saves the snapshot.
package storage

import (
	"fmt"
	"sort"
	"strings"

	"github.com/harperreed/clinic/internal/models"
)

// AddReading attaches a copy of r to the patient with patientID and saves.
// It returns false without error when the patient is absent. A reading ID
// that is already stored is rejected with ErrDuplicateReadingID.
func (s *Store) AddReading(patientID string, r *models.Reading) (bool, error) {
	if r == nil {
		return false, &models.ValidationError{Field: "reading", Message: "is required"}
	}
	if err := r.Validate(); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.patients[patientID]
	if !ok {
		return false, nil
	}
	if _, exists := s.owners[r.ID]; exists {
		return false, fmt.Errorf("%w: %s", ErrDuplicateReadingID, r.ID)
	}

	c := r.Clone()
	c.PatientID = patientID
	p.Readings = append(p.Readings, c)
	s.owners[c.ID] = patientID
	return true, s.save()
}

// GetReading returns a copy of the reading with id.
func (s *Store) GetReading(id string) (*models.Reading, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, _, ok := s.findReading(id)
	if !ok {
		return nil, false
	}
	return r.Clone(), true
}

// UpdateReading applies u to the reading with id and saves. It returns
// false without error when id is absent.
func (s *Store) UpdateReading(id string, u models.ReadingUpdate) (bool, error) {
	if err := u.Validate(); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r, _, ok := s.findReading(id)
	if !ok {
		return false, nil
	}
	r.Apply(u)
	return true, s.save()
}

// DeleteReading removes the reading with id and saves. It returns false
// without error when id is absent.
func (s *Store) DeleteReading(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, p, ok := s.findReading(id)
	if !ok {
		return false, nil
	}
	for i, r := range p.Readings {
		if r.ID == id {
			p.Readings = append(p.Readings[:i], p.Readings[i+1:]...)
			break
		}
	}
	delete(s.owners, id)
	return true, s.save()
}

// Readings returns copies of the readings recorded for patientID. With an
// empty component every reading is returned in the order it was added;
// otherwise only readings whose component matches case-insensitively are
// returned, newest first. The bool is false when the patient is absent.
func (s *Store) Readings(patientID, component string) ([]*models.Reading, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.patients[patientID]
	if !ok {
		return nil, false
	}

	component = strings.TrimSpace(component)
	out := make([]*models.Reading, 0, len(p.Readings))
	for _, r := range p.Readings {
		if component == "" || strings.EqualFold(r.Component, component) {
			out = append(out, r.Clone())
		}
	}
	if component != "" {
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].MeasuredAt.After(out[j].MeasuredAt)
		})
	}
	return out, true
}

// ReadingCount returns the number of stored readings across all patients.
func (s *Store) ReadingCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.owners)
}

// findReading locates a reading and its patient. Callers hold s.mu.
func (s *Store) findReading(id string) (*models.Reading, *models.Patient, bool) {
	pid, ok := s.owners[id]
	if !ok {
		return nil, nil, false
	}
	p := s.patients[pid]
	for _, r := range p.Readings {
		if r.ID == id {
			return r, p, true
		}
	}
	return nil, nil, false
}
