// ABOUTME: Export and import of the patient collection.
// ABOUTME: JSON export is the snapshot document itself; YAML uses the same fields.
package storage

import (
	"fmt"

	"github.com/harperreed/clinic/internal/models"
)

// ImportResult reports what an import did.
type ImportResult struct {
	Added   []string
	Skipped []string // IDs already present
}

// Export encodes the collection with codec, independent of the snapshot format.
func (s *Store) Export(codec Codec) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := codec.Encode(EncodeDocument(s.ordered()))
	if err != nil {
		return nil, fmt.Errorf("export %s: %w", codec.Name(), err)
	}
	return data, nil
}

// ExportJSON exports all patients as a JSON snapshot document.
func (s *Store) ExportJSON() ([]byte, error) {
	return s.Export(JSONCodec{})
}

// ExportYAML exports all patients as YAML.
func (s *Store) ExportYAML() ([]byte, error) {
	return s.Export(YAMLCodec{})
}

// Import adds every patient in data whose ID is not already present and
// saves once. A malformed document, or a reading ID clash with stored
// readings, imports nothing.
func (s *Store) Import(data []byte, codec Codec) (ImportResult, error) {
	var result ImportResult

	doc, err := codec.Decode(data)
	if err != nil {
		return result, fmt.Errorf("import: %w", err)
	}
	patients, err := DecodeDocument(doc)
	if err != nil {
		return result, fmt.Errorf("import: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkReadings(patients); err != nil {
		return result, fmt.Errorf("import: %w", err)
	}
	for _, p := range patients {
		if _, exists := s.patients[p.ID]; exists {
			result.Skipped = append(result.Skipped, p.ID)
			continue
		}
		s.insert(p)
		result.Added = append(result.Added, p.ID)
	}
	if len(result.Added) == 0 {
		return result, nil
	}
	return result, s.save()
}

// ImportJSON imports patients from a JSON snapshot document.
func (s *Store) ImportJSON(data []byte) (ImportResult, error) {
	return s.Import(data, JSONCodec{})
}

// AddAll adds each patient, skipping IDs already present, and saves once.
func (s *Store) AddAll(patients []*models.Patient) (ImportResult, error) {
	var result ImportResult
	for _, p := range patients {
		if p == nil || p.ID == "" {
			return result, &models.ValidationError{Field: "id", Message: "is required"}
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkReadings(patients); err != nil {
		return result, err
	}
	for _, p := range patients {
		if _, exists := s.patients[p.ID]; exists {
			result.Skipped = append(result.Skipped, p.ID)
			continue
		}
		s.insert(p.Clone())
		result.Added = append(result.Added, p.ID)
	}
	if len(result.Added) == 0 {
		return result, nil
	}
	return result, s.save()
}
