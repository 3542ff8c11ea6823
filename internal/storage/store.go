// ABOUTME: Store owns the in-memory patient index and its snapshot persistence.
// ABOUTME: Every mutation rewrites the full snapshot; memory stays authoritative on save failure.
package storage

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/harperreed/clinic/internal/models"
)

// Store is the patient record store.
type Store struct {
	mu       sync.RWMutex
	patients map[string]*models.Patient
	order    []string
	owners   map[string]string // reading ID -> patient ID

	snap   Snapshotter
	codec  Codec
	logger *log.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithSnapshotter replaces the default file snapshotter.
func WithSnapshotter(snap Snapshotter) Option {
	return func(s *Store) { s.snap = snap }
}

// WithCodec replaces the default JSON codec.
func WithCodec(codec Codec) Option {
	return func(s *Store) { s.codec = codec }
}

// WithLogger sets the logger used for load/save diagnostics.
func WithLogger(logger *log.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// New returns an empty store persisting to the JSON file at path.
// Nothing is read until Load is called.
func New(path string, opts ...Option) *Store {
	s := &Store{
		patients: make(map[string]*models.Patient),
		owners:   make(map[string]string),
		codec:    JSONCodec{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.snap == nil {
		s.snap = NewFileSnapshot(path)
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	return s
}

// Open constructs a store and loads its snapshot. The returned store is
// always usable; a non-nil error is a load warning and the store is empty.
func Open(path string, opts ...Option) (*Store, error) {
	s := New(path, opts...)
	return s, s.Load()
}

// Sync replicates the snapshot through the backend and reloads it.
// Local-only backends return ErrSyncUnsupported.
func (s *Store) Sync() error {
	syncer, ok := s.snap.(Syncer)
	if !ok {
		return ErrSyncUnsupported
	}
	if err := syncer.Sync(); err != nil {
		s.logger.Warn("sync failed", "location", s.snap.Location(), "err", err)
		return fmt.Errorf("sync %s: %w", s.snap.Location(), err)
	}
	return s.Load()
}

// CanSync reports whether the backend replicates to a remote.
func (s *Store) CanSync() bool {
	_, ok := s.snap.(Syncer)
	return ok
}

// Location describes where the snapshot is persisted.
func (s *Store) Location() string {
	return s.snap.Location()
}

// Close releases the snapshotter.
func (s *Store) Close() error {
	return s.snap.Close()
}

// Load replaces the in-memory collection with the persisted snapshot.
// A missing snapshot yields an empty store. Any read or decode failure
// leaves the store empty and returns a *PersistenceError.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.patients = make(map[string]*models.Patient)
	s.owners = make(map[string]string)
	s.order = nil

	patients, err := s.readSnapshot()
	if errors.Is(err, ErrNoSnapshot) {
		s.logger.Debug("no snapshot found", "location", s.snap.Location())
		return nil
	}
	if err != nil {
		s.logger.Warn("error loading data, starting empty", "location", s.snap.Location(), "err", err)
		return &PersistenceError{Op: "load", Path: s.snap.Location(), Err: err}
	}

	for _, p := range patients {
		s.patients[p.ID] = p
		s.order = append(s.order, p.ID)
		for _, r := range p.Readings {
			s.owners[r.ID] = p.ID
		}
	}
	s.logger.Debug("loaded patients", "count", len(s.order), "location", s.snap.Location())
	return nil
}

func (s *Store) readSnapshot() ([]*models.Patient, error) {
	data, err := s.snap.Read()
	if err != nil {
		return nil, err
	}
	doc, err := s.codec.Decode(data)
	if err != nil {
		return nil, err
	}
	return DecodeDocument(doc)
}

// Save writes the full collection to the snapshot in insertion order.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save()
}

// save persists the collection. Callers hold s.mu.
func (s *Store) save() error {
	data, err := s.codec.Encode(EncodeDocument(s.ordered()))
	if err == nil {
		err = s.snap.Write(data)
	}
	if err != nil {
		s.logger.Warn("error saving data", "location", s.snap.Location(), "err", err)
		return &PersistenceError{Op: "save", Path: s.snap.Location(), Err: err}
	}
	s.logger.Debug("saved patients", "count", len(s.order), "location", s.snap.Location())
	return nil
}

// checkReadings rejects reading IDs in the new patients that are already
// stored or repeated among them. Patients already present are ignored.
// Callers hold s.mu.
func (s *Store) checkReadings(patients []*models.Patient) error {
	seen := make(map[string]struct{})
	for _, p := range patients {
		if _, exists := s.patients[p.ID]; exists {
			continue
		}
		for _, r := range p.Readings {
			_, owned := s.owners[r.ID]
			_, repeated := seen[r.ID]
			if owned || repeated {
				return fmt.Errorf("%w: %s", ErrDuplicateReadingID, r.ID)
			}
			seen[r.ID] = struct{}{}
		}
	}
	return nil
}

// insert stores p, which the caller owns, and indexes its readings.
// Callers hold s.mu and have checked that p.ID is free.
func (s *Store) insert(p *models.Patient) {
	for _, r := range p.Readings {
		r.PatientID = p.ID
		s.owners[r.ID] = p.ID
	}
	s.patients[p.ID] = p
	s.order = append(s.order, p.ID)
}

// ordered returns the stored patients in insertion order. Callers hold s.mu.
func (s *Store) ordered() []*models.Patient {
	out := make([]*models.Patient, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.patients[id])
	}
	return out
}

// Add inserts a copy of p. It returns false without error when the ID is
// already present, and false with ErrDuplicateReadingID when one of p's
// readings reuses a stored reading ID. A save failure is returned with
// true: the insert stands.
func (s *Store) Add(p *models.Patient) (bool, error) {
	if p == nil || p.ID == "" {
		return false, &models.ValidationError{Field: "id", Message: "is required"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.patients[p.ID]; exists {
		return false, nil
	}
	if err := s.checkReadings([]*models.Patient{p}); err != nil {
		return false, err
	}
	s.insert(p.Clone())
	return true, s.save()
}

// Get returns a copy of the patient with id.
func (s *Store) Get(id string) (*models.Patient, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.patients[id]
	if !ok {
		return nil, false
	}
	return p.Clone(), true
}

// List returns copies of all patients in insertion order.
func (s *Store) List() []*models.Patient {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAll(s.ordered())
}

// Count returns the number of stored patients.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.patients)
}

// Update applies u to the patient with id and saves. It returns false
// without error when id is absent.
func (s *Store) Update(id string, u models.PatientUpdate) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.patients[id]
	if !ok {
		return false, nil
	}
	p.Apply(u)
	return true, s.save()
}

// Delete removes the patient with id, along with its readings, and saves. It returns false without
// error when id is absent.
func (s *Store) Delete(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.patients[id]
	if !ok {
		return false, nil
	}
	for _, r := range p.Readings {
		delete(s.owners, r.ID)
	}
	delete(s.patients, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true, s.save()
}

// Search returns patients whose name or email contains query
// case-insensitively, or whose phone contains query verbatim.
// An empty query matches every patient.
func (s *Store) Search(query string) []*models.Patient {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q := strings.ToLower(query)
	var results []*models.Patient
	for _, p := range s.ordered() {
		if strings.Contains(strings.ToLower(p.Name), q) ||
			strings.Contains(p.Phone, query) ||
			(p.Email != nil && strings.Contains(strings.ToLower(*p.Email), q)) {
			results = append(results, p.Clone())
		}
	}
	return results
}

func cloneAll(patients []*models.Patient) []*models.Patient {
	out := make([]*models.Patient, 0, len(patients))
	for _, p := range patients {
		out = append(out, p.Clone())
	}
	return out
}
