// ABOUTME: Sample patient records for demos and first-run setup.
// ABOUTME: Seeding skips IDs that already exist in the store.
package seed

import (
	"github.com/harperreed/clinic/internal/models"
	"github.com/harperreed/clinic/internal/storage"
)

type sample struct {
	id, name       string
	age            int
	phone, email   string
	address, notes string
}

var samples = []sample{
	{"P001", "John Smith", 35, "+1-555-0101", "john.smith@email.com", "123 Main St, Anytown, ST 12345", "Hypertension, controlled with medication"},
	{"P002", "Sarah Johnson", 28, "+1-555-0102", "sarah.johnson@email.com", "456 Oak Ave, Somewhere, ST 67890", "Diabetes Type 2, regular monitoring required"},
	{"P003", "Michael Brown", 42, "+1-555-0103", "michael.brown@email.com", "789 Pine Rd, Elsewhere, ST 54321", "Asthma, uses inhaler as needed"},
	{"P004", "Emily Davis", 67, "+1-555-0104", "emily.davis@email.com", "321 Elm St, Nowhere, ST 98765", "Arthritis, heart disease family history"},
	{"P005", "David Wilson", 23, "+1-555-0105", "david.wilson@email.com", "654 Maple Dr, Anywhere, ST 13579", "No significant medical history"},
	{"P006", "Lisa Anderson", 51, "+1-555-0106", "lisa.anderson@email.com", "987 Cedar Ln, Someplace, ST 24680", "Allergies to penicillin, seasonal allergies"},
	{"P007", "Robert Taylor", 39, "+1-555-0107", "", "147 Birch Ct, Everytown, ST 36912", "High cholesterol, exercise regularly"},
	{"P008", "Jennifer Martinez", 45, "+1-555-0108", "jennifer.martinez@email.com", "258 Spruce St, Hometown, ST 47823", "Migraine headaches, stress management"},
}

// Patients returns fresh copies of the sample records.
func Patients() []*models.Patient {
	out := make([]*models.Patient, 0, len(samples))
	for _, s := range samples {
		out = append(out, models.NewPatient(s.id, s.name, s.age, s.phone).
			WithEmail(s.email).
			WithAddress(s.address).
			WithNotes(s.notes))
	}
	return out
}

// Seed adds the sample records to store.
func Seed(store *storage.Store) (storage.ImportResult, error) {
	return store.AddAll(Patients())
}
