// ABOUTME: Text rendering for patients, readings, and statistics.
// ABOUTME: Masks contact details and hides address/history unless revealed.
package display

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/harperreed/clinic/internal/models"
	"github.com/harperreed/clinic/internal/storage"
)

const (
	protected       = "[PROTECTED]"
	notProvided     = "Not provided"
	addressOnFile   = "[ADDRESS PROVIDED]"
	historyOnFile   = "[MEDICAL HISTORY ON FILE]"
	timestampLayout = "2006-01-02 15:04:05"
)

// MaskSensitive keeps the first two and last two characters of s.
func MaskSensitive(s string) string {
	r := []rune(s)
	if len(r) < 4 {
		return protected
	}
	return string(r[:2]) + strings.Repeat("*", len(r)-4) + string(r[len(r)-2:])
}

// Options controls what is shown.
type Options struct {
	// Reveal prints contact details, address, and history verbatim.
	Reveal bool
}

// Contact renders a required contact field.
func (o Options) Contact(s string) string {
	if o.Reveal {
		return s
	}
	return MaskSensitive(s)
}

// OptionalContact renders an optional contact field such as email.
func (o Options) OptionalContact(s *string) string {
	if s == nil || *s == "" {
		return notProvided
	}
	return o.Contact(*s)
}

// Address renders the address, or a placeholder when hidden.
func (o Options) Address(s *string) string {
	return o.onFile(s, addressOnFile)
}

// History renders medical history, or a placeholder when hidden.
func (o Options) History(s *string) string {
	return o.onFile(s, historyOnFile)
}

func (o Options) onFile(s *string, marker string) string {
	if s == nil || *s == "" {
		return notProvided
	}
	if o.Reveal {
		return *s
	}
	return marker
}

// Details writes every field of p.
func Details(w io.Writer, p *models.Patient, opts Options) {
	fmt.Fprintf(w, "ID: %s\n", p.ID)
	fmt.Fprintf(w, "Name: %s\n", p.Name)
	fmt.Fprintf(w, "Age: %d\n", p.Age)
	fmt.Fprintf(w, "Phone: %s\n", opts.Contact(p.Phone))
	fmt.Fprintf(w, "Email: %s\n", opts.OptionalContact(p.Email))
	fmt.Fprintf(w, "Address: %s\n", opts.Address(p.Address))
	fmt.Fprintf(w, "Medical History: %s\n", opts.History(p.Notes))
	fmt.Fprintf(w, "Created: %s\n", p.CreatedAt.Format(timestampLayout))
	fmt.Fprintf(w, "Updated: %s\n", p.UpdatedAt.Format(timestampLayout))
	if n := len(p.Readings); n > 0 {
		fmt.Fprintf(w, "Readings: %d\n", n)
	}
}

// Readings writes one row per reading: ID, component, value, measured time.
func Readings(w io.Writer, readings []*models.Reading) {
	fmt.Fprintf(w, "%-10s %-20s %-20s %s\n", "ID", "Component", "Value", "Measured")
	fmt.Fprintln(w, strings.Repeat("-", 72))
	for _, r := range readings {
		fmt.Fprintf(w, "%-10s %-20s %-20s %s\n",
			r.ID, Truncate(r.Component, 20), Truncate(r.Value, 20), r.MeasuredAt.Format(timestampLayout))
	}
}

// Table writes one row per patient: ID, name, age, phone.
func Table(w io.Writer, patients []*models.Patient, opts Options) {
	fmt.Fprintf(w, "%-10s %-20s %-5s %-15s\n", "ID", "Name", "Age", "Phone")
	fmt.Fprintln(w, strings.Repeat("-", 50))
	for _, p := range patients {
		fmt.Fprintf(w, "%-10s %-20s %-5d %-15s\n", p.ID, Truncate(p.Name, 20), p.Age, opts.Contact(p.Phone))
	}
}

// Statistics writes totals and the age distribution in bucket order.
func Statistics(w io.Writer, stats storage.Statistics) {
	fmt.Fprintf(w, "Total Patients: %d\n", stats.TotalPatients)
	if stats.TotalPatients == 0 {
		return
	}
	fmt.Fprintf(w, "Average Age: %.1f years\n", stats.AverageAge)
	fmt.Fprintln(w, "\nAge Distribution:")
	for _, b := range storage.Buckets {
		fmt.Fprintf(w, "  %s: %d patients\n", b.Label, stats.AgeDistribution[b.Label])
	}
}

// Markdown renders patients and statistics as a Markdown document.
func Markdown(patients []*models.Patient, stats storage.Statistics, opts Options, now time.Time) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# Clinic Export - %s\n\n", now.Format("2006-01-02")))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", now.Format(time.RFC3339)))

	sb.WriteString("## Patients\n\n")
	sb.WriteString("| ID | Name | Age | Phone | Email | Updated |\n")
	sb.WriteString("|----|------|-----|-------|-------|---------|\n")
	for _, p := range patients {
		sb.WriteString(fmt.Sprintf("| %s | %s | %d | %s | %s | %s |\n",
			p.ID, escapeCell(p.Name), p.Age,
			escapeCell(opts.Contact(p.Phone)),
			escapeCell(opts.OptionalContact(p.Email)),
			p.UpdatedAt.Format("2006-01-02 15:04")))
	}

	sb.WriteString("\n## Statistics\n\n")
	sb.WriteString(fmt.Sprintf("- Total patients: %d\n", stats.TotalPatients))
	sb.WriteString(fmt.Sprintf("- Average age: %.1f\n", stats.AverageAge))
	for _, b := range storage.Buckets {
		sb.WriteString(fmt.Sprintf("- %s: %d\n", b.Label, stats.AgeDistribution[b.Label]))
	}

	return sb.String()
}

// Truncate shortens s to maxLen runes, ending in "..." when cut.
func Truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
