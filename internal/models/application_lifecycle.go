package models

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// ApplicationNumberPattern matches numbers produced by FormatApplicationNumber.
var ApplicationNumberPattern = regexp.MustCompile(`^APP-\d{4}-\d{5}$`)

// FormatApplicationNumber renders the human-readable number for the seq-th application of year.
func FormatApplicationNumber(year, seq int) string {
	return fmt.Sprintf("APP-%d-%05d", year, seq)
}

// YearStart returns midnight UTC on January 1st of t's year.
func YearStart(t time.Time) time.Time {
	return time.Date(t.UTC().Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
}

// Normalize trims free-text fields, lowercases the e-mail and fills defaults.
func (a *Application) Normalize() {
	p := &a.PersonalInfo
	p.FirstName = strings.TrimSpace(p.FirstName)
	p.LastName = strings.TrimSpace(p.LastName)
	p.Email = strings.ToLower(strings.TrimSpace(p.Email))
	p.Phone = strings.TrimSpace(p.Phone)
	p.Nationality = strings.TrimSpace(p.Nationality)
	if p.Nationality == "" {
		p.Nationality = DefaultNationality
	}

	l := &a.LocationInfo
	l.Province = strings.TrimSpace(l.Province)
	l.District = strings.TrimSpace(l.District)
	l.Sector = strings.TrimSpace(l.Sector)
	l.Cell = strings.TrimSpace(l.Cell)
	l.Village = strings.TrimSpace(l.Village)
	l.Address = strings.TrimSpace(l.Address)
	l.PostalCode = strings.TrimSpace(l.PostalCode)

	c := &a.CourseSelection
	c.Program = strings.TrimSpace(c.Program)
	c.Specialization = strings.TrimSpace(c.Specialization)
	c.Level = strings.ToLower(strings.TrimSpace(c.Level))
	c.IntakeSemester = strings.ToLower(strings.TrimSpace(c.IntakeSemester))
	if c.IntakeSemester == "" {
		c.IntakeSemester = DefaultIntakeSemester
	}
	c.ModeOfStudy = strings.ToLower(strings.TrimSpace(c.ModeOfStudy))
	if c.ModeOfStudy == "" {
		c.ModeOfStudy = DefaultModeOfStudy
	}

	if a.Payment != nil {
		if a.Payment.Currency == "" {
			a.Payment.Currency = DefaultCurrency
		}
		if a.Payment.Status == "" {
			a.Payment.Status = DefaultPaymentStatus
		}
	}
	if a.Documents.RecommendationLetters == nil {
		a.Documents.RecommendationLetters = []FileMeta{}
	}
}

// Slot returns the file stored in a single-file slot.
func (d *Documents) Slot(slot DocumentSlot) *FileMeta {
	switch slot {
	case SlotResume:
		return d.Resume
	case SlotTranscripts:
		return d.Transcripts
	case SlotIDProof:
		return d.IDProof
	case SlotPassportPhoto:
		return d.PassportPhoto
	}
	return nil
}

// SetSlot overwrites a single-file slot. Returns false for unknown or multi-file slots.
func (d *Documents) SetSlot(slot DocumentSlot, meta *FileMeta) bool {
	switch slot {
	case SlotResume:
		d.Resume = meta
	case SlotTranscripts:
		d.Transcripts = meta
	case SlotIDProof:
		d.IDProof = meta
	case SlotPassportPhoto:
		d.PassportPhoto = meta
	default:
		return false
	}
	return true
}

// Files lists every stored attachment across all slots, letters included.
func (d *Documents) Files() []FileMeta {
	files := make([]FileMeta, 0, len(SingleDocumentSlots)+len(d.RecommendationLetters))
	for _, slot := range SingleDocumentSlots {
		if meta := d.Slot(slot); meta != nil {
			files = append(files, *meta)
		}
	}
	return append(files, d.RecommendationLetters...)
}

// MissingDocuments returns the mandatory slots that hold no file, in slot order.
func (a *Application) MissingDocuments() []string {
	missing := make([]string, 0, len(MandatoryDocumentSlots))
	for _, slot := range MandatoryDocumentSlots {
		meta := a.Documents.Slot(slot)
		if meta == nil || (meta.URL == "" && meta.Path == "") {
			missing = append(missing, string(slot))
		}
	}
	return missing
}

// SetStatus moves the application to status and appends a history entry.
// It returns false, leaving the record untouched, when status is unchanged.
func (a *Application) SetStatus(status ApplicationStatus, actor *string, notes string, at time.Time) bool {
	if a.Status == status {
		return false
	}
	a.Status = status
	a.StatusHistory = append(a.StatusHistory, StatusChange{
		Status:    status,
		ChangedBy: actor,
		ChangedAt: at,
		Notes:     notes,
	})
	if status == ApplicationStatusUnderReview {
		a.ReviewedBy = actor
		reviewedAt := at
		a.ReviewedAt = &reviewedAt
	}
	return true
}

// MarkSubmitted transitions a draft to submitted and assigns its number.
// An existing number is kept. Empty notes default to "application submitted".
func (a *Application) MarkSubmitted(number string, actor *string, notes string, at time.Time) {
	if a.ApplicationNumber == nil {
		a.ApplicationNumber = &number
	}
	if notes == "" {
		notes = "application submitted"
	}
	submittedAt := at
	a.SubmittedAt = &submittedAt
	a.SetStatus(ApplicationStatusSubmitted, actor, notes, at)
}

// NeedsSubmission reports whether moving to status has to pass the submit
// checks: entering submitted from draft, or from any status without a number.
func (a *Application) NeedsSubmission(status ApplicationStatus) bool {
	if status != ApplicationStatusSubmitted || a.Status == ApplicationStatusSubmitted {
		return false
	}
	return a.Status == ApplicationStatusDraft || a.ApplicationNumber == nil
}

// FullName joins first and last name.
func (a *Application) FullName() string {
	return strings.TrimSpace(a.PersonalInfo.FirstName + " " + a.PersonalInfo.LastName)
}

// IsSubmitted reports whether the application has left draft.
func (a *Application) IsSubmitted() bool {
	return a.Status != ApplicationStatusDraft
}

// View decorates the application with derived response fields.
func (a Application) View() ApplicationView {
	return ApplicationView{Application: a, FullName: a.FullName(), IsSubmitted: a.IsSubmitted()}
}
