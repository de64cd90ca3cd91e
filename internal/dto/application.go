package dto

import (
	"strings"
	"time"

	"github.com/noah-isme/admissions-portal-api/internal/models"
)

// CreateApplicationRequest is the intake payload for a new draft.
type CreateApplicationRequest struct {
	PersonalInfo    models.PersonalInfo       `json:"personalInfo"`
	LocationInfo    models.LocationInfo       `json:"locationInfo"`
	CourseSelection models.CourseSelection    `json:"courseSelection"`
	Education       models.EducationList      `json:"education"`
	WorkExperience  models.WorkExperienceList `json:"workExperience"`
	AdditionalInfo  models.AdditionalInfo     `json:"additionalInfo"`
	TermsAgreed     bool                      `json:"termsAgreed"`
	Payment         *models.Payment           `json:"payment,omitempty"`
	IPAddress       string                    `json:"-"`
	UserAgent       string                    `json:"-"`
}

// PersonalInfoPatch carries the personal fields a caller wants to change.
type PersonalInfoPatch struct {
	FirstName   *string    `json:"firstName"`
	LastName    *string    `json:"lastName"`
	Email       *string    `json:"email"`
	Phone       *string    `json:"phone"`
	DateOfBirth *time.Time `json:"dateOfBirth"`
	Gender      *string    `json:"gender"`
	Nationality *string    `json:"nationality"`
}

// Apply merges the provided fields into dst, leaving the rest untouched.
func (p *PersonalInfoPatch) Apply(dst *models.PersonalInfo) {
	if p == nil {
		return
	}
	setString(&dst.FirstName, p.FirstName)
	setString(&dst.LastName, p.LastName)
	if p.Email != nil {
		dst.Email = strings.ToLower(strings.TrimSpace(*p.Email))
	}
	setString(&dst.Phone, p.Phone)
	if p.DateOfBirth != nil {
		dob := *p.DateOfBirth
		dst.DateOfBirth = &dob
	}
	setString(&dst.Gender, p.Gender)
	setString(&dst.Nationality, p.Nationality)
}

// LocationInfoPatch carries the location fields a caller wants to change.
type LocationInfoPatch struct {
	Province   *string `json:"province"`
	District   *string `json:"district"`
	Sector     *string `json:"sector"`
	Cell       *string `json:"cell"`
	Village    *string `json:"village"`
	Address    *string `json:"address"`
	PostalCode *string `json:"postalCode"`
}

// Apply merges the provided fields into dst.
func (p *LocationInfoPatch) Apply(dst *models.LocationInfo) {
	if p == nil {
		return
	}
	setString(&dst.Province, p.Province)
	setString(&dst.District, p.District)
	setString(&dst.Sector, p.Sector)
	setString(&dst.Cell, p.Cell)
	setString(&dst.Village, p.Village)
	setString(&dst.Address, p.Address)
	setString(&dst.PostalCode, p.PostalCode)
}

// CourseSelectionPatch carries the course fields a caller wants to change.
type CourseSelectionPatch struct {
	Program        *string `json:"program"`
	Level          *string `json:"level"`
	Specialization *string `json:"specialization"`
	IntakeYear     *int    `json:"intakeYear"`
	IntakeSemester *string `json:"intakeSemester"`
	ModeOfStudy    *string `json:"modeOfStudy"`
}

// Apply merges the provided fields into dst.
func (p *CourseSelectionPatch) Apply(dst *models.CourseSelection) {
	if p == nil {
		return
	}
	setString(&dst.Program, p.Program)
	setString(&dst.Level, p.Level)
	setString(&dst.Specialization, p.Specialization)
	if p.IntakeYear != nil {
		dst.IntakeYear = *p.IntakeYear
	}
	setString(&dst.IntakeSemester, p.IntakeSemester)
	setString(&dst.ModeOfStudy, p.ModeOfStudy)
}

// UpdateApplicationRequest is a partial update. Nil members are left unchanged.
type UpdateApplicationRequest struct {
	PersonalInfo    *PersonalInfoPatch         `json:"personalInfo"`
	LocationInfo    *LocationInfoPatch         `json:"locationInfo"`
	CourseSelection *CourseSelectionPatch      `json:"courseSelection"`
	Education       *models.EducationList      `json:"education"`
	WorkExperience  *models.WorkExperienceList `json:"workExperience"`
	AdditionalInfo  *models.AdditionalInfo     `json:"additionalInfo"`
	Payment         *models.Payment            `json:"payment"`
	TermsAgreed     *bool                      `json:"termsAgreed"`

	// Privileged fields; only admins may set them.
	Status           *models.ApplicationStatus `json:"status"`
	StatusNotes      *string                   `json:"statusNotes"`
	ReviewNotes      *string                   `json:"reviewNotes"`
	ReviewerComments *string                   `json:"reviewerComments"`
}

// PrivilegedFields lists the admin-only fields present in the request.
func (r *UpdateApplicationRequest) PrivilegedFields() []string {
	fields := make([]string, 0, 3)
	if r.Status != nil {
		fields = append(fields, "status")
	}
	if r.ReviewNotes != nil {
		fields = append(fields, "reviewNotes")
	}
	if r.ReviewerComments != nil {
		fields = append(fields, "reviewerComments")
	}
	return fields
}

// StatusTransitionRequest moves an application to a new status.
type StatusTransitionRequest struct {
	Status models.ApplicationStatus `json:"status" validate:"required"`
	Notes  string                   `json:"notes" validate:"max=1000"`
}

// DocumentURLResponse is a time-limited download link for one attachment.
type DocumentURLResponse struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}
