package models

import (
	"database/sql/driver"
	"time"
)

// ApplicationStatus enumerates the lifecycle states of an application.
type ApplicationStatus string

const (
	ApplicationStatusDraft       ApplicationStatus = "draft"
	ApplicationStatusSubmitted   ApplicationStatus = "submitted"
	ApplicationStatusUnderReview ApplicationStatus = "under-review"
	ApplicationStatusShortlisted ApplicationStatus = "shortlisted"
	ApplicationStatusAccepted    ApplicationStatus = "accepted"
	ApplicationStatusRejected    ApplicationStatus = "rejected"
	ApplicationStatusWaitlisted  ApplicationStatus = "waitlisted"
	ApplicationStatusCancelled   ApplicationStatus = "cancelled"
)

// ApplicationStatuses lists every status in lifecycle order.
var ApplicationStatuses = []ApplicationStatus{
	ApplicationStatusDraft,
	ApplicationStatusSubmitted,
	ApplicationStatusUnderReview,
	ApplicationStatusShortlisted,
	ApplicationStatusAccepted,
	ApplicationStatusRejected,
	ApplicationStatusWaitlisted,
	ApplicationStatusCancelled,
}

// Valid reports whether s is a known status.
func (s ApplicationStatus) Valid() bool {
	for _, known := range ApplicationStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Defaults applied when the applicant leaves optional fields blank.
const (
	DefaultNationality    = "Rwandan"
	DefaultIntakeSemester = "january"
	DefaultModeOfStudy    = "full-time"
	DefaultCurrency       = "RWF"
	DefaultPaymentStatus  = "pending"

	MinIntakeYear            = 2020
	MaxIntakeYear            = 2030
	MaxRecommendationLetters = 3
)

// PersonalInfo identifies the applicant.
type PersonalInfo struct {
	FirstName   string     `json:"firstName" validate:"required,max=100"`
	LastName    string     `json:"lastName" validate:"required,max=100"`
	Email       string     `json:"email" validate:"required,applicant_email"`
	Phone       string     `json:"phone" validate:"required,phone"`
	DateOfBirth *time.Time `json:"dateOfBirth,omitempty"`
	Gender      string     `json:"gender,omitempty" validate:"omitempty,oneof=male female other prefer-not-to-say"`
	Nationality string     `json:"nationality" validate:"omitempty,max=100"`
}

func (p PersonalInfo) Value() (driver.Value, error) { return valueJSON(p) }
func (p *PersonalInfo) Scan(src interface{}) error  { return scanJSON(src, p) }

// LocationInfo holds the applicant's administrative address hierarchy.
type LocationInfo struct {
	Province   string `json:"province" validate:"required"`
	District   string `json:"district" validate:"required"`
	Sector     string `json:"sector" validate:"required"`
	Cell       string `json:"cell" validate:"required"`
	Village    string `json:"village" validate:"required"`
	Address    string `json:"address,omitempty"`
	PostalCode string `json:"postalCode,omitempty"`
}

func (l LocationInfo) Value() (driver.Value, error) { return valueJSON(l) }
func (l *LocationInfo) Scan(src interface{}) error  { return scanJSON(src, l) }

// CourseSelection is the program and intake the applicant is applying to.
type CourseSelection struct {
	Program        string `json:"program" validate:"required"`
	Level          string `json:"level" validate:"required,oneof=primary secondary diploma bachelor masters phd certificate other"`
	Specialization string `json:"specialization,omitempty"`
	IntakeYear     int    `json:"intakeYear" validate:"required,min=2020,max=2030"`
	IntakeSemester string `json:"intakeSemester" validate:"omitempty,oneof=january february march april may june july august september october november december"`
	ModeOfStudy    string `json:"modeOfStudy" validate:"omitempty,oneof=full-time part-time online hybrid"`
}

func (c CourseSelection) Value() (driver.Value, error) { return valueJSON(c) }
func (c *CourseSelection) Scan(src interface{}) error  { return scanJSON(src, c) }

// FileMeta describes one stored attachment.
type FileMeta struct {
	Filename     string    `json:"filename"`
	OriginalName string    `json:"originalName,omitempty"`
	Path         string    `json:"path"`
	URL          string    `json:"url"`
	Size         int64     `json:"size"`
	MimeType     string    `json:"mimetype"`
	UploadedAt   time.Time `json:"uploadedAt"`
}

// DocumentSlot names a single-file attachment slot.
type DocumentSlot string

const (
	SlotResume                DocumentSlot = "resume"
	SlotTranscripts           DocumentSlot = "transcripts"
	SlotIDProof               DocumentSlot = "idProof"
	SlotPassportPhoto         DocumentSlot = "passportPhoto"
	SlotRecommendationLetters DocumentSlot = "recommendationLetters"
)

// MandatoryDocumentSlots must all be filled before submission.
var MandatoryDocumentSlots = []DocumentSlot{SlotResume, SlotTranscripts, SlotIDProof}

// SingleDocumentSlots are the slots holding at most one file.
var SingleDocumentSlots = []DocumentSlot{SlotResume, SlotTranscripts, SlotIDProof, SlotPassportPhoto}

// Documents groups the attachment slots of an application.
type Documents struct {
	Resume                *FileMeta  `json:"resume,omitempty"`
	Transcripts           *FileMeta  `json:"transcripts,omitempty"`
	IDProof               *FileMeta  `json:"idProof,omitempty"`
	PassportPhoto         *FileMeta  `json:"passportPhoto,omitempty"`
	RecommendationLetters []FileMeta `json:"recommendationLetters"`
}

func (d Documents) Value() (driver.Value, error) { return valueJSON(d) }
func (d *Documents) Scan(src interface{}) error  { return scanJSON(src, d) }

// Education is one entry of the applicant's schooling history.
type Education struct {
	Institution   string     `json:"institution,omitempty"`
	Qualification string     `json:"qualification,omitempty"`
	FieldOfStudy  string     `json:"fieldOfStudy,omitempty"`
	StartYear     int        `json:"startYear,omitempty"`
	EndYear       int        `json:"endYear,omitempty"`
	Grade         string     `json:"grade,omitempty"`
	IsCompleted   bool       `json:"isCompleted"`
	Documents     []FileMeta `json:"documents,omitempty"`
}

// EducationList is stored as a JSONB array.
type EducationList []Education

func (e EducationList) Value() (driver.Value, error) {
	if e == nil {
		e = EducationList{}
	}
	return valueJSON([]Education(e))
}
func (e *EducationList) Scan(src interface{}) error { return scanJSON(src, e) }

// WorkExperience is one employment record.
type WorkExperience struct {
	Employer    string     `json:"employer,omitempty"`
	Position    string     `json:"position,omitempty"`
	StartDate   *time.Time `json:"startDate,omitempty"`
	EndDate     *time.Time `json:"endDate,omitempty"`
	IsCurrent   bool       `json:"isCurrent"`
	Description string     `json:"description,omitempty"`
	Documents   []FileMeta `json:"documents,omitempty"`
}

// WorkExperienceList is stored as a JSONB array.
type WorkExperienceList []WorkExperience

func (w WorkExperienceList) Value() (driver.Value, error) {
	if w == nil {
		w = WorkExperienceList{}
	}
	return valueJSON([]WorkExperience(w))
}
func (w *WorkExperienceList) Scan(src interface{}) error { return scanJSON(src, w) }

// LanguageProficiency pairs a language with a self-assessed level.
type LanguageProficiency struct {
	Language    string `json:"language"`
	Proficiency string `json:"proficiency,omitempty" validate:"omitempty,oneof=beginner intermediate advanced native"`
}

// Reference is a person vouching for the applicant.
type Reference struct {
	Name         string `json:"name,omitempty"`
	Relationship string `json:"relationship,omitempty"`
	Email        string `json:"email,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Organization string `json:"organization,omitempty"`
}

// AdditionalInfo carries optional applicant extras.
type AdditionalInfo struct {
	Skills     []string              `json:"skills,omitempty"`
	Languages  []LanguageProficiency `json:"languages,omitempty" validate:"omitempty,dive"`
	Hobbies    []string              `json:"hobbies,omitempty"`
	References []Reference           `json:"references,omitempty"`
}

func (a AdditionalInfo) Value() (driver.Value, error) { return valueJSON(a) }
func (a *AdditionalInfo) Scan(src interface{}) error  { return scanJSON(src, a) }

// StatusChange is one entry of the append-only status history.
type StatusChange struct {
	Status    ApplicationStatus `json:"status"`
	ChangedBy *string           `json:"changedBy,omitempty"`
	ChangedAt time.Time         `json:"changedAt"`
	Notes     string            `json:"notes,omitempty"`
}

// StatusHistory is stored as a JSONB array.
type StatusHistory []StatusChange

func (h StatusHistory) Value() (driver.Value, error) {
	if h == nil {
		h = StatusHistory{}
	}
	return valueJSON([]StatusChange(h))
}
func (h *StatusHistory) Scan(src interface{}) error { return scanJSON(src, h) }

// Payment records an application fee transaction.
type Payment struct {
	Amount        float64    `json:"amount"`
	Currency      string     `json:"currency"`
	Method        string     `json:"method,omitempty"`
	TransactionID string     `json:"transactionId,omitempty"`
	Status        string     `json:"status" validate:"omitempty,oneof=pending completed failed refunded"`
	PaidAt        *time.Time `json:"paidAt,omitempty"`
}

func (p Payment) Value() (driver.Value, error) { return valueJSON(p) }
func (p *Payment) Scan(src interface{}) error  { return scanJSON(src, p) }

// Application is an intake submission moving through the admissions lifecycle.
type Application struct {
	ID                string             `db:"id" json:"id"`
	ApplicationNumber *string            `db:"application_number" json:"applicationNumber,omitempty"`
	PersonalInfo      PersonalInfo       `db:"personal_info" json:"personalInfo"`
	LocationInfo      LocationInfo       `db:"location_info" json:"locationInfo"`
	CourseSelection   CourseSelection    `db:"course_selection" json:"courseSelection"`
	Documents         Documents          `db:"documents" json:"documents"`
	Education         EducationList      `db:"education" json:"education"`
	WorkExperience    WorkExperienceList `db:"work_experience" json:"workExperience"`
	AdditionalInfo    AdditionalInfo     `db:"additional_info" json:"additionalInfo"`
	TermsAgreed       bool               `db:"terms_agreed" json:"termsAgreed"`
	Status            ApplicationStatus  `db:"status" json:"status"`
	StatusHistory     StatusHistory      `db:"status_history" json:"statusHistory"`
	Payment           *Payment           `db:"payment" json:"payment,omitempty"`
	SubmittedAt       *time.Time         `db:"submitted_at" json:"submittedAt,omitempty"`
	ReviewedBy        *string            `db:"reviewed_by" json:"reviewedBy,omitempty"`
	ReviewedAt        *time.Time         `db:"reviewed_at" json:"reviewedAt,omitempty"`
	ReviewNotes       *string            `db:"review_notes" json:"reviewNotes,omitempty"`
	ReviewerComments  *string            `db:"reviewer_comments" json:"reviewerComments,omitempty"`
	IPAddress         string             `db:"ip_address" json:"ipAddress,omitempty"`
	UserAgent         string             `db:"user_agent" json:"userAgent,omitempty"`
	CreatedAt         time.Time          `db:"created_at" json:"createdAt"`
	UpdatedAt         time.Time          `db:"updated_at" json:"updatedAt"`
}

// ApplicationView decorates an application with derived fields for responses.
type ApplicationView struct {
	Application
	FullName    string `json:"fullName"`
	IsSubmitted bool   `json:"isSubmitted"`
}

// ApplicationFilter captures list criteria for applications.
type ApplicationFilter struct {
	Status     ApplicationStatus
	Program    string
	Level      string
	IntakeYear int
	Email      string
	Search     string
	Page       int
	PageSize   int
	SortBy     string
	SortOrder  string
	// Unpaged returns every match, ignoring Page and PageSize.
	Unpaged bool
}

// StatusCount is one row of the per-status breakdown.
type StatusCount struct {
	Status ApplicationStatus `db:"status" json:"status"`
	Count  int               `db:"count" json:"count"`
}

// ApplicationStatistics summarises the application store.
type ApplicationStatistics struct {
	Total     int           `json:"total"`
	Submitted int           `json:"submitted"`
	Accepted  int           `json:"accepted"`
	ByStatus  []StatusCount `json:"byStatus"`
}
