package models

import (
	"database/sql/driver"
	"time"
)

// DocumentCategories enumerates library document categories.
var DocumentCategories = []string{"administrative", "academic", "financial", "announcement", "other"}

// Document is a downloadable file published in the document library.
type Document struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Category    string    `db:"category" json:"category"`
	Description string    `db:"description" json:"description"`
	FileSize    string    `db:"file_size" json:"fileSize"`
	FileType    string    `db:"file_type" json:"fileType"`
	UploadDate  time.Time `db:"upload_date" json:"uploadDate"`
	URL         string    `db:"url" json:"url"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// DocumentFilter captures document search criteria.
type DocumentFilter struct {
	Query    string
	Category string
	Limit    int
}

// CategoryCount is a category and the number of records in it.
type CategoryCount struct {
	Category string `db:"category" json:"category"`
	Count    int    `db:"count" json:"count"`
}

// DocumentStats summarises the document library.
type DocumentStats struct {
	Total      int             `json:"total"`
	ByCategory []CategoryCount `json:"byCategory"`
	ByFileType []CategoryCount `json:"byFileType"`
	Recent     []Document      `json:"recent"`
}

// GalleryItem is an image shown in the public gallery.
type GalleryItem struct {
	ID          string    `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	Category    string    `db:"category" json:"category"`
	ImageURL    string    `db:"image_url" json:"imageUrl"`
	AltText     string    `db:"alt_text" json:"altText"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// DefaultGalleryCategory is applied when no category is supplied.
const DefaultGalleryCategory = "General"

// GalleryFilter captures gallery list criteria.
type GalleryFilter struct {
	Category  string
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// GalleryStats summarises the gallery.
type GalleryStats struct {
	Total         int             `json:"total"`
	RecentUploads int             `json:"recentUploads"`
	ByCategory    []CategoryCount `json:"byCategory"`
}

// MaxGalleryBulkItems caps a single bulk upload.
const MaxGalleryBulkItems = 100

// LeaderSocial holds a leader's contact links.
type LeaderSocial struct {
	LinkedIn string `json:"linkedin"`
	Email    string `json:"email"`
}

func (s LeaderSocial) Value() (driver.Value, error) { return valueJSON(s) }
func (s *LeaderSocial) Scan(src interface{}) error  { return scanJSON(src, s) }

// Leader is a member of the institution's leadership page.
type Leader struct {
	ID         string       `db:"id" json:"id"`
	Position   int          `db:"position" json:"position"`
	Name       string       `db:"name" json:"name"`
	Role       string       `db:"role" json:"role"`
	Image      string       `db:"image" json:"image"`
	Social     LeaderSocial `db:"social" json:"social"`
	Category   string       `db:"category" json:"category"`
	Phone      string       `db:"phone" json:"phone"`
	Profession string       `db:"profession" json:"profession"`
	CreatedAt  time.Time    `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time    `db:"updated_at" json:"updatedAt"`
}

// Event is a scheduled institutional event.
type Event struct {
	ID           string    `db:"id" json:"id"`
	Title        string    `db:"title" json:"title"`
	Description  string    `db:"description" json:"description"`
	Image        string    `db:"image" json:"image"`
	Date         time.Time `db:"date" json:"date"`
	Time         string    `db:"time" json:"time"`
	Location     string    `db:"location" json:"location"`
	Category     string    `db:"category" json:"category"`
	Attendees    int       `db:"attendees" json:"attendees"`
	MaxAttendees int       `db:"max_attendees" json:"maxAttendees"`
	IsActive     bool      `db:"is_active" json:"isActive"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

// NotificationTypes enumerates notification severities.
var NotificationTypes = []string{"success", "warning", "error", "info"}

// Notification is a stored announcement shown in the portal.
type Notification struct {
	ID        string    `db:"id" json:"id"`
	Title     string    `db:"title" json:"title"`
	Message   string    `db:"message" json:"message"`
	Type      string    `db:"type" json:"type"`
	Timestamp time.Time `db:"timestamp" json:"timestamp"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// NotificationFilter captures notification list criteria.
type NotificationFilter struct {
	Type      string
	StartDate *time.Time
	EndDate   *time.Time
	Page      int
	PageSize  int
}

// ContactStatus enumerates contact inbox states.
type ContactStatus string

const (
	ContactStatusNew      ContactStatus = "new"
	ContactStatusRead     ContactStatus = "read"
	ContactStatusReplied  ContactStatus = "replied"
	ContactStatusArchived ContactStatus = "archived"
)

// Contact is a message submitted through the public contact form.
type Contact struct {
	ID         string        `db:"id" json:"id"`
	FirstName  string        `db:"first_name" json:"firstname"`
	LastName   string        `db:"last_name" json:"lastname"`
	Email      string        `db:"email" json:"email"`
	Subject    string        `db:"subject" json:"subject"`
	Message    string        `db:"message" json:"message"`
	Status     ContactStatus `db:"status" json:"status"`
	AdminNotes string        `db:"admin_notes" json:"adminNotes"`
	IPAddress  string        `db:"ip_address" json:"ipAddress,omitempty"`
	UserAgent  string        `db:"user_agent" json:"userAgent,omitempty"`
	CreatedAt  time.Time     `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time     `db:"updated_at" json:"updatedAt"`
}

// FullName joins first and last name.
func (c Contact) FullName() string {
	return c.FirstName + " " + c.LastName
}

// ContactFilter captures inbox list criteria.
type ContactFilter struct {
	Status    ContactStatus
	Search    string
	StartDate *time.Time
	EndDate   *time.Time
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
	Unpaged   bool
}

// ContactStatusCount is one row of the inbox breakdown.
type ContactStatusCount struct {
	Status ContactStatus `db:"status" json:"status"`
	Count  int           `db:"count" json:"count"`
}
