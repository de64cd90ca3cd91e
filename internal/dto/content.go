package dto

import "time"

// DocumentRequest creates or replaces a library document.
type DocumentRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	Category    string `json:"category" validate:"required,oneof=administrative academic financial announcement other"`
	Description string `json:"description" validate:"required,max=1000"`
	FileSize    string `json:"fileSize" validate:"required"`
	FileType    string `json:"fileType" validate:"required,oneof=PDF DOC DOCX XLS XLSX PPT PPTX TXT ZIP"`
	URL         string `json:"url" validate:"required"`
}

// DocumentPatch updates selected document fields.
type DocumentPatch struct {
	Name        *string `json:"name" validate:"omitempty,max=200"`
	Category    *string `json:"category" validate:"omitempty,oneof=administrative academic financial announcement other"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
	FileSize    *string `json:"fileSize"`
	FileType    *string `json:"fileType" validate:"omitempty,oneof=PDF DOC DOCX XLS XLSX PPT PPTX TXT ZIP"`
	URL         *string `json:"url"`
}

// DocumentDownload describes where a document can be fetched.
type DocumentDownload struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	URL      string `json:"url"`
	FileType string `json:"fileType"`
	FileSize string `json:"fileSize"`
}

// GalleryItemRequest creates a gallery item.
type GalleryItemRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"required,max=1000"`
	Category    string `json:"category" validate:"omitempty,max=100"`
	ImageURL    string `json:"imageUrl" validate:"required"`
	AltText     string `json:"altText" validate:"omitempty,max=200"`
}

// GalleryItemPatch updates selected gallery fields.
type GalleryItemPatch struct {
	Title       *string `json:"title" validate:"omitempty,max=200"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
	Category    *string `json:"category" validate:"omitempty,max=100"`
	ImageURL    *string `json:"imageUrl"`
	AltText     *string `json:"altText" validate:"omitempty,max=200"`
}

// GalleryBulkRequest adds several items at once.
type GalleryBulkRequest struct {
	Items []GalleryItemRequest `json:"items" validate:"required,min=1,max=100,dive"`
}

// LeaderRequest creates a leader profile.
type LeaderRequest struct {
	Position   int          `json:"position" validate:"required,min=1"`
	Name       string       `json:"name" validate:"required,max=100"`
	Role       string       `json:"role" validate:"required,max=100"`
	Image      string       `json:"image" validate:"required"`
	Social     LeaderSocial `json:"social"`
	Category   string       `json:"category" validate:"required"`
	Phone      string       `json:"phone" validate:"required,phone"`
	Profession string       `json:"profession" validate:"required"`
}

// LeaderSocial holds the contact links of a leader.
type LeaderSocial struct {
	LinkedIn string `json:"linkedin"`
	Email    string `json:"email" validate:"required,email"`
}

// LeaderPatch updates selected leader fields.
type LeaderPatch struct {
	Name       *string `json:"name" validate:"omitempty,max=100"`
	Role       *string `json:"role" validate:"omitempty,max=100"`
	Image      *string `json:"image"`
	LinkedIn   *string `json:"linkedin"`
	Email      *string `json:"email" validate:"omitempty,email"`
	Category   *string `json:"category"`
	Phone      *string `json:"phone" validate:"omitempty,phone"`
	Profession *string `json:"profession"`
}

// EventRequest creates an event.
type EventRequest struct {
	Title        string    `json:"title" validate:"required,max=200"`
	Description  string    `json:"description" validate:"required"`
	Image        string    `json:"image" validate:"required"`
	Date         time.Time `json:"date" validate:"required"`
	Time         string    `json:"time" validate:"required"`
	Location     string    `json:"location" validate:"required"`
	Category     string    `json:"category" validate:"required"`
	Attendees    int       `json:"attendees" validate:"min=0"`
	MaxAttendees int       `json:"maxAttendees" validate:"required,min=1"`
}

// EventPatch updates selected event fields.
type EventPatch struct {
	Title        *string    `json:"title" validate:"omitempty,max=200"`
	Description  *string    `json:"description"`
	Image        *string    `json:"image"`
	Date         *time.Time `json:"date"`
	Time         *string    `json:"time"`
	Location     *string    `json:"location"`
	Category     *string    `json:"category"`
	Attendees    *int       `json:"attendees" validate:"omitempty,min=0"`
	MaxAttendees *int       `json:"maxAttendees" validate:"omitempty,min=1"`
}

// NotificationRequest creates a notification.
type NotificationRequest struct {
	Title   string `json:"title" validate:"required,max=200"`
	Message string `json:"message" validate:"required,max=500"`
	Type    string `json:"type" validate:"omitempty,oneof=success warning error info"`
}

// NotificationPatch updates selected notification fields.
type NotificationPatch struct {
	Title   *string `json:"title" validate:"omitempty,max=200"`
	Message *string `json:"message" validate:"omitempty,max=500"`
	Type    *string `json:"type" validate:"omitempty,oneof=success warning error info"`
}

// ContactRequest is the public contact form.
type ContactRequest struct {
	FirstName string `json:"firstname" validate:"required,max=50"`
	LastName  string `json:"lastname" validate:"required,max=50"`
	Email     string `json:"email" validate:"required,applicant_email"`
	Subject   string `json:"subject" validate:"required,max=200"`
	Message   string `json:"message" validate:"required,max=2000"`
	IPAddress string `json:"-"`
	UserAgent string `json:"-"`
}

// ContactTriageRequest updates the inbox state of a message.
type ContactTriageRequest struct {
	Status     *string `json:"status" validate:"omitempty,oneof=new read replied archived"`
	AdminNotes *string `json:"adminNotes" validate:"omitempty,max=500"`
}

// BulkDeleteRequest lists record ids to remove.
type BulkDeleteRequest struct {
	IDs []string `json:"ids" validate:"required,min=1,dive,required"`
}
