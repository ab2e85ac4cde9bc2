package hostel

import (
	"io"
	"time"
)

// Account is a teacher or admin as listed to clients.
type Account struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Report is one submitted hostel inspection.
type Report struct {
	ID                     int64     `json:"id"`
	TeacherName            string    `json:"teacher_name"`
	SubordinateTeacherName string    `json:"subordinate_teacher_name"`
	HostelName             string    `json:"hostel_name"`
	GeneralComments        *string   `json:"general_comments"`
	MaintenanceRequired    *string   `json:"maintenance_required"`
	Complaints             *string   `json:"complaints"`
	ImageURL               *string   `json:"image_url"`
	CreatedAt              time.Time `json:"created_at"`
}

// ReportInput carries the fields a teacher submits. Optional text fields
// left empty are stored as NULL.
type ReportInput struct {
	TeacherName            string
	SubordinateTeacherName string
	HostelName             string
	GeneralComments        string
	MaintenanceRequired    string
	Complaints             string
	ImageURL               string
}

// Image is an evidence photo attached to a submission.
type Image struct {
	Body     io.Reader
	Filename string
	MimeType string
}
