package domain

import "time"

// Faculty is a teaching staff profile shown on the public site.
type Faculty struct {
	ID              int64
	Name            string
	Qualifications  string
	Description     string
	Specialities    string
	ExperienceYears int
	ImageURL        string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Scholar is a top-performing student showcased on the public site,
// together with the subjects they scored highest in.
type Scholar struct {
	ID        int64
	Name      string
	Degree    string
	ImageURL  string
	Subjects  []ScholarSubject
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ScholarSubject is one subject-and-marks entry of a scholar.
type ScholarSubject struct {
	ID        int64
	ScholarID int64
	Subject   string
	Marks     int
}
