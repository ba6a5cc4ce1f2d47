package models

import "time"

type Education struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    string    `json:"user_id" gorm:"size:36;index;not null"`
	DegreeID  *uint     `json:"degree_id"`
	CollegeID *uint     `json:"college_id"`
	Year      int       `json:"year"`
	Status    bool      `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Training struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    string    `json:"user_id" gorm:"size:36;index;not null"`
	DegreeID  *uint     `json:"degree_id"`
	CollegeID *uint     `json:"college_id"`
	Year      int       `json:"year"`
	Status    bool      `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Experience struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	UserID      string     `json:"user_id" gorm:"size:36;index;not null"`
	Title       string     `json:"title" gorm:"size:255;not null"`
	Description string     `json:"description,omitempty" gorm:"type:text"`
	StartDate   *time.Time `json:"start_date,omitempty" gorm:"type:date"`
	EndDate     *time.Time `json:"end_date,omitempty" gorm:"type:date"`
	Ongoing     bool       `json:"ongoing"`
	Status      bool       `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// RegistrationEntry is a user's registration with a registering body.
type RegistrationEntry struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	UserID         string    `json:"user_id" gorm:"size:36;index;not null"`
	RegistrationID uint      `json:"registration_id" gorm:"not null"`
	Year           int       `json:"year"`
	Status         bool      `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// QualificationInput is shared by education and training records.
type QualificationInput struct {
	DegreeID  *uint `json:"degree_id" validate:"omitempty,gt=0"`
	CollegeID *uint `json:"college_id" validate:"omitempty,gt=0"`
	Year      *int  `json:"year"`
	Status    *bool `json:"status"`
}

type ExperienceInput struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=255"`
	Description *string `json:"description"`
	StartDate   *Date   `json:"start_date"`
	EndDate     *Date   `json:"end_date"`
	Ongoing     *bool   `json:"ongoing"`
	Status      *bool   `json:"status"`
}

type RegistrationEntryInput struct {
	RegistrationID *uint `json:"registration_id" validate:"omitempty,gt=0"`
	Year           *int  `json:"year"`
	Status         *bool `json:"status"`
}
