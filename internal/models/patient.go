package models

import "time"

type PatientProfile struct {
	ID               string     `json:"id" gorm:"primaryKey;size:36"`
	UserID           string     `json:"user_id" gorm:"size:36;index;not null"`
	Name             string     `json:"name" gorm:"size:255;not null"`
	Relation         string     `json:"relation" gorm:"size:50"`
	Gender           string     `json:"gender,omitempty" gorm:"size:10"`
	DateOfBirth      *time.Time `json:"date_of_birth,omitempty" gorm:"type:date"`
	BloodGroup       string     `json:"blood_group,omitempty" gorm:"size:5"`
	Phone            string     `json:"phone,omitempty" gorm:"size:15"`
	Email            string     `json:"email,omitempty"`
	Address          string     `json:"address,omitempty" gorm:"type:text"`
	MedicalHistory   string     `json:"medical_history,omitempty" gorm:"type:text"`
	Allergies        string     `json:"allergies,omitempty" gorm:"type:text"`
	EmergencyContact string     `json:"emergency_contact,omitempty" gorm:"size:15"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

type PatientProfileInput struct {
	Name             *string `json:"name" validate:"omitempty,min=1,max=255"`
	Relation         *string `json:"relation" validate:"omitempty,oneof=self spouse child parent sibling other"`
	Gender           *string `json:"gender" validate:"omitempty,oneof=male female other"`
	DateOfBirth      *Date   `json:"date_of_birth"`
	BloodGroup       *string `json:"blood_group" validate:"omitempty,oneof=A+ A- B+ B- AB+ AB- O+ O-"`
	Phone            *string `json:"phone" validate:"omitempty,mobile"`
	Email            *string `json:"email" validate:"omitempty,email"`
	Address          *string `json:"address"`
	MedicalHistory   *string `json:"medical_history"`
	Allergies        *string `json:"allergies"`
	EmergencyContact *string `json:"emergency_contact" validate:"omitempty,mobile"`
}
