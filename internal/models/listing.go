package models

import "time"

// Listing is a directory entry for a doctor, hospital or clinic.
type Listing struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	UserID          string    `json:"user_id" gorm:"size:36;index;not null"`
	Title           string    `json:"title" gorm:"size:100;not null"`
	Description     string    `json:"description" gorm:"type:text"`
	ContactNumber   string    `json:"contact_number" gorm:"size:15"`
	Address         string    `json:"address,omitempty" gorm:"type:text"`
	StateID         uint      `json:"state_id"`
	CityID          uint      `json:"city_id"`
	LocationID      uint      `json:"location_id"`
	State           *State    `json:"state,omitempty" gorm:"foreignKey:StateID"`
	City            *City     `json:"city,omitempty" gorm:"foreignKey:CityID"`
	Location        *Location `json:"location,omitempty" gorm:"foreignKey:LocationID"`
	MapLink         string    `json:"map_link,omitempty"`
	WhatsappNumber  string    `json:"whatsapp_number,omitempty" gorm:"size:15"`
	Email           string    `json:"email,omitempty"`
	Status          bool      `json:"status" gorm:"index"`
	SearchTags      string    `json:"search_tags" gorm:"type:text"`
	OnlineVerified  bool      `json:"online_verified"`
	OfflineVerified bool      `json:"offline_verified"`
	QnA             bool      `json:"qna"`
	Slug            string    `json:"slug" gorm:"size:255;uniqueIndex"`
	ExperienceYears uint      `json:"experience_years"`
	Fee             uint      `json:"fee"`
	ProfileImage    string    `json:"profile_image,omitempty"`
	BannerImage     string    `json:"banner_image,omitempty"`
	VideoLink       string    `json:"video_link,omitempty"`
	Claimed         bool      `json:"claimed"`

	Services        []Service           `json:"services" gorm:"many2many:listing_services"`
	Specializations []Specialization    `json:"specializations" gorm:"many2many:listing_specializations"`
	Memberships     []Membership        `json:"memberships" gorm:"many2many:listing_memberships"`
	Educations      []Education         `json:"educations" gorm:"many2many:listing_educations"`
	Experiences     []Experience        `json:"experiences" gorm:"many2many:listing_experiences"`
	Registrations   []RegistrationEntry `json:"registrations" gorm:"many2many:listing_registrations"`

	CreatedBy string    `json:"created_by,omitempty" gorm:"size:36"`
	UpdatedBy string    `json:"updated_by,omitempty" gorm:"size:36"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ListingInput carries both create and update requests. On create the
// required fields must be present; on update nil means "unchanged".
type ListingInput struct {
	Title             *string `json:"title" validate:"omitempty,min=1,max=100"`
	Description       *string `json:"description" validate:"omitempty,min=1"`
	ContactNumber     *string `json:"contact_number" validate:"omitempty,mobile"`
	Address           *string `json:"address"`
	StateID           *uint   `json:"state_id" validate:"omitempty,gt=0"`
	CityID            *uint   `json:"city_id" validate:"omitempty,gt=0"`
	LocationID        *uint   `json:"location_id" validate:"omitempty,gt=0"`
	MapLink           *string `json:"map_link" validate:"omitempty,url"`
	WhatsappNumber    *string `json:"whatsapp_number" validate:"omitempty,mobile"`
	Email             *string `json:"email" validate:"omitempty,email"`
	QnA               *bool   `json:"qna"`
	Slug              *string `json:"slug" validate:"omitempty,max=255"`
	ExperienceYears   *uint   `json:"experience_years"`
	Fee               *uint   `json:"fee"`
	VideoLink         *string `json:"video_link" validate:"omitempty,url"`
	ServiceIDs        []uint  `json:"service_ids"`
	SpecializationIDs []uint  `json:"specialization_ids"`
	MembershipIDs     []uint  `json:"membership_ids"`
	EducationIDs      []uint  `json:"education_ids"`
	ExperienceIDs     []uint  `json:"experience_ids"`
	RegistrationIDs   []uint  `json:"registration_ids"`
}

type ImageKind string

const (
	ImageProfile ImageKind = "profile"
	ImageBanner  ImageKind = "banner"
)
