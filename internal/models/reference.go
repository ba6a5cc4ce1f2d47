package models

// Reference tables are read-only for the API; rows are seeded by operators.

type State struct {
	ID     uint   `json:"id" gorm:"primaryKey"`
	Name   string `json:"name" gorm:"size:255;uniqueIndex;not null"`
	Status string `json:"status" gorm:"size:5"`
}

type City struct {
	ID      uint   `json:"id" gorm:"primaryKey"`
	Name    string `json:"name" gorm:"size:255;index;not null"`
	StateID uint   `json:"state_id" gorm:"index;not null"`
	State   *State `json:"state,omitempty" gorm:"foreignKey:StateID"`
}

type Location struct {
	ID     uint   `json:"id" gorm:"primaryKey"`
	Name   string `json:"name" gorm:"size:255;not null"`
	CityID uint   `json:"city_id" gorm:"index;not null"`
	City   *City  `json:"city,omitempty" gorm:"foreignKey:CityID"`
}

type Service struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Name        string `json:"name" gorm:"size:255;uniqueIndex;not null"`
	Description string `json:"description" gorm:"type:text"`
	Status      bool   `json:"status" gorm:"default:true"`
}

type Specialization struct {
	ID     uint   `json:"id" gorm:"primaryKey"`
	Name   string `json:"name" gorm:"size:255;uniqueIndex;not null"`
	Status bool   `json:"status" gorm:"default:true"`
}

type University struct {
	ID      uint   `json:"id" gorm:"primaryKey"`
	Name    string `json:"name" gorm:"size:255;index;not null"`
	StateID uint   `json:"state_id"`
	CityID  uint   `json:"city_id"`
	Pincode string `json:"pincode" gorm:"size:6"`
	Status  bool   `json:"status" gorm:"default:true"`
}

type College struct {
	ID              uint   `json:"id" gorm:"primaryKey"`
	Name            string `json:"name" gorm:"size:255;index;not null"`
	StateID         uint   `json:"state_id"`
	CityID          uint   `json:"city_id"`
	Pincode         string `json:"pincode" gorm:"size:6"`
	AffiliationType string `json:"affiliation_type" gorm:"size:20"` // govt, private, deemed
	UniversityID    uint   `json:"university_id"`
	Status          bool   `json:"status" gorm:"default:true"`
}

type Degree struct {
	ID     uint   `json:"id" gorm:"primaryKey"`
	Name   string `json:"name" gorm:"size:255;uniqueIndex;not null"`
	Status bool   `json:"status" gorm:"default:true"`
}

type Membership struct {
	ID     uint   `json:"id" gorm:"primaryKey"`
	Name   string `json:"name" gorm:"size:255;uniqueIndex;not null"`
	Status bool   `json:"status" gorm:"default:true"`
}

// Registration is a registering body such as a state medical council.
type Registration struct {
	ID     uint   `json:"id" gorm:"primaryKey"`
	Name   string `json:"name" gorm:"size:255;uniqueIndex;not null"`
	Status bool   `json:"status" gorm:"default:true"`
}
