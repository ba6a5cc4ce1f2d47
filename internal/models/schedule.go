package models

import "time"

type Weekday string

const (
	Monday    Weekday = "monday"
	Tuesday   Weekday = "tuesday"
	Wednesday Weekday = "wednesday"
	Thursday  Weekday = "thursday"
	Friday    Weekday = "friday"
	Saturday  Weekday = "saturday"
	Sunday    Weekday = "sunday"
)

// Availability is a listing's weekly schedule for one day, split into up to
// three slots. Times are "HH:MM" in the listing's local time.
type Availability struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	ListingID  uint      `json:"listing_id" gorm:"index;not null"`
	Day        Weekday   `json:"day" gorm:"size:10;not null"`
	Slot1Start string    `json:"slot1_start" gorm:"size:5"`
	Slot1End   string    `json:"slot1_end" gorm:"size:5"`
	Slot2Start string    `json:"slot2_start,omitempty" gorm:"size:5"`
	Slot2End   string    `json:"slot2_end,omitempty" gorm:"size:5"`
	Slot3Start string    `json:"slot3_start,omitempty" gorm:"size:5"`
	Slot3End   string    `json:"slot3_end,omitempty" gorm:"size:5"`
	SlotTime   int       `json:"slot_time"`
	MaxInSlot  int       `json:"max_in_slot"`
	MaxInDay   int       `json:"max_in_day"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type AvailabilityInput struct {
	Day        Weekday `json:"day" validate:"required,oneof=monday tuesday wednesday thursday friday saturday sunday"`
	Slot1Start string  `json:"slot1_start" validate:"required,clock"`
	Slot1End   string  `json:"slot1_end" validate:"required,clock"`
	Slot2Start string  `json:"slot2_start" validate:"required_with=Slot2End,omitempty,clock"`
	Slot2End   string  `json:"slot2_end" validate:"required_with=Slot2Start,omitempty,clock"`
	Slot3Start string  `json:"slot3_start" validate:"required_with=Slot3End,omitempty,clock"`
	Slot3End   string  `json:"slot3_end" validate:"required_with=Slot3Start,omitempty,clock"`
	SlotTime   int     `json:"slot_time" validate:"required,oneof=5 10 15 30 45 60"`
	MaxInSlot  int     `json:"max_in_slot" validate:"omitempty,min=1"`
	MaxInDay   int     `json:"max_in_day" validate:"omitempty,min=1"`
}

// Unavailability blocks a listing for a date, either all day or between
// StartTime and EndTime.
type Unavailability struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	ListingID uint      `json:"listing_id" gorm:"index;not null"`
	Date      time.Time `json:"date" gorm:"type:date;not null"`
	AllDay    bool      `json:"all_day"`
	StartTime string    `json:"start_time,omitempty" gorm:"size:5"`
	EndTime   string    `json:"end_time,omitempty" gorm:"size:5"`
	Reason    string    `json:"reason,omitempty" gorm:"size:255"`
	CreatedAt time.Time `json:"created_at"`
}

type UnavailabilityInput struct {
	Date      Date   `json:"date" validate:"required"`
	AllDay    bool   `json:"all_day"`
	StartTime string `json:"start_time" validate:"omitempty,clock"`
	EndTime   string `json:"end_time" validate:"omitempty,clock"`
	Reason    string `json:"reason" validate:"max=255"`
}
