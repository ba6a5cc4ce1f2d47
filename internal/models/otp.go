package models

import "time"

// SortableTime is a fixed-width UTC layout so sort keys order the same way
// the timestamps do.
const SortableTime = "2006-01-02T15:04:05.000000000Z"

type OneTimeCode struct {
	ID          string    `json:"uuid" dynamodbav:"uuid"`
	PhoneNumber string    `json:"phone_number" dynamodbav:"phone_number"`
	UserID      string    `json:"user_id,omitempty" dynamodbav:"user_id,omitempty"`
	CodeHash    string    `json:"-" dynamodbav:"otp_hash"`
	CreatedAt   time.Time `json:"created_at" dynamodbav:"created_at"`
	ExpiresAt   time.Time `json:"expires_at" dynamodbav:"expires_at"`
	IsSent      bool      `json:"is_sent" dynamodbav:"is_sent"`
	IsVerified  bool      `json:"is_verified" dynamodbav:"is_verified"`
}

func (c *OneTimeCode) GetPK() string {
	return "OTP#" + c.PhoneNumber
}

func (c *OneTimeCode) GetSK() string {
	return "CODE#" + c.CreatedAt.UTC().Format(SortableTime) + "#" + c.ID
}

// IsExpired reports whether now is strictly past the expiry instant; a code
// checked exactly at ExpiresAt is still valid.
func (c *OneTimeCode) IsExpired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}
