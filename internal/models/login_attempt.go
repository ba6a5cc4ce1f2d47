package models

import "time"

type LoginAttempt struct {
	ID          string    `json:"id" dynamodbav:"id"`
	UserID      string    `json:"user_id" dynamodbav:"user_id"`
	AttemptedAt time.Time `json:"attempted_at" dynamodbav:"attempted_at"`
	Successful  bool      `json:"successful" dynamodbav:"successful"`
}

func (a *LoginAttempt) GetPK() string {
	return AttemptPK(a.UserID)
}

func (a *LoginAttempt) GetSK() string {
	return "AT#" + a.AttemptedAt.UTC().Format(SortableTime) + "#" + a.ID
}

func AttemptPK(userID string) string {
	return "ATTEMPT#" + userID
}
