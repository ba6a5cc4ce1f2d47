package models

import "time"

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// OutstandingToken records every token minted for a user so that all of
// them can be blacklisted at logout.
type OutstandingToken struct {
	JTI       string    `json:"jti" dynamodbav:"jti"`
	UserID    string    `json:"user_id" dynamodbav:"user_id"`
	SessionID string    `json:"session_id" dynamodbav:"session_id"`
	Type      string    `json:"type" dynamodbav:"type"`
	CreatedAt time.Time `json:"created_at" dynamodbav:"created_at"`
	ExpiresAt time.Time `json:"expires_at" dynamodbav:"expires_at"`
}

func (t *OutstandingToken) GetPK() string {
	return TokenPK(t.UserID)
}

func (t *OutstandingToken) GetSK() string {
	return "JTI#" + t.JTI
}

func TokenPK(userID string) string {
	return "TOKEN#" + userID
}
