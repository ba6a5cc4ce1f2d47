package models

import (
	"time"
)

type Role string

const (
	RoleDoctor     Role = "doctor"
	RolePatient    Role = "patient"
	RoleHospital   Role = "hospital"
	RoleClinic     Role = "clinic"
	RoleFrontDesk  Role = "front_desk"
	RoleBackDesk   Role = "back_desk"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "superadmin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleDoctor, RolePatient, RoleHospital, RoleClinic,
		RoleFrontDesk, RoleBackDesk, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

type User struct {
	ID           string    `json:"id" dynamodbav:"id"`
	Mobile       string    `json:"mobile" dynamodbav:"mobile"`
	Name         string    `json:"name,omitempty" dynamodbav:"name,omitempty"`
	Email        string    `json:"email,omitempty" dynamodbav:"email,omitempty"`
	Role         Role      `json:"usertype" dynamodbav:"usertype"`
	PasswordHash string    `json:"-" dynamodbav:"password_hash"`
	IsActive     bool      `json:"is_active" dynamodbav:"is_active"`
	IsVerified   bool      `json:"is_verified" dynamodbav:"is_verified"`
	CreatedAt    time.Time `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" dynamodbav:"updated_at"`
}

func (u *User) GetPK() string {
	return "USER!" + u.Mobile
}

func (u *User) GetSK() string {
	return "METADATA"
}

// ProfilePatch lists the profile fields a user may change. Nil fields are
// left untouched.
type ProfilePatch struct {
	Name  *string `json:"name" validate:"omitempty,min=1,max=255"`
	Email *string `json:"email" validate:"omitempty,email"`
}

func (p ProfilePatch) Empty() bool {
	return p.Name == nil && p.Email == nil
}

type CreateUserInput struct {
	Mobile   string `json:"mobile" validate:"required,mobile"`
	Usertype Role   `json:"usertype" validate:"required"`
	Name     string `json:"name" validate:"omitempty,max=255"`
}
