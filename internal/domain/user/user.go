package user

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	ErrNotFound           = errors.New("user: not found")
	ErrEmailTaken         = errors.New("user: email already registered")
	ErrInvalidDesignation = errors.New("user: designation must be player or facilities")
	ErrMissingField       = errors.New("user: required field missing")
)

type UserID string

// Designation separates venue owners from players booking them.
type Designation string

const (
	DesignationPlayer     Designation = "player"
	DesignationFacilities Designation = "facilities"
)

type User struct {
	ID            UserID
	FullName      string
	Email         string
	ContactNumber string
	Designation   Designation
	ProfileImage  string
	PasswordHash  string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type Repository interface {
	ByID(ctx context.Context, id UserID) (*User, error)
	ByEmail(ctx context.Context, email string) (*User, error)
	Save(ctx context.Context, u *User) error
}

type CreateParams struct {
	ID            UserID
	FullName      string
	Email         string
	ContactNumber string
	Designation   Designation
	ProfileImage  string
	PasswordHash  string
	Now           time.Time
}

func New(params CreateParams) (*User, error) {
	fullName := strings.TrimSpace(params.FullName)
	email := strings.ToLower(strings.TrimSpace(params.Email))
	if fullName == "" || email == "" || params.ContactNumber == "" || params.PasswordHash == "" {
		return nil, ErrMissingField
	}
	switch params.Designation {
	case DesignationPlayer, DesignationFacilities:
	default:
		return nil, ErrInvalidDesignation
	}
	now := params.Now.UTC()
	return &User{
		ID:            params.ID,
		FullName:      fullName,
		Email:         email,
		ContactNumber: params.ContactNumber,
		Designation:   params.Designation,
		ProfileImage:  params.ProfileImage,
		PasswordHash:  params.PasswordHash,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// IsOwner reports whether the user may create and manage venues.
func (u *User) IsOwner() bool {
	return u.Designation == DesignationFacilities
}

func (u *User) UpdateProfile(fullName, contactNumber string, now time.Time) {
	if v := strings.TrimSpace(fullName); v != "" {
		u.FullName = v
	}
	if v := strings.TrimSpace(contactNumber); v != "" {
		u.ContactNumber = v
	}
	u.UpdatedAt = now.UTC()
}

func (u *User) SetProfileImage(url string, now time.Time) {
	u.ProfileImage = url
	u.UpdatedAt = now.UTC()
}
