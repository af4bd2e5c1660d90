package dto

import (
	"encoding/json"
	"time"

	"worklinkph/internal/domain/user"

	"github.com/google/uuid"
)

// UserResponse is the profile as clients see it. The password hash never
// leaves the server.
type UserResponse struct {
	ID                      uuid.UUID       `json:"id"`
	AuthID                  *string         `json:"auth_id,omitempty"`
	FullName                string          `json:"full_name"`
	FirstName               string          `json:"first_name"`
	LastName                string          `json:"last_name"`
	Email                   string          `json:"email"`
	Phone                   *string         `json:"phone"`
	City                    *string         `json:"city"`
	Province                *string         `json:"province"`
	Identity                *string         `json:"identity"`
	Skills                  *string         `json:"skills"`
	AvatarURL               *string         `json:"avatar_url"`
	JobPreferences          json.RawMessage `json:"job_preferences"`
	AccessibilitySettings   json.RawMessage `json:"accessibility_settings"`
	NotificationPreferences json.RawMessage `json:"notification_preferences"`
	OnboardingCompleted     bool            `json:"onboarding_completed"`
	OnboardingProgress      json.RawMessage `json:"onboarding_progress"`
	CreatedAt               time.Time       `json:"created_at"`
	UpdatedAt               time.Time       `json:"updated_at"`
}

func NewUserResponse(u user.User) UserResponse {
	return UserResponse{
		ID:                      u.ID,
		AuthID:                  u.AuthID,
		FullName:                u.FullName,
		FirstName:               u.FirstName,
		LastName:                u.LastName,
		Email:                   u.Email,
		Phone:                   u.Phone,
		City:                    u.City,
		Province:                u.Province,
		Identity:                u.Identity,
		Skills:                  u.Skills,
		AvatarURL:               u.AvatarURL,
		JobPreferences:          objectOrEmpty(u.JobPreferences),
		AccessibilitySettings:   objectOrEmpty(u.AccessibilitySettings),
		NotificationPreferences: objectOrEmpty(u.NotificationPreferences),
		OnboardingCompleted:     u.OnboardingCompleted,
		OnboardingProgress:      objectOrEmpty(u.OnboardingProgress),
		CreatedAt:               u.CreatedAt,
		UpdatedAt:               u.UpdatedAt,
	}
}

type UserEnvelope struct {
	User UserResponse `json:"user"`
}

type AuthResponse struct {
	User  UserResponse `json:"user"`
	Token string       `json:"token"`
}

func objectOrEmpty(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 || !json.Valid(raw) {
		return json.RawMessage("{}")
	}
	return raw
}
