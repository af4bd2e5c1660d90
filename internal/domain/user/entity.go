package user

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID     uuid.UUID
	AuthID *string

	FullName  string
	FirstName string
	LastName  string
	Email     string
	Phone     *string

	// Empty when credentials live with an external identity provider.
	PasswordHash *string

	City      *string
	Province  *string
	Identity  *string
	Skills    *string
	AvatarURL *string

	JobPreferences          json.RawMessage
	AccessibilitySettings   json.RawMessage
	NotificationPreferences json.RawMessage

	OnboardingCompleted bool
	OnboardingProgress  json.RawMessage

	CreatedAt time.Time
	UpdatedAt time.Time
}

func FullName(first, last string) string {
	return strings.TrimSpace(first + " " + last)
}

// Column names accepted by Repository.Update.
const (
	ColFirstName               = "first_name"
	ColLastName                = "last_name"
	ColFullName                = "full_name"
	ColEmail                   = "email"
	ColPhone                   = "phone"
	ColCity                    = "city"
	ColProvince                = "province"
	ColIdentity                = "identity"
	ColSkills                  = "skills"
	ColAvatarURL               = "avatar_url"
	ColJobPreferences          = "job_preferences"
	ColAccessibilitySettings   = "accessibility_settings"
	ColNotificationPreferences = "notification_preferences"
	ColOnboardingCompleted     = "onboarding_completed"
	ColOnboardingProgress      = "onboarding_progress"
)

var updatableColumns = map[string]struct{}{
	ColFirstName:               {},
	ColLastName:                {},
	ColFullName:                {},
	ColEmail:                   {},
	ColPhone:                   {},
	ColCity:                    {},
	ColProvince:                {},
	ColIdentity:                {},
	ColSkills:                  {},
	ColAvatarURL:               {},
	ColJobPreferences:          {},
	ColAccessibilitySettings:   {},
	ColNotificationPreferences: {},
	ColOnboardingCompleted:     {},
	ColOnboardingProgress:      {},
}

func IsUpdatableColumn(col string) bool {
	_, ok := updatableColumns[col]
	return ok
}
