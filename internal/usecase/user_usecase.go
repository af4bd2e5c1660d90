package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"sort"
	"strings"
	"time"
	"unicode"

	"worklinkph/internal/domain/user"
	"worklinkph/internal/pkg/validate"
	ucauth "worklinkph/internal/usecase/auth"

	"github.com/google/uuid"
)

// AvatarStorage uploads an image and returns its public URL.
type AvatarStorage interface {
	PutAvatar(ctx context.Context, userID uuid.UUID, filename, contentType string, r io.Reader, size int64) (string, error)
	RemoveAvatar(ctx context.Context, url string) error
}

type AvatarUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

type UserUsecase interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (user.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, fields map[string]json.RawMessage) (user.User, error)
	DeleteAccount(ctx context.Context, userID uuid.UUID) error
	SaveOnboarding(ctx context.Context, userID uuid.UUID, completed *bool, progress json.RawMessage) (user.User, error)
	SetAvatarURL(ctx context.Context, userID uuid.UUID, url string) (user.User, error)
	UploadAvatar(ctx context.Context, userID uuid.UUID, in AvatarUpload) (user.User, error)
}

type User struct {
	users     user.Repository
	provider  ucauth.Provider
	storage   AvatarStorage
	listings  ListingCache
	validator *validate.Validator
	logger    *log.Logger
	now       func() time.Time
}

// NewUserUsecase wires the profile operations. listings may be nil; when set,
// the jobs list cache is dropped after an account delete.
func NewUserUsecase(users user.Repository, provider ucauth.Provider, storage AvatarStorage, listings ListingCache, v *validate.Validator, logger *log.Logger) *User {
	if v == nil {
		v = validate.New()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &User{users: users, provider: provider, storage: storage, listings: listings, validator: v, logger: logger, now: time.Now}
}

func (u *User) GetProfile(ctx context.Context, userID uuid.UUID) (user.User, error) {
	usr, err := u.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.User{}, ErrUserNotFound
		}
		return user.User{}, err
	}
	return usr, nil
}

// UpdateProfile applies the recognised keys of a profile patch. Keys may be
// camelCase or snake_case; unknown keys are ignored.
func (u *User) UpdateProfile(ctx context.Context, userID uuid.UUID, fields map[string]json.RawMessage) (user.User, error) {
	changes, err := u.profileChanges(fields)
	if err != nil {
		return user.User{}, err
	}
	if len(changes) == 0 {
		return user.User{}, ErrNoFieldsToUpdate
	}

	cur, err := u.GetProfile(ctx, userID)
	if err != nil {
		return user.User{}, err
	}

	first, hasFirst := changes[user.ColFirstName]
	last, hasLast := changes[user.ColLastName]
	if hasFirst || hasLast {
		f, l := cur.FirstName, cur.LastName
		if hasFirst {
			f = first.(string)
		}
		if hasLast {
			l = last.(string)
		}
		changes[user.ColFullName] = user.FullName(f, l)
	}

	newEmail, _ := changes[user.ColEmail].(string)
	if newEmail == "" || newEmail == cur.Email || u.provider == nil {
		return u.apply(ctx, userID, changes)
	}

	// the provider signs in with the profile email, so move it there first
	creds := ucauth.Credentials{AuthID: cur.AuthID}
	if err := u.provider.ChangeEmail(ctx, creds, newEmail); err != nil {
		if errors.Is(err, ucauth.ErrEmailAlreadyRegistered) {
			return user.User{}, ErrEmailTaken
		}
		return user.User{}, err
	}
	updated, err := u.apply(ctx, userID, changes)
	if err != nil {
		if rerr := u.provider.ChangeEmail(context.WithoutCancel(ctx), creds, cur.Email); rerr != nil {
			u.logger.Printf("user profile | restore provider email failed user=%s err=%v", userID, rerr)
		}
		return user.User{}, err
	}
	return updated, nil
}

func (u *User) DeleteAccount(ctx context.Context, userID uuid.UUID) error {
	usr, err := u.GetProfile(ctx, userID)
	if err != nil {
		return err
	}
	if err := u.users.Delete(ctx, userID); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if u.provider != nil {
		if err := u.provider.Revoke(ctx, ucauth.Credentials{AuthID: usr.AuthID}); err != nil {
			u.logger.Printf("user delete | revoke credentials user=%s err=%v", userID, err)
		}
	}
	// posted_by on the user's jobs is now NULL
	if u.listings != nil {
		if err := u.listings.DeleteByPattern(ctx, jobsListPrefix+"*"); err != nil {
			u.logger.Printf("user delete | jobs cache invalidate failed user=%s err=%v", userID, err)
		}
	}
	return nil
}

// SaveOnboarding records progress and/or completion. With neither given it
// marks onboarding as completed.
func (u *User) SaveOnboarding(ctx context.Context, userID uuid.UUID, completed *bool, progress json.RawMessage) (user.User, error) {
	changes := user.Changes{}
	if completed != nil {
		changes[user.ColOnboardingCompleted] = *completed
	}
	if len(progress) > 0 {
		obj, err := jsonObject(progress)
		if err != nil {
			return user.User{}, err
		}
		changes[user.ColOnboardingProgress] = obj
	}
	if len(changes) == 0 {
		changes[user.ColOnboardingCompleted] = true
	}
	return u.apply(ctx, userID, changes)
}

func (u *User) SetAvatarURL(ctx context.Context, userID uuid.UUID, url string) (user.User, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return user.User{}, ErrAvatarRequired
	}
	return u.apply(ctx, userID, user.Changes{user.ColAvatarURL: url})
}

func (u *User) UploadAvatar(ctx context.Context, userID uuid.UUID, in AvatarUpload) (user.User, error) {
	if in.Body == nil || in.Size == 0 {
		return user.User{}, ErrAvatarRequired
	}
	if u.storage == nil {
		return user.User{}, ErrStorageDisabled
	}
	cur, err := u.GetProfile(ctx, userID)
	if err != nil {
		return user.User{}, err
	}
	url, err := u.storage.PutAvatar(ctx, userID, in.Filename, in.ContentType, in.Body, in.Size)
	if err != nil {
		return user.User{}, err
	}
	updated, err := u.SetAvatarURL(ctx, userID, url)
	if err != nil {
		if rerr := u.storage.RemoveAvatar(context.WithoutCancel(ctx), url); rerr != nil {
			u.logger.Printf("user avatar | remove orphaned upload failed user=%s err=%v", userID, rerr)
		}
		return user.User{}, err
	}
	if cur.AvatarURL != nil && *cur.AvatarURL != url {
		if err := u.storage.RemoveAvatar(ctx, *cur.AvatarURL); err != nil {
			u.logger.Printf("user avatar | remove previous failed user=%s err=%v", userID, err)
		}
	}
	return updated, nil
}

func (u *User) apply(ctx context.Context, userID uuid.UUID, changes user.Changes) (user.User, error) {
	usr, err := u.users.Update(ctx, userID, changes, u.now().UTC())
	if err != nil {
		switch {
		case errors.Is(err, user.ErrNotFound):
			return user.User{}, ErrUserNotFound
		case errors.Is(err, user.ErrEmailTaken):
			return user.User{}, ErrEmailTaken
		case errors.Is(err, user.ErrPhoneTaken):
			return user.User{}, ErrPhoneTaken
		}
		return user.User{}, err
	}
	return usr, nil
}

func (u *User) profileChanges(fields map[string]json.RawMessage) (user.Changes, error) {
	changes := user.Changes{}
	verr := &ValidationError{}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		raw := fields[key]
		col := ToSnakeCase(key)
		if !isProfileColumn(col) {
			continue
		}

		switch col {
		case user.ColFirstName, user.ColLastName:
			s, ok := jsonString(raw)
			s = strings.TrimSpace(s)
			if !ok || len([]rune(s)) < 2 {
				if col == user.ColFirstName {
					verr.Add("firstName", "First name must be at least 2 characters")
				} else {
					verr.Add("lastName", "Last name must be at least 2 characters")
				}
				continue
			}
			changes[col] = s
		case user.ColEmail:
			s, ok := jsonString(raw)
			s = normalizeEmail(s)
			if !ok || !u.validator.IsEmail(s) {
				verr.Add("email", "Please provide a valid email address")
				continue
			}
			changes[col] = s
		case user.ColPhone:
			s, ok := jsonString(raw)
			s = strings.TrimSpace(s)
			if !ok || !validate.IsPhone(s) {
				verr.Add("phone", "Please provide a valid phone number (09XXXXXXXXX)")
				continue
			}
			changes[col] = s
		case user.ColCity, user.ColProvince, user.ColIdentity, user.ColSkills, user.ColAvatarURL:
			if isJSONNull(raw) {
				changes[col] = nil
				continue
			}
			s, ok := jsonString(raw)
			if !ok {
				verr.Add(key, "Invalid value")
				continue
			}
			changes[col] = strings.TrimSpace(s)
		case user.ColOnboardingCompleted:
			changes[col] = jsonTruthy(raw)
		default:
			obj, err := jsonObject(raw)
			if err != nil {
				verr.Add(key, "Invalid value")
				continue
			}
			changes[col] = obj
		}
	}

	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	return changes, nil
}

var profileColumns = map[string]struct{}{
	user.ColFirstName:               {},
	user.ColLastName:                {},
	user.ColEmail:                   {},
	user.ColPhone:                   {},
	user.ColCity:                    {},
	user.ColProvince:                {},
	user.ColIdentity:                {},
	user.ColSkills:                  {},
	user.ColAvatarURL:               {},
	user.ColJobPreferences:          {},
	user.ColAccessibilitySettings:   {},
	user.ColNotificationPreferences: {},
	user.ColOnboardingCompleted:     {},
	user.ColOnboardingProgress:      {},
}

func isProfileColumn(col string) bool {
	_, ok := profileColumns[col]
	return ok
}

// ToSnakeCase turns "jobPreferences" into "job_preferences". Keys already in
// snake_case pass through unchanged.
func ToSnakeCase(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 4)
	for _, r := range s {
		if unicode.IsUpper(r) {
			b.WriteByte('_')
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func jsonString(raw json.RawMessage) (string, bool) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

func isJSONNull(raw json.RawMessage) bool {
	return len(raw) == 0 || string(bytes.TrimSpace(raw)) == "null"
}

// jsonObject accepts an object (or null, stored as {}).
func jsonObject(raw json.RawMessage) (json.RawMessage, error) {
	if isJSONNull(raw) {
		return json.RawMessage("{}"), nil
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, ErrInvalidInput
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return nil, ErrInvalidInput
	}
	return json.RawMessage(buf.Bytes()), nil
}

// jsonTruthy follows the loose boolean rules web clients send: false, 0, "",
// null and "false" are false.
func jsonTruthy(raw json.RawMessage) bool {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return false
	}
	switch t := v.(type) {
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		return t != "" && !strings.EqualFold(t, "false") && t != "0"
	case nil:
		return false
	default:
		return true
	}
}
