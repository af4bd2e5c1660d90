package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"worklinkph/internal/database"
	"worklinkph/internal/domain/user"

	"github.com/google/uuid"
)

const userColumns = `id, auth_id, full_name, first_name, last_name, email, phone, password_hash,
	city, province, identity, skills, avatar_url,
	job_preferences, accessibility_settings, notification_preferences,
	onboarding_completed, onboarding_progress, created_at, updated_at`

type SQLUserRepository struct {
	db database.DB
}

func NewSQLUserRepository(db database.DB) *SQLUserRepository {
	return &SQLUserRepository{db: db}
}

func (r *SQLUserRepository) Create(ctx context.Context, u user.User) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO users (`+userColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID,
		u.AuthID,
		u.FullName,
		u.FirstName,
		u.LastName,
		u.Email,
		u.Phone,
		u.PasswordHash,
		u.City,
		u.Province,
		u.Identity,
		u.Skills,
		u.AvatarURL,
		encodeJSON(u.JobPreferences, "{}"),
		encodeJSON(u.AccessibilitySettings, "{}"),
		encodeJSON(u.NotificationPreferences, "{}"),
		u.OnboardingCompleted,
		encodeJSON(u.OnboardingProgress, "{}"),
		u.CreatedAt.UTC(),
		u.UpdatedAt.UTC(),
	)
	if err != nil {
		return mapUserUniqueErr(err)
	}
	return nil
}

func (r *SQLUserRepository) GetByID(ctx context.Context, id uuid.UUID) (user.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
}

func (r *SQLUserRepository) GetByEmail(ctx context.Context, email string) (user.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
}

func (r *SQLUserRepository) GetByPhone(ctx context.Context, phone string) (user.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE phone = ?`, phone)
}

func (r *SQLUserRepository) GetByAuthID(ctx context.Context, authID string) (user.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE auth_id = ?`, authID)
}

func (r *SQLUserRepository) Update(ctx context.Context, id uuid.UUID, changes user.Changes, updatedAt time.Time) (user.User, error) {
	if len(changes) == 0 {
		return r.GetByID(ctx, id)
	}

	cols := make([]string, 0, len(changes))
	for col := range changes {
		if !user.IsUpdatableColumn(col) {
			return user.User{}, fmt.Errorf("column %q is not updatable", col)
		}
		cols = append(cols, col)
	}
	sort.Strings(cols)

	sets := make([]string, 0, len(cols)+1)
	args := make([]any, 0, len(cols)+2)
	for _, col := range cols {
		sets = append(sets, col+` = ?`)
		args = append(args, userColumnValue(changes[col]))
	}
	sets = append(sets, `updated_at = ?`)
	args = append(args, updatedAt.UTC(), id)

	n, err := r.db.Exec(ctx, `UPDATE users SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return user.User{}, mapUserUniqueErr(err)
	}
	if n == 0 && r.db.Dialect() != database.DialectMySQL {
		return user.User{}, user.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *SQLUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return user.ErrNotFound
	}
	return nil
}

func (r *SQLUserRepository) getOne(ctx context.Context, query string, arg any) (user.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, query, arg))
	if err != nil {
		if database.IsNoRows(err) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, err
	}
	return u, nil
}

func scanUser(row database.Row) (user.User, error) {
	var (
		u                  user.User
		jobPrefs           string
		accessibility      string
		notifications      string
		onboardingProgress string
	)
	err := row.Scan(
		&u.ID,
		&u.AuthID,
		&u.FullName,
		&u.FirstName,
		&u.LastName,
		&u.Email,
		&u.Phone,
		&u.PasswordHash,
		&u.City,
		&u.Province,
		&u.Identity,
		&u.Skills,
		&u.AvatarURL,
		&jobPrefs,
		&accessibility,
		&notifications,
		&u.OnboardingCompleted,
		&onboardingProgress,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return user.User{}, err
	}
	u.JobPreferences = decodeObject(jobPrefs)
	u.AccessibilitySettings = decodeObject(accessibility)
	u.NotificationPreferences = decodeObject(notifications)
	u.OnboardingProgress = decodeObject(onboardingProgress)
	return u, nil
}

func userColumnValue(v any) any {
	if raw, ok := v.(json.RawMessage); ok {
		return encodeJSON(raw, "{}")
	}
	return v
}

func mapUserUniqueErr(err error) error {
	if !isUnique(err) {
		return err
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "phone"):
		return user.ErrPhoneTaken
	case strings.Contains(msg, "email"):
		return user.ErrEmailTaken
	}
	return err
}
