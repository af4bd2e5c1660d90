package repository

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"worklinkph/internal/database"
	"worklinkph/internal/domain/resource"

	"github.com/google/uuid"
)

const resourceColumns = `id, title, organization, category, description, type, link, contact_info,
	created_at, updated_at`

type SQLResourceRepository struct {
	db database.DB
}

func NewSQLResourceRepository(db database.DB) *SQLResourceRepository {
	return &SQLResourceRepository{db: db}
}

func (r *SQLResourceRepository) Create(ctx context.Context, res resource.Resource) error {
	if res.Type == "" {
		res.Type = resource.DefaultType
	}
	_, err := r.db.Exec(ctx,
		`INSERT INTO resources (`+resourceColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		res.ID,
		res.Title,
		res.Organization,
		res.Category,
		res.Description,
		res.Type,
		res.Link,
		contactInfoValue(res.ContactInfo),
		res.CreatedAt.UTC(),
		res.UpdatedAt.UTC(),
	)
	return err
}

func (r *SQLResourceRepository) GetByID(ctx context.Context, id uuid.UUID) (resource.Resource, error) {
	res, err := scanResource(r.db.QueryRow(ctx, `SELECT `+resourceColumns+` FROM resources WHERE id = ?`, id))
	if err != nil {
		if database.IsNoRows(err) {
			return resource.Resource{}, resource.ErrNotFound
		}
		return resource.Resource{}, err
	}
	return res, nil
}

func (r *SQLResourceRepository) List(ctx context.Context, f resource.Filter) ([]resource.Resource, error) {
	f = f.Normalize()

	var b strings.Builder
	b.WriteString(`SELECT ` + resourceColumns + ` FROM resources WHERE 1=1`)
	args := make([]any, 0, 6)

	if s := strings.TrimSpace(f.Search); s != "" {
		p := containsPattern(s)
		b.WriteString(` AND (LOWER(title) LIKE ? ESCAPE '!' OR LOWER(organization) LIKE ? ESCAPE '!'` +
			` OR LOWER(description) LIKE ? ESCAPE '!')`)
		args = append(args, p, p, p)
	}
	if t := strings.TrimSpace(f.Type); t != "" {
		b.WriteString(` AND type = ?`)
		args = append(args, t)
	}
	if c := strings.TrimSpace(f.Category); c != "" {
		b.WriteString(` AND LOWER(category) LIKE ? ESCAPE '!'`)
		args = append(args, containsPattern(c))
	}

	b.WriteString(` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`)
	args = append(args, f.Limit, f.Offset)

	rows, err := r.db.Query(ctx, b.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]resource.Resource, 0)
	for rows.Next() {
		res, err := scanResource(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *SQLResourceRepository) Update(ctx context.Context, id uuid.UUID, p resource.Patch, updatedAt time.Time) (resource.Resource, error) {
	sets := make([]string, 0, 8)
	args := make([]any, 0, 9)
	if p.Title != nil {
		sets = append(sets, `title = ?`)
		args = append(args, *p.Title)
	}
	if p.Organization != nil {
		sets = append(sets, `organization = ?`)
		args = append(args, *p.Organization)
	}
	if p.Category != nil {
		sets = append(sets, `category = ?`)
		args = append(args, *p.Category)
	}
	if p.Description != nil {
		sets = append(sets, `description = ?`)
		args = append(args, *p.Description)
	}
	if p.Type != nil {
		sets = append(sets, `type = ?`)
		args = append(args, *p.Type)
	}
	if p.Link != nil {
		sets = append(sets, `link = ?`)
		args = append(args, *p.Link)
	}
	if p.ContactInfo != nil {
		sets = append(sets, `contact_info = ?`)
		args = append(args, contactInfoValue(*p.ContactInfo))
	}
	if len(sets) == 0 {
		return r.GetByID(ctx, id)
	}
	sets = append(sets, `updated_at = ?`)
	args = append(args, updatedAt.UTC(), id)

	n, err := r.db.Exec(ctx, `UPDATE resources SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return resource.Resource{}, err
	}
	if n == 0 && r.db.Dialect() != database.DialectMySQL {
		return resource.Resource{}, resource.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *SQLResourceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := r.db.Exec(ctx, `DELETE FROM resources WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return resource.ErrNotFound
	}
	return nil
}

func (r *SQLResourceRepository) Count(ctx context.Context) (int, error) {
	var c int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(1) FROM resources`).Scan(&c); err != nil {
		return 0, err
	}
	return c, nil
}

func scanResource(row database.Row) (resource.Resource, error) {
	var (
		res     resource.Resource
		contact *string
	)
	err := row.Scan(
		&res.ID,
		&res.Title,
		&res.Organization,
		&res.Category,
		&res.Description,
		&res.Type,
		&res.Link,
		&contact,
		&res.CreatedAt,
		&res.UpdatedAt,
	)
	if err != nil {
		return resource.Resource{}, err
	}
	if contact != nil {
		if raw := strings.TrimSpace(*contact); raw != "" && raw != "null" && json.Valid([]byte(raw)) {
			res.ContactInfo = json.RawMessage(raw)
		}
	}
	return res, nil
}

// contactInfoValue stores nil for absent or JSON-null contact info.
func contactInfoValue(raw json.RawMessage) any {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" || !json.Valid(raw) {
		return nil
	}
	return s
}
