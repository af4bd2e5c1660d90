package repository

import (
	"context"
	"strings"
	"time"

	"worklinkph/internal/database"
	"worklinkph/internal/domain/job"

	"github.com/google/uuid"
)

const jobColumns = `id, title, company, location, description, type, tags, posted_by,
	source, external_id, external_url, created_at, updated_at`

type SQLJobRepository struct {
	db database.DB
}

func NewSQLJobRepository(db database.DB) *SQLJobRepository {
	return &SQLJobRepository{db: db}
}

func (r *SQLJobRepository) Create(ctx context.Context, j job.Job) error {
	if j.Type == "" {
		j.Type = job.DefaultType
	}
	if j.Source == "" {
		j.Source = job.SourceLocal
	}
	_, err := r.db.Exec(ctx,
		`INSERT INTO jobs (`+jobColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		j.ID,
		j.Title,
		j.Company,
		j.Location,
		j.Description,
		j.Type,
		encodeTags(j.Tags),
		j.PostedBy,
		j.Source,
		j.ExternalID,
		j.ExternalURL,
		j.CreatedAt.UTC(),
		j.UpdatedAt.UTC(),
	)
	return err
}

func (r *SQLJobRepository) GetByID(ctx context.Context, id uuid.UUID) (job.Job, error) {
	j, err := scanJob(r.db.QueryRow(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = ?`, id))
	if err != nil {
		if database.IsNoRows(err) {
			return job.Job{}, job.ErrNotFound
		}
		return job.Job{}, err
	}
	return j, nil
}

// List applies the filters as case-insensitive substring matches (type is
// exact) and returns the newest jobs first.
func (r *SQLJobRepository) List(ctx context.Context, f job.Filter) ([]job.Job, error) {
	f = f.Normalize()

	var b strings.Builder
	b.WriteString(`SELECT ` + jobColumns + ` FROM jobs WHERE 1=1`)
	args := make([]any, 0, 8)

	if s := strings.TrimSpace(f.Search); s != "" {
		p := containsPattern(s)
		b.WriteString(` AND (LOWER(title) LIKE ? ESCAPE '!' OR LOWER(company) LIKE ? ESCAPE '!'` +
			` OR LOWER(location) LIKE ? ESCAPE '!' OR LOWER(description) LIKE ? ESCAPE '!')`)
		args = append(args, p, p, p, p)
	}
	if t := strings.TrimSpace(f.Type); t != "" {
		b.WriteString(` AND type = ?`)
		args = append(args, t)
	}
	if loc := strings.TrimSpace(f.Location); loc != "" {
		b.WriteString(` AND LOWER(location) LIKE ? ESCAPE '!'`)
		args = append(args, containsPattern(loc))
	}
	if len(f.Tags) > 0 {
		conds := make([]string, 0, len(f.Tags))
		for _, tag := range f.Tags {
			conds = append(conds, `LOWER(tags) LIKE ? ESCAPE '!'`)
			args = append(args, containsPattern(`"`+tag+`"`))
		}
		b.WriteString(` AND (` + strings.Join(conds, " OR ") + `)`)
	}

	b.WriteString(` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`)
	args = append(args, f.Limit, f.Offset)

	rows, err := r.db.Query(ctx, b.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]job.Job, 0)
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *SQLJobRepository) Update(ctx context.Context, id uuid.UUID, p job.Patch, updatedAt time.Time) (job.Job, error) {
	sets := make([]string, 0, 7)
	args := make([]any, 0, 8)
	if p.Title != nil {
		sets = append(sets, `title = ?`)
		args = append(args, *p.Title)
	}
	if p.Company != nil {
		sets = append(sets, `company = ?`)
		args = append(args, *p.Company)
	}
	if p.Location != nil {
		sets = append(sets, `location = ?`)
		args = append(args, *p.Location)
	}
	if p.Description != nil {
		sets = append(sets, `description = ?`)
		args = append(args, *p.Description)
	}
	if p.Type != nil {
		sets = append(sets, `type = ?`)
		args = append(args, *p.Type)
	}
	if p.Tags != nil {
		sets = append(sets, `tags = ?`)
		args = append(args, encodeTags(*p.Tags))
	}
	if len(sets) == 0 {
		return r.GetByID(ctx, id)
	}
	sets = append(sets, `updated_at = ?`)
	args = append(args, updatedAt.UTC(), id)

	n, err := r.db.Exec(ctx, `UPDATE jobs SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return job.Job{}, err
	}
	if n == 0 && r.db.Dialect() != database.DialectMySQL {
		return job.Job{}, job.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *SQLJobRepository) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := r.db.Exec(ctx, `DELETE FROM jobs WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return job.ErrNotFound
	}
	return nil
}

func (r *SQLJobRepository) Count(ctx context.Context) (int, error) {
	var c int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(1) FROM jobs`).Scan(&c); err != nil {
		return 0, err
	}
	return c, nil
}

func (r *SQLJobRepository) ExistsByExternalID(ctx context.Context, source, externalID string) (bool, error) {
	var c int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(1) FROM jobs WHERE source = ? AND external_id = ?`,
		source, externalID,
	).Scan(&c)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}

func scanJob(row database.Row) (job.Job, error) {
	var (
		j        job.Job
		tags     string
		postedBy uuid.NullUUID
	)
	err := row.Scan(
		&j.ID,
		&j.Title,
		&j.Company,
		&j.Location,
		&j.Description,
		&j.Type,
		&tags,
		&postedBy,
		&j.Source,
		&j.ExternalID,
		&j.ExternalURL,
		&j.CreatedAt,
		&j.UpdatedAt,
	)
	if err != nil {
		return job.Job{}, err
	}
	j.Tags = decodeTags(tags)
	if postedBy.Valid {
		id := postedBy.UUID
		j.PostedBy = &id
	}
	return j, nil
}
