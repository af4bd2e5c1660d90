package sqldb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"worklinkph/internal/config"
	"worklinkph/internal/database"

	"github.com/go-sql-driver/mysql"
	"modernc.org/sqlite"
)

const mysqlDuplicateEntry = 1062

// SQLite's built-in LOWER only folds ASCII; list filters need "Ñ" to match "ñ"
// the same way Postgres and MySQL do.
func init() {
	sqlite.MustRegisterDeterministicScalarFunction("lower", 1, unicodeLower)
}

func unicodeLower(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case string:
		return strings.ToLower(v), nil
	case []byte:
		return strings.ToLower(string(v)), nil
	}
	return args[0], nil
}

// DB adapts a database/sql handle (SQLite or MySQL) to database.DB.
type DB struct {
	db      *sql.DB
	dialect string
}

// OpenSQLite opens (and creates, if needed) the SQLite file at path. The
// special path ":memory:" opens a private in-memory database.
func OpenSQLite(ctx context.Context, path string) (*DB, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("empty sqlite path")
	}

	var dsn string
	if path == ":memory:" {
		dsn = "file::memory:?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_time_format=sqlite"
	} else {
		if dir := filepath.Dir(path); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create sqlite dir: %w", err)
			}
		}
		dsn = fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_time_format=sqlite", path)
	}

	pool, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	// sqlite wants a single writer; an in-memory db also lives per connection
	pool.SetMaxOpenConns(1)
	pool.SetConnMaxLifetime(0)

	d := &DB{db: pool, dialect: database.DialectSQLite}
	if err := d.ping(ctx); err != nil {
		_ = pool.Close()
		return nil, err
	}
	return d, nil
}

func OpenMySQL(ctx context.Context, cfg config.DatabaseConfig) (*DB, error) {
	mc := mysql.NewConfig()
	mc.User = cfg.DBUser
	mc.Passwd = cfg.DBPassword
	mc.Net = "tcp"
	host := cfg.DBHost
	if host == "" {
		host = "127.0.0.1"
	}
	port := cfg.DBPort
	if port == "" {
		port = "3306"
	}
	mc.Addr = host + ":" + port
	mc.DBName = cfg.DBName
	if mc.DBName == "" {
		mc.DBName = "worklinkph"
	}
	mc.ParseTime = true
	mc.Loc = time.UTC
	if cfg.ConnectTimeout > 0 {
		mc.Timeout = cfg.ConnectTimeout
	}

	pool, err := sql.Open("mysql", mc.FormatDSN())
	if err != nil {
		return nil, err
	}
	if cfg.PoolMaxConns > 0 {
		pool.SetMaxOpenConns(int(cfg.PoolMaxConns))
	}
	if cfg.PoolMaxConnLifetime > 0 {
		pool.SetConnMaxLifetime(cfg.PoolMaxConnLifetime)
	}
	if cfg.PoolMaxConnIdleTime > 0 {
		pool.SetConnMaxIdleTime(cfg.PoolMaxConnIdleTime)
	}

	d := &DB{db: pool, dialect: database.DialectMySQL}
	if err := d.ping(ctx); err != nil {
		_ = pool.Close()
		return nil, err
	}
	return d, nil
}

func (d *DB) ping(ctx context.Context) error {
	pingCtx := ctx
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
	}
	return d.db.PingContext(pingCtx)
}

func (d *DB) Dialect() string {
	if d == nil {
		return ""
	}
	return d.dialect
}

func (d *DB) Ping(ctx context.Context) error {
	if d == nil || d.db == nil {
		return fmt.Errorf("nil db")
	}
	return d.db.PingContext(ctx)
}

func (d *DB) Close() error {
	if d == nil || d.db == nil {
		return nil
	}
	return d.db.Close()
}

func (d *DB) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	if d == nil || d.db == nil {
		return 0, fmt.Errorf("nil db")
	}
	res, err := d.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, translateError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, nil
	}
	return n, nil
}

func (d *DB) Query(ctx context.Context, query string, args ...any) (database.Rows, error) {
	if d == nil || d.db == nil {
		return nil, fmt.Errorf("nil db")
	}
	r, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, translateError(err)
	}
	return sqlRows{rows: r}, nil
}

func (d *DB) QueryRow(ctx context.Context, query string, args ...any) database.Row {
	if d == nil || d.db == nil {
		return errRow{err: fmt.Errorf("nil db")}
	}
	return sqlRow{row: d.db.QueryRowContext(ctx, query, args...)}
}

func (d *DB) Begin(ctx context.Context) (database.Tx, error) {
	if d == nil || d.db == nil {
		return nil, fmt.Errorf("nil db")
	}
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return sqlTx{tx: tx}, nil
}

func (d *DB) SQLDB() *sql.DB {
	if d == nil {
		return nil
	}
	return d.db
}

type sqlTx struct {
	tx *sql.Tx
}

func (t sqlTx) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	res, err := t.tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, translateError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, nil
	}
	return n, nil
}

func (t sqlTx) Query(ctx context.Context, query string, args ...any) (database.Rows, error) {
	r, err := t.tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, translateError(err)
	}
	return sqlRows{rows: r}, nil
}

func (t sqlTx) QueryRow(ctx context.Context, query string, args ...any) database.Row {
	return sqlRow{row: t.tx.QueryRowContext(ctx, query, args...)}
}

func (t sqlTx) Commit(_ context.Context) error {
	return t.tx.Commit()
}

func (t sqlTx) Rollback(_ context.Context) error {
	err := t.tx.Rollback()
	if errors.Is(err, sql.ErrTxDone) {
		return nil
	}
	return err
}

type sqlRows struct {
	rows *sql.Rows
}

func (r sqlRows) Close() {
	_ = r.rows.Close()
}

func (r sqlRows) Next() bool {
	return r.rows.Next()
}

func (r sqlRows) Scan(dest ...any) error {
	return translateError(r.rows.Scan(dest...))
}

func (r sqlRows) Err() error {
	return translateError(r.rows.Err())
}

type sqlRow struct {
	row *sql.Row
}

func (r sqlRow) Scan(dest ...any) error {
	return translateError(r.row.Scan(dest...))
}

type errRow struct {
	err error
}

func (r errRow) Scan(_ ...any) error {
	return r.err
}

func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return database.ErrNoRows
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntry {
		return fmt.Errorf("%w: %s", database.ErrUniqueViolation, myErr.Message)
	}
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return fmt.Errorf("%w: %v", database.ErrUniqueViolation, err)
	}
	return err
}
