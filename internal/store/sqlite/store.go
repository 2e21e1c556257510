// Package sqlite provides the SQLite-backed record store.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/fogtable/fogtable/internal/fog"
	"github.com/fogtable/fogtable/internal/protocol"
	"github.com/fogtable/fogtable/internal/store"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// Store persists map and sound records in a single SQLite database.
type Store struct {
	sqlDB *sql.DB
}

// Open opens and migrates the store at the provided path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	s := &Store{sqlDB: sqlDB}
	if err := s.runMigrations(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *Store) runMigrations() error {
	var version int
	if err := s.sqlDB.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}

	entries, err := fs.Glob(migrationFS, "migrations/*.sql")
	if err != nil {
		return err
	}
	sort.Strings(entries)

	for i, name := range entries {
		if i < version {
			continue
		}
		raw, err := migrationFS.ReadFile(name)
		if err != nil {
			return err
		}
		tx, err := s.sqlDB.Begin()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(string(raw)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply %s: %w", name, err)
		}
		if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", i+1)); err != nil {
			_ = tx.Rollback()
			return err
		}
		if err := tx.Commit(); err != nil {
			return err
		}
	}
	return nil
}

func toMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

func encodeLog(l fog.Log) (string, error) {
	if l == nil {
		l = fog.Log{}
	}
	raw, err := json.Marshal(l)
	if err != nil {
		return "", fmt.Errorf("encode fog log: %w", err)
	}
	return string(raw), nil
}

func decodeLog(raw string) (fog.Log, error) {
	var l fog.Log
	if raw == "" {
		return fog.Log{}, nil
	}
	if err := json.Unmarshal([]byte(raw), &l); err != nil {
		return nil, fmt.Errorf("decode fog log: %w", err)
	}
	return l, nil
}

const mapColumns = "id, name, type, url, fow_info, is_active, created_at"

func scanMap(row interface{ Scan(...any) error }) (protocol.MapRecord, error) {
	var rec protocol.MapRecord
	var fowRaw string
	var active int64
	var createdAt int64
	if err := row.Scan(&rec.ID, &rec.Name, &rec.Type, &rec.URL, &fowRaw, &active, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return protocol.MapRecord{}, store.ErrNotFound
		}
		return protocol.MapRecord{}, err
	}
	l, err := decodeLog(fowRaw)
	if err != nil {
		return protocol.MapRecord{}, err
	}
	rec.FowInfo = l
	rec.IsActive = active != 0
	rec.CreatedAt = fromMillis(createdAt)
	return rec, nil
}

func (s *Store) CreateMap(ctx context.Context, rec protocol.MapRecord) (protocol.MapRecord, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.Type == "" {
		rec.Type = protocol.MapTypeImage
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	if rec.FowInfo == nil {
		rec.FowInfo = fog.Log{}
	}

	fowRaw, err := encodeLog(rec.FowInfo)
	if err != nil {
		return protocol.MapRecord{}, err
	}
	_, err = s.sqlDB.ExecContext(ctx,
		`INSERT INTO maps (id, name, type, url, fow_info, is_active, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Name, string(rec.Type), rec.URL, fowRaw, boolToInt(rec.IsActive), toMillis(rec.CreatedAt))
	if err != nil {
		return protocol.MapRecord{}, fmt.Errorf("insert map: %w", err)
	}
	return rec, nil
}

func (s *Store) ListMaps(ctx context.Context) ([]protocol.MapRecord, error) {
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT `+mapColumns+` FROM maps ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list maps: %w", err)
	}
	defer rows.Close()

	var out []protocol.MapRecord
	for rows.Next() {
		rec, err := scanMap(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *Store) GetMap(ctx context.Context, id string) (protocol.MapRecord, error) {
	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT `+mapColumns+` FROM maps WHERE id = ?`, id)
	return scanMap(row)
}

func (s *Store) ActiveMap(ctx context.Context) (protocol.MapRecord, error) {
	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT `+mapColumns+` FROM maps WHERE is_active = 1 LIMIT 1`)
	return scanMap(row)
}

func (s *Store) ReplaceFow(ctx context.Context, id string, l fog.Log) (protocol.MapRecord, error) {
	fowRaw, err := encodeLog(l)
	if err != nil {
		return protocol.MapRecord{}, err
	}
	res, err := s.sqlDB.ExecContext(ctx,
		`UPDATE maps SET fow_info = ? WHERE id = ?`, fowRaw, id)
	if err != nil {
		return protocol.MapRecord{}, fmt.Errorf("update fow: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return protocol.MapRecord{}, store.ErrNotFound
	}
	return s.GetMap(ctx, id)
}

func (s *Store) AppendFow(ctx context.Context, id string, a fog.Action) (protocol.MapRecord, error) {
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return protocol.MapRecord{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var fowRaw string
	err = tx.QueryRowContext(ctx, `SELECT fow_info FROM maps WHERE id = ?`, id).Scan(&fowRaw)
	if errors.Is(err, sql.ErrNoRows) {
		return protocol.MapRecord{}, store.ErrNotFound
	}
	if err != nil {
		return protocol.MapRecord{}, err
	}

	l, err := decodeLog(fowRaw)
	if err != nil {
		return protocol.MapRecord{}, err
	}
	updated, err := encodeLog(fog.Append(l, a))
	if err != nil {
		return protocol.MapRecord{}, err
	}
	if _, err := tx.ExecContext(ctx, `UPDATE maps SET fow_info = ? WHERE id = ?`, updated, id); err != nil {
		return protocol.MapRecord{}, fmt.Errorf("append fow: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return protocol.MapRecord{}, err
	}
	return s.GetMap(ctx, id)
}

func (s *Store) Activate(ctx context.Context, id string) (protocol.MapRecord, error) {
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return protocol.MapRecord{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `UPDATE maps SET is_active = 0 WHERE is_active = 1`); err != nil {
		return protocol.MapRecord{}, fmt.Errorf("deactivate maps: %w", err)
	}
	res, err := tx.ExecContext(ctx, `UPDATE maps SET is_active = 1 WHERE id = ?`, id)
	if err != nil {
		return protocol.MapRecord{}, fmt.Errorf("activate map: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return protocol.MapRecord{}, store.ErrNotFound
	}
	if err := tx.Commit(); err != nil {
		return protocol.MapRecord{}, err
	}
	return s.GetMap(ctx, id)
}

func (s *Store) RenameMap(ctx context.Context, id, name string) (protocol.MapRecord, error) {
	res, err := s.sqlDB.ExecContext(ctx, `UPDATE maps SET name = ? WHERE id = ?`, name, id)
	if err != nil {
		return protocol.MapRecord{}, fmt.Errorf("rename map: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return protocol.MapRecord{}, store.ErrNotFound
	}
	return s.GetMap(ctx, id)
}

func (s *Store) DeleteMap(ctx context.Context, id string) (protocol.MapRecord, error) {
	rec, err := s.GetMap(ctx, id)
	if err != nil {
		return protocol.MapRecord{}, err
	}
	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM maps WHERE id = ?`, id); err != nil {
		return protocol.MapRecord{}, fmt.Errorf("delete map: %w", err)
	}
	return rec, nil
}

func (s *Store) CreateSound(ctx context.Context, rec protocol.SoundRecord) (protocol.SoundRecord, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.Category == "" {
		rec.Category = protocol.SoundAmbient
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO sounds (id, name, url, category, created_at) VALUES (?, ?, ?, ?, ?)`,
		rec.ID, rec.Name, rec.URL, string(rec.Category), toMillis(rec.CreatedAt))
	if err != nil {
		return protocol.SoundRecord{}, fmt.Errorf("insert sound: %w", err)
	}
	return rec, nil
}

func (s *Store) ListSounds(ctx context.Context) ([]protocol.SoundRecord, error) {
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT id, name, url, category, created_at FROM sounds ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list sounds: %w", err)
	}
	defer rows.Close()

	var out []protocol.SoundRecord
	for rows.Next() {
		rec, err := scanSound(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *Store) UpdateSound(ctx context.Context, id string, name *string, category *protocol.SoundCategory) (protocol.SoundRecord, error) {
	if name == nil && category == nil {
		return s.getSound(ctx, id)
	}
	sets := make([]string, 0, 2)
	args := make([]any, 0, 3)
	if name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *name)
	}
	if category != nil {
		sets = append(sets, "category = ?")
		args = append(args, string(*category))
	}
	args = append(args, id)
	res, err := s.sqlDB.ExecContext(ctx,
		`UPDATE sounds SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return protocol.SoundRecord{}, fmt.Errorf("update sound: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return protocol.SoundRecord{}, store.ErrNotFound
	}
	return s.getSound(ctx, id)
}

func (s *Store) DeleteSound(ctx context.Context, id string) (protocol.SoundRecord, error) {
	rec, err := s.getSound(ctx, id)
	if err != nil {
		return protocol.SoundRecord{}, err
	}
	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM sounds WHERE id = ?`, id); err != nil {
		return protocol.SoundRecord{}, fmt.Errorf("delete sound: %w", err)
	}
	return rec, nil
}

func (s *Store) getSound(ctx context.Context, id string) (protocol.SoundRecord, error) {
	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT id, name, url, category, created_at FROM sounds WHERE id = ?`, id)
	return scanSound(row)
}

func scanSound(row interface{ Scan(...any) error }) (protocol.SoundRecord, error) {
	var rec protocol.SoundRecord
	var createdAt int64
	if err := row.Scan(&rec.ID, &rec.Name, &rec.URL, &rec.Category, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return protocol.SoundRecord{}, store.ErrNotFound
		}
		return protocol.SoundRecord{}, err
	}
	rec.CreatedAt = fromMillis(createdAt)
	return rec, nil
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
