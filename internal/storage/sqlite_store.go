package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jgoncalves802/visualplan/internal/models"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS settings (
	id              INTEGER PRIMARY KEY CHECK (id = 1),
	name            TEXT NOT NULL,
	start           TEXT NOT NULL,
	unit            TEXT NOT NULL,
	calendar_id     TEXT NOT NULL DEFAULT '',
	auto_scheduling INTEGER NOT NULL DEFAULT 1
);
CREATE TABLE IF NOT EXISTS activities (
	id               TEXT PRIMARY KEY,
	name             TEXT NOT NULL,
	kind             TEXT NOT NULL,
	duration_units   INTEGER NOT NULL DEFAULT 0,
	percent_complete REAL NOT NULL DEFAULT 0,
	parent_id        TEXT NOT NULL DEFAULT '',
	calendar_id      TEXT NOT NULL DEFAULT '',
	manual_start     TEXT,
	manual_end       TEXT
);
CREATE TABLE IF NOT EXISTS dependencies (
	id      TEXT PRIMARY KEY,
	from_id TEXT NOT NULL,
	to_id   TEXT NOT NULL,
	type    TEXT NOT NULL,
	lag     INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS calendars (
	id           TEXT PRIMARY KEY,
	name         TEXT NOT NULL,
	working_days TEXT NOT NULL,
	windows      TEXT NOT NULL,
	exceptions   TEXT NOT NULL DEFAULT '[]'
);
CREATE TABLE IF NOT EXISTS snapshots (
	name        TEXT PRIMARY KEY,
	data        TEXT NOT NULL,
	computed_at TEXT NOT NULL
);
`

// SQLiteStore is the default local project store.
type SQLiteStore struct {
	path string
	db   *sql.DB
}

// NewSQLiteStore creates a store backed by the database file at path.
func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

// Init creates the database file and schema, seeding default settings when
// none exist.
func (s *SQLiteStore) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	if _, err := s.GetSettings(); err != nil {
		defaults := Settings{
			Name:           "Untitled project",
			Start:          time.Now().Truncate(24 * time.Hour),
			Unit:           models.UnitDay,
			AutoScheduling: true,
		}
		if err := s.SaveSettings(defaults); err != nil {
			return fmt.Errorf("failed to save default settings: %w", err)
		}
	}

	return nil
}

// Load opens an existing database file.
func (s *SQLiteStore) Load() error {
	if s.db != nil {
		return nil
	}
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return fmt.Errorf("storage not initialized, run 'visualplan init' first")
	}
	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db
	return nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteStore) GetSettings() (Settings, error) {
	row := s.db.QueryRow(`SELECT name, start, unit, calendar_id, auto_scheduling FROM settings WHERE id = 1`)

	var st Settings
	var start string
	var auto int
	if err := row.Scan(&st.Name, &start, (*string)(&st.Unit), &st.CalendarID, &auto); err != nil {
		return Settings{}, err
	}
	t, err := time.Parse(time.RFC3339, start)
	if err != nil {
		return Settings{}, fmt.Errorf("invalid stored start date %q: %w", start, err)
	}
	st.Start = t
	st.AutoScheduling = auto != 0
	return st, nil
}

func (s *SQLiteStore) SaveSettings(st Settings) error {
	auto := 0
	if st.AutoScheduling {
		auto = 1
	}
	_, err := s.db.Exec(`
		INSERT INTO settings (id, name, start, unit, calendar_id, auto_scheduling)
		VALUES (1, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name, start = excluded.start, unit = excluded.unit,
			calendar_id = excluded.calendar_id, auto_scheduling = excluded.auto_scheduling`,
		st.Name, st.Start.Format(time.RFC3339), string(st.Unit), st.CalendarID, auto)
	return err
}

func (s *SQLiteStore) SaveActivity(a models.Activity) error {
	_, err := s.db.Exec(`
		INSERT INTO activities (id, name, kind, duration_units, percent_complete, parent_id, calendar_id, manual_start, manual_end)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name, kind = excluded.kind, duration_units = excluded.duration_units,
			percent_complete = excluded.percent_complete, parent_id = excluded.parent_id,
			calendar_id = excluded.calendar_id, manual_start = excluded.manual_start,
			manual_end = excluded.manual_end`,
		a.ID, a.Name, string(a.Kind), a.DurationUnits, a.PercentComplete, a.ParentID, a.CalendarID,
		timePtr(a.ManualStart), timePtr(a.ManualEnd))
	return err
}

func (s *SQLiteStore) GetActivity(id string) (models.Activity, error) {
	row := s.db.QueryRow(`
		SELECT id, name, kind, duration_units, percent_complete, parent_id, calendar_id, manual_start, manual_end
		FROM activities WHERE id = ?`, id)
	return scanActivity(row.Scan)
}

func (s *SQLiteStore) GetAllActivities() ([]models.Activity, error) {
	rows, err := s.db.Query(`
		SELECT id, name, kind, duration_units, percent_complete, parent_id, calendar_id, manual_start, manual_end
		FROM activities ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var activities []models.Activity
	for rows.Next() {
		a, err := scanActivity(rows.Scan)
		if err != nil {
			return nil, err
		}
		activities = append(activities, a)
	}
	return activities, rows.Err()
}

func (s *SQLiteStore) DeleteActivity(id string) error {
	_, err := s.db.Exec(`DELETE FROM activities WHERE id = ?`, id)
	return err
}

func (s *SQLiteStore) SaveDependency(d models.Dependency) error {
	_, err := s.db.Exec(`
		INSERT INTO dependencies (id, from_id, to_id, type, lag)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			from_id = excluded.from_id, to_id = excluded.to_id,
			type = excluded.type, lag = excluded.lag`,
		d.ID, d.FromID, d.ToID, string(d.Type), d.Lag)
	return err
}

func (s *SQLiteStore) GetAllDependencies() ([]models.Dependency, error) {
	rows, err := s.db.Query(`SELECT id, from_id, to_id, type, lag FROM dependencies ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var deps []models.Dependency
	for rows.Next() {
		var d models.Dependency
		if err := rows.Scan(&d.ID, &d.FromID, &d.ToID, (*string)(&d.Type), &d.Lag); err != nil {
			return nil, err
		}
		deps = append(deps, d)
	}
	return deps, rows.Err()
}

func (s *SQLiteStore) DeleteDependency(id string) error {
	_, err := s.db.Exec(`DELETE FROM dependencies WHERE id = ?`, id)
	return err
}

func (s *SQLiteStore) SaveCalendar(c models.Calendar) error {
	days, err := json.Marshal(c.WorkingDays)
	if err != nil {
		return err
	}
	windows, err := json.Marshal(c.Windows)
	if err != nil {
		return err
	}
	exceptions, err := json.Marshal(c.Exceptions)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`
		INSERT INTO calendars (id, name, working_days, windows, exceptions)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name, working_days = excluded.working_days,
			windows = excluded.windows, exceptions = excluded.exceptions`,
		c.ID, c.Name, string(days), string(windows), string(exceptions))
	return err
}

func (s *SQLiteStore) GetAllCalendars() ([]models.Calendar, error) {
	rows, err := s.db.Query(`SELECT id, name, working_days, windows, exceptions FROM calendars ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var calendars []models.Calendar
	for rows.Next() {
		var c models.Calendar
		var days, windows, exceptions string
		if err := rows.Scan(&c.ID, &c.Name, &days, &windows, &exceptions); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(days), &c.WorkingDays); err != nil {
			return nil, fmt.Errorf("calendar %s working days: %w", c.ID, err)
		}
		if err := json.Unmarshal([]byte(windows), &c.Windows); err != nil {
			return nil, fmt.Errorf("calendar %s windows: %w", c.ID, err)
		}
		if err := json.Unmarshal([]byte(exceptions), &c.Exceptions); err != nil {
			return nil, fmt.Errorf("calendar %s exceptions: %w", c.ID, err)
		}
		calendars = append(calendars, c)
	}
	return calendars, rows.Err()
}

func (s *SQLiteStore) SaveSnapshot(name string, result models.ScheduleResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	_, err = s.db.Exec(`
		INSERT INTO snapshots (name, data, computed_at) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET data = excluded.data, computed_at = excluded.computed_at`,
		name, string(data), result.ComputedAt.Format(time.RFC3339Nano))
	return err
}

func (s *SQLiteStore) GetSnapshot(name string) (models.ScheduleResult, error) {
	row := s.db.QueryRow(`SELECT data FROM snapshots WHERE name = ?`, name)
	var data string
	if err := row.Scan(&data); err != nil {
		if err == sql.ErrNoRows {
			return models.ScheduleResult{}, fmt.Errorf("snapshot %q not found", name)
		}
		return models.ScheduleResult{}, err
	}
	var result models.ScheduleResult
	if err := json.Unmarshal([]byte(data), &result); err != nil {
		return models.ScheduleResult{}, fmt.Errorf("parse snapshot %q: %w", name, err)
	}
	return result, nil
}

func (s *SQLiteStore) ListSnapshots() ([]SnapshotInfo, error) {
	rows, err := s.db.Query(`SELECT name, computed_at FROM snapshots ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var infos []SnapshotInfo
	for rows.Next() {
		var info SnapshotInfo
		var computedAt string
		if err := rows.Scan(&info.Name, &computedAt); err != nil {
			return nil, err
		}
		if t, err := time.Parse(time.RFC3339Nano, computedAt); err == nil {
			info.ComputedAt = t
		}
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

func scanActivity(scan func(dest ...any) error) (models.Activity, error) {
	var a models.Activity
	var kind string
	var manualStart, manualEnd sql.NullString

	err := scan(&a.ID, &a.Name, &kind, &a.DurationUnits, &a.PercentComplete, &a.ParentID, &a.CalendarID, &manualStart, &manualEnd)
	if err != nil {
		return models.Activity{}, err
	}
	a.Kind = models.ActivityKind(kind)

	if manualStart.Valid {
		t, err := time.Parse(time.RFC3339, manualStart.String)
		if err != nil {
			return models.Activity{}, fmt.Errorf("activity %s manual start: %w", a.ID, err)
		}
		a.ManualStart = &t
	}
	if manualEnd.Valid {
		t, err := time.Parse(time.RFC3339, manualEnd.String)
		if err != nil {
			return models.Activity{}, fmt.Errorf("activity %s manual end: %w", a.ID, err)
		}
		a.ManualEnd = &t
	}
	return a, nil
}

func timePtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(time.RFC3339)
}
