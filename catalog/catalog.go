// Package catalog keeps an SQLite index of decoded beatmaps and of the files
// that failed to decode.
package catalog

import (
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"osuparse/dotosu"
)

// Usage:
// cat, err := catalog.Open("osuparse.db")
// cat.Migrate()
// report, err := cat.Scan(ctx, "Songs/", 4)
// rec, err := cat.Get(2797865)
// cat.Close()

//go:embed migrations/*.sql
var migrations embed.FS

var ErrNotFound = errors.New("beatmap not indexed")

type Catalog struct {
	db  *sql.DB
	now func() time.Time
}

// Record is one indexed difficulty.
type Record struct {
	Path          string    `json:"path"`
	ScanID        string    `json:"scan_id"`
	BeatmapID     int       `json:"beatmap_id"`
	BeatmapSetID  int       `json:"beatmapset_id"`
	Title         string    `json:"title"`
	Artist        string    `json:"artist"`
	Creator       string    `json:"creator"`
	Version       string    `json:"version"`
	Mode          int       `json:"mode"`
	FormatVersion int       `json:"format_version"`
	Circles       int       `json:"circles"`
	Sliders       int       `json:"sliders"`
	Spinners      int       `json:"spinners"`
	Holds         int       `json:"holds"`
	FirstObject   uint32    `json:"first_object"`
	LastObject    uint32    `json:"last_object"`
	MinBPM        float64   `json:"min_bpm"`
	MaxBPM        float64   `json:"max_bpm"`
	IndexedAt     time.Time `json:"indexed_at"`
}

type Failure struct {
	Path     string    `json:"path"`
	ScanID   string    `json:"scan_id"`
	Reason   string    `json:"reason"`
	FailedAt time.Time `json:"failed_at"`
}

func Open(path string) (*Catalog, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrapf(err, "open catalog %s", path)
	}
	// scan workers share one connection so writers never see SQLITE_BUSY
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrapf(err, "open catalog %s", path)
	}
	return &Catalog{db: db, now: time.Now}, nil
}

func (c *Catalog) Close() error {
	return c.db.Close()
}

// Migrate applies every embedded migration newer than the database's
// user_version and returns the resulting schema version.
func (c *Catalog) Migrate() (int, error) {
	var version int
	err := c.db.QueryRow("PRAGMA user_version").Scan(&version)
	if err != nil && err != sql.ErrNoRows {
		return 0, errors.Wrap(err, "read schema version")
	}

	steps, err := migrationSteps()
	if err != nil {
		return version, err
	}
	for _, step := range steps {
		if step.version <= version {
			continue
		}
		data, err := migrations.ReadFile(step.file)
		if err != nil {
			return version, errors.Wrapf(err, "read %s", step.file)
		}
		tx, err := c.db.Begin()
		if err != nil {
			return version, errors.Wrap(err, "begin migration")
		}
		if _, err := tx.Exec(string(data)); err != nil {
			tx.Rollback()
			return version, errors.Wrapf(err, "apply %s", step.file)
		}
		if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", step.version)); err != nil {
			tx.Rollback()
			return version, errors.Wrapf(err, "bump schema to %d", step.version)
		}
		if err := tx.Commit(); err != nil {
			return version, errors.Wrapf(err, "commit %s", step.file)
		}
		log.Debug("applied migration", "file", step.file, "version", step.version)
		version = step.version
	}
	return version, nil
}

type migrationStep struct {
	version int
	file    string
}

// migrationSteps lists migrations/NNN_name.sql ordered by NNN.
func migrationSteps() ([]migrationStep, error) {
	entries, err := fs.ReadDir(migrations, "migrations")
	if err != nil {
		return nil, errors.Wrap(err, "list migrations")
	}
	steps := make([]migrationStep, 0, len(entries))
	for _, e := range entries {
		prefix, _, ok := strings.Cut(e.Name(), "_")
		if !ok {
			return nil, errors.Errorf("migration %s has no version prefix", e.Name())
		}
		v, err := strconv.Atoi(prefix)
		if err != nil {
			return nil, errors.Wrapf(err, "migration %s", e.Name())
		}
		steps = append(steps, migrationStep{version: v, file: "migrations/" + e.Name()})
	}
	sort.Slice(steps, func(i, j int) bool { return steps[i].version < steps[j].version })
	return steps, nil
}

// Put stores a decoded beatmap under path, replacing an earlier record or
// failure for the same path.
func (c *Catalog) Put(scanID, path string, b *dotosu.Beatmap) error {
	s := b.Summary()
	tx, err := c.db.Begin()
	if err != nil {
		return errors.Wrap(err, "begin put")
	}
	_, err = tx.Exec(`INSERT OR REPLACE INTO beatmaps (
		path, scan_id, beatmap_id, beatmapset_id, title, artist, creator, version, mode,
		format_version, circles, sliders, spinners, holds, first_object, last_object,
		min_bpm, max_bpm, indexed_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		path, scanID, b.Metadata.BeatmapID, b.Metadata.BeatmapSetID,
		b.Metadata.Title, b.Metadata.Artist, b.Metadata.Creator, b.Metadata.Version,
		b.General.Mode, b.FormatVersion,
		s.Circles, s.Sliders, s.Spinners, s.Holds, s.FirstObject, s.LastObject,
		s.MinBPM, s.MaxBPM, c.now().Unix())
	if err != nil {
		tx.Rollback()
		return errors.Wrapf(err, "put %s", path)
	}
	if _, err := tx.Exec("DELETE FROM failures WHERE path = ?", path); err != nil {
		tx.Rollback()
		return errors.Wrapf(err, "clear failure %s", path)
	}
	return errors.Wrapf(tx.Commit(), "put %s", path)
}

// RecordFailure logs why path could not be indexed and drops any stale record
// for it.
func (c *Catalog) RecordFailure(scanID, path string, cause error) error {
	log.Warn("fail", "path", path, "err", cause)
	tx, err := c.db.Begin()
	if err != nil {
		return errors.Wrap(err, "begin failure")
	}
	_, err = tx.Exec("INSERT OR REPLACE INTO failures (path, scan_id, reason, failed_at) VALUES (?, ?, ?, ?)",
		path, scanID, cause.Error(), c.now().Unix())
	if err != nil {
		tx.Rollback()
		return errors.Wrapf(err, "record failure %s", path)
	}
	if _, err := tx.Exec("DELETE FROM beatmaps WHERE path = ?", path); err != nil {
		tx.Rollback()
		return errors.Wrapf(err, "drop record %s", path)
	}
	return errors.Wrapf(tx.Commit(), "record failure %s", path)
}

const recordColumns = `path, scan_id, beatmap_id, beatmapset_id, title, artist, creator, version,
	mode, format_version, circles, sliders, spinners, holds, first_object, last_object,
	min_bpm, max_bpm, indexed_at`

// Get returns the most recently indexed record for a beatmap ID.
func (c *Catalog) Get(beatmapID int) (*Record, error) {
	row := c.db.QueryRow("SELECT "+recordColumns+" FROM beatmaps WHERE beatmap_id = ? ORDER BY indexed_at DESC, path LIMIT 1", beatmapID)
	var r Record
	var indexedAt int64
	err := row.Scan(&r.Path, &r.ScanID, &r.BeatmapID, &r.BeatmapSetID, &r.Title, &r.Artist,
		&r.Creator, &r.Version, &r.Mode, &r.FormatVersion, &r.Circles, &r.Sliders, &r.Spinners,
		&r.Holds, &r.FirstObject, &r.LastObject, &r.MinBPM, &r.MaxBPM, &indexedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "get beatmap %d", beatmapID)
	}
	r.IndexedAt = time.Unix(indexedAt, 0)
	return &r, nil
}

// Count returns how many records are indexed.
func (c *Catalog) Count() (int, error) {
	var n int
	err := c.db.QueryRow("SELECT COUNT(*) FROM beatmaps").Scan(&n)
	return n, errors.Wrap(err, "count beatmaps")
}

func (c *Catalog) Failures() ([]Failure, error) {
	rows, err := c.db.Query("SELECT path, scan_id, reason, failed_at FROM failures ORDER BY path")
	if err != nil {
		return nil, errors.Wrap(err, "list failures")
	}
	defer rows.Close()

	var out []Failure
	for rows.Next() {
		var f Failure
		var failedAt int64
		if err := rows.Scan(&f.Path, &f.ScanID, &f.Reason, &failedAt); err != nil {
			return nil, errors.Wrap(err, "scan failure row")
		}
		f.FailedAt = time.Unix(failedAt, 0)
		out = append(out, f)
	}
	return out, errors.Wrap(rows.Err(), "list failures")
}
