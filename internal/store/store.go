// Package store persists table builds in sqlite: the run parameters, both
// sample grids and the resolved regions, so a later run can be compared or
// re-emitted without resampling.
package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/banshee-data/displaymap/internal/grid"
	"github.com/banshee-data/displaymap/internal/inverse"
	"github.com/banshee-data/displaymap/internal/monitoring"
	"github.com/banshee-data/displaymap/internal/space"
	"github.com/banshee-data/displaymap/internal/timeutil"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// createdLayout sorts lexically in creation order.
const createdLayout = "2006-01-02T15:04:05.000000000Z"

// ErrRunNotFound is returned when a run ID has no stored run.
var ErrRunNotFound = errors.New("run not found")

// Store wraps the sqlite database.
type Store struct {
	*sql.DB

	// Clock stamps new runs.
	Clock timeutil.Clock
}

// Open opens (creating if needed) the database at path. Call MigrateUp
// before use.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	// A single connection keeps the pragmas and in-memory databases consistent.
	db.SetMaxOpenConns(1)
	for _, pragma := range []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("%s: %w", pragma, err)
		}
	}
	return &Store{DB: db, Clock: timeutil.RealClock{}}, nil
}

func (s *Store) newMigrate() (*migrate.Migrate, error) {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to load migrations: %w", err)
	}
	driver, err := sqlite.WithInstance(s.DB, &sqlite.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to create sqlite driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	m.Log = &migrateLogger{}
	return m, nil
}

// MigrateUp applies all pending migrations.
func (s *Store) MigrateUp() error {
	m, err := s.newMigrate()
	if err != nil {
		return err
	}
	// m is not closed: closing it would close the shared connection.
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up failed: %w", err)
	}
	return nil
}

// MigrateVersion returns the applied schema version, 0 when none is applied.
func (s *Store) MigrateVersion() (version uint, dirty bool, err error) {
	m, err := s.newMigrate()
	if err != nil {
		return 0, false, err
	}
	version, dirty, err = m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return version, dirty, err
}

type migrateLogger struct{}

func (l *migrateLogger) Printf(format string, v ...interface{}) {
	monitoring.Logf("[migrate] "+format, v...)
}

func (l *migrateLogger) Verbose() bool { return false }

// Run summarises one stored table build.
type Run struct {
	ID             string
	CreatedAt      time.Time
	Method         string
	PhysicalWidth  int
	PhysicalHeight int
	VirtualWidth   int
	VirtualHeight  int
	Missing        int
	Degenerate     int
}

// Build is everything a table build produces.
type Build struct {
	Transform space.Transform
	Method    string
	X, Y      *grid.Grid
	Map       *inverse.Map
}

// SaveRun stores b under a new run ID in one transaction.
func (s *Store) SaveRun(ctx context.Context, b Build) (Run, error) {
	if err := (grid.Pair{X: b.X, Y: b.Y}).Validate(b.Transform.Physical); err != nil {
		return Run{}, err
	}
	if b.Map == nil || b.Map.Width() != b.Transform.Virtual.Width() || b.Map.Height() != b.Transform.Virtual.Height() {
		return Run{}, fmt.Errorf("region map does not match virtual space %dx%d",
			b.Transform.Virtual.Width(), b.Transform.Virtual.Height())
	}

	run := Run{
		ID:             uuid.NewString(),
		CreatedAt:      s.Clock.Now().UTC(),
		Method:         b.Method,
		PhysicalWidth:  b.Transform.Physical.Width(),
		PhysicalHeight: b.Transform.Physical.Height(),
		VirtualWidth:   b.Map.Width(),
		VirtualHeight:  b.Map.Height(),
		Missing:        len(b.Map.Missing()),
		Degenerate:     len(b.Map.Degenerate()),
	}

	tx, err := s.BeginTx(ctx, nil)
	if err != nil {
		return Run{}, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO runs (run_id, created_at, method, physical_width, physical_height,
			virtual_width, virtual_height, missing, degenerate)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.CreatedAt.Format(createdLayout), run.Method,
		run.PhysicalWidth, run.PhysicalHeight, run.VirtualWidth, run.VirtualHeight,
		run.Missing, run.Degenerate,
	); err != nil {
		return Run{}, fmt.Errorf("insert run: %w", err)
	}

	sampleStmt, err := tx.PrepareContext(ctx, `INSERT INTO samples (run_id, axis, px, py, value) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return Run{}, fmt.Errorf("prepare samples: %w", err)
	}
	defer sampleStmt.Close()
	for _, g := range []*grid.Grid{b.X, b.Y} {
		for y := 0; y < g.Height(); y++ {
			for x := 0; x < g.Width(); x++ {
				if _, err := sampleStmt.ExecContext(ctx, run.ID, string(g.Axis()), x, y, g.At(x, y)); err != nil {
					return Run{}, fmt.Errorf("insert %s sample (%d,%d): %w", g.Axis(), x, y, err)
				}
			}
		}
	}

	regionStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO regions (run_id, vx, vy, virtual_x, virtual_y, found, degenerate, cells,
			box_left, box_top, box_right, box_bottom)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return Run{}, fmt.Errorf("prepare regions: %w", err)
	}
	defer regionStmt.Close()
	for _, r := range b.Map.Regions() {
		var left, top, right, bottom sql.NullInt64
		if r.Found {
			left = sql.NullInt64{Int64: int64(r.Box.Left), Valid: true}
			top = sql.NullInt64{Int64: int64(r.Box.Top), Valid: true}
			right = sql.NullInt64{Int64: int64(r.Box.Right), Valid: true}
			bottom = sql.NullInt64{Int64: int64(r.Box.Bottom), Valid: true}
		}
		if _, err := regionStmt.ExecContext(ctx, run.ID, r.Index.X, r.Index.Y, r.Virtual.X, r.Virtual.Y,
			r.Found, r.Degenerate, r.Cells, left, top, right, bottom); err != nil {
			return Run{}, fmt.Errorf("insert region %v: %w", r.Index, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return Run{}, fmt.Errorf("commit: %w", err)
	}
	monitoring.Logf("stored run %s: %d samples, %d regions", run.ID, b.X.Len()+b.Y.Len(), run.VirtualWidth*run.VirtualHeight)
	return run, nil
}

const runColumns = `run_id, created_at, method, physical_width, physical_height,
	virtual_width, virtual_height, missing, degenerate`

func scanRun(row interface{ Scan(...any) error }) (Run, error) {
	var (
		r       Run
		created string
	)
	if err := row.Scan(&r.ID, &created, &r.Method, &r.PhysicalWidth, &r.PhysicalHeight,
		&r.VirtualWidth, &r.VirtualHeight, &r.Missing, &r.Degenerate); err != nil {
		return Run{}, err
	}
	t, err := time.Parse(createdLayout, created)
	if err != nil {
		return Run{}, fmt.Errorf("run %s: bad created_at %q: %w", r.ID, created, err)
	}
	r.CreatedAt = t
	return r, nil
}

// GetRun returns a stored run.
func (s *Store) GetRun(ctx context.Context, id string) (Run, error) {
	r, err := scanRun(s.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE run_id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return r, err
}

// ListRuns returns every stored run, newest first.
func (s *Store) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := s.QueryContext(ctx, `SELECT `+runColumns+` FROM runs ORDER BY created_at DESC, run_id`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// LoadGrid rebuilds the sample grid of one axis of a run.
func (s *Store) LoadGrid(ctx context.Context, id string, axis grid.AxisName) (*grid.Grid, error) {
	run, err := s.GetRun(ctx, id)
	if err != nil {
		return nil, err
	}
	rows, err := s.QueryContext(ctx,
		`SELECT value FROM samples WHERE run_id = ? AND axis = ? ORDER BY py, px`, id, string(axis))
	if err != nil {
		return nil, fmt.Errorf("load %s samples: %w", axis, err)
	}
	defer rows.Close()

	values := make([]float64, 0, run.PhysicalWidth*run.PhysicalHeight)
	for rows.Next() {
		var v float64
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	g, err := grid.FromValues(axis, run.PhysicalWidth, run.PhysicalHeight, values)
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", id, err)
	}
	return g.WithMethod(run.Method), nil
}

// LoadRegions rebuilds the region map of a run.
func (s *Store) LoadRegions(ctx context.Context, id string) (*inverse.Map, error) {
	run, err := s.GetRun(ctx, id)
	if err != nil {
		return nil, err
	}
	rows, err := s.QueryContext(ctx, `
		SELECT vx, vy, virtual_x, virtual_y, found, degenerate, cells,
			box_left, box_top, box_right, box_bottom
		FROM regions WHERE run_id = ? ORDER BY vy, vx`, id)
	if err != nil {
		return nil, fmt.Errorf("load regions: %w", err)
	}
	defer rows.Close()

	regions := make([]inverse.Region, 0, run.VirtualWidth*run.VirtualHeight)
	for rows.Next() {
		var (
			r                        inverse.Region
			left, top, right, bottom sql.NullInt64
		)
		if err := rows.Scan(&r.Index.X, &r.Index.Y, &r.Virtual.X, &r.Virtual.Y,
			&r.Found, &r.Degenerate, &r.Cells, &left, &top, &right, &bottom); err != nil {
			return nil, err
		}
		if r.Found {
			r.Box = inverse.Box{
				Left:   int(left.Int64),
				Top:    int(top.Int64),
				Right:  int(right.Int64),
				Bottom: int(bottom.Int64),
			}
		}
		regions = append(regions, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return inverse.NewMap(run.VirtualWidth, run.VirtualHeight, regions)
}

// DeleteRun removes a run and everything stored with it.
func (s *Store) DeleteRun(ctx context.Context, id string) error {
	res, err := s.ExecContext(ctx, `DELETE FROM runs WHERE run_id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete run %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return nil
}
