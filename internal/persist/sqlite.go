package persist

import (
	"context"
	"database/sql"
	"encoding/binary"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite" // registers the pure-Go sqlite driver
)

// SQLiteStore implements SiteStore, RunStore and EmbeddingStore over
// modernc.org/sqlite. CalibrationStore is served by MemoryStore in a
// single-process run; calibration's append-only samples and drift
// alerts are low enough volume that a durable backing store is a later
// concern, not one this exercise's scope requires.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	if !strings.Contains(dsn, "?") {
		dsn += "?"
	} else {
		dsn += "&"
	}
	dsn += "_pragma=busy_timeout(30000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "persist: open sqlite")
	}
	db.SetMaxOpenConns(10)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, eris.Wrap(err, "persist: ping sqlite")
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS sites (
	id             TEXT PRIMARY KEY,
	domain         TEXT NOT NULL,
	user_id        TEXT NOT NULL,
	business_model TEXT NOT NULL DEFAULT '',
	name           TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_sites_user_id ON sites(user_id);

CREATE TABLE IF NOT EXISTS runs (
	id           TEXT PRIMARY KEY,
	site_id      TEXT NOT NULL REFERENCES sites(id),
	run_type     TEXT NOT NULL,
	status       TEXT NOT NULL DEFAULT 'queued',
	config_json  TEXT NOT NULL DEFAULT '{}',
	created_at   DATETIME NOT NULL,
	updated_at   DATETIME NOT NULL,
	completed_at DATETIME
);
CREATE INDEX IF NOT EXISTS idx_runs_site_id ON runs(site_id);
CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status);

CREATE TABLE IF NOT EXISTS embeddings (
	id           TEXT PRIMARY KEY,
	chunk_id     TEXT NOT NULL,
	page_id      TEXT NOT NULL,
	site_id      TEXT NOT NULL,
	content      TEXT NOT NULL,
	content_hash TEXT NOT NULL,
	embedding    BLOB NOT NULL,
	model_name   TEXT NOT NULL,
	dimensions   INTEGER NOT NULL,
	created_at   DATETIME NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_embeddings_content_site ON embeddings(content_hash, site_id);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, sqliteSchema); err != nil {
		return eris.Wrap(err, "persist: migrate")
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreateSite(ctx context.Context, site Site) (Site, error) {
	if site.ID == "" {
		site.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sites (id, domain, user_id, business_model, name) VALUES (?, ?, ?, ?, ?)`,
		site.ID, site.Domain, site.UserID, site.BusinessModel, site.Name,
	)
	if err != nil {
		return Site{}, eris.Wrap(err, "persist: insert site")
	}
	return site, nil
}

func (s *SQLiteStore) GetSite(ctx context.Context, id string) (Site, error) {
	var site Site
	row := s.db.QueryRowContext(ctx, `SELECT id, domain, user_id, business_model, name FROM sites WHERE id = ?`, id)
	if err := row.Scan(&site.ID, &site.Domain, &site.UserID, &site.BusinessModel, &site.Name); err != nil {
		return Site{}, eris.Wrap(err, "persist: get site")
	}
	return site, nil
}

func (s *SQLiteStore) ListSitesByUser(ctx context.Context, userID string) ([]Site, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, domain, user_id, business_model, name FROM sites WHERE user_id = ?`, userID)
	if err != nil {
		return nil, eris.Wrap(err, "persist: list sites")
	}
	defer rows.Close()

	var out []Site
	for rows.Next() {
		var site Site
		if err := rows.Scan(&site.ID, &site.Domain, &site.UserID, &site.BusinessModel, &site.Name); err != nil {
			return nil, eris.Wrap(err, "persist: scan site")
		}
		out = append(out, site)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) CreateRun(ctx context.Context, run Run) (Run, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	run.CreatedAt, run.UpdatedAt = now, now
	if run.Status == "" {
		run.Status = RunStatusQueued
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, site_id, run_type, status, config_json, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.SiteID, run.RunType, string(run.Status), run.ConfigJSON, run.CreatedAt, run.UpdatedAt,
	)
	if err != nil {
		return Run{}, eris.Wrap(err, "persist: insert run")
	}
	return run, nil
}

func (s *SQLiteStore) UpdateRunStatus(ctx context.Context, runID string, status RunStatus, completedAt *time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE runs SET status = ?, updated_at = ?, completed_at = ? WHERE id = ?`,
		string(status), time.Now().UTC(), completedAt, runID,
	)
	if err != nil {
		return eris.Wrap(err, "persist: update run status")
	}
	return nil
}

func (s *SQLiteStore) GetRun(ctx context.Context, id string) (Run, error) {
	var run Run
	var completedAt sql.NullTime
	row := s.db.QueryRowContext(ctx,
		`SELECT id, site_id, run_type, status, config_json, created_at, updated_at, completed_at FROM runs WHERE id = ?`, id)
	if err := row.Scan(&run.ID, &run.SiteID, &run.RunType, &run.Status, &run.ConfigJSON, &run.CreatedAt, &run.UpdatedAt, &completedAt); err != nil {
		return Run{}, eris.Wrap(err, "persist: get run")
	}
	if completedAt.Valid {
		run.CompletedAt = &completedAt.Time
	}
	return run, nil
}

func (s *SQLiteStore) ListRunsForSite(ctx context.Context, siteID string) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, site_id, run_type, status, config_json, created_at, updated_at, completed_at FROM runs WHERE site_id = ? ORDER BY created_at`, siteID)
	if err != nil {
		return nil, eris.Wrap(err, "persist: list runs")
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var run Run
		var completedAt sql.NullTime
		if err := rows.Scan(&run.ID, &run.SiteID, &run.RunType, &run.Status, &run.ConfigJSON, &run.CreatedAt, &run.UpdatedAt, &completedAt); err != nil {
			return nil, eris.Wrap(err, "persist: scan run")
		}
		if completedAt.Valid {
			run.CompletedAt = &completedAt.Time
		}
		out = append(out, run)
	}
	return out, rows.Err()
}

// UpsertEmbedding relies on the unique (content_hash, site_id) index to
// make repeated upserts idempotent.
func (s *SQLiteStore) UpsertEmbedding(ctx context.Context, e StoredEmbedding) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	blob := encodeVector(e.Embedding)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO embeddings (id, chunk_id, page_id, site_id, content, content_hash, embedding, model_name, dimensions, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(content_hash, site_id) DO UPDATE SET
		   chunk_id=excluded.chunk_id, page_id=excluded.page_id, content=excluded.content,
		   embedding=excluded.embedding, model_name=excluded.model_name, dimensions=excluded.dimensions`,
		e.ID, e.ChunkID, e.PageID, e.SiteID, e.Content, e.ContentHash, blob, e.ModelName, e.Dimensions, e.CreatedAt,
	)
	if err != nil {
		return eris.Wrap(err, "persist: upsert embedding")
	}
	return nil
}

func (s *SQLiteStore) ListEmbeddingsForSite(ctx context.Context, siteID string) ([]StoredEmbedding, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, chunk_id, page_id, site_id, content, content_hash, embedding, model_name, dimensions, created_at
		 FROM embeddings WHERE site_id = ?`, siteID)
	if err != nil {
		return nil, eris.Wrap(err, "persist: list embeddings")
	}
	defer rows.Close()

	var out []StoredEmbedding
	for rows.Next() {
		var e StoredEmbedding
		var blob []byte
		if err := rows.Scan(&e.ID, &e.ChunkID, &e.PageID, &e.SiteID, &e.Content, &e.ContentHash, &blob, &e.ModelName, &e.Dimensions, &e.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "persist: scan embedding")
		}
		e.Embedding = decodeVector(blob)
		out = append(out, e)
	}
	return out, rows.Err()
}

func encodeVector(v []float32) []byte {
	buf := make([]byte, 4*len(v))
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

func decodeVector(buf []byte) []float32 {
	v := make([]float32, len(buf)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
	}
	return v
}
