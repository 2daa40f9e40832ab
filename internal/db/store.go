package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/glebarez/go-sqlite"

	"github.com/bdimitrov/portfolio-api/internal/models"
)

// Store holds the six content collections in a single embedded SQLite file.
// List-valued fields (technologies, tags, bullets) are serialized to JSON
// text columns; config values are opaque JSON documents.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS config (
	id TEXT PRIMARY KEY,
	value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS projects (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	shortDescription TEXT NOT NULL,
	description TEXT NOT NULL,
	image TEXT NOT NULL,
	category TEXT NOT NULL,
	technologies TEXT NOT NULL,
	date TEXT NOT NULL,
	demoUrl TEXT,
	githubUrl TEXT,
	featured INTEGER DEFAULT 0
);

CREATE TABLE IF NOT EXISTS journal_posts (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	date TEXT NOT NULL,
	category TEXT NOT NULL,
	tags TEXT NOT NULL,
	excerpt TEXT NOT NULL,
	content TEXT NOT NULL,
	readTime INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS experience (
	id TEXT PRIMARY KEY,
	role TEXT NOT NULL,
	company TEXT NOT NULL,
	period TEXT NOT NULL,
	description TEXT NOT NULL,
	bullets TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS timeline (
	year TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	description TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS photos (
	id TEXT PRIMARY KEY,
	thumbnailUrl TEXT NOT NULL,
	fullUrl TEXT NOT NULL,
	caption TEXT NOT NULL,
	location TEXT NOT NULL,
	camera TEXT,
	film TEXT
);
`

// NewStore opens (creating if needed) the SQLite database at path and applies
// the schema. Re-applying the schema on every start is idempotent.
func NewStore(ctx context.Context, path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA foreign_keys=ON;",
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("set pragma %s: %w", pragma, err)
		}
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// marshalList encodes a list field for storage. Nil normalizes to an empty
// array so the column never holds null.
func marshalList(items []string) string {
	if items == nil {
		items = []string{}
	}
	b, _ := json.Marshal(items)
	return string(b)
}

// unmarshalList decodes a stored list field. Malformed or null text reads
// back as an empty list rather than failing the whole query.
func unmarshalList(raw string) []string {
	var items []string
	if err := json.Unmarshal([]byte(raw), &items); err != nil || items == nil {
		return []string{}
	}
	return items
}

// --- Config ---

// GetConfig returns every config row as a map of setting id to its raw JSON
// value. Values have no fixed schema.
func (s *Store) GetConfig(ctx context.Context) (map[string]json.RawMessage, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, value FROM config")
	if err != nil {
		return nil, fmt.Errorf("list config: %w", err)
	}
	defer rows.Close()

	config := make(map[string]json.RawMessage)
	for rows.Next() {
		var id, value string
		if err := rows.Scan(&id, &value); err != nil {
			return nil, fmt.Errorf("scan config row: %w", err)
		}
		config[id] = json.RawMessage(value)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return config, nil
}

// GetConfigValue returns the raw JSON value for a single setting, or nil if
// the setting does not exist.
func (s *Store) GetConfigValue(ctx context.Context, id string) (json.RawMessage, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM config WHERE id = ?", id).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get config value: %w", err)
	}
	return json.RawMessage(value), nil
}

func (s *Store) SetConfigValue(ctx context.Context, id string, value json.RawMessage) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO config (id, value) VALUES (?, ?) ON CONFLICT(id) DO UPDATE SET value=excluded.value",
		id, string(value),
	)
	if err != nil {
		return fmt.Errorf("set config value: %w", err)
	}
	return nil
}

// --- Projects ---

func (s *Store) ListProjects(ctx context.Context) ([]models.Project, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, shortDescription, description, image, category,
		       technologies, date, demoUrl, githubUrl, featured
		FROM projects
	`)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	projects := make([]models.Project, 0)
	for rows.Next() {
		var p models.Project
		var technologies string
		var featured int
		if err := rows.Scan(
			&p.ID,
			&p.Title,
			&p.ShortDescription,
			&p.Description,
			&p.Image,
			&p.Category,
			&technologies,
			&p.Date,
			&p.DemoURL,
			&p.GithubURL,
			&featured,
		); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		p.Technologies = unmarshalList(technologies)
		p.Featured = featured != 0
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return projects, nil
}

// UpsertProject inserts the project or replaces every field of the existing
// row with the same id, in a single atomic statement.
func (s *Store) UpsertProject(ctx context.Context, p models.Project) error {
	featured := 0
	if p.Featured {
		featured = 1
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO projects (id, title, shortDescription, description, image,
			category, technologies, date, demoUrl, githubUrl, featured)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title=excluded.title,
			shortDescription=excluded.shortDescription,
			description=excluded.description,
			image=excluded.image,
			category=excluded.category,
			technologies=excluded.technologies,
			date=excluded.date,
			demoUrl=excluded.demoUrl,
			githubUrl=excluded.githubUrl,
			featured=excluded.featured
	`,
		p.ID, p.Title, p.ShortDescription, p.Description, p.Image,
		p.Category, marshalList(p.Technologies), p.Date, p.DemoURL, p.GithubURL, featured,
	)
	if err != nil {
		return fmt.Errorf("upsert project: %w", err)
	}
	return nil
}

func (s *Store) DeleteProject(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM projects WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	return nil
}

// --- Journal posts ---

// ListJournalPosts returns all journal posts, newest first.
func (s *Store) ListJournalPosts(ctx context.Context) ([]models.JournalPost, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, date, category, tags, excerpt, content, readTime
		FROM journal_posts
		ORDER BY date DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list journal posts: %w", err)
	}
	defer rows.Close()

	posts := make([]models.JournalPost, 0)
	for rows.Next() {
		var p models.JournalPost
		var tags string
		if err := rows.Scan(
			&p.ID,
			&p.Title,
			&p.Date,
			&p.Category,
			&tags,
			&p.Excerpt,
			&p.Content,
			&p.ReadTime,
		); err != nil {
			return nil, fmt.Errorf("scan journal post: %w", err)
		}
		p.Tags = unmarshalList(tags)
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return posts, nil
}

func (s *Store) UpsertJournalPost(ctx context.Context, p models.JournalPost) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO journal_posts (id, title, date, category, tags, excerpt, content, readTime)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title=excluded.title,
			date=excluded.date,
			category=excluded.category,
			tags=excluded.tags,
			excerpt=excluded.excerpt,
			content=excluded.content,
			readTime=excluded.readTime
	`,
		p.ID, p.Title, p.Date, p.Category, marshalList(p.Tags), p.Excerpt, p.Content, p.ReadTime,
	)
	if err != nil {
		return fmt.Errorf("upsert journal post: %w", err)
	}
	return nil
}

func (s *Store) DeleteJournalPost(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM journal_posts WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete journal post: %w", err)
	}
	return nil
}

// --- Experience ---

func (s *Store) ListExperience(ctx context.Context) ([]models.Experience, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, role, company, period, description, bullets
		FROM experience
	`)
	if err != nil {
		return nil, fmt.Errorf("list experience: %w", err)
	}
	defer rows.Close()

	entries := make([]models.Experience, 0)
	for rows.Next() {
		var e models.Experience
		var bullets string
		if err := rows.Scan(
			&e.ID,
			&e.Role,
			&e.Company,
			&e.Period,
			&e.Description,
			&bullets,
		); err != nil {
			return nil, fmt.Errorf("scan experience: %w", err)
		}
		e.Bullets = unmarshalList(bullets)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return entries, nil
}

func (s *Store) UpsertExperience(ctx context.Context, e models.Experience) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO experience (id, role, company, period, description, bullets)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			role=excluded.role,
			company=excluded.company,
			period=excluded.period,
			description=excluded.description,
			bullets=excluded.bullets
	`,
		e.ID, e.Role, e.Company, e.Period, e.Description, marshalList(e.Bullets),
	)
	if err != nil {
		return fmt.Errorf("upsert experience: %w", err)
	}
	return nil
}

func (s *Store) DeleteExperience(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM experience WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete experience: %w", err)
	}
	return nil
}

// --- Timeline ---

// ListTimeline returns all timeline entries, most recent year first.
func (s *Store) ListTimeline(ctx context.Context) ([]models.TimelineEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT year, title, description
		FROM timeline
		ORDER BY year DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list timeline: %w", err)
	}
	defer rows.Close()

	entries := make([]models.TimelineEntry, 0)
	for rows.Next() {
		var t models.TimelineEntry
		if err := rows.Scan(&t.Year, &t.Title, &t.Description); err != nil {
			return nil, fmt.Errorf("scan timeline entry: %w", err)
		}
		entries = append(entries, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return entries, nil
}

func (s *Store) UpsertTimelineEntry(ctx context.Context, t models.TimelineEntry) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO timeline (year, title, description)
		VALUES (?, ?, ?)
		ON CONFLICT(year) DO UPDATE SET
			title=excluded.title,
			description=excluded.description
	`,
		t.Year, t.Title, t.Description,
	)
	if err != nil {
		return fmt.Errorf("upsert timeline entry: %w", err)
	}
	return nil
}

func (s *Store) DeleteTimelineEntry(ctx context.Context, year string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM timeline WHERE year = ?", year); err != nil {
		return fmt.Errorf("delete timeline entry: %w", err)
	}
	return nil
}

// --- Photos ---

func (s *Store) ListPhotos(ctx context.Context) ([]models.Photo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, thumbnailUrl, fullUrl, caption, location, camera, film
		FROM photos
	`)
	if err != nil {
		return nil, fmt.Errorf("list photos: %w", err)
	}
	defer rows.Close()

	photos := make([]models.Photo, 0)
	for rows.Next() {
		var p models.Photo
		if err := rows.Scan(
			&p.ID,
			&p.ThumbnailURL,
			&p.FullURL,
			&p.Caption,
			&p.Location,
			&p.Camera,
			&p.Film,
		); err != nil {
			return nil, fmt.Errorf("scan photo: %w", err)
		}
		photos = append(photos, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return photos, nil
}

func (s *Store) UpsertPhoto(ctx context.Context, p models.Photo) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO photos (id, thumbnailUrl, fullUrl, caption, location, camera, film)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			thumbnailUrl=excluded.thumbnailUrl,
			fullUrl=excluded.fullUrl,
			caption=excluded.caption,
			location=excluded.location,
			camera=excluded.camera,
			film=excluded.film
	`,
		p.ID, p.ThumbnailURL, p.FullURL, p.Caption, p.Location, p.Camera, p.Film,
	)
	if err != nil {
		return fmt.Errorf("upsert photo: %w", err)
	}
	return nil
}

func (s *Store) DeletePhoto(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM photos WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete photo: %w", err)
	}
	return nil
}
