package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"newsdesk/internal/model"
	"newsdesk/internal/store"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := applySchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// migrations is an ordered list of SQL migrations.
// Each migration runs exactly once, tracked by schema_version table.
var migrations = []string{
	// Migration 1: Initial schema
	`
CREATE TABLE IF NOT EXISTS reporters (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	username TEXT NOT NULL,
	email TEXT UNIQUE NOT NULL,
	password TEXT NOT NULL,
	created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS news (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	base_language TEXT NOT NULL,
	title_en TEXT,
	title_hi TEXT,
	title_mr TEXT,
	content_en TEXT,
	content_hi TEXT,
	content_mr TEXT,
	coverage TEXT CHECK(coverage IN ('local', 'national', 'international')),
	category TEXT,
	image_url TEXT,
	published INTEGER NOT NULL DEFAULT 0,
	reporter_id INTEGER,
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL,
	FOREIGN KEY(reporter_id) REFERENCES reporters(id)
);
CREATE INDEX IF NOT EXISTS idx_news_created_at ON news(created_at DESC);
CREATE INDEX IF NOT EXISTS idx_news_published ON news(published);
`,
	// Future migrations go here:
	// Migration 2: `ALTER TABLE ...`,
}

func applySchema(db *sql.DB) error {
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		)
	`); err != nil {
		return err
	}

	var currentVersion int
	row := db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_version`)
	if err := row.Scan(&currentVersion); err != nil {
		return err
	}

	for i := currentVersion; i < len(migrations); i++ {
		if _, err := db.Exec(migrations[i]); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
		if _, err := db.Exec(`INSERT INTO schema_version (version) VALUES (?)`, i+1); err != nil {
			return fmt.Errorf("failed to record migration %d: %w", i+1, err)
		}
	}

	return nil
}

func (s *Store) CreateReporter(ctx context.Context, reporter *model.Reporter) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	// Only-one-reporter invariant, checked inside the transaction.
	var count int64
	if err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM reporters`).Scan(&count); err != nil {
		return 0, err
	}
	if count > 0 {
		err = store.ErrAlreadyRegistered
		return 0, err
	}

	res, err := tx.ExecContext(ctx, `
INSERT INTO reporters (username, email, password, created_at)
VALUES (?, ?, ?, ?)
`, reporter.Username, reporter.Email, reporter.PasswordHash, reporter.CreatedAt.Unix())
	if err != nil {
		if isUniqueViolation(err) {
			err = store.ErrDuplicateEmail
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

func (s *Store) GetReporterByEmail(ctx context.Context, email string) (model.Reporter, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, username, email, password, created_at
FROM reporters
WHERE email = ?
LIMIT 1
`, email)
	var r model.Reporter
	var created int64
	if err := row.Scan(&r.ID, &r.Username, &r.Email, &r.PasswordHash, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Reporter{}, store.ErrNotFound
		}
		return model.Reporter{}, err
	}
	r.CreatedAt = time.Unix(created, 0)
	return r, nil
}

func (s *Store) CountReporters(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM reporters`).Scan(&count)
	return count, err
}

const newsColumns = `id, base_language, title_en, title_hi, title_mr, content_en, content_hi, content_mr, coverage, category, image_url, published, reporter_id, created_at, updated_at`

func (s *Store) CreateNews(ctx context.Context, article *model.Article) (int64, error) {
	now := article.CreatedAt
	if now.IsZero() {
		now = time.Now()
	}
	res, err := s.db.ExecContext(ctx, `
INSERT INTO news (base_language, title_en, title_hi, title_mr, content_en, content_hi, content_mr, coverage, category, image_url, published, reporter_id, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`, string(article.BaseLanguage),
		article.TitleEN, article.TitleHI, article.TitleMR,
		article.ContentEN, article.ContentHI, article.ContentMR,
		string(article.Coverage), article.Category, nullIfEmpty(article.ImageURL),
		boolToInt(article.Published), article.ReporterID,
		now.Unix(), now.Unix())
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *Store) GetNews(ctx context.Context, id int64) (model.Article, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT `+newsColumns+`
FROM news
WHERE id = ?
LIMIT 1
`, id)
	return scanArticle(row)
}

func (s *Store) ListPublishedNews(ctx context.Context, opts store.NewsListOpts) ([]model.Article, error) {
	builder := sq.Select(newsColumns).
		From("news").
		Where(sq.Eq{"published": 1}).
		OrderBy("created_at DESC", "id DESC")

	if opts.Coverage != "" {
		builder = builder.Where(sq.Eq{"coverage": string(opts.Coverage)})
	}
	if search := strings.TrimSpace(opts.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		builder = builder.Where(sq.Or{
			sq.Like{"LOWER(title_en)": pattern},
			sq.Like{"LOWER(title_hi)": pattern},
			sq.Like{"LOWER(title_mr)": pattern},
		})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}
	return s.queryArticles(ctx, query, args...)
}

func (s *Store) ListAllNews(ctx context.Context) ([]model.Article, error) {
	return s.queryArticles(ctx, `
SELECT `+newsColumns+`
FROM news
ORDER BY created_at DESC, id DESC
`)
}

func (s *Store) UpdateNews(ctx context.Context, id int64, article *model.Article) error {
	_, err := s.db.ExecContext(ctx, `
UPDATE news SET
	title_en = ?, title_hi = ?, title_mr = ?,
	content_en = ?, content_hi = ?, content_mr = ?,
	coverage = ?, category = ?, image_url = ?, published = ?,
	updated_at = ?
WHERE id = ?
`, article.TitleEN, article.TitleHI, article.TitleMR,
		article.ContentEN, article.ContentHI, article.ContentMR,
		string(article.Coverage), article.Category, nullIfEmpty(article.ImageURL),
		boolToInt(article.Published), time.Now().Unix(), id)
	return err
}

func (s *Store) DeleteNews(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM news WHERE id = ?`, id)
	return err
}

func (s *Store) queryArticles(ctx context.Context, query string, args ...any) ([]model.Article, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var articles []model.Article
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, article)
	}
	return articles, rows.Err()
}

func scanArticle(scanner interface{ Scan(dest ...any) error }) (model.Article, error) {
	var a model.Article
	var baseLang, coverage string
	var titleEN, titleHI, titleMR sql.NullString
	var contentEN, contentHI, contentMR sql.NullString
	var category, imageURL sql.NullString
	var published int
	var reporterID sql.NullInt64
	var created, updated int64
	if err := scanner.Scan(&a.ID, &baseLang,
		&titleEN, &titleHI, &titleMR,
		&contentEN, &contentHI, &contentMR,
		&coverage, &category, &imageURL, &published, &reporterID,
		&created, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Article{}, store.ErrNotFound
		}
		return model.Article{}, err
	}
	a.BaseLanguage = model.Language(baseLang)
	a.TitleEN = titleEN.String
	a.TitleHI = titleHI.String
	a.TitleMR = titleMR.String
	a.ContentEN = contentEN.String
	a.ContentHI = contentHI.String
	a.ContentMR = contentMR.String
	a.Coverage = model.Coverage(coverage)
	a.Category = category.String
	a.ImageURL = imageURL.String
	a.Published = published == 1
	a.ReporterID = reporterID.Int64
	a.CreatedAt = time.Unix(created, 0)
	a.UpdatedAt = time.Unix(updated, 0)
	return a, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullIfEmpty(s string) any {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "PRIMARY KEY")
}
