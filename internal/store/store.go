package store

import (
	"context"
	"errors"

	"newsdesk/internal/model"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrAlreadyRegistered = errors.New("reporter already registered")
	ErrDuplicateEmail    = errors.New("duplicate email")
)

// NewsListOpts filters the public article listing. Zero values mean
// "no filter".
type NewsListOpts struct {
	Coverage model.Coverage
	Search   string
}

type Store interface {
	ReporterStore
	NewsStore
	Close() error
}

type ReporterStore interface {
	// CreateReporter inserts the reporter if and only if none exists yet.
	// The zero-reporters precondition is checked inside the same
	// transaction as the insert, so concurrent registrations cannot both
	// succeed.
	CreateReporter(ctx context.Context, reporter *model.Reporter) (int64, error)
	GetReporterByEmail(ctx context.Context, email string) (model.Reporter, error)
	CountReporters(ctx context.Context) (int64, error)
}

type NewsStore interface {
	CreateNews(ctx context.Context, article *model.Article) (int64, error)
	GetNews(ctx context.Context, id int64) (model.Article, error)
	// ListPublishedNews returns published articles only, newest first.
	ListPublishedNews(ctx context.Context, opts NewsListOpts) ([]model.Article, error)
	// ListAllNews returns every article including drafts, newest first.
	ListAllNews(ctx context.Context) ([]model.Article, error)
	UpdateNews(ctx context.Context, id int64, article *model.Article) error
	// DeleteNews removes the article. Deleting an id that does not exist
	// is a no-op, not an error.
	DeleteNews(ctx context.Context, id int64) error
}
