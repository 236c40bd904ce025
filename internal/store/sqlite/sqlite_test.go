package sqlite

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"newsdesk/internal/model"
	"newsdesk/internal/store"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	path := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	st, err := Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	return st
}

func TestReporterSingleton(t *testing.T) {
	st := newTestStore(t)
	defer st.Close()

	first := model.Reporter{
		Username:     "jram",
		Email:        "jram@example.com",
		PasswordHash: "hash",
		CreatedAt:    time.Now(),
	}
	id, err := st.CreateReporter(context.Background(), &first)
	if err != nil {
		t.Fatalf("create reporter: %v", err)
	}
	if id == 0 {
		t.Fatalf("expected non-zero id")
	}

	second := model.Reporter{
		Username:     "other",
		Email:        "other@example.com",
		PasswordHash: "hash",
		CreatedAt:    time.Now(),
	}
	if _, err := st.CreateReporter(context.Background(), &second); !errors.Is(err, store.ErrAlreadyRegistered) {
		t.Fatalf("expected ErrAlreadyRegistered, got %v", err)
	}

	count, err := st.CountReporters(context.Background())
	if err != nil {
		t.Fatalf("count reporters: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 reporter, got %d", count)
	}
}

func TestGetReporterByEmail(t *testing.T) {
	st := newTestStore(t)
	defer st.Close()

	reporter := model.Reporter{
		Username:     "jram",
		Email:        "jram@example.com",
		PasswordHash: "bcrypt-hash",
		CreatedAt:    time.Now(),
	}
	id, err := st.CreateReporter(context.Background(), &reporter)
	if err != nil {
		t.Fatalf("create reporter: %v", err)
	}

	got, err := st.GetReporterByEmail(context.Background(), "jram@example.com")
	if err != nil {
		t.Fatalf("get reporter: %v", err)
	}
	if got.ID != id || got.Username != "jram" || got.PasswordHash != "bcrypt-hash" {
		t.Fatalf("unexpected reporter: %+v", got)
	}

	if _, err := st.GetReporterByEmail(context.Background(), "nobody@example.com"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestNewsLifecycle(t *testing.T) {
	st := newTestStore(t)
	defer st.Close()

	article := model.Article{
		BaseLanguage: model.LangEnglish,
		TitleEN:      "City budget approved",
		ContentEN:    "The council passed the annual budget.",
		TitleHI:      "शहर का बजट मंजूर",
		ContentHI:    "परिषद ने वार्षिक बजट पारित किया।",
		TitleMR:      "शहराचा अर्थसंकल्प मंजूर",
		ContentMR:    "परिषदेने वार्षिक अर्थसंकल्प मंजूर केला.",
		Coverage:     model.CoverageLocal,
		Category:     "civic",
		Published:    true,
		CreatedAt:    time.Now(),
	}
	id, err := st.CreateNews(context.Background(), &article)
	if err != nil {
		t.Fatalf("create news: %v", err)
	}

	got, err := st.GetNews(context.Background(), id)
	if err != nil {
		t.Fatalf("get news: %v", err)
	}
	if got.TitleEN != article.TitleEN || got.TitleHI != article.TitleHI || got.TitleMR != article.TitleMR {
		t.Fatalf("titles not round-tripped: %+v", got)
	}
	if got.Coverage != model.CoverageLocal || !got.Published {
		t.Fatalf("unexpected metadata: coverage=%s published=%v", got.Coverage, got.Published)
	}

	got.TitleEN = "City budget approved after debate"
	got.Published = false
	if err := st.UpdateNews(context.Background(), id, &got); err != nil {
		t.Fatalf("update news: %v", err)
	}
	updated, err := st.GetNews(context.Background(), id)
	if err != nil {
		t.Fatalf("get updated news: %v", err)
	}
	if updated.TitleEN != "City budget approved after debate" {
		t.Fatalf("title not updated: %s", updated.TitleEN)
	}
	if updated.Published {
		t.Fatalf("expected unpublished after update")
	}

	if err := st.DeleteNews(context.Background(), id); err != nil {
		t.Fatalf("delete news: %v", err)
	}
	if _, err := st.GetNews(context.Background(), id); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestDeleteNewsIdempotent(t *testing.T) {
	st := newTestStore(t)
	defer st.Close()

	if err := st.DeleteNews(context.Background(), 12345); err != nil {
		t.Fatalf("delete of missing id should succeed, got %v", err)
	}
}

func seedArticle(t *testing.T, st *Store, title string, coverage model.Coverage, published bool, createdAt time.Time) int64 {
	t.Helper()
	article := model.Article{
		BaseLanguage: model.LangEnglish,
		TitleEN:      title,
		ContentEN:    "content for " + title,
		TitleHI:      title + " (hi)",
		ContentHI:    "content",
		TitleMR:      title + " (mr)",
		ContentMR:    "content",
		Coverage:     coverage,
		Published:    published,
		CreatedAt:    createdAt,
	}
	id, err := st.CreateNews(context.Background(), &article)
	if err != nil {
		t.Fatalf("seed article %q: %v", title, err)
	}
	return id
}

func TestListPublishedNews(t *testing.T) {
	st := newTestStore(t)
	defer st.Close()

	base := time.Now().Add(-time.Hour)
	oldest := seedArticle(t, st, "Harbor expansion", model.CoverageLocal, true, base)
	middle := seedArticle(t, st, "Election results", model.CoverageNational, true, base.Add(10*time.Second))
	newest := seedArticle(t, st, "Trade talks resume", model.CoverageInternational, true, base.Add(20*time.Second))
	seedArticle(t, st, "Unfinished draft", model.CoverageLocal, false, base.Add(30*time.Second))

	articles, err := st.ListPublishedNews(context.Background(), store.NewsListOpts{})
	if err != nil {
		t.Fatalf("list published: %v", err)
	}
	if len(articles) != 3 {
		t.Fatalf("expected 3 published articles, got %d", len(articles))
	}
	if articles[0].ID != newest || articles[1].ID != middle || articles[2].ID != oldest {
		t.Fatalf("wrong order: %d, %d, %d", articles[0].ID, articles[1].ID, articles[2].ID)
	}

	local, err := st.ListPublishedNews(context.Background(), store.NewsListOpts{Coverage: model.CoverageLocal})
	if err != nil {
		t.Fatalf("list local: %v", err)
	}
	if len(local) != 1 || local[0].ID != oldest {
		t.Fatalf("coverage filter wrong: %+v", local)
	}
}

func TestListPublishedNewsSearch(t *testing.T) {
	st := newTestStore(t)
	defer st.Close()

	base := time.Now().Add(-time.Hour)
	match := seedArticle(t, st, "Monsoon arrives early", model.CoverageNational, true, base)
	seedArticle(t, st, "Budget session opens", model.CoverageNational, true, base.Add(time.Second))

	// Case-insensitive, substring match.
	articles, err := st.ListPublishedNews(context.Background(), store.NewsListOpts{Search: "MONSOON"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(articles) != 1 || articles[0].ID != match {
		t.Fatalf("expected one match, got %+v", articles)
	}

	// A search term hits in any language column.
	hindi := model.Article{
		BaseLanguage: model.LangHindi,
		TitleEN:      "Three bills tabled",
		ContentEN:    "c",
		TitleHI:      "तीन विधेयक पेश",
		ContentHI:    "c",
		TitleMR:      "तीन विधेयके मांडली",
		ContentMR:    "c",
		Coverage:     model.CoverageNational,
		Published:    true,
		CreatedAt:    base.Add(2 * time.Second),
	}
	hindiID, err := st.CreateNews(context.Background(), &hindi)
	if err != nil {
		t.Fatalf("create hindi article: %v", err)
	}
	articles, err = st.ListPublishedNews(context.Background(), store.NewsListOpts{Search: "विधेयक पेश"})
	if err != nil {
		t.Fatalf("search hindi: %v", err)
	}
	if len(articles) != 1 || articles[0].ID != hindiID {
		t.Fatalf("expected hindi match, got %+v", articles)
	}

	articles, err = st.ListPublishedNews(context.Background(), store.NewsListOpts{Search: "no such headline"})
	if err != nil {
		t.Fatalf("search miss: %v", err)
	}
	if len(articles) != 0 {
		t.Fatalf("expected no matches, got %d", len(articles))
	}
}

func TestListAllNewsIncludesDrafts(t *testing.T) {
	st := newTestStore(t)
	defer st.Close()

	base := time.Now().Add(-time.Hour)
	seedArticle(t, st, "Published piece", model.CoverageLocal, true, base)
	draft := seedArticle(t, st, "Draft piece", model.CoverageLocal, false, base.Add(time.Second))

	articles, err := st.ListAllNews(context.Background())
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(articles) != 2 {
		t.Fatalf("expected 2 articles, got %d", len(articles))
	}
	if articles[0].ID != draft {
		t.Fatalf("expected draft first (newest), got %d", articles[0].ID)
	}
}

func TestDraftReachableByID(t *testing.T) {
	st := newTestStore(t)
	defer st.Close()

	draft := seedArticle(t, st, "Embargoed story", model.CoverageNational, false, time.Now())

	got, err := st.GetNews(context.Background(), draft)
	if err != nil {
		t.Fatalf("get draft: %v", err)
	}
	if got.Published {
		t.Fatalf("expected draft")
	}
}
