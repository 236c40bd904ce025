package client

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"newsdesk/internal/model"
)

func TestClientNew(t *testing.T) {
	c := New("https://example.com")

	if c.BaseURL != "https://example.com" {
		t.Errorf("expected base URL 'https://example.com', got '%s'", c.BaseURL)
	}

	if c.HTTPClient == nil {
		t.Error("expected non-nil HTTP client")
	}

	if c.IsAuthenticated() {
		t.Error("expected new client to not be authenticated")
	}
}

func TestLoginStoresToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/login" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		var req map[string]string
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req["email"] != "a@example.com" {
			t.Errorf("unexpected email: %s", req["email"])
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"token":    "token-123",
			"reporter": model.Reporter{ID: 1, Email: "a@example.com"},
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	if err := c.Login("a@example.com", "password123"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if c.Token != "token-123" {
		t.Fatalf("token not stored: %q", c.Token)
	}
	if !c.IsAuthenticated() {
		t.Fatalf("expected authenticated client")
	}
}

func TestCreateNewsSendsMultipart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		if got := r.FormValue("title"); got != "Headline" {
			t.Errorf("unexpected title: %s", got)
		}
		if got := r.FormValue("base_language"); got != "en" {
			t.Errorf("unexpected base language: %s", got)
		}
		if got := r.FormValue("published"); got != "true" {
			t.Errorf("unexpected published: %s", got)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("unexpected auth header: %s", got)
		}
		if files := r.MultipartForm.File["image"]; len(files) != 1 {
			t.Errorf("expected one image file, got %d", len(files))
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(model.Article{ID: 7, TitleEN: "Headline"})
	}))
	defer srv.Close()

	c := New(srv.URL)
	c.Token = "tok"
	article, err := c.CreateNews(NewsDraft{
		Title:        "Headline",
		Content:      "Body",
		BaseLanguage: model.LangEnglish,
		Coverage:     model.CoverageLocal,
		Published:    true,
		ImageName:    "pic.jpg",
		Image:        []byte("jpeg"),
	})
	if err != nil {
		t.Fatalf("create news: %v", err)
	}
	if article.ID != 7 {
		t.Fatalf("unexpected article: %+v", article)
	}
}

func TestListNewsQueryParams(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("coverage"); got != "national" {
			t.Errorf("unexpected coverage: %s", got)
		}
		if got := r.URL.Query().Get("search"); got != "monsoon" {
			t.Errorf("unexpected search: %s", got)
		}
		_ = json.NewEncoder(w).Encode([]model.Article{{ID: 1}})
	}))
	defer srv.Close()

	c := New(srv.URL)
	articles, err := c.ListNews(model.CoverageNational, "monsoon")
	if err != nil {
		t.Fatalf("list news: %v", err)
	}
	if len(articles) != 1 || articles[0].ID != 1 {
		t.Fatalf("unexpected articles: %+v", articles)
	}
}

func TestGetNewsNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	c := New(srv.URL)
	if _, err := c.GetNews(42); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
