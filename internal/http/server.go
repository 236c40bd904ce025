package httpapp

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	httpSwagger "github.com/swaggo/http-swagger"

	"newsdesk/internal/auth"
	"newsdesk/internal/config"
	"newsdesk/internal/model"
	"newsdesk/internal/rate"
	"newsdesk/internal/store"
	"newsdesk/internal/translate"

	_ "newsdesk/docs" // swagger docs
)

type Server struct {
	store      store.Store
	auth       *auth.Service
	translator *translate.Service
	limiter    rate.Limiter
	cfg        config.Config
	log        *slog.Logger
	uploads    http.Handler
}

func NewServer(st store.Store, authSvc *auth.Service, translator *translate.Service, limiter rate.Limiter, cfg config.Config, log *slog.Logger) *Server {
	return &Server{
		store:      st,
		auth:       authSvc,
		translator: translator,
		limiter:    limiter,
		cfg:        cfg,
		log:        log,
		uploads:    http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadDir))),
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	if strings.HasPrefix(path, "/api/") {
		s.handleAPI(w, r)
		return
	}
	if strings.HasPrefix(path, "/uploads/") {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			methodNotAllowed(w)
			return
		}
		s.uploads.ServeHTTP(w, r)
		return
	}
	if strings.HasPrefix(path, "/swagger/") {
		httpSwagger.WrapHandler.ServeHTTP(w, r)
		return
	}
	notFound(w)
}

func (s *Server) handleAPI(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api")
	segments := splitPath(path)

	switch {
	case len(segments) == 2 && segments[0] == "auth" && segments[1] == "register":
		if r.Method == http.MethodPost {
			s.handleRegister(w, r)
			return
		}
	case len(segments) == 2 && segments[0] == "auth" && segments[1] == "login":
		if r.Method == http.MethodPost {
			s.handleLogin(w, r)
			return
		}
	case len(segments) == 1 && segments[0] == "news":
		if r.Method == http.MethodGet {
			s.handleListNews(w, r)
			return
		}
		if r.Method == http.MethodPost {
			s.handleCreateNews(w, r)
			return
		}
	case len(segments) == 2 && segments[0] == "news":
		if r.Method == http.MethodGet {
			s.handleGetNews(w, r, segments[1])
			return
		}
		if r.Method == http.MethodPut {
			s.handleUpdateNews(w, r, segments[1])
			return
		}
		if r.Method == http.MethodDelete {
			s.handleDeleteNews(w, r, segments[1])
			return
		}
	case len(segments) == 2 && segments[0] == "admin" && segments[1] == "news":
		if r.Method == http.MethodGet {
			s.handleAdminListNews(w, r)
			return
		}
	case len(segments) == 1 && segments[0] == "version":
		if r.Method == http.MethodGet {
			s.handleVersion(w, r)
			return
		}
	}

	if len(segments) > 0 {
		switch segments[0] {
		case "auth", "news", "admin", "version":
			methodNotAllowed(w)
			return
		}
	}
	notFound(w)
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// handleRegister godoc
//
//	@Summary		Register the reporter account
//	@Description	Create the single reporter account. Fails once an account exists.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		registerRequest	true	"Account details"
//	@Success		201		{object}	model.Reporter
//	@Failure		400		{object}	map[string]any	"Validation failure or account already exists"
//	@Router			/api/auth/register [post]
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	reporter, err := s.auth.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrAlreadyRegistered), errors.Is(err, store.ErrDuplicateEmail):
			writeError(w, http.StatusBadRequest, err)
		case errors.Is(err, auth.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, err)
		default:
			writeError(w, http.StatusInternalServerError, err)
		}
		return
	}
	s.log.Info("reporter registered", "email", reporter.Email)
	writeJSON(w, http.StatusCreated, reporter)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// handleLogin godoc
//
//	@Summary		Log in
//	@Description	Exchange reporter credentials for a bearer token
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		loginRequest	true	"Credentials"
//	@Success		200		{object}	map[string]any	"Token and reporter"
//	@Failure		401		{object}	map[string]any	"Invalid credentials"
//	@Router			/api/auth/login [post]
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if !s.allowRateLimit(w, r, "login", s.cfg.RateLimits.LoginPerMinute) {
		return
	}
	var req loginRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	token, reporter, err := s.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, err)
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"token":    token,
		"reporter": reporter,
	})
}

// handleListNews godoc
//
//	@Summary		List published articles
//	@Description	Published articles newest first, optionally filtered by coverage and a case-insensitive title search across all languages
//	@Tags			News
//	@Produce		json
//	@Param			coverage	query		string	false	"Coverage filter"	Enums(local, national, international)
//	@Param			search		query		string	false	"Title substring, matched in every language"
//	@Success		200			{array}		model.Article
//	@Router			/api/news [get]
func (s *Server) handleListNews(w http.ResponseWriter, r *http.Request) {
	opts := store.NewsListOpts{
		Coverage: model.Coverage(r.URL.Query().Get("coverage")),
		Search:   r.URL.Query().Get("search"),
	}
	if opts.Coverage != "" && !opts.Coverage.Valid() {
		writeError(w, http.StatusBadRequest, fmt.Errorf("unknown coverage %q", opts.Coverage))
		return
	}
	articles, err := s.store.ListPublishedNews(r.Context(), opts)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, articles)
}

// handleGetNews godoc
//
//	@Summary		Get one article
//	@Description	Fetch a single article by id, drafts included
//	@Tags			News
//	@Produce		json
//	@Param			id	path		int	true	"Article ID"
//	@Success		200	{object}	model.Article
//	@Failure		404	{object}	map[string]any
//	@Router			/api/news/{id} [get]
func (s *Server) handleGetNews(w http.ResponseWriter, r *http.Request, rawID string) {
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid article id"))
		return
	}
	article, err := s.store.GetNews(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			notFound(w)
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, article)
}

// handleAdminListNews godoc
//
//	@Summary		List all articles
//	@Description	Every article including drafts, newest first
//	@Tags			News
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{array}		model.Article
//	@Failure		401	{object}	map[string]any
//	@Router			/api/admin/news [get]
func (s *Server) handleAdminListNews(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireAuth(w, r); !ok {
		return
	}
	articles, err := s.store.ListAllNews(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, articles)
}

// articleForm carries the writable article fields, decoded from either a
// JSON body or a multipart form (the latter may also carry an image
// upload).
type articleForm struct {
	Title        string         `json:"title"`
	Content      string         `json:"content"`
	BaseLanguage model.Language `json:"base_language"`
	Coverage     model.Coverage `json:"coverage"`
	Category     string         `json:"category"`
	ImageURL     string         `json:"image_url"`
	Published    bool           `json:"published"`
}

func (f articleForm) validate() error {
	if strings.TrimSpace(f.Title) == "" {
		return errors.New("title is required")
	}
	if strings.TrimSpace(f.Content) == "" {
		return errors.New("content is required")
	}
	if !f.BaseLanguage.Valid() {
		return fmt.Errorf("unknown base language %q", f.BaseLanguage)
	}
	if !f.Coverage.Valid() {
		return fmt.Errorf("unknown coverage %q", f.Coverage)
	}
	return nil
}

// handleCreateNews godoc
//
//	@Summary		Create an article
//	@Description	Create an article in the base language; the other two languages are machine translated, falling back to the original text per language when translation fails
//	@Tags			News
//	@Accept			mpfd
//	@Produce		json
//	@Security		BearerAuth
//	@Param			title			formData	string	true	"Title in the base language"
//	@Param			content			formData	string	true	"Content in the base language"
//	@Param			base_language	formData	string	true	"Language of title and content"	Enums(en, hi, mr)
//	@Param			coverage		formData	string	true	"Coverage"	Enums(local, national, international)
//	@Param			category		formData	string	false	"Category"
//	@Param			published		formData	bool	false	"Publish immediately"
//	@Param			image			formData	file	false	"Cover image"
//	@Success		201				{object}	model.Article
//	@Failure		400				{object}	map[string]any
//	@Failure		401				{object}	map[string]any
//	@Router			/api/news [post]
func (s *Server) handleCreateNews(w http.ResponseWriter, r *http.Request) {
	claims, ok := s.requireAuth(w, r)
	if !ok {
		return
	}
	if !s.allowRateLimit(w, r, "write", s.cfg.RateLimits.WritePerMinute) {
		return
	}

	form, image, err := s.readArticleForm(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := form.validate(); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	imageURL := form.ImageURL
	if image != nil {
		imageURL, err = s.saveImage(image)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
	}

	article := model.Article{
		BaseLanguage: form.BaseLanguage,
		Coverage:     form.Coverage,
		Category:     form.Category,
		ImageURL:     imageURL,
		Published:    form.Published,
		ReporterID:   claims.ReporterID,
	}
	s.translator.Translate(r.Context(), form.Title, form.Content, form.BaseLanguage).Apply(&article)

	id, err := s.store.CreateNews(r.Context(), &article)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	created, err := s.store.GetNews(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.log.Info("article created", "id", id, "base_language", article.BaseLanguage, "published", article.Published)
	writeJSON(w, http.StatusCreated, created)
}

// handleUpdateNews godoc
//
//	@Summary		Update an article
//	@Description	Overwrite an article. Translations are regenerated only when the base-language title or content actually changed; metadata-only edits keep the stored text in every language.
//	@Tags			News
//	@Accept			mpfd
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id				path		int		true	"Article ID"
//	@Param			title			formData	string	true	"Title in the base language"
//	@Param			content			formData	string	true	"Content in the base language"
//	@Param			base_language	formData	string	true	"Language of title and content"	Enums(en, hi, mr)
//	@Param			coverage		formData	string	true	"Coverage"	Enums(local, national, international)
//	@Param			category		formData	string	false	"Category"
//	@Param			published		formData	bool	false	"Published flag"
//	@Param			image			formData	file	false	"Replacement cover image"
//	@Success		200				{object}	model.Article
//	@Failure		400				{object}	map[string]any
//	@Failure		401				{object}	map[string]any
//	@Failure		404				{object}	map[string]any
//	@Router			/api/news/{id} [put]
func (s *Server) handleUpdateNews(w http.ResponseWriter, r *http.Request, rawID string) {
	claims, ok := s.requireAuth(w, r)
	if !ok {
		return
	}
	if !s.allowRateLimit(w, r, "write", s.cfg.RateLimits.WritePerMinute) {
		return
	}
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid article id"))
		return
	}

	current, err := s.store.GetNews(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			notFound(w)
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	form, image, err := s.readArticleForm(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := form.validate(); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	imageURL := current.ImageURL
	if form.ImageURL != "" {
		imageURL = form.ImageURL
	}
	if image != nil {
		imageURL, err = s.saveImage(image)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
	}

	updated := model.Article{
		BaseLanguage: form.BaseLanguage,
		Coverage:     form.Coverage,
		Category:     form.Category,
		ImageURL:     imageURL,
		Published:    form.Published,
		ReporterID:   claims.ReporterID,
	}

	stored := current.Text(form.BaseLanguage)
	if form.Title != stored.Title || form.Content != stored.Content {
		s.translator.Translate(r.Context(), form.Title, form.Content, form.BaseLanguage).Apply(&updated)
	} else {
		for _, lang := range model.Languages {
			updated.SetText(lang, current.Text(lang))
		}
	}

	if err := s.store.UpdateNews(r.Context(), id, &updated); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	article, err := s.store.GetNews(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, article)
}

// handleDeleteNews godoc
//
//	@Summary		Delete an article
//	@Description	Remove an article. Deleting an id that does not exist is not an error.
//	@Tags			News
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		int	true	"Article ID"
//	@Success		200	{object}	map[string]any
//	@Failure		401	{object}	map[string]any
//	@Router			/api/news/{id} [delete]
func (s *Server) handleDeleteNews(w http.ResponseWriter, r *http.Request, rawID string) {
	if _, ok := s.requireAuth(w, r); !ok {
		return
	}
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid article id"))
		return
	}
	if err := s.store.DeleteNews(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": true})
}

// handleVersion godoc
//
//	@Summary		Build information
//	@Tags			Meta
//	@Produce		json
//	@Success		200	{object}	map[string]any
//	@Router			/api/version [get]
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"version":    s.cfg.Version,
		"commit":     s.cfg.Commit,
		"build_time": s.cfg.BuildTime,
	})
}

const maxUploadBytes = 10 << 20

// readArticleForm decodes the article fields from the request. Multipart
// bodies may additionally carry an image file under the "image" field.
func (s *Server) readArticleForm(r *http.Request) (articleForm, *multipart.FileHeader, error) {
	contentType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if contentType != "multipart/form-data" {
		var form articleForm
		if err := readJSON(r.Body, &form); err != nil {
			return articleForm{}, nil, fmt.Errorf("invalid request body: %w", err)
		}
		return form, nil, nil
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return articleForm{}, nil, fmt.Errorf("invalid multipart form: %w", err)
	}
	form := articleForm{
		Title:        r.FormValue("title"),
		Content:      r.FormValue("content"),
		BaseLanguage: model.Language(r.FormValue("base_language")),
		Coverage:     model.Coverage(r.FormValue("coverage")),
		Category:     r.FormValue("category"),
		ImageURL:     r.FormValue("image_url"),
		Published:    parseBool(r.FormValue("published")),
	}
	var image *multipart.FileHeader
	if files := r.MultipartForm.File["image"]; len(files) > 0 {
		image = files[0]
	}
	return form, image, nil
}

// saveImage writes an uploaded file into the upload directory under a
// random name and returns its public URL path. The original filename is
// never used on disk.
func (s *Server) saveImage(header *multipart.FileHeader) (string, error) {
	src, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	if err := os.MkdirAll(s.cfg.UploadDir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}
	name := uuid.NewString() + strings.ToLower(filepath.Ext(header.Filename))
	dst, err := os.Create(filepath.Join(s.cfg.UploadDir, name))
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, io.LimitReader(src, maxUploadBytes)); err != nil {
		return "", fmt.Errorf("write upload file: %w", err)
	}
	return "/uploads/" + name, nil
}

func (s *Server) allowRateLimit(w http.ResponseWriter, r *http.Request, action string, limit int) bool {
	if limit <= 0 {
		return true
	}
	key := fmt.Sprintf("%s:ip:%s", action, s.clientIP(r))
	if ok, retry := s.limiter.Allow(key, limit, time.Minute); !ok {
		writeRateLimit(w, retry)
		return false
	}
	return true
}

func (s *Server) requireAuth(w http.ResponseWriter, r *http.Request) (auth.Claims, bool) {
	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		writeError(w, http.StatusUnauthorized, errors.New("missing bearer token"))
		return auth.Claims{}, false
	}
	bearer := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	claims, err := s.auth.Verify(bearer)
	if err != nil {
		writeError(w, http.StatusUnauthorized, err)
		return auth.Claims{}, false
	}
	return claims, true
}

func (s *Server) clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		return strings.TrimSpace(parts[0])
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

func readJSON(body io.ReadCloser, dest any) error {
	defer body.Close()
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	return dec.Decode(dest)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]any{"error": err.Error()})
}

func writeRateLimit(w http.ResponseWriter, retry time.Duration) {
	w.Header().Set("Retry-After", strconv.Itoa(int(retry.Seconds())))
	writeJSON(w, http.StatusTooManyRequests, map[string]any{
		"error":       "rate limit exceeded",
		"retry_after": int(retry.Seconds()),
	})
}

func notFound(w http.ResponseWriter) {
	writeError(w, http.StatusNotFound, errors.New("not found"))
}

func methodNotAllowed(w http.ResponseWriter) {
	writeError(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
}

func parseBool(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "1", "yes", "on":
		return true
	}
	return false
}

func splitPath(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}
