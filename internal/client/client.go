// Package client provides a Go client for the Newsdesk API.
package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"newsdesk/internal/model"
)

// Client is a Newsdesk API client.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Token      string
}

// New creates a new Newsdesk client.
func New(baseURL string) *Client {
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Errors
var (
	ErrAlreadyRegistered  = errors.New("already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotFound           = errors.New("not found")
)

// Register creates the reporter account. The server only accepts the first
// registration per deployment.
func (c *Client) Register(username, email, password string) (*model.Reporter, error) {
	reqBody := map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	}
	resp, err := c.doRequest(http.MethodPost, "/api/auth/register", reqBody)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusCreated {
		if bytes.Contains(respBody, []byte("already registered")) {
			return nil, ErrAlreadyRegistered
		}
		return nil, fmt.Errorf("register failed (%d): %s", resp.StatusCode, string(respBody))
	}

	var reporter model.Reporter
	if err := json.Unmarshal(respBody, &reporter); err != nil {
		return nil, err
	}
	return &reporter, nil
}

// Login exchanges credentials for a bearer token and stores it on the
// client for subsequent requests.
func (c *Client) Login(email, password string) error {
	reqBody := map[string]string{"email": email, "password": password}
	resp, err := c.doRequest(http.MethodPost, "/api/auth/login", reqBody)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrInvalidCredentials
	}
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("login failed (%d): %s", resp.StatusCode, string(respBody))
	}

	var result struct {
		Token    string         `json:"token"`
		Reporter model.Reporter `json:"reporter"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return err
	}
	c.Token = result.Token
	return nil
}

// IsAuthenticated returns true if the client holds a token.
func (c *Client) IsAuthenticated() bool {
	return c.Token != ""
}

// NewsDraft holds the writable article fields sent on create and update.
// Image is an optional upload; ImageURL keeps an already-stored image.
type NewsDraft struct {
	Title        string
	Content      string
	BaseLanguage model.Language
	Coverage     model.Coverage
	Category     string
	Published    bool
	ImageURL     string
	ImageName    string
	Image        []byte
}

// CreateNews publishes a new article. The server translates the draft into
// the other two languages before storing it.
func (c *Client) CreateNews(draft NewsDraft) (*model.Article, error) {
	resp, err := c.doMultipart(http.MethodPost, "/api/news", draft)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("create news failed (%d): %s", resp.StatusCode, string(body))
	}

	var article model.Article
	if err := json.NewDecoder(resp.Body).Decode(&article); err != nil {
		return nil, err
	}
	return &article, nil
}

// UpdateNews overwrites an existing article.
func (c *Client) UpdateNews(id int64, draft NewsDraft) (*model.Article, error) {
	resp, err := c.doMultipart(http.MethodPut, fmt.Sprintf("/api/news/%d", id), draft)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("update news failed (%d): %s", resp.StatusCode, string(body))
	}

	var article model.Article
	if err := json.NewDecoder(resp.Body).Decode(&article); err != nil {
		return nil, err
	}
	return &article, nil
}

// DeleteNews removes an article. The server treats a missing id as already
// deleted, so this never fails for unknown ids.
func (c *Client) DeleteNews(id int64) error {
	resp, err := c.doRequest(http.MethodDelete, fmt.Sprintf("/api/news/%d", id), nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("delete news failed (%d): %s", resp.StatusCode, string(body))
	}
	return nil
}

// ListNews fetches published articles, optionally filtered by coverage and
// a title search term.
func (c *Client) ListNews(coverage model.Coverage, search string) ([]model.Article, error) {
	query := url.Values{}
	if coverage != "" {
		query.Set("coverage", string(coverage))
	}
	if search != "" {
		query.Set("search", search)
	}
	path := "/api/news"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}
	return c.getArticles(path)
}

// ListAllNews fetches every article including drafts. Requires a token.
func (c *Client) ListAllNews() ([]model.Article, error) {
	return c.getArticles("/api/admin/news")
}

func (c *Client) getArticles(path string) ([]model.Article, error) {
	resp, err := c.doRequest(http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("list news failed (%d): %s", resp.StatusCode, string(body))
	}

	var articles []model.Article
	if err := json.NewDecoder(resp.Body).Decode(&articles); err != nil {
		return nil, err
	}
	return articles, nil
}

// GetNews fetches a single article by id.
func (c *Client) GetNews(id int64) (*model.Article, error) {
	resp, err := c.doRequest(http.MethodGet, fmt.Sprintf("/api/news/%d", id), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("get news failed (%d): %s", resp.StatusCode, string(body))
	}

	var article model.Article
	if err := json.NewDecoder(resp.Body).Decode(&article); err != nil {
		return nil, err
	}
	return &article, nil
}

// Version fetches the server build information.
func (c *Client) Version() (map[string]any, error) {
	resp, err := c.doRequest(http.MethodGet, "/api/version", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var result map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}
	return result, nil
}

// doRequest performs a JSON HTTP request with the bearer token attached.
func (c *Client) doRequest(method, path string, body any) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequest(method, c.BaseURL+path, bodyReader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	return c.HTTPClient.Do(req)
}

// doMultipart sends the draft as a multipart form, attaching the image
// file when present.
func (c *Client) doMultipart(method, path string, draft NewsDraft) (*http.Response, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	fields := map[string]string{
		"title":         draft.Title,
		"content":       draft.Content,
		"base_language": string(draft.BaseLanguage),
		"coverage":      string(draft.Coverage),
		"category":      draft.Category,
		"published":     strconv.FormatBool(draft.Published),
	}
	if draft.ImageURL != "" {
		fields["image_url"] = draft.ImageURL
	}
	for key, value := range fields {
		if err := mw.WriteField(key, value); err != nil {
			return nil, err
		}
	}
	if len(draft.Image) > 0 {
		name := draft.ImageName
		if name == "" {
			name = "image"
		}
		part, err := mw.CreateFormFile("image", name)
		if err != nil {
			return nil, err
		}
		if _, err := part.Write(draft.Image); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequest(method, c.BaseURL+path, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	return c.HTTPClient.Do(req)
}

// TestHelper provides utilities for creating authenticated clients in tests.
type TestHelper struct {
	BaseURL string
}

// NewTestHelper creates a new test helper for the given base URL.
func NewTestHelper(baseURL string) *TestHelper {
	return &TestHelper{BaseURL: baseURL}
}

// RegisterAndLogin registers the reporter (unless one already exists) and
// returns a logged-in client.
func (h *TestHelper) RegisterAndLogin(username, email, password string) (*Client, error) {
	c := New(h.BaseURL)
	if _, err := c.Register(username, email, password); err != nil && !errors.Is(err, ErrAlreadyRegistered) {
		return nil, fmt.Errorf("register: %w", err)
	}
	if err := c.Login(email, password); err != nil {
		return nil, err
	}
	return c, nil
}

// GetToken registers and logs in, returning just the token string.
func (h *TestHelper) GetToken(username, email, password string) (string, error) {
	c, err := h.RegisterAndLogin(username, email, password)
	if err != nil {
		return "", err
	}
	return c.Token, nil
}
