package model

import "time"

// Language is one of the three languages an article is published in.
type Language string

const (
	LangEnglish Language = "en"
	LangHindi   Language = "hi"
	LangMarathi Language = "mr"
)

// Languages lists all supported languages in schema column order.
var Languages = []Language{LangEnglish, LangHindi, LangMarathi}

func (l Language) Valid() bool {
	switch l {
	case LangEnglish, LangHindi, LangMarathi:
		return true
	}
	return false
}

// DisplayName returns the English name of the language, used when
// instructing the translation service.
func (l Language) DisplayName() string {
	switch l {
	case LangHindi:
		return "Hindi"
	case LangMarathi:
		return "Marathi"
	default:
		return "English"
	}
}

// Coverage is the geographic scope tag on an article.
type Coverage string

const (
	CoverageLocal         Coverage = "local"
	CoverageNational      Coverage = "national"
	CoverageInternational Coverage = "international"
)

func (c Coverage) Valid() bool {
	switch c {
	case CoverageLocal, CoverageNational, CoverageInternational:
		return true
	}
	return false
}

// Reporter is the single account allowed to publish articles.
// PasswordHash is never serialized.
type Reporter struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// LocalizedText is one language's title/content pair.
type LocalizedText struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Article is a news record carrying all three language renditions.
type Article struct {
	ID           int64    `json:"id"`
	BaseLanguage Language `json:"base_language"`
	TitleEN      string   `json:"title_en"`
	TitleHI      string   `json:"title_hi"`
	TitleMR      string   `json:"title_mr"`
	ContentEN    string   `json:"content_en"`
	ContentHI    string   `json:"content_hi"`
	ContentMR    string   `json:"content_mr"`
	Coverage     Coverage `json:"coverage"`
	Category     string   `json:"category"`
	ImageURL     string   `json:"image_url,omitempty"`
	Published    bool     `json:"published"`
	ReporterID   int64    `json:"reporter_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Text returns the title/content pair for the given language. The mapping
// is a fixed switch so the three supported languages stay checked at
// compile time instead of being assembled from column-name strings.
func (a *Article) Text(lang Language) LocalizedText {
	switch lang {
	case LangHindi:
		return LocalizedText{Title: a.TitleHI, Content: a.ContentHI}
	case LangMarathi:
		return LocalizedText{Title: a.TitleMR, Content: a.ContentMR}
	default:
		return LocalizedText{Title: a.TitleEN, Content: a.ContentEN}
	}
}

// SetText stores the title/content pair for the given language.
func (a *Article) SetText(lang Language, text LocalizedText) {
	switch lang {
	case LangHindi:
		a.TitleHI = text.Title
		a.ContentHI = text.Content
	case LangMarathi:
		a.TitleMR = text.Title
		a.ContentMR = text.Content
	default:
		a.TitleEN = text.Title
		a.ContentEN = text.Content
	}
}
