// Package translate fills in the missing-language renditions of an article
// by calling an external text-generation service. Translation is
// best-effort enrichment: a provider outage degrades the copy, it never
// blocks the write.
package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"newsdesk/internal/model"
)

// TextGenerator produces raw model output for a prompt. Implementations
// should return the text body only; parsing is the orchestrator's job.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Translation is one language's title/content pair together with how it
// was obtained. Fallback means the original, untranslated text was
// substituted because the provider call failed or returned output that
// could not be parsed.
type Translation struct {
	model.LocalizedText
	Fallback bool
}

// Set holds a translation for every supported language.
type Set map[model.Language]Translation

// Apply copies the set's text pairs onto the article.
func (set Set) Apply(article *model.Article) {
	for lang, tr := range set {
		article.SetText(lang, tr.LocalizedText)
	}
}

type Service struct {
	gen         TextGenerator
	log         *slog.Logger
	callTimeout time.Duration
}

// NewService builds the orchestrator. gen may be nil when no provider
// credential is configured; every target language then falls back to the
// original text.
func NewService(gen TextGenerator, log *slog.Logger) *Service {
	return &Service{gen: gen, log: log, callTimeout: 15 * time.Second}
}

// Translate produces title/content pairs for all supported languages. The
// base language is seeded verbatim; each remaining language is requested
// from the provider independently, so one language's failure never
// contaminates another's result.
func (s *Service) Translate(ctx context.Context, title, content string, base model.Language) Set {
	set := Set{base: Translation{LocalizedText: model.LocalizedText{Title: title, Content: content}}}

	if s.gen == nil {
		s.log.Warn("translation service not configured, storing original text for all languages")
		for _, lang := range model.Languages {
			if lang == base {
				continue
			}
			set[lang] = fallback(title, content)
		}
		return set
	}

	for _, lang := range model.Languages {
		if lang == base {
			continue
		}
		set[lang] = s.translateOne(ctx, title, content, lang)
	}
	return set
}

func (s *Service) translateOne(ctx context.Context, title, content string, target model.Language) Translation {
	ctx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	raw, err := s.gen.Generate(ctx, buildPrompt(title, content, target))
	if err != nil {
		s.log.Warn("translation call failed, falling back to original text",
			"language", string(target), "error", err)
		return fallback(title, content)
	}

	parsed, err := parseTranslation(raw)
	if err != nil {
		s.log.Warn("translation response unparseable, falling back to original text",
			"language", string(target), "error", err)
		return fallback(title, content)
	}
	// The provider occasionally omits a field; substitute the original
	// per field rather than discarding the whole response.
	if parsed.Title == "" {
		parsed.Title = title
	}
	if parsed.Content == "" {
		parsed.Content = content
	}
	return Translation{LocalizedText: parsed}
}

func buildPrompt(title, content string, target model.Language) string {
	return fmt.Sprintf(`Translate the following news title and content into %s.
Return the translation in JSON format with keys "title" and "content".

Title: %s
Content: %s`, target.DisplayName(), title, content)
}

func parseTranslation(raw string) (model.LocalizedText, error) {
	raw = strings.TrimSpace(raw)
	// Some models wrap JSON output in a markdown fence even when asked
	// for a JSON response.
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")

	var text model.LocalizedText
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &text); err != nil {
		return model.LocalizedText{}, fmt.Errorf("decode translation: %w", err)
	}
	return text, nil
}

func fallback(title, content string) Translation {
	return Translation{
		LocalizedText: model.LocalizedText{Title: title, Content: content},
		Fallback:      true,
	}
}
