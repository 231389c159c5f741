// Package langdetect guesses the language of a code snippet. The HTML
// renderer uses it to supply a language class for fenced blocks whose
// fence carries no info string.
package langdetect

import (
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// candidates bounds the classifier to languages that commonly appear in
// fenced blocks; unrestricted classification over enry's full corpus is
// noisy on short snippets.
var candidates = []string{
	"Go", "Python", "Shell", "JavaScript", "TypeScript",
	"Ruby", "Rust", "Java", "C", "C++", "SQL", "JSON",
	"YAML", "HTML", "CSS", "Dockerfile",
}

// Detect returns a lowercase fence tag for the snippet, or "" when no
// confident guess exists. Callers treat "" as "emit no language".
func Detect(content string) string {
	if strings.TrimSpace(content) == "" {
		return ""
	}
	data := []byte(content)

	if lang, safe := enry.GetLanguageByShebang(data); safe {
		return normalize(lang)
	}
	if lang := detectByPattern(content); lang != "" {
		return lang
	}
	if lang, safe := enry.GetLanguageByClassifier(data, candidates); safe && lang != "" {
		return normalize(lang)
	}
	return ""
}

// detectByPattern short-circuits the classifier on near-certain markers.
// Snippets in documents are often too short for statistical detection.
func detectByPattern(content string) string {
	trimmed := strings.TrimSpace(content)

	switch {
	case strings.HasPrefix(trimmed, "package ") && strings.Contains(content, "func "):
		return "go"
	case strings.HasPrefix(trimmed, "FROM ") && strings.Contains(content, "RUN "):
		return "dockerfile"
	case strings.Contains(content, "fn main()") || strings.Contains(content, "println!"):
		return "rust"
	case strings.Contains(content, "def ") && strings.Contains(content, "):"):
		return "python"
	case hasSQLVerb(trimmed):
		return "sql"
	case (strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[")) &&
		strings.Contains(trimmed, `"`) && strings.Contains(trimmed, ":"):
		return "json"
	}
	return ""
}

func hasSQLVerb(trimmed string) bool {
	upper := strings.ToUpper(trimmed)
	for _, verb := range []string{"SELECT ", "INSERT INTO ", "UPDATE ", "DELETE FROM ", "CREATE TABLE "} {
		if strings.HasPrefix(upper, verb) {
			return true
		}
	}
	return false
}

// normalize maps enry's language names onto conventional fence tags.
func normalize(lang string) string {
	if lang == "Shell" {
		return "bash"
	}
	return strings.ToLower(lang)
}
