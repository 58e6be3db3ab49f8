// ABOUTME: Lesson data model and loader
// ABOUTME: Reads articles from JSON and matches vocabulary inside segment text
package lesson

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// ErrNoArticles means a lesson file held no articles
var ErrNoArticles = errors.New("lesson file contains no articles")

// VocabularyItem is a key word with an optional pronunciation clip
type VocabularyItem struct {
	ID         string `json:"id"`
	Word       string `json:"word"`
	Definition string `json:"definition"`
	AudioData  string `json:"audioData,omitempty"`
}

// HasAudio reports whether the item is playable
func (v VocabularyItem) HasAudio() bool { return strings.TrimSpace(v.AudioData) != "" }

// Segment is one sentence of an article
type Segment struct {
	ID          string `json:"id"`
	Text        string `json:"text"`
	Translation string `json:"translation,omitempty"`
	AudioData   string `json:"audioData,omitempty"`
}

// HasAudio reports whether the segment is playable
func (s Segment) HasAudio() bool { return strings.TrimSpace(s.AudioData) != "" }

// Article is one lesson
type Article struct {
	ID            string           `json:"id"`
	Title         string           `json:"title"`
	Author        string           `json:"author"`
	Segments      []Segment        `json:"segments"`
	KeyVocabulary []VocabularyItem `json:"keyVocabulary"`
	Tags          []string         `json:"tags,omitempty"`
	CreatedAt     int64            `json:"createdAt"` // unix milliseconds
	ViewCount     int              `json:"viewCount"`
	IsPublished   bool             `json:"isPublished"`
	CoverImage    string           `json:"coverImage,omitempty"`
}

// Created returns CreatedAt as a time
func (a *Article) Created() time.Time { return time.UnixMilli(a.CreatedAt) }

// Segment looks up a segment by id
func (a *Article) Segment(id string) (Segment, bool) {
	for _, s := range a.Segments {
		if s.ID == id {
			return s, true
		}
	}
	return Segment{}, false
}

// Vocabulary looks up a vocabulary item by id
func (a *Article) Vocabulary(id string) (VocabularyItem, bool) {
	for _, v := range a.KeyVocabulary {
		if v.ID == id {
			return v, true
		}
	}
	return VocabularyItem{}, false
}

// FindVocabulary returns the vocabulary items occurring in text, longest
// word first, matched case-insensitively on word boundaries. Text covered by
// a longer match is not matched again by a shorter word.
func (a *Article) FindVocabulary(text string) []VocabularyItem {
	sorted := slices.Clone(a.KeyVocabulary)
	slices.SortStableFunc(sorted, func(x, y VocabularyItem) int {
		return utf8.RuneCountInString(y.Word) - utf8.RuneCountInString(x.Word)
	})

	lower := strings.ToLower(text)
	covered := make([]bool, len(lower))
	var found []VocabularyItem

	for _, item := range sorted {
		word := strings.ToLower(strings.TrimSpace(item.Word))
		if word == "" {
			continue
		}
		for start := 0; start < len(lower); {
			i := strings.Index(lower[start:], word)
			if i < 0 {
				break
			}
			i += start
			end := i + len(word)
			if wordBoundary(lower, i, end) && !slices.Contains(covered[i:end], true) {
				for j := i; j < end; j++ {
					covered[j] = true
				}
				found = append(found, item)
				break
			}
			start = i + 1
		}
	}
	return found
}

func wordBoundary(s string, start, end int) bool {
	if start > 0 {
		r, _ := utf8.DecodeLastRuneInString(s[:start])
		if isWordRune(r) {
			return false
		}
	}
	if end < len(s) {
		r, _ := utf8.DecodeRuneInString(s[end:])
		if isWordRune(r) {
			return false
		}
	}
	return true
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '\''
}

// Load reads a lesson file holding either one article or an array of them
func Load(path string) ([]Article, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read lesson: %w", err)
	}
	return Parse(data)
}

// Parse decodes one article or an array of articles
func Parse(data []byte) ([]Article, error) {
	trimmed := bytes.TrimSpace(data)

	var articles []Article
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &articles); err != nil {
			return nil, fmt.Errorf("failed to parse lesson: %w", err)
		}
	} else {
		var a Article
		if err := json.Unmarshal(trimmed, &a); err != nil {
			return nil, fmt.Errorf("failed to parse lesson: %w", err)
		}
		articles = []Article{a}
	}

	if len(articles) == 0 {
		return nil, ErrNoArticles
	}
	return articles, nil
}
