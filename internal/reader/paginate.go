// Package reader splits book text into pages and drives a reading session.
package reader

import (
	"strings"
	"unicode/utf8"
)

const (
	// DefaultPageSize is the page size used when a non-positive size is requested.
	DefaultPageSize = 1500
	// NoContentPage is returned as the only page when the text has no paragraphs.
	NoContentPage = "No content available"

	paragraphSep = "\n\n"
	sentenceSep  = ". "
)

// Paginate splits text into pages of roughly maxPageSize characters.
// Paragraphs are packed greedily; a paragraph longer than maxPageSize is split
// on sentence boundaries and its groups are emitted directly, so pages on that
// path may exceed maxPageSize.
func Paginate(text string, maxPageSize int) []string {
	if maxPageSize <= 0 {
		maxPageSize = DefaultPageSize
	}
	var pages []string
	current := ""

	for _, paragraph := range Paragraphs(text) {
		if runeLen(paragraph) > maxPageSize {
			group := ""
			for _, sentence := range strings.Split(paragraph, sentenceSep) {
				candidate := sentence
				if group != "" {
					candidate = group + sentenceSep + sentence
				}
				if runeLen(candidate)+runeLen(current) < maxPageSize {
					group = candidate
					continue
				}
				if current != "" {
					pages = append(pages, current)
					current = ""
				}
				pages = append(pages, candidate)
				group = ""
			}
			current += group
			continue
		}

		switch {
		case current == "":
			current = paragraph
		case runeLen(current)+runeLen(paragraph)+len(paragraphSep) < maxPageSize:
			current += paragraphSep + paragraph
		default:
			pages = append(pages, current)
			current = paragraph
		}
	}

	if current != "" {
		pages = append(pages, current)
	}
	if len(pages) == 0 {
		return []string{NoContentPage}
	}
	return pages
}

// Paragraphs normalizes line breaks and returns the trimmed, non-empty paragraphs.
func Paragraphs(text string) []string {
	normalized := strings.ReplaceAll(text, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")
	raw := strings.Split(normalized, paragraphSep)
	out := make([]string, 0, len(raw))
	for _, p := range raw {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

// WordCount counts whitespace-separated words.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
