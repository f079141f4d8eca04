package catalog

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/verte-zerg/readquiz/internal/model"
)

// Format prefixes in order of preference.
var formatPriority = []string{"text/plain", "text/html", "application/epub+zip"}

// TextURL picks the download link for the most readable format of book:
// plain text (the bare "text/plain" key before charset variants), then HTML,
// then EPUB. Keys sharing a prefix are tried in lexical order and zipped
// downloads are skipped.
func TextURL(book model.Book) (mime, link string, ok bool) {
	if link := book.Formats["text/plain"]; usable(link) {
		return "text/plain", link, true
	}
	keys := make([]string, 0, len(book.Formats))
	for k := range book.Formats {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, prefix := range formatPriority {
		for _, k := range keys {
			if strings.HasPrefix(k, prefix) && usable(book.Formats[k]) {
				return k, book.Formats[k], true
			}
		}
	}
	return "", "", false
}

func usable(link string) bool {
	return link != "" && !strings.HasSuffix(link, ".zip")
}

// HasText reports whether book offers a readable format.
func HasText(book model.Book) bool {
	_, _, ok := TextURL(book)
	return ok
}

// RankByTitle moves books whose titles fuzzily contain query to the front,
// closest first. The rest keep their catalog order.
func RankByTitle(query string, books []model.Book) []model.Book {
	query = strings.TrimSpace(query)
	if query == "" || len(books) < 2 {
		return books
	}
	titles := make([]string, len(books))
	for i, b := range books {
		titles[i] = b.Title
	}
	ranks := fuzzy.RankFindFold(query, titles)
	sort.Stable(ranks)

	out := make([]model.Book, 0, len(books))
	seen := make(map[int]bool, len(ranks))
	for _, r := range ranks {
		out = append(out, books[r.OriginalIndex])
		seen[r.OriginalIndex] = true
	}
	for i, b := range books {
		if !seen[i] {
			out = append(out, b)
		}
	}
	return out
}
