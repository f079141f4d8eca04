package catalog

import (
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/taylorskalyo/goreader/epub"
	"golang.org/x/net/html"
)

var skipTags = map[string]bool{
	"head": true, "script": true, "style": true, "noscript": true, "template": true,
}

var blockTags = map[string]bool{
	"p": true, "div": true, "section": true, "article": true, "blockquote": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"li": true, "ul": true, "ol": true, "pre": true, "tr": true, "table": true,
	"hr": true, "body": true,
}

// HTMLToText reduces an HTML document to paragraphs separated by blank lines.
// Block elements end a paragraph and <br> ends a line.
func HTMLToText(r io.Reader) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		block := false
		switch n.Type {
		case html.ElementNode:
			if skipTags[n.Data] {
				return
			}
			if n.Data == "br" {
				b.WriteString("\n")
			}
			block = blockTags[n.Data]
		case html.TextNode:
			b.WriteString(collapseSpace(n.Data))
		}
		if block {
			b.WriteString("\n\n")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if block {
			b.WriteString("\n\n")
		}
	}
	walk(doc)
	return normalizeParagraphs(b.String()), nil
}

// EPUBToText stores an EPUB stream in a temporary file and extracts its spine.
func EPUBToText(r io.Reader) (string, error) {
	f, err := os.CreateTemp("", "readquiz-*.epub")
	if err != nil {
		return "", err
	}
	defer func() {
		if rerr := os.Remove(f.Name()); rerr != nil {
			// Best-effort temp cleanup.
			_ = rerr
		}
	}()
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return ExtractEPUB(f.Name())
}

// ExtractEPUB returns the text of every spine document of the first rootfile.
func ExtractEPUB(path string) (string, error) {
	rc, err := epub.OpenReader(path)
	if err != nil {
		return "", errors.Wrap(err, "open epub")
	}
	defer rc.Close()
	if len(rc.Rootfiles) == 0 {
		return "", errors.New("epub has no rootfiles")
	}

	var chapters []string
	for _, ref := range rc.Rootfiles[0].Spine.Itemrefs {
		if ref.Item == nil {
			continue
		}
		doc, err := ref.Item.Open()
		if err != nil {
			return "", errors.Wrapf(err, "open %s", ref.Item.HREF)
		}
		text, err := HTMLToText(doc)
		_ = doc.Close()
		if err != nil {
			return "", errors.Wrapf(err, "parse %s", ref.Item.HREF)
		}
		if text != "" {
			chapters = append(chapters, text)
		}
	}
	if len(chapters) == 0 {
		return "", ErrNoText
	}
	return strings.Join(chapters, "\n\n"), nil
}

const (
	startMarker = "*** START OF"
	endMarker   = "*** END OF"
)

// StripBoilerplate drops the Project Gutenberg license header and footer when
// the standard markers are present.
func StripBoilerplate(text string) string {
	text = strings.TrimPrefix(text, "\ufeff")
	if i := strings.Index(text, startMarker); i >= 0 {
		if nl := strings.IndexByte(text[i:], '\n'); nl >= 0 {
			text = text[i+nl+1:]
		}
	}
	if i := strings.Index(text, endMarker); i >= 0 {
		text = text[:i]
	}
	return strings.TrimSpace(text)
}

func collapseSpace(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		if s != "" {
			return " "
		}
		return ""
	}
	out := strings.Join(fields, " ")
	if isSpace(s[0]) {
		out = " " + out
	}
	if isSpace(s[len(s)-1]) {
		out += " "
	}
	return out
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\n' || c == '\t' || c == '\r' || c == '\f'
}

func normalizeParagraphs(s string) string {
	var paragraphs []string
	for _, chunk := range strings.Split(s, "\n\n") {
		var lines []string
		for _, line := range strings.Split(chunk, "\n") {
			if line = strings.Join(strings.Fields(line), " "); line != "" {
				lines = append(lines, line)
			}
		}
		if len(lines) > 0 {
			paragraphs = append(paragraphs, strings.Join(lines, "\n"))
		}
	}
	return strings.Join(paragraphs, "\n\n")
}
