package catalog

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/readquiz/internal/model"
)

func newTestServer(t *testing.T, epubData []byte) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	var srv *httptest.Server
	mux.HandleFunc("/books", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("search") != "frankenstein" {
			t.Errorf("unexpected search %q", r.URL.RawQuery)
		}
		_ = json.NewEncoder(w).Encode(searchResponse{Count: 3, Results: []model.Book{
			{ID: 1, Title: "The Modern Prometheus Companion"},
			{ID: 84, Title: "Frankenstein; Or, The Modern Prometheus"},
			{ID: 345, Title: "Dracula"},
		}})
	})
	mux.HandleFunc("/books/84/", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(model.Book{
			ID:    84,
			Title: "Frankenstein; Or, The Modern Prometheus",
			Formats: map[string]string{
				"text/plain; charset=us-ascii": srv.URL + "/files/84.txt",
				"text/html":                    srv.URL + "/files/84.html",
			},
		})
	})
	mux.HandleFunc("/files/84.txt", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("License text\n*** START OF THE PROJECT GUTENBERG EBOOK 84 ***\nLetter 1\n\nYou will rejoice.\n*** END OF THE PROJECT GUTENBERG EBOOK 84 ***\nmore license"))
	})
	mux.HandleFunc("/files/84.html", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html><body><p>From html</p></body></html>"))
	})
	mux.HandleFunc("/files/84.epub", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(epubData)
	})
	srv = httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestSearchRanksByTitle(t *testing.T) {
	srv := newTestServer(t, nil)
	books, err := New(srv.URL+"/books/", time.Second).Search(context.Background(), "frankenstein")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(books) != 3 {
		t.Fatalf("expected 3 books, got %d", len(books))
	}
	if books[0].ID != 84 || books[1].ID != 1 || books[2].ID != 345 {
		t.Fatalf("unexpected order: %+v", books)
	}
}

func TestBookAndFetchPlainText(t *testing.T) {
	srv := newTestServer(t, nil)
	client := New(srv.URL+"/books", time.Second)
	ctx := context.Background()
	book, err := client.Book(ctx, 84)
	if err != nil {
		t.Fatalf("book: %v", err)
	}
	text, err := client.FetchText(ctx, book)
	if err != nil {
		t.Fatalf("fetch text: %v", err)
	}
	if text != "Letter 1\n\nYou will rejoice." {
		t.Fatalf("unexpected text %q", text)
	}
}

func TestBookNotFound(t *testing.T) {
	srv := newTestServer(t, nil)
	_, err := New(srv.URL+"/books", time.Second).Book(context.Background(), 999)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFetchTextWithoutFormats(t *testing.T) {
	_, err := New("http://127.0.0.1:0/books", time.Second).FetchText(context.Background(), model.Book{ID: 1})
	if !errors.Is(err, ErrNoText) {
		t.Fatalf("expected ErrNoText, got %v", err)
	}
}

func TestFetchEPUB(t *testing.T) {
	srv := newTestServer(t, buildEPUB(t))
	book := model.Book{ID: 84, Formats: map[string]string{"application/epub+zip": srv.URL + "/files/84.epub"}}
	text, err := New(srv.URL+"/books", time.Second).FetchText(context.Background(), book)
	if err != nil {
		t.Fatalf("fetch epub: %v", err)
	}
	if text != "Chapter One\n\nIt was a dreary night.\n\nChapter Two" {
		t.Fatalf("unexpected epub text %q", text)
	}
}

func TestTextURLPriority(t *testing.T) {
	tests := []struct {
		name     string
		formats  map[string]string
		wantMime string
	}{
		{name: "bare plain first", formats: map[string]string{
			"text/plain; charset=utf-8": "a.txt", "text/plain": "b.txt", "text/html": "c.html",
		}, wantMime: "text/plain"},
		{name: "plain variant before html", formats: map[string]string{
			"text/plain; charset=utf-8": "a.txt", "text/html": "c.html",
		}, wantMime: "text/plain; charset=utf-8"},
		{name: "html before epub", formats: map[string]string{
			"application/epub+zip": "d.epub", "text/html; charset=utf-8": "c.html",
		}, wantMime: "text/html; charset=utf-8"},
		{name: "epub last", formats: map[string]string{
			"application/epub+zip": "d.epub", "image/jpeg": "cover.jpg",
		}, wantMime: "application/epub+zip"},
		{name: "zipped text skipped", formats: map[string]string{
			"text/plain; charset=us-ascii": "a.zip", "text/html": "c.html",
		}, wantMime: "text/html"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mime, _, ok := TextURL(model.Book{Formats: tt.formats})
			if !ok || mime != tt.wantMime {
				t.Fatalf("TextURL = %q %v, want %q", mime, ok, tt.wantMime)
			}
		})
	}
	if HasText(model.Book{Formats: map[string]string{"image/jpeg": "x.jpg"}}) {
		t.Fatalf("image-only book must have no text")
	}
}

func TestHTMLToText(t *testing.T) {
	doc := `<html><head><title>Skip</title><style>p{color:red}</style></head>
<body><h1>Title</h1>
<p>First  para
 text with <em>emphasis</em>.</p>
<p>Second<br>line</p><script>alert(1)</script></body></html>`
	text, err := HTMLToText(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("html to text: %v", err)
	}
	want := "Title\n\nFirst para text with emphasis.\n\nSecond\nline"
	if text != want {
		t.Fatalf("unexpected text %q, want %q", text, want)
	}
}

func TestStripBoilerplateWithoutMarkers(t *testing.T) {
	if got := StripBoilerplate("\ufeff  Plain text.  "); got != "Plain text." {
		t.Fatalf("unexpected %q", got)
	}
}

func buildEPUB(t *testing.T) []byte {
	t.Helper()
	files := []struct{ name, body string }{
		{"mimetype", "application/epub+zip"},
		{"META-INF/container.xml", `<?xml version="1.0"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles>
    <rootfile full-path="OEBPS/content.opf" media-type="application/oebps-package+xml"/>
  </rootfiles>
</container>`},
		{"OEBPS/content.opf", `<?xml version="1.0"?>
<package xmlns="http://www.idpf.org/2007/opf" version="2.0" unique-identifier="id">
  <metadata xmlns:dc="http://purl.org/dc/elements/1.1/">
    <dc:title>Test</dc:title>
    <dc:identifier id="id">test</dc:identifier>
  </metadata>
  <manifest>
    <item id="ncx" href="toc.ncx" media-type="application/x-dtbncx+xml"/>
    <item id="c1" href="ch1.xhtml" media-type="application/xhtml+xml"/>
    <item id="c2" href="ch2.xhtml" media-type="application/xhtml+xml"/>
  </manifest>
  <spine toc="ncx">
    <itemref idref="c1"/>
    <itemref idref="c2"/>
  </spine>
</package>`},
		{"OEBPS/toc.ncx", `<?xml version="1.0"?>
<ncx xmlns="http://www.daisy.org/z3986/2005/ncx/" version="2005-1"><navMap/></ncx>`},
		{"OEBPS/ch1.xhtml", `<html><body><h2>Chapter One</h2><p>It was a dreary night.</p></body></html>`},
		{"OEBPS/ch2.xhtml", `<html><body><h2>Chapter Two</h2></body></html>`},
	}
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, f := range files {
		w, err := zw.Create(f.name)
		if err != nil {
			t.Fatalf("zip create: %v", err)
		}
		if _, err := w.Write([]byte(f.body)); err != nil {
			t.Fatalf("zip write: %v", err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	return buf.Bytes()
}
