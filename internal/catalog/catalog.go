// Package catalog fetches books and their text from a Gutendex-compatible
// Project Gutenberg catalog.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/verte-zerg/readquiz/internal/log"
	"github.com/verte-zerg/readquiz/internal/model"
)

// DefaultBaseURL is the public Gutendex books endpoint.
const DefaultBaseURL = "https://gutendex.com/books"

// DefaultTimeout bounds a single catalog request.
const DefaultTimeout = 30 * time.Second

const maxBodyBytes = 64 << 20

var (
	// ErrNotFound is returned when the catalog has no such book.
	ErrNotFound = errors.New("book not found")
	// ErrNoText is returned when a book offers no readable format.
	ErrNoText = errors.New("book has no readable text format")
)

// BookSource looks up books and downloads their text.
type BookSource interface {
	Search(ctx context.Context, query string) ([]model.Book, error)
	Book(ctx context.Context, id int) (model.Book, error)
	FetchText(ctx context.Context, book model.Book) (string, error)
}

// Client talks to a Gutendex-compatible HTTP API.
type Client struct {
	baseURL string
	http    *http.Client
}

type searchResponse struct {
	Count   int          `json:"count"`
	Next    *string      `json:"next"`
	Results []model.Book `json:"results"`
}

// New creates a client. Empty baseURL and non-positive timeout use the defaults.
func New(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// Search queries the catalog and orders the results by how closely their
// titles match query.
func (c *Client) Search(ctx context.Context, query string) ([]model.Book, error) {
	endpoint := c.baseURL
	if q := strings.TrimSpace(query); q != "" {
		endpoint += "?search=" + url.QueryEscape(q)
	}
	var resp searchResponse
	if err := c.getJSON(ctx, endpoint, &resp); err != nil {
		return nil, errors.Wrapf(err, "search %q", query)
	}
	log.Debug("catalog search", zap.String("query", query), zap.Int("results", len(resp.Results)))
	return RankByTitle(query, resp.Results), nil
}

// Book fetches a single catalog entry.
func (c *Client) Book(ctx context.Context, id int) (model.Book, error) {
	var book model.Book
	if err := c.getJSON(ctx, fmt.Sprintf("%s/%d/", c.baseURL, id), &book); err != nil {
		return model.Book{}, errors.Wrapf(err, "book %d", id)
	}
	return book, nil
}

// FetchText downloads the best available format of book and returns plain text.
func (c *Client) FetchText(ctx context.Context, book model.Book) (string, error) {
	mime, link, ok := TextURL(book)
	if !ok {
		return "", ErrNoText
	}
	body, err := c.get(ctx, link)
	if err != nil {
		return "", errors.Wrapf(err, "download %s", link)
	}
	defer func() {
		if cerr := body.Close(); cerr != nil {
			// Best-effort body close.
			_ = cerr
		}
	}()
	log.Info("downloading book", zap.Int("book_id", book.ID), zap.String("format", mime))

	r := io.LimitReader(body, maxBodyBytes)
	switch {
	case strings.HasPrefix(mime, "text/plain"):
		data, err := io.ReadAll(r)
		if err != nil {
			return "", errors.Wrap(err, "read text")
		}
		return StripBoilerplate(string(data)), nil
	case strings.HasPrefix(mime, "text/html"):
		text, err := HTMLToText(r)
		if err != nil {
			return "", errors.Wrap(err, "parse html")
		}
		return text, nil
	default:
		text, err := EPUBToText(r)
		if err != nil {
			return "", errors.Wrap(err, "extract epub")
		}
		return text, nil
	}
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	body, err := c.get(ctx, endpoint)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := body.Close(); cerr != nil {
			// Best-effort body close.
			_ = cerr
		}
	}()
	if err := json.NewDecoder(io.LimitReader(body, maxBodyBytes)).Decode(out); err != nil {
		return errors.Wrap(err, "decode response")
	}
	return nil
}

func (c *Client) get(ctx context.Context, endpoint string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "readquiz")
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusNotFound {
		_ = resp.Body.Close()
		return nil, ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return resp.Body, nil
}
