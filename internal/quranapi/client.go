package quranapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
)

// DefaultBaseURL is the public content API endpoint.
const DefaultBaseURL = "https://api.quran.com/api/v4"

// Verse is a single verse with its text and requested translations.
type Verse struct {
	ID           int           `json:"id"`
	VerseKey     string        `json:"verse_key"`
	TextUthmani  string        `json:"text_uthmani"`
	Translations []Translation `json:"translations"`
}

// Translation is one translated rendering of a verse.
type Translation struct {
	ResourceID int    `json:"resource_id"`
	Text       string `json:"text"`
}

// Chapter describes one chapter of the index: its id, verse count and
// display name.
type Chapter struct {
	ID          int    `json:"id"`
	VersesCount int    `json:"verses_count"`
	DisplayName string `json:"name_simple"`
}

// Client fetches verse content and the chapter index.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	translationIDs []int
	wordLang       string

	mu       sync.Mutex
	chapters []Chapter // fetched once, then served from memory
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTranslations sets the translation resource ids requested per verse.
func WithTranslations(ids ...int) Option {
	return func(c *Client) { c.translationIDs = ids }
}

// WithWordLanguage sets the word-by-word language parameter.
func WithWordLanguage(lang string) Option {
	return func(c *Client) { c.wordLang = lang }
}

// New creates a client for the API at baseURL. An empty baseURL selects
// DefaultBaseURL.
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
		wordLang:   "en",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchVerseByKey fetches a verse by its "chapter:verse" key.
func (c *Client) FetchVerseByKey(ctx context.Context, key string) (*Verse, error) {
	return c.fetchVerse(ctx, "/verses/by_key/"+url.PathEscape(key))
}

// FetchVerseByID fetches a verse by its absolute sequential id.
func (c *Client) FetchVerseByID(ctx context.Context, id int) (*Verse, error) {
	return c.fetchVerse(ctx, "/verses/by_id/"+strconv.Itoa(id))
}

func (c *Client) fetchVerse(ctx context.Context, path string) (*Verse, error) {
	q := url.Values{}
	q.Set("fields", "text_uthmani")
	q.Set("language", c.wordLang)
	if len(c.translationIDs) > 0 {
		ids := make([]string, len(c.translationIDs))
		for i, id := range c.translationIDs {
			ids[i] = strconv.Itoa(id)
		}
		q.Set("translations", strings.Join(ids, ","))
	}

	var payload struct {
		Verse *Verse `json:"verse"`
	}
	if err := c.getJSON(ctx, path+"?"+q.Encode(), &payload); err != nil {
		return nil, err
	}
	if payload.Verse == nil {
		return nil, fmt.Errorf("verse missing from response for %s", path)
	}
	return payload.Verse, nil
}

// FetchChapterIndex returns all chapters. The index is immutable, so the
// first successful fetch is cached for the client's lifetime.
func (c *Client) FetchChapterIndex(ctx context.Context) ([]Chapter, error) {
	c.mu.Lock()
	cached := c.chapters
	c.mu.Unlock()
	if cached != nil {
		return cached, nil
	}

	var payload struct {
		Chapters []Chapter `json:"chapters"`
	}
	if err := c.getJSON(ctx, "/chapters?language="+url.QueryEscape(c.wordLang), &payload); err != nil {
		return nil, err
	}
	if len(payload.Chapters) == 0 {
		return nil, fmt.Errorf("chapter index is empty")
	}

	c.mu.Lock()
	c.chapters = payload.Chapters
	c.mu.Unlock()
	return payload.Chapters, nil
}

func (c *Client) getJSON(ctx context.Context, path string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected status %d for %s", resp.StatusCode, path)
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("failed to decode response for %s: %w", path, err)
	}
	return nil
}
