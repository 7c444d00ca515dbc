package covers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultSearchURL is an image search endpoint; %s receives the escaped query.
const DefaultSearchURL = "https://duckduckgo.com/?q=%s&iax=images&ia=images&format=json"

// ErrNoImage means the search returned no usable image.
var ErrNoImage = errors.New("no image found")

// HTTPDoer is satisfied by *http.Client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Searcher resolves a game title to a cover image URL.
type Searcher struct {
	client    HTTPDoer
	urlFormat string
	userAgent string
}

// NewSearcher returns a Searcher. An empty urlFormat uses DefaultSearchURL.
func NewSearcher(client HTTPDoer, urlFormat string) *Searcher {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	if urlFormat == "" {
		urlFormat = DefaultSearchURL
	}
	return &Searcher{
		client:    client,
		urlFormat: urlFormat,
		userAgent: "Mozilla/5.0 (compatible; dekugames-covers/1.0)",
	}
}

// Query builds the search phrase for a title.
func Query(title string) string {
	return title + " nintendo switch game cover front"
}

type searchResponse struct {
	ImageResults []struct {
		Image string `json:"Image"`
	} `json:"ImageResults"`
	Results []struct {
		Image string `json:"image"`
	} `json:"results"`
}

// Search returns the first image URL for title.
func (s *Searcher) Search(ctx context.Context, title string) (string, error) {
	endpoint := fmt.Sprintf(s.urlFormat, url.QueryEscape(Query(title)))

	body, err := s.get(ctx, endpoint)
	if err != nil {
		return "", fmt.Errorf("search %q: %w", title, err)
	}
	defer body.Close()

	var resp searchResponse
	if err := json.NewDecoder(io.LimitReader(body, 4<<20)).Decode(&resp); err != nil {
		return "", fmt.Errorf("decode search response for %q: %w", title, err)
	}
	if len(resp.ImageResults) > 0 && resp.ImageResults[0].Image != "" {
		return resp.ImageResults[0].Image, nil
	}
	if len(resp.Results) > 0 && resp.Results[0].Image != "" {
		return resp.Results[0].Image, nil
	}
	return "", fmt.Errorf("%q: %w", title, ErrNoImage)
}

// Fetch downloads the image at imageURL. The caller closes the reader.
func (s *Searcher) Fetch(ctx context.Context, imageURL string) (io.ReadCloser, error) {
	body, err := s.get(ctx, imageURL)
	if err != nil {
		return nil, fmt.Errorf("fetch image: %w", err)
	}
	return body, nil
}

func (s *Searcher) get(ctx context.Context, target string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, strings.SplitN(target, "?", 2)[0])
	}
	return resp.Body, nil
}
