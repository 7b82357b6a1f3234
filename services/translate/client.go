// Package translate calls the remote translation endpoint. Best effort: any
// failure surfaces as a user-visible notice and a per-card placeholder, fully
// recoverable by retrying the action.
package translate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"
)

// FailurePlaceholder fills the translation slot of a card whose request
// failed.
const FailurePlaceholder = "翻译失败，请重试"

// NoticeFailed is the transient message shown when a translation fails.
const NoticeFailed = "翻译失败，请稍后重试 ❌"

var (
	ErrEmptyText   = errors.New("text to translate is empty")
	ErrBadResponse = errors.New("unexpected translation response shape")
)

// Client performs the translation GET request.
type Client struct {
	endpoint   string
	sourceLang string
	targetLang string
	httpc      *http.Client
}

// NewClient builds a client for the given endpoint and language pair; a nil
// http.Client gets a sensible timeout.
func NewClient(endpoint, sourceLang, targetLang string, httpc *http.Client) *Client {
	if httpc == nil {
		httpc = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		endpoint:   endpoint,
		sourceLang: sourceLang,
		targetLang: targetLang,
		httpc:      httpc,
	}
}

// Translate requests a translation of text. The context cancels the request;
// transient transport failures are retried with backoff before giving up.
func (c *Client) Translate(ctx context.Context, text string) (string, error) {
	if text == "" {
		return "", ErrEmptyText
	}

	endpoint := fmt.Sprintf("%s?client=gtx&sl=%s&tl=%s&dt=t&q=%s",
		c.endpoint, c.sourceLang, c.targetLang, url.QueryEscape(text))

	var translated string
	err := retry.Do(
		func() error {
			var err error
			translated, err = c.fetch(ctx, endpoint)
			return err
		},
		retry.Context(ctx),
		retry.Attempts(3),
		retry.Delay(300*time.Millisecond),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			// Malformed bodies will not improve on retry.
			return !errors.Is(err, ErrBadResponse)
		}),
	)
	if err != nil {
		return "", fmt.Errorf("translate: %w", err)
	}
	return translated, nil
}

// fetch performs one GET and decodes the array-of-arrays body: the first
// element is a list of segments whose first field, concatenated, forms the
// translation.
func (c *Client) fetch(ctx context.Context, endpoint string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("translation request failed: %s", resp.Status)
	}

	var payload []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	if len(payload) == 0 {
		return "", ErrBadResponse
	}

	var segments [][]json.RawMessage
	if err := json.Unmarshal(payload[0], &segments); err != nil {
		return "", fmt.Errorf("%w: %v", ErrBadResponse, err)
	}

	var out string
	for _, seg := range segments {
		if len(seg) == 0 {
			continue
		}
		var piece string
		if err := json.Unmarshal(seg[0], &piece); err != nil {
			return "", fmt.Errorf("%w: %v", ErrBadResponse, err)
		}
		out += piece
	}
	if out == "" {
		return "", ErrBadResponse
	}
	return out, nil
}

// Service ties in-flight translations to the identity of the card that asked
// for them, so tearing a card down cancels its request instead of letting a
// late response land on unrelated state.
type inflightRequest struct {
	cancel context.CancelFunc
}

type Service struct {
	client *Client

	mu       sync.Mutex
	inflight map[string]*inflightRequest
}

func NewService(client *Client) *Service {
	return &Service{client: client, inflight: make(map[string]*inflightRequest)}
}

// Translate runs a card's translation. A newer request for the same card
// supersedes (cancels) the older one.
func (s *Service) Translate(ctx context.Context, cardID, text string) (string, error) {
	ctx, cancel := context.WithCancel(ctx)
	req := &inflightRequest{cancel: cancel}

	s.mu.Lock()
	if prev, ok := s.inflight[cardID]; ok {
		prev.cancel()
	}
	s.inflight[cardID] = req
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		if s.inflight[cardID] == req {
			delete(s.inflight, cardID)
		}
		s.mu.Unlock()
		cancel()
	}()

	return s.client.Translate(ctx, text)
}

// Cancel aborts the card's in-flight translation, if any. Called on card
// teardown and on modal close.
func (s *Service) Cancel(cardID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if req, ok := s.inflight[cardID]; ok {
		req.cancel()
		delete(s.inflight, cardID)
	}
}

// CancelAll aborts every in-flight translation.
func (s *Service) CancelAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, req := range s.inflight {
		req.cancel()
		delete(s.inflight, id)
	}
}
