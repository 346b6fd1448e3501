package share

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
)

// DefaultNoticeTTL matches how long the "link copied" notice stays visible.
const DefaultNoticeTTL = 20 * time.Second

// Clipboard is wherever the share link ends up. Injected so the service can
// be exercised without a system clipboard.
type Clipboard interface {
	WriteText(ctx context.Context, text string) error
}

// NopClipboard is for surfaces where the caller performs the copy itself,
// such as the HTTP API whose response already carries the link.
type NopClipboard struct{}

func (NopClipboard) WriteText(ctx context.Context, text string) error { return nil }

// Notice is the transient confirmation shown after a successful share.
type Notice struct {
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// Service builds shareable product links, copies them to the clipboard and
// keeps the auto-dismissing notice state.
type Service struct {
	baseURL   string
	clipboard Clipboard
	ttl       time.Duration

	mu     sync.Mutex
	notice *Notice
	timer  *time.Timer
}

func NewService(baseURL string, clipboard Clipboard, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultNoticeTTL
	}
	return &Service{
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		clipboard: clipboard,
		ttl:       ttl,
	}
}

// ProductURL is the canonical share link for a product.
func (s *Service) ProductURL(productID int) string {
	return fmt.Sprintf("%s/producto/%d", s.baseURL, productID)
}

// Share copies the product link to the clipboard and raises the notice. On
// clipboard failure nothing is raised and the error surfaces to the caller.
func (s *Service) Share(ctx context.Context, productID int) (string, error) {
	url := s.ProductURL(productID)

	if err := s.clipboard.WriteText(ctx, url); err != nil {
		return "", fmt.Errorf("failed to copy share link: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.notice = &Notice{
		Message:   "Enlace copiado, puedes pegarlo y compartirlo en cualquier red social.",
		CreatedAt: time.Now(),
	}

	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.ttl, s.Dismiss)

	return url, nil
}

// Notice returns the active notice, or nil once dismissed.
func (s *Service) Notice() *Notice {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.notice
}

// Dismiss hides the notice before its TTL runs out.
func (s *Service) Dismiss() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notice = nil
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
