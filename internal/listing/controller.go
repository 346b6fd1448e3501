package listing

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/example/storefront/internal/catalog"
)

// State is where the listing currently is in its fetch cycle.
type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateLoaded  State = "loaded"
	StateEmpty   State = "empty" // fetch succeeded with zero results
)

// SectionID is the listing section anchor the viewport scrolls to.
const SectionID = "productos"

// DefaultPageChangeDelay is how long the previous page stays visible after a
// page change before the loading placeholder swaps in. Fast responses never
// flash a spinner.
const DefaultPageChangeDelay = time.Second

// Fetcher retrieves one catalog page. *catalog.Client implements it.
type Fetcher interface {
	FetchPage(ctx context.Context, category string, page int) (*catalog.Page, error)
}

// Viewport is the scrolling capability of whatever renders the listing.
type Viewport interface {
	ScrollToTop(ctx context.Context)
	ScrollIntoView(ctx context.Context, id string)
}

// NopViewport is a Viewport for surfaces with nothing to scroll.
type NopViewport struct{}

func (NopViewport) ScrollToTop(ctx context.Context)              {}
func (NopViewport) ScrollIntoView(ctx context.Context, id string) {}

// View is an atomic snapshot of the listing: the page's products and all
// pagination bookkeeping, replaced wholesale on each successful fetch.
type View struct {
	State        State             `json:"state"`
	Category     string            `json:"category"`
	Products     []catalog.Product `json:"products"`
	Page         int               `json:"page"`
	TotalPages   int               `json:"total_pages"`
	TotalResults int               `json:"total_results"`
	From         int               `json:"from"`
	To           int               `json:"to"`
}

// Controller drives one session's product listing.
type Controller struct {
	fetcher  Fetcher
	viewport Viewport
	delay    time.Duration

	mu       sync.Mutex
	view     View
	fetchSeq uint64
}

func NewController(fetcher Fetcher, viewport Viewport, delay time.Duration) *Controller {
	if viewport == nil {
		viewport = NopViewport{}
	}
	return &Controller{
		fetcher:  fetcher,
		viewport: viewport,
		delay:    delay,
		view: View{
			State:      StateIdle,
			Page:       1,
			TotalPages: 1,
		},
	}
}

// View returns the current listing snapshot.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	view := c.view
	view.Products = append([]catalog.Product(nil), c.view.Products...)
	return view
}

// FetchPage loads a page for the current category. While the fetch is in
// flight the view shows the loading placeholder. A failed fetch logs and
// restores the last good view; overlapping fetches resolve to whichever
// started last, stale responses are discarded.
func (c *Controller) FetchPage(ctx context.Context, page int) error {
	c.mu.Lock()
	c.fetchSeq++
	seq := c.fetchSeq
	prev := c.view
	category := c.view.Category
	c.view.State = StateLoading
	c.view.Products = catalog.PlaceholderProducts
	c.view.Page = page
	c.mu.Unlock()

	result, err := c.fetcher.FetchPage(ctx, category, page)

	c.mu.Lock()
	defer c.mu.Unlock()

	if seq != c.fetchSeq {
		// A newer fetch owns the view now.
		return nil
	}

	if err != nil {
		log.Printf("[Listing] Fetch failed for category %q page %d: %v", category, page, err)
		c.view = prev
		return err
	}

	state := StateLoaded
	if len(result.Products) == 0 {
		state = StateEmpty
	}
	c.view = View{
		State:        state,
		Category:     category,
		Products:     result.Products,
		Page:         page,
		TotalPages:   result.LastPage,
		TotalResults: result.TotalResults,
		From:         result.From,
		To:           result.To,
	}
	return nil
}

// ChangePage scrolls the listing back to its top, keeps the current page
// visible for the configured delay, then swaps in the placeholder and
// fetches the requested page.
func (c *Controller) ChangePage(ctx context.Context, page int) error {
	c.viewport.ScrollToTop(ctx)

	if err := c.wait(ctx); err != nil {
		return err
	}
	return c.FetchPage(ctx, page)
}

// SelectCategory scrolls the listing section into view, applies the new
// category filter and fetches its first page.
func (c *Controller) SelectCategory(ctx context.Context, category string) error {
	c.viewport.ScrollIntoView(ctx, SectionID)

	if err := c.wait(ctx); err != nil {
		return err
	}

	c.mu.Lock()
	c.view.Category = category
	c.mu.Unlock()

	return c.FetchPage(ctx, 1)
}

func (c *Controller) wait(ctx context.Context) error {
	if c.delay <= 0 {
		return nil
	}
	select {
	case <-time.After(c.delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Manager hands out one Controller per session.
type Manager struct {
	fetcher Fetcher
	factory func() Viewport
	delay   time.Duration

	mu          sync.Mutex
	controllers map[string]*Controller
}

func NewManager(fetcher Fetcher, viewportFactory func() Viewport, delay time.Duration) *Manager {
	if viewportFactory == nil {
		viewportFactory = func() Viewport { return NopViewport{} }
	}
	return &Manager{
		fetcher:     fetcher,
		factory:     viewportFactory,
		delay:       delay,
		controllers: make(map[string]*Controller),
	}
}

// Get returns the session's controller, creating it on first use.
func (m *Manager) Get(sessionID string) *Controller {
	m.mu.Lock()
	defer m.mu.Unlock()

	if c, ok := m.controllers[sessionID]; ok {
		return c
	}
	c := NewController(m.fetcher, m.factory(), m.delay)
	m.controllers[sessionID] = c
	return c
}
