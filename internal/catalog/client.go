package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Client fetches product pages from the catalog API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// pageResponse mirrors the catalog API payload:
// {"products": {"data": [...], "last_page": n, "total": n, "from": n, "to": n}}
type pageResponse struct {
	Products struct {
		Data     []Product `json:"data"`
		LastPage int       `json:"last_page"`
		Total    int       `json:"total"`
		From     int       `json:"from"`
		To       int       `json:"to"`
	} `json:"products"`
}

// FetchPage retrieves one page of products, optionally scoped by a category
// slug. An empty category means all products.
func (c *Client) FetchPage(ctx context.Context, category string, page int) (*Page, error) {
	url := c.pageURL(category, page)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build catalog request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("catalog returned status %d", resp.StatusCode)
	}

	var body pageResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode catalog response: %w", err)
	}

	return &Page{
		Products:     body.Products.Data,
		LastPage:     body.Products.LastPage,
		TotalResults: body.Products.Total,
		From:         body.Products.From,
		To:           body.Products.To,
	}, nil
}

func (c *Client) pageURL(category string, page int) string {
	suffix := ""
	if category != "" {
		suffix = "/" + category
	}
	return c.baseURL + "/get-products" + suffix + "?page=" + strconv.Itoa(page)
}
