package catalog

// Image is a single product image reference.
type Image struct {
	URL string `json:"img_url"`
}

// Product is a read-only copy of a catalog record. The catalog API owns
// these; the storefront never mutates them.
type Product struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	Discount    int     `json:"discount"` // percentage, 0 = no discount
	Images      []Image `json:"images"`
	Brand       string  `json:"brand"`
	Type        string  `json:"type"`
}

// Page is one page of catalog results plus the pagination metadata the
// catalog API returns alongside it.
type Page struct {
	Products     []Product
	LastPage     int
	TotalResults int
	From         int
	To           int
}

// PlaceholderProducts is what the listing shows while a fetch is in flight.
var PlaceholderProducts = []Product{{}}
