package catalog

import "time"

type Product struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Category    string    `json:"category"`
	Brand       string    `json:"brand"`
	Image       string    `json:"image"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Stock       int       `json:"stock"`
	Rating      float64   `json:"rating"`
	NumReviews  int       `json:"num_reviews"`
	Featured    int       `json:"featured"`
	CreatedAt   time.Time `json:"created_at"`
}

// ProductInput is the full mutable field set. Create and Update replace
// every field; the slug is always recomputed from the name.
type ProductInput struct {
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Brand       string  `json:"brand"`
	Image       string  `json:"image"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	Rating      float64 `json:"rating"`
	NumReviews  int     `json:"num_reviews"`
	Featured    int     `json:"featured"`
}
