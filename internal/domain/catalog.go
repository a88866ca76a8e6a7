package domain

import (
	"strings"
	"time"
)

type Category string

const (
	CategoryAvocado   Category = "avocado"
	CategoryMacadamia Category = "macadamia"
)

func (c Category) Valid() bool {
	return c == CategoryAvocado || c == CategoryMacadamia
}

type Product struct {
	ID        int64     `json:"id"`
	Slug      string    `json:"slug"`
	Name      string    `json:"name"`
	Image     string    `json:"image"`
	Price     string    `json:"price"`
	Desc      string    `json:"desc"`
	Specs     []string  `json:"specs"`
	Badge     *string   `json:"badge"`
	Category  Category  `json:"category"`
	CreatedAt time.Time `json:"createdAt"`
}

type NewProduct struct {
	Slug     string
	Name     string
	Image    string
	Price    string
	Desc     string
	Specs    []string
	Badge    *string
	Category Category
}

type ProductFilter struct {
	Category Category
}

// SearchFields are the texts the shared search term is matched against.
func (p Product) SearchFields() []string {
	return []string{p.Name, p.Desc, string(p.Category), strings.Join(p.Specs, " ")}
}

// MarketNews is a read-only industry update shown on the market page.
type MarketNews struct {
	ID      int64  `json:"id"`
	Date    string `json:"date"`
	Tag     string `json:"tag"`
	Title   string `json:"title"`
	Excerpt string `json:"excerpt"`
}

func (n MarketNews) SearchFields() []string {
	return []string{n.Title, n.Excerpt, n.Tag}
}
