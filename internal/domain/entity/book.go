// Package entity contains the core business objects of the library catalog,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	// DefaultNumPages is the page count assumed when none is given.
	DefaultNumPages = 100
	// RecentBooksLimit is how many books the index lists.
	RecentBooksLimit = 10
	// NoRating is reported as the average when a book has no reviews.
	NoRating = -1.0
)

var (
	// MinPrice and MaxPrice bound a book price at create and edit time.
	MinPrice = decimal.Zero
	MaxPrice = decimal.NewFromInt(1000)
	// PriceIncrement is the amount added by the bulk price increase.
	PriceIncrement = decimal.NewFromInt(10)
)

// Category classifies a book.
type Category string

const (
	CategoryScience   Category = "S"
	CategoryFiction   Category = "F"
	CategoryBiography Category = "B"
	CategoryTravel    Category = "T"
	CategoryOther     Category = "O"
)

// Categories lists every category in display order.
var Categories = []Category{CategoryScience, CategoryFiction, CategoryBiography, CategoryTravel, CategoryOther}

// String returns the stored code.
func (c Category) String() string {
	return string(c)
}

// Label returns the human readable name.
func (c Category) Label() string {
	switch c {
	case CategoryScience:
		return "Science&Tech"
	case CategoryFiction:
		return "Fiction"
	case CategoryBiography:
		return "Biography"
	case CategoryTravel:
		return "Travel"
	case CategoryOther:
		return "Other"
	default:
		return ""
	}
}

// IsValid checks if the Category is a known code.
func (c Category) IsValid() bool {
	return c.Label() != ""
}

// Publisher owns many books.
type Publisher struct {
	ID      uint
	Name    string
	Website string
	City    string
	Country string
}

// Book is a catalog entry. NumReviews mirrors the number of stored reviews.
type Book struct {
	ID          uint
	Title       string
	Category    Category
	NumPages    uint
	Price       decimal.Decimal
	PublisherID uint
	Publisher   *Publisher
	Description string
	NumReviews  uint
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// PriceInRange reports whether p lies within [MinPrice, MaxPrice].
func PriceInRange(p decimal.Decimal) bool {
	return p.GreaterThanOrEqual(MinPrice) && p.LessThanOrEqual(MaxPrice)
}

// BookFilter narrows a catalog search. A nil Category means any category.
type BookFilter struct {
	MaxPrice decimal.Decimal
	Category *Category
}

// Matches applies the filter to a single book.
func (f BookFilter) Matches(b *Book) bool {
	if b.Price.GreaterThan(f.MaxPrice) {
		return false
	}

	return f.Category == nil || b.Category == *f.Category
}
