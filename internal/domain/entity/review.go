package entity

import "time"

const (
	MinRating = 1
	MaxRating = 5
)

// Review is a rating left for a book.
type Review struct {
	ID       uint
	Reviewer string
	BookID   uint
	Book     *Book
	Rating   int
	Comments string
	Date     time.Time
}

// RatingInRange reports whether r lies within [MinRating, MaxRating].
func RatingInRange(r int) bool {
	return r >= MinRating && r <= MaxRating
}

// AverageRating returns the mean rating, or NoRating when there are no reviews.
func AverageRating(reviews []*Review) float64 {
	if len(reviews) == 0 {
		return NoRating
	}

	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}

	return float64(sum) / float64(len(reviews))
}
