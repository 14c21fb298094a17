package handler

import (
	"strconv"
	"time"

	"library/internal/domain/entity"
	domainerrors "library/internal/domain/errors"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// PublisherView is the JSON shape of a publisher.
type PublisherView struct {
	ID      uint   `json:"id"`
	Name    string `json:"name"`
	Website string `json:"website"`
	City    string `json:"city"`
	Country string `json:"country"`
}

// BookView is the JSON shape of a book.
type BookView struct {
	ID            uint            `json:"id"`
	Title         string          `json:"title"`
	Category      string          `json:"category"`
	CategoryLabel string          `json:"category_label"`
	NumPages      uint            `json:"num_pages"`
	Price         decimal.Decimal `json:"price"`
	PublisherID   uint            `json:"publisher_id"`
	Publisher     *PublisherView  `json:"publisher,omitempty"`
	Description   string          `json:"description"`
	NumReviews    uint            `json:"num_reviews"`
}

// ReviewView is the JSON shape of a review.
type ReviewView struct {
	ID       uint      `json:"id"`
	Reviewer string    `json:"reviewer"`
	BookID   uint      `json:"book_id"`
	Rating   int       `json:"rating"`
	Comments string    `json:"comments"`
	Date     time.Time `json:"date"`
}

// OrderView is the JSON shape of an order.
type OrderView struct {
	ID             uint      `json:"id"`
	OrderType      int       `json:"order_type"`
	OrderTypeLabel string    `json:"order_type_label"`
	OrderDate      time.Time `json:"order_date"`
	TotalItems     int       `json:"total_items"`
	Titles         string    `json:"titles"`
}

// MemberView is the JSON shape of a registered member.
type MemberView struct {
	ID           uint   `json:"id"`
	Username     string `json:"username"`
	Status       int    `json:"status"`
	StatusLabel  string `json:"status_label"`
	City         string `json:"city"`
	Province     string `json:"province"`
	AutoRenew    bool   `json:"auto_renew"`
	ProfileImage string `json:"profile_image,omitempty"`
}

func newPublisherView(p *entity.Publisher) *PublisherView {
	if p == nil {
		return nil
	}

	return &PublisherView{ID: p.ID, Name: p.Name, Website: p.Website, City: p.City, Country: p.Country}
}

func newBookView(b *entity.Book) BookView {
	return BookView{
		ID:            b.ID,
		Title:         b.Title,
		Category:      b.Category.String(),
		CategoryLabel: b.Category.Label(),
		NumPages:      b.NumPages,
		Price:         b.Price,
		PublisherID:   b.PublisherID,
		Publisher:     newPublisherView(b.Publisher),
		Description:   b.Description,
		NumReviews:    b.NumReviews,
	}
}

func newBookViews(books []*entity.Book) []BookView {
	views := make([]BookView, 0, len(books))
	for _, b := range books {
		views = append(views, newBookView(b))
	}

	return views
}

func newReviewView(r *entity.Review) ReviewView {
	return ReviewView{ID: r.ID, Reviewer: r.Reviewer, BookID: r.BookID, Rating: r.Rating, Comments: r.Comments, Date: r.Date}
}

func newOrderView(o *entity.Order, titles string) OrderView {
	return OrderView{
		ID:             o.ID,
		OrderType:      int(o.OrderType),
		OrderTypeLabel: o.OrderType.Label(),
		OrderDate:      o.OrderDate,
		TotalItems:     o.TotalItems(),
		Titles:         titles,
	}
}

func newMemberView(m *entity.Member) MemberView {
	return MemberView{
		ID:           m.ID,
		Username:     m.Username(),
		Status:       int(m.Status),
		StatusLabel:  m.Status.Label(),
		City:         m.City,
		Province:     m.Province,
		AutoRenew:    m.AutoRenew,
		ProfileImage: m.ProfileImage,
	}
}

// bookIDParam reads the :id path segment. Anything but a positive integer is treated as an unknown book.
func bookIDParam(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, domainerrors.ErrBookNotFound
	}

	return uint(id), nil
}
