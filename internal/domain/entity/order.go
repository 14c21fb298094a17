package entity

import "time"

// OrderType distinguishes purchases from loans.
type OrderType int

const (
	OrderTypePurchase OrderType = 0
	OrderTypeBorrow   OrderType = 1
)

// OrderTypes lists every order type in display order.
var OrderTypes = []OrderType{OrderTypePurchase, OrderTypeBorrow}

// Label returns the human readable name.
func (t OrderType) Label() string {
	switch t {
	case OrderTypePurchase:
		return "Purchase"
	case OrderTypeBorrow:
		return "Borrow"
	default:
		return ""
	}
}

// IsValid checks if the order type is known.
func (t OrderType) IsValid() bool {
	return t.Label() != ""
}

// Order is a purchase or borrow of one or more books by a member.
type Order struct {
	ID        uint
	MemberID  uint
	Member    *Member
	OrderType OrderType
	OrderDate time.Time
	Books     []*Book
}

// TotalItems is the number of books in the order.
func (o *Order) TotalItems() int {
	return len(o.Books)
}

// BookIDs returns the ids of the ordered books.
func (o *Order) BookIDs() []uint {
	ids := make([]uint, 0, len(o.Books))
	for _, b := range o.Books {
		ids = append(ids, b.ID)
	}

	return ids
}

// Titles joins the titles of the ordered books.
func (o *Order) Titles() string {
	return JoinTitles(o.Books)
}
