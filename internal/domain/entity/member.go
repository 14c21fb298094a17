package entity

import (
	"strings"
	"time"
)

const (
	DefaultCity     = "Windsor"
	DefaultProvince = "ON"
)

// MemberStatus is the membership tier.
type MemberStatus int

const (
	MemberStatusRegular MemberStatus = 1
	MemberStatusPremium MemberStatus = 2
	MemberStatusGuest   MemberStatus = 3
)

// MemberStatuses lists every status in display order.
var MemberStatuses = []MemberStatus{MemberStatusRegular, MemberStatusPremium, MemberStatusGuest}

// Label returns the human readable name.
func (s MemberStatus) Label() string {
	switch s {
	case MemberStatusRegular:
		return "Regular member"
	case MemberStatusPremium:
		return "Premium Member"
	case MemberStatusGuest:
		return "Guest Member"
	default:
		return ""
	}
}

// IsValid checks if the status is known.
func (s MemberStatus) IsValid() bool {
	return s.Label() != ""
}

// CanReview reports whether members of this tier may submit reviews.
func (s MemberStatus) CanReview() bool {
	return s == MemberStatusRegular || s == MemberStatusPremium
}

// Account is the authentication identity. A Member is composed with one.
type Account struct {
	ID           uint
	Username     string
	PasswordHash string
	FirstName    string
	LastName     string
	Email        string
	IsActive     bool
	IsStaff      bool
	LastLoginAt  *time.Time
	DateJoined   time.Time
}

// Member is a library patron.
type Member struct {
	ID            uint
	AccountID     uint
	Account       *Account
	Status        MemberStatus
	Address       string
	City          string
	Province      string
	LastRenewal   time.Time
	AutoRenew     bool
	ProfileImage  string
	BorrowedBooks []*Book
}

// NewMember returns a member carrying the catalog defaults.
func NewMember(now time.Time) *Member {
	return &Member{
		Status:      MemberStatusRegular,
		City:        DefaultCity,
		Province:    DefaultProvince,
		LastRenewal: time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()),
		AutoRenew:   true,
	}
}

// Username returns the account username, or empty when unloaded.
func (m *Member) Username() string {
	if m.Account == nil {
		return ""
	}

	return m.Account.Username
}

// BorrowedTitles joins the borrowed book titles.
func (m *Member) BorrowedTitles() string {
	return JoinTitles(m.BorrowedBooks)
}

// JoinTitles joins book titles with ", ".
func JoinTitles(books []*Book) string {
	titles := make([]string, 0, len(books))
	for _, b := range books {
		titles = append(titles, b.Title)
	}

	return strings.Join(titles, ", ")
}
