package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PublisherModel mirrors the 'publishers' table.
type PublisherModel struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"type:varchar(200);not null"`
	Website   string `gorm:"type:varchar(200);not null"`
	City      string `gorm:"type:varchar(20)"`
	Country   string `gorm:"type:varchar(20);not null"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Books []*BookModel `gorm:"foreignKey:PublisherID"`
}

// TableName explicitly sets the table name for GORM.
func (PublisherModel) TableName() string {
	return "publishers"
}

// BookModel mirrors the 'books' table. Price is stored as decimal(10,2).
type BookModel struct {
	ID          uint            `gorm:"primaryKey"`
	Title       string          `gorm:"type:varchar(200);not null"`
	Category    string          `gorm:"type:varchar(1);not null;index"`
	NumPages    uint            `gorm:"not null"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null;index"`
	PublisherID uint            `gorm:"not null;index"`
	Description string          `gorm:"type:text"`
	NumReviews  uint            `gorm:"not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Publisher *PublisherModel `gorm:"foreignKey:PublisherID;constraint:OnDelete:CASCADE"`
}

// TableName explicitly sets the table name for GORM.
func (BookModel) TableName() string {
	return "books"
}
