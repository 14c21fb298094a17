package model

import "time"

// OrderModel mirrors the 'orders' table.
type OrderModel struct {
	ID        uint      `gorm:"primaryKey"`
	MemberID  uint      `gorm:"not null;index"`
	OrderType int       `gorm:"not null"`
	OrderDate time.Time `gorm:"not null"`

	Member *MemberModel `gorm:"foreignKey:MemberID;constraint:OnDelete:CASCADE"`
	Books  []*BookModel `gorm:"many2many:order_books;joinForeignKey:OrderID;joinReferences:BookID"`
}

// TableName explicitly sets the table name for GORM.
func (OrderModel) TableName() string {
	return "orders"
}

// OrderBookModel is the join row between orders and books.
type OrderBookModel struct {
	OrderID uint `gorm:"primaryKey"`
	BookID  uint `gorm:"primaryKey"`
}

// TableName explicitly sets the table name for GORM.
func (OrderBookModel) TableName() string {
	return "order_books"
}

// ReviewModel mirrors the 'reviews' table.
type ReviewModel struct {
	ID       uint      `gorm:"primaryKey"`
	Reviewer string    `gorm:"type:varchar(254);not null"`
	BookID   uint      `gorm:"not null;index"`
	Rating   int       `gorm:"not null"`
	Comments string    `gorm:"type:text"`
	Date     time.Time `gorm:"not null"`

	Book *BookModel `gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE"`
}

// TableName explicitly sets the table name for GORM.
func (ReviewModel) TableName() string {
	return "reviews"
}

// All lists every model in dependency order for migration.
func All() []any {
	return []any{
		&PublisherModel{},
		&BookModel{},
		&AccountModel{},
		&MemberModel{},
		&OrderModel{},
		&ReviewModel{},
	}
}
