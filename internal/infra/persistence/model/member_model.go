package model

import "time"

// AccountModel mirrors the 'accounts' table.
type AccountModel struct {
	ID           uint   `gorm:"primaryKey"`
	Username     string `gorm:"type:varchar(150);uniqueIndex;not null"`
	PasswordHash string `gorm:"type:varchar(255);not null"`
	FirstName    string `gorm:"type:varchar(150)"`
	LastName     string `gorm:"type:varchar(150)"`
	Email        string `gorm:"type:varchar(254)"`
	IsActive     bool   `gorm:"not null"`
	IsStaff      bool   `gorm:"not null"`
	LastLoginAt  *time.Time
	DateJoined   time.Time `gorm:"not null"`
}

// TableName explicitly sets the table name for GORM.
func (AccountModel) TableName() string {
	return "accounts"
}

// MemberModel mirrors the 'members' table. AccountID references accounts.id.
type MemberModel struct {
	ID           uint      `gorm:"primaryKey"`
	AccountID    uint      `gorm:"uniqueIndex;not null"`
	Status       int       `gorm:"not null"`
	Address      string    `gorm:"type:varchar(300)"`
	City         string    `gorm:"type:varchar(20);not null"`
	Province     string    `gorm:"type:varchar(2);not null"`
	LastRenewal  time.Time `gorm:"type:date;not null"`
	AutoRenew    bool      `gorm:"not null"`
	ProfileImage string    `gorm:"type:varchar(255)"`

	Account       *AccountModel `gorm:"foreignKey:AccountID;constraint:OnDelete:CASCADE"`
	BorrowedBooks []*BookModel  `gorm:"many2many:member_borrowed_books;joinForeignKey:MemberID;joinReferences:BookID"`
}

// TableName explicitly sets the table name for GORM.
func (MemberModel) TableName() string {
	return "members"
}

// MemberBorrowedBookModel is the join row between members and books.
type MemberBorrowedBookModel struct {
	MemberID uint `gorm:"primaryKey"`
	BookID   uint `gorm:"primaryKey"`
}

// TableName explicitly sets the table name for GORM.
func (MemberBorrowedBookModel) TableName() string {
	return "member_borrowed_books"
}
