package usecase

import (
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"library/internal/domain/entity"
	domainerrors "library/internal/domain/errors"
	"library/internal/validation"

	"github.com/shopspring/decimal"
)

const (
	// RatingRangeMessage is reported for a rating outside [1, 5].
	RatingRangeMessage = "rating must be between 1 and 5"
	// RegisterFailedMessage heads the field errors of a rejected registration.
	RegisterFailedMessage = "Invalid registration form data. Please check your input."
	// PasswordMismatchMessage is reported when the two passwords differ.
	PasswordMismatchMessage = "The two password fields didn't match."
	// UsernameTakenMessage is reported for a username already in use.
	UsernameTakenMessage = "A user with that username already exists."
	// InvalidChoiceMessage is reported for a reference to a missing row.
	InvalidChoiceMessage = "Select a valid choice. That choice is not one of the available choices."
	// InvalidImageMessage is reported for an upload that is not an image file.
	InvalidImageMessage = "Upload a valid image. The file you uploaded was either not an image or a corrupted image."
)

var imageExtensions = map[string]struct{}{
	".jpg": {}, ".jpeg": {}, ".png": {}, ".gif": {}, ".bmp": {}, ".webp": {},
}

// --- Search ---

// SearchInput is the submitted search form.
type SearchInput struct {
	Name     string `form:"name" json:"name" validate:"max=100"`
	Category string `form:"category" json:"category" validate:"omitempty,oneof=S F B T O"`
	MaxPrice string `form:"max_price" json:"max_price" validate:"required"`
}

// SearchQuery is a validated search.
type SearchQuery struct {
	Name   string
	Filter entity.BookFilter
}

// ValidateSearch checks the search form and builds the filter.
func ValidateSearch(in SearchInput) (*SearchQuery, error) {
	fields := validation.Check(in)

	var maxPrice decimal.Decimal
	if !fields.Has("max_price") {
		price, err := decimal.NewFromString(strings.TrimSpace(in.MaxPrice))
		switch {
		case err != nil:
			fields.Add("max_price", "Enter a number.")
		case price.IsNegative():
			fields.Add("max_price", "Ensure this value is greater than or equal to 0.")
		default:
			maxPrice = price
		}
	}

	if err := fields.Err(); err != nil {
		return nil, err
	}

	query := &SearchQuery{
		Name:   in.Name,
		Filter: entity.BookFilter{MaxPrice: maxPrice},
	}
	if in.Category != "" {
		category := entity.Category(in.Category)
		query.Filter.Category = &category
	}

	return query, nil
}

// --- Order ---

// OrderInput is the submitted order form.
type OrderInput struct {
	Books     []uint `form:"books" json:"books" validate:"min=1,dive,gt=0"`
	OrderType string `form:"order_type" json:"order_type" validate:"required,oneof=0 1"`
}

// OrderRequest is a validated order. Book existence is checked against the store.
type OrderRequest struct {
	BookIDs   []uint
	OrderType entity.OrderType
}

// ValidateOrder checks the order form and removes duplicate book ids.
func ValidateOrder(in OrderInput) (*OrderRequest, error) {
	fields := validation.Check(in)
	if err := fields.Err(); err != nil {
		return nil, err
	}

	orderType, _ := strconv.Atoi(in.OrderType)

	return &OrderRequest{
		BookIDs:   uniqueIDs(in.Books),
		OrderType: entity.OrderType(orderType),
	}, nil
}

// --- Review ---

// ReviewInput is the submitted review form.
type ReviewInput struct {
	Reviewer string `form:"reviewer" json:"reviewer" validate:"required,email,max=254"`
	Book     uint   `form:"book" json:"book" validate:"required"`
	Rating   string `form:"rating" json:"rating" validate:"required"`
	Comments string `form:"comments" json:"comments"`
}

// ReviewRequest is a validated review. Book existence is checked against the store.
type ReviewRequest struct {
	Reviewer string
	BookID   uint
	Rating   int
	Comments string
}

// ValidateReview checks the review form. The rating range has exactly one check.
func ValidateReview(in ReviewInput) (*ReviewRequest, error) {
	fields := validation.Check(in)

	rating := 0
	if !fields.Has("rating") {
		parsed, err := strconv.Atoi(strings.TrimSpace(in.Rating))
		switch {
		case err != nil:
			fields.Add("rating", "Enter a whole number.")
		case !entity.RatingInRange(parsed):
			fields.Add("rating", RatingRangeMessage)
		default:
			rating = parsed
		}
	}

	if err := fields.Err(); err != nil {
		return nil, err
	}

	return &ReviewRequest{
		Reviewer: strings.TrimSpace(in.Reviewer),
		BookID:   in.Book,
		Rating:   rating,
		Comments: in.Comments,
	}, nil
}

// --- Registration ---

// Upload is a submitted file. The core only reads its name and bytes.
type Upload struct {
	Filename string
	Size     int64
	Content  io.Reader
}

// RegisterInput is the submitted registration form.
type RegisterInput struct {
	Username     string  `form:"username" json:"username" validate:"required,max=150,username"`
	Password1    string  `form:"password1" json:"password1" validate:"required"`
	Password2    string  `form:"password2" json:"password2" validate:"required"`
	FirstName    string  `form:"first_name" json:"first_name" validate:"max=150"`
	LastName     string  `form:"last_name" json:"last_name" validate:"max=150"`
	Email        string  `form:"email" json:"email" validate:"omitempty,email,max=254"`
	Status       string  `form:"status" json:"status" validate:"required,oneof=1 2 3"`
	Address      string  `form:"address" json:"address" validate:"max=300"`
	City         string  `form:"city" json:"city" validate:"required,max=20"`
	Province     string  `form:"province" json:"province" validate:"required,max=2"`
	AutoRenew    bool    `form:"auto_renew" json:"auto_renew"`
	ProfileImage *Upload `form:"-" json:"-"`
}

// PasswordStrengthChecker reports violated password rules.
type PasswordStrengthChecker interface {
	ValidateStrength(password, username string) []string
}

// ValidateRegister checks the registration form. Username uniqueness is checked against the store.
func ValidateRegister(in RegisterInput, strength PasswordStrengthChecker) (*RegisterInput, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Province = strings.TrimSpace(in.Province)
	fields := validation.Check(in)

	if !fields.Has("password1") && !fields.Has("password2") {
		if in.Password1 != in.Password2 {
			fields.Add("password2", PasswordMismatchMessage)
		} else if problems := strength.ValidateStrength(in.Password2, in.Username); len(problems) > 0 {
			fields.Add("password2", strings.Join(problems, " "))
		}
	}

	if in.ProfileImage != nil {
		ext := strings.ToLower(filepath.Ext(in.ProfileImage.Filename))
		if _, ok := imageExtensions[ext]; !ok || in.ProfileImage.Size == 0 {
			fields.Add("profile_image", InvalidImageMessage)
		}
	}

	if err := fields.Err(); err != nil {
		return nil, err
	}

	in.Province = strings.ToUpper(in.Province)

	return &in, nil
}

// MemberStatus returns the parsed status of a validated registration.
func (in *RegisterInput) MemberStatus() entity.MemberStatus {
	status, _ := strconv.Atoi(in.Status)

	return entity.MemberStatus(status)
}

// --- Login ---

// LoginInput is the submitted login form.
type LoginInput struct {
	Username string `form:"username" json:"username" validate:"required,max=150"`
	Password string `form:"password" json:"password" validate:"required"`
	Next     string `form:"next" json:"next"`
}

// ValidateLogin rejects a login form with a blank field before any lookup.
// The failure carries the same summary as a credential mismatch.
func ValidateLogin(in LoginInput) error {
	fields := validation.Check(in)
	if len(fields) == 0 {
		return nil
	}

	return domainerrors.NewValidationError(fields).WithMessage(domainerrors.ErrInvalidCredentials.Message())
}

// --- Admin ---

// PublisherInput is the admin publisher form.
type PublisherInput struct {
	Name    string `form:"name" json:"name" validate:"required,max=200"`
	Website string `form:"website" json:"website" validate:"required,url,max=200"`
	City    string `form:"city" json:"city" validate:"max=20"`
	Country string `form:"country" json:"country" validate:"max=20"`
}

// ValidatePublisher checks the publisher form and applies the default country.
func ValidatePublisher(in PublisherInput) (*entity.Publisher, error) {
	if err := validation.Check(in).Err(); err != nil {
		return nil, err
	}

	country := strings.TrimSpace(in.Country)
	if country == "" {
		country = "USA"
	}

	return &entity.Publisher{
		Name:    strings.TrimSpace(in.Name),
		Website: in.Website,
		City:    in.City,
		Country: country,
	}, nil
}

// BookInput is the admin book form.
type BookInput struct {
	Title       string `form:"title" json:"title" validate:"required,max=200"`
	Category    string `form:"category" json:"category" validate:"omitempty,oneof=S F B T O"`
	NumPages    string `form:"num_pages" json:"num_pages"`
	Price       string `form:"price" json:"price" validate:"required"`
	Publisher   uint   `form:"publisher" json:"publisher" validate:"required"`
	Description string `form:"description" json:"description"`
}

// ValidateBook checks the book form. The price must lie in [0, 1000] with at most two decimals.
func ValidateBook(in BookInput) (*entity.Book, error) {
	fields := validation.Check(in)

	var price decimal.Decimal
	if !fields.Has("price") {
		parsed, err := decimal.NewFromString(strings.TrimSpace(in.Price))
		switch {
		case err != nil:
			fields.Add("price", "Enter a number.")
		case parsed.Exponent() < -2 && !parsed.Equal(parsed.Round(2)):
			fields.Add("price", "Ensure that there are no more than 2 decimal places.")
		case parsed.LessThan(entity.MinPrice):
			fields.Add("price", "Ensure this value is greater than or equal to 0.")
		case parsed.GreaterThan(entity.MaxPrice):
			fields.Add("price", "Ensure this value is less than or equal to 1000.")
		default:
			price = parsed
		}
	}

	numPages := uint(entity.DefaultNumPages)
	if raw := strings.TrimSpace(in.NumPages); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		switch {
		case err != nil:
			fields.Add("num_pages", "Enter a whole number.")
		case parsed == 0:
			fields.Add("num_pages", "Ensure this value is greater than or equal to 1.")
		default:
			numPages = uint(parsed)
		}
	}

	if err := fields.Err(); err != nil {
		return nil, err
	}

	category := entity.CategoryScience
	if in.Category != "" {
		category = entity.Category(in.Category)
	}
	return &entity.Book{
		Title:       strings.TrimSpace(in.Title),
		Category:    category,
		NumPages:    numPages,
		Price:       price,
		PublisherID: in.Publisher,
		Description: in.Description,
	}, nil
}

// PriceIncreaseInput selects the books for the bulk price increase.
type PriceIncreaseInput struct {
	Books []uint `form:"books" json:"books" validate:"min=1"`
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}

	return out
}
