package postgres

import (
	"context"

	"library/internal/domain/entity"
	"library/internal/domain/repository"
	"library/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// orderRepository implements the domain.OrderRepository interface using GORM.
type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository is the constructor for orderRepository.
func NewOrderRepository(db *gorm.DB) repository.OrderRepository {
	return &orderRepository{db: db}
}

// Create inserts the order row and then its book links. Callers wanting
// both to land together run it inside TransactionManager.Execute.
func (repo *orderRepository) Create(ctx context.Context, order *entity.Order) error {
	db := repo.db.WithContext(WithOperation(ctx, "order.create"))

	orderM := &model.OrderModel{
		MemberID:  order.MemberID,
		OrderType: int(order.OrderType),
		OrderDate: order.OrderDate,
	}
	if err := db.Omit(clause.Associations).Create(orderM).Error; err != nil {
		return errors.Wrap(err, "failed to create order")
	}
	order.ID = orderM.ID

	bookIDs := order.BookIDs()
	if len(bookIDs) == 0 {
		return nil
	}

	rows := make([]model.OrderBookModel, 0, len(bookIDs))
	for _, id := range bookIDs {
		rows = append(rows, model.OrderBookModel{OrderID: orderM.ID, BookID: id})
	}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error; err != nil {
		if violated(err) == foreignKeyConstraint {
			return repository.ErrBookNotFound
		}

		return errors.Wrap(err, "failed to link order books")
	}

	return nil
}

func (repo *orderRepository) ListByMember(ctx context.Context, memberID uint) ([]*entity.Order, error) {
	var orderMs []*model.OrderModel
	if err := repo.db.WithContext(WithOperation(ctx, "order.list_by_member")).
		Preload("Books", orderBooksByID).
		Where("member_id = ?", memberID).
		Order("id ASC").
		Find(&orderMs).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list member orders")
	}

	return toOrderDomains(orderMs), nil
}

func (repo *orderRepository) List(ctx context.Context) ([]*entity.Order, error) {
	var orderMs []*model.OrderModel
	if err := repo.db.WithContext(WithOperation(ctx, "order.list")).
		Preload("Member.Account").
		Preload("Books", orderBooksByID).
		Order("id ASC").
		Find(&orderMs).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list orders")
	}

	return toOrderDomains(orderMs), nil
}

// reviewRepository implements the domain.ReviewRepository interface using GORM.
type reviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository is the constructor for reviewRepository.
func NewReviewRepository(db *gorm.DB) repository.ReviewRepository {
	return &reviewRepository{db: db}
}

func (repo *reviewRepository) Create(ctx context.Context, review *entity.Review) error {
	reviewM := fromReviewDomain(review)
	if err := repo.db.WithContext(WithOperation(ctx, "review.create")).
		Omit(clause.Associations).
		Create(reviewM).Error; err != nil {
		if violated(err) == foreignKeyConstraint {
			return repository.ErrBookNotFound
		}

		return errors.Wrap(err, "failed to create review")
	}
	review.ID = reviewM.ID

	return nil
}

func (repo *reviewRepository) ListByBook(ctx context.Context, bookID uint) ([]*entity.Review, error) {
	var reviewMs []*model.ReviewModel
	if err := repo.db.WithContext(WithOperation(ctx, "review.list_by_book")).
		Where("book_id = ?", bookID).
		Order("id ASC").
		Find(&reviewMs).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list reviews")
	}

	return toReviewDomains(reviewMs), nil
}

func (repo *reviewRepository) CountByBook(ctx context.Context, bookID uint) (int64, error) {
	var count int64
	if err := repo.db.WithContext(WithOperation(ctx, "review.count_by_book")).
		Model(&model.ReviewModel{}).
		Where("book_id = ?", bookID).
		Count(&count).Error; err != nil {
		return 0, errors.Wrap(err, "failed to count reviews")
	}

	return count, nil
}

func (repo *reviewRepository) List(ctx context.Context) ([]*entity.Review, error) {
	var reviewMs []*model.ReviewModel
	if err := repo.db.WithContext(WithOperation(ctx, "review.list")).
		Preload("Book").
		Order("id ASC").
		Find(&reviewMs).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list reviews")
	}

	return toReviewDomains(reviewMs), nil
}

// --- Mapper Functions ---

func toOrderDomains(data []*model.OrderModel) []*entity.Order {
	orders := make([]*entity.Order, 0, len(data))
	for _, m := range data {
		orders = append(orders, &entity.Order{
			ID:        m.ID,
			MemberID:  m.MemberID,
			Member:    toMemberDomain(m.Member),
			OrderType: entity.OrderType(m.OrderType),
			OrderDate: m.OrderDate,
			Books:     toBookDomains(m.Books),
		})
	}

	return orders
}

func toReviewDomains(data []*model.ReviewModel) []*entity.Review {
	reviews := make([]*entity.Review, 0, len(data))
	for _, m := range data {
		reviews = append(reviews, &entity.Review{
			ID:       m.ID,
			Reviewer: m.Reviewer,
			BookID:   m.BookID,
			Book:     toBookDomain(m.Book),
			Rating:   m.Rating,
			Comments: m.Comments,
			Date:     m.Date,
		})
	}

	return reviews
}

func fromReviewDomain(data *entity.Review) *model.ReviewModel {
	return &model.ReviewModel{
		ID:       data.ID,
		Reviewer: data.Reviewer,
		BookID:   data.BookID,
		Rating:   data.Rating,
		Comments: data.Comments,
		Date:     data.Date,
	}
}
