package postgres

import (
	"context"

	"library/internal/domain/entity"
	"library/internal/domain/repository"
	"library/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// orderBooksByID keeps preloaded book lists deterministic.
func orderBooksByID(db *gorm.DB) *gorm.DB {
	return db.Order("books.id ASC")
}

// publisherRepository implements the domain.PublisherRepository interface using GORM.
type publisherRepository struct {
	db *gorm.DB
}

// NewPublisherRepository is the constructor for publisherRepository.
func NewPublisherRepository(db *gorm.DB) repository.PublisherRepository {
	return &publisherRepository{db: db}
}

func (repo *publisherRepository) FindByID(ctx context.Context, id uint) (*entity.Publisher, error) {
	var publisherM model.PublisherModel
	err := repo.db.WithContext(WithOperation(ctx, "publisher.find")).First(&publisherM, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrPublisherNotFound
		}

		return nil, errors.Wrap(err, "failed to find publisher by id")
	}

	return toPublisherDomain(&publisherM), nil
}

func (repo *publisherRepository) List(ctx context.Context) ([]*entity.Publisher, error) {
	var publisherMs []*model.PublisherModel
	if err := repo.db.WithContext(WithOperation(ctx, "publisher.list")).Order("id ASC").Find(&publisherMs).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list publishers")
	}

	publishers := make([]*entity.Publisher, 0, len(publisherMs))
	for _, m := range publisherMs {
		publishers = append(publishers, toPublisherDomain(m))
	}

	return publishers, nil
}

func (repo *publisherRepository) Create(ctx context.Context, publisher *entity.Publisher) error {
	publisherM := fromPublisherDomain(publisher)
	if err := repo.db.WithContext(WithOperation(ctx, "publisher.create")).Create(publisherM).Error; err != nil {
		return errors.Wrap(err, "failed to create publisher")
	}
	publisher.ID = publisherM.ID

	return nil
}

func (repo *publisherRepository) Update(ctx context.Context, publisher *entity.Publisher) error {
	publisherM := fromPublisherDomain(publisher)
	result := repo.db.WithContext(WithOperation(ctx, "publisher.update")).
		Model(&model.PublisherModel{ID: publisher.ID}).
		Select("name", "website", "city", "country").
		Updates(publisherM)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to update publisher")
	}
	if result.RowsAffected == 0 {
		return repository.ErrPublisherNotFound
	}

	return nil
}

// bookRepository implements the domain.BookRepository interface using GORM.
type bookRepository struct {
	db *gorm.DB
}

// NewBookRepository is the constructor for bookRepository.
func NewBookRepository(db *gorm.DB) repository.BookRepository {
	return &bookRepository{db: db}
}

// FindByID retrieves a single book with its publisher.
func (repo *bookRepository) FindByID(ctx context.Context, id uint) (*entity.Book, error) {
	var bookM model.BookModel
	err := repo.db.WithContext(WithOperation(ctx, "book.find")).Preload("Publisher").First(&bookM, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrBookNotFound
		}

		return nil, errors.Wrap(err, "failed to find book by id")
	}

	return toBookDomain(&bookM), nil
}

func (repo *bookRepository) FindByIDs(ctx context.Context, ids []uint) ([]*entity.Book, error) {
	if len(ids) == 0 {
		return []*entity.Book{}, nil
	}

	var bookMs []*model.BookModel
	if err := repo.db.WithContext(WithOperation(ctx, "book.find_many")).
		Where("id IN ?", ids).
		Order("id ASC").
		Find(&bookMs).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find books by ids")
	}

	return toBookDomains(bookMs), nil
}

func (repo *bookRepository) ListFirst(ctx context.Context, limit int) ([]*entity.Book, error) {
	var bookMs []*model.BookModel
	if err := repo.db.WithContext(WithOperation(ctx, "book.list_first")).
		Order("id ASC").
		Limit(limit).
		Find(&bookMs).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list books")
	}

	return toBookDomains(bookMs), nil
}

func (repo *bookRepository) List(ctx context.Context) ([]*entity.Book, error) {
	var bookMs []*model.BookModel
	if err := repo.db.WithContext(WithOperation(ctx, "book.list")).
		Preload("Publisher").
		Order("id ASC").
		Find(&bookMs).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list books")
	}

	return toBookDomains(bookMs), nil
}

// Search is a linear filter on price and, optionally, category.
func (repo *bookRepository) Search(ctx context.Context, filter entity.BookFilter) ([]*entity.Book, error) {
	query := repo.db.WithContext(WithOperation(ctx, "book.search")).
		Where("price <= ?", filter.MaxPrice)
	if filter.Category != nil {
		query = query.Where("category = ?", filter.Category.String())
	}

	var bookMs []*model.BookModel
	if err := query.Order("id ASC").Find(&bookMs).Error; err != nil {
		return nil, errors.Wrap(err, "failed to search books")
	}

	return toBookDomains(bookMs), nil
}

func (repo *bookRepository) Create(ctx context.Context, book *entity.Book) error {
	bookM := fromBookDomain(book)
	if err := repo.db.WithContext(WithOperation(ctx, "book.create")).Omit("Publisher").Create(bookM).Error; err != nil {
		if violated(err) == foreignKeyConstraint {
			return repository.ErrPublisherNotFound
		}
		if violated(err) == notNullConstraint {
			return errors.Wrap(err, "missing required book information")
		}

		return errors.Wrap(err, "failed to create book")
	}

	book.ID = bookM.ID
	book.CreatedAt = bookM.CreatedAt
	book.UpdatedAt = bookM.UpdatedAt

	return nil
}

// Update rewrites the editable columns. The review count is never touched here.
func (repo *bookRepository) Update(ctx context.Context, book *entity.Book) error {
	bookM := fromBookDomain(book)
	result := repo.db.WithContext(WithOperation(ctx, "book.update")).
		Model(&model.BookModel{ID: book.ID}).
		Select("title", "category", "num_pages", "price", "publisher_id", "description").
		Updates(bookM)
	if result.Error != nil {
		if violated(result.Error) == foreignKeyConstraint {
			return repository.ErrPublisherNotFound
		}

		return errors.Wrap(result.Error, "failed to update book")
	}
	if result.RowsAffected == 0 {
		return repository.ErrBookNotFound
	}

	return nil
}

func (repo *bookRepository) IncrementReviewCount(ctx context.Context, id uint) error {
	result := repo.db.WithContext(WithOperation(ctx, "book.increment_reviews")).
		Model(&model.BookModel{}).
		Where("id = ?", id).
		UpdateColumn("num_reviews", gorm.Expr("num_reviews + ?", 1))
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to increment review count")
	}
	if result.RowsAffected == 0 {
		return repository.ErrBookNotFound
	}

	return nil
}

func (repo *bookRepository) IncreasePrice(ctx context.Context, ids []uint, amount decimal.Decimal) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	result := repo.db.WithContext(WithOperation(ctx, "book.increase_price")).
		Model(&model.BookModel{}).
		Where("id IN ?", ids).
		Updates(map[string]any{"price": gorm.Expr("price + ?", amount)})
	if result.Error != nil {
		return 0, errors.Wrap(result.Error, "failed to increase book prices")
	}

	return result.RowsAffected, nil
}

// --- Mapper Functions ---

func toPublisherDomain(data *model.PublisherModel) *entity.Publisher {
	if data == nil {
		return nil
	}

	return &entity.Publisher{
		ID:      data.ID,
		Name:    data.Name,
		Website: data.Website,
		City:    data.City,
		Country: data.Country,
	}
}

func fromPublisherDomain(data *entity.Publisher) *model.PublisherModel {
	return &model.PublisherModel{
		ID:      data.ID,
		Name:    data.Name,
		Website: data.Website,
		City:    data.City,
		Country: data.Country,
	}
}

func toBookDomain(data *model.BookModel) *entity.Book {
	if data == nil {
		return nil
	}

	return &entity.Book{
		ID:          data.ID,
		Title:       data.Title,
		Category:    entity.Category(data.Category),
		NumPages:    data.NumPages,
		Price:       data.Price,
		PublisherID: data.PublisherID,
		Publisher:   toPublisherDomain(data.Publisher),
		Description: data.Description,
		NumReviews:  data.NumReviews,
		CreatedAt:   data.CreatedAt,
		UpdatedAt:   data.UpdatedAt,
	}
}

func toBookDomains(data []*model.BookModel) []*entity.Book {
	books := make([]*entity.Book, 0, len(data))
	for _, m := range data {
		books = append(books, toBookDomain(m))
	}

	return books
}

func fromBookDomain(data *entity.Book) *model.BookModel {
	return &model.BookModel{
		ID:          data.ID,
		Title:       data.Title,
		Category:    data.Category.String(),
		NumPages:    data.NumPages,
		Price:       data.Price,
		PublisherID: data.PublisherID,
		Description: data.Description,
		NumReviews:  data.NumReviews,
	}
}
