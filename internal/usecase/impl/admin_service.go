package impl

import (
	"context"
	"log/slog"

	deliverycontext "library/internal/delivery/context"
	"library/internal/domain/entity"
	domainerrors "library/internal/domain/errors"
	"library/internal/domain/repository"
	"library/internal/usecase"
	"library/internal/validation"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// adminService implements the AdminUsecase interface.
type adminService struct {
	txManager     repository.TransactionManager
	accountRepo   repository.AccountRepository
	publisherRepo repository.PublisherRepository
	bookRepo      repository.BookRepository
	memberRepo    repository.MemberRepository
	orderRepo     repository.OrderRepository
	reviewRepo    repository.ReviewRepository
	logger        *slog.Logger
}

// AdminServiceParams holds dependencies for AdminService, injected by Fx.
type AdminServiceParams struct {
	fx.In

	TxManager     repository.TransactionManager
	AccountRepo   repository.AccountRepository
	PublisherRepo repository.PublisherRepository
	BookRepo      repository.BookRepository
	MemberRepo    repository.MemberRepository
	OrderRepo     repository.OrderRepository
	ReviewRepo    repository.ReviewRepository
	Logger        *slog.Logger
}

// NewAdminService is the constructor for adminService.
func NewAdminService(params AdminServiceParams) usecase.AdminUsecase {
	return &adminService{
		txManager:     params.TxManager,
		accountRepo:   params.AccountRepo,
		publisherRepo: params.PublisherRepo,
		bookRepo:      params.BookRepo,
		memberRepo:    params.MemberRepo,
		orderRepo:     params.OrderRepo,
		reviewRepo:    params.ReviewRepo,
		logger:        params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *adminService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// AuthorizeStaff rejects accounts without the staff flag.
func (srv *adminService) AuthorizeStaff(ctx context.Context, accountID uint) error {
	account, err := srv.accountRepo.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return domainerrors.ErrLoginRequired
		}

		return errors.Wrap(err, "failed to load account")
	}

	if !account.IsActive || !account.IsStaff {
		srv.log(ctx).Warn("Admin access denied", slog.Uint64("accountID", uint64(accountID)))

		return domainerrors.ErrForbidden
	}

	return nil
}

func (srv *adminService) ListPublishers(ctx context.Context) ([]*usecase.PublisherRow, error) {
	publishers, err := srv.publisherRepo.List(ctx)
	if err != nil {
		srv.log(ctx).Error("Failed to list publishers", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to list publishers")
	}

	rows := make([]*usecase.PublisherRow, 0, len(publishers))
	for _, p := range publishers {
		rows = append(rows, &usecase.PublisherRow{ID: p.ID, Name: p.Name, Website: p.Website, City: p.City})
	}

	return rows, nil
}

func (srv *adminService) CreatePublisher(ctx context.Context, input usecase.PublisherInput) (*entity.Publisher, error) {
	publisher, err := usecase.ValidatePublisher(input)
	if err != nil {
		return nil, err
	}

	if err := srv.publisherRepo.Create(ctx, publisher); err != nil {
		srv.log(ctx).Error("Failed to create publisher", slog.String("name", publisher.Name), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to create publisher")
	}

	srv.log(ctx).Info("Publisher created", slog.Uint64("publisherID", uint64(publisher.ID)))

	return publisher, nil
}

func (srv *adminService) ListBooks(ctx context.Context) ([]*usecase.BookRow, error) {
	books, err := srv.bookRepo.List(ctx)
	if err != nil {
		srv.log(ctx).Error("Failed to list books", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to list books")
	}

	rows := make([]*usecase.BookRow, 0, len(books))
	for _, b := range books {
		rows = append(rows, &usecase.BookRow{ID: b.ID, Title: b.Title, Category: b.Category.Label(), Price: b.Price})
	}

	return rows, nil
}

func (srv *adminService) CreateBook(ctx context.Context, input usecase.BookInput) (*entity.Book, error) {
	book, err := usecase.ValidateBook(input)
	if err != nil {
		return nil, err
	}

	if err := srv.bookRepo.Create(ctx, book); err != nil {
		if errors.Is(err, repository.ErrPublisherNotFound) {
			return nil, publisherChoiceError()
		}
		srv.log(ctx).Error("Failed to create book", slog.String("title", book.Title), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to create book")
	}

	srv.log(ctx).Info("Book created", slog.Uint64("bookID", uint64(book.ID)))

	return book, nil
}

// UpdateBook replaces the editable fields. The stored review count is kept.
func (srv *adminService) UpdateBook(ctx context.Context, bookID uint, input usecase.BookInput) (*entity.Book, error) {
	changes, err := usecase.ValidateBook(input)
	if err != nil {
		return nil, err
	}

	var updated *entity.Book
	err = srv.txManager.Execute(ctx, func(tx repository.Tx) error {
		bookRepo := tx.Books()

		book, err := bookRepo.FindByID(ctx, bookID)
		if err != nil {
			if errors.Is(err, repository.ErrBookNotFound) {
				return domainerrors.ErrBookNotFound
			}

			return errors.Wrap(err, "failed to find book")
		}

		book.Title = changes.Title
		book.Category = changes.Category
		book.NumPages = changes.NumPages
		book.Price = changes.Price
		book.PublisherID = changes.PublisherID
		book.Publisher = nil
		book.Description = changes.Description

		if err := bookRepo.Update(ctx, book); err != nil {
			if errors.Is(err, repository.ErrPublisherNotFound) {
				return publisherChoiceError()
			}

			return errors.Wrap(err, "failed to update book")
		}
		updated = book

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Failed to update book", slog.Uint64("bookID", uint64(bookID)), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to update book")
	}

	return updated, nil
}

func (srv *adminService) IncreaseBookPrices(ctx context.Context, bookIDs []uint) (int64, error) {
	if len(bookIDs) == 0 {
		fields := validation.FieldErrors{}
		fields.Add("books", "This field is required.")

		return 0, fields.Err()
	}

	changed, err := srv.bookRepo.IncreasePrice(ctx, bookIDs, entity.PriceIncrement)
	if err != nil {
		srv.log(ctx).Error("Failed to increase book prices", slog.Any("bookIDs", bookIDs), slog.Any("error", err))

		return 0, errors.Wrap(err, "failed to increase book prices")
	}

	srv.log(ctx).Info("Book prices increased", slog.Any("bookIDs", bookIDs), slog.Int64("changed", changed), slog.String("amount", entity.PriceIncrement.String()))

	return changed, nil
}

func (srv *adminService) ListMembers(ctx context.Context) ([]*usecase.MemberRow, error) {
	members, err := srv.memberRepo.List(ctx)
	if err != nil {
		srv.log(ctx).Error("Failed to list members", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to list members")
	}

	rows := make([]*usecase.MemberRow, 0, len(members))
	for _, m := range members {
		row := &usecase.MemberRow{
			ID:         m.ID,
			Username:   m.Username(),
			Status:     m.Status.Label(),
			BooksTitle: m.BorrowedTitles(),
		}
		if m.Account != nil {
			row.FirstName = m.Account.FirstName
			row.LastName = m.Account.LastName
		}
		rows = append(rows, row)
	}

	return rows, nil
}

func (srv *adminService) ListOrders(ctx context.Context) ([]*usecase.OrderRow, error) {
	orders, err := srv.orderRepo.List(ctx)
	if err != nil {
		srv.log(ctx).Error("Failed to list orders", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to list orders")
	}

	rows := make([]*usecase.OrderRow, 0, len(orders))
	for _, o := range orders {
		row := &usecase.OrderRow{
			ID:         o.ID,
			OrderType:  o.OrderType.Label(),
			OrderDate:  o.OrderDate,
			TotalItems: o.TotalItems(),
		}
		if o.Member != nil {
			row.Member = o.Member.Username()
		}
		rows = append(rows, row)
	}

	return rows, nil
}

func (srv *adminService) ListReviews(ctx context.Context) ([]*usecase.ReviewRow, error) {
	reviews, err := srv.reviewRepo.List(ctx)
	if err != nil {
		srv.log(ctx).Error("Failed to list reviews", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to list reviews")
	}

	rows := make([]*usecase.ReviewRow, 0, len(reviews))
	for _, r := range reviews {
		row := &usecase.ReviewRow{ID: r.ID, Reviewer: r.Reviewer, Rating: r.Rating, Date: r.Date}
		if r.Book != nil {
			row.Book = r.Book.Title
		}
		rows = append(rows, row)
	}

	return rows, nil
}

func publisherChoiceError() error {
	fields := validation.FieldErrors{}
	fields.Add("publisher", usecase.InvalidChoiceMessage)

	return fields.Err()
}
