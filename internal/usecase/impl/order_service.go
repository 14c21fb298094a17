package impl

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	deliverycontext "library/internal/delivery/context"
	"library/internal/domain/entity"
	domainerrors "library/internal/domain/errors"
	"library/internal/domain/repository"
	"library/internal/usecase"
	"library/internal/validation"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// orderService implements the OrderUsecase interface.
type orderService struct {
	txManager  repository.TransactionManager
	bookRepo   repository.BookRepository
	memberRepo repository.MemberRepository
	orderRepo  repository.OrderRepository
	now        func() time.Time
	logger     *slog.Logger
}

// OrderServiceParams holds dependencies for OrderService, injected by Fx.
type OrderServiceParams struct {
	fx.In

	TxManager  repository.TransactionManager
	BookRepo   repository.BookRepository
	MemberRepo repository.MemberRepository
	OrderRepo  repository.OrderRepository
	Logger     *slog.Logger
}

// NewOrderService is the constructor for orderService.
func NewOrderService(params OrderServiceParams) usecase.OrderUsecase {
	return &orderService{
		txManager:  params.TxManager,
		bookRepo:   params.BookRepo,
		memberRepo: params.MemberRepo,
		orderRepo:  params.OrderRepo,
		now:        time.Now,
		logger:     params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *orderService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// OrderForm lists the books and order types a member can choose from.
func (srv *orderService) OrderForm(ctx context.Context) (*usecase.OrderForm, error) {
	books, err := srv.bookRepo.List(ctx)
	if err != nil {
		srv.log(ctx).Error("Failed to list books for order form", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to list books")
	}

	orderTypes := make([]usecase.Choice, 0, len(entity.OrderTypes))
	for _, t := range entity.OrderTypes {
		orderTypes = append(orderTypes, usecase.Choice{Value: strconv.Itoa(int(t)), Label: t.Label()})
	}

	return &usecase.OrderForm{Books: books, OrderTypes: orderTypes}, nil
}

// PlaceOrder creates the order and, for a borrow, adds its books to the
// member's borrowed set. Both writes share one transaction.
func (srv *orderService) PlaceOrder(ctx context.Context, accountID uint, input usecase.OrderInput) (*usecase.PlaceOrderOutput, error) {
	req, err := usecase.ValidateOrder(input)
	if err != nil {
		return nil, err
	}

	var placed *entity.Order
	err = srv.txManager.Execute(ctx, func(tx repository.Tx) error {
		member, err := tx.Members().FindByAccountID(ctx, accountID)
		if err != nil {
			if errors.Is(err, repository.ErrMemberNotFound) {
				return domainerrors.ErrMemberNotFound
			}

			return errors.Wrap(err, "failed to find member")
		}

		books, err := tx.Books().FindByIDs(ctx, req.BookIDs)
		if err != nil {
			return errors.Wrap(err, "failed to find ordered books")
		}
		if len(books) != len(req.BookIDs) {
			fields := validation.FieldErrors{}
			fields.Add("books", usecase.InvalidChoiceMessage)

			return fields.Err()
		}

		order := &entity.Order{
			MemberID:  member.ID,
			OrderType: req.OrderType,
			OrderDate: srv.now(),
			Books:     books,
		}
		if err := tx.Orders().Create(ctx, order); err != nil {
			return errors.Wrap(err, "failed to create order")
		}

		if order.OrderType == entity.OrderTypeBorrow {
			if err := tx.Members().AddBorrowedBooks(ctx, member.ID, order.BookIDs()); err != nil {
				return errors.Wrap(err, "failed to add borrowed books")
			}
		}
		order.Member = member
		placed = order

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Failed to place order", slog.Uint64("accountID", uint64(accountID)), slog.Any("bookIDs", req.BookIDs), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to place order")
	}

	srv.log(ctx).Info("Order placed",
		slog.Uint64("orderID", uint64(placed.ID)),
		slog.Uint64("memberID", uint64(placed.MemberID)),
		slog.String("orderType", placed.OrderType.Label()),
		slog.Int("totalItems", placed.TotalItems()),
	)

	return &usecase.PlaceOrderOutput{Order: placed, Books: placed.Books}, nil
}

// MyOrders lists the member's orders with their joined book titles.
func (srv *orderService) MyOrders(ctx context.Context, accountID uint) ([]*usecase.MemberOrder, error) {
	member, err := srv.memberRepo.FindByAccountID(ctx, accountID)
	if err != nil {
		if errors.Is(err, repository.ErrMemberNotFound) {
			srv.log(ctx).Warn("No member for account", slog.Uint64("accountID", uint64(accountID)))

			return nil, domainerrors.ErrNoAvailableOrders
		}
		srv.log(ctx).Error("Failed to find member", slog.Uint64("accountID", uint64(accountID)), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to find member")
	}

	orders, err := srv.orderRepo.ListByMember(ctx, member.ID)
	if err != nil {
		srv.log(ctx).Error("Failed to list member orders", slog.Uint64("memberID", uint64(member.ID)), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to list member orders")
	}

	out := make([]*usecase.MemberOrder, 0, len(orders))
	for _, o := range orders {
		out = append(out, &usecase.MemberOrder{Order: o, Titles: o.Titles()})
	}

	return out, nil
}
