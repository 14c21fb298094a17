package impl

import (
	"context"
	"testing"

	"library/internal/domain/entity"
	domainerrors "library/internal/domain/errors"
	"library/internal/infra/persistence/model"
	"library/internal/infra/persistence/postgres"
	"library/internal/usecase"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderService_PlaceBorrowOrder(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil)
	publisher := env.publisher(t)
	b1 := env.book(t, publisher.ID, "B1-title", entity.CategoryFiction, "10.00")
	b2 := env.book(t, publisher.ID, "B2-title", entity.CategoryTravel, "12.00")
	account := env.account(t, "reader", "irrelevant-pass", true, entity.MemberStatusRegular)

	out, err := env.orders.PlaceOrder(ctx, account.ID, usecase.OrderInput{Books: []uint{b2.ID, b1.ID, b1.ID}, OrderType: "1"})
	require.NoError(t, err)
	assert.NotZero(t, out.Order.ID)
	assert.Equal(t, entity.OrderTypeBorrow, out.Order.OrderType)
	assert.Equal(t, env.now, out.Order.OrderDate)
	assert.Equal(t, 2, out.Order.TotalItems())
	assert.Equal(t, []uint{b1.ID, b2.ID}, bookIDs(out.Books))

	member, err := postgres.NewMemberRepository(env.db).FindByAccountID(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{b1.ID, b2.ID}, bookIDs(member.BorrowedBooks))

	orders, err := env.orders.MyOrders(ctx, account.ID)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, out.Order.ID, orders[0].Order.ID)
	assert.Equal(t, "B1-title, B2-title", orders[0].Titles)
}

func TestOrderService_PlacePurchaseOrder(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil)
	publisher := env.publisher(t)
	book := env.book(t, publisher.ID, "Only", entity.CategoryOther, "3.00")
	account := env.account(t, "buyer", "irrelevant-pass", true, entity.MemberStatusPremium)

	_, err := env.orders.PlaceOrder(ctx, account.ID, usecase.OrderInput{Books: []uint{book.ID}, OrderType: "0"})
	require.NoError(t, err)

	member, err := postgres.NewMemberRepository(env.db).FindByAccountID(ctx, account.ID)
	require.NoError(t, err)
	assert.Empty(t, member.BorrowedBooks)
}

func TestOrderService_PlaceOrderErrors(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil)
	publisher := env.publisher(t)
	book := env.book(t, publisher.ID, "Only", entity.CategoryOther, "3.00")
	account := env.account(t, "reader", "irrelevant-pass", true, entity.MemberStatusRegular)
	noMember := env.account(t, "staffonly", "irrelevant-pass", true, 0)

	tests := []struct {
		name      string
		accountID uint
		input     usecase.OrderInput
		field     string
		want      error
	}{
		{name: "no books", accountID: account.ID, input: usecase.OrderInput{OrderType: "1"}, field: "books"},
		{name: "no order type", accountID: account.ID, input: usecase.OrderInput{Books: []uint{book.ID}}, field: "order_type"},
		{name: "unknown order type", accountID: account.ID, input: usecase.OrderInput{Books: []uint{book.ID}, OrderType: "7"}, field: "order_type"},
		{name: "unknown book", accountID: account.ID, input: usecase.OrderInput{Books: []uint{book.ID, 999}, OrderType: "1"}, field: "books"},
		{name: "no member", accountID: noMember.ID, input: usecase.OrderInput{Books: []uint{book.ID}, OrderType: "1"}, want: domainerrors.ErrMemberNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.orders.PlaceOrder(ctx, tt.accountID, tt.input)
			require.Error(t, err)

			if tt.want != nil {
				assert.True(t, errors.Is(err, tt.want))

				return
			}

			var validationErr *domainerrors.ValidationError
			require.True(t, errors.As(err, &validationErr))
			assert.Contains(t, validationErr.Fields(), tt.field)
		})
	}

	var count int64
	require.NoError(t, env.db.Model(&model.OrderModel{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestOrderService_MyOrders(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil)

	t.Run("account without member", func(t *testing.T) {
		account := env.account(t, "ghost", "irrelevant-pass", true, 0)

		_, err := env.orders.MyOrders(ctx, account.ID)
		assert.True(t, errors.Is(err, domainerrors.ErrNoAvailableOrders))
	})

	t.Run("member without orders", func(t *testing.T) {
		account := env.account(t, "fresh", "irrelevant-pass", true, entity.MemberStatusRegular)

		orders, err := env.orders.MyOrders(ctx, account.ID)
		require.NoError(t, err)
		assert.Empty(t, orders)
	})
}

func TestOrderService_OrderForm(t *testing.T) {
	env := newTestEnv(t, nil)
	publisher := env.publisher(t)
	env.book(t, publisher.ID, "Only", entity.CategoryOther, "3.00")

	form, err := env.orders.OrderForm(context.Background())
	require.NoError(t, err)
	assert.Len(t, form.Books, 1)
	assert.Equal(t, []usecase.Choice{{Value: "0", Label: "Purchase"}, {Value: "1", Label: "Borrow"}}, form.OrderTypes)
}
