package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"library/internal/domain/entity"
	"library/internal/domain/service"
	"library/internal/infra/auth"
	"library/internal/infra/persistence/postgres"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testSecret = "test-session-secret"

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testEnv wires the services to an in-memory SQLite store.
type testEnv struct {
	db     *gorm.DB
	hasher service.PasswordHasher
	now    time.Time

	catalog *catalogService
	orders  *orderService
	reviews *reviewService
	members *memberService
	admin   *adminService
}

func newTestEnv(t *testing.T, images service.ImageStore) *testEnv {
	t.Helper()

	db, err := postgres.OpenSQLite(":memory:")
	require.NoError(t, err)
	db = db.Session(&gorm.Session{Logger: logger.Discard})
	require.NoError(t, postgres.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	env := &testEnv{
		db:     db,
		hasher: auth.NewBcryptHasherWithCost(bcrypt.MinCost, auth.PasswordRules{}),
		now:    time.Date(2024, 3, 15, 10, 30, 45, 0, time.UTC),
	}
	clock := func() time.Time { return env.now }

	txManager := postgres.NewTransactionManager(db)
	bookRepo := postgres.NewBookRepository(db)
	reviewRepo := postgres.NewReviewRepository(db)
	memberRepo := postgres.NewMemberRepository(db)
	accountRepo := postgres.NewAccountRepository(db)
	orderRepo := postgres.NewOrderRepository(db)
	log := newDiscardLogger()

	env.catalog = NewCatalogService(CatalogServiceParams{BookRepo: bookRepo, ReviewRepo: reviewRepo, Logger: log}).(*catalogService)

	env.orders = NewOrderService(OrderServiceParams{
		TxManager: txManager, BookRepo: bookRepo, MemberRepo: memberRepo, OrderRepo: orderRepo, Logger: log,
	}).(*orderService)
	env.orders.now = clock

	env.reviews = NewReviewService(ReviewServiceParams{TxManager: txManager, MemberRepo: memberRepo, Logger: log}).(*reviewService)
	env.reviews.now = clock

	env.members = NewMemberService(MemberServiceParams{
		TxManager:    txManager,
		AccountRepo:  accountRepo,
		Hasher:       env.hasher,
		TokenService: auth.NewJWTServiceWithClock(testSecret, clock),
		Images:       images,
		Logger:       log,
	}).(*memberService)
	env.members.now = clock

	env.admin = NewAdminService(AdminServiceParams{
		TxManager:     txManager,
		AccountRepo:   accountRepo,
		PublisherRepo: postgres.NewPublisherRepository(db),
		BookRepo:      bookRepo,
		MemberRepo:    memberRepo,
		OrderRepo:     orderRepo,
		ReviewRepo:    reviewRepo,
		Logger:        log,
	}).(*adminService)

	return env
}

func (env *testEnv) publisher(t *testing.T) *entity.Publisher {
	t.Helper()

	publisher := &entity.Publisher{Name: "Penguin", Website: "https://penguin.example", City: "London", Country: "UK"}
	require.NoError(t, postgres.NewPublisherRepository(env.db).Create(context.Background(), publisher))

	return publisher
}

func (env *testEnv) book(t *testing.T, publisherID uint, title string, category entity.Category, price string) *entity.Book {
	t.Helper()

	book := &entity.Book{
		Title:       title,
		Category:    category,
		NumPages:    entity.DefaultNumPages,
		Price:       decimal.RequireFromString(price),
		PublisherID: publisherID,
	}
	require.NoError(t, postgres.NewBookRepository(env.db).Create(context.Background(), book))

	return book
}

// account creates an account with a real password hash. A non-zero status also creates its member.
func (env *testEnv) account(t *testing.T, username, password string, active bool, status entity.MemberStatus) *entity.Account {
	t.Helper()
	ctx := context.Background()

	hash, err := env.hasher.Hash(password)
	require.NoError(t, err)

	account := &entity.Account{Username: username, PasswordHash: hash, IsActive: active, DateJoined: env.now}
	require.NoError(t, postgres.NewAccountRepository(env.db).Create(ctx, account))

	if status != 0 {
		member := entity.NewMember(env.now)
		member.AccountID = account.ID
		member.Status = status
		require.NoError(t, postgres.NewMemberRepository(env.db).Create(ctx, member))
	}

	return account
}
