package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"library/config"
	"library/internal/infra/persistence/postgres"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestApp(t *testing.T) *app {
	t.Helper()

	db, err := postgres.OpenSQLite(":memory:")
	require.NoError(t, err)
	db = db.Session(&gorm.Session{Logger: logger.Discard})
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	cfg := &config.Config{Auth: &config.AuthConfig{BcryptCost: 4}}

	return &app{cfg: cfg, logger: slog.New(slog.NewTextHandler(io.Discard, nil)), db: db}
}

// run executes one command. The app is not closed so later runs see the same in-memory database.
func run(t *testing.T, a *app, stdin string, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd(func() (*app, error) { return a, nil })
	cmd.PersistentPostRunE = nil
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(io.Discard)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())

	return out.String(), err
}

func TestMigrateSeedAndIncrease(t *testing.T) {
	a := newTestApp(t)

	out, err := run(t, a, "", "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "Schema migrated in")

	out, err = run(t, a, "", "seed")
	require.NoError(t, err)
	assert.Equal(t, "Seeded 5 books from Demo Press\n", out)

	out, err = run(t, a, "", "increase-price", "1", "2")
	require.NoError(t, err)
	assert.Equal(t, "2 book(s) updated\n", out)

	book, err := postgres.NewBookRepository(a.db).FindByID(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("28.99").Equal(book.Price), book.Price.String())

	_, err = run(t, a, "", "increase-price", "abc")
	assert.ErrorContains(t, err, `invalid book id "abc"`)
}

func TestCreateSuperuser(t *testing.T) {
	a := newTestApp(t)
	_, err := run(t, a, "", "migrate")
	require.NoError(t, err)

	out, err := run(t, a, "Tr1cky-Passphrase\nTr1cky-Passphrase\n", "createsuperuser", "--username", "boss")
	require.NoError(t, err)
	assert.Contains(t, out, `Superuser "boss" created`)

	account, err := postgres.NewAccountRepository(a.db).FindByUsername(context.Background(), "boss")
	require.NoError(t, err)
	assert.True(t, account.IsStaff)
	assert.True(t, account.IsActive)

	_, err = run(t, a, "Tr1cky-Passphrase\nTr1cky-Passphrase\n", "createsuperuser", "--username", "boss")
	assert.EqualError(t, err, "A user with that username already exists.")

	_, err = run(t, a, "Tr1cky-Passphrase\nsomething-else\n", "createsuperuser", "--username", "other")
	assert.EqualError(t, err, "The two password fields didn't match.")

	_, err = run(t, a, "12345678\n12345678\n", "createsuperuser", "--username", "other")
	assert.Error(t, err)
}

func TestParseIDs(t *testing.T) {
	ids, err := parseIDs([]string{"3", "10"})
	require.NoError(t, err)
	assert.Equal(t, []uint{3, 10}, ids)

	_, err = parseIDs([]string{"0"})
	assert.Error(t, err)
}
