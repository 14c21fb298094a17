package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"library/internal/domain/entity"
	"library/internal/domain/repository"
	"library/internal/infra/auth"
	"library/internal/infra/persistence/postgres"
	"library/internal/usecase"
	"library/internal/usecase/impl"
	"library/internal/util"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newRootCmd(open func() (*app, error)) *cobra.Command {
	var a *app

	root := &cobra.Command{
		Use:           "libadmin",
		Short:         "Maintenance tasks for the library catalog",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			opened, err := open()
			if err != nil {
				return errors.Wrap(err, "open application")
			}
			a = opened

			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			if a == nil {
				return nil
			}

			return a.Close()
		},
	}

	current := func() *app { return a }
	root.AddCommand(
		newMigrateCmd(current),
		newCreateSuperuserCmd(current),
		newIncreasePriceCmd(current),
		newSeedCmd(current),
	)

	return root
}

func newMigrateCmd(current func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			start := time.Now()
			if err := postgres.Migrate(current().db); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Schema migrated in %s\n", util.FormatDuration(time.Since(start)))

			return nil
		},
	}
}

func newCreateSuperuserCmd(current func() *app) *cobra.Command {
	var username, email string

	cmd := &cobra.Command{
		Use:   "createsuperuser",
		Short: "Create a staff account for the back office",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := current()
			username = strings.TrimSpace(username)
			if username == "" {
				return errors.New("--username is required")
			}

			prompt := newPasswordPrompt(cmd.InOrStdin(), cmd.ErrOrStderr())
			password, err := prompt.read("Password: ")
			if err != nil {
				return err
			}
			again, err := prompt.read("Password (again): ")
			if err != nil {
				return err
			}
			if password != again {
				return errors.New(usecase.PasswordMismatchMessage)
			}

			hasher := auth.NewBcryptHasher(a.cfg)
			if problems := hasher.ValidateStrength(password, username); len(problems) > 0 {
				return errors.New(strings.Join(problems, " "))
			}
			hash, err := hasher.Hash(password)
			if err != nil {
				return errors.Wrap(err, "hash password")
			}

			account := &entity.Account{
				Username:     username,
				PasswordHash: hash,
				Email:        email,
				IsActive:     true,
				IsStaff:      true,
				DateJoined:   time.Now(),
			}
			if err := postgres.NewAccountRepository(a.db).Create(cmd.Context(), account); err != nil {
				if errors.Is(err, repository.ErrUsernameTaken) {
					return errors.New(usecase.UsernameTakenMessage)
				}

				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Superuser %q created (id %d)\n", account.Username, account.ID)

			return nil
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "login name of the staff account")
	cmd.Flags().StringVar(&email, "email", "", "contact email")

	return cmd
}

func newIncreasePriceCmd(current func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "increase-price BOOK_ID...",
		Short: "Add " + entity.PriceIncrement.String() + " to the price of each listed book",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}

			updated, err := newAdminUsecase(current()).IncreaseBookPrices(cmd.Context(), ids)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d book(s) updated\n", updated)

			return nil
		},
	}
}

// seedBook is one entry of the demo catalog.
type seedBook struct {
	title    string
	category entity.Category
	price    string
}

var seedPublisher = usecase.PublisherInput{Name: "Demo Press", Website: "https://demo-press.example", City: "Windsor", Country: "Canada"}

var seedBooks = []seedBook{
	{title: "A Brief History of Time", category: entity.CategoryScience, price: "18.99"},
	{title: "Dune", category: entity.CategoryFiction, price: "12.50"},
	{title: "Steve Jobs", category: entity.CategoryBiography, price: "22.00"},
	{title: "In a Sunburned Country", category: entity.CategoryTravel, price: "15.75"},
	{title: "The Pragmatic Programmer", category: entity.CategoryScience, price: "39.95"},
}

func newSeedCmd(current func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load a small demo catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			admin := newAdminUsecase(current())

			publisher, err := admin.CreatePublisher(cmd.Context(), seedPublisher)
			if err != nil {
				return err
			}

			for _, b := range seedBooks {
				if _, err := admin.CreateBook(cmd.Context(), usecase.BookInput{
					Title:     b.title,
					Category:  b.category.String(),
					Price:     b.price,
					Publisher: publisher.ID,
				}); err != nil {
					return errors.Wrapf(err, "seed %q", b.title)
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d books from %s\n", len(seedBooks), publisher.Name)

			return nil
		},
	}
}

func newAdminUsecase(a *app) usecase.AdminUsecase {
	return impl.NewAdminService(impl.AdminServiceParams{
		TxManager:     postgres.NewTransactionManager(a.db),
		AccountRepo:   postgres.NewAccountRepository(a.db),
		PublisherRepo: postgres.NewPublisherRepository(a.db),
		BookRepo:      postgres.NewBookRepository(a.db),
		MemberRepo:    postgres.NewMemberRepository(a.db),
		OrderRepo:     postgres.NewOrderRepository(a.db),
		ReviewRepo:    postgres.NewReviewRepository(a.db),
		Logger:        a.logger,
	})
}

func parseIDs(args []string) ([]uint, error) {
	ids := make([]uint, 0, len(args))
	for _, arg := range args {
		id, err := strconv.ParseUint(arg, 10, 32)
		if err != nil || id == 0 {
			return nil, errors.Errorf("invalid book id %q", arg)
		}
		ids = append(ids, uint(id))
	}

	return ids, nil
}

// passwordPrompt hides input on a terminal and reads plain lines otherwise.
type passwordPrompt struct {
	in     io.Reader
	out    io.Writer
	reader *bufio.Reader
}

func newPasswordPrompt(in io.Reader, out io.Writer) *passwordPrompt {
	return &passwordPrompt{in: in, out: out, reader: bufio.NewReader(in)}
}

func (p *passwordPrompt) read(label string) (string, error) {
	fmt.Fprint(p.out, label)

	if f, ok := p.in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		password, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(p.out)
		if err != nil {
			return "", errors.Wrap(err, "read password")
		}

		return string(password), nil
	}

	line, err := p.reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", errors.Wrap(err, "read password")
	}

	return strings.TrimRight(line, "\r\n"), nil
}
