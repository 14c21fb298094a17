package impl

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	deliverycontext "library/internal/delivery/context"
	"library/internal/domain/entity"
	domainerrors "library/internal/domain/errors"
	"library/internal/domain/repository"
	"library/internal/domain/service"
	"library/internal/usecase"
	"library/internal/validation"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// memberService implements the MemberUsecase interface.
type memberService struct {
	txManager    repository.TransactionManager
	accountRepo  repository.AccountRepository
	hasher       service.PasswordHasher
	tokenService service.SessionTokenService
	images       service.ImageStore
	now          func() time.Time
	logger       *slog.Logger
}

// MemberServiceParams holds dependencies for MemberService, injected by Fx.
type MemberServiceParams struct {
	fx.In

	TxManager    repository.TransactionManager
	AccountRepo  repository.AccountRepository
	Hasher       service.PasswordHasher
	TokenService service.SessionTokenService
	Images       service.ImageStore
	Logger       *slog.Logger
}

// NewMemberService is the constructor for memberService.
func NewMemberService(params MemberServiceParams) usecase.MemberUsecase {
	return &memberService{
		txManager:    params.TxManager,
		accountRepo:  params.AccountRepo,
		hasher:       params.Hasher,
		tokenService: params.TokenService,
		images:       params.Images,
		now:          time.Now,
		logger:       params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *memberService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Login checks the credentials and issues a session. A disabled account is
// reported only after the password matched.
func (srv *memberService) Login(ctx context.Context, input usecase.LoginInput) (*usecase.LoginOutput, error) {
	if err := usecase.ValidateLogin(input); err != nil {
		return nil, err
	}

	account, err := srv.accountRepo.FindByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			srv.log(ctx).Warn("Login failed", slog.String("username", input.Username), slog.Any("error", domainerrors.ErrInvalidCredentials))

			return nil, domainerrors.ErrInvalidCredentials
		}
		srv.log(ctx).Error("Failed to load account", slog.String("username", input.Username), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to load account")
	}

	// bcrypt is CPU-bound, keep it outside any transaction.
	if !srv.hasher.Check(input.Password, account.PasswordHash) {
		srv.log(ctx).Warn("Login failed", slog.String("username", input.Username), slog.Any("error", domainerrors.ErrInvalidCredentials))

		return nil, domainerrors.ErrInvalidCredentials
	}

	if !account.IsActive {
		srv.log(ctx).Warn("Login failed", slog.Uint64("accountID", uint64(account.ID)), slog.Any("error", domainerrors.ErrAccountDisabled))

		return nil, domainerrors.ErrAccountDisabled
	}

	loginAt := srv.now().Truncate(time.Second)
	token, session, err := srv.tokenService.Issue(account.ID, loginAt)
	if err != nil {
		srv.log(ctx).Error("Failed to issue session", slog.Uint64("accountID", uint64(account.ID)), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to issue session")
	}

	if err := srv.accountRepo.UpdateLastLogin(ctx, account.ID, loginAt); err != nil {
		srv.log(ctx).Error("Failed to record last login", slog.Uint64("accountID", uint64(account.ID)), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to record last login")
	}
	account.LastLoginAt = &loginAt

	srv.log(ctx).Debug("Account logged in", slog.Uint64("accountID", uint64(account.ID)), slog.String("lastLogin", session.LastLogin))

	return &usecase.LoginOutput{Token: token, Session: session, Account: account}, nil
}

// Authenticate resolves a session token to the active account it names.
func (srv *memberService) Authenticate(ctx context.Context, token string) (*entity.Session, *entity.Account, error) {
	session, err := srv.tokenService.Parse(token)
	if err != nil {
		srv.log(ctx).Debug("Session rejected", slog.Any("error", err))

		return nil, nil, domainerrors.ErrLoginRequired
	}

	account, err := srv.accountRepo.FindByID(ctx, session.AccountID)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, nil, domainerrors.ErrLoginRequired
		}

		return nil, nil, errors.Wrap(err, "failed to load session account")
	}
	if !account.IsActive {
		return nil, nil, domainerrors.ErrLoginRequired
	}

	return session, account, nil
}

// RegisterForm lists the member statuses for the registration form.
func (srv *memberService) RegisterForm() *usecase.RegisterForm {
	statuses := make([]usecase.Choice, 0, len(entity.MemberStatuses))
	for _, s := range entity.MemberStatuses {
		statuses = append(statuses, usecase.Choice{Value: strconv.Itoa(int(s)), Label: s.Label()})
	}

	return &usecase.RegisterForm{Statuses: statuses}
}

// Register creates the account and its member profile. A stored profile
// image is removed again when the records cannot be written.
func (srv *memberService) Register(ctx context.Context, input usecase.RegisterInput) (*entity.Member, error) {
	cleaned, err := srv.validateRegistration(ctx, input)
	if err != nil {
		return nil, err
	}

	passwordHash, err := srv.hasher.Hash(cleaned.Password1)
	if err != nil {
		srv.log(ctx).Error("Failed to hash password during registration", slog.Any("error", err))

		return nil, errors.Wrap(domainerrors.ErrPasswordHashFailed, err.Error())
	}

	imageKey := ""
	if cleaned.ProfileImage != nil {
		imageKey, err = srv.images.Save(ctx, cleaned.ProfileImage.Filename, cleaned.ProfileImage.Content)
		if err != nil {
			srv.log(ctx).Error("Failed to store profile image", slog.String("filename", cleaned.ProfileImage.Filename), slog.Any("error", err))

			return nil, errors.Wrap(err, "failed to store profile image")
		}
	}

	now := srv.now()
	account := &entity.Account{
		Username:     cleaned.Username,
		PasswordHash: passwordHash,
		FirstName:    cleaned.FirstName,
		LastName:     cleaned.LastName,
		Email:        cleaned.Email,
		IsActive:     true,
		DateJoined:   now,
	}
	member := entity.NewMember(now)
	member.Status = cleaned.MemberStatus()
	member.Address = cleaned.Address
	member.City = cleaned.City
	member.Province = cleaned.Province
	member.AutoRenew = cleaned.AutoRenew
	member.ProfileImage = imageKey

	err = srv.txManager.Execute(ctx, func(tx repository.Tx) error {
		if err := tx.Accounts().Create(ctx, account); err != nil {
			if errors.Is(err, repository.ErrUsernameTaken) {
				return registerValidationError(validation.FieldErrors{"username": usecase.UsernameTakenMessage})
			}

			return errors.Wrap(err, "failed to create account")
		}

		member.AccountID = account.ID
		if err := tx.Members().Create(ctx, member); err != nil {
			return errors.Wrap(err, "failed to create member")
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to execute registration transaction", slog.String("username", cleaned.Username), slog.Any("error", err))
		srv.discardImage(ctx, imageKey)

		return nil, errors.Wrap(err, "failed to execute member registration transaction")
	}

	member.Account = account
	srv.log(ctx).Info("Member registered", slog.Uint64("memberID", uint64(member.ID)), slog.String("username", account.Username))

	return member, nil
}

// validateRegistration merges the form errors with the username uniqueness check.
func (srv *memberService) validateRegistration(ctx context.Context, input usecase.RegisterInput) (*usecase.RegisterInput, error) {
	fields := validation.FieldErrors{}

	cleaned, err := usecase.ValidateRegister(input, srv.hasher)
	if err != nil {
		var validationErr *domainerrors.ValidationError
		if !errors.As(err, &validationErr) {
			return nil, err
		}
		for field, msg := range validationErr.Fields() {
			fields.Add(field, msg)
		}
	}

	if !fields.Has("username") {
		taken, err := srv.accountRepo.ExistsByUsername(ctx, strings.TrimSpace(input.Username))
		if err != nil {
			srv.log(ctx).Error("Failed to check username", slog.String("username", input.Username), slog.Any("error", err))

			return nil, errors.Wrap(err, "failed to check username")
		}
		if taken {
			fields.Add("username", usecase.UsernameTakenMessage)
		}
	}

	if len(fields) > 0 {
		srv.log(ctx).Warn("Invalid registration form data", slog.String("username", input.Username), slog.Any("fields", fields))

		return nil, registerValidationError(fields)
	}

	return cleaned, nil
}

func (srv *memberService) discardImage(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := srv.images.Delete(ctx, key); err != nil {
		srv.log(ctx).Warn("Failed to remove orphaned profile image", slog.String("key", key), slog.Any("error", err))
	}
}

func registerValidationError(fields validation.FieldErrors) error {
	return domainerrors.NewValidationError(fields).WithMessage(usecase.RegisterFailedMessage)
}
