package postgres

import (
	"context"
	"time"

	"library/internal/domain/entity"
	"library/internal/domain/repository"
	"library/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/plugin/dbresolver"
)

// accountRepository implements the domain.AccountRepository interface using GORM.
type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository is the constructor for accountRepository.
func NewAccountRepository(db *gorm.DB) repository.AccountRepository {
	return &accountRepository{db: db}
}

func (repo *accountRepository) FindByID(ctx context.Context, id uint) (*entity.Account, error) {
	var accountM model.AccountModel
	err := repo.db.WithContext(WithOperation(ctx, "account.find")).First(&accountM, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrAccountNotFound
		}

		return nil, errors.Wrap(err, "failed to find account by id")
	}

	return toAccountDomain(&accountM), nil
}

// FindByUsername reads from the primary so a login right after registration sees the new account.
func (repo *accountRepository) FindByUsername(ctx context.Context, username string) (*entity.Account, error) {
	var accountM model.AccountModel
	err := repo.db.WithContext(WithOperation(ctx, "account.find_by_username")).
		Clauses(dbresolver.Write).
		Where("username = ?", username).
		First(&accountM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrAccountNotFound
		}

		return nil, errors.Wrap(err, "failed to find account by username")
	}

	return toAccountDomain(&accountM), nil
}

func (repo *accountRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var count int64
	if err := repo.db.WithContext(WithOperation(ctx, "account.exists")).
		Clauses(dbresolver.Write).
		Model(&model.AccountModel{}).
		Where("username = ?", username).
		Count(&count).Error; err != nil {
		return false, errors.Wrap(err, "failed to check username")
	}

	return count > 0, nil
}

func (repo *accountRepository) Create(ctx context.Context, account *entity.Account) error {
	accountM := fromAccountDomain(account)
	if err := repo.db.WithContext(WithOperation(ctx, "account.create")).Create(accountM).Error; err != nil {
		if violated(err) == uniqueConstraint {
			return repository.ErrUsernameTaken
		}

		return errors.Wrap(err, "failed to create account")
	}
	account.ID = accountM.ID

	return nil
}

func (repo *accountRepository) UpdateLastLogin(ctx context.Context, id uint, at time.Time) error {
	result := repo.db.WithContext(WithOperation(ctx, "account.update_last_login")).
		Model(&model.AccountModel{}).
		Where("id = ?", id).
		UpdateColumn("last_login_at", at)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to update last login")
	}
	if result.RowsAffected == 0 {
		return repository.ErrAccountNotFound
	}

	return nil
}

// memberRepository implements the domain.MemberRepository interface using GORM.
type memberRepository struct {
	db *gorm.DB
}

// NewMemberRepository is the constructor for memberRepository.
func NewMemberRepository(db *gorm.DB) repository.MemberRepository {
	return &memberRepository{db: db}
}

func (repo *memberRepository) FindByAccountID(ctx context.Context, accountID uint) (*entity.Member, error) {
	var memberM model.MemberModel
	err := repo.db.WithContext(WithOperation(ctx, "member.find_by_account")).
		Preload("Account").
		Preload("BorrowedBooks", orderBooksByID).
		Where("account_id = ?", accountID).
		First(&memberM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrMemberNotFound
		}

		return nil, errors.Wrap(err, "failed to find member by account")
	}

	return toMemberDomain(&memberM), nil
}

func (repo *memberRepository) List(ctx context.Context) ([]*entity.Member, error) {
	var memberMs []*model.MemberModel
	if err := repo.db.WithContext(WithOperation(ctx, "member.list")).
		Preload("Account").
		Preload("BorrowedBooks", orderBooksByID).
		Order("id ASC").
		Find(&memberMs).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list members")
	}

	members := make([]*entity.Member, 0, len(memberMs))
	for _, m := range memberMs {
		members = append(members, toMemberDomain(m))
	}

	return members, nil
}

func (repo *memberRepository) Create(ctx context.Context, member *entity.Member) error {
	memberM := fromMemberDomain(member)
	if err := repo.db.WithContext(WithOperation(ctx, "member.create")).
		Omit(clause.Associations).
		Create(memberM).Error; err != nil {
		if violated(err) == uniqueConstraint {
			return errors.Wrap(err, "account already has a member profile")
		}
		if violated(err) == foreignKeyConstraint {
			return repository.ErrAccountNotFound
		}

		return errors.Wrap(err, "failed to create member")
	}
	member.ID = memberM.ID

	return nil
}

// AddBorrowedBooks inserts join rows, skipping books already borrowed.
func (repo *memberRepository) AddBorrowedBooks(ctx context.Context, memberID uint, bookIDs []uint) error {
	if len(bookIDs) == 0 {
		return nil
	}

	rows := make([]model.MemberBorrowedBookModel, 0, len(bookIDs))
	for _, id := range bookIDs {
		rows = append(rows, model.MemberBorrowedBookModel{MemberID: memberID, BookID: id})
	}

	if err := repo.db.WithContext(WithOperation(ctx, "member.add_borrowed")).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rows).Error; err != nil {
		if violated(err) == foreignKeyConstraint {
			return repository.ErrBookNotFound
		}

		return errors.Wrap(err, "failed to add borrowed books")
	}

	return nil
}

// --- Mapper Functions ---

func toAccountDomain(data *model.AccountModel) *entity.Account {
	if data == nil {
		return nil
	}

	return &entity.Account{
		ID:           data.ID,
		Username:     data.Username,
		PasswordHash: data.PasswordHash,
		FirstName:    data.FirstName,
		LastName:     data.LastName,
		Email:        data.Email,
		IsActive:     data.IsActive,
		IsStaff:      data.IsStaff,
		LastLoginAt:  data.LastLoginAt,
		DateJoined:   data.DateJoined,
	}
}

func fromAccountDomain(data *entity.Account) *model.AccountModel {
	return &model.AccountModel{
		ID:           data.ID,
		Username:     data.Username,
		PasswordHash: data.PasswordHash,
		FirstName:    data.FirstName,
		LastName:     data.LastName,
		Email:        data.Email,
		IsActive:     data.IsActive,
		IsStaff:      data.IsStaff,
		LastLoginAt:  data.LastLoginAt,
		DateJoined:   data.DateJoined,
	}
}

func toMemberDomain(data *model.MemberModel) *entity.Member {
	if data == nil {
		return nil
	}

	return &entity.Member{
		ID:            data.ID,
		AccountID:     data.AccountID,
		Account:       toAccountDomain(data.Account),
		Status:        entity.MemberStatus(data.Status),
		Address:       data.Address,
		City:          data.City,
		Province:      data.Province,
		LastRenewal:   data.LastRenewal,
		AutoRenew:     data.AutoRenew,
		ProfileImage:  data.ProfileImage,
		BorrowedBooks: toBookDomains(data.BorrowedBooks),
	}
}

func fromMemberDomain(data *entity.Member) *model.MemberModel {
	return &model.MemberModel{
		ID:           data.ID,
		AccountID:    data.AccountID,
		Status:       int(data.Status),
		Address:      data.Address,
		City:         data.City,
		Province:     data.Province,
		LastRenewal:  data.LastRenewal,
		AutoRenew:    data.AutoRenew,
		ProfileImage: data.ProfileImage,
	}
}
