package repo

import (
	"context"

	"docsmith/be/biz/model/convert"
	"docsmith/be/biz/model/domain"
	"docsmith/be/biz/model/storage"

	"gorm.io/gorm"
)

// UserRepository hides the store behind domain types. Lookups return
// (nil, nil) on a clean miss; an error always means the store itself failed.
type UserRepository interface {
	Create(ctx context.Context, u *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id uint) (*domain.User, error)
	FindByProviderID(ctx context.Context, providerID string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// Save persists keyed by the primary key only. Updating through any
	// other column risks minting a second row for the same identity.
	Save(ctx context.Context, u *domain.User) (*domain.User, error)
}

type userRepositoryGorm struct {
	db *gorm.DB
}

func NewUserRepositoryGorm(db *gorm.DB) UserRepository {
	return &userRepositoryGorm{db: db}
}

func (r *userRepositoryGorm) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	m := convert.UserDomainToRecord(u)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return nil, err
	}
	return convert.UserRecordToDomain(m), nil
}

func (r *userRepositoryGorm) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	var m storage.UserRecord
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return convert.UserRecordToDomain(&m), nil
}

func (r *userRepositoryGorm) FindByProviderID(ctx context.Context, providerID string) (*domain.User, error) {
	var m storage.UserRecord
	err := r.db.WithContext(ctx).Where("provider_id = ?", providerID).First(&m).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return convert.UserRecordToDomain(&m), nil
}

func (r *userRepositoryGorm) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var m storage.UserRecord
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&m).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return convert.UserRecordToDomain(&m), nil
}

func (r *userRepositoryGorm) Save(ctx context.Context, u *domain.User) (*domain.User, error) {
	m := convert.UserDomainToRecord(u)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return nil, err
	}
	return convert.UserRecordToDomain(m), nil
}
