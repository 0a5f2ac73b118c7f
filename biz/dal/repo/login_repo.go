package repo

import (
	"context"

	"docsmith/be/biz/model/convert"
	"docsmith/be/biz/model/domain"
	"docsmith/be/biz/model/storage"

	"gorm.io/gorm"
)

// LoginRepository is append-only: rows are never updated or deleted here.
type LoginRepository interface {
	Create(ctx context.Context, e *domain.LoginEvent) (*domain.LoginEvent, error)
	FindRecentByUserID(ctx context.Context, userID uint, limit int) ([]*domain.LoginEvent, error)
}

type loginRepositoryGorm struct {
	db *gorm.DB
}

func NewLoginRepositoryGorm(db *gorm.DB) LoginRepository {
	return &loginRepositoryGorm{db: db}
}

func (r *loginRepositoryGorm) Create(ctx context.Context, e *domain.LoginEvent) (*domain.LoginEvent, error) {
	m := convert.LoginDomainToRecord(e)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return nil, err
	}
	return convert.LoginRecordToDomain(m), nil
}

func (r *loginRepositoryGorm) FindRecentByUserID(ctx context.Context, userID uint, limit int) ([]*domain.LoginEvent, error) {
	if limit <= 0 {
		limit = 20
	}
	var ms []storage.LoginRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("login_time DESC").
		Limit(limit).
		Find(&ms).Error
	if err != nil {
		return nil, err
	}

	out := make([]*domain.LoginEvent, 0, len(ms))
	for i := range ms {
		out = append(out, convert.LoginRecordToDomain(&ms[i]))
	}
	return out, nil
}
