package account

import (
	"context"
	"strconv"
	"strings"
	"time"

	"docsmith/be/biz/dal/repo"
	"docsmith/be/biz/db/mysql"
	"docsmith/be/biz/model/domain"
	"docsmith/be/biz/model/errs"

	"github.com/cloudwego/hertz/pkg/common/hlog"
)

// Service keeps the local users table in step with the hosted auth provider
// and appends login events. One provider identity maps to at most one local
// row; the provider-id match always wins over the email match.
type Service struct {
	users  repo.UserRepository
	logins repo.LoginRepository
}

func New(users repo.UserRepository, logins repo.LoginRepository) *Service {
	return &Service{users: users, logins: logins}
}

func NewDefault() *Service {
	db := mysql.GetDbConn()
	return New(repo.NewUserRepositoryGorm(db), repo.NewLoginRepositoryGorm(db))
}

type matchKind int

const (
	noMatch matchKind = iota
	matchedByProviderID
	matchedByEmail
)

type match struct {
	kind matchKind
	user *domain.User
}

// EnsureUserExists maps a verified provider identity to exactly one local
// row, creating or refreshing it. Re-invoking with the same inputs is safe:
// the second call takes the update path against the same primary key.
func (s *Service) EnsureUserExists(ctx context.Context, email, name, providerID string) (*domain.User, errs.Error) {
	m := s.matchExisting(ctx, email, providerID)
	now := time.Now()

	if m.kind == noMatch {
		created, err := s.users.Create(ctx, &domain.User{
			ProviderID: providerID,
			Email:      email,
			Name:       displayName(name, "", email),
			LoginCount: 1,
			LastLogin:  now,
		})
		if err == nil {
			return created, nil
		}
		if errs.IsDuplicatedErr(err) {
			// Lost a create race on the provider-id unique index. The row
			// exists now, so re-read and fall through to the update path.
			existing, findErr := s.users.FindByProviderID(ctx, providerID)
			if findErr == nil && existing != nil {
				return s.refresh(ctx, existing, email, name, providerID, now)
			}
			hlog.CtxErrorf(ctx, "re-find after duplicated create err: %v", findErr)
		}
		return nil, errs.ProfileSyncFailed.SetErr(err)
	}

	return s.refresh(ctx, m.user, email, name, providerID, now)
}

// RecordLogin appends one immutable login event for an already-reconciled
// user. The event references users.id; handing it the provider id instead
// would break the foreign key or point at a row that does not exist.
func (s *Service) RecordLogin(ctx context.Context, u *domain.User, origin domain.Origin) (*domain.LoginEvent, errs.Error) {
	event, err := s.logins.Create(ctx, &domain.LoginEvent{
		UserID:    u.ID,
		LoginTime: time.Now(),
		IPAddress: defaultOrigin(origin.IPAddress),
		UserAgent: defaultOrigin(origin.UserAgent),
	})
	if err != nil {
		return nil, errs.LoginRecordFailed.SetErr(err)
	}
	return event, nil
}

// UpdateUserLogin is the full login cycle: reconcile, then record. When only
// the recording step fails, the reconciled user is still returned next to
// the error so callers can degrade to a warning instead of failing the login.
func (s *Service) UpdateUserLogin(ctx context.Context, providerID, email, name string, origin domain.Origin) (*domain.User, *domain.LoginEvent, errs.Error) {
	u, bizErr := s.EnsureUserExists(ctx, email, name, providerID)
	if bizErr != nil {
		return nil, nil, bizErr
	}

	event, bizErr := s.RecordLogin(ctx, u, origin)
	if bizErr != nil {
		return u, nil, bizErr
	}
	return u, event, nil
}

// GetByID resolves either a local primary key or a provider id, trying the
// primary key first.
func (s *Service) GetByID(ctx context.Context, id string) (*domain.User, errs.Error) {
	if n, convErr := strconv.ParseUint(id, 10, 64); convErr == nil {
		u, err := s.users.FindByID(ctx, uint(n))
		if err != nil {
			return nil, errs.ServerError.SetErr(err)
		}
		if u != nil {
			return u, nil
		}
	}

	u, err := s.users.FindByProviderID(ctx, id)
	if err != nil {
		return nil, errs.ServerError.SetErr(err)
	}
	if u == nil {
		return nil, errs.UserNotExist
	}
	return u, nil
}

func (s *Service) GetByEmail(ctx context.Context, email string) (*domain.User, errs.Error) {
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, errs.ServerError.SetErr(err)
	}
	if u == nil {
		return nil, errs.UserNotExist
	}
	return u, nil
}

func (s *Service) RecentLogins(ctx context.Context, userID uint, limit int) ([]*domain.LoginEvent, errs.Error) {
	events, err := s.logins.FindRecentByUserID(ctx, userID, limit)
	if err != nil {
		return nil, errs.ServerError.SetErr(err)
	}
	return events, nil
}

// matchExisting runs both lookups and applies the fixed precedence order.
// Lookup failures are logged and treated as a miss; only the later write may
// abort the reconcile.
func (s *Service) matchExisting(ctx context.Context, email, providerID string) match {
	byProvider, err := s.users.FindByProviderID(ctx, providerID)
	if err != nil {
		hlog.CtxErrorf(ctx, "find user by provider id err: %v", err)
	}

	byEmail, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		hlog.CtxErrorf(ctx, "find user by email err: %v", err)
	}

	switch {
	case byProvider != nil:
		return match{kind: matchedByProviderID, user: byProvider}
	case byEmail != nil:
		// Legacy or manually-created row without a provider id; the update
		// path repairs it.
		return match{kind: matchedByEmail, user: byEmail}
	default:
		return match{kind: noMatch}
	}
}

func (s *Service) refresh(ctx context.Context, u *domain.User, email, name, providerID string, now time.Time) (*domain.User, errs.Error) {
	u.ProviderID = providerID
	u.Email = email
	u.Name = displayName(name, u.Name, email)
	u.LoginCount++
	u.LastLogin = now

	saved, err := s.users.Save(ctx, u)
	if err != nil {
		return nil, errs.ProfileSyncFailed.SetErr(err)
	}
	return saved, nil
}

func displayName(supplied, existing, email string) string {
	if supplied != "" {
		return supplied
	}
	if existing != "" {
		return existing
	}
	local, _, _ := strings.Cut(email, "@")
	return local
}

func defaultOrigin(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
