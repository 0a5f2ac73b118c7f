package account

import (
	"context"
	"errors"
	"testing"

	"docsmith/be/biz/model/domain"
	"docsmith/be/biz/model/errs"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
)

// fakeUserRepo keeps rows in memory so sequential reconcile calls observe
// each other's writes.
type fakeUserRepo struct {
	rows   []*domain.User
	nextID uint

	findByProviderErr error
	findByEmailErr    error
	createErr         error
	saveErr           error

	// missFirstLookups makes the first provider-id and email lookups come
	// back empty, mimicking reads that ran before a racing insert landed.
	missFirstLookups bool
	providerLookups  int
	emailLookups     int

	createCalls int
	saveCalls   int
}

func (r *fakeUserRepo) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	r.createCalls++
	if r.createErr != nil {
		return nil, r.createErr
	}
	r.nextID++
	cp := *u
	cp.ID = r.nextID
	r.rows = append(r.rows, &cp)
	out := cp
	return &out, nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uint) (*domain.User, error) {
	for _, row := range r.rows {
		if row.ID == id {
			out := *row
			return &out, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByProviderID(_ context.Context, providerID string) (*domain.User, error) {
	if r.findByProviderErr != nil {
		return nil, r.findByProviderErr
	}
	r.providerLookups++
	if r.missFirstLookups && r.providerLookups == 1 {
		return nil, nil
	}
	for _, row := range r.rows {
		if row.ProviderID == providerID && providerID != "" {
			out := *row
			return &out, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	if r.findByEmailErr != nil {
		return nil, r.findByEmailErr
	}
	r.emailLookups++
	if r.missFirstLookups && r.emailLookups == 1 {
		return nil, nil
	}
	for _, row := range r.rows {
		if row.Email == email {
			out := *row
			return &out, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) Save(_ context.Context, u *domain.User) (*domain.User, error) {
	r.saveCalls++
	if r.saveErr != nil {
		return nil, r.saveErr
	}
	for i, row := range r.rows {
		if row.ID == u.ID {
			cp := *u
			r.rows[i] = &cp
			out := cp
			return &out, nil
		}
	}
	return nil, errors.New("save: row not found")
}

type fakeLoginRepo struct {
	events    []*domain.LoginEvent
	createErr error
}

func (r *fakeLoginRepo) Create(_ context.Context, e *domain.LoginEvent) (*domain.LoginEvent, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	cp := *e
	cp.ID = uint(len(r.events) + 1)
	r.events = append(r.events, &cp)
	out := cp
	return &out, nil
}

func (r *fakeLoginRepo) FindRecentByUserID(_ context.Context, userID uint, limit int) ([]*domain.LoginEvent, error) {
	var out []*domain.LoginEvent
	for i := len(r.events) - 1; i >= 0 && len(out) < limit; i-- {
		if r.events[i].UserID == userID {
			cp := *r.events[i]
			out = append(out, &cp)
		}
	}
	return out, nil
}

func TestService_EnsureUserExists_NewUser(t *testing.T) {
	users := &fakeUserRepo{}
	svc := New(users, &fakeLoginRepo{})

	u, bizErr := svc.EnsureUserExists(context.Background(), "new@x.com", "", "ext-1")
	assert.Nil(t, bizErr)
	assert.Equal(t, uint(1), u.LoginCount)
	assert.Equal(t, "new", u.Name)
	assert.Equal(t, "ext-1", u.ProviderID)
	assert.NotZero(t, u.ID)
	assert.False(t, u.LastLogin.IsZero())
	assert.Len(t, users.rows, 1)
}

func TestService_EnsureUserExists_ReturningUser(t *testing.T) {
	users := &fakeUserRepo{}
	svc := New(users, &fakeLoginRepo{})

	first, bizErr := svc.EnsureUserExists(context.Background(), "new@x.com", "", "ext-1")
	assert.Nil(t, bizErr)

	second, bizErr := svc.EnsureUserExists(context.Background(), "new@x.com", "", "ext-1")
	assert.Nil(t, bizErr)

	// same row, no duplicate
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, uint(2), second.LoginCount)
	assert.Len(t, users.rows, 1)
}

func TestService_EnsureUserExists_LoginCountMonotonic(t *testing.T) {
	users := &fakeUserRepo{}
	svc := New(users, &fakeLoginRepo{})

	const n = 5
	var last *domain.User
	for i := 0; i < n; i++ {
		var bizErr errs.Error
		last, _, bizErr = svc.UpdateUserLogin(context.Background(), "ext-1", "new@x.com", "", domain.Origin{})
		assert.Nil(t, bizErr)
	}
	assert.Equal(t, uint(n), last.LoginCount)
}

func TestService_EnsureUserExists_LegacyEmailRow(t *testing.T) {
	users := &fakeUserRepo{
		rows:   []*domain.User{{ID: 7, Email: "old@x.com", Name: "Old Row", LoginCount: 3}},
		nextID: 7,
	}
	svc := New(users, &fakeLoginRepo{})

	u, bizErr := svc.EnsureUserExists(context.Background(), "old@x.com", "Old Name", "ext-9")
	assert.Nil(t, bizErr)
	assert.Equal(t, uint(7), u.ID)
	assert.Equal(t, "ext-9", u.ProviderID)
	assert.Equal(t, "Old Name", u.Name)
	assert.Equal(t, uint(4), u.LoginCount)
	assert.Len(t, users.rows, 1)
	assert.Zero(t, users.createCalls)
}

func TestService_EnsureUserExists_TieBreakPrefersProviderMatch(t *testing.T) {
	users := &fakeUserRepo{
		rows: []*domain.User{
			{ID: 1, ProviderID: "ext-1", Email: "stale@x.com", Name: "Provider Row", LoginCount: 1},
			{ID: 2, Email: "shared@x.com", Name: "Email Row", LoginCount: 5},
		},
		nextID: 2,
	}
	svc := New(users, &fakeLoginRepo{})

	u, bizErr := svc.EnsureUserExists(context.Background(), "shared@x.com", "", "ext-1")
	assert.Nil(t, bizErr)
	assert.Equal(t, uint(1), u.ID)
	assert.Equal(t, "shared@x.com", u.Email)
	assert.Equal(t, uint(2), u.LoginCount)

	// the email-matched row stays untouched
	emailRow, err := users.FindByID(context.Background(), 2)
	assert.NoError(t, err)
	assert.Equal(t, uint(5), emailRow.LoginCount)
	assert.Equal(t, "", emailRow.ProviderID)
}

func TestService_EnsureUserExists_KeepsExistingNameWhenNoneSupplied(t *testing.T) {
	users := &fakeUserRepo{
		rows:   []*domain.User{{ID: 1, ProviderID: "ext-1", Email: "a@x.com", Name: "Kept Name", LoginCount: 1}},
		nextID: 1,
	}
	svc := New(users, &fakeLoginRepo{})

	u, bizErr := svc.EnsureUserExists(context.Background(), "a@x.com", "", "ext-1")
	assert.Nil(t, bizErr)
	assert.Equal(t, "Kept Name", u.Name)
}

func TestService_EnsureUserExists_LookupErrorTreatedAsMiss(t *testing.T) {
	users := &fakeUserRepo{findByProviderErr: errors.New("read timeout")}
	svc := New(users, &fakeLoginRepo{})

	// both lookups degraded: provider lookup errors, email finds nothing,
	// so the reconcile proceeds down the create path
	u, bizErr := svc.EnsureUserExists(context.Background(), "x@x.com", "", "ext-1")
	assert.Nil(t, bizErr)
	assert.NotNil(t, u)
	assert.Equal(t, 1, users.createCalls)
}

func TestService_EnsureUserExists_WriteErrorAborts(t *testing.T) {
	t.Run("create error", func(t *testing.T) {
		users := &fakeUserRepo{createErr: errors.New("insert error")}
		svc := New(users, &fakeLoginRepo{})
		_, bizErr := svc.EnsureUserExists(context.Background(), "x@x.com", "", "ext-1")
		assert.True(t, errs.ErrorEqual(errs.ProfileSyncFailed, bizErr))
	})

	t.Run("save error", func(t *testing.T) {
		users := &fakeUserRepo{
			rows:    []*domain.User{{ID: 1, ProviderID: "ext-1", Email: "x@x.com"}},
			nextID:  1,
			saveErr: errors.New("update error"),
		}
		svc := New(users, &fakeLoginRepo{})
		_, bizErr := svc.EnsureUserExists(context.Background(), "x@x.com", "", "ext-1")
		assert.True(t, errs.ErrorEqual(errs.ProfileSyncFailed, bizErr))
	})
}

func TestService_EnsureUserExists_DuplicatedCreateRetriesAsUpdate(t *testing.T) {
	// the racing request already inserted the row, but this request's
	// lookups ran before that insert landed
	users := &fakeUserRepo{
		rows:             []*domain.User{{ID: 1, ProviderID: "ext-1", Email: "x@x.com", Name: "x", LoginCount: 1}},
		nextID:           1,
		createErr:        &mysql.MySQLError{Number: 1062},
		missFirstLookups: true,
	}
	svc := New(users, &fakeLoginRepo{})

	u, bizErr := svc.EnsureUserExists(context.Background(), "x@x.com", "", "ext-1")
	assert.Nil(t, bizErr)
	assert.Equal(t, uint(1), u.ID)
	assert.Equal(t, uint(2), u.LoginCount)
	assert.Equal(t, 1, users.createCalls)
	assert.Equal(t, 1, users.saveCalls)
}

func TestService_RecordLogin(t *testing.T) {
	t.Run("uses local id and defaults origin", func(t *testing.T) {
		logins := &fakeLoginRepo{}
		svc := New(&fakeUserRepo{}, logins)

		u := &domain.User{ID: 42, ProviderID: "ext-1"}
		event, bizErr := svc.RecordLogin(context.Background(), u, domain.Origin{})
		assert.Nil(t, bizErr)
		assert.Equal(t, uint(42), event.UserID)
		assert.Equal(t, "unknown", event.IPAddress)
		assert.Equal(t, "unknown", event.UserAgent)
	})

	t.Run("insert error maps to login record failure", func(t *testing.T) {
		svc := New(&fakeUserRepo{}, &fakeLoginRepo{createErr: errors.New("fk violation")})
		_, bizErr := svc.RecordLogin(context.Background(), &domain.User{ID: 1}, domain.Origin{})
		assert.True(t, errs.ErrorEqual(errs.LoginRecordFailed, bizErr))
	})
}

func TestService_UpdateUserLogin(t *testing.T) {
	t.Run("success records event with local id", func(t *testing.T) {
		users := &fakeUserRepo{}
		logins := &fakeLoginRepo{}
		svc := New(users, logins)

		u, event, bizErr := svc.UpdateUserLogin(context.Background(), "ext-1", "a@x.com", "A",
			domain.Origin{IPAddress: "10.0.0.1", UserAgent: "mozilla"})
		assert.Nil(t, bizErr)
		assert.Equal(t, u.ID, event.UserID)
		assert.Equal(t, "10.0.0.1", event.IPAddress)
		assert.Equal(t, "mozilla", event.UserAgent)
	})

	t.Run("reconcile failure yields no event", func(t *testing.T) {
		users := &fakeUserRepo{createErr: errors.New("insert error")}
		svc := New(users, &fakeLoginRepo{})
		u, event, bizErr := svc.UpdateUserLogin(context.Background(), "ext-1", "a@x.com", "", domain.Origin{})
		assert.True(t, errs.ErrorEqual(errs.ProfileSyncFailed, bizErr))
		assert.Nil(t, u)
		assert.Nil(t, event)
	})

	t.Run("record failure still returns reconciled user", func(t *testing.T) {
		users := &fakeUserRepo{}
		svc := New(users, &fakeLoginRepo{createErr: errors.New("insert error")})
		u, event, bizErr := svc.UpdateUserLogin(context.Background(), "ext-1", "a@x.com", "", domain.Origin{})
		assert.True(t, errs.ErrorEqual(errs.LoginRecordFailed, bizErr))
		assert.NotNil(t, u)
		assert.Nil(t, event)
		// the profile write survived
		assert.Len(t, users.rows, 1)
		assert.Equal(t, uint(1), users.rows[0].LoginCount)
	})
}

func TestService_GetByID(t *testing.T) {
	users := &fakeUserRepo{
		rows:   []*domain.User{{ID: 3, ProviderID: "ext-3", Email: "c@x.com"}},
		nextID: 3,
	}
	svc := New(users, &fakeLoginRepo{})

	t.Run("by primary key", func(t *testing.T) {
		u, bizErr := svc.GetByID(context.Background(), "3")
		assert.Nil(t, bizErr)
		assert.Equal(t, uint(3), u.ID)
	})

	t.Run("falls back to provider id", func(t *testing.T) {
		u, bizErr := svc.GetByID(context.Background(), "ext-3")
		assert.Nil(t, bizErr)
		assert.Equal(t, uint(3), u.ID)
	})

	t.Run("not found", func(t *testing.T) {
		_, bizErr := svc.GetByID(context.Background(), "ext-404")
		assert.True(t, errs.ErrorEqual(errs.UserNotExist, bizErr))
	})
}

func TestService_GetByEmail(t *testing.T) {
	users := &fakeUserRepo{
		rows:   []*domain.User{{ID: 3, Email: "c@x.com"}},
		nextID: 3,
	}
	svc := New(users, &fakeLoginRepo{})

	u, bizErr := svc.GetByEmail(context.Background(), "c@x.com")
	assert.Nil(t, bizErr)
	assert.Equal(t, uint(3), u.ID)

	_, bizErr = svc.GetByEmail(context.Background(), "nobody@x.com")
	assert.True(t, errs.ErrorEqual(errs.UserNotExist, bizErr))
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Given", displayName("Given", "Existing", "a@x.com"))
	assert.Equal(t, "Existing", displayName("", "Existing", "a@x.com"))
	assert.Equal(t, "a", displayName("", "", "a@x.com"))
	assert.Equal(t, "noat", displayName("", "", "noat"))
}
