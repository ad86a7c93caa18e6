package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/okimsz/CDI-Sakata-Inx-Corp-sub000/internal/model"
	"github.com/okimsz/CDI-Sakata-Inx-Corp-sub000/internal/repository"
	"github.com/okimsz/CDI-Sakata-Inx-Corp-sub000/internal/testutil"
	"github.com/okimsz/CDI-Sakata-Inx-Corp-sub000/internal/utils"
)

type memAdmins struct {
	mu        sync.Mutex
	byID      map[uint64]*model.AdminUser
	touchErr  error
	updateErr error
	lastTouch time.Time
}

func newMemAdmins(t *testing.T, admins ...model.AdminUser) *memAdmins {
	m := &memAdmins{byID: map[uint64]*model.AdminUser{}}
	for i := range admins {
		a := admins[i]
		m.byID[a.ID] = &a
	}
	return m
}

func (m *memAdmins) GetByUsername(_ context.Context, username string) (*model.AdminUser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.byID {
		if a.Username == username {
			cp := *a
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memAdmins) GetByID(_ context.Context, id uint64) (*model.AdminUser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *memAdmins) TouchLastLogin(_ context.Context, id uint64, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.touchErr != nil {
		return m.touchErr
	}
	m.lastTouch = at
	return nil
}

func (m *memAdmins) UpdatePasswordHash(_ context.Context, id uint64, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateErr != nil {
		return m.updateErr
	}
	a, ok := m.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	a.PasswordHash = hash
	return nil
}

func hashed(t *testing.T, pw string) string {
	t.Helper()
	h, err := utils.NewPasswordHasher(bcrypt.MinCost).Hash(pw)
	require.NoError(t, err)
	return h
}

func newTestService(t *testing.T, store *memAdmins, now time.Time) *AuthService {
	s := NewAuthService(store, "test-secret", 24*time.Hour, bcrypt.MinCost, testutil.TestLogger())
	s.Now = func() time.Time { return now }
	return s
}

func TestLogin_Success(t *testing.T) {
	now := time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)
	store := newMemAdmins(t, model.AdminUser{ID: 1, Username: "admin", PasswordHash: hashed(t, "changeme"), Role: model.RoleAdmin})
	s := newTestService(t, store, now)

	res, err := s.Login(context.Background(), "admin", "changeme")
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, now.Add(24*time.Hour), res.ExpiresAt)
	assert.Equal(t, model.AdminSummary{ID: 1, Username: "admin", Role: model.RoleAdmin}, res.Admin)
	assert.Equal(t, now, store.lastTouch)

	id, err := s.Verify(res.Token)
	require.NoError(t, err)
	assert.Equal(t, model.Identity{ID: 1, Username: "admin", Role: model.RoleAdmin}, id)
}

func TestLogin_InvalidCredentialsAreIndistinguishable(t *testing.T) {
	store := newMemAdmins(t, model.AdminUser{ID: 1, Username: "admin", PasswordHash: hashed(t, "changeme"), Role: model.RoleAdmin})
	s := newTestService(t, store, time.Now())

	_, errWrongPass := s.Login(context.Background(), "admin", "wrongpass")
	_, errNoUser := s.Login(context.Background(), "nobody", "changeme")

	assert.ErrorIs(t, errWrongPass, ErrInvalidCredentials)
	assert.ErrorIs(t, errNoUser, ErrInvalidCredentials)
	assert.Equal(t, errWrongPass.Error(), errNoUser.Error())
}

func TestLogin_RequiresBothFields(t *testing.T) {
	s := newTestService(t, newMemAdmins(t), time.Now())

	_, err := s.Login(context.Background(), "", "x")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = s.Login(context.Background(), "admin", "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestLogin_LastLoginFailureIsSwallowed(t *testing.T) {
	store := newMemAdmins(t, model.AdminUser{ID: 1, Username: "admin", PasswordHash: hashed(t, "changeme"), Role: model.RoleAdmin})
	store.touchErr = errors.New("db down")
	s := newTestService(t, store, time.Now())

	res, err := s.Login(context.Background(), "admin", "changeme")
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
}

func TestVerify_Expired(t *testing.T) {
	issued := time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)
	store := newMemAdmins(t, model.AdminUser{ID: 3, Username: "ops", PasswordHash: hashed(t, "changeme"), Role: model.RoleSuperAdmin})
	s := newTestService(t, store, issued)

	res, err := s.Login(context.Background(), "ops", "changeme")
	require.NoError(t, err)

	s.Now = func() time.Time { return issued.Add(24*time.Hour + time.Minute) }
	_, err = s.Verify(res.Token)
	assert.ErrorIs(t, err, utils.ErrInvalidToken)
}

func TestChangePassword(t *testing.T) {
	store := newMemAdmins(t, model.AdminUser{ID: 1, Username: "admin", PasswordHash: hashed(t, "oldpass"), Role: model.RoleAdmin})
	s := newTestService(t, store, time.Now())
	ctx := context.Background()

	assert.ErrorIs(t, s.ChangePassword(ctx, 1, "oldpass", "short"), ErrValidation)
	assert.ErrorIs(t, s.ChangePassword(ctx, 1, "oldpass", strings.Repeat("x", 73)), ErrValidation)
	assert.ErrorIs(t, s.ChangePassword(ctx, 1, "", "longenough"), ErrValidation)
	assert.ErrorIs(t, s.ChangePassword(ctx, 1, "bad", "longenough"), ErrInvalidCredentials)
	assert.ErrorIs(t, s.ChangePassword(ctx, 99, "oldpass", "longenough"), repository.ErrNotFound)

	require.NoError(t, s.ChangePassword(ctx, 1, "oldpass", "newpass1"))

	_, err := s.Login(ctx, "admin", "oldpass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = s.Login(ctx, "admin", "newpass1")
	assert.NoError(t, err)
}

func TestLogin_UsernameMustMatchExactly(t *testing.T) {
	store := newMemAdmins(t, model.AdminUser{ID: 1, Username: "admin", PasswordHash: hashed(t, "changeme"), Role: model.RoleAdmin})
	s := newTestService(t, store, time.Now())

	for _, name := range []string{" admin", "admin ", "Admin"} {
		_, err := s.Login(context.Background(), name, "changeme")
		assert.ErrorIs(t, err, ErrInvalidCredentials, name)
	}
	_, err := s.Login(context.Background(), "   ", "changeme")
	assert.ErrorIs(t, err, ErrValidation)
}

func storedCost(t *testing.T, store *memAdmins, id uint64) int {
	t.Helper()
	a, err := store.GetByID(context.Background(), id)
	require.NoError(t, err)
	cost, err := bcrypt.Cost([]byte(a.PasswordHash))
	require.NoError(t, err)
	return cost
}

func TestLogin_RehashesOutdatedCost(t *testing.T) {
	store := newMemAdmins(t, model.AdminUser{ID: 1, Username: "admin", PasswordHash: hashed(t, "changeme"), Role: model.RoleAdmin})
	s := newTestService(t, store, time.Now())
	s.Passwords = utils.NewPasswordHasher(bcrypt.MinCost + 1)

	_, err := s.Login(context.Background(), "admin", "changeme")
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost+1, storedCost(t, store, 1))

	// the upgraded hash still verifies
	_, err = s.Login(context.Background(), "admin", "changeme")
	require.NoError(t, err)
}

func TestLogin_CurrentCostIsLeftAlone(t *testing.T) {
	original := hashed(t, "changeme")
	store := newMemAdmins(t, model.AdminUser{ID: 1, Username: "admin", PasswordHash: original, Role: model.RoleAdmin})
	s := newTestService(t, store, time.Now())

	_, err := s.Login(context.Background(), "admin", "changeme")
	require.NoError(t, err)
	a, err := store.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, original, a.PasswordHash)
}

func TestLogin_RehashFailureIsSwallowed(t *testing.T) {
	store := newMemAdmins(t, model.AdminUser{ID: 1, Username: "admin", PasswordHash: hashed(t, "changeme"), Role: model.RoleAdmin})
	store.updateErr = errors.New("db down")
	s := newTestService(t, store, time.Now())
	s.Passwords = utils.NewPasswordHasher(bcrypt.MinCost + 1)

	res, err := s.Login(context.Background(), "admin", "changeme")
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, bcrypt.MinCost, storedCost(t, store, 1))
}
