package services

import (
	"context"
	"errors"

	"github.com/stretchr/testify/mock"

	"github.com/hausbase/membership/domain"
	"github.com/hausbase/membership/internal/social"
)

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) GetUserByEmailAndOrigin(ctx context.Context, email string, origin domain.LoginOrigin) (*domain.User, error) {
	args := m.Called(ctx, email, origin)
	if u := args.Get(0); u != nil {
		return u.(*domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if u := args.Get(0); u != nil {
		return u.(*domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepository) GetUserByPhoneNum(ctx context.Context, phoneNum string) (*domain.User, error) {
	args := m.Called(ctx, phoneNum)
	if u := args.Get(0); u != nil {
		return u.(*domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepository) ExistsByPhoneNumAndEmail(ctx context.Context, phoneNum, email string) (bool, error) {
	args := m.Called(ctx, phoneNum, email)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserRepository) ExistsByPhoneNum(ctx context.Context, phoneNum string) (bool, error) {
	args := m.Called(ctx, phoneNum)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserRepository) UpdatePassword(ctx context.Context, email, passwordHash string) error {
	args := m.Called(ctx, email, passwordHash)
	return args.Error(0)
}

func (m *mockUserRepository) UpdateLifeStyle(ctx context.Context, id int64, lifeStyle string) error {
	args := m.Called(ctx, id, lifeStyle)
	return args.Error(0)
}

// fakeHasher is a deterministic stand-in so credential tests don't pay the
// bcrypt cost.
type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

func (fakeHasher) Verify(hashedPassword, password string) error {
	if hashedPassword != "hashed:"+password {
		return errors.New("hash mismatch")
	}
	return nil
}

// stubProvider serves a canned profile (or error) for one origin.
type stubProvider struct {
	origin  domain.LoginOrigin
	profile *social.Profile
	err     error
}

func (s *stubProvider) Origin() domain.LoginOrigin { return s.origin }

func (s *stubProvider) FetchProfile(_ context.Context, _ string) (*social.Profile, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.profile, nil
}
