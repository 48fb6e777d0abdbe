package auth

import (
	"context"
	"errors"
	"testing"

	"bloodgroup/internal/domain"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Mock User Repository implementing the interface
type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserRepo) UpdateProfile(ctx context.Context, id int64, p domain.ProfileUpdate) error {
	args := m.Called(ctx, id, p)
	return args.Error(0)
}

// Mock JWT service
type mockJWTService struct {
	mock.Mock
}

func (m *mockJWTService) GenerateToken(userID int64, role domain.Role) (string, error) {
	args := m.Called(userID, role)
	return args.String(0), args.Error(1)
}

func hashed(t *testing.T, pw string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestService_Signup_Success(t *testing.T) {
	userRepo := new(mockUserRepo)
	jwtSvc := new(mockJWTService)

	userRepo.On("ExistsByEmail", mock.Anything, "test@example.com").Return(false, nil)
	userRepo.On("Create", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.Email == "test@example.com" &&
			u.Role == domain.RoleUser &&
			u.BloodGroup == "AB+" &&
			bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("securepass123")) == nil
	})).Return(nil)

	service := NewService(userRepo, jwtSvc)

	user, err := service.Signup(context.Background(), SignupRequest{
		Name:       " Test User ",
		Email:      "  Test@Example.com",
		Password:   "securepass123",
		BloodGroup: "ab+",
	})

	require.NoError(t, err)
	assert.Equal(t, "Test User", user.Name)
	assert.Empty(t, user.PasswordHash)
	userRepo.AssertExpectations(t)
}

func TestService_Signup_EmailExists(t *testing.T) {
	userRepo := new(mockUserRepo)
	userRepo.On("ExistsByEmail", mock.Anything, "exists@example.com").Return(true, nil)

	service := NewService(userRepo, new(mockJWTService))

	user, err := service.Signup(context.Background(), SignupRequest{
		Name: "X", Email: "exists@example.com", Password: "password",
	})

	assert.Nil(t, user)
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
	userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestService_Signup_UniqueViolationRace(t *testing.T) {
	for name, createErr := range map[string]error{
		"postgres": &pgconn.PgError{Code: "23505"},
		"gorm":     gorm.ErrDuplicatedKey,
		"sqlite":   errors.New("constraint failed: UNIQUE constraint failed: users.email (2067)"),
	} {
		t.Run(name, func(t *testing.T) {
			userRepo := new(mockUserRepo)
			userRepo.On("ExistsByEmail", mock.Anything, "race@example.com").Return(false, nil)
			userRepo.On("Create", mock.Anything, mock.Anything).Return(createErr)

			_, err := NewService(userRepo, new(mockJWTService)).Signup(context.Background(), SignupRequest{
				Name: "R", Email: "race@example.com", Password: "password",
			})
			assert.ErrorIs(t, err, ErrEmailAlreadyExists)
		})
	}
}

func TestService_Login_Success(t *testing.T) {
	userRepo := new(mockUserRepo)
	jwtSvc := new(mockJWTService)

	userRepo.On("GetByEmail", mock.Anything, "admin@example.com").Return(&domain.User{
		ID: 3, Email: "admin@example.com", PasswordHash: hashed(t, "secret1"), Role: domain.RoleAdmin,
	}, nil)
	jwtSvc.On("GenerateToken", int64(3), domain.RoleAdmin).Return("jwt-token", nil)

	res, err := NewService(userRepo, jwtSvc).Login(context.Background(), LoginRequest{
		Email: "Admin@Example.com", Password: "secret1",
	})

	require.NoError(t, err)
	assert.Equal(t, "jwt-token", res.Token)
	assert.Empty(t, res.User.PasswordHash)
	jwtSvc.AssertExpectations(t)
}

func TestService_Login_DefaultsRoleToUser(t *testing.T) {
	userRepo := new(mockUserRepo)
	jwtSvc := new(mockJWTService)

	userRepo.On("GetByEmail", mock.Anything, "u@example.com").Return(&domain.User{
		ID: 5, PasswordHash: hashed(t, "pw1234"), Role: "",
	}, nil)
	jwtSvc.On("GenerateToken", int64(5), domain.RoleUser).Return("t", nil)

	res, err := NewService(userRepo, jwtSvc).Login(context.Background(), LoginRequest{Email: "u@example.com", Password: "pw1234"})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, res.User.Role)
}

func TestService_Login_InvalidCredentials(t *testing.T) {
	userRepo := new(mockUserRepo)
	userRepo.On("GetByEmail", mock.Anything, "missing@example.com").Return(nil, gorm.ErrRecordNotFound)
	userRepo.On("GetByEmail", mock.Anything, "user@example.com").Return(&domain.User{
		ID: 1, PasswordHash: hashed(t, "right-password"),
	}, nil)

	service := NewService(userRepo, new(mockJWTService))

	_, err := service.Login(context.Background(), LoginRequest{Email: "missing@example.com", Password: "x"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = service.Login(context.Background(), LoginRequest{Email: "user@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestService_UpdateAccount(t *testing.T) {
	userRepo := new(mockUserRepo)
	userRepo.On("UpdateProfile", mock.Anything, int64(9), domain.ProfileUpdate{
		Name: "Nia", Phone: "555", Gender: "female", Location: "Lagos", BloodGroup: "O-",
	}).Return(nil)
	userRepo.On("GetByID", mock.Anything, int64(9)).Return(&domain.User{
		ID: 9, Name: "Nia", Location: "Lagos", BloodGroup: "O-", PasswordHash: "hash",
	}, nil)

	user, err := NewService(userRepo, new(mockJWTService)).UpdateAccount(
		context.Background(),
		domain.NewIdentity(9, domain.RoleUser),
		UpdateAccountRequest{Name: "Nia ", Phone: "555", Gender: "female", Location: " Lagos", BloodGroup: "o-"},
	)

	require.NoError(t, err)
	assert.Equal(t, "Lagos", user.Location)
	assert.Empty(t, user.PasswordHash)
	userRepo.AssertExpectations(t)
}

func TestService_AccountRequiresIdentity(t *testing.T) {
	service := NewService(new(mockUserRepo), new(mockJWTService))

	_, err := service.Account(context.Background(), domain.Anonymous())
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = service.UpdateAccount(context.Background(), domain.Anonymous(), UpdateAccountRequest{Name: "x"})
	assert.ErrorIs(t, err, ErrUnauthorized)
}
