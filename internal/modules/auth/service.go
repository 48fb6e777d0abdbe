package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"bloodgroup/internal/domain"

	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Service contains signup, login and account logic.
type Service struct {
	users UserRepositoryInterface
	jwt   tokenIssuer
	now   func() time.Time
}

type LoginResult struct {
	User  *domain.User
	Token string
}

func NewService(users UserRepositoryInterface, jwt tokenIssuer) *Service {
	return &Service{users: users, jwt: jwt, now: time.Now}
}

func (s *Service) Signup(ctx context.Context, req SignupRequest) (*domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: string(hash),
		Phone:        strings.TrimSpace(req.Phone),
		Gender:       strings.TrimSpace(req.Gender),
		Location:     strings.TrimSpace(req.Location),
		BloodGroup:   normalizeBloodGroup(req.BloodGroup),
		Role:         domain.RoleUser,
		CreatedAt:    s.now(),
	}

	if err := s.users.Create(ctx, user); err != nil {
		// lost a race with a concurrent signup
		if isUniqueViolation(err) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, err
	}

	user.PasswordHash = ""
	return user, nil
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	role := domain.ParseRole(string(user.Role))
	token, err := s.jwt.GenerateToken(user.ID, role)
	if err != nil {
		return nil, err
	}

	user.PasswordHash = ""
	user.Role = role
	return &LoginResult{User: user, Token: token}, nil
}

func (s *Service) Account(ctx context.Context, who domain.Identity) (*domain.User, error) {
	if !who.IsAuthenticated() {
		return nil, ErrUnauthorized
	}
	user, err := s.users.GetByID(ctx, *who.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

func (s *Service) UpdateAccount(ctx context.Context, who domain.Identity, req UpdateAccountRequest) (*domain.User, error) {
	if !who.IsAuthenticated() {
		return nil, ErrUnauthorized
	}

	err := s.users.UpdateProfile(ctx, *who.UserID, domain.ProfileUpdate{
		Name:       strings.TrimSpace(req.Name),
		Phone:      strings.TrimSpace(req.Phone),
		Gender:     strings.TrimSpace(req.Gender),
		Location:   strings.TrimSpace(req.Location),
		BloodGroup: normalizeBloodGroup(req.BloodGroup),
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return s.Account(ctx, who)
}

func normalizeBloodGroup(s string) string {
	if bg, ok := domain.ParseBloodGroup(s); ok {
		return string(bg)
	}
	return strings.TrimSpace(s)
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
