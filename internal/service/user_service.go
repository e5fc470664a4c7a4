package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"net/mail"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"task-planner/internal/model"
	"task-planner/internal/repository"
)

const (
	minPasswordLength  = 6
	tempPasswordLength = 8
	tempPasswordChars  = "abcdefghijklmnopqrstuvwxyz0123456789"
)

// PasswordNotifier delivers a freshly generated password to its owner.
type PasswordNotifier interface {
	SendTemporaryPassword(ctx context.Context, user model.User, password string) error
}

// LogPasswordNotifier is used when no mail delivery is configured. It records
// the attempt and refuses the reset, so the stored password stays valid. The
// password itself is never logged.
type LogPasswordNotifier struct {
	Logger *log.Logger
}

func (n LogPasswordNotifier) SendTemporaryPassword(_ context.Context, user model.User, _ string) error {
	n.Logger.Warn("password reset requested but no mail delivery is configured", "email", user.Email)
	return ErrDeliveryDisabled
}

type RegisterInput struct {
	Name        string
	Email       string
	Password    string
	Avatar      string
	DeviceToken string
}

type UserServiceInterface interface {
	Register(ctx context.Context, input RegisterInput) (*model.User, error)
	Login(ctx context.Context, email, password, deviceToken string) (string, *model.User, error)
	GetUser(ctx context.Context, userID uuid.UUID) (*model.User, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error
	UpdateProfile(ctx context.Context, userID uuid.UUID, name string, avatar *string) (*model.User, error)
	ForgotPassword(ctx context.Context, email string) error
	UpdateDeviceToken(ctx context.Context, userID uuid.UUID, deviceToken string) error
}

type UserService struct {
	repo     *repository.UserRepository
	auth     AuthServiceInterface
	notifier PasswordNotifier
}

func NewUserService(repo *repository.UserRepository, auth AuthServiceInterface, notifier PasswordNotifier) *UserService {
	return &UserService{repo: repo, auth: auth, notifier: notifier}
}

func (s *UserService) Register(ctx context.Context, input RegisterInput) (*model.User, error) {
	email := normalizeEmail(input.Email)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: email", ErrInvalidInput)
	}
	if len(input.Password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, minPasswordLength)
	}

	_, err := s.repo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, ErrUserExists
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, fmt.Errorf("find user: %w", err)
	}

	hash, err := s.auth.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}
	user := model.User{
		Email:        email,
		Name:         strings.TrimSpace(input.Name),
		Avatar:       input.Avatar,
		PasswordHash: hash,
	}
	if token := strings.TrimSpace(input.DeviceToken); token != "" {
		user.DeviceToken = &token
	}
	if err := s.repo.Create(ctx, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Login checks the credentials and returns a signed token. A non-empty
// deviceToken replaces the one stored for the user.
func (s *UserService) Login(ctx context.Context, email, password, deviceToken string) (string, *model.User, error) {
	user, err := s.repo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("find user: %w", err)
	}
	if err := s.auth.ComparePasswords(user.PasswordHash, password); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	if token := strings.TrimSpace(deviceToken); token != "" {
		if err := s.repo.UpdateDeviceToken(ctx, user.ID, &token); err != nil {
			return "", nil, err
		}
		user.DeviceToken = &token
	}

	signed, err := s.auth.GenerateToken(*user)
	if err != nil {
		return "", nil, err
	}
	return signed, user, nil
}

func (s *UserService) GetUser(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	return user, nil
}

func (s *UserService) ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, minPasswordLength)
	}
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.auth.ComparePasswords(user.PasswordHash, oldPassword); err != nil {
		return ErrInvalidCredentials
	}
	hash, err := s.auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return notFound(s.repo.UpdatePassword(ctx, userID, hash), ErrUserNotFound)
}

// UpdateProfile renames the user. A nil avatar keeps the stored one.
func (s *UserService) UpdateProfile(ctx context.Context, userID uuid.UUID, name string, avatar *string) (*model.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if err := s.repo.UpdateProfile(ctx, userID, name, avatar); err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	return s.GetUser(ctx, userID)
}

// ForgotPassword generates a random password and hands it to the notifier.
// The stored hash changes only after delivery succeeded.
func (s *UserService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.repo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return notFound(err, ErrUserNotFound)
	}
	password, err := randomPassword(tempPasswordLength)
	if err != nil {
		return err
	}
	hash, err := s.auth.HashPassword(password)
	if err != nil {
		return err
	}
	if err := s.notifier.SendTemporaryPassword(ctx, *user, password); err != nil {
		return fmt.Errorf("deliver temporary password: %w", err)
	}
	return notFound(s.repo.UpdatePassword(ctx, user.ID, hash), ErrUserNotFound)
}

// UpdateDeviceToken stores token as the user's only device token.
func (s *UserService) UpdateDeviceToken(ctx context.Context, userID uuid.UUID, deviceToken string) error {
	token := strings.TrimSpace(deviceToken)
	if token == "" {
		return fmt.Errorf("%w: device token is required", ErrInvalidInput)
	}
	return notFound(s.repo.UpdateDeviceToken(ctx, userID, &token), ErrUserNotFound)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func randomPassword(n int) (string, error) {
	max := big.NewInt(int64(len(tempPasswordChars)))
	buf := make([]byte, n)
	for i := range buf {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("generate password: %w", err)
		}
		buf[i] = tempPasswordChars[idx.Int64()]
	}
	return string(buf), nil
}

// notFound maps gorm.ErrRecordNotFound to sentinel and passes other errors through.
func notFound(err, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}
