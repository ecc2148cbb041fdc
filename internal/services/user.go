package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"regexp"
	"strings"
	"time"

	"joiny/internal/domain"
)

const minPasswordLen = 8

var usernameRegexp = regexp.MustCompile(`^[\w.@+-]{1,150}$`)

type userService struct {
	userRepo      domain.UserRepository
	hasher        domain.PasswordHasher
	tokenIssuer   domain.TokenIssuer
	tokenVerifier domain.TokenVerifier
	emailService  domain.EmailService
	logger        *slog.Logger
}

// NewUserService creates a UserService with the given repository and auth ports.
// emailService may be nil to skip the welcome email.
func NewUserService(userRepo domain.UserRepository,
	hasher domain.PasswordHasher,
	tokenIssuer domain.TokenIssuer,
	tokenVerifier domain.TokenVerifier,
	emailService domain.EmailService,
	logger *slog.Logger,
) domain.UserService {
	if logger == nil {
		logger = slog.Default()
	}
	return &userService{
		userRepo:      userRepo,
		hasher:        hasher,
		tokenIssuer:   tokenIssuer,
		tokenVerifier: tokenVerifier,
		emailService:  emailService,
		logger:        logger,
	}
}

func (s *userService) Register(ctx context.Context, username, email, password string) (*domain.User, domain.TokenPair, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(strings.ToLower(email))
	if !usernameRegexp.MatchString(username) {
		return nil, domain.TokenPair{}, fmt.Errorf("%w: invalid username", domain.ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, domain.TokenPair{}, fmt.Errorf("%w: invalid email format", domain.ErrInvalidInput)
	}
	if len(password) < minPasswordLen {
		return nil, domain.TokenPair{}, fmt.Errorf("%w: password must be at least %d characters", domain.ErrInvalidInput, minPasswordLen)
	}

	salt, err := s.hasher.GenerateSalt()
	if err != nil {
		return nil, domain.TokenPair{}, fmt.Errorf("failed to generate salt: %w", err)
	}
	hash, err := s.hasher.Hash(salt, password)
	if err != nil {
		return nil, domain.TokenPair{}, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := domain.NewUser(username, email, now, now)
	user.PasswordHash = hash
	user.Salt = salt
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateUser) {
			return nil, domain.TokenPair{}, err
		}
		return nil, domain.TokenPair{}, fmt.Errorf("failed to create user: %w", err)
	}

	pair, err := s.tokenIssuer.IssuePair(user)
	if err != nil {
		return nil, domain.TokenPair{}, fmt.Errorf("failed to issue tokens: %w", err)
	}

	if s.emailService != nil {
		data := &domain.WelcomeMessageEmailData{Email: user.Email, Username: user.Username}
		if err := s.emailService.SendWelcomeMessage(ctx, data); err != nil {
			s.logger.WarnContext(ctx, "welcome email failed", "user_id", user.ID, "err", err)
		}
	}
	return user, pair, nil
}

func (s *userService) Login(ctx context.Context, login, password string) (*domain.User, domain.TokenPair, error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return nil, domain.TokenPair{}, domain.ErrInvalidCredentials
	}

	var (
		user *domain.User
		err  error
	)
	if strings.Contains(login, "@") {
		user, err = s.userRepo.GetByEmail(ctx, strings.ToLower(login))
	} else {
		user, err = s.userRepo.GetByUsername(ctx, login)
	}
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.TokenPair{}, domain.ErrInvalidCredentials
		}
		return nil, domain.TokenPair{}, fmt.Errorf("failed to get user: %w", err)
	}
	if err := s.hasher.Compare(user.PasswordHash, user.Salt, password); err != nil {
		return nil, domain.TokenPair{}, domain.ErrInvalidCredentials
	}

	pair, err := s.tokenIssuer.IssuePair(user)
	if err != nil {
		return nil, domain.TokenPair{}, fmt.Errorf("failed to issue tokens: %w", err)
	}
	return user, pair, nil
}

func (s *userService) Refresh(ctx context.Context, refreshToken string) (domain.TokenPair, error) {
	req, err := s.tokenVerifier.VerifyRefresh(refreshToken)
	if err != nil {
		return domain.TokenPair{}, domain.ErrUnauthorized
	}
	user, err := s.userRepo.GetByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.TokenPair{}, domain.ErrUnauthorized
		}
		return domain.TokenPair{}, fmt.Errorf("failed to get user: %w", err)
	}
	pair, err := s.tokenIssuer.IssuePair(user)
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("failed to issue tokens: %w", err)
	}
	return pair, nil
}

func (s *userService) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}
