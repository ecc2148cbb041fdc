package domain

import (
	"context"
	"time"
)

// User represents a registered account.
// swagger:model User
type User struct {
	ID           int64     `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Salt         string    `json:"-" db:"salt"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// NewUser returns a new User with the given fields. ID is typically set by the repository on create.
func NewUser(username, email string, createdAt, updatedAt time.Time) *User {
	return &User{
		Username:  username,
		Email:     email,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
}

// Requester is the authenticated identity attached to a request.
type Requester struct {
	UserID   int64
	Username string
}

// TokenPair is an issued access/refresh credential pair.
// swagger:model TokenPair
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// PasswordHasher handles salt generation, hashing, and verification.
// Implementations may use bcrypt, argon2, etc.
type PasswordHasher interface {
	GenerateSalt() (string, error)
	Hash(salt, password string) (hash string, err error)
	Compare(hash, salt, password string) error
}

// TokenIssuer issues credential pairs (e.g. JWT) for an authenticated user.
type TokenIssuer interface {
	IssuePair(user *User) (TokenPair, error)
}

// TokenVerifier verifies tokens and returns the identity they carry.
type TokenVerifier interface {
	VerifyAccess(token string) (*Requester, error)
	VerifyRefresh(token string) (*Requester, error)
}

// UserRepository defines the interface for user storage
type UserRepository interface {
	// Create inserts the user. It returns ErrDuplicateUser when the username or email is taken.
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
}

// UserService defines registration, login and credential refresh.
type UserService interface {
	Register(ctx context.Context, username, email, password string) (*User, TokenPair, error)
	// Login accepts either the username or the email as login.
	Login(ctx context.Context, login, password string) (*User, TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (TokenPair, error)
	GetByID(ctx context.Context, id int64) (*User, error)
}
