package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"joiny/internal/domain"
)

const userColumns = "id, username, email, password_hash, salt, created_at, updated_at"

type userRepository struct {
	DB *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) domain.UserRepository {
	return &userRepository{DB: db}
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	query := `
		INSERT INTO users (username, email, password_hash, salt, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	err := conn(ctx, r.DB).QueryRowxContext(ctx, query, u.Username, u.Email, u.PasswordHash, u.Salt, u.CreatedAt, u.UpdatedAt).Scan(&u.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateUser
		}
		return err
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (r *userRepository) getOne(ctx context.Context, query string, args ...any) (*domain.User, error) {
	u := &domain.User{}
	if err := conn(ctx, r.DB).GetContext(ctx, u, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return u, nil
}
