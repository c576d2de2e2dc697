package mysql

import (
	"context"
	"database/sql"
	"errors"

	driver "github.com/go-sql-driver/mysql"

	"github.com/lisquant/valuation/internal/domain/users"
)

type UserRepository struct{ db *sql.DB }

func NewUserRepository(db *sql.DB) *UserRepository { return &UserRepository{db: db} }

func (r *UserRepository) Create(ctx context.Context, username, passwordHash string) (*users.User, error) {
	const q = `INSERT INTO users (username, password) VALUES (?, ?);`
	res, err := r.db.ExecContext(ctx, q, username, passwordHash)
	if err != nil {
		var myErr *driver.MySQLError
		// 1062 = ER_DUP_ENTRY
		if errors.As(err, &myErr) && myErr.Number == 1062 {
			return nil, users.ErrDuplicateUsername
		}
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &users.User{ID: id, Username: username, PasswordHash: passwordHash}, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*users.User, error) {
	const q = `SELECT id, username, password FROM users WHERE username = ? LIMIT 1;`
	var u users.User
	if err := r.db.QueryRowContext(ctx, q, username).Scan(&u.ID, &u.Username, &u.PasswordHash); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, users.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*users.User, error) {
	const q = `SELECT id, username, password FROM users WHERE id = ? LIMIT 1;`
	var u users.User
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&u.ID, &u.Username, &u.PasswordHash); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, users.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}
