package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

const userColumns = `id, username, email, first_name, last_name, password_hash,
	is_staff, is_superuser, is_active, last_login, created_at`

// ErrInvalidCredentials is returned by Authenticate for an unknown user, an
// inactive user or a wrong password alike.
var ErrInvalidCredentials = errors.New("invalid username or password")

type userService struct {
	pool *pgxpool.Pool
}

// NewUserService constructs a UserService backed by PostgreSQL.
func NewUserService(pool *pgxpool.Pool) UserService {
	return &userService{pool: pool}
}

func scanUser(row pgx.Row, u *User) error {
	return row.Scan(&u.ID, &u.Username, &u.Email, &u.FirstName, &u.LastName, &u.PasswordHash,
		&u.IsStaff, &u.IsSuperuser, &u.IsActive, &u.LastLogin, &u.CreatedAt)
}

func (s *userService) CreateUser(ctx context.Context, input UserInput) (*User, error) {
	input.Username = strings.TrimSpace(input.Username)
	v := &ValidationError{}
	if input.Username == "" {
		v.Add("username", "This field is required.")
	}
	if input.Password == "" {
		v.Add("password", "This field is required.")
	}
	if err := v.OrNil(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &User{}
	err = scanUser(s.pool.QueryRow(ctx, `
		INSERT INTO users (username, email, first_name, last_name, password_hash, is_staff, is_superuser)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+userColumns,
		input.Username, input.Email, input.FirstName, input.LastName, string(hash),
		input.IsStaff || input.IsSuperuser, input.IsSuperuser,
	), u)
	if err != nil {
		if _, ok := uniqueViolation(err); ok {
			return nil, &ConflictError{Resource: "user", Value: input.Username, Err: err}
		}
		return nil, fmt.Errorf("create user %q: %w", input.Username, err)
	}
	return u, nil
}

func (s *userService) ListUsers(ctx context.Context, filter UserFilter) ([]User, error) {
	var conds []string
	if filter.ActiveOnly {
		conds = append(conds, "is_active")
	}
	if filter.StaffOnly {
		conds = append(conds, "is_staff")
	}
	if filter.SuperusersOnly {
		conds = append(conds, "is_superuser")
	}
	query := "SELECT " + userColumns + " FROM users"
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY username"

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var u User
		if err := scanUser(rows, &u); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (s *userService) GetByUsername(ctx context.Context, username string) (*User, error) {
	u := &User{}
	err := scanUser(s.pool.QueryRow(ctx,
		"SELECT "+userColumns+" FROM users WHERE username = $1 AND is_active = true LIMIT 1",
		username,
	), u)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user %q: %w", username, ErrNotFound)
		}
		return nil, fmt.Errorf("get user %q: %w", username, err)
	}
	return u, nil
}

func (s *userService) GetByID(ctx context.Context, userID int) (*User, error) {
	u := &User{}
	err := scanUser(s.pool.QueryRow(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = $1", userID,
	), u)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user id=%d: %w", userID, ErrNotFound)
		}
		return nil, fmt.Errorf("get user id=%d: %w", userID, err)
	}
	return u, nil
}

func (s *userService) Authenticate(ctx context.Context, username, password string) (*User, error) {
	u, err := s.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	if err := s.pool.QueryRow(ctx,
		"UPDATE users SET last_login = NOW() WHERE id = $1 RETURNING last_login", u.ID,
	).Scan(&u.LastLogin); err != nil {
		return nil, fmt.Errorf("record login for user %d: %w", u.ID, err)
	}
	return u, nil
}
