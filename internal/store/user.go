package store

import (
	"context"
	"errors"
	"fmt"

	"accounts/internal/database"
	"accounts/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Repository 使用者帳號的持久層操作；email 唯一性由 service 先行檢查
type Repository interface {
	Create(ctx context.Context, u *model.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context, f model.UserFilter, p model.Paging) ([]model.User, error)
	Count(ctx context.Context, f model.UserFilter) (int, error)
	UpdateName(ctx context.Context, id uuid.UUID, name string) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	UpdateRole(ctx context.Context, id uuid.UUID, role model.Role) error
	Deactivate(ctx context.Context, id uuid.UUID) error
	Reactivate(ctx context.Context, id uuid.UUID) error
	InTx(ctx context.Context, fn func(Repository) error) error
}

const uniqueViolation = "23505"

const userColumns = `id, name, email, password, role, created_at, updated_at, deleted_at`

var newID = uuid.New

// Users 以 PostgreSQL 實作 Repository
type Users struct {
	q  database.Querier
	db database.DB
}

var _ Repository = (*Users)(nil)

func NewUsers(db database.DB) *Users {
	return &Users{q: db, db: db}
}

// InTx 已在 transaction 中時直接沿用同一個 transaction
func (s *Users) InTx(ctx context.Context, fn func(Repository) error) error {
	if s.db == nil {
		return fn(s)
	}
	return database.WithTx(ctx, s.db, func(tx pgx.Tx) error {
		return fn(&Users{q: tx})
	})
}

func (s *Users) Create(ctx context.Context, u *model.User) error {
	if u.ID == uuid.Nil {
		u.ID = newID()
	}
	row := s.q.QueryRow(ctx,
		`INSERT INTO users (id, name, email, password, role)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at, updated_at`,
		u.ID,
		u.Name,
		u.Email,
		u.PasswordHash,
		string(u.Role),
	)
	if err := row.Scan(&u.CreatedAt, &u.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("CreateUser: %w", model.ErrEmailTaken)
		}
		return fmt.Errorf("CreateUser: %w", err)
	}
	return nil
}

func (s *Users) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	u, err := scanUser(s.q.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("GetUserByID: %w", notFound(err))
	}
	return u, nil
}

// GetByIDForUpdate 鎖定該列直到 transaction 結束
func (s *Users) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.User, error) {
	u, err := scanUser(s.q.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		return nil, fmt.Errorf("GetUserByIDForUpdate: %w", notFound(err))
	}
	return u, nil
}

// GetByEmail 找不到時回傳 nil, nil
func (s *Users) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	u, err := scanUser(s.q.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("GetUserByEmail: %w", err)
	}
	return u, nil
}

func (s *Users) List(ctx context.Context, f model.UserFilter, p model.Paging) ([]model.User, error) {
	b := buildUserFilter(f)
	sql := `SELECT ` + userColumns + ` FROM users` + b.String() + orderBy(p.Sort)
	sql += " LIMIT " + b.next(p.Limit()) + " OFFSET " + b.next(p.Offset())

	rows, err := s.q.Query(ctx, sql, b.args...)
	if err != nil {
		return nil, fmt.Errorf("ListUsers: %w", err)
	}
	defer rows.Close()

	users := make([]model.User, 0, p.Limit())
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("ListUsers: %w", err)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListUsers: %w", err)
	}
	return users, nil
}

func (s *Users) Count(ctx context.Context, f model.UserFilter) (int, error) {
	b := buildUserFilter(f)
	var total int
	if err := s.q.QueryRow(ctx, `SELECT count(*) FROM users`+b.String(), b.args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("CountUsers: %w", err)
	}
	return total, nil
}

func (s *Users) UpdateName(ctx context.Context, id uuid.UUID, name string) error {
	return s.exec(ctx, "UpdateUserName",
		`UPDATE users SET name = $1, updated_at = now() WHERE id = $2`, name, id)
}

// UpdatePassword 只接受已雜湊的密碼
func (s *Users) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	return s.exec(ctx, "UpdateUserPassword",
		`UPDATE users SET password = $1, updated_at = now() WHERE id = $2`, passwordHash, id)
}

func (s *Users) UpdateRole(ctx context.Context, id uuid.UUID, role model.Role) error {
	return s.exec(ctx, "UpdateUserRole",
		`UPDATE users SET role = $1, updated_at = now() WHERE id = $2`, string(role), id)
}

func (s *Users) Deactivate(ctx context.Context, id uuid.UUID) error {
	return s.exec(ctx, "DeactivateUser",
		`UPDATE users SET deleted_at = now(), updated_at = now() WHERE id = $1`, id)
}

func (s *Users) Reactivate(ctx context.Context, id uuid.UUID) error {
	return s.exec(ctx, "ReactivateUser",
		`UPDATE users SET deleted_at = NULL, updated_at = now() WHERE id = $1`, id)
}

func (s *Users) exec(ctx context.Context, op, sql string, args ...any) error {
	tag, err := s.q.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, model.ErrNotFound)
	}
	return nil
}

func scanUser(row pgx.Row) (*model.User, error) {
	u := &model.User{}
	var role string
	if err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.PasswordHash,
		&role,
		&u.CreatedAt,
		&u.UpdatedAt,
		&u.DeletedAt,
	); err != nil {
		return nil, err
	}
	u.Role = model.Role(role)
	return u, nil
}

func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return model.ErrNotFound
	}
	return err
}
