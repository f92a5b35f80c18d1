package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"accounts/internal/database"
	"accounts/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

/* ---------- 假實作 ---------- */

// fakeUserRow 支援三種 Scan 呼叫：
// 1) len(dest)==8 → 完整 user
// 2) len(dest)==2 → Create (created_at, updated_at)
// 3) len(dest)==1 → Count
type fakeUserRow struct {
	scanErr error
	user    *model.User
	count   int
}

func (r *fakeUserRow) Scan(dest ...any) error {
	if r.scanErr != nil {
		return r.scanErr
	}
	switch len(dest) {
	case 8:
		fillUser(r.user, dest)
	case 2:
		*dest[0].(*time.Time) = r.user.CreatedAt
		*dest[1].(*time.Time) = r.user.UpdatedAt
	case 1:
		*dest[0].(*int) = r.count
	default:
		panic("fakeUserRow.Scan: unexpected dest count")
	}
	return nil
}

func fillUser(u *model.User, dest []any) {
	*dest[0].(*uuid.UUID) = u.ID
	*dest[1].(*string) = u.Name
	*dest[2].(*string) = u.Email
	*dest[3].(*string) = u.PasswordHash
	*dest[4].(*string) = string(u.Role)
	*dest[5].(*time.Time) = u.CreatedAt
	*dest[6].(*time.Time) = u.UpdatedAt
	*dest[7].(**time.Time) = u.DeletedAt
}

type fakeUserRows struct {
	data    []model.User
	idx     int
	scanErr error
	err     error
}

func (r *fakeUserRows) Close()                                       {}
func (r *fakeUserRows) Err() error                                   { return r.err }
func (r *fakeUserRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *fakeUserRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeUserRows) Next() bool                                   { return r.idx < len(r.data) }
func (r *fakeUserRows) Scan(dest ...any) error {
	if r.scanErr != nil {
		return r.scanErr
	}
	u := r.data[r.idx]
	r.idx++
	fillUser(&u, dest)
	return nil
}
func (r *fakeUserRows) Values() ([]any, error) { return nil, nil }
func (r *fakeUserRows) RawValues() [][]byte    { return nil }
func (r *fakeUserRows) Conn() *pgx.Conn        { return nil }

func execResult(tag string, err error) func(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return func(context.Context, string, ...any) (pgconn.CommandTag, error) {
		return pgconn.NewCommandTag(tag), err
	}
}

/* ---------- 完整測試 ---------- */

func TestUsersRead(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()
	sample := &model.User{
		ID:           uuid.New(),
		Name:         "Alice",
		Email:        "alice@example.com",
		PasswordHash: "hash123",
		Role:         model.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	t.Run("GetByID success", func(t *testing.T) {
		var gotSQL string
		s := NewUsers(&database.FakeDB{
			QueryRowFn: func(_ context.Context, sql string, _ ...any) pgx.Row {
				gotSQL = sql
				return &fakeUserRow{user: sample}
			},
		})
		u, err := s.GetByID(ctx, sample.ID)
		require.NoError(t, err)
		require.Equal(t, sample.Email, u.Email)
		require.Equal(t, model.RoleAdmin, u.Role)
		require.Nil(t, u.DeletedAt)
		require.NotContains(t, gotSQL, "FOR UPDATE")
	})

	t.Run("GetByID not found", func(t *testing.T) {
		s := NewUsers(&database.FakeDB{
			QueryRowFn: func(context.Context, string, ...any) pgx.Row {
				return &fakeUserRow{scanErr: pgx.ErrNoRows}
			},
		})
		u, err := s.GetByID(ctx, uuid.New())
		require.ErrorIs(t, err, model.ErrNotFound)
		require.Nil(t, u)
	})

	t.Run("GetByID other error is not NotFound", func(t *testing.T) {
		s := NewUsers(&database.FakeDB{
			QueryRowFn: func(context.Context, string, ...any) pgx.Row {
				return &fakeUserRow{scanErr: errors.New("conn reset")}
			},
		})
		_, err := s.GetByID(ctx, uuid.New())
		require.Error(t, err)
		require.NotErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("GetByIDForUpdate locks row", func(t *testing.T) {
		var gotSQL string
		s := NewUsers(&database.FakeDB{
			QueryRowFn: func(_ context.Context, sql string, _ ...any) pgx.Row {
				gotSQL = sql
				return &fakeUserRow{user: sample}
			},
		})
		_, err := s.GetByIDForUpdate(ctx, sample.ID)
		require.NoError(t, err)
		require.Contains(t, gotSQL, "FOR UPDATE")
	})

	t.Run("GetByEmail absent", func(t *testing.T) {
		s := NewUsers(&database.FakeDB{
			QueryRowFn: func(context.Context, string, ...any) pgx.Row {
				return &fakeUserRow{scanErr: pgx.ErrNoRows}
			},
		})
		u, err := s.GetByEmail(ctx, "nobody@example.com")
		require.NoError(t, err)
		require.Nil(t, u)
	})

	t.Run("GetByEmail found", func(t *testing.T) {
		var gotArgs []any
		s := NewUsers(&database.FakeDB{
			QueryRowFn: func(_ context.Context, _ string, args ...any) pgx.Row {
				gotArgs = args
				return &fakeUserRow{user: sample}
			},
		})
		u, err := s.GetByEmail(ctx, sample.Email)
		require.NoError(t, err)
		require.Equal(t, sample.ID, u.ID)
		require.Equal(t, []any{sample.Email}, gotArgs)
	})

	t.Run("GetByEmail error", func(t *testing.T) {
		s := NewUsers(&database.FakeDB{
			QueryRowFn: func(context.Context, string, ...any) pgx.Row {
				return &fakeUserRow{scanErr: errors.New("db down")}
			},
		})
		_, err := s.GetByEmail(ctx, "x@example.com")
		require.Error(t, err)
	})

	t.Run("List applies filter and paging", func(t *testing.T) {
		var gotSQL string
		var gotArgs []any
		rows := &fakeUserRows{data: []model.User{*sample, *sample}}
		s := NewUsers(&database.FakeDB{
			QueryFn: func(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
				gotSQL = sql
				gotArgs = args
				return rows, nil
			},
		})
		role := model.RoleUser
		list, err := s.List(ctx,
			model.UserFilter{SearchText: "al", Role: &role},
			model.Paging{Page: 3, PageSize: 10, Sort: model.SortAsc})
		require.NoError(t, err)
		require.Len(t, list, 2)
		require.Contains(t, gotSQL, "WHERE (name ILIKE $1 OR email ILIKE $1) AND role = $2")
		require.Contains(t, gotSQL, "ORDER BY created_at ASC")
		require.Contains(t, gotSQL, "LIMIT $3 OFFSET $4")
		require.Equal(t, []any{"%al%", "user", 10, 20}, gotArgs)
	})

	t.Run("List query error", func(t *testing.T) {
		s := NewUsers(&database.FakeDB{
			QueryFn: func(context.Context, string, ...any) (pgx.Rows, error) {
				return nil, errors.New("fail")
			},
		})
		_, err := s.List(ctx, model.UserFilter{}, model.DefaultPaging())
		require.Error(t, err)
	})

	t.Run("List scan error", func(t *testing.T) {
		s := NewUsers(&database.FakeDB{
			QueryFn: func(context.Context, string, ...any) (pgx.Rows, error) {
				return &fakeUserRows{data: []model.User{*sample}, scanErr: errors.New("scan")}, nil
			},
		})
		_, err := s.List(ctx, model.UserFilter{}, model.DefaultPaging())
		require.Error(t, err)
	})

	t.Run("List rows error", func(t *testing.T) {
		s := NewUsers(&database.FakeDB{
			QueryFn: func(context.Context, string, ...any) (pgx.Rows, error) {
				return &fakeUserRows{err: errors.New("rows")}, nil
			},
		})
		_, err := s.List(ctx, model.UserFilter{}, model.DefaultPaging())
		require.Error(t, err)
	})

	t.Run("Count", func(t *testing.T) {
		var gotSQL string
		deleted := false
		s := NewUsers(&database.FakeDB{
			QueryRowFn: func(_ context.Context, sql string, _ ...any) pgx.Row {
				gotSQL = sql
				return &fakeUserRow{count: 25}
			},
		})
		n, err := s.Count(ctx, model.UserFilter{IsDeleted: &deleted})
		require.NoError(t, err)
		require.Equal(t, 25, n)
		require.Equal(t, "SELECT count(*) FROM users WHERE deleted_at IS NULL", gotSQL)
	})

	t.Run("Count error", func(t *testing.T) {
		s := NewUsers(&database.FakeDB{
			QueryRowFn: func(context.Context, string, ...any) pgx.Row {
				return &fakeUserRow{scanErr: errors.New("count")}
			},
		})
		_, err := s.Count(ctx, model.UserFilter{})
		require.Error(t, err)
	})
}

func TestUsersCreate(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("success assigns id and timestamps", func(t *testing.T) {
		fixed := uuid.New()
		newID = func() uuid.UUID { return fixed }
		t.Cleanup(func() { newID = uuid.New })

		var gotArgs []any
		s := NewUsers(&database.FakeDB{
			QueryRowFn: func(_ context.Context, _ string, args ...any) pgx.Row {
				gotArgs = args
				return &fakeUserRow{user: &model.User{CreatedAt: now, UpdatedAt: now}}
			},
		})
		u := &model.User{Name: "Bob", Email: "bob@example.com", PasswordHash: "h", Role: model.RoleUser}
		require.NoError(t, s.Create(ctx, u))
		require.Equal(t, fixed, u.ID)
		require.Equal(t, now, u.CreatedAt)
		require.Equal(t, []any{fixed, "Bob", "bob@example.com", "h", "user"}, gotArgs)
	})

	t.Run("unique violation maps to EmailTaken", func(t *testing.T) {
		s := NewUsers(&database.FakeDB{
			QueryRowFn: func(context.Context, string, ...any) pgx.Row {
				return &fakeUserRow{scanErr: &pgconn.PgError{Code: "23505"}}
			},
		})
		err := s.Create(ctx, &model.User{})
		require.ErrorIs(t, err, model.ErrEmailTaken)
	})

	t.Run("other error", func(t *testing.T) {
		s := NewUsers(&database.FakeDB{
			QueryRowFn: func(context.Context, string, ...any) pgx.Row {
				return &fakeUserRow{scanErr: errors.New("conn")}
			},
		})
		err := s.Create(ctx, &model.User{})
		require.Error(t, err)
		require.NotErrorIs(t, err, model.ErrEmailTaken)
	})
}

func TestUsersMutations(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	cases := []struct {
		name   string
		call   func(*Users) error
		expect string
	}{
		{"UpdateName", func(s *Users) error { return s.UpdateName(ctx, id, "n") }, "SET name = $1, updated_at = now()"},
		{"UpdatePassword", func(s *Users) error { return s.UpdatePassword(ctx, id, "h") }, "SET password = $1, updated_at = now()"},
		{"UpdateRole", func(s *Users) error { return s.UpdateRole(ctx, id, model.RoleAdmin) }, "SET role = $1, updated_at = now()"},
		{"Deactivate", func(s *Users) error { return s.Deactivate(ctx, id) }, "SET deleted_at = now(), updated_at = now()"},
		{"Reactivate", func(s *Users) error { return s.Reactivate(ctx, id) }, "SET deleted_at = NULL, updated_at = now()"},
	}

	for _, tc := range cases {
		t.Run(tc.name+" success", func(t *testing.T) {
			var gotSQL string
			s := NewUsers(&database.FakeDB{
				ExecFn: func(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
					gotSQL = sql
					return pgconn.NewCommandTag("UPDATE 1"), nil
				},
			})
			require.NoError(t, tc.call(s))
			require.Contains(t, gotSQL, tc.expect)
		})

		t.Run(tc.name+" not found", func(t *testing.T) {
			s := NewUsers(&database.FakeDB{ExecFn: execResult("UPDATE 0", nil)})
			require.ErrorIs(t, tc.call(s), model.ErrNotFound)
		})

		t.Run(tc.name+" error", func(t *testing.T) {
			s := NewUsers(&database.FakeDB{ExecFn: execResult("", errors.New("fail"))})
			err := tc.call(s)
			require.Error(t, err)
			require.NotErrorIs(t, err, model.ErrNotFound)
		})
	}
}

func TestUsersInTx(t *testing.T) {
	ctx := context.Background()

	t.Run("runs on transaction and commits", func(t *testing.T) {
		committed := false
		db := &database.FakeDB{ExecFn: execResult("UPDATE 1", nil)}
		db.BeginFn = func(context.Context) (pgx.Tx, error) {
			return &database.FakeTx{DB: db, CommitFn: func(context.Context) error { committed = true; return nil }}, nil
		}
		s := NewUsers(db)
		err := s.InTx(ctx, func(r Repository) error {
			// 巢狀 InTx 沿用同一個 transaction
			return r.InTx(ctx, func(inner Repository) error {
				return inner.UpdateName(ctx, uuid.New(), "x")
			})
		})
		require.NoError(t, err)
		require.True(t, committed)
	})

	t.Run("error rolls back", func(t *testing.T) {
		committed, rolledBack := false, false
		db := &database.FakeDB{ExecFn: execResult("UPDATE 0", nil)}
		db.BeginFn = func(context.Context) (pgx.Tx, error) {
			return &database.FakeTx{
				DB:         db,
				CommitFn:   func(context.Context) error { committed = true; return nil },
				RollbackFn: func(context.Context) error { rolledBack = true; return nil },
			}, nil
		}
		err := NewUsers(db).InTx(ctx, func(r Repository) error {
			return r.Deactivate(ctx, uuid.New())
		})
		require.ErrorIs(t, err, model.ErrNotFound)
		require.False(t, committed)
		require.True(t, rolledBack)
	})
}
