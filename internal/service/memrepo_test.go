package service

import (
	"cmp"
	"context"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"accounts/internal/model"
	"accounts/internal/store"

	"github.com/google/uuid"
)

// memState 記憶體版的 users 表；InTx 持有 mu 直到 transaction 結束，效果等同整表鎖
type memState struct {
	mu    sync.Mutex
	users map[uuid.UUID]model.User
	base  time.Time
	tick  int
}

// memRepo 以記憶體實作 store.Repository；方法需在 InTx 內呼叫
type memRepo struct {
	st   *memState
	inTx bool
}

var _ store.Repository = (*memRepo)(nil)

func newMemRepo() *memRepo {
	return &memRepo{st: &memState{
		users: map[uuid.UUID]model.User{},
		base:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}}
}

func (r *memRepo) now() time.Time {
	r.st.tick++
	return r.st.base.Add(time.Duration(r.st.tick) * time.Second)
}

func (r *memRepo) InTx(ctx context.Context, fn func(store.Repository) error) error {
	if r.inTx {
		return fn(r)
	}
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	snapshot := maps.Clone(r.st.users)
	if err := fn(&memRepo{st: r.st, inTx: true}); err != nil {
		r.st.users = snapshot
		return err
	}
	return nil
}

func copyUser(u model.User) *model.User {
	if u.DeletedAt != nil {
		d := *u.DeletedAt
		u.DeletedAt = &d
	}
	return &u
}

func (r *memRepo) Create(_ context.Context, u *model.User) error {
	for _, existing := range r.st.users {
		if existing.Email == u.Email {
			return model.ErrEmailTaken
		}
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	u.CreatedAt = r.now()
	u.UpdatedAt = u.CreatedAt
	r.st.users[u.ID] = *copyUser(*u)
	return nil
}

func (r *memRepo) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := r.st.users[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	return copyUser(u), nil
}

func (r *memRepo) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return r.GetByID(ctx, id)
}

func (r *memRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range r.st.users {
		if u.Email == email {
			return copyUser(u), nil
		}
	}
	return nil, nil
}

func matches(u model.User, f model.UserFilter) bool {
	if text := strings.ToLower(strings.TrimSpace(f.SearchText)); text != "" {
		if !strings.Contains(strings.ToLower(u.Name), text) && !strings.Contains(strings.ToLower(u.Email), text) {
			return false
		}
	}
	if f.Role != nil && u.Role != *f.Role {
		return false
	}
	if f.IsDeleted != nil && u.IsDeleted() != *f.IsDeleted {
		return false
	}
	return true
}

func (r *memRepo) filtered(f model.UserFilter) []model.User {
	var out []model.User
	for _, u := range r.st.users {
		if matches(u, f) {
			out = append(out, u)
		}
	}
	return out
}

func (r *memRepo) List(_ context.Context, f model.UserFilter, p model.Paging) ([]model.User, error) {
	users := r.filtered(f)
	slices.SortFunc(users, func(a, b model.User) int {
		c := a.CreatedAt.Compare(b.CreatedAt)
		if c == 0 {
			c = cmp.Compare(a.ID.String(), b.ID.String())
		}
		if p.Sort == model.SortDesc {
			return -c
		}
		return c
	})
	start := min(p.Offset(), len(users))
	end := min(start+p.Limit(), len(users))
	out := make([]model.User, 0, end-start)
	for _, u := range users[start:end] {
		out = append(out, *copyUser(u))
	}
	return out, nil
}

func (r *memRepo) Count(_ context.Context, f model.UserFilter) (int, error) {
	return len(r.filtered(f)), nil
}

func (r *memRepo) update(id uuid.UUID, fn func(*model.User)) error {
	u, ok := r.st.users[id]
	if !ok {
		return model.ErrNotFound
	}
	fn(&u)
	u.UpdatedAt = r.now()
	r.st.users[id] = u
	return nil
}

func (r *memRepo) UpdateName(_ context.Context, id uuid.UUID, name string) error {
	return r.update(id, func(u *model.User) { u.Name = name })
}

func (r *memRepo) UpdatePassword(_ context.Context, id uuid.UUID, hash string) error {
	return r.update(id, func(u *model.User) { u.PasswordHash = hash })
}

func (r *memRepo) UpdateRole(_ context.Context, id uuid.UUID, role model.Role) error {
	return r.update(id, func(u *model.User) { u.Role = role })
}

func (r *memRepo) Deactivate(_ context.Context, id uuid.UUID) error {
	now := r.st.base.Add(time.Duration(r.st.tick+1) * time.Second)
	return r.update(id, func(u *model.User) { u.DeletedAt = &now })
}

func (r *memRepo) Reactivate(_ context.Context, id uuid.UUID) error {
	return r.update(id, func(u *model.User) { u.DeletedAt = nil })
}

// failingRepo 每次 InTx 都回傳指定錯誤
type failingRepo struct {
	store.Repository
	err error
}

func (f failingRepo) InTx(context.Context, func(store.Repository) error) error { return f.err }
