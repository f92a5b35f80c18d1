package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role 使用者角色，僅允許 user / admin
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid 判斷是否為已知角色
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// ParseRole 將字串轉為 Role，大小寫不敏感
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", ErrInvalidRole
	}
	return r, nil
}

type User struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	Name         string     `db:"name" json:"name"`
	Email        string     `db:"email" json:"email"`
	PasswordHash string     `db:"password" json:"-"`
	Role         Role       `db:"role" json:"role"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
	DeletedAt    *time.Time `db:"deleted_at" json:"deleted_at"`
}

// IsDeleted deleted_at 有值即為停用狀態
func (u *User) IsDeleted() bool {
	return u.DeletedAt != nil
}

// Identity 為驗證後 token 所攜帶的身分；零值代表匿名
type Identity struct {
	UserID uuid.UUID
	Role   Role
}

// Anonymous 是否沒有任何身分
func (i Identity) Anonymous() bool {
	return i.UserID == uuid.Nil
}
