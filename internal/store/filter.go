package store

import (
	"fmt"
	"strings"

	"accounts/internal/model"
)

// whereBuilder 以 AND 串接零至多個條件，並依序產生 $n placeholder
type whereBuilder struct {
	clauses []string
	args    []any
}

// add clause 內以 %d 代表此參數的位置
func (b *whereBuilder) add(clause string, arg any) {
	b.args = append(b.args, arg)
	b.clauses = append(b.clauses, fmt.Sprintf(clause, len(b.args)))
}

func (b *whereBuilder) addRaw(clause string) {
	b.clauses = append(b.clauses, clause)
}

// next 回傳下一個 placeholder，用於 LIMIT / OFFSET
func (b *whereBuilder) next(arg any) string {
	b.args = append(b.args, arg)
	return fmt.Sprintf("$%d", len(b.args))
}

func (b *whereBuilder) String() string {
	if len(b.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(b.clauses, " AND ")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func buildUserFilter(f model.UserFilter) *whereBuilder {
	b := &whereBuilder{}
	if text := strings.TrimSpace(f.SearchText); text != "" {
		b.add("(name ILIKE $%[1]d OR email ILIKE $%[1]d)", "%"+likeEscaper.Replace(text)+"%")
	}
	if f.Role != nil {
		b.add("role = $%d", string(*f.Role))
	}
	if f.IsDeleted != nil {
		if *f.IsDeleted {
			b.addRaw("deleted_at IS NOT NULL")
		} else {
			b.addRaw("deleted_at IS NULL")
		}
	}
	return b
}

func orderBy(sort model.SortOrder) string {
	if sort == model.SortAsc {
		return " ORDER BY created_at ASC, id ASC"
	}
	return " ORDER BY created_at DESC, id DESC"
}
