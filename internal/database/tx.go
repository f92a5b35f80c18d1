package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// WithTx 在單一 transaction 中執行 fn；fn 回傳錯誤即 rollback，否則 commit。
// 使用預設的 READ COMMITTED，搭配 SELECT ... FOR UPDATE 時
// 後到的交易會等待鎖並讀到前一筆交易提交後的狀態。
func WithTx(ctx context.Context, db DB, fn func(pgx.Tx) error) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("WithTx: begin: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("WithTx: commit: %w", err)
	}
	return nil
}
