package main

import (
	"fmt"

	"accounts/internal/dto"

	"github.com/spf13/cobra"
)

// newRootCmd 未指定子命令時等同 serve
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "accounts",
		Short:        "使用者帳號管理服務",
		SilenceUsage: true,
		RunE:         runServe,
	}
	root.AddCommand(newServeCmd(), newMigrateCmd(), newCreateAdminCmd())
	return root
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "啟動 HTTP 服務",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd.Context())
	if err != nil {
		return err
	}
	return serve(cmd.Context(), cfg)
}

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "管理資料庫 schema",
	}
	for _, sub := range []struct {
		use, short string
		down       bool
	}{
		{"up", "執行所有尚未套用的 migration", false},
		{"down", "退回所有 migration", true},
	} {
		down := sub.down
		cmd.AddCommand(&cobra.Command{
			Use:   sub.use,
			Short: sub.short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				cfg, err := loadConfig(cmd.Context())
				if err != nil {
					return err
				}
				if err := migrate(cfg, down); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "migrate", cmd.Name(), "完成")
				return nil
			},
		})
	}
	return cmd
}

func newCreateAdminCmd() *cobra.Command {
	var req dto.CreateUserRequest
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "建立管理員帳號",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd.Context())
			if err != nil {
				return err
			}
			u, err := createAdmin(cmd.Context(), cfg, req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "已建立管理員 %s (%s)\n", u.Email, u.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Name, "name", "", "管理員名稱")
	cmd.Flags().StringVar(&req.Email, "email", "", "登入 email")
	cmd.Flags().StringVar(&req.Password, "password", "", "登入密碼，至少 8 碼")
	return cmd
}
