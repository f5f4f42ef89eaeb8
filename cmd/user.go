package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"aurabox/internal/model/auth"
	"aurabox/internal/pkg/mongodb"
	"aurabox/internal/pkg/password"
	authRepo "aurabox/internal/repository/auth"
	"aurabox/internal/service"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage signed-in user accounts stored in MongoDB",
}

var userCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a user account",
	RunE: func(cmd *cobra.Command, _ []string) error {
		username, _ := cmd.Flags().GetString("username")
		email, _ := cmd.Flags().GetString("email")
		pwd, _ := cmd.Flags().GetString("password")
		nickname, _ := cmd.Flags().GetString("nickname")
		if len(pwd) < password.MinLength {
			return password.ErrTooShort
		}

		return withAuthService(func(ctx context.Context, svc *service.AuthService) error {
			res, err := svc.Register(ctx, username, email, pwd, nickname)
			if err != nil {
				return err
			}
			fmt.Printf("user created: id=%s username=%s status=%s\n", res.UserID, res.Username, res.Status)
			return nil
		})
	},
}

var userBanCmd = &cobra.Command{
	Use:   "ban <username>",
	Short: "Ban a user so they can no longer sign in",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return setUserStatus(args[0], auth.UserStatusBanned)
	},
}

var userUnbanCmd = &cobra.Command{
	Use:   "unban <username>",
	Short: "Restore a banned user",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return setUserStatus(args[0], auth.UserStatusActive)
	},
}

func init() {
	rootCmd.AddCommand(userCmd)
	userCmd.AddCommand(userCreateCmd, userBanCmd, userUnbanCmd)

	flags := userCreateCmd.Flags()
	flags.String("username", "", "username (required)")
	flags.String("email", "", "email (required)")
	flags.String("password", "", "password, at least 6 characters (required)")
	flags.String("nickname", "", "display name")
	_ = userCreateCmd.MarkFlagRequired("username")
	_ = userCreateCmd.MarkFlagRequired("email")
	_ = userCreateCmd.MarkFlagRequired("password")
}

func setUserStatus(username string, status auth.UserStatus) error {
	return withAuthService(func(ctx context.Context, svc *service.AuthService) error {
		if err := svc.SetUserStatus(ctx, username, status); err != nil {
			return err
		}
		fmt.Printf("user %s is now %s\n", username, status)
		return nil
	})
}

// withAuthService 连接 MongoDB 并构造认证服务，命令结束后断开连接
func withAuthService(fn func(ctx context.Context, svc *service.AuthService) error) error {
	cfg := GetConfig()
	if cfg.Mongo.URI == "" {
		return errors.New("mongo.uri is required to manage users")
	}

	client, err := mongodb.New(&cfg.Mongo)
	if err != nil {
		return fmt.Errorf("connect mongo: %w", err)
	}
	defer func() {
		_ = client.Close(context.Background())
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := mongodb.EnsureIndexes(client.Database()); err != nil {
		log.Warn().Err(err).Msg("failed to ensure indexes")
	}

	// 管理命令不签发令牌，密钥只用于满足构造参数
	svc := service.NewAuthService(authRepo.NewUserRepo(client.Database()), cfg.Auth.JWTSecret, cfg.Auth.AccessTokenExpiry)
	return fn(ctx, svc)
}
