package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"chweb/internal/model"
	"chweb/internal/repository"
	"chweb/internal/service"
)

const invalidPasswordMessage = "the password must be non-empty and fit in 72 bytes"

func newUserCommand(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage admin users",
	}
	cmd.AddCommand(
		newUserAddCommand(v),
		newUserPasswdCommand(v),
		newUserDeleteCommand(v),
	)
	return cmd
}

func newUserAddCommand(v *viper.Viper) *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create an admin user and print its API key",
		Long:  "Create an admin user. When --password is omitted the password is read from the first line of stdin.",
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := passwordOrStdin(cmd, password)
			if err != nil {
				return err
			}

			return withUserService(cmd, v, func(users service.UserService) error {
				user, err := users.Create(cmd.Context(), username, pw)
				switch {
				case errors.Is(err, service.ErrConflict):
					return fmt.Errorf("user %q already exists", username)
				case errors.Is(err, service.ErrInvalid):
					return errors.New("username is required and " + invalidPasswordMessage)
				case err != nil:
					return err
				}

				_, err = fmt.Fprintf(cmd.OutOrStdout(), "created user %s\napi key: %s\n", user.Username, user.APIKey)
				return err
			})
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "login name")
	cmd.Flags().StringVar(&password, "password", "", "password, read from stdin when empty")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}

func newUserPasswdCommand(v *viper.Viper) *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "passwd",
		Short: "Change an admin user's password",
		Long:  "Change an admin user's password. The API key and existing sessions stay valid. When --password is omitted the password is read from the first line of stdin.",
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := passwordOrStdin(cmd, password)
			if err != nil {
				return err
			}

			return withUserService(cmd, v, func(users service.UserService) error {
				user, err := findUser(cmd, users, username)
				if err != nil {
					return err
				}
				err = users.SetPassword(cmd.Context(), user.ID, pw)
				if errors.Is(err, service.ErrInvalid) {
					return errors.New(invalidPasswordMessage)
				}
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "updated password for %s\n", user.Username)
				return err
			})
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "login name")
	cmd.Flags().StringVar(&password, "password", "", "new password, read from stdin when empty")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}

func newUserDeleteCommand(v *viper.Viper) *cobra.Command {
	var username string

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete an admin user",
		Long:  "Delete an admin user. Its API key and every session cookie stop working immediately.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withUserService(cmd, v, func(users service.UserService) error {
				user, err := findUser(cmd, users, username)
				if err != nil {
					return err
				}
				if err := users.Delete(cmd.Context(), user.ID); err != nil {
					return err
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "deleted user %s\n", user.Username)
				return err
			})
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "login name")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}

// withUserService opens the configured store for the duration of fn.
func withUserService(cmd *cobra.Command, v *viper.Viper, fn func(service.UserService) error) error {
	cfg, err := loadConfig(cmd, v)
	if err != nil {
		return err
	}
	database, err := openStore(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	return fn(service.NewUserService(repository.NewUserRepository(database), cfg.PasswordCost))
}

func findUser(cmd *cobra.Command, users service.UserService, username string) (*model.User, error) {
	user, err := users.FindByUsername(cmd.Context(), username)
	if errors.Is(err, service.ErrNotFound) || errors.Is(err, service.ErrInvalid) {
		return nil, fmt.Errorf("user %q not found", username)
	}
	return user, err
}

func passwordOrStdin(cmd *cobra.Command, password string) (string, error) {
	if password != "" {
		return password, nil
	}
	line, err := readLine(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return line, nil
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
