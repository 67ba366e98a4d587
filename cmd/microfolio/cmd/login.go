package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and store the session token",
	Long: `Authenticate against the backend and store the session token in the
configured token file. Subsequent commands reuse the stored token.

Example:
  microfolio login --username alice`,
	RunE: runLogin,
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a new account",
	RunE:  runRegister,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Discard the stored session token",
	RunE:  runLogout,
}

var (
	loginUsername string
	loginPassword string
	registerEmail string
)

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(logoutCmd)

	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "account username (required)")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "account password (prompted when omitted)")
	loginCmd.MarkFlagRequired("username")

	registerCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "account username (required)")
	registerCmd.Flags().StringVarP(&registerEmail, "email", "e", "", "account email (required)")
	registerCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "account password (prompted when omitted)")
	registerCmd.MarkFlagRequired("username")
	registerCmd.MarkFlagRequired("email")
}

func runLogin(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	sess, err := newSession(cfg)
	if err != nil {
		return err
	}

	password, err := readPassword()
	if err != nil {
		return err
	}

	token, err := newClient(cfg, sess).Login(cmd.Context(), loginUsername, password)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	if err := sess.Set(token); err != nil {
		return fmt.Errorf("store token: %w", err)
	}

	fmt.Printf("✓ Logged in as %s\n", loginUsername)
	return nil
}

func runRegister(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	sess, err := newSession(cfg)
	if err != nil {
		return err
	}

	password, err := readPassword()
	if err != nil {
		return err
	}

	if err := newClient(cfg, sess).Register(cmd.Context(), loginUsername, registerEmail, password); err != nil {
		return fmt.Errorf("register: %w", err)
	}

	fmt.Printf("✓ Account created: %s\n", loginUsername)
	fmt.Println("Run `microfolio login` to start a session.")
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	sess, err := newSession(cfg)
	if err != nil {
		return err
	}
	if err := sess.Clear(); err != nil {
		return fmt.Errorf("clear token: %w", err)
	}

	fmt.Println("✓ Logged out")
	return nil
}

func readPassword() (string, error) {
	if loginPassword != "" {
		return loginPassword, nil
	}
	fmt.Fprint(os.Stderr, "Password: ")
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimSpace(line), nil
}
