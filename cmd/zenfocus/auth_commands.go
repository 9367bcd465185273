package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login <email>",
	Short: "Sign in and enable server sync",
	Args:  cobra.ExactArgs(1),
	RunE:  runLogin,
}

var registerCmd = &cobra.Command{
	Use:   "register <email> <name>",
	Short: "Create an account",
	Args:  cobra.ExactArgs(2),
	RunE:  runRegister,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and continue on-device only",
	RunE:  runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in account, if any",
	RunE:  runWhoami,
}

func runLogin(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	password, err := promptPassword()
	if err != nil {
		return err
	}

	result := a.auth.Login(cmd.Context(), args[0], password)
	if !result.OK {
		return fmt.Errorf("login failed (%s): %s", result.Reason, result.Message)
	}

	identity := a.auth.Identity()
	fmt.Printf("Signed in as %s <%s>\n", identity.User.Name, identity.User.Email)
	return nil
}

func runRegister(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	password, err := promptPassword()
	if err != nil {
		return err
	}

	result := a.auth.Register(cmd.Context(), args[0], password, args[1])
	if !result.OK {
		return fmt.Errorf("registration failed (%s): %s", result.Reason, result.Message)
	}

	identity := a.auth.Identity()
	fmt.Printf("Account created. Signed in as %s <%s>\n", identity.User.Name, identity.User.Email)
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	a.auth.Logout()
	fmt.Println("Signed out. Data stays on this device.")
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	a.auth.Verify(cmd.Context())

	identity := a.auth.Identity()
	if identity == nil {
		fmt.Println("Not signed in (guest mode).")
		return nil
	}
	fmt.Printf("%s <%s>\n", identity.User.Name, identity.User.Email)
	return nil
}

func promptPassword() (string, error) {
	fmt.Fprint(os.Stderr, "Password: ")
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
