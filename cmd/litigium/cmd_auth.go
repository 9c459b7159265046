package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manejo de la sesión de usuario",
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Iniciar sesión con email y contraseña",
	RunE:  runAuthLogin,
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Cerrar la sesión y borrar las credenciales locales",
	RunE:  runAuthLogout,
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Mostrar el estado de la sesión",
	RunE:  runAuthStatus,
}

func init() {
	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authLogoutCmd)
	authCmd.AddCommand(authStatusCmd)
}

func runAuthLogin(cmd *cobra.Command, args []string) error {
	reader := bufio.NewReader(os.Stdin)
	fmt.Print("Email: ")
	email, err := reader.ReadString('\n')
	if err != nil {
		return err
	}
	email = strings.TrimSpace(email)

	fmt.Print("Contraseña: ")
	passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return err
	}

	creds, err := app.Identity.SignIn(email, string(passwordBytes))
	if err != nil {
		return err
	}

	color.Green("✓ Sesión iniciada como %s", creds.Email)
	return nil
}

func runAuthLogout(cmd *cobra.Command, args []string) error {
	if err := app.Identity.SignOut(); err != nil {
		return err
	}
	color.Green("✓ Sesión cerrada")
	return nil
}

func runAuthStatus(cmd *cobra.Command, args []string) error {
	creds, ok := app.Tokens.Current()
	if !ok {
		color.Yellow("Sin sesión. Ejecutá `litigium auth login`.")
		return nil
	}

	fmt.Printf("Usuario:  %s\n", creds.Email)
	if creds.ExpiresAt.IsZero() {
		fmt.Println("Expira:   desconocido")
	} else {
		fmt.Printf("Expira:   %s\n", creds.ExpiresAt.Format("2006-01-02 15:04:05"))
	}
	if _, _, err := app.Identity.CurrentUser(); err != nil {
		color.Yellow("El token guardado ya no es válido: %v", err)
		return nil
	}
	color.Green("✓ Token válido")
	return nil
}
