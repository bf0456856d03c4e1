package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/facturasv/dte-api/internal/application/dto"
)

var (
	loginEmail    string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Iniciar sesión y obtener un token",
	Long: `Inicia sesión contra la API e imprime el token en stdout, listo para
exportarlo como DTECTL_TOKEN.`,
	RunE: runLogin,
}

func init() {
	rootCmd.AddCommand(loginCmd)

	loginCmd.Flags().StringVarP(&loginEmail, "email", "e", "", "email del usuario")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "contraseña")
	_ = loginCmd.MarkFlagRequired("email")
	_ = loginCmd.MarkFlagRequired("password")
}

func runLogin(cmd *cobra.Command, args []string) error {
	var out dto.LoginResponse
	var apiErr apiError
	resp, err := apiClient().R().
		SetContext(cmd.Context()).
		SetBody(dto.LoginRequest{Email: loginEmail, Password: loginPassword}).
		SetResult(&out).
		SetError(&apiErr).
		Post("/api/auth/login")
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fail(resp, &apiErr)
	}
	fmt.Println(out.Token)
	return nil
}
