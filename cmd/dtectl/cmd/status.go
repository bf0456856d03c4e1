package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/facturasv/dte-api/internal/application/dto"
)

var statusCmd = &cobra.Command{
	Use:   "status <invoice-id>",
	Short: "Consultar el estado de un documento",
	Args:  cobra.ExactArgs(1),
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	var out dto.InvoiceResponse
	var apiErr apiError
	resp, err := apiClient().R().
		SetContext(cmd.Context()).
		SetResult(&out).
		SetError(&apiErr).
		Get(fmt.Sprintf("/api/invoices/%s", args[0]))
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fail(resp, &apiErr)
	}
	return printJSON(out)
}
