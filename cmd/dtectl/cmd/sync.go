package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/facturasv/dte-api/internal/application/dto"
)

var syncCmd = &cobra.Command{
	Use:   "sync <invoice-id>",
	Short: "Transmitir un documento a Hacienda",
	Long: `Transmite el documento indicado. La operación es repetible: un documento
ya procesado responde con su sello sin volver a transmitir, y uno rechazado
queda listo para corregirse y reintentar.`,
	Args: cobra.ExactArgs(1),
	RunE: runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	var out dto.SyncResponse
	var apiErr apiError
	resp, err := apiClient().R().
		SetContext(cmd.Context()).
		SetResult(&out).
		SetError(&apiErr).
		Post(fmt.Sprintf("/api/invoices/%s/sync", args[0]))
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fail(resp, &apiErr)
	}
	return printJSON(out)
}
