package cmd

import (
	"github.com/spf13/cobra"

	"github.com/facturasv/dte-api/internal/application/dto"
)

var (
	contStart       string
	contEnd         string
	contTipo        int
	contReason      string
	contResponsable string
	contDUI         string
	contInvoices    []string
)

var contingenciaCmd = &cobra.Command{
	Use:   "contingencia",
	Short: "Declarar contingencia y reenviar el lote",
	Long: `Declara un evento de contingencia ante Hacienda y reenvía los documentos
del lote uno por uno. Los documentos deben estar en NUEVO: los emitidos
durante la ventana sin transmisión en línea.

Tipos de contingencia:
  1  falla en los sistemas del MH
  2  falla del emisor
  3  falla en el suministro eléctrico
  4  falla en el servicio de internet
  5  otro (detallar en --reason)`,
	RunE: runContingencia,
}

func init() {
	rootCmd.AddCommand(contingenciaCmd)

	contingenciaCmd.Flags().StringVar(&contStart, "start", "", "inicio de la ventana (RFC 3339 o YYYY-MM-DD)")
	contingenciaCmd.Flags().StringVar(&contEnd, "end", "", "fin de la ventana")
	contingenciaCmd.Flags().IntVar(&contTipo, "tipo", 1, "tipo de contingencia (1-5)")
	contingenciaCmd.Flags().StringVar(&contReason, "reason", "", "motivo de la contingencia")
	contingenciaCmd.Flags().StringVar(&contResponsable, "responsable", "", "nombre del responsable")
	contingenciaCmd.Flags().StringVar(&contDUI, "dui", "", "DUI del responsable (9 dígitos)")
	contingenciaCmd.Flags().StringArrayVar(&contInvoices, "invoice", nil, "ID de documento a reenviar (repetible)")
	_ = contingenciaCmd.MarkFlagRequired("start")
	_ = contingenciaCmd.MarkFlagRequired("end")
	_ = contingenciaCmd.MarkFlagRequired("reason")
	_ = contingenciaCmd.MarkFlagRequired("responsable")
	_ = contingenciaCmd.MarkFlagRequired("dui")
	_ = contingenciaCmd.MarkFlagRequired("invoice")
}

func runContingencia(cmd *cobra.Command, args []string) error {
	in := dto.SubmitContingencyRequest{
		Start:             contStart,
		End:               contEnd,
		Tipo:              contTipo,
		Reason:            contReason,
		ResponsableNombre: contResponsable,
		ResponsableDUI:    contDUI,
		InvoiceIDs:        contInvoices,
	}
	var out dto.ContingencyOutcomeResponse
	var apiErr apiError
	resp, err := apiClient().R().
		SetContext(cmd.Context()).
		SetBody(in).
		SetResult(&out).
		SetError(&apiErr).
		Post("/api/contingency")
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fail(resp, &apiErr)
	}
	return printJSON(out)
}
