package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/legaldefense/plazos/internal/application/deadlines"
)

// AlertasOptions holds flags for the alertas command.
type AlertasOptions struct {
	Tipo  string
	Fecha string
}

type alertasResult struct {
	*deadlines.AlertsResult
}

func (r alertasResult) TableHeaders() []string {
	return []string{"PLAZO", "VENCE", "DIAS", "URGENCIA", "MENSAJE"}
}

func (r alertasResult) TableRows() [][]string {
	rows := make([][]string, 0, len(r.Alerts))
	for _, a := range r.Alerts {
		rows = append(rows, []string{
			a.Label,
			a.Due,
			strconv.Itoa(a.RemainingDays),
			a.Severity,
			a.Message,
		})
	}
	return rows
}

// NewAlertasCmd creates the command that grades deadlines by urgency.
func NewAlertasCmd() *cobra.Command {
	opts := &AlertasOptions{}

	cmd := &cobra.Command{
		Use:   "alertas",
		Short: "Clasifica los plazos de una notificación por urgencia",
		Example: `  plazos alertas --tipo liquidacion_irpf --fecha 31/01/2025
  plazos alertas -t sancion_iva -f 2025-03-15 -o json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAlertas(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Tipo, "tipo", "t", "", "document type")
	cmd.Flags().StringVarP(&opts.Fecha, "fecha", "f", "", "notification date")
	_ = cmd.MarkFlagRequired("tipo")
	_ = cmd.MarkFlagRequired("fecha")

	return cmd
}

func runAlertas(cmd *cobra.Command, opts *AlertasOptions) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()

	res, err := cliCtx.Service.Alerts(ctx, &deadlines.CalculateRequest{
		DocumentType:     opts.Tipo,
		NotificationDate: opts.Fecha,
	})
	if err != nil {
		return err
	}

	return PrintResult(cmd, alertasResult{res})
}
