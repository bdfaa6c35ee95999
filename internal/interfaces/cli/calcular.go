package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/legaldefense/plazos/internal/application/deadlines"
	"github.com/legaldefense/plazos/pkg/errors"
)

// CalcularOptions holds flags for the calcular command.
type CalcularOptions struct {
	Tipo  string
	Fecha string
}

// calcularResult wraps the service result so the table printer can render it.
type calcularResult struct {
	*deadlines.CalculateResult
}

func (r calcularResult) TableHeaders() []string {
	return []string{"PLAZO", "VENCE", "DIAS", "ESTADO"}
}

func (r calcularResult) TableRows() [][]string {
	rows := make([][]string, 0, len(r.Deadlines))
	for _, d := range r.Deadlines {
		rows = append(rows, []string{
			d.Label,
			d.Due,
			strconv.Itoa(d.RemainingDays),
			d.Status,
		})
	}
	return rows
}

// NewCalcularCmd creates the command that computes the full deadline set for
// one notified document.
func NewCalcularCmd() *cobra.Command {
	opts := &CalcularOptions{}

	cmd := &cobra.Command{
		Use:   "calcular",
		Short: "Calcula los plazos de respuesta y recurso de una notificación",
		Example: `  plazos calcular --tipo sancion_iva --fecha 15/03/2025
  plazos calcular --tipo requerimiento_generico --fecha "15 de marzo de 2025" -o json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCalcular(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Tipo, "tipo", "t", "", "document type (e.g. sancion_iva, requerimiento_generico)")
	cmd.Flags().StringVarP(&opts.Fecha, "fecha", "f", "", "notification date (DD/MM/YYYY, YYYY-MM-DD or Spanish long form)")
	_ = cmd.MarkFlagRequired("tipo")
	_ = cmd.MarkFlagRequired("fecha")

	return cmd
}

func runCalcular(cmd *cobra.Command, opts *CalcularOptions) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}
	if opts.Fecha == "" {
		return errors.New(errors.ErrCodeMissingAnchorDate, "notification date is required")
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()

	res, err := cliCtx.Service.Calculate(ctx, &deadlines.CalculateRequest{
		DocumentType:     opts.Tipo,
		NotificationDate: opts.Fecha,
	})
	if err != nil {
		return err
	}

	if res.Notice != "" {
		fmt.Fprintln(cmd.ErrOrStderr(), res.Notice)
	}
	return PrintResult(cmd, calcularResult{res})
}
