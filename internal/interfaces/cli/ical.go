package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/legaldefense/plazos/internal/application/deadlines"
	"github.com/legaldefense/plazos/pkg/errors"
)

// ICalOptions holds flags for the ical command.
type ICalOptions struct {
	Tipo   string
	Fecha  string
	Output string
}

// NewICalCmd creates the command that exports deadlines as an iCalendar file.
func NewICalCmd() *cobra.Command {
	opts := &ICalOptions{}

	cmd := &cobra.Command{
		Use:   "ical",
		Short: "Exporta los plazos de una notificación en formato iCalendar",
		Example: `  plazos ical --tipo acta_inspeccion --fecha 01/08/2025
  plazos ical -t sancion_iva -f 15/03/2025 --out plazos.ics`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runICal(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Tipo, "tipo", "t", "", "document type")
	cmd.Flags().StringVarP(&opts.Fecha, "fecha", "f", "", "notification date")
	cmd.Flags().StringVar(&opts.Output, "out", "", "write to file instead of stdout")
	_ = cmd.MarkFlagRequired("tipo")
	_ = cmd.MarkFlagRequired("fecha")

	return cmd
}

func runICal(cmd *cobra.Command, opts *ICalOptions) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()

	data, err := cliCtx.Service.ExportICal(ctx, &deadlines.CalculateRequest{
		DocumentType:     opts.Tipo,
		NotificationDate: opts.Fecha,
	})
	if err != nil {
		return err
	}

	if opts.Output == "" {
		fmt.Fprint(cmd.OutOrStdout(), string(data))
		return nil
	}

	if err := os.WriteFile(opts.Output, data, 0o644); err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "writing calendar file")
	}
	fmt.Fprintf(cmd.OutOrStdout(), "OK: %s\n", opts.Output)
	return nil
}
