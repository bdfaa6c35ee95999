package cli

import (
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/legaldefense/plazos/internal/application/deadlines"
	"github.com/legaldefense/plazos/pkg/errors"
)

type festivosResult struct {
	*deadlines.HolidaysResult
}

func (r festivosResult) TableHeaders() []string {
	return []string{"FECHA"}
}

func (r festivosResult) TableRows() [][]string {
	rows := make([][]string, 0, len(r.Holidays))
	for _, h := range r.Holidays {
		rows = append(rows, []string{h})
	}
	return rows
}

// NewFestivosCmd creates the command that lists the holidays known for a year.
func NewFestivosCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "festivos [year]",
		Short: "Lista los festivos nacionales conocidos para un año",
		Args:  cobra.MaximumNArgs(1),
		Example: `  plazos festivos 2025
  plazos festivos -o json`,
		RunE: runFestivos,
	}

	return cmd
}

func runFestivos(cmd *cobra.Command, args []string) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}

	year := time.Now().Year()
	if len(args) == 1 {
		year, err = strconv.Atoi(args[0])
		if err != nil {
			return errors.New(errors.ErrCodeBadRequest, "year must be a number")
		}
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()

	res, err := cliCtx.Service.Holidays(ctx, year)
	if err != nil {
		return err
	}

	return PrintResult(cmd, festivosResult{res})
}
