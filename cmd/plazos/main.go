// plazos is the command line interface to the deadline calculator.
package main

import (
	"os"

	"github.com/legaldefense/plazos/internal/interfaces/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
