// Command coupe manages the club roster and selects the cup team.
package main

import (
	"fmt"
	"os"

	"github.com/photogolffrance/coupe-hdf-app/internal/cmd"
	"github.com/photogolffrance/coupe-hdf-app/internal/errors"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", errors.UserMessage(err))
		os.Exit(1)
	}
}
