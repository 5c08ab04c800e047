package main

import (
	"fmt"
	"os"

	"github.com/maxkimambo/taskcompose/cmd"
	composeerrors "github.com/maxkimambo/taskcompose/internal/errors"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprint(os.Stderr, composeerrors.FormatForCLI(err))
		os.Exit(cmd.ExitCode(err))
	}
}
