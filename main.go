package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/oakwood-commons/fxed/cmd"
	"github.com/oakwood-commons/fxed/pkg/logger"
)

func main() {
	exitCode := 0
	switch err := cmd.Execute(); {
	case errors.Is(err, cmd.ErrCancelled):
		exitCode = 130
	case err != nil:
		fmt.Fprintln(os.Stderr, err)
		exitCode = 1
	}

	logger.Sync()
	if exitCode != 0 {
		os.Exit(exitCode)
	}
}
