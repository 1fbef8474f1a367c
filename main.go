package main

import (
	"os"

	"github.com/statichost/cspsync/cmd"
	"github.com/statichost/cspsync/internal/errors"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(errors.ExitCode(err))
	}
}
