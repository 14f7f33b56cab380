package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/wmbr/proc-opt/internal/app"
	"github.com/wmbr/proc-opt/internal/shared"
)

func main() {
	os.Exit(run())
}

func run() int {
	application, err := app.New(os.Args[1:], os.Stdout, os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "procopt:", err)
		return shared.ExitCode(err)
	}
	defer application.Close()

	if err := application.Run(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "procopt:", err)
		return shared.ExitCode(err)
	}
	return 0
}
