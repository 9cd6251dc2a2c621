package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/wolfman30/vicidial-admin/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Stdout, os.Stderr, os.Args[1:])
	stop()
	os.Exit(code)
}

// run executes one command line and maps the outcome to a process exit code.
func run(ctx context.Context, out, errOut io.Writer, args []string) int {
	err := cli.Execute(ctx, out, errOut, args)
	if err == nil {
		return 0
	}
	var exitErr *cli.ExitError
	if errors.As(err, &exitErr) {
		fmt.Fprintln(errOut, "❌ "+exitErr.Message)
		return exitErr.Code
	}
	fmt.Fprintln(errOut, "❌ "+err.Error())
	return cli.ExitFailure
}
