package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/EffortlessMetrics/flow-studio-dev-sub002/internal/interface/cli"
)

func main() {
	err := cli.NewRoot().Execute()
	if err == nil {
		return
	}
	if errors.Is(err, cli.ErrValidationFailed) {
		os.Exit(1)
	}
	// Findings and fatal corpus failures are already rendered; anything
	// else is an internal error nobody printed yet.
	if !errors.Is(err, cli.ErrFatal) {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	os.Exit(2)
}
