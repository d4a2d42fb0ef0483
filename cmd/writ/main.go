package main

import (
	"context"
	"errors"
	"fmt"
	"os"
)

// errNoMatch marks a completed identification in which nothing cleared the
// confidence threshold. It maps to exit code 1 so scripts can distinguish
// "no license found" from genuine failures.
var errNoMatch = errors.New("no license matched")

func main() {
	cmd := newRootCommand()
	err := cmd.Execute()
	if err == nil {
		return
	}
	if errors.Is(err, errNoMatch) {
		os.Exit(1)
	}
	if !errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, err)
	}
	os.Exit(2)
}
