package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/ardnew/monkey/cli"
	"github.com/ardnew/monkey/lang"
	"github.com/ardnew/monkey/log"
)

func main() {
	err := cli.Run(context.Background(), os.Exit, os.Args[1:]...)
	if err == nil {
		return
	}

	// Program errors are reported as plain text; anything else is a failure
	// of the tool itself.
	var perr *lang.ParseError
	if errors.As(err, &perr) || errors.Is(err, lang.ErrRuntime) {
		fmt.Fprintln(os.Stderr, err)
	} else {
		log.Error("run failed", slog.Any("error", err))
	}

	os.Exit(1)
}
