// Package main provides the offline Alchemist command line.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dukex/alchemist/pkg/log"
	"github.com/urfave/cli/v3"
)

func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:                  "alchemist",
		Usage:                 "Validate resource allocation tables and parse business rules offline",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "warn",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Before: func(ctx context.Context, command *cli.Command) (context.Context, error) {
			log.Setup(command.String("log-level"))

			return log.ContextWithLogger(ctx, log.WithModule("cli")), nil
		},
		Commands: []*cli.Command{
			validateCommand(),
			parseRuleCommand(),
			exportCommand(),
			configCommand(),
		},
	}
}
