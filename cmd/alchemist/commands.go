package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/dukex/alchemist/pkg/export"
	"github.com/dukex/alchemist/pkg/log"
	"github.com/dukex/alchemist/pkg/models"
	"github.com/dukex/alchemist/pkg/services"
	"github.com/urfave/cli/v3"
)

// ErrValidationFailed is returned by validate --fail-on-error when errors were found.
var ErrValidationFailed = errors.New("validation failed")

func validateCommand() *cli.Command {
	return &cli.Command{
		Name:    "validate",
		Aliases: []string{"v"},
		Usage:   "Validate clients, workers and tasks tables given as JSON arrays of rows",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "clients", Usage: "Path to the clients JSON file"},
			&cli.StringFlag{Name: "workers", Usage: "Path to the workers JSON file"},
			&cli.StringFlag{Name: "tasks", Usage: "Path to the tasks JSON file"},
			&cli.StringFlag{Name: "format", Usage: "Output format (text, json)", Value: "text"},
			&cli.BoolFlag{Name: "fail-on-error", Usage: "Exit with an error when error findings exist"},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			var snapshot models.Snapshot

			if err := readRows(command.String("clients"), &snapshot.Clients); err != nil {
				return err
			}

			if err := readRows(command.String("workers"), &snapshot.Workers); err != nil {
				return err
			}

			if err := readRows(command.String("tasks"), &snapshot.Tasks); err != nil {
				return err
			}

			service := services.NewSession(nil, nil, services.WithLogger(log.FromContext(ctx)))
			report := service.ValidateSnapshot(ctx, snapshot)

			switch strings.ToLower(command.String("format")) {
			case "json":
				data, err := export.JSON(report)
				if err != nil {
					return err
				}

				fmt.Fprintln(command.Root().Writer, string(data))
			case "text":
				writeReport(command.Root().Writer, report)
			default:
				return fmt.Errorf("unsupported output format %q", command.String("format"))
			}

			if command.Bool("fail-on-error") && !report.Valid() {
				return fmt.Errorf("%w: %d error(s)", ErrValidationFailed, report.ErrorCount)
			}

			return nil
		},
	}
}

func parseRuleCommand() *cli.Command {
	return &cli.Command{
		Name:      "parse-rule",
		Aliases:   []string{"p"},
		Usage:     "Parse a business rule sentence into a structured rule",
		ArgsUsage: "<sentence...>",
		Action: func(ctx context.Context, command *cli.Command) error {
			text := strings.Join(command.Args().Slice(), " ")
			if strings.TrimSpace(text) == "" {
				return errors.New("a rule sentence is required")
			}

			rules := services.NewRules(nil, nil, services.WithLogger(log.FromContext(ctx)))

			data, err := export.JSON(rules.Parse(ctx, text))
			if err != nil {
				return err
			}

			fmt.Fprintln(command.Root().Writer, string(data))

			return nil
		},
	}
}

func exportCommand() *cli.Command {
	return &cli.Command{
		Name:    "export",
		Aliases: []string{"e"},
		Usage:   "Export one table of a session document",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "input", Usage: "Path to the session JSON document", Required: true},
			&cli.StringFlag{Name: "dataset", Usage: "Table to export (clients, workers, tasks)", Required: true},
			&cli.StringFlag{Name: "format", Usage: "Export format (csv, json)", Value: "csv"},
		},
		Action: func(_ context.Context, command *cli.Command) error {
			session, err := readSession(command.String("input"))
			if err != nil {
				return err
			}

			dataset, ok := models.ParseDataset(command.String("dataset"))
			if !ok {
				return fmt.Errorf("unknown dataset %q (expected clients, workers or tasks)", command.String("dataset"))
			}

			format, err := export.ParseFormat(command.String("format"))
			if err != nil {
				return err
			}

			body, err := export.Dataset(session, dataset, format)
			if err != nil {
				return err
			}

			fmt.Fprintln(command.Root().Writer, string(body))

			return nil
		},
	}
}

func configCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Print the rule configuration document of a session document",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "input", Usage: "Path to the session JSON document", Required: true},
		},
		Action: func(_ context.Context, command *cli.Command) error {
			session, err := readSession(command.String("input"))
			if err != nil {
				return err
			}

			doc, err := export.Config(session)
			if err != nil {
				return err
			}

			fmt.Fprintln(command.Root().Writer, string(doc))

			return nil
		},
	}
}

// readRows decodes a JSON array of rows; an empty path leaves dest empty.
func readRows[R any](path string, dest *[]R) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("failed to decode rows in %s: %w", path, err)
	}

	return nil
}

func readSession(path string) (*models.Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var session models.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to decode session in %s: %w", path, err)
	}

	return &session, nil
}
