package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/sssomt/sssomt/internal/engine"
	"github.com/sssomt/sssomt/internal/rules"
	"github.com/sssomt/sssomt/internal/sssomtapp"
)

// validateCommand implements "sssomt validate" (spec §6): parse and compile
// a ruleset only, printing every collected error and exiting non-zero on
// any — the cmd/migrate-style "dry run" counterpart in the teacher's CLI.
func validateCommand() *cli.Command {
	return &cli.Command{
		Name:  "validate",
		Usage: "Parse and compile a ruleset without processing any mappings",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "ruleset", Required: true, Usage: "Path to an SSSOM/T rules file"},
			&cli.BoolFlag{Name: "strict", Usage: "Treat prefix conflicts as hard errors during compilation"},
		},
		Action: validateAction,
	}
}

func validateAction(ctx context.Context, cmd *cli.Command) error {
	rulesSrc, err := os.ReadFile(cmd.String("ruleset"))
	if err != nil {
		return fmt.Errorf("validate: reading ruleset: %w", err)
	}

	ruleSet, perrs := rules.Parse(string(rulesSrc))
	if len(perrs) > 0 {
		for _, e := range perrs {
			fmt.Fprintln(os.Stderr, e)
		}
		return fmt.Errorf("validate: %d parse error(s)", len(perrs))
	}

	app := sssomtapp.New(sssomtapp.Config{Strict: cmd.Bool("strict")})
	if _, cerrs := engine.Compile(ruleSet, app); len(cerrs) > 0 {
		for _, e := range cerrs {
			fmt.Fprintln(os.Stderr, e)
		}
		return fmt.Errorf("validate: %d compile error(s)", len(cerrs))
	}

	fmt.Println("ruleset is valid")
	return nil
}
