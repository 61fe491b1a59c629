package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/sssomt/sssomt/internal/engine"
	"github.com/sssomt/sssomt/internal/mappingio"
	"github.com/sssomt/sssomt/internal/model"
	"github.com/sssomt/sssomt/internal/rules"
	"github.com/sssomt/sssomt/internal/sssomtapp"
)

// runCommand implements "sssomt run" (spec §6): read a mapping set, compile
// a ruleset against the reference Application, process every mapping, and
// write MappingProducts back out as TSV while printing StringProduct and
// AxiomStubProduct lines to stdout.
func runCommand() *cli.Command {
	cmd := &cli.Command{
		Name:  "run",
		Usage: "Apply a ruleset to a mapping set",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "ruleset", Required: true, Usage: "Path to an SSSOM/T rules file"},
			&cli.StringFlag{Name: "input", Required: true, Usage: "Path to an SSSOM TSV mapping set"},
			&cli.StringFlag{Name: "output", Usage: "Path to write MappingProduct rows as TSV (defaults to stdout)"},
			&cli.StringSliceFlag{Name: "include-tag", Usage: "Only evaluate rules carrying this tag (repeatable)"},
			&cli.StringSliceFlag{Name: "exclude-tag", Usage: "Skip rules carrying this tag (repeatable)"},
			&cli.BoolFlag{Name: "strict", Usage: "Treat prefix conflicts and function runtime errors as hard errors"},
		},
		Action: runAction,
	}
	return cmd
}

func runAction(ctx context.Context, cmd *cli.Command) error {
	rulesSrc, err := os.ReadFile(cmd.String("ruleset"))
	if err != nil {
		return fmt.Errorf("run: reading ruleset: %w", err)
	}

	inFile, err := os.Open(cmd.String("input"))
	if err != nil {
		return fmt.Errorf("run: reading input: %w", err)
	}
	defer inFile.Close()

	mappings, header, err := mappingio.ReadTSV(inFile)
	if err != nil {
		return fmt.Errorf("run: parsing input: %w", err)
	}

	ruleSet, perrs := rules.Parse(string(rulesSrc))
	if len(perrs) > 0 {
		return fmt.Errorf("run: %d parse error(s): %w", len(perrs), perrs[0])
	}

	strict := cmd.Bool("strict")
	app := sssomtapp.New(sssomtapp.Config{
		Strict:   strict,
		CurieMap: header.CurieMap,
	})

	eng, cerrs := engine.Compile(ruleSet, app)
	if len(cerrs) > 0 {
		return fmt.Errorf("run: %d compile error(s): %w", len(cerrs), cerrs[0])
	}

	products, err := eng.Process(mappings, engine.Options[sssomtapp.Product]{
		IncludeTags: cmd.StringSlice("include-tag"),
		ExcludeTags: cmd.StringSlice("exclude-tag"),
		Strict:      strict,
		Listener:    app.Listener(),
	})
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}

	var outMappings []model.Mapping
	for _, p := range products {
		switch p.Kind {
		case sssomtapp.MappingProduct:
			outMappings = append(outMappings, p.Mapping)
		case sssomtapp.StringProduct:
			fmt.Fprintln(os.Stdout, p.Text)
		case sssomtapp.AxiomStubProduct:
			fmt.Fprintf(os.Stdout, "%s(%s, %s, %s)\n", p.Axiom.Kind, p.Axiom.Subject, p.Axiom.Predicate, p.Axiom.Object)
		}
	}

	var out *os.File = os.Stdout
	if path := cmd.String("output"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("run: creating output: %w", err)
		}
		defer f.Close()
		out = f
	}
	return mappingio.WriteTSV(out, header, outMappings)
}
