package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/arbor/internal/presentation/outline"
	"github.com/aretw0/arbor/internal/presentation/tui"
	"github.com/aretw0/arbor/pkg/domain"
)

var replayCmd = &cobra.Command{
	Use:   "replay [facts-file]",
	Short: "Replay a fact log and print the resulting outline",
	Long: `Reads fact lines from a file (or stdin with "-"), applies them in
order, and prints the derived outline. Replay halts on the first fact
that cannot be applied.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runReplay(cmd, args); err != nil {
			fmt.Fprintf(os.Stderr, "Replay failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(replayCmd)
	replayCmd.Flags().StringP("format", "f", "glamour", "Output format: glamour, markdown, json, plain")
}

func runReplay(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}

	path := ""
	if len(args) > 0 {
		path = args[0]
	}
	facts, err := openFacts(path)
	if err != nil {
		return err
	}
	defer facts.Close()

	eng := newEngine(cfg, logger)

	applied, err := eng.Replay(cmd.Context(), facts)
	if err != nil {
		return err
	}
	logger.Info("replay complete", "facts_applied", applied, "items", eng.Len())

	trees := make([]*domain.Tree, 0)
	for _, rootID := range eng.Roots() {
		tree, err := eng.Tree(rootID)
		if err != nil {
			return err
		}
		trees = append(trees, tree)
	}

	format, _ := cmd.Flags().GetString("format")
	switch format {
	case "json":
		return json.NewEncoder(os.Stdout).Encode(trees)
	case "markdown", "plain":
		fmt.Print(outline.MarkdownForest(trees))
		return nil
	case "glamour":
		render := tui.NewRenderer()
		out, err := render(outline.MarkdownForest(trees))
		if err != nil {
			return err
		}
		fmt.Print(out)
		return nil
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
