package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [facts-file]",
	Short: "Check a fact log for consistency",
	Long: `Replays the log into a throwaway store without printing the outline.
Reports the first fact that cannot be applied, then checks every
structural invariant of the resulting tree.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runValidate(cmd, args); err != nil {
			fmt.Printf("Validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Fact log is valid! ✅")
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
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
		return fmt.Errorf("after %d applied facts: %w", applied, err)
	}

	if err := eng.Verify(); err != nil {
		return fmt.Errorf("tree invariants violated: %w", err)
	}

	logger.Info("validation complete", "facts_applied", applied, "items", eng.Len())
	return nil
}
