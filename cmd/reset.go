package cmd

import (
	"fmt"

	"github.com/kamusis/pixdex/internal/index"
	"github.com/kamusis/pixdex/internal/store/backend"
	"github.com/spf13/cobra"
)

var flagResetYes bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete the persisted index so the next 'pixdex index' rebuilds it",
	Args:  cobra.NoArgs,
	RunE:  runReset,
}

func init() {
	resetCmd.Flags().BoolVarP(&flagResetYes, "yes", "y", false, "Confirm deletion")
	rootCmd.AddCommand(resetCmd)
}

func runReset(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd.Context(), appOptions{store: true})
	if err != nil {
		return err
	}
	defer a.Close()

	where := backend.Describe(a.cfg.Store)
	if !flagResetYes {
		printWarn("", fmt.Sprintf("this deletes every category from %s", where))
		return fmt.Errorf("refusing to reset without --yes")
	}

	n, err := index.Reset(cmd.Context(), a.store)
	if err != nil {
		return fmt.Errorf("reset stopped after %d categories: %w", n, err)
	}
	if n == 0 {
		printSkip("", "store already empty")
		return nil
	}
	printOK("", fmt.Sprintf("%d categories deleted from %s", n, where))
	return nil
}
