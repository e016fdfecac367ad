package cmd

import (
	"errors"
	"fmt"

	"github.com/kamusis/pixdex/internal/store"
	"github.com/spf13/cobra"
)

var flagColorCategory string

var colorCmd = &cobra.Command{
	Use:   "color <color>",
	Short: "List indexed images ranked by how much of a palette color they show",
	Long: `Query the persisted index by palette color name (see 'pixdex palette').

With --category, prints that category's full ranked list for the color.
Without it, samples the top images of every indexed category, at most
'scan_all_per_category' from each.`,
	Args: cobra.ExactArgs(1),
	RunE: runColor,
}

func init() {
	colorCmd.Flags().StringVarP(&flagColorCategory, "category", "c", "", "Restrict to one category")
	rootCmd.AddCommand(colorCmd)
}

func runColor(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context(), appOptions{store: true})
	if err != nil {
		return err
	}
	defer a.Close()

	color := args[0]
	if _, ok := a.palette.Lookup(color); !ok {
		printWarn("", fmt.Sprintf("%q is not a palette color; see 'pixdex palette'", color))
	}

	paths, err := a.engine().SearchColor(cmd.Context(), flagColorCategory, color)
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("category %q is not indexed (run 'pixdex status' to list categories)", flagColorCategory)
	}
	if err != nil {
		return err
	}

	scope := "all categories"
	if flagColorCategory != "" {
		scope = flagColorCategory
	}
	fmt.Printf("\npixdex color %q in %s\n\n", color, scope)
	fmt.Printf("Results (%d found):\n", len(paths))
	printPaths(paths)
	return nil
}
