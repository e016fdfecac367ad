package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/kamusis/pixdex/internal/catalog"
	"github.com/kamusis/pixdex/internal/index"
	"github.com/kamusis/pixdex/internal/store/backend"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the catalog, the store and what the persisted index holds",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, err := openApp(ctx, appOptions{store: true})
	if err != nil {
		return err
	}
	defer a.Close()

	fmt.Println("=== Catalog ===")
	if cat, err := catalog.Load(a.cfg.Catalog); err != nil {
		printErr("", err.Error())
	} else {
		printOK("", fmt.Sprintf("%s: %d images, %d categories", a.cfg.Catalog, cat.Len(), len(cat.Categories())))
	}

	printSection("Index")
	printInfo("", backend.Describe(a.cfg.Store))
	keys, err := a.store.Keys(ctx)
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		printMiss("", "empty (run 'pixdex index')")
		return nil
	}

	fmt.Println()
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "  CATEGORY\tENTRIES\tIMAGES")
	var bad int
	for _, k := range keys {
		e, err := index.Read(ctx, a.store, k)
		if err != nil {
			fmt.Fprintf(tw, "  %s\t✗ %v\t\n", k, err)
			bad++
			continue
		}
		seen := make(map[string]struct{}, len(e.Images))
		for _, im := range e.Images {
			seen[im.Image.Path] = struct{}{}
		}
		fmt.Fprintf(tw, "  %s\t%d\t%d\n", k, len(e.Images), len(seen))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Printf("\n  %d categories persisted / %d unreadable\n", len(keys), bad)
	if bad > 0 {
		return fmt.Errorf("%d category entries could not be read", bad)
	}
	return nil
}
