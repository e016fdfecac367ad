package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/kamusis/pixdex/internal/pool"
	"github.com/kamusis/pixdex/internal/store/backend"
	"github.com/spf13/cobra"
)

var (
	flagIndexWorkers  int
	flagIndexProgress int
	flagIndexShowFail int
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Compute color signatures for the catalog and persist the index",
	Long: `Decode every catalog image, count its pixels per palette color and
persist, per category and color, the images with the most pixels of that color.

If the store already holds an index it is authoritative and nothing is
rebuilt; run 'pixdex reset' first to regenerate it.`,
	Args: cobra.NoArgs,
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().IntVar(&flagIndexWorkers, "workers", 0, "Concurrent decodes (default: config 'workers', then GOMAXPROCS)")
	indexCmd.Flags().IntVar(&flagIndexProgress, "progress", 100, "Print progress every N images (0 disables)")
	indexCmd.Flags().IntVar(&flagIndexShowFail, "show-failures", 10, "List at most N failed images")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	a, err := openApp(ctx, appOptions{catalog: true, store: true})
	if err != nil {
		return err
	}
	defer a.Close()

	printSection("pixdex index")
	printInfo("", fmt.Sprintf("catalog: %s (%d images)", a.cfg.Catalog, a.catalog.Len()))
	printInfo("", fmt.Sprintf("store:   %s", backend.Describe(a.cfg.Store)))

	var progress func(done, total int)
	if every := flagIndexProgress; every > 0 {
		progress = func(done, total int) {
			if done%every == 0 || done == total {
				printInfo("", fmt.Sprintf("image %d processed out of %d", done, total))
			}
		}
	}

	rep, err := a.indexer(flagIndexWorkers, progress).Run(ctx, a.catalog.Images)
	if errors.Is(err, pool.ErrPoolFull) {
		return fmt.Errorf("%w\n  pool_capacity (%d) is smaller than the catalog (%d images); raise it or set 0",
			err, a.cfg.PoolCapacity, a.catalog.Len())
	}
	if err != nil {
		return err
	}
	if rep.Skipped {
		printSkip("", "index already present; nothing rebuilt (run 'pixdex reset' to regenerate)")
		return nil
	}

	if n := len(rep.Failures); n > 0 {
		printBullet(fmt.Sprintf("Skipped images (%d could not be decoded):", n))
		for i, f := range rep.Failures {
			if i == flagIndexShowFail {
				printWarn("", fmt.Sprintf("... and %d more (see logs)", n-i))
				break
			}
			printErr(f.Path, f.Err.Error())
		}
		fmt.Println()
	}
	printOK("", fmt.Sprintf("%d of %d images indexed into %d categories in %s (run %s)",
		rep.Processed, rep.Images, rep.Categories, rep.Duration.Round(time.Millisecond), rep.RunID))
	return nil
}
