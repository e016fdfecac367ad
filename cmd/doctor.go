package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kamusis/pixdex/internal/catalog"
	"github.com/kamusis/pixdex/internal/store"
	"github.com/kamusis/pixdex/internal/store/backend"
	"github.com/spf13/cobra"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Run pre-flight checks before indexing",
	Long: `Check that the config is valid, the catalog loads, every catalog image
exists under images_root, and the store is reachable and not locked by a
running indexer. Run this when 'pixdex index' fails or skips unexpectedly.`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

// missingImages returns the catalog paths that do not exist under root.
func missingImages(cat *catalog.Catalog, root string) []string {
	var missing []string
	for _, im := range cat.Images {
		p := im.Path
		if !filepath.IsAbs(p) && root != "" {
			p = filepath.Join(root, filepath.FromSlash(p))
		}
		if _, err := os.Stat(p); err != nil {
			missing = append(missing, im.Path)
		}
	}
	return missing
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	allOK := true
	failD := func(format string, args ...any) {
		printErr("", fmt.Sprintf(format, args...))
		allOK = false
	}

	printSection("pixdex doctor")
	fmt.Println()

	// ── Check 1: config ───────────────────────────────────────────────────────
	fmt.Println("[ config ]")
	cfg, loadErr := loadConfig()
	if loadErr != nil {
		failD("%v", loadErr)
		fmt.Println()
		fmt.Fprintln(os.Stderr, "✗  Config not loaded; remaining checks skipped.")
		return fmt.Errorf("doctor found issues")
	}
	pal, _ := cfg.ResolvePalette()
	printOK("", fmt.Sprintf("valid: %d categories, num_shown_pic %d, palette %v", len(cfg.Categories), cfg.NumShownPic, pal.Names()))
	fmt.Println()

	// ── Check 2: catalog ──────────────────────────────────────────────────────
	fmt.Println("[ catalog ]")
	cat, catErr := catalog.Load(cfg.Catalog)
	if catErr != nil {
		failD("%v", catErr)
	} else {
		printOK("", fmt.Sprintf("%d images in %d categories", cat.Len(), len(cat.Categories())))
		if cfg.PoolCapacity > 0 && cfg.PoolCapacity < cat.Len() {
			failD("pool_capacity %d is smaller than the catalog (%d); indexing would fail", cfg.PoolCapacity, cat.Len())
		}
	}
	fmt.Println()

	// ── Check 3: images on disk ───────────────────────────────────────────────
	fmt.Println("[ images ]")
	if catErr == nil {
		missing := missingImages(cat, cfg.ImagesRoot)
		if len(missing) == 0 {
			printOK("", fmt.Sprintf("all %d images present under %s", cat.Len(), cfg.ImagesRoot))
		} else {
			for i, m := range missing {
				if i == 5 {
					printWarn("", fmt.Sprintf("... and %d more", len(missing)-i))
					break
				}
				printMiss("", m)
			}
			printWarn("", fmt.Sprintf("%d of %d images missing; they will be skipped during indexing", len(missing), cat.Len()))
		}
	} else {
		printWarn("", "skipped (catalog not loaded)")
	}
	fmt.Println()

	// ── Check 4: store ────────────────────────────────────────────────────────
	fmt.Println("[ store ]")
	s, err := backend.Open(ctx, cfg.Store)
	if err != nil {
		failD("cannot open %s: %v", backend.Describe(cfg.Store), err)
	} else {
		defer s.Close()
		printOK("", backend.Describe(cfg.Store))
		if keys, err := s.Keys(ctx); err != nil {
			failD("cannot list categories: %v", err)
		} else if len(keys) == 0 {
			printInfo("", "empty; 'pixdex index' will build it")
		} else {
			printInfo("", fmt.Sprintf("%d categories persisted; 'pixdex index' will skip", len(keys)))
		}

		lockCtx, cancel := context.WithTimeout(ctx, time.Second)
		unlock, err := store.Lock(lockCtx, s)
		cancel()
		if err != nil {
			failD("%v", err)
		} else {
			unlock()
			printOK("", "writer lock available")
		}
	}
	fmt.Println()

	// ── Summary ───────────────────────────────────────────────────────────────
	fmt.Println("===================")
	if !allOK {
		fmt.Fprintln(os.Stderr, "✗  One or more checks failed. See details above.")
		return fmt.Errorf("doctor found issues")
	}
	fmt.Println("✓  All checks passed. pixdex is ready to index.")
	return nil
}
