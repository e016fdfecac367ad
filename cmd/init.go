package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kamusis/pixdex/internal/config"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create ~/.pixdex with a default config and .env template",
	Long: `Create ~/.pixdex/ and write a default pixdex.yaml and .env template.
Existing files are never overwritten.

Afterwards, put the catalog at the configured 'catalog' path (or edit it) and
the images under 'images_root', then run 'pixdex index'.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(_ *cobra.Command, _ []string) error {
	// ── 1. Resolve ~/.pixdex directory ────────────────────────────────────────
	dir, err := config.PixdexDir()
	if err != nil {
		return err
	}
	cfgPath := flagConfig
	if cfgPath == "" {
		if cfgPath, err = config.ConfigPath(); err != nil {
			return err
		}
	}

	// ── 2. Create ~/.pixdex/ if it doesn't exist ──────────────────────────────
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("cannot create %s: %w", dir, err)
	}
	printOK("", fmt.Sprintf("pixdex directory ready: %s", dir))

	// ── 3. Write pixdex.yaml if missing ───────────────────────────────────────
	if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
		cfg, err := config.DefaultConfig()
		if err != nil {
			return err
		}
		if err := config.Save(cfg, cfgPath); err != nil {
			return err
		}
		printOK("", fmt.Sprintf("Config written: %s", cfgPath))
	} else {
		printSkip("", fmt.Sprintf("Config already exists: %s", cfgPath))
	}

	// ── 4. .env template for store credentials ────────────────────────────────
	envPath, err := config.DotEnvPath()
	if err != nil {
		return err
	}
	if _, err := os.Stat(envPath); err == nil {
		printSkip("", fmt.Sprintf(".env already exists: %s", envPath))
	} else {
		if err := config.EnsureDotEnvTemplate(); err != nil {
			return err
		}
		printOK("", fmt.Sprintf(".env template written: %s", envPath))
	}

	// ── 5. Check what the config points at ────────────────────────────────────
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if _, err := os.Stat(cfg.Catalog); err != nil {
		printMiss("", fmt.Sprintf("catalog not found yet: %s", cfg.Catalog))
	} else {
		printOK("", fmt.Sprintf("catalog found: %s", cfg.Catalog))
	}
	if cfg.ImagesRoot != "" {
		if err := os.MkdirAll(cfg.ImagesRoot, 0o755); err != nil {
			return fmt.Errorf("cannot create %s: %w", cfg.ImagesRoot, err)
		}
		printOK("", fmt.Sprintf("images root ready: %s", filepath.Clean(cfg.ImagesRoot)))
	}
	fmt.Println("\n  Next: run 'pixdex index' to build the color index.")
	return nil
}
