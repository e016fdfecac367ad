package cmd

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/kamusis/pixdex/internal/catalog"
	"github.com/kamusis/pixdex/internal/index"
	"github.com/kamusis/pixdex/internal/pixels"
	"github.com/kamusis/pixdex/internal/signature"
	"github.com/kamusis/pixdex/internal/store"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <image-path>",
	Short: "Show the color signature of one image and where it ranks",
	Long: `Decode one image, print its pixel count per palette color and, when the
image is in the catalog and its category is indexed, its rank in each color
list of that category.

The path is resolved like catalog paths: relative to 'images_root'.

Example:
  pixdex inspect taj_mahal/0042.jpg`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := openApp(ctx, appOptions{store: true})
	if err != nil {
		return err
	}
	defer a.Close()

	im := catalog.Image{Path: args[0]}
	if cat, err := catalog.Load(a.cfg.Catalog); err == nil {
		if i := slices.IndexFunc(cat.Images, func(c catalog.Image) bool { return c.Path == im.Path }); i >= 0 {
			im = cat.Images[i]
		}
	}

	rec, err := signature.NewBuilder(a.palette).Process(ctx, im, pixels.NewFileProvider(a.cfg.ImagesRoot))
	if err != nil {
		return err
	}

	printSection(im.Path)
	if im.Category == "" {
		printMiss("", "not in catalog")
	} else {
		printInfo("", fmt.Sprintf("category: %s", im.Category))
		printInfo("", fmt.Sprintf("dominant tag: %s", orNA(im.DominantColor)))
	}

	ranks, err := rankIn(cmd, a, rec)
	if err != nil {
		return err
	}

	total := rec.Histogram.Total()
	dom := rec.Histogram.Dominant()
	fmt.Println()
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "  COLOR\tPIXELS\tSHARE\t\tRANK")
	for bin, n := range rec.Histogram {
		share := 0.0
		if total > 0 {
			share = float64(n) / float64(total)
		}
		mark := ""
		if bin == dom {
			mark = " ●"
		}
		fmt.Fprintf(tw, "  %s%s\t%d\t%5.1f%%\t%s\t%s\n",
			a.palette[bin].Name, mark, n, share*100, strings.Repeat("█", int(share*20+0.5)), ranks[bin])
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Printf("\n  %d pixels\n", total)
	return nil
}

// rankIn returns, per bin, the image's 1-based rank in its category's
// persisted list, "-" when it did not make the list, or "" when the
// category is not indexed.
func rankIn(cmd *cobra.Command, a *app, rec signature.Record) ([]string, error) {
	out := make([]string, len(a.palette))
	if rec.Category == "" {
		return out, nil
	}
	e, err := index.Read(cmd.Context(), a.store, rec.Category)
	if errors.Is(err, store.ErrNotFound) {
		return out, nil
	}
	if err != nil {
		return nil, err
	}
	for bin, c := range a.palette {
		out[bin] = "-"
		if i := slices.Index(e.Paths(c.Name), rec.Path); i >= 0 {
			out[bin] = fmt.Sprintf("#%d", i+1)
		}
	}
	return out, nil
}
