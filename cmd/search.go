package cmd

import (
	"fmt"
	"strings"

	"github.com/kamusis/pixdex/internal/query"
	"github.com/spf13/cobra"
)

var flagSearchCap int

var searchCmd = &cobra.Command{
	Use:   "search <term>",
	Short: "Find catalog images by landmark or by dominant color tag",
	Long: `Search the catalog by category, e.g. 'pixdex search taj mahal', or by the
precomputed dominant color tag when the term starts with '` + query.ColorPrefix + `',
e.g. 'pixdex search ` + query.ColorPrefix + `red'. Results keep catalog order.

This reads the catalog only and works before 'pixdex index' has run.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVar(&flagSearchCap, "cap", 0, "Maximum results (default: config 'num_shown_pic')")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context(), appOptions{catalog: true})
	if err != nil {
		return err
	}
	defer a.Close()

	term := strings.Join(args, " ")
	limit := a.cfg.NumShownPic
	if cmd.Flags().Changed("cap") {
		if flagSearchCap < 0 {
			return fmt.Errorf("invalid --cap %d: must be 0 or more", flagSearchCap)
		}
		limit = flagSearchCap
	}

	paths := a.engine().Search(term, limit)
	fmt.Printf("\npixdex search %q\n\n", term)
	fmt.Printf("Results (%d found):\n", len(paths))
	printPaths(paths)
	return nil
}
