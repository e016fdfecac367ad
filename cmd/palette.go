package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var paletteCmd = &cobra.Command{
	Use:   "palette",
	Short: "Print the reference colors pixels are classified against",
	Args:  cobra.NoArgs,
	RunE:  runPalette,
}

func init() {
	rootCmd.AddCommand(paletteCmd)
}

func runPalette(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd.Context(), appOptions{})
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "BIN\tNAME\tRGB\tHEX")
	for i, c := range a.palette {
		fmt.Fprintf(tw, "%d\t%s\t%d,%d,%d\t#%02x%02x%02x\n",
			i, c.Name, c.RGB[0], c.RGB[1], c.RGB[2], c.RGB[0], c.RGB[1], c.RGB[2])
	}
	return tw.Flush()
}
