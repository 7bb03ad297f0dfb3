package main

import (
	"fmt"
	"maps"
	"slices"

	"github.com/spf13/cobra"

	"seehuhn.de/go/svgrender"
	"seehuhn.de/go/svgrender/testcases"
)

func (c *cli) listCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the available scenes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			for _, name := range slices.Sorted(maps.Keys(testcases.All)) {
				sc := testcases.All[name]
				items := svgrender.BuildScene(sc)
				fmt.Fprintf(w, "%-12s %4d×%-4d %3d paths\n", name, sc.Width, sc.Height, len(items))
			}
			return nil
		},
	}
}
