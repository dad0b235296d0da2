package main

import (
	"cmp"
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"

	"github.com/reasv/wfctiled/internal/tilemap"
	"github.com/reasv/wfctiled/internal/wfc"
)

func newInspectCmd() *cobra.Command {
	var (
		patternSize  int
		orientations []string
		top          int
	)
	cmd := &cobra.Command{
		Use:   "inspect INPUT_CSV",
		Short: "Show the patterns extracted from a sample",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			orients, err := wfc.ParseOrientations(orientations)
			if err != nil {
				return err
			}
			pattern, err := tilemap.FromCSV(args[0], patternSize, orients)
			if err != nil {
				return err
			}
			printInspection(cmd.OutOrStdout(), args[0], pattern, top)
			return nil
		},
	}
	cmd.Flags().IntVar(&patternSize, "pattern-size", 2, "Pattern edge length k")
	cmd.Flags().StringSliceVar(&orientations, "orientation", []string{"original"}, "Pattern orientation to extract (repeatable, or \"all\")")
	cmd.Flags().IntVar(&top, "top", 10, "Number of most frequent patterns to list")
	return cmd
}

func printInspection(w io.Writer, path string, pattern *tilemap.TilePattern, top int) {
	catalog := tilemap.WFCCatalog(pattern.Engine())
	k := pattern.PatternSize()

	fmt.Fprintf(w, "sample:       %s (%s)\n", path, pattern.Sample().Size())
	fmt.Fprintf(w, "pattern size: %d\n", k)
	fmt.Fprintf(w, "orientations: %v\n", catalog.Orientations())
	fmt.Fprintf(w, "patterns:     %d\n", catalog.NumPatterns())

	ids := make([]wfc.PatternID, catalog.NumPatterns())
	for i := range ids {
		ids[i] = wfc.PatternID(i)
	}
	slices.SortStableFunc(ids, func(a, b wfc.PatternID) int {
		return cmp.Compare(catalog.Frequency(b), catalog.Frequency(a))
	})
	if top > 0 && top < len(ids) {
		ids = ids[:top]
	}
	fmt.Fprintf(w, "most frequent:\n")
	for _, id := range ids {
		fmt.Fprintf(w, "  #%-4d x%-5d %v\n", id, catalog.Frequency(id), catalog.Pattern(id))
	}

	border, err := tilemap.NewForceBorderForbid(catalog, k)
	if err != nil {
		fmt.Fprintf(w, "border:       unavailable: %v\n", err)
		return
	}
	size := pattern.Sample().Size()
	fmt.Fprintf(w, "border:       corner (%d,%d), offset %d\n", size.W-border.Offset(), size.H-border.Offset(), border.Offset())
	for _, id := range border.AllowedPatterns() {
		fmt.Fprintf(w, "  #%-4d tile %d\n", id, catalog.TopLeftValue(id))
	}
	if border.Ambiguous() {
		fmt.Fprintf(w, "warning:      %d corner patterns; --border will contradict on every attempt\n", len(border.AllowedPatterns()))
	}
}
