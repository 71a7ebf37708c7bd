package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/finrel/internal/colimit"
	"github.com/roach88/finrel/internal/finset"
)

// ColimitOptions holds flags for the colimit command.
type ColimitOptions struct {
	*RootOptions
	Coequalize []string
	Pushout    []string
}

// ColimitResult is the colimit command's output.
type ColimitResult struct {
	Shape      string   `json:"shape"`
	Functions  []string `json:"functions"`
	Classes    int      `json:"classes"`
	Legs       [][]int  `json:"legs"`
	Projection []int    `json:"projection"`
}

// NewColimitCommand creates the colimit command.
func NewColimitCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ColimitOptions{RootOptions: rootOpts}

	cmd := queryCommand(&cobra.Command{
		Use:   "colimit <specs-dir>",
		Short: "Glue sets along named functions",
		Long: `Compute a coequalizer or pushout of named functions.

Prints the number of classes, each leg into the glued set, and the
projection from the disjoint union of the diagram's sets.

Examples:
  finrel colimit ./specs --coequalize s,t
  finrel colimit ./specs --pushout f,h`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runColimit(opts, args[0], cmd)
		},
	})

	cmd.Flags().StringSliceVar(&opts.Coequalize, "coequalize", nil, "parallel pair f,g: A -> B")
	cmd.Flags().StringSliceVar(&opts.Pushout, "pushout", nil, "span f,g out of a common domain")
	cmd.MarkFlagsMutuallyExclusive("coequalize", "pushout")
	cmd.MarkFlagsOneRequired("coequalize", "pushout")

	return cmd
}

func runColimit(opts *ColimitOptions, specsDir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	shape, names := "coequalize", opts.Coequalize
	if opts.Pushout != nil {
		shape, names = "pushout", opts.Pushout
	}
	if len(names) != 2 {
		return commandError(formatter, ErrCodeQuery, fmt.Sprintf("--%s needs exactly two functions, got %d", shape, len(names)))
	}

	specs, err := loadForQuery(formatter, specsDir)
	if err != nil {
		return err
	}
	f, err := specs.Function(names[0])
	if err != nil {
		return commandError(formatter, ErrCodeUnknownName, err.Error())
	}
	g, err := specs.Function(names[1])
	if err != nil {
		return commandError(formatter, ErrCodeUnknownName, err.Error())
	}

	var cocone *colimit.Cocone
	if shape == "pushout" {
		cocone, err = colimit.Pushout(f, g)
	} else {
		cocone, err = colimit.Coequalizer(f, g)
	}
	if err != nil {
		return queryError(formatter, err)
	}
	opts.logger().Debug("colimit complete", "shape", shape, "classes", cocone.Classes())

	result := ColimitResult{
		Shape:      shape,
		Functions:  names,
		Classes:    cocone.Classes(),
		Projection: finset.Values(cocone.Projection),
	}
	for _, leg := range cocone.Legs {
		result.Legs = append(result.Legs, finset.Values(leg))
	}
	return formatter.Emit(result)
}
