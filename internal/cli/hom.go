package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/finrel/internal/finset"
	"github.com/roach88/finrel/internal/homsearch"
)

// HomOptions holds flags for the hom command.
type HomOptions struct {
	*RootOptions
	From     string
	To       string
	Monic    []string
	Iso      []string
	MonicAll bool
	IsoAll   bool
	All      bool
	Count    bool
}

// HomResult is the hom command's output.
type HomResult struct {
	From          string             `json:"from"`
	To            string             `json:"to"`
	Count         int                `json:"count"`
	Homomorphisms []map[string][]int `json:"homomorphisms,omitempty"`

	rendered []string
	listing  bool
}

// NewHomCommand creates the hom command.
func NewHomCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HomOptions{RootOptions: rootOpts}

	cmd := queryCommand(&cobra.Command{
		Use:   "hom <specs-dir>",
		Short: "Search for homomorphisms between two instances",
		Long: `Search for structure-preserving maps from one instance to another.

By default the first homomorphism found is printed. --all enumerates every
one; --count only counts them.

Examples:
  finrel hom ./specs --from Edge --to Triangle --all
  finrel hom ./specs --from Triangle --to Triangle --iso-all --count
  finrel hom ./specs --from Path --to Graph --monic V`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHom(opts, args[0], cmd)
		},
	})

	cmd.Flags().StringVar(&opts.From, "from", "", "domain instance (required)")
	cmd.Flags().StringVar(&opts.To, "to", "", "codomain instance (required)")
	cmd.Flags().StringSliceVar(&opts.Monic, "monic", nil, "object-types whose component must be injective")
	cmd.Flags().StringSliceVar(&opts.Iso, "iso", nil, "object-types whose component must be bijective")
	cmd.Flags().BoolVar(&opts.MonicAll, "monic-all", false, "every component injective")
	cmd.Flags().BoolVar(&opts.IsoAll, "iso-all", false, "every component bijective")
	cmd.Flags().BoolVar(&opts.All, "all", false, "enumerate every homomorphism")
	cmd.Flags().BoolVar(&opts.Count, "count", false, "print only the number of homomorphisms")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	cmd.MarkFlagsMutuallyExclusive("all", "count")

	return cmd
}

func runHom(opts *HomOptions, specsDir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	specs, err := loadForQuery(formatter, specsDir)
	if err != nil {
		return err
	}
	x, err := specs.Instance(opts.From)
	if err != nil {
		return commandError(formatter, ErrCodeUnknownName, err.Error())
	}
	y, err := specs.Instance(opts.To)
	if err != nil {
		return commandError(formatter, ErrCodeUnknownName, err.Error())
	}

	search := homsearch.Options{
		Monic:    opts.Monic,
		MonicAll: opts.MonicAll,
		Iso:      opts.Iso,
		IsoAll:   opts.IsoAll,
		Logger:   opts.logger(),
	}
	result := HomResult{From: opts.From, To: opts.To, listing: opts.Count || opts.All}

	var homs []*homsearch.Homomorphism
	switch {
	case opts.Count:
		result.Count, err = homsearch.Count(x, y, search)
	case opts.All:
		homs, err = homsearch.FindAll(x, y, search)
	default:
		var h *homsearch.Homomorphism
		h, err = homsearch.FindOne(x, y, search)
		if h != nil {
			homs = append(homs, h)
		}
	}
	if err != nil {
		return queryError(formatter, err)
	}
	if !opts.Count {
		result.Count = len(homs)
	}
	for _, h := range homs {
		comps := make(map[string][]int)
		for name, f := range h.Components() {
			comps[name] = finset.Values(f)
		}
		result.Homomorphisms = append(result.Homomorphisms, comps)
		result.rendered = append(result.rendered, h.String())
	}
	return formatter.Emit(result)
}
