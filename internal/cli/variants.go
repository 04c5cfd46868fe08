package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-folio/registry"
)

type variantsOptions struct {
	Section  string
	Category string
	Popular  bool
	Expr     string
	JSON     bool
}

func newVariantsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "variants",
		Short: "Browse the variant catalogue",
	}
	cmd.AddCommand(newVariantsListCommand())
	cmd.AddCommand(newVariantsSearchCommand())
	return cmd
}

func newVariantsListCommand() *cobra.Command {
	opts := variantsOptions{}
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List variants, optionally for one section",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			reg := a.resolver.Registry()
			var variants []registry.Variant
			switch {
			case opts.Section != "":
				variants = reg.ListBySection(registry.SectionType(opts.Section))
			case opts.Popular:
				variants = reg.ListPopular(0)
			default:
				variants = reg.All()
			}
			return printVariants(cmd, variants, opts.JSON)
		},
	}
	cmd.Flags().StringVar(&opts.Section, "section", "", "Section type")
	cmd.Flags().BoolVar(&opts.Popular, "popular", false, "Only popular variants")
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Print JSON")
	return cmd
}

func newVariantsSearchCommand() *cobra.Command {
	opts := variantsOptions{}
	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search variants by text and filters",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			query := ""
			if len(args) == 1 {
				query = args[0]
			}
			filters := registry.Filters{
				Category: opts.Category,
				Section:  registry.SectionType(opts.Section),
				Expr:     opts.Expr,
			}
			if cmd.Flags().Changed("popular") {
				popular := opts.Popular
				filters.Popular = &popular
			}
			variants, err := a.resolver.Registry().Search(query, filters)
			if err != nil {
				return invalidArgumentCause("invalid search filter", err)
			}
			return printVariants(cmd, variants, opts.JSON)
		},
	}
	cmd.Flags().StringVar(&opts.Section, "section", "", "Section type")
	cmd.Flags().StringVar(&opts.Category, "category", "", "Category")
	cmd.Flags().BoolVar(&opts.Popular, "popular", false, "Popular flag to match")
	cmd.Flags().StringVar(&opts.Expr, "expr", "", "expr-lang predicate, e.g. 'premium && \"dark\" in tags'")
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Print JSON")
	return cmd
}

func printVariants(cmd *cobra.Command, variants []registry.Variant, asJSON bool) error {
	if asJSON {
		return writeJSON(cmd.OutOrStdout(), variants)
	}
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SECTION\tID\tNAME\tTAGS")
	for _, v := range variants {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", v.SectionType, v.ID, v.Name, strings.Join(v.Tags, ","))
	}
	return w.Flush()
}
