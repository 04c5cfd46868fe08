package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-folio/registry"
	"github.com/goliatone/go-folio/schema/openapi"
)

type schemaOptions struct {
	Out   string
	Title string
}

func newSchemaCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Inspect variant prop schemas",
	}
	cmd.AddCommand(newSchemaExportCommand())
	return cmd
}

func newSchemaExportCommand() *cobra.Command {
	opts := schemaOptions{}
	cmd := &cobra.Command{
		Use:   "export <section/variant>",
		Short: "Export a variant's props schema as an OpenAPI document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			section, id, ok := strings.Cut(args[0], "/")
			if !ok || section == "" || id == "" {
				return invalidArgument("variant must be written as section/id")
			}
			a, err := newApp()
			if err != nil {
				return err
			}
			variant, found := a.resolver.Registry().Lookup(registry.SectionType(section), id)
			if !found {
				return errNotFound("unknown variant " + args[0])
			}
			title := opts.Title
			if title == "" {
				title = variant.Name
			}
			doc, err := openapi.Export(variant.PropsSchema, variant.DefaultProps,
				openapi.WithInfo(title, version, openapi.WithInfoDescription(variant.Description)),
				openapi.WithRootComponent(componentName(variant)),
				openapi.WithVariant(string(variant.SectionType), variant.ID),
			)
			if err != nil {
				return classify("failed to build schema", err)
			}
			w, closeOut, err := output(cmd, opts.Out)
			if err != nil {
				return err
			}
			if err := writeJSON(w, doc); err != nil {
				_ = closeOut()
				return err
			}
			return closeOut()
		},
	}
	cmd.Flags().StringVarP(&opts.Out, "out", "o", "", "Output file, stdout when empty")
	cmd.Flags().StringVar(&opts.Title, "title", "", "Document title, the variant name when empty")
	return cmd
}

func componentName(v registry.Variant) string {
	parts := strings.FieldsFunc(v.ID, func(r rune) bool { return r == '-' || r == '_' })
	var b strings.Builder
	for _, part := range parts {
		b.WriteString(strings.ToUpper(part[:1]) + part[1:])
	}
	b.WriteString("Props")
	return b.String()
}
