package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-folio"
	"github.com/goliatone/go-folio/dynamic"
)

type renderOptions struct {
	Out        string
	Instance   string
	Lang       string
	Stylesheet []string
	Strict     bool
}

func newRenderCommand() *cobra.Command {
	opts := renderOptions{}
	cmd := &cobra.Command{
		Use:   "render [portfolio.json]",
		Short: "Render a portfolio document to HTML",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, firstArg(args), opts)
		},
	}
	cmd.Flags().StringVarP(&opts.Out, "out", "o", "", "Output file, stdout when empty")
	cmd.Flags().StringVar(&opts.Instance, "instance", "", "Render only this instance")
	cmd.Flags().StringVar(&opts.Lang, "lang", "", "html lang attribute")
	cmd.Flags().StringSliceVar(&opts.Stylesheet, "stylesheet", nil, "Extra stylesheet links")
	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "Fail when any instance renders as a placeholder")
	return cmd
}

func runRender(cmd *cobra.Command, path string, opts renderOptions) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	p, err := readPortfolio(cmd, path)
	if err != nil {
		return err
	}
	extra := []folio.Option{folio.WithLang(opts.Lang)}
	for _, href := range opts.Stylesheet {
		extra = append(extra, folio.WithStylesheet(href))
	}
	renderer := a.renderer(extra...)

	w, closeOut, err := output(cmd, opts.Out)
	if err != nil {
		return err
	}
	var report folio.RenderReport
	if opts.Instance != "" {
		inst, ok := p.Instance(opts.Instance)
		if !ok {
			_ = closeOut()
			return errNotFound("unknown instance " + opts.Instance)
		}
		report, err = renderer.RenderInstance(cmd.Context(), w, inst, p.Theme)
	} else {
		report, err = renderer.RenderPage(cmd.Context(), w, p)
	}
	if cerr := closeOut(); err == nil {
		err = cerr
	}
	if err != nil {
		return classify("render failed", err)
	}

	a.logger.Info().
		Str("portfolio", p.Slug).
		Int("rendered", report.Rendered).
		Int("skipped", report.Skipped).
		Int("failures", len(report.Failures)).
		Msg("render complete")
	for _, failure := range report.Failures {
		a.logger.Warn().Str("instance", failure.InstanceID).Str("kind", string(failure.Kind)).Err(failure.Err).Msg("placeholder rendered")
	}
	if opts.Strict && !report.OK() {
		return failedPrecondition(fmt.Sprintf("%d instance(s) rendered as placeholders", len(report.Failures)))
	}
	return nil
}

func newValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [portfolio.json]",
		Short: "Validate a portfolio document and report dangling references",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			p, err := readPortfolio(cmd, firstArg(args))
			if err != nil {
				return err
			}
			if err := p.Validate(); err != nil {
				return invalidArgumentCause("portfolio is invalid", err)
			}
			out := cmd.OutOrStdout()
			for _, inst := range p.Components {
				res := a.resolver.Resolve(inst, p.Theme)
				fmt.Fprintf(out, "%-10s %s %s\n", res.Status, inst.ID, inst.Label())
			}
			fmt.Fprintf(out, "valid: %s (%d components, %d active)\n", p.Slug, len(p.Components), p.ActiveCount())
			return nil
		},
	}
}

func newScreenCommand() *cobra.Command {
	var strict bool
	cmd := &cobra.Command{
		Use:   "screen [component.js]",
		Short: "Screen marketplace component code for disallowed APIs",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, firstArg(args))
			if err != nil {
				return err
			}
			findings := dynamic.Screen(string(data))
			out := cmd.OutOrStdout()
			for _, f := range findings {
				fmt.Fprintf(out, "%d:%d %s  %s\n", f.Line, f.Column, f.Pattern, f.Excerpt)
			}
			if len(findings) == 0 {
				fmt.Fprintln(out, "clean")
				return nil
			}
			if strict {
				return failedPrecondition(fmt.Sprintf("%d finding(s)", len(findings)))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "Fail when anything is found")
	return cmd
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
