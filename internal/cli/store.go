package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-folio"
	"github.com/goliatone/go-folio/pkg/state"
)

func identityFlag(cmd *cobra.Command, target *string, required bool) {
	usage := "Acting user id"
	if !required {
		usage += ", anonymous when empty"
	}
	cmd.Flags().StringVar(target, "user", "", usage)
	if required {
		_ = cmd.MarkFlagRequired("user")
	}
}

func newSaveCommand() *cobra.Command {
	var (
		user string
		etag string
	)
	cmd := &cobra.Command{
		Use:   "save [portfolio.json]",
		Short: "Save a portfolio document to the store",
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
			svc, closeStore, err := a.service(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()
			saved, err := svc.Save(cmd.Context(), state.Identity{UserID: user}, p, state.Meta{ETag: etag})
			if err != nil {
				return classify("save failed", err)
			}
			return writeJSON(cmd.OutOrStdout(), saved)
		},
	}
	identityFlag(cmd, &user, true)
	cmd.Flags().StringVar(&etag, "etag", "", "Expected stored revision")
	return cmd
}

func newLoadCommand() *cobra.Command {
	var (
		user string
		out  string
	)
	cmd := &cobra.Command{
		Use:   "load <id-or-slug>",
		Short: "Load a portfolio document from the store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			svc, closeStore, err := a.service(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()
			p, meta, err := svc.Load(cmd.Context(), state.Identity{UserID: user}, args[0])
			if err != nil {
				return classify("load failed", err)
			}
			data, err := folio.EncodePortfolio(p)
			if err != nil {
				return classify("failed to encode portfolio", err)
			}
			w, closeOut, err := output(cmd, out)
			if err != nil {
				return err
			}
			if _, err := w.Write(append(data, '\n')); err != nil {
				_ = closeOut()
				return classify("failed to write portfolio", err)
			}
			a.logger.Debug().Str("etag", meta.ETag).Str("slug", p.Slug).Msg("portfolio loaded")
			return closeOut()
		},
	}
	identityFlag(cmd, &user, false)
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file, stdout when empty")
	return cmd
}

func newDeleteCommand() *cobra.Command {
	var user string
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a portfolio document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			svc, closeStore, err := a.service(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()
			if err := svc.Delete(cmd.Context(), state.Identity{UserID: user}, args[0]); err != nil {
				return classify("delete failed", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		},
	}
	identityFlag(cmd, &user, true)
	return cmd
}

func newListCommand() *cobra.Command {
	var (
		user   string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a user's portfolio documents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			svc, closeStore, err := a.service(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()
			rows, err := svc.List(cmd.Context(), state.Identity{UserID: user})
			if err != nil {
				return classify("list failed", err)
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), rows)
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "SLUG\tNAME\tCOMPONENTS\tPUBLIC\tUPDATED\tID")
			for _, row := range rows {
				fmt.Fprintf(w, "%s\t%s\t%d\t%t\t%s\t%s\n",
					row.Slug, strings.TrimSpace(row.Name), row.Components, row.IsPublic,
					row.UpdatedAt.Format(time.RFC3339), row.ID)
			}
			return w.Flush()
		},
	}
	identityFlag(cmd, &user, true)
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")
	return cmd
}
