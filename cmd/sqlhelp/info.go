package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eduardofuncao/sqlhelp/internal/config"
	"github.com/eduardofuncao/sqlhelp/internal/spinner"
	"github.com/eduardofuncao/sqlhelp/internal/styles"
)

func (a *App) newLocateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "locate",
		Short: "Print the config file the search resolves to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, err := a.factory().Locate()
			if err != nil {
				var nf *config.NotFoundError
				if errors.As(err, &nf) {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s %s not found (%d directories searched from %s)\n",
						styles.Error.Render("✗"), nf.FileName, nf.Probed, nf.Start)
				}
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, loc.Path)
			fmt.Fprintln(out, styles.Label("levels up", fmt.Sprintf("%d", loc.Steps)))
			return nil
		},
	}
}

func (a *App) newProfilesCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "profiles",
		Aliases: []string{"list", "ls"},
		Short:   "List the profiles in the config file",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := a.factory().Document()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, styles.Title.Render(doc.Path))
			for _, alias := range doc.Aliases() {
				p, err := doc.Lookup(alias)
				if err != nil {
					return err
				}
				marker := " "
				if alias == a.settings.Alias {
					marker = styles.Success.Render("*")
				}
				fmt.Fprintf(out, "%s %-12s %s\n", marker, alias, styles.Faint.Render(p.String()))
			}
			return nil
		},
	}
}

func (a *App) newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check that the selected profile is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			f := a.factory()

			p, err := f.Profile()
			if err != nil {
				return err
			}

			err = spinner.Run(cmd.ErrOrStderr(), "Checking...", func() error {
				conn, err := f.Connect(ctx)
				if err != nil {
					return err
				}
				return errors.Join(conn.PingContext(ctx), conn.Close())
			})

			out := cmd.OutOrStdout()
			if err != nil {
				fmt.Fprintf(out, "%s %s (%s) unreachable\n", styles.Error.Render("✗"), p.Alias, p.String())
				return err
			}
			fmt.Fprintf(out, "%s %s (%s) reachable\n", styles.Success.Render("✓"), p.Alias, p.String())
			return nil
		},
	}
}
