package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/eduardofuncao/sqlhelp/internal/editor"
	"github.com/eduardofuncao/sqlhelp/internal/export"
	"github.com/eduardofuncao/sqlhelp/internal/params"
	"github.com/eduardofuncao/sqlhelp/internal/parser"
	"github.com/eduardofuncao/sqlhelp/internal/run"
	"github.com/eduardofuncao/sqlhelp/internal/styles"
)

// selectOptions are the output flags shared by select and run.
type selectOptions struct {
	one    bool
	format string
	copy   bool
}

func (o *selectOptions) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&o.one, "one", false, "return only the first row")
	cmd.Flags().StringVarP(&o.format, "format", "f", string(export.FormatTable), "output format: "+formatNames())
	cmd.Flags().BoolVar(&o.copy, "copy", false, "also copy the formatted output to the clipboard")
}

func formatNames() string {
	formats := export.Formats()
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}

func (a *App) newExecCmd() *cobra.Command {
	var quiet bool
	cmd := &cobra.Command{
		Use:   "exec SQL [ARGS...]",
		Short: "Run a statement that returns no rows and commit it",
		Long: `Run a statement that returns no rows and commit it.

Use %s for each argument; it is rewritten to the driver's own placeholder.
NULL, numbers and true/false are passed typed; quote a word ('42') to keep it
a string. A number with a leading zero (0123) is kept as a string.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.execStatement(cmd, args[0], args[1:], quiet)
		},
	}
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "do not echo the statement")
	return cmd
}

func (a *App) execStatement(cmd *cobra.Command, query string, words []string, quiet bool) error {
	start := time.Now()
	if err := a.executor().Execute(cmd.Context(), query, params.Parse(words)...); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if !quiet {
		fmt.Fprintln(out, parser.HighlightSQL(query))
	}
	fmt.Fprintf(out, "%s executed %s\n", styles.Success.Render("✓"), styles.Faint.Render(elapsed(start)))
	return nil
}

func (a *App) newBatchCmd() *cobra.Command {
	var (
		file   string
		header bool
	)
	cmd := &cobra.Command{
		Use:   "batch SQL --file rows.csv",
		Short: "Run a statement once per CSV record in one transaction",
		Long: `Run a statement once per CSV record. All records are committed together or
not at all. Use --file - to read records from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader = cmd.InOrStdin()
			if file != "-" {
				f, err := os.Open(file)
				if err != nil {
					return err
				}
				defer f.Close()
				r = f
			}

			batch, err := params.ReadBatch(r, header)
			if err != nil {
				return err
			}

			start := time.Now()
			affected, err := a.executor().ExecuteMany(cmd.Context(), args[0], batch)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s records, %s rows affected %s\n",
				styles.Success.Render("✓"), humanize.Comma(int64(len(batch))), humanize.Comma(affected),
				styles.Faint.Render(elapsed(start)))
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "CSV file with one parameter tuple per record (- for stdin)")
	cmd.Flags().BoolVar(&header, "header", false, "skip the first CSV record")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func (a *App) newSelectCmd() *cobra.Command {
	var opts selectOptions
	cmd := &cobra.Command{
		Use:   "select SQL [ARGS...]",
		Short: "Run a query and print its rows",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.selectStatement(cmd, args[0], args[1:], opts)
		},
	}
	opts.register(cmd)
	return cmd
}

func (a *App) selectStatement(cmd *cobra.Command, query string, words []string, opts selectOptions) error {
	format, err := export.ParseFormat(opts.format)
	if err != nil {
		return err
	}

	rs, err := a.executor().Select(cmd.Context(), query, opts.one, params.Parse(words)...)
	if err != nil {
		return err
	}
	if rs == nil {
		fmt.Fprintln(cmd.ErrOrStderr(), styles.Faint.Render("(no rows)"))
		return nil
	}

	content, err := export.Render(rs, format)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), content)

	if opts.copy {
		if err := export.Copy(content); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "%s copied %d rows as %s\n", styles.Success.Render("✓"), len(rs.Rows), format)
	}
	return nil
}

func (a *App) newRunCmd() *cobra.Command {
	var opts selectOptions
	cmd := &cobra.Command{
		Use:   "run SQL [ARGS...]",
		Short: "Run any statement, printing rows when it returns them",
		Long: `Run any statement. Queries (SELECT, WITH, SHOW, EXPLAIN, ...) are printed like
select; everything else is executed and committed like exec.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if run.IsSelectQuery(args[0]) {
				return a.selectStatement(cmd, args[0], args[1:], opts)
			}
			return a.execStatement(cmd, args[0], args[1:], false)
		},
	}
	opts.register(cmd)
	return cmd
}

func elapsed(start time.Time) string {
	return fmt.Sprintf("(%.2fs)", time.Since(start).Seconds())
}

func (a *App) newEditCmd() *cobra.Command {
	var opts selectOptions
	cmd := &cobra.Command{
		Use:   "edit [ARGS...]",
		Short: "Write a statement in $EDITOR, then run it",
		Long: `Open $VISUAL or $EDITOR on a scratch buffer. After the editor exits the
statement is run like the run command, with ARGS bound to its %s markers.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			query, err := editor.Compose(editor.Instructions(a.settings.Alias), "",
				cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if run.IsSelectQuery(query) {
				return a.selectStatement(cmd, query, args, opts)
			}
			return a.execStatement(cmd, query, args, false)
		},
	}
	opts.register(cmd)
	return cmd
}
