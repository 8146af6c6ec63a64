// Copyright (C) 2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/datawire/dlib/dgroup"
	"github.com/datawire/dlib/dlog"
	"github.com/datawire/ocibuild/pkg/cliutil"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/hlukeshu-pika/pika/lib/pika"
	"github.com/hlukeshu-pika/pika/lib/profile"
	"github.com/hlukeshu-pika/pika/lib/textui"
)

// logLevelFlag mirrors cmd/btrfs-rec's own --verbosity flag: a
// pflag.Value over logrus.Level, since the driver's logger is built
// with logrus directly.
type logLevelFlag struct {
	logrus.Level
}

func (lvl *logLevelFlag) Type() string { return "loglevel" }
func (lvl *logLevelFlag) Set(str string) error {
	var err error
	lvl.Level, err = logrus.ParseLevel(str)
	return err
}

var _ pflag.Value = (*logLevelFlag)(nil)

func main() {
	verbosity := logLevelFlag{Level: logrus.InfoLevel}
	var workers int
	var progressInterval time.Duration

	argparser := &cobra.Command{
		Use:   "pikabench {[flags]|SUBCOMMAND}",
		Short: "Run the built-in demonstration grammars through the pika fixpoint engine",

		Args: cliutil.WrapPositionalArgs(cliutil.OnlySubcommands),
		RunE: cliutil.RunSubcommands,

		SilenceErrors: true, // main() handles the error after .ExecuteContext() returns
		SilenceUsage:  true, // our FlagErrorFunc handles it

		CompletionOptions: cobra.CompletionOptions{ //nolint:exhaustivestruct
			DisableDefaultCmd: true,
		},
	}
	argparser.SetFlagErrorFunc(cliutil.FlagErrorFunc)
	argparser.SetHelpTemplate(cliutil.HelpTemplate)
	argparser.PersistentFlags().Var(&verbosity, "verbosity", "set the verbosity (error|warn|info|debug|trace)")
	argparser.PersistentFlags().IntVar(&workers, "workers", 1, "number of goroutines draining each fixpoint round")
	argparser.PersistentFlags().DurationVar(&progressInterval, "progress", 0, "log fixpoint progress every `interval` (0 disables)")
	stopProfiling := profile.AddProfileFlags(argparser.PersistentFlags(), "profile-")

	argparser.AddCommand(newListCmd())
	argparser.AddCommand(newReportCmd(&verbosity, &workers, &progressInterval))

	err := argparser.ExecuteContext(context.Background())
	if stopErr := stopProfiling(); err == nil {
		err = stopErr
	}
	if err != nil {
		textui.Fprintf(os.Stderr, "%v: error: %v\n", argparser.CommandPath(), err)
		os.Exit(1)
	}
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the built-in demonstration grammars",
		Args:  cliutil.WrapPositionalArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, name := range demoNames() {
				d := demos[name]
				textui.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", d.Name, d.Description)
			}
			return nil
		},
	}
}

func newReportCmd(verbosity *logLevelFlag, workers *int, progressInterval *time.Duration) *cobra.Command {
	var input string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "report DEMO",
		Short: "Run a built-in grammar to a fixpoint and report its matches",
		Long: "Runs one of the grammars listed by `pikabench list` to a fixpoint " +
			"and prints its non-overlapping matches (§4.4), one per line. " +
			"With --json, prints the toplevel clause's non-match positions " +
			"(§E.1) as a JSON array instead.",
		Args: cliutil.WrapPositionalArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, ok := demos[args[0]]
			if !ok {
				return fmt.Errorf("unknown demo %q (see `pikabench list`)", args[0])
			}
			if input == "" {
				input = d.DefaultArg
			}

			ctx := cmd.Context()
			logger := logrus.New()
			logger.SetOutput(cmd.ErrOrStderr())
			logger.SetLevel(verbosity.Level)
			ctx = dlog.WithLogger(ctx, dlog.WrapLogrus(logger))

			grp := dgroup.NewGroup(ctx, dgroup.GroupConfig{
				EnableSignalHandling: true,
			})
			grp.Go("report", func(ctx context.Context) error {
				grammar := d.Build()
				driver := pika.NewParseDriver(grammar, pika.RunOptions{
					Workers:          *workers,
					ProgressInterval: *progressInterval,
				})
				table := driver.Run(ctx, input)

				if asJSON {
					return table.DumpNonMatches(cmd.OutOrStdout(), grammar.Toplevel)
				}
				return printReport(cmd, table, grammar.Toplevel)
			})
			return grp.Wait()
		},
	}
	cmd.Flags().StringVar(&input, "input", "", "input string to parse (defaults to the demo's own sample input)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print getNonMatchPositions as JSON instead of a match report")
	return cmd
}

func printReport(cmd *cobra.Command, table *pika.MemoTable, toplevel *pika.Clause) error {
	matches := table.GetNonOverlappingMatches(toplevel)
	if len(matches) == 0 {
		textui.Fprintf(cmd.OutOrStdout(), "no matches\n")
		return nil
	}
	for _, m := range matches {
		span := table.Input()[m.Key.StartPos : m.Key.StartPos+m.Len]
		textui.Fprintf(cmd.OutOrStdout(), "[%d,%d) %q\n", m.Key.StartPos, m.Key.StartPos+m.Len, span)
	}
	return nil
}
