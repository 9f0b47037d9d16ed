package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/cheggaaa/pb"
	"github.com/fatih/color"
	"github.com/ldklab/regexpu"
	"github.com/ldklab/regexpu/internal/batch"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	yellow = color.New(color.FgYellow).SprintFunc()
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
)

// rewriteConfig holds the flags shared by rewrite and tree.
type rewriteConfig struct {
	Flags                 string
	Lookbehind            bool
	DotAllFlag            bool
	UseDotAllFlag         bool
	UseUnicodeFlag        bool
	UnicodePropertyEscape bool
	NamedGroup            bool
}

func (c rewriteConfig) options() regexpu.Options {
	return regexpu.Options{
		Lookbehind:            c.Lookbehind,
		DotAllFlag:            c.DotAllFlag,
		UseDotAllFlag:         c.UseDotAllFlag,
		UseUnicodeFlag:        c.UseUnicodeFlag,
		UnicodePropertyEscape: c.UnicodePropertyEscape,
		NamedGroup:            c.NamedGroup,
	}
}

func (c *rewriteConfig) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&c.Flags, "flags", "", "pattern flags, drawn from dgimsuy")
	cmd.Flags().BoolVar(&c.Lookbehind, "lookbehind", false, "accept lookbehind assertions")
	cmd.Flags().BoolVar(&c.DotAllFlag, "dot-all-flag", false, "emulate the s flag")
	cmd.Flags().BoolVar(&c.UseDotAllFlag, "use-dot-all-flag", false, "leave . alone, the output runs with the s flag")
	cmd.Flags().BoolVar(&c.UseUnicodeFlag, "use-unicode-flag", false, "the output runs with the u flag")
	cmd.Flags().BoolVar(&c.UnicodePropertyEscape, "unicode-property-escape", false, `expand \p{...} escapes`)
	cmd.Flags().BoolVar(&c.NamedGroup, "named-group", false, "strip group names and number references")
}

type batchConfig struct {
	Workers  int
	JSON     bool
	Progress bool
}

func newRootCmd() *cobra.Command {
	var verbose bool
	root := &cobra.Command{
		Use:   "regexpu [subcommand]",
		Short: "Rewrite ECMAScript patterns for engines without the u, s, or named-group features",
		// Silence errors because we will print the error ourselves in main.
		SilenceErrors: true,
		// Don't show usage for every error.
		SilenceUsage: true,
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log every entry")
	logger := func(cmd *cobra.Command) *logrus.Logger {
		l := logrus.New()
		l.SetOutput(cmd.ErrOrStderr())
		l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
		l.SetLevel(logrus.WarnLevel)
		if verbose {
			l.SetLevel(logrus.DebugLevel)
		}
		return l
	}

	var rc rewriteConfig
	rewriteCmd := &cobra.Command{
		Use:   "rewrite <pattern> [--flags=...]",
		Short: "Print the rewritten pattern; named groups go to stderr",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := rc.options()
			var groups []regexpu.NamedGroup
			opts.OnNamedGroup = func(name string, index int) {
				groups = append(groups, regexpu.NamedGroup{Name: name, Index: index})
			}
			out, err := regexpu.RewritePattern(args[0], rc.Flags, opts)
			if err != nil {
				return errors.Wrapf(err, "rewriting /%s/%s", args[0], rc.Flags)
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			for _, g := range groups {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s %d\n", yellow(g.Name), g.Index)
			}
			return nil
		},
	}
	rc.addFlags(rewriteCmd)

	var tc rewriteConfig
	var rewritten bool
	treeCmd := &cobra.Command{
		Use:   "tree <pattern> [--flags=...] [--rewritten]",
		Short: "Print the parsed pattern as a tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var dump string
			if rewritten {
				var err error
				dump, err = regexpu.DumpRewrite(args[0], tc.Flags, tc.options())
				if err != nil {
					return errors.Wrap(err, "rewriting")
				}
			} else {
				tree, err := regexpu.Parse(args[0], tc.Flags, regexpu.ParseFeatures{
					UnicodePropertyEscape: true,
					NamedGroups:           true,
					Lookbehind:            tc.Lookbehind,
				})
				if err != nil {
					return errors.Wrap(err, "parsing")
				}
				dump = regexpu.DumpTree(tree)
			}
			fmt.Fprint(cmd.OutOrStdout(), dump)
			return nil
		},
	}
	tc.addFlags(treeCmd)
	treeCmd.Flags().BoolVar(&rewritten, "rewritten", false, "show the tree after rewriting, substitutions labeled")

	var bc batchConfig
	batchCmd := &cobra.Command{
		Use:   "batch <manifest.yaml|manifest.toml> [--workers=N] [--json] [--progress]",
		Short: "Rewrite every pattern in a manifest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := batch.LoadManifest(args[0])
			if err != nil {
				return err
			}
			opts := batch.RunOptions{Workers: bc.Workers, Logger: logger(cmd)}
			if bc.Progress {
				bar := pb.New(len(m.Entries))
				bar.Output = cmd.ErrOrStderr()
				bar.ShowTimeLeft = true
				bar.Start()
				defer bar.Finish()
				opts.OnResult = func(batch.Result) { bar.Increment() }
			}
			report, err := batch.Run(cmd.Context(), m, opts)
			if err != nil {
				return err
			}
			if bc.JSON {
				e := json.NewEncoder(cmd.OutOrStdout())
				e.SetIndent("", "  ")
				if err := e.Encode(report); err != nil {
					return errors.Wrap(err, "encoding report")
				}
			} else {
				printReport(cmd.OutOrStdout(), report)
			}
			if report.Failed > 0 {
				return errors.Errorf("%d of %d entries failed", report.Failed, len(report.Results))
			}
			return nil
		},
	}
	batchCmd.Flags().IntVar(&bc.Workers, "workers", 0, "patterns rewritten at once, 0 for one per CPU")
	batchCmd.Flags().BoolVar(&bc.JSON, "json", false, "print the report as JSON")
	batchCmd.Flags().BoolVar(&bc.Progress, "progress", false, "show a progress bar on stderr")

	root.AddCommand(rewriteCmd, treeCmd, batchCmd)
	return root
}

func printReport(out io.Writer, report *batch.Report) {
	for _, r := range report.Results {
		if r.Failed() {
			fmt.Fprintf(out, "%s %s: %s\n", red("FAIL"), r.Name, r.Error)
			continue
		}
		fmt.Fprintf(out, "%s %s: %s\n", green("ok"), r.Name, r.Output)
	}
	summary := green
	if report.Failed > 0 {
		summary = yellow
	}
	fmt.Fprintln(out, summary(fmt.Sprintf("%d entries, %d failed (run %s)", len(report.Results), report.Failed, report.RunID)))
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
