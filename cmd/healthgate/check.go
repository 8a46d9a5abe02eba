package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/jonwraymond/healthgate/health"
)

// Exit codes of the check command.
const (
	exitDown   = 1
	exitAbsent = 2
)

func newCheckCommand(opts *rootOptions) *cobra.Command {
	var summary bool

	cmd := &cobra.Command{
		Use:   "check [indicator]",
		Short: "Run the health checks once and print the result",
		Long: `Run every applicable indicator, or the named one, in-process and print
the status as JSON. The realm gate does not apply.

Exit status is 0 when up, 1 when down and 2 when there is nothing to report.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			a, err := newApp(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer func() { _ = a.close(cmd.Context()) }()

			var (
				status health.Status
				ok     bool
			)
			if len(args) == 1 {
				status, ok = a.aggregator.CheckOne(cmd.Context(), args[0])
			} else {
				status, ok = a.aggregator.CheckAll(cmd.Context())
			}
			return report(cmd.OutOrStdout(), status, ok, summary)
		},
	}

	cmd.Flags().BoolVarP(&summary, "summary", "s", false, "print one line per indicator instead of JSON")
	return cmd
}

// report writes status and maps it to an exit code.
func report(w io.Writer, status health.Status, ok, summary bool) error {
	if !ok {
		fmt.Fprintln(w, "no applicable indicators")
		return &exitError{code: exitAbsent}
	}

	if summary {
		writeSummary(w, status)
	} else {
		out, err := json.MarshalIndent(status, "", "  ")
		if err != nil {
			out, err = json.MarshalIndent(status.Summary(), "", "  ")
			if err != nil {
				return err
			}
		}
		fmt.Fprintln(w, string(out))
	}

	if !status.Up() {
		return &exitError{code: exitDown}
	}
	return nil
}

func writeSummary(w io.Writer, status health.Status) {
	up := color.New(color.FgGreen).SprintFunc()
	down := color.New(color.FgRed, color.Bold).SprintFunc()

	statuses := []health.Status{status}
	if status.IsAggregate() {
		statuses = status.Children()
	}
	for _, s := range statuses {
		state := up("UP  ")
		if !s.Up() {
			state = down("DOWN")
		}
		name := s.Name()
		if name == "" {
			name = "(aggregate)"
		}
		fmt.Fprintf(w, "%s %s\n", state, name)
	}
}
