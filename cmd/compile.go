package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"golang.org/x/net/bpf"

	"firestige.xyz/overwatch/internal/filter"
)

func newCompileCmd(opts *globalOptions) *cobra.Command {
	var (
		ff        filterFlags
		prefilter bool
	)

	cmd := &cobra.Command{
		Use:   "compile",
		Short: "Print the match entries compiled from a filter",
		Long: `Compile the filter flags and filter file into match entries and print
them in install order, one per line: table, action, key in hex, priority.

Example:
  overwatch compile --ip-host 10.0.0.1 --port 179`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := ff.spec(opts.cfg.Filter.File)
			if err != nil {
				return err
			}
			return runCompile(cmd.OutOrStdout(), spec, prefilter, opts.cfg.Capture.SnapLen)
		},
	}

	ff.register(cmd.Flags())
	cmd.Flags().BoolVar(&prefilter, "prefilter", false, "also print the kernel ethertype prefilter")
	return cmd
}

func runCompile(w io.Writer, spec filter.Spec, prefilter bool, snapLen int) error {
	for _, e := range filter.Compile(spec) {
		if _, err := fmt.Fprintln(w, e.String()); err != nil {
			return err
		}
	}
	if !prefilter {
		return nil
	}

	raw, err := filter.Prefilter(spec, snapLen)
	if err != nil {
		return err
	}
	if raw == nil {
		_, err = fmt.Fprintln(w, "# no prefilter")
		return err
	}
	prog, allDecoded := bpf.Disassemble(raw)
	if !allDecoded {
		return fmt.Errorf("prefilter contains undecodable instructions")
	}
	for _, ins := range prog {
		if _, err := fmt.Fprintf(w, "# %s\n", ins); err != nil {
			return err
		}
	}
	return nil
}
