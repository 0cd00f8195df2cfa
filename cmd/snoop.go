package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/net/bpf"

	"firestige.xyz/overwatch/internal/filter"
)

func newSnoopCmd(opts *globalOptions) *cobra.Command {
	var (
		ff      filterFlags
		hex     bool
		bpfExpr string
	)

	cmd := &cobra.Command{
		Use:   "snoop <link>",
		Short: "Capture and print frames from a network link",
		Long: `Capture frames from a network link and print the ones admitted by the
filter. Read errors are logged as "rx error" and capture continues.

Frames whose outer ethertype cannot match the filter are already dropped in
the kernel. --bpf replaces that prefilter with a tcpdump expression.

Examples:
  overwatch snoop eth0 --v6 --port 179
  overwatch snoop eth0 --alp geneve --inner-ip-proto icmp6 --hex`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := ff.spec(opts.cfg.Filter.File)
			if err != nil {
				return err
			}
			if bpfExpr == "" {
				bpfExpr = opts.cfg.Filter.BPF
			}
			prog, err := kernelFilter(spec, bpfExpr, opts.cfg.Capture.SnapLen)
			if err != nil {
				return err
			}

			src, err := openLive(args[0], opts.cfg.Capture, prog)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runSource(ctx, opts.cfg, src, cmd.OutOrStdout(), runOptions{
				name: args[0],
				live: true,
				hex:  hex,
				spec: spec,
			})
		},
	}

	ff.register(cmd.Flags())
	cmd.Flags().BoolVar(&hex, "hex", false, "append a hex dump of each frame")
	cmd.Flags().StringVar(&bpfExpr, "bpf", "", "tcpdump filter expression attached to the capture socket")
	return cmd
}

// kernelFilter returns the program attached to the capture socket: the
// compiled expression when one is given, the ethertype prefilter otherwise.
func kernelFilter(spec filter.Spec, expr string, snapLen int) ([]bpf.RawInstruction, error) {
	if expr != "" {
		return filter.CompileBPF(expr, snapLen)
	}
	return filter.Prefilter(spec, snapLen)
}
