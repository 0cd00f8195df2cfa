package cmd

import (
	"github.com/spf13/cobra"

	"firestige.xyz/overwatch/internal/source"
	"firestige.xyz/overwatch/internal/source/hexfile"
	"firestige.xyz/overwatch/internal/source/pcapfile"
)

func newHexReadCmd(opts *globalOptions) *cobra.Command {
	return newReplayCmd(opts, replayKind{
		use:   "hex-read <file>",
		short: "Print frames from a hex dump file",
		long: `Replay frames from a text file of hex encoded frames in file order.

Each frame is a group of lines of hex digits; whitespace is ignored and a
blank line ends the frame. Any malformed line aborts the run.

Example:
  overwatch hex-read frames.hex --arp`,
		open: func(path string) (source.Source, error) { return hexfile.Open(path) },
	})
}

func newPcapReadCmd(opts *globalOptions) *cobra.Command {
	return newReplayCmd(opts, replayKind{
		use:   "pcap-read <file>",
		short: "Print frames from a pcap or pcapng capture",
		long: `Replay the frames of an ethernet pcap or pcapng capture in file order.

Example:
  overwatch pcap-read trace.pcapng --ip-host 10.0.0.1 --hex`,
		open: func(path string) (source.Source, error) { return pcapfile.Open(path) },
	})
}

type replayKind struct {
	use, short, long string
	open             func(path string) (source.Source, error)
}

func newReplayCmd(opts *globalOptions, kind replayKind) *cobra.Command {
	var (
		ff  filterFlags
		hex bool
	)

	cmd := &cobra.Command{
		Use:   kind.use,
		Short: kind.short,
		Long:  kind.long,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := ff.spec(opts.cfg.Filter.File)
			if err != nil {
				return err
			}
			src, err := kind.open(args[0])
			if err != nil {
				return err
			}
			return runSource(cmd.Context(), opts.cfg, src, cmd.OutOrStdout(), runOptions{
				name: args[0],
				hex:  hex,
				spec: spec,
			})
		},
	}

	ff.register(cmd.Flags())
	cmd.Flags().BoolVar(&hex, "hex", false, "append a hex dump of each frame")
	return cmd
}
