// Package cmd implements CLI commands using cobra framework.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"firestige.xyz/overwatch/internal/config"
	"firestige.xyz/overwatch/internal/log"
)

// globalOptions are the persistent flags shared by every subcommand.
type globalOptions struct {
	configFile string
	logLevel   string
	color      string

	cfg *config.GlobalConfig
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "overwatch",
		Short: "Overwatch - packet snooping through a programmable match pipeline",
		Long: `Overwatch decodes ethernet frames into header chains, classifies them
against match tables compiled from a filter specification and prints every
admitted frame, one line per header.

Frames come from a live link (snoop), a hex dump file (hex-read) or a
pcap capture (pcap-read).`,
		Version:       "0.1.0",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "",
		"config file path")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "",
		"log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&opts.color, "color", "",
		"colorize output (auto, always, never)")

	rootCmd.AddCommand(newSnoopCmd(opts))
	rootCmd.AddCommand(newHexReadCmd(opts))
	rootCmd.AddCommand(newPcapReadCmd(opts))
	rootCmd.AddCommand(newCompileCmd(opts))
	return rootCmd
}

// setup loads the configuration, applies flag overrides and initializes
// logging.
func (o *globalOptions) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(o.configFile)
	if err != nil {
		return err
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	if o.color != "" {
		cfg.Output.Color = o.color
	}
	if err := cfg.ValidateAndApplyDefaults(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}
	if err := log.InitWithOutput(cfg.Log, cmd.ErrOrStderr()); err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	o.cfg = cfg
	return nil
}

// Execute builds the command tree and runs it. This is called by main.main().
func Execute() error {
	return newRootCmd().Execute()
}
