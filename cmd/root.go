package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var debug bool

var rootCmd = &cobra.Command{
	Use:   "quantdex",
	Short: "Adaptive pitch quantizer",
	Long: `Learns which pitch classes are in use from reference notes and
snaps incoming pitches to them.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		initLogger(debug)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging (adds source location)")
}

func initLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level:     level,
		AddSource: debug,
	})
	slog.SetDefault(slog.New(h))
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}
