package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/leingang/ps2vcard/lib/configutil"
	"github.com/leingang/ps2vcard/lib/telemetry"
	"github.com/spf13/cobra"
)

// Config holds optional overrides from a ps2vcard.json5 file found by
// walking up from the working directory.
type Config struct {
	// name of the frameset child frame holding the roster
	TargetFrame string `json:"target_frame"`
	// default directory for saved vCards and photos
	SaveDir string `json:"save_dir"`
}

var (
	verbose bool
	config  Config
	tel     telemetry.Telemetry
)

var rootCmd = &cobra.Command{
	Use:   "ps2vcard",
	Short: "ps2vcard converts class rosters saved from Albert into vCards and related exports.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		telemetry.InitSlog(verbose)

		var err error
		config, err = configutil.ReadRecursively[Config]("ps2vcard.json5")
		if err != nil && !os.IsNotExist(err) {
			fatal("read ps2vcard.json5", err)
		}

		tel, err = telemetry.SetupFromEnv(cmd.Context(), "ps2vcard")
		if err != nil && !os.IsNotExist(err) {
			fatal("setup telemetry", err)
		}
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		err := tel.Shutdown(context.Background())
		if err != nil {
			slog.Warn("telemetry shutdown", "err", err)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(
		&verbose, "verbose", "v", false,
		"Show debugging statements, including the per-key parse trace.",
	)
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func fatal(message string, err error) {
	slog.Error(message, "err", err.Error())
	os.Exit(1)
}
