package cli

import (
	"context"
	"fmt"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/ironsheep/icon-backdrop/internal/config"
	"github.com/ironsheep/icon-backdrop/internal/pipeline"
)

// defaultConfigPath is read when --config is not given.
const defaultConfigPath = "config.json"

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// SetVersion sets the version information displayed by --version. The main
// package calls it with values injected via ldflags.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the icon-backdrop CLI with ctx, which is cancelled on
// interrupt by the caller.
func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	var (
		verbose    bool
		configPath string
	)

	root := &cobra.Command{
		Use:   "icon-backdrop",
		Short: "Arrange a folder of icons into a tilted backdrop image",
		Long: `icon-backdrop lays out every raster icon in a directory on an evenly spaced,
staggered grid, pads the result and applies a rotation plus perspective tilt.

It writes three images next to output_path: the flat grid, the padded grid
(_extra_padding.png) and the tilted backdrop (_perspective.png).`,
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(cmd.ErrOrStderr(), level)))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBackdrop(cmd, configPath)
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("icon-backdrop %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVarP(&configPath, "config", "c", defaultConfigPath, "configuration file (JSON, or TOML with a .toml extension)")

	root.AddCommand(newPlanCmd(&configPath))
	return root
}

func runBackdrop(cmd *cobra.Command, configPath string) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger.Debug("Loaded configuration", "path", configPath)

	prog := newProgress(logger)
	res, err := pipeline.Run(ctx, cfg, logger)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Placed %d icons", len(res.Icons)))

	out := cmd.OutOrStdout()
	for _, p := range res.Outputs.All() {
		fmt.Fprintln(out, p)
	}
	return nil
}
