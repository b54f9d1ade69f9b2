// oxy-view - OFF mesh viewer
// Opens a triangle mesh stored in an OFF file and renders it with one of five shading variants.
//
// Controls:
//
//	1-5        - Constant, flat, Gouraud, Phong, normals
//	R          - Reload the current file
//	P          - Toggle the profiler
//	Drop file  - Load the dropped file
//	Esc        - Quit
package main

import (
	"context"
	"os"

	"fortio.org/log"
	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	if err := fang.Execute(context.Background(), newRootCmd(), fang.WithVersion(version)); err != nil {
		os.Exit(1)
	}
}

// globalOptions are shared by every subcommand.
type globalOptions struct {
	configPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:   "oxy-view",
		Short: "OFF mesh viewer",
		Long: `oxy-view - OFF mesh viewer

Loads a triangle mesh from an OFF file, fits it into view and renders it
with constant, flat, Gouraud, Phong or normal-color shading.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.logLevel == "" {
				return nil
			}
			return setLogLevel(opts.logLevel)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to a TOML settings file")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warning, error)")

	cmd.AddCommand(newViewCmd(opts), newInfoCmd(opts))
	return cmd
}

func setLogLevel(level string) error {
	lvl, err := log.ValidateLevel(level)
	if err != nil {
		return err
	}
	log.SetLogLevel(lvl)
	return nil
}
