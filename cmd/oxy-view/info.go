package main

import (
	"fmt"
	"runtime"

	"github.com/Carmen-Shannon/oxy-view/engine/loader"
	"github.com/spf13/cobra"
)

func newInfoCmd(global *globalOptions) *cobra.Command {
	var workers int

	cmd := &cobra.Command{
		Use:   "info <model.off>...",
		Short: "Display mesh information",
		Long:  "Parse each OFF file and print its vertex and face counts, bounding box, center and scale. Nothing is rendered.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(global)
			if err != nil {
				return err
			}
			loaderOpts, err := cfg.LoaderOptions()
			if err != nil {
				return err
			}

			failed := 0
			out := cmd.OutOrStdout()
			for _, report := range loader.InspectFiles(args, workers, loaderOpts...) {
				if report.Err != nil {
					failed++
					fmt.Fprintf(cmd.ErrOrStderr(), "%s\n", report)
					continue
				}
				fmt.Fprintf(out, "File:       %s\n", report.Path)
				fmt.Fprintf(out, "Vertices:   %d\n", report.VertexCount)
				fmt.Fprintf(out, "Faces:      %d\n", report.FaceCount)
				fmt.Fprintf(out, "Bounds Min: (%.3f, %.3f, %.3f)\n", report.Bounds.Min.X(), report.Bounds.Min.Y(), report.Bounds.Min.Z())
				fmt.Fprintf(out, "Bounds Max: (%.3f, %.3f, %.3f)\n", report.Bounds.Max.X(), report.Bounds.Max.Y(), report.Bounds.Max.Z())
				fmt.Fprintf(out, "Center:     (%.3f, %.3f, %.3f)\n", report.Center.X(), report.Center.Y(), report.Center.Z())
				fmt.Fprintf(out, "Scale:      %.6g\n\n", report.Scale)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d files could not be read", failed, len(args))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&workers, "workers", runtime.NumCPU(), "Number of files parsed in parallel")
	return cmd
}
