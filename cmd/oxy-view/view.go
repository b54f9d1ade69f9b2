package main

import (
	"errors"
	"fmt"
	"time"

	"fortio.org/log"
	"github.com/Carmen-Shannon/oxy-view/config"
	"github.com/Carmen-Shannon/oxy-view/engine"
	"github.com/Carmen-Shannon/oxy-view/engine/camera"
	"github.com/Carmen-Shannon/oxy-view/engine/loader"
	"github.com/Carmen-Shannon/oxy-view/engine/renderer"
	"github.com/Carmen-Shannon/oxy-view/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-view/engine/viewer"
	"github.com/Carmen-Shannon/oxy-view/engine/watcher"
	"github.com/Carmen-Shannon/oxy-view/engine/window"
	"github.com/spf13/cobra"
)

type viewOptions struct {
	*globalOptions

	backend  string
	variant  string
	watch    bool
	profile  bool
	onDemand bool
}

func newViewCmd(global *globalOptions) *cobra.Command {
	opts := &viewOptions{globalOptions: global}

	cmd := &cobra.Command{
		Use:   "view [model.off]",
		Short: "Open a viewer window",
		Long: `Open a viewer window, optionally loading a mesh right away.

Controls:
  1-5        - Constant, flat, Gouraud, Phong, normals
  R          - Reload the current file
  P          - Toggle the profiler
  Drop file  - Load the dropped file
  Esc        - Quit`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts.globalOptions)
			if err != nil {
				return err
			}
			if err := applyViewFlags(cmd, opts, &cfg); err != nil {
				return err
			}
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return runView(cfg, path, opts.profile)
		},
	}

	cmd.Flags().StringVar(&opts.backend, "backend", "", "Rendering backend (opengl, wgpu)")
	cmd.Flags().StringVar(&opts.variant, "variant", "", "Initial shading variant (constant, flat, gouraud, phong, normals or 0-4)")
	cmd.Flags().BoolVar(&opts.watch, "watch", false, "Reload the mesh when its file changes")
	cmd.Flags().BoolVar(&opts.profile, "profile", false, "Log frame and memory statistics every second")
	cmd.Flags().BoolVar(&opts.onDemand, "on-demand", false, "Render only after something changed")
	return cmd
}

// applyViewFlags overrides settings with the flags that were given on the command line.
func applyViewFlags(cmd *cobra.Command, opts *viewOptions, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("backend") {
		cfg.Renderer.Backend = opts.backend
	}
	if flags.Changed("variant") {
		cfg.Shading.Variant = opts.variant
	}
	if flags.Changed("watch") {
		cfg.Watch.Enabled = opts.watch
	}
	if flags.Changed("on-demand") {
		cfg.Renderer.OnDemand = opts.onDemand
	}
	return cfg.Validate()
}

func runView(cfg config.Config, path string, profile bool) error {
	backend, err := cfg.BackendType()
	if err != nil {
		return err
	}
	variant, err := cfg.ShadingVariant()
	if err != nil {
		return err
	}
	loaderOpts, err := cfg.LoaderOptions()
	if err != nil {
		return err
	}
	camOpts, err := cfg.CameraOptions()
	if err != nil {
		return err
	}
	libOpts, err := cfg.LibraryOptions()
	if err != nil {
		return err
	}
	mat, err := cfg.NewMaterial()
	if err != nil {
		return err
	}

	w, err := window.NewWindow(cfg.WindowOptions(backend)...)
	if err != nil {
		return err
	}

	r, err := renderer.NewRenderer(backend, w, cfg.RendererOptions()...)
	if err != nil {
		return errors.Join(err, w.Close())
	}
	log.Infof("rendering with %s (%s)", backend, r.Language())

	var eng engine.Engine
	viewerOpts := []viewer.ViewerBuilderOption{
		viewer.WithCamera(camera.NewCamera(camOpts...)),
		viewer.WithLight(cfg.NewLight()),
		viewer.WithMaterial(mat),
		viewer.WithLibrary(pipeline.NewLibrary(libOpts...)),
		viewer.WithShadingVariant(variant),
		viewer.WithLoaderOptions(loaderOpts...),
		viewer.WithMeshLoadedCallback(func(info viewer.MeshInfo) {
			w.SetTitle(fmt.Sprintf("%s - %s - %s", cfg.Window.Title, info.Name, info))
		}),
		viewer.WithVariantSelectorCallback(func(enabled bool) {
			if enabled {
				log.Infof("press 1-5 to switch shading variants")
			}
		}),
		viewer.WithRedrawCallback(func() {
			if eng != nil {
				eng.RequestRedraw()
			}
		}),
	}

	engineOpts := []engine.EngineBuilderOption{
		engine.WithProfiling(profile),
		engine.WithRenderFrameLimit(cfg.Renderer.FrameLimit),
		engine.WithOnDemandRendering(cfg.Renderer.OnDemand),
	}

	if cfg.Watch.Enabled {
		fw, err := watcher.NewWatcher(watcher.WithDebounce(time.Duration(cfg.Watch.DebounceMS) * time.Millisecond))
		if err != nil {
			log.Warnf("file watching disabled: %v", err)
		} else {
			viewerOpts = append(viewerOpts, viewer.WithWatcher(fw))
			engineOpts = append(engineOpts, engine.WithReloadEvents(fw.Events()))
		}
	}

	v := viewer.NewViewer(r, viewerOpts...)
	eng = engine.NewEngine(w, v, engineOpts...)
	v.OnResize(w.Width(), w.Height())

	if path != "" {
		// A bad file leaves an empty window; another file can still be dropped in.
		var ioErr *loader.IOError
		if _, err := v.LoadMesh(path); err != nil && !errors.As(err, &ioErr) {
			eng.Quit()
			eng.Run()
			return err
		}
	}

	eng.Run()
	return nil
}
