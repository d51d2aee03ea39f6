package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/classgraph/internal/builder"
	"github.com/standardbeagle/classgraph/internal/cgerrors"
	"github.com/standardbeagle/classgraph/internal/config"
	"github.com/standardbeagle/classgraph/internal/export"
	"github.com/standardbeagle/classgraph/internal/graph"
	"github.com/standardbeagle/classgraph/internal/version"
)

func loadConfigWithOverrides(c *cli.Context) (config.Config, error) {
	root := c.String("root")
	configDir := c.String("config")
	if configDir == "" {
		configDir = root
	}
	if configDir == "" {
		configDir = "."
	}

	cfg, err := config.LoadKDL(configDir)
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to load config from %s: %w", configDir, err)
	}

	// Only flags given on the command line override the file; a flag's
	// default value must not mask the value from .classgraph.kdl.
	setString := func(name string) string {
		if c.IsSet(name) {
			return c.String(name)
		}
		return ""
	}
	workers := 0
	if c.IsSet("workers") {
		workers = c.Int("workers")
	}

	cfg = cfg.ApplyOverrides(config.Overrides{
		Root:         root,
		Mode:         setString("mode"),
		SizeProperty: setString("size"),
		Format:       setString("format"),
		Output:       c.String("output"),
		Exclude:      c.StringSlice("exclude"),
		Workers:      workers,
		External:     setString("external"),
	})

	if cfg.Root == "" {
		cfg.Root = "."
	}
	absRoot, err := filepath.Abs(cfg.Root)
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to resolve root path %q: %w", cfg.Root, err)
	}
	cfg.Root = absRoot

	return cfg, nil
}

func run(c *cli.Context) error {
	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return err
	}

	var factory graph.NodeFactory
	switch cfg.Mode {
	case config.ModeClass:
		factory = graph.NewClassNodeFactory(graph.SizeProperty(cfg.SizeProperty))
	case config.ModePackage, "":
		factory = graph.NewPackageNodeFactory(graph.SizeProperty(cfg.SizeProperty))
	default:
		return cgerrors.NewUsageError("run", "unknown mode: "+string(cfg.Mode))
	}

	model := graph.NewModel()
	b := builder.New(model, factory)
	b.WorkerCount = cfg.Workers
	b.ExcludeGlobs = cfg.Exclude

	if err := b.Append(cfg.Root); err != nil {
		return err
	}

	switch cfg.External {
	case config.ExternalMaterialize:
		if _, err := model.CreateExternalNodes(); err != nil {
			return err
		}
	case config.ExternalDrop, "":
		if _, err := model.RemoveExternalConnections(); err != nil {
			return err
		}
	default:
		return cgerrors.NewUsageError("run", "unknown external mode: "+string(cfg.External))
	}

	view := graph.NewGraphView(model)

	out := os.Stdout
	if cfg.Output != "" {
		f, err := os.Create(cfg.Output)
		if err != nil {
			return fmt.Errorf("failed to create output file %s: %w", cfg.Output, err)
		}
		defer f.Close()
		out = f
	}

	switch cfg.Format {
	case config.FormatGML:
		return export.WriteGML(out, view)
	case config.FormatGraphML:
		return export.WriteGraphML(out, view)
	case config.FormatDOT, "":
		return export.WriteDOT(out, view)
	default:
		return cgerrors.NewUsageError("run", "unknown output format: "+string(cfg.Format))
	}
}

func main() {
	app := &cli.App{
		Name:                   "classgraph",
		Usage:                  "Extract a dependency graph from compiled Java class files and archives",
		Version:                version.FullInfo(),
		UseShortOptionHandling: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Config file directory (looks for .classgraph.kdl there)",
			},
			&cli.StringFlag{
				Name:    "root",
				Aliases: []string{"r"},
				Usage:   "Root file or directory to scan",
			},
			&cli.StringFlag{
				Name:  "mode",
				Usage: "Node granularity: package or class",
				Value: "package",
			},
			&cli.StringFlag{
				Name:  "size",
				Usage: "Node size measure: total or code",
				Value: "total",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: dot, gml, or graphml",
				Value:   "dot",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output file path (default: stdout)",
			},
			&cli.StringSliceFlag{
				Name:  "exclude",
				Usage: "Glob pattern to exclude from scanning (repeatable)",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Number of concurrent class-file decode workers",
				Value: 1,
			},
			&cli.StringFlag{
				Name:   "external",
				Usage:  "How to resolve dangling connections: drop or materialize",
				Value:  "drop",
				Hidden: true,
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		var usageErr *cgerrors.UsageError
		if errors.As(err, &usageErr) {
			os.Exit(1)
		}
		os.Exit(2)
	}
}
