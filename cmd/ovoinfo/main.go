// Command ovoinfo loads OVO scenes and prints, for each one, its node tree and the
// statistics of one headless frame as a YAML document.
//
//	ovoinfo [-config engine.toml] [-tree=false] [-frame=false] scene.ovo...
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/Carmen-Shannon/oxy-ovo/engine"
	"github.com/Carmen-Shannon/oxy-ovo/engine/config"
	"github.com/Carmen-Shannon/oxy-ovo/engine/loader"
	"github.com/Carmen-Shannon/oxy-ovo/engine/node"
	"github.com/Carmen-Shannon/oxy-ovo/engine/renderer"
	"github.com/Carmen-Shannon/oxy-ovo/engine/scene"

	"gopkg.in/yaml.v3"
)

var errUsage = errors.New("usage: ovoinfo [-config file] [-tree] [-frame] scene.ovo...")

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		log.Printf("[ovoinfo] %v", err)
		os.Exit(1)
	}
}

// options are the parsed command line flags.
type options struct {
	config string
	tree   bool
	frame  bool
	paths  []string
}

func parseFlags(args []string) (options, error) {
	var o options
	fs := flag.NewFlagSet("ovoinfo", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&o.config, "config", "", "TOML configuration file")
	fs.BoolVar(&o.tree, "tree", true, "include the node tree")
	fs.BoolVar(&o.frame, "frame", true, "render one headless frame and include its statistics")
	if err := fs.Parse(args); err != nil {
		return o, fmt.Errorf("%w: %w", errUsage, err)
	}
	o.paths = fs.Args()
	if len(o.paths) == 0 {
		return o, errUsage
	}
	return o, nil
}

func run(args []string, out io.Writer) error {
	o, err := parseFlags(args)
	if err != nil {
		return err
	}

	cfg := config.Default()
	if o.config != "" {
		if cfg, err = config.Load(o.config); err != nil {
			return err
		}
	}

	l := loader.NewLoader(loader.BackendTypeOVO, cfg.LoaderOptions()...)
	roots, err := l.LoadAll(o.paths)
	if err != nil {
		return err
	}

	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	for i, root := range roots {
		report, err := inspect(cfg, l, o, o.paths[i], root)
		if err != nil {
			return err
		}
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("encode %s: %w", o.paths[i], err)
		}
	}
	return enc.Close()
}

// inspect builds the report of one loaded scene. The frame is rendered from the configured
// camera, attached to the root after the tree has been described.
func inspect(cfg config.Config, l loader.Loader, o options, path string, root node.Node) (sceneReport, error) {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	s := scene.NewScene(name, root,
		scene.WithPath(path),
		scene.WithSkyColor(cfg.Renderer.SkyColorRGBA()),
	)
	report := sceneReport{
		Scene: s.Name(),
		Path:  path,
		Nodes: s.Count(),
	}
	if o.tree {
		report.Tree = describe(root)
	}
	if !o.frame {
		return report, nil
	}

	r, err := renderer.NewRenderer(cfg.RendererOptions()...)
	if err != nil {
		return report, err
	}
	defer r.Release()

	e, err := engine.NewEngineContext(engine.WithRenderer(r), engine.WithLoader(l))
	if err != nil {
		return report, err
	}
	cam, err := cfg.Camera.NewCamera("ovoinfo")
	if err != nil {
		return report, err
	}
	if err := s.AddCamera(cam, nil); err != nil {
		return report, err
	}
	e.SetScene(s)
	e.SetActiveCamera(cam)

	stats, err := e.RenderFrame()
	if err != nil {
		return report, err
	}
	report.Frame = &stats
	return report, nil
}
