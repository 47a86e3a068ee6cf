// posetool runs pose brush strokes on generated surfaces from the command
// line.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/posebrush/internal/cloth"
	"github.com/Faultbox/posebrush/internal/config"
	"github.com/Faultbox/posebrush/internal/logger"
	"github.com/Faultbox/posebrush/internal/parallel"
	"github.com/Faultbox/posebrush/internal/pose"
	"github.com/Faultbox/posebrush/internal/surface"
)

var (
	flagShape  = flag.String("shape", "tube", "Surface to generate: tube or plane")
	flagRepr   = flag.String("repr", "mesh", "Representation: mesh, grids or dyn")
	flagLevel  = flag.Int("level", 0, "Subdivision level")
	flagScript = flag.String("script", "", "Stroke script (YAML); a single drag when empty")
	flagOut    = flag.String("out", "", "Write the deformed surface as OBJ")
)

func main() {
	config.ParseFlags()

	if flag.NArg() < 1 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	command := flag.Arg(0)
	args := flag.Args()[1:]

	switch command {
	case "run":
		err = cmdRun(cfg)
	case "preview":
		err = cmdPreview(cfg)
	case "config":
		err = cmdConfig(cfg, args)
	case "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		logger.Error("command failed", zap.String("command", command), zap.Error(err))
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`posetool - pose brush runner

Usage:
  posetool [options] <command>

Commands:
  run                Run the stroke script and report displacement
  preview            Print the chain the first stroke would build
  config             Print the effective configuration
  config save [path] Save the effective configuration

Options:
  -shape tube|plane  -repr mesh|grids|dyn  -level N
  -script strokes.yaml  -out deformed.obj
  -config path  -debug  -workers N  -segments N  -log-file path

Examples:
  posetool -segments 3 run
  posetool -repr grids -level 2 -out arm.obj run
  posetool -script twist.yaml preview`)
}

// setup builds the surface, brush and stroke script from the flags and cfg.
func setup(cfg *config.Config) (surface.Surface, pose.Brush, *Script, error) {
	brush, err := pose.BrushFromConfig(cfg)
	if err != nil {
		return nil, brush, nil, err
	}
	kind, err := surface.ParseKind(*flagRepr)
	if err != nil {
		return nil, brush, nil, err
	}
	s, err := buildSurface(*flagShape, kind, *flagLevel)
	if err != nil {
		return nil, brush, nil, err
	}
	s.SetLeafSize(cfg.Performance.LeafSize)

	script := defaultScript(*flagShape)
	if *flagScript != "" {
		if script, err = LoadScript(*flagScript); err != nil {
			return nil, brush, nil, err
		}
	}
	return s, brush, script, nil
}

func cmdRun(cfg *config.Config) error {
	s, brush, script, err := setup(cfg)
	if err != nil {
		return err
	}
	rest := surface.Positions(s)
	vp := script.viewport(s)

	opts := []pose.Option{pose.WithPool(parallel.NewPool(cfg.Performance.Workers))}
	var target *cloth.Target
	if brush.Target == pose.TargetCloth {
		target = cloth.NewTarget(rest)
		opts = append(opts, pose.WithClothTarget(target))
	}
	sess, err := pose.NewSession(s, brush, opts...)
	if err != nil {
		return err
	}

	started := time.Now()
	steps := 0
	for i := range script.Strokes {
		sc := &script.Strokes[i]
		stroke, err := sc.resolve(s, vp)
		if err != nil {
			return fmt.Errorf("stroke %d: %w", i, err)
		}
		if err := sess.Start(&stroke); err != nil {
			return fmt.Errorf("stroke %d: %w", i, err)
		}
		for j := range sc.Steps {
			sc.Steps[j].apply(&stroke, vp)
			if err := sess.Step(&stroke); err != nil {
				return fmt.Errorf("stroke %d step %d: %w", i, j, err)
			}
			steps++
		}
		sess.End()
	}

	current := surface.Positions(s)
	if target != nil {
		current = target.DeformationPos
	}
	st := displacement(s, rest, current)
	logger.Info("strokes applied",
		zap.Stringer("surface", s.Kind()),
		zap.Int("vertices", s.VertexCount()),
		zap.Int("strokes", len(script.Strokes)),
		zap.Int("steps", steps),
		zap.Int("moved", st.moved),
		zap.Float32("max_displacement", st.max),
		zap.Float32("mean_displacement", st.mean),
		zap.Duration("elapsed", time.Since(started)))

	if *flagOut == "" {
		return nil
	}
	f, err := os.Create(*flagOut)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := WriteOBJ(f, s); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	logger.Info("surface written", zap.String("path", *flagOut))
	return nil
}

func cmdPreview(cfg *config.Config) error {
	s, brush, script, err := setup(cfg)
	if err != nil {
		return err
	}
	if len(script.Strokes) == 0 {
		return fmt.Errorf("script has no strokes")
	}
	first, err := script.Strokes[0].resolve(s, script.viewport(s))
	if err != nil {
		return err
	}
	p, err := pose.BuildPreview(s, brush, first.Location, first.Radius)
	if err != nil {
		return err
	}

	fmt.Printf("Surface:  %s (%d vertices)\n", s.Kind(), s.VertexCount())
	fmt.Printf("Origin:   %s\n", brush.Origin)
	fmt.Printf("Segments: %d\n", len(p.InitialHeads))
	fmt.Println()
	for i := range p.InitialHeads {
		h, o := p.InitialHeads[i], p.InitialOrigs[i]
		fmt.Printf("  %d  head (%.4f, %.4f, %.4f)  orig (%.4f, %.4f, %.4f)  len %.4f\n",
			i, h.X, h.Y, h.Z, o.X, o.Y, o.Z, h.Distance(o))
	}
	return nil
}

func cmdConfig(cfg *config.Config, args []string) error {
	if len(args) == 0 {
		return cfg.Write(os.Stdout)
	}
	if args[0] != "save" {
		return fmt.Errorf("unknown config command %q", args[0])
	}
	if len(args) > 1 {
		return cfg.SaveTo(args[1])
	}
	return cfg.Save()
}
