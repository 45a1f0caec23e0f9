package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	meshcenter "github.com/flywave/go-meshcenter"
	"github.com/pkg/errors"
)

var (
	output  = flag.String("o", "", "output file (.stl or .mst); a directory when several inputs are given")
	factor  = flag.Float64("simplify", 1, "fraction of faces to keep, in (0, 1]")
	quiet   = flag.Bool("q", false, "only report errors")
	verbose = flag.Bool("v", false, "display additional information")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] file...\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	log.SetFlags(0)
	log.SetPrefix("meshcenter: ")
	var logger meshcenter.Logger = func(level int, format string, args ...interface{}) {
		if level < meshcenter.LogWarn && (*quiet || (level == meshcenter.LogDebug && !*verbose)) {
			return
		}
		log.Printf(format, args...)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	scene := meshcenter.NewSceneWithOptions(&meshcenter.SceneOptions{
		AutoCenter: true,
		Logger:     logger,
		Loader: meshcenter.LoaderFunc(func(path string) (*meshcenter.Mesh, error) {
			m, err := meshcenter.LoadFile(path)
			if err == nil {
				box := m.WorldBox()
				logger(meshcenter.LogInfo, "%s: bounds %v - %v", path, box.Min, box.Max)
			}
			return m, err
		}),
	})

	failed := false
	for _, path := range flag.Args() {
		if err := process(ctx, scene, path, flag.NArg() > 1, logger); err != nil {
			log.Printf("%s: %v", path, err)
			failed = true
		}
	}
	if failed {
		os.Exit(1)
	}
}

func process(ctx context.Context, scene *meshcenter.Scene, path string, many bool, logger meshcenter.Logger) error {
	m, err := scene.Load(ctx, path)
	if err != nil {
		return err
	}
	box := m.WorldBox()
	logger(meshcenter.LogInfo, "%s: centered bounds %v - %v, position %v", path, box.Min, box.Max, m.Position)

	if *output == "" {
		return nil
	}
	if *factor != 1 {
		if m, err = meshcenter.Simplify(m, meshcenter.SimplifyOptions{Factor: *factor}); err != nil {
			return err
		}
		logger(meshcenter.LogInfo, "%s: simplified to %d faces", path, len(m.Faces))
	}

	out := *output
	if many {
		ext := filepath.Ext(out)
		if ext == "" {
			ext = "." + meshcenter.STL
		} else {
			out = filepath.Dir(out)
		}
		name := filepath.Base(path)
		out = filepath.Join(out, strings.TrimSuffix(name, filepath.Ext(name))+ext)
	}
	switch meshcenter.FormatOf(out) {
	case meshcenter.STL:
		err = meshcenter.SaveSTL(m, out)
	case meshcenter.MST:
		err = meshcenter.SaveMST(m, out)
	default:
		err = errors.Wrapf(meshcenter.ErrUnsupportedFormat, "output %q", out)
	}
	if err != nil {
		return err
	}
	logger(meshcenter.LogInfo, "wrote %s", out)
	return nil
}
