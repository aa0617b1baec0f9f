package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/gekko3d/lights"
	"github.com/gekko3d/lights/render/core"
)

// variantProgram stands in for a compiled shader; the dump only needs to know
// which light sets end up sharing one.
type variantProgram struct {
	hash string
}

func (p *variantProgram) Release() {}

func main() {
	debug := flag.Bool("debug", false, "Enable debug logging")
	save := flag.String("save", "", "Write the loaded scene back out to this file")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: lightsdump [-debug] [-save out.yaml] scene.yaml")
		os.Exit(2)
	}

	cfg, err := lights.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *debug {
		cfg.Debug = true
	}
	logger := cfg.Logger()

	def, err := lights.LoadSceneFile(flag.Arg(0))
	if err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}

	compiler := core.CompilerFunc(func(d core.Descriptor) (core.Program, error) {
		logger.Debugf("compiling light variant %q", d.Hash)
		return &variantProgram{hash: d.Hash}, nil
	})
	rc := cfg.NewRenderContext(compiler, logger)

	failed := 0
	scene := lights.LoadScene(rc, logger, def, lights.WithErrorHandler(func(error) { failed++ }))
	scene.Compile(rc)

	for _, ls := range scene.LightSets {
		d := ls.Descriptor()
		if _, err := rc.Program(ls.ID()); err != nil {
			logger.Errorf("lights %s: %v", ls.ID(), err)
			continue
		}
		fmt.Printf("%s\thash=%q\tlights=%d\n", ls.ID(), d.Hash, len(d.Lights))
		for i, g := range core.PackAll(d.Lights) {
			fmt.Printf("\t[%d] %-7s pos=%v dir=%v color=%v params=%v\n",
				i, d.Lights[i].Mode, g.Position, g.Direction, g.Color, g.Params)
		}
	}

	stats := rc.Programs().Stats()
	fmt.Printf("%d light sets, %d shader variants, %d rejected entries\n",
		len(scene.LightSets), stats.Entries, failed)

	if *save != "" {
		out := scene.Def()
		data, err := out.Marshal()
		if err == nil {
			err = os.WriteFile(*save, data, 0o644)
		}
		if err != nil {
			logger.Errorf("save %s: %v", *save, err)
			os.Exit(1)
		}
	}
}
