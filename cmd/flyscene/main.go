package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"

	"github.com/flyscene/flyscene"
	"github.com/flyscene/flyscene/config"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	configPath := flag.String("config", config.DefaultPath, "path to the TOML config file")
	backend := flag.String("backend", "", "renderer backend: opengl, webgpu or headless (overrides the config)")
	debug := flag.Bool("debug", false, "enable debug logging")
	frames := flag.Uint64("frames", 0, "quit after this many frames (0 runs until closed)")
	watch := flag.Bool("watch", true, "reload the config file when it changes")
	dump := flag.Bool("dump-config", false, "print the effective config and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "flyscene: %v\n", err)
		os.Exit(2)
	}
	if *backend != "" {
		cfg.Renderer.Backend = *backend
	}
	if *debug {
		cfg.Log.Debug = true
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "flyscene: %v\n", err)
		os.Exit(2)
	}

	if *dump {
		out, err := cfg.Marshal()
		if err != nil {
			fmt.Fprintf(os.Stderr, "flyscene: %v\n", err)
			os.Exit(1)
		}
		os.Stdout.Write(out)
		return
	}

	app := flyscene.New(cfg, flyscene.Options{
		ConfigPath: *configPath,
		Watch:      *watch,
		MaxFrames:  *frames,
	})
	app.Run()
}
