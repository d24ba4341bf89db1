// Command bauble opens a live shader window for a script file. Saving the
// file re-evaluates it; drag to orbit, pinch or scroll (with -hijack-scroll)
// to zoom.
//
// Keys: space play/pause, s stop, l cycle loop mode, r reset camera,
// 1/2/3 view mode, F12 screenshot.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/jpaquim/bauble"
	"github.com/jpaquim/bauble/script"
)

func main() {
	configPath := flag.String("config", "", "YAML run config `file`")
	scriptPath := flag.String("script", "", "script `file` to evaluate and watch")
	hijackScroll := flag.Bool("hijack-scroll", false, "zoom the camera with the mouse wheel")
	debug := flag.Bool("debug", false, "show the debug overlay and log frame stats")
	replay := flag.String("replay", "", "JSON test script `file` to replay; exits when done")
	flag.Parse()

	cfg := bauble.RunConfig{}
	if *configPath != "" {
		var err error
		cfg, err = bauble.LoadRunConfig(*configPath)
		if err != nil {
			log.Fatal(err)
		}
	}
	// Flags override the config file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "script":
			cfg.Script = *scriptPath
		case "hijack-scroll":
			cfg.HijackScroll = *hijackScroll
		case "debug":
			cfg.Debug = *debug
		case "replay":
			cfg.TestScript = *replay
			cfg.ExitAfterTest = true
		}
	})

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	var (
		src  bauble.ScriptSource = bauble.StaticScript(script.Default)
		file *script.File
	)
	if cfg.Script != "" {
		var err error
		file, err = script.OpenFile(cfg.Script)
		if err != nil {
			log.Fatal(err)
		}
		file.Logger = logger
		src = file
	}

	game, err := bauble.NewGame(cfg, script.NewEvaluator(), src, logger)
	if err != nil {
		log.Fatal(err)
	}
	session := game.Session()

	if cfg.TestScript != "" {
		data, err := os.ReadFile(cfg.TestScript)
		if err != nil {
			log.Fatal(err)
		}
		runner, err := bauble.LoadTestScript(data)
		if err != nil {
			log.Fatal(err)
		}
		session.SetTestRunner(runner)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if file != nil {
		go func() {
			err := file.Watch(ctx, func() {
				session.Post(session.MarkScriptDirty)
			})
			if err != nil {
				logger.Error("script watcher stopped", "error", err)
			}
		}()
	}

	if err := bauble.Run(game); err != nil {
		log.Fatal(err)
	}
}
