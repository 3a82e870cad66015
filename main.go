package main

import (
	"log/slog"
	"os"

	"LayerBoard/internal/config"
	"LayerBoard/internal/engine"
	"LayerBoard/internal/ui"
)

func main() {
	cfg := config.Load()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Log.Level}))
	slog.SetDefault(logger)

	e := engine.New(cfg, engine.WithLogger(logger))

	// A board file may be passed as the only argument.
	if len(os.Args) > 1 {
		path := os.Args[1]
		data, err := os.ReadFile(path)
		if err != nil {
			logger.Error("open board", "path", path, "err", err)
			os.Exit(1)
		}
		if err := e.Deserialize(data); err != nil {
			logger.Error("load board", "path", path, "err", err)
			os.Exit(1)
		}
	}

	logger.Info("starting", "canvas_width", cfg.Board.CanvasWidth, "canvas_height", cfg.Board.CanvasHeight)
	ui.RunApp(e, logger)
}
