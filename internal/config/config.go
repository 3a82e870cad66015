// Package config reads board settings from the environment and an
// optional .env file.
package config

import (
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"LayerBoard/internal/state"
)

// Config is every tunable the engine and shell read at startup.
type Config struct {
	Board   BoardConfig
	History HistoryConfig
	Input   InputConfig
	Export  ExportConfig
	Log     LogConfig
}

// BoardConfig sizes new boards.
type BoardConfig struct {
	CanvasWidth  float64
	CanvasHeight float64
	Background   state.Color
}

// HistoryConfig caps the undo stack and the snapshot list.
type HistoryConfig struct {
	Limit         int
	SnapshotLimit int
}

// InputConfig tunes hit testing, snapping and transform limits.
type InputConfig struct {
	HitTolerance    float64
	MinExtent       float64
	MaxExtent       float64
	LineSnapDeg     float64
	RotateSnapDeg   float64
	DuplicateOffset float64
}

// ExportConfig limits export rasters.
type ExportConfig struct {
	MaxDimension int
}

type LogConfig struct {
	Level slog.Level
}

// Default is the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Board:   BoardConfig{CanvasWidth: 1920, CanvasHeight: 1080, Background: state.White},
		History: HistoryConfig{Limit: 50, SnapshotLimit: 30},
		Input: InputConfig{
			HitTolerance:    6,
			MinExtent:       8,
			MaxExtent:       4000,
			LineSnapDeg:     45,
			RotateSnapDeg:   15,
			DuplicateOffset: 20,
		},
		Export: ExportConfig{MaxDimension: 16384},
		Log:    LogConfig{Level: slog.LevelInfo},
	}
}

// Load reads the given .env files (".env" when none are named), then the
// environment. Missing files are ignored; unusable values keep defaults.
func Load(files ...string) *Config {
	_ = godotenv.Load(files...)

	d := Default()
	return &Config{
		Board: BoardConfig{
			CanvasWidth:  getPositive("BOARD_CANVAS_WIDTH", d.Board.CanvasWidth),
			CanvasHeight: getPositive("BOARD_CANVAS_HEIGHT", d.Board.CanvasHeight),
			Background:   getColor("BOARD_BACKGROUND", d.Board.Background),
		},
		History: HistoryConfig{
			Limit:         getInt("BOARD_HISTORY_LIMIT", d.History.Limit),
			SnapshotLimit: getInt("BOARD_SNAPSHOT_LIMIT", d.History.SnapshotLimit),
		},
		Input: InputConfig{
			HitTolerance:    getPositive("BOARD_HIT_TOLERANCE", d.Input.HitTolerance),
			MinExtent:       getPositive("BOARD_MIN_EXTENT", d.Input.MinExtent),
			MaxExtent:       getPositive("BOARD_MAX_EXTENT", d.Input.MaxExtent),
			LineSnapDeg:     getPositive("BOARD_LINE_SNAP_DEG", d.Input.LineSnapDeg),
			RotateSnapDeg:   getPositive("BOARD_ROTATE_SNAP_DEG", d.Input.RotateSnapDeg),
			DuplicateOffset: getFloat("BOARD_DUPLICATE_OFFSET", d.Input.DuplicateOffset),
		},
		Export: ExportConfig{
			MaxDimension: getInt("BOARD_MAX_EXPORT_DIM", d.Export.MaxDimension),
		},
		Log: LogConfig{
			Level: getLevel("BOARD_LOG_LEVEL", d.Log.Level),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

// getInt accepts positive integers only.
func getInt(key string, defaultValue int) int {
	if value := getEnv(key, ""); value != "" {
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			return n
		}
	}
	return defaultValue
}

func getFloat(key string, defaultValue float64) float64 {
	if value := getEnv(key, ""); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			return f
		}
	}
	return defaultValue
}

func getPositive(key string, defaultValue float64) float64 {
	if f := getFloat(key, defaultValue); f > 0 {
		return f
	}
	return defaultValue
}

func getColor(key string, defaultValue state.Color) state.Color {
	if value := getEnv(key, ""); value != "" {
		if c, err := state.ParseColor(value); err == nil {
			return c
		}
	}
	return defaultValue
}

func getLevel(key string, defaultValue slog.Level) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(getEnv(key, defaultValue.String()))); err != nil {
		return defaultValue
	}
	return level
}
