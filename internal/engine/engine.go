// Package engine owns one open board and exposes it through a narrow,
// synchronous command and query surface. It is not safe for concurrent use;
// the desktop shell drives it from the UI goroutine.
package engine

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"LayerBoard/internal/config"
	"LayerBoard/internal/export"
	"LayerBoard/internal/geom"
	"LayerBoard/internal/history"
	"LayerBoard/internal/selection"
	"LayerBoard/internal/state"
	"LayerBoard/internal/tools"
	"LayerBoard/internal/viewport"
)

// ErrGestureInFlight rejects a press from a second pointer while another
// pointer owns the gesture.
var ErrGestureInFlight = errors.New("another gesture is in progress")

// Status is the outcome of a command.
type Status uint8

const (
	// StatusApplied means the command took effect.
	StatusApplied Status = iota
	// StatusUnchanged means there was nothing to do, such as undo at the
	// start of history.
	StatusUnchanged
	// StatusRejected means the command was refused; Reason says why.
	StatusRejected
)

func (s Status) String() string {
	switch s {
	case StatusApplied:
		return "applied"
	case StatusUnchanged:
		return "unchanged"
	}
	return "rejected"
}

// Result reports what a command did. IDs lists the primitives or layers it
// created or touched, when that is meaningful.
type Result struct {
	Status Status
	Reason error
	IDs    []state.ID
}

func (r Result) Applied() bool { return r.Status == StatusApplied }

var (
	applied   = Result{Status: StatusApplied}
	unchanged = Result{Status: StatusUnchanged}
)

// Option configures an Engine.
type Option func(*Engine)

// WithLogger routes engine logs to l. Engines log nothing by default.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// Engine is the drawing and history core for one document.
type Engine struct {
	cfg    *config.Config
	logger *slog.Logger

	board     *state.Board
	history   *history.Stack
	snapshots *history.Snapshots
	exporter  *export.Exporter
	clip      selection.Clipboard

	tool      tools.Tool
	color     state.Color
	width     float64
	shapeOpts state.ShapeOptions
	textStyle state.TextStyle

	gesture   tools.Gesture
	transform *selection.Transform
	preview   state.Primitive
	marquee   *geom.Rect
}

// New starts an engine on a blank board sized by cfg.
func New(cfg *config.Config, opts ...Option) *Engine {
	if cfg == nil {
		cfg = config.Default()
	}
	e := &Engine{
		cfg:       cfg,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		tool:      tools.Default(),
		color:     state.Black,
		width:     4,
		textStyle: state.DefaultTextStyle(),
	}
	for _, o := range opts {
		o(e)
	}
	e.history = history.NewStack(cfg.History.Limit)
	e.snapshots = history.NewSnapshots(cfg.History.SnapshotLimit)
	e.exporter = export.New(
		export.WithMaxDimension(cfg.Export.MaxDimension),
		export.WithLogger(e.logger.With("component", "export")),
	)
	e.adopt(state.New(state.Size{Width: cfg.Board.CanvasWidth, Height: cfg.Board.CanvasHeight}, cfg.Board.Background), "New board")
	return e
}

// adopt makes b the open board and restarts both histories from it.
func (e *Engine) adopt(b *state.Board, label string) {
	e.resetGesture()
	e.board = b
	content, err := state.EncodeContent(b)
	if err != nil {
		e.logger.Error("encode board", "err", err)
	}
	e.history.Reset(label, content)
	e.snapshots.Reset()
}

// commit records the board as a new history entry. If the content did not
// actually change, nothing is recorded and the result is unchanged.
func (e *Engine) commit(label string, affected []state.ID) Result {
	content, err := state.EncodeContent(e.board)
	if err != nil {
		e.logger.Error("encode board", "label", label, "err", err)
		return Result{Status: StatusRejected, Reason: err}
	}
	if cur, ok := e.history.Current(); ok && bytes.Equal(cur.State, content) {
		return unchanged
	}
	entry := e.history.Push(label, content, affected)
	e.logger.Debug("commit", "component", "history", "label", label, "entry", entry.ID, "affected", affected)
	return Result{Status: StatusApplied, IDs: affected}
}

// restore loads history content into the board, keeping view state.
func (e *Engine) restore(content []byte) {
	if err := state.RestoreContent(e.board, content); err != nil {
		e.logger.Error("restore history state", "err", err)
	}
}

// reject logs a refused command. Validation errors are also returned to
// the caller by the command itself.
func (e *Engine) reject(op string, err error) Result {
	e.logger.Info("rejected", "op", op, "reason", err)
	return Result{Status: StatusRejected, Reason: err}
}

func (e *Engine) invalid(op string, err error) (Result, error) {
	return e.reject(op, err), err
}

// tolerance is the hit tolerance in logical units at the current zoom.
func (e *Engine) tolerance() float64 { return e.cfg.Input.HitTolerance / e.board.View.Zoom }

func (e *Engine) limits() selection.Limits {
	return selection.Limits{MinExtent: e.cfg.Input.MinExtent, MaxExtent: e.cfg.Input.MaxExtent}
}

// LayerView is one row of the layer panel.
type LayerView struct {
	ID         state.ID
	Name       string
	Order      int
	Visible    bool
	Locked     bool
	Active     bool
	Primitives int
	Image      bool
}

// EntryView describes a history entry or snapshot without its content.
type EntryView struct {
	ID        uuid.UUID
	Label     string
	Timestamp time.Time
}

// View is the read model the shell renders its chrome from.
type View struct {
	Tool         tools.Tool
	Color        state.Color
	StrokeWidth  float64
	ShapeOptions state.ShapeOptions
	TextStyle    state.TextStyle

	Layers      []LayerView
	ActiveLayer state.ID

	Selection       []state.ID
	SelectionBounds geom.Rect
	Viewport        viewport.Viewport
	Canvas          state.Size

	CanUndo     bool
	CanRedo     bool
	History     []EntryView
	HistoryHead int
	Snapshots   []EntryView

	Phase tools.Phase
}

// View returns a copy of everything the shell may display.
func (e *Engine) View() View {
	b := e.board
	v := View{
		Tool:         e.tool,
		Color:        e.color,
		StrokeWidth:  e.width,
		ShapeOptions: e.shapeOpts,
		TextStyle:    e.textStyle,
		ActiveLayer:  b.ActiveLayer,
		Selection:    b.Selection.IDs(),
		Viewport:     b.View,
		Canvas:       b.Canvas,
		CanUndo:      e.history.CanUndo(),
		CanRedo:      e.history.CanRedo(),
		Phase:        e.gesture.Phase,
	}
	v.SelectionBounds, _ = b.SelectionBounds()
	for _, l := range b.Layers {
		v.Layers = append(v.Layers, LayerView{
			ID:         l.ID,
			Name:       l.Name,
			Order:      l.Order,
			Visible:    l.Visible,
			Locked:     l.Locked,
			Active:     l.ID == b.ActiveLayer,
			Primitives: len(l.Primitives),
			Image:      l.Raster != nil,
		})
	}
	tl := e.history.Timeline()
	v.HistoryHead = tl.ActiveIndex
	for _, en := range tl.Entries {
		v.History = append(v.History, EntryView{ID: en.ID, Label: en.Label, Timestamp: en.Timestamp})
	}
	for _, s := range e.snapshots.List() {
		v.Snapshots = append(v.Snapshots, EntryView{ID: s.ID, Label: s.Label, Timestamp: s.Timestamp})
	}
	return v
}
