// Package engine orchestrates accessibility-tree queries and actions. All
// backend access is funneled through the apartment dispatcher; elements are
// passed between calls as re-resolvable identity strings, never as live
// backend references.
package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/uiactl/uiactl/internal/config"
	"github.com/uiactl/uiactl/internal/dispatcher"
	"github.com/uiactl/uiactl/internal/ident"
	"github.com/uiactl/uiactl/internal/model"
	"github.com/uiactl/uiactl/internal/platform"
)

// Engine ties the dispatcher, the backend, and the input/window/monitor
// collaborators together.
type Engine struct {
	disp      *dispatcher.Dispatcher
	auto      platform.Automation
	input     platform.Inputter
	windows   platform.WindowManager
	monitors  platform.MonitorProvider
	elevation platform.ElevationChecker
	cfg       *config.Config
	log       *slog.Logger
}

// New starts the apartment worker and initializes the backend on it.
// A backend that cannot initialize fails construction.
func New(p *platform.Provider, cfg *config.Config, log *slog.Logger) (*Engine, error) {
	if log == nil {
		log = slog.Default()
	}
	d, err := dispatcher.New(p.Automation.Init, p.Automation.Teardown)
	if err != nil {
		return nil, err
	}
	return &Engine{
		disp:      d,
		auto:      p.Automation,
		input:     p.Inputter,
		windows:   p.Windows,
		monitors:  p.Monitors,
		elevation: p.Elevation,
		cfg:       cfg,
		log:       log,
	}, nil
}

// Close shuts the apartment worker down.
func (e *Engine) Close() { e.disp.Close() }

// Topology returns the current monitor layout, queried fresh.
func (e *Engine) Topology() ([]model.Monitor, error) {
	return e.monitors.Monitors()
}

// scope is a resolved traversal root: the node plus the child-index path of
// that node from its window root, used to derive identity paths for
// everything found beneath it.
type scope struct {
	root    platform.Node
	base    []int
	desktop bool
}

// resolveScope picks the traversal root. Parent scope takes precedence over
// a window handle; a parent id that decodes but no longer resolves is
// element_not_found, reported before any window fallback is considered.
func (e *Engine) resolveScope(c *model.Compiled) (scope, error) {
	if c.ParentID != "" {
		h, derr := ident.Decode(c.ParentID)
		if derr != nil {
			return scope{}, derr
		}
		node, err := ident.Resolve(e.auto, h)
		if err != nil {
			return scope{}, err
		}
		if node == nil {
			return scope{}, model.E(model.ErrElementNotFound, "parent element %q not found or stale", c.ParentID)
		}
		return scope{root: node, base: h.Path}, nil
	}
	if c.Window != 0 {
		node, err := e.auto.WindowRoot(c.Window)
		if err != nil {
			return scope{}, err
		}
		if node == nil {
			return scope{}, model.E(model.ErrWindowNotFound, "no window with handle %#x", c.Window)
		}
		return scope{root: node}, nil
	}
	node, err := e.auto.Root()
	if err != nil {
		return scope{}, err
	}
	return scope{root: node, desktop: true}, nil
}

// snapshot captures a node into an immutable Element. topology is the
// monitor layout read once at the start of the operation.
func snapshot(node platform.Node, path []int, topology []model.Monitor) model.Element {
	bounds := node.Bounds()
	mapped := model.MapRect(bounds, topology)

	el := model.Element{
		ID:           ident.FromNode(node, path).Encode(),
		Name:         node.Name(),
		ControlType:  node.ControlType(),
		AutomationID: node.AutomationID(),
		ClassName:    node.ClassName(),
		Bounds:       bounds,
		Monitor:      mapped.Monitor,
		MonitorRect:  mapped.Rect,
		Click:        mapped.Click,
		Patterns:     node.Patterns(),
		Enabled:      node.Enabled(),
		Offscreen:    node.Offscreen(),
	}
	if v, ok := node.Value(); ok {
		el.Value = v
	}
	if ts, ok := node.ToggleState(); ok {
		el.Toggle = ts
	}
	return el
}

// run dispatches op onto the apartment worker and folds the outcome into
// the uniform result shape. Failures get classified and given a recovery
// suggestion here, in one place.
func (e *Engine) run(ctx context.Context, action string, actx AdviceContext, op func() (model.Result, error)) model.Result {
	start := time.Now()
	res, err := dispatcher.Submit(ctx, e.disp, op)
	res.Action = action
	res.Diagnostics.DurationMS = time.Since(start).Milliseconds()
	if err != nil {
		return e.failure(action, res, err, actx)
	}
	res.OK = true
	return res
}

// failure classifies err into the closed taxonomy and attaches the
// advisor's suggestion. No raw backend failure escapes unclassified.
func (e *Engine) failure(action string, res model.Result, err error, actx AdviceContext) model.Result {
	classified := model.AsError(err)
	res.OK = false
	res.Action = action
	res.Error = classified.Kind
	res.Message = classified.Message
	res.Suggestion = classified.Suggestion
	if res.Suggestion == "" {
		res.Suggestion = Advise(action, classified.Kind, actx)
	}
	if e.log != nil {
		e.log.Debug("operation failed",
			slog.String("action", action),
			slog.String("kind", string(classified.Kind)),
			slog.String("message", classified.Message))
	}
	return res
}

// decodeID wraps ident.Decode so malformed ids fail as invalid_parameter
// before any dispatch.
func decodeID(id string) (ident.Handle, *model.Error) {
	if id == "" {
		return ident.Handle{}, model.E(model.ErrInvalidParameter, "element id must not be empty")
	}
	return ident.Decode(id)
}

// resolveHandle dereferences a decoded handle, mapping the legitimate
// "gone" outcome to element_not_found. Must run on the apartment worker.
func (e *Engine) resolveHandle(h ident.Handle) (platform.Node, []int, error) {
	node, err := ident.Resolve(e.auto, h)
	if err != nil {
		return nil, nil, err
	}
	if node == nil {
		return nil, nil, model.E(model.ErrElementNotFound, "element not found or stale (window %#x)", h.Window)
	}
	return node, h.Path, nil
}

// invalid builds the synchronous-rejection result for validation failures:
// no dispatch, zero nodes scanned.
func (e *Engine) invalid(action string, verr *model.Error, actx AdviceContext) model.Result {
	return e.failure(action, model.Result{}, verr, actx)
}
