package engine

import (
	"context"
	"strings"

	"github.com/uiactl/uiactl/internal/model"
	"github.com/uiactl/uiactl/internal/platform"
)

// PatternRequest asks for one capability-specific action on an element.
// The target is either a previously discovered element id or a query that
// must resolve to a single element.
type PatternRequest struct {
	ElementID string
	Query     *model.Query

	Op     string  // invoke, toggle, set-value, select, expand, collapse, scroll-into-view, scroll, set-range, move, resize
	Value  string  // set-value
	Number float64 // set-range
	Rect   [4]int  // move/resize target geometry, virtual-screen space

	Direction string // scroll: up, down, left, right
	Amount    int    // scroll steps, default 3
}

// patternNeeded maps an op to the capability the element must advertise.
var patternNeeded = map[string]string{
	"invoke":           platform.PatternInvoke,
	"toggle":           platform.PatternToggle,
	"set-value":        platform.PatternValue,
	"select":           platform.PatternSelect,
	"expand":           platform.PatternExpand,
	"collapse":         platform.PatternExpand,
	"scroll-into-view": platform.PatternScrollItem,
	"scroll":           platform.PatternScroll,
	"set-range":        platform.PatternRange,
	"move":             platform.PatternTransform,
	"resize":           platform.PatternTransform,
}

// Pattern verifies the element supports the requested capability and
// executes it. Unsupported capabilities fail as pattern_not_supported with
// a coordinate-input fallback suggestion.
func (e *Engine) Pattern(ctx context.Context, req PatternRequest) model.Result {
	action := "pattern:" + req.Op
	actx := AdviceContext{Pattern: req.Op}

	needed, ok := patternNeeded[req.Op]
	if !ok {
		return e.invalid(action, model.E(model.ErrInvalidParameter, "unknown pattern op %q", req.Op), actx)
	}
	if req.Op == "scroll" {
		if _, _, derr := scrollDelta(req.Direction, req.Amount); derr != nil {
			return e.invalid(action, derr, actx)
		}
	}

	tgt, verr := e.compileTarget(req.ElementID, req.Query)
	if verr != nil {
		return e.invalid(action, verr, actx)
	}

	return e.run(ctx, action, actx, func() (model.Result, error) {
		topology, terr := e.monitors.Monitors()
		if terr != nil {
			return model.Result{}, terr
		}
		m, res, err := e.resolveTarget(tgt, topology)
		if err != nil {
			return res, err
		}

		if !m.snap.HasPattern(needed) {
			return res, model.E(model.ErrPatternNotSupported,
				"element %q (%s) does not support %s", m.snap.Name, m.snap.ControlType, req.Op)
		}

		if err := e.executePattern(m.node, req); err != nil {
			return res, err
		}

		// Snapshot again so the caller sees post-action state (toggle
		// state, value) without another round trip.
		m.snap = snapshot(m.node, m.path, topology)
		res.Elements = []model.Element{m.snap}
		res.Count = 1
		return res, nil
	})
}

func (e *Engine) executePattern(node platform.Node, req PatternRequest) error {
	switch req.Op {
	case "invoke":
		return node.Invoke()
	case "toggle":
		return node.Toggle()
	case "set-value":
		return node.SetValue(req.Value)
	case "select":
		return node.Select()
	case "expand":
		return node.ExpandCollapse(true)
	case "collapse":
		return node.ExpandCollapse(false)
	case "scroll-into-view":
		return node.ScrollIntoView()
	case "set-range":
		return node.SetRangeValue(req.Number)
	case "move", "resize":
		return node.MoveResize(req.Rect[0], req.Rect[1], req.Rect[2], req.Rect[3])
	case "scroll":
		dx, dy, _ := scrollDelta(req.Direction, req.Amount)
		return e.scrollSteps(node, dx, dy)
	default:
		return model.E(model.ErrInvalidParameter, "unknown pattern op %q", req.Op)
	}
}

// scrollSteps performs repeated unit scrolls; a viewport that stops moving
// before the requested distance is exhausted travel, not success.
func (e *Engine) scrollSteps(node platform.Node, dx, dy int) error {
	steps := abs(dx) + abs(dy)
	ux, uy := sign(dx), sign(dy)
	for i := 0; i < steps; i++ {
		moved, err := node.Scroll(ux, uy)
		if err != nil {
			return err
		}
		if !moved {
			return model.E(model.ErrScrollExhausted,
				"scroll stopped after %d of %d steps: end of travel", i, steps)
		}
	}
	return nil
}

func scrollDelta(direction string, amount int) (int, int, *model.Error) {
	if amount <= 0 {
		amount = 3
	}
	switch strings.ToLower(direction) {
	case "up":
		return 0, -amount, nil
	case "down":
		return 0, amount, nil
	case "left":
		return -amount, 0, nil
	case "right":
		return amount, 0, nil
	default:
		return 0, 0, model.E(model.ErrInvalidParameter, "bad scroll direction %q: use up, down, left, or right", direction)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

// compileTarget validates the element-id / query pairing before dispatch.
type target struct {
	handle   string
	compiled *model.Compiled
}

func (e *Engine) compileTarget(id string, q *model.Query) (target, *model.Error) {
	switch {
	case id != "" && q != nil:
		return target{}, model.E(model.ErrInvalidParameter, "specify an element id or a query, not both")
	case id != "":
		if _, derr := decodeID(id); derr != nil {
			return target{}, derr
		}
		return target{handle: id}, nil
	case q != nil:
		c, verr := q.Compile()
		if verr != nil {
			return target{}, verr
		}
		return target{compiled: c}, nil
	default:
		return target{}, model.E(model.ErrInvalidParameter, "specify an element id or a query")
	}
}

// resolveTarget produces the single live match for a target, with
// diagnostics for the result either way. Must run on the apartment worker.
func (e *Engine) resolveTarget(t target, topology []model.Monitor) (match, model.Result, error) {
	if t.handle != "" {
		h, _ := decodeID(t.handle)
		node, path, err := e.resolveHandle(h)
		if err != nil {
			return match{}, model.Result{Diagnostics: model.Diagnostics{NodesScanned: 1}}, err
		}
		return match{node: node, path: path, snap: snapshot(node, path, topology)},
			model.Result{Diagnostics: model.Diagnostics{NodesScanned: 1}}, nil
	}

	st, err := e.findMatches(t.compiled, topology)
	res := model.Result{}
	if st != nil {
		res.Diagnostics.NodesScanned = st.scanned
	}
	if err != nil {
		return match{}, res, err
	}
	m, merr := selectMatch(st, t.compiled)
	if merr != nil {
		return match{}, res, merr
	}
	return m, res, nil
}

// selectMatch applies foundIndex disambiguation. A query that did not
// disambiguate and hit several elements is ambiguous, not a free pick.
func selectMatch(st *walkState, c *model.Compiled) (match, *model.Error) {
	switch {
	case len(st.matches) == 0:
		return match{}, model.E(model.ErrElementNotFound, "no element matches %s", c.Describe())
	case c.FoundIndex == 0 && len(st.matches) > 1:
		return match{}, model.E(model.ErrMultipleMatches, "%d elements match %s", len(st.matches), c.Describe())
	case c.EffectiveIndex() > len(st.matches):
		return match{}, model.E(model.ErrElementNotFound,
			"found_index %d out of range: %d element(s) match %s", c.FoundIndex, len(st.matches), c.Describe())
	default:
		return st.matches[c.EffectiveIndex()-1], nil
	}
}
