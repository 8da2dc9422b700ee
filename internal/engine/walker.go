package engine

import (
	"context"
	"math"
	"sort"

	"github.com/uiactl/uiactl/internal/model"
	"github.com/uiactl/uiactl/internal/platform"
)

// match pairs a live node with its identity path so callers can act on it
// within the same dispatched operation.
type match struct {
	node platform.Node
	path []int
	snap model.Element
}

// walkState carries traversal bookkeeping.
type walkState struct {
	c        *model.Compiled
	topology []model.Monitor
	maxDepth int
	cap      int
	scanned  int
	capped   bool
	matches  []match
}

// collect walks the scope subtree, filtering during traversal so the
// control-type and name checks bound cost instead of post-filtering a full
// dump. Depth 0 is the scoped root only.
func (e *Engine) collect(s scope, c *model.Compiled, topology []model.Monitor) *walkState {
	st := &walkState{
		c:        c,
		topology: topology,
		maxDepth: math.MaxInt32,
		cap:      e.cfg.VisitedNodeCap,
	}
	if c.DepthSet {
		st.maxDepth = c.Depth
	}
	if s.desktop {
		// The desktop root is a pure container: identity paths restart at
		// each top-level window so handles stay window-relative.
		st.visit(s.root, nil, 0, false)
		if children, err := s.root.Children(); err == nil {
			for _, w := range children {
				if st.capped {
					break
				}
				st.walk(w, nil, 1)
			}
		}
		return st
	}
	st.walk(s.root, s.base, 0)
	return st
}

func (st *walkState) walk(node platform.Node, path []int, depth int) {
	if depth > st.maxDepth {
		return
	}
	if st.scanned >= st.cap {
		st.capped = true
		return
	}
	st.visit(node, path, depth, true)
	if depth == st.maxDepth {
		return
	}
	children, err := node.Children()
	if err != nil {
		return
	}
	for i, child := range children {
		if st.capped {
			return
		}
		st.walk(child, append(append([]int(nil), path...), i), depth+1)
	}
}

// visit applies the filters to one node and records a match.
func (st *walkState) visit(node platform.Node, path []int, depth int, countable bool) {
	if countable {
		st.scanned++
	}
	if st.c.DepthExact && st.c.DepthSet && depth != st.c.Depth {
		return
	}
	if !st.c.MatchType(node.ControlType()) {
		return
	}
	if !st.c.MatchName(node.Name()) {
		return
	}
	if st.c.AutomationID != "" && node.AutomationID() != st.c.AutomationID {
		return
	}
	if st.c.ClassName != "" && node.ClassName() != st.c.ClassName {
		return
	}
	st.matches = append(st.matches, match{
		node: node,
		path: append([]int(nil), path...),
		snap: snapshot(node, path, st.topology),
	})
}

// order applies prominence sorting (bounding-box area, descending) when
// requested. The sort is stable so equally sized matches keep tree order.
func (st *walkState) order() {
	if !st.c.Prominent {
		return
	}
	sort.SliceStable(st.matches, func(i, j int) bool {
		return st.matches[i].snap.Area() > st.matches[j].snap.Area()
	})
}

// findMatches runs the full query traversal inside one dispatched op and
// returns matches plus warnings for the diagnostics block.
func (e *Engine) findMatches(c *model.Compiled, topology []model.Monitor) (*walkState, error) {
	s, err := e.resolveScope(c)
	if err != nil {
		return nil, err
	}
	st := e.collect(s, c, topology)
	st.order()
	return st, nil
}

// Find runs a flat query and returns the matching snapshots. With a
// FoundIndex set, only that single match (1-based) is returned.
func (e *Engine) Find(ctx context.Context, q model.Query) model.Result {
	c, verr := q.Compile()
	actx := AdviceContext{}
	if verr != nil {
		return e.invalid("find", verr, actx)
	}
	actx = adviceFor(c, 0)

	return e.run(ctx, "find", actx, func() (model.Result, error) {
		topology, terr := e.monitors.Monitors()
		if terr != nil {
			return model.Result{}, terr
		}
		st, err := e.findMatches(c, topology)
		if err != nil {
			return model.Result{}, err
		}
		res := model.Result{Diagnostics: model.Diagnostics{NodesScanned: st.scanned}}
		if st.capped {
			res.Diagnostics.Warnings = append(res.Diagnostics.Warnings, "traversal stopped at visited-node cap")
		}

		if c.FoundIndex > 0 {
			if c.FoundIndex > len(st.matches) {
				res2 := res
				return res2, model.E(model.ErrElementNotFound,
					"found_index %d out of range: query %s matched %d element(s)", c.FoundIndex, c.Describe(), len(st.matches))
			}
			st.matches = st.matches[c.FoundIndex-1 : c.FoundIndex]
		}
		for _, m := range st.matches {
			res.Elements = append(res.Elements, m.snap)
		}
		res.Count = len(res.Elements)
		return res, nil
	})
}

// GetTree returns the nested subtree of the scoped root down to the depth
// bound. Count is the total node count of the returned tree.
func (e *Engine) GetTree(ctx context.Context, q model.Query) model.Result {
	c, verr := q.Compile()
	if verr != nil {
		return e.invalid("get_tree", verr, AdviceContext{})
	}
	actx := adviceFor(c, 0)

	return e.run(ctx, "get_tree", actx, func() (model.Result, error) {
		topology, terr := e.monitors.Monitors()
		if terr != nil {
			return model.Result{}, terr
		}
		s, err := e.resolveScope(c)
		if err != nil {
			return model.Result{}, err
		}

		maxDepth := math.MaxInt32
		if c.DepthSet {
			maxDepth = c.Depth
		}
		scanned := 0
		capped := false

		var build func(node platform.Node, path []int, depth int) (model.Element, bool)
		build = func(node platform.Node, path []int, depth int) (model.Element, bool) {
			if scanned >= e.cfg.VisitedNodeCap {
				capped = true
				return model.Element{}, false
			}
			scanned++
			el := snapshot(node, path, topology)
			if depth < maxDepth {
				children, cerr := node.Children()
				if cerr == nil {
					for i, child := range children {
						childPath := append(append([]int(nil), path...), i)
						if s.desktop && depth == 0 {
							// Window-relative identity paths restart below
							// the desktop container.
							childPath = nil
						}
						if sub, ok := build(child, childPath, depth+1); ok {
							el.Children = append(el.Children, sub)
						}
					}
				}
			}
			return el, true
		}

		res := model.Result{Diagnostics: model.Diagnostics{}}
		rootEl, ok := build(s.root, s.base, 0)
		if ok {
			res.Tree = []model.Element{rootEl}
		}
		res.Count = model.CountElements(res.Tree)
		res.Diagnostics.NodesScanned = scanned
		if capped {
			res.Diagnostics.Warnings = append(res.Diagnostics.Warnings, "traversal stopped at visited-node cap")
		}
		return res, nil
	})
}

// ResolveID re-resolves an element identity and returns its fresh snapshot.
func (e *Engine) ResolveID(ctx context.Context, id string) model.Result {
	h, derr := decodeID(id)
	if derr != nil {
		return e.invalid("resolve", derr, AdviceContext{})
	}
	return e.run(ctx, "resolve", AdviceContext{}, func() (model.Result, error) {
		topology, terr := e.monitors.Monitors()
		if terr != nil {
			return model.Result{}, terr
		}
		node, path, err := e.resolveHandle(h)
		if err != nil {
			return model.Result{}, err
		}
		snap := snapshot(node, path, topology)
		return model.Result{Elements: []model.Element{snap}, Count: 1, Diagnostics: model.Diagnostics{NodesScanned: 1}}, nil
	})
}
