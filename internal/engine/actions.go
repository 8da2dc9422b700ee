package engine

import (
	"context"

	"github.com/uiactl/uiactl/internal/model"
	"github.com/uiactl/uiactl/internal/platform"
)

// ClickOptions configures a find-and-click.
type ClickOptions struct {
	Button    platform.MouseButton
	Double    bool
	Modifiers []string
}

// TypeOptions configures a find-and-type.
type TypeOptions struct {
	Text    string
	Key     string // key combo pressed after the text, e.g. "enter"
	DelayMS int
}

// Click finds one element and clicks its clickable point. Flow: validate →
// elevation check → find (with one exact→contains retry) → activate and
// verify the target window → coordinate click → verify the receiver.
// At-most-once: a click that landed is never rolled back by later failures.
func (e *Engine) Click(ctx context.Context, q model.Query, opts ClickOptions) model.Result {
	return e.findAndAct(ctx, "click", q, func(m match, res *model.Result) error {
		count := 1
		if opts.Double {
			count = 2
		}
		receiver, err := e.input.Click(m.snap.Monitor, m.snap.Click, opts.Button, count, opts.Modifiers)
		if err != nil {
			return err
		}
		target := m.node.WindowHandle()
		if receiver != 0 && target != 0 && receiver != target {
			return model.E(model.ErrWrongTargetWindow,
				"input landed in window %#x, expected %#x", receiver, target)
		}
		return nil
	})
}

// Type finds one element, clicks it to focus, then types text and/or
// presses a key combo.
func (e *Engine) Type(ctx context.Context, q model.Query, opts TypeOptions) model.Result {
	if opts.Text == "" && opts.Key == "" {
		return e.invalid("type", model.E(model.ErrInvalidParameter, "specify text or key"), AdviceContext{})
	}
	return e.findAndAct(ctx, "type", q, func(m match, res *model.Result) error {
		receiver, err := e.input.Click(m.snap.Monitor, m.snap.Click, platform.MouseLeft, 1, nil)
		if err != nil {
			return err
		}
		target := m.node.WindowHandle()
		if receiver != 0 && target != 0 && receiver != target {
			return model.E(model.ErrWrongTargetWindow,
				"focus click landed in window %#x, expected %#x", receiver, target)
		}
		if opts.Text != "" {
			// Prefer the value pattern when the element offers it: it is
			// atomic and immune to keyboard layout surprises.
			if m.snap.HasPattern(platform.PatternValue) {
				if err := m.node.SetValue(opts.Text); err != nil {
					return err
				}
			} else if err := e.input.TypeText(opts.Text, opts.DelayMS); err != nil {
				return err
			}
			res.Text = opts.Text
		}
		if opts.Key != "" {
			name, mods := splitKeyCombo(opts.Key)
			if err := e.input.PressKey(name, mods); err != nil {
				return err
			}
		}
		return nil
	})
}

// SelectItem finds one element and selects it via its selection
// capability, falling back to a coordinate click when absent.
func (e *Engine) SelectItem(ctx context.Context, q model.Query) model.Result {
	return e.findAndAct(ctx, "select", q, func(m match, res *model.Result) error {
		if m.snap.HasPattern(platform.PatternSelect) {
			return m.node.Select()
		}
		res.Diagnostics.Warnings = append(res.Diagnostics.Warnings,
			"element has no selection capability; used coordinate click")
		receiver, err := e.input.Click(m.snap.Monitor, m.snap.Click, platform.MouseLeft, 1, nil)
		if err != nil {
			return err
		}
		target := m.node.WindowHandle()
		if receiver != 0 && target != 0 && receiver != target {
			return model.E(model.ErrWrongTargetWindow,
				"input landed in window %#x, expected %#x", receiver, target)
		}
		return nil
	})
}

// findAndAct is the shared composite flow. The act callback runs on the
// apartment worker with the live match; it must not retain the node.
func (e *Engine) findAndAct(ctx context.Context, action string, q model.Query, act func(m match, res *model.Result) error) model.Result {
	c, verr := q.Compile()
	if verr != nil {
		return e.invalid(action, verr, AdviceContext{})
	}
	actx := adviceFor(c, 0)

	return e.run(ctx, action, actx, func() (model.Result, error) {
		topology, terr := e.monitors.Monitors()
		if terr != nil {
			return model.Result{}, terr
		}

		st, err := e.findMatches(c, topology)
		res := model.Result{}
		if st != nil {
			res.Diagnostics.NodesScanned = st.scanned
		}
		if err != nil {
			return res, err
		}

		// One automatic retry with relaxed matching on zero exact matches.
		// Carried over for compatibility; see DESIGN.md before changing.
		effective := c
		if len(st.matches) == 0 {
			if relaxed, ok := c.Relaxed(); ok {
				st2, rerr := e.findMatches(relaxed, topology)
				if rerr == nil && st2 != nil && len(st2.matches) > 0 {
					res.Diagnostics.NodesScanned += st2.scanned
					res.Diagnostics.Warnings = append(res.Diagnostics.Warnings,
						"exact name match failed; retried with contains matching")
					st = st2
					effective = relaxed
				}
			}
		}

		m, merr := selectMatch(st, effective)
		if merr != nil {
			merr.Suggestion = Advise(action, merr.Kind, adviceFor(effective, len(st.matches)))
			return res, merr
		}
		res.Elements = []model.Element{m.snap}
		res.Count = 1

		if err := e.preflight(m); err != nil {
			return res, err
		}
		if err := act(m, &res); err != nil {
			return res, err
		}

		return res, nil
	})
}

// preflight gates interactive actions: never poke an elevated process, and
// make sure the target window really is in the foreground first.
func (e *Engine) preflight(m match) error {
	pid := m.node.ProcessID()
	if pid != 0 {
		elevated, err := e.elevation.IsElevated(pid)
		if err == nil && elevated {
			return model.E(model.ErrElevatedTarget,
				"process %d runs elevated; synthetic input would be discarded", pid)
		}
	}

	hwnd := m.node.WindowHandle()
	if hwnd == 0 {
		return nil
	}
	if err := e.windows.Activate(hwnd); err != nil {
		return err
	}
	front, err := e.windows.Foreground()
	if err != nil {
		return err
	}
	if front != hwnd {
		return model.E(model.ErrWrongTargetWindow,
			"window %#x did not come to the foreground (current: %#x)", hwnd, front)
	}
	return nil
}

// splitKeyCombo separates "ctrl+shift+s" into the main key and modifiers.
func splitKeyCombo(combo string) (string, []string) {
	var mods []string
	name := combo
	for {
		i := indexPlus(name)
		if i < 0 {
			break
		}
		mods = append(mods, name[:i])
		name = name[i+1:]
	}
	return name, mods
}

// indexPlus finds a '+' separator that is not the final character, so
// combos like "ctrl++" keep their literal trailing plus.
func indexPlus(s string) int {
	for i := 0; i < len(s)-1; i++ {
		if s[i] == '+' {
			return i
		}
	}
	return -1
}
