package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/uiactl/uiactl/internal/engine"
	"github.com/uiactl/uiactl/internal/model"
	"github.com/uiactl/uiactl/internal/platform"
)

// stringParam extracts a string parameter with a default.
func stringParam(params map[string]interface{}, key, def string) string {
	if v, ok := params[key].(string); ok {
		return v
	}
	return def
}

// intParam extracts an int parameter with a default. YAML and JSON decoders
// disagree on number types, so both int and float forms are accepted.
func intParam(params map[string]interface{}, key string, def int) int {
	switch v := params[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return def
	}
}

// floatParam extracts a float parameter with a default.
func floatParam(params map[string]interface{}, key string, def float64) float64 {
	switch v := params[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return def
	}
}

// boolParam extracts a bool parameter with a default.
func boolParam(params map[string]interface{}, key string, def bool) bool {
	if v, ok := params[key].(bool); ok {
		return v
	}
	return def
}

// stringListParam accepts both a comma-separated string and a YAML/JSON list.
func stringListParam(params map[string]interface{}, key string) []string {
	switch v := params[key].(type) {
	case string:
		return splitList(v)
	case []interface{}:
		var out []string
		for _, item := range v {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// queryFromParams builds an element query from step or tool parameters.
func queryFromParams(params map[string]interface{}) (model.Query, error) {
	q := model.Query{
		Name:         stringParam(params, "name", ""),
		NameContains: stringParam(params, "name_contains", ""),
		NameRegex:    stringParam(params, "name_regex", ""),
		ControlTypes: stringListParam(params, "control_types"),
		AutomationID: stringParam(params, "automation_id", ""),
		ClassName:    stringParam(params, "class_name", ""),
		ParentID:     stringParam(params, "parent_id", ""),
		DepthExact:   boolParam(params, "depth_exact", false),
		FoundIndex:   intParam(params, "found_index", 0),
		Prominent:    boolParam(params, "prominent", false),
		Timeout:      time.Duration(intParam(params, "timeout_ms", 0)) * time.Millisecond,
	}
	if _, ok := params["depth"]; ok {
		q.Depth = intParam(params, "depth", 0)
		q.DepthSet = true
	}
	if w, ok := params["window"]; ok {
		switch v := w.(type) {
		case string:
			handle, err := parseWindowHandle(v)
			if err != nil {
				return model.Query{}, err
			}
			q.Window = handle
		default:
			q.Window = uintptr(intParam(params, "window", 0))
		}
	}
	return q, nil
}

// executeStep runs one named operation against the engine. It is the shared
// dispatch for batch steps and MCP tool calls.
func executeStep(ctx context.Context, eng *engine.Engine, action string, params map[string]interface{}) model.Result {
	q, err := queryFromParams(params)
	if err != nil {
		return stepFailure(action, model.ErrInvalidParameter, err.Error())
	}

	switch action {
	case "find":
		return eng.Find(ctx, q)
	case "tree":
		return eng.GetTree(ctx, q)
	case "wait":
		return eng.WaitFor(ctx, q)
	case "select":
		return eng.SelectItem(ctx, q)
	case "resolve":
		return eng.ResolveID(ctx, stringParam(params, "id", ""))
	case "click":
		button, berr := platform.ParseMouseButton(stringParam(params, "button", ""))
		if berr != nil {
			return stepFailure(action, model.ErrInvalidParameter, berr.Error())
		}
		mods, merr := platform.ParseModifiers(stringParam(params, "modifiers", ""))
		if merr != nil {
			return stepFailure(action, model.ErrInvalidParameter, merr.Error())
		}
		return eng.Click(ctx, q, engine.ClickOptions{
			Button:    button,
			Double:    boolParam(params, "double", false),
			Modifiers: mods,
		})
	case "type":
		return eng.Type(ctx, q, engine.TypeOptions{
			Text:    stringParam(params, "text", ""),
			Key:     stringParam(params, "key", ""),
			DelayMS: intParam(params, "delay_ms", 0),
		})
	case "action":
		req := engine.PatternRequest{
			ElementID: stringParam(params, "id", ""),
			Op:        stringParam(params, "op", ""),
			Value:     stringParam(params, "value", ""),
			Number:    floatParam(params, "number", 0),
			Direction: stringParam(params, "direction", ""),
			Amount:    intParam(params, "amount", 0),
			Rect: [4]int{
				intParam(params, "x", 0), intParam(params, "y", 0),
				intParam(params, "width", 0), intParam(params, "height", 0),
			},
		}
		if req.ElementID == "" {
			req.Query = &q
		}
		return eng.Pattern(ctx, req)
	case "sleep":
		ms := intParam(params, "ms", 0)
		select {
		case <-ctx.Done():
			return stepFailure(action, model.ErrInternal, ctx.Err().Error())
		case <-time.After(time.Duration(ms) * time.Millisecond):
		}
		return model.Result{OK: true, Action: "sleep"}
	default:
		return stepFailure(action, model.ErrInvalidParameter, fmt.Sprintf("unknown step type %q", action))
	}
}

// stepFailure builds a failure result for errors raised outside the engine.
func stepFailure(action string, kind model.ErrorKind, message string) model.Result {
	return model.Result{
		OK:         false,
		Action:     action,
		Error:      kind,
		Message:    message,
		Suggestion: engine.Advise(action, kind, engine.AdviceContext{}),
	}
}
