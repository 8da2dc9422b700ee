package engine

import (
	"fmt"

	"github.com/uiactl/uiactl/internal/model"
)

// AdviceContext carries the facts the advisor may fold into a suggestion.
type AdviceContext struct {
	Query          string
	Matches        int
	HasParentScope bool
	Pattern        string
	TimeoutMS      int64
}

func adviceFor(c *model.Compiled, matches int) AdviceContext {
	return AdviceContext{
		Query:          c.Describe(),
		Matches:        matches,
		HasParentScope: c.ParentID != "",
		TimeoutMS:      c.Timeout.Milliseconds(),
	}
}

// Advise maps a failure to an actionable recovery suggestion. It is the
// single place suggestion text is produced, so wording stays consistent
// across every operation. The result is never empty.
func Advise(action string, kind model.ErrorKind, c AdviceContext) string {
	switch kind {
	case model.ErrElementNotFound:
		if c.HasParentScope {
			return "the parent element may be stale; re-run the discovery query to get a fresh parentElementId, or drop the parent scope"
		}
		return "verify the target window is open and try a broader query (name_contains instead of name, or no control_types filter), or wait_for the element to appear"
	case model.ErrTimeout:
		if c.TimeoutMS > 0 {
			return fmt.Sprintf("the element did not appear within %dms; increase the timeout, or check the last_scan elements to see what was actually on screen", c.TimeoutMS)
		}
		return "increase the timeout, or check the last_scan elements to see what was actually on screen"
	case model.ErrMultipleMatches:
		if c.Matches > 1 {
			return fmt.Sprintf("%d elements matched; scope the query via parentElementId, or disambiguate with found_index (1-based) or automation_id", c.Matches)
		}
		return "scope the query via parentElementId, or disambiguate with found_index (1-based) or automation_id"
	case model.ErrPatternNotSupported:
		if c.Pattern != "" {
			return fmt.Sprintf("the element does not support %s; fall back to coordinate input: click its clickable point via the input simulator", c.Pattern)
		}
		return "fall back to coordinate input: click the element's clickable point via the input simulator"
	case model.ErrElementStale:
		return "the element changed since discovery; re-run the query and use the fresh element id"
	case model.ErrElevatedTarget:
		return "the target process runs elevated; restart this agent elevated, or drive the application through a non-elevated window"
	case model.ErrInvalidParameter:
		return "fix the request parameters: use exactly one of name, name_contains, or name_regex, and check id formats"
	case model.ErrWindowNotFound:
		return "the window handle is gone; re-enumerate windows and use a current handle"
	case model.ErrScrollExhausted:
		return "scrolling reached the end without exposing the target; the element may not exist in this container, or try the opposite direction"
	case model.ErrWrongTargetWindow:
		return "another window took focus; activate the target window first (it may be behind a dialog), then retry the action"
	case model.ErrInternal:
		return "unexpected backend failure; retry once, and if it persists capture logs with UIACTL_DEBUG=1"
	default:
		// Unreachable while the taxonomy stays closed; keep the guarantee
		// that no failure ships without a suggestion.
		return "re-run the query to get fresh element state and retry the operation"
	}
}
