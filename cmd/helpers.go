package cmd

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/uiactl/uiactl/internal/engine"
	"github.com/uiactl/uiactl/internal/model"
	"github.com/uiactl/uiactl/internal/output"
	"github.com/uiactl/uiactl/internal/platform"
)

// newEngine constructs the engine on the current platform's backend. The
// returned close func shuts the apartment worker down.
func newEngine() (*engine.Engine, func(), error) {
	provider, err := platform.NewProvider()
	if err != nil {
		return nil, nil, err
	}
	eng, err := engine.New(provider, cfg, slog.Default())
	if err != nil {
		return nil, nil, err
	}
	return eng, eng.Close, nil
}

// addScopeFlags registers the traversal-scope flags used by every command
// that walks the tree.
func addScopeFlags(cmd *cobra.Command) {
	cmd.Flags().String("parent", "", "Scope to descendants of this element id")
	cmd.Flags().String("window", "", "Scope to this window handle (decimal or 0x hex)")
	cmd.Flags().Int("depth", 0, "Max traversal depth below the scope root (unset = unlimited)")
}

// addQueryFlags registers the shared element-query flags.
func addQueryFlags(cmd *cobra.Command) {
	cmd.Flags().String("name", "", "Exact element name (case-insensitive)")
	cmd.Flags().String("name-contains", "", "Substring element name match (case-insensitive)")
	cmd.Flags().String("name-regex", "", "Regular-expression element name match")
	cmd.Flags().String("type", "", "Control types, comma-separated (e.g. \"button\", \"edit,combobox\")")
	cmd.Flags().String("automation-id", "", "Exact automation id")
	cmd.Flags().String("class", "", "Exact class name")
	addScopeFlags(cmd)
	cmd.Flags().Bool("depth-exact", false, "Match only at exactly --depth, not up to it")
	cmd.Flags().Int("found-index", 0, "Pick the Nth match, 1-based")
	cmd.Flags().Bool("prominent", false, "Order matches by bounding-box area, largest first")
}

// scopeFromFlags builds a query carrying only the scope flags. Depth is
// only bounded when the flag was actually given, so 0 can mean "root only".
func scopeFromFlags(cmd *cobra.Command) (model.Query, error) {
	parent, _ := cmd.Flags().GetString("parent")
	windowStr, _ := cmd.Flags().GetString("window")
	depth, _ := cmd.Flags().GetInt("depth")

	q := model.Query{
		ParentID: parent,
		Depth:    depth,
		DepthSet: cmd.Flags().Changed("depth"),
	}
	if windowStr != "" {
		handle, err := parseWindowHandle(windowStr)
		if err != nil {
			return model.Query{}, err
		}
		q.Window = handle
	}
	return q, nil
}

// queryFromFlags builds the engine query from the shared flags.
func queryFromFlags(cmd *cobra.Command) (model.Query, error) {
	q, err := scopeFromFlags(cmd)
	if err != nil {
		return model.Query{}, err
	}

	name, _ := cmd.Flags().GetString("name")
	nameContains, _ := cmd.Flags().GetString("name-contains")
	nameRegex, _ := cmd.Flags().GetString("name-regex")
	typesStr, _ := cmd.Flags().GetString("type")
	automationID, _ := cmd.Flags().GetString("automation-id")
	class, _ := cmd.Flags().GetString("class")
	depthExact, _ := cmd.Flags().GetBool("depth-exact")
	foundIndex, _ := cmd.Flags().GetInt("found-index")
	prominent, _ := cmd.Flags().GetBool("prominent")

	q.Name = name
	q.NameContains = nameContains
	q.NameRegex = nameRegex
	q.ControlTypes = splitList(typesStr)
	q.AutomationID = automationID
	q.ClassName = class
	q.DepthExact = depthExact
	q.FoundIndex = foundIndex
	q.Prominent = prominent
	return q, nil
}

// parseWindowHandle accepts decimal and 0x-prefixed hex handles.
func parseWindowHandle(s string) (uintptr, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 0, 64)
	if err != nil {
		return 0, fmt.Errorf("bad window handle %q: %w", s, err)
	}
	return uintptr(v), nil
}

// splitList splits a comma-separated flag value, dropping empty entries.
func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// emit prints the result and converts failures into a non-zero exit code.
func emit(res model.Result) error {
	if err := output.Print(res); err != nil {
		return err
	}
	if !res.OK {
		return fmt.Errorf("%s: %s", res.Error, res.Message)
	}
	return nil
}

// timeoutFlag reads a millisecond timeout flag into a duration.
func timeoutFlag(cmd *cobra.Command, name string) time.Duration {
	ms, _ := cmd.Flags().GetInt(name)
	if ms < 0 {
		ms = 0
	}
	return time.Duration(ms) * time.Millisecond
}
