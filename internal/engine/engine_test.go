package engine

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/uiactl/uiactl/internal/config"
	"github.com/uiactl/uiactl/internal/model"
	"github.com/uiactl/uiactl/internal/platform"
	"github.com/uiactl/uiactl/internal/platform/platformtest"
)

const (
	calcHWND uintptr = 0xbeef
	calcPID          = 4321
)

// fixture bundles an engine with its scripted collaborators.
type fixture struct {
	eng   *Engine
	auto  *platformtest.Automation
	input *platformtest.Input
	wins  *platformtest.Windows
	mons  *platformtest.Monitors
	elev  *platformtest.Elevation
}

// calculatorTree builds the standing test window:
//
//	Window "Calculator"
//	├── Pane (number pad)
//	│   ├── Button "Five"   runtime 1.5   120x80
//	│   ├── Button "Six"    runtime 1.6   120x80
//	│   └── Button "Equals" runtime 1.7   240x80 (prominent)
//	├── Edit "Display"      runtime 1.9   value "0"
//	└── Text "Five"         runtime 1.10  (status echo, small)
func calculatorTree() *platformtest.Node {
	root := &platformtest.Node{
		TypeV: "Window", NameV: "Calculator", Runtime: []int32{1, 1},
		BoundsV: [4]int{100, 100, 400, 500},
		Kids: []*platformtest.Node{
			{
				TypeV: "Pane", Runtime: []int32{1, 2}, BoundsV: [4]int{100, 200, 400, 300},
				Kids: []*platformtest.Node{
					{TypeV: "Button", NameV: "Five", Runtime: []int32{1, 5}, BoundsV: [4]int{120, 220, 120, 80},
						Pats: []string{platform.PatternInvoke}},
					{TypeV: "Button", NameV: "Six", Runtime: []int32{1, 6}, BoundsV: [4]int{260, 220, 120, 80},
						Pats: []string{platform.PatternInvoke}},
					{TypeV: "Button", NameV: "Equals", Runtime: []int32{1, 7}, BoundsV: [4]int{120, 320, 240, 80},
						Pats: []string{platform.PatternInvoke}},
				},
			},
			{TypeV: "Edit", NameV: "Display", Runtime: []int32{1, 9}, BoundsV: [4]int{110, 120, 380, 60},
				Val: "0", HasVal: true, Pats: []string{platform.PatternValue}},
			{TypeV: "Text", NameV: "Five", Runtime: []int32{1, 10}, BoundsV: [4]int{110, 190, 40, 16}},
		},
	}
	return platformtest.Wire(root, calcHWND, calcPID)
}

func newFixture(t *testing.T, root *platformtest.Node) *fixture {
	t.Helper()

	desktop := &platformtest.Node{TypeV: "Pane", NameV: "Desktop", Kids: []*platformtest.Node{root}}
	f := &fixture{
		auto: &platformtest.Automation{
			Desktop: desktop,
			Windows: map[uintptr]*platformtest.Node{calcHWND: root},
		},
		input: &platformtest.Input{Receiver: calcHWND},
		wins: &platformtest.Windows{
			Known: map[uintptr]model.Window{calcHWND: {Handle: calcHWND, Title: "Calculator", PID: calcPID}},
		},
		mons: &platformtest.Monitors{List: []model.Monitor{
			{Bounds: [4]int{0, 0, 1920, 1080}, Primary: true},
			{Bounds: [4]int{1920, 0, 1920, 1080}},
		}},
		elev: &platformtest.Elevation{ElevatedPIDs: map[int]bool{}},
	}

	cfg := &config.Config{
		VisitedNodeCap: 10000,
		PollMin:        5 * time.Millisecond,
		PollMax:        20 * time.Millisecond,
	}
	p := &platform.Provider{
		Automation: f.auto,
		Inputter:   f.input,
		Windows:    f.wins,
		Monitors:   f.mons,
		Elevation:  f.elev,
	}
	eng, err := New(p, cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("engine.New() error: %v", err)
	}
	t.Cleanup(eng.Close)
	f.eng = eng
	return f
}
