package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/uiactl/uiactl/internal/model"
	"github.com/uiactl/uiactl/internal/output"
	"gopkg.in/yaml.v3"
)

// DoResult is the output of a batch do command.
type DoResult struct {
	OK        bool         `yaml:"ok"              json:"ok"`
	Action    string       `yaml:"action"          json:"action"`
	Steps     int          `yaml:"steps"           json:"steps"`
	Completed int          `yaml:"completed"       json:"completed"`
	Error     string       `yaml:"error,omitempty" json:"error,omitempty"`
	Results   []StepResult `yaml:"results"         json:"results"`
}

// StepResult wraps one step's result with its position in the batch.
type StepResult struct {
	Step   int          `yaml:"step" json:"step"`
	Result model.Result `yaml:",inline" json:"result"`
}

var doCmd = &cobra.Command{
	Use:   "do",
	Short: "Execute multiple operations in a batch",
	Long: `Execute a sequence of operations from a YAML list on stdin against a
single engine session. Each step is an operation name with its parameters as
a map. Steps run sequentially, and by default execution stops on the first
error.

Supported step types: find, tree, click, type, select, action, wait, resolve, sleep

Example:
  uiactl do <<'EOF'
  - click: { name: "Full Name" }
  - type: { name: "Full Name", text: "John Doe" }
  - click: { name: "Submit", control_types: button }
  - wait: { name_contains: "Thank you", timeout_ms: 10000 }
  EOF`,
	RunE: runDo,
}

func init() {
	rootCmd.AddCommand(doCmd)
	doCmd.Flags().String("window", "", "Default window handle for all steps")
	doCmd.Flags().Bool("stop-on-error", true, "Stop execution on first error")
}

func runDo(cmd *cobra.Command, args []string) error {
	windowStr, _ := cmd.Flags().GetString("window")
	stopOnError, _ := cmd.Flags().GetBool("stop-on-error")

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return fmt.Errorf("failed to read stdin: %w", err)
	}
	if len(data) == 0 {
		return fmt.Errorf("no steps provided on stdin; pipe a YAML list of operations")
	}

	var rawSteps []map[string]map[string]interface{}
	if err := yaml.Unmarshal(data, &rawSteps); err != nil {
		return fmt.Errorf("failed to parse YAML steps: %w", err)
	}
	if len(rawSteps) == 0 {
		return fmt.Errorf("no steps provided; expected a YAML list of operations")
	}

	eng, closeEng, err := newEngine()
	if err != nil {
		return err
	}
	defer closeEng()

	results := make([]StepResult, 0, len(rawSteps))
	completed := 0
	var lastErr string

	for i, step := range rawSteps {
		stepNum := i + 1

		action, params, serr := unpackStep(step)
		if serr != nil {
			res := stepFailure(action, model.ErrInvalidParameter, fmt.Sprintf("step %d: %v", stepNum, serr))
			results = append(results, StepResult{Step: stepNum, Result: res})
			lastErr = res.Message
			if stopOnError {
				break
			}
			continue
		}
		if params == nil {
			params = map[string]interface{}{}
		}
		if windowStr != "" {
			if _, ok := params["window"]; !ok {
				params["window"] = windowStr
			}
		}

		res := executeStep(cmd.Context(), eng, action, params)
		results = append(results, StepResult{Step: stepNum, Result: res})
		if !res.OK {
			lastErr = fmt.Sprintf("step %d (%s): %s", stepNum, action, res.Message)
			if stopOnError {
				break
			}
			continue
		}
		completed++
	}

	out := DoResult{
		OK:        lastErr == "",
		Action:    "do",
		Steps:     len(rawSteps),
		Completed: completed,
		Error:     lastErr,
		Results:   results,
	}
	if err := output.Print(out); err != nil {
		return err
	}
	if !out.OK {
		return fmt.Errorf("batch failed: %s", lastErr)
	}
	return nil
}

// unpackStep extracts the single action key from one step map.
func unpackStep(step map[string]map[string]interface{}) (string, map[string]interface{}, error) {
	if len(step) != 1 {
		return "", nil, fmt.Errorf("expected exactly one action key, got %d", len(step))
	}
	for action, params := range step {
		return action, params, nil
	}
	return "", nil, fmt.Errorf("empty step")
}
