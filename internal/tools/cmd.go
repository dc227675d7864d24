package tools

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/toolagent/toolagent/internal/utils"
)

// SubCmd lists every tool of r on out, or prints the specification of the tool named by args[1].
func SubCmd(r *Registry, args []string, out io.Writer) error {
	if len(args) > 1 {
		toolName := args[1]
		tool, exists := r.Get(toolName)
		if !exists {
			return fmt.Errorf("tool '%s' not found", toolName)
		}
		jsonSpec, err := json.MarshalIndent(tool.Specification(), "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal tool specification: %w", err)
		}
		fmt.Fprintf(out, "%s\n", string(jsonSpec))
		return utils.ErrUserInitiatedExit
	}

	fmt.Fprintf(out, "Available Tools:\n")
	for _, name := range r.Names() {
		tool, _ := r.Get(name)
		prefix := fmt.Sprintf("- %s: ", name)
		width := utils.TermWidth() - len(prefix) - 3
		fmt.Fprintln(out, prefix+utils.Truncate(tool.Specification().Description, width))
	}
	fmt.Fprintln(out, "\nRun 'toolagent tools <tool-name>' for more details.")
	return utils.ErrUserInitiatedExit
}
