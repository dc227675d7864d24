package tools

import (
	"fmt"
	"os"
	"slices"
	"strings"
	"sync"

	"github.com/baalimago/go_away_boilerplate/pkg/ancli"
	"github.com/baalimago/go_away_boilerplate/pkg/debug"
	"github.com/baalimago/go_away_boilerplate/pkg/misc"
	"github.com/toolagent/toolagent/internal/models"
)

// Registry is a threadsafe storage for LLMTools.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]models.LLMTool
	debug bool
}

// NewRegistry returns an empty tools registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]models.LLMTool), debug: misc.Truthy(os.Getenv("DEBUG"))}
}

// Get returns the tool registered under name.
func (r *Registry) Get(name string) (models.LLMTool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	return t, ok
}

// WildcardGet returns the tools whose names match pattern, sorted by name.
func (r *Registry) WildcardGet(pattern string) []models.LLMTool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0)
	for name := range r.tools {
		if wildcardMatch(pattern, name) {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	matches := make([]models.LLMTool, 0, len(names))
	for _, n := range names {
		matches = append(matches, r.tools[n])
	}
	return matches
}

func wildcardMatch(pattern, name string) bool {
	if pattern == "*" {
		return true
	}

	// Simple wildcard matching - supports * at start, end, or middle
	if strings.HasPrefix(pattern, "*") && strings.HasSuffix(pattern, "*") {
		substr := pattern[1 : len(pattern)-1]
		return strings.Contains(name, substr)
	} else if strings.HasPrefix(pattern, "*") {
		suffix := pattern[1:]
		return strings.HasSuffix(name, suffix)
	} else if strings.HasSuffix(pattern, "*") {
		prefix := pattern[:len(pattern)-1]
		return strings.HasPrefix(name, prefix)
	}

	return pattern == name
}

// Select the tools matching any of patterns, without duplicates.
func (r *Registry) Select(patterns ...string) []models.LLMTool {
	seen := make(map[string]bool)
	ret := make([]models.LLMTool, 0)
	for _, p := range patterns {
		for _, t := range r.WildcardGet(p) {
			name := t.Specification().Name
			if seen[name] {
				continue
			}
			seen[name] = true
			ret = append(ret, t)
		}
	}
	return ret
}

// Set registers tool under the provided name.
func (r *Registry) Set(name string, t models.LLMTool) {
	r.mu.Lock()
	if r.debug {
		ancli.Okf("adding tool to registry, name: %v\n", t.Specification().Name)
	}
	r.tools[name] = t
	r.mu.Unlock()
}

// All returns a copy of all registered tools keyed by name.
func (r *Registry) All() map[string]models.LLMTool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cp := make(map[string]models.LLMTool, len(r.tools))
	for k, v := range r.tools {
		cp[k] = v
	}
	return cp
}

// Names of every registered tool, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.tools))
	for k := range r.tools {
		names = append(names, k)
	}
	slices.Sort(names)
	return names
}

// Invoke the call, and gather both error and output in the same string
func (r *Registry) Invoke(call models.Call) string {
	t, exists := r.Get(call.Name)
	if !exists {
		return "ERROR: unknown tool call: " + call.Name
	}
	if r.debug || misc.Truthy(os.Getenv("DEBUG_CALL")) {
		ancli.Noticef("invoke call: %v\n", debug.IndentedJsonFmt(call))
	}
	inp := models.Input{}
	if call.Inputs != nil {
		inp = *call.Inputs
	}
	if err := models.Validate(t.Specification(), inp); err != nil {
		return fmt.Sprintf("ERROR: %v", err)
	}
	out, err := t.Call(inp)
	if err != nil {
		return fmt.Sprintf("ERROR: failed to run tool: %v, error: %v", call.Name, err)
	}
	return out
}
