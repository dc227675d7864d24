package models

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

type Input map[string]any

type Call struct {
	ID       string        `json:"id,omitempty"`
	Name     string        `json:"name,omitempty"`
	Type     string        `json:"type,omitempty"`
	Inputs   *Input        `json:"inputs,omitempty"`
	Function Specification `json:"function,omitempty"`
}

// Patch the call, filling in fields which vendors expect to be present
// when the call is sent back as part of the conversation.
func (c *Call) Patch() {
	if c.Type == "" {
		c.Type = "function"
	}
	if c.Function.Name == "" {
		if c.Name == "" {
			c.Name = "EMPTY-STRING"
		}
		c.Function.Name = c.Name
	}
	if c.Function.Inputs != nil {
		c.Function.Inputs.Patch()
	}
	if c.Function.Arguments == "" {
		args := "{}"
		if c.Inputs != nil {
			b, err := json.Marshal(c.Inputs)
			if err == nil {
				args = string(b)
			}
		}
		c.Function.Arguments = args
	}
}

// PrettyPrint the call, showing name and what input params is used
// on a concise way. Params are sorted for a stable output.
func (c Call) PrettyPrint() string {
	var inp Input
	if c.Inputs != nil {
		inp = *c.Inputs
	}
	keys := make([]string, 0, len(inp))
	for k := range inp {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	params := make([]string, 0, len(keys))
	for _, k := range keys {
		params = append(params, fmt.Sprintf("'%v': '%v'", k, inp[k]))
	}
	return fmt.Sprintf("Call: '%s', inputs: [ %s ]", c.Name, strings.Join(params, ","))
}

type Specification struct {
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Inputs      *InputSchema `json:"parameters,omitempty"`
	// Arguments is the stringified json of the inputs, which OpenAI-style apis
	// expect when the call is echoed back
	Arguments string `json:"arguments,omitempty"`
}

type InputSchema struct {
	Type       string                     `json:"type"`
	Required   []string                   `json:"required"`
	Properties map[string]ParameterObject `json:"properties"`
}

func (is *InputSchema) Patch() {
	if is.Required == nil {
		is.Required = make([]string, 0)
	}
	if is.Properties == nil {
		is.Properties = make(map[string]ParameterObject)
	}
	if is.Type == "" {
		is.Type = "object"
	}
}

type ParameterObject struct {
	Type        string   `json:"type"`
	Description string   `json:"description"`
	Enum        []string `json:"enum,omitempty"`
}

// ValidationError lists required inputs which the model omitted.
type ValidationError struct {
	fieldsMissing []string
}

func NewValidationError(fieldsMissing []string) error {
	// Sort for deterministic error print
	slices.Sort(fieldsMissing)
	return ValidationError{fieldsMissing: fieldsMissing}
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("validation error, fields missing: %v", v.fieldsMissing)
}

// Validate that every required input of spec is present in input.
func Validate(spec Specification, input Input) error {
	if spec.Inputs == nil {
		return nil
	}
	missing := make([]string, 0)
	for _, r := range spec.Inputs.Required {
		if v, ok := input[r]; !ok || v == nil {
			missing = append(missing, r)
		}
	}
	if len(missing) > 0 {
		return NewValidationError(missing)
	}
	return nil
}
