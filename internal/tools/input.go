package tools

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/toolagent/toolagent/internal/models"
)

func stringInput(input models.Input, key string) (string, error) {
	v, ok := input[key].(string)
	if !ok {
		return "", fmt.Errorf("%v must be a string", key)
	}
	return v, nil
}

func optionalString(input models.Input, key string) (string, error) {
	v, exists := input[key]
	if !exists || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%v must be a string", key)
	}
	return s, nil
}

// optionalBool accepts both booleans and their string form, models are not consistent.
func optionalBool(input models.Input, key string) (bool, error) {
	switch v := input[key].(type) {
	case nil:
		return false, nil
	case bool:
		return v, nil
	case string:
		if v == "" {
			return false, nil
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return false, fmt.Errorf("%v must be a boolean: %w", key, err)
		}
		return b, nil
	default:
		return false, fmt.Errorf("%v must be a boolean", key)
	}
}

func intInput(input models.Input, key string) (int, error) {
	switch v := input[key].(type) {
	case float64:
		return int(v), nil
	case int:
		return v, nil
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, fmt.Errorf("%v must be an integer: %w", key, err)
		}
		return i, nil
	default:
		return 0, fmt.Errorf("%v must be an integer", key)
	}
}

// addressList splits a comma or semicolon separated list of addresses.
func addressList(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ';'
	})
	ret := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			ret = append(ret, f)
		}
	}
	return ret
}
