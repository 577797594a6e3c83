package loader

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"gopkg.in/yaml.v3"
)

var yamlLine = regexp.MustCompile(`line (\d+)`)

// parseYAML decodes a YAML document. An empty document yields an empty map.
func parseYAML(source string, data []byte) (map[string]any, error) {
	settings := make(map[string]any)
	if err := yaml.Unmarshal(data, &settings); err != nil {
		pe := &ParseError{Path: source, Message: err.Error(), Err: err}
		var typeErr *yaml.TypeError
		if errors.As(err, &typeErr) && len(typeErr.Errors) > 0 {
			pe.Message = typeErr.Errors[0]
		}
		if m := yamlLine.FindStringSubmatch(pe.Message); m != nil {
			pe.Line, _ = strconv.Atoi(m[1])
		}
		return nil, pe
	}
	return normalize(settings), nil
}

// normalize turns the map[any]any yaml produces for non-string keys into
// map[string]any so DeepMerge treats them as sections, and widens ints to
// int64 to match the TOML decoder.
func normalize(m map[string]any) map[string]any {
	for k, v := range m {
		m[k] = normalizeValue(v)
	}
	return m
}

func normalizeValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return normalize(val)
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[fmt.Sprint(k)] = normalizeValue(item)
		}
		return out
	case []any:
		for i, item := range val {
			val[i] = normalizeValue(item)
		}
		return val
	case int:
		return int64(val)
	default:
		return v
	}
}
