package loader

import (
	"os"
	"slices"
	"strconv"
	"strings"
)

// Var is an environment variable that names a configuration setting.
type Var struct {
	// Name is the variable name, such as TESSERA_SCREEN_WIDTH.
	Name string
	// Path is the dotted setting path, such as screen.width.
	Path string
	// Raw is the unparsed value.
	Raw string
}

// Value returns Raw as an int64, bool, float64 or string, in that order of
// preference.
func (v Var) Value() any {
	return parseValue(v.Raw)
}

// Settings returns the variable as a nested settings map.
func (v Var) Settings() map[string]any {
	return settingsFor(v.Path, v.Value())
}

// RawSettings is like Settings but keeps the value as a string.
func (v Var) RawSettings() map[string]any {
	return settingsFor(v.Path, v.Raw)
}

// EnvLoader reads settings from variables carrying a prefix.
//
// PREFIX_SECTION_SOME_SETTING maps to section.someSetting. A few short
// aliases, such as PREFIX_LOG_LEVEL, map to fixed paths. Variables naming
// only a section are ignored.
type EnvLoader struct {
	prefix  string
	aliases map[string]string
	environ func() []string
}

// NewEnvLoader creates a loader for variables starting with prefix, which
// should include the trailing underscore.
func NewEnvLoader(prefix string) *EnvLoader {
	return &EnvLoader{
		prefix: prefix,
		aliases: map[string]string{
			prefix + "LOG_LEVEL": "logging.level",
			prefix + "LOG_FILE":  "logging.file",
			prefix + "SCENE":     "scene.path",
			prefix + "WIDTH":     "screen.width",
			prefix + "HEIGHT":    "screen.height",
		},
		environ: os.Environ,
	}
}

// Vars returns the recognized variables sorted by name.
func (l *EnvLoader) Vars() []Var {
	var vars []Var
	for _, env := range l.environ() {
		name, raw, ok := strings.Cut(env, "=")
		if !ok {
			continue
		}
		path, aliased := l.aliases[name]
		if !aliased {
			if !strings.HasPrefix(name, l.prefix) {
				continue
			}
			path = l.envToPath(name)
		}
		if path == "" {
			continue
		}
		vars = append(vars, Var{Name: name, Path: path, Raw: raw})
	}
	slices.SortFunc(vars, func(a, b Var) int { return strings.Compare(a.Name, b.Name) })
	return vars
}

// Load merges every recognized variable into one settings map.
func (l *EnvLoader) Load() (map[string]any, error) {
	settings := make(map[string]any)
	for _, v := range l.Vars() {
		DeepMerge(settings, v.Settings())
	}
	return settings, nil
}

// envToPath converts PREFIX_SCREEN_CURSOR_VISIBLE to screen.cursorVisible.
// Names without a setting segment yield "".
func (l *EnvLoader) envToPath(env string) string {
	parts := strings.Split(strings.TrimPrefix(env, l.prefix), "_")
	if len(parts) < 2 || parts[0] == "" {
		return ""
	}

	var setting strings.Builder
	for _, part := range parts[1:] {
		if part == "" {
			continue
		}
		if setting.Len() == 0 {
			setting.WriteString(strings.ToLower(part))
			continue
		}
		setting.WriteString(strings.ToUpper(part[:1]))
		setting.WriteString(strings.ToLower(part[1:]))
	}
	if setting.Len() == 0 {
		return ""
	}
	return strings.ToLower(parts[0]) + "." + setting.String()
}

// parseValue converts a variable value to the most specific type.
// Integers are tried before booleans so numeric settings keep their type.
func parseValue(s string) any {
	if s == "" {
		return s
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	switch strings.ToLower(s) {
	case "true", "yes", "on":
		return true
	case "false", "no", "off":
		return false
	}
	if strings.Contains(s, ".") {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}
	return s
}

// settingsFor builds the nested map holding value at a dotted path.
func settingsFor(path string, value any) map[string]any {
	parts := strings.Split(path, ".")
	settings := map[string]any{parts[len(parts)-1]: value}
	for i := len(parts) - 2; i >= 0; i-- {
		settings = map[string]any{parts[i]: settings}
	}
	return settings
}
