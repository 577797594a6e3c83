package loader

import (
	"reflect"
	"testing"
)

// fakeEnv returns an environ func serving the given variables.
func fakeEnv(vars ...string) func() []string {
	return func() []string { return vars }
}

func newTestEnv(vars ...string) *EnvLoader {
	l := NewEnvLoader("TESSERA_")
	l.environ = fakeEnv(vars...)
	return l
}

func TestEnvLoader_Vars(t *testing.T) {
	l := newTestEnv(
		"TESSERA_SCREEN_TRUE_COLOR=no",
		"TESSERA_LOG_LEVEL=debug",
		"TESSERA_SCENE=intro.lua",
		"TESSERA_SCREEN=1",
		"TESSERA_=ignored",
		"TESSERA_SCREEN_=ignored",
		"OTHER_SCREEN_WIDTH=1",
		"HOME=/root",
		"malformed",
	)

	want := []Var{
		{Name: "TESSERA_LOG_LEVEL", Path: "logging.level", Raw: "debug"},
		{Name: "TESSERA_SCENE", Path: "scene.path", Raw: "intro.lua"},
		{Name: "TESSERA_SCREEN_TRUE_COLOR", Path: "screen.trueColor", Raw: "no"},
	}
	if got := l.Vars(); !reflect.DeepEqual(got, want) {
		t.Errorf("Vars() =\n%v\nwant\n%v", got, want)
	}
}

func TestEnvLoader_envToPath(t *testing.T) {
	l := NewEnvLoader("TESSERA_")

	tests := []struct {
		env  string
		want string
	}{
		{"TESSERA_SCREEN_WIDTH", "screen.width"},
		{"TESSERA_SCREEN_CURSOR_VISIBLE", "screen.cursorVisible"},
		{"TESSERA_SCENE_INSTRUCTION_LIMIT", "scene.instructionLimit"},
		{"TESSERA_SCENE_DEBOUNCE__MS", "scene.debounceMs"},
		{"TESSERA_SCREEN", ""},
		{"TESSERA__WIDTH", ""},
		{"TESSERA_", ""},
	}
	for _, tt := range tests {
		if got := l.envToPath(tt.env); got != tt.want {
			t.Errorf("envToPath(%q) = %q, want %q", tt.env, got, tt.want)
		}
	}
}

func TestVar_Value(t *testing.T) {
	tests := []struct {
		raw  string
		want any
	}{
		{"", ""},
		{"120", int64(120)},
		{"-3", int64(-3)},
		{"1", int64(1)},
		{"yes", true},
		{"Off", false},
		{"0.5", 0.5},
		{"#3232C87F", "#3232C87F"},
		{"scenes/intro.lua", "scenes/intro.lua"},
	}
	for _, tt := range tests {
		if got := (Var{Raw: tt.raw}).Value(); got != tt.want {
			t.Errorf("Value(%q) = %v (%T), want %v (%T)", tt.raw, got, got, tt.want, tt.want)
		}
	}
}

func TestVar_Settings(t *testing.T) {
	v := Var{Name: "TESSERA_SCREEN_WIDTH", Path: "screen.width", Raw: "64"}

	want := map[string]any{"screen": map[string]any{"width": int64(64)}}
	if got := v.Settings(); !reflect.DeepEqual(got, want) {
		t.Errorf("Settings() = %v, want %v", got, want)
	}
	wantRaw := map[string]any{"screen": map[string]any{"width": "64"}}
	if got := v.RawSettings(); !reflect.DeepEqual(got, wantRaw) {
		t.Errorf("RawSettings() = %v, want %v", got, wantRaw)
	}
}

func TestEnvLoader_Load(t *testing.T) {
	t.Setenv("TESSERA_WIDTH", "120")
	t.Setenv("TESSERA_SCREEN_HEIGHT", "40")
	t.Setenv("TESSERA_SCENE_WATCH", "true")

	settings, err := NewEnvLoader("TESSERA_").Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	screen, _ := settings["screen"].(map[string]any)
	if screen["width"] != int64(120) || screen["height"] != int64(40) {
		t.Errorf("screen = %v, want width 120 and height 40 in one section", screen)
	}
	scene, _ := settings["scene"].(map[string]any)
	if scene["watch"] != true {
		t.Errorf("scene = %v", scene)
	}
}
