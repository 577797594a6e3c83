package loader

import (
	"reflect"
	"testing"
)

func TestDeepMerge(t *testing.T) {
	tests := []struct {
		name string
		dst  map[string]any
		src  map[string]any
		want map[string]any
	}{
		{
			name: "nil dst",
			src:  map[string]any{"scene": map[string]any{"path": "a.lua"}},
			want: map[string]any{"scene": map[string]any{"path": "a.lua"}},
		},
		{
			name: "nil src",
			dst:  map[string]any{"logging": map[string]any{"level": "info"}},
			want: map[string]any{"logging": map[string]any{"level": "info"}},
		},
		{
			name: "sections merge key by key",
			dst:  map[string]any{"screen": map[string]any{"width": int64(80), "height": int64(24)}},
			src:  map[string]any{"screen": map[string]any{"width": int64(120)}},
			want: map[string]any{"screen": map[string]any{"width": int64(120), "height": int64(24)}},
		},
		{
			name: "scalar replaces section",
			dst:  map[string]any{"screen": map[string]any{"width": int64(80)}},
			src:  map[string]any{"screen": "wide"},
			want: map[string]any{"screen": "wide"},
		},
		{
			name: "section replaces scalar",
			dst:  map[string]any{"scene": "a.lua"},
			src:  map[string]any{"scene": map[string]any{"path": "b.lua"}},
			want: map[string]any{"scene": map[string]any{"path": "b.lua"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeepMerge(tt.dst, tt.src); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("DeepMerge() = %v, want %v", got, tt.want)
			}
		})
	}
}
