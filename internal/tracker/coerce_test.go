package tracker

import "testing"

func TestToFloat(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want float64
	}{
		{"float", 12.5, 12.5},
		{"int", 7, 7},
		{"numeric string", "120", 120},
		{"decimal string", " 35.5 ", 35.5},
		{"garbage string", "n/a", 0},
		{"empty string", "", 0},
		{"absent", nil, 0},
		{"wrong type", map[string]any{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := toFloat(tt.in, 0); got != tt.want {
				t.Errorf("toFloat(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestTruthy(t *testing.T) {
	off := []any{nil, false, 0, 0.0, "", "0", "false", "FALSE", " "}
	for _, v := range off {
		if truthy(v) {
			t.Errorf("truthy(%#v) = true, want false", v)
		}
	}

	on := []any{true, 1, -1, 0.5, "1", "true", "ligado", "on"}
	for _, v := range on {
		if !truthy(v) {
			t.Errorf("truthy(%#v) = false, want true", v)
		}
	}
}
