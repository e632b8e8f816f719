package cmd

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/k1LoW/iconstub"
	"github.com/k1LoW/iconstub/config"
)

func TestParseSize(t *testing.T) {
	tests := []struct {
		in      string
		w       uint32
		h       uint32
		wantErr bool
	}{
		{"16", 16, 16, false},
		{"32x64", 32, 64, false},
		{"32X64", 32, 64, false},
		{" 48 ", 48, 48, false},
		{"0", 0, 0, true},
		{"16x0", 0, 0, true},
		{"-1", 0, 0, true},
		{"1x2x3", 0, 0, true},
		{"abc", 0, 0, true},
		{"4294967296", 0, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			w, h, err := parseSize(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseSize() error = %v, wantErr %v", err, tt.wantErr)
			}
			if w != tt.w || h != tt.h {
				t.Errorf("parseSize() = %dx%d, want %dx%d", w, h, tt.w, tt.h)
			}
		})
	}
}

func TestIconSet(t *testing.T) {
	tests := []struct {
		name  string
		cfg   *config.Config
		sizes []string
		want  []iconstub.Descriptor
	}{
		{
			"default",
			&config.Config{},
			nil,
			iconstub.DefaultIconSet(),
		},
		{
			"config icons",
			&config.Config{Icons: []config.Icon{{Width: 32}, {Width: 20, Height: 10, Name: "wide.png"}}},
			nil,
			[]iconstub.Descriptor{{Width: 32, Height: 32, Path: "icon32.png"}, {Width: 20, Height: 10, Path: "wide.png"}},
		},
		{
			"flags replace config",
			&config.Config{Icons: []config.Icon{{Width: 32}}},
			[]string{"64", "8x4"},
			[]iconstub.Descriptor{{Width: 64, Height: 64, Path: "icon64.png"}, {Width: 8, Height: 4, Path: "icon8x4.png"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := iconSet(tt.cfg, tt.sizes)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("iconSet() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
