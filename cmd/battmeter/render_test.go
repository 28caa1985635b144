package main

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charlie0129/battmeter/pkg/events"
	"github.com/charlie0129/battmeter/pkg/meter"
)

func TestResolveFormat(t *testing.T) {
	tests := []struct {
		output, format string
		want           string
		wantErr        bool
	}{
		{"-", "", "png", false},
		{"meter.PNG", "", "png", false},
		{"meter.svg", "", "svg", false},
		{"meter.out", "svg", "svg", false},
		{"meter.gif", "", "", true},
	}
	for _, tt := range tests {
		o := renderOptions{output: tt.output, format: tt.format}
		got, err := o.resolveFormat()
		if (err != nil) != tt.wantErr {
			t.Fatalf("resolveFormat(%q, %q) error = %v, wantErr %v", tt.output, tt.format, err, tt.wantErr)
		}
		if got != tt.want {
			t.Fatalf("resolveFormat(%q, %q) = %q, want %q", tt.output, tt.format, got, tt.want)
		}
	}
}

func TestRenderState(t *testing.T) {
	o := renderOptions{level: 100, plugged: true}
	s, err := o.state()
	if err != nil {
		t.Fatal(err)
	}
	if s.Status != meter.StatusFull || !s.Plugged() {
		t.Fatalf("unexpected state %+v", s)
	}

	o = renderOptions{level: 30, status: "not-charging", plugged: true}
	s, err = o.state()
	if err != nil {
		t.Fatal(err)
	}
	if s.Status != meter.StatusNotCharging {
		t.Fatalf("status = %s, want not-charging", s.Status)
	}

	for _, o := range []renderOptions{{level: 101}, {level: 50, status: "sideways"}} {
		if _, err := o.state(); err == nil {
			t.Fatalf("expected an error for %+v", o)
		}
	}
}

func runRender(t *testing.T, args ...string) {
	t.Helper()
	old := configPath
	t.Cleanup(func() { configPath = old })

	cmd := NewCommand()
	cmd.SetArgs(append([]string{"render", "--config", filepath.Join(t.TempDir(), "missing.json")}, args...))
	if err := cmd.Execute(); err != nil {
		t.Fatal(err)
	}
}

func TestRenderCommand(t *testing.T) {
	dir := t.TempDir()

	out := filepath.Join(dir, "meter.png")
	runRender(t, "-o", out, "--level", "42", "--height", "58")
	b, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(bytes.NewReader(b))
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dy() != 58 {
		t.Fatalf("height = %d, want 58", img.Bounds().Dy())
	}

	out = filepath.Join(dir, "meter.svg")
	runRender(t, "-o", out, "--level", "42", "--style", "circle")
	b, err = os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), "</svg>") {
		t.Fatalf("not an svg document:\n%s", b)
	}
}

func TestDescribeState(t *testing.T) {
	s := &events.BatteryStateEvent{
		BatteryState: meter.BatteryState{Present: true, Level: 80, Status: meter.StatusCharging, PlugType: meter.PlugAC},
		DemoMode:     true,
	}
	if got, want := describeState(s), "80% charging, plugged in (demo)"; got != want {
		t.Fatalf("describeState() = %q, want %q", got, want)
	}
	if got := describeState(&events.BatteryStateEvent{}); got != "no battery" {
		t.Fatalf("describeState() = %q", got)
	}
}
