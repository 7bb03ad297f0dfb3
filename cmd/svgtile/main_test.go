package main

import (
	"bytes"
	"context"
	"encoding/json"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"seehuhn.de/go/pdf/graphics"

	"seehuhn.de/go/svgrender"
	"seehuhn.de/go/svgrender/testcases"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	fname := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(fname, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return fname
}

func TestLoadConfig(t *testing.T) {
	fname := writeFile(t, "svgtile.toml", `
[cache]
size = 16
sampling_rate = 4
mode = "shared"

[render]
workers = 2
band_height = 32
`)
	cfg, err := loadConfig(fname)
	if err != nil {
		t.Fatal(err)
	}
	want := config{
		Cache:  cacheConfig{Size: 16, SamplingRate: 4, Mode: "shared"},
		Render: renderConfig{Workers: 2, BandHeight: 32},
	}
	if cfg != want {
		t.Errorf("got %+v, want %+v", cfg, want)
	}

	opts, err := cfg.cacheOptions()
	if err != nil {
		t.Fatal(err)
	}
	c := svgrender.NewTileCache(opts...)
	if c.Cap() != 16 || c.SamplingRate() != 4 || c.Mode() != svgrender.CacheShared {
		t.Errorf("options not applied: cap %d, rate %d, mode %v", c.Cap(), c.SamplingRate(), c.Mode())
	}
}

func TestLoadConfigErrors(t *testing.T) {
	cases := map[string]string{
		"unknown key": "[cache]\nsise = 3\n",
		"bad mode":    "[cache]\nmode = \"lru\"\n",
		"syntax":      "[cache\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := loadConfig(writeFile(t, "bad.toml", content)); err == nil {
				t.Error("no error")
			}
		})
	}
	if _, err := loadConfig(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("missing file: no error")
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	c := newCLI(io.Discard)
	root := c.rootCommand()
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestListCommand(t *testing.T) {
	out, err := execute(t, "list")
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != len(testcases.All) {
		t.Errorf("got %d lines, want %d:\n%s", len(lines), len(testcases.All), out)
	}
	if !strings.Contains(out, "markers") || !strings.Contains(out, "128 paths") {
		t.Errorf("marker scene missing:\n%s", out)
	}
}

func TestRenderCommand(t *testing.T) {
	dir := t.TempDir()
	cfgFile := writeFile(t, "svgtile.toml", "[render]\nband_height = 16\n")

	_, err := execute(t, "render", "--config", cfgFile, "--mode", "shared", "-o", dir, "fill", "markers")
	if err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{"fill", "markers"} {
		f, err := os.Open(filepath.Join(dir, name+".png"))
		if err != nil {
			t.Fatal(err)
		}
		img, err := png.Decode(f)
		f.Close()
		if err != nil {
			t.Fatal(err)
		}
		sc := testcases.All[name]
		if b := img.Bounds(); b.Dx() != sc.Width || b.Dy() != sc.Height {
			t.Errorf("%s: size %v", name, b)
		}
		// the background is white, the corners are not painted
		if c := color.RGBAModel.Convert(img.At(0, 0)).(color.RGBA); c != (color.RGBA{255, 255, 255, 255}) {
			t.Errorf("%s: corner pixel %v", name, c)
		}
	}
}

func TestRenderUnknownScene(t *testing.T) {
	if _, err := execute(t, "render", "-o", t.TempDir(), "nosuchscene"); err == nil {
		t.Error("no error for unknown scene")
	}
}

func TestExportCommand(t *testing.T) {
	out, err := execute(t, "export", "dash", "markers")
	if err != nil {
		t.Fatal(err)
	}

	var got struct {
		Scenes []jsonScene `json:"scenes"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatal(err)
	}
	if len(got.Scenes) != 2 || got.Scenes[0].Name != "dash" {
		t.Fatalf("unexpected scenes %+v", got.Scenes)
	}

	dash := got.Scenes[0].Items[0]
	if dash.Stroke == nil || dash.Stroke.Cap != graphics.LineCapButt.String() || len(dash.Stroke.Dash) != 2 || dash.Stroke.DashPhase != 2 {
		t.Errorf("dash stroke %+v", dash.Stroke)
	}
	if dash.Fill != nil {
		t.Error("unfilled item has a fill")
	}
	if first := dash.Path[0]; first.Cmd != "M" || first.Pts[0][0] != 8 {
		t.Errorf("first segment %+v", first)
	}

	marker := got.Scenes[1].Items[0]
	if len(marker.Instances) != 127 || marker.Opacity != 0.8 || marker.CTM[4] != 8 {
		t.Errorf("marker item: %d instances, opacity %g, ctm %v", len(marker.Instances), marker.Opacity, marker.CTM)
	}
}

func TestHexColor(t *testing.T) {
	if s := hexColor(color.NRGBA{R: 0xd0, G: 0x20, B: 0x20, A: 0xff}); s != "#d02020" {
		t.Errorf("got %s", s)
	}
	if s := hexColor(color.NRGBA{R: 1, G: 2, B: 3, A: 4}); s != "#01020304" {
		t.Errorf("got %s", s)
	}
}

func TestPDFCommand(t *testing.T) {
	dir := t.TempDir()
	if _, err := execute(t, "pdf", "-o", dir, "transform", "dash"); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"transform", "dash"} {
		data, err := os.ReadFile(filepath.Join(dir, name+".pdf"))
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.HasPrefix(data, []byte("%PDF-")) {
			t.Errorf("%s: not a PDF file", name)
		}
	}
}
