package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/chazu/jaring/pkg/config"
	"github.com/chazu/jaring/pkg/presets"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	cfg := config.Default()
	cfg.Scene.Supersample = 1
	cfg.Scene.Width, cfg.Scene.Height = 64, 48
	return NewApp(cfg, nil)
}

// TestE2EBoxLesson exercises the full pipeline: lesson script -> engine ->
// program -> scene host -> tessellated frame. This is the same path that
// the Wails RunScript binding takes, but without the Wails runtime.
func TestE2EBoxLesson(t *testing.T) {
	app := newTestApp(t)

	source, err := os.ReadFile("examples/lessons/box.jaring")
	if err != nil {
		t.Fatalf("failed to read box.jaring: %v", err)
	}

	out := t.TempDir()
	result := app.RunScript(string(source), out)

	if len(result.Errors) > 0 {
		for _, e := range result.Errors {
			t.Errorf("script error: %s", e)
		}
		t.FailNow()
	}
	if len(result.Commands) != 6 {
		t.Fatalf("expected 6 commands, got %d: %v", len(result.Commands), result.Commands)
	}
	for _, name := range []string{"box-closed.png", "box-net.png"} {
		if _, err := os.Stat(filepath.Join(out, name)); err != nil {
			t.Errorf("missing snapshot %s: %v", name, err)
		}
	}

	// The live view ends where the script ended: the closed box.
	f := result.Frame
	if f.Shape != "box" {
		t.Errorf("expected live shape box, got %q", f.Shape)
	}
	if f.Fold != 0 {
		t.Errorf("expected fold 0 after (fold), got %g", f.Fold)
	}

	expectedParts := map[string]bool{
		"base":  false,
		"north": false,
		"south": false,
		"east":  false,
		"west":  false,
		"lid":   false,
	}
	for _, m := range f.Meshes {
		if _, ok := expectedParts[m.PartName]; !ok {
			t.Errorf("unexpected part name: %q", m.PartName)
			continue
		}
		expectedParts[m.PartName] = true

		if len(m.Vertices) == 0 {
			t.Errorf("part %q: no vertices", m.PartName)
		}
		if len(m.Normals) == 0 {
			t.Errorf("part %q: no normals", m.PartName)
		}
		if len(m.Indices) == 0 {
			t.Errorf("part %q: no indices", m.PartName)
		}
		if m.Color == "" {
			t.Errorf("part %q: no color assigned", m.PartName)
		}
	}
	for name, found := range expectedParts {
		if !found {
			t.Errorf("missing mesh for part %q", name)
		}
	}
}

// TestE2ELessonsEvaluate checks that every shipped lesson evaluates.
func TestE2ELessonsEvaluate(t *testing.T) {
	app := newTestApp(t)
	files, err := filepath.Glob("examples/lessons/*.jaring")
	if err != nil {
		t.Fatal(err)
	}
	if len(files) == 0 {
		t.Fatal("no lessons found")
	}
	for _, f := range files {
		t.Run(filepath.Base(f), func(t *testing.T) {
			src, err := os.ReadFile(f)
			if err != nil {
				t.Fatal(err)
			}
			p, evalErrs, err := app.engine.Evaluate(string(src))
			if err != nil {
				t.Fatalf("fatal error: %v", err)
			}
			if len(evalErrs) > 0 {
				t.Fatalf("eval errors: %v", evalErrs)
			}
			if p.Len() == 0 {
				t.Error("lesson issues no commands")
			}
		})
	}
}

// TestE2EEmptyScript ensures the pipeline handles empty input gracefully.
func TestE2EEmptyScript(t *testing.T) {
	app := newTestApp(t)
	result := app.RunScript("", t.TempDir())

	if len(result.Errors) > 0 {
		t.Errorf("unexpected errors for empty source: %v", result.Errors)
	}
	if len(result.Commands) != 0 {
		t.Errorf("expected 0 commands for empty source, got %d", len(result.Commands))
	}
	// The default shape stays loaded.
	if result.Frame.Shape != "cube" {
		t.Errorf("expected default cube, got %q", result.Frame.Shape)
	}
}

// TestE2EScriptSyntaxError ensures eval errors are reported, not fatal errors.
func TestE2EScriptSyntaxError(t *testing.T) {
	app := newTestApp(t)
	result := app.RunScript("(shape :cone", t.TempDir())

	if len(result.Errors) == 0 {
		t.Fatal("expected eval errors for syntax error")
	}
	if len(result.Commands) != 0 {
		t.Errorf("expected 0 commands on error, got %d", len(result.Commands))
	}
}

// TestE2ESelectShape ensures every shape loads with its defaults.
func TestE2ESelectShape(t *testing.T) {
	app := newTestApp(t)
	for _, s := range app.Shapes() {
		f := app.SelectShape(s.Key)
		if len(f.Errors) > 0 {
			t.Errorf("%s: %v", s.Key, f.Errors)
			continue
		}
		if f.Shape != s.Key {
			t.Errorf("expected shape %s, got %s", s.Key, f.Shape)
		}
		if len(f.Meshes) == 0 {
			t.Errorf("%s: no meshes", s.Key)
		}
		if f.Result == nil || f.Result.Volume <= 0 {
			t.Errorf("%s: missing calculation", s.Key)
		}
		for _, p := range s.Params {
			if f.Params[p.Key] != p.Default {
				t.Errorf("%s.%s = %g, want default %g", s.Key, p.Key, f.Params[p.Key], p.Default)
			}
		}
	}
}

// TestE2EPresets saves and reloads dimensions through the bindings.
func TestE2EPresets(t *testing.T) {
	store, err := presets.Open(filepath.Join(t.TempDir(), "presets.db"))
	if err != nil {
		t.Fatal(err)
	}
	cfg := config.Default()
	app := NewApp(cfg, store)
	defer store.Close()

	app.SetParameter("cone", "t", 9)
	pr, err := app.SavePreset("tall cone")
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	app.SelectShape("cube")
	f := app.LoadPreset(pr.ID)
	if len(f.Errors) > 0 {
		t.Fatalf("load: %v", f.Errors)
	}
	if f.Shape != "cone" || f.Params["t"] != 9 {
		t.Errorf("expected the saved cone, got %s %v", f.Shape, f.Params)
	}

	list, err := app.Presets("cone")
	if err != nil || len(list) != 1 {
		t.Fatalf("expected one cone preset, got %d (%v)", len(list), err)
	}
	if err := app.DeletePreset(pr.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if list, _ := app.Presets(""); len(list) != 0 {
		t.Errorf("expected no presets after delete, got %d", len(list))
	}
}
