package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWorkspaceRoundtrip(t *testing.T) {
	dir := t.TempDir()

	ws := DefaultWorkspace()
	ws.FontScale = 130
	ws.Panels[PanelMemory] = PanelGeometry{X: 10, Y: 2, Width: 44, Height: 12, Open: true}
	ws.Memory["author"] = "Milarepa"

	if err := SaveWorkspace(dir, ws); err != nil {
		t.Fatalf("SaveWorkspace failed: %v", err)
	}

	loaded := LoadWorkspace(dir)
	if loaded.FontScale != 130 {
		t.Errorf("FontScale = %d", loaded.FontScale)
	}
	g := loaded.Panels[PanelMemory]
	if g.X != 10 || g.Width != 44 || !g.Open {
		t.Errorf("panel geometry = %+v", g)
	}
	if loaded.Memory["author"] != "Milarepa" {
		t.Errorf("memory = %v", loaded.Memory)
	}
}

func TestLoadWorkspaceMissingFile(t *testing.T) {
	ws := LoadWorkspace(t.TempDir())
	if ws.FontScale != 100 {
		t.Errorf("default FontScale = %d, want 100", ws.FontScale)
	}
	if ws.Panels == nil || ws.Memory == nil {
		t.Error("default workspace must have initialized maps")
	}
}

func TestLoadWorkspaceCorruptFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "workspace.json"), []byte("{broken"), 0600); err != nil {
		t.Fatal(err)
	}

	ws := LoadWorkspace(dir)
	if ws.FontScale != 100 {
		t.Error("corrupt workspace must fall back to defaults")
	}
}

func TestLoadWorkspaceSanitizesValues(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "workspace.json"),
		[]byte(`{"font_scale": -20}`), 0600); err != nil {
		t.Fatal(err)
	}

	ws := LoadWorkspace(dir)
	if ws.FontScale != 100 {
		t.Errorf("FontScale = %d, non-positive values must reset to 100", ws.FontScale)
	}
	if ws.Panels == nil || ws.Memory == nil {
		t.Error("nil maps must be re-initialized on load")
	}
}
