package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// PanelGeometry is the saved placement of a floating panel, in terminal cells
// relative to the top-left of the screen.
type PanelGeometry struct {
	X      int  `json:"x"`
	Y      int  `json:"y"`
	Width  int  `json:"width"`
	Height int  `json:"height"`
	Open   bool `json:"open"`
}

// Workspace holds cross-session UI state and the project-memory record:
// panel placement, font scale, and the key-value notes the user pins for the
// assistant. Saved as a single JSON file in the data directory.
type Workspace struct {
	FontScale int                      `json:"font_scale"` // percent, 100 = default
	Panels    map[string]PanelGeometry `json:"panels,omitempty"`
	Memory    map[string]string        `json:"memory,omitempty"`
}

// Panel names used by the UI.
const (
	PanelMemory = "memory"
	PanelLookup = "lookup"
)

// DefaultWorkspace returns the workspace used when nothing is saved yet.
func DefaultWorkspace() *Workspace {
	return &Workspace{
		FontScale: 100,
		Panels:    make(map[string]PanelGeometry),
		Memory:    make(map[string]string),
	}
}

func workspacePath(dataDir string) string {
	return filepath.Join(dataDir, "workspace.json")
}

// LoadWorkspace reads workspace.json. Absent or malformed state falls back to
// defaults; corrupt UI state must never block startup.
func LoadWorkspace(dataDir string) *Workspace {
	data, err := os.ReadFile(workspacePath(dataDir))
	if err != nil {
		return DefaultWorkspace()
	}

	ws := DefaultWorkspace()
	if err := json.Unmarshal(data, ws); err != nil {
		return DefaultWorkspace()
	}
	if ws.FontScale <= 0 {
		ws.FontScale = 100
	}
	if ws.Panels == nil {
		ws.Panels = make(map[string]PanelGeometry)
	}
	if ws.Memory == nil {
		ws.Memory = make(map[string]string)
	}
	return ws
}

// SaveWorkspace writes workspace.json (0600)
func SaveWorkspace(dataDir string, ws *Workspace) error {
	data, err := json.MarshalIndent(ws, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal workspace: %w", err)
	}
	if err := os.WriteFile(workspacePath(dataDir), data, 0600); err != nil {
		return fmt.Errorf("failed to write workspace: %w", err)
	}
	return nil
}
