package model

import (
	"strings"
	"testing"

	"pecha/storage"
)

func memoryModel() *Model {
	return &Model{Workspace: storage.DefaultWorkspace()}
}

func TestSetMemory(t *testing.T) {
	m := memoryModel()

	if !m.SetMemory("author", "Milarepa") {
		t.Fatal("valid entry rejected")
	}
	if m.Workspace.Memory["author"] != "Milarepa" {
		t.Errorf("memory = %v", m.Workspace.Memory)
	}

	// Overwrite
	m.SetMemory("author", "Tsongkhapa")
	if m.Workspace.Memory["author"] != "Tsongkhapa" {
		t.Error("existing key must be overwritten")
	}

	// Empty key rejected
	if m.SetMemory("   ", "value") {
		t.Error("blank key must be rejected")
	}

	// Empty value deletes
	if !m.SetMemory("author", "  ") {
		t.Error("blank value is a valid delete")
	}
	if _, ok := m.Workspace.Memory["author"]; ok {
		t.Error("blank value must delete the entry")
	}
}

func TestDeleteMemory(t *testing.T) {
	m := memoryModel()
	m.SetMemory("k", "v")

	if !m.DeleteMemory("k") {
		t.Error("existing key must report deleted")
	}
	if m.DeleteMemory("k") {
		t.Error("missing key must report not found")
	}
}

func TestMemoryKeysSorted(t *testing.T) {
	m := memoryModel()
	m.SetMemory("zebra", "1")
	m.SetMemory("alpha", "2")
	m.SetMemory("middle", "3")

	keys := m.MemoryKeys()
	if len(keys) != 3 || keys[0] != "alpha" || keys[1] != "middle" || keys[2] != "zebra" {
		t.Errorf("keys = %v, want sorted order", keys)
	}
}

func TestMemoryPromptSection(t *testing.T) {
	m := memoryModel()
	if m.MemoryPromptSection() != "" {
		t.Error("empty memory must contribute nothing to the prompt")
	}

	m.SetMemory("text", "Songs of Milarepa")
	section := m.MemoryPromptSection()
	if !strings.Contains(section, "Project memory") {
		t.Errorf("section = %q", section)
	}
	if !strings.Contains(section, "text: Songs of Milarepa") {
		t.Errorf("section = %q", section)
	}
}
