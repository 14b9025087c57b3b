package model

import (
	"fmt"
	"sort"
	"strings"
)

// SetMemory stores one project-memory entry. An existing key is overwritten.
// Empty keys are rejected; an empty value deletes the entry.
func (m *Model) SetMemory(key, value string) bool {
	key = strings.TrimSpace(key)
	if key == "" {
		return false
	}
	if strings.TrimSpace(value) == "" {
		delete(m.Workspace.Memory, key)
		return true
	}
	m.Workspace.Memory[key] = value
	return true
}

// DeleteMemory removes a project-memory entry, reporting whether it existed
func (m *Model) DeleteMemory(key string) bool {
	if _, ok := m.Workspace.Memory[key]; !ok {
		return false
	}
	delete(m.Workspace.Memory, key)
	return true
}

// MemoryKeys returns the project-memory keys in sorted order, so the panel
// renders a stable listing regardless of insertion order.
func (m *Model) MemoryKeys() []string {
	keys := make([]string, 0, len(m.Workspace.Memory))
	for k := range m.Workspace.Memory {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// MemoryPromptSection renders project memory as a block appended to the
// system prompt, so pinned facts reach the generator on every call. Empty
// memory yields an empty string.
func (m *Model) MemoryPromptSection() string {
	keys := m.MemoryKeys()
	if len(keys) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("\n\nProject memory (facts the user pinned for you):\n")
	for _, k := range keys {
		fmt.Fprintf(&b, "- %s: %s\n", k, m.Workspace.Memory[k])
	}
	return b.String()
}
