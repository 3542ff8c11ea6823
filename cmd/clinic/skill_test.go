// ABOUTME: Tests for the install-skill command.
// ABOUTME: Validates skill installation, confirmation, and file content.

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInstallSkillWritesFile(t *testing.T) {
	home := t.TempDir()
	skillSkipConfirm = true
	t.Cleanup(func() { skillSkipConfirm = false })

	var out bytes.Buffer
	if err := installSkill(strings.NewReader(""), &out, home); err != nil {
		t.Fatalf("installSkill failed: %v", err)
	}

	path := skillPathFor(home)
	written, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Skill file not created: %v", err)
	}

	embedded, _ := skillFS.ReadFile("skill/SKILL.md")
	if !bytes.Equal(written, embedded) {
		t.Error("Installed skill does not match embedded content")
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("Expected file mode 0600, got %v", info.Mode().Perm())
	}
}

func TestInstallSkillCanceled(t *testing.T) {
	home := t.TempDir()
	skillSkipConfirm = false

	var out bytes.Buffer
	if err := installSkill(strings.NewReader("n\n"), &out, home); err != nil {
		t.Fatalf("installSkill failed: %v", err)
	}
	if !strings.Contains(out.String(), "Installation canceled.") {
		t.Errorf("Expected cancel message, got: %s", out.String())
	}
	if _, err := os.Stat(filepath.Join(home, ".claude")); err == nil {
		t.Error("Nothing should be written when canceled")
	}
}

func TestInstallSkillOverwritesExistingFile(t *testing.T) {
	home := t.TempDir()
	path := skillPathFor(home)
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("stale content"), 0600); err != nil {
		t.Fatalf("write: %v", err)
	}

	var out bytes.Buffer
	if err := installSkill(strings.NewReader("y\n"), &out, home); err != nil {
		t.Fatalf("installSkill failed: %v", err)
	}
	if !strings.Contains(out.String(), "already exists") {
		t.Error("Expected overwrite notice")
	}

	data, _ := os.ReadFile(path)
	if strings.Contains(string(data), "stale content") {
		t.Error("Old content should have been replaced")
	}
}

func TestSkillFSReadEmbeddedContent(t *testing.T) {
	content, err := skillFS.ReadFile("skill/SKILL.md")
	if err != nil {
		t.Fatalf("Failed to read embedded skill/SKILL.md: %v", err)
	}

	contentStr := string(content)
	if !strings.HasPrefix(contentStr, "---") {
		t.Error("Expected SKILL.md to start with YAML frontmatter (---)")
	}

	expected := []string{
		"name: clinic",
		"description:",
		"## When to use clinic",
		"mcp__clinic__add_patient",
		"mcp__clinic__get_patient",
		"mcp__clinic__list_patients",
		"mcp__clinic__update_patient",
		"mcp__clinic__delete_patient",
		"mcp__clinic__search_patients",
		"mcp__clinic__get_statistics",
		"mcp__clinic__add_reading",
		"mcp__clinic__list_readings",
	}
	for _, marker := range expected {
		if !strings.Contains(contentStr, marker) {
			t.Errorf("Expected SKILL.md to contain %q", marker)
		}
	}
}

func TestSkillSkipConfirmFlag(t *testing.T) {
	flag := installSkillCmd.Flags().Lookup("yes")
	if flag == nil {
		t.Fatal("Expected --yes flag to be defined")
	}
	if flag.Shorthand != "y" {
		t.Errorf("Expected shorthand 'y', got %q", flag.Shorthand)
	}
	if flag.DefValue != "false" {
		t.Errorf("Expected default value 'false', got %q", flag.DefValue)
	}
}
