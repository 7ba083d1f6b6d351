// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package overrides

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNewManager_MissingFile(t *testing.T) {
	m := NewManager(filepath.Join(t.TempDir(), "absent.yaml"))
	if len(m.Rules()) != 0 {
		t.Error("a missing file should yield an empty rule set")
	}
	if len(m.Table()) != 0 {
		t.Error("a missing file should yield an empty table")
	}
}

func TestAdd(t *testing.T) {
	m := NewManager("")

	rule, err := m.Add("XS1234567890", 199080, "manual verification", "analyst", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rule.ID != "OVR-00000001" {
		t.Errorf("expected first sequential ID, got %s", rule.ID)
	}
	if !rule.Enabled {
		t.Error("new rules start enabled")
	}

	// A second enabled rule for the same identifier is rejected.
	if _, err := m.Add("XS1234567890", 200000, "second guess", "analyst", nil); err == nil {
		t.Error("expected duplicate enabled override to be rejected")
	}

	second, err := m.Add("CH0012345678", 50000, "reconciliation", "analyst", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.ID != "OVR-00000002" {
		t.Errorf("IDs must be sequential, got %s", second.ID)
	}
}

func TestTable(t *testing.T) {
	m := NewManager("")
	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)

	m.config.Rules = []Rule{
		{ID: "OVR-00000001", Identifier: "XS1234567890", Value: 100, Enabled: true},
		{ID: "OVR-00000002", Identifier: "CH0012345678", Value: 200, Enabled: false},
		{ID: "OVR-00000003", Identifier: "DE0001234567", Value: 300, Enabled: true, ExpiresAt: &past},
		{ID: "OVR-00000004", Identifier: "FR0000123456", Value: 400, Enabled: true, ExpiresAt: &future},
		{ID: "OVR-00000005", Identifier: "XS1234567890", Value: 150, Enabled: true},
	}

	table := m.Table()
	if len(table) != 2 {
		t.Fatalf("expected 2 active entries, got %d", len(table))
	}
	if table["XS1234567890"] != 150 {
		t.Errorf("later rule for the same identifier must win, got %f", table["XS1234567890"])
	}
	if table["FR0000123456"] != 400 {
		t.Errorf("unexpired rule must be active, got %f", table["FR0000123456"])
	}
	if _, ok := table["CH0012345678"]; ok {
		t.Error("disabled rule must not be active")
	}
	if _, ok := table["DE0001234567"]; ok {
		t.Error("expired rule must not be active")
	}
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "overrides.yaml")

	m := NewManager(path)
	if _, err := m.Add("XS1234567890", 199080, "verified against custodian", "analyst", nil); err != nil {
		t.Fatal(err)
	}
	if err := m.Save(); err != nil {
		t.Fatalf("unexpected save error: %v", err)
	}

	reloaded := NewManager(path)
	rules := reloaded.Rules()
	if len(rules) != 1 {
		t.Fatalf("expected 1 rule after reload, got %d", len(rules))
	}
	if rules[0].Identifier != "XS1234567890" || rules[0].Value != 199080 {
		t.Errorf("rule did not survive the round trip: %+v", rules[0])
	}
	if rules[0].Reason != "verified against custodian" {
		t.Errorf("reason lost: %q", rules[0].Reason)
	}
}

func TestSave_NoPath(t *testing.T) {
	if err := NewManager("").Save(); err == nil {
		t.Error("saving without a path must fail")
	}
}

func TestRemove(t *testing.T) {
	m := NewManager("")
	rule, _ := m.Add("XS1234567890", 199080, "r", "a", nil)

	if err := m.Remove(rule.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(m.Rules()) != 0 {
		t.Error("rule should be gone after removal")
	}
	if err := m.Remove(rule.ID); err == nil {
		t.Error("removing a missing ID must fail")
	}
}

func TestCleanupExpired(t *testing.T) {
	m := NewManager("")
	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)

	m.config.Rules = []Rule{
		{ID: "OVR-00000001", Identifier: "A", Enabled: true, ExpiresAt: &past},
		{ID: "OVR-00000002", Identifier: "B", Enabled: true, ExpiresAt: &future},
		{ID: "OVR-00000003", Identifier: "C", Enabled: true},
	}

	if removed := m.CleanupExpired(); removed != 1 {
		t.Errorf("expected 1 expired rule removed, got %d", removed)
	}
	if len(m.Rules()) != 2 {
		t.Errorf("expected 2 surviving rules, got %d", len(m.Rules()))
	}
}

func TestRulesReturnsCopy(t *testing.T) {
	m := NewManager("")
	m.Add("XS1234567890", 100, "r", "a", nil)

	rules := m.Rules()
	rules[0].Value = 999

	if m.Rules()[0].Value != 100 {
		t.Error("mutating the returned slice must not affect the manager")
	}
}

func TestNewManager_MalformedFileIgnored(t *testing.T) {
	path := filepath.Join(t.TempDir(), "overrides.yaml")
	if err := os.WriteFile(path, []byte("rules: [broken"), 0o600); err != nil {
		t.Fatal(err)
	}

	m := NewManager(path)
	if len(m.Rules()) != 0 {
		t.Error("a malformed file should fall back to an empty rule set")
	}
}
