// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"statement-scan/internal/overrides"
)

func main() {
	var (
		overridesFile = flag.String("overrides-file", ".statement-scan-overrides.yaml", "Path to override configuration file")
		action        = flag.String("action", "", "Action to perform: list, add, remove, cleanup")
		id            = flag.String("id", "", "Override rule ID (for remove action)")
		identifier    = flag.String("identifier", "", "Security identifier code (for add action)")
		value         = flag.Float64("value", 0, "Verified market value (for add action)")
		reason        = flag.String("reason", "", "Reason for the override (for add action)")
		createdBy     = flag.String("created-by", "", "Author of the override (for add action)")
		expiresIn     = flag.Duration("expires-in", 0, "Optional lifetime for the override, e.g. 720h (for add action)")
	)
	flag.Parse()

	if *action == "" {
		fmt.Println("Error: --action is required")
		fmt.Println("Usage: statement-override --action <list|add|remove|cleanup> [options]")
		os.Exit(1)
	}

	manager := overrides.NewManager(*overridesFile)

	switch *action {
	case "list":
		listOverrides(manager)
	case "add":
		// Zero is a legitimate verified value (a worthless position), so
		// the check is on the flag being set, not on its value.
		if *identifier == "" || !isFlagSet("value") {
			fmt.Println("Error: --identifier and --value are required for add action")
			os.Exit(1)
		}
		addOverride(manager, *identifier, *value, *reason, *createdBy, *expiresIn)
	case "remove":
		if *id == "" {
			fmt.Println("Error: --id is required for remove action")
			os.Exit(1)
		}
		removeOverride(manager, *id)
	case "cleanup":
		cleanupExpired(manager)
	default:
		fmt.Printf("Error: Unknown action '%s'\n", *action)
		fmt.Println("Valid actions: list, add, remove, cleanup")
		os.Exit(1)
	}
}

// isFlagSet checks if a flag was explicitly set on the command line
func isFlagSet(name string) bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}

func listOverrides(manager *overrides.Manager) {
	rules := manager.Rules()
	if len(rules) == 0 {
		fmt.Println("No override rules found.")
		return
	}

	fmt.Printf("Found %d override rules:\n\n", len(rules))
	for _, rule := range rules {
		fmt.Printf("ID: %s\n", rule.ID)
		fmt.Printf("Identifier: %s\n", rule.Identifier)
		fmt.Printf("Value: %.2f\n", rule.Value)
		fmt.Printf("Enabled: %t\n", rule.Enabled)
		if rule.Reason != "" {
			fmt.Printf("Reason: %s\n", rule.Reason)
		}
		if rule.CreatedBy != "" {
			fmt.Printf("Created By: %s\n", rule.CreatedBy)
		}
		fmt.Printf("Created At: %s\n", rule.CreatedAt.Format("2006-01-02 15:04:05"))
		if rule.ExpiresAt != nil {
			fmt.Printf("Expires At: %s\n", rule.ExpiresAt.Format("2006-01-02 15:04:05"))
		}
		fmt.Println("---")
	}
}

func addOverride(manager *overrides.Manager, identifier string, value float64, reason, createdBy string, expiresIn time.Duration) {
	var expiresAt *time.Time
	if expiresIn > 0 {
		t := time.Now().Add(expiresIn)
		expiresAt = &t
	}

	rule, err := manager.Add(identifier, value, reason, createdBy, expiresAt)
	if err != nil {
		fmt.Printf("Error adding override: %v\n", err)
		os.Exit(1)
	}
	if err := manager.Save(); err != nil {
		fmt.Printf("Error saving overrides: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Successfully added override rule %s for %s\n", rule.ID, rule.Identifier)
}

func removeOverride(manager *overrides.Manager, id string) {
	if err := manager.Remove(id); err != nil {
		fmt.Printf("Error removing override: %v\n", err)
		os.Exit(1)
	}
	if err := manager.Save(); err != nil {
		fmt.Printf("Error saving overrides: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Successfully removed override rule: %s\n", id)
}

func cleanupExpired(manager *overrides.Manager) {
	removed := manager.CleanupExpired()
	if removed > 0 {
		if err := manager.Save(); err != nil {
			fmt.Printf("Error saving overrides: %v\n", err)
			os.Exit(1)
		}
	}
	fmt.Printf("Cleaned up %d expired override rules\n", removed)
}
