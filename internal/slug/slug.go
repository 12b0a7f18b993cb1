// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug provides URL-friendly slug generation for category names.
package slug

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// maxAttempts bounds the suffix search in Unique.
const maxAttempts = 100

var (
	// nonAlphanumeric matches anything that isn't a letter, digit, or space.
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9\s-]`)
	// multipleHyphens collapses consecutive hyphens into one.
	multipleHyphens = regexp.MustCompile(`-{2,}`)
	// valid matches a generated slug: lowercase words joined by single hyphens.
	valid = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
)

// Generate creates a URL-friendly slug from the given string.
// Example: "Office Chairs & Stools" → "office-chairs-stools"
func Generate(s string) string {
	result := strings.ToLower(strings.TrimSpace(s))
	result = nonAlphanumeric.ReplaceAllString(result, "")
	result = strings.Join(strings.Fields(result), "-")
	result = multipleHyphens.ReplaceAllString(result, "-")
	return strings.Trim(result, "-")
}

// Valid reports whether s is already in slug form.
func Valid(s string) bool {
	return valid.MatchString(s)
}

// Unique returns base, or base with the first free numeric suffix
// ("base-2", "base-3", ...), according to taken.
func Unique(base string, taken func(candidate string) (bool, error)) (string, error) {
	candidate := base
	for i := 2; i <= maxAttempts+1; i++ {
		used, err := taken(candidate)
		if err != nil {
			return "", fmt.Errorf("check slug %q: %w", candidate, err)
		}
		if !used {
			return candidate, nil
		}
		candidate = base + "-" + strconv.Itoa(i)
	}
	return "", fmt.Errorf("no free slug for %q after %d attempts", base, maxAttempts)
}
