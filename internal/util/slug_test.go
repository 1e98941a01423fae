// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple", "Hello World", "hello-world"},
		{"already slug", "hello-world", "hello-world"},
		{"uppercase", "HELLO", "hello"},
		{"accents", "Café au Lait", "cafe-au-lait"},
		{"cyrillic", "Привет мир", "privet-mir"},
		{"punctuation", "Hello, World!", "hello-world"},
		{"multiple spaces", "hello   world", "hello-world"},
		{"leading trailing", " hello world ", "hello-world"},
		{"numbers", "Top 10 Posts of 2026", "top-10-posts-of-2026"},
		{"empty", "", ""},
		{"only punctuation", "!!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Slugify(tt.input)
			if got != tt.expected {
				t.Errorf("Slugify(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestIsValidSlug(t *testing.T) {
	tests := []struct {
		slug     string
		expected bool
	}{
		{"hello-world", true},
		{"hello", true},
		{"a1-b2-c3", true},
		{"", false},
		{"Hello-World", false},
		{"-hello", false},
		{"hello-", false},
		{"hello--world", false},
		{"hello world", false},
		{"hello_world", false},
	}

	for _, tt := range tests {
		t.Run(tt.slug, func(t *testing.T) {
			got := IsValidSlug(tt.slug)
			if got != tt.expected {
				t.Errorf("IsValidSlug(%q) = %v, want %v", tt.slug, got, tt.expected)
			}
		})
	}
}

func TestSlugifyProducesValidSlug(t *testing.T) {
	inputs := []string{
		"Hello World",
		"Café au Lait",
		"  --weird -- input--  ",
		"Top 10: the BEST",
	}
	for _, in := range inputs {
		slug := Slugify(in)
		if slug != "" && !IsValidSlug(slug) {
			t.Errorf("Slugify(%q) = %q is not a valid slug", in, slug)
		}
	}
}
