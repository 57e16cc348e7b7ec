// Copyright (c) 2025 Lumière Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the lumiere command line surface.
package cli

import (
	"strings"
)

// Args holds parsed command line arguments: flags in --flag, --flag=value
// and --flag value form, plus positional arguments.
type Args struct {
	flags      map[string]string
	boolFlags  map[string]bool
	positional []string
}

// ParseArgs parses raw arguments.
func ParseArgs(raw []string) *Args {
	a := &Args{
		flags:     make(map[string]string),
		boolFlags: make(map[string]bool),
	}

	i := 0
	for i < len(raw) {
		arg := raw[i]
		if !strings.HasPrefix(arg, "-") {
			a.positional = append(a.positional, arg)
			i++
			continue
		}

		if name, value, ok := strings.Cut(strings.TrimLeft(arg, "-"), "="); ok {
			a.flags[name] = value
			i++
			continue
		}

		name := strings.TrimLeft(arg, "-")
		if i+1 < len(raw) && !strings.HasPrefix(raw[i+1], "-") {
			a.flags[name] = raw[i+1]
			i += 2
		} else {
			a.boolFlags[name] = true
			i++
		}
	}
	return a
}

// Positional returns the positional argument at index, or "".
func (a *Args) Positional(i int) string {
	if i >= len(a.positional) {
		return ""
	}
	return a.positional[i]
}

// Flag returns a string flag value, or the fallback when unset.
func (a *Args) Flag(name, fallback string) string {
	if v, ok := a.flags[name]; ok {
		return v
	}
	return fallback
}

// Bool reports whether a boolean flag was given.
func (a *Args) Bool(name string) bool {
	return a.boolFlags[name]
}
