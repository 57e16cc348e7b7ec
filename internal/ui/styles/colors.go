// Copyright (c) 2025 Lumière Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the lumiere TUI.
// All colors use Lip Gloss AdaptiveColor for automatic light/dark detection.
package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/lumiere-labs/lumiere-tui/internal/model"
)

// =============================================================================
// PRIMARY ACCENT COLORS
// =============================================================================

// Cyan - brand color, the nexus accent
var Cyan = lipgloss.AdaptiveColor{Light: "#0891B2", Dark: "#22D3EE"}

// Purple - assistant turns, scholar accent
var Purple = lipgloss.AdaptiveColor{Light: "#7C3AED", Dark: "#A78BFA"}

// Emerald - coder accent, success states
var Emerald = lipgloss.AdaptiveColor{Light: "#059669", Dark: "#34D399"}

// Amber - studio accent, warnings
var Amber = lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#FBBF24"}

// Rose - errors, motion accent
var Rose = lipgloss.AdaptiveColor{Light: "#E11D48", Dark: "#FB7185"}

// Pink - human accent
var Pink = lipgloss.AdaptiveColor{Light: "#DB2777", Dark: "#F472B6"}

// Blue - analyst accent
var Blue = lipgloss.AdaptiveColor{Light: "#2563EB", Dark: "#60A5FA"}

// Lime - coach accent
var Lime = lipgloss.AdaptiveColor{Light: "#65A30D", Dark: "#A3E635"}

// Indigo - lexicon accent
var Indigo = lipgloss.AdaptiveColor{Light: "#4F46E5", Dark: "#818CF8"}

// Teal - polyglot accent
var Teal = lipgloss.AdaptiveColor{Light: "#0D9488", Dark: "#2DD4BF"}

// =============================================================================
// SURFACE COLORS
// =============================================================================

// Surface - main background
var Surface = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#1E1E2E"}

// SurfaceDim - headers and footers
var SurfaceDim = lipgloss.AdaptiveColor{Light: "#F5F5F5", Dark: "#181825"}

// TextPrimary - main text
var TextPrimary = lipgloss.AdaptiveColor{Light: "#1F2937", Dark: "#E5E7EB"}

// TextMuted - secondary text, timestamps, hints
var TextMuted = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}

// Border - separators and frames
var Border = lipgloss.AdaptiveColor{Light: "#D1D5DB", Dark: "#313244"}

// ModeAccent returns the accent color for a persona mode.
func ModeAccent(m model.Mode) lipgloss.AdaptiveColor {
	switch m {
	case model.ModeNexus:
		return Cyan
	case model.ModeCoder:
		return Emerald
	case model.ModeScholar:
		return Purple
	case model.ModeStudio:
		return Amber
	case model.ModeHuman:
		return Pink
	case model.ModeAnalyst:
		return Blue
	case model.ModeCoach:
		return Lime
	case model.ModeLexicon:
		return Indigo
	case model.ModePolyglot:
		return Teal
	case model.ModeMotion:
		return Rose
	default:
		return Cyan
	}
}
