// Copyright (c) 2025 Lumière Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// =============================================================================
// PERSONA MODE
// =============================================================================

// Mode is a named behavioral profile. It selects which system instruction and
// tool configuration the responder uses, and tags each session for display.
type Mode string

const (
	ModeNexus    Mode = "nexus"    // Grounded search (default)
	ModeCoder    Mode = "coder"    // Programming assistant
	ModeScholar  Mode = "scholar"  // Universal tutor
	ModeStudio   Mode = "studio"   // Creative design director
	ModeHuman    Mode = "human"    // Casual companion
	ModeAnalyst  Mode = "analyst"  // Data analyst
	ModeCoach    Mode = "coach"    // Personal growth coach
	ModeLexicon  Mode = "lexicon"  // Dictionary and concept explorer
	ModePolyglot Mode = "polyglot" // Language coach
	ModeMotion   Mode = "motion"   // Video generation
)

// DefaultMode is the mode every fresh conversation starts in.
const DefaultMode = ModeNexus

// AllModes lists every persona mode in display order.
var AllModes = []Mode{
	ModeNexus, ModeCoder, ModeScholar, ModeStudio, ModeHuman,
	ModeAnalyst, ModeCoach, ModeLexicon, ModePolyglot, ModeMotion,
}

// String returns the string representation of the mode.
func (m Mode) String() string {
	return string(m)
}

// IsValid reports whether m names a known persona mode.
func (m Mode) IsValid() bool {
	for _, known := range AllModes {
		if m == known {
			return true
		}
	}
	return false
}

// DisplayName returns the title shown in the UI for the mode.
func (m Mode) DisplayName() string {
	switch m {
	case ModeNexus:
		return "Nexus Search"
	case ModeCoder:
		return "Vibe Coder"
	case ModeScholar:
		return "Universal Tutor"
	case ModeStudio:
		return "Design Studio"
	case ModeHuman:
		return "Human Mode"
	case ModeAnalyst:
		return "Data Analyst"
	case ModeCoach:
		return "Growth Coach"
	case ModeLexicon:
		return "Omni-Lexicon"
	case ModePolyglot:
		return "Polyglot"
	case ModeMotion:
		return "Motion Director"
	default:
		return string(m)
	}
}

// UsesSearch reports whether the mode enables web-search grounding.
func (m Mode) UsesSearch() bool {
	switch m {
	case ModeNexus, ModeScholar, ModeAnalyst:
		return true
	default:
		return false
	}
}

// GeneratesVideo reports whether the mode routes to video generation instead
// of text streaming.
func (m Mode) GeneratesVideo() bool {
	return m == ModeMotion
}

// Placeholder returns the input-field hint for the mode.
func (m Mode) Placeholder() string {
	switch m {
	case ModeNexus:
		return "Search anything..."
	case ModeCoder:
		return "Describe the functionality or code you need..."
	case ModeScholar:
		return "What topic would you like to master today?"
	case ModeStudio:
		return "Describe an image or design concept..."
	case ModeHuman:
		return "Chat with me like a friend..."
	case ModeAnalyst:
		return "Paste data or ask for a trend analysis..."
	case ModeCoach:
		return "How are you feeling right now? (I'll adapt the lesson)..."
	case ModeLexicon:
		return "Enter a word or concept to define..."
	case ModePolyglot:
		return "Type 'Start' or ask for a specific language lesson..."
	case ModeMotion:
		return "Describe a video to generate (e.g., 'A cyberpunk city in rain')..."
	default:
		return "Message Lumière..."
	}
}
