package yamldoc

import "strings"

// Style classifies how a Feature's value is written in the source text.
type Style int

const (
	StyleUnknown Style = iota
	StyleBlockMapping
	StyleBlockSequence
	StyleFlowMapping
	StyleMultilineFlowMapping
	StyleFlowSequence
	StyleMultilineFlowSequence
	StyleMultilineLiteralScalar // |
	StyleMultilineFoldedScalar  // >
	StyleDoubleQuoted
	StyleSingleQuoted
	StylePlainScalar
)

func (s Style) String() string {
	switch s {
	case StyleBlockMapping:
		return "BlockMapping"
	case StyleBlockSequence:
		return "BlockSequence"
	case StyleFlowMapping:
		return "FlowMapping"
	case StyleMultilineFlowMapping:
		return "MultilineFlowMapping"
	case StyleFlowSequence:
		return "FlowSequence"
	case StyleMultilineFlowSequence:
		return "MultilineFlowSequence"
	case StyleMultilineLiteralScalar:
		return "MultilineLiteralScalar"
	case StyleMultilineFoldedScalar:
		return "MultilineFoldedScalar"
	case StyleDoubleQuoted:
		return "DoubleQuoted"
	case StyleSingleQuoted:
		return "SingleQuoted"
	case StylePlainScalar:
		return "PlainScalar"
	default:
		return "Unknown"
	}
}

// DetectStyle classifies text (the extracted content of a Feature) by
// inspecting its leading character and whether it spans multiple lines.
func DetectStyle(kind FeatureKind, text string) Style {
	trimmed := strings.TrimRight(text, " \t")
	multiline := strings.Contains(trimmed, "\n")

	switch kind {
	case FeatureMapping:
		if strings.HasPrefix(strings.TrimSpace(text), "{") {
			if multiline {
				return StyleMultilineFlowMapping
			}
			return StyleFlowMapping
		}
		return StyleBlockMapping
	case FeatureSequence:
		if strings.HasPrefix(strings.TrimSpace(text), "[") {
			if multiline {
				return StyleMultilineFlowSequence
			}
			return StyleFlowSequence
		}
		return StyleBlockSequence
	case FeatureScalar:
		s := strings.TrimSpace(text)
		if strings.HasPrefix(s, "|") {
			return StyleMultilineLiteralScalar
		}
		if strings.HasPrefix(s, ">") {
			return StyleMultilineFoldedScalar
		}
		if strings.HasPrefix(s, "\"") {
			return StyleDoubleQuoted
		}
		if strings.HasPrefix(s, "'") {
			return StyleSingleQuoted
		}
		return StylePlainScalar
	default:
		return StyleUnknown
	}
}
