package patch

import (
	"strings"

	"github.com/hardenedci/actionaudit/pkg/yamldoc"
)

// leadingIndentationForBlockItem returns the column at which content
// begins for feature f, accounting for block-list dashes: a line like
// "  - foo: bar" yields 4 (content under "foo"), while "  - - abc:"
// yields 6. A dash on its own line yields its column + 1; this is a
// documented-unsound heuristic (it should scan forward to the first
// non-empty content line and adopt its indent instead), kept here to
// match the reference engine's actual behavior rather than a corrected
// one.
func leadingIndentationForBlockItem(doc *yamldoc.Document, f yamldoc.Feature) int {
	line := doc.Lines().LineOf(f.Start)
	start, end := doc.Lines().LineRange(line)
	text := doc.Source()[start:end]

	col := 0
	i := 0
	for i < len(text) {
		if text[i] == ' ' {
			col++
			i++
			continue
		}
		if text[i] == '-' && i+1 < len(text) && text[i+1] == ' ' {
			col += 2
			i += 2
			continue
		}
		if text[i] == '-' && i+1 == len(text) {
			return col + 1
		}
		break
	}
	return col
}

// leadingWhitespace returns the leading space prefix of the line
// containing f's start.
func leadingWhitespace(doc *yamldoc.Document, f yamldoc.Feature) string {
	line := doc.Lines().LineOf(f.Start)
	start, end := doc.Lines().LineRange(line)
	text := doc.Source()[start:end]
	trimmed := strings.TrimLeft(text, " ")
	return text[:len(text)-len(trimmed)]
}

// indentMultilineYAML prefixes every line of value (after the first) with
// indent spaces, used when splicing a multi-line replacement value into a
// block-mapping entry.
func indentMultilineYAML(value string, indent int) string {
	lines := strings.Split(value, "\n")
	prefix := strings.Repeat(" ", indent)
	for i := 1; i < len(lines); i++ {
		if lines[i] == "" {
			continue
		}
		lines[i] = prefix + lines[i]
	}
	return strings.Join(lines, "\n")
}

// findContentEnd walks f's lines in reverse and returns the byte offset
// just past the last non-empty, non-comment line — i.e. the insertion
// point for a new mapping entry that must land before any trailing bare
// comment lines.
func findContentEnd(doc *yamldoc.Document, f yamldoc.Feature) int {
	li := doc.Lines()
	endLine := li.LineOf(f.End - 1)
	if f.End <= f.Start {
		endLine = li.LineOf(f.Start)
	}
	for line := endLine; line >= li.LineOf(f.Start); line-- {
		start, end := li.LineRange(line)
		if end > f.End {
			end = f.End
		}
		text := strings.TrimSpace(doc.Source()[start:end])
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		return end
	}
	return f.End
}
