package format

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// DiffContext is the number of unchanged lines shown around a change.
const DiffContext = 3

type diffLine struct {
	op   byte // ' ', '-' or '+'
	text string
}

// Diff renders a unified line diff between before and after, labelled with
// name. It returns "" when the texts are equal.
func Diff(name string, before, after []byte) string {
	if string(before) == string(after) {
		return ""
	}
	lines := diffLines(string(before), string(after))

	var sb strings.Builder
	fmt.Fprintf(&sb, "--- a/%s\n+++ b/%s\n", name, name)
	for _, h := range hunks(lines, DiffContext) {
		writeHunk(&sb, lines, h)
	}
	return sb.String()
}

func diffLines(oldText, newText string) []diffLine {
	dmp := diffmatchpatch.New()
	rOld, rNew, lineArray := dmp.DiffLinesToRunes(oldText, newText)
	diffs := dmp.DiffCleanupMerge(dmp.DiffMainRunes(rOld, rNew, false))

	var lines []diffLine
	for _, d := range diffs {
		var op byte
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			op = ' '
		case diffmatchpatch.DiffDelete:
			op = '-'
		case diffmatchpatch.DiffInsert:
			op = '+'
		}
		for _, r := range d.Text {
			if idx := int(r); idx >= 0 && idx < len(lineArray) {
				lines = append(lines, diffLine{op: op, text: lineArray[idx]})
			}
		}
	}
	return lines
}

// hunk is the half-open range [start, end) of lines it shows.
type hunk struct {
	start, end int
}

func hunks(lines []diffLine, context int) []hunk {
	var result []hunk
	for i := 0; i < len(lines); i++ {
		if lines[i].op == ' ' {
			continue
		}
		start := max(0, i-context)
		last := i
		for j := i + 1; j < len(lines) && j <= last+2*context; j++ {
			if lines[j].op != ' ' {
				last = j
			}
		}
		end := min(len(lines), last+context+1)
		if n := len(result); n > 0 && start <= result[n-1].end {
			result[n-1].end = end
		} else {
			result = append(result, hunk{start: start, end: end})
		}
		i = last
	}
	return result
}

func writeHunk(sb *strings.Builder, lines []diffLine, h hunk) {
	oldStart, newStart := 1, 1
	for _, l := range lines[:h.start] {
		if l.op != '+' {
			oldStart++
		}
		if l.op != '-' {
			newStart++
		}
	}
	var oldCount, newCount int
	for _, l := range lines[h.start:h.end] {
		if l.op != '+' {
			oldCount++
		}
		if l.op != '-' {
			newCount++
		}
	}
	if oldCount == 0 {
		oldStart--
	}
	if newCount == 0 {
		newStart--
	}

	fmt.Fprintf(sb, "@@ -%d,%d +%d,%d @@\n", oldStart, oldCount, newStart, newCount)
	for _, l := range lines[h.start:h.end] {
		sb.WriteByte(l.op)
		sb.WriteString(l.text)
		if !strings.HasSuffix(l.text, "\n") {
			sb.WriteString("\n\\ No newline at end of file\n")
		}
	}
}
