package config

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Diff renders the line changes between the YAML forms of two
// configurations, "-" for lines only in from and "+" for lines only in to.
// It returns "" when they are equal.
func Diff(from, to *Config) (string, error) {
	a, err := from.Marshal()
	if err != nil {
		return "", err
	}
	b, err := to.Marshal()
	if err != nil {
		return "", err
	}

	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = 0

	// Line-level reduction keeps whole YAML lines together.
	ca, cb, lines := dmp.DiffLinesToChars(string(a), string(b))
	diffs := dmp.DiffMain(ca, cb, false)
	diffs = dmp.DiffCharsToLines(diffs, lines)

	var sb strings.Builder
	for _, d := range diffs {
		var prefix string
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "- "
		case diffmatchpatch.DiffInsert:
			prefix = "+ "
		default:
			continue
		}
		for _, line := range strings.Split(strings.TrimSuffix(d.Text, "\n"), "\n") {
			sb.WriteString(prefix)
			sb.WriteString(line)
			sb.WriteByte('\n')
		}
	}
	return sb.String(), nil
}
