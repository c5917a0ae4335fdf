package report

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// SummaryTable renders label/value pairs as aligned lines for the log,
// padding by display width so wide characters line up too.
func SummaryTable(rows [][2]string) []string {
	labelWidth := 0

	for _, r := range rows {
		if w := runewidth.StringWidth(r[0]); w > labelWidth {
			labelWidth = w
		}
	}

	out := make([]string, 0, len(rows))

	for _, r := range rows {
		padding := labelWidth - runewidth.StringWidth(r[0])
		out = append(out, r[0]+strings.Repeat(" ", padding)+"  "+r[1])
	}

	return out
}
