package profiler

import "strings"

// Humanize turns a column name into a display title: underscores become
// spaces and a space is inserted wherever a lowercase ASCII letter is
// directly followed by an uppercase one ("RestingECG" -> "Resting ECG").
// Runs of capitals are not split ("ECGValue" stays as is).
func Humanize(name string) string {
	s := strings.ReplaceAll(name, "_", " ")

	var b strings.Builder
	b.Grow(len(s) + 4)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if i > 0 && isLower(s[i-1]) && isUpper(c) {
			b.WriteByte(' ')
		}
		b.WriteByte(c)
	}
	return b.String()
}

func isLower(c byte) bool { return c >= 'a' && c <= 'z' }
func isUpper(c byte) bool { return c >= 'A' && c <= 'Z' }
