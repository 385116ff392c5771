package podoc

import "strings"

// chunk splits s into consecutive pieces of at most width runes. Control
// whitespace is flattened to spaces first so every piece prints on one line.
// An empty string yields no pieces.
func chunk(s string, width int) []string {
	runes := []rune(flatten(s))
	if len(runes) == 0 || width <= 0 {
		return nil
	}
	out := make([]string, 0, (len(runes)+width-1)/width)
	for start := 0; start < len(runes); start += width {
		end := min(start+width, len(runes))
		out = append(out, string(runes[start:end]))
	}
	return out
}

var flattener = strings.NewReplacer("\r", " ", "\n", " ", "\t", " ")

func flatten(s string) string {
	return flattener.Replace(s)
}
