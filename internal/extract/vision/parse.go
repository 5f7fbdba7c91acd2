package vision

import (
	"fmt"
	"strings"
)

// RecoverJSONObject extracts a JSON object from a model reply that may be
// wrapped in markdown code fences or surrounded by stray prose: fences are
// stripped, then the outermost {...} span is sliced out.
func RecoverJSONObject(content string) (string, error) {
	s := strings.TrimSpace(content)
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	s = strings.TrimSpace(s)

	first := strings.Index(s, "{")
	last := strings.LastIndex(s, "}")
	if first == -1 || last == -1 || last < first {
		return "", fmt.Errorf("no JSON object in reply (%d bytes)", len(content))
	}
	return s[first : last+1], nil
}
