package model

import (
	"regexp"
	"strings"
)

var labelPattern = regexp.MustCompile(`#\w+`)

// ExtractLabels pulls #label tokens out of raw task input. Every maximal
// `#` + word-characters run becomes a label (marker stripped, case kept,
// de-duplicated per task in first-seen order); the matches are removed from
// the input and the remainder is trimmed to become the task text.
func ExtractLabels(raw string) (text string, labels []string) {
	seen := make(map[string]struct{})
	for _, match := range labelPattern.FindAllString(raw, -1) {
		name := strings.TrimPrefix(match, "#")
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		labels = append(labels, name)
	}
	text = strings.TrimSpace(labelPattern.ReplaceAllString(raw, ""))
	return text, labels
}
