package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestExtractLabels(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		wantText   string
		wantLabels []string
	}{
		{
			name:       "labels stripped from text",
			raw:        "Buy milk #shopping #errand",
			wantText:   "Buy milk",
			wantLabels: []string{"shopping", "errand"},
		},
		{
			name:     "no labels",
			raw:      "  Water plants  ",
			wantText: "Water plants",
		},
		{
			name:       "labels only",
			raw:        "#inbox",
			wantText:   "",
			wantLabels: []string{"inbox"},
		},
		{
			name:       "duplicate labels collapse per task",
			raw:        "call mom #family #family",
			wantText:   "call mom",
			wantLabels: []string{"family"},
		},
		{
			name:       "labels are case-sensitive",
			raw:        "review #Work #work",
			wantText:   "review",
			wantLabels: []string{"Work", "work"},
		},
		{
			name:       "label in the middle of the text",
			raw:        "pay #bills rent",
			wantText:   "pay  rent",
			wantLabels: []string{"bills"},
		},
		{
			name:       "digits and underscore are word characters",
			raw:        "sprint review #q3_2026",
			wantText:   "sprint review",
			wantLabels: []string{"q3_2026"},
		},
		{
			name:     "bare marker is not a label",
			raw:      "just a # sign",
			wantText: "just a # sign",
		},
		{
			name:     "empty input",
			raw:      "   ",
			wantText: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, labels := ExtractLabels(tt.raw)
			assert.Equal(t, tt.wantText, text)
			assert.Equal(t, tt.wantLabels, labels)
		})
	}
}

func TestParsePriority(t *testing.T) {
	p, ok := ParsePriority("")
	assert.True(t, ok)
	assert.Equal(t, PriorityMedium, p)

	p, ok = ParsePriority("high")
	assert.True(t, ok)
	assert.Equal(t, PriorityHigh, p)

	_, ok = ParsePriority("urgent")
	assert.False(t, ok)
}

func TestPriorityRank(t *testing.T) {
	assert.Greater(t, PriorityHigh.Rank(), PriorityMedium.Rank())
	assert.Greater(t, PriorityMedium.Rank(), PriorityLow.Rank())
}

func TestNewTaskIDUnique(t *testing.T) {
	now := time.Now()
	seen := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		id := NewTaskID(now)
		_, dup := seen[id]
		assert.False(t, dup, "duplicate id %s", id)
		seen[id] = struct{}{}
	}
}
