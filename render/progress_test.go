package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"ghstats/discovery"
	"ghstats/models"
)

func promptCtx() discovery.PromptContext {
	return discovery.PromptContext{
		Window:     models.ActivityWindow{},
		DaysBack:   200,
		KnownRepos: 4,
	}
}

func TestPromptChoice(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected discovery.Choice
	}{
		{"all short", "a\n", discovery.Choice{Kind: discovery.ChoiceAll}},
		{"all long", "ALL\n", discovery.Choice{Kind: discovery.ChoiceAll}},
		{"deep search short", "d\n", discovery.Choice{Kind: discovery.ChoiceDeepSearch}},
		{"deep search long", "deepsearch\n", discovery.Choice{Kind: discovery.ChoiceDeepSearch}},
		{"number sets limit", "25\n", discovery.Choice{Kind: discovery.ChoiceLimit, Limit: 25}},
		{"zero skips", "0\n", discovery.Choice{Kind: discovery.ChoiceSkip}},
		{"empty skips", "\n", discovery.Choice{Kind: discovery.ChoiceSkip}},
		{"garbage skips", "maybe\n", discovery.Choice{Kind: discovery.ChoiceSkip}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var out strings.Builder
			choose := PromptChoice(strings.NewReader(tc.input), &out)

			assert.Equal(t, tc.expected, choose(promptCtx()))
			assert.Contains(t, out.String(), "200 days")
		})
	}
}

func TestPromptChoiceEOFSkips(t *testing.T) {
	var out strings.Builder
	choose := PromptChoice(strings.NewReader(""), &out)

	assert.Equal(t, discovery.Choice{Kind: discovery.ChoiceSkip}, choose(promptCtx()))
}
