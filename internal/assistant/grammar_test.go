package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCorrectInformal(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"i cant come cuz im sick.pls tell u boss", "I can't come because im sick. please tell you boss"},
		{"dont  worry,   ur   report   is  thru tho", "Don't worry, your report is through though"},
		{"we wont   make it .  sorry", "We won't make it. sorry"},
		{"   hello", "hello"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, CorrectInformal(tt.in))
		})
	}
}

func TestRewriteUsesCompletion(t *testing.T) {
	completer := &fakeCompleter{reply: "Dear colleagues, ..."}
	g := NewGrammarRewriter(completer, nil)

	out := g.Rewrite(context.Background(), "pls send report")
	assert.Equal(t, "Dear colleagues, ...", out)
	require.Equal(t, 1, completer.calls())
	assert.True(t, strings.HasSuffix(completer.prompts[0], `"pls send report"`))
}

func TestRewriteKeepsLineBreaksInPrompt(t *testing.T) {
	completer := &fakeCompleter{reply: "ok"}
	NewGrammarRewriter(completer, nil).Rewrite(context.Background(), "hi team\nsee u")

	require.Equal(t, 1, completer.calls())
	assert.True(t, strings.HasSuffix(completer.prompts[0], "\"hi team\nsee u\""))
	assert.NotContains(t, completer.prompts[0], `\n`)
}

func TestRewriteFallsBackToTemplate(t *testing.T) {
	want := fmt.Sprintf(businessTemplate, "Please send report")

	g := NewGrammarRewriter(&fakeCompleter{err: errors.New("down")}, nil)
	assert.Equal(t, want, g.Rewrite(context.Background(), "pls send report"))

	local := NewGrammarRewriter(nil, nil)
	assert.Equal(t, want, local.Rewrite(context.Background(), "pls send report"))
	assert.Equal(t, "", local.Rewrite(context.Background(), "   "))
}
