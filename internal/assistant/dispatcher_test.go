package assistant

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCompleter struct {
	mu      sync.Mutex
	reply   string
	err     error
	prompts []string
}

func (f *fakeCompleter) Complete(_ context.Context, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	return f.reply, f.err
}

func (f *fakeCompleter) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

var clock = time.Date(2024, 3, 10, 15, 4, 5, 0, time.UTC)

func newTestDispatcher(c Completer) *Dispatcher {
	return NewDispatcher(Options{Completer: c, Now: func() time.Time { return clock }})
}

func TestCannedWorkAnswersSkipCompletion(t *testing.T) {
	completer := &fakeCompleter{reply: "generated"}
	d := newTestDispatcher(completer)

	tests := []struct {
		input  string
		prefix string
	}{
		{"Show me my emails", "You have 8 unread emails."},
		{"any new MAIL?", "You have 8 unread emails."},
		{"list my ServiceNow tickets", "You have 7 active ServiceNow tickets"},
		{"gitlab status", "You have 5 GitLab issues assigned"},
		{"what's on my calendar", "You have 4 meetings today"},
		{"open tasks", "You have 12 total tasks"},
		{"give me an overview", "Here's your work summary"},
		// email topic is checked before tickets
		{"email about the ticket", "You have 8 unread emails."},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			resp := d.GetAIResponse(context.Background(), tt.input)
			assert.True(t, strings.HasPrefix(resp.Text, tt.prefix), resp.Text)
			assert.Len(t, resp.FollowUp, 3)
			assert.Equal(t, SourceCanned, resp.Source)
		})
	}
	assert.Zero(t, completer.calls())
}

func TestMailSummaryExact(t *testing.T) {
	d := newTestDispatcher(nil)
	resp := d.GetAIResponse(context.Background(), "Show me my emails")
	assert.Equal(t, cannedTopics[0].text, resp.Text)
	assert.Equal(t, []string{"Show me high priority emails", "What's in the budget review email?", "Schedule time to respond to emails"}, resp.FollowUp)
}

func TestWebSearchPlaceholder(t *testing.T) {
	completer := &fakeCompleter{reply: "generated"}
	d := newTestDispatcher(completer)

	for _, input := range []string{"yes", "Yes please", "search the web for cats"} {
		resp := d.GetAIResponse(context.Background(), input)
		assert.Equal(t, webSearchPlaceholder.Text, resp.Text)
		assert.Equal(t, []string{"Ask from my knowledge", "Show work overview", "Check current tasks"}, resp.FollowUp)
		assert.Equal(t, SourceWebSearch, resp.Source)
	}
	assert.Zero(t, completer.calls())
}

func TestWorkRelatedConfirmationIsNotWebSearch(t *testing.T) {
	d := newTestDispatcher(nil)
	resp := d.GetAIResponse(context.Background(), "yes, show my meetings")
	assert.Equal(t, SourceCanned, resp.Source)
	assert.True(t, strings.HasPrefix(resp.Text, "You have 4 meetings today"))
}

func TestCompletionUsesPreambleByClassification(t *testing.T) {
	t.Run("general", func(t *testing.T) {
		completer := &fakeCompleter{reply: "Paris is the capital of France."}
		d := newTestDispatcher(completer)

		resp := d.GetAIResponse(context.Background(), "What is the capital of France?")
		assert.Equal(t, "Paris is the capital of France.", resp.Text)
		assert.Equal(t, generalCompletionFollowUp, resp.FollowUp)
		assert.Equal(t, SourceCompletion, resp.Source)

		require.Equal(t, 1, completer.calls())
		assert.True(t, strings.HasPrefix(completer.prompts[0], generalPreamble))
		assert.True(t, strings.HasSuffix(completer.prompts[0], "\n\nUser question: What is the capital of France?"))
	})

	t.Run("work without canned topic", func(t *testing.T) {
		completer := &fakeCompleter{reply: "Budget is on track."}
		d := newTestDispatcher(completer)

		resp := d.GetAIResponse(context.Background(), "How is the budget looking?")
		assert.Equal(t, "Budget is on track.", resp.Text)
		assert.Equal(t, workCompletionFollowUp, resp.FollowUp)
		require.Equal(t, 1, completer.calls())
		assert.True(t, strings.HasPrefix(completer.prompts[0], workPreamble))
	})
}

func TestCompletionFailureFallsBackLocally(t *testing.T) {
	completer := &fakeCompleter{err: errors.New("quota exceeded")}
	d := newTestDispatcher(completer)

	resp := d.GetAIResponse(context.Background(), "what's the weather like")
	assert.Equal(t, SourceWeather, resp.Source)
	assert.True(t, strings.HasPrefix(resp.Text, "I don't have access to real-time weather data."))
	assert.Equal(t, 1, completer.calls())
}

func TestLocalFallbacks(t *testing.T) {
	d := newTestDispatcher(nil)

	tests := []struct {
		input    string
		source   Source
		text     string
		followUp []string
	}{
		{
			input:    "Weather today?",
			source:   SourceWeather,
			followUp: []string{"Check today's meetings", "Review pending tasks", "Show email summary"},
		},
		{
			input:    "what time is it",
			source:   SourceClock,
			text:     "Current time: 3:04:05 PM, Date: 3/10/2024. You have several tasks scheduled for today.",
			followUp: []string{"Show today's agenda", "Review upcoming deadlines", "Check meeting schedule"},
		},
		{
			input:  "today's date",
			source: SourceClock,
			text:   "Current time: 3:04:05 PM, Date: 3/10/2024. You have several tasks scheduled for today.",
		},
		{
			input:    "help",
			source:   SourceHelp,
			followUp: []string{"Show work summary", "Ask a general question", "Check current tasks"},
		},
		{
			input:    "tell me a joke",
			source:   SourceDefault,
			text:     "I can help you with work-related tasks and general questions. Try asking about your emails, meetings, tasks, or any topic you're curious about. What would you like to know?",
			followUp: []string{"Show work overview", "Ask about a topic", "Check today's schedule"},
		},
		{
			// work-related but no canned topic and no completion service
			input:  "who approves my budget",
			source: SourceDefault,
		},
		{
			// "todo" alone is not a work keyword, so canned lookup is never reached
			input:  "my todo list",
			source: SourceDefault,
		},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			resp := d.GetAIResponse(context.Background(), tt.input)
			assert.Equal(t, tt.source, resp.Source)
			assert.NotEmpty(t, resp.Text)
			assert.Len(t, resp.FollowUp, 3)
			if tt.text != "" {
				assert.Equal(t, tt.text, resp.Text)
			}
			if tt.followUp != nil {
				assert.Equal(t, tt.followUp, resp.FollowUp)
			}
		})
	}
}

func TestResponsesDoNotShareFollowUps(t *testing.T) {
	d := newTestDispatcher(nil)
	first := d.GetAIResponse(context.Background(), "help")
	first.FollowUp[0] = "mutated"

	second := d.GetAIResponse(context.Background(), "help")
	assert.Equal(t, "Show work summary", second.FollowUp[0])
}

func TestClassifiers(t *testing.T) {
	assert.True(t, IsWorkRelated("Sprint planning"))
	assert.True(t, IsWorkRelated("I need ACCESS"))
	assert.False(t, IsWorkRelated("how tall is everest"))

	assert.True(t, IsWebSearchConfirmation("YES"))
	assert.True(t, IsWebSearchConfirmation("check the website"))
	assert.False(t, IsWebSearchConfirmation("no thanks"))
}
