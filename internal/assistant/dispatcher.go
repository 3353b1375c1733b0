package assistant

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	workPreamble    = "You are PAL (Personal Assistant Lite), a helpful assistant for UBS employees. The user is asking about work-related topics. Provide helpful responses about work data, tasks, emails, meetings, and suggest actionable follow-ups. Keep responses concise and professional."
	generalPreamble = "You are PAL (Personal Assistant Lite), a helpful AI assistant. The user is asking a general question not related to work. Provide helpful, accurate information from your knowledge base. Keep responses concise and informative. If you don't have current information, mention that your knowledge has a cutoff date."
)

var (
	workCompletionFollowUp    = []string{"Show me more details", "What should I prioritize?", "Set a reminder for this"}
	generalCompletionFollowUp = []string{"Tell me more about this", "Can you explain further?", "What else should I know?"}
)

// Source names the rule that produced a response.
type Source string

const (
	SourceWebSearch  Source = "web_search"
	SourceCanned     Source = "canned"
	SourceCompletion Source = "completion"
	SourceWeather    Source = "weather"
	SourceClock      Source = "clock"
	SourceHelp       Source = "help"
	SourceDefault    Source = "default"
)

// Response is one assistant answer. Source is kept server-side only.
type Response struct {
	Text     string   `json:"response"`
	FollowUp []string `json:"followUp"`
	Source   Source   `json:"-"`
}

// rule pairs a predicate with a responder. A responder may decline by
// returning false, in which case evaluation continues with the next rule.
type rule struct {
	source  Source
	matches func(msg message) bool
	respond func(ctx context.Context, msg message) (Response, bool)
}

// message carries the raw input and its precomputed classification.
type message struct {
	text        string
	lower       string
	workRelated bool
}

// Options configures a Dispatcher.
type Options struct {
	// Completer is nil when no API key is configured.
	Completer Completer
	Now       func() time.Time
	Logger    *zap.Logger
}

// Dispatcher answers free-text input by walking an ordered rule table.
type Dispatcher struct {
	completer Completer
	now       func() time.Time
	logger    *zap.Logger
	rules     []rule
}

// NewDispatcher builds the rule table.
func NewDispatcher(opts Options) *Dispatcher {
	d := &Dispatcher{
		completer: opts.Completer,
		now:       opts.Now,
		logger:    opts.Logger,
	}
	if d.now == nil {
		d.now = time.Now
	}
	if d.logger == nil {
		d.logger = zap.NewNop()
	}

	d.rules = []rule{
		{
			source:  SourceWebSearch,
			matches: func(m message) bool { return IsWebSearchConfirmation(m.text) && !m.workRelated },
			respond: fixed(webSearchPlaceholder),
		},
		{
			source:  SourceCanned,
			matches: func(m message) bool { return m.workRelated },
			respond: d.canned,
		},
		{
			source:  SourceCompletion,
			matches: func(message) bool { return d.completer != nil },
			respond: d.complete,
		},
		{
			source:  SourceWeather,
			matches: contains("weather"),
			respond: fixed(Response{
				Text:     "I don't have access to real-time weather data. You can check weather on Google, Weather.com, or your phone's weather app. Would you like me to help you with your work-related tasks instead?",
				FollowUp: []string{"Check today's meetings", "Review pending tasks", "Show email summary"},
			}),
		},
		{
			source:  SourceClock,
			matches: contains("time", "date"),
			respond: d.clock,
		},
		{
			source:  SourceHelp,
			matches: contains("help"),
			respond: fixed(Response{
				Text:     "I can help you with work-related information (emails, tickets, meetings, tasks) and answer general questions. For work data, I'll provide specific details and suggest follow-up actions. For general questions, I'll give you informative responses based on my knowledge.",
				FollowUp: []string{"Show work summary", "Ask a general question", "Check current tasks"},
			}),
		},
		{
			source:  SourceDefault,
			matches: func(message) bool { return true },
			respond: fixed(Response{
				Text:     "I can help you with work-related tasks and general questions. Try asking about your emails, meetings, tasks, or any topic you're curious about. What would you like to know?",
				FollowUp: []string{"Show work overview", "Ask about a topic", "Check today's schedule"},
			}),
		},
	}
	return d
}

// No search is performed; confirming only yields this placeholder.
var webSearchPlaceholder = Response{
	Text:     "I understand you'd like me to search the web, but I don't currently have access to real-time web search. I can help answer questions based on my knowledge base or assist with your work-related tasks instead.",
	FollowUp: []string{"Ask from my knowledge", "Show work overview", "Check current tasks"},
}

// GetAIResponse returns the answer of the first rule that matches and does
// not decline. It never fails.
func (d *Dispatcher) GetAIResponse(ctx context.Context, text string) Response {
	msg := message{
		text:        text,
		lower:       strings.ToLower(text),
		workRelated: IsWorkRelated(text),
	}
	for _, r := range d.rules {
		if !r.matches(msg) {
			continue
		}
		if resp, ok := r.respond(ctx, msg); ok {
			resp.Source = r.source
			return resp
		}
	}
	// unreachable: the default rule always answers
	return Response{Source: SourceDefault}
}

func (d *Dispatcher) canned(_ context.Context, msg message) (Response, bool) {
	topic, ok := lookupCanned(msg.text)
	if !ok {
		return Response{}, false
	}
	return Response{Text: topic.text, FollowUp: cloneStrings(topic.followUp)}, true
}

func (d *Dispatcher) complete(ctx context.Context, msg message) (Response, bool) {
	preamble, followUp := generalPreamble, generalCompletionFollowUp
	if msg.workRelated {
		preamble, followUp = workPreamble, workCompletionFollowUp
	}

	text, err := d.completer.Complete(ctx, fmt.Sprintf("%s\n\nUser question: %s", preamble, msg.text))
	if err != nil {
		d.logger.Warn("completion failed; falling back to local responses", zap.Error(err))
		return Response{}, false
	}
	return Response{Text: text, FollowUp: cloneStrings(followUp)}, true
}

func (d *Dispatcher) clock(_ context.Context, _ message) (Response, bool) {
	now := d.now()
	return Response{
		Text:     fmt.Sprintf("Current time: %s, Date: %s. You have several tasks scheduled for today.", now.Format("3:04:05 PM"), now.Format("1/2/2006")),
		FollowUp: []string{"Show today's agenda", "Review upcoming deadlines", "Check meeting schedule"},
	}, true
}

func contains(keywords ...string) func(message) bool {
	return func(m message) bool { return containsAny(m.lower, keywords) }
}

func fixed(resp Response) func(context.Context, message) (Response, bool) {
	return func(context.Context, message) (Response, bool) {
		return Response{Text: resp.Text, FollowUp: cloneStrings(resp.FollowUp)}, true
	}
}

func cloneStrings(in []string) []string {
	return append([]string(nil), in...)
}
