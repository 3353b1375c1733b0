package assistant

import "strings"

var workKeywords = []string{
	"email", "mail", "ticket", "servicenow", "gitlab", "issue", "meeting", "calendar",
	"task", "project", "deadline", "schedule", "agenda", "budget", "client",
	"request", "approval", "incident", "change", "resource", "access",
	"sprint", "standup", "review", "presentation", "report", "summary", "overview",
}

var webSearchKeywords = []string{"yes", "search", "web"}

// cannedTopic is a pre-authored work-data summary keyed by topic words.
type cannedTopic struct {
	keywords []string
	text     string
	followUp []string
}

// Checked in order; the first topic with a matching keyword wins.
var cannedTopics = []cannedTopic{
	{
		keywords: []string{"email", "mail"},
		text:     "You have 8 unread emails. 2 are high priority from Sarah Johnson about Q4 Budget Review and Michael Chen about client requirements. 3 emails mention 'Aravind Reddy' in the body - two about project updates and one meeting invitation.",
		followUp: []string{"Show me high priority emails", "What's in the budget review email?", "Schedule time to respond to emails"},
	},
	{
		keywords: []string{"ticket", "servicenow"},
		text:     "You have 7 active ServiceNow tickets: 3 incidents at severity 4 (network issues, login problems, printer maintenance), 2 service requests pending approval (software access, hardware request), and 2 change requests at medium risk (server updates, policy changes).",
		followUp: []string{"Show me high severity tickets", "What are the pending approvals?", "When are the change requests scheduled?"},
	},
	{
		keywords: []string{"gitlab", "issue"},
		text:     "You have 5 GitLab issues assigned: 2 in progress (authentication flow, database optimization), 2 to-do (UI improvements, testing framework), and 1 in review (security patches). The authentication flow implementation is due today.",
		followUp: []string{"Show me overdue issues", "What's the status of security patches?", "Assign issues to team members"},
	},
	{
		keywords: []string{"meeting", "calendar"},
		text:     "You have 4 meetings today: Sprint Planning at 2 PM, Q4 Budget Review at 3:30 PM, and Client Call at 4 PM. Tomorrow you have 3 meetings including 1:1 with manager and team standup.",
		followUp: []string{"Reschedule a meeting", "Prepare agenda for budget review", "Set reminder for client call"},
	},
	{
		keywords: []string{"task", "todo"},
		text:     "You have 12 total tasks: 3 overdue (network connectivity, budget completion, presentation prep), 5 due today (sprint planning, documentation, code review, client follow-up, security update), and 4 upcoming this week.",
		followUp: []string{"Show me overdue tasks", "Mark tasks as complete", "Create new task reminder"},
	},
	{
		keywords: []string{"summary", "overview"},
		text:     "Here's your work summary: 8 emails (2 high priority), 7 ServiceNow tickets (3 incidents, 2 requests), 5 GitLab issues (2 in progress), 4 meetings today, 3 access requests pending, and 3 overdue tasks requiring immediate attention.",
		followUp: []string{"Focus on overdue items", "Show me today's priorities", "Generate weekly report"},
	},
}

func containsAny(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// IsWorkRelated reports whether the message mentions any work keyword.
func IsWorkRelated(message string) bool {
	return containsAny(strings.ToLower(message), workKeywords)
}

// IsWebSearchConfirmation reports whether the message reads as agreeing to a web search.
func IsWebSearchConfirmation(message string) bool {
	return containsAny(strings.ToLower(message), webSearchKeywords)
}

func lookupCanned(message string) (cannedTopic, bool) {
	lower := strings.ToLower(message)
	for _, topic := range cannedTopics {
		if containsAny(lower, topic.keywords) {
			return topic, true
		}
	}
	return cannedTopic{}, false
}
