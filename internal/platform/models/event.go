package models

// EventCategory is the wire-format event identifier Jira puts in the
// webhookEvent field. Connector subscriptions store these same strings.
type EventCategory string

const (
	CategoryIssueCreated   EventCategory = "jira:issue_created"
	CategoryIssueUpdated   EventCategory = "jira:issue_updated"
	CategoryIssueDeleted   EventCategory = "jira:issue_deleted"
	CategoryCommentCreated EventCategory = "comment_created"
	CategoryCommentUpdated EventCategory = "comment_updated"
	CategoryCommentDeleted EventCategory = "comment_deleted"
	CategoryUnknown        EventCategory = "unknown"
)

func CategoryFromWebhookEvent(s string) EventCategory {
	switch EventCategory(s) {
	case CategoryIssueCreated, CategoryIssueUpdated, CategoryIssueDeleted,
		CategoryCommentCreated, CategoryCommentUpdated, CategoryCommentDeleted:
		return EventCategory(s)
	}
	return CategoryUnknown
}

func (c EventCategory) IsIssue() bool {
	return c == CategoryIssueCreated || c == CategoryIssueUpdated || c == CategoryIssueDeleted
}

func (c EventCategory) IsComment() bool {
	return c == CategoryCommentCreated || c == CategoryCommentUpdated || c == CategoryCommentDeleted
}

// Change is one changelog item of an issue-updated event.
type Change struct {
	Field string
	From  string
	To    string
}

// Event is the canonical record extracted from one inbound webhook call.
// It is built once by the normalizer and read-only afterward; it is never
// persisted.
type Event struct {
	Timestamp   int64 // epoch millis
	Category    EventCategory
	ProjectID   string
	ProjectName string
	IssueKey    string
	Summary     string
	IssueType   string
	Assignee    string // "-" when the issue is unassigned
	Actor       string
	Changes     []Change // only for issue-updated
	CommentBody string   // only for comment categories
}
