package dispatch

import (
	"fmt"
	"strings"

	"atlascon/internal/platform/models"
)

// Render produces the notification body for an event. It is pure and
// total: every category renders, and an unknown category yields the empty
// string, which callers treat as "nothing to send".
func Render(ev models.Event) string {
	switch ev.Category {
	case models.CategoryIssueCreated:
		return renderIssue(ev, "created new issue")
	case models.CategoryIssueDeleted:
		return renderIssue(ev, "deleted an issue")
	case models.CategoryIssueUpdated:
		return renderUpdate(ev)
	case models.CategoryCommentCreated:
		return renderComment(ev, "created new comment")
	case models.CategoryCommentUpdated:
		return renderComment(ev, "updated a comment")
	case models.CategoryCommentDeleted:
		return renderComment(ev, "deleted a comment")
	}
	return ""
}

func renderIssue(ev models.Event, verb string) string {
	return fmt.Sprintf("%s %s in project %s\n\nIssue: %s %s\nIssue type: %s\nAssignee: %s",
		ev.Actor, verb, ev.ProjectName,
		ev.IssueKey, ev.Summary,
		ev.IssueType,
		ev.Assignee)
}

func renderUpdate(ev models.Event) string {
	lines := make([]string, 0, len(ev.Changes))
	for _, ch := range ev.Changes {
		lines = append(lines, fmt.Sprintf("%s: %s -> %s", ch.Field, ch.From, ch.To))
	}
	return fmt.Sprintf("%s made changes on an issue in project %s\n\nAffected issue: %s %s\nCHANGELOG\n%s",
		ev.Actor, ev.ProjectName,
		ev.IssueKey, ev.Summary,
		strings.Join(lines, "\n"))
}

func renderComment(ev models.Event, verb string) string {
	return fmt.Sprintf("%s %s on an issue in project %s\n\nIssue: %s %s\nComment: %s",
		ev.Actor, verb, ev.ProjectName,
		ev.IssueKey, ev.Summary,
		ev.CommentBody)
}
