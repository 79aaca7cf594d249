package events

import (
	"github.com/goccy/go-json"

	"atlascon/internal/platform/models"
)

// Normalize extracts the canonical event record from a raw webhook body.
// Every lookup is best-effort: a malformed or partial payload degrades to
// the field's documented default instead of failing, so the dispatch path
// stays available no matter what Jira sends.
func Normalize(raw []byte) models.Event {
	var doc map[string]interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		doc = nil
	}

	ev := models.Event{
		Timestamp:   digInt64(doc, "timestamp"),
		Category:    models.CategoryFromWebhookEvent(digString(doc, "webhookEvent")),
		ProjectID:   digString(doc, "issue", "fields", "project", "id"),
		ProjectName: digString(doc, "issue", "fields", "project", "name"),
		IssueKey:    digString(doc, "issue", "key"),
		Summary:     digString(doc, "issue", "fields", "summary"),
		IssueType:   digString(doc, "issue", "fields", "issuetype", "name"),
	}

	// "-" marks a genuinely unassigned issue, as opposed to "" which
	// would mean the assignee node was present but unreadable.
	ev.Assignee = digStringDefault(doc, "-", "issue", "fields", "assignee", "displayName")

	switch {
	case ev.Category.IsIssue():
		ev.Actor = digString(doc, "user", "displayName")
		if ev.Category == models.CategoryIssueUpdated {
			ev.Changes = digChanges(doc)
		}
	case ev.Category.IsComment():
		ev.Actor = digString(doc, "comment", "updateAuthor", "displayName")
		ev.CommentBody = digString(doc, "comment", "body")
	}

	return ev
}

func digChanges(doc map[string]interface{}) []models.Change {
	items, ok := dig(doc, "changelog", "items").([]interface{})
	if !ok {
		return nil
	}

	changes := make([]models.Change, 0, len(items))
	for _, raw := range items {
		item, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		changes = append(changes, models.Change{
			Field: digStringDefault(item, "-", "field"),
			From:  digStringDefault(item, "-", "fromString"),
			To:    digStringDefault(item, "-", "toString"),
		})
	}
	return changes
}

// dig walks nested objects along path, returning nil when any hop is
// missing or not an object.
func dig(doc map[string]interface{}, path ...string) interface{} {
	var cur interface{} = doc
	for _, key := range path {
		obj, ok := cur.(map[string]interface{})
		if !ok {
			return nil
		}
		cur, ok = obj[key]
		if !ok {
			return nil
		}
	}
	return cur
}

func digString(doc map[string]interface{}, path ...string) string {
	return digStringDefault(doc, "", path...)
}

func digStringDefault(doc map[string]interface{}, def string, path ...string) string {
	if s, ok := dig(doc, path...).(string); ok {
		return s
	}
	return def
}

func digInt64(doc map[string]interface{}, path ...string) int64 {
	if f, ok := dig(doc, path...).(float64); ok {
		return int64(f)
	}
	return 0
}
