package dispatch

import (
	"strings"
	"testing"

	"atlascon/internal/platform/models"
)

func TestRender_IssueCreated(t *testing.T) {
	ev := models.Event{
		Category:    models.CategoryIssueCreated,
		Actor:       "Rin",
		ProjectName: "Platform",
		IssueKey:    "PRJ-42",
		Summary:     "Fix the login flow",
		IssueType:   "Bug",
		Assignee:    "Dewi",
	}

	got := Render(ev)

	for _, want := range []string{
		"Rin created new issue in project Platform",
		"Issue: PRJ-42 Fix the login flow",
		"Issue type: Bug",
		"Assignee: Dewi",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Expected body to contain %q, got:\n%s", want, got)
		}
	}
}

func TestRender_IssueDeletedVerb(t *testing.T) {
	ev := models.Event{Category: models.CategoryIssueDeleted, Actor: "Rin", ProjectName: "Platform"}
	if !strings.Contains(Render(ev), "Rin deleted an issue in project Platform") {
		t.Errorf("Unexpected deleted render: %s", Render(ev))
	}
}

func TestRender_IssueUpdatedChangelog(t *testing.T) {
	ev := models.Event{
		Category:    models.CategoryIssueUpdated,
		Actor:       "Rin",
		ProjectName: "Platform",
		IssueKey:    "PRJ-42",
		Summary:     "Fix the login flow",
		Changes: []models.Change{
			{Field: "status", From: "To Do", To: "In Progress"},
			{Field: "priority", From: "-", To: "High"},
		},
	}

	got := Render(ev)

	if !strings.Contains(got, "Rin made changes on an issue in project Platform") {
		t.Errorf("Missing header in:\n%s", got)
	}
	if !strings.Contains(got, "CHANGELOG") {
		t.Errorf("Missing CHANGELOG marker in:\n%s", got)
	}
	if !strings.Contains(got, "status: To Do -> In Progress") {
		t.Errorf("Missing status change line in:\n%s", got)
	}
	if !strings.Contains(got, "priority: - -> High") {
		t.Errorf("Missing priority change line in:\n%s", got)
	}
}

func TestRender_Comments(t *testing.T) {
	tests := []struct {
		category models.EventCategory
		verb     string
	}{
		{models.CategoryCommentCreated, "created new comment"},
		{models.CategoryCommentUpdated, "updated a comment"},
		{models.CategoryCommentDeleted, "deleted a comment"},
	}

	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			ev := models.Event{
				Category:    tt.category,
				Actor:       "Dewi",
				ProjectName: "Platform",
				IssueKey:    "PRJ-42",
				Summary:     "Fix the login flow",
				CommentBody: "LGTM",
			}

			got := Render(ev)
			if !strings.Contains(got, "Dewi "+tt.verb+" on an issue in project Platform") {
				t.Errorf("Missing verb %q in:\n%s", tt.verb, got)
			}
			if !strings.Contains(got, "Comment: LGTM") {
				t.Errorf("Missing comment body in:\n%s", got)
			}
		})
	}
}

func TestRender_UnknownIsEmpty(t *testing.T) {
	if got := Render(models.Event{Category: models.CategoryUnknown}); got != "" {
		t.Errorf("Expected empty render for unknown category, got %q", got)
	}
}
