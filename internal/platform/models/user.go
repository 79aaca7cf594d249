package models

type User struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
	CreatedAt    int64  `json:"created_at"`

	// Jira account the user registered their webhook against.
	JiraEmail   string `json:"jira_email,omitempty"`
	JiraAPIKey  string `json:"-"`
	JiraBaseURL string `json:"jira_base_url,omitempty"`

	// WebhookURL is the self link of the webhook registered in Jira.
	WebhookURL        string `json:"webhook_url,omitempty"`
	WebhookFunctional bool   `json:"webhook_functional"`
	WebhookLastCheck  int64  `json:"webhook_last_check,omitempty"`
}
