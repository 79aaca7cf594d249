package repositories

import (
	"database/sql"
	"errors"

	"atlascon/internal/platform/models"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrUsernameTaken = errors.New("username already taken")
)

const userSchema = `
CREATE TABLE IF NOT EXISTS users (
	id TEXT PRIMARY KEY,
	username TEXT UNIQUE NOT NULL,
	password_hash TEXT NOT NULL,
	created_at INTEGER NOT NULL,
	jira_email TEXT NOT NULL DEFAULT '',
	jira_api_key TEXT NOT NULL DEFAULT '',
	jira_base_url TEXT NOT NULL DEFAULT '',
	webhook_url TEXT NOT NULL DEFAULT '',
	webhook_functional INTEGER NOT NULL DEFAULT 0,
	webhook_last_check INTEGER NOT NULL DEFAULT 0
);
`

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Migrate creates the users table if it does not exist yet.
func (r *UserRepository) Migrate() error {
	_, err := r.db.Exec(userSchema)
	return err
}

func (r *UserRepository) Create(user *models.User) error {
	var exists int
	err := r.db.QueryRow(`SELECT COUNT(1) FROM users WHERE username = ?`, user.Username).Scan(&exists)
	if err != nil {
		return err
	}
	if exists > 0 {
		return ErrUsernameTaken
	}

	_, err = r.db.Exec(`
		INSERT INTO users (id, username, password_hash, created_at)
		VALUES (?, ?, ?, ?)`,
		user.ID, user.Username, user.PasswordHash, user.CreatedAt)
	return err
}

func (r *UserRepository) GetByUsername(username string) (*models.User, error) {
	return r.getOne(`WHERE username = ?`, username)
}

func (r *UserRepository) GetByID(id string) (*models.User, error) {
	return r.getOne(`WHERE id = ?`, id)
}

func (r *UserRepository) getOne(where string, arg interface{}) (*models.User, error) {
	row := r.db.QueryRow(`
		SELECT id, username, password_hash, created_at,
		       jira_email, jira_api_key, jira_base_url,
		       webhook_url, webhook_functional, webhook_last_check
		FROM users `+where, arg)

	var u models.User
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt,
		&u.JiraEmail, &u.JiraAPIKey, &u.JiraBaseURL,
		&u.WebhookURL, &u.WebhookFunctional, &u.WebhookLastCheck)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// SetJiraAccount stores the user's Jira credentials and registered
// webhook URL after a successful registration.
func (r *UserRepository) SetJiraAccount(id, email, apiKey, baseURL, webhookURL string) error {
	res, err := r.db.Exec(`
		UPDATE users
		SET jira_email = ?, jira_api_key = ?, jira_base_url = ?,
		    webhook_url = ?, webhook_functional = 1
		WHERE id = ?`,
		email, apiKey, baseURL, webhookURL, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *UserRepository) SetWebhookHealth(id string, functional bool, checkedAt int64) error {
	res, err := r.db.Exec(`
		UPDATE users
		SET webhook_functional = ?, webhook_last_check = ?
		WHERE id = ?`,
		functional, checkedAt, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *UserRepository) Delete(id string) error {
	res, err := r.db.Exec(`DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// ListWithWebhook returns every user that has a registered Jira webhook;
// the health-check worker iterates them.
func (r *UserRepository) ListWithWebhook() ([]*models.User, error) {
	rows, err := r.db.Query(`
		SELECT id, username, password_hash, created_at,
		       jira_email, jira_api_key, jira_base_url,
		       webhook_url, webhook_functional, webhook_last_check
		FROM users WHERE webhook_url != ''`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt,
			&u.JiraEmail, &u.JiraAPIKey, &u.JiraBaseURL,
			&u.WebhookURL, &u.WebhookFunctional, &u.WebhookLastCheck); err != nil {
			return nil, err
		}
		users = append(users, &u)
	}
	return users, rows.Err()
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}
