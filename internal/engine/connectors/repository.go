package connectors

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"atlascon/internal/platform/models"
	"atlascon/internal/platform/storage"
)

var (
	ErrNotFound      = errors.New("connector not found")
	ErrAlreadyExists = errors.New("connector name already exists")
)

// Repository stores one YAML document per connector in the object store,
// keyed by connectors/{tenant}/{name}.yml.
type Repository struct {
	store storage.ObjectStore
}

func NewRepository(store storage.ObjectStore) *Repository {
	return &Repository{store: store}
}

func Key(tenantID, name string) string {
	return fmt.Sprintf("connectors/%s/%s.yml", tenantID, name)
}

func prefix(tenantID string) string {
	return fmt.Sprintf("connectors/%s/", tenantID)
}

// List returns every connector owned by the tenant. An unreadable
// document is skipped with a warning rather than failing the whole list.
func (r *Repository) List(ctx context.Context, tenantID string) ([]models.Connector, error) {
	keys, err := r.store.List(ctx, prefix(tenantID))
	if err != nil {
		return nil, err
	}

	var cons []models.Connector
	for _, key := range keys {
		if !strings.HasSuffix(key, ".yml") {
			continue
		}
		body, err := r.store.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		var con models.Connector
		if err := yaml.Unmarshal(body, &con); err != nil {
			log.Warn().Str("key", key).Err(err).Msg("skipping unreadable connector document")
			continue
		}
		cons = append(cons, con)
	}
	return cons, nil
}

func (r *Repository) Get(ctx context.Context, tenantID, name string) (*models.Connector, error) {
	body, err := r.store.Get(ctx, Key(tenantID, name))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var con models.Connector
	if err := yaml.Unmarshal(body, &con); err != nil {
		return nil, err
	}
	return &con, nil
}

func (r *Repository) Exists(ctx context.Context, tenantID, name string) (bool, error) {
	return r.store.Exists(ctx, Key(tenantID, name))
}

func (r *Repository) Put(ctx context.Context, tenantID string, con *models.Connector) error {
	body, err := yaml.Marshal(con)
	if err != nil {
		return err
	}
	return r.store.Put(ctx, Key(tenantID, con.Name), body)
}

func (r *Repository) Delete(ctx context.Context, tenantID, name string) error {
	return r.store.Delete(ctx, Key(tenantID, name))
}
