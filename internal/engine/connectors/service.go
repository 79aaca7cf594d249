package connectors

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"atlascon/internal/engine/channels"
	"atlascon/internal/engine/logs"
	"atlascon/internal/platform/models"
)

// Service implements connector CRUD on top of the repository: uniqueness
// checks, credential validation on update, and keeping the delivery log
// in step with its connector.
type Service struct {
	repo     *Repository
	recorder *logs.Recorder
	factory  *channels.Factory
}

func NewService(repo *Repository, recorder *logs.Recorder, factory *channels.Factory) *Service {
	return &Service{repo: repo, recorder: recorder, factory: factory}
}

func (s *Service) List(ctx context.Context, tenantID string) ([]models.Connector, error) {
	return s.repo.List(ctx, tenantID)
}

func (s *Service) Get(ctx context.Context, tenantID, name string) (*models.Connector, error) {
	return s.repo.Get(ctx, tenantID, name)
}

func (s *Service) Create(ctx context.Context, tenantID string, con *models.Connector) error {
	if err := Validate(con); err != nil {
		return err
	}

	exists, err := s.repo.Exists(ctx, tenantID, con.Name)
	if err != nil {
		return err
	}
	if exists {
		return ErrAlreadyExists
	}

	con.CreatedAt = time.Now()
	con.UpdatedAt = nil
	if err := s.repo.Put(ctx, tenantID, con); err != nil {
		return err
	}

	// Seed an empty log so reads never 404 for a live connector.
	if err := s.recorder.Init(ctx, tenantID, con.Name); err != nil {
		return err
	}
	return nil
}

// Update overwrites an existing connector. The new credential is proven
// with a test call before anything is persisted. On rename the delivery
// log follows the connector and the old document is removed.
func (s *Service) Update(ctx context.Context, tenantID, targetName string, con *models.Connector) error {
	if err := Validate(con); err != nil {
		return err
	}

	existing, err := s.repo.Exists(ctx, tenantID, targetName)
	if err != nil {
		return err
	}
	if !existing {
		return ErrNotFound
	}

	if con.Name != targetName {
		collision, err := s.repo.Exists(ctx, tenantID, con.Name)
		if err != nil {
			return err
		}
		if collision {
			return ErrAlreadyExists
		}
	}

	ch := s.factory.For(con)
	if ch == nil {
		return fmt.Errorf("unknown channel type %q", con.ChannelType)
	}
	if err := ch.Validate(ctx); err != nil {
		return err
	}

	prev, err := s.repo.Get(ctx, tenantID, targetName)
	if err != nil {
		return err
	}
	con.CreatedAt = prev.CreatedAt
	now := time.Now()
	con.UpdatedAt = &now

	if err := s.repo.Put(ctx, tenantID, con); err != nil {
		return err
	}

	if con.Name != targetName {
		if err := s.recorder.Move(ctx, tenantID, targetName, con.Name); err != nil {
			return err
		}
		if err := s.repo.Delete(ctx, tenantID, targetName); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) Delete(ctx context.Context, tenantID, name string) error {
	exists, err := s.repo.Exists(ctx, tenantID, name)
	if err != nil {
		return err
	}
	if !exists {
		return ErrNotFound
	}

	if err := s.repo.Delete(ctx, tenantID, name); err != nil {
		return err
	}

	// The log going with it is best effort; the connector is already gone.
	if err := s.recorder.Delete(ctx, tenantID, name); err != nil {
		log.Warn().Str("connector", name).Err(err).Msg("failed to delete connector log")
	}
	return nil
}

func (s *Service) GetLog(ctx context.Context, tenantID, name string) ([]models.DeliveryLogEntry, error) {
	exists, err := s.repo.Exists(ctx, tenantID, name)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrNotFound
	}
	return s.recorder.Read(ctx, tenantID, name)
}
