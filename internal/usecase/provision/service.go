// Package provision (re)creates the catalog index.
//
// Provisioning is destructive: the existing index is dropped together with its
// documents before the new one is created, so the catalog must be re-ingested
// afterwards.
package provision

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	domidx "github.com/kailas-cloud/furnimatch/internal/domain/index"
	"github.com/kailas-cloud/furnimatch/internal/logger"
)

// Service provisions one index definition.
type Service struct {
	repo IndexRepository
	def  domidx.Definition
}

// New creates a provisioning service for def.
func New(repo IndexRepository, def domidx.Definition) *Service {
	return &Service{repo: repo, def: def}
}

// Definition returns the declared index.
func (s *Service) Definition() domidx.Definition { return s.def }

// Provision runs the steps in order: synonym maps, validation of the declared
// schema, drop of the existing index, create. The first failing step aborts.
func (s *Service) Provision(ctx context.Context) error {
	log := logger.FromContext(ctx).With(zap.String("index", s.def.Name))

	for _, m := range s.def.SynonymMaps {
		if err := s.repo.UpsertSynonymMap(ctx, m); err != nil {
			return fmt.Errorf("upsert synonym map: %w", err)
		}
		log.Debug("synonym map stored", zap.String("map", m.Name), zap.Int("groups", len(m.Groups)))
	}

	if err := s.def.Validate(); err != nil {
		return fmt.Errorf("declare schema: %w", err)
	}

	if err := s.repo.Drop(ctx, s.def.Name); err != nil {
		return fmt.Errorf("delete existing index: %w", err)
	}
	log.Info("existing index dropped with its documents")

	if err := s.repo.Create(ctx, &s.def); err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	log.Info("index created", zap.Int("fields", len(s.def.Leaves())))
	return nil
}

// Describe returns the stored definition of the provisioned index.
func (s *Service) Describe(ctx context.Context) (domidx.Definition, error) {
	def, err := s.repo.Get(ctx, s.def.Name)
	if err != nil {
		return domidx.Definition{}, fmt.Errorf("describe index: %w", err)
	}
	return def, nil
}
