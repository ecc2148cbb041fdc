package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"joiny/internal/domain"
)

type themeService struct {
	themeRepo      domain.ThemeRepository
	catalog        domain.ThemeCatalog
	contextTimeout time.Duration
}

func NewThemeService(themeRepo domain.ThemeRepository, catalog domain.ThemeCatalog, timeout time.Duration) domain.ThemeService {
	return &themeService{
		themeRepo:      themeRepo,
		catalog:        catalog,
		contextTimeout: timeout,
	}
}

func (s *themeService) List(ctx context.Context) ([]*domain.Theme, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	themes, err := s.themeRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list themes: %w", err)
	}
	return themes, nil
}

func (s *themeService) Get(ctx context.Context, id int64) (*domain.Theme, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	theme, err := s.themeRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get theme: %w", err)
	}
	return theme, nil
}

// Seed upserts every catalog theme and returns how many were written.
func (s *themeService) Seed(ctx context.Context) (int, error) {
	themes, err := s.catalog.Load()
	if err != nil {
		return 0, fmt.Errorf("load theme catalog: %w", err)
	}
	n := 0
	for _, t := range themes {
		if t.Name == "" {
			continue
		}
		if err := s.themeRepo.Upsert(ctx, t); err != nil {
			return n, fmt.Errorf("upsert theme %q: %w", t.Name, err)
		}
		n++
	}
	return n, nil
}
