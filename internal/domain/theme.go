package domain

import "context"

// Theme is read-only reference data shown when picking an event theme.
// swagger:model Theme
type Theme struct {
	ID          int64   `json:"id" db:"id" yaml:"-"`
	Name        string  `json:"name" db:"name" yaml:"name"`
	Description *string `json:"description" db:"description" yaml:"description"`
}

// ThemeRepository defines storage operations for themes.
type ThemeRepository interface {
	List(ctx context.Context) ([]*Theme, error)
	GetByID(ctx context.Context, id int64) (*Theme, error)
	// Upsert inserts the theme or updates the description of the theme with the same name.
	Upsert(ctx context.Context, theme *Theme) error
}

// ThemeCatalog loads the bundled theme definitions.
type ThemeCatalog interface {
	Load() ([]*Theme, error)
}

// ThemeService lists themes and seeds them from the catalog.
type ThemeService interface {
	List(ctx context.Context) ([]*Theme, error)
	Get(ctx context.Context, id int64) (*Theme, error)
	Seed(ctx context.Context) (int, error)
}
