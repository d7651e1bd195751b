package loantype

import "context"

type Repository interface {
	List(ctx context.Context) ([]Config, error)
	GetByName(ctx context.Context, name string) (*Config, error)
	Create(ctx context.Context, c *Config) error
	Save(ctx context.Context, c *Config) error
	Delete(ctx context.Context, configID string) error
}
