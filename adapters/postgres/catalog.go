package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"healthdash/domain/indicator"
	"healthdash/ports"
)

// catalogGateway implements the CatalogGateway interface over the dropdown
// catalog tables.
type catalogGateway struct {
	db *sqlx.DB
}

// NewCatalogGateway creates a catalog gateway.
func NewCatalogGateway(db *sqlx.DB) ports.CatalogGateway {
	return &catalogGateway{db: db}
}

func (g *catalogGateway) States(ctx context.Context) ([]indicator.State, error) {
	var out []indicator.State
	err := g.db.SelectContext(ctx, &out,
		`SELECT state_id, state_name, state_acronym FROM states ORDER BY state_name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query states: %w", err)
	}
	return out, nil
}

func (g *catalogGateway) Districts(ctx context.Context, stateID *int64) ([]indicator.District, error) {
	var out []indicator.District
	var err error
	if stateID == nil {
		err = g.db.SelectContext(ctx, &out,
			`SELECT district_id, state_id, district_name FROM districts ORDER BY district_name`)
	} else {
		err = g.db.SelectContext(ctx, &out,
			`SELECT district_id, state_id, district_name FROM districts WHERE state_id = $1 ORDER BY district_name`,
			*stateID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query districts: %w", err)
	}
	return out, nil
}

func (g *catalogGateway) Indicators(ctx context.Context) ([]indicator.Meta, error) {
	var out []indicator.Meta
	err := g.db.SelectContext(ctx, &out,
		`SELECT i.indicator_id, i.indicator_name, i.indicator_type_id, c.categories AS indicator_type
		FROM indicators i
		JOIN categories c ON c.categories_id = i.indicator_type_id
		ORDER BY i.indicator_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query indicators: %w", err)
	}
	return out, nil
}

func (g *catalogGateway) Categories(ctx context.Context) ([]indicator.Category, error) {
	var out []indicator.Category
	err := g.db.SelectContext(ctx, &out,
		`SELECT categories_id, categories FROM categories ORDER BY categories_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	return out, nil
}

func (g *catalogGateway) IndicatorsByCategory(ctx context.Context, categoryID int64) ([]indicator.Meta, error) {
	var out []indicator.Meta
	err := g.db.SelectContext(ctx, &out,
		`SELECT i.indicator_id, i.indicator_name, i.indicator_type_id, c.categories AS indicator_type
		FROM indicators i
		JOIN categories c ON c.categories_id = i.indicator_type_id
		WHERE i.indicator_type_id = $1
		ORDER BY i.indicator_id`, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to query indicators by category: %w", err)
	}
	return out, nil
}
