package seeder

import (
	"context"

	"github.com/nihalsingh571/internrecom/internal/database"
)

type Seeder interface {
	Name() string
	Run(ctx context.Context, db database.DB) error
}
