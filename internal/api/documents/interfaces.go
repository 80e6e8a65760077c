package documents

import (
	"context"

	"github.com/futig/support-backend/internal/entity"
	"github.com/futig/support-backend/internal/vectorstore"
)

type Ingester interface {
	IngestAll(ctx context.Context, tenantID string, force bool) (*entity.IngestResult, error)
}

type IndexManager interface {
	Get(tenantID string) (*vectorstore.Index, error)
	Clear(tenantID string) error
}
