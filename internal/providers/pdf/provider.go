package pdf

import (
	"context"
	"io"
)

// Provider renders guest-facing documents.
type Provider interface {
	GenerateFolioStatement(ctx context.Context, data StatementData) (io.Reader, error)
}

// NoOpProvider renders nothing; callers treat a nil document as unavailable.
type NoOpProvider struct{}

func (p *NoOpProvider) GenerateFolioStatement(ctx context.Context, data StatementData) (io.Reader, error) {
	return nil, nil
}
