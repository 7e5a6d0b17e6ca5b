package embed

import "context"

// stubValue is the constant every stub vector component is set to.
const stubValue = 0.1

// Stub returns the same constant vector for every text. It lets the pipeline run
// without an embedding service.
type Stub struct {
	dimension int
}

// NewStub creates a stub embedder. A non-positive dimension falls back to DefaultDimension.
func NewStub(dimension int) *Stub {
	if dimension <= 0 {
		dimension = DefaultDimension
	}
	return &Stub{dimension: dimension}
}

func (s *Stub) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	vector := make([]float32, s.dimension)
	for i := range vector {
		vector[i] = stubValue
	}
	return vector, nil
}

func (s *Stub) Dimension() int { return s.dimension }

func (s *Stub) Name() string { return ProviderStub }
