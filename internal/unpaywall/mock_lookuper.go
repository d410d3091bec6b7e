package unpaywall

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockLookuper is a mock implementation of Lookuper using testify/mock.
type MockLookuper struct {
	mock.Mock
}

func (m *MockLookuper) Lookup(ctx context.Context, doi string) (Location, error) {
	args := m.Called(ctx, doi)
	return args.Get(0).(Location), args.Error(1)
}
