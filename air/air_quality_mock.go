package air

import (
	"context"
)

// ConcentrationBehaviorFunc returns a concentration in pcs/0.01cf or an error.
type ConcentrationBehaviorFunc func(ctx context.Context) (float64, error)

var _ ParticleSensor = &MockParticleSensor{}

// MockParticleSensor produces dust readings from a behavior function without
// requiring a board.
//
// Example usage:
//
//	sensor := NewMockParticleSensor(func(ctx context.Context) (float64, error) { return 750, nil })
type MockParticleSensor struct {
	behavior ConcentrationBehaviorFunc
}

func NewMockParticleSensor(behavior ConcentrationBehaviorFunc) *MockParticleSensor {
	return &MockParticleSensor{behavior: behavior}
}

func (m *MockParticleSensor) GetConcentration(ctx context.Context) (float64, error) {
	return m.behavior(ctx)
}
