package module

import "crimecast/internal/services/predictor/domain"

// Ports exposed by the predictor module
type Ports struct {
	Predictor domain.Port
}

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }
