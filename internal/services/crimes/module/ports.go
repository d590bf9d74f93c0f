package module

import "crimecast/internal/services/crimes/domain"

// Ports exposed by the crimes module
type Ports struct {
	Reader domain.Reader
	Writer domain.Writer
	Source domain.RecordSource
}

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }
