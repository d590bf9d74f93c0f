// Package modkit wires modules: shared deps, build options and the module contract
package modkit

import "crimecast/internal/modkit/module"

// Module is the contract every mountable module satisfies
type Module = module.Module

// Builder constructs a Module from deps and options
type Builder func(Deps, ...Option) Module
