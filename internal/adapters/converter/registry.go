package converter

import (
	"fmt"
	"slices"

	"iconfit/internal/core/domain"
	"iconfit/internal/core/port"

	"github.com/rs/zerolog/log"
)

type Registry struct {
	fitters map[string]port.ImageFitter
}

// NewRegistry returns a registry holding every built-in engine.
func NewRegistry() *Registry {
	r := &Registry{}
	r.Register(NewImagingFitter())
	r.Register(NewNfntFitter())

	return r
}

func (r *Registry) Register(fitter port.ImageFitter) {
	if r.fitters == nil {
		r.fitters = make(map[string]port.ImageFitter)
	}

	log.Debug().Str("engine", fitter.Name()).Msg("adding resize engine to registry")
	r.fitters[fitter.Name()] = fitter
}

func (r *Registry) Get(name string) (port.ImageFitter, error) {
	fitter, ok := r.fitters[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q, available: %v", domain.ErrUnknownEngine, name, r.List())
	}

	return fitter, nil
}

// List returns the registered engine names in sorted order.
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.fitters))
	for k := range r.fitters {
		names = append(names, k)
	}
	slices.Sort(names)

	return names
}
