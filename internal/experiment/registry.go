package experiment

import (
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/clothsim/internal/dynamo"
)

// Registry maps tunable names to setters on dynamo.Params so sweeps can be
// described by name.
type Registry struct {
	setters map[string]func(*dynamo.Params, float64)
}

func NewRegistry() *Registry {
	r := &Registry{setters: make(map[string]func(*dynamo.Params, float64))}

	r.setters["iterations"] = func(p *dynamo.Params, v float64) { p.Iterations = int(math.Round(v)) }
	r.setters["stiffness"] = func(p *dynamo.Params, v float64) { p.Stiffness = v }
	r.setters["gravity"] = func(p *dynamo.Params, v float64) { p.Gravity = v }
	r.setters["dt"] = func(p *dynamo.Params, v float64) { p.Dt = v }
	r.setters["wind"] = func(p *dynamo.Params, v float64) { p.WindStrength = v }
	r.setters["speed"] = func(p *dynamo.Params, v float64) { p.WindSpeed = v }
	r.setters["seed"] = func(p *dynamo.Params, v float64) { p.Seed = int64(v) }
	r.setters["cols"] = func(p *dynamo.Params, v float64) { p.Cols = int(math.Round(v)) }
	r.setters["rows"] = func(p *dynamo.Params, v float64) { p.Rows = int(math.Round(v)) }

	return r
}

// Set assigns v to the named tunable of p.
func (r *Registry) Set(p *dynamo.Params, name string, v float64) error {
	fn, ok := r.setters[name]
	if !ok {
		return fmt.Errorf("unknown parameter: %s", name)
	}
	fn(p, v)
	return nil
}

// Apply sets every named value and validates the result.
func (r *Registry) Apply(base dynamo.Params, values map[string]float64) (dynamo.Params, error) {
	p := base
	for name, v := range values {
		if err := r.Set(&p, name, v); err != nil {
			return p, err
		}
	}
	if err := p.Validate(); err != nil {
		return p, err
	}
	return p, nil
}

func (r *Registry) ListParams() []string {
	names := make([]string, 0, len(r.setters))
	for name := range r.setters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
