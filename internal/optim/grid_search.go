package optim

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/clothsim/internal/dynamo"
	"github.com/san-kum/clothsim/internal/experiment"
)

// GridSearch evaluates every combination of the named tunables and keeps the
// one that minimises a metric.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Point is one evaluated combination.
type Point struct {
	Params map[string]float64
	Value  float64
	Err    error
}

// Combinations expands the grid in row-major order.
func (g *GridSearch) Combinations() []map[string]float64 {
	out := []map[string]float64{{}}
	for depth, name := range g.paramNames {
		next := make([]map[string]float64, 0, len(out)*len(g.ranges[depth]))
		for _, base := range out {
			for _, v := range g.ranges[depth] {
				c := make(map[string]float64, len(base)+1)
				for k, bv := range base {
					c[k] = bv
				}
				c[name] = v
				next = append(next, c)
			}
		}
		out = next
	}
	return out
}

// Search runs one experiment per grid point concurrently and returns the
// best parameters, the best metric value and every evaluated point.
func (g *GridSearch) Search(
	ctx context.Context,
	base dynamo.Params,
	frames int,
	metricName string,
) (map[string]float64, float64, []Point, error) {
	if len(g.paramNames) != len(g.ranges) {
		return nil, 0, nil, fmt.Errorf("grid: %d names for %d ranges", len(g.paramNames), len(g.ranges))
	}

	registry := experiment.NewRegistry()
	combos := g.Combinations()
	points := make([]Point, len(combos))

	dynamo.ParallelFor(len(combos), 1, func(start, end int) {
		for i := start; i < end; i++ {
			points[i] = evaluate(ctx, registry, base, combos[i], frames, metricName)
		}
	})

	if err := ctx.Err(); err != nil {
		return nil, 0, points, err
	}

	best := math.Inf(1)
	var bestParams map[string]float64
	for _, p := range points {
		if p.Err == nil && p.Value < best {
			best = p.Value
			bestParams = p.Params
		}
	}
	if bestParams == nil {
		return nil, best, points, fmt.Errorf("grid: no point produced %q", metricName)
	}
	return bestParams, best, points, nil
}

func evaluate(ctx context.Context, registry *experiment.Registry, base dynamo.Params, values map[string]float64, frames int, metricName string) Point {
	pt := Point{Params: values, Value: math.Inf(1)}

	p, err := registry.Apply(base, values)
	if err != nil {
		pt.Err = err
		return pt
	}
	exp := experiment.New(experiment.Config{Params: p, Frames: frames})
	if err := exp.Setup(); err != nil {
		pt.Err = err
		return pt
	}
	result, err := exp.Run(ctx)
	if err != nil {
		pt.Err = err
		return pt
	}
	if len(result.Errors) > 0 {
		pt.Err = result.Errors[0]
		return pt
	}
	v, ok := result.Metrics[metricName]
	if !ok {
		pt.Err = fmt.Errorf("unknown metric: %s", metricName)
		return pt
	}
	pt.Value = v
	return pt
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 1 {
		return []float64{lo}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	return out
}

// Rank sorts points by value, failures last.
func Rank(points []Point) []Point {
	out := append([]Point(nil), points...)
	sort.SliceStable(out, func(i, j int) bool {
		if (out[i].Err == nil) != (out[j].Err == nil) {
			return out[i].Err == nil
		}
		return out[i].Value < out[j].Value
	})
	return out
}
