package experiment

import (
	"context"
	"errors"
	"testing"

	"github.com/san-kum/clothsim/internal/dynamo"
)

func TestExperimentRun(t *testing.T) {
	exp := New(Config{Params: dynamo.DefaultParams(), Frames: 30, Record: true, RecordEvery: 10})
	if _, err := exp.Run(context.Background()); err == nil {
		t.Error("expected error before Setup")
	}
	if err := exp.Setup(); err != nil {
		t.Fatal(err)
	}
	result, err := exp.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if result.Frames != 30 || len(result.Positions) != 4 {
		t.Errorf("frames %d snapshots %d, want 30 and 4", result.Frames, len(result.Positions))
	}
	if _, ok := result.Metrics["max_stretch"]; !ok {
		t.Error("standard metrics not attached")
	}
	if exp.GetSimulator() == nil {
		t.Error("simulator not exposed")
	}
}

func TestExperimentSetupInvalid(t *testing.T) {
	p := dynamo.DefaultParams()
	p.Stiffness = 0
	if err := New(Config{Params: p, Frames: 1}).Setup(); !errors.Is(err, dynamo.ErrParameterBounds) {
		t.Errorf("err = %v, want ErrParameterBounds", err)
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	p, err := r.Apply(dynamo.DefaultParams(), map[string]float64{
		"iterations": 19.6,
		"stiffness":  0.75,
		"wind":       3,
	})
	if err != nil {
		t.Fatal(err)
	}
	if p.Iterations != 20 || p.Stiffness != 0.75 || p.WindStrength != 3 {
		t.Errorf("params = %+v", p)
	}

	if _, err := r.Apply(dynamo.DefaultParams(), map[string]float64{"colour": 1}); err == nil {
		t.Error("expected error for unknown parameter")
	}
	if _, err := r.Apply(dynamo.DefaultParams(), map[string]float64{"stiffness": 2}); !errors.Is(err, dynamo.ErrParameterBounds) {
		t.Errorf("err = %v, want ErrParameterBounds", err)
	}

	names := r.ListParams()
	if len(names) == 0 || names[0] != "cols" {
		t.Errorf("ListParams() = %v", names)
	}
}
