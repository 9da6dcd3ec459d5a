package nn

import (
	"fmt"

	"github.com/born-ml/gradflow/internal/autodiff"
	"github.com/born-ml/gradflow/internal/tensor"
	"github.com/pkg/errors"
)

// ErrMissingParameter is returned by LoadStateDict when a parameter has no
// entry in the state dictionary.
var ErrMissingParameter = errors.New("missing parameter")

// stateKey names parameter i as "{i}.{name}" so that equally named
// parameters of different layers stay distinct.
func stateKey(i int, p *Parameter) string {
	return fmt.Sprintf("%d.%s", i, p.name)
}

// StateDict copies the current value of every parameter.
//
// State keys: "{param_index}.{param_name}" -> value array.
func StateDict(g *autodiff.Graph, params []*Parameter) map[string]*tensor.Array {
	state := make(map[string]*tensor.Array, len(params))
	for i, p := range params {
		if v := g.Values(p.id); v != nil {
			state[stateKey(i, p)] = v.Clone()
		}
	}
	return state
}

// LoadStateDict writes values exported by StateDict back into the graph.
// Every parameter must be present with its current shape.
func LoadStateDict(g *autodiff.Graph, params []*Parameter, state map[string]*tensor.Array) error {
	for i, p := range params {
		key := stateKey(i, p)
		value, ok := state[key]
		if !ok {
			return errors.Wrapf(ErrMissingParameter, "%q", key)
		}
		if err := g.SetValues(p.id, value); err != nil {
			return errors.Wrapf(err, "load %q", key)
		}
	}
	return nil
}
