package nn

import (
	"fmt"
	"strings"

	"github.com/born-ml/gradflow/internal/autodiff"
	"github.com/pkg/errors"
)

// Sequential is a container module that chains multiple modules together.
//
// Each module's output becomes the next module's input.
//
// Example:
//
//	model := nn.NewSequential(linear1, nn.NewTanh(), linear2)
//	output, err := model.Forward(g, input)
type Sequential struct {
	modules []Module
}

// NewSequential creates a new Sequential container.
func NewSequential(modules ...Module) *Sequential {
	return &Sequential{modules: modules}
}

// Forward applies all modules in sequence.
func (s *Sequential) Forward(g *autodiff.Graph, input autodiff.NodeID) (autodiff.NodeID, error) {
	output := input
	for i, module := range s.modules {
		var err error
		if output, err = module.Forward(g, output); err != nil {
			return autodiff.InvalidNode, errors.Wrapf(err, "sequential: module %d", i)
		}
	}
	return output, nil
}

// Parameters returns all parameters from all modules, in module order.
func (s *Sequential) Parameters() []*Parameter {
	var params []*Parameter
	for _, module := range s.modules {
		params = append(params, module.Parameters()...)
	}
	return params
}

// Len returns the number of modules.
func (s *Sequential) Len() int {
	return len(s.modules)
}

// String returns a string representation of the container.
func (s *Sequential) String() string {
	var b strings.Builder
	b.WriteString("Sequential(\n")
	for i, module := range s.modules {
		fmt.Fprintf(&b, "  (%d): %v\n", i, module)
	}
	b.WriteString(")")
	return b.String()
}
