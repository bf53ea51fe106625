package gotaylor

import (
	"reflect"

	"github.com/soypat/gotaylor/taylor"
)

// Registry maps system fields to specialized jet builders. It is passed
// explicitly on the Simulation value; there is no process-wide registry.
// A registered builder must produce bit-identical coefficients to the
// generic recursion in the same ring, so substituting it never changes
// observable numerics.
type Registry[U taylor.Coeff[U]] struct {
	m map[uintptr]JetBuilder[U]
}

// NewRegistry returns an empty registry.
func NewRegistry[U taylor.Coeff[U]]() *Registry[U] {
	return &Registry[U]{m: make(map[uintptr]JetBuilder[U])}
}

// Register associates a specialized builder with the field f. Fields
// are identified by function identity; registering twice for the same
// field replaces the earlier builder.
func (r *Registry[U]) Register(f SystemField[U], b JetBuilder[U]) {
	if f == nil || b == nil {
		throwf("registry: nil field or builder")
	}
	r.m[fieldKey(f)] = b
}

func (r *Registry[U]) lookup(f SystemField[U]) JetBuilder[U] {
	if r == nil || f == nil {
		return nil
	}
	return r.m[fieldKey(f)]
}

func fieldKey(f any) uintptr {
	return reflect.ValueOf(f).Pointer()
}
