package termhost

import (
	"github.com/ha1tch/diagram-toolkit/pkg/diagram"
	"github.com/ha1tch/diagram-toolkit/pkg/event"
)

// element is a node of the hit-test tree. Attributes follow the names the
// event normalizer probes.
type element struct {
	attrs  map[string]string
	parent *element
}

func newElement(parent *element, typ diagram.ElementType, id string, flags ...string) *element {
	e := &element{
		attrs:  map[string]string{event.AttrType: string(typ)},
		parent: parent,
	}
	if id != "" {
		e.attrs[event.AttrID] = id
	}
	for _, f := range flags {
		e.attrs[f] = "true"
	}
	return e
}

func (e *element) Attr(name string) (string, bool) {
	v, ok := e.attrs[name]
	return v, ok
}

func (e *element) Parent() event.Element {
	if e.parent == nil {
		return nil
	}
	return e.parent
}
