package parser

import (
	"github.com/arlyon/async-stripe-sub040/internal/ir"
	"github.com/arlyon/async-stripe-sub040/oaserrors"
)

// Resolver follows $ref pointers lazily. Components being followed are
// marked on a stack; re-entering a marked component reports a circular
// reference instead of recursing.
//
// A Resolver is not safe for concurrent use.
type Resolver struct {
	doc     *Document
	stack   []ir.ComponentPath
	onStack map[ir.ComponentPath]bool
}

// Resolve follows a chain of references starting at s and returns the first
// non-reference schema with the component path it was found at. A schema
// that is not a reference is returned unchanged with an empty path.
func (r *Resolver) Resolve(s *Schema) (*Schema, ir.ComponentPath, error) {
	var path ir.ComponentPath
	seen := make(map[ir.ComponentPath]bool)
	for s.IsRef() {
		p, ok := s.RefPath()
		if !ok {
			return nil, "", &oaserrors.ReferenceError{Ref: s.Ref, Component: string(r.Current()), Message: "only local component references are supported"}
		}
		if seen[p] {
			return nil, "", &oaserrors.ReferenceError{Ref: s.Ref, Component: string(r.Current()), IsCircular: true}
		}
		seen[p] = true
		target, ok := r.doc.Component(p)
		if !ok {
			return nil, "", &oaserrors.ReferenceError{Ref: s.Ref, Component: string(r.Current()), Message: "component not found"}
		}
		s, path = target, p
	}
	return s, path, nil
}

// Enter marks path as being followed. It fails with a circular
// ReferenceError when path is already on the stack.
func (r *Resolver) Enter(path ir.ComponentPath) error {
	if r.onStack[path] {
		return &oaserrors.ReferenceError{Ref: path.Ref(), Component: string(r.Current()), IsCircular: true}
	}
	r.onStack[path] = true
	r.stack = append(r.stack, path)
	return nil
}

// Leave pops path from the stack. It must pair with a successful Enter.
func (r *Resolver) Leave(path ir.ComponentPath) {
	delete(r.onStack, path)
	if n := len(r.stack); n > 0 && r.stack[n-1] == path {
		r.stack = r.stack[:n-1]
	}
}

// Current returns the innermost component being followed, or "".
func (r *Resolver) Current() ir.ComponentPath {
	if len(r.stack) == 0 {
		return ""
	}
	return r.stack[len(r.stack)-1]
}

// Depth returns the number of components on the stack.
func (r *Resolver) Depth() int {
	return len(r.stack)
}

// Exists reports whether the document defines path.
func (r *Resolver) Exists(path ir.ComponentPath) bool {
	_, ok := r.doc.Component(path)
	return ok
}
