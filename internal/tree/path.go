// Package tree projects the flat list of stored objects onto a virtual folder
// hierarchy. Objects only carry a virtual path string; directories exist
// implicitly as prefixes of those paths.
package tree

import "strings"

// Separator delimits components of a virtual path.
const Separator = "/"

// Path is a normalized virtual path: an ordered list of non-empty components.
// The zero value is the root path.
type Path struct {
	components []string
}

// NewPath splits raw on the separator and drops empty segments, so leading,
// trailing and repeated separators are irrelevant: "/a//b/" == ["a", "b"].
func NewPath(raw string) Path {
	var components []string
	for _, part := range strings.Split(raw, Separator) {
		if part != "" {
			components = append(components, part)
		}
	}
	return Path{components: components}
}

// PathOf builds a Path directly from components. Empty components are dropped.
func PathOf(components ...string) Path {
	p := Path{}
	for _, c := range components {
		p = p.Join(c)
	}
	return p
}

// Components returns a copy of the path components.
func (p Path) Components() []string {
	out := make([]string, len(p.components))
	copy(out, p.components)
	return out
}

// Len returns the number of components.
func (p Path) Len() int {
	return len(p.components)
}

// IsRoot reports whether the path has no components.
func (p Path) IsRoot() bool {
	return len(p.components) == 0
}

// Name returns the last component, or false for the root path.
func (p Path) Name() (string, bool) {
	if len(p.components) == 0 {
		return "", false
	}
	return p.components[len(p.components)-1], true
}

// Parent returns the path without its last component.
// The parent of a single-component path (and of the root) is the root.
func (p Path) Parent() Path {
	if len(p.components) <= 1 {
		return Path{}
	}
	return Path{components: p.Components()[:len(p.components)-1]}
}

// Join returns a new path with the components of raw appended.
func (p Path) Join(raw string) Path {
	extra := NewPath(raw).components
	if len(extra) == 0 {
		return Path{components: p.Components()}
	}
	out := make([]string, 0, len(p.components)+len(extra))
	out = append(out, p.components...)
	out = append(out, extra...)
	return Path{components: out}
}

// Pop returns a new path with the last component removed.
func (p Path) Pop() Path {
	return p.Parent()
}

// Equal reports whether both paths have the same component sequence.
func (p Path) Equal(other Path) bool {
	if len(p.components) != len(other.components) {
		return false
	}
	for i := range p.components {
		if p.components[i] != other.components[i] {
			return false
		}
	}
	return true
}

// String renders the path with a leading separator; the root renders as "/".
func (p Path) String() string {
	return Separator + strings.Join(p.components, Separator)
}
