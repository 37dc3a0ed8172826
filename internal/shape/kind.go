// Package shape tessellates the analytic primitives (cube, sphere, cone, cylinder)
// into interleaved triangle lists.
package shape

import (
	"fmt"
	"strings"
)

// Kind identifies a tessellated primitive.
type Kind int

const (
	Cube Kind = iota
	Sphere
	Cone
	Cylinder
)

var kindNames = [...]string{"cube", "sphere", "cone", "cylinder"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind maps a primitive name to its Kind.
func ParseKind(name string) (Kind, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range kindNames {
		if n == name {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("shape: unknown primitive %q", name)
}

// Clamp raises p1 and p2 to the minimum resolution supported by kind.
// The cube ignores p2.
func Clamp(kind Kind, p1, p2 int) (int, int) {
	minP1 := 1
	if kind == Sphere {
		minP1 = 2
	}
	if p1 < minP1 {
		p1 = minP1
	}
	if kind == Cube {
		return p1, 0
	}
	if p2 < 3 {
		p2 = 3
	}
	return p1, p2
}

// VertexCount returns the exact number of vertices Tessellate emits.
func VertexCount(kind Kind, p1, p2 int) int {
	p1, p2 = Clamp(kind, p1, p2)
	switch kind {
	case Cube:
		return 6 * 2 * 3 * p1 * p1
	case Sphere:
		return 3 * p2 * (2*p1 - 2)
	case Cylinder:
		return 3 * p2 * (6*p1 - 2)
	case Cone:
		return 3 * 2 * p2 * (2*p1 - 1)
	}
	return 0
}
