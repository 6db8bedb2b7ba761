package tree

import (
	"reflect"
	"testing"
)

func TestNewPath_Components(t *testing.T) {
	testCases := []struct {
		raw      string
		expected []string
	}{
		{raw: "", expected: []string{}},
		{raw: "/", expected: []string{}},
		{raw: "///", expected: []string{}},
		{raw: "a", expected: []string{"a"}},
		{raw: "/a//b/", expected: []string{"a", "b"}},
		{raw: "a/b/c", expected: []string{"a", "b", "c"}},
		{raw: "//docs///2024//report.pdf", expected: []string{"docs", "2024", "report.pdf"}},
		{raw: " / x", expected: []string{" ", " x"}},
	}

	for _, tc := range testCases {
		got := NewPath(tc.raw).Components()
		if !reflect.DeepEqual(got, tc.expected) {
			t.Errorf("NewPath(%q).Components() = %q, want %q", tc.raw, got, tc.expected)
		}
		for _, c := range got {
			if c == "" {
				t.Errorf("NewPath(%q) produced an empty component", tc.raw)
			}
		}
	}
}

func TestPath_Parent(t *testing.T) {
	if got := PathOf("a", "b", "c").Parent(); !got.Equal(PathOf("a", "b")) {
		t.Errorf("parent of a/b/c = %s, want /a/b", got)
	}
	if got := PathOf("a").Parent(); !got.Equal(PathOf()) {
		t.Errorf("parent of a = %s, want root", got)
	}
	if got := PathOf().Parent(); !got.IsRoot() {
		t.Errorf("parent of root = %s, want root", got)
	}
}

func TestPath_ParentDoesNotAliasOriginal(t *testing.T) {
	p := PathOf("a", "b", "c")
	parent := p.Parent()
	_ = parent.Join("z")

	if !p.Equal(PathOf("a", "b", "c")) {
		t.Errorf("original path mutated: %s", p)
	}
}

func TestPath_NameJoinPop(t *testing.T) {
	p := NewPath("/music")
	p = p.Join("rock/")

	name, ok := p.Name()
	if !ok || name != "rock" {
		t.Errorf("Name() = %q, %v; want rock, true", name, ok)
	}
	if p.String() != "/music/rock" {
		t.Errorf("String() = %q", p.String())
	}

	p = p.Pop()
	if !p.Equal(NewPath("music")) {
		t.Errorf("Pop() = %s, want /music", p)
	}

	if _, ok := NewPath("").Name(); ok {
		t.Error("root path should have no name")
	}
	if NewPath("").String() != "/" {
		t.Errorf("root String() = %q, want /", NewPath("").String())
	}
}

func TestPath_Equal(t *testing.T) {
	if !NewPath("/a//b/").Equal(NewPath("a/b")) {
		t.Error("paths with the same components must be equal")
	}
	if NewPath("a/b").Equal(NewPath("a/b/c")) {
		t.Error("paths of different length must differ")
	}
	if NewPath("a/b").Equal(NewPath("a/c")) {
		t.Error("paths with different components must differ")
	}
}
