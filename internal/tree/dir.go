package tree

import (
	"sort"

	"github.com/tucha-cloud/tucha/internal/models"
)

// RootName is the reserved name of the top of every tree.
const RootName = "/"

// Dir is a node of the virtual filesystem. Files holds the entries directly
// inside this directory; children are keyed by name.
type Dir struct {
	Name     string
	Files    []models.File
	children map[string]*Dir
}

// NewDir creates an empty directory node.
func NewDir(name string) *Dir {
	return &Dir{
		Name:     name,
		children: make(map[string]*Dir),
	}
}

// NewRoot creates an empty tree top.
func NewRoot() *Dir {
	return NewDir(RootName)
}

// Child returns the direct child with the given name.
func (d *Dir) Child(name string) (*Dir, bool) {
	child, ok := d.children[name]
	return child, ok
}

// ChildNames returns the names of direct children in sorted order.
func (d *Dir) ChildNames() []string {
	names := make([]string, 0, len(d.children))
	for name := range d.children {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Children returns direct children sorted by name.
func (d *Dir) Children() []*Dir {
	names := d.ChildNames()
	out := make([]*Dir, 0, len(names))
	for _, name := range names {
		out = append(out, d.children[name])
	}
	return out
}

// AddNewPath walks down from dir along components, creating every missing
// directory on the way, and returns the deepest directory reached. Existing
// nodes are reused, so repeated calls with the same components return the
// same node.
func AddNewPath(dir *Dir, components []string) *Dir {
	current := dir
	for _, name := range components {
		child, ok := current.children[name]
		if !ok {
			child = NewDir(name)
			current.children[name] = child
		}
		current = child
	}
	return current
}

// FindDirectoryByRelativePath resolves path against dir by walking children by
// name. It fails as soon as a component is missing; there are no partial matches.
func FindDirectoryByRelativePath(dir *Dir, path Path) (*Dir, bool) {
	current := dir
	for _, name := range path.components {
		child, ok := current.children[name]
		if !ok {
			return nil, false
		}
		current = child
	}
	return current, true
}

// FileMessageIDs returns the message ids of files directly inside dir.
// Files in child directories are not included.
func FileMessageIDs(dir *Dir) []int {
	ids := make([]int, 0, len(dir.Files))
	for _, f := range dir.Files {
		ids = append(ids, f.MessageID)
	}
	return ids
}

// Build assembles a fresh tree from a flat list of files. Each file is placed
// in the directory named by the parent of its virtual path; files whose parent
// is the root stay in the root.
func Build(files []models.File) *Dir {
	root := NewRoot()
	for _, file := range files {
		parent := NewPath(file.Metadata.Path).Parent()
		if parent.Len() > 0 {
			leaf := AddNewPath(root, parent.components)
			leaf.Files = append(leaf.Files, file)
		} else {
			root.Files = append(root.Files, file)
		}
	}
	return root
}

// Walk visits dir and all of its descendants depth-first, children in name
// order. The visitor receives each directory together with its path.
func Walk(dir *Dir, visit func(path Path, d *Dir)) {
	walk(Path{}, dir, visit)
}

func walk(path Path, dir *Dir, visit func(path Path, d *Dir)) {
	visit(path, dir)
	for _, child := range dir.Children() {
		walk(path.Join(child.Name), child, visit)
	}
}

// CountFiles counts files in dir and all descendants.
func CountFiles(dir *Dir) int {
	count := 0
	Walk(dir, func(_ Path, d *Dir) {
		count += len(d.Files)
	})
	return count
}
