package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/tucha-cloud/tucha/internal/models"
	"github.com/tucha-cloud/tucha/internal/tree"
)

func printAccounts(w io.Writer, accounts []string, current string) {
	for _, name := range accounts {
		marker := " "
		if name == current {
			marker = "*"
		}
		fmt.Fprintf(w, "%s %s\n", marker, name)
	}
}

// printDirectory lists sub-folders first, then files with their message ids.
func printDirectory(w io.Writer, dir *tree.Dir) {
	for _, name := range dir.ChildNames() {
		fmt.Fprintf(w, "%8s  %s/\n", "", name)
	}
	for _, f := range sortedFiles(dir.Files) {
		fmt.Fprintf(w, "%8d  %s\n", f.MessageID, f.Name)
	}
}

// printTree renders the whole tree with two-space indentation.
func printTree(w io.Writer, root *tree.Dir) {
	fmt.Fprintln(w, tree.Separator)
	printSubtree(w, root, 1)
}

func printSubtree(w io.Writer, dir *tree.Dir, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, name := range dir.ChildNames() {
		child, _ := dir.Child(name)
		fmt.Fprintf(w, "%s%s/\n", indent, name)
		printSubtree(w, child, depth+1)
	}
	for _, f := range sortedFiles(dir.Files) {
		fmt.Fprintf(w, "%s%s [%d]\n", indent, f.Name, f.MessageID)
	}
}

func sortedFiles(files []models.File) []models.File {
	out := append([]models.File(nil), files...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].MessageID < out[j].MessageID
	})
	return out
}
