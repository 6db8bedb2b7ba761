package localfs

import (
	"io/fs"
	"path/filepath"
	"sort"
)

// FileEntry is a regular file found below a walked root.
type FileEntry struct {
	Path string // absolute path
	Dir  string // slash-separated directory relative to the root, "" at the top
	Size int64
}

// WalkOptions configures CollectFiles.
type WalkOptions struct {
	// IncludeHidden includes dot files and descends into dot directories.
	IncludeHidden bool
}

// CollectFiles returns every regular file below root, sorted by path.
// Entries that cannot be read are skipped.
func CollectFiles(root string, opts WalkOptions) ([]FileEntry, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	var files []FileEntry
	err = filepath.WalkDir(abs, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == abs {
				return err
			}
			return nil
		}
		if path != abs && !opts.IncludeHidden && IsHiddenName(d.Name()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}

		rel, err := filepath.Rel(abs, filepath.Dir(path))
		if err != nil {
			return err
		}
		if rel == "." {
			rel = ""
		}
		files = append(files, FileEntry{Path: path, Dir: filepath.ToSlash(rel), Size: info.Size()})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}
