package cli

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tucha-cloud/tucha/internal/core"
	"github.com/tucha-cloud/tucha/internal/localfs"
	"github.com/tucha-cloud/tucha/internal/tree"
	"github.com/tucha-cloud/tucha/internal/validation"
)

var errSelectTargets = errors.New("exactly one of --id or --dir is required")

// newLsCmd creates the 'ls' command.
func newLsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ls [path]",
		Short: "List a folder of the current account",
		Long: `List the sub-folders and files of a virtual folder.

Files are shown with their message id, which download and rm accept.

Examples:
  tucha ls
  tucha ls /work/2024
  tucha ls docs --account alice`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := newApp()
			defer a.close()

			if err := a.connect(GetContext()); err != nil {
				return err
			}
			if len(args) == 1 {
				if err := a.engine.ChangeDirectory(args[0]); err != nil {
					return err
				}
			}
			dir, ok := a.engine.CurrentDirectory()
			if !ok {
				return fmt.Errorf("%w: %s", core.ErrNoSuchDirectory, a.engine.CurrentPath())
			}
			printDirectory(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}

// newTreeCmd creates the 'tree' command.
func newTreeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tree",
		Short: "Show every folder and file of the current account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := newApp()
			defer a.close()

			if err := a.connect(GetContext()); err != nil {
				return err
			}
			root, ok := a.engine.Tree(a.engine.CurrentAccount())
			if !ok {
				root = tree.NewRoot()
			}
			printTree(cmd.OutOrStdout(), root)
			return nil
		},
	}
}

// newUploadCmd creates the 'upload' command.
func newUploadCmd() *cobra.Command {
	var to string
	var recursive, hidden bool

	cmd := &cobra.Command{
		Use:   "upload <path> [path...]",
		Short: "Upload files",
		Long: `Upload local files into a virtual folder of the current account.

The folder does not need to exist; it appears once a file is stored in it.
Files are sent one by one and the first failure stops the rest.
With --recursive a directory is uploaded into a folder of the same name,
keeping its sub-directories. Dot files are skipped unless --hidden is set.

Examples:
  tucha upload report.pdf
  tucha upload *.csv --to /data/2024
  tucha upload -r ./photos --to /backup`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			batches, err := planUploads(args, to, recursive, localfs.WalkOptions{IncludeHidden: hidden})
			if err != nil {
				return err
			}

			a := newApp()
			defer a.close()

			ctx := GetContext()
			if err := a.connect(ctx); err != nil {
				return err
			}
			total := 0
			for _, b := range batches {
				if err := a.run(ctx, core.Upload{Paths: b.Paths, Dir: b.Dir}); err != nil {
					return err
				}
				total += len(b.Paths)
				fmt.Fprintf(cmd.OutOrStdout(), "Uploaded %d file(s) to %s\n", len(b.Paths), core.ResolvePath(tree.PathOf(), b.Dir))
			}
			if len(batches) > 1 {
				fmt.Fprintf(cmd.OutOrStdout(), "Uploaded %d file(s) in total\n", total)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&to, "to", "/", "Virtual folder to upload into")
	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "Upload directories with their contents")
	cmd.Flags().BoolVar(&hidden, "hidden", false, "Include dot files when uploading directories")

	return cmd
}

// uploadBatch is one Upload request: files sharing a target folder.
type uploadBatch struct {
	Dir   string
	Paths []string
}

// planUploads groups args by target folder. Plain files go to "to" in one
// batch; each directory becomes one batch per sub-directory below to/<name>.
func planUploads(args []string, to string, recursive bool, opts localfs.WalkOptions) ([]uploadBatch, error) {
	var batches []uploadBatch
	index := make(map[string]int)
	add := func(dir, p string) {
		i, ok := index[dir]
		if !ok {
			i = len(batches)
			index[dir] = i
			batches = append(batches, uploadBatch{Dir: dir})
		}
		batches[i].Paths = append(batches[i].Paths, p)
	}

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err == nil && info.IsDir() {
			if !recursive {
				return nil, fmt.Errorf("%s is a directory (use --recursive)", arg)
			}
			files, err := localfs.CollectFiles(arg, opts)
			if err != nil {
				return nil, err
			}
			abs, err := filepath.Abs(arg)
			if err != nil {
				return nil, err
			}
			base := path.Join(to, filepath.Base(abs))
			for _, f := range files {
				add(path.Join(base, f.Dir), f.Path)
			}
			continue
		}

		abs, err := validation.ValidateUploadPath(arg)
		if err != nil {
			return nil, err
		}
		add(to, abs)
	}

	if len(batches) == 0 {
		return nil, errors.New("no files to upload")
	}
	return batches, nil
}

// newDownloadCmd creates the 'download' command.
func newDownloadCmd() *cobra.Command {
	var ids []int
	var dir string

	cmd := &cobra.Command{
		Use:   "download",
		Short: "Download files by message id or folder",
		Long: `Download stored files into the download directory.

The download directory is [storage] download_dir of the config file,
or ~/Downloads. --dir downloads the files directly inside a folder;
sub-folders are not included.

Examples:
  tucha download --id 42 --id 43
  tucha download --dir /work/2024`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := newApp()
			defer a.close()

			ctx := GetContext()
			if err := a.connect(ctx); err != nil {
				return err
			}
			targets, err := selectTargets(a.engine, ids, dir)
			if err != nil {
				return err
			}
			if len(targets) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing to download")
				return nil
			}
			if err := a.run(ctx, core.Download{IDs: targets}); err != nil {
				return err
			}
			for _, path := range a.engine.LastDownloaded() {
				fmt.Fprintln(cmd.OutOrStdout(), path)
			}
			return nil
		},
	}

	cmd.Flags().IntSliceVar(&ids, "id", nil, "Message id of a file (repeatable)")
	cmd.Flags().StringVar(&dir, "dir", "", "Download the files of this folder")

	return cmd
}

// newRmCmd creates the 'rm' command.
func newRmCmd() *cobra.Command {
	var ids []int
	var dir string

	cmd := &cobra.Command{
		Use:   "rm",
		Short: "Delete files by message id or folder",
		Long: `Delete stored files. Deletion is permanent.

Examples:
  tucha rm --id 42
  tucha rm --dir /tmp`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := newApp()
			defer a.close()

			ctx := GetContext()
			if err := a.connect(ctx); err != nil {
				return err
			}
			targets, err := selectTargets(a.engine, ids, dir)
			if err != nil {
				return err
			}
			if len(targets) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing to delete")
				return nil
			}
			if err := a.run(ctx, core.Delete{IDs: targets}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d file(s)\n", len(targets))
			return nil
		},
	}

	cmd.Flags().IntSliceVar(&ids, "id", nil, "Message id of a file (repeatable)")
	cmd.Flags().StringVar(&dir, "dir", "", "Delete the files of this folder")

	return cmd
}

// selectTargets returns ids, or the ids of the files directly inside dir.
func selectTargets(e *core.Engine, ids []int, dir string) ([]int, error) {
	switch {
	case len(ids) > 0 && dir != "":
		return nil, errSelectTargets
	case len(ids) > 0:
		return ids, nil
	case dir != "":
		return e.DirectoryMessageIDs(dir)
	default:
		return nil, errSelectTargets
	}
}
