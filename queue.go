package unpacker

import (
	"os"
	"path/filepath"
	"strings"
)

// Options control a batch conversion.
type Options struct {
	// OutputDir receives the converted files; when empty each file is
	// written next to its input.
	OutputDir string

	// Overwrite allows replacing existing destination files.
	Overwrite bool

	// Lenient unpacks resources with only the checks the game engine
	// itself performs.
	Lenient bool

	// IncludePalette copies the color-table region into 24bpp bitmaps.
	IncludePalette bool

	// Quantize reduces otherwise unsupported images to 256 colors before
	// packing them.
	Quantize bool
}

type job struct {
	in, out string
}

// gatherInputs expands the given paths into a deduplicated list of files.
// Directories contribute their immediate files; anything deeper has to be
// passed explicitly. Unreadable paths are logged and skipped so one bad
// argument never sinks the batch.
func (u *Unpacker) gatherInputs(paths []string) ([]string, error) {
	var files []string
	seen := make(map[string]struct{})

	add := func(file string) {
		if _, ok := seen[file]; !ok {
			seen[file] = struct{}{}
			files = append(files, file)
		}
	}

	for _, path := range paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, err
		}

		info, err := os.Stat(abs)
		if err != nil {
			u.logger.Printf("skipping %q: %v", path, err)
			continue
		}

		if !info.IsDir() {
			add(abs)
			continue
		}

		entries, err := os.ReadDir(abs)
		if err != nil {
			u.logger.Printf("skipping %q: %v", path, err)
			continue
		}
		for _, entry := range entries {
			// Ignore any hidden files, otherwise we end up fighting
			// with things like Spotlight, etc.
			if entry.Name()[0] == '.' || entry.IsDir() {
				continue
			}
			add(filepath.Join(abs, entry.Name()))
		}
	}

	return files, nil
}

// planOutputs maps every input file to its destination, dropping inputs
// whose destination collides with one already queued or with an existing
// file when overwriting is disabled.
func (u *Unpacker) planOutputs(files []string, ext string, opts Options) []job {
	var jobs []job
	seen := make(map[string]struct{})

	for _, in := range files {
		out := strings.TrimSuffix(in, filepath.Ext(in)) + ext
		if opts.OutputDir != "" {
			out = filepath.Join(opts.OutputDir, filepath.Base(out))
		}

		if _, ok := seen[out]; ok {
			u.logger.Printf("skipping %q: %q is already queued", in, out)
			continue
		}

		if !opts.Overwrite {
			if _, err := os.Stat(out); err == nil {
				u.logger.Printf("skipping %q: %q already exists", in, out)
				continue
			}
		}

		jobs = append(jobs, job{in: in, out: out})
		seen[out] = struct{}{}
	}

	return jobs
}
