package resolver

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/samber/mo"
	"github.com/streamsnag-cli/streamsnag/filesystem"
	"github.com/streamsnag-cli/streamsnag/metadata"
)

// ErrNoOutputFile indicates a completed download left no identifiable file.
var ErrNoOutputFile = errors.New("no output file was produced")

// mtimeGrace absorbs filesystems with coarse timestamp resolution when
// comparing a file against the download start floor.
const mtimeGrace = time.Second

// locateSavedFile determines which file on disk corresponds to a completed
// download. The engine's self-reported filename fields are tried first in
// priority order; when none validates, the output directory is scanned with
// mp4 files preferred and the most recently modified survivor wins.
func locateSavedFile(info metadata.Info, outputDir string, floor mo.Option[time.Time]) (string, error) {
	fs := filesystem.API()

	for _, candidate := range reportedPaths(info) {
		path, err := filepath.Abs(candidate)
		if err != nil {
			continue
		}
		stat, err := fs.Stat(path)
		if err != nil || stat.IsDir() {
			continue
		}
		if tooOld(stat.ModTime(), floor) {
			continue
		}
		return path, nil
	}

	return scanOutputDir(outputDir, floor)
}

// reportedPaths yields the engine-reported path candidates in priority order:
// the result's own filepath and _filename, then requested download and format
// entries, then recursive playlist entries.
func reportedPaths(info metadata.Info) []string {
	var paths []string

	add := func(value string) {
		if strings.TrimSpace(value) != "" {
			paths = append(paths, value)
		}
	}

	add(info.String("filepath"))
	add(info.String("_filename"))

	for _, key := range []string{"requested_downloads", "requested_formats"} {
		for _, entry := range info.Maps(key) {
			add(entry.String("filepath"))
		}
	}

	for _, entry := range info.Maps("entries") {
		paths = append(paths, reportedPaths(entry)...)
	}

	return paths
}

// scanOutputDir is the fallback: list the directory's regular files, prefer
// mp4, drop files older than the floor, and return the newest survivor.
func scanOutputDir(outputDir string, floor mo.Option[time.Time]) (string, error) {
	infos, err := filesystem.API().ReadDir(outputDir)
	if err != nil {
		return "", ErrNoOutputFile
	}

	var files, mp4Files []os.FileInfo
	for _, info := range infos {
		if info.IsDir() {
			continue
		}
		files = append(files, info)
		if strings.HasSuffix(strings.ToLower(info.Name()), ".mp4") {
			mp4Files = append(mp4Files, info)
		}
	}

	ranked := files
	if len(mp4Files) > 0 {
		ranked = mp4Files
	}

	var newest os.FileInfo
	for _, file := range ranked {
		if tooOld(file.ModTime(), floor) {
			continue
		}
		if newest == nil || file.ModTime().After(newest.ModTime()) {
			newest = file
		}
	}
	if newest == nil {
		return "", ErrNoOutputFile
	}
	return filepath.Join(outputDir, newest.Name()), nil
}

// tooOld reports whether a modification time misses the floor even with the
// one-second grace applied.
func tooOld(modTime time.Time, floor mo.Option[time.Time]) bool {
	min, ok := floor.Get()
	if !ok {
		return false
	}
	return modTime.Add(mtimeGrace).Before(min)
}
