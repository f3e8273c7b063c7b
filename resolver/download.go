package resolver

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/samber/mo"
	"github.com/streamsnag-cli/streamsnag/diag"
	"github.com/streamsnag-cli/streamsnag/engine"
	"github.com/streamsnag-cli/streamsnag/filesystem"
	"github.com/streamsnag-cli/streamsnag/metadata"
	"github.com/streamsnag-cli/streamsnag/stream"
	"github.com/streamsnag-cli/streamsnag/util"
)

// DownloadRequest describes one download-mode resolution.
type DownloadRequest struct {
	// PageURL is the web page to resolve. Must be absolute http(s).
	PageURL string
	// OutputDir receives the saved file; created if missing.
	OutputDir string
	// FilenameHint seeds the output filename stem. Sanitized before use.
	FilenameHint string
	// Command optionally carries user-supplied engine arguments.
	Command string
}

// Download resolves a page URL by saving its media to disk and locating the
// file the engine actually wrote.
func (r *Resolver) Download(ctx context.Context, req DownloadRequest) (*stream.Saved, error) {
	if !metadata.IsHTTPURL(req.PageURL) {
		return nil, ErrPageURL
	}

	outputDir := strings.TrimSpace(req.OutputDir)
	if outputDir == "" {
		return nil, ErrOutputDir
	}
	if err := filesystem.API().MkdirAll(outputDir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	startedAt := time.Now()
	diagnostics := diag.New()
	stem := util.SanitizeFilename(req.FilenameHint)

	info, err := r.extractWithFallback(ctx, req.PageURL, req.Command, diagnostics, func(opts engine.Options) engine.Options {
		return engine.ApplyDownload(opts, outputDir, stem)
	})
	if err != nil {
		return nil, err
	}

	savedPath, err := locateSavedFile(info, outputDir, mo.Some(startedAt))
	if err != nil {
		return nil, missingOutputError(err, outputDir, diagnostics)
	}

	title := info.Stringify("title", "")
	if title == "" {
		title = strings.TrimSpace(req.FilenameHint)
	}
	if title == "" {
		title = "Untitled"
	}

	return &stream.Saved{
		ID:            info.Stringify("id", req.PageURL),
		Title:         title,
		PageURL:       info.Stringify("webpage_url", req.PageURL),
		SavedPath:     savedPath,
		SavedName:     filepath.Base(savedPath),
		EngineVersion: r.engineVersion(ctx),
		Diagnostics:   diagnostics.Tail(20),
		SavedAtMs:     time.Now().UnixMilli(),
	}, nil
}

// missingOutputError decorates the missing-file failure with a short listing
// of the output directory and recent diagnostics for debugging.
func missingOutputError(err error, outputDir string, diagnostics *diag.Log) error {
	var details []string

	if names := lastDirEntries(outputDir, 10); len(names) > 0 {
		details = append(details, fmt.Sprintf("files=%v", names))
	}
	if tail := diagnostics.Tail(8); len(tail) > 0 {
		details = append(details, fmt.Sprintf("logs=%v", tail))
	}

	if len(details) > 0 {
		return fmt.Errorf("%w (%s)", err, strings.Join(details, "; "))
	}
	return err
}

// lastDirEntries returns up to n names from the directory in sorted order,
// keeping the tail of the listing.
func lastDirEntries(dir string, n int) []string {
	infos, err := filesystem.API().ReadDir(dir)
	if err != nil {
		return nil
	}

	names := make([]string, 0, len(infos))
	for _, info := range infos {
		names = append(names, info.Name())
	}
	if len(names) > n {
		names = names[len(names)-n:]
	}
	return names
}
