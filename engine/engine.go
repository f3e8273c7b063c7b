// Package engine defines the extraction-engine collaborator contract and the
// option-reconciliation logic that produces the effective configuration for
// one resolution attempt.
package engine

import (
	"context"

	"github.com/streamsnag-cli/streamsnag/metadata"
)

// Engine is the external metadata-extraction component. It turns a page URL
// into a structured description of available media streams, or fails with a
// human-readable error. Implementations receive the diagnostic logger through
// the "logger" option.
type Engine interface {
	// Extract runs one extraction (or download, when the options say so)
	// against pageURL and returns the resulting metadata document.
	Extract(ctx context.Context, pageURL string, opts Options) (metadata.Info, error)

	// Version reports the engine's version string.
	Version(ctx context.Context) (string, error)
}

// ArgumentParser translates a shell-split argument list in the engine's own
// CLI vocabulary into an option mapping. Malformed or unsupported input fails
// with an error; the caller decides whether to fall back.
type ArgumentParser interface {
	Parse(args []string) (Options, error)
}
