// Package resolver orchestrates one resolution request end to end: build the
// engine configuration, invoke the engine (retrying once on baseline-only
// options when a user override fails), and turn the raw metadata into a
// payload.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/samber/mo"
	"github.com/streamsnag-cli/streamsnag/constant"
	"github.com/streamsnag-cli/streamsnag/diag"
	"github.com/streamsnag-cli/streamsnag/engine"
	"github.com/streamsnag-cli/streamsnag/log"
	"github.com/streamsnag-cli/streamsnag/metadata"
	"github.com/streamsnag-cli/streamsnag/stream"
)

// Input validation failures, rejected before any engine call.
var (
	ErrPageURL           = errors.New("page url must be an absolute http(s) url")
	ErrOutputDir         = errors.New("output directory is required")
	ErrUnexpectedPayload = errors.New("engine returned unexpected payload type")
)

// Request describes one extract-mode resolution.
type Request struct {
	// PageURL is the web page to resolve. Must be absolute http(s).
	PageURL string
	// Command optionally carries user-supplied engine arguments.
	Command string
}

// Resolver drives the extraction engine for both request modes.
// Each call builds its own diagnostic log and configuration; a Resolver holds
// no per-request state and is safe for sequential reuse.
type Resolver struct {
	engine engine.Engine
	parser engine.ArgumentParser
}

// New returns a resolver over the given engine and argument parser.
func New(eng engine.Engine, parser engine.ArgumentParser) *Resolver {
	return &Resolver{engine: eng, parser: parser}
}

// Resolve turns a page URL into a directly playable stream payload.
func (r *Resolver) Resolve(ctx context.Context, req Request) (*stream.Resolved, error) {
	if !metadata.IsHTTPURL(req.PageURL) {
		return nil, ErrPageURL
	}

	diagnostics := diag.New()
	info, err := r.extractWithFallback(ctx, req.PageURL, req.Command, diagnostics, nil)
	if err != nil {
		return nil, err
	}

	candidate, err := stream.Pick(info)
	if err != nil {
		return nil, err
	}

	headers := candidate.Headers
	if len(headers) == 0 {
		headers = info.Headers("http_headers")
	}
	applyHeaderDefaults(headers, req.PageURL)

	duration := mo.None[int64]()
	if seconds, ok := info.Float("duration"); ok && seconds >= 0 {
		duration = mo.Some(int64(seconds))
	}

	return &stream.Resolved{
		ID:              info.Stringify("id", req.PageURL),
		Title:           info.Stringify("title", "Untitled"),
		PageURL:         info.Stringify("webpage_url", req.PageURL),
		StreamURL:       candidate.URL,
		RequestHeaders:  headers,
		ThumbnailURL:    info.String("thumbnail"),
		AuthorName:      info.String("uploader"),
		Extractor:       info.String("extractor"),
		FormatID:        candidate.FormatID,
		Ext:             candidate.Extension,
		Protocol:        candidate.Protocol,
		DurationSeconds: duration,
		EngineVersion:   r.engineVersion(ctx),
		Diagnostics:     diagnostics.Tail(10),
		ResolvedAtMs:    time.Now().UnixMilli(),
	}, nil
}

// optionsMutator lets download mode layer its settings over the reconciled
// configuration of each attempt.
type optionsMutator func(engine.Options) engine.Options

// extractWithFallback implements the two-step attempt sequence: a custom
// command gets one try; any failure while building or using it is logged as a
// warning and the baseline-only configuration gets the second and final try.
func (r *Resolver) extractWithFallback(ctx context.Context, pageURL, command string, diagnostics *diag.Log, mutate optionsMutator) (metadata.Info, error) {
	attempt := func(cmd string) (metadata.Info, error) {
		opts, err := engine.Reconcile(engine.ExtractBaseline(diagnostics), cmd, r.parser)
		if err != nil {
			return nil, fmt.Errorf("build engine configuration: %w", err)
		}
		if mutate != nil {
			opts = mutate(opts)
		}
		return r.extract(ctx, pageURL, opts, diagnostics)
	}

	command = strings.TrimSpace(command)
	if command == "" {
		return attempt("")
	}

	info, err := attempt(command)
	if err == nil {
		return info, nil
	}

	diagnostics.Warningf("custom engine command failed, falling back to defaults: %v", err)
	log.Warnf("custom engine command failed, falling back to defaults: %v", err)
	return attempt("")
}

// extract performs one engine invocation, reduces playlist-like results to
// their first non-empty entry, and validates the payload shape.
func (r *Resolver) extract(ctx context.Context, pageURL string, opts engine.Options, diagnostics *diag.Log) (metadata.Info, error) {
	info, err := r.engine.Extract(ctx, pageURL, opts)
	if err != nil {
		if tail := diagnostics.TailJoined(3); tail != "" {
			return nil, fmt.Errorf("engine extraction failed: %w | %s", err, tail)
		}
		return nil, fmt.Errorf("engine extraction failed: %w", err)
	}

	// Playlist-like results are reduced to their first entry carrying content.
	// A non-mapping entry still wins the reduction and then fails the shape
	// check, rather than being skipped in favor of the playlist wrapper.
	for _, entry := range info.List("entries") {
		if !metadata.Truthy(entry) {
			continue
		}
		m, ok := entry.(map[string]any)
		if !ok {
			return nil, ErrUnexpectedPayload
		}
		info = metadata.Info(m)
		break
	}

	if info == nil {
		return nil, ErrUnexpectedPayload
	}
	return info, nil
}

// engineVersion probes the engine version; payload assembly tolerates a probe
// failure since the stream itself already resolved.
func (r *Resolver) engineVersion(ctx context.Context) string {
	version, err := r.engine.Version(ctx)
	if err != nil {
		log.Warnf("engine version probe failed: %v", err)
		return ""
	}
	return version
}

// applyHeaderDefaults guarantees the invariant that request headers always
// carry a User-Agent and a Referer pointing back at the page.
func applyHeaderDefaults(headers map[string]string, pageURL string) {
	if _, ok := headers["User-Agent"]; !ok {
		headers["User-Agent"] = constant.UserAgent
	}
	if _, ok := headers["Referer"]; !ok {
		headers["Referer"] = pageURL
	}
}
