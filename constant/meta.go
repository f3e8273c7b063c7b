// Package constant defines immutable application-level identifiers and configuration defaults.
package constant

const (
	// Streamsnag is the canonical application identifier used for filesystem paths and CLI branding.
	Streamsnag = "streamsnag"

	// Version is the current application semantic version string.
	Version = "0.1.0"

	// UserAgent is the default HTTP User-Agent string attached to resolved
	// stream requests and engine extractions.
	UserAgent = "Mozilla/5.0 (Linux; Android 14; Pixel 8) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/125.0.0.0 Mobile Safari/537.36"

	// AcceptLanguage is the default Accept-Language header for engine extractions.
	AcceptLanguage = "en-US,en;q=0.9"

	// FallbackStem is the filename stem used when a download hint sanitizes to nothing.
	FallbackStem = "streamsnag-video"
)

// Build metadata, injected via -ldflags at release time.
var (
	Revision = "unknown"
	BuiltAt  = ""
	BuiltBy  = "unknown"
)
