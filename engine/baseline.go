package engine

import (
	"path/filepath"

	"github.com/streamsnag-cli/streamsnag/constant"
	"github.com/streamsnag-cli/streamsnag/diag"
)

// Format selectors handed to the engine's own selection syntax.
const (
	// ExtractFormat prefers complete http mp4 streams for direct playback.
	ExtractFormat = "best[protocol^=http][vcodec!=none][acodec!=none][ext=mp4]/" +
		"best[protocol^=http][vcodec!=none][acodec!=none]/" +
		"best"

	// DownloadFormat prefers complete mp4 files for saving to disk.
	DownloadFormat = "best[ext=mp4][vcodec!=none][acodec!=none]/" +
		"best[vcodec!=none][acodec!=none]/" +
		"best"
)

// ExtractBaseline returns the safety-mandated configuration for one
// extraction attempt. The host environment cannot spawn arbitrary
// subprocesses or script runtimes, so js runtime and remote component probing
// stay disabled no matter what a user override asks for.
func ExtractBaseline(log *diag.Log) Options {
	return Options{
		"quiet":                         true,
		"noprogress":                    true,
		"no_warnings":                   false,
		"noplaylist":                    true,
		"extract_flat":                  false,
		"skip_download":                 true,
		"allow_unplayable_formats":      false,
		"prefer_ffmpeg":                 false,
		"hls_prefer_native":             true,
		"youtube_include_dash_manifest": false,
		"cachedir":                      false,
		"check_formats":                 false,
		"js_runtimes":                   map[string]any{},
		"remote_components":             []string{},
		"extractor_args": map[string]any{
			"youtube": map[string]any{
				"player_client": []string{"android"},
				"player_skip":   []string{"webpage", "configs", "js"},
			},
		},
		"format": ExtractFormat,
		"http_headers": map[string]string{
			"User-Agent":      constant.UserAgent,
			"Accept-Language": constant.AcceptLanguage,
		},
		"logger": log,
	}
}

// safetySubset is the set of keys forced back to baseline values after any
// override merge, plus the logger handle.
func safetySubset(log *diag.Log) Options {
	return Options{
		"quiet":                         true,
		"noprogress":                    true,
		"no_warnings":                   false,
		"noplaylist":                    true,
		"extract_flat":                  false,
		"skip_download":                 true,
		"allow_unplayable_formats":      false,
		"prefer_ffmpeg":                 false,
		"hls_prefer_native":             true,
		"youtube_include_dash_manifest": false,
		"cachedir":                      false,
		"check_formats":                 false,
		"js_runtimes":                   map[string]any{},
		"remote_components":             []string{},
		"logger":                        log,
	}
}

// ApplyDownload layers download-mode settings over an already reconciled
// configuration: resume without overwriting, no partial-file markers, and an
// output template confined to outputDir built from the sanitized stem.
func ApplyDownload(opts Options, outputDir, stem string) Options {
	out := opts.Clone()
	out["skip_download"] = false
	out["format"] = DownloadFormat
	out["outtmpl"] = map[string]any{
		"default": filepath.Join(outputDir, stem+"-%(id)s.%(ext)s"),
	}
	out["paths"] = map[string]any{"home": outputDir}
	out["overwrites"] = false
	out["nopart"] = false
	out["continuedl"] = true
	out["prefer_ffmpeg"] = false
	out["hls_prefer_native"] = true
	return out
}
