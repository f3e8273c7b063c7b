package ytdlp

import (
	"fmt"
	"sort"
	"strings"

	"github.com/streamsnag-cli/streamsnag/engine"
	"github.com/streamsnag-cli/streamsnag/metadata"
)

// Argv translates an option mapping into yt-dlp command-line arguments.
// Options without a CLI equivalent (the logger handle, API-only switches like
// js_runtimes) are skipped; the sandboxing they express is the default for a
// fresh yt-dlp process.
func Argv(opts engine.Options) []string {
	var argv []string

	boolFlag := func(key, whenTrue, whenFalse string) {
		v, ok := opts[key].(bool)
		if !ok {
			return
		}
		if v && whenTrue != "" {
			argv = append(argv, whenTrue)
		}
		if !v && whenFalse != "" {
			argv = append(argv, whenFalse)
		}
	}

	boolFlag("quiet", "--quiet", "")
	boolFlag("noprogress", "--no-progress", "--progress")
	boolFlag("no_warnings", "--no-warnings", "")
	boolFlag("noplaylist", "--no-playlist", "--yes-playlist")
	boolFlag("extract_flat", "--flat-playlist", "--no-flat-playlist")
	// The metadata dump implies simulation, so download mode has to force
	// the download back on explicitly.
	boolFlag("skip_download", "--skip-download", "--no-simulate")
	boolFlag("allow_unplayable_formats", "--allow-unplayable-formats", "")
	boolFlag("hls_prefer_native", "--hls-prefer-native", "--hls-prefer-ffmpeg")
	boolFlag("check_formats", "--check-formats", "--no-check-formats")
	boolFlag("overwrites", "--force-overwrites", "--no-overwrites")
	boolFlag("nopart", "--no-part", "")
	boolFlag("continuedl", "--continue", "--no-continue")
	boolFlag("nocheckcertificate", "--no-check-certificates", "")

	if v, ok := opts["cachedir"].(bool); ok && !v {
		argv = append(argv, "--no-cache-dir")
	} else if dir, ok := opts["cachedir"].(string); ok && dir != "" {
		argv = append(argv, "--cache-dir", dir)
	}

	if v, ok := opts["format"].(string); ok && v != "" {
		argv = append(argv, "--format", v)
	}
	if v, ok := opts["proxy"].(string); ok && v != "" {
		argv = append(argv, "--proxy", v)
	}
	if v, ok := opts["retries"].(int); ok {
		argv = append(argv, "--retries", fmt.Sprint(v))
	}
	if v, ok := opts["socket_timeout"].(float64); ok {
		argv = append(argv, "--socket-timeout", strings.TrimSuffix(fmt.Sprintf("%.1f", v), ".0"))
	}

	for _, pair := range sortedHeaders(opts["http_headers"]) {
		argv = append(argv, "--add-header", pair)
	}

	if args, ok := opts["extractor_args"].(map[string]any); ok {
		for _, spec := range extractorArgSpecs(args) {
			argv = append(argv, "--extractor-args", spec)
		}
	}

	if tmpl, ok := opts["outtmpl"].(map[string]any); ok {
		if def, ok := tmpl["default"].(string); ok && def != "" {
			argv = append(argv, "--output", def)
		}
	}
	if paths, ok := opts["paths"].(map[string]any); ok {
		if home, ok := paths["home"].(string); ok && home != "" {
			argv = append(argv, "--paths", "home:"+home)
		}
	}

	return argv
}

// sortedHeaders renders headers as "Name:Value" pairs in stable order.
func sortedHeaders(raw any) []string {
	headers := metadata.NormalizeHeaders(raw)
	names := make([]string, 0, len(headers))
	for name := range headers {
		names = append(names, name)
	}
	sort.Strings(names)

	pairs := make([]string, 0, len(names))
	for _, name := range names {
		pairs = append(pairs, name+":"+headers[name])
	}
	return pairs
}

// extractorArgSpecs renders extractor argument mappings in yt-dlp's
// "name:key=v1,v2;key2=v" syntax, in stable order.
func extractorArgSpecs(args map[string]any) []string {
	names := make([]string, 0, len(args))
	for name := range args {
		names = append(names, name)
	}
	sort.Strings(names)

	var specs []string
	for _, name := range names {
		fields, ok := args[name].(map[string]any)
		if !ok {
			continue
		}

		keys := make([]string, 0, len(fields))
		for key := range fields {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		var parts []string
		for _, key := range keys {
			switch value := fields[key].(type) {
			case []string:
				parts = append(parts, key+"="+strings.Join(value, ","))
			case []any:
				items := make([]string, 0, len(value))
				for _, item := range value {
					items = append(items, fmt.Sprint(item))
				}
				parts = append(parts, key+"="+strings.Join(items, ","))
			case string:
				parts = append(parts, key+"="+value)
			default:
				parts = append(parts, key+"="+fmt.Sprint(value))
			}
		}
		if len(parts) > 0 {
			specs = append(specs, name+":"+strings.Join(parts, ";"))
		}
	}
	return specs
}
