package ytdlp

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/streamsnag-cli/streamsnag/engine"
)

// Parser translates the common yt-dlp flag vocabulary into an option mapping.
// It covers the switches users realistically pass through an override command;
// anything else fails, and the caller falls back to the baseline.
type Parser struct{}

// NewParser returns a yt-dlp argument parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse converts an argument list into options. Unknown flags, missing
// values, and bare positional arguments are rejected.
func (p *Parser) Parse(args []string) (engine.Options, error) {
	opts := engine.Options{}
	headers := map[string]any{}

	next := func(i *int, flag string) (string, error) {
		*i++
		if *i >= len(args) {
			return "", fmt.Errorf("option %s requires an argument", flag)
		}
		return args[*i], nil
	}

	for i := 0; i < len(args); i++ {
		arg := args[i]

		// Split --flag=value forms.
		flag, inline, hasInline := strings.Cut(arg, "=")
		value := func() (string, error) {
			if hasInline {
				return inline, nil
			}
			return next(&i, flag)
		}

		switch flag {
		case "-f", "--format":
			v, err := value()
			if err != nil {
				return nil, err
			}
			opts["format"] = v
		case "--user-agent":
			v, err := value()
			if err != nil {
				return nil, err
			}
			headers["User-Agent"] = v
		case "--referer":
			v, err := value()
			if err != nil {
				return nil, err
			}
			headers["Referer"] = v
		case "--add-header":
			v, err := value()
			if err != nil {
				return nil, err
			}
			name, headerValue, ok := strings.Cut(v, ":")
			if !ok {
				return nil, fmt.Errorf("invalid header %q, expected NAME:VALUE", v)
			}
			headers[strings.TrimSpace(name)] = strings.TrimSpace(headerValue)
		case "--extractor-args":
			v, err := value()
			if err != nil {
				return nil, err
			}
			parsed, err := parseExtractorArgs(v)
			if err != nil {
				return nil, err
			}
			existing, _ := opts["extractor_args"].(map[string]any)
			if existing == nil {
				existing = map[string]any{}
				opts["extractor_args"] = existing
			}
			for name, fields := range parsed {
				existing[name] = fields
			}
		case "--proxy":
			v, err := value()
			if err != nil {
				return nil, err
			}
			opts["proxy"] = v
		case "--socket-timeout":
			v, err := value()
			if err != nil {
				return nil, err
			}
			seconds, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid socket timeout %q", v)
			}
			opts["socket_timeout"] = seconds
		case "-R", "--retries":
			v, err := value()
			if err != nil {
				return nil, err
			}
			retries, err := strconv.Atoi(v)
			if err != nil {
				return nil, fmt.Errorf("invalid retry count %q", v)
			}
			opts["retries"] = retries
		case "--no-playlist":
			opts["noplaylist"] = true
		case "--yes-playlist":
			opts["noplaylist"] = false
		case "--no-check-certificates", "--no-check-certificate":
			opts["nocheckcertificate"] = true
		case "--flat-playlist":
			opts["extract_flat"] = true
		case "--no-cache-dir":
			opts["cachedir"] = false
		case "--cache-dir":
			v, err := value()
			if err != nil {
				return nil, err
			}
			opts["cachedir"] = v
		case "-q", "--quiet":
			opts["quiet"] = true
		case "-v", "--verbose":
			opts["verbose"] = true
		default:
			return nil, fmt.Errorf("unsupported option %q", arg)
		}
	}

	if len(headers) > 0 {
		opts["http_headers"] = headers
	}
	return opts, nil
}

// parseExtractorArgs parses yt-dlp's "name:key=v1,v2;key2=v" syntax.
func parseExtractorArgs(spec string) (map[string]any, error) {
	name, body, ok := strings.Cut(spec, ":")
	name = strings.TrimSpace(name)
	if !ok || name == "" || strings.TrimSpace(body) == "" {
		return nil, fmt.Errorf("invalid extractor args %q, expected NAME:ARGS", spec)
	}

	fields := map[string]any{}
	for _, part := range strings.Split(body, ";") {
		key, raw, ok := strings.Cut(strings.TrimSpace(part), "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid extractor args %q, expected key=value pairs", spec)
		}
		fields[key] = strings.Split(raw, ",")
	}

	return map[string]any{name: fields}, nil
}
