package engine

import (
	"fmt"
	"strings"

	"github.com/kballard/go-shellquote"
	"github.com/streamsnag-cli/streamsnag/diag"
	"github.com/streamsnag-cli/streamsnag/metadata"
)

// engineAliases are program-name tokens dropped when they lead a user command.
var engineAliases = map[string]struct{}{
	"yt-dlp": {},
	"yt_dlp": {},
}

// Reconcile merges a user-supplied engine command into the baseline
// configuration. The override wins key-for-key, except that http headers and
// extractor arguments are updated rather than replaced, and the safety subset
// is forced back to baseline values last. An empty command returns the
// baseline unchanged.
//
// Parse failures (malformed shell syntax or the engine's own argument parser
// rejecting the input) are returned to the caller, which is expected to fall
// back to the baseline-only configuration.
func Reconcile(base Options, command string, parser ArgumentParser) (Options, error) {
	command = strings.TrimSpace(command)
	if command == "" {
		return base, nil
	}

	custom, err := parseCommand(command, parser)
	if err != nil {
		return nil, err
	}
	if len(custom) == 0 {
		return base, nil
	}

	merged := base.Clone()
	for k, v := range custom {
		merged[k] = cloneValue(v)
	}

	// Headers merge per name, never wholesale; unparseable entries are dropped.
	headers := metadata.NormalizeHeaders(base["http_headers"])
	for k, v := range metadata.NormalizeHeaders(custom["http_headers"]) {
		headers[k] = v
	}
	merged["http_headers"] = headers

	// Extractor args update the baseline mapping rather than replacing it.
	// Per-extractor maps merge key-by-key, so an override naming only
	// player_client keeps the baseline's player_skip.
	if overrideArgs, ok := custom["extractor_args"].(map[string]any); ok {
		baseArgs, _ := cloneValue(base["extractor_args"]).(map[string]any)
		if baseArgs == nil {
			baseArgs = map[string]any{}
		}
		for k, v := range overrideArgs {
			existing, okExisting := baseArgs[k].(map[string]any)
			override, okOverride := v.(map[string]any)
			if okExisting && okOverride {
				for name, value := range override {
					existing[name] = cloneValue(value)
				}
				continue
			}
			baseArgs[k] = cloneValue(v)
		}
		merged["extractor_args"] = baseArgs
	} else {
		merged["extractor_args"] = cloneValue(base["extractor_args"])
	}

	log, _ := base["logger"].(*diag.Log)
	for k, v := range safetySubset(log) {
		merged[k] = v
	}
	return merged, nil
}

// parseCommand tokenizes the user command and hands the argument list to the
// engine's own parser, dropping a leading program-name alias.
func parseCommand(command string, parser ArgumentParser) (Options, error) {
	argv, err := shellquote.Split(command)
	if err != nil {
		return nil, fmt.Errorf("split engine command: %w", err)
	}

	if len(argv) > 0 {
		if _, ok := engineAliases[strings.ToLower(strings.TrimSpace(argv[0]))]; ok {
			argv = argv[1:]
		}
	}
	if len(argv) == 0 {
		return Options{}, nil
	}

	return parser.Parse(argv)
}
