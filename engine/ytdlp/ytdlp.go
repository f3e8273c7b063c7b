// Package ytdlp adapts the yt-dlp command-line binary to the engine
// collaborator contract.
//
// The binary is invoked once per resolution with -J (single-line JSON dump);
// its stderr lines are forwarded to the per-invocation diagnostic log so
// failures carry the engine's own context.
package ytdlp

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"

	"github.com/streamsnag-cli/streamsnag/diag"
	"github.com/streamsnag-cli/streamsnag/engine"
	"github.com/streamsnag-cli/streamsnag/metadata"
)

// Client drives a yt-dlp executable.
type Client struct {
	// Path to the yt-dlp binary; resolved through PATH when not absolute.
	Path string
}

// New returns a client for the given yt-dlp binary path.
func New(path string) *Client {
	if path == "" {
		path = "yt-dlp"
	}
	return &Client{Path: path}
}

// Extract invokes yt-dlp against pageURL with the given options and decodes
// the JSON dump into a metadata document.
func (c *Client) Extract(ctx context.Context, pageURL string, opts engine.Options) (metadata.Info, error) {
	log, _ := opts["logger"].(*diag.Log)

	argv := append([]string{"-J"}, Argv(opts)...)
	argv = append(argv, "--", pageURL)

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, c.Path, argv...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	forwardStderr(log, stderr.Bytes())
	if err != nil {
		return nil, fmt.Errorf("yt-dlp invocation failed: %w: %s", err, lastLine(stderr.Bytes()))
	}

	var info map[string]any
	if err := json.Unmarshal(stdout.Bytes(), &info); err != nil {
		return nil, fmt.Errorf("decode yt-dlp output: %w", err)
	}
	return metadata.Info(info), nil
}

// Version reports the installed yt-dlp version string.
func (c *Client) Version(ctx context.Context) (string, error) {
	out, err := exec.CommandContext(ctx, c.Path, "--version").Output()
	if err != nil {
		return "", fmt.Errorf("probe yt-dlp version: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

// forwardStderr replays the engine's stderr lines into the diagnostic log,
// mapping yt-dlp's own level prefixes onto diag levels.
func forwardStderr(log *diag.Log, stderr []byte) {
	if log == nil {
		return
	}

	scanner := bufio.NewScanner(bytes.NewReader(stderr))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
		case strings.HasPrefix(line, "ERROR:"):
			log.Error(strings.TrimSpace(strings.TrimPrefix(line, "ERROR:")))
		case strings.HasPrefix(line, "WARNING:"):
			log.Warning(strings.TrimSpace(strings.TrimPrefix(line, "WARNING:")))
		default:
			log.Debug(line)
		}
	}
}

func lastLine(stderr []byte) string {
	lines := strings.Split(strings.TrimSpace(string(stderr)), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}
