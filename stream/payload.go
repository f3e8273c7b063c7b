package stream

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/samber/mo"
)

// Resolved is the payload produced for an extraction-mode request.
// It always carries an absolute http(s) stream url and request headers that
// include at least User-Agent and Referer.
type Resolved struct {
	ID              string            `json:"id"`
	Title           string            `json:"title"`
	PageURL         string            `json:"pageUrl"`
	StreamURL       string            `json:"streamUrl"`
	RequestHeaders  map[string]string `json:"requestHeaders"`
	ThumbnailURL    string            `json:"thumbnailUrl,omitempty"`
	AuthorName      string            `json:"authorName,omitempty"`
	Extractor       string            `json:"extractor,omitempty"`
	FormatID        string            `json:"formatId,omitempty"`
	Ext             string            `json:"ext,omitempty"`
	Protocol        string            `json:"protocol,omitempty"`
	DurationSeconds mo.Option[int64]  `json:"durationSeconds"`
	EngineVersion   string            `json:"ytDlpVersion"`
	Diagnostics     []string          `json:"diagnostics"`
	ResolvedAtMs    int64             `json:"resolvedAtEpochMs"`
}

// Saved is the payload produced for a download-mode request.
// SavedPath refers to a file that existed when the payload was assembled.
type Saved struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	PageURL       string   `json:"pageUrl"`
	SavedPath     string   `json:"savedPath"`
	SavedName     string   `json:"savedName"`
	EngineVersion string   `json:"ytDlpVersion"`
	Diagnostics   []string `json:"diagnostics"`
	SavedAtMs     int64    `json:"savedAtEpochMs"`
}

// encode renders v as a single JSON line with non-ASCII preserved literally.
func encode(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

// JSON serializes the payload as a single line.
func (r *Resolved) JSON() (string, error) { return encode(r) }

// JSON serializes the payload as a single line.
func (s *Saved) JSON() (string, error) { return encode(s) }
