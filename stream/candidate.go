// Package stream implements playable-candidate selection over engine output
// and the payload shapes returned to callers.
package stream

import (
	"errors"
	"sort"
	"strings"

	"github.com/streamsnag-cli/streamsnag/metadata"
)

// ErrNoPlayableStream indicates the engine output held no absolute-http candidate.
var ErrNoPlayableStream = errors.New("engine output did not include a playable stream url")

// Scoring bonuses. The weights favor complete mp4 audio+video streams over
// plain http delivery; they are tuned values kept for compatibility with
// existing clients, not derived from any deeper rule.
const (
	scoreMP4      = 50
	scoreHTTP     = 20
	scoreHasVideo = 20
	scoreHasAudio = 10
)

// Candidate is a flattened projection of one playable option found in engine output.
type Candidate struct {
	URL        string
	Protocol   string
	Extension  string
	VideoCodec string
	AudioCodec string
	FormatID   string
	Headers    map[string]string
}

// fromInfo projects the candidate-relevant fields out of one metadata mapping.
func fromInfo(info metadata.Info) Candidate {
	return Candidate{
		URL:        info.String("url"),
		Protocol:   info.String("protocol"),
		Extension:  info.String("ext"),
		VideoCodec: info.String("vcodec"),
		AudioCodec: info.String("acodec"),
		FormatID:   info.Stringify("format_id", ""),
		Headers:    info.Headers("http_headers"),
	}
}

// formatListKeys are walked in fixed order after the top-level url; order
// decides ties between equally scored candidates.
var formatListKeys = []string{"requested_downloads", "requested_formats", "formats"}

// Enumerate flattens the engine output into candidates, preserving encounter
// order and skipping entries without an absolute http(s) url. Duplicates are
// kept; the stable ranking makes the earliest occurrence win.
func Enumerate(info metadata.Info) []Candidate {
	var candidates []Candidate

	if metadata.IsHTTPURL(info["url"]) {
		candidates = append(candidates, fromInfo(info))
	}

	for _, key := range formatListKeys {
		for _, entry := range info.Maps(key) {
			if !metadata.IsHTTPURL(entry["url"]) {
				continue
			}
			candidates = append(candidates, fromInfo(entry))
		}
	}

	return candidates
}

// Score rates a candidate; higher is better.
func (c Candidate) Score() int {
	score := 0
	if strings.EqualFold(c.Extension, "mp4") {
		score += scoreMP4
	}
	if strings.HasPrefix(strings.ToLower(c.Protocol), "http") {
		score += scoreHTTP
	}
	if c.VideoCodec != "" && c.VideoCodec != "none" {
		score += scoreHasVideo
	}
	if c.AudioCodec != "" && c.AudioCodec != "none" {
		score += scoreHasAudio
	}
	return score
}

// Pick selects the best candidate from engine output. The sort is stable, so
// among equal scores the earliest enumerated candidate wins.
func Pick(info metadata.Info) (Candidate, error) {
	candidates := Enumerate(info)
	if len(candidates) == 0 {
		return Candidate{}, ErrNoPlayableStream
	}

	sort.SliceStable(candidates, func(a, b int) bool {
		return candidates[a].Score() > candidates[b].Score()
	})
	return candidates[0], nil
}
