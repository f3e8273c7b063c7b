// Package updater discovers newer releases of the extraction engine.
//
// The engine evolves fast and extractors break between releases, so surfacing
// "your yt-dlp is stale" is often the real fix for a failing resolution. The
// latest release tag is read from the GitHub releases API and cached to avoid
// spamming it.
package updater

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/metafates/gache"
	"github.com/streamsnag-cli/streamsnag/constant"
	"github.com/streamsnag-cli/streamsnag/filesystem"
	"github.com/streamsnag-cli/streamsnag/network"
	"github.com/streamsnag-cli/streamsnag/util"
	"github.com/streamsnag-cli/streamsnag/where"
)

// releaseCacher persists the latest known engine release tag between runs.
var releaseCacher = gache.New[string](&gache.Options{
	Path:       filepath.Join(where.Cache(), "engine-release.json"),
	Lifetime:   time.Hour * 24,
	FileSystem: &filesystem.GacheFs{},
})

// Info summarizes one update check.
type Info struct {
	CurrentVersion  string    `json:"currentVersion"`
	LatestVersion   string    `json:"latestVersion"`
	UpdateAvailable bool      `json:"updateAvailable"`
	CheckedAt       time.Time `json:"checkedAt"`
}

// Check compares the installed engine version against the latest release.
// An empty current version yields the latest tag with no availability claim.
func Check(ctx context.Context, releaseAPI, currentVersion string) (Info, error) {
	latest, err := Latest(ctx, releaseAPI)
	if err != nil {
		return Info{}, err
	}

	var available bool
	if currentVersion != "" {
		if cmp, cmpErr := Compare(latest, currentVersion); cmpErr == nil {
			available = cmp > 0
		} else {
			// Nightly builds and channel suffixes do not parse, fall back
			// to plain inequality.
			available = normalizeTag(currentVersion) != normalizeTag(latest)
		}
	}

	return Info{
		CurrentVersion:  currentVersion,
		LatestVersion:   latest,
		UpdateAvailable: available,
		CheckedAt:       time.Now(),
	}, nil
}

// Latest retrieves the most recent engine release tag, consulting the local
// cache before the release API.
func Latest(ctx context.Context, releaseAPI string) (string, error) {
	tag, expired, err := releaseCacher.Get()
	if err == nil && !expired && tag != "" {
		return tag, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, releaseAPI, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", constant.Streamsnag+"/"+constant.Version)

	resp, err := network.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch latest engine release: %w", err)
	}
	defer util.Ignore(resp.Body.Close)

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("release api returned status %d", resp.StatusCode)
	}

	var release struct {
		TagName string `json:"tag_name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return "", fmt.Errorf("decode release payload: %w", err)
	}
	if release.TagName == "" {
		return "", errors.New("release payload carried an empty tag name")
	}

	tag = normalizeTag(release.TagName)
	_ = releaseCacher.Set(tag)
	return tag, nil
}

// normalizeTag strips the optional v prefix and surrounding whitespace so
// tags compare by content.
func normalizeTag(tag string) string {
	return strings.TrimPrefix(strings.ToLower(strings.TrimSpace(tag)), "v")
}
