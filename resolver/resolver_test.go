package resolver

import (
	"context"
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/streamsnag-cli/streamsnag/constant"
	"github.com/streamsnag-cli/streamsnag/engine"
	"github.com/streamsnag-cli/streamsnag/engine/ytdlp"
	"github.com/streamsnag-cli/streamsnag/metadata"
	"github.com/streamsnag-cli/streamsnag/stream"
)

// fakeEngine replays scripted outcomes and records the options of each call.
type fakeEngine struct {
	outcomes []fakeOutcome
	calls    []engine.Options
	version  string
	onCall   func()
}

type fakeOutcome struct {
	info metadata.Info
	err  error
}

func (f *fakeEngine) Extract(_ context.Context, _ string, opts engine.Options) (metadata.Info, error) {
	f.calls = append(f.calls, opts)
	if f.onCall != nil {
		f.onCall()
	}
	outcome := f.outcomes[0]
	if len(f.outcomes) > 1 {
		f.outcomes = f.outcomes[1:]
	}
	return outcome.info, outcome.err
}

func (f *fakeEngine) Version(context.Context) (string, error) {
	if f.version == "" {
		return "", errors.New("no engine")
	}
	return f.version, nil
}

func TestResolve(t *testing.T) {
	Convey("Extract-mode resolution", t, func() {
		ctx := context.Background()

		Convey("Rejects non-http page urls before any engine call", func() {
			eng := &fakeEngine{}
			_, err := New(eng, ytdlp.NewParser()).Resolve(ctx, Request{PageURL: "ftp://example.com"})
			So(err, ShouldEqual, ErrPageURL)
			So(eng.calls, ShouldBeEmpty)
		})

		Convey("Assembles a complete payload from a clean extraction", func() {
			eng := &fakeEngine{
				version: "2025.08.01",
				outcomes: []fakeOutcome{{info: metadata.Info{
					"id":          "abc123",
					"title":       "A video",
					"webpage_url": "https://example.com/watch?v=abc123",
					"thumbnail":   "https://example.com/t.jpg",
					"uploader":    "someone",
					"extractor":   "example",
					"duration":    93.7,
					"url":         "https://cdn.example/v.mp4",
					"ext":         "mp4",
					"protocol":    "https",
					"vcodec":      "avc1",
					"acodec":      "mp4a",
					"format_id":   "22",
					"http_headers": map[string]any{
						"User-Agent": "custom-ua",
					},
				}}},
			}

			resolved, err := New(eng, ytdlp.NewParser()).Resolve(ctx, Request{PageURL: "https://example.com/watch?v=abc123"})
			So(err, ShouldBeNil)
			So(resolved.StreamURL, ShouldEqual, "https://cdn.example/v.mp4")
			So(resolved.ID, ShouldEqual, "abc123")
			So(resolved.Title, ShouldEqual, "A video")
			So(resolved.FormatID, ShouldEqual, "22")
			So(resolved.EngineVersion, ShouldEqual, "2025.08.01")
			So(resolved.DurationSeconds.MustGet(), ShouldEqual, 93)
			So(resolved.RequestHeaders["User-Agent"], ShouldEqual, "custom-ua")
			So(resolved.RequestHeaders["Referer"], ShouldEqual, "https://example.com/watch?v=abc123")
			So(resolved.ResolvedAtMs, ShouldBeGreaterThan, 0)
		})

		Convey("Falls back to top-level headers and injects defaults", func() {
			eng := &fakeEngine{outcomes: []fakeOutcome{{info: metadata.Info{
				"url":          "https://cdn.example/v.mp4",
				"http_headers": map[string]any{"Cookie": "a=b"},
			}}}}

			resolved, err := New(eng, ytdlp.NewParser()).Resolve(ctx, Request{PageURL: "https://example.com/page"})
			So(err, ShouldBeNil)
			So(resolved.RequestHeaders["Cookie"], ShouldEqual, "a=b")
			So(resolved.RequestHeaders["User-Agent"], ShouldEqual, constant.UserAgent)
			So(resolved.RequestHeaders["Referer"], ShouldEqual, "https://example.com/page")
		})

		Convey("Negative or missing duration is absent", func() {
			eng := &fakeEngine{outcomes: []fakeOutcome{{info: metadata.Info{
				"url":      "https://cdn.example/v.mp4",
				"duration": -3.0,
			}}}}

			resolved, err := New(eng, ytdlp.NewParser()).Resolve(ctx, Request{PageURL: "https://example.com/page"})
			So(err, ShouldBeNil)
			So(resolved.DurationSeconds.IsAbsent(), ShouldBeTrue)
		})

		Convey("Playlist results reduce to their first non-empty entry", func() {
			eng := &fakeEngine{outcomes: []fakeOutcome{{info: metadata.Info{
				"entries": []any{
					map[string]any{},
					map[string]any{"id": "second", "url": "https://cdn.example/2.mp4"},
					map[string]any{"id": "third", "url": "https://cdn.example/3.mp4"},
				},
			}}}}

			resolved, err := New(eng, ytdlp.NewParser()).Resolve(ctx, Request{PageURL: "https://example.com/playlist"})
			So(err, ShouldBeNil)
			So(resolved.ID, ShouldEqual, "second")
			So(resolved.StreamURL, ShouldEqual, "https://cdn.example/2.mp4")
		})

		Convey("No playable candidate is fatal and not retried", func() {
			eng := &fakeEngine{outcomes: []fakeOutcome{{info: metadata.Info{
				"formats": []any{map[string]any{"url": "file:///tmp/v.mp4"}},
			}}}}

			_, err := New(eng, ytdlp.NewParser()).Resolve(ctx, Request{PageURL: "https://example.com/page"})
			So(errors.Is(err, stream.ErrNoPlayableStream), ShouldBeTrue)
			So(eng.calls, ShouldHaveLength, 1)
		})

		Convey("A failing custom command falls back to baseline-only options", func() {
			good := metadata.Info{"url": "https://cdn.example/v.mp4"}

			Convey("When the command cannot be parsed the engine runs once", func() {
				eng := &fakeEngine{outcomes: []fakeOutcome{{info: good}}}
				resolved, err := New(eng, ytdlp.NewParser()).Resolve(ctx, Request{
					PageURL: "https://example.com/page",
					Command: "--definitely-not-a-flag",
				})
				So(err, ShouldBeNil)
				So(resolved.StreamURL, ShouldEqual, "https://cdn.example/v.mp4")
				So(eng.calls, ShouldHaveLength, 1)
				So(eng.calls[0]["quiet"], ShouldEqual, true)
			})

			Convey("When the custom extraction fails the baseline attempt follows", func() {
				eng := &fakeEngine{outcomes: []fakeOutcome{
					{err: errors.New("extractor blew up")},
					{info: good},
				}}
				resolved, err := New(eng, ytdlp.NewParser()).Resolve(ctx, Request{
					PageURL: "https://example.com/page",
					Command: "yt-dlp --format worst",
				})
				So(err, ShouldBeNil)
				So(resolved.StreamURL, ShouldEqual, "https://cdn.example/v.mp4")
				So(eng.calls, ShouldHaveLength, 2)
				So(eng.calls[0]["format"], ShouldEqual, "worst")
				So(eng.calls[1]["format"], ShouldEqual, engine.ExtractFormat)
			})

			Convey("Failure diagnostics surface in the fallback payload tail", func() {
				eng := &fakeEngine{outcomes: []fakeOutcome{
					{err: errors.New("extractor blew up")},
					{info: good},
				}}
				resolved, err := New(eng, ytdlp.NewParser()).Resolve(ctx, Request{
					PageURL: "https://example.com/page",
					Command: "--format worst",
				})
				So(err, ShouldBeNil)
				So(resolved.Diagnostics, ShouldHaveLength, 1)
				So(resolved.Diagnostics[0], ShouldContainSubstring, "falling back to defaults")
			})

			Convey("When both attempts fail the second error propagates", func() {
				eng := &fakeEngine{outcomes: []fakeOutcome{
					{err: errors.New("first failure")},
					{err: errors.New("second failure")},
				}}
				_, err := New(eng, ytdlp.NewParser()).Resolve(ctx, Request{
					PageURL: "https://example.com/page",
					Command: "--format worst",
				})
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "second failure")
				So(eng.calls, ShouldHaveLength, 2)
			})
		})

		Convey("Without a command the engine is invoked exactly once even on failure", func() {
			eng := &fakeEngine{outcomes: []fakeOutcome{{err: errors.New("network down")}}}
			_, err := New(eng, ytdlp.NewParser()).Resolve(ctx, Request{PageURL: "https://example.com/page"})
			So(err, ShouldNotBeNil)
			So(eng.calls, ShouldHaveLength, 1)
		})

		Convey("A version probe failure does not fail resolution", func() {
			eng := &fakeEngine{outcomes: []fakeOutcome{{info: metadata.Info{"url": "https://cdn.example/v.mp4"}}}}
			resolved, err := New(eng, ytdlp.NewParser()).Resolve(ctx, Request{PageURL: "https://example.com/page"})
			So(err, ShouldBeNil)
			So(resolved.EngineVersion, ShouldEqual, "")
		})
	})
}

func TestUnexpectedPayload(t *testing.T) {
	Convey("Payload shape validation", t, func() {
		ctx := context.Background()

		Convey("A nil engine payload is rejected", func() {
			eng := &fakeEngine{outcomes: []fakeOutcome{{info: nil}}}
			_, err := New(eng, ytdlp.NewParser()).Resolve(ctx, Request{PageURL: "https://example.com/page"})
			So(errors.Is(err, ErrUnexpectedPayload), ShouldBeTrue)
		})

		Convey("A non-mapping playlist entry wins the reduction and is rejected", func() {
			eng := &fakeEngine{outcomes: []fakeOutcome{{info: metadata.Info{
				"url":     "https://cdn.example/wrapper.mp4",
				"entries": []any{"https://cdn.example/1.mp4"},
			}}}}
			_, err := New(eng, ytdlp.NewParser()).Resolve(ctx, Request{PageURL: "https://example.com/page"})
			So(errors.Is(err, ErrUnexpectedPayload), ShouldBeTrue)
		})

		Convey("Empty entries are skipped before the first one carrying content", func() {
			eng := &fakeEngine{outcomes: []fakeOutcome{{info: metadata.Info{
				"entries": []any{nil, "", map[string]any{}, 12.0},
			}}}}
			_, err := New(eng, ytdlp.NewParser()).Resolve(ctx, Request{PageURL: "https://example.com/page"})
			So(errors.Is(err, ErrUnexpectedPayload), ShouldBeTrue)
		})
	})
}
