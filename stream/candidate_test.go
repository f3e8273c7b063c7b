package stream

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/streamsnag-cli/streamsnag/metadata"
)

func TestScore(t *testing.T) {
	Convey("Candidate scoring", t, func() {
		Convey("Complete http mp4 scores 100", func() {
			c := Candidate{Extension: "mp4", Protocol: "https", VideoCodec: "avc1", AudioCodec: "mp4a"}
			So(c.Score(), ShouldEqual, 100)
		})

		Convey("Literal none codecs earn no bonus", func() {
			c := Candidate{Extension: "webm", VideoCodec: "vp9", AudioCodec: "none"}
			So(c.Score(), ShouldEqual, 20)
		})

		Convey("Extension comparison is case-insensitive", func() {
			So(Candidate{Extension: "MP4"}.Score(), ShouldEqual, 50)
		})

		Convey("Empty candidate scores zero", func() {
			So(Candidate{}.Score(), ShouldEqual, 0)
		})
	})
}

func TestEnumerate(t *testing.T) {
	Convey("Candidate enumeration", t, func() {
		Convey("Top-level url comes first, then the format lists in fixed order", func() {
			info := metadata.Info{
				"url":      "https://cdn.example/root.mp4",
				"ext":      "mp4",
				"formats":  []any{map[string]any{"url": "https://cdn.example/f.mp4"}},
				"requested_formats": []any{map[string]any{"url": "https://cdn.example/rf.mp4"}},
				"requested_downloads": []any{map[string]any{"url": "https://cdn.example/rd.mp4"}},
			}
			candidates := Enumerate(info)
			So(candidates, ShouldHaveLength, 4)
			So(candidates[0].URL, ShouldEqual, "https://cdn.example/root.mp4")
			So(candidates[1].URL, ShouldEqual, "https://cdn.example/rd.mp4")
			So(candidates[2].URL, ShouldEqual, "https://cdn.example/rf.mp4")
			So(candidates[3].URL, ShouldEqual, "https://cdn.example/f.mp4")
		})

		Convey("Non-http and malformed entries are skipped", func() {
			info := metadata.Info{
				"url": "file:///tmp/local.mp4",
				"formats": []any{
					map[string]any{"url": "rtmp://cdn.example/live"},
					map[string]any{"url": 17},
					"not a mapping",
					map[string]any{"url": "https://cdn.example/ok.mp4"},
				},
			}
			candidates := Enumerate(info)
			So(candidates, ShouldHaveLength, 1)
			So(candidates[0].URL, ShouldEqual, "https://cdn.example/ok.mp4")
		})

		Convey("Candidate headers are normalized", func() {
			info := metadata.Info{
				"url": "https://cdn.example/v.mp4",
				"http_headers": map[string]any{
					"User-Agent": " ua ",
					"Empty":      "",
				},
			}
			candidates := Enumerate(info)
			So(candidates[0].Headers, ShouldResemble, map[string]string{"User-Agent": "ua"})
		})
	})
}

func TestPick(t *testing.T) {
	Convey("Candidate selection", t, func() {
		Convey("Single complete candidate wins with score 100", func() {
			info := metadata.Info{
				"url":      "https://cdn.example/video.mp4",
				"ext":      "mp4",
				"protocol": "https",
				"vcodec":   "avc1",
				"acodec":   "mp4a",
			}
			winner, err := Pick(info)
			So(err, ShouldBeNil)
			So(winner.URL, ShouldEqual, "https://cdn.example/video.mp4")
			So(winner.Score(), ShouldEqual, 100)
		})

		Convey("Higher scored format beats an earlier weaker one", func() {
			info := metadata.Info{
				"formats": []any{
					map[string]any{"url": "https://a/x.webm", "ext": "webm", "vcodec": "vp9", "acodec": "none"},
					map[string]any{"url": "https://a/y.mp4", "ext": "mp4", "vcodec": "avc1", "acodec": "aac", "protocol": "https"},
				},
			}
			winner, err := Pick(info)
			So(err, ShouldBeNil)
			So(winner.URL, ShouldEqual, "https://a/y.mp4")
		})

		Convey("Ties go to the earliest enumerated candidate", func() {
			info := metadata.Info{
				"formats": []any{
					map[string]any{"url": "https://a/first.mp4", "ext": "mp4", "protocol": "https", "vcodec": "avc1", "acodec": "aac"},
					map[string]any{"url": "https://a/second.mp4", "ext": "mp4", "protocol": "https", "vcodec": "avc1", "acodec": "aac"},
				},
			}
			winner, err := Pick(info)
			So(err, ShouldBeNil)
			So(winner.URL, ShouldEqual, "https://a/first.mp4")
		})

		Convey("No candidates fails with the sentinel error", func() {
			_, err := Pick(metadata.Info{})
			So(err, ShouldEqual, ErrNoPlayableStream)

			_, err = Pick(metadata.Info{"formats": []any{map[string]any{"url": "file:///v.mp4"}}})
			So(err, ShouldEqual, ErrNoPlayableStream)
		})
	})
}
