package resolver

import (
	"os"
	"testing"
	"time"

	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/streamsnag-cli/streamsnag/filesystem"
	"github.com/streamsnag-cli/streamsnag/metadata"
)

// writeFileAt creates a regular file with the given modification time on the
// in-memory filesystem.
func writeFileAt(path string, mtime time.Time) {
	fs := filesystem.API()
	if err := fs.WriteFile(path, []byte("media"), 0o644); err != nil {
		panic(err)
	}
	if err := fs.Chtimes(path, mtime, mtime); err != nil {
		panic(err)
	}
}

func TestReportedPaths(t *testing.T) {
	Convey("Reported path priority order", t, func() {
		info := metadata.Info{
			"filepath":  "/out/direct.mp4",
			"_filename": "/out/fallback.mp4",
			"requested_downloads": []any{
				map[string]any{"filepath": "/out/rd.mp4"},
			},
			"requested_formats": []any{
				map[string]any{"filepath": "/out/rf.mp4"},
				map[string]any{"filepath": "   "},
			},
			"entries": []any{
				map[string]any{"filepath": "/out/nested.mp4"},
			},
		}

		So(reportedPaths(info), ShouldResemble, []string{
			"/out/direct.mp4",
			"/out/fallback.mp4",
			"/out/rd.mp4",
			"/out/rf.mp4",
			"/out/nested.mp4",
		})
	})
}

func TestLocateSavedFile(t *testing.T) {
	Convey("Saved file location", t, func() {
		filesystem.SetMemMapFs()
		Reset(filesystem.SetOsFs)

		fs := filesystem.API()
		now := time.Now()
		So(fs.MkdirAll("/out", os.ModePerm), ShouldBeNil)

		Convey("A valid reported path wins over the directory scan", func() {
			writeFileAt("/out/reported.mp4", now)
			writeFileAt("/out/newer.mp4", now.Add(time.Hour))

			path, err := locateSavedFile(metadata.Info{"filepath": "/out/reported.mp4"}, "/out", mo.None[time.Time]())
			So(err, ShouldBeNil)
			So(path, ShouldEqual, "/out/reported.mp4")
		})

		Convey("Reported paths older than the floor are skipped", func() {
			writeFileAt("/out/stale.mp4", now.Add(-time.Hour))
			writeFileAt("/out/fresh.mp4", now)

			path, err := locateSavedFile(
				metadata.Info{"filepath": "/out/stale.mp4"},
				"/out",
				mo.Some(now),
			)
			So(err, ShouldBeNil)
			So(path, ShouldEqual, "/out/fresh.mp4")
		})

		Convey("The one-second grace keeps barely-older files", func() {
			writeFileAt("/out/close.mp4", now.Add(-500*time.Millisecond))

			path, err := locateSavedFile(metadata.Info{}, "/out", mo.Some(now))
			So(err, ShouldBeNil)
			So(path, ShouldEqual, "/out/close.mp4")
		})

		Convey("The scan prefers mp4 files over newer non-mp4 files", func() {
			writeFileAt("/out/older.MP4", now)
			writeFileAt("/out/newest.webm", now.Add(time.Hour))

			path, err := locateSavedFile(metadata.Info{}, "/out", mo.None[time.Time]())
			So(err, ShouldBeNil)
			So(path, ShouldEqual, "/out/older.MP4")
		})

		Convey("Among several mp4 files the most recent wins", func() {
			writeFileAt("/out/a.mp4", now)
			writeFileAt("/out/b.mp4", now.Add(time.Minute))

			path, err := locateSavedFile(metadata.Info{}, "/out", mo.None[time.Time]())
			So(err, ShouldBeNil)
			So(path, ShouldEqual, "/out/b.mp4")
		})

		Convey("Without mp4 files any regular file qualifies", func() {
			writeFileAt("/out/only.webm", now)

			path, err := locateSavedFile(metadata.Info{}, "/out", mo.None[time.Time]())
			So(err, ShouldBeNil)
			So(path, ShouldEqual, "/out/only.webm")
		})

		Convey("An empty directory fails with the sentinel error", func() {
			_, err := locateSavedFile(metadata.Info{}, "/out", mo.None[time.Time]())
			So(err, ShouldEqual, ErrNoOutputFile)
		})

		Convey("Every file older than the floor fails", func() {
			writeFileAt("/out/old.mp4", now.Add(-time.Hour))

			_, err := locateSavedFile(metadata.Info{}, "/out", mo.Some(now))
			So(err, ShouldEqual, ErrNoOutputFile)
		})
	})
}
