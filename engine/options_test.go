package engine

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/streamsnag-cli/streamsnag/diag"
)

func TestClone(t *testing.T) {
	Convey("Options clone", t, func() {
		base := ExtractBaseline(diag.New())
		clone := base.Clone()

		Convey("Nested maps are independent", func() {
			clone["http_headers"].(map[string]string)["X-Test"] = "1"
			So(base["http_headers"].(map[string]string), ShouldNotContainKey, "X-Test")

			youtube := clone["extractor_args"].(map[string]any)["youtube"].(map[string]any)
			youtube["player_client"] = []string{"web"}
			original := base["extractor_args"].(map[string]any)["youtube"].(map[string]any)
			So(original["player_client"], ShouldResemble, []string{"android"})
		})

		Convey("The logger handle is shared, not copied", func() {
			So(clone["logger"], ShouldEqual, base["logger"])
		})
	})
}

func TestApplyDownload(t *testing.T) {
	Convey("Download options", t, func() {
		base := ExtractBaseline(diag.New())
		opts := ApplyDownload(base, "/downloads", "my clip")

		Convey("Download mode is enabled with resume semantics", func() {
			So(opts["skip_download"], ShouldEqual, false)
			So(opts["continuedl"], ShouldEqual, true)
			So(opts["overwrites"], ShouldEqual, false)
			So(opts["nopart"], ShouldEqual, false)
			So(opts["format"], ShouldEqual, DownloadFormat)
		})

		Convey("Output template is confined to the output directory", func() {
			tmpl := opts["outtmpl"].(map[string]any)["default"].(string)
			So(tmpl, ShouldStartWith, "/downloads/")
			So(tmpl, ShouldContainSubstring, "my clip-%(id)s.%(ext)s")
			So(opts["paths"].(map[string]any)["home"], ShouldEqual, "/downloads")
		})

		Convey("The source options are not mutated", func() {
			So(base["skip_download"], ShouldEqual, true)
		})
	})
}
