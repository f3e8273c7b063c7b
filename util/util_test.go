package util

import (
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/streamsnag-cli/streamsnag/constant"
)

func TestSanitizeFilename(t *testing.T) {
	Convey("SanitizeFilename", t, func() {
		Convey("Should replace invalid chars with spaces", func() {
			So(SanitizeFilename(`clip: part?one`), ShouldEqual, "clip part one")
		})
		Convey("Should collapse whitespace and trim dots", func() {
			So(SanitizeFilename("  some   title.. "), ShouldEqual, "some title")
		})
		Convey("Should fall back for empty input", func() {
			So(SanitizeFilename(""), ShouldEqual, constant.FallbackStem)
			So(SanitizeFilename(`///`), ShouldEqual, constant.FallbackStem)
		})
		Convey("Should cap overly long stems", func() {
			long := strings.Repeat("a", 200)
			So(len(SanitizeFilename(long)), ShouldEqual, 90)
		})
	})
}

func TestCapitalize(t *testing.T) {
	Convey("Capitalize", t, func() {
		So(Capitalize("hello"), ShouldEqual, "Hello")
		So(Capitalize(""), ShouldEqual, "")
	})
}
