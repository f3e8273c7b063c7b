package config

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func TestSetup(t *testing.T) {
	Convey("Config Setup", t, func() {
		Convey("Should initialize without error", func() {
			err := Setup()
			So(err, ShouldBeNil)
		})

		Convey("Should have default values populated", func() {
			_ = Setup()
			for name := range Default {
				So(viper.Get(name), ShouldNotBeNil)
			}
		})

		Convey("EnvKeyReplacer should convert dots to underscores", func() {
			So(EnvKeyReplacer.Replace("engine.path"), ShouldEqual, "engine_path")
		})

		Convey("Env names should carry the application prefix", func() {
			f := Default["engine.path"]
			So(f.Env(), ShouldEqual, "STREAMSNAG_ENGINE_PATH")
		})

		Convey("Pretty rendering carries the key tag and metadata lines", func() {
			_ = Setup()
			f := Default["engine.path"]
			pretty := f.Pretty()
			So(pretty, ShouldContainSubstring, "engine.path")
			So(pretty, ShouldContainSubstring, "Env:")
			So(pretty, ShouldContainSubstring, "STREAMSNAG_ENGINE_PATH")
			So(pretty, ShouldContainSubstring, "Type:")
		})
	})
}
