package fetch

import (
	"context"
	"errors"
	"net/http"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestBuildRequest(t *testing.T) {
	Convey("Request construction", t, func() {
		ctx := context.Background()

		Convey("GET folds the payload into query parameters", func() {
			req, err := buildRequest(ctx, http.MethodGet, "https://api.example/v1?x=1", map[string]any{
				"q":     "search term",
				"limit": 5,
			})
			So(err, ShouldBeNil)
			So(req.Body, ShouldBeNil)

			query := req.URL.Query()
			So(query.Get("x"), ShouldEqual, "1")
			So(query.Get("q"), ShouldEqual, "search term")
			So(query.Get("limit"), ShouldEqual, "5")
		})

		Convey("Non-GET sends the payload as a JSON body", func() {
			req, err := buildRequest(ctx, http.MethodPost, "https://api.example/v1", map[string]any{"a": "b"})
			So(err, ShouldBeNil)
			So(req.Header.Get("Content-Type"), ShouldEqual, "application/json")
			So(req.Body, ShouldNotBeNil)
			So(req.URL.RawQuery, ShouldBeEmpty)
		})

		Convey("A nil payload produces a bare request", func() {
			req, err := buildRequest(ctx, http.MethodPost, "https://api.example/v1", nil)
			So(err, ShouldBeNil)
			So(req.Body, ShouldBeNil)
		})

		Convey("Browser impersonation headers are applied", func() {
			req, err := buildRequest(ctx, http.MethodGet, "https://api.example/v1", nil)
			So(err, ShouldBeNil)
			So(req.Header.Get("User-Agent"), ShouldContainSubstring, "Chrome/120")
			So(req.Header.Get("Accept-Language"), ShouldNotBeEmpty)
		})
	})
}

func TestDoValidation(t *testing.T) {
	Convey("Do input validation", t, func() {
		ctx := context.Background()

		Convey("Empty method is a setup error", func() {
			_, err := Do(ctx, "  ", "https://api.example", nil)
			So(errors.Is(err, ErrSetup), ShouldBeTrue)
		})

		Convey("Malformed urls are setup errors", func() {
			_, err := Do(ctx, "GET", "://bad", nil)
			So(errors.Is(err, ErrSetup), ShouldBeTrue)
		})
	})
}
