package site

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/okian/devportal/internal/sidebar"
	. "github.com/smartystreets/goconvey/convey"
)

func get(mux http.Handler, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func TestSiteHandler(t *testing.T) {
	Convey("Given a registered site", t, func() {
		mux := http.NewServeMux()
		Register(context.Background(), mux, nil)

		Convey("When requesting the root", func() {
			w := get(mux, "/")

			Convey("Then it should redirect to the dashboard", func() {
				So(w.Code, ShouldEqual, http.StatusFound)
				So(w.Header().Get("Location"), ShouldEqual, "/static/index.html")
			})
		})

		Convey("When requesting the dashboard", func() {
			w := get(mux, "/static/index.html")

			Convey("Then the home entry should be active", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldContainSubstring, "text/html")
				So(w.Body.String(), ShouldContainSubstring, `href="/static/index.html" class="nav-item active"`)
				So(strings.Count(w.Body.String(), `class="nav-item active"`), ShouldEqual, 1)
			})

			Convey("And the overview partial should be referenced", func() {
				So(w.Body.String(), ShouldContainSubstring, `data-partial="/partials/overview"`)
			})

			Convey("And the sidebar markup should not be escaped", func() {
				So(w.Body.String(), ShouldContainSubstring, `<div class="sidebar" id="sidebar">`)
			})
		})

		Convey("When requesting every linked page", func() {
			for _, e := range sidebar.Entries {
				w := get(mux, e.Href)
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, e.Href+`" class="nav-item active"`)
			}
		})

		Convey("When requesting the chatbot page", func() {
			w := get(mux, "/static/chatbot.html")
			So(w.Body.String(), ShouldContainSubstring, `class="chat-form"`)
		})

		Convey("When requesting the upload page", func() {
			w := get(mux, "/static/upload.html")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "Codebase upload is not available yet.")
			So(w.Body.String(), ShouldNotContainSubstring, "Drop a repository")
		})

		Convey("When requesting an unknown page", func() {
			w := get(mux, "/static/settings.html")
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("When requesting an asset", func() {
			w := get(mux, "/static/assets/portal.css")

			Convey("Then it should be served from the embedded files", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, ".nav-item.active")
			})
		})
	})

	Convey("Given a nil mux", t, func() {
		So(func() { Register(context.Background(), nil, nil) }, ShouldPanic)
	})
}

func TestHandler_Page(t *testing.T) {
	Convey("Given a handler with a custom sidebar", t, func() {
		h := NewHandler(sidebar.New(sidebar.WithUser(sidebar.User{Name: "Asha R."})))

		Convey("Then the page should use it", func() {
			body, err := h.Page("/static/projects.html")
			So(err, ShouldBeNil)
			So(string(body), ShouldContainSubstring, "Asha R.")
			So(string(body), ShouldContainSubstring, `data-partial="/partials/projects"`)
		})

		Convey("Then an unknown path should fail", func() {
			_, err := h.Page("/static/nope.html")
			So(errors.Is(err, ErrUnknownPage), ShouldBeTrue)
		})
	})
}
