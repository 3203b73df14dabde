package site_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/okian/qaportal/internal/adapters/http/site"
	"github.com/okian/qaportal/internal/adapters/repository"
	service "github.com/okian/qaportal/internal/app"
	"github.com/okian/qaportal/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

var now = time.Date(2025, 3, 31, 12, 0, 0, 0, time.UTC)

type client struct {
	mux    *http.ServeMux
	cookie *http.Cookie
}

func newClient(opts ...service.Option) (*client, func()) {
	base := []service.Option{
		service.WithLogger(logger.Nop()),
		service.WithClock(func() time.Time { return now }),
	}
	svc := service.New(append(base, opts...)...)
	if err := svc.Start(context.Background()); err != nil {
		panic(err)
	}
	mux := http.NewServeMux()
	site.NewHandler(svc, site.WithCookieTTL(time.Hour)).Register(context.Background(), mux)
	return &client{mux: mux}, svc.Stop
}

func (c *client) do(req *http.Request) *httptest.ResponseRecorder {
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}
	w := httptest.NewRecorder()
	c.mux.ServeHTTP(w, req)
	for _, ck := range w.Result().Cookies() {
		if ck.Name == site.DefaultCookie {
			c.cookie = ck
		}
	}
	return w
}

func (c *client) get(target string) *httptest.ResponseRecorder {
	return c.do(httptest.NewRequest(http.MethodGet, target, nil))
}

func (c *client) post(target string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req)
}

func TestDashboardPage(t *testing.T) {
	Convey("Given a dashboard backed by the seed dataset", t, func() {
		c, stop := newClient()
		defer stop()

		Convey("When the page is first requested", func() {
			w := c.get("/")

			Convey("Then a session cookie is issued and the first agent is shown", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldStartWith, "text/html")
				So(c.cookie, ShouldNotBeNil)
				So(c.cookie.HttpOnly, ShouldBeTrue)
				So(c.cookie.MaxAge, ShouldEqual, 3600)
				body := w.Body.String()
				So(body, ShouldContainSubstring, "Agent Performance Dashboard")
				So(body, ShouldContainSubstring, "Alex Johnson")
				So(body, ShouldContainSubstring, "Great job handling the difficult customer situation yesterday.")
				So(body, ShouldContainSubstring, "Overall Score")
				So(body, ShouldNotContainSubstring, "Michael Brown")
			})

			Convey("Then the same session is reused on the next request", func() {
				first := c.cookie.Value
				w := c.get("/")
				So(w.Code, ShouldEqual, http.StatusOK)
				So(c.cookie.Value, ShouldEqual, first)
				So(w.Result().Cookies(), ShouldBeEmpty)
			})
		})

		Convey("When another agent is selected", func() {
			c.get("/")
			w := c.post("/select", url.Values{"agent_id": {"3"}, "tab": {"trends"}})

			Convey("Then the browser is sent back to the same tab", func() {
				So(w.Code, ShouldEqual, http.StatusSeeOther)
				So(w.Header().Get("Location"), ShouldEqual, "/?tab=trends")

				body := c.get("/?tab=trends").Body.String()
				So(body, ShouldContainSubstring, "Michael Brown")
				So(body, ShouldContainSubstring, "Score Trends")
				So(body, ShouldContainSubstring, "<polyline")
				So(body, ShouldNotContainSubstring, "Alex Johnson")
			})
		})

		Convey("When selecting an unknown agent", func() {
			c.get("/")
			w := c.post("/select", url.Values{"agent_id": {"nobody"}})
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("When the picker is toggled open", func() {
			c.get("/")
			w := c.post("/selector/toggle", nil)
			So(w.Code, ShouldEqual, http.StatusSeeOther)
			So(w.Header().Get("Location"), ShouldEqual, "/")

			Convey("Then every agent is offered", func() {
				body := c.get("/").Body.String()
				for _, name := range []string{"Alex Johnson", "Sarah Williams", "Michael Brown", "Emily Davis"} {
					So(body, ShouldContainSubstring, name)
				}
				So(body, ShouldContainSubstring, `name="agent_id"`)
			})
		})

		Convey("When a reply is opened, drafted and sent", func() {
			c.get("/")
			So(c.post("/comments/comment-1-1/reply/toggle", nil).Code, ShouldEqual, http.StatusSeeOther)
			So(c.get("/").Body.String(), ShouldContainSubstring, "Your Response")

			So(c.post("/comments/comment-1-1/draft", url.Values{"content": {"Thank you kindly"}}).Code, ShouldEqual, http.StatusSeeOther)
			So(c.get("/").Body.String(), ShouldContainSubstring, "Thank you kindly")

			w := c.post("/comments/comment-1-1/reply", url.Values{"content": {"Thank you kindly"}})

			Convey("Then the box closes and nothing is kept", func() {
				So(w.Code, ShouldEqual, http.StatusSeeOther)
				body := c.get("/").Body.String()
				So(body, ShouldNotContainSubstring, "Your Response")
				So(body, ShouldNotContainSubstring, "Thank you kindly")
			})
		})

		Convey("When an empty reply is sent", func() {
			c.get("/")
			c.post("/comments/comment-1-1/reply/toggle", nil)
			w := c.post("/comments/comment-1-1/reply", url.Values{"content": {"   "}})

			Convey("Then the box just closes", func() {
				So(w.Code, ShouldEqual, http.StatusSeeOther)
				So(c.get("/").Body.String(), ShouldNotContainSubstring, "Your Response")
			})
		})

		Convey("When replying to an unknown comment", func() {
			c.get("/")
			So(c.post("/comments/missing/reply/toggle", nil).Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("When the categories tab is requested", func() {
			body := c.get("/?tab=categories").Body.String()
			So(body, ShouldContainSubstring, "Score Categories")
			So(body, ShouldContainSubstring, "Communication")
		})

		Convey("When a method is not allowed", func() {
			So(c.do(httptest.NewRequest(http.MethodGet, "/select", nil)).Code, ShouldEqual, http.StatusMethodNotAllowed)
		})
	})

	Convey("Given a dashboard with no data", t, func() {
		store := repository.NewMemoryStore(context.Background(), repository.Dataset{})
		c, stop := newClient(service.WithStore(store))
		defer stop()

		Convey("Then every panel shows its empty state", func() {
			body := c.get("/").Body.String()
			So(body, ShouldContainSubstring, "Select an agent")
			So(body, ShouldContainSubstring, "No QA scores available yet.")
			So(body, ShouldContainSubstring, "No merit or demerit records available yet.")
			So(body, ShouldContainSubstring, "No comments or feedback available yet.")
			So(body, ShouldContainSubstring, "No performance goals set yet.")
		})
	})
}
