package swagger

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/smartystreets/goconvey/convey"
	"gopkg.in/yaml.v3"
)

func TestSwaggerHandler(t *testing.T) {
	convey.Convey("Given a swagger handler", t, func() {
		ctx := context.Background()
		mux := http.NewServeMux()

		convey.Convey("When registering the swagger handler", func() {
			Register(ctx, mux)

			convey.Convey("Then it should handle /openapi.yaml route", func() {
				req := httptest.NewRequest("GET", "/openapi.yaml", http.NoBody)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)

				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
				convey.So(w.Header().Get("Content-Type"), convey.ShouldEqual, "application/yaml; charset=utf-8")
				convey.So(w.Body.Len(), convey.ShouldBeGreaterThan, 0)
			})

			convey.Convey("And it should handle /api-docs route", func() {
				req := httptest.NewRequest("GET", "/api-docs", http.NoBody)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)

				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
				convey.So(w.Header().Get("Content-Type"), convey.ShouldEqual, "text/html; charset=utf-8")
				convey.So(w.Body.String(), convey.ShouldContainSubstring, "QA Portal API")
				convey.So(w.Body.String(), convey.ShouldContainSubstring, "redoc-container")
				convey.So(w.Body.String(), convey.ShouldContainSubstring, redocScript)
			})

			convey.Convey("And it should reject writes", func() {
				req := httptest.NewRequest("POST", "/openapi.yaml", http.NoBody)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)

				convey.So(w.Code, convey.ShouldEqual, http.StatusMethodNotAllowed)
			})
		})

		convey.Convey("When registering on a nil mux", func() {
			convey.So(func() { Register(ctx, nil) }, convey.ShouldPanic)
		})
	})
}

func TestOpenAPIDocument(t *testing.T) {
	convey.Convey("Given the embedded OpenAPI document", t, func() {
		var doc struct {
			OpenAPI string         `yaml:"openapi"`
			Paths   map[string]any `yaml:"paths"`
		}
		err := yaml.Unmarshal(OpenAPI, &doc)

		convey.Convey("Then it parses and documents every API route", func() {
			convey.So(err, convey.ShouldBeNil)
			convey.So(doc.OpenAPI, convey.ShouldStartWith, "3.")
			for _, p := range []string{
				"/api/agents",
				"/api/agents/{id}",
				"/api/agents/{id}/qa-scores",
				"/api/agents/{id}/merit-demerits",
				"/api/agents/{id}/comments",
				"/api/agents/{id}/goals",
				"/api/agents/{id}/summary",
				"/api/comments/{id}/responses",
				"/healthz",
				"/stats",
				"/metrics",
			} {
				convey.So(doc.Paths, convey.ShouldContainKey, p)
			}
		})
	})
}
