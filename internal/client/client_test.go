package client_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/okian/devportal/internal/client"
	"github.com/okian/devportal/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

type recordedCall struct {
	endpoint, method, outcome string
}

type fakeRecorder struct {
	mu       sync.Mutex
	calls    []recordedCall
	failures []string
}

func (f *fakeRecorder) RecordUpstreamRequest(endpoint, method, outcome string, _ float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, recordedCall{endpoint, method, outcome})
}

func (f *fakeRecorder) RecordUpstreamFailure(endpoint, kind string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures = append(f.failures, endpoint+":"+kind)
}

type seenRequest struct {
	method, path, rawQuery, contentType, requestID string
	body                                           []byte
}

type upstream struct {
	mu   sync.Mutex
	seen []seenRequest
}

func (u *upstream) requests() []seenRequest {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]seenRequest(nil), u.seen...)
}

// newUpstream starts a server that records requests and answers with status and body.
func newUpstream(status int, body string) (*httptest.Server, *upstream) {
	up := &upstream{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		up.mu.Lock()
		up.seen = append(up.seen, seenRequest{
			method:      r.Method,
			path:        r.URL.EscapedPath(),
			rawQuery:    r.URL.RawQuery,
			contentType: r.Header.Get("Content-Type"),
			requestID:   r.Header.Get("X-Request-ID"),
			body:        data,
		})
		up.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	return srv, up
}

func newClient(baseURL string, buf *bytes.Buffer, rec *fakeRecorder) *client.Client {
	return client.New(baseURL,
		client.WithLogger(logger.New(buf)),
		client.WithMetrics(rec),
		client.WithTimeout(5*time.Second),
	)
}

func diagnostics(buf *bytes.Buffer) int {
	return strings.Count(buf.String(), "api request failed")
}

func TestPathBuilders(t *testing.T) {
	Convey("Given the endpoint path builders", t, func() {
		Convey("Then stats and chat should use fixed paths", func() {
			So(client.StatsPath(), ShouldEqual, "/api/stats")
			So(client.ChatPath(), ShouldEqual, "/chat")
		})

		Convey("Then projects should append status only when provided", func() {
			So(client.ProjectsPath(""), ShouldEqual, "/api/projects")
			So(client.ProjectsPath("active"), ShouldEqual, "/api/projects?status=active")
		})

		Convey("Then activity should order event_type before limit", func() {
			So(client.ActivityPath("", 0), ShouldEqual, "/api/activity")
			So(client.ActivityPath("deploy", 0), ShouldEqual, "/api/activity?event_type=deploy")
			So(client.ActivityPath("", 5), ShouldEqual, "/api/activity?limit=5")
			So(client.ActivityPath("incident", 10), ShouldEqual, "/api/activity?event_type=incident&limit=10")
			So(client.ActivityPath("", -3), ShouldEqual, "/api/activity")
		})

		Convey("Then codebase should percent-encode the query", func() {
			So(client.CodebasePath(""), ShouldEqual, "/api/codebase")
			So(client.CodebasePath("go"), ShouldEqual, "/api/codebase?q=go")
			So(client.CodebasePath("react dashboard"), ShouldEqual, "/api/codebase?q=react%20dashboard")
			So(client.CodebasePath("a&b=c+d"), ShouldEqual, "/api/codebase?q=a%26b%3Dc%2Bd")
		})

		Convey("Then repo detail should append the name segment", func() {
			So(client.RepoPath("payment-gateway-svc"), ShouldEqual, "/api/codebase/payment-gateway-svc")
			So(client.RepoPath("a b"), ShouldEqual, "/api/codebase/a%20b")
		})
	})
}

func TestClientGet(t *testing.T) {
	Convey("Given an upstream answering 200 with JSON", t, func() {
		srv, seen := newUpstream(http.StatusOK, `{"total_services": 47, "uptime_percent": 99.97}`)
		defer srv.Close()
		var buf bytes.Buffer
		rec := &fakeRecorder{}
		c := newClient(srv.URL+"/", &buf, rec)

		Convey("When calling Get", func() {
			payload := c.Get(context.Background(), "/api/stats")

			Convey("Then the parsed body should be returned unchanged", func() {
				m, ok := payload.(map[string]any)
				So(ok, ShouldBeTrue)
				So(m["total_services"], ShouldEqual, json.Number("47"))
				So(m["uptime_percent"], ShouldEqual, json.Number("99.97"))
			})

			Convey("And the request should carry its headers", func() {
				So(len(seen.requests()), ShouldEqual, 1)
				So(seen.requests()[0].method, ShouldEqual, http.MethodGet)
				So(seen.requests()[0].path, ShouldEqual, "/api/stats")
				So(seen.requests()[0].requestID, ShouldNotBeEmpty)
			})

			Convey("And nothing should be logged", func() {
				So(buf.String(), ShouldBeEmpty)
			})

			Convey("And a success should be recorded", func() {
				So(rec.calls, ShouldResemble, []recordedCall{{"/api/stats", http.MethodGet, "success"}})
			})
		})

		Convey("When calling the typed stats wrapper", func() {
			stats, ok := c.StatsInfo(context.Background())

			Convey("Then the payload should be decoded", func() {
				So(ok, ShouldBeTrue)
				So(stats.TotalServices, ShouldEqual, 47)
				So(stats.UptimePercent, ShouldEqual, 99.97)
			})
		})
	})

	Convey("Given an upstream answering 500", t, func() {
		srv, _ := newUpstream(http.StatusInternalServerError, `{"detail":"boom"}`)
		defer srv.Close()
		var buf bytes.Buffer
		rec := &fakeRecorder{}
		c := newClient(srv.URL, &buf, rec)

		Convey("When calling Get", func() {
			payload := c.Get(context.Background(), "/api/stats")

			Convey("Then nil should be returned with exactly one diagnostic naming the path", func() {
				So(payload, ShouldBeNil)
				So(diagnostics(&buf), ShouldEqual, 1)
				So(buf.String(), ShouldContainSubstring, "/api/stats")
				So(buf.String(), ShouldContainSubstring, "HTTP 500")
			})

			Convey("And the failure kind should be recorded", func() {
				So(rec.failures, ShouldResemble, []string{"/api/stats:status"})
			})
		})
	})

	Convey("Given an upstream answering 404", t, func() {
		srv, _ := newUpstream(http.StatusNotFound, ``)
		defer srv.Close()
		var buf bytes.Buffer
		c := newClient(srv.URL, &buf, &fakeRecorder{})

		Convey("Then the typed wrapper should report a miss", func() {
			projects, ok := c.ProjectList(context.Background(), "active")
			So(ok, ShouldBeFalse)
			So(projects, ShouldBeNil)
			So(diagnostics(&buf), ShouldEqual, 1)
		})
	})

	Convey("Given an upstream answering malformed JSON", t, func() {
		srv, _ := newUpstream(http.StatusOK, `{"total_services": `)
		defer srv.Close()
		var buf bytes.Buffer
		rec := &fakeRecorder{}
		c := newClient(srv.URL, &buf, rec)

		Convey("Then Get should return nil and log once", func() {
			So(c.Stats(context.Background()), ShouldBeNil)
			So(diagnostics(&buf), ShouldEqual, 1)
			So(rec.failures, ShouldResemble, []string{"/api/stats:decode"})
		})
	})

	Convey("Given an upstream answering two JSON values", t, func() {
		srv, _ := newUpstream(http.StatusOK, `{} {}`)
		defer srv.Close()
		var buf bytes.Buffer
		c := newClient(srv.URL, &buf, &fakeRecorder{})

		Convey("Then the trailing data should be a decode failure", func() {
			So(c.Get(context.Background(), "/api/stats"), ShouldBeNil)
			So(diagnostics(&buf), ShouldEqual, 1)
		})
	})

	Convey("Given an unreachable upstream", t, func() {
		srv, _ := newUpstream(http.StatusOK, `{}`)
		url := srv.URL
		srv.Close()
		var buf bytes.Buffer
		rec := &fakeRecorder{}
		c := newClient(url, &buf, rec)

		Convey("Then Get should return nil and log once", func() {
			So(c.Projects(context.Background(), ""), ShouldBeNil)
			So(diagnostics(&buf), ShouldEqual, 1)
			So(buf.String(), ShouldContainSubstring, "/api/projects")
			So(rec.failures, ShouldResemble, []string{"/api/projects:transport"})
		})
	})

	Convey("Given a cancelled context", t, func() {
		srv, _ := newUpstream(http.StatusOK, `{}`)
		defer srv.Close()
		var buf bytes.Buffer
		c := newClient(srv.URL, &buf, &fakeRecorder{})
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		Convey("Then the call should fail without panicking", func() {
			So(c.Stats(ctx), ShouldBeNil)
			So(diagnostics(&buf), ShouldEqual, 1)
		})
	})
}

func TestClientWrappers(t *testing.T) {
	Convey("Given an upstream recording requests", t, func() {
		srv, seen := newUpstream(http.StatusOK, `[]`)
		defer srv.Close()
		var buf bytes.Buffer
		rec := &fakeRecorder{}
		c := newClient(srv.URL, &buf, rec)
		ctx := context.Background()

		Convey("When fetching activity with only a limit", func() {
			events, ok := c.ActivityFeed(ctx, "", 5)

			Convey("Then only limit should be sent", func() {
				So(ok, ShouldBeTrue)
				So(events, ShouldNotBeNil)
				So(len(events), ShouldEqual, 0)
				So(seen.requests()[0].rawQuery, ShouldEqual, "limit=5")
			})
		})

		Convey("When fetching activity with neither filter", func() {
			c.Activity(ctx, "", 0)

			Convey("Then no query string should be sent", func() {
				So(seen.requests()[0].path, ShouldEqual, "/api/activity")
				So(seen.requests()[0].rawQuery, ShouldBeEmpty)
			})
		})

		Convey("When searching the codebase", func() {
			c.Codebase(ctx, "react dashboard")

			Convey("Then the query should arrive percent-encoded", func() {
				So(seen.requests()[0].rawQuery, ShouldEqual, "q=react%20dashboard")
			})
		})

		Convey("When fetching a repository", func() {
			c.Repo(ctx, "payment-gateway-svc")

			Convey("Then the route label should omit the name", func() {
				So(seen.requests()[0].path, ShouldEqual, "/api/codebase/payment-gateway-svc")
				So(rec.calls[0].endpoint, ShouldEqual, "/api/codebase/{name}")
			})
		})

		Convey("When issuing concurrent requests", func() {
			var wg sync.WaitGroup
			results := make([]any, 16)
			for i := range results {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					results[i] = c.Projects(ctx, "")
				}(i)
			}
			wg.Wait()

			Convey("Then each should be an independent request", func() {
				So(len(seen.requests()), ShouldEqual, 16)
				for _, r := range results {
					So(r, ShouldNotBeNil)
				}
				ids := map[string]bool{}
				for _, s := range seen.requests() {
					ids[s.requestID] = true
				}
				So(len(ids), ShouldEqual, 16)
			})
		})
	})

	Convey("Given a chat upstream", t, func() {
		srv, seen := newUpstream(http.StatusOK, `{"folder_structure":"svc/","files":{"svc/main.go":"package main"},"explanation":"done"}`)
		defer srv.Close()
		var buf bytes.Buffer
		c := newClient(srv.URL, &buf, &fakeRecorder{})

		Convey("When posting a message", func() {
			reply, ok := c.ChatReply(context.Background(), "create a go service")

			Convey("Then a JSON body with the message should be sent", func() {
				So(ok, ShouldBeTrue)
				So(seen.requests()[0].method, ShouldEqual, http.MethodPost)
				So(seen.requests()[0].path, ShouldEqual, "/chat")
				So(seen.requests()[0].contentType, ShouldEqual, "application/json")
				So(string(seen.requests()[0].body), ShouldEqual, `{"message":"create a go service"}`)
			})

			Convey("And the reply should be decoded", func() {
				So(reply.Explanation, ShouldEqual, "done")
				So(reply.Files["svc/main.go"], ShouldEqual, "package main")
			})
		})

		Convey("When posting an unencodable body", func() {
			payload := c.Post(context.Background(), "/chat", map[string]any{"bad": make(chan int)})

			Convey("Then nothing should be sent and one diagnostic logged", func() {
				So(payload, ShouldBeNil)
				So(len(seen.requests()), ShouldEqual, 0)
				So(diagnostics(&buf), ShouldEqual, 1)
			})
		})
	})

	Convey("Given an upstream reporting an unknown repository", t, func() {
		srv, _ := newUpstream(http.StatusOK, `{"error": "Repository 'nope' not found"}`)
		defer srv.Close()
		var buf bytes.Buffer
		c := newClient(srv.URL, &buf, &fakeRecorder{})

		Convey("Then the typed wrapper should report a miss without a failure diagnostic", func() {
			repo, ok := c.Repository(context.Background(), "nope")
			So(ok, ShouldBeFalse)
			So(repo, ShouldBeNil)
			So(diagnostics(&buf), ShouldEqual, 0)
			So(buf.String(), ShouldContainSubstring, "repository not found")
		})

		Convey("And the opaque wrapper should pass the body through", func() {
			payload := c.Repo(context.Background(), "nope")
			m, ok := payload.(map[string]any)
			So(ok, ShouldBeTrue)
			So(m["error"], ShouldEqual, "Repository 'nope' not found")
		})
	})
}

func TestClientNew(t *testing.T) {
	Convey("Given a base URL with a trailing slash", t, func() {
		c := client.New(" http://api.local:8000/ ")

		Convey("Then it should be trimmed", func() {
			So(c.BaseURL(), ShouldEqual, "http://api.local:8000")
		})
	})
}

func TestClientTimeout(t *testing.T) {
	Convey("Given a shared transport client and a timeout", t, func() {
		shared := &http.Client{}
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			time.Sleep(200 * time.Millisecond)
			_, _ = io.WriteString(w, `{}`)
		}))
		defer srv.Close()

		var buf bytes.Buffer
		c := client.New(srv.URL,
			client.WithHTTPClient(shared),
			client.WithTimeout(20*time.Millisecond),
			client.WithLogger(logger.New(&buf)),
			client.WithMetrics(&fakeRecorder{}),
		)

		Convey("Then the shared client should be left untouched", func() {
			So(shared.Timeout, ShouldEqual, time.Duration(0))
		})

		Convey("Then requests should still be bounded", func() {
			So(c.Get(context.Background(), "/api/stats"), ShouldBeNil)
			So(diagnostics(&buf), ShouldEqual, 1)
		})
	})

	Convey("Given the timeout option before the transport option", t, func() {
		shared := &http.Client{}
		_ = client.New("http://api.local",
			client.WithTimeout(time.Second),
			client.WithHTTPClient(shared),
		)

		Convey("Then the shared client should be left untouched", func() {
			So(shared.Timeout, ShouldEqual, time.Duration(0))
		})
	})
}
