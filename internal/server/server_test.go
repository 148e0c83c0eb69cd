package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/enclens/enclens/pkg/encodingapi"
)

const emptyList = `{"items":[],"totalCount":0}`

func upstream(t *testing.T) *encodingapi.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/encoding/encodings/enc-1":
			fmt.Fprint(w, `{"id":"enc-1","name":"nightly","status":"FINISHED"}`)
		case r.URL.Path == "/encoding/encodings/enc-1/start":
			fmt.Fprint(w, `{}`)
		case strings.HasSuffix(r.URL.Path, "/muxings"),
			strings.HasSuffix(r.URL.Path, "/streams"),
			strings.HasPrefix(r.URL.Path, "/encoding/manifests/"):
			fmt.Fprint(w, emptyList)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return encodingapi.NewClient(encodingapi.Config{BaseURL: srv.URL, APIKey: "k"})
}

func testServer(t *testing.T) *Server {
	t.Helper()
	return New(upstream(t), 2, nil)
}

func get(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	s.Router().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	rec := get(t, testServer(t), "/healthz")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestReport(t *testing.T) {
	rec := get(t, testServer(t), "/api/encodings/enc-1/report")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}

	var payload struct {
		EncodingID string `json:"encodingId"`
		Report     struct {
			Encoding struct {
				Name string `json:"name"`
			} `json:"encoding"`
		} `json:"report"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatal(err)
	}
	if payload.EncodingID != "enc-1" || payload.Report.Encoding.Name != "nightly" {
		t.Errorf("payload = %+v", payload)
	}
}

func TestReportUnknownEncoding(t *testing.T) {
	rec := get(t, testServer(t), "/api/encodings/missing/report")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestReportReusesLatestResult(t *testing.T) {
	s := testServer(t)

	first := get(t, s, "/api/encodings/enc-1/report")
	second := get(t, s, "/api/encodings/enc-1/report")
	refreshed := get(t, s, "/api/encodings/enc-1/report?refresh=1")

	var a, b, c struct {
		SessionID string `json:"sessionId"`
	}
	_ = json.Unmarshal(first.Body.Bytes(), &a)
	_ = json.Unmarshal(second.Body.Bytes(), &b)
	_ = json.Unmarshal(refreshed.Body.Bytes(), &c)

	if a.SessionID != b.SessionID {
		t.Error("second request should serve the cached inspection")
	}
	if c.SessionID == a.SessionID {
		t.Error("refresh=1 should run a new inspection")
	}
}

func TestGraphDOT(t *testing.T) {
	rec := get(t, testServer(t), "/api/encodings/enc-1/graph.dot")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "digraph") || !strings.Contains(body, "enc-1") {
		t.Errorf("dot output missing graph content:\n%s", body)
	}
}

func TestGraphDOTShowGroups(t *testing.T) {
	s := testServer(t)

	rec := get(t, s, "/api/encodings/enc-1/graph.dot?show=streams")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "enc-1") {
		t.Errorf("show=streams should hide the encoding node:\n%s", rec.Body)
	}

	rec = get(t, s, "/api/encodings/enc-1/graph.dot?show=bogus")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown group: status = %d, want 400", rec.Code)
	}
}

func TestRenditionsEmptyEncoding(t *testing.T) {
	rec := get(t, testServer(t), "/api/encodings/enc-1/renditions")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	var payload renditionsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatal(err)
	}
	if payload.Count != 0 {
		t.Errorf("count = %d", payload.Count)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s := testServer(t)
	get(t, s, "/healthz")

	rec := get(t, s, "/metrics")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "enclens_http_requests_total") {
		t.Error("request counter missing from scrape")
	}
}
