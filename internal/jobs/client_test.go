package jobs

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func serveBody(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != ActiveDownloadsPath {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchActiveSuccess(t *testing.T) {
	srv := serveBody(t, http.StatusOK, `{"count":1,"jobs":[{"job_id":"42","book_title":"Dune","current":3,"total":10,"percent":30,"message":"Downloading"}]}`)

	snapshot, err := NewClient(srv.URL+"/", nil).FetchActive(context.Background())
	if err != nil {
		t.Fatalf("FetchActive returned error: %v", err)
	}
	if snapshot.Count != 1 || len(snapshot.Jobs) != 1 {
		t.Fatalf("unexpected snapshot: %#v", snapshot)
	}
	want := JobView{JobID: "42", BookTitle: "Dune", Current: 3, Total: 10, Percent: 30, Message: "Downloading"}
	if snapshot.Jobs[0] != want {
		t.Fatalf("unexpected job: %#v", snapshot.Jobs[0])
	}
}

func TestFetchActiveMissingFields(t *testing.T) {
	srv := serveBody(t, http.StatusOK, `{}`)

	snapshot, err := NewClient(srv.URL, nil).FetchActive(context.Background())
	if err != nil {
		t.Fatalf("FetchActive returned error: %v", err)
	}
	if snapshot.Count != 0 || snapshot.Jobs != nil {
		t.Fatalf("unexpected snapshot: %#v", snapshot)
	}
}

func TestFetchActiveFailures(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		kind   FailureKind
	}{
		{name: "server error", status: http.StatusInternalServerError, body: `{}`, kind: FailureHTTPStatus},
		{name: "not found", status: http.StatusNotFound, body: ``, kind: FailureHTTPStatus},
		{name: "malformed", status: http.StatusOK, body: `{"count":`, kind: FailureDecode},
		{name: "null body", status: http.StatusOK, body: `null`, kind: FailureDecode},
		{name: "wrong type", status: http.StatusOK, body: `{"count":"many"}`, kind: FailureDecode},
		{name: "trailing garbage", status: http.StatusOK, body: `{"count":1,"jobs":[{"job_id":"a"}]} not json`, kind: FailureDecode},
		{name: "two documents", status: http.StatusOK, body: `{"count":1}{"count":2}`, kind: FailureDecode},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := serveBody(t, tc.status, tc.body)

			snapshot, err := NewClient(srv.URL, nil).FetchActive(context.Background())
			if snapshot != nil {
				t.Fatalf("expected nil snapshot, got %#v", snapshot)
			}
			var fetchErr *FetchError
			if !errors.As(err, &fetchErr) {
				t.Fatalf("expected *FetchError, got %v", err)
			}
			if fetchErr.Kind != tc.kind {
				t.Fatalf("unexpected kind: %s", fetchErr.Kind)
			}
			if tc.kind == FailureHTTPStatus && fetchErr.StatusCode != tc.status {
				t.Fatalf("unexpected status code: %d", fetchErr.StatusCode)
			}
		})
	}
}

func TestFetchActiveNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewClient(url, nil).FetchActive(context.Background())
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) || fetchErr.Kind != FailureNetwork {
		t.Fatalf("expected network failure, got %v", err)
	}
}

func TestFetchActiveKeepsNegativeCount(t *testing.T) {
	srv := serveBody(t, http.StatusOK, `{"count":-1,"jobs":[]}`)

	snapshot, err := NewClient(srv.URL, nil).FetchActive(context.Background())
	if err != nil {
		t.Fatalf("FetchActive returned error: %v", err)
	}
	if snapshot.Count != -1 {
		t.Fatalf("unexpected count: %d", snapshot.Count)
	}
}
