package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
)

type favoredPayload struct {
	Favored []struct {
		ID string `json:"id"`
	} `json:"favored"`
}

func newBackend(t *testing.T, handle func(name string, params map[string]string, w http.ResponseWriter)) *httptest.Server {
	t.Helper()
	r := mux.NewRouter()
	r.HandleFunc("/v1/functions/{name}", func(w http.ResponseWriter, req *http.Request) {
		var params map[string]string
		if err := json.NewDecoder(req.Body).Decode(&params); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if req.Header.Get("X-Request-ID") == "" {
			http.Error(w, "missing request id", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		handle(mux.Vars(req)["name"], params, w)
	}).Methods(http.MethodPost)
	server := httptest.NewServer(r)
	t.Cleanup(server.Close)
	return server
}

func TestParseBaseURL_Normalizes(t *testing.T) {
	u, err := parseBaseURL("backend.example.com/v1/?x=1#frag")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Scheme != "https" {
		t.Fatalf("scheme = %q, want https", u.Scheme)
	}
	if u.Path != "/v1" || u.RawQuery != "" || u.Fragment != "" {
		t.Fatalf("url not normalized: %q", u.String())
	}
	if _, err := parseBaseURL("  "); err == nil {
		t.Fatalf("parseBaseURL(empty) error = nil, want error")
	}
}

func TestClient_CallSendsParamsAndDecodes(t *testing.T) {
	t.Parallel()

	var gotName string
	var gotParams map[string]string
	server := newBackend(t, func(name string, params map[string]string, w http.ResponseWriter) {
		gotName, gotParams = name, params
		_, _ = w.Write([]byte(`{"favored":[{"id":"t1"},{"id":"t2"}]}`))
	})

	c, err := NewClient(server.URL+"/v1", time.Second)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)

	fn := Fn("favored").Param("0", "https://cfp.example.com/api").Param("1", "acct")
	payload, err := Object[favoredPayload](ctx, c, fn)
	if err != nil {
		t.Fatalf("Call returned error: %v", err)
	}
	if gotName != "favored" {
		t.Fatalf("function = %q, want favored", gotName)
	}
	if gotParams["0"] != "https://cfp.example.com/api" || gotParams["1"] != "acct" {
		t.Fatalf("params = %#v", gotParams)
	}
	if len(payload.Favored) != 2 || payload.Favored[1].ID != "t2" {
		t.Fatalf("payload = %#v, want two ids", payload)
	}
}

func TestClient_ListAndStatusErrors(t *testing.T) {
	t.Parallel()

	server := newBackend(t, func(name string, _ map[string]string, w http.ResponseWriter) {
		switch name {
		case "speakers":
			_, _ = w.Write([]byte(`[{"uuid":"a"},{"uuid":"b"}]`))
		case "broken":
			_, _ = w.Write([]byte(`{`))
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	})
	c, err := NewClient(server.URL+"/v1/", 0)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	ctx := context.Background()

	type speaker struct {
		UUID string `json:"uuid"`
	}
	speakers, err := List[speaker](ctx, c, Fn("speakers"))
	if err != nil || len(speakers) != 2 {
		t.Fatalf("List = %v, %v; want 2 speakers", speakers, err)
	}

	err = c.Call(ctx, Fn("sessionsV2"), nil)
	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.Code != http.StatusInternalServerError {
		t.Fatalf("Call error = %v, want StatusError 500", err)
	}

	var out map[string]any
	if err := c.Call(ctx, Fn("broken"), &out); err == nil {
		t.Fatalf("Call(broken) error = nil, want decode error")
	}
	if err := c.Call(ctx, Fn(" "), nil); err == nil {
		t.Fatalf("Call with empty name error = nil")
	}
}

func TestFunction_ParamCopies(t *testing.T) {
	base := Fn("voteTalk").Param("0", "a")
	next := base.Param("1", "b")
	if base.Get("1") != "" {
		t.Fatalf("Param mutated the receiver")
	}
	if keys := next.Keys(); len(keys) != 2 || keys[0] != "0" || keys[1] != "1" {
		t.Fatalf("Keys = %v, want [0 1]", keys)
	}
}

func TestFixtures_AnswerFromYAML(t *testing.T) {
	f, err := ParseFixtures([]byte(`
functions:
  allConferences:
    - id: "42"
      name: Devoxx Belgium
      timezone: Europe/Brussels
  favoredAdd: {}
`))
	if err != nil {
		t.Fatalf("ParseFixtures returned error: %v", err)
	}
	ctx := context.Background()

	type conf struct {
		ID       string `json:"id"`
		Timezone string `json:"timezone"`
	}
	confs, err := List[conf](ctx, f, Fn("allConferences"))
	if err != nil || len(confs) != 1 || confs[0].Timezone != "Europe/Brussels" {
		t.Fatalf("allConferences = %#v, %v", confs, err)
	}
	if err := f.Call(ctx, Fn("favoredAdd"), nil); err != nil {
		t.Fatalf("favoredAdd error = %v", err)
	}
	if err := f.Call(ctx, Fn("missing"), nil); !errors.Is(err, ErrNoFixture) {
		t.Fatalf("missing error = %v, want ErrNoFixture", err)
	}
	if err := f.Set("missing", []int{1}); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	if err := f.Call(ctx, Fn("missing"), nil); err != nil {
		t.Fatalf("after Set error = %v", err)
	}
}
