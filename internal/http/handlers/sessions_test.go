package handlers_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"server/internal/catalog"
	httpapi "server/internal/http"
	"server/internal/http/handlers"
	"server/internal/infra"
	"server/internal/studio"
	"server/internal/vision"
)

type stubVision struct{}

func (stubVision) Validate(ctx context.Context, image []byte, role catalog.SlotRole, styleID, language string) (vision.Verdict, error) {
	return vision.Verdict{IsValid: true}, nil
}

func (stubVision) Generate(ctx context.Context, req vision.GenerateRequest) (*vision.Artifact, error) {
	return &vision.Artifact{Data: []byte{1, 2, 3}, MIME: "image/png"}, nil
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := infra.Logger(zerolog.New(io.Discard))
	cat := catalog.Default()
	sessions := studio.NewManager(&logger, 0, 0)
	svc := studio.NewService(cat, stubVision{}, sessions, &logger, nil)
	app := handlers.NewApp(&logger, cat, svc, 8<<20)
	srv := httptest.NewServer(httpapi.NewRouter(app, httpapi.Options{
		DefaultLocale: "en",
		RateLimit:     1000,
		RatePer:       time.Minute,
	}))
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url string, payload any) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	return resp
}

func decodeView(t *testing.T, resp *http.Response) studio.View {
	t.Helper()
	defer resp.Body.Close()
	var view studio.View
	if err := json.NewDecoder(resp.Body).Decode(&view); err != nil {
		t.Fatalf("decode view: %v", err)
	}
	return view
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/v1/healthz")
	if err != nil {
		t.Fatalf("GET /v1/healthz: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
}

func TestCatalogEndpoints(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/v1/catalog")
	if err != nil {
		t.Fatalf("GET /v1/catalog: %v", err)
	}
	defer resp.Body.Close()
	var listing struct {
		Occasions []catalog.Occasion `json:"occasions"`
		Sizes     []catalog.Size     `json:"sizes"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		t.Fatalf("decode catalog: %v", err)
	}
	if len(listing.Occasions) != 2 || len(listing.Sizes) != 4 {
		t.Fatalf("catalog = %d occasions / %d sizes, want 2/4", len(listing.Occasions), len(listing.Sizes))
	}

	resp2, err := http.Get(srv.URL + "/v1/catalog/nope")
	if err != nil {
		t.Fatalf("GET /v1/catalog/nope: %v", err)
	}
	defer resp2.Body.Close()
	if resp2.StatusCode != http.StatusBadRequest {
		t.Fatalf("unknown occasion status = %d, want 400", resp2.StatusCode)
	}
}

func TestSessionLifecycle(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/v1/sessions", map[string]string{"occasion": "home"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d, want 201", resp.StatusCode)
	}
	view := decodeView(t, resp)
	if view.ID == "" || view.StyleID != "1 person" {
		t.Fatalf("created view = %+v", view)
	}
	base := srv.URL + "/v1/sessions/" + view.ID

	image := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString([]byte("photo"))
	resp = postJSON(t, base+"/slots/0/upload", map[string]string{"image": image})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("upload status = %d, want 200", resp.StatusCode)
	}
	view = decodeView(t, resp)
	if !view.Slots[0].HasUpload {
		t.Fatal("upload not recorded")
	}

	resp = postJSON(t, base+"/slots/0/generate", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("generate status = %d, want 200", resp.StatusCode)
	}
	view = decodeView(t, resp)
	if view.Slots[0].Result.Status != studio.StatusSuccess {
		t.Fatalf("slot status = %q, want success", view.Slots[0].Result.Status)
	}
	if !view.Ready {
		t.Fatal("session should be ready after generation")
	}

	resp = postJSON(t, base+"/select", map[string]string{"size": "8cm"})
	view = decodeView(t, resp)
	if view.Size != "8cm" {
		t.Fatalf("size = %q, want 8cm", view.Size)
	}
	if view.Slots[0].HasUpload {
		t.Fatal("selection change must rebuild slots")
	}
}

func TestSessionErrorStatuses(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/v1/sessions", map[string]string{"occasion": "nope"})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("unknown occasion status = %d, want 400", resp.StatusCode)
	}

	resp2, err := http.Get(srv.URL + "/v1/sessions/2f0c73a4-5ef7-44cd-9f7e-3a1b2c4d5e6f")
	if err != nil {
		t.Fatalf("GET session: %v", err)
	}
	defer resp2.Body.Close()
	if resp2.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown session status = %d, want 404", resp2.StatusCode)
	}

	resp3, err := http.Get(srv.URL + "/v1/sessions/not-a-uuid")
	if err != nil {
		t.Fatalf("GET session: %v", err)
	}
	defer resp3.Body.Close()
	if resp3.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad uuid status = %d, want 400", resp3.StatusCode)
	}

	created := postJSON(t, srv.URL+"/v1/sessions", map[string]string{"occasion": "home"})
	view := decodeView(t, created)
	resp4 := postJSON(t, srv.URL+"/v1/sessions/"+view.ID+"/slots/9/upload", map[string]string{
		"image": "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString([]byte("x")),
	})
	defer resp4.Body.Close()
	if resp4.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad slot status = %d, want 400", resp4.StatusCode)
	}
}
