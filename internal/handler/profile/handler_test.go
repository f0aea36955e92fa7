package profile

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/calm-corner/backend/internal/model/profile"
)

func setupRouter() *chi.Mux {
	handler := New(profile.NewMemoryStore(profile.Seed()), profile.Spectrum)
	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return r
}

func TestListProfiles(t *testing.T) {
	r := setupRouter()
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/profiles", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var body profileList
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Default != profile.Spectrum {
		t.Fatalf("unexpected default %q", body.Default)
	}
	if len(body.Profiles) != 3 {
		t.Fatalf("expected 3 profiles, got %d", len(body.Profiles))
	}
	for _, p := range body.Profiles {
		if p.Copy.Title == "" || p.DefaultMood == "" {
			t.Fatalf("profile %s missing copy or default mood", p.ID)
		}
	}
}

func TestListMoods(t *testing.T) {
	r := setupRouter()
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/profiles/spectrum/moods", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var body moodList
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Moods) != 23 {
		t.Fatalf("expected 23 moods, got %d", len(body.Moods))
	}
	if body.Moods[0].Label != "😄 Happy" || body.Moods[0].Descriptor != "positive, high energy" {
		t.Fatalf("unexpected first mood %+v", body.Moods[0])
	}
	if !body.Descriptors {
		t.Fatal("spectrum moods carry descriptors")
	}
}

func TestListMoodsWithoutDescriptors(t *testing.T) {
	r := setupRouter()
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/profiles/classic/moods", nil))

	var body moodList
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Descriptors || len(body.Moods) == 0 {
		t.Fatalf("unexpected classic moods %+v", body)
	}
}

func TestListMoodsUnknownProfile(t *testing.T) {
	r := setupRouter()
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/profiles/nope/moods", nil))

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}
