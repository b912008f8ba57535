package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meur/buildforge/internal/cache"
	"github.com/meur/buildforge/internal/card"
	"github.com/meur/buildforge/internal/models"
	"github.com/meur/buildforge/internal/storage"
	"github.com/meur/buildforge/internal/weapons"
)

type testEnv struct {
	server *Server
	store  *storage.Store
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store, err := storage.New(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	catalog, err := weapons.Default()
	require.NoError(t, err)

	srv := New(Options{
		Builds:      cache.NewBuilds(store, 16, time.Minute),
		Preferences: store,
		Catalog:     catalog,
		Health:      store,
	})
	return &testEnv{server: srv, store: store}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.server.ServeHTTP(w, req)
	return w
}

func (e *testEnv) seed(t *testing.T, builds ...models.Build) {
	t.Helper()
	require.NoError(t, e.store.BulkCreateBuilds(context.Background(), builds))
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func gear(abilities ...models.Ability) []models.Ability { return abilities }

func seededBuilds() []models.Build {
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	out := []models.Build{
		{ID: "ism-rec", Weapon: "splattershot", Headgear: gear("ISM", "ISS"), Clothing: gear("REC"), Shoes: gear("SSU")},
		{ID: "ism-only", Weapon: "splattershot", Headgear: gear("ISM"), Clothing: gear("RSU"), Shoes: gear("SSU")},
	}
	for i := 0; i < 8; i++ {
		out = append(out, models.Build{
			ID: "filler-" + string(rune('a'+i)), Weapon: "splattershot",
			Headgear: gear("QR"), Clothing: gear("QR"), Shoes: gear("QR"),
		})
	}
	out = append(out, models.Build{ID: "blaster-1", Weapon: "blaster", Headgear: gear("ISM"), Clothing: gear("REC"), Shoes: gear("SSU")})
	for i := range out {
		out[i].UpdatedAt = base.Add(-time.Duration(i) * time.Minute)
	}
	return out
}

func TestSearchBuilds_RevealsFirstPage(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, seededBuilds()...)

	w := env.do(t, http.MethodGet, "/api/builds?weapon=splattershot", nil)
	require.Equal(t, http.StatusOK, w.Code)

	list := decode[models.BuildList](t, w)
	assert.Equal(t, 10, list.Total)
	assert.Equal(t, 4, list.Visible)
	assert.Len(t, list.Builds, 4)
	assert.True(t, list.HasMore)
	assert.Equal(t, "ism-rec", list.Builds[0].ID)
}

func TestSearchBuilds_PagesAreCapped(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, seededBuilds()...)

	w := env.do(t, http.MethodGet, "/api/builds?weapon=splattershot&page=3", nil)
	require.Equal(t, http.StatusOK, w.Code)

	list := decode[models.BuildList](t, w)
	assert.Equal(t, 10, list.Visible)
	assert.False(t, list.HasMore)
}

func TestSearchBuilds_HugePage(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, seededBuilds()...)

	w := env.do(t, http.MethodGet, "/api/builds?weapon=splattershot&page=6917529027641081856", nil)
	require.Equal(t, http.StatusOK, w.Code)

	list := decode[models.BuildList](t, w)
	assert.Equal(t, list.Total, list.Visible)
	assert.Len(t, list.Builds, list.Total)
	assert.False(t, list.HasMore)
}

func TestSearchBuilds_AbilityFilter(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, seededBuilds()...)

	w := env.do(t, http.MethodGet, "/api/builds?weapon=splattershot&ability=ISM&ability=REC", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[models.BuildList](t, w)
	require.Len(t, list.Builds, 1)
	assert.Equal(t, "ism-rec", list.Builds[0].ID)
	assert.Equal(t, 1, list.Total)
	assert.False(t, list.HasMore)

	w = env.do(t, http.MethodGet, "/api/builds?weapon=splattershot&ability=ISM,SSU", nil)
	list = decode[models.BuildList](t, w)
	assert.Equal(t, 2, list.Total)
}

func TestSearchBuilds_NoWeaponIsEmpty(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, seededBuilds()...)

	w := env.do(t, http.MethodGet, "/api/builds", nil)
	require.Equal(t, http.StatusOK, w.Code)

	list := decode[models.BuildList](t, w)
	assert.Empty(t, list.Builds)
	assert.Equal(t, 0, list.Total)
}

func TestSearchBuilds_BadInput(t *testing.T) {
	env := newTestEnv(t)

	for _, path := range []string{
		"/api/builds?weapon=splattershot&ability=NOPE",
		"/api/builds?weapon=splattershot&page=0",
		"/api/builds?weapon=splattershot&page=two",
		"/api/builds?weapon=super-soaker",
	} {
		w := env.do(t, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
		assert.Contains(t, w.Body.String(), `"error"`)
	}
}

func validUpdate() map[string]interface{} {
	return map[string]interface{}{
		"weapon":        "splattershot",
		"title":         "Zone control",
		"headgear":      []string{"LDE", "ISM", "ISM", "QSJ"},
		"headgear_item": "8000",
		"clothing":      []string{"NS", "SSU", "SSU", "RSU"},
		"shoes":         []string{"SJ", "QR", "QR", "ISM"},
		"modes":         []string{"SZ", "TC"},
	}
}

func TestCreateAndGetBuild(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/builds", validUpdate())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[models.Build](t, w)
	require.NotEmpty(t, created.ID)

	w = env.do(t, http.MethodGet, "/api/builds/"+created.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[models.Build](t, w)
	assert.Equal(t, "Zone control", got.Title)
	assert.Equal(t, []models.Mode{models.ModeSplatZones, models.ModeTowerControl}, got.Modes)

	w = env.do(t, http.MethodGet, "/api/builds/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateBuild(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, seededBuilds()...)

	// warm the cache for both weapons involved
	env.do(t, http.MethodGet, "/api/builds?weapon=splattershot", nil)
	env.do(t, http.MethodGet, "/api/builds?weapon=blaster", nil)

	body := validUpdate()
	body["weapon"] = "blaster"
	w := env.do(t, http.MethodPut, "/api/builds/ism-rec", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"ok":true}`, w.Body.String())

	w = env.do(t, http.MethodGet, "/api/builds?weapon=blaster", nil)
	assert.Equal(t, 2, decode[models.BuildList](t, w).Total)
	w = env.do(t, http.MethodGet, "/api/builds?weapon=splattershot", nil)
	assert.Equal(t, 9, decode[models.BuildList](t, w).Total)
}

func TestUpdateBuild_Rejected(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, seededBuilds()...)

	tests := []struct {
		name   string
		mutate func(map[string]interface{})
		field  string
	}{
		{"missing weapon", func(m map[string]interface{}) { delete(m, "weapon") }, "weapon"},
		{"unknown weapon", func(m map[string]interface{}) { m["weapon"] = "super-soaker" }, "weapon"},
		{"empty headgear", func(m map[string]interface{}) { m["headgear"] = []string{} }, "headgear"},
		{"too many subs", func(m map[string]interface{}) { m["shoes"] = []string{"SJ", "QR", "QR", "QR", "QR"} }, "shoes"},
		{"unknown ability", func(m map[string]interface{}) { m["clothing"] = []string{"NS", "XYZ"} }, "clothing[1]"},
		{"unknown mode", func(m map[string]interface{}) { m["modes"] = []string{"SR"} }, "modes[0]"},
		{"duplicate mode", func(m map[string]interface{}) { m["modes"] = []string{"SZ", "SZ"} }, "modes"},
		{"main-only as sub", func(m map[string]interface{}) { m["headgear"] = []string{"ISM", "CB"} }, "gear"},
		{"main-only wrong slot", func(m map[string]interface{}) { m["shoes"] = []string{"NS"} }, "gear"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := validUpdate()
			tt.mutate(body)

			w := env.do(t, http.MethodPut, "/api/builds/ism-rec", body)

			require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			resp := decode[struct {
				Fields map[string]string `json:"fields"`
			}](t, w)
			assert.Contains(t, resp.Fields, tt.field)
		})
	}

	w := env.do(t, http.MethodPut, "/api/builds/missing", validUpdate())
	assert.Equal(t, http.StatusNotFound, w.Code)

	req := httptest.NewRequest(http.MethodPut, "/api/builds/ism-rec", bytes.NewBufferString("{"))
	rec := httptest.NewRecorder()
	env.server.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteBuild(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, seededBuilds()...)

	w := env.do(t, http.MethodDelete, "/api/builds/blaster-1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodDelete, "/api/builds/blaster-1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBuildCard_UsesPreferenceAndLanguage(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, seededBuilds()...)

	w := env.do(t, http.MethodGet, "/api/builds/blaster-1/card", nil)
	require.Equal(t, http.StatusOK, w.Code)
	view := decode[card.View](t, w)
	assert.Equal(t, card.ViewGear, view.DefaultView)
	assert.Equal(t, "Blaster", view.WeaponText)
	assert.Len(t, view.Gear, 3)

	w = env.do(t, http.MethodPut, "/api/preferences/u1", map[string]bool{"prefers_ap_view": true})
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/api/builds/blaster-1/card?user=u1&lang=ja", nil)
	require.Equal(t, http.StatusOK, w.Code)
	view = decode[card.View](t, w)
	assert.Equal(t, card.ViewAP, view.DefaultView)
	assert.Equal(t, "ホットブラスター", view.WeaponText)

	w = env.do(t, http.MethodGet, "/api/builds/missing/card", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPreferences(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/preferences/u2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":"u2","prefers_ap_view":false}`, w.Body.String())

	w = env.do(t, http.MethodPut, "/api/preferences/u2", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPut, "/api/preferences/u2", map[string]bool{"prefers_ap_view": true})
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/api/preferences/u2", nil)
	assert.JSONEq(t, `{"user_id":"u2","prefers_ap_view":true}`, w.Body.String())
}

func TestReferenceLists(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/abilities", nil)
	require.Equal(t, http.StatusOK, w.Code)
	abilities := decode[[]abilityEntry](t, w)
	require.Len(t, abilities, 26)
	assert.Equal(t, models.InkSaverMain, abilities[0].Ability)
	assert.Empty(t, abilities[0].MainOnly)
	assert.Equal(t, models.SlotHead, abilities[14].MainOnly)

	req := httptest.NewRequest(http.MethodGet, "/api/weapons", nil)
	req.Header.Set("Accept-Language", "ja,en;q=0.5")
	rec := httptest.NewRecorder()
	env.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[[]weaponEntry](t, rec)
	require.NotEmpty(t, list)
	assert.Equal(t, "sploosh-o-matic", list[0].ID)
	assert.Equal(t, "ボールドマーカー", list[0].Name)
	assert.Equal(t, "/img/weapons/0.png", list[0].ImageURL)
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())

	w = env.do(t, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestNew_RequiresBuildsAndCatalog(t *testing.T) {
	catalog, err := weapons.Default()
	require.NoError(t, err)
	store, err := storage.New(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	assert.Panics(t, func() { New(Options{Builds: store}) })
	assert.Panics(t, func() { New(Options{Catalog: catalog}) })
	assert.NotPanics(t, func() { New(Options{Builds: store, Catalog: catalog}) })
}

func TestServer_WithoutPreferences(t *testing.T) {
	catalog, err := weapons.Default()
	require.NoError(t, err)
	store, err := storage.New(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	env := &testEnv{server: New(Options{Builds: store, Catalog: catalog}), store: store}
	env.seed(t, seededBuilds()...)

	w := env.do(t, http.MethodGet, "/api/preferences/u1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = env.do(t, http.MethodPut, "/api/preferences/u1", map[string]bool{"prefers_ap_view": true})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodGet, "/api/builds/blaster-1/card?user=u1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, card.ViewGear, decode[card.View](t, w).DefaultView)
}
