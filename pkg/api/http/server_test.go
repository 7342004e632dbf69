package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aescanero/musica/internal/application/accounts"
	"github.com/aescanero/musica/internal/application/catalog"
	"github.com/aescanero/musica/internal/auth"
	"github.com/aescanero/musica/pkg/adapters/cache"
	eventsmemory "github.com/aescanero/musica/pkg/adapters/events/memory"
	"github.com/aescanero/musica/pkg/adapters/metrics"
	storagememory "github.com/aescanero/musica/pkg/adapters/storage/memory"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	logger := zap.NewNop()
	store := storagememory.New()
	bus := eventsmemory.NewInMemoryEventBus()
	tokens := auth.NewTokenManager("test-secret", 30*time.Minute)

	accountsMgr := accounts.NewManager(store, tokens, bus, metrics.Nop{}, logger)
	catalogMgr := catalog.NewManager(store, cache.Noop{}, bus, metrics.Nop{}, logger)

	return NewServer(&Config{
		Port:        0,
		Accounts:    accountsMgr,
		Catalog:     catalogMgr,
		Tokens:      tokens,
		Store:       store,
		Metrics:     metrics.Nop{},
		CORSOrigins: []string{"*"},
		Environment: "test",
		Version:     "test",
		Logger:      logger,
	})
}

func doJSON(t *testing.T, s *Server, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, into interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), into))
}

// registerUser creates an account through the API and returns its ID
func registerUser(t *testing.T, s *Server, email string) int64 {
	t.Helper()
	w := doJSON(t, s, http.MethodPost, "/api/auth/register", "", map[string]string{
		"nombre":     "Test User",
		"correo":     email,
		"contraseña": "pass1234",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var user struct {
		ID int64 `json:"id"`
	}
	decode(t, w, &user)
	return user.ID
}

// loginToken authenticates and returns a bearer token
func loginToken(t *testing.T, s *Server, email string) string {
	t.Helper()
	w := doJSON(t, s, http.MethodPost, "/api/auth/login-json", "", map[string]string{
		"correo":     email,
		"contraseña": "pass1234",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp TokenResponse
	decode(t, w, &resp)
	require.NotEmpty(t, resp.AccessToken)
	return resp.AccessToken
}

// createSong adds a song through the authenticated catalog API
func createSong(t *testing.T, s *Server, token, title string) int64 {
	t.Helper()
	w := doJSON(t, s, http.MethodPost, "/api/canciones", token, map[string]interface{}{
		"titulo":   title,
		"artista":  "Artist",
		"duracion": 200,
		"año":      2020,
		"genero":   "Rock",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var song struct {
		ID int64 `json:"id"`
	}
	decode(t, w, &song)
	return song.ID
}

func TestRootEndpoint(t *testing.T) {
	s := newTestServer(t)

	w := doJSON(t, s, http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "API de M")
	assert.Contains(t, w.Body.String(), "/api/canciones")
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t)

	w := doJSON(t, s, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	decode(t, w, &resp)
	assert.Equal(t, "healthy", resp["status"])
	assert.Equal(t, "connected", resp["database"])
	assert.Equal(t, "test", resp["environment"])
}

func TestRegisterAndLogin(t *testing.T) {
	s := newTestServer(t)

	registerUser(t, s, "ana@example.com")
	token := loginToken(t, s, "ana@example.com")
	assert.NotEmpty(t, token)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	s := newTestServer(t)

	registerUser(t, s, "dup@example.com")

	w := doJSON(t, s, http.MethodPost, "/api/auth/register", "", map[string]string{
		"nombre":     "Other",
		"correo":     "dup@example.com",
		"contraseña": "pass1234",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "EMAIL_TAKEN")
}

func TestRegisterValidation(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name string
		body map[string]string
	}{
		{"missing email", map[string]string{"nombre": "Ana", "contraseña": "pass1234"}},
		{"bad email", map[string]string{"nombre": "Ana", "correo": "not-an-email", "contraseña": "pass1234"}},
		{"short password", map[string]string{"nombre": "Ana", "correo": "a@x.com", "contraseña": "123"}},
		{"short name", map[string]string{"nombre": "A", "correo": "a@x.com", "contraseña": "pass1234"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, s, http.MethodPost, "/api/auth/register", "", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestLoginForm(t *testing.T) {
	s := newTestServer(t)
	registerUser(t, s, "form@example.com")

	form := url.Values{}
	form.Set("username", "form@example.com")
	form.Set("password", "pass1234")

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "access_token")
	assert.Contains(t, w.Body.String(), "bearer")
}

func TestLoginWrongPassword(t *testing.T) {
	s := newTestServer(t)
	registerUser(t, s, "ana@example.com")

	w := doJSON(t, s, http.MethodPost, "/api/auth/login-json", "", map[string]string{
		"correo":     "ana@example.com",
		"contraseña": "wrongpass",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))
}

func TestLoginInactiveUser(t *testing.T) {
	s := newTestServer(t)
	id := registerUser(t, s, "ana@example.com")

	w := doJSON(t, s, http.MethodPut, fmt.Sprintf("/api/usuarios/%d", id), "", map[string]interface{}{
		"activo": false,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, s, http.MethodPost, "/api/auth/login-json", "", map[string]string{
		"correo":     "ana@example.com",
		"contraseña": "pass1234",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "USER_INACTIVE")
}

func TestProfileAndVerify(t *testing.T) {
	s := newTestServer(t)
	registerUser(t, s, "ana@example.com")
	token := loginToken(t, s, "ana@example.com")

	w := doJSON(t, s, http.MethodGet, "/api/auth/me", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ana@example.com")
	assert.NotContains(t, w.Body.String(), "contrasena")

	w = doJSON(t, s, http.MethodGet, "/api/auth/verify", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	decode(t, w, &resp)
	assert.Equal(t, true, resp["valido"])
	assert.Equal(t, "ana@example.com", resp["correo"])
}

func TestProfileRequiresToken(t *testing.T) {
	s := newTestServer(t)

	w := doJSON(t, s, http.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, s, http.MethodGet, "/api/auth/me", "garbage-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSongsRequireAuth(t *testing.T) {
	s := newTestServer(t)

	w := doJSON(t, s, http.MethodGet, "/api/canciones", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, s, http.MethodPost, "/api/canciones", "", map[string]interface{}{
		"titulo": "X", "artista": "Y", "duracion": 100,
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSongCRUD(t *testing.T) {
	s := newTestServer(t)
	registerUser(t, s, "ana@example.com")
	token := loginToken(t, s, "ana@example.com")

	id := createSong(t, s, token, "Clocks")

	w := doJSON(t, s, http.MethodGet, fmt.Sprintf("/api/canciones/%d", id), token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Clocks")

	w = doJSON(t, s, http.MethodPut, fmt.Sprintf("/api/canciones/%d", id), token, map[string]interface{}{
		"titulo": "Clocks (Live)",
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Clocks (Live)")

	w = doJSON(t, s, http.MethodGet, "/api/canciones", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, s, http.MethodDelete, fmt.Sprintf("/api/canciones/%d", id), token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, s, http.MethodGet, fmt.Sprintf("/api/canciones/%d", id), token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSongValidation(t *testing.T) {
	s := newTestServer(t)
	registerUser(t, s, "ana@example.com")
	token := loginToken(t, s, "ana@example.com")

	w := doJSON(t, s, http.MethodPost, "/api/canciones", token, map[string]interface{}{
		"titulo":   "Bad",
		"artista":  "Artist",
		"duracion": -1,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, s, http.MethodPost, "/api/canciones", token, map[string]interface{}{
		"titulo":   "Bad Year",
		"artista":  "Artist",
		"duracion": 100,
		"año":      1500,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSearchSongs(t *testing.T) {
	s := newTestServer(t)
	registerUser(t, s, "ana@example.com")
	token := loginToken(t, s, "ana@example.com")

	createSong(t, s, token, "Stairway to Heaven")
	createSong(t, s, token, "Highway to Hell")

	w := doJSON(t, s, http.MethodGet, "/api/canciones/buscar?titulo=heaven", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Stairway to Heaven")
	assert.NotContains(t, w.Body.String(), "Highway to Hell")
}

func TestUserCRUDEndpoints(t *testing.T) {
	s := newTestServer(t)

	w := doJSON(t, s, http.MethodPost, "/api/usuarios", "", map[string]string{
		"nombre":     "Admin",
		"correo":     "admin@example.com",
		"contraseña": "pass1234",
		"rol":        "administrador",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var user struct {
		ID   int64  `json:"id"`
		Role string `json:"rol"`
	}
	decode(t, w, &user)
	assert.Equal(t, "administrador", user.Role)

	w = doJSON(t, s, http.MethodGet, fmt.Sprintf("/api/usuarios/%d", user.ID), "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, s, http.MethodPut, fmt.Sprintf("/api/usuarios/%d", user.ID), "", map[string]interface{}{
		"nombre": "Renamed Admin",
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Renamed Admin")

	w = doJSON(t, s, http.MethodGet, "/api/usuarios", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, s, http.MethodDelete, fmt.Sprintf("/api/usuarios/%d", user.ID), "", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, s, http.MethodGet, fmt.Sprintf("/api/usuarios/%d", user.ID), "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestInvalidIDParameter(t *testing.T) {
	s := newTestServer(t)

	w := doJSON(t, s, http.MethodGet, "/api/usuarios/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_ID")
}

func TestFavoritesFlow(t *testing.T) {
	s := newTestServer(t)
	userID := registerUser(t, s, "fan@example.com")
	token := loginToken(t, s, "fan@example.com")
	songID := createSong(t, s, token, "Favorite Tune")

	// Mark via the flat collection
	w := doJSON(t, s, http.MethodPost, "/api/favoritos", "", map[string]int64{
		"id_usuario": userID,
		"id_cancion": songID,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var fav struct {
		ID int64 `json:"id"`
	}
	decode(t, w, &fav)

	// Duplicate pair is rejected
	w = doJSON(t, s, http.MethodPost, "/api/favoritos", "", map[string]int64{
		"id_usuario": userID,
		"id_cancion": songID,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Details expand user and song
	w = doJSON(t, s, http.MethodGet, fmt.Sprintf("/api/favoritos/%d", fav.ID), "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "fan@example.com")
	assert.Contains(t, w.Body.String(), "Favorite Tune")

	w = doJSON(t, s, http.MethodGet, "/api/favoritos", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, s, http.MethodDelete, fmt.Sprintf("/api/favoritos/%d", fav.ID), "", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, s, http.MethodGet, fmt.Sprintf("/api/favoritos/%d", fav.ID), "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFavoriteMissingEntities(t *testing.T) {
	s := newTestServer(t)
	userID := registerUser(t, s, "fan@example.com")

	w := doJSON(t, s, http.MethodPost, "/api/favoritos", "", map[string]int64{
		"id_usuario": userID,
		"id_cancion": 999,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, s, http.MethodPost, "/api/favoritos", "", map[string]int64{
		"id_usuario": 999,
		"id_cancion": 1,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUserFavoritesSubresource(t *testing.T) {
	s := newTestServer(t)
	userID := registerUser(t, s, "fan@example.com")
	token := loginToken(t, s, "fan@example.com")
	songID := createSong(t, s, token, "Subresource Song")

	w := doJSON(t, s, http.MethodPost, fmt.Sprintf("/api/usuarios/%d/favoritos/%d", userID, songID), "", nil)
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(t, s, http.MethodGet, fmt.Sprintf("/api/usuarios/%d/favoritos", userID), "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Subresource Song")

	w = doJSON(t, s, http.MethodDelete, fmt.Sprintf("/api/usuarios/%d/favoritos/%d", userID, songID), "", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	// Unmarking again is a 404
	w = doJSON(t, s, http.MethodDelete, fmt.Sprintf("/api/usuarios/%d/favoritos/%d", userID, songID), "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCORSPreflightAllowed(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/usuarios", nil)
	req.Header.Set("Origin", "http://example.com")

	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.NotEmpty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestPaginationLimits(t *testing.T) {
	s := newTestServer(t)
	registerUser(t, s, "a@x.com")
	registerUser(t, s, "b@x.com")
	registerUser(t, s, "c@x.com")

	w := doJSON(t, s, http.MethodGet, "/api/usuarios?skip=1&limit=1", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var users []json.RawMessage
	decode(t, w, &users)
	assert.Len(t, users, 1)
}
