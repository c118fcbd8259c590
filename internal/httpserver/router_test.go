package httpserver_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fish11112222/naha2/internal/config"
	"github.com/fish11112222/naha2/internal/httpserver"
	"github.com/fish11112222/naha2/internal/store/memory"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	cfg := &config.Config{
		AppName:         "chat-test",
		Env:             "test",
		StorageDriver:   config.DriverMemory,
		DataFile:        filepath.Join(t.TempDir(), "chat-data.json"),
		CORSOrigins:     []string{"*"},
		MaxAvatarBytes:  1 << 20,
		MaxMessageChars: 500,
		DefaultPageSize: 50,
	}
	storage := memory.New(cfg.DataFile, cfg.MaxAvatarBytes)
	t.Cleanup(func() { _ = storage.Close() })
	return httpserver.NewRouter(cfg, storage)
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), "body: %s", rec.Body.String())
	return out
}

func signUpUser(t *testing.T, router http.Handler, username, email string) map[string]any {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/api/auth/signup", map[string]any{
		"username":  username,
		"email":     email,
		"password":  "secret1",
		"firstName": "Test",
		"lastName":  "User",
	})
	require.Equal(t, http.StatusCreated, rec.Code, "body: %s", rec.Body.String())
	return decodeBody(t, rec)
}

func TestHealthAndRoot(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", decodeBody(t, rec)["status"])

	rec = doJSON(t, router, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "chat-test", decodeBody(t, rec)["message"])
}

func TestAuthEndpoints(t *testing.T) {
	router := newTestRouter(t)

	t.Run("SignUp", func(t *testing.T) {
		body := signUpUser(t, router, "alice", "alice@example.com")
		assert.Equal(t, "alice", body["username"])
		assert.NotContains(t, body, "password")
		assert.Contains(t, body, "createdAt")
	})

	t.Run("SignUpDuplicateEmail", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/auth/signup", map[string]any{
			"username": "alice2", "email": "alice@example.com",
			"password": "secret1", "firstName": "A", "lastName": "L",
		})
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, "user with this email already exists", decodeBody(t, rec)["message"])
	})

	t.Run("SignUpValidation", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/auth/signup", map[string]any{
			"username": "ab", "email": "not-an-email",
			"password": "123", "firstName": "", "lastName": "L",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		body := decodeBody(t, rec)
		assert.Equal(t, "Validation error", body["message"])
		errs, ok := body["errors"].([]any)
		require.True(t, ok)
		assert.Len(t, errs, 4)
	})

	t.Run("SignIn", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/auth/signin", map[string]any{
			"email": "alice@example.com", "password": "secret1",
		})
		assert.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "alice", body["username"])
		assert.NotContains(t, body, "password")
	})

	t.Run("SignInWrongPassword", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/auth/signin", map[string]any{
			"email": "alice@example.com", "password": "wrong1",
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Invalid email or password", decodeBody(t, rec)["message"])
	})
}

func TestMessageEndpoints(t *testing.T) {
	router := newTestRouter(t)
	alice := signUpUser(t, router, "alice", "alice@example.com")
	bob := signUpUser(t, router, "bob", "bob@example.com")
	aliceID := int64(alice["id"].(float64))
	bobID := int64(bob["id"].(float64))

	var messageID int64

	t.Run("Create", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/messages", map[string]any{
			"content":  "hello there",
			"username": "Test User",
			"userId":   aliceID,
		})
		require.Equal(t, http.StatusCreated, rec.Code, "body: %s", rec.Body.String())

		body := decodeBody(t, rec)
		assert.Equal(t, "hello there", body["content"])
		assert.Contains(t, body, "createdAt")
		messageID = int64(body["id"].(float64))
	})

	t.Run("CreateEmptyRejected", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/messages", map[string]any{
			"content": "", "username": "Test User", "userId": aliceID,
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("List", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/api/messages?page=1&limit=10", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "1", rec.Header().Get("X-Total-Count"))
		assert.Equal(t, "no-cache", rec.Header().Get("Cache-Control"))

		var msgs []map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &msgs))
		require.Len(t, msgs, 1)
		assert.Equal(t, "hello there", msgs[0]["content"])
	})

	t.Run("EditByNonOwner", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPut, fmt.Sprintf("/api/messages/%d", messageID), map[string]any{
			"userId": bobID, "content": "hijacked",
		})
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "You can only edit your own messages", decodeBody(t, rec)["message"])
	})

	t.Run("EditByOwner", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPut, fmt.Sprintf("/api/messages/%d", messageID), map[string]any{
			"userId": aliceID, "content": "hello, edited",
		})
		assert.Equal(t, http.StatusOK, rec.Code)

		body := decodeBody(t, rec)
		assert.Equal(t, "hello, edited", body["content"])
		assert.NotNil(t, body["updatedAt"])
	})

	t.Run("EditMissing", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPut, "/api/messages/424242", map[string]any{
			"userId": aliceID, "content": "x",
		})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("DeleteWithoutUserID", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodDelete, fmt.Sprintf("/api/messages/%d", messageID), nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "User ID is required", decodeBody(t, rec)["message"])
	})

	t.Run("DeleteByNonOwner", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodDelete, fmt.Sprintf("/api/messages/%d?userId=%d", messageID, bobID), nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("DeleteByOwner", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodDelete, fmt.Sprintf("/api/messages/%d?userId=%d", messageID, aliceID), nil)
		assert.Equal(t, http.StatusNoContent, rec.Code)

		rec = doJSON(t, router, http.MethodGet, "/api/messages", nil)
		assert.Equal(t, "0", rec.Header().Get("X-Total-Count"))
	})
}

func TestUserEndpoints(t *testing.T) {
	router := newTestRouter(t)
	alice := signUpUser(t, router, "alice", "alice@example.com")
	aliceID := int64(alice["id"].(float64))

	t.Run("GetProfile", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/users/%d/profile", aliceID), nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "alice", decodeBody(t, rec)["username"])
	})

	t.Run("GetProfileMissing", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/api/users/999999999/profile", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "User not found", decodeBody(t, rec)["message"])
	})

	t.Run("UpdateProfile", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPut, fmt.Sprintf("/api/users/%d/profile", aliceID), map[string]any{
			"bio":      "hello from the tests",
			"website":  "https://example.com",
			"location": "Wonderland",
		})
		assert.Equal(t, http.StatusOK, rec.Code)

		body := decodeBody(t, rec)
		assert.Equal(t, "hello from the tests", body["bio"])
		assert.Equal(t, "Wonderland", body["location"])
	})

	t.Run("UpdateProfileBadWebsite", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPut, fmt.Sprintf("/api/users/%d/profile", aliceID), map[string]any{
			"website": "not a url",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Activity", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/users/%d/activity", aliceID), nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, true, decodeBody(t, rec)["success"])
	})

	t.Run("Counts", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/api/users/count", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.EqualValues(t, 1, decodeBody(t, rec)["count"])

		rec = doJSON(t, router, http.MethodGet, "/api/users/total", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.EqualValues(t, 1, decodeBody(t, rec)["count"])
	})

	t.Run("List", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/api/users", nil)
		assert.Equal(t, http.StatusOK, rec.Code)

		var users []map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &users))
		require.Len(t, users, 1)
		assert.NotContains(t, users[0], "password")
	})

	t.Run("MessageCount", func(t *testing.T) {
		doJSON(t, router, http.MethodPost, "/api/messages", map[string]any{
			"content": "counting", "username": "Test User", "userId": aliceID,
		})

		rec := doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/users/%d/messages/count", aliceID), nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.EqualValues(t, 1, decodeBody(t, rec)["count"])
	})
}

func TestThemeEndpoints(t *testing.T) {
	router := newTestRouter(t)

	t.Run("Get", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/api/theme", nil)
		assert.Equal(t, http.StatusOK, rec.Code)

		body := decodeBody(t, rec)
		current, ok := body["currentTheme"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "Classic Blue", current["name"])

		themes, ok := body["availableThemes"].([]any)
		require.True(t, ok)
		assert.Len(t, themes, 6)
	})

	t.Run("Set", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/theme", map[string]any{"themeId": 6})
		assert.Equal(t, http.StatusOK, rec.Code)

		current := decodeBody(t, rec)["currentTheme"].(map[string]any)
		assert.Equal(t, "Dark Mode", current["name"])
	})

	t.Run("SetUnknown", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/theme", map[string]any{"themeId": 99})
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Theme not found", decodeBody(t, rec)["message"])

		rec = doJSON(t, router, http.MethodGet, "/api/theme", nil)
		current := decodeBody(t, rec)["currentTheme"].(map[string]any)
		assert.Equal(t, "Dark Mode", current["name"], "active theme unchanged after failed switch")
	})

	t.Run("SetNonNumeric", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/theme", map[string]any{"themeId": "six"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Theme ID is required and must be a number", decodeBody(t, rec)["message"])
	})
}
