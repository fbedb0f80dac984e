package web

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	authservice "github.com/goserg/technotes/auth/service"
	"github.com/goserg/technotes/internal/config"
	"github.com/goserg/technotes/internal/hasher"
	"github.com/goserg/technotes/internal/logger"
	notesservice "github.com/goserg/technotes/internal/service/notes"
	usersservice "github.com/goserg/technotes/internal/service/users"
	"github.com/goserg/technotes/internal/storage/mem"

	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	store := mem.New()
	bcrypt := hasher.NewBcrypt(4)
	authCfg := config.Auth{
		Token:      "test-token",
		Expiration: "1h",
		Rules: []config.Rule{
			{Name: "open", Path: "^/.*", Method: []string{"*"}, Allow: []string{"*"}},
		},
	}
	server, err := New(
		config.Server{Port: 3000},
		logger.New(false),
		usersservice.New(store, store, bcrypt),
		notesservice.New(store, store),
		authservice.New(authCfg, store, bcrypt),
	)
	require.NoError(t, err)
	return server
}

func doJSON(t *testing.T, server *Server, method string, path string, body string) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	resp, err := server.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var decoded map[string]any
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp.StatusCode, decoded
}

func listJSON(t *testing.T, server *Server, path string) (int, []map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("Accept", "application/json")
	resp, err := server.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return resp.StatusCode, nil
	}
	var decoded []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp.StatusCode, decoded
}

func TestUsersAPI(t *testing.T) {
	server := newTestServer(t)

	status, body := doJSON(t, server, http.MethodGet, "/users", "")
	require.Equal(t, http.StatusNotFound, status)
	require.Equal(t, "No users found", body["message"])

	status, body = doJSON(t, server, http.MethodPost, "/users",
		`{"username":"alice","password":"x","roles":["Employee"]}`)
	require.Equal(t, http.StatusCreated, status)
	require.Equal(t, "User alice created successfully", body["message"])

	status, body = doJSON(t, server, http.MethodPost, "/users",
		`{"username":"alice","password":"x","roles":["Employee"]}`)
	require.Equal(t, http.StatusConflict, status)
	require.Equal(t, "Username already exists", body["message"])

	status, users := listJSON(t, server, "/users")
	require.Equal(t, http.StatusOK, status)
	require.Len(t, users, 1)
	require.Equal(t, "alice", users[0]["username"])
	require.Equal(t, true, users[0]["active"])
	require.NotContains(t, users[0], "password")

	status, body = doJSON(t, server, http.MethodPost, "/users",
		`{"username":"bob","roles":["Employee"]}`)
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "All fields are required", body["message"])
}

func TestUpdateUser_NonBooleanActive(t *testing.T) {
	server := newTestServer(t)

	status, _ := doJSON(t, server, http.MethodPost, "/users",
		`{"username":"alice","password":"x","roles":["Employee"]}`)
	require.Equal(t, http.StatusCreated, status)
	_, users := listJSON(t, server, "/users")
	id := users[0]["_id"].(string)

	status, body := doJSON(t, server, http.MethodPatch, "/users",
		fmt.Sprintf(`{"_id":%q,"username":"alice","roles":["Employee"],"active":"yes"}`, id))
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "All fields are required", body["message"])

	status, body = doJSON(t, server, http.MethodPatch, "/users",
		fmt.Sprintf(`{"_id":%q,"username":"alice2","roles":["Manager"],"active":false}`, id))
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "User alice2 updated successfully", body["message"])
}

func TestDeleteUser_Guards(t *testing.T) {
	server := newTestServer(t)

	status, _ := doJSON(t, server, http.MethodPost, "/users",
		`{"username":"alice","password":"x","roles":["Employee"]}`)
	require.Equal(t, http.StatusCreated, status)
	_, users := listJSON(t, server, "/users")
	id := users[0]["_id"].(string)

	status, body := doJSON(t, server, http.MethodDelete, "/users", `{}`)
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "User id required", body["message"])

	status, _ = doJSON(t, server, http.MethodPost, "/notes",
		fmt.Sprintf(`{"user":%q,"title":"Fix bug","text":"details"}`, id))
	require.Equal(t, http.StatusCreated, status)

	status, body = doJSON(t, server, http.MethodDelete, "/users", fmt.Sprintf(`{"_id":%q}`, id))
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "User has assigned notes", body["message"])

	_, notes := listJSON(t, server, "/notes")
	noteID := notes[0]["_id"].(string)
	status, _ = doJSON(t, server, http.MethodDelete, "/notes", fmt.Sprintf(`{"id":%q}`, noteID))
	require.Equal(t, http.StatusOK, status)

	status, body = doJSON(t, server, http.MethodDelete, "/users", fmt.Sprintf(`{"_id":%q}`, id))
	require.Equal(t, http.StatusOK, status)
	require.Contains(t, body["message"], "Username alice with ID")

	status, _ = doJSON(t, server, http.MethodGet, "/users", "")
	require.Equal(t, http.StatusNotFound, status)
}

func TestNotesAPI(t *testing.T) {
	server := newTestServer(t)

	status, body := doJSON(t, server, http.MethodGet, "/notes", "")
	require.Equal(t, http.StatusNotFound, status)
	require.Equal(t, "No notes found", body["message"])

	status, _ = doJSON(t, server, http.MethodPost, "/users",
		`{"username":"alice","password":"x","roles":["Employee"]}`)
	require.Equal(t, http.StatusCreated, status)
	_, users := listJSON(t, server, "/users")
	userID := users[0]["_id"].(string)

	status, body = doJSON(t, server, http.MethodPost, "/notes",
		fmt.Sprintf(`{"user":%q,"title":"Fix bug"}`, userID))
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "All fields are required", body["message"])

	status, body = doJSON(t, server, http.MethodPost, "/notes",
		fmt.Sprintf(`{"user":%q,"title":"Fix bug","text":"details"}`, userID))
	require.Equal(t, http.StatusCreated, status)
	require.Equal(t, "Note Fix bug created successfully", body["message"])

	status, body = doJSON(t, server, http.MethodPost, "/notes",
		fmt.Sprintf(`{"user":%q,"title":"Fix bug","text":"again"}`, userID))
	require.Equal(t, http.StatusConflict, status)
	require.Equal(t, "Title already exists", body["message"])

	status, notes := listJSON(t, server, "/notes")
	require.Equal(t, http.StatusOK, status)
	require.Len(t, notes, 1)
	require.EqualValues(t, 500, notes[0]["ticketNum"])
	require.Equal(t, false, notes[0]["completed"])
	require.Equal(t, "alice", notes[0]["username"])

	noteID := notes[0]["_id"].(string)
	status, body = doJSON(t, server, http.MethodPatch, "/notes",
		fmt.Sprintf(`{"id":%q,"user":%q,"title":"Fix bug","text":"done","completed":true}`, noteID, userID))
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "Note Fix bug has been updated", body["message"])

	status, body = doJSON(t, server, http.MethodPatch, "/notes",
		fmt.Sprintf(`{"id":%q,"user":%q,"title":"Fix bug","text":"x","completed":"yes"}`, noteID, userID))
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "All fields are required", body["message"])
}

func TestLogin(t *testing.T) {
	server := newTestServer(t)

	status, _ := doJSON(t, server, http.MethodPost, "/users",
		`{"username":"alice","password":"secret","roles":["Admin"]}`)
	require.Equal(t, http.StatusCreated, status)

	status, body := doJSON(t, server, http.MethodPost, "/auth",
		`{"username":"alice","password":"wrong"}`)
	require.Equal(t, http.StatusUnauthorized, status)
	require.Equal(t, "Unauthorized", body["message"])

	req := httptest.NewRequest(http.MethodPost, "/auth",
		strings.NewReader(`{"username":"alice","password":"secret"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := server.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var tokenCookie *http.Cookie
	for _, cookie := range resp.Cookies() {
		if cookie.Name == "token" {
			tokenCookie = cookie
		}
	}
	require.NotNil(t, tokenCookie, "login must set the token cookie")
	require.NotEmpty(t, tokenCookie.Value)
}

func TestNotFoundFallback(t *testing.T) {
	server := newTestServer(t)

	status, body := doJSON(t, server, http.MethodGet, "/no/such/page", "")
	require.Equal(t, http.StatusNotFound, status)
	require.Equal(t, "404 Not found", body["message"])
}
