// Package testserver runs the full HTTP stack on an in-memory database for tests.
package testserver

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rpggio/spacedesk/internal/app"
	"github.com/rpggio/spacedesk/internal/mcp"
	"github.com/rpggio/spacedesk/internal/sqlite"
	"github.com/rpggio/spacedesk/internal/transport"
	"github.com/stretchr/testify/require"
)

type TestServer struct {
	Server     *httptest.Server
	App        *app.App
	Token      string
	OperatorID string
}

// Response is a decoded envelope whose data is kept raw.
type Response struct {
	Status  int
	Success bool                 `json:"success"`
	Data    json.RawMessage      `json:"data"`
	Error   *transport.ErrorBody `json:"error"`
}

// NewDB opens a migrated in-memory database closed when the test ends.
func NewDB(t *testing.T) *sqlite.DB {
	t.Helper()

	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())
	t.Cleanup(func() {
		_ = db.Close()
	})
	return db
}

// New starts a server with authentication enabled and one API key for operatorID.
func New(t *testing.T, token, operatorID string) *TestServer {
	t.Helper()
	return start(t, app.New(NewDB(t), app.Options{}), token, operatorID)
}

// NewWithApp starts a server over an already wired app, for tests that need a
// file database or custom options.
func NewWithApp(t *testing.T, a *app.App, token, operatorID string) *TestServer {
	t.Helper()
	return start(t, a, token, operatorID)
}

func start(t *testing.T, a *app.App, token, operatorID string) *TestServer {
	t.Helper()

	mcpServer := mcp.NewServer(mcp.Config{
		Services:      a.MCPServices(),
		Resolver:      a.APIKeys,
		AuthEnabled:   true,
		TransportMode: "http",
		Logger:        a.Logger,
	})
	handler := transport.NewServer(a.TransportServices(), transport.Options{
		Logger: a.Logger,
		Auth:   transport.AuthMiddleware(a.APIKeys),
		MCP:    mcp.NewHTTPHandler(mcpServer),
	})
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	ts := &TestServer{Server: server, App: a, Token: token, OperatorID: operatorID}
	require.NoError(t, a.APIKeys.Add(t.Context(), token, operatorID, "test"))
	return ts
}

// Do sends body as JSON with the server token and decodes the envelope.
func (ts *TestServer) Do(t *testing.T, method, path string, body any) Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		if raw, ok := body.(string); ok {
			reader = bytes.NewBufferString(raw)
		} else {
			data, err := json.Marshal(body)
			require.NoError(t, err)
			reader = bytes.NewReader(data)
		}
	}
	req, err := http.NewRequestWithContext(t.Context(), method, ts.Server.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+ts.Token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	out := Response{Status: resp.StatusCode}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// Decode unmarshals the data of a response into v.
func (r Response) Decode(t *testing.T, v any) {
	t.Helper()
	require.NotEmpty(t, r.Data, "response has no data (error: %+v)", r.Error)
	require.NoError(t, json.Unmarshal(r.Data, v))
}
