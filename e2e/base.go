package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gookit/color"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/suite"
)

// BaseSuite drives a running server over its public surface only: the REST
// routes plus the WebSocket endpoint. Nothing here reaches into the store.
type BaseSuite struct {
	suite.Suite
	Config Config
	client *http.Client
}

// SetupSuite loads the environment configuration before running tests
func (s *BaseSuite) SetupSuite() {
	var err error
	s.Config, err = LoadConfig()
	s.Require().NoError(err)
	if s.Config.ServerAddr == "" {
		s.T().Skip("SERVER_ADDR not set, skipping end to end suite")
	}
	s.client = &http.Client{Timeout: 10 * time.Second}
}

// Step prints a colorized header so interleaved websocket logs stay readable.
func (s *BaseSuite) Step(name string) {
	header := fmt.Sprintf("  ====== %s ======", name)
	if s.Config.Colours {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	s.T().Log(header)
}

// PostJSON sends a JSON body and decodes the JSON response into out.
func (s *BaseSuite) PostJSON(path, token string, body, out any) int {
	raw, err := json.Marshal(body)
	s.Require().NoError(err)

	req, err := http.NewRequest(http.MethodPost, s.Config.ServerAddr+path, bytes.NewReader(raw))
	s.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.client.Do(req)
	s.Require().NoError(err)
	defer func() { _ = resp.Body.Close() }()

	if s.Config.DebugJSON {
		s.T().Logf("POST %s -> %d", path, resp.StatusCode)
	}
	if out != nil {
		_ = json.NewDecoder(resp.Body).Decode(out)
	}
	return resp.StatusCode
}

// GetJSON fetches a path with a bearer token and decodes the response.
func (s *BaseSuite) GetJSON(path, token string, out any) int {
	req, err := http.NewRequest(http.MethodGet, s.Config.ServerAddr+path, nil)
	s.Require().NoError(err)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := s.client.Do(req)
	s.Require().NoError(err)
	defer func() { _ = resp.Body.Close() }()

	if s.Config.DebugJSON {
		s.T().Logf("GET %s -> %d", path, resp.StatusCode)
	}
	if out != nil {
		_ = json.NewDecoder(resp.Body).Decode(out)
	}
	return resp.StatusCode
}

// Dial opens an authenticated websocket and consumes the initial ready frame.
func (s *BaseSuite) Dial(token string) *websocket.Conn {
	wsAddr := strings.Replace(s.Config.ServerAddr, "http", "ws", 1)
	wsAddr += "/ws?" + url.Values{"token": {token}}.Encode()

	conn, _, err := websocket.DefaultDialer.Dial(wsAddr, nil)
	s.Require().NoError(err, "Failed to open websocket at "+wsAddr)

	var ready map[string]json.RawMessage
	s.Require().NoError(conn.ReadJSON(&ready))
	return conn
}

// ReadFrame reads the next frame with a deadline so a missing broadcast fails
// fast instead of hanging the suite.
func (s *BaseSuite) ReadFrame(conn *websocket.Conn, timeout time.Duration) (string, json.RawMessage) {
	s.Require().NoError(conn.SetReadDeadline(time.Now().Add(timeout)))
	var f struct {
		Type    string          `json:"type"`
		Payload json.RawMessage `json:"payload"`
		Error   json.RawMessage `json:"error"`
	}
	s.Require().NoError(conn.ReadJSON(&f))
	if f.Type == "error" {
		return f.Type, f.Error
	}
	return f.Type, f.Payload
}
