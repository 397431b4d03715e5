package server

import (
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gorilla/websocket"

	"github.com/dialogkit/replygen/internal/lexicon"
	"github.com/dialogkit/replygen/internal/phrase"
	"github.com/dialogkit/replygen/internal/reply"
	"github.com/dialogkit/replygen/internal/selector"
	"github.com/dialogkit/replygen/internal/state"
)

// questionJSON realizes deterministically: the single binding names its
// author, so the assembled answer does not depend on the random source.
const questionJSON = `{
	"question": {
		"author": {"label": "selene"},
		"subject": {"label": "joe"},
		"predicate": {"label": "like"},
		"object": {"label": "dogs"}
	},
	"response": [{
		"authorlabel": {"value": "lenka"},
		"certaintyValue": {"value": "CERTAIN"},
		"polarityValue": {"value": "POSITIVE"}
	}]
}`

func newTestServer(t *testing.T, ucb *selector.UCB) *Server {
	t.Helper()
	rng := rand.New(rand.NewSource(7))
	phraser := phrase.NewPatternPhraser(lexicon.NewResolver("nova"), phrase.WithRand(rng))
	replier := reply.NewReplier("nova", selector.NewUniformRandom(rng), phraser,
		reply.WithRand(rng))
	return New(Config{Port: 0}, replier, ucb, nil)
}

func newTestUCB(t *testing.T) *selector.UCB {
	t.Helper()
	store := state.NewJSONStore(filepath.Join(t.TempDir(), "utility.json"))
	ucb, err := selector.NewUCB(2.0, store, nil)
	if err != nil {
		t.Fatalf("NewUCB: %v", err)
	}
	return ucb
}

func TestHealthCheck(t *testing.T) {
	srv := newTestServer(t, nil)

	req := httptest.NewRequest("GET", "/healthz", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("expected status 'ok', got %q", body["status"])
	}
}

func TestReplyQuestion(t *testing.T) {
	srv := newTestServer(t, nil)

	payload := `{"responses": [` + questionJSON + `]}`
	req := httptest.NewRequest("POST", "/v1/reply", strings.NewReader(payload))
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var signal replySignal
	if err := json.Unmarshal(w.Body.Bytes(), &signal); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if signal.ID == "" {
		t.Error("expected a signal id")
	}
	if len(signal.Replies) != 1 {
		t.Fatalf("expected 1 reply, got %d", len(signal.Replies))
	}
	if signal.Reply != "Lenka told me joe like dogs" {
		t.Errorf("reply = %q", signal.Reply)
	}
}

func TestReplySkipsBadItems(t *testing.T) {
	srv := newTestServer(t, nil)

	// An empty capsule carries no envelope; it is skipped, not fatal.
	payload := `{"responses": [{}, ` + questionJSON + `]}`
	req := httptest.NewRequest("POST", "/v1/reply", strings.NewReader(payload))
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var signal replySignal
	if err := json.Unmarshal(w.Body.Bytes(), &signal); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(signal.Replies) != 1 {
		t.Errorf("expected 1 reply from the valid item, got %d", len(signal.Replies))
	}
}

func TestReplyBadJSON(t *testing.T) {
	srv := newTestServer(t, nil)

	req := httptest.NewRequest("POST", "/v1/reply", strings.NewReader("{not json"))
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestReplyEmptyBatch(t *testing.T) {
	srv := newTestServer(t, nil)

	req := httptest.NewRequest("POST", "/v1/reply", strings.NewReader(`{"responses": []}`))
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestRewardWithoutBandit(t *testing.T) {
	srv := newTestServer(t, nil)

	payload := `{"thought": "trust", "reward": 0.5}`
	req := httptest.NewRequest("POST", "/v1/reward", strings.NewReader(payload))
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
}

func TestRewardUpdatesBandit(t *testing.T) {
	ucb := newTestUCB(t)
	defer ucb.Close()
	srv := newTestServer(t, ucb)

	payload := `{"thought": "trust", "reward": 0.5}`
	req := httptest.NewRequest("POST", "/v1/reward", strings.NewReader(payload))
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["thought"] != "trust" {
		t.Errorf("expected rewarded thought %q, got %q", "trust", body["thought"])
	}
}

func TestRewardWithoutThought(t *testing.T) {
	ucb := newTestUCB(t)
	defer ucb.Close()
	srv := newTestServer(t, ucb)

	// No explicit thought and no reply has been produced yet.
	req := httptest.NewRequest("POST", "/v1/reward", strings.NewReader(`{"reward": 1}`))
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestChatWebsocket(t *testing.T) {
	srv := newTestServer(t, nil)
	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/v1/chat"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	if err := conn.WriteJSON(chatRequest{Type: "capsule", Content: json.RawMessage(questionJSON)}); err != nil {
		t.Fatalf("write: %v", err)
	}

	var resp chatResponse
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatalf("read: %v", err)
	}
	if resp.Type != "reply" {
		t.Fatalf("expected reply frame, got %q (%s)", resp.Type, resp.Content)
	}
	if resp.ID == "" {
		t.Error("expected a frame id")
	}
	if resp.Content != "Lenka told me joe like dogs" {
		t.Errorf("content = %q", resp.Content)
	}

	// Unknown frame types come back as error frames, not closes.
	if err := conn.WriteJSON(chatRequest{Type: "bogus"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatalf("read after bad frame: %v", err)
	}
	if resp.Type != "error" {
		t.Errorf("expected error frame, got %q", resp.Type)
	}
}

func TestCORSHeaders(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	phraser := phrase.NewPatternPhraser(lexicon.NewResolver("nova"), phrase.WithRand(rng))
	replier := reply.NewReplier("nova", selector.NewUniformRandom(rng), phraser)
	srv := New(Config{Port: 0, AllowAll: true}, replier, nil, nil)

	req := httptest.NewRequest("OPTIONS", "/healthz", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Error("expected CORS Allow-Origin header")
	}
}
