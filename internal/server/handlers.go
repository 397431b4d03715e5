package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dialogkit/replygen/internal/capsule"
	"github.com/dialogkit/replygen/internal/reply"
)

// replyRequest carries a batch of brain responses plus the statement
// reply mode flags shared by the whole batch.
type replyRequest struct {
	Responses  []json.RawMessage `json:"responses"`
	EntityOnly bool              `json:"entity_only,omitempty"`
	Proactive  bool              `json:"proactive,omitempty"`
	Persist    bool              `json:"persist,omitempty"`
}

// replySignal is the realized utterance for a batch. Replies holds the
// per-item strings that succeeded; Reply joins them into one signal.
type replySignal struct {
	ID      string   `json:"id"`
	Replies []string `json:"replies"`
	Reply   string   `json:"reply"`
}

func (s *Server) handleReply(w http.ResponseWriter, r *http.Request) {
	var req replyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if len(req.Responses) == 0 {
		writeError(w, http.StatusBadRequest, "responses is required")
		return
	}

	opts := reply.StatementOptions{
		EntityOnly: req.EntityOnly,
		Proactive:  req.Proactive,
		Persist:    req.Persist,
	}

	// A bad item never fails the batch; it is logged and skipped, and
	// the remaining items still produce a signal.
	var replies []string
	for i, raw := range req.Responses {
		say, ok := s.replyToOne(r, raw, opts)
		if !ok {
			s.log.Debug("no reply for response", zap.Int("index", i))
			continue
		}
		replies = append(replies, say)
	}

	writeJSON(w, http.StatusOK, replySignal{
		ID:      uuid.NewString(),
		Replies: replies,
		Reply:   strings.Join(replies, ". "),
	})
}

func (s *Server) replyToOne(r *http.Request, raw json.RawMessage, opts reply.StatementOptions) (string, bool) {
	resp, err := capsule.Parse(raw)
	if err != nil {
		s.log.Warn("unparsable brain response", zap.Error(err))
		return "", false
	}
	kind, _, err := resp.Detect()
	if err != nil {
		s.log.Warn("undetectable brain response", zap.Error(err))
		return "", false
	}

	switch kind {
	case capsule.KindStatement:
		return s.replier.ReplyToStatement(r.Context(), resp, opts)
	case capsule.KindMention:
		return s.replier.ReplyToMention(resp)
	case capsule.KindQuestion:
		return s.replier.ReplyToQuestion(resp), true
	default:
		return "", false
	}
}

// rewardRequest feeds the bandit. Thought defaults to the arm selected
// by the most recent reply.
type rewardRequest struct {
	Thought string  `json:"thought,omitempty"`
	Reward  float64 `json:"reward"`
}

func (s *Server) handleReward(w http.ResponseWriter, r *http.Request) {
	if s.ucb == nil {
		writeError(w, http.StatusConflict, "bandit selector is not active")
		return
	}

	var req rewardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	thought := req.Thought
	if thought == "" {
		thought = s.replier.LastThought()
	}
	if thought == "" {
		writeError(w, http.StatusBadRequest, "no thought to reward")
		return
	}

	if err := s.ucb.UpdateUtility(thought, req.Reward); err != nil {
		s.log.Error("updating utility", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "updating utility failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"id":      uuid.NewString(),
		"thought": thought,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
