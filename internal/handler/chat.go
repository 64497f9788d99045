package handler

import (
	"log/slog"
	"net/http"

	"leavechat/internal/agent"
	"leavechat/internal/httputil"
)

// ChatHandler handles conversational turns. The server keeps no
// conversation state; the client replays the visible history with
// every message.
type ChatHandler struct {
	loop   *agent.Loop
	logger *slog.Logger
}

func NewChatHandler(loop *agent.Loop, logger *slog.Logger) *ChatHandler {
	return &ChatHandler{
		loop:   loop,
		logger: logger,
	}
}

type chatRequest struct {
	Message string        `json:"message"`
	History []historyTurn `json:"history"`
}

type historyTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Response string `json:"response"`
}

// Chat runs one assistant turn over the replayed history.
// POST /api/chat/
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	caller := httputil.GetCaller(r)
	if caller == nil {
		httputil.RespondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req chatRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Message == "" {
		httputil.RespondError(w, http.StatusBadRequest, "Message is required")
		return
	}

	transcript := buildTranscript(req.History, req.Message)

	reply, err := h.loop.Run(r.Context(), transcript, caller)
	if err != nil {
		h.logger.Error("chat turn failed", "employee_id", caller.EmployeeID, "error", err)
		httputil.RespondError(w, http.StatusInternalServerError, "Chat failed")
		return
	}

	httputil.RespondJSON(w, http.StatusOK, chatResponse{Response: reply})
}

// buildTranscript converts replayed history plus the new message into
// turns. The UI opens with a canned assistant greeting the model never
// produced, so a leading assistant entry is dropped.
func buildTranscript(history []historyTurn, message string) []agent.Turn {
	if len(history) > 0 && history[0].Role == string(agent.RoleAssistant) {
		history = history[1:]
	}

	transcript := make([]agent.Turn, 0, len(history)+1)
	for _, entry := range history {
		switch entry.Role {
		case string(agent.RoleUser):
			transcript = append(transcript, agent.UserTurn(entry.Content))
		case string(agent.RoleAssistant):
			transcript = append(transcript, agent.AssistantTurn(entry.Content))
		}
	}
	return append(transcript, agent.UserTurn(message))
}
