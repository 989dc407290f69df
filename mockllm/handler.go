package mockllm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/xiaot623/llmreplay/replay"
	"github.com/xiaot623/llmreplay/store"
	"github.com/xiaot623/llmreplay/trajectory"
)

// Handler serves the mock chat-completions protocol from a replay state.
// Handlers for different requests may run concurrently; the replay state is
// the only shared mutable resource.
type Handler struct {
	state     *replay.State
	converter *Converter
	replayLog store.ReplayLog
}

// NewHandler creates a handler over state. replayLog may be nil to disable
// served-response recording.
func NewHandler(state *replay.State, replayLog store.ReplayLog) *Handler {
	return &Handler{
		state:     state,
		converter: NewConverter(),
		replayLog: replayLog,
	}
}

// RegisterRoutes registers all mock server routes. Anything outside the
// replay surface, including method mismatches, is served as 404.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/", h.Health)
	e.GET("/health", h.Health)
	e.GET("/reset", h.Reset)
	e.POST("/chat/completions", h.ChatCompletions)
	e.POST("/v1/chat/completions", h.ChatCompletions)
	e.RouteNotFound("/*", h.NotFound)
	e.HTTPErrorHandler = h.HTTPErrorHandler
}

// HTTPErrorHandler maps routing errors to the mock protocol's flat error
// bodies. Echo reports method mismatches as 405, which this surface folds
// into the same not-found response.
func (h *Handler) HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	if he, ok := err.(*echo.HTTPError); ok {
		if he.Code == http.StatusNotFound || he.Code == http.StatusMethodNotAllowed {
			_ = c.JSON(http.StatusNotFound, ErrorResponse{Error: "Not found"})
			return
		}
	}

	log.Printf("ERROR: request failed: %v", err)
	_ = c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
}

// Health reports replay progress without consuming an event.
// GET /health, GET /
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{
		Status:             "ok",
		Server:             ServerName,
		ResponsesRemaining: h.state.Remaining(),
	})
}

// Reset rewinds the replay cursor to the first event.
// GET /reset
func (h *Handler) Reset(c echo.Context) error {
	h.state.Reset()
	return c.JSON(http.StatusOK, ResetResponse{Status: "reset"})
}

// ChatCompletions replays the next trajectory event as a chat completion.
// POST /chat/completions, POST /v1/chat/completions
func (h *Handler) ChatCompletions(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid JSON"})
	}

	// The event draw must happen only after the body parses; malformed
	// requests never consume a trajectory event. Only the stream flag
	// matters to replay, so the rest of the body is accepted whatever shape
	// the client sends (block-array message content included).
	var req struct {
		Stream bool `json:"stream"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid JSON"})
	}

	event, ok := h.state.Next()
	var env Envelope
	if ok {
		env = h.converter.ConvertEvent(event)
	} else {
		env = h.converter.DefaultResponse()
	}

	h.recordServed(c.Request().Context(), event, env, req.Stream)

	if req.Stream {
		return h.writeStream(c, env)
	}
	return c.JSON(http.StatusOK, env.Completion)
}

// NotFound handles every unrecognized path or method.
func (h *Handler) NotFound(c echo.Context) error {
	return c.JSON(http.StatusNotFound, ErrorResponse{Error: "Not found"})
}

// writeStream renders the envelope's chunks as Server-Sent Events followed
// by the [DONE] sentinel.
func (h *Handler) writeStream(c echo.Context, env Envelope) error {
	// Check streaming support before committing the response so a failure
	// can still be reported as an error status.
	flusher, ok := c.Response().Writer.(http.Flusher)
	if !ok {
		return fmt.Errorf("response writer does not support streaming")
	}

	c.Response().Header().Set(echo.HeaderContentType, "text/event-stream")
	c.Response().Header().Set("Cache-Control", "no-cache")
	c.Response().Header().Set("Connection", "keep-alive")
	c.Response().WriteHeader(http.StatusOK)

	for _, chunk := range env.StreamChunks {
		data, err := json.Marshal(chunk)
		if err != nil {
			return fmt.Errorf("failed to marshal stream chunk: %w", err)
		}
		if _, err := fmt.Fprintf(c.Response().Writer, "data: %s\n\n", data); err != nil {
			return err
		}
		flusher.Flush()
	}

	if _, err := fmt.Fprintf(c.Response().Writer, "data: [DONE]\n\n"); err != nil {
		return err
	}
	flusher.Flush()
	return nil
}

// recordServed logs the draw to the replay log when one is configured.
func (h *Handler) recordServed(ctx context.Context, event trajectory.Event, env Envelope, streamed bool) {
	if h.replayLog == nil {
		return
	}

	served := &store.ServedResponse{
		CompletionID: env.Completion.ID,
		EventKind:    event.Kind,
		Streamed:     streamed,
	}
	if len(env.Completion.Choices) > 0 {
		served.FinishReason = env.Completion.Choices[0].FinishReason
	}
	if err := h.replayLog.RecordServed(ctx, served); err != nil {
		log.Printf("WARN: failed to record served response: %v", err)
	}
}
