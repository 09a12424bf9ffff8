package handler

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/blacksiege/stms-backend/internal/middleware"
	"github.com/blacksiege/stms-backend/internal/session"
	ws "github.com/blacksiege/stms-backend/internal/websocket"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// An empty allow-list permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler streams the attempt countdown and accepts answers over a
// WebSocket, mirroring the REST attempt endpoints for clients that keep
// a live connection open during the test.
type WSHandler struct {
	sessions *session.Manager
	log      zerolog.Logger
	upgrader websocket.Upgrader
	tick     time.Duration
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(sessions *session.Manager, log zerolog.Logger, allowedOrigins []string, tick time.Duration) *WSHandler {
	if tick <= 0 {
		tick = time.Second
	}
	return &WSHandler{
		sessions: sessions,
		log:      log.With().Str("component", "ws_handler").Logger(),
		upgrader: buildUpgrader(allowedOrigins),
		tick:     tick,
	}
}

// TestStream godoc
// WS /ws/v1/student/tests/:id/stream?token=...
// Pushes a tick event with the remaining seconds every timer interval
// and a graded event once the attempt is scored, whether the student
// submitted, the server timed the attempt out, or another client
// finished it. Accepts answer, submit, and ping actions.
func (h *WSHandler) TestStream(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	machine := h.sessions.Get(claims.SessionID)
	if machine == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "session expired"})
		return
	}

	testID := c.Param("id")
	if t := machine.Test(); t == nil || t.ID != testID {
		c.JSON(http.StatusConflict, gin.H{"error": "no attempt for this test"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	wsLog := h.log.With().
		Str("student_code", claims.StudentCode).
		Str("test_id", testID).
		Logger()
	wsLog.Info().Msg("student connected")

	// gorilla allows one concurrent writer per connection; the countdown
	// goroutine and the read loop both send, so writes are serialized.
	var writeMu sync.Mutex
	write := func(v interface{}) error {
		writeMu.Lock()
		defer writeMu.Unlock()
		return ws.WriteTyped(conn, v)
	}

	done := make(chan struct{})
	defer close(done)
	go h.pushCountdown(machine, write, done, wsLog)

	for {
		var msg ws.RequestEnvelope
		raw, err := ws.ReadRaw(conn)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				wsLog.Warn().Err(err).Msg("unexpected close")
			} else {
				wsLog.Debug().Msg("connection closed")
			}
			return
		}
		if err := ws.Decode(raw, &msg); err != nil {
			write(ws.ErrorResponse{Event: ws.EventError, Error: "malformed message"})
			continue
		}

		switch msg.Action {
		case ws.ActionAnswer:
			h.handleAnswer(machine, write, raw)
		case ws.ActionSubmit:
			h.handleSubmit(c, machine, write, wsLog)
		case ws.ActionPing:
			write(ws.PongResponse{Event: ws.EventPong})
		default:
			write(ws.ErrorResponse{Event: ws.EventError, Error: "unknown action"})
		}
	}
}

// pushCountdown ticks the remaining time to the client until the
// attempt leaves the in-progress state, then sends the graded outcome.
func (h *WSHandler) pushCountdown(machine *session.Machine, write func(interface{}) error, done <-chan struct{}, log zerolog.Logger) {
	ticker := time.NewTicker(h.tick)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
		}

		snap := machine.Snapshot()
		switch snap.State {
		case session.StateTestInProgress:
			if err := write(ws.TickResponse{Event: ws.EventTick, RemainingSeconds: snap.RemainingSeconds}); err != nil {
				return
			}
		case session.StateTestResult:
			if snap.Outcome != nil {
				write(ws.GradedResponse{
					Event:      ws.EventGraded,
					Correct:    snap.Outcome.Correct,
					Incorrect:  snap.Outcome.Incorrect,
					Unanswered: snap.Outcome.Unanswered,
					Percentage: snap.Outcome.Percentage,
					Passed:     snap.Outcome.Passed,
				})
			}
			log.Info().Msg("attempt graded, closing stream")
			return
		default:
			return
		}
	}
}

func (h *WSHandler) handleAnswer(machine *session.Machine, write func(interface{}) error, raw []byte) {
	var req ws.AnswerRequest
	if err := ws.Decode(raw, &req); err != nil {
		write(ws.ErrorResponse{Event: ws.EventError, Error: "malformed answer"})
		return
	}

	if err := machine.Answer(req.QuestionIndex, req.OptionIndex); err != nil {
		write(ws.ErrorResponse{Event: ws.EventError, Error: err.Error()})
		return
	}
	write(ws.AckResponse{Event: ws.EventAck, Status: "saved"})
}

func (h *WSHandler) handleSubmit(c *gin.Context, machine *session.Machine, write func(interface{}) error, log zerolog.Logger) {
	result, err := machine.Submit(c.Request.Context())
	if err != nil {
		write(ws.ErrorResponse{Event: ws.EventError, Error: err.Error()})
		return
	}

	log.Info().Int("percentage", result.Percentage).Bool("passed", result.Passed).Msg("attempt submitted over stream")
	write(ws.GradedResponse{
		Event:      ws.EventGraded,
		Correct:    result.Correct,
		Incorrect:  result.Incorrect,
		Unanswered: result.Unanswered,
		Percentage: result.Percentage,
		Passed:     result.Passed,
	})
}
