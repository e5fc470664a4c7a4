package api

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"task-planner/internal/deadline"
	"task-planner/internal/service"
)

const countdownWriteWait = 10 * time.Second

// countdownFrame is one update pushed over the countdown socket.
type countdownFrame struct {
	TaskID  uuid.UUID `json:"taskId"`
	Expired bool      `json:"expired"`
	Days    int       `json:"days"`
	Hours   int       `json:"hours"`
	Minutes int       `json:"minutes"`
	Text    string    `json:"text"`
}

type countdownHandler struct {
	tasks    service.TaskServiceInterface
	clock    deadline.Clock
	interval time.Duration
	upgrader websocket.Upgrader
	logger   *log.Logger
}

func newCountdownHandler(tasks service.TaskServiceInterface, clock deadline.Clock, interval time.Duration, logger *log.Logger) *countdownHandler {
	return &countdownHandler{
		tasks:    tasks,
		clock:    clock,
		interval: interval,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		logger: logger,
	}
}

// Serve streams the remaining time of one task until the client goes away.
// The per-connection ticker is released when the socket closes.
func (h *countdownHandler) Serve(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	taskID, ok := paramID(c, "id")
	if !ok {
		return
	}
	due, err := h.tasks.DueDate(c.Request.Context(), userID, taskID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("countdown upgrade failed", "task", taskID, "err", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The client sends nothing; reading only detects the close.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	stop := deadline.Watch(ctx, h.clock, due, h.interval, func(r deadline.Remaining) {
		_ = conn.SetWriteDeadline(time.Now().Add(countdownWriteWait))
		if err := conn.WriteJSON(countdownFrame{
			TaskID:  taskID,
			Expired: r.Expired,
			Days:    r.Days,
			Hours:   r.Hours,
			Minutes: r.Minutes,
			Text:    r.String(),
		}); err != nil {
			cancel()
		}
	})
	<-ctx.Done()
	stop()
}
