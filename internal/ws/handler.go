package ws

import (
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gorilla/websocket"
)

type Handler struct {
	hub    *Hub
	logger *log.Logger
}

func NewHandler(hub *Hub, logger *log.Logger) *Handler {
	if logger == nil {
		logger = log.Default()
	}
	return &Handler{hub: hub, logger: logger}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func (h *Handler) HandleSkillsWS(c fiber.Ctx) error {
	if h == nil || h.hub == nil {
		return fiber.ErrServiceUnavailable
	}
	return adaptor.HTTPHandler(h)(c)
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	topics, err := topicsFromQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Printf("[WS] upgrade error | err=%v", err)
		return
	}

	client := NewClient(h.hub, conn, topics)
	if !h.hub.Register(client) {
		_ = conn.Close()
		return
	}
	go client.WritePump()
	go client.ReadPump()
}

type queryError string

func (e queryError) Error() string { return string(e) }

func topicsFromQuery(r *http.Request) ([]string, error) {
	q := r.URL.Query()
	topics := make([]string, 0, 2)
	for _, p := range []struct {
		key   string
		topic func(int64) string
	}{
		{"managerId", ManagerTopic},
		{"empId", EmployeeTopic},
	} {
		raw := strings.TrimSpace(q.Get(p.key))
		if raw == "" {
			continue
		}
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return nil, queryError("invalid " + p.key)
		}
		topics = append(topics, p.topic(id))
	}
	if len(topics) == 0 {
		return nil, queryError("managerId or empId is required")
	}
	return topics, nil
}
