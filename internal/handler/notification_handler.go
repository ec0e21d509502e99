package handler

import (
	"log"
	"net/http"
	"strconv"

	"campusvoice.com/backend/internal/middleware"
	"campusvoice.com/backend/internal/model"
	"campusvoice.com/backend/internal/service"
	"campusvoice.com/backend/pkg/apperror"
	"campusvoice.com/backend/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
)

type NotificationHandler struct {
	service     service.NotificationService
	redisClient *redis.Client
	upgrader    websocket.Upgrader
}

func NewNotificationHandler(service service.NotificationService, redisClient *redis.Client) *NotificationHandler {
	return &NotificationHandler{
		service:     service,
		redisClient: redisClient,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// recipient resolves whichever principal the auth middleware put in context.
func recipient(c *gin.Context) (string, uint, bool) {
	if staff := middleware.StaffFrom(c); staff != nil {
		return model.RecipientStaff, staff.ID, true
	}
	if student := middleware.StudentFrom(c); student != nil {
		return model.RecipientStudent, student.ID, true
	}
	return "", 0, false
}

// REST endpoints

func (h *NotificationHandler) GetNotifications(c *gin.Context) {
	kind, id, ok := recipient(c)
	if !ok {
		response.Error(c, apperror.New(0, "not authenticated", apperror.ErrUnauthorized))
		return
	}

	limit := 20
	offset := 0
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 && v <= 100 {
		limit = v
	}
	if v, err := strconv.Atoi(c.Query("offset")); err == nil && v >= 0 {
		offset = v
	}

	notifications, err := h.service.GetNotifications(c.Request.Context(), kind, id, limit, offset)
	if err != nil {
		response.Error(c, apperror.Internal(err))
		return
	}

	response.JSON(c, http.StatusOK, notifications)
}

func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, apperror.New(0, "notification id must be numeric", apperror.ErrInvalidInput))
		return
	}

	if err := h.service.MarkAsRead(c.Request.Context(), uint(id)); err != nil {
		response.Error(c, apperror.Internal(err))
		return
	}

	response.JSON(c, http.StatusOK, gin.H{"message": "marked as read"})
}

func (h *NotificationHandler) MarkAllAsRead(c *gin.Context) {
	kind, id, ok := recipient(c)
	if !ok {
		response.Error(c, apperror.New(0, "not authenticated", apperror.ErrUnauthorized))
		return
	}

	if err := h.service.MarkAllAsRead(c.Request.Context(), kind, id); err != nil {
		response.Error(c, apperror.Internal(err))
		return
	}

	response.JSON(c, http.StatusOK, gin.H{"message": "all notifications marked as read"})
}

func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	kind, id, ok := recipient(c)
	if !ok {
		response.Error(c, apperror.New(0, "not authenticated", apperror.ErrUnauthorized))
		return
	}

	count, err := h.service.UnreadCount(c.Request.Context(), kind, id)
	if err != nil {
		response.Error(c, apperror.Internal(err))
		return
	}

	response.JSON(c, http.StatusOK, gin.H{"count": count})
}

// WebSocket endpoint

// HandleWebSocket streams the recipient's redis channel over a websocket. The
// route is protected by auth middleware; clients without Authorization headers
// pass the token as a query parameter.
func (h *NotificationHandler) HandleWebSocket(c *gin.Context) {
	kind, id, ok := recipient(c)
	if !ok {
		response.Error(c, apperror.New(0, "not authenticated", apperror.ErrUnauthorized))
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Failed to upgrade websocket: %v", err)
		return
	}
	defer conn.Close()

	if h.redisClient == nil {
		log.Println("Redis client is nil, cannot subscribe")
		return
	}

	pubsub := h.redisClient.Subscribe(c.Request.Context(), service.NotificationChannel(kind, id))
	defer pubsub.Close()

	if _, err := pubsub.Receive(c.Request.Context()); err != nil {
		log.Printf("Failed to subscribe to redis channel: %v", err)
		return
	}

	ch := pubsub.Channel()

	clientClosed := make(chan struct{})
	go func() {
		defer close(clientClosed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case msg := <-ch:
			// Payload is already the JSON-encoded notification.
			if err := conn.WriteMessage(websocket.TextMessage, []byte(msg.Payload)); err != nil {
				log.Printf("Failed to write message to websocket: %v", err)
				return
			}
		case <-clientClosed:
			return
		case <-c.Request.Context().Done():
			return
		}
	}
}
