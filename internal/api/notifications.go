package api

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"task-planner/internal/service"
)

func RegisterNotificationRoutes(group *gin.RouterGroup, notifications service.NotificationSchedulerInterface, logger *log.Logger) {
	group.POST("/notifications/send", func(c *gin.Context) { SendNotifications(c, notifications, logger) })
}

// SendNotifications runs the reminder fan-out on demand and waits for it.
func SendNotifications(c *gin.Context, notifications service.NotificationSchedulerInterface, logger *log.Logger) {
	summary, err := notifications.TriggerNow(c.Request.Context())
	if err != nil {
		respondError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notifications sent", "summary": summary})
}
