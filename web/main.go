package main

import (
	"context"
	"encoding/base64"
	"log"
	"os"

	"crewtrack.com/crewtrack/attendance"
	"crewtrack.com/crewtrack/core"
	"crewtrack.com/crewtrack/geo"
	"crewtrack.com/crewtrack/infrastructure/communication"
	"crewtrack.com/crewtrack/infrastructure/filesystem"
	"crewtrack.com/crewtrack/task"
	"crewtrack.com/crewtrack/web/handlers"
	"crewtrack.com/crewtrack/web/middlewares"
	"github.com/gin-gonic/gin"
)

func main() {
	dsn := os.Getenv("CREWTRACK_DSN")
	if dsn == "" {
		log.Fatal("CREWTRACK_DSN is not set")
	}

	jwtSecret, err := base64.StdEncoding.DecodeString(os.Getenv("CREWTRACK_SIGNING_SECRET"))
	if err != nil || len(jwtSecret) == 0 {
		log.Fatal("CREWTRACK_SIGNING_SECRET must be a base64-encoded secret")
	}

	dm, err := core.New(dsn, 20)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	defer dm.Close()

	settings := core.NewSettingsService()
	geocoder := geo.NewGeocoder(os.Getenv("CREWTRACK_GEOCODER_URL"))

	var notifier attendance.Notifier
	slackToken := os.Getenv("SLACK_BOT_TOKEN")
	adminEmail := os.Getenv("CREWTRACK_ADMIN_EMAIL")
	if slackToken != "" || adminEmail != "" {
		approvals := &communication.ApprovalNotifier{
			FromEmail:  os.Getenv("CREWTRACK_FROM_EMAIL"),
			AdminEmail: adminEmail,
		}
		if slackToken != "" {
			approvals.Slack = communication.ConnectSlack()
		}
		notifier = approvals
	}

	var photos *filesystem.PhotoStore
	if bucket := os.Getenv("CREWTRACK_PHOTO_BUCKET"); bucket != "" {
		photos, err = filesystem.NewPhotoStore(context.Background(), bucket)
		if err != nil {
			log.Fatalf("failed to init photo store: %v", err)
		}
	}

	attendanceService := attendance.NewService(settings, geocoder, notifier)
	taskService := task.NewService(attendanceService)

	r := gin.Default()
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	protected := r.Group("/api")
	protected.Use(middlewares.Authentication(jwtSecret))
	handlers.Register(protected, dm, attendanceService, taskService, photos)

	addr := os.Getenv("CREWTRACK_LISTEN")
	if addr == "" {
		addr = ":8090"
	}
	r.Run(addr)
}
