package handlers

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/voluntia/volunteerhub-api/internal/services"
)

// Package-level services, wired once at startup.
var (
	Postulations  *services.PostulationService
	Tasks         *services.TaskService
	Volunteers    *services.VolunteerService
	Notifications *services.Dispatcher
	db            *gorm.DB
)

// Init builds the service graph. The dispatcher is shared by both lifecycle
// services so every notification flows through one dedup point.
func Init(gdb *gorm.DB, log *zap.Logger, push *services.PushService, events services.Broadcaster) {
	db = gdb

	dispatcher := services.NewDispatcher(gdb, log).WithPush(push)
	if events != nil {
		dispatcher.WithBroadcaster(events)
	}

	Notifications = dispatcher
	Postulations = services.NewPostulationService(gdb, dispatcher, log)
	Tasks = services.NewTaskService(gdb, dispatcher, log)
	Volunteers = services.NewVolunteerService(gdb, log)
}
