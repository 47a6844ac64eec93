package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/pipe-tracker/internal/bot"
	"github.com/adanyl0v/pipe-tracker/internal/reminder"
	"github.com/adanyl0v/pipe-tracker/internal/services"
)

type Handler interface {
	HandleListProjects(c *gin.Context)
	HandleCreateProject(c *gin.Context)
	HandleUpdateProject(c *gin.Context)
	HandleDeleteProject(c *gin.Context)

	HandleListTasks(c *gin.Context)
	HandleCreateTask(c *gin.Context)
	HandleUpdateTask(c *gin.Context)
	HandleDeleteTask(c *gin.Context)

	HandleListTaskLists(c *gin.Context)
	HandleCreateTaskList(c *gin.Context)
	HandleUpdateTaskList(c *gin.Context)
	HandleDeleteTaskList(c *gin.Context)

	HandleWhatsAppStatus(c *gin.Context)
	HandleWhatsAppWebhook(c *gin.Context)
	HandleCron(c *gin.Context)
}

type handlerImpl struct {
	logger   zerolog.Logger
	projects services.ProjectService
	tasks    services.TaskService
	lists    services.TaskListService
	machine  *bot.Machine
	runner   *reminder.Runner
	sender   reminder.Sender
}

func New(
	logger zerolog.Logger,
	projectService services.ProjectService,
	taskService services.TaskService,
	taskListService services.TaskListService,
	machine *bot.Machine,
	runner *reminder.Runner,
	sender reminder.Sender,
) Handler {
	return &handlerImpl{
		logger:   logger,
		projects: projectService,
		tasks:    taskService,
		lists:    taskListService,
		machine:  machine,
		runner:   runner,
		sender:   sender,
	}
}
