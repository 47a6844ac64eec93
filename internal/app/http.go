package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/pipe-tracker/internal/bot"
	"github.com/adanyl0v/pipe-tracker/internal/config"
	"github.com/adanyl0v/pipe-tracker/internal/delivery/http/v1"
	"github.com/adanyl0v/pipe-tracker/internal/reminder"
	"github.com/adanyl0v/pipe-tracker/internal/services"
	"github.com/adanyl0v/pipe-tracker/internal/twilio"
)

func MustListenAndServeHTTP() {
	cfg := config.Global()
	if cfg.Env != config.EnvLocal {
		gin.SetMode(gin.ReleaseMode)
	}

	httpCfg := cfg.HTTP

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	registerRoutes(router)

	server := &http.Server{
		Addr:    net.JoinHostPort(httpCfg.Host, httpCfg.Port),
		Handler: router,
	}

	go func() {
		globalLogger.Info().
			Str("host", httpCfg.Host).
			Str("port", httpCfg.Port).
			Msg("setting up http server")
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			globalLogger.Error().
				Err(err).
				Msg("failed to listen and serve http")
			panic(err)
		}
	}()

	// Wait for the interrupt signal to gracefully
	// shut down the server with a timeout of 5 seconds.
	quit := make(chan os.Signal, 1)
	// kill (no params) by default sends syscall.SIGTERM
	// kill -2 is syscall.SIGINT
	// kill -9 is syscall.SIGKILL but can't be caught, so don't need to add it
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	globalLogger.Info().
		Msg("shutting down http server")

	ctx, cancel := context.WithTimeout(context.Background(), httpCfg.ShutdownTimeout)
	defer cancel()

	err := server.Shutdown(ctx)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to shutdown http server")
		panic(err)
	}
	globalLogger.Info().Msg("shut down http server")
}

func registerRoutes(router gin.IRouter) {
	cfg := config.Global()

	projectService := services.NewProjectService(globalLogger, globalPostgresPool)
	taskService := services.NewTaskService(globalLogger, globalPostgresPool)
	taskListService := services.NewTaskListService(globalLogger, globalPostgresPool)
	sessionService := services.NewSessionService(globalLogger, globalPostgresPool)
	teamService := services.NewTeamService(globalLogger, globalPostgresPool)

	sender := twilio.NewClient(globalLogger, cfg.Twilio)
	thresholds := reminder.ThresholdsFromConfig(cfg.Reminder)

	machine := bot.NewMachine(
		globalLogger,
		projectService,
		taskService,
		sessionService,
		thresholds,
	)
	runner := reminder.NewRunner(
		globalLogger,
		projectService,
		taskService,
		teamService,
		sessionService,
		sender,
		thresholds,
		cfg.Reminder.DigestCap,
	)

	v1Handler := v1.New(
		globalLogger,
		projectService,
		taskService,
		taskListService,
		machine,
		runner,
		sender,
	)
	router = router.Group("/api/v1")

	projectsRouter := router.Group("/projects")
	projectsRouter.GET("", v1Handler.HandleListProjects)
	projectsRouter.POST("", v1Handler.HandleCreateProject)
	projectsRouter.PUT("/:id", v1Handler.HandleUpdateProject)
	projectsRouter.DELETE("/:id", v1Handler.HandleDeleteProject)

	tasksRouter := router.Group("/tasks")
	tasksRouter.GET("", v1Handler.HandleListTasks)
	tasksRouter.POST("", v1Handler.HandleCreateTask)
	tasksRouter.PUT("/:id", v1Handler.HandleUpdateTask)
	tasksRouter.DELETE("/:id", v1Handler.HandleDeleteTask)

	taskListsRouter := router.Group("/task-lists")
	taskListsRouter.GET("", v1Handler.HandleListTaskLists)
	taskListsRouter.POST("", v1Handler.HandleCreateTaskList)
	taskListsRouter.PUT("/:id", v1Handler.HandleUpdateTaskList)
	taskListsRouter.DELETE("/:id", v1Handler.HandleDeleteTaskList)

	whatsAppRouter := router.Group("/whatsapp")
	whatsAppRouter.GET("", v1Handler.HandleWhatsAppStatus)
	whatsAppRouter.POST("", v1Handler.HandleWhatsAppWebhook)

	router.GET("/cron", v1Handler.HandleCron)
}
