package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/akolanti/pictopdf/internal/caption"
	"github.com/akolanti/pictopdf/internal/caption/gemini"
	"github.com/akolanti/pictopdf/internal/caption/openai"
	"github.com/akolanti/pictopdf/internal/collection"
	"github.com/akolanti/pictopdf/internal/config"
	"github.com/akolanti/pictopdf/internal/data/store"
	"github.com/akolanti/pictopdf/internal/domain/itemModel"
	jobmodel "github.com/akolanti/pictopdf/internal/domain/jobModel"
	"github.com/akolanti/pictopdf/internal/export"
	"github.com/akolanti/pictopdf/internal/handlers"
	"github.com/akolanti/pictopdf/internal/job"
	"github.com/akolanti/pictopdf/internal/server"
	"github.com/akolanti/pictopdf/internal/worker"
	"github.com/akolanti/pictopdf/pkg/logger_i"
)

var (
	listenAddr        string
	requestCount      int64
	stopWorkerChannel chan bool
	workerWaitGroup   sync.WaitGroup
)

func main() {

	logger_i.Init()
	var logger = logger_i.NewLogger("main")

	//config
	flag.StringVar(&listenAddr, "listen-addr", config.ServerListenAddr, "server listen address")
	flag.Parse()

	//init buffered job channel
	jobChannel := make(chan jobmodel.Job, config.BufferLimit)
	dispatcherChannel := make(chan bool, 1)
	stopWorkerChannel = make(chan bool, 1)

	serviceContext, closeExternalServices := context.WithCancel(context.Background())
	defer closeExternalServices()

	//init job service and the stores
	serviceConfig := job.ServiceConfig{
		JobChannel:        jobChannel,
		RequestCount:      requestCount,
		DispatcherChannel: dispatcherChannel,
	}
	logger.Info("Starting job service")

	redisJobStore := store.GetRedisJobStore(serviceContext)
	redisSettingsStore := store.GetRedisSettingsStore(serviceContext)

	var settingsStore itemModel.SettingsStore
	if redisJobStore == nil || redisSettingsStore == nil {
		if !config.FALLBACK_REDIS_TO_INTERNALSTORE {
			logger.Error("Redis stores are offline. Shutting down.")
			return
		}
		logger.Error("Redis stores are offline, running on the in-memory stores")
		serviceConfig.JobStore = store.InitInMemoryJobStore()
		settingsStore = store.InitInMemorySettingsStore()
	} else {
		serviceConfig.JobStore = redisJobStore
		settingsStore = redisSettingsStore
	}
	service := job.InitJobService(serviceConfig)

	//caption provider - gemini unless overridden
	var captionProvider caption.Provider
	switch config.CaptionProvider() {
	case "openai":
		captionProvider = openai.GetOpenAIClient(config.OpenAIVisionModel, config.OpenAIAPIKey)
	default:
		captionProvider = gemini.GetGeminiClient(serviceContext, config.GeminiModelName, config.GeminiAPIKey)
	}
	if captionProvider == nil {
		logger.Error("Caption provider unavailable - caption jobs will fail until an API key is configured")
	}

	items := collection.InitCollection()
	previews := export.NewManager(items, settingsStore)
	captionService := caption.NewService(items, captionProvider)

	handlers.InitRequestHandler(items, previews, settingsStore)
	handlers.InitJobHandler(service, items)

	//init worker pool
	worker.InitServices(service, captionService)
	worker.InitWorkerPool(stopWorkerChannel, &workerWaitGroup)

	//server handling
	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)
	stopExecution := make(chan bool, 1)

	shutdownParams := server.ShutdownParams{
		GracefulShutdown: gracefulShutdown,
		StopExecution:    stopExecution,
		WorkerStop:       stopWorkerChannel,
		Group:            &workerWaitGroup,
		CloseServices:    closeExternalServices,
	}
	go server.ShutDownHandler(shutdownParams)
	go server.CreateServer(listenAddr)

	<-stopExecution
	logger.Info("Server stopped")
}
