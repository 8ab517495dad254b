package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"CourseCanvas/internal/app/server"
	"CourseCanvas/internal/config"
	"CourseCanvas/internal/delivery/http"
	"CourseCanvas/internal/service"
	"CourseCanvas/internal/service/course/management"
	"CourseCanvas/internal/service/course/query"
	"CourseCanvas/internal/service/lesson/authoring"
	"CourseCanvas/internal/service/lesson/completion"
	"CourseCanvas/internal/service/lesson/content"
	"CourseCanvas/internal/service/lesson/playback"
	"CourseCanvas/internal/storage/elastic"
	"CourseCanvas/internal/storage/minio_storage"
	"CourseCanvas/internal/storage/postgres"
	"CourseCanvas/internal/widget"
	"CourseCanvas/internal/widget/types"
	"CourseCanvas/pkg/logger"
)

func Run(cfg *config.Config) {
	log := logger.New(cfg.Env)
	log.Info("Starting with Env: " + cfg.Env)

	pg, err := postgres.NewPostgresPool(cfg.Postgres.User, cfg.Postgres.Password, cfg.Postgres.Host, cfg.Postgres.Port, cfg.Postgres.DBName)
	if err != nil {
		log.FatalErr("error connecting to database", err)
	}
	defer pg.Close()

	media, err := minio_storage.NewWidgetMediaStorage(
		cfg.Minio.Endpoint, cfg.Minio.AccessKey, cfg.Minio.SecretKey, cfg.Minio.UseSSL,
		cfg.Minio.Bucket, cfg.Minio.PresignTTL, cfg.Editor.MaxUploadBytes,
	)
	if err != nil {
		log.FatalErr("error connecting to minio", err)
	}

	esClient, err := elastic.NewElasticClient(cfg.ES.Password, cfg.ES.Hosts)
	if err != nil {
		log.FatalErr("error connecting to elasticsearch", err)
	}
	searchRepo := elastic.NewCourseSearchRepository(esClient, cfg.ES.Index)
	if err := searchRepo.CreateIndexIfNotExist(context.Background()); err != nil {
		log.FatalErr("error preparing search index", err)
	}

	// One registry for the whole process, populated once here and injected
	// everywhere a widget type is resolved.
	registry := widget.NewRegistry(log)
	types.RegisterAll(registry)

	codec := content.NewCodec(log)
	engine := completion.NewEngine(registry)

	courseRepo := postgres.NewCoursePostgres(pg.Pool)
	courseService := management.NewCourseService(log, courseRepo, searchRepo, media)
	queryService := query.NewQueryService(log, courseRepo, searchRepo, media)
	authoringService := authoring.NewService(log, registry, codec, courseRepo, media, cfg.Editor.SessionTTL)
	playbackService := playback.NewService(log, registry, codec, engine, courseRepo)

	u := service.Collection{
		Courses:   courseService,
		Query:     queryService,
		Authoring: authoringService,
		Playback:  playbackService,
	}

	r := http.InitRoutes(log, u, cfg.JWT.SecretKey)

	srv := server.New(cfg.HTTPServer.Address, cfg.HTTPServer.Timeout, cfg.HTTPServer.IdleTimeout, r)
	srv.Start()
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	select {
	case s := <-interrupt:
		log.Info("app signal: " + s.String())
	case err := <-srv.Notify():
		log.ErrorErr("server stopped", err)
	}
	if err := srv.Shutdown(); err != nil {
		log.ErrorErr("shutdown error", err)
	}
}
