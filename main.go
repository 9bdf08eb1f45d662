package main

import (
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"

	"tunereel/config"
	"tunereel/handlers"
	"tunereel/internal/ffmpeg"
	"tunereel/internal/pipeline"
	"tunereel/internal/providers"
	"tunereel/internal/remotejob"
	"tunereel/internal/store"
	"tunereel/middleware"
)

func main() {
	// .env is local-dev convenience; deployed environments set real vars.
	_ = godotenv.Load()

	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := config.NewLogger()

	st, err := store.New(cfg.Paths.Uploads, "/uploads")
	if err != nil {
		logger.Fatalf("Failed to initialize artifact store: %v", err)
	}

	jobs := remotejob.New(logger, remotejob.Options{
		PollInterval: cfg.Jobs.PollInterval(),
		MaxAttempts:  cfg.Jobs.MaxAttempts,
	})

	orc := pipeline.New(pipeline.Deps{
		Log:       logger,
		Store:     st,
		Jobs:      jobs,
		Images:    providers.NewFal(cfg.Providers),
		Songs:     providers.NewKie(cfg.Providers),
		Lyrics:    providers.NewGemini(cfg.Providers),
		Whisper:   providers.NewWhisper(cfg.Providers),
		PublicURL: cfg.Server.PublicURL,
		Download:  providers.Download,
		Probe:     ffmpeg.ProbeDuration,
		Extract:   ffmpeg.ExtractClip,
	})

	h := handlers.NewApplicationHandler(logger, st, orc)

	app := fiber.New(fiber.Config{
		// Song and video jobs can legitimately poll for minutes.
		ReadTimeout:  0,
		WriteTimeout: 0,
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))
	app.Use(middleware.RequestLogger(logger))

	app.Static("/uploads", st.Dir())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":  "ok",
			"message": "tunereel is healthy",
		})
	})

	api := app.Group("/api")
	api.Post("/image/generate", h.GenerateImage)
	api.Post("/lyrics/generate", h.GenerateLyrics)
	api.Post("/music/generate", h.GenerateSong)
	api.Post("/chorus/extract", h.ExtractChorus)
	api.Post("/video/create", h.CreateVideo)
	api.Get("/video/download/:filename", h.DownloadArtifact)
	api.Post("/pipeline/run", h.RunPipeline)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	logger.Infof("Starting tunereel on %s", addr)
	logger.Fatal(app.Listen(addr))
}
