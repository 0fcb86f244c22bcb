package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"inkwell/cmd/devserver/importer"
	"inkwell/cmd/devserver/middleware"
	"inkwell/cmd/devserver/reviewer"
	"inkwell/cmd/devserver/router"
	"inkwell/cmd/devserver/services"
	"inkwell/internal/logger"
	"inkwell/config"
	"inkwell/db"
	"inkwell/repositories"
)

// @title           Inkwell Dev API
// @version         1.0
// @description     Local publishing service for the inkwell client: posts and AI writing aids
// @BasePath        /
func main() {
	if err := config.InitApp(); err != nil {
		logger.Init("info")
		logger.ErrorWithFields("failed to load config", logger.Fields{"error": err.Error()})
		os.Exit(1)
	}
	cfg := config.GetConfig()
	logger.Init(cfg.Logging.Level)
	if cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg.DevServer); err != nil {
		logger.ErrorWithFields("devserver stopped with error", logger.Fields{"error": err.Error()})
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.DevServerConfig) error {
	repo, pinger, closeRepo, err := openRepository(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeRepo()

	postsSvc := services.NewPostService(repo)
	if cfg.Seed {
		if err := postsSvc.Seed(ctx); err != nil {
			return err
		}
	}

	importFeeds(ctx, postsSvc, cfg.ImportFeeds, cfg.ImportLimit)

	rev, err := newReviewer(ctx, cfg)
	if err != nil {
		return err
	}
	aiSvc := services.NewAIService(rev, repo)

	var verifier *middleware.JWTVerifier
	if cfg.JWTSecret != "" {
		verifier, err = middleware.NewJWTVerifier(cfg.JWTSecret, cfg.JWTIssuer)
		if err != nil {
			return err
		}
	}

	engine := router.New(router.Deps{Posts: postsSvc, AI: aiSvc, Health: pinger, Verifier: verifier})
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router.WithCORS(engine, cfg.AllowOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.InfoWithFields("devserver listening", logger.Fields{
			"addr":     cfg.Addr,
			"storage":  cfg.Storage,
			"jwt_auth": verifier != nil,
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	logger.InfoWithFields("devserver shutting down", nil)
	return srv.Shutdown(shutdownCtx)
}

func openRepository(ctx context.Context, cfg config.DevServerConfig) (repositories.PostRepository, repositories.Pinger, func(), error) {
	switch cfg.Storage {
	case "mongo":
		if err := db.Init(ctx, cfg.MongoURI, cfg.MongoDB); err != nil {
			return nil, nil, nil, err
		}
		repo := repositories.NewMongoPostRepository(db.Database())
		closeFn := func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = db.Close(closeCtx)
		}
		return repo, repo, closeFn, nil
	case "memory", "":
		return repositories.NewMemoryPostRepository(), nil, func() {}, nil
	default:
		return nil, nil, nil, errors.New("devserver: unknown storage " + cfg.Storage)
	}
}

// importFeeds 는 피드 하나가 실패해도 나머지와 서버 기동을 계속한다.
func importFeeds(ctx context.Context, svc *services.PostService, feeds []string, limit int) {
	client := &http.Client{Timeout: 30 * time.Second}
	for _, feedURL := range feeds {
		items, err := importer.FetchFeed(ctx, client, feedURL, limit)
		if err != nil {
			logger.WarnWithFields("feed fetch failed", logger.Fields{"feed": feedURL, "error": err.Error()})
			continue
		}
		res, err := importer.Import(ctx, svc, items)
		if err != nil {
			logger.WarnWithFields("feed import failed", logger.Fields{"feed": feedURL, "error": err.Error()})
			continue
		}
		logger.InfoWithFields("feed imported", logger.Fields{
			"feed":     feedURL,
			"imported": res.Imported,
			"skipped":  res.Skipped,
		})
	}
}

// newReviewer 는 GEMINI_API_KEY 가 있으면 모델 리뷰어를, 없으면 휴리스틱 리뷰어를 쓴다.
func newReviewer(ctx context.Context, cfg config.DevServerConfig) (reviewer.Reviewer, error) {
	if cfg.GeminiAPIKey == "" {
		logger.InfoWithFields("using heuristic reviewer", nil)
		return reviewer.Heuristic{}, nil
	}
	g, err := reviewer.NewGeminiReviewer(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		return nil, err
	}
	logger.InfoWithFields("using gemini reviewer", logger.Fields{
		"model": cfg.GeminiModel,
		"rpm":   cfg.GeminiRPM,
		"rpd":   cfg.GeminiRPD,
	})
	return reviewer.Limited{Next: g, Limiter: reviewer.NewQuotaLimiter(cfg.GeminiRPM, cfg.GeminiRPD)}, nil
}
