package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"

	"inkwell/cmd/devserver/handlers"
	"inkwell/cmd/devserver/middleware"
	"inkwell/cmd/devserver/services"
	"inkwell/repositories"
)

type Deps struct {
	Posts *services.PostService
	AI    *services.AIService
	// Health 가 nil이 아니면 /health 가 저장소 연결까지 확인한다.
	Health repositories.Pinger
	// Verifier 가 nil이면 bearer 토큰을 작성자 id 로 그대로 신뢰한다.
	Verifier *middleware.JWTVerifier
}

func New(deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestTrace())

	// 헬스 체크
	r.GET("/health", func(c *gin.Context) {
		if deps.Health != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
			defer cancel()
			if err := deps.Health.Ping(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "storage": "down", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	auth := middleware.RequireAuthor(deps.Verifier)

	posts := r.Group("/posts")
	{
		posts.GET("", handlers.ListPostsHandler(deps.Posts))
		// 정적 세그먼트 my_posts 는 :id 보다 우선 매칭된다.
		posts.GET("/my_posts", auth, handlers.ListMyPostsHandler(deps.Posts))
		posts.GET("/:id", handlers.GetPostHandler(deps.Posts))
		posts.POST("", auth, handlers.CreatePostHandler(deps.Posts))
		posts.PUT("/:id", auth, handlers.UpdatePostHandler(deps.Posts))
		posts.DELETE("/:id", auth, handlers.DeletePostHandler(deps.Posts))
		posts.PATCH("/:id/publish", auth, handlers.TogglePublishHandler(deps.Posts))
		posts.POST("/:id/like", auth, handlers.LikePostHandler(deps.Posts))
	}

	ai := r.Group("/ai")
	{
		ai.POST("/review", auth, handlers.ReviewContentHandler(deps.AI))
		ai.GET("/topics", handlers.TopicSuggestionsHandler(deps.AI))
		ai.POST("/suggestions", auth, handlers.GenerateSuggestionsHandler(deps.AI))
		ai.GET("/analyze/:id", handlers.AnalyzePostHandler(deps.AI))
	}

	return r
}

// WithCORS 는 브라우저 클라이언트가 다른 origin 에서 붙을 수 있도록 핸들러를 감싼다.
func WithCORS(h http.Handler, origins []string) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders: []string{"Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         600,
	})
	return c.Handler(h)
}
