package main

import (
	"context"
	"errors"
	stdhttp "net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/blogify/api/internal/adapters/handler/http"
	"github.com/blogify/api/internal/adapters/llm/openai"
	"github.com/blogify/api/internal/adapters/media"
	"github.com/blogify/api/internal/adapters/oauth/twitter"
	"github.com/blogify/api/internal/adapters/repository/mongodb"
	"github.com/blogify/api/internal/adapters/token"
	"github.com/blogify/api/internal/config"
	"github.com/blogify/api/internal/core/services"
	"github.com/blogify/api/internal/cryptox"
	"github.com/blogify/api/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := logging.New(cfg.Production())
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, db, err := mongodb.Connect(ctx, cfg.Mongo.URL, cfg.Mongo.Database)
	if err != nil {
		logger.Fatal("mongodb connection failed", zap.Error(err))
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(disconnectCtx)
	}()
	logger.Info("connected to mongodb", zap.String("database", cfg.Mongo.Database))

	userRepo := mongodb.NewUserRepository(db)
	postRepo := mongodb.NewPostRepository(db)
	commentRepo := mongodb.NewCommentRepository(db)

	codec := token.NewJWTCodec(cfg.Session.Secret)
	cipher := cryptox.NewCipher(cfg.Session.EncryptionKey)
	provider := twitter.NewProvider(cfg.Twitter.ClientID, cfg.Twitter.ClientSecret, cfg.Twitter.CallbackURL)
	mediaStore := media.NewFileStore(cfg.Media.Dir, cfg.Media.BaseURL)

	generator, err := openai.NewGenerator(cfg.LLM.BaseURL, cfg.LLM.APIKey, cfg.LLM.Model)
	if err != nil {
		logger.Fatal("llm client setup failed", zap.Error(err))
	}

	authService := services.NewAuthService(userRepo, codec)
	userService := services.NewUserService(userRepo)
	socialService := services.NewSocialService(userRepo, provider, cipher, cfg.SiteURL, logger)
	postService := services.NewPostService(postRepo, commentRepo, mediaStore, socialService, logger)
	commentService := services.NewCommentService(commentRepo, postRepo)
	assistService := services.NewAssistService(generator, postRepo, logger)

	handler := http.NewHandler(http.RouterConfig{
		AuthService:    authService,
		UserService:    userService,
		PostService:    postService,
		CommentService: commentService,
		SocialService:  socialService,
		AssistService:  assistService,
		MediaDir:       cfg.Media.Dir,
		SecureCookies:  cfg.Production(),
	})

	server := &stdhttp.Server{Addr: "0.0.0.0:" + cfg.Port, Handler: handler}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("shutdown failed", zap.Error(err))
	}
}
