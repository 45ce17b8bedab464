package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/chatline/messenger-backend/internal/config"
	"github.com/chatline/messenger-backend/internal/handler"
	"github.com/chatline/messenger-backend/internal/middleware"
	"github.com/chatline/messenger-backend/internal/migration"
	"github.com/chatline/messenger-backend/internal/repository"
	mongorepo "github.com/chatline/messenger-backend/internal/repository/mongo"
	"github.com/chatline/messenger-backend/internal/routes"
	"github.com/chatline/messenger-backend/internal/service"
	"github.com/chatline/messenger-backend/internal/ws"
	pkgcache "github.com/chatline/messenger-backend/pkg/cache"
	"github.com/chatline/messenger-backend/pkg/jwt"
	pkglogger "github.com/chatline/messenger-backend/pkg/logger"
	pkgredis "github.com/chatline/messenger-backend/pkg/redis"
	pkgstorage "github.com/chatline/messenger-backend/pkg/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// @title           Messenger Backend API
// @version         1.0
// @description     Direct messaging backend: accounts, conversations, delivery status and live notifications
//
// @host            localhost:8080
// @BasePath        /api
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Authorization header using the Bearer scheme. Example: "Bearer {token}"

// getConfigPath returns config file path based on APP_ENV environment variable
func getConfigPath(env string) string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return fmt.Sprintf("configs/config.%s.yaml", env)
}

func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	dotenvFiles := config.LoadDotEnv(env)
	pkglogger.InitStructured(env)
	pkglogger.Info("APP_ENV=%s, loaded env files: %v", env, dotenvFiles)

	configPath := getConfigPath(env)
	pkglogger.Info("Loading config from: %s", configPath)
	cfg, err := config.Load(configPath)
	if err != nil {
		pkglogger.GetLogger().Fatal().Err(err).Msg("failed to load config")
	}
	config.LogResolved(cfg)

	// MySQL 연결 (사용자 디렉터리는 항상 MySQL)
	db, err := initDB(cfg)
	if err != nil {
		pkglogger.GetLogger().Fatal().Err(err).Msg("failed to connect to MySQL")
	}
	if err := migration.Run(db, !cfg.UseMongo()); err != nil {
		pkglogger.GetLogger().Fatal().Err(err).Msg("migration failed")
	}
	pkglogger.Info("Connected to MySQL")

	// Redis 연결 (선택: 인증 게이트 사용자 캐시, 인증 rate limit)
	var redisClient *goredis.Client
	if cfg.Redis.Host != "" {
		redisClient, err = pkgredis.Connect(context.Background(), pkgredis.Options{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		if err != nil {
			pkglogger.Warn("Failed to connect to Redis: %v (continuing without cache and rate limit)", err)
			redisClient = nil
		} else {
			pkglogger.Info("Connected to Redis")
		}
	}
	var cacheService pkgcache.Service
	if redisClient != nil {
		cacheService = pkgcache.NewService(redisClient)
	}

	userRepo := repository.NewCachedUserRepository(repository.NewUserRepository(db), cacheService)

	// 메시지 저장소: MySQL 또는 MongoDB
	var (
		messageRepo repository.MessageRepository
		roomRepo    repository.RoomRepository
		mongoClient *mongo.Client
	)
	if cfg.UseMongo() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		mongoClient, err = mongorepo.Connect(ctx, cfg.Mongo.URI)
		if err != nil {
			cancel()
			pkglogger.GetLogger().Fatal().Err(err).Msg("failed to connect to MongoDB")
		}
		mdb := mongoClient.Database(cfg.Mongo.Database)
		if err := mongorepo.EnsureIndexes(ctx, mdb); err != nil {
			cancel()
			pkglogger.GetLogger().Fatal().Err(err).Msg("failed to create MongoDB indexes")
		}
		cancel()
		messageRepo = mongorepo.NewMessageRepository(mdb)
		roomRepo = mongorepo.NewRoomRepository(mdb)
		pkglogger.Info("Message store: MongoDB (%s)", cfg.Mongo.Database)
	} else {
		messageRepo = repository.NewMessageRepository(db)
		roomRepo = repository.NewRoomRepository(db)
		pkglogger.Info("Message store: MySQL")
	}

	// S3-compatible storage (프로필 사진)
	var avatarStore service.AvatarStore
	if cfg.Storage.Enabled && cfg.Storage.Bucket != "" {
		bucket, s3Err := pkgstorage.New(pkgstorage.Config{
			Endpoint:        cfg.Storage.Endpoint,
			Region:          cfg.Storage.Region,
			AccessKeyID:     cfg.Storage.AccessKeyID,
			SecretAccessKey: cfg.Storage.SecretAccessKey,
			Bucket:          cfg.Storage.Bucket,
			CDNURL:          cfg.Storage.CDNURL,
			BasePath:        cfg.Storage.BasePath,
			ForcePathStyle:  cfg.Storage.ForcePathStyle,
		})
		if s3Err != nil {
			pkglogger.Warn("S3 storage init failed: %v (avatar upload disabled)", s3Err)
		} else {
			avatarStore = bucket
		}
	}

	// WebSocket Hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	jwtManager := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.ExpiresIn)

	// Services
	roomService := service.NewRoomService(roomRepo)
	messageService := service.NewMessageService(messageRepo, roomService, wsHub)
	statusService := service.NewStatusService(messageRepo)
	authService := service.NewAuthService(userRepo, jwtManager)
	userService := service.NewUserService(userRepo, avatarStore)

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	corsConfig := cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", cfg.JWT.Header, "X-Request-ID"},
		AllowCredentials: true,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		ExposeHeaders:    []string{"X-Request-ID"},
		MaxAge:           12 * time.Hour,
	}
	if origins := splitAndTrim(cfg.CORS.AllowOrigins); len(origins) > 0 {
		corsConfig.AllowOrigins = origins
	}
	router.Use(cors.New(corsConfig))

	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.InputSanitizer())
	router.Use(middleware.Metrics())
	router.Use(middleware.RequestLogger())

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/health", healthHandler(db, redisClient, mongoClient))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	routes.Setup(router,
		middleware.AuthGate(jwtManager, userRepo, cfg.JWT.Header, cfg.JWT.Prefix),
		middleware.AuthRateLimit(middleware.NewRedisRateLimiter(redisClient), cfg.Limits.AuthPerMinute),
		handler.NewAuthHandler(authService),
		handler.NewUserHandler(userService),
		handler.NewMessageHandler(messageService, statusService),
		handler.NewWSHandler(wsHub, messageService, cfg.CORS.AllowOrigins),
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		pkglogger.Info("Server listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			pkglogger.GetLogger().Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	pkglogger.Info("received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		pkglogger.Error("shutdown error: %v", err)
	}
	wsHub.Stop()
	if mongoClient != nil {
		mongoClient.Disconnect(shutdownCtx) //nolint:errcheck
	}
	if redisClient != nil {
		redisClient.Close() //nolint:errcheck
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close() //nolint:errcheck
	}
	pkglogger.Info("shutdown complete")
}

// healthHandler reports backing store reachability
func healthHandler(db *gorm.DB, redisClient *goredis.Client, mongoClient *mongo.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		checks := gin.H{}
		healthy := true

		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
			checks["mysql"] = "down"
			healthy = false
		} else {
			checks["mysql"] = "ok"
			middleware.SetDBConnectionsOpen(sqlDB.Stats().OpenConnections)
		}
		if redisClient != nil {
			if err := redisClient.Ping(ctx).Err(); err != nil {
				checks["redis"] = "down"
			} else {
				checks["redis"] = "ok"
			}
		}
		if mongoClient != nil {
			if err := mongoClient.Ping(ctx, nil); err != nil {
				checks["mongo"] = "down"
				healthy = false
			} else {
				checks["mongo"] = "ok"
			}
		}

		status, code := "ok", http.StatusOK
		if !healthy {
			status, code = "degraded", http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{
			"status":  status,
			"service": "messenger-backend",
			"checks":  checks,
			"time":    time.Now().Unix(),
		})
	}
}

func initDB(cfg *config.Config) (*gorm.DB, error) {
	mysqlCfg, err := mysqldriver.ParseDSN(cfg.Database.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("DSN 파싱 실패: %w", err)
	}
	if mysqlCfg.Params == nil {
		mysqlCfg.Params = map[string]string{}
	}
	mysqlCfg.Params["time_zone"] = "'+00:00'"

	logLevel := gormlogger.Warn
	if cfg.IsDevelopment() {
		logLevel = gormlogger.Info
	}
	db, err := gorm.Open(mysql.Open(mysqlCfg.FormatDSN()), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	return db, nil
}

// splitAndTrim splits a comma-separated list and drops empty entries
func splitAndTrim(s string) []string {
	parts := []string{}
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
