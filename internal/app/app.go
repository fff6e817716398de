package app

import (
	"os"

	"github.com/siaksibemstikomcrb/siaksi-project-sub000/internal/middleware"
	"github.com/siaksibemstikomcrb/siaksi-project-sub000/internal/shared/clock"
	"github.com/siaksibemstikomcrb/siaksi-project-sub000/internal/shared/connection"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func BuildApp(router *gin.Engine) error {
	logger := zap.L().Named("app")

	gormDB, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		return err
	}
	logger.Info("database connection established")

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}

	redisClient, err := connection.ConnectRedisWithRetry(os.Getenv("REDIS_ADDR"), 5)
	if err != nil {
		return err
	}
	logger.Info("redis connection established")

	cal, err := clock.NewCalendar(os.Getenv("TIMEZONE"))
	if err != nil {
		return err
	}
	logger.Info("calendar ready", zap.String("timezone", cal.Location().String()))

	router.Use(middleware.RequestID())
	router.Use(middleware.ContextLogger(zap.L()))
	router.Use(middleware.RateLimitByIP(50, 100))

	return registerModules(router, sqlDB, gormDB, redisClient, cal)
}
