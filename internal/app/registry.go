package app

import (
	"database/sql"
	"path/filepath"

	"github.com/siaksibemstikomcrb/siaksi-project-sub000/internal/member"
	"github.com/siaksibemstikomcrb/siaksi-project-sub000/internal/messaging/kafka"
	"github.com/siaksibemstikomcrb/siaksi-project-sub000/internal/presence"
	"github.com/siaksibemstikomcrb/siaksi-project-sub000/internal/rbac"
	"github.com/siaksibemstikomcrb/siaksi-project-sub000/internal/rbac/infra"
	"github.com/siaksibemstikomcrb/siaksi-project-sub000/internal/schedule"
	"github.com/siaksibemstikomcrb/siaksi-project-sub000/internal/shared/clock"
	"github.com/siaksibemstikomcrb/siaksi-project-sub000/internal/shared/counter"
	"github.com/siaksibemstikomcrb/siaksi-project-sub000/internal/unit"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
	cal clock.Clock,
) error {
	// --- Repositories ---
	rbacRepo := rbac.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	unitRepo := unit.NewRepository(gormDB)
	memberRepo := member.NewRepository(gormDB)
	scheduleRepo := schedule.NewRepository(gormDB)
	presenceRepo := presence.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer(filepath.Join("internal", "rbac", "infra", "model.conf"))
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(rbacRepo, enforcer)
	rbacHandler := rbac.NewHandler(rbacService)

	// --- Services ---
	unitService := unit.NewService(unitRepo)
	memberService := member.NewService(memberRepo, counterRepo, rdb)
	scheduleService := schedule.NewService(db, scheduleRepo, presenceRepo, outboxRepo, cal, rdb)
	presenceService := presence.NewService(presenceRepo, scheduleRepo, cal)

	// --- Handlers ---
	unitHandler := unit.NewHandler(unitService)
	memberHandler := member.NewHandler(memberService)
	scheduleHandler := schedule.NewHandler(scheduleService)
	presenceHandler := presence.NewHandler(presenceService)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		unit.RegisterRoutes(api, unitHandler, rbacService)
		member.RegisterRoutes(api, memberHandler, rbacService)
		schedule.RegisterRoutes(api, scheduleHandler, rbacService, rdb)
		presence.RegisterRoutes(api, presenceHandler, rbacService)
		rbac.RegisterRoutes(api, rbacHandler)
	}

	return nil
}
