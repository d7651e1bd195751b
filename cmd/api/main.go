package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"gorm.io/gorm"

	httpadp "loanorigin/internal/adapter/http"
	"loanorigin/internal/adapter/repository/mysql"
	"loanorigin/internal/config"
	domainAudit "loanorigin/internal/domain/audit"
	domainLoan "loanorigin/internal/domain/loan"
	domainLT "loanorigin/internal/domain/loantype"
	domainUW "loanorigin/internal/domain/underwriting"
	domainUser "loanorigin/internal/domain/user"
	"loanorigin/internal/infrastructure/cache"
	"loanorigin/internal/infrastructure/db"
	"loanorigin/internal/infrastructure/logger"
	"loanorigin/internal/store/admin"
	"loanorigin/internal/store/loanapp"
	"loanorigin/internal/store/underwriting"
	audituc "loanorigin/internal/usecase/audit"
	authuc "loanorigin/internal/usecase/auth"
	"loanorigin/internal/usecase/decision"
	loanuc "loanorigin/internal/usecase/loan"
	useruc "loanorigin/internal/usecase/user"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	zlog := logger.New(cfg.LogLevel, cfg.LogFormat)
	defer func() { _ = zlog.Sync() }()

	gdb, err := db.OpenGorm(cfg.MySQLDSN())
	if err != nil {
		zlog.Fatal("mysql connect failed", zap.Error(err))
	}
	if err := migrate(gdb); err != nil {
		zlog.Fatal("migration failed", zap.Error(err))
	}

	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		zlog.Fatal("redis connect failed", zap.Error(err))
	}
	defer func() { _ = rdb.Close() }()

	// repositories
	loans := mysql.NewLoanRepository(gdb)
	applicants := mysql.NewApplicantRepository(gdb)
	users := mysql.NewUserRepository(gdb)
	trail := mysql.NewAuditRepository(gdb)
	loanTypes := mysql.NewLoanTypeRepository(gdb)
	decisions := mysql.NewDecisionRepository(gdb)
	txs := mysql.NewGormUoW(gdb)

	// usecases
	recorder := audituc.NewRecorder(trail, zlog)
	tokens := authuc.NewTokenIssuer([]byte(cfg.JWTSecret), cfg.JWTTTL)
	authUC := authuc.NewUsecase(users, tokens, recorder)
	loanUC := loanuc.NewUsecase(loans, applicants, recorder)
	userUC := useruc.NewUsecase(users, recorder)
	decisionUC := decision.NewUsecase(txs, decisions, recorder)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// stores: the wizard store is per user session, the review queue and
	// admin console are process-wide singletons.
	wizardSessions := loanapp.NewSessions(loans, loanUC, loanUC, zlog)
	reviewQueue := underwriting.New(loans, decisionUC, zlog)
	reviewQueue.LoadSubmittedLoans(ctx)
	console := admin.New(ctx, users, recorder, zlog)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Logger(), echomw.Recover())
	e.Validator = httpadp.NewValidator()

	httpadp.RegisterRoutes(e, httpadp.Handlers{
		Health:       httpadp.NewHandler(),
		Auth:         httpadp.NewAuthHandler(authUC),
		Loans:        httpadp.NewLoanHandler(loanUC),
		Applicants:   httpadp.NewApplicantHandler(applicants, recorder),
		Users:        httpadp.NewUserHandler(userUC),
		Audit:        httpadp.NewAuditHandler(recorder),
		LoanTypes:    httpadp.NewLoanTypeHandler(loanTypes, recorder),
		Wizard:       httpadp.NewWizardHandler(wizardSessions),
		Underwriting: httpadp.NewUnderwritingHandler(reviewQueue, decisionUC),
		Admin:        httpadp.NewAdminHandler(console),
	}, authUC, rdb, time.Duration(cfg.IdempTTLSecs)*time.Second)

	go func() {
		addr := ":" + cfg.AppPort
		zlog.Info("listening", zap.String("addr", addr))
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			zlog.Fatal("server stopped", zap.Error(err))
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		zlog.Warn("shutdown", zap.Error(err))
	}
}

func migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&domainLoan.Applicant{},
		&domainLoan.Loan{},
		&domainLoan.VehicleInfo{},
		&domainLoan.PropertyAddress{},
		&domainUser.User{},
		&domainAudit.Entry{},
		&domainLT.Config{},
		&domainUW.Decision{},
	)
}
