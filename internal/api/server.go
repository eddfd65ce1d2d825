package api

import (
	"fmt"
	"os"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	v1 "harvest/internal/api/handler/v1"
	"harvest/internal/api/middleware"
	"harvest/internal/config"
	"harvest/internal/domain"
	"harvest/internal/repository"
	"harvest/internal/repository/dao"
	"harvest/internal/service"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine
}

func NewServer(conf *config.AppConfig, db *gorm.DB) (*Server, error) {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
	}

	for _, dir := range []string{conf.Storage.UploadDir, conf.Storage.BackupDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("os.MkdirAll(%v) -> %w", dir, err)
		}
	}

	s.MountMiddlewares()

	userRepo := repository.NewUserRepository(dao.NewUserDAO(db))
	reportRepo := repository.NewReportRepository(dao.NewReportDAO(db))
	templateRepo := repository.NewReportTemplateRepository(dao.NewReportTemplateDAO(db))

	maintenanceStore := service.NewFileMaintenanceStore(conf.Storage.MaintenanceFile)

	userSvc := service.NewUserService(userRepo)
	authHandler := v1.NewAuthHandler(conf.API, service.NewAuthService(userRepo, service.LogMailer{}), userSvc)
	userHandler := v1.NewUserHandler(userSvc, conf.Storage.UploadDir)
	reportHandler := v1.NewReportHandler(
		service.NewReportService(reportRepo, userRepo),
		service.NewAnalyticsService(userRepo, reportRepo),
		conf.Storage.UploadDir,
	)
	templateHandler := v1.NewTemplateHandler(service.NewReportTemplateService(templateRepo))
	maintenanceHandler := v1.NewMaintenanceHandler(service.NewMaintenanceService(maintenanceStore))
	backupHandler := v1.NewBackupHandler(service.NewBackupService(dao.NewBackupDAO(db), conf.Storage.BackupDir))

	s.MountHandlers(maintenanceStore, authHandler, userHandler, reportHandler, templateHandler, maintenanceHandler, backupHandler)

	return s, nil
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(
	maintenanceStore service.MaintenanceStore,
	authHandler *v1.AuthHandler,
	userHandler *v1.UserHandler,
	reportHandler *v1.ReportHandler,
	templateHandler *v1.TemplateHandler,
	maintenanceHandler *v1.MaintenanceHandler,
	backupHandler *v1.BackupHandler,
) {
	const basePath = "/api/v1"

	verifyJWT := middleware.NewAuthenticator(s.Config.API.JWTSigningKey).VerifyJWT()
	adminOnly := middleware.RequireRoles(domain.RoleAdmin)

	auth := s.Router.Group(basePath)
	{
		auth.POST("/auth/register", authHandler.HandleRegister)
		auth.POST("/auth/login", authHandler.HandleLogin)
		auth.POST("/auth/forgot-password", authHandler.HandleForgotPassword)
		auth.POST("/auth/reset-password", authHandler.HandleResetPassword)
	}

	// Authenticated but exempt from the maintenance gate: only identity
	// and the maintenance switch itself stay reachable while the rest of
	// the API is shed.
	account := s.Router.Group(basePath, verifyJWT)
	{
		account.GET("/auth/me", authHandler.HandleGetMe)
		account.GET("/maintenance/status", maintenanceHandler.HandleStatus)
		account.POST("/maintenance/toggle", adminOnly, maintenanceHandler.HandleToggle)
	}

	protected := s.Router.Group(basePath, verifyJWT, middleware.MaintenanceGate(maintenanceStore))
	{
		protected.POST("/auth/change-password", authHandler.HandleChangePassword)

		protected.GET("/reports", reportHandler.HandleListReports)
		protected.POST("/reports", reportHandler.HandleCreateReport)
		protected.GET("/reports/analytics", reportHandler.HandleAnalytics)
		protected.GET("/reports/export/pdf", reportHandler.HandleExportPDF)
		protected.GET("/reports/export/excel", reportHandler.HandleExportExcel)
		protected.GET("/reports/:reportID", reportHandler.HandleGetReport)
		protected.PUT("/reports/:reportID", reportHandler.HandleUpdateReport)
		protected.DELETE("/reports/:reportID", reportHandler.HandleDeleteReport)

		protected.GET("/users", userHandler.HandleListUsers)
		protected.POST("/users", adminOnly, userHandler.HandleCreateUser)
		protected.POST("/users/profile-image", userHandler.HandleUploadProfileImage)
		protected.GET("/users/:userID", userHandler.HandleGetUser)
		protected.PUT("/users/:userID", userHandler.HandleUpdateUser)
		protected.DELETE("/users/:userID", userHandler.HandleDeleteUser)

		protected.GET("/report-templates/active", templateHandler.HandleGetActiveTemplate)
		protected.GET("/report-templates", adminOnly, templateHandler.HandleListTemplates)
		protected.POST("/report-templates", adminOnly, templateHandler.HandleCreateTemplate)
		protected.GET("/report-templates/:templateID", adminOnly, templateHandler.HandleGetTemplate)
		protected.PUT("/report-templates/:templateID", adminOnly, templateHandler.HandleUpdateTemplate)
		protected.DELETE("/report-templates/:templateID", adminOnly, templateHandler.HandleDeleteTemplate)
		protected.POST("/report-templates/:templateID/activate", adminOnly, templateHandler.HandleActivateTemplate)

		protected.POST("/backup/create", adminOnly, backupHandler.HandleCreateBackup)
		protected.GET("/backup/history", adminOnly, backupHandler.HandleBackupHistory)
		protected.GET("/backup/download/:filename", adminOnly, backupHandler.HandleDownloadBackup)
	}

	s.Router.Static("/uploads", s.Config.Storage.UploadDir)
	s.Router.GET("/", v1.HandleHealthcheck)
}
