package main

import (
	"fmt"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/fundverse/fundverse-server/internal/api"
	"github.com/fundverse/fundverse-server/internal/clients"
	"github.com/fundverse/fundverse-server/internal/config"
	"github.com/fundverse/fundverse-server/internal/repository"
	"github.com/fundverse/fundverse-server/internal/service"
	"github.com/fundverse/fundverse-server/internal/utils"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}

	logger := utils.NewLogger(cfg.LogLevel)

	db, err := config.SetupDatabase(cfg)
	if err != nil {
		logger.WithError(err).Fatal("failed to set up database")
	}
	defer db.Close()

	repo := repository.NewPostgresRepository(db)

	blobs, err := repository.NewBlobStore(cfg.Blob.DataDir)
	if err != nil {
		logger.WithError(err).Fatal("failed to open blob store")
	}
	defer blobs.Close()

	controller := clients.NewHTTPDealController(cfg.Services.ControllerURL)
	minter := clients.NewHTTPCertificateMinter(cfg.Services.MinterURL)

	authSvc := service.NewAuthService(repo, cfg.Auth.JWTSecret)
	accessSvc := service.NewAccessService(repo)
	campaignSvc := service.NewCampaignService(repo, accessSvc, logger)
	documentSvc := service.NewDocumentService(repo, blobs, cfg.Upload.SessionTTL, logger)
	reviewSvc := service.NewReviewService(repo, accessSvc, logger)
	paymentSvc := service.NewPaymentService(repo, accessSvc, logger)
	investmentSvc := service.NewInvestmentService(repo, accessSvc, paymentSvc, controller, minter, logger)

	handler := api.NewHandler(authSvc, accessSvc, campaignSvc, documentSvc, reviewSvc, paymentSvc, investmentSvc, logger)

	router := gin.Default()
	router.Use(cors.Default())
	router.Use(func(c *gin.Context) {
		c.Set("jwtSecret", []byte(cfg.Auth.JWTSecret))
		c.Next()
	})

	handler.SetupRoutes(router)

	serverAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	logger.WithField("addr", serverAddr).Info("starting server")
	if err := http.ListenAndServe(serverAddr, router); err != nil {
		logger.WithError(err).Fatal("server stopped")
	}
}
