package main

import (
	"net/http"
	"os"
	"time"

	"booktrack/api/handler"
	apiMiddleware "booktrack/api/middleware"
	"booktrack/api/routes"
	"booktrack/config"
	"booktrack/internal/repository"
	"booktrack/internal/service"
	"booktrack/internal/utils"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg := config.Load()
	validate := validator.New()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	if cfg.JWTSecret == "" {
		logger.Fatal("JWT_SECRET is required")
	}

	db := config.ConnectDB(cfg.DatabaseURL)

	jwtManager := utils.JWTManager{
		Secret:     []byte(cfg.JWTSecret),
		Issuer:     cfg.JWTIssuer,
		SessionTTL: cfg.SessionTokenTTL,
	}
	sessionIssuer := service.JWTSessionIssuer{Manager: &jwtManager}
	resetIssuer := service.ResetTokenIssuerJWT{
		Secret: []byte(cfg.JWTSecret),
		Issuer: cfg.JWTIssuer,
		TTL:    cfg.ResetTokenTTL,
	}

	userRepo := repository.NewUserRepository(db)
	bookRepo := repository.NewBookRepository(db)
	userBookRepo := repository.NewUserBookRepository(db)
	securityRepo := repository.NewSecurityLogRepository(db)

	var emailSender service.EmailSender
	if cfg.EmailProvider == "smtp" {
		emailSender = service.NewSMTPEmailSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.EmailFrom)
	} else {
		emailSender = service.NewResendEmailSender(cfg.ResendAPIKey, cfg.EmailFrom)
	}

	var googleProvider service.GoogleProvider
	if cfg.GoogleClientID != "" {
		googleProvider = service.NewGoogleOAuthProvider(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL)
	}

	authService := service.NewAuthService(
		userRepo,
		securityRepo,
		emailSender,
		service.BcryptPasswordHasher{},
		sessionIssuer,
		resetIssuer,
		googleProvider,
		service.RealClock{},
		service.AuthConfig{
			SessionTokenTTL:     cfg.SessionTokenTTL,
			ResetTokenTTL:       cfg.ResetTokenTTL,
			AllowedEmailDomains: cfg.AllowedEmailDomains,
		},
	)
	bookService := service.NewBookService(bookRepo)
	userBookService := service.NewUserBookService(userBookRepo, bookRepo)

	var transport apiMiddleware.TokenTransport
	if cfg.TokenTransport == "bearer" {
		transport = apiMiddleware.BearerTransport{}
	} else {
		transport = apiMiddleware.NewCookieTransport(cfg.CookieDomain, cfg.CookieSecure)
	}

	authHandler := handler.NewAuthHandler(authService, validate, transport)
	authHandler.FrontendOrigin = cfg.FrontendOrigin
	authHandler.SecureCookies = cfg.CookieSecure
	bookHandler := handler.NewBookHandler(bookService, validate)
	userBookHandler := handler.NewUserBookHandler(userBookService, validate)

	app := echo.New()
	app.HideBanner = true
	app.HidePort = true
	app.Use(echoMiddleware.Recover())
	if cfg.FrontendOrigin != "" {
		app.Use(echoMiddleware.CORSWithConfig(echoMiddleware.CORSConfig{
			AllowOrigins:     []string{cfg.FrontendOrigin},
			AllowCredentials: true,
		}))
	}
	app.Use(echoMiddleware.RequestLoggerWithConfig(echoMiddleware.RequestLoggerConfig{
		LogStatus:   true,
		LogMethod:   true,
		LogURI:      true,
		LogRemoteIP: true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v echoMiddleware.RequestLoggerValues) error {
			entry := logger.WithFields(logrus.Fields{
				"status": v.Status,
				"method": v.Method,
				"uri":    v.URI,
				"ip":     v.RemoteIP,
			})
			if v.Error != nil {
				entry.WithError(v.Error).Error("request")
				return nil
			}
			entry.Info("request")
			return nil
		},
	}))

	guard := apiMiddleware.SessionGuard{JWT: &jwtManager, Transport: transport}
	router := routes.NewRouter(app, authHandler, bookHandler, userBookHandler, guard)
	router.RegisterRoutes()

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.WithField("addr", cfg.HTTPAddr).Info("server started")
	if err := app.StartServer(server); err != nil {
		logger.WithError(err).Fatal("server stopped")
	}
}
