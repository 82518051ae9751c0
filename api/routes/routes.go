package routes

import (
	"time"

	"booktrack/api/handler"
	"booktrack/api/middleware"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

type Router struct {
	Echo      *echo.Echo
	Auth      *handler.AuthHandler
	Books     *handler.BookHandler
	UserBooks *handler.UserBookHandler
	Guard     middleware.SessionGuard
	AuthRate  *middleware.RateLimiter
	LoginRate *middleware.RateLimiter
}

func NewRouter(
	e *echo.Echo,
	auth *handler.AuthHandler,
	books *handler.BookHandler,
	userBooks *handler.UserBookHandler,
	guard middleware.SessionGuard,
) *Router {
	return &Router{
		Echo:      e,
		Auth:      auth,
		Books:     books,
		UserBooks: userBooks,
		Guard:     guard,
		AuthRate:  middleware.NewRateLimiter(rate.Limit(5), 10, 5*time.Minute),
		LoginRate: middleware.NewRateLimiter(rate.Limit(2), 4, 10*time.Minute),
	}
}

func (r *Router) RegisterRoutes() {
	api := r.Echo.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/register", r.Auth.Register, r.AuthRate.Middleware())
	auth.POST("/verify-otp", r.Auth.VerifyOTP, r.AuthRate.Middleware())
	auth.POST("/resend-otp", r.Auth.ResendOTP, r.AuthRate.Middleware())
	auth.POST("/login", r.Auth.Login, r.LoginRate.Middleware())
	auth.GET("/google", r.Auth.GoogleRedirect)
	auth.GET("/google/callback", r.Auth.GoogleCallback)
	auth.POST("/forgot-password", r.Auth.ForgotPassword, r.LoginRate.Middleware())
	auth.POST("/verify-reset-otp", r.Auth.VerifyResetOTP, r.AuthRate.Middleware())
	auth.POST("/reset-password", r.Auth.ResetPassword, r.AuthRate.Middleware())
	auth.POST("/logout", r.Auth.Logout)
	auth.GET("/me", r.Auth.Me, r.Guard.RequireAuth)

	books := api.Group("/books")
	books.POST("", r.Books.Create, r.Guard.RequireAuth)
	books.GET("", r.Books.List)
	books.GET("/mine", r.Books.ListMine, r.Guard.RequireAuth)
	books.GET("/:id", r.Books.Get)
	books.PUT("/:id", r.Books.Update, r.Guard.RequireAuth)
	books.DELETE("/:id", r.Books.Delete, r.Guard.RequireAuth)

	userBooks := api.Group("/userbooks", r.Guard.RequireAuth)
	userBooks.POST("", r.UserBooks.Add)
	userBooks.GET("", r.UserBooks.List)
	userBooks.GET("/summary", r.UserBooks.Summary)
	userBooks.GET("/:id", r.UserBooks.Get)
	userBooks.PUT("/:id", r.UserBooks.Update)
	userBooks.DELETE("/:id", r.UserBooks.Remove)
}
