package middleware

import (
	"net/http"
	"time"

	"trading-alerts/config"
	"trading-alerts/internal/dto"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

// NewRateLimiterMiddleware limits requests per client IP.
func NewRateLimiterMiddleware(cfg config.API) echo.MiddlewareFunc {
	limit := rate.Limit(cfg.RateLimitPerSecond)
	if cfg.RateLimitPerSecond <= 0 {
		limit = rate.Inf
	}

	config := middleware.RateLimiterConfig{
		Skipper: middleware.DefaultSkipper,
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(
			middleware.RateLimiterMemoryStoreConfig{
				Rate:  limit,
				Burst: cfg.RateLimitBurst,
				// state of an idle client is dropped after 3 minutes
				ExpiresIn: 3 * time.Minute,
			},
		),

		IdentifierExtractor: func(ctx echo.Context) (string, error) {
			return ctx.RealIP(), nil
		},

		ErrorHandler: func(context echo.Context, err error) error {
			return context.JSON(http.StatusForbidden, dto.NewErrorResponse(
				http.StatusForbidden, "Access forbidden: Rate limiter error occurred", "RateLimited"))
		},

		DenyHandler: func(context echo.Context, identifier string, err error) error {
			return context.JSON(http.StatusTooManyRequests, dto.NewErrorResponse(
				http.StatusTooManyRequests, "Too many requests: Rate limit exceeded. Please try again later", "RateLimited"))
		},
	}

	return middleware.RateLimiterWithConfig(config)
}
