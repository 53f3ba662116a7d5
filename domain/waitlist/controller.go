package waitlist

import (
	"errors"
	"net/http"

	"github.com/swipefolio/landing-api/config/router"
	"github.com/swipefolio/landing-api/pkg/auth"
	apperrors "github.com/swipefolio/landing-api/pkg/errors"
	"github.com/swipefolio/landing-api/pkg/ratelimit"
)

const (
	MessageJoined         = "Successfully joined the waitlist!"
	MessageAlreadyOnList  = "You're already on our waitlist! We'll be in touch soon."
	MessageInvalidRequest = "Invalid request body"
)

// NewWaitlistController mounts POST /api/waitlist (public, rate limited) and
// GET /api/waitlist (admin bearer token only).
func NewWaitlistController(
	service WaitlistService,
	issuer *auth.TokenIssuer,
	signupLimiter ratelimit.RateLimiter,
) *router.RESTController {
	return router.NewRESTController(
		"WaitlistController",
		"/api/waitlist",
		func(rs *router.RouterService, c *router.RESTController) {
			rs.AddPostHandler(c, signupLimiter, "", subscribeHandler(service))
			rs.AddGetHandler(c, nil, "", listSubscribersHandler(service), router.RequireRole(issuer, auth.RoleAdmin))
		},
	)
}

func subscribeHandler(service WaitlistService) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		logger := router.GetLogger(ctx)

		var req SignupRequest

		if err := ctx.ShouldBindJSON(&req); err != nil {
			logger.Warn("Failed to bind request", "error", err)

			validationErrors := apperrors.FormatValidationErrors(err, &req)
			if len(validationErrors) > 0 {
				return router.BadRequestResult(MessageInvalidRequest, validationErrors)
			}

			return router.BadRequestResult(MessageInvalidRequest, nil)
		}

		response, created, err := service.Subscribe(ctx.Request.Context(), &req)
		if err != nil {
			var validationErr *ValidationError
			if errors.As(err, &validationErr) {
				return router.BadRequestResult(validationErr.Error(), validationErr.Fields)
			}
			return router.ErrorResultFromError(err)
		}

		if created {
			return router.CreatedResult(response, MessageJoined).WithDataKey("subscriber")
		}
		return router.OKResult(response, MessageAlreadyOnList).WithDataKey("subscriber")
	}
}

func listSubscribersHandler(service WaitlistService) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		subscribers, err := service.ListSubscribers(ctx.Request.Context())
		if err != nil {
			return router.ErrorResultFromError(err)
		}

		return router.RawResult(http.StatusOK, subscribers)
	}
}
