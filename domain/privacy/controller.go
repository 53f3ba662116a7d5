package privacy

import (
	"github.com/swipefolio/landing-api/config/router"
)

const PolicyPendingMessage = "Privacy policy will be available soon."

// NewPrivacyController serves GET /api/privacy until a real policy is published.
func NewPrivacyController() *router.RESTController {
	return router.NewRESTController(
		"PrivacyController",
		"/api/privacy",
		func(rs *router.RouterService, c *router.RESTController) {
			rs.AddGetHandler(c, nil, "", func(ctx *router.RequestContext) *router.ServiceResult {
				return router.OKResult(nil, PolicyPendingMessage)
			})
		},
	)
}
