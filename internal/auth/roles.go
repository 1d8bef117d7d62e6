package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/e-wheels/workshop-service/internal/domain"
	"github.com/e-wheels/workshop-service/pkg/errorutil"
)

// RequireRole ensures the principal has one of the allowed roles. Admins pass
// every check.
func RequireRole(allowed ...domain.TechnicianRole) fiber.Handler {
	allowedSet := make(map[domain.TechnicianRole]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok || principal.Technician == nil {
			return errorutil.NewForbidden("authentication required")
		}
		if len(allowedSet) == 0 || principal.Technician.Role == domain.RoleAdmin {
			return c.Next()
		}
		if _, exists := allowedSet[principal.Technician.Role]; !exists {
			return errorutil.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}
