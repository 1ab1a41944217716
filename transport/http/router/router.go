package router

import (
	"eventhub/internal/handlers/admin"
	"eventhub/internal/handlers/auth"
	"eventhub/internal/handlers/booking"
	"eventhub/internal/handlers/category"
	"eventhub/internal/handlers/product"
	"eventhub/internal/handlers/user"
	"eventhub/internal/handlers/vendors"
	"eventhub/transport/http/middleware"

	"github.com/go-chi/chi/v5"
)

type DomainHandlers struct {
	Auth     auth.Handler
	User     user.Handler
	Vendor   vendors.Handler
	Product  product.Handler
	Booking  booking.Handler
	Category category.Handler
	Admin    admin.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
	AuthRole       middleware.AuthRole
}

// SetupRoutes registers every API route behind the auth and role middleware.
// Public routes are flagged skip in permissions.json.
func (r *Router) SetupRoutes(router chi.Router) {
	router.Group(func(routerGroup chi.Router) {
		routerGroup.Use(r.AuthRole.Auth, r.AuthRole.RBAC)

		r.DomainHandlers.Auth.Router(routerGroup)
		r.DomainHandlers.User.Router(routerGroup)
		r.DomainHandlers.Vendor.Router(routerGroup)
		r.DomainHandlers.Product.Router(routerGroup)
		r.DomainHandlers.Booking.Router(routerGroup)
		r.DomainHandlers.Category.Router(routerGroup)
		r.DomainHandlers.Admin.Router(routerGroup)
	})
}

func New(domainHandlers DomainHandlers, authRole middleware.AuthRole) Router {
	return Router{
		DomainHandlers: domainHandlers,
		AuthRole:       authRole,
	}
}
