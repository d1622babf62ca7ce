package router

import (
	"hotelops/internal/handlers/auth"
	"hotelops/internal/handlers/booking"
	"hotelops/internal/handlers/hotel"
	"hotelops/internal/handlers/inquiry"
	"hotelops/internal/handlers/maintenance"
	"hotelops/internal/handlers/order"
	"hotelops/internal/handlers/room"
	"hotelops/internal/handlers/user"

	"github.com/go-chi/chi/v5"
)

type DomainHandlers struct {
	Auth        auth.Handler
	User        user.Handler
	Hotel       hotel.Handler
	Room        room.Handler
	Booking     booking.Handler
	Order       order.Handler
	Maintenance maintenance.Handler
	Inquiry     inquiry.Handler
}

// mountable is implemented by every domain handler.
type mountable interface {
	Router(chi.Router)
}

type Router struct {
	DomainHandlers DomainHandlers
}

func New(domainHandlers DomainHandlers) Router {
	return Router{
		DomainHandlers: domainHandlers,
	}
}

// handlers lists the domains in mount order.
func (r *Router) handlers() []mountable {
	h := &r.DomainHandlers

	return []mountable{&h.Auth, &h.User, &h.Hotel, &h.Room, &h.Booking, &h.Order, &h.Maintenance, &h.Inquiry}
}

// SetupRoutes mounts every domain under /v1.
func (r *Router) SetupRoutes(router chi.Router) {
	router.Route("/v1", func(v1 chi.Router) {
		for _, h := range r.handlers() {
			h.Router(v1)
		}
	})
}
