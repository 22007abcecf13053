package handlers

import (
	"net/http"

	"github.com/trainerhub/backend/internal/middleware"
	"github.com/trainerhub/backend/internal/models"
)

// ServeWS handles GET /api/trainer/ws
func (s *Server) ServeWS(w http.ResponseWriter, r *http.Request) {
	if s.Hub == nil {
		respondError(w, http.StatusServiceUnavailable, "realtime updates are disabled")
		return
	}
	ctx := r.Context()
	if err := s.Hub.ServeWS(w, r, middleware.GetUserID(ctx), middleware.GetRole(ctx)); err != nil {
		s.logger().WarnContext(ctx, "websocket", "err", err)
	}
}

// Routes registers the auth and trainer routes on a new mux. The caller may
// mount more handlers (the admin console) on the returned mux.
//
// Go 1.22+ ServeMux supports method prefixes ("GET /path") and path
// wildcards ("{id}") natively.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	// Public routes, no token required.
	mux.HandleFunc("POST /api/auth/login", s.Login)

	// Chaining: auth → trainer role check → maintenance switch → handler.
	auth := middleware.Authenticate(s.Secret)
	onlyTrainer := middleware.RequireRole(string(models.RoleTrainer))
	maintenance := middleware.Maintenance(s.maintenance)
	trainer := func(h http.HandlerFunc) http.Handler {
		return auth(onlyTrainer(maintenance(h)))
	}

	// Any logged-in user.
	mux.Handle("GET /api/auth/me", auth(http.HandlerFunc(s.Me)))

	mux.Handle("GET /api/trainer/dashboard", trainer(s.GetDashboard))
	mux.Handle("GET /api/trainer/dashboard/refresh", trainer(s.RefreshDashboard))

	mux.Handle("GET /api/trainer/clients", trainer(s.ListClients))
	mux.Handle("POST /api/trainer/clients", trainer(s.CreateClient))
	mux.Handle("PUT /api/trainer/clients/{id}", trainer(s.UpdateClient))
	mux.Handle("DELETE /api/trainer/clients/{id}", trainer(s.DeleteClient))

	mux.Handle("GET /api/trainer/schedule", trainer(s.GetSchedule))
	mux.Handle("POST /api/trainer/sessions", trainer(s.CreateSession))
	mux.Handle("PUT /api/trainer/sessions/{id}", trainer(s.UpdateSession))

	mux.Handle("GET /api/trainer/revenue", trainer(s.GetRevenue))

	mux.Handle("GET /api/trainer/reviews", trainer(s.ListReviews))
	mux.Handle("POST /api/trainer/reviews/{id}/respond", trainer(s.RespondToReview))

	mux.Handle("GET /api/trainer/coupons", trainer(s.ListCoupons))
	mux.Handle("POST /api/trainer/coupons", trainer(s.CreateCoupon))
	mux.Handle("PUT /api/trainer/coupons/{id}", trainer(s.UpdateCoupon))
	mux.Handle("DELETE /api/trainer/coupons/{id}", trainer(s.DeleteCoupon))
	mux.Handle("PATCH /api/trainer/coupons/{id}/toggle", trainer(s.ToggleCoupon))

	mux.Handle("GET /api/trainer/conversations", trainer(s.ListConversations))
	mux.Handle("GET /api/trainer/conversations/unread-count", trainer(s.UnreadCount))
	mux.Handle("POST /api/trainer/conversations/{id}/read", trainer(s.MarkConversationRead))

	mux.Handle("GET /api/trainer/profile", trainer(s.GetProfile))
	mux.Handle("PUT /api/trainer/profile", trainer(s.UpdateProfile))
	mux.Handle("GET /api/trainer/packages", trainer(s.ListPackages))

	mux.Handle("GET /api/trainer/ws", trainer(s.ServeWS))

	return mux
}
