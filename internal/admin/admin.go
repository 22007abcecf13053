// Package admin is the operator console API. It runs on its own gin engine
// mounted under /api/admin/ by cmd/server; authentication and the admin
// role check happen in the net/http middleware in front of it, so handlers
// read the caller from the request context.
package admin

import (
	"errors"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/trainerhub/backend/internal/logging"
	"github.com/trainerhub/backend/internal/middleware"
	"github.com/trainerhub/backend/internal/models"
	"github.com/trainerhub/backend/internal/realtime"
	"github.com/trainerhub/backend/internal/repository"
	"github.com/trainerhub/backend/internal/store"
)

// Admin holds the dependencies of the console handlers. Hub and Logs are
// optional.
type Admin struct {
	Repo   *repository.Repo
	Hub    *realtime.Hub
	Logs   *logging.Ring
	Logger *slog.Logger
	Now    func() time.Time
}

func (a *Admin) now() time.Time {
	if a.Now != nil {
		return a.Now().UTC()
	}
	return time.Now().UTC()
}

func (a *Admin) logger() *slog.Logger {
	if a.Logger != nil {
		return a.Logger
	}
	return slog.Default()
}

// Engine builds the router. Paths are absolute so the engine can be mounted
// on a ServeMux without stripping the prefix.
func (a *Admin) Engine() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	g := r.Group("/api/admin")
	{
		g.GET("/stats", a.stats)
		g.GET("/users", a.listUsers)
		g.PUT("/users/:id", a.updateUser)
		g.GET("/reports", a.reports)
		g.GET("/settings", a.getSettings)
		g.PUT("/settings", a.putSettings)
		g.GET("/logs", a.logs)
		g.POST("/maintenance", a.maintenance)
		g.POST("/broadcast", a.broadcast)
		g.GET("/broadcasts", a.listBroadcasts)
	}
	r.NoRoute(func(c *gin.Context) { fail(c, http.StatusNotFound, "not found") })
	return r
}

// Handler puts token authentication and the admin role check in front of
// the engine.
func (a *Admin) Handler(secret string) http.Handler {
	auth := middleware.Authenticate(secret)
	onlyAdmin := middleware.RequireRole(string(models.RoleAdmin))
	return auth(onlyAdmin(a.Engine()))
}

func ok(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

func fail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"success": false, "error": msg})
}

// storageError answers 404 for a missing document and 500 otherwise.
func (a *Admin) storageError(c *gin.Context, err error, notFound string) {
	if errors.Is(err, repository.ErrNotFound) {
		fail(c, http.StatusNotFound, notFound)
		return
	}
	a.logger().ErrorContext(c.Request.Context(), "admin storage error",
		"path", c.Request.URL.Path, "err", err)
	fail(c, http.StatusInternalServerError, "internal server error")
}

func (a *Admin) stats(c *gin.Context) {
	ctx := c.Request.Context()
	users, err := a.Repo.Users().List(ctx)
	if err != nil {
		a.storageError(c, err, "")
		return
	}
	reports, err := a.trainerReports(c)
	if err != nil {
		a.storageError(c, err, "")
		return
	}
	settings, err := a.Repo.Settings(ctx)
	if err != nil {
		a.storageError(c, err, "")
		return
	}

	out := models.AdminStats{
		TotalUsers:  len(users),
		Revenue:     decimal.Zero,
		Maintenance: settings.MaintenanceMode,
	}
	for _, u := range users {
		if u.Role == models.RoleTrainer {
			out.Trainers++
			if u.Status == models.UserActive {
				out.ActiveTrainers++
			}
		}
	}
	for _, r := range reports {
		out.Clients += r.Clients
		out.Sessions += r.Sessions
		out.Reviews += r.Reviews
		out.Revenue = out.Revenue.Add(r.Revenue)
	}
	ok(c, http.StatusOK, out)
}

// listUsers handles GET /api/admin/users?role=&status=
func (a *Admin) listUsers(c *gin.Context) {
	role := models.UserRole(c.Query("role"))
	status := models.UserStatus(c.Query("status"))

	records, err := a.Repo.Users().List(c.Request.Context())
	if err != nil {
		a.storageError(c, err, "")
		return
	}
	users := []models.User{}
	for _, u := range records {
		if role != "" && u.Role != role {
			continue
		}
		if status != "" && u.Status != status {
			continue
		}
		users = append(users, u.User)
	}
	sort.SliceStable(users, func(i, j int) bool { return users[i].Email < users[j].Email })
	ok(c, http.StatusOK, users)
}

var (
	roles    = map[models.UserRole]bool{models.RoleTrainer: true, models.RoleAdmin: true, models.RoleClient: true}
	statuses = map[models.UserStatus]bool{models.UserActive: true, models.UserSuspended: true}
)

// updateUser handles PUT /api/admin/users/:id. Empty fields are left as
// they are.
func (a *Admin) updateUser(c *gin.Context) {
	var req models.UserUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Role != "" && !roles[req.Role] {
		fail(c, http.StatusBadRequest, "unknown role")
		return
	}
	if req.Status != "" && !statuses[req.Status] {
		fail(c, http.StatusBadRequest, "unknown status")
		return
	}

	id := c.Param("id")
	self := middleware.GetUserID(c.Request.Context())
	if id == self && (req.Status == models.UserSuspended || (req.Role != "" && req.Role != models.RoleAdmin)) {
		fail(c, http.StatusBadRequest, "admins cannot suspend or demote themselves")
		return
	}

	ctx := c.Request.Context()
	u, err := a.Repo.Users().Get(ctx, id)
	if err != nil {
		a.storageError(c, err, "user not found")
		return
	}
	if req.Name != "" {
		u.Name = req.Name
	}
	if req.Role != "" {
		u.Role = req.Role
	}
	if req.Status != "" {
		u.Status = req.Status
	}
	if err := a.Repo.Users().Put(ctx, u); err != nil {
		a.storageError(c, err, "")
		return
	}
	a.logger().InfoContext(ctx, "user updated", "by", self, "userId", id,
		"role", u.Role, "status", u.Status)
	ok(c, http.StatusOK, u.User)
}

func (a *Admin) reports(c *gin.Context) {
	reports, err := a.trainerReports(c)
	if err != nil {
		a.storageError(c, err, "")
		return
	}
	ok(c, http.StatusOK, reports)
}

// trainerReports rolls up every trainer's collections. Trainers are read
// concurrently; each goroutine writes only its own slot.
func (a *Admin) trainerReports(c *gin.Context) ([]models.TrainerReport, error) {
	trainers, err := a.Repo.Trainers(c.Request.Context())
	if err != nil {
		return nil, err
	}
	out := make([]models.TrainerReport, len(trainers))
	g, ctx := errgroup.WithContext(c.Request.Context())
	g.SetLimit(8)
	for i, t := range trainers {
		g.Go(func() error {
			rep := models.TrainerReport{TrainerID: t.ID, TrainerName: t.Name, Revenue: decimal.Zero}

			clients, err := a.Repo.Clients(t.ID).List(ctx)
			if err != nil {
				return err
			}
			rep.Clients, rep.ActiveClients = store.ClientStats(clients)

			sessions, err := a.Repo.Sessions(t.ID).List(ctx)
			if err != nil {
				return err
			}
			rep.Sessions = len(sessions)

			reviews, err := a.Repo.Reviews(t.ID).List(ctx)
			if err != nil {
				return err
			}
			rep.Reviews = len(reviews)
			rep.AverageRating = store.AverageRating(reviews)

			txns, err := a.Repo.Transactions(t.ID).List(ctx)
			if err != nil {
				return err
			}
			for _, tx := range txns {
				if tx.Status == models.TransactionCompleted {
					rep.Revenue = rep.Revenue.Add(tx.Amount)
				}
			}
			out[i] = rep
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Revenue.GreaterThan(out[j].Revenue) })
	return out, nil
}
