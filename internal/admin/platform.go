package admin

import (
	"bytes"
	"log/slog"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"github.com/trainerhub/backend/internal/models"
	"github.com/trainerhub/backend/internal/realtime"
)

// Broadcast audiences.
const (
	AudienceAll      = "all"
	AudienceTrainers = "trainers"
	AudienceClients  = "clients"
)

const defaultLogLimit = 100

// Raw HTML in broadcast bodies is escaped (WithUnsafe is not set).
var markdown = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

func (a *Admin) getSettings(c *gin.Context) {
	s, err := a.Repo.Settings(c.Request.Context())
	if err != nil {
		a.storageError(c, err, "")
		return
	}
	ok(c, http.StatusOK, s)
}

func (a *Admin) putSettings(c *gin.Context) {
	var req models.Settings
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid JSON")
		return
	}
	req.PlatformName = strings.TrimSpace(req.PlatformName)
	if req.PlatformName == "" {
		fail(c, http.StatusBadRequest, "platformName is required")
		return
	}
	if req.CommissionRate.IsNegative() || req.CommissionRate.GreaterThan(decimal.NewFromInt(1)) {
		fail(c, http.StatusBadRequest, "commissionRate must be between 0 and 1")
		return
	}
	req.SupportEmail = strings.TrimSpace(req.SupportEmail)
	if req.SupportEmail != "" && !strings.Contains(req.SupportEmail, "@") {
		fail(c, http.StatusBadRequest, "supportEmail is not an email address")
		return
	}
	req.UpdatedAt = a.now()

	if err := a.Repo.SaveSettings(c.Request.Context(), req); err != nil {
		a.storageError(c, err, "")
		return
	}
	a.logger().InfoContext(c.Request.Context(), "settings updated",
		"commissionRate", req.CommissionRate.String(), "maintenance", req.MaintenanceMode)
	ok(c, http.StatusOK, req)
}

// logs handles GET /api/admin/logs?level=warn&limit=50 (newest first)
func (a *Admin) logs(c *gin.Context) {
	level := slog.LevelDebug
	if raw := c.Query("level"); raw != "" {
		if err := level.UnmarshalText([]byte(raw)); err != nil {
			fail(c, http.StatusBadRequest, "level must be debug, info, warn or error")
			return
		}
	}
	limit := defaultLogLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			fail(c, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}
	if a.Logs == nil {
		ok(c, http.StatusOK, []models.LogEntry{})
		return
	}
	ok(c, http.StatusOK, a.Logs.Entries(level, limit))
}

// maintenance handles POST /api/admin/maintenance. Trainer routes answer 503
// while it is on; the admin console stays reachable.
func (a *Admin) maintenance(c *gin.Context) {
	var req models.MaintenanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid JSON")
		return
	}
	ctx := c.Request.Context()
	s, err := a.Repo.Settings(ctx)
	if err != nil {
		a.storageError(c, err, "")
		return
	}
	s.MaintenanceMode = req.Enabled
	s.MaintenanceMessage = strings.TrimSpace(req.Message)
	if !req.Enabled {
		s.MaintenanceMessage = ""
	}
	s.UpdatedAt = a.now()
	if err := a.Repo.SaveSettings(ctx, s); err != nil {
		a.storageError(c, err, "")
		return
	}
	a.logger().WarnContext(ctx, "maintenance mode changed", "enabled", s.MaintenanceMode)
	ok(c, http.StatusOK, s)
}

// broadcast handles POST /api/admin/broadcast: renders the markdown body,
// pushes it to the connected dashboards of the audience and stores it.
func (a *Admin) broadcast(c *gin.Context) {
	var req models.BroadcastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid JSON")
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" || strings.TrimSpace(req.Body) == "" {
		fail(c, http.StatusBadRequest, "title and body are required")
		return
	}

	var target realtime.Target
	switch req.Audience {
	case "", AudienceAll:
		req.Audience = AudienceAll
		target = realtime.ToAll()
	case AudienceTrainers:
		target = realtime.ToRole(string(models.RoleTrainer))
	case AudienceClients:
		target = realtime.ToRole(string(models.RoleClient))
	default:
		fail(c, http.StatusBadRequest, "audience must be 'all', 'trainers' or 'clients'")
		return
	}

	var html bytes.Buffer
	if err := markdown.Convert([]byte(req.Body), &html); err != nil {
		fail(c, http.StatusBadRequest, "body is not valid markdown")
		return
	}

	ctx := c.Request.Context()
	b := models.Broadcast{
		ID:       uuid.NewString(),
		Title:    req.Title,
		Body:     req.Body,
		HTML:     html.String(),
		Audience: req.Audience,
		SentAt:   a.now(),
	}
	if a.Hub != nil {
		n, err := a.Hub.Publish(ctx, target, realtime.TypeBroadcast, b)
		if err != nil {
			a.logger().WarnContext(ctx, "broadcast not delivered", "err", err)
		}
		b.Delivered = n
	}
	if err := a.Repo.Broadcasts().Put(ctx, b); err != nil {
		a.storageError(c, err, "")
		return
	}
	a.logger().InfoContext(ctx, "broadcast sent", "id", b.ID, "audience", b.Audience, "delivered", b.Delivered)
	ok(c, http.StatusCreated, b)
}

// listBroadcasts handles GET /api/admin/broadcasts (newest first)
func (a *Admin) listBroadcasts(c *gin.Context) {
	list, err := a.Repo.Broadcasts().List(c.Request.Context())
	if err != nil {
		a.storageError(c, err, "")
		return
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].SentAt.After(list[j].SentAt) })
	ok(c, http.StatusOK, list)
}
