package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/trainerhub/backend/internal/models"
)

func (c *Client) GetDashboardData(ctx context.Context) (models.DashboardData, error) {
	var out models.DashboardData
	err := c.do(ctx, http.MethodGet, "/api/trainer/dashboard", nil, &out)
	return out, err
}

func (c *Client) RefreshDashboard(ctx context.Context) (models.RefreshData, error) {
	var out models.RefreshData
	err := c.do(ctx, http.MethodGet, "/api/trainer/dashboard/refresh", nil, &out)
	return out, err
}

// GetClients returns every client. The server answers with a paginated
// {"clients","pagination"} object; older servers sent the bare list.
func (c *Client) GetClients(ctx context.Context) ([]models.Client, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/api/trainer/clients", nil, &raw); err != nil {
		return nil, err
	}
	if strings.HasPrefix(strings.TrimSpace(string(raw)), "[") {
		var list []models.Client
		err := json.Unmarshal(raw, &list)
		return list, err
	}
	var page models.ClientList
	if err := json.Unmarshal(raw, &page); err != nil {
		return nil, err
	}
	return page.Clients, nil
}

func (c *Client) AddClient(ctx context.Context, req models.ClientRequest) (models.Client, error) {
	var out models.Client
	err := c.do(ctx, http.MethodPost, "/api/trainer/clients", req, &out)
	return out, err
}

func (c *Client) UpdateClient(ctx context.Context, id string, req models.ClientRequest) (models.Client, error) {
	var out models.Client
	err := c.do(ctx, http.MethodPut, "/api/trainer/clients/"+url.PathEscape(id), req, &out)
	return out, err
}

func (c *Client) RemoveClient(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/trainer/clients/"+url.PathEscape(id), nil, nil)
}

// GetSchedule lists the sessions on date (YYYY-MM-DD); empty means today.
func (c *Client) GetSchedule(ctx context.Context, date string) ([]models.ScheduleEntry, error) {
	path := "/api/trainer/schedule"
	if date != "" {
		path += "?" + url.Values{"date": {date}}.Encode()
	}
	var out []models.ScheduleEntry
	err := c.do(ctx, http.MethodGet, path, nil, &out)
	return out, err
}

func (c *Client) CreateSession(ctx context.Context, req models.SessionRequest) (models.ScheduleEntry, error) {
	var out models.ScheduleEntry
	err := c.do(ctx, http.MethodPost, "/api/trainer/sessions", req, &out)
	return out, err
}

func (c *Client) UpdateSession(ctx context.Context, id string, req models.SessionRequest) (models.ScheduleEntry, error) {
	var out models.ScheduleEntry
	err := c.do(ctx, http.MethodPut, "/api/trainer/sessions/"+url.PathEscape(id), req, &out)
	return out, err
}

func (c *Client) GetRevenue(ctx context.Context) (models.RevenueSummary, error) {
	var out models.RevenueSummary
	err := c.do(ctx, http.MethodGet, "/api/trainer/revenue", nil, &out)
	return out, err
}

func (c *Client) GetReviews(ctx context.Context) ([]models.Review, error) {
	var out []models.Review
	err := c.do(ctx, http.MethodGet, "/api/trainer/reviews", nil, &out)
	return out, err
}

func (c *Client) RespondToReview(ctx context.Context, id, reply string) error {
	return c.do(ctx, http.MethodPost, "/api/trainer/reviews/"+url.PathEscape(id)+"/respond",
		models.ReviewReplyRequest{Reply: reply}, nil)
}

func (c *Client) GetCoupons(ctx context.Context) ([]models.Coupon, error) {
	var out []models.Coupon
	err := c.do(ctx, http.MethodGet, "/api/trainer/coupons", nil, &out)
	return out, err
}

func (c *Client) CreateCoupon(ctx context.Context, req models.CouponRequest) (models.Coupon, error) {
	var out models.Coupon
	err := c.do(ctx, http.MethodPost, "/api/trainer/coupons", req, &out)
	return out, err
}

func (c *Client) UpdateCoupon(ctx context.Context, id string, req models.CouponRequest) (models.Coupon, error) {
	var out models.Coupon
	err := c.do(ctx, http.MethodPut, "/api/trainer/coupons/"+url.PathEscape(id), req, &out)
	return out, err
}

func (c *Client) DeleteCoupon(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/trainer/coupons/"+url.PathEscape(id), nil, nil)
}

func (c *Client) ToggleCoupon(ctx context.Context, id string) (models.Coupon, error) {
	var out models.Coupon
	err := c.do(ctx, http.MethodPatch, "/api/trainer/coupons/"+url.PathEscape(id)+"/toggle", nil, &out)
	return out, err
}

func (c *Client) GetConversations(ctx context.Context) ([]models.Conversation, error) {
	var out []models.Conversation
	err := c.do(ctx, http.MethodGet, "/api/trainer/conversations", nil, &out)
	return out, err
}

// UpdateUnreadCount asks the server for the trainer's unread total.
func (c *Client) UpdateUnreadCount(ctx context.Context) (int, error) {
	var out models.UnreadCountResponse
	err := c.do(ctx, http.MethodGet, "/api/trainer/conversations/unread-count", nil, &out)
	return out.UnreadCount, err
}

func (c *Client) MarkConversationRead(ctx context.Context, id string) (models.Conversation, error) {
	var out models.Conversation
	err := c.do(ctx, http.MethodPost, "/api/trainer/conversations/"+url.PathEscape(id)+"/read", nil, &out)
	return out, err
}

func (c *Client) GetProfile(ctx context.Context) (models.Profile, error) {
	var out models.Profile
	err := c.do(ctx, http.MethodGet, "/api/trainer/profile", nil, &out)
	return out, err
}

func (c *Client) UpdateProfile(ctx context.Context, req models.ProfileRequest) (models.Profile, error) {
	var out models.Profile
	err := c.do(ctx, http.MethodPut, "/api/trainer/profile", req, &out)
	return out, err
}

func (c *Client) GetPackages(ctx context.Context) ([]models.Package, error) {
	var out []models.Package
	err := c.do(ctx, http.MethodGet, "/api/trainer/packages", nil, &out)
	return out, err
}

// StreamURL is the websocket address of the realtime stream.
func (c *Client) StreamURL() string {
	u := c.baseURL
	switch {
	case strings.HasPrefix(u, "https://"):
		u = "wss://" + strings.TrimPrefix(u, "https://")
	case strings.HasPrefix(u, "http://"):
		u = "ws://" + strings.TrimPrefix(u, "http://")
	}
	return u + "/api/trainer/ws"
}
