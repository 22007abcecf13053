package handlers

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/trainerhub/backend/internal/models"
	"github.com/trainerhub/backend/internal/seed"
)

func trainerToken(t *testing.T) string { return tokenFor(t, seed.TrainerID, "trainer") }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// ---- Access control ----

func TestTrainerRoutes_RequireToken(t *testing.T) {
	srv := newTestServer(t)
	rec := do(t, srv, http.MethodGet, "/api/trainer/dashboard", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestTrainerRoutes_RejectAdminRole(t *testing.T) {
	srv := newTestServer(t)
	rec := do(t, srv, http.MethodGet, "/api/trainer/clients", tokenFor(t, seed.AdminID, "admin"), nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestTrainerRoutes_ScopedToTrainer(t *testing.T) {
	srv := newTestServer(t)
	rec := do(t, srv, http.MethodGet, "/api/trainer/clients", tokenFor(t, "another-trainer", "trainer"), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	list := envelope[models.ClientList](t, rec)
	if len(list.Clients) != 0 {
		t.Fatalf("another trainer sees %d clients", len(list.Clients))
	}
}

func TestMaintenanceMode(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()
	settings, _ := srv.Repo.Settings(ctx)
	settings.MaintenanceMode = true
	settings.MaintenanceMessage = "Upgrading, back soon"
	if err := srv.Repo.SaveSettings(ctx, settings); err != nil {
		t.Fatalf("SaveSettings: %v", err)
	}

	rec := do(t, srv, http.MethodGet, "/api/trainer/dashboard", trainerToken(t), nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	if msg := errorMessage(t, rec); msg != "Upgrading, back soon" {
		t.Errorf("message: got %q", msg)
	}

	// auth routes stay up so an admin can still sign in
	rec = do(t, srv, http.MethodGet, "/api/auth/me", trainerToken(t), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("me during maintenance: expected 200, got %d", rec.Code)
	}
}

// ---- Dashboard ----

func TestDashboard(t *testing.T) {
	srv := newTestServer(t)
	rec := do(t, srv, http.MethodGet, "/api/trainer/dashboard", trainerToken(t), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	data := envelope[models.DashboardData](t, rec)

	if data.Dashboard.Greeting != "Good morning, Sam" {
		t.Errorf("greeting: got %q", data.Dashboard.Greeting)
	}
	if data.Stats.TotalClients != 4 || data.Stats.ActiveClients != 3 {
		t.Errorf("client stats: got %d/%d", data.Stats.TotalClients, data.Stats.ActiveClients)
	}
	if data.Stats.PendingBookings != 2 {
		t.Errorf("pendingBookings: got %d", data.Stats.PendingBookings)
	}
	if data.Stats.TodaySessions != 2 || len(data.TodaySchedule) != 2 {
		t.Errorf("today: got %d sessions, %d entries", data.Stats.TodaySessions, len(data.TodaySchedule))
	}
	if data.Stats.AverageRating != 4.3 {
		t.Errorf("averageRating: got %v", data.Stats.AverageRating)
	}
	if !data.Stats.MonthlyEarnings.Equal(dec("55")) {
		t.Errorf("monthlyEarnings: got %s", data.Stats.MonthlyEarnings)
	}
	if data.Dashboard.UpcomingSessions != 3 {
		t.Errorf("upcomingSessions: got %d", data.Dashboard.UpcomingSessions)
	}
	if n := len(data.Dashboard.RecentActivity); n == 0 || n > recentActivityLimit {
		t.Errorf("recentActivity: got %d items", n)
	}
}

func TestRefreshDashboard(t *testing.T) {
	srv := newTestServer(t)
	rec := do(t, srv, http.MethodGet, "/api/trainer/dashboard/refresh", trainerToken(t), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	data := envelope[models.RefreshData](t, rec)
	if len(data.Clients) != 4 {
		t.Errorf("clients: got %d", len(data.Clients))
	}
	if len(data.Schedule) != 2 || data.Schedule[0].Time != "08:00" {
		t.Errorf("schedule: got %+v", data.Schedule)
	}
	if !data.Revenue.Today.Equal(dec("55")) {
		t.Errorf("revenue today: got %s", data.Revenue.Today)
	}
	if data.Stats.TotalClients != 4 {
		t.Errorf("stats: got %+v", data.Stats)
	}
}

// ---- Revenue ----

func TestSummarizeRevenue(t *testing.T) {
	now := time.Date(2024, 7, 10, 15, 0, 0, 0, time.UTC)
	txns := []models.Transaction{
		{ID: "1", Date: now.Add(-time.Hour), Amount: dec("50"), Status: models.TransactionCompleted},
		{ID: "2", Date: now.AddDate(0, 0, -3), Amount: dec("100"), Status: models.TransactionCompleted},
		{ID: "3", Date: now.AddDate(0, 0, -8), Amount: dec("200"), Status: models.TransactionCompleted},
		{ID: "4", Date: now.AddDate(0, -2, 0), Amount: dec("400"), Status: models.TransactionCompleted},
		{ID: "5", Date: now.AddDate(-1, 0, 0), Amount: dec("800"), Status: models.TransactionCompleted},
		{ID: "6", Date: now.AddDate(0, 0, -1), Amount: dec("30"), Status: models.TransactionPending},
		{ID: "7", Date: now.AddDate(0, 0, -1), Amount: dec("999"), Status: models.TransactionRefunded},
		{ID: "8", Date: now.Add(time.Hour), Amount: dec("5"), Status: models.TransactionCompleted},
	}
	sum := summarizeRevenue(txns, now, dec("0.1"))

	checks := map[string][2]decimal.Decimal{
		"today":          {sum.Today, dec("50")},
		"week":           {sum.Week, dec("150")},
		"month":          {sum.Month, dec("350")},
		"year":           {sum.Year, dec("750")},
		"platformFees":   {sum.PlatformFees, dec("75")},
		"netIncome":      {sum.NetIncome, dec("675")},
		"pendingPayouts": {sum.PendingPayouts, dec("30")},
	}
	for name, c := range checks {
		if !c[0].Equal(c[1]) {
			t.Errorf("%s: got %s, want %s", name, c[0], c[1])
		}
	}
	if sum.Transactions[0].ID != "8" {
		t.Errorf("transactions not newest first: %s", sum.Transactions[0].ID)
	}
}

func TestGetRevenue(t *testing.T) {
	srv := newTestServer(t)
	rec := do(t, srv, http.MethodGet, "/api/trainer/revenue", trainerToken(t), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	sum := envelope[models.RevenueSummary](t, rec)
	if !sum.Week.Equal(dec("655")) || !sum.PendingPayouts.Equal(dec("275")) {
		t.Errorf("summary: week %s pending %s", sum.Week, sum.PendingPayouts)
	}
	if !sum.FeeRate.Equal(dec("0.10")) {
		t.Errorf("feeRate: got %s", sum.FeeRate)
	}
}

// ---- Clients ----

func TestListClients_Filters(t *testing.T) {
	srv := newTestServer(t)
	token := trainerToken(t)

	cases := []struct {
		query     string
		wantCount int
		wantFirst string
	}{
		{"", 4, "Alex Kim"},
		{"?status=inactive", 1, "Dana Fox"},
		{"?q=BIANCA", 1, "Bianca Costa"},
		{"?q=example.com&status=active", 3, "Alex Kim"},
		{"?sort=joined", 4, "Chen Wei"},
		{"?page=2&limit=3", 1, "Dana Fox"},
		{"?page=3&limit=3", 0, ""},
		{"?page=4611686018427387904&limit=4", 0, ""},
		{"?limit=9223372036854775807", 4, "Alex Kim"},
	}
	for _, tc := range cases {
		rec := do(t, srv, http.MethodGet, "/api/trainer/clients"+tc.query, token, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", tc.query, rec.Code)
		}
		list := envelope[models.ClientList](t, rec)
		if len(list.Clients) != tc.wantCount {
			t.Errorf("%s: got %d clients, want %d", tc.query, len(list.Clients), tc.wantCount)
			continue
		}
		if tc.wantCount == 0 {
			continue
		}
		if list.Clients[0].Name != tc.wantFirst {
			t.Errorf("%s: first = %q, want %q", tc.query, list.Clients[0].Name, tc.wantFirst)
		}
	}

	rec := do(t, srv, http.MethodGet, "/api/trainer/clients?page=2&limit=3", token, nil)
	list := envelope[models.ClientList](t, rec)
	if list.Pagination.Total != 4 || list.Pagination.TotalPages != 2 {
		t.Errorf("pagination: got %+v", list.Pagination)
	}

	for _, bad := range []string{"?status=gone", "?sort=age", "?page=0", "?limit=x"} {
		if rec := do(t, srv, http.MethodGet, "/api/trainer/clients"+bad, token, nil); rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", bad, rec.Code)
		}
	}
}

func TestCreateClient(t *testing.T) {
	srv := newTestServer(t)
	token := trainerToken(t)

	rec := do(t, srv, http.MethodPost, "/api/trainer/clients", token, models.ClientRequest{Name: "  "})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("empty name: expected 400, got %d", rec.Code)
	}

	rec = do(t, srv, http.MethodPost, "/api/trainer/clients", token, models.ClientRequest{Name: "Eve", PackageID: "nope"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown package: expected 400, got %d", rec.Code)
	}

	rec = do(t, srv, http.MethodPost, "/api/trainer/clients", token, models.ClientRequest{
		Name: "Eve Adams", Email: "EVE@example.com", PackageID: "seed-package-0001", SessionsRemaining: 5,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	c := envelope[models.Client](t, rec)
	if c.ID == "" || c.Status != models.ClientActive || c.PackageName != "Starter 5" || c.Email != "eve@example.com" {
		t.Errorf("created client: %+v", c)
	}
	if !c.JoinedAt.Equal(testNow) {
		t.Errorf("joinedAt: got %v", c.JoinedAt)
	}

	all, _ := srv.Repo.Clients(seed.TrainerID).List(context.Background())
	if len(all) != 5 {
		t.Errorf("stored clients: got %d", len(all))
	}
}

func TestUpdateAndDeleteClient(t *testing.T) {
	srv := newTestServer(t)
	token := trainerToken(t)

	rec := do(t, srv, http.MethodPut, "/api/trainer/clients/seed-client-0004", token, models.ClientRequest{
		Name: "Dana Fox", Status: models.ClientActive, SessionsRemaining: 10,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("update: expected 200, got %d", rec.Code)
	}
	c := envelope[models.Client](t, rec)
	if c.Status != models.ClientActive || c.SessionsRemaining != 10 {
		t.Errorf("updated client: %+v", c)
	}

	rec = do(t, srv, http.MethodPut, "/api/trainer/clients/missing", token, models.ClientRequest{Name: "x"})
	if rec.Code != http.StatusNotFound {
		t.Errorf("update missing: expected 404, got %d", rec.Code)
	}

	rec = do(t, srv, http.MethodDelete, "/api/trainer/clients/seed-client-0004", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d", rec.Code)
	}
	rec = do(t, srv, http.MethodDelete, "/api/trainer/clients/seed-client-0004", token, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("second delete: expected 404, got %d", rec.Code)
	}
}

// ---- Schedule ----

func TestGetSchedule(t *testing.T) {
	srv := newTestServer(t)
	token := trainerToken(t)

	rec := do(t, srv, http.MethodGet, "/api/trainer/schedule?date=2024-07-01", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	entries := envelope[[]models.ScheduleEntry](t, rec)
	if len(entries) != 2 || entries[0].Time != "08:00" || entries[1].Time != "17:30" {
		t.Fatalf("schedule: %+v", entries)
	}

	rec = do(t, srv, http.MethodGet, "/api/trainer/schedule?date=2024-12-25", token, nil)
	if entries := envelope[[]models.ScheduleEntry](t, rec); len(entries) != 0 {
		t.Errorf("empty day: got %d entries", len(entries))
	}

	rec = do(t, srv, http.MethodGet, "/api/trainer/schedule?date=01/07/2024", token, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad date: expected 400, got %d", rec.Code)
	}
}

func TestCreateAndUpdateSession(t *testing.T) {
	srv := newTestServer(t)
	token := trainerToken(t)

	bad := []models.SessionRequest{
		{Date: "2024-07-02", ClientID: "seed-client-0001"},
		{Date: "2024-07-02", Time: "25:00", ClientID: "seed-client-0001"},
		{Date: "2024-07-02", Time: "10:00"},
		{Date: "2024-07-02", Time: "10:00", ClientID: "ghost"},
		{Date: "2024-07-02", Time: "10:00", ClientID: "seed-client-0001", Type: "yoga"},
	}
	for _, req := range bad {
		if rec := do(t, srv, http.MethodPost, "/api/trainer/sessions", token, req); rec.Code != http.StatusBadRequest {
			t.Errorf("%+v: expected 400, got %d", req, rec.Code)
		}
	}

	rec := do(t, srv, http.MethodPost, "/api/trainer/sessions", token, models.SessionRequest{
		Date: "2024-07-02", Time: "10:00", ClientID: "seed-client-0001",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	e := envelope[models.ScheduleEntry](t, rec)
	if e.ClientName != "Alex Kim" || e.Status != models.SessionPending || e.Duration != 60 || e.Type != models.SessionPersonal {
		t.Errorf("created session: %+v", e)
	}

	rec = do(t, srv, http.MethodPut, "/api/trainer/sessions/"+e.ID, token, models.SessionRequest{
		Date: "2024-07-02", Time: "11:00", ClientID: "seed-client-0001", Status: models.SessionConfirmed,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("update: expected 200, got %d", rec.Code)
	}
	if got := envelope[models.ScheduleEntry](t, rec); got.Time != "11:00" || got.Status != models.SessionConfirmed {
		t.Errorf("updated session: %+v", got)
	}

	rec = do(t, srv, http.MethodPut, "/api/trainer/sessions/missing", token, models.SessionRequest{
		Date: "2024-07-02", Time: "11:00", ClientID: "seed-client-0001",
	})
	if rec.Code != http.StatusNotFound {
		t.Errorf("update missing: expected 404, got %d", rec.Code)
	}
}

// ---- Reviews ----

func TestRespondToReview(t *testing.T) {
	srv := newTestServer(t)
	token := trainerToken(t)

	rec := do(t, srv, http.MethodPost, "/api/trainer/reviews/seed-review-0002/respond", token, models.ReviewReplyRequest{Reply: " "})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("empty reply: expected 400, got %d", rec.Code)
	}

	rec = do(t, srv, http.MethodPost, "/api/trainer/reviews/seed-review-0001/respond", token, models.ReviewReplyRequest{Reply: "again"})
	if rec.Code != http.StatusConflict {
		t.Fatalf("already replied: expected 409, got %d", rec.Code)
	}

	rec = do(t, srv, http.MethodPost, "/api/trainer/reviews/seed-review-0002/respond", token, models.ReviewReplyRequest{Reply: "I'll watch the clock!"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	rv := envelope[models.Review](t, rec)
	if !rv.Replied || rv.Reply != "I'll watch the clock!" || rv.RepliedAt == nil {
		t.Errorf("review: %+v", rv)
	}

	rec = do(t, srv, http.MethodPost, "/api/trainer/reviews/missing/respond", token, models.ReviewReplyRequest{Reply: "hi"})
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing: expected 404, got %d", rec.Code)
	}

	rec = do(t, srv, http.MethodGet, "/api/trainer/reviews", token, nil)
	reviews := envelope[[]models.Review](t, rec)
	if len(reviews) != 3 || reviews[0].ID != "seed-review-0002" {
		t.Errorf("reviews not newest first: %+v", reviews)
	}
}

// ---- Coupons ----

func TestListCoupons_ComputesValidity(t *testing.T) {
	srv := newTestServer(t)
	rec := do(t, srv, http.MethodGet, "/api/trainer/coupons", trainerToken(t), nil)
	coupons := envelope[[]models.Coupon](t, rec)

	valid := map[string]bool{}
	for _, c := range coupons {
		valid[c.Code] = c.IsValid
	}
	want := map[string]bool{"WELCOME10": true, "SUMMER25": true, "OLD5": false}
	for code, v := range want {
		if valid[code] != v {
			t.Errorf("%s isValid: got %v, want %v", code, valid[code], v)
		}
	}
}

func TestCouponWrites(t *testing.T) {
	srv := newTestServer(t)
	token := trainerToken(t)

	cases := []struct {
		req  models.CouponRequest
		want int
	}{
		{models.CouponRequest{DiscountType: models.DiscountFixed, DiscountValue: dec("5")}, http.StatusBadRequest},
		{models.CouponRequest{Code: "X", DiscountType: "bogo", DiscountValue: dec("5")}, http.StatusBadRequest},
		{models.CouponRequest{Code: "X", DiscountType: models.DiscountPercentage, DiscountValue: dec("150")}, http.StatusBadRequest},
		{models.CouponRequest{Code: "X", DiscountType: models.DiscountFixed, DiscountValue: dec("0")}, http.StatusBadRequest},
		{models.CouponRequest{Code: "welcome10", DiscountType: models.DiscountFixed, DiscountValue: dec("5")}, http.StatusConflict},
	}
	for _, tc := range cases {
		if rec := do(t, srv, http.MethodPost, "/api/trainer/coupons", token, tc.req); rec.Code != tc.want {
			t.Errorf("%+v: expected %d, got %d", tc.req, tc.want, rec.Code)
		}
	}

	rec := do(t, srv, http.MethodPost, "/api/trainer/coupons", token, models.CouponRequest{
		Code: " autumn15 ", DiscountType: models.DiscountPercentage, DiscountValue: dec("15"),
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	c := envelope[models.Coupon](t, rec)
	if c.Code != "AUTUMN15" || !c.IsActive || !c.IsValid {
		t.Errorf("created coupon: %+v", c)
	}

	// updating a coupon may keep its own code
	rec = do(t, srv, http.MethodPut, "/api/trainer/coupons/"+c.ID, token, models.CouponRequest{
		Code: "AUTUMN15", DiscountType: models.DiscountPercentage, DiscountValue: dec("20"),
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("update: expected 200, got %d", rec.Code)
	}

	rec = do(t, srv, http.MethodPatch, "/api/trainer/coupons/seed-coupon-0002/toggle", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("toggle: expected 200, got %d", rec.Code)
	}
	if toggled := envelope[models.Coupon](t, rec); !toggled.IsActive {
		t.Error("SUMMER25 should be active after toggle")
	}

	rec = do(t, srv, http.MethodDelete, "/api/trainer/coupons/"+c.ID, token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d", rec.Code)
	}
	rec = do(t, srv, http.MethodPatch, "/api/trainer/coupons/"+c.ID+"/toggle", token, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("toggle deleted: expected 404, got %d", rec.Code)
	}
}

func TestCreateCoupon_ConcurrentSameCode(t *testing.T) {
	srv := newTestServer(t)
	token := trainerToken(t)
	req := models.CouponRequest{Code: "RACE10", DiscountType: models.DiscountPercentage, DiscountValue: dec("10")}

	const n = 16
	codes := make([]int, n)
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			codes[i] = do(t, srv, http.MethodPost, "/api/trainer/coupons", token, req).Code
		}()
	}
	wg.Wait()

	created, conflicts := 0, 0
	for _, code := range codes {
		switch code {
		case http.StatusCreated:
			created++
		case http.StatusConflict:
			conflicts++
		default:
			t.Errorf("unexpected status %d", code)
		}
	}
	if created != 1 || conflicts != n-1 {
		t.Fatalf("created=%d conflicts=%d, want 1 and %d", created, conflicts, n-1)
	}

	coupons, err := srv.Repo.Coupons(seed.TrainerID).List(context.Background())
	if err != nil {
		t.Fatalf("list coupons: %v", err)
	}
	stored := 0
	for _, c := range coupons {
		if c.Code == "RACE10" {
			stored++
		}
	}
	if stored != 1 {
		t.Errorf("stored %d coupons with code RACE10, want 1", stored)
	}
}

// ---- Conversations ----

func TestConversations(t *testing.T) {
	srv := newTestServer(t)
	token := trainerToken(t)

	rec := do(t, srv, http.MethodGet, "/api/trainer/conversations/unread-count", token, nil)
	if got := envelope[models.UnreadCountResponse](t, rec); got.UnreadCount != 3 {
		t.Fatalf("unread: got %d", got.UnreadCount)
	}

	rec = do(t, srv, http.MethodPost, "/api/trainer/conversations/seed-conv-0001/read", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("read: expected 200, got %d", rec.Code)
	}
	if c := envelope[models.Conversation](t, rec); c.UnreadCount != 0 {
		t.Errorf("conversation still unread: %+v", c)
	}

	rec = do(t, srv, http.MethodGet, "/api/trainer/conversations/unread-count", token, nil)
	if got := envelope[models.UnreadCountResponse](t, rec); got.UnreadCount != 1 {
		t.Errorf("unread after read: got %d", got.UnreadCount)
	}

	rec = do(t, srv, http.MethodGet, "/api/trainer/conversations", token, nil)
	convs := envelope[[]models.Conversation](t, rec)
	if len(convs) != 3 || convs[0].ID != "seed-conv-0001" {
		t.Errorf("conversations order: %+v", convs)
	}
}

// ---- Profile & packages ----

func TestProfile(t *testing.T) {
	srv := newTestServer(t)
	token := trainerToken(t)

	rec := do(t, srv, http.MethodGet, "/api/trainer/profile", token, nil)
	if p := envelope[models.Profile](t, rec); p.Name != "Sam Rivera" || !p.HourlyRate.Equal(dec("55")) {
		t.Fatalf("profile: %+v", p)
	}

	neg := dec("-1")
	rec = do(t, srv, http.MethodPut, "/api/trainer/profile", token, models.ProfileRequest{Name: "Sam", HourlyRate: &neg})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("negative rate: expected 400, got %d", rec.Code)
	}

	rate := dec("60")
	rec = do(t, srv, http.MethodPut, "/api/trainer/profile", token, models.ProfileRequest{
		Name: "Sam R.", Bio: "Coach", HourlyRate: &rate, Location: "Porto",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("update: expected 200, got %d", rec.Code)
	}
	p := envelope[models.Profile](t, rec)
	if p.Name != "Sam R." || !p.HourlyRate.Equal(rate) || p.Location != "Porto" || p.Specializations == nil {
		t.Errorf("updated profile: %+v", p)
	}
}

func TestProfile_FallsBackToUser(t *testing.T) {
	srv := newTestServer(t)
	if err := srv.Repo.Profiles().Delete(context.Background(), seed.TrainerID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	rec := do(t, srv, http.MethodGet, "/api/trainer/profile", trainerToken(t), nil)
	if p := envelope[models.Profile](t, rec); p.Name != "Sam Rivera" || p.Email != seed.TrainerEmail {
		t.Errorf("fallback profile: %+v", p)
	}
}

func TestListPackages(t *testing.T) {
	srv := newTestServer(t)
	rec := do(t, srv, http.MethodGet, "/api/trainer/packages", trainerToken(t), nil)
	pkgs := envelope[[]models.Package](t, rec)
	if len(pkgs) != 3 || pkgs[0].Name != "Online Monthly" {
		t.Errorf("packages not cheapest first: %+v", pkgs)
	}
}
