package main

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/trainerhub/backend/internal/apiclient"
	"github.com/trainerhub/backend/internal/dashboard"
	"github.com/trainerhub/backend/internal/models"
	"github.com/trainerhub/backend/internal/realtime"
	"github.com/trainerhub/backend/internal/setup"
)

func (a *app) setupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "setup [root]",
		Short: "Create the server, uploads and logs directories",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}
			res, err := setup.Run(root, a.logger)
			if err != nil {
				return err
			}
			return printYAML(cmd.OutOrStdout(), res)
		},
	}
}

func (a *app) loginCmd() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the token in the credentials file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c := apiclient.New(a.cfg.Client.APIURL, apiclient.WithTimeout(a.cfg.Client.Timeout))
			_, creds, err := c.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			if err := apiclient.SaveCredentials(a.cfg.Client.Credentials, creds); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", creds.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func (a *app) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := apiclient.RemoveCredentials(a.cfg.Client.Credentials); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

// ---- Dashboard ----

type summary struct {
	Greeting         string          `yaml:"greeting"`
	TotalClients     int             `yaml:"totalClients"`
	ActiveClients    int             `yaml:"activeClients"`
	PendingBookings  int             `yaml:"pendingBookings"`
	TodaySessions    int             `yaml:"todaySessions"`
	UpcomingSessions int             `yaml:"upcomingSessions"`
	MonthlyEarnings  decimal.Decimal `yaml:"monthlyEarnings"`
	AverageRating    float64         `yaml:"averageRating"`
	Today            []sessionRow    `yaml:"today"`
}

func (a *app) dashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Refresh and show the home page counters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withDashboard(func(d *dashboard.Dashboard) error {
				if err := d.RefreshDashboard(cmd.Context()); err != nil {
					return err
				}
				s := d.State()
				return printYAML(cmd.OutOrStdout(), summary{
					Greeting:         s.Dashboard.Greeting,
					TotalClients:     s.Stats.TotalClients,
					ActiveClients:    s.Stats.ActiveClients,
					PendingBookings:  s.Stats.PendingBookings,
					TodaySessions:    s.Stats.TodaySessions,
					UpcomingSessions: s.Dashboard.UpcomingSessions,
					MonthlyEarnings:  s.Stats.MonthlyEarnings,
					AverageRating:    s.Stats.AverageRating,
					Today:            sessionRows(s.TodaySchedule),
				})
			})
		},
	}
}

// ---- Clients ----

type clientRow struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Email    string `yaml:"email,omitempty"`
	Status   string `yaml:"status"`
	Package  string `yaml:"package,omitempty"`
	Sessions int    `yaml:"sessionsRemaining"`
}

func clientRows(clients []models.Client) []clientRow {
	rows := make([]clientRow, 0, len(clients))
	for _, c := range clients {
		rows = append(rows, clientRow{
			ID:       c.ID,
			Name:     c.Name,
			Email:    c.Email,
			Status:   string(c.Status),
			Package:  c.PackageName,
			Sessions: c.SessionsRemaining,
		})
	}
	return rows
}

func (a *app) clientsCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "clients", Short: "List and manage clients"}

	list := &cobra.Command{
		Use:   "list",
		Short: "List every client",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withDashboard(func(d *dashboard.Dashboard) error {
				if err := d.LoadClients(cmd.Context()); err != nil {
					return err
				}
				return printYAML(cmd.OutOrStdout(), clientRows(d.State().Clients))
			})
		},
	}

	var req models.ClientRequest
	add := &cobra.Command{
		Use:   "add",
		Short: "Add a client",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withDashboard(func(d *dashboard.Dashboard) error {
				c, err := d.AddClient(cmd.Context(), req)
				if err != nil {
					return err
				}
				return printYAML(cmd.OutOrStdout(), clientRows([]models.Client{c})[0])
			})
		},
	}
	add.Flags().StringVar(&req.Name, "name", "", "client name")
	add.Flags().StringVar(&req.Email, "email", "", "client email")
	add.Flags().StringVar(&req.Phone, "phone", "", "client phone")
	add.Flags().StringVar(&req.PackageID, "package", "", "package id")
	add.Flags().IntVar(&req.SessionsRemaining, "sessions", 0, "sessions remaining")
	add.Flags().StringVar(&req.Goals, "goals", "", "training goals")

	remove := &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a client",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withDashboard(func(d *dashboard.Dashboard) error {
				if err := d.RemoveClient(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed client %s\n", args[0])
				return nil
			})
		},
	}

	cmd.AddCommand(list, add, remove)
	return cmd
}

// ---- Schedule ----

type sessionRow struct {
	ID       string `yaml:"id"`
	Date     string `yaml:"date"`
	Time     string `yaml:"time"`
	Duration int    `yaml:"duration"`
	Client   string `yaml:"client"`
	Type     string `yaml:"type"`
	Status   string `yaml:"status"`
}

func sessionRows(entries []models.ScheduleEntry) []sessionRow {
	rows := make([]sessionRow, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, sessionRow{
			ID:       e.ID,
			Date:     e.Date,
			Time:     e.Time,
			Duration: e.Duration,
			Client:   e.ClientName,
			Type:     string(e.Type),
			Status:   string(e.Status),
		})
	}
	return rows
}

func (a *app) scheduleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schedule [YYYY-MM-DD]",
		Short: "Show the sessions booked on a day (today by default)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var date string
			if len(args) == 1 {
				date = args[0]
			}
			return a.withDashboard(func(d *dashboard.Dashboard) error {
				if err := d.LoadSchedule(cmd.Context(), date); err != nil {
					return err
				}
				return printYAML(cmd.OutOrStdout(), sessionRows(d.State().Schedule))
			})
		},
	}
}

// ---- Revenue ----

func (a *app) revenueCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "revenue",
		Short: "Show earnings, fees and pending payouts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withDashboard(func(d *dashboard.Dashboard) error {
				if err := d.LoadRevenue(cmd.Context()); err != nil {
					return err
				}
				r := d.State().Revenue
				return printYAML(cmd.OutOrStdout(), map[string]decimal.Decimal{
					"today":          r.Today,
					"week":           r.Week,
					"month":          r.Month,
					"year":           r.Year,
					"platformFees":   r.PlatformFees,
					"netIncome":      r.NetIncome,
					"pendingPayouts": r.PendingPayouts,
				})
			})
		},
	}
}

// ---- Reviews ----

type reviewRow struct {
	ID      string `yaml:"id"`
	Client  string `yaml:"client"`
	Rating  int    `yaml:"rating"`
	Comment string `yaml:"comment"`
	Reply   string `yaml:"reply,omitempty"`
}

func (a *app) reviewsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reviews",
		Short: "List reviews, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withDashboard(func(d *dashboard.Dashboard) error {
				if err := d.LoadReviews(cmd.Context()); err != nil {
					return err
				}
				return a.printReviews(cmd, d)
			})
		},
	}
	respond := &cobra.Command{
		Use:   "respond <id> <reply>",
		Short: "Reply to a review",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			reply := strings.Join(args[1:], " ")
			return a.withDashboard(func(d *dashboard.Dashboard) error {
				if err := d.RespondToReview(cmd.Context(), args[0], reply); err != nil {
					return err
				}
				return a.printReviews(cmd, d)
			})
		},
	}
	cmd.AddCommand(respond)
	return cmd
}

func (a *app) printReviews(cmd *cobra.Command, d *dashboard.Dashboard) error {
	s := d.State()
	rows := make([]reviewRow, 0, len(s.Reviews))
	for _, r := range s.Reviews {
		rows = append(rows, reviewRow{ID: r.ID, Client: r.ClientName, Rating: r.Rating, Comment: r.Comment, Reply: r.Reply})
	}
	return printYAML(cmd.OutOrStdout(), map[string]any{
		"total":   s.TotalReviews,
		"average": s.AverageRating,
		"reviews": rows,
	})
}

// ---- Coupons ----

type couponRow struct {
	ID     string          `yaml:"id"`
	Code   string          `yaml:"code"`
	Type   string          `yaml:"type"`
	Value  decimal.Decimal `yaml:"value"`
	Active bool            `yaml:"active"`
	Valid  bool            `yaml:"valid"`
	Used   string          `yaml:"used"`
}

func (a *app) couponsCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "coupons", Short: "List and toggle coupons"}

	list := &cobra.Command{
		Use:   "list",
		Short: "List coupons",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withDashboard(func(d *dashboard.Dashboard) error {
				if err := d.LoadCoupons(cmd.Context()); err != nil {
					return err
				}
				return printCoupons(cmd, d)
			})
		},
	}
	toggle := &cobra.Command{
		Use:   "toggle <id>",
		Short: "Flip a coupon between active and inactive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withDashboard(func(d *dashboard.Dashboard) error {
				if err := d.ToggleCoupon(cmd.Context(), args[0]); err != nil {
					return err
				}
				return printCoupons(cmd, d)
			})
		},
	}
	remove := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a coupon",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withDashboard(func(d *dashboard.Dashboard) error {
				if err := d.DeleteCoupon(cmd.Context(), args[0]); err != nil {
					return err
				}
				return printCoupons(cmd, d)
			})
		},
	}
	cmd.AddCommand(list, toggle, remove)
	return cmd
}

func printCoupons(cmd *cobra.Command, d *dashboard.Dashboard) error {
	coupons := d.State().Coupons
	rows := make([]couponRow, 0, len(coupons))
	for _, c := range coupons {
		used := fmt.Sprintf("%d", c.UsedCount)
		if c.UsageLimit > 0 {
			used = fmt.Sprintf("%d/%d", c.UsedCount, c.UsageLimit)
		}
		rows = append(rows, couponRow{
			ID:     c.ID,
			Code:   c.Code,
			Type:   string(c.DiscountType),
			Value:  c.DiscountValue,
			Active: c.IsActive,
			Valid:  c.IsValid,
			Used:   used,
		})
	}
	return printYAML(cmd.OutOrStdout(), rows)
}

// ---- Conversations ----

func (a *app) unreadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unread",
		Short: "Show the unread message count per conversation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withDashboard(func(d *dashboard.Dashboard) error {
				total, err := d.UpdateUnreadCount(cmd.Context())
				if err != nil {
					return err
				}
				per := map[string]int{}
				for _, c := range d.State().Conversations {
					if c.UnreadCount > 0 {
						per[c.ClientName] = c.UnreadCount
					}
				}
				return printYAML(cmd.OutOrStdout(), map[string]any{"total": total, "conversations": per})
			})
		},
	}
}

// ---- Profile & packages ----

func (a *app) profileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profile",
		Short: "Show the trainer profile and the packages on sale",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withDashboard(func(d *dashboard.Dashboard) error {
				ctx := cmd.Context()
				if err := d.LoadProfile(ctx); err != nil {
					return err
				}
				if err := d.LoadPackages(ctx); err != nil {
					return err
				}
				s := d.State()
				pkgs := make([]map[string]any, 0, len(s.Packages))
				for _, p := range s.Packages {
					pkgs = append(pkgs, map[string]any{"name": p.Name, "price": p.Price, "sessions": p.SessionCount})
				}
				return printYAML(cmd.OutOrStdout(), map[string]any{
					"name":            s.Profile.Name,
					"email":           s.Profile.Email,
					"location":        s.Profile.Location,
					"hourlyRate":      s.Profile.HourlyRate,
					"specializations": s.Profile.Specializations,
					"packages":        pkgs,
				})
			})
		},
	}
}

// ---- Realtime ----

func (a *app) watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Print realtime notifications until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			a.logger.Debug("connecting", "url", c.StreamURL())
			return realtime.Listen(cmd.Context(), c.StreamURL(), c.Token(), func(m realtime.Message) {
				fmt.Fprintf(out, "%s %s\n", m.Type, m.Payload)
			})
		},
	}
}
