// Package repository gives typed access to the documents kept in a
// db.Backend. Each entity lives in its own collection; entities owned by a
// trainer live in a collection named "<kind>:<trainerID>", so one trainer's
// clients can be listed without scanning anyone else's.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/trainerhub/backend/internal/db"
	"github.com/trainerhub/backend/internal/models"
)

// ErrNotFound is returned when a document does not exist.
var ErrNotFound = db.ErrNotFound

// Collection is a typed view of one backend collection.
type Collection[T any] struct {
	backend db.Backend
	name    string
	id      func(T) string
}

// NewCollection returns a collection that keys items by id(item).
func NewCollection[T any](b db.Backend, name string, id func(T) string) Collection[T] {
	return Collection[T]{backend: b, name: name, id: id}
}

// Name is the backend collection name.
func (c Collection[T]) Name() string { return c.name }

func (c Collection[T]) Get(ctx context.Context, id string) (T, error) {
	var item T
	body, err := c.backend.Get(ctx, c.name, id)
	if err != nil {
		return item, err
	}
	if err := json.Unmarshal(body, &item); err != nil {
		return item, fmt.Errorf("decode %s/%s: %w", c.name, id, err)
	}
	return item, nil
}

// Put inserts or replaces item.
func (c Collection[T]) Put(ctx context.Context, item T) error {
	id := c.id(item)
	if id == "" {
		return fmt.Errorf("put %s: empty id", c.name)
	}
	body, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", c.name, id, err)
	}
	return c.backend.Put(ctx, c.name, id, body)
}

func (c Collection[T]) Delete(ctx context.Context, id string) error {
	return c.backend.Delete(ctx, c.name, id)
}

// List returns every item ordered by id. An empty collection yields an
// empty, non-nil slice.
func (c Collection[T]) List(ctx context.Context) ([]T, error) {
	docs, err := c.backend.List(ctx, c.name)
	if err != nil {
		return nil, err
	}
	items := make([]T, 0, len(docs))
	for _, d := range docs {
		var item T
		if err := json.Unmarshal(d.Body, &item); err != nil {
			return nil, fmt.Errorf("decode %s/%s: %w", c.name, d.ID, err)
		}
		items = append(items, item)
	}
	return items, nil
}

// Exists reports whether id is present.
func (c Collection[T]) Exists(ctx context.Context, id string) (bool, error) {
	_, err := c.backend.Get(ctx, c.name, id)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

// SettingsID is the id of the single platform settings document.
const SettingsID = "platform"

// Repo exposes one collection per entity.
type Repo struct {
	Backend db.Backend
}

func New(b db.Backend) *Repo { return &Repo{Backend: b} }

func scoped(kind, trainerID string) string { return kind + ":" + trainerID }

func (r *Repo) Users() Collection[models.UserRecord] {
	return NewCollection(r.Backend, "users", func(u models.UserRecord) string { return u.ID })
}

// Profiles are keyed by trainer id.
func (r *Repo) Profiles() Collection[models.Profile] {
	return NewCollection(r.Backend, "profiles", func(p models.Profile) string { return p.ID })
}

func (r *Repo) Clients(trainerID string) Collection[models.Client] {
	return NewCollection(r.Backend, scoped("clients", trainerID), func(c models.Client) string { return c.ID })
}

func (r *Repo) Sessions(trainerID string) Collection[models.ScheduleEntry] {
	return NewCollection(r.Backend, scoped("sessions", trainerID), func(e models.ScheduleEntry) string { return e.ID })
}

func (r *Repo) Transactions(trainerID string) Collection[models.Transaction] {
	return NewCollection(r.Backend, scoped("transactions", trainerID), func(t models.Transaction) string { return t.ID })
}

func (r *Repo) Reviews(trainerID string) Collection[models.Review] {
	return NewCollection(r.Backend, scoped("reviews", trainerID), func(rv models.Review) string { return rv.ID })
}

func (r *Repo) Coupons(trainerID string) Collection[models.Coupon] {
	return NewCollection(r.Backend, scoped("coupons", trainerID), func(c models.Coupon) string { return c.ID })
}

func (r *Repo) Conversations(trainerID string) Collection[models.Conversation] {
	return NewCollection(r.Backend, scoped("conversations", trainerID), func(c models.Conversation) string { return c.ID })
}

func (r *Repo) Packages(trainerID string) Collection[models.Package] {
	return NewCollection(r.Backend, scoped("packages", trainerID), func(p models.Package) string { return p.ID })
}

func (r *Repo) Broadcasts() Collection[models.Broadcast] {
	return NewCollection(r.Backend, "broadcasts", func(b models.Broadcast) string { return b.ID })
}

func (r *Repo) settings() Collection[models.Settings] {
	return NewCollection(r.Backend, "settings", func(models.Settings) string { return SettingsID })
}

// Settings returns the platform settings, or DefaultSettings when none have
// been saved yet.
func (r *Repo) Settings(ctx context.Context) (models.Settings, error) {
	s, err := r.settings().Get(ctx, SettingsID)
	if errors.Is(err, ErrNotFound) {
		return DefaultSettings(), nil
	}
	return s, err
}

func (r *Repo) SaveSettings(ctx context.Context, s models.Settings) error {
	return r.settings().Put(ctx, s)
}

// Trainers lists the users whose role is trainer.
func (r *Repo) Trainers(ctx context.Context) ([]models.UserRecord, error) {
	users, err := r.Users().List(ctx)
	if err != nil {
		return nil, err
	}
	out := users[:0]
	for _, u := range users {
		if u.Role == models.RoleTrainer {
			out = append(out, u)
		}
	}
	return out, nil
}

// UserByEmail does a linear scan; user counts on this platform are small.
func (r *Repo) UserByEmail(ctx context.Context, email string) (models.UserRecord, error) {
	users, err := r.Users().List(ctx)
	if err != nil {
		return models.UserRecord{}, err
	}
	for _, u := range users {
		if u.Email == email {
			return u, nil
		}
	}
	return models.UserRecord{}, ErrNotFound
}
