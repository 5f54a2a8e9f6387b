// Package storage is the registration store: CRUD over the courses, users,
// registrations and current-user slots of a key-value substrate.
//
// Every write reads the whole slot, transforms it and writes it back. A single
// mutex serializes these cycles within one process; separate processes sharing a
// substrate are not coordinated and the last write wins.
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/eduportal/backend/internal/models"
	"github.com/eduportal/backend/internal/validation"
	"github.com/eduportal/backend/pkg/kv"
)

// Slot names. They match the keys the browser client used so existing data loads unchanged.
const (
	KeyCourses           = "courses"
	KeyUsers             = "users"
	KeyRegistrations     = "registrations"
	KeyCurrentUser       = "currentUser"
	KeyLegacyUser        = "user"
	KeyResolvedConflicts = "resolvedConflicts"
)

// DefaultCourses seed an empty installation.
var DefaultCourses = []models.Course{
	{ID: 1, CourseName: "Data Structures", Faculty: "Dr. Rao", Time: "Mon 10:00 AM"},
	{ID: 2, CourseName: "Database Systems", Faculty: "Prof. Singh", Time: "Tue 2:00 PM"},
	{ID: 3, CourseName: "Operating Systems", Faculty: "Dr. Mehta", Time: "Wed 11:00 AM"},
	{ID: 4, CourseName: "Computer Networks", Faculty: "Prof. Nair", Time: "Thu 9:00 AM"},
}

// Result reports the outcome of an operation that can be refused for a business
// reason. Refusals are not errors: OK is false and Message says why.
type Result struct {
	OK           bool                 `json:"ok"`
	Message      string               `json:"message,omitempty"`
	NotFound     bool                 `json:"-"`
	Duplicate    bool                 `json:"-"`
	User         *models.User         `json:"user,omitempty"`
	Course       *models.Course       `json:"course,omitempty"`
	Registration *models.Registration `json:"registration,omitempty"`
}

func fail(msg string) Result {
	return Result{Message: msg}
}

func notFound(msg string) Result {
	return Result{Message: msg, NotFound: true}
}

func duplicate(msg string) Result {
	return Result{Message: msg, Duplicate: true}
}

// HTTPStatus maps a refusal to a status code: 404 for a missing target, 409 for a
// duplicate and 400 for anything else.
func (r Result) HTTPStatus() int {
	switch {
	case r.OK:
		return http.StatusOK
	case r.NotFound:
		return http.StatusNotFound
	case r.Duplicate:
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}

// Notifier receives change events after successful writes.
type Notifier interface {
	Notify(ctx context.Context, ev models.ChangeEvent)
}

type fanOut []Notifier

func (f fanOut) Notify(ctx context.Context, ev models.ChangeEvent) {
	for _, n := range f {
		n.Notify(ctx, ev)
	}
}

// FanOut returns a Notifier that forwards each event to every non-nil n in order.
func FanOut(ns ...Notifier) Notifier {
	var f fanOut
	for _, n := range ns {
		if n != nil {
			f = append(f, n)
		}
	}
	return f
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the time source used for ids and timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithNotifier registers a receiver for change events.
func WithNotifier(n Notifier) Option {
	return func(s *Store) { s.notifier = n }
}

// WithValidator replaces the default validator. It must have the validation package rules registered.
func WithValidator(v *validator.Validate) Option {
	return func(s *Store) { s.validate = v }
}

// Store is the registration store.
type Store struct {
	kv       kv.Store
	mu       sync.Mutex
	now      func() time.Time
	logger   *zap.Logger
	notifier Notifier
	validate *validator.Validate

	// rows of a collection slot that did not decode on the last read; writeSlot
	// appends them back so they survive the rewrite
	undecoded map[string][]json.RawMessage
}

// New creates a Store over the given substrate.
func New(backend kv.Store, opts ...Option) *Store {
	s := &Store{
		kv:        backend,
		now:       func() time.Time { return time.Now().UTC() },
		logger:    zap.NewNop(),
		undecoded: make(map[string][]json.RawMessage),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.validate == nil {
		s.validate = validation.New()
	}
	return s
}

// Initialize seeds the default courses when no course slot exists, normalizes stored
// users (adopting the legacy single-user record when there are none) and makes sure
// the registrations slot holds an array. Calling it again changes nothing.
func (s *Store) Initialize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, found, err := readRows[models.Course](ctx, s, KeyCourses)
	if err != nil {
		return err
	}
	if !found {
		if err := s.writeSlot(ctx, KeyCourses, DefaultCourses); err != nil {
			return err
		}
		s.logger.Info("seeded default courses", zap.Int("count", len(DefaultCourses)))
	}

	users, err := s.users(ctx)
	if err != nil {
		return err
	}
	if len(users) == 0 {
		var legacy models.User
		ok, err := s.readSlot(ctx, KeyLegacyUser, &legacy)
		if err != nil {
			return err
		}
		if ok && legacy.Email != "" {
			users = []models.User{legacy}
			s.logger.Info("migrated legacy user", zap.String("email", legacy.Email))
		}
	}
	if err := s.saveUsers(ctx, users); err != nil {
		return err
	}

	_, found, err = readRows[models.Registration](ctx, s, KeyRegistrations)
	if err != nil {
		return err
	}
	if !found {
		if err := s.writeSlot(ctx, KeyRegistrations, []models.Registration{}); err != nil {
			return err
		}
	}
	return nil
}

// readSlot decodes the slot into dst. It reports false, without error, when the slot
// is missing, null or not valid JSON for dst; substrate failures are returned.
func (s *Store) readSlot(ctx context.Context, key string, dst any) (bool, error) {
	raw, err := s.kv.Get(ctx, key)
	if errors.Is(err, kv.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read %s: %w", key, err)
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		s.logger.Warn("ignoring corrupt slot", zap.String("key", key), zap.Error(err))
		return false, nil
	}
	return true, nil
}

// readRows decodes a JSON array slot one row at a time. Rows that do not fit T are
// logged and set aside for the next writeSlot of the same key instead of voiding
// the whole collection. The caller must hold s.mu.
func readRows[T any](ctx context.Context, s *Store, key string) ([]T, bool, error) {
	delete(s.undecoded, key)

	var raws []json.RawMessage
	found, err := s.readSlot(ctx, key, &raws)
	if err != nil || !found {
		return nil, found, err
	}
	rows := make([]T, 0, len(raws))
	var bad []json.RawMessage
	for i, raw := range raws {
		var row T
		if err := json.Unmarshal(raw, &row); err != nil {
			s.logger.Warn("keeping undecodable row",
				zap.String("key", key), zap.Int("index", i), zap.Error(err))
			bad = append(bad, raw)
			continue
		}
		rows = append(rows, row)
	}
	if len(bad) > 0 {
		s.undecoded[key] = bad
	}
	return rows, true, nil
}

func (s *Store) writeSlot(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if bad := s.undecoded[key]; len(bad) > 0 {
		var rows []json.RawMessage
		if err := json.Unmarshal(raw, &rows); err != nil {
			return fmt.Errorf("encode %s: %w", key, err)
		}
		if raw, err = json.Marshal(append(rows, bad...)); err != nil {
			return fmt.Errorf("encode %s: %w", key, err)
		}
	}
	if err := s.kv.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

// nextID returns a millisecond timestamp id that is larger than maxID.
func (s *Store) nextID(maxID int64) int64 {
	id := s.now().UnixMilli()
	if id <= maxID {
		id = maxID + 1
	}
	return id
}

func (s *Store) notify(ctx context.Context, eventType, studentEmail string, data any) {
	if s.notifier == nil {
		return
	}
	ev := models.ChangeEvent{
		ID:           uuid.New().String(),
		Type:         eventType,
		StudentEmail: studentEmail,
		At:           s.now(),
	}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			s.logger.Warn("encode change event", zap.String("type", eventType), zap.Error(err))
			return
		}
		ev.Data = raw
	}
	s.notifier.Notify(ctx, ev)
}

func (s *Store) validationFailure(err error) Result {
	return fail(validation.Message(err))
}
