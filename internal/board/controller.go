package board

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/alexanderramin/incidentboard/internal/access"
	"github.com/alexanderramin/incidentboard/internal/domain"
)

// Intent is a requested move produced by a drag gesture: the incident, the
// column it left, the column it was dropped on and its position there.
type Intent struct {
	IncidentID int64
	From       domain.Status
	To         domain.Status
	Index      int
}

// Transition is an optimistically applied move waiting for its one
// persistence call. It carries the incident's prior status and store slot so
// a failure can put back exactly that incident.
type Transition struct {
	IncidentID int64
	From       domain.Status
	To         domain.Status
	Index      int
	Seq        uint64

	priorStatus domain.Status
	priorSlot   int
}

// Outcome is the result of a persistence call.
type Outcome struct {
	Transition *Transition
	Err        error
}

// Controller validates and applies status transitions for one viewer.
//
// Request and Settle mutate the store and must run on the store's event
// loop. Persist only talks to the persister and may run anywhere.
type Controller struct {
	store     *Store
	viewer    domain.Viewer
	persister StatusPersister
	logger    *slog.Logger
	seq       uint64
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger routes controller diagnostics to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewController binds a store, the viewer and the persistence port. The
// viewer cannot change for the controller's lifetime.
func NewController(store *Store, viewer domain.Viewer, persister StatusPersister, opts ...Option) *Controller {
	c := &Controller{
		store:     store,
		viewer:    viewer,
		persister: persister,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Viewer returns the identity the controller acts for.
func (c *Controller) Viewer() domain.Viewer { return c.viewer }

// Store returns the store the controller mutates.
func (c *Controller) Store() *Store { return c.store }

// CanTransition reports whether the viewer may move incidents at all. Views
// use it to decide whether to offer dragging.
func (c *Controller) CanTransition() bool {
	return access.HasCapability(c.viewer.Role, access.ChangeIncidentStatus)
}

// Request validates an intent and applies it to the store. It returns a nil
// Transition and nil error when the drop is a no-op. On success the store
// already shows the new status and the caller must hand the Transition to
// Persist exactly once.
func (c *Controller) Request(in Intent) (*Transition, error) {
	if in.From == in.To && c.store.indexOf(in.IncidentID) >= 0 && c.store.columnIndex(in.IncidentID) == in.Index {
		return nil, nil
	}
	if !c.CanTransition() {
		c.logger.Info("transition denied",
			"incident_id", in.IncidentID, "role", string(c.viewer.Role), "viewer_id", c.viewer.ID)
		return nil, fmt.Errorf("incident #%d: %w", in.IncidentID, ErrPermissionDenied)
	}
	slot := c.store.indexOf(in.IncidentID)
	if slot < 0 {
		c.logger.Warn("transition for incident not in board", "incident_id", in.IncidentID)
		return nil, fmt.Errorf("incident #%d: %w", in.IncidentID, ErrNotFound)
	}
	if !in.To.Valid() {
		return nil, fmt.Errorf("incident #%d to %q: %w", in.IncidentID, in.To, ErrUnknownStatus)
	}

	current := c.store.items[slot]
	if current.Status != in.From {
		c.logger.Debug("intent source differs from store",
			"incident_id", in.IncidentID, "intent_from", string(in.From), "store_status", string(current.Status))
	}

	c.seq++
	t := &Transition{
		IncidentID:  in.IncidentID,
		From:        current.Status,
		To:          in.To,
		Index:       in.Index,
		Seq:         c.seq,
		priorStatus: current.Status,
		priorSlot:   slot,
	}
	c.store.place(in.IncidentID, in.To, in.Index)
	return t, nil
}

// Persist issues the single status update for t. It does not touch the
// store.
func (c *Controller) Persist(ctx context.Context, t *Transition) Outcome {
	err := c.persister.UpdateStatus(ctx, t.IncidentID, t.To)
	return Outcome{Transition: t, Err: err}
}

// Settle reconciles the store with a persistence outcome. A failure reverts
// only the transition's incident to its captured prior status and slot and
// returns an error wrapping ErrPersistenceFailed. Outcomes arriving after the
// store was closed are ignored.
//
// Two in-flight transitions on the same incident are not ordered: each
// failure restores its own captured value.
func (c *Controller) Settle(o Outcome) error {
	if o.Err == nil || o.Transition == nil {
		return nil
	}
	t := o.Transition
	if c.store.Closed() {
		c.logger.Debug("settle after board closed", "incident_id", t.IncidentID, "seq", t.Seq)
		return nil
	}
	if !c.store.restore(t.IncidentID, t.priorStatus, t.priorSlot) {
		c.logger.Warn("revert target gone", "incident_id", t.IncidentID, "seq", t.Seq)
	}
	c.logger.Warn("status change reverted",
		"incident_id", t.IncidentID, "from", string(t.To), "to", string(t.priorStatus), "error", o.Err.Error())
	return fmt.Errorf("incident #%d: %w: %v", t.IncidentID, ErrPersistenceFailed, o.Err)
}

// Move runs a whole transition synchronously: request, persist, settle.
// It is meant for non-interactive callers.
func (c *Controller) Move(ctx context.Context, in Intent) error {
	t, err := c.Request(in)
	if err != nil || t == nil {
		return err
	}
	return c.Settle(c.Persist(ctx, t))
}
