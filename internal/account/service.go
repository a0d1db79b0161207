package account

import (
	"context"
	"time"

	"github.com/angelmondragon/firstcredit-backend/internal/credit"
	"github.com/angelmondragon/firstcredit-backend/internal/ledger"
	"github.com/angelmondragon/firstcredit-backend/internal/wishlist"
	"github.com/angelmondragon/firstcredit-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/firstcredit-backend/pkg/errors"
	"github.com/angelmondragon/firstcredit-backend/pkg/logger"
	"github.com/angelmondragon/firstcredit-backend/pkg/metrics"
	"github.com/angelmondragon/firstcredit-backend/pkg/pagination"
	"github.com/google/uuid"
)

// Store persists whole snapshots. Load reports found=false when nothing has
// been saved under key yet.
type Store interface {
	Load(ctx context.Context, key string) (state State, found bool, err error)
	Save(ctx context.Context, key string, state State) error
	Ping(ctx context.Context) error
}

// View is what callers see after every read or command.
type View struct {
	State   State   `json:"state"`
	Summary Summary `json:"summary"`
}

// Service runs commands one at a time against the stored snapshot.
type Service interface {
	Get(ctx context.Context) (View, error)
	Ledger(ctx context.Context, filter ledger.Filter, params pagination.Params) (pagination.Page[ledger.Entry], error)
	LedgerSummary(ctx context.Context) (ledger.Summary, error)
	Quote(ctx context.Context, principal int64, weeks int) (Quote, error)
	Ready(ctx context.Context) error

	AddItem(ctx context.Context, input wishlist.NewItemInput) (View, error)
	DeleteItem(ctx context.Context, itemID uuid.UUID) (View, error)
	PurchaseItem(ctx context.Context, itemID uuid.UUID) (View, error)
	CreateRequest(ctx context.Context, input credit.NewRequestInput) (View, error)
	CancelRequest(ctx context.Context, requestID uuid.UUID) (View, error)
	AcknowledgeNotification(ctx context.Context, requestID uuid.UUID) (View, error)

	ApproveRequest(ctx context.Context, requestID uuid.UUID, message string) (View, error)
	RejectRequest(ctx context.Context, requestID uuid.UUID, message string) (View, error)
	HoldRequest(ctx context.Context, requestID uuid.UUID, message string) (View, error)
	GiftRequest(ctx context.Context, requestID uuid.UUID, message string) (View, error)
	AddAllowance(ctx context.Context, amount int64) (View, error)
	SetWeeklyAllowance(ctx context.Context, amount int64) (View, error)
	AdvanceWeek(ctx context.Context) (View, error)
	Reset(ctx context.Context) (View, error)

	SetMode(ctx context.Context, mode enums.ViewMode) (View, error)
	ToggleMode(ctx context.Context) (View, error)
}

// ServiceParams groups dependencies for the account service.
type ServiceParams struct {
	Engine  *Engine
	Store   Store
	Locker  Locker
	Key     string
	Logger  *logger.Logger
	Metrics *metrics.CommandMetrics
}

type service struct {
	engine  *Engine
	store   Store
	locker  Locker
	key     string
	logg    *logger.Logger
	metrics *metrics.CommandMetrics
}

func NewService(params ServiceParams) (Service, error) {
	if params.Engine == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "engine is required")
	}
	if params.Store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "snapshot store is required")
	}
	if params.Key == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "storage key is required")
	}
	locker := params.Locker
	if locker == nil {
		locker = NewLocalLocker()
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{
		engine:  params.Engine,
		store:   params.Store,
		locker:  locker,
		key:     params.Key,
		logg:    logg,
		metrics: params.Metrics,
	}, nil
}

func (s *service) Get(ctx context.Context) (View, error) {
	state, err := s.read(ctx)
	if err != nil {
		return View{}, err
	}
	return s.view(state), nil
}

func (s *service) Ledger(ctx context.Context, filter ledger.Filter, params pagination.Params) (pagination.Page[ledger.Entry], error) {
	state, err := s.read(ctx)
	if err != nil {
		return pagination.Page[ledger.Entry]{}, err
	}
	page, err := state.Ledger.Page(filter, params)
	if err != nil {
		return pagination.Page[ledger.Entry]{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	return page, nil
}

func (s *service) LedgerSummary(ctx context.Context) (ledger.Summary, error) {
	state, err := s.read(ctx)
	if err != nil {
		return ledger.Summary{}, err
	}
	return state.Ledger.Summarize(), nil
}

func (s *service) Quote(ctx context.Context, principal int64, weeks int) (Quote, error) {
	state, err := s.read(ctx)
	if err != nil {
		return Quote{}, err
	}
	return s.engine.Quote(state, principal, weeks)
}

func (s *service) Ready(ctx context.Context) error {
	if err := s.store.Ping(ctx); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "snapshot store unavailable")
	}
	return nil
}

func (s *service) AddItem(ctx context.Context, input wishlist.NewItemInput) (View, error) {
	return s.execute(ctx, "add_item", func(st State) (State, error) { return s.engine.AddItem(st, input) })
}

func (s *service) DeleteItem(ctx context.Context, itemID uuid.UUID) (View, error) {
	return s.execute(ctx, "delete_item", func(st State) (State, error) { return s.engine.DeleteItem(st, itemID) })
}

func (s *service) PurchaseItem(ctx context.Context, itemID uuid.UUID) (View, error) {
	return s.execute(ctx, "purchase_item", func(st State) (State, error) { return s.engine.PurchaseItem(st, itemID) })
}

func (s *service) CreateRequest(ctx context.Context, input credit.NewRequestInput) (View, error) {
	return s.execute(ctx, "create_request", func(st State) (State, error) { return s.engine.CreateRequest(st, input) })
}

func (s *service) CancelRequest(ctx context.Context, requestID uuid.UUID) (View, error) {
	return s.execute(ctx, "cancel_request", func(st State) (State, error) { return s.engine.CancelRequest(st, requestID) })
}

func (s *service) AcknowledgeNotification(ctx context.Context, requestID uuid.UUID) (View, error) {
	return s.execute(ctx, "acknowledge_notification", func(st State) (State, error) {
		return s.engine.AcknowledgeNotification(st, requestID)
	})
}

func (s *service) ApproveRequest(ctx context.Context, requestID uuid.UUID, message string) (View, error) {
	return s.execute(ctx, "approve_request", func(st State) (State, error) {
		return s.engine.ApproveRequest(st, requestID, message)
	})
}

func (s *service) RejectRequest(ctx context.Context, requestID uuid.UUID, message string) (View, error) {
	return s.execute(ctx, "reject_request", func(st State) (State, error) {
		return s.engine.RejectRequest(st, requestID, message)
	})
}

func (s *service) HoldRequest(ctx context.Context, requestID uuid.UUID, message string) (View, error) {
	return s.execute(ctx, "hold_request", func(st State) (State, error) {
		return s.engine.HoldRequest(st, requestID, message)
	})
}

func (s *service) GiftRequest(ctx context.Context, requestID uuid.UUID, message string) (View, error) {
	return s.execute(ctx, "gift_request", func(st State) (State, error) {
		return s.engine.GiftRequest(st, requestID, message)
	})
}

func (s *service) AddAllowance(ctx context.Context, amount int64) (View, error) {
	return s.execute(ctx, "add_allowance", func(st State) (State, error) { return s.engine.AddAllowance(st, amount) })
}

func (s *service) SetWeeklyAllowance(ctx context.Context, amount int64) (View, error) {
	return s.execute(ctx, "set_weekly_allowance", func(st State) (State, error) {
		return s.engine.SetWeeklyAllowance(st, amount)
	})
}

func (s *service) AdvanceWeek(ctx context.Context) (View, error) {
	return s.execute(ctx, "advance_week", s.engine.AdvanceWeek)
}

func (s *service) Reset(ctx context.Context) (View, error) {
	return s.execute(ctx, "reset", s.engine.Reset)
}

func (s *service) SetMode(ctx context.Context, mode enums.ViewMode) (View, error) {
	return s.execute(ctx, "set_mode", func(st State) (State, error) { return s.engine.SetMode(st, mode) })
}

func (s *service) ToggleMode(ctx context.Context) (View, error) {
	return s.execute(ctx, "toggle_mode", s.engine.ToggleMode)
}

// execute runs load, step and save while holding the account lock. The stored
// snapshot only changes when the step succeeds and the save goes through.
func (s *service) execute(ctx context.Context, command string, step func(State) (State, error)) (View, error) {
	started := time.Now()
	defer func() { s.metrics.ObserveDuration(command, time.Since(started)) }()

	ctx = s.logg.WithFields(ctx, map[string]any{"command": command, "account_key": s.key})

	unlock, err := s.locker.Lock(ctx, s.key)
	if err != nil {
		return View{}, s.fail(ctx, command, err)
	}
	defer unlock()

	current, found, err := s.load(ctx)
	if err != nil {
		return View{}, s.fail(ctx, command, err)
	}
	if !found {
		current = s.engine.DefaultState()
	}

	next, err := step(current)
	if err != nil {
		if pkgerrors.As(err) == nil {
			return View{}, s.fail(ctx, command, err)
		}
		s.metrics.IncOutcome(command, metrics.OutcomeRejected)
		rejectedCtx := s.logg.WithFields(ctx, map[string]any{
			"error_code": string(pkgerrors.CodeOf(err)),
			"reason":     err.Error(),
		})
		s.logg.Warn(rejectedCtx, "command.rejected")
		return View{}, err
	}

	if err := s.store.Save(ctx, s.key, next); err != nil {
		return View{}, s.fail(ctx, command, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save snapshot"))
	}

	view := s.view(next)
	s.metrics.IncOutcome(command, metrics.OutcomeApplied)
	s.metrics.SetAccount(next.Balance, view.Summary.TotalOutstanding, view.Summary.PendingRequests)
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"balance": next.Balance,
		"week":    next.CurrentWeekIndex,
	}), "command.applied")
	return view, nil
}

// read returns the stored snapshot, seeding the default on first use.
func (s *service) read(ctx context.Context) (State, error) {
	state, found, err := s.load(ctx)
	if err != nil {
		return State{}, err
	}
	if found {
		return state, nil
	}

	unlock, err := s.locker.Lock(ctx, s.key)
	if err != nil {
		return State{}, err
	}
	defer unlock()

	state, found, err = s.load(ctx)
	if err != nil || found {
		return state, err
	}
	state = s.engine.DefaultState()
	if err := s.store.Save(ctx, s.key, state); err != nil {
		return State{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "seed snapshot")
	}
	s.logg.Info(ctx, "account.seeded")
	return state, nil
}

func (s *service) load(ctx context.Context) (State, bool, error) {
	state, found, err := s.store.Load(ctx, s.key)
	if err != nil {
		return State{}, false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load snapshot")
	}
	return state, found, nil
}

func (s *service) fail(ctx context.Context, command string, err error) error {
	s.metrics.IncOutcome(command, metrics.OutcomeFailed)
	s.logg.Error(s.logg.WithFields(ctx, pkgerrors.Dump(err).Fields()), "command.failed", err)
	return err
}

func (s *service) view(state State) View {
	return View{State: state, Summary: s.engine.Summarize(state)}
}
