// Package session drives the picker: it reacts to role changes, partition
// moves and pool queries, and exposes a snapshot the terminal UI renders.
//
// A Session is owned by a single event loop. Network work is split into
// Begin/Run/Apply steps so Run can execute elsewhere (a tea.Cmd) while every
// state change happens on the loop, in the order completions arrive.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/kingrea/league-pool/internal/champion"
	"github.com/kingrea/league-pool/internal/partition"
	"github.com/kingrea/league-pool/internal/poolquery"
	"github.com/kingrea/league-pool/internal/rolecache"
)

// State is the session's position in the picker flow.
type State int

const (
	StateIdle        State = iota // no role chosen, dependent sections hidden
	StateRoleLoading              // candidate set requested
	StateReady                    // partitions populated
	StateFailed                   // role chosen but its candidate set could not be fetched
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRoleLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Picker identifies one of the two candidate pickers.
type Picker int

const (
	PickerInclude Picker = iota
	PickerExclude
)

func (p Picker) String() string {
	if p == PickerExclude {
		return "exclude"
	}
	return "include"
}

var (
	// ErrNotReady is returned by partition and query actions outside StateReady.
	ErrNotReady = errors.New("session: not ready")
	// ErrStaleCompletion marks a role fetch that no longer matches the pending request.
	ErrStaleCompletion = errors.New("session: stale completion")
	// ErrNothingChosen is returned when committing a picker that holds the placeholder.
	ErrNothingChosen = errors.New("session: no candidate chosen")
)

// Recommender returns suggested pools for the current partitions.
type Recommender interface {
	Recommend(ctx context.Context, params poolquery.Params) ([]string, error)
}

// Logger is the observability sink. *logbook.Logbook satisfies it.
type Logger interface {
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

// RoleRequest tags one candidate-set fetch with the role it was issued for.
type RoleRequest struct {
	ID   string
	Role champion.Role
}

// RoleResult is the completion of a RoleRequest.
type RoleResult struct {
	Request RoleRequest
	Set     champion.Set
	Err     error
}

// QueryRequest is one "calculate pools" action.
type QueryRequest struct {
	ID     string
	Role   champion.Role
	Params poolquery.Params
}

// QueryResult is the completion of a QueryRequest.
type QueryResult struct {
	Request QueryRequest
	Pools   []string
	Err     error
}

// Suggestion is one entry of the suggested-pools history.
type Suggestion struct {
	ID     string
	Role   champion.Role
	Params poolquery.Params
	Pools  []string
}

// String renders the pools the way the results list shows them.
func (s Suggestion) String() string {
	return strings.Join(s.Pools, ", ")
}

// Session is the picker state machine. It is not safe for concurrent use.
type Session struct {
	cache       *rolecache.Cache
	recommender Recommender
	store       *partition.Store
	logger      Logger
	newID       func() string

	state       State
	role        champion.Role
	pending     RoleRequest
	choices     map[Picker]champion.Candidate
	suggestions []Suggestion
	lastErr     error
}

// Option customizes Session construction.
type Option func(*Session)

// WithLogger routes session events to l.
func WithLogger(l Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithIDGenerator overrides request ID generation, mainly for tests.
func WithIDGenerator(gen func() string) Option {
	return func(s *Session) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// New builds an idle session. One session lives as long as the UI does.
func New(cache *rolecache.Cache, recommender Recommender, opts ...Option) *Session {
	s := &Session{
		cache:       cache,
		recommender: recommender,
		store:       partition.New(),
		logger:      nopLogger{},
		newID:       func() string { return uuid.NewString() },
		state:       StateIdle,
		choices:     map[Picker]champion.Candidate{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// State returns the current state.
func (s *Session) State() State { return s.state }

// Role returns the selected role, or champion.NoRole.
func (s *Session) Role() champion.Role { return s.role }

// Err returns the most recent error, cleared by the next success of the same kind.
func (s *Session) Err() error { return s.lastErr }

// SelectRole starts a role change. The placeholder role returns the session
// to idle and yields no request. Any other role, including the current one,
// moves to loading and returns the request to fetch.
func (s *Session) SelectRole(role champion.Role) (RoleRequest, bool) {
	s.resetChoices()
	if role.IsSentinel() {
		s.state = StateIdle
		s.role = champion.NoRole
		s.pending = RoleRequest{}
		s.lastErr = nil
		s.logger.Info("Role cleared")
		return RoleRequest{}, false
	}
	req := RoleRequest{ID: s.newID(), Role: role}
	s.pending = req
	s.role = role
	s.state = StateRoleLoading
	s.logger.Info("Role %s selected (request %s)", role, req.ID)
	return req, true
}

// FetchRole resolves req through the role cache. It touches no session
// state and may run off the event loop.
func (s *Session) FetchRole(ctx context.Context, req RoleRequest) RoleResult {
	if s.cache == nil {
		return RoleResult{Request: req, Err: fmt.Errorf("session: no role cache configured")}
	}
	set, err := s.cache.Get(ctx, req.Role)
	return RoleResult{Request: req, Set: set, Err: err}
}

// ApplyRole completes a role fetch. Completions for anything but the pending
// request are discarded with ErrStaleCompletion.
func (s *Session) ApplyRole(res RoleResult) error {
	if res.Request.ID == "" || res.Request != s.pending {
		s.logger.Warn("Discarding stale candidate set for %s (request %s)", res.Request.Role, res.Request.ID)
		return fmt.Errorf("%w: role %s", ErrStaleCompletion, res.Request.Role)
	}
	s.pending = RoleRequest{}
	if res.Err != nil {
		s.state = StateFailed
		s.lastErr = res.Err
		s.logger.Error("Candidate fetch for %s failed: %v", res.Request.Role, res.Err)
		return res.Err
	}
	s.store.Reset(res.Set)
	s.resetChoices()
	s.state = StateReady
	s.lastErr = nil
	s.logger.Info("Role %s ready with %d candidates", res.Request.Role, res.Set.Len())
	return nil
}

// LoadRole selects role and waits for its candidate set.
func (s *Session) LoadRole(ctx context.Context, role champion.Role) error {
	req, ok := s.SelectRole(role)
	if !ok {
		return nil
	}
	return s.ApplyRole(s.FetchRole(ctx, req))
}

// Include moves c into the pool.
func (s *Session) Include(c champion.Candidate) error {
	return s.mutate("include", c, s.store.MoveToIncluded)
}

// Exclude moves c into the excluded group.
func (s *Session) Exclude(c champion.Candidate) error {
	return s.mutate("exclude", c, s.store.MoveToExcluded)
}

// Release returns c from the pool or the excluded group to the pickers.
func (s *Session) Release(c champion.Candidate) error {
	return s.mutate("release", c, s.store.Release)
}

func (s *Session) mutate(op string, c champion.Candidate, fn func(champion.Candidate) error) error {
	if err := s.requireReady(op); err != nil {
		return err
	}
	if err := fn(c); err != nil {
		s.logger.Warn("Rejected %s of %s: %v", op, c, err)
		return err
	}
	s.dropUnavailableChoices()
	s.logger.Info("%s %s", strings.ToUpper(op[:1])+op[1:], c)
	return nil
}

// Choose records the candidate highlighted in a picker. The placeholder or
// any available candidate is accepted.
func (s *Session) Choose(p Picker, c champion.Candidate) error {
	if err := s.requireReady("choose"); err != nil {
		return err
	}
	if !c.IsSentinel() && !s.store.Has(partition.GroupAvailable, c) {
		return &partition.TransitionError{Candidate: c, Op: "choose", Found: s.store.Where(c)}
	}
	s.choices[p] = c
	return nil
}

// Choice returns the candidate currently chosen in p.
func (s *Session) Choice(p Picker) champion.Candidate {
	return s.choices[p]
}

// CanCommit reports whether p's action button is enabled.
func (s *Session) CanCommit(p Picker) bool {
	return s.state == StateReady && !s.choices[p].IsSentinel()
}

// Commit applies p's action to its chosen candidate and resets the choice.
func (s *Session) Commit(p Picker) error {
	if err := s.requireReady("commit " + p.String()); err != nil {
		return err
	}
	c := s.choices[p]
	if c.IsSentinel() {
		return fmt.Errorf("%w in %s picker", ErrNothingChosen, p)
	}
	if p == PickerExclude {
		return s.Exclude(c)
	}
	return s.Include(c)
}

// BeginQuery snapshots the current partitions into a query request.
func (s *Session) BeginQuery() (QueryRequest, error) {
	if err := s.requireReady("query"); err != nil {
		return QueryRequest{}, err
	}
	req := QueryRequest{
		ID:     s.newID(),
		Role:   s.role,
		Params: poolquery.Build(s.store.Included(), s.store.Excluded()),
	}
	s.logger.Info("Calculating pools: %s", req.Params.Encode())
	return req, nil
}

// RunQuery calls the recommendation service. It touches no session state.
func (s *Session) RunQuery(ctx context.Context, req QueryRequest) QueryResult {
	if s.recommender == nil {
		return QueryResult{Request: req, Err: fmt.Errorf("session: no recommender configured")}
	}
	pools, err := s.recommender.Recommend(ctx, req.Params)
	return QueryResult{Request: req, Pools: pools, Err: err}
}

// ApplyQuery appends a successful result to the suggestions. Failures are
// logged and leave the suggestions as they were.
func (s *Session) ApplyQuery(res QueryResult) error {
	if res.Err != nil {
		s.lastErr = res.Err
		s.logger.Error("Pool calculation failed: %v", res.Err)
		return res.Err
	}
	pools := make([]string, len(res.Pools))
	copy(pools, res.Pools)
	s.suggestions = append(s.suggestions, Suggestion{
		ID:     res.Request.ID,
		Role:   res.Request.Role,
		Params: res.Request.Params,
		Pools:  pools,
	})
	s.lastErr = nil
	s.logger.Info("Suggested pools: %s", strings.Join(pools, ", "))
	return nil
}

// Query runs a full calculate-pools round trip.
func (s *Session) Query(ctx context.Context) error {
	req, err := s.BeginQuery()
	if err != nil {
		return err
	}
	return s.ApplyQuery(s.RunQuery(ctx, req))
}

// Suggestions returns the accumulated suggestions in completion order.
func (s *Session) Suggestions() []Suggestion {
	out := make([]Suggestion, len(s.suggestions))
	copy(out, s.suggestions)
	return out
}

func (s *Session) requireReady(op string) error {
	if s.state != StateReady {
		return fmt.Errorf("%w: cannot %s while %s", ErrNotReady, op, s.state)
	}
	return nil
}

func (s *Session) resetChoices() {
	s.choices[PickerInclude] = champion.NoSelection
	s.choices[PickerExclude] = champion.NoSelection
}

// dropUnavailableChoices resets any picker whose choice left Available.
func (s *Session) dropUnavailableChoices() {
	for p, c := range s.choices {
		if !c.IsSentinel() && !s.store.Has(partition.GroupAvailable, c) {
			s.choices[p] = champion.NoSelection
		}
	}
}
