// Package session implements the conversation session manager for
// claudechat. A session owns one validated configuration and one ordered
// message history, assembles each outbound completion request, and applies
// the retry policy to recoverable provider failures.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"claudechat/internal/config"
	"claudechat/internal/logger"
	"claudechat/pkg/chattypes"
)

// State describes where a session is in its exchange lifecycle.
type State int

// Session states. A session processes at most one Send at a time; the
// AwaitingResponse state acts as a mutual-exclusion gate, not a queue.
const (
	StateIdle State = iota
	StateAwaitingResponse
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingResponse:
		return "awaiting_response"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// Result carries a successful exchange's response together with request
// metadata, for shells that display provenance.
type Result struct {
	Response    string        `json:"response"`
	ModelID     string        `json:"model"`
	Temperature float64       `json:"temperature"`
	Attempts    int           `json:"attempts"`
	Latency     time.Duration `json:"latency"`
	Timestamp   time.Time     `json:"timestamp"`
}

// Session orchestrates one logical conversation against an LLM client.
// It exclusively owns its configuration and history; readers only ever get
// copies. Independent sessions share no state and may run concurrently.
type Session struct {
	mu      sync.Mutex
	state   State
	cfg     config.Config
	history []chattypes.Message
	nextSeq int

	client chattypes.LLMClient
	retry  RetryPolicy
	sleep  func(time.Duration)
	now    func() time.Time
}

// Option configures a Session at construction.
type Option func(*Session)

// WithRetryPolicy injects a retry policy for recoverable provider failures.
func WithRetryPolicy(p RetryPolicy) Option {
	return func(s *Session) { s.retry = p }
}

// WithSleepFunc replaces the backoff sleep, letting tests run without
// real delays.
func WithSleepFunc(sleep func(time.Duration)) Option {
	return func(s *Session) { s.sleep = sleep }
}

// WithNowFunc replaces the clock used for message timestamps.
func WithNowFunc(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// New creates a session bound to the given client and configuration. The
// configuration is re-validated here: the session does not trust externally
// constructed values.
func New(client chattypes.LLMClient, cfg config.Config, opts ...Option) (*Session, error) {
	if client == nil {
		return nil, fmt.Errorf("client cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Session{
		state:   StateIdle,
		cfg:     cfg,
		history: make([]chattypes.Message, 0),
		client:  client,
		retry:   DefaultRetryPolicy(),
		sleep:   time.Sleep,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Send forwards one user message and returns the assistant's reply text.
// See SendWithMetadata for semantics.
func (s *Session) Send(ctx context.Context, userText string) (string, error) {
	result, err := s.SendWithMetadata(ctx, userText)
	if err != nil {
		return "", err
	}
	return result.Response, nil
}

// SendWithMetadata forwards one user message and returns the assistant's
// reply together with request metadata.
//
// Empty input (after trimming) fails without touching state. A Send issued
// while another is outstanding fails immediately with a session-busy error.
// On success exactly two messages are appended (user, assistant). On failure
// the already-appended user turn is retained, so Send is NOT idempotent:
// retrying the same text appends a second user turn unless the caller clears
// history first.
func (s *Session) SendWithMetadata(ctx context.Context, userText string) (*Result, error) {
	trimmed := strings.TrimSpace(userText)
	if trimmed == "" {
		return nil, chattypes.NewError(chattypes.ErrEmptyInput, "message must not be empty")
	}

	req, err := s.beginExchange(trimmed)
	if err != nil {
		return nil, err
	}

	start := s.now()
	content, attempts, err := s.invokeWithRetry(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateIdle

	if err != nil {
		logger.Error("Exchange failed", "provider", s.client.ProviderName(), "attempts", attempts, "error", err)
		return nil, err
	}

	s.appendLocked(chattypes.RoleAssistant, content)
	logger.Debug("Exchange completed", "attempts", attempts, "history_len", len(s.history))

	return &Result{
		Response:    content,
		ModelID:     req.ModelID,
		Temperature: req.Temperature,
		Attempts:    attempts,
		Latency:     s.now().Sub(start),
		Timestamp:   s.now(),
	}, nil
}

// beginExchange transitions Idle -> AwaitingResponse, records the user turn,
// and assembles the outbound request from the current configuration and
// history.
func (s *Session) beginExchange(userText string) (*chattypes.CompletionRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateIdle {
		return nil, chattypes.NewError(chattypes.ErrSessionBusy,
			"a send is already in progress for this session")
	}
	s.state = StateAwaitingResponse

	s.appendLocked(chattypes.RoleUser, userText)

	return s.buildRequestLocked(), nil
}

// buildRequestLocked assembles the provider-neutral request: the active
// system prompt, the history (bounded by HistoryWindow), and the generation
// parameters. Caller must hold s.mu.
func (s *Session) buildRequestLocked() *chattypes.CompletionRequest {
	window := s.history
	if n := s.cfg.HistoryWindow; n > 0 && len(window) > n {
		window = window[len(window)-n:]
	}

	messages := make([]chattypes.Message, len(window))
	copy(messages, window)

	return &chattypes.CompletionRequest{
		SystemPrompt: s.cfg.SystemPrompt,
		Messages:     messages,
		ModelID:      s.cfg.ModelID,
		Temperature:  s.cfg.Temperature,
		MaxTokens:    s.cfg.MaxTokens,
	}
}

// invokeWithRetry calls the client, retrying recoverable failures with
// exponential backoff per the session's retry policy. It returns the
// response content and the number of attempts made.
func (s *Session) invokeWithRetry(ctx context.Context, req *chattypes.CompletionRequest) (string, int, error) {
	maxAttempts := s.retry.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		logger.ProviderRequest(s.client.ProviderName(), req.ModelID, len(req.Messages))

		content, err := s.client.SendChatCompletion(ctx, req)
		if err == nil {
			return content, attempt, nil
		}
		lastErr = s.classify(err)

		kind := chattypes.KindOf(lastErr)
		if !kind.Retryable() || attempt == maxAttempts {
			return "", attempt, lastErr
		}

		delay := s.retry.delayFor(attempt)
		logger.Warn("Recoverable provider failure, retrying",
			"kind", kind.String(), "attempt", attempt, "delay", delay)

		if err := s.waitBackoff(ctx, delay); err != nil {
			return "", attempt, err
		}
	}

	return "", maxAttempts, lastErr
}

// waitBackoff sleeps for the backoff delay, aborting early if the context
// is cancelled.
func (s *Session) waitBackoff(ctx context.Context, delay time.Duration) error {
	done := make(chan struct{})
	go func() {
		s.sleep(delay)
		close(done)
	}()

	select {
	case <-ctx.Done():
		return &chattypes.Error{
			Kind:    chattypes.ErrTimeout,
			Message: "request cancelled during retry backoff",
			Cause:   ctx.Err(),
		}
	case <-done:
		return nil
	}
}

// classify guarantees every failure leaving the session is a classified
// error; raw transport errors never reach the presentation shell.
func (s *Session) classify(err error) error {
	var cerr *chattypes.Error
	if errors.As(err, &cerr) {
		return err
	}
	return &chattypes.Error{
		Kind:     chattypes.ErrUnknown,
		Provider: s.client.ProviderName(),
		Message:  "unclassified provider failure",
		Cause:    err,
	}
}

// ClearHistory resets the conversation history to empty. The configuration
// is untouched. Always succeeds.
func (s *Session) ClearHistory() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = s.history[:0]
	s.nextSeq = 0
	logger.SessionOperation("clear_history")
}

// Reconfigure replaces the active configuration for all subsequent sends.
// Existing history is not altered. The new configuration is re-validated;
// reconfiguring while a send is outstanding is refused.
func (s *Session) Reconfigure(cfg config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateIdle {
		return chattypes.NewError(chattypes.ErrSessionBusy,
			"cannot reconfigure while a send is in progress")
	}
	s.cfg = cfg
	logger.SessionOperation("reconfigure", "model", cfg.ModelID)
	return nil
}

// Config returns a copy of the active configuration.
func (s *Session) Config() config.Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

// HistorySnapshot returns an ordered copy of the current messages. The live
// history is never exposed.
func (s *Session) HistorySnapshot() []chattypes.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := make([]chattypes.Message, len(s.history))
	copy(snapshot, s.history)
	return snapshot
}

// State returns the session's current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// appendLocked appends a message with the next sequence index. Caller must
// hold s.mu.
func (s *Session) appendLocked(role chattypes.Role, content string) {
	s.history = append(s.history, chattypes.Message{
		ID:        uuid.New().String(),
		Role:      role,
		Content:   content,
		Sequence:  s.nextSeq,
		Timestamp: s.now(),
	})
	s.nextSeq++
}
