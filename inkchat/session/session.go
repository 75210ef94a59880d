// Package session orchestrates the two document chat commands: single-shot
// prompt and contextual chat. Each invocation resolves configuration,
// captures the prompt, optionally decodes prior turns, executes the external
// request, and writes the reply and usage counters back into the document.
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/inkwell-dev/inkchat/inkchat/codec"
	"github.com/inkwell-dev/inkchat/inkchat/config"
	"github.com/inkwell-dev/inkchat/inkchat/document"
	ports "github.com/inkwell-dev/inkchat/inkchat/session/ports"
)

// Session executes chat commands against an editor surface. It holds an
// immutable settings snapshot; no state crosses invocations.
type Session struct {
	settings config.Settings
	provider ports.Provider
	notifier ports.Notifier
	store    ports.TranscriptStore
	tracer   ports.Tracer
	logger   zerolog.Logger
	clock    func() time.Time

	resolver  *Resolver
	extractor *Extractor
	mutator   *Mutator
}

// Option customizes a Session.
type Option func(*Session)

// WithClock overrides the wall clock used for encode timestamps.
func WithClock(clock func() time.Time) Option {
	return func(s *Session) { s.clock = clock }
}

// WithStore attaches a transcript archive.
func WithStore(store ports.TranscriptStore) Option {
	return func(s *Session) { s.store = store }
}

// WithTracer attaches a tracer around the provider call.
func WithTracer(tracer ports.Tracer) Option {
	return func(s *Session) { s.tracer = tracer }
}

// WithLogger sets the session logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Session) { s.logger = logger }
}

// New creates a session over a settings snapshot, provider, and notifier.
func New(settings config.Settings, provider ports.Provider, notifier ports.Notifier, opts ...Option) *Session {
	s := &Session{
		settings: settings,
		provider: provider,
		notifier: notifier,
		tracer:   noOpTracer{},
		logger:   zerolog.Nop(),
		clock:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.notifier == nil {
		s.notifier = noOpNotifier{}
	}
	s.mutator = NewMutator(s.clock)
	s.resolver = NewResolver(s.settings, s.mutator)
	s.extractor = NewExtractor(s.settings.PromptDelimiter, s.clock)
	return s
}

// RunPrompt executes the single-shot prompt command: the captured prompt is
// submitted alone (plus the resolved system message), without prior turns.
func (s *Session) RunPrompt(ctx context.Context, ed document.Editor) error {
	cfg, captured, err := s.prepare(ed)
	if err != nil {
		return err
	}
	messages := historyMessages(cfg, []codec.Turn{{Role: codec.RoleUser, Content: captured.Content}})
	s.complete(ctx, ed, cfg, messages)
	return nil
}

// RunChat executes the contextual chat command: the full decoded, windowed
// conversation, including the turn just captured, is submitted as history.
func (s *Session) RunChat(ctx context.Context, ed document.Editor) error {
	cfg, _, err := s.prepare(ed)
	if err != nil {
		return err
	}
	turns := codec.ApplyWindow(codec.DecodeTurns(ed.Value()), s.settings.MaxPreviousMessages)
	s.complete(ctx, ed, cfg, historyMessages(cfg, turns))
	return nil
}

// prepare runs the shared front half of both commands: configuration
// resolution (with metadata write-back) strictly before prompt extraction,
// since the write-back mutates text and would invalidate earlier offsets.
func (s *Session) prepare(ed document.Editor) (*EffectiveConfig, Captured, error) {
	cfg, err := s.resolver.Resolve(ed)
	if err != nil {
		s.notifier.Notify(err.Error())
		return nil, Captured{}, err
	}
	captured, err := s.extractor.Capture(ed)
	if err != nil {
		s.notifier.Notify(fmt.Sprintf("%v (delimiter %q)", err, s.settings.PromptDelimiter))
		return nil, Captured{}, err
	}
	return cfg, captured, nil
}

// complete executes the external request and applies the back half of the
// command. Request failures surface as a notice; mutations already applied
// (prompt encoding, metadata writes) stay in place.
func (s *Session) complete(ctx context.Context, ed document.Editor, cfg *EffectiveConfig, messages []ports.Message) {
	req := ports.Request{
		Model:            cfg.Model,
		Messages:         messages,
		MaxTokens:        cfg.MaxTokens,
		Temperature:      cfg.Temperature,
		TopP:             cfg.TopP,
		FrequencyPenalty: cfg.FrequencyPenalty,
		PresencePenalty:  cfg.PresencePenalty,
		N:                cfg.N,
		Store:            cfg.Store,
		VectorStore:      cfg.VectorStore,
	}

	ctx, finish := s.tracer.StartSpan(ctx, "complete", map[string]any{
		"model":    req.Model,
		"messages": len(req.Messages),
	})
	completion, err := s.provider.Complete(ctx, req)
	finish(err)
	if err != nil {
		s.logger.Error().Err(err).Msg("completion request failed")
		s.notifier.Notify(fmt.Sprintf("%v: %v", ErrRequestFailed, err))
		return
	}

	s.mutator.InsertReply(ed, completion.Content)
	s.mutator.MergeUsage(ed, completion.Usage)
	s.archive(ctx, ed, messages, completion.Content)
}

// archive persists the completed exchange when a store is attached. Failure
// to archive never fails the command.
func (s *Session) archive(ctx context.Context, ed document.Editor, messages []ports.Message, reply string) {
	if s.store == nil {
		return
	}
	now := s.clock()
	var turns []ports.ArchivedTurn
	if n := len(messages); n > 0 {
		last := messages[n-1]
		turns = append(turns, ports.ArchivedTurn{Role: last.Role, Content: last.Content, CreatedAt: now})
	}
	turns = append(turns, ports.ArchivedTurn{Role: string(codec.RoleAssistant), Content: reply, CreatedAt: now})
	if err := s.store.SaveExchange(ctx, ed.Name(), turns); err != nil {
		s.logger.Warn().Err(err).Msg("failed to archive exchange")
	}
}

// historyMessages maps decoded turns to provider messages, prefixing the
// resolved system message when present.
func historyMessages(cfg *EffectiveConfig, turns []codec.Turn) []ports.Message {
	messages := make([]ports.Message, 0, len(turns)+1)
	if cfg.System != "" {
		messages = append(messages, ports.Message{Role: string(codec.RoleSystem), Content: cfg.System})
	}
	for _, t := range turns {
		messages = append(messages, ports.Message{Role: string(t.Role), Content: t.Content})
	}
	return messages
}

// noOpTracer is used when no tracer is attached.
type noOpTracer struct{}

func (noOpTracer) StartSpan(ctx context.Context, name string, attrs map[string]any) (context.Context, func(err error)) {
	return ctx, func(error) {}
}
func (noOpTracer) Event(ctx context.Context, name string, attrs map[string]any) {}

// noOpNotifier swallows notices.
type noOpNotifier struct{}

func (noOpNotifier) Notify(string) {}

var (
	_ ports.Tracer   = noOpTracer{}
	_ ports.Notifier = noOpNotifier{}
)
