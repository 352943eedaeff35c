package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_llm_client.go -package=mocks rupped-negotiator/internal/service LLMClient
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_negotiation_service.go -package=mocks -mock_names=NegotiationService=MockNegotiationService rupped-negotiator/internal/service NegotiationService
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_transcript_recorder.go -package=mocks rupped-negotiator/internal/service TranscriptRecorder

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"rupped-negotiator/internal/contextutil"
	"rupped-negotiator/internal/llm"
	"rupped-negotiator/internal/negotiation"
	"rupped-negotiator/internal/storage"
)

// LLMClient is an interface for interacting with the chat-completion service.
// This interface is defined from the service layer's perspective (consumer-first).
type LLMClient interface {
	// Chat sends the conversation and returns the full reply.
	Chat(ctx context.Context, messages []llm.Message, params llm.ChatParams) (string, error)
	// StreamChat sends the conversation and streams content deltas via callback.
	StreamChat(ctx context.Context, messages []llm.Message, params llm.ChatParams, callback func(chunk string) error) error
}

// TranscriptRecorder persists completed exchanges.
type TranscriptRecorder interface {
	Insert(ctx context.Context, record *storage.TranscriptRecord) error
}

// NegotiationRequest represents a negotiation request in the domain layer.
type NegotiationRequest struct {
	Messages []negotiation.Message
	Product  negotiation.Context
}

// NegotiationResponse represents a buffered reply in the domain layer.
type NegotiationResponse struct {
	Text string
}

// SentenceEvent is one unit of streamed output. When Err is set, Text holds
// StreamErrorText and the event is the last one on the channel.
type SentenceEvent struct {
	Text string
	Err  error
}

// NegotiationService provides negotiation functionality.
type NegotiationService interface {
	// Negotiate relays the conversation to the model and returns its reply in one piece.
	Negotiate(ctx context.Context, req NegotiationRequest) (NegotiationResponse, error)
	// StreamNegotiate relays the conversation and returns a channel of complete sentences.
	// The channel is closed when the reply ends, after an error event, or when ctx is done.
	StreamNegotiate(ctx context.Context, req NegotiationRequest) (<-chan SentenceEvent, error)
	// MockNegotiate answers with the rule-based calculator, without calling the model.
	MockNegotiate(ctx context.Context, req NegotiationRequest) (NegotiationResponse, error)
}

// Options configures a NegotiationService.
type Options struct {
	// Model overrides the client's default model when set.
	Model       string
	Temperature float64
	// WindowSize is the number of trailing messages forwarded upstream.
	WindowSize int
	// MockDelay simulates model latency on the mock path.
	MockDelay time.Duration
}

// negotiationService implements NegotiationService.
type negotiationService struct {
	llmClient LLMClient
	recorder  TranscriptRecorder
	opts      Options
}

// NewNegotiationService creates a new NegotiationService. recorder may be nil.
func NewNegotiationService(llmClient LLMClient, recorder TranscriptRecorder, opts Options) NegotiationService {
	if opts.WindowSize <= 0 {
		opts.WindowSize = negotiation.DefaultWindowSize
	}
	return &negotiationService{
		llmClient: llmClient,
		recorder:  recorder,
		opts:      opts,
	}
}

// Negotiate relays the conversation in buffered mode.
func (s *negotiationService) Negotiate(ctx context.Context, req NegotiationRequest) (NegotiationResponse, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if err := validate(req); err != nil {
		logger.WarnContext(ctx, "invalid negotiation request", "error", err)
		return NegotiationResponse{}, err
	}

	messages := s.prompt(req, negotiation.PromptBuffered)
	reply, err := s.llmClient.Chat(ctx, messages, s.params())
	if err != nil {
		relayErr := classify(err)
		logger.ErrorContext(ctx, "failed to get LLM response", "error", relayErr)
		return NegotiationResponse{}, relayErr
	}

	logger.InfoContext(ctx, "negotiation processed successfully",
		"product_id", req.Product.ProductID, "history_length", len(req.Messages), "reply_length", len(reply))
	s.record(ctx, storage.ModeBuffered, req, reply)

	return NegotiationResponse{Text: reply}, nil
}

// StreamNegotiate relays the conversation in streaming mode.
func (s *negotiationService) StreamNegotiate(ctx context.Context, req NegotiationRequest) (<-chan SentenceEvent, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if err := validate(req); err != nil {
		logger.WarnContext(ctx, "invalid streaming negotiation request", "error", err)
		return nil, err
	}

	messages := s.prompt(req, negotiation.PromptStreaming)
	events := make(chan SentenceEvent)

	go func() {
		defer close(events)

		send := func(ev SentenceEvent) bool {
			select {
			case events <- ev:
				return true
			case <-ctx.Done():
				return false
			}
		}

		var acc negotiation.SentenceAccumulator
		var sentences []string

		err := s.llmClient.StreamChat(ctx, messages, s.params(), func(chunk string) error {
			sentence, ok := acc.Append(chunk)
			if !ok {
				return nil
			}
			if !send(SentenceEvent{Text: sentence}) {
				return ctx.Err()
			}
			sentences = append(sentences, sentence)
			return nil
		})

		if ctx.Err() != nil {
			logger.InfoContext(ctx, "negotiation stream cancelled by caller", "sentences_sent", len(sentences))
			return
		}

		if err != nil {
			acc.Reset()
			relayErr := classify(err)
			logger.ErrorContext(ctx, "failed to stream LLM response", "error", relayErr, "sentences_sent", len(sentences))
			send(SentenceEvent{Text: StreamErrorText, Err: relayErr})
			return
		}

		if tail, ok := acc.Flush(); ok {
			if !send(SentenceEvent{Text: tail}) {
				return
			}
			sentences = append(sentences, tail)
		}

		logger.InfoContext(ctx, "streaming negotiation processed successfully",
			"product_id", req.Product.ProductID, "history_length", len(req.Messages), "sentences_sent", len(sentences))
		s.record(ctx, storage.ModeStream, req, strings.Join(sentences, " "))
	}()

	return events, nil
}

// MockNegotiate answers with the fallback calculator.
func (s *negotiationService) MockNegotiate(ctx context.Context, req NegotiationRequest) (NegotiationResponse, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if err := validate(req); err != nil {
		logger.WarnContext(ctx, "invalid mock negotiation request", "error", err)
		return NegotiationResponse{}, err
	}

	if s.opts.MockDelay > 0 {
		timer := time.NewTimer(s.opts.MockDelay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return NegotiationResponse{}, WrapError(ctx.Err(), "mock negotiation interrupted")
		}
	}

	outcome := negotiation.Respond(req.Product, req.Messages)
	logger.InfoContext(ctx, "mock negotiation processed",
		"product_id", req.Product.ProductID, "decision", outcome.Decision, "offer", outcome.Offer, "discount_pct", outcome.DiscountPct)
	s.record(ctx, storage.ModeMock, req, outcome.Text)

	return NegotiationResponse{Text: outcome.Text}, nil
}

func (s *negotiationService) params() llm.ChatParams {
	return llm.ChatParams{
		Model:       s.opts.Model,
		Temperature: s.opts.Temperature,
	}
}

// prompt builds the upstream message list from the request.
func (s *negotiationService) prompt(req NegotiationRequest, style negotiation.PromptStyle) []llm.Message {
	window := negotiation.Window(req.Messages, s.opts.WindowSize)
	built := negotiation.BuildPrompt(req.Product, window, style)

	out := make([]llm.Message, len(built))
	for i, m := range built {
		out[i] = llm.Message{Role: string(m.Role), Content: m.Content}
	}
	return out
}

// record stores the exchange. Failures are logged and never reach the caller.
func (s *negotiationService) record(ctx context.Context, mode storage.Mode, req NegotiationRequest, reply string) {
	if s.recorder == nil {
		return
	}

	rec := &storage.TranscriptRecord{
		RequestID:       contextutil.RequestIDFromContext(ctx),
		ProductID:       req.Product.ProductID,
		ProductName:     req.Product.ProductName,
		ListPrice:       req.Product.ListPrice,
		Mode:            mode,
		CustomerMessage: negotiation.LastCustomerMessage(req.Messages),
		Reply:           reply,
	}
	if err := s.recorder.Insert(ctx, rec); err != nil {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "failed to record transcript", "error", err)
	}
}

// validate checks that every message carries a known role.
func validate(req NegotiationRequest) error {
	for i, m := range req.Messages {
		if !m.Role.Valid() {
			return &ValidationError{
				Field:   fmt.Sprintf("messages[%d].role", i),
				Message: "must be one of system, user, assistant",
			}
		}
	}
	return nil
}

// classify maps a client error onto the relay error taxonomy.
func classify(err error) *RelayError {
	var statusErr *llm.StatusError
	if errors.As(err, &statusErr) {
		return &RelayError{Kind: ErrUpstreamBadStatus, Err: err}
	}
	return &RelayError{Kind: ErrUpstreamUnavailable, Err: err}
}
