package copilot

import (
	"context"
	"fmt"
	"time"

	"github.com/trippilot/backend/pkg/logger"
)

// Fixed responses for degraded states. These are part of the API contract:
// the chat endpoint never surfaces an error status.
const (
	OfflineMessage      = "AI Offline."
	InterferenceMessage = "I'm experiencing radio interference."
)

// DefaultContext is used when the caller supplies no flight context
const DefaultContext = "General Query"

// systemInstruction is the fixed persona prompt. The copilot must read the
// live context fields literally rather than invent flight details.
const systemInstruction = `You are 'Captain Copilot', an expert pilot assistant for TripPilot.

YOUR SUPERPOWERS:
1. REAL DATA: The 'Current Context' contains REAL routes.
   - If asked "Where is this going?", read the destination.
2. JARGON TRANSLATOR: Explain terms like "Knots" simply.
3. TONE: Professional, reassuring, but concise. Keep answers to 3 sentences or less.`

// Completer produces a text completion for a single prompt
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Service answers passenger questions about a selected flight. Each call is
// stateless: the full prompt is rebuilt from the caller-supplied context and
// question, with no conversation memory.
type Service struct {
	completer Completer
	timeout   time.Duration
	logger    *logger.Logger
}

// NewService creates a new copilot service. A nil completer is valid and
// leaves the service permanently in its offline state.
func NewService(completer Completer, timeout time.Duration, log *logger.Logger) *Service {
	s := &Service{
		completer: completer,
		timeout:   timeout,
		logger:    log.Named("copilot-svc"),
	}
	if completer == nil {
		s.logger.Warn("No LLM credential configured, copilot will be offline")
	}
	return s
}

// Online reports whether a completer is configured
func (s *Service) Online() bool {
	return s.completer != nil
}

// Answer returns the copilot's reply for a message and flight context.
// Missing configuration and upstream failures degrade to fixed messages.
func (s *Service) Answer(ctx context.Context, message, flightContext string) string {
	if s.completer == nil {
		return OfflineMessage
	}
	if flightContext == "" {
		flightContext = DefaultContext
	}
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	prompt := buildPrompt(flightContext, message)
	reply, err := s.completer.Complete(ctx, prompt)
	if err != nil {
		s.logger.Warn("LLM completion failed", logger.Error(err))
		return InterferenceMessage
	}
	return reply
}

// buildPrompt concatenates the persona instruction with the caller-supplied
// context and question, both passed through verbatim.
func buildPrompt(flightContext, message string) string {
	return fmt.Sprintf("%s\n\nCURRENT CONTEXT: %s\n\nUSER QUESTION: %s",
		systemInstruction, flightContext, message)
}
