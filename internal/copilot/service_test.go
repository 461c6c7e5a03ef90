package copilot

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trippilot/backend/pkg/logger"
)

// fakeCompleter records the prompt it was given
type fakeCompleter struct {
	reply  string
	err    error
	prompt string
	calls  int
}

func (f *fakeCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	f.calls++
	f.prompt = prompt
	return f.reply, f.err
}

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New(logger.Config{Level: "error", Format: "console"})
	require.NoError(t, err)
	return log
}

func TestAnswerOfflineWithoutCompleter(t *testing.T) {
	svc := NewService(nil, 0, newTestLogger(t))

	assert.False(t, svc.Online())
	assert.Equal(t, OfflineMessage, svc.Answer(context.Background(), "where are we going?", "Flight IGO202"))
}

func TestAnswerReturnsCompletion(t *testing.T) {
	completer := &fakeCompleter{reply: "You are headed to Mumbai."}
	svc := NewService(completer, 0, newTestLogger(t))

	reply := svc.Answer(context.Background(), "where are we going?", "Flight IGO202 DEL to BOM")
	assert.Equal(t, "You are headed to Mumbai.", reply)
	assert.Equal(t, 1, completer.calls)
}

func TestAnswerInterferenceOnCompleterError(t *testing.T) {
	completer := &fakeCompleter{err: fmt.Errorf("model overloaded")}
	svc := NewService(completer, 0, newTestLogger(t))

	reply := svc.Answer(context.Background(), "how fast are we?", "Flight AIC405")
	assert.Equal(t, InterferenceMessage, reply)
}

func TestAnswerPromptContainsContextAndQuestionVerbatim(t *testing.T) {
	completer := &fakeCompleter{reply: "ok"}
	svc := NewService(completer, 0, newTestLogger(t))

	svc.Answer(context.Background(), "What does 450 knots mean?", "Flight SEJ332 HYD to MAA at 36000ft")

	assert.Contains(t, completer.prompt, "CURRENT CONTEXT: Flight SEJ332 HYD to MAA at 36000ft")
	assert.Contains(t, completer.prompt, "USER QUESTION: What does 450 knots mean?")
	assert.Contains(t, completer.prompt, "Captain Copilot")
}

func TestAnswerDefaultsEmptyContext(t *testing.T) {
	completer := &fakeCompleter{reply: "ok"}
	svc := NewService(completer, 0, newTestLogger(t))

	svc.Answer(context.Background(), "hello", "")
	assert.Contains(t, completer.prompt, "CURRENT CONTEXT: "+DefaultContext)
}

func TestAnswerStatelessAcrossCalls(t *testing.T) {
	completer := &fakeCompleter{reply: "ok"}
	svc := NewService(completer, 0, newTestLogger(t))

	svc.Answer(context.Background(), "first question", "Flight A")
	first := completer.prompt
	svc.Answer(context.Background(), "second question", "Flight B")

	// The second prompt carries no trace of the first exchange
	assert.NotContains(t, completer.prompt, "first question")
	assert.NotEqual(t, first, completer.prompt)
}
