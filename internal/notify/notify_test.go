package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"sort"
	"sync"
	"testing"

	"github.com/charmbracelet/log"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"task-planner/internal/config"
)

type mockTokenSource struct {
	mock.Mock
}

func (m *mockTokenSource) ListDeviceTokens(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	tokens, _ := args.Get(0).([]string)
	return tokens, args.Error(1)
}

type fakeTransport struct {
	mu    sync.Mutex
	calls []Message
	fail  map[string]error
	panic map[string]bool
}

func (f *fakeTransport) Send(_ context.Context, msg Message) error {
	f.mu.Lock()
	f.calls = append(f.calls, msg)
	err := f.fail[msg.Token]
	boom := f.panic[msg.Token]
	f.mu.Unlock()
	if boom {
		panic("provider exploded")
	}
	return err
}

func (f *fakeTransport) tokens() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.calls))
	for _, c := range f.calls {
		out = append(out, c.Token)
	}
	sort.Strings(out)
	return out
}

func testLogger(buf *bytes.Buffer) *log.Logger {
	return log.NewWithOptions(buf, log.Options{Level: log.DebugLevel, Formatter: log.LogfmtFormatter})
}

func TestDispatch_DeduplicatesTokens(t *testing.T) {
	src := &mockTokenSource{}
	src.On("ListDeviceTokens", mock.Anything).Return([]string{"t1", "t1", "t2"}, nil)
	transport := &fakeTransport{}
	var buf bytes.Buffer

	d := NewDispatcher(src, transport, "Reminder", "Check your tasks", testLogger(&buf))
	summary, err := d.Dispatch(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"t1", "t2"}, transport.tokens())
	assert.Equal(t, Summary{Users: 3, Unique: 2, Sent: 2, Failed: 0}, summary)
	for _, c := range transport.calls {
		assert.Equal(t, "Reminder", c.Title)
		assert.Equal(t, "Check your tasks", c.Body)
	}
	src.AssertExpectations(t)
}

func TestDispatch_SendCountEqualsUniqueTokens(t *testing.T) {
	tokens := []string{"shared", "shared", "shared", "u1", "u2", "u3", "shared"}
	src := &mockTokenSource{}
	src.On("ListDeviceTokens", mock.Anything).Return(tokens, nil)
	transport := &fakeTransport{}
	var buf bytes.Buffer

	summary, err := NewDispatcher(src, transport, "t", "b", testLogger(&buf)).Dispatch(context.Background())
	require.NoError(t, err)
	assert.Len(t, transport.tokens(), 4)
	assert.Equal(t, 7, summary.Users)
	assert.Equal(t, 4, summary.Unique)
}

func TestDispatch_FailuresAreIsolated(t *testing.T) {
	src := &mockTokenSource{}
	src.On("ListDeviceTokens", mock.Anything).Return([]string{"ok-1", "stale", "down", "boom", "ok-2"}, nil)
	transport := &fakeTransport{
		fail: map[string]error{
			"stale": ErrInvalidToken,
			"down":  errors.New("connection reset"),
		},
		panic: map[string]bool{"boom": true},
	}
	var buf bytes.Buffer

	summary, err := NewDispatcher(src, transport, "t", "b", testLogger(&buf)).Dispatch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"boom", "down", "ok-1", "ok-2", "stale"}, transport.tokens())
	assert.Equal(t, 2, summary.Sent)
	assert.Equal(t, 3, summary.Failed)
	assert.Contains(t, buf.String(), "device token rejected")
	assert.Contains(t, buf.String(), "connection reset")
}

func TestDispatch_NoTokensIsNoop(t *testing.T) {
	src := &mockTokenSource{}
	src.On("ListDeviceTokens", mock.Anything).Return([]string{}, nil)
	transport := &fakeTransport{}
	var buf bytes.Buffer

	summary, err := NewDispatcher(src, transport, "t", "b", testLogger(&buf)).Dispatch(context.Background())
	require.NoError(t, err)
	assert.Empty(t, transport.tokens())
	assert.Equal(t, Summary{}, summary)
	assert.Contains(t, buf.String(), "nothing to send")
}

func TestDispatch_SnapshotError(t *testing.T) {
	src := &mockTokenSource{}
	src.On("ListDeviceTokens", mock.Anything).Return(nil, errors.New("db down"))
	transport := &fakeTransport{}
	var buf bytes.Buffer

	_, err := NewDispatcher(src, transport, "t", "b", testLogger(&buf)).Dispatch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db down")
	assert.Empty(t, transport.tokens())
}

func TestUniqueTokens(t *testing.T) {
	assert.Equal(t, []string{"b", "a", "c"}, UniqueTokens([]string{"b", "", "a", "b", "c", "a"}))
	assert.Empty(t, UniqueTokens(nil))
}

type fakeSender struct {
	sent []tgbotapi.MessageConfig
	err  error
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		f.sent = append(f.sent, msg)
	}
	return tgbotapi.Message{}, f.err
}

func TestTelegramTransport_Send(t *testing.T) {
	sender := &fakeSender{}
	tr := &TelegramTransport{api: sender}

	require.NoError(t, tr.Send(context.Background(), Message{Title: "Due <today>", Body: "2 tasks", Token: "12345"}))
	require.Len(t, sender.sent, 1)
	assert.Equal(t, int64(12345), sender.sent[0].ChatID)
	assert.Equal(t, tgbotapi.ModeHTML, sender.sent[0].ParseMode)
	assert.Contains(t, sender.sent[0].Text, "Due &lt;today&gt;")
}

func TestTelegramTransport_InvalidTokens(t *testing.T) {
	tr := &TelegramTransport{api: &fakeSender{}}
	err := tr.Send(context.Background(), Message{Token: "not-a-chat"})
	assert.ErrorIs(t, err, ErrInvalidToken)

	blocked := &TelegramTransport{api: &fakeSender{err: &tgbotapi.Error{Code: 403, Message: "Forbidden: bot was blocked by the user"}}}
	err = blocked.Send(context.Background(), Message{Token: "42"})
	assert.ErrorIs(t, err, ErrInvalidToken)

	flaky := &TelegramTransport{api: &fakeSender{err: errors.New("timeout")}}
	err = flaky.Send(context.Background(), Message{Token: "42"})
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrInvalidToken))
}

type fakePublisher struct {
	subject string
	data    []byte
}

func (f *fakePublisher) Publish(subject string, data []byte) error {
	f.subject, f.data = subject, data
	return nil
}

func TestNATSTransport_Send(t *testing.T) {
	pub := &fakePublisher{}
	tr := &NATSTransport{conn: pub, subject: "push.notifications"}

	require.NoError(t, tr.Send(context.Background(), Message{Title: "T", Body: "B", Token: "device-1"}))
	assert.Equal(t, "push.notifications", pub.subject)

	var req PushRequest
	require.NoError(t, json.Unmarshal(pub.data, &req))
	assert.Equal(t, "device-1", req.Token)
	assert.Equal(t, "T", req.Title)
	assert.Equal(t, "B", req.Body)
	assert.False(t, req.SentAt.IsZero())
	assert.NoError(t, tr.Close())
}

func TestNewTransport_Log(t *testing.T) {
	var buf bytes.Buffer
	tr, err := NewTransport(config.Config{PushTransport: config.TransportLog}, testLogger(&buf))
	require.NoError(t, err)

	require.NoError(t, tr.Send(context.Background(), Message{Title: "hello", Token: "abcdefghij"}))
	assert.Contains(t, buf.String(), "hello")
	assert.NotContains(t, buf.String(), "abcdefghij")
	assert.NoError(t, Close(tr))

	_, err = NewTransport(config.Config{PushTransport: "pigeon"}, testLogger(&buf))
	assert.Error(t, err)
}
