package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskflow/taskflow/internal/mail"
)

type MockMailer struct {
	mu       sync.Mutex
	SendFunc func(ctx context.Context, to, subject, htmlBody string) error
	Sent     []string
}

func (m *MockMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SendFunc != nil {
		if err := m.SendFunc(ctx, to, subject, htmlBody); err != nil {
			return err
		}
	}
	m.Sent = append(m.Sent, to)
	return nil
}

func (m *MockMailer) Recipients() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.Sent...)
}

type MockRenderer struct {
	RenderFunc func(name string, variables map[string]any) (string, error)
}

func (m *MockRenderer) Render(name string, variables map[string]any) (string, error) {
	if m.RenderFunc != nil {
		return m.RenderFunc(name, variables)
	}
	return "<html>body</html>", nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDispatcher_SubmitReturnsBeforeSend(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	mailer := &MockMailer{
		SendFunc: func(ctx context.Context, to, subject, htmlBody string) error {
			close(started)
			<-release
			return nil
		},
	}
	d := NewDispatcher(mailer, &MockRenderer{}, testLogger(), time.Second)

	done := make(chan struct{})
	go func() {
		d.Submit(mail.Job{TaskID: "t1", Recipient: "a@example.com"})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Submit blocked on the send")
	}

	<-started
	close(release)
	require.NoError(t, d.Shutdown(context.Background()))
}

func TestDispatcher_FailedJobDoesNotAffectOthers(t *testing.T) {
	mailer := &MockMailer{
		SendFunc: func(ctx context.Context, to, subject, htmlBody string) error {
			if to == "broken@example.com" {
				return errors.New("ses throttled")
			}
			return nil
		},
	}
	d := NewDispatcher(mailer, &MockRenderer{}, testLogger(), time.Second)

	d.Submit(mail.Job{TaskID: "t1", Recipient: "broken@example.com"})
	d.Submit(mail.Job{TaskID: "t2", Recipient: "ok@example.com"})

	require.NoError(t, d.Shutdown(context.Background()))
	assert.Equal(t, []string{"ok@example.com"}, mailer.Recipients())
}

func TestDispatcher_RenderFailureSkipsSend(t *testing.T) {
	mailer := &MockMailer{}
	renderer := &MockRenderer{
		RenderFunc: func(name string, variables map[string]any) (string, error) {
			return "", errors.New("no such template")
		},
	}
	d := NewDispatcher(mailer, renderer, testLogger(), time.Second)

	d.Submit(mail.Job{TaskID: "t1", Recipient: "a@example.com"})

	require.NoError(t, d.Shutdown(context.Background()))
	assert.Empty(t, mailer.Recipients())
}

func TestDispatcher_ShutdownWaitsForInFlight(t *testing.T) {
	release := make(chan struct{})
	mailer := &MockMailer{
		SendFunc: func(ctx context.Context, to, subject, htmlBody string) error {
			<-release
			return nil
		},
	}
	d := NewDispatcher(mailer, &MockRenderer{}, testLogger(), time.Second)

	d.Submit(mail.Job{TaskID: "t1", Recipient: "a@example.com"})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, d.Shutdown(ctx), context.DeadlineExceeded)

	close(release)
	require.NoError(t, d.Shutdown(context.Background()))
	assert.Equal(t, []string{"a@example.com"}, mailer.Recipients())
}
