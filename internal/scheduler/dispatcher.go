package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/taskflow/taskflow/internal/mail"
)

// TemplateRenderer renders a named template with a variable map
type TemplateRenderer interface {
	Render(name string, variables map[string]any) (string, error)
}

// Dispatcher fans out reminder jobs, one goroutine per job. Submission
// is fire-and-forget: the caller never observes send success or failure.
// A failed job is logged with its task id and recipient and then lost -
// at-most-once, no retries, no dead-letter queue.
type Dispatcher struct {
	mailer      mail.Mailer
	renderer    TemplateRenderer
	logger      *slog.Logger
	sendTimeout time.Duration
	wg          sync.WaitGroup
}

func NewDispatcher(mailer mail.Mailer, renderer TemplateRenderer, logger *slog.Logger, sendTimeout time.Duration) *Dispatcher {
	return &Dispatcher{
		mailer:      mailer,
		renderer:    renderer,
		logger:      logger,
		sendTimeout: sendTimeout,
	}
}

// Submit enqueues the job and returns immediately. Jobs carry no shared
// mutable state, so jobs from overlapping ticks may interleave freely.
func (d *Dispatcher) Submit(job mail.Job) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.send(job)
	}()
}

func (d *Dispatcher) send(job mail.Job) {
	ctx, cancel := context.WithTimeout(context.Background(), d.sendTimeout)
	defer cancel()

	htmlBody, err := d.renderer.Render(job.Template, job.Variables)
	if err != nil {
		d.logger.Error("reminder render failed",
			slog.String("task_id", job.TaskID),
			slog.String("recipient", job.Recipient),
			slog.Any("error", err),
		)
		return
	}

	if err := d.mailer.Send(ctx, job.Recipient, job.Subject, htmlBody); err != nil {
		d.logger.Error("reminder send failed",
			slog.String("task_id", job.TaskID),
			slog.String("recipient", job.Recipient),
			slog.Any("error", err),
		)
		return
	}

	d.logger.Debug("reminder sent",
		slog.String("task_id", job.TaskID),
		slog.String("recipient", job.Recipient),
	)
}

// Shutdown waits for in-flight jobs to finish or the context to expire.
// Jobs are never cancelled mid-send; this only bounds how long the
// caller waits for them.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
