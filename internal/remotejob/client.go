// Package remotejob wraps vendor generation calls that may answer
// immediately or hand back a task id that has to be polled to
// completion.
package remotejob

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"tunereel/models"
)

// State of a remote job. Completed, failed and timed-out are terminal.
type State string

const (
	StateSubmitted State = "submitted"
	StatePolling   State = "polling"
	StateCompleted State = "completed"
	StateFailed    State = "failed"
	StateTimedOut  State = "timed-out"
)

// Provider statuses reported by Poll.
const (
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Submission is a provider's answer to the initial request. TaskID
// empty means the provider answered synchronously and Result is final.
type Submission struct {
	TaskID string
	Result string
	Raw    string
}

// Status is a provider's answer to a poll. Result must be resolvable
// when State is StatusCompleted; Raw carries the untouched vendor
// payload for diagnostics.
type Status struct {
	State  string
	Result string
	Raw    string
}

// Provider abstracts one vendor endpoint the client can drive.
type Provider interface {
	Name() string
	Submit(ctx context.Context) (*Submission, error)
	Poll(ctx context.Context, taskID string) (*Status, error)
}

// Job tracks one delegated unit of work through to a terminal state.
// Only the Run loop that created it mutates it.
type Job struct {
	Provider string
	State    State
	TaskID   string
	Result   string
	Attempts int
}

// Options bounds the polling loop. Zero values take the defaults: a
// five second interval and sixty attempts, a five minute ceiling.
type Options struct {
	PollInterval time.Duration
	MaxAttempts  int
}

const (
	defaultPollInterval = 5 * time.Second
	defaultMaxAttempts  = 60
)

// Client drives providers to completion. It performs no storage side
// effects; persisting results is the caller's job.
type Client struct {
	log  *logrus.Logger
	opts Options
}

// New builds a Client with the given defaults applied to every Run.
func New(log *logrus.Logger, opts Options) *Client {
	if opts.PollInterval <= 0 {
		opts.PollInterval = defaultPollInterval
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = defaultMaxAttempts
	}
	return &Client{log: log, opts: opts}
}

// Run submits the provider's request and, when the provider answers
// asynchronously, polls until a terminal status, the attempt budget
// runs out, or ctx is canceled. Cancellation is honored at every poll
// boundary, never mid-write.
//
// A provider status of failed, or completed with no resolvable result,
// surfaces as *models.ProviderError carrying the raw payload. An
// exhausted attempt budget surfaces as *models.JobTimeoutError so the
// caller can tell "vendor said no" from "vendor never answered".
func (c *Client) Run(ctx context.Context, p Provider) (*Job, error) {
	job := &Job{Provider: p.Name(), State: StateSubmitted}

	sub, err := p.Submit(ctx)
	if err != nil {
		job.State = StateFailed
		return job, err
	}

	if sub.TaskID == "" {
		if sub.Result == "" {
			job.State = StateFailed
			return job, &models.ProviderError{
				Provider: p.Name(),
				Message:  "response contained no result",
				Raw:      sub.Raw,
			}
		}
		job.State = StateCompleted
		job.Result = sub.Result
		return job, nil
	}

	job.TaskID = sub.TaskID
	job.State = StatePolling
	c.log.WithFields(logrus.Fields{
		"provider": p.Name(),
		"task_id":  sub.TaskID,
	}).Info("Job accepted, polling for completion")

	timer := time.NewTimer(c.opts.PollInterval)
	defer timer.Stop()

	for job.Attempts < c.opts.MaxAttempts {
		select {
		case <-ctx.Done():
			job.State = StateFailed
			return job, ctx.Err()
		case <-timer.C:
		}
		timer.Reset(c.opts.PollInterval)
		job.Attempts++

		status, err := p.Poll(ctx, job.TaskID)
		if err != nil {
			job.State = StateFailed
			return job, err
		}

		switch status.State {
		case StatusCompleted:
			if status.Result == "" {
				job.State = StateFailed
				return job, &models.ProviderError{
					Provider: p.Name(),
					Message:  "task completed without a result",
					Raw:      status.Raw,
				}
			}
			job.State = StateCompleted
			job.Result = status.Result
			c.log.WithFields(logrus.Fields{
				"provider": p.Name(),
				"task_id":  job.TaskID,
				"attempts": job.Attempts,
			}).Info("Job completed")
			return job, nil
		case StatusFailed:
			job.State = StateFailed
			return job, &models.ProviderError{
				Provider: p.Name(),
				Message:  "task failed",
				Raw:      status.Raw,
			}
		default:
			// still processing; next iteration waits out the interval
		}
	}

	job.State = StateTimedOut
	return job, &models.JobTimeoutError{Provider: p.Name(), Attempts: job.Attempts}
}
