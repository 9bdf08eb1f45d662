package remotejob

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tunereel/models"
)

func testClient(maxAttempts int) *Client {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return New(log, Options{PollInterval: time.Millisecond, MaxAttempts: maxAttempts})
}

// fakeProvider scripts the vendor's behavior.
type fakeProvider struct {
	submission *Submission
	submitErr  error
	statuses   []*Status
	pollErr    error
	polls      int
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Submit(ctx context.Context) (*Submission, error) {
	return f.submission, f.submitErr
}

func (f *fakeProvider) Poll(ctx context.Context, taskID string) (*Status, error) {
	if f.pollErr != nil {
		return nil, f.pollErr
	}
	f.polls++
	if f.polls <= len(f.statuses) {
		return f.statuses[f.polls-1], nil
	}
	return &Status{State: StatusProcessing}, nil
}

func TestRunSynchronousResult(t *testing.T) {
	p := &fakeProvider{submission: &Submission{Result: "https://cdn/song.mp3"}}
	job, err := testClient(3).Run(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, StateCompleted, job.State)
	assert.Equal(t, "https://cdn/song.mp3", job.Result)
	assert.Zero(t, job.Attempts)
	assert.Zero(t, p.polls)
}

func TestRunSynchronousEmptyResultIsProviderError(t *testing.T) {
	p := &fakeProvider{submission: &Submission{Raw: `{"status":"ok"}`}}
	job, err := testClient(3).Run(context.Background(), p)
	var perr *models.ProviderError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, `{"status":"ok"}`, perr.Raw)
	assert.Equal(t, StateFailed, job.State)
}

func TestRunPollsToCompletion(t *testing.T) {
	p := &fakeProvider{
		submission: &Submission{TaskID: "task-1"},
		statuses: []*Status{
			{State: StatusProcessing},
			{State: StatusCompleted, Result: "https://cdn/video.mp4"},
		},
	}
	job, err := testClient(5).Run(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, StateCompleted, job.State)
	assert.Equal(t, "https://cdn/video.mp4", job.Result)
	assert.Equal(t, 2, job.Attempts)
}

func TestRunTimesOutDistinctFromFailure(t *testing.T) {
	p := &fakeProvider{submission: &Submission{TaskID: "task-1"}}
	job, err := testClient(3).Run(context.Background(), p)

	var terr *models.JobTimeoutError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, 3, terr.Attempts)
	assert.Equal(t, StateTimedOut, job.State)

	var perr *models.ProviderError
	assert.False(t, errors.As(err, &perr), "timeout must not be a provider error")
}

func TestRunProviderReportedFailure(t *testing.T) {
	p := &fakeProvider{
		submission: &Submission{TaskID: "task-1"},
		statuses:   []*Status{{State: StatusFailed, Raw: `{"error":"nsfw"}`}},
	}
	job, err := testClient(3).Run(context.Background(), p)

	var perr *models.ProviderError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, `{"error":"nsfw"}`, perr.Raw)
	assert.Equal(t, StateFailed, job.State)
}

func TestRunCompletedWithoutResultIsProviderError(t *testing.T) {
	p := &fakeProvider{
		submission: &Submission{TaskID: "task-1"},
		statuses:   []*Status{{State: StatusCompleted, Raw: `{"status":"completed"}`}},
	}
	job, err := testClient(3).Run(context.Background(), p)

	var perr *models.ProviderError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, StateFailed, job.State)
	assert.Empty(t, job.Result)
}

func TestRunHonorsCancellationBetweenPolls(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)
	client := New(log, Options{PollInterval: time.Hour, MaxAttempts: 5})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := &fakeProvider{submission: &Submission{TaskID: "task-1"}}
	job, err := client.Run(ctx, p)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, StateFailed, job.State)
	assert.Zero(t, p.polls, "no poll may run after cancellation")
}

func TestRunSubmitErrorPropagates(t *testing.T) {
	boom := errors.New("boom")
	p := &fakeProvider{submitErr: boom}
	job, err := testClient(3).Run(context.Background(), p)
	require.ErrorIs(t, err, boom)
	assert.Equal(t, StateFailed, job.State)
}
