package queue

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
)

func testQueue(t *testing.T) *Queue {
	t.Helper()

	mr := miniredis.RunT(t)
	q, err := NewQueue("redis://"+mr.Addr(), "test_jobs")
	require.NoError(t, err)
	t.Cleanup(func() { q.Close() })

	return q
}

func TestEnqueueDequeueComplete(t *testing.T) {
	q := testQueue(t)
	ctx := context.Background()

	require.NoError(t, q.Enqueue(ctx, JobTypeRecordPayment, map[string]interface{}{
		"request_id": "req-1",
	}))

	job, err := q.Dequeue(ctx, time.Second)
	require.NoError(t, err)
	require.NotNil(t, job)
	require.Equal(t, JobTypeRecordPayment, job.Type)
	require.Equal(t, "req-1", job.Data["request_id"])

	// Dequeued jobs sit on the processing list until acknowledged.
	count, err := q.client.LLen(ctx, q.processing).Result()
	require.NoError(t, err)
	require.Equal(t, int64(1), count)

	require.NoError(t, q.CompleteJob(ctx, job))

	count, err = q.client.LLen(ctx, q.processing).Result()
	require.NoError(t, err)
	require.Zero(t, count)
}

func TestFailJobClearsProcessingAndSchedulesRetry(t *testing.T) {
	q := testQueue(t)
	ctx := context.Background()

	require.NoError(t, q.Enqueue(ctx, JobTypeCompleteThreeDS, map[string]interface{}{
		"conversation_id": "conv-1",
		"payment_id":      "pay-1",
	}))

	job, err := q.Dequeue(ctx, time.Second)
	require.NoError(t, err)
	require.NotNil(t, job)

	require.NoError(t, q.FailJob(ctx, job, fmt.Errorf("database unavailable")))

	// The processing entry must be gone, not stranded.
	count, err := q.client.LLen(ctx, q.processing).Result()
	require.NoError(t, err)
	require.Zero(t, count)

	delayed, err := q.client.ZCard(ctx, q.delayed).Result()
	require.NoError(t, err)
	require.Equal(t, int64(1), delayed)

	require.Equal(t, 1, job.RetryCount)
	require.Equal(t, "database unavailable", job.Data["last_error"])
}

func TestEnqueueDelayedBecomesVisibleWhenDue(t *testing.T) {
	q := testQueue(t)
	ctx := context.Background()

	// Already due, but still invisible until the mover runs.
	require.NoError(t, q.EnqueueDelayed(ctx, JobTypeRecordPayment, map[string]interface{}{
		"request_id": "req-1",
	}, -time.Second))

	job, err := q.Dequeue(ctx, 100*time.Millisecond)
	require.NoError(t, err)
	require.Nil(t, job)

	require.NoError(t, q.ProcessDelayedJobs(ctx))

	job, err = q.Dequeue(ctx, time.Second)
	require.NoError(t, err)
	require.NotNil(t, job)
	require.Equal(t, JobTypeRecordPayment, job.Type)
	require.Equal(t, "req-1", job.Data["request_id"])
}

func TestProcessDelayedJobsLeavesFutureJobsAlone(t *testing.T) {
	q := testQueue(t)
	ctx := context.Background()

	require.NoError(t, q.EnqueueDelayed(ctx, JobTypeRecordPayment, map[string]interface{}{
		"request_id": "req-1",
	}, time.Hour))

	require.NoError(t, q.ProcessDelayedJobs(ctx))

	job, err := q.Dequeue(ctx, 100*time.Millisecond)
	require.NoError(t, err)
	require.Nil(t, job)

	delayed, err := q.client.ZCard(ctx, q.delayed).Result()
	require.NoError(t, err)
	require.Equal(t, int64(1), delayed)
}
