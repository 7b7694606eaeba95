package temporal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultActivityOptions(t *testing.T) {
	opts := DefaultActivityOptions()

	assert.Equal(t, "shipping-quote-queue", opts.TaskQueue)
	assert.Positive(t, opts.StartToCloseTimeout)
	require.NotNil(t, opts.RetryPolicy)
	assert.Equal(t, int32(2), opts.RetryPolicy.MaximumAttempts)
}

func TestDefaultWorkerOptions(t *testing.T) {
	opts := DefaultWorkerOptions(TaskQueues.ShippingQuote)

	assert.Equal(t, TaskQueues.ShippingQuote, opts.TaskQueue)
	assert.Positive(t, opts.MaxConcurrentActivities)
}
