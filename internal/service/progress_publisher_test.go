package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNATSProgressPublisherWithoutConnectionSkips(t *testing.T) {
	publisher := NewNATSProgressPublisher(nil, "", testLogger())

	err := publisher.PublishProgress(context.Background(), ProgressEvent{StudentID: 1, CourseID: 2, Percentage: 50})
	require.NoError(t, err)

	impl := publisher.(*natsProgressPublisher)
	require.Equal(t, "elearning.progress", impl.subject)
}
