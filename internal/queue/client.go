package queue

import "context"

// Client sends delivery jobs to a queue backend.
type Client interface {
	Send(ctx context.Context, job DeliveryJob) error
}
