package pubsub

import (
	"context"
	"time"
)

type Pack struct {
	Key []byte
	Msg []byte
}

type Publisher interface {
	Publish(context.Context, string, *Pack) error
}

type SubscribeHandler func(context.Context, *Pack, time.Time)

type Subscriber interface {
	// Subscribe blocks until the subscriber is ready to consume messages, the
	// consumption continues in background until ctx is cancelled.
	Subscribe(ctx context.Context)
	Stop(ctx context.Context) error
}
