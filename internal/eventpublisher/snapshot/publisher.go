package snapshot

import (
	"context"
	"sync"
	"time"

	"go-firestore-hampter/internal/eventpublisher"
	"go-firestore-hampter/internal/eventpublisher/common"
	"go-firestore-hampter/internal/eventpublisher/event"

	"github.com/rs/zerolog/log"
)

const (
	writeTimeout          = time.Second
	writeFailureThreshold = 3
)

type eventFunc func(context.Context) <-chan event.Event

// SnapshotPublisher fans one snapshot stream out to any number of subscribers.
// Every subscriber receives the snapshots in stream order, and a late subscriber
// first receives the most recent snapshot.
type SnapshotPublisher interface {
	eventpublisher.Publisher
	Start(ctx context.Context) error
}

type snapshotPublisher struct {
	eventType  event.EventType
	eventFn    eventFunc
	submanager *common.SubManager
	publisher  *common.PublisherWithFailureThreshold

	// fanoutMu orders replays against regular fan-outs
	fanoutMu sync.Mutex
	latest   *event.Event
}

func newPublisher(eventType event.EventType, fn eventFunc) *snapshotPublisher {
	return &snapshotPublisher{
		eventType:  eventType,
		eventFn:    fn,
		submanager: common.NewSubManager(),
		publisher:  common.NewPublisherWithFailureThreshold(writeTimeout, writeFailureThreshold),
	}
}

func (p *snapshotPublisher) Subscribe(subscriber event.EventWChannel) {
	p.fanoutMu.Lock()
	defer p.fanoutMu.Unlock()

	p.submanager.Subscribe(subscriber)
	if p.latest == nil {
		return
	}
	if err := p.publisher.Publish(context.Background(), subscriber, *p.latest); err != nil {
		p.Unsubscribe(subscriber)
	}
}

func (p *snapshotPublisher) Unsubscribe(subscriber event.EventWChannel) {
	if p.submanager.Unsubscribe(subscriber) {
		p.publisher.Forget(subscriber)
	}
}

func (p *snapshotPublisher) publish(ctx context.Context, e event.Event) {
	p.fanoutMu.Lock()
	defer p.fanoutMu.Unlock()

	if e.Err == nil {
		p.latest = &e
	}

	p.submanager.OnSubscribers(func(subscriber event.EventWChannel) {
		if err := p.publisher.Publish(ctx, subscriber, e); err != nil {
			log.Warn().Err(err).Msgf("%s publisher: dropping slow subscriber", p.eventType)
			p.Unsubscribe(subscriber)
		}
	})
}

func (p *snapshotPublisher) Start(ctx context.Context) error {
	defer p.submanager.UnsubscribeAll()

	eventsCh := p.eventFn(ctx)
	for {
		select {
		case <-ctx.Done():
			log.Error().Err(ctx.Err()).Msgf("%s publisher stopped", p.eventType)
			return ctx.Err()
		case e, ok := <-eventsCh:
			if !ok {
				return nil
			}
			log.Debug().Msgf("publish %s snapshot to %d subscribers", p.eventType, p.submanager.Len())
			p.publish(ctx, e)
			if e.Err != nil {
				return e.Err
			}
		}
	}
}
