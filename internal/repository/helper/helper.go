package helper

import (
	"context"
	"time"

	"go-firestore-hampter/internal/database"
	"go-firestore-hampter/internal/repository/filter"

	"cloud.google.com/go/firestore"
)

func ApplyWhere(query firestore.Query, where []filter.Where) firestore.Query {
	for _, w := range where {
		query = query.Where(w.Path, w.Op, w.Value)
	}
	return query
}

func NotifyOnChanges(ctx context.Context, db database.Client, query firestore.Query,
	where []filter.Where, kind firestore.DocumentChangeKind, fn func(firestore.DocumentChange, error) error) {

	events := db.NotifyOnChanges(ctx, ApplyWhere(query, where).Snapshots(ctx), kind)

	for e := range events {
		if e.Err != nil {
			fn(e.Change, e.Err)
			return
		}

		if err := fn(e.Change, nil); err != nil {
			return
		}
	}
}

// DrainChannelWithTimeout reads from the eventCh until it is closed, the context is done, the eventProcessor
// returns false or no event arrives within idleTimeout.
// The eventCh is unlikely to close since it is a firestore listener. So the idleTimeout and context are the main ways to stop reading.
func DrainChannelWithTimeout[T any](ctx context.Context, idleTimeout time.Duration, eventCh <-chan T, eventProcessor func(T) bool) {

	timer := time.NewTimer(idleTimeout)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			return
		case e, ok := <-eventCh:
			if !ok {
				return
			}

			if !eventProcessor(e) {
				return
			}

			if !timer.Stop() {
				<-timer.C
			}
			timer.Reset(idleTimeout)
		}
	}
}

// NonblockingWrite is a generic function that can write any type of event to any channel type.
// T is the type parameter for the event.
func NonblockingWrite[T any](ctx context.Context, timeout time.Duration, ch chan<- T, event T) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	select {
	case ch <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ToggleMembership builds the single update that flips member in or out of the set
// at setPath and moves the counter at countPath by one in the same direction.
// present is the caller's belief about the current membership.
func ToggleMembership(countPath, setPath, member string, present bool) []firestore.Update {
	if present {
		return []firestore.Update{
			{Path: countPath, Value: firestore.Increment(-1)},
			{Path: setPath, Value: firestore.ArrayRemove(member)},
		}
	}
	return []firestore.Update{
		{Path: countPath, Value: firestore.Increment(1)},
		{Path: setPath, Value: firestore.ArrayUnion(member)},
	}
}
