package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	// Firestore rejects batches with more than 500 writes
	maxBatchSize = 500

	errToleranceCap = 20
	deliverTimeout  = time.Minute
)

type snapEvent[T any] struct {
	snap T
	err  error
}

type FirestoreClient struct {
	*firestore.Client
	writeTimeout time.Duration
}

func New(client *firestore.Client, writeTimeout time.Duration) FirestoreClient {
	if writeTimeout <= 0 {
		writeTimeout = time.Second * 120
	}
	return FirestoreClient{
		Client:       client,
		writeTimeout: writeTimeout,
	}
}

// This function listens to the given SnapshotIterator and put all the events on the ChangeEvent channel.
// The cicuite breaker pattern here defines a error rate tolarance cap. If the listener raises error more than
// the given cap, it stops the listener and closes the ChangeEvent channel.
func (c FirestoreClient) NotifyOnChanges(ctx context.Context, it *firestore.QuerySnapshotIterator, kind firestore.DocumentChangeKind) <-chan ChangeEvent {

	ch := make(chan ChangeEvent)

	go func() {
		defer close(ch)

		eventCh := registerEventListener(ctx, it.Next, it.Stop)
		forEachSnapshot(ctx, eventCh, ch, func(snap *firestore.QuerySnapshot) {
			for _, change := range snap.Changes {
				if change.Kind != kind || change.Doc == nil || !change.Doc.Exists() {
					continue
				}
				deliver(ctx, ch, ChangeEvent{Change: change})
			}
		}, func(err error) ChangeEvent { return ChangeEvent{Err: err} })
	}()

	return ch
}

// NotifyOnSnapshots emits the complete result set of the query every time any
// matching document is added, modified or removed.
func (c FirestoreClient) NotifyOnSnapshots(ctx context.Context, it *firestore.QuerySnapshotIterator) <-chan SnapshotEvent {

	ch := make(chan SnapshotEvent)

	go func() {
		defer close(ch)

		eventCh := registerEventListener(ctx, it.Next, it.Stop)
		forEachSnapshot(ctx, eventCh, ch, func(snap *firestore.QuerySnapshot) {
			docs, err := snap.Documents.GetAll()
			if err != nil {
				log.Error().Err(err).Msg("error reading snapshot documents")
				return
			}
			deliver(ctx, ch, SnapshotEvent{Docs: docs})
		}, func(err error) SnapshotEvent { return SnapshotEvent{Err: err} })
	}()

	return ch
}

// NotifyOnDocSnapshots emits every version of a single document.
func (c FirestoreClient) NotifyOnDocSnapshots(ctx context.Context, it *firestore.DocumentSnapshotIterator) <-chan DocEvent {

	ch := make(chan DocEvent)

	go func() {
		defer close(ch)

		eventCh := registerEventListener(ctx, it.Next, it.Stop)
		forEachSnapshot(ctx, eventCh, ch, func(doc *firestore.DocumentSnapshot) {
			deliver(ctx, ch, DocEvent{Doc: doc})
		}, func(err error) DocEvent { return DocEvent{Err: err} })
	}()

	return ch
}

// forEachSnapshot drains eventCh, handing every healthy snapshot to fn. Errors are
// tolerated up to errToleranceCap, after which the last one is forwarded on out.
func forEachSnapshot[T any, E any](ctx context.Context, eventCh <-chan snapEvent[T], out chan<- E, fn func(T), toErr func(error) E) {
	errCnt := 0
	for event := range eventCh {
		if event.err != nil {
			if IsContextErr(event.err) {
				return
			}

			log.Error().Err(event.err).Msg("error reading events")
			errCnt++
			if errCnt < errToleranceCap {
				continue
			}
			deliver(ctx, out, toErr(event.err))
			return
		}
		fn(event.snap)
	}
}

// FIXME: make this logic more rubust and configurable
func deliver[E any](ctx context.Context, ch chan<- E, e E) {
	select {
	case ch <- e:
	case <-ctx.Done():
	case <-time.After(deliverTimeout):
		log.Error().Msg("timedout to deliver a change to the client")
	}
}

// registerEventListener keeps the listener open until context is cancelled
func registerEventListener[T any](ctx context.Context, next func() (T, error), stop func()) <-chan snapEvent[T] {

	threshold := 5
	retry := 0
	c := make(chan snapEvent[T])
	go func() {
		defer close(c)
		defer stop()

		for {
			snap, err := next()
			if err == iterator.Done {
				return
			}

			select {
			case <-ctx.Done():
				return
			case c <- snapEvent[T]{snap, err}:
				continue
			case <-time.After(time.Second * 10):
				log.Error().Msg("timedout to deliver a snapshot to the client")
				retry++
				if retry > threshold {
					return
				}
			}
		}
	}()

	return c
}

// IsContextErr reports whether err is a cancellation or deadline, either raw or
// as returned by the grpc transport.
func IsContextErr(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	switch status.Code(err) {
	case codes.Canceled, codes.DeadlineExceeded:
		return true
	}
	// The error is not always wrapped properly, so errors.Is() does not work
	return strings.Contains(err.Error(), "context canceled") || strings.Contains(err.Error(), "context deadline exceeded")
}

// GetDoc reads a single document. A missing document is reported with codes.NotFound.
func (c FirestoreClient) GetDoc(ctx context.Context, docRef *firestore.DocumentRef) (*firestore.DocumentSnapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, c.writeTimeout)
	defer cancel()

	docSnapshot, err := docRef.Get(ctx)
	if err != nil {
		return nil, err
	}

	if !docSnapshot.Exists() {
		return nil, status.Errorf(codes.NotFound, "doc snapshot does not exist, path: %s", docRef.Path)
	}

	return docSnapshot, nil
}

func (c FirestoreClient) GetDocs(ctx context.Context, query firestore.Query) ([]*firestore.DocumentSnapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, c.writeTimeout)
	defer cancel()

	return query.Documents(ctx).GetAll()
}

func (c FirestoreClient) UpdateDoc(ctx context.Context, docRef *firestore.DocumentRef, updates []firestore.Update, preconds ...firestore.Precondition) (_ *firestore.WriteResult, err error) {
	ctx, cancel := context.WithTimeout(ctx, c.writeTimeout)
	defer cancel()

	return docRef.Update(ctx, updates, preconds...)
}

func (c FirestoreClient) SetDoc(ctx context.Context, docRef *firestore.DocumentRef, data interface{}, opts ...firestore.SetOption) (_ *firestore.WriteResult, err error) {
	ctx, cancel := context.WithTimeout(ctx, c.writeTimeout)
	defer cancel()

	return docRef.Set(ctx, data, opts...)
}

// DeleteColl removes every top level document of collRef in batches and returns
// how many were deleted. Subcollections of the deleted docs are left untouched.
func (c FirestoreClient) DeleteColl(ctx context.Context, collRef *firestore.CollectionRef) (int, error) {
	deleted := 0
	for {
		refs, err := collRef.Limit(maxBatchSize).Documents(ctx).GetAll()
		if err != nil {
			return deleted, fmt.Errorf("delete collection: %w, path: %s", err, collRef.Path)
		}
		if len(refs) == 0 {
			return deleted, nil
		}

		batch := c.Client.Batch()
		for _, doc := range refs {
			batch.Delete(doc.Ref)
		}

		wctx, cancel := context.WithTimeout(ctx, c.writeTimeout)
		_, err = batch.Commit(wctx)
		cancel()
		if err != nil {
			return deleted, fmt.Errorf("delete collection: %w, path: %s", err, collRef.Path)
		}
		deleted += len(refs)
	}
}
