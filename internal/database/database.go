package database

import (
	"context"

	"cloud.google.com/go/firestore"
)

type ChangeEvent struct {
	Change firestore.DocumentChange
	Err    error
}

// SnapshotEvent carries every document matched by a query at one point in time.
type SnapshotEvent struct {
	Docs []*firestore.DocumentSnapshot
	Err  error
}

// DocEvent carries one version of a single document. Doc.Exists() is false
// when the document was deleted or never created.
type DocEvent struct {
	Doc *firestore.DocumentSnapshot
	Err error
}

// FIXME: this interface is very much firestore dependant. It should be decoupled from the underlying db technology
type Client interface {
	NotifyOnChanges(ctx context.Context, it *firestore.QuerySnapshotIterator, kind firestore.DocumentChangeKind) <-chan ChangeEvent
	NotifyOnSnapshots(ctx context.Context, it *firestore.QuerySnapshotIterator) <-chan SnapshotEvent
	NotifyOnDocSnapshots(ctx context.Context, it *firestore.DocumentSnapshotIterator) <-chan DocEvent
	GetDoc(ctx context.Context, docRef *firestore.DocumentRef) (*firestore.DocumentSnapshot, error)
	GetDocs(ctx context.Context, query firestore.Query) ([]*firestore.DocumentSnapshot, error)
	UpdateDoc(ctx context.Context, docRef *firestore.DocumentRef, updates []firestore.Update, preconds ...firestore.Precondition) (_ *firestore.WriteResult, err error)
	SetDoc(ctx context.Context, docRef *firestore.DocumentRef, data interface{}, opts ...firestore.SetOption) (_ *firestore.WriteResult, err error)
	RunTransaction(ctx context.Context, f func(context.Context, *firestore.Transaction) error, opts ...firestore.TransactionOption) error
	Collection(path string) *firestore.CollectionRef
	DeleteColl(ctx context.Context, collRef *firestore.CollectionRef) (int, error)
}
