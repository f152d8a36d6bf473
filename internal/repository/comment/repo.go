package comment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go-firestore-hampter/internal/database"
	ierr "go-firestore-hampter/internal/errors"
	"go-firestore-hampter/internal/model"
	"go-firestore-hampter/internal/repository/filter"
	"go-firestore-hampter/internal/repository/helper"
	"go-firestore-hampter/internal/repository/videostats"

	"cloud.google.com/go/firestore"
	"github.com/rs/zerolog/log"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type CommentRepository struct {
	db database.Client
}

var _ IRepository = CommentRepository{}

func New(db database.Client) CommentRepository {
	return CommentRepository{
		db: db,
	}
}

func (r CommentRepository) GetById(ctx context.Context, id string) (*model.Comment, error) {
	if id == "" {
		return nil, ierr.NotFound
	}

	docSnap, err := r.db.GetDoc(ctx, r.db.Collection(commentNode).Doc(id))
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ierr.NotFound
		}
		return nil, fmt.Errorf("get comment: %w, id: %s", err, id)
	}

	comment, err := docToComment(docSnap)
	if err != nil {
		return nil, fmt.Errorf("get comment: %w, id: %s", err, id)
	}
	return &comment, nil
}

// List returns every comment, oldest first.
func (r CommentRepository) List(ctx context.Context) ([]model.Comment, error) {
	docs, err := r.db.GetDocs(ctx, r.orderedQuery())
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return docsToComments(docs), nil
}

// Add stores a new comment, bumps the comment counter of the video and links a
// reply to its parent. The parent must exist. The writes are not atomic: when a
// later write fails the new id is returned together with the error.
func (r CommentRepository) Add(ctx context.Context, data model.NewComment) (string, error) {
	if data.IsEmpty() {
		return "", ierr.ErrEmptyComment
	}

	comment := newComment(data)
	if comment.IsReply() {
		if _, err := r.GetById(ctx, *comment.ParentId); err != nil {
			return "", fmt.Errorf("add comment: get parent: %w, parent: %s", err, *comment.ParentId)
		}
	}

	docRef := r.db.Collection(commentNode).NewDoc()
	if _, err := r.db.SetDoc(ctx, docRef, comment); err != nil {
		return "", fmt.Errorf("add comment: %w, id: %s", err, docRef.ID)
	}

	countUpdate := []firestore.Update{{Path: videostats.CommentsCountFieldPath, Value: firestore.Increment(1)}}
	if _, err := r.db.UpdateDoc(ctx, videostats.DocRef(r.db), countUpdate); err != nil {
		return docRef.ID, fmt.Errorf("add comment: increment count: %w, id: %s", err, docRef.ID)
	}

	if comment.IsReply() {
		parentRef := r.db.Collection(commentNode).Doc(*comment.ParentId)
		replyUpdate := []firestore.Update{{Path: RepliesFieldPath, Value: firestore.ArrayUnion(docRef.ID)}}
		if _, err := r.db.UpdateDoc(ctx, parentRef, replyUpdate); err != nil {
			return docRef.ID, fmt.Errorf("add comment: link reply: %w, id: %s, parent: %s", err, docRef.ID, *comment.ParentId)
		}
	}

	return docRef.ID, nil
}

func (r CommentRepository) ToggleLike(ctx context.Context, id, username string, currentlyLiked bool) error {
	docRef := r.db.Collection(commentNode).Doc(id)
	updates := helper.ToggleMembership(LikesFieldPath, LikedByFieldPath, username, currentlyLiked)

	if _, err := r.db.UpdateDoc(ctx, docRef, updates); err != nil {
		if status.Code(err) == codes.NotFound {
			return fmt.Errorf("toggle comment like: %w, id: %s", ierr.NotFound, id)
		}
		return fmt.Errorf("toggle comment like: %w, id: %s", err, id)
	}
	return nil
}

// DeleteAll removes every comment and returns how many were removed.
func (r CommentRepository) DeleteAll(ctx context.Context) (int, error) {
	n, err := r.db.DeleteColl(ctx, r.db.Collection(commentNode))
	if err != nil {
		return n, fmt.Errorf("delete comments: %w", err)
	}
	return n, nil
}

// Subscribe emits the full comment list, oldest first, every time a comment is
// added, changed or removed. Cancel ctx to stop listening; the channel is closed then.
func (r CommentRepository) Subscribe(ctx context.Context) <-chan CommentsEvent {

	ch := make(chan CommentsEvent)
	var writeFailureCount, writeFailureThreshold = 0, 3

	go func() {
		defer close(ch)

		for e := range r.db.NotifyOnSnapshots(ctx, r.orderedQuery().Snapshots(ctx)) {
			if writeFailureCount > writeFailureThreshold {
				log.Error().Msg("comment repo: write failure threshould reached")
				return
			}

			if e.Err != nil {
				log.Error().Err(e.Err).Msg("comment repo: failed to read comment snapshots")
				helper.NonblockingWrite[CommentsEvent](ctx, channelWriteTimeout, ch, CommentsEvent{Err: e.Err})
				return
			}

			event := CommentsEvent{Comments: docsToComments(e.Docs)}
			if err := helper.NonblockingWrite[CommentsEvent](ctx, channelWriteTimeout, ch, event); err != nil {
				writeFailureCount++
			}
		}
	}()

	return ch
}

func (r CommentRepository) NotifyOnAdded(ctx context.Context, where []filter.Where) <-chan CommentEvent {
	query := r.db.Collection(commentNode).Query
	return r.notifyOnChanges(ctx, query, where, firestore.DocumentAdded)
}

func (r CommentRepository) notifyOnChanges(ctx context.Context, query firestore.Query, where []filter.Where, kind firestore.DocumentChangeKind) <-chan CommentEvent {

	ch := make(chan CommentEvent)
	var writeFailureCount, writeFailureThreshold = 0, 3

	go func() {
		defer close(ch)

		helper.NotifyOnChanges(ctx, r.db, query, where, kind, func(dc firestore.DocumentChange, err error) error {

			if writeFailureCount > writeFailureThreshold {
				return fmt.Errorf("write failure threshould reached")
			}

			if err != nil && !(errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
				log.Error().Err(err).Msg("comment repo: failed to read comment events")
				helper.NonblockingWrite[CommentEvent](ctx, channelWriteTimeout, ch, CommentEvent{Err: err})
				return err
			}

			comment, err := docToComment(dc.Doc)
			if err != nil {
				log.Error().Err(err).Msg("comment repo: failed to convert doc to comment")
				return nil
			}

			if err := helper.NonblockingWrite[CommentEvent](ctx, channelWriteTimeout, ch, CommentEvent{Comment: comment}); err != nil {
				writeFailureCount++
			}

			return nil
		})
	}()

	return ch
}

func (r CommentRepository) orderedQuery() firestore.Query {
	return r.db.Collection(commentNode).OrderBy(TimestampFieldPath, firestore.Asc)
}

func newComment(data model.NewComment) model.Comment {
	comment := model.Comment{
		Username: data.Username,
		UserPfp:  data.ProfileImageUrl,
		Text:     trimmed(data.Text),
		ImageUrl: trimmed(data.ImageUrl),
		ParentId: trimmed(data.ParentId),
		Likes:    0,
		LikedBy:  []string{},
		Replies:  []string{},
	}
	return comment
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func docToComment(doc *firestore.DocumentSnapshot) (model.Comment, error) {
	comment := model.Comment{}
	if doc == nil || !doc.Exists() {
		return comment, ierr.NotFound
	}
	if err := doc.DataTo(&comment); err != nil {
		return comment, err
	}
	comment.Id = doc.Ref.ID
	if comment.LikedBy == nil {
		comment.LikedBy = []string{}
	}
	if comment.Replies == nil {
		comment.Replies = []string{}
	}
	return comment, nil
}

func docsToComments(docs []*firestore.DocumentSnapshot) []model.Comment {
	comments := make([]model.Comment, 0, len(docs))
	for _, doc := range docs {
		comment, err := docToComment(doc)
		if err != nil {
			log.Error().Err(err).Msg("comment repo: failed to convert doc to comment")
			continue
		}
		comments = append(comments, comment)
	}
	return comments
}
