package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sudha-chandrann/WorkTrackBackend/internal/models"
	"github.com/sudha-chandrann/WorkTrackBackend/internal/repository"
)

// Service is the business logic layer for comment collaboration. It holds
// the repositories and enforces the validation, authorization, and list
// maintenance rules around comment CRUD.
type Service struct {
	logger   *logrus.Logger
	Todos    repository.TodoRepository
	Comments repository.CommentRepository
	Teams    repository.TeamRepository
	Users    repository.UserRepository
}

// New creates a new Service with all required dependencies.
func New(logger *logrus.Logger,
	todos repository.TodoRepository,
	comments repository.CommentRepository,
	teams repository.TeamRepository,
	users repository.UserRepository,
) *Service {
	return &Service{
		logger: logger,
		Todos:  todos, Comments: comments, Teams: teams, Users: users,
	}
}

// AddCommentInput carries an addCommentToTodo request. Field presence is not
// validated here: add has never gated on required fields, and clients depend
// on that (edit and delete do gate — see requireFields).
type AddCommentInput struct {
	TodoID  string
	Comment string
	TeamID  string
	UserID  string
}

// EditCommentInput carries an editTodoComment request. All fields required.
type EditCommentInput struct {
	TodoID      string
	EditContent string
	TeamID      string
	UserID      string
	CommentID   string
}

// DeleteCommentInput carries a deleteTodoComment request. All fields required.
type DeleteCommentInput struct {
	TodoID    string
	TeamID    string
	UserID    string
	CommentID string
}

// AddComment creates a comment on a todo, appends it to the todo's comment
// list, and returns the comment with its author populated for broadcast.
func (s *Service) AddComment(ctx context.Context, in AddCommentInput) (*models.Comment, error) {
	todoID, err := primitive.ObjectIDFromHex(in.TodoID)
	if err != nil {
		// An id that cannot reference any document reads as absent.
		return nil, ErrTodoNotFound
	}
	if _, err := s.Todos.GetByID(ctx, todoID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTodoNotFound
		}
		return nil, fmt.Errorf("failed to look up todo %s: %w", in.TodoID, err)
	}

	authorID, err := primitive.ObjectIDFromHex(in.UserID)
	if err != nil {
		return nil, fmt.Errorf("invalid author id %q: %w", in.UserID, err)
	}

	comment, err := s.Comments.Create(ctx, &models.Comment{
		TaskRef:  todoID,
		OnModel:  models.CommentTargetTodo,
		AuthorID: authorID,
		Content:  in.Comment,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	if err := s.Todos.PushComment(ctx, todoID, comment.ID); err != nil {
		// The comment record exists but is not referenced by the todo.
		// There is no rollback; the orphan is an accepted inconsistency.
		return nil, fmt.Errorf("failed to attach comment %s to todo %s: %w",
			comment.ID.Hex(), in.TodoID, err)
	}

	s.checkTeam(ctx, in.TeamID)

	populated, err := s.populatedComment(ctx, comment.ID)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"todo_id":    in.TodoID,
		"comment_id": comment.ID.Hex(),
		"user_id":    in.UserID,
	}).Info("Comment added")

	return populated, nil
}

// EditComment updates a comment's content on behalf of its author and returns
// the comment with its author populated for broadcast.
func (s *Service) EditComment(ctx context.Context, in EditCommentInput) (*models.Comment, error) {
	if err := requireFields(map[string]string{
		"todoId":      in.TodoID,
		"editContent": in.EditContent,
		"teamId":      in.TeamID,
		"userId":      in.UserID,
		"commentId":   in.CommentID,
	}); err != nil {
		s.logger.WithError(err).Warn("Edit comment request rejected")
		return nil, ErrMissingFields
	}

	comment, err := s.authoredComment(ctx, in.CommentID, in.UserID)
	if err != nil {
		return nil, err
	}

	// Existence check only; the todo itself is not touched by an edit.
	todoID, err := primitive.ObjectIDFromHex(in.TodoID)
	if err != nil {
		return nil, ErrTodoNotFound
	}
	if _, err := s.Todos.GetByID(ctx, todoID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTodoNotFound
		}
		return nil, fmt.Errorf("failed to look up todo %s: %w", in.TodoID, err)
	}

	if err := s.Comments.UpdateContent(ctx, comment.ID, in.EditContent); err != nil {
		return nil, fmt.Errorf("failed to update comment %s: %w", in.CommentID, err)
	}

	populated, err := s.populatedComment(ctx, comment.ID)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"todo_id":    in.TodoID,
		"comment_id": in.CommentID,
		"user_id":    in.UserID,
	}).Info("Comment edited")

	return populated, nil
}

// DeleteComment removes a comment on behalf of its author and detaches it
// from the owning todo's comment list.
func (s *Service) DeleteComment(ctx context.Context, in DeleteCommentInput) error {
	if err := requireFields(map[string]string{
		"todoId":    in.TodoID,
		"teamId":    in.TeamID,
		"userId":    in.UserID,
		"commentId": in.CommentID,
	}); err != nil {
		s.logger.WithError(err).Warn("Delete comment request rejected")
		return ErrMissingFields
	}

	comment, err := s.authoredComment(ctx, in.CommentID, in.UserID)
	if err != nil {
		return err
	}

	todoID, err := primitive.ObjectIDFromHex(in.TodoID)
	if err != nil {
		return ErrTodoNotFound
	}
	todo, err := s.Todos.GetByID(ctx, todoID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTodoNotFound
		}
		return fmt.Errorf("failed to look up todo %s: %w", in.TodoID, err)
	}

	// Pulling an id the list does not contain is a no-op, so a dangling
	// reference never blocks the delete. It still gets a warning: the list
	// and the comment collection are meant to agree.
	if !todo.HasComment(comment.ID) {
		s.logger.WithFields(logrus.Fields{
			"todo_id":    in.TodoID,
			"comment_id": in.CommentID,
		}).Warn("Comment missing from the todo's list on delete")
	}
	if err := s.Todos.PullComment(ctx, todoID, comment.ID); err != nil {
		return fmt.Errorf("failed to detach comment %s from todo %s: %w",
			in.CommentID, in.TodoID, err)
	}

	if err := s.Comments.Delete(ctx, comment.ID); err != nil {
		return fmt.Errorf("failed to delete comment %s: %w", in.CommentID, err)
	}

	s.logger.WithFields(logrus.Fields{
		"todo_id":    in.TodoID,
		"comment_id": in.CommentID,
		"user_id":    in.UserID,
	}).Info("Comment deleted")

	return nil
}

// authoredComment fetches a comment and verifies the requesting user wrote it.
func (s *Service) authoredComment(ctx context.Context, commentID, userID string) (*models.Comment, error) {
	id, err := primitive.ObjectIDFromHex(commentID)
	if err != nil {
		return nil, ErrCommentNotFound
	}

	comment, err := s.Comments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, fmt.Errorf("failed to look up comment %s: %w", commentID, err)
	}

	if !comment.IsAuthoredBy(userID) {
		return nil, ErrNotCommentAuthor
	}
	return comment, nil
}

// populatedComment re-reads a comment and attaches the author's display
// fields. A missing author leaves the populated field empty rather than
// failing the operation.
func (s *Service) populatedComment(ctx context.Context, id primitive.ObjectID) (*models.Comment, error) {
	comment, err := s.Comments.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to re-read comment %s: %w", id.Hex(), err)
	}

	author, err := s.Users.GetByID(ctx, comment.AuthorID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.WithField("user_id", comment.AuthorID.Hex()).
				Warn("Comment author not found while populating")
			return comment, nil
		}
		return nil, fmt.Errorf("failed to populate author %s: %w", comment.AuthorID.Hex(), err)
	}

	comment.Author = author
	return comment, nil
}

// checkTeam verifies the team exists before broadcasting to its room. A
// missing team never fails the operation; the broadcast may simply reach an
// empty room.
func (s *Service) checkTeam(ctx context.Context, teamID string) {
	id, err := primitive.ObjectIDFromHex(teamID)
	if err != nil {
		s.logger.WithField("team_id", teamID).Warn("Invalid team id on comment operation")
		return
	}
	if _, err := s.Teams.GetByID(ctx, id); err != nil {
		s.logger.WithError(err).WithField("team_id", teamID).
			Warn("Team lookup failed on comment operation")
	}
}

// requireFields checks every value is non-empty and reports all missing
// fields at once.
func requireFields(fields map[string]string) error {
	var result *multierror.Error
	for name, value := range fields {
		if value == "" {
			result = multierror.Append(result, fmt.Errorf("field %q is required", name))
		}
	}
	return result.ErrorOrNil()
}
