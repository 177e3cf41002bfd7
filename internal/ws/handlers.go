package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/sudha-chandrann/WorkTrackBackend/internal/metrics"
	"github.com/sudha-chandrann/WorkTrackBackend/internal/service"
)

// Handlers binds the socket events to the comment service and the hub.
type Handlers struct {
	svc    *service.Service
	hub    *Hub
	logger *logrus.Logger
}

// NewHandlers creates the event handler set.
func NewHandlers(svc *service.Service, hub *Hub, logger *logrus.Logger) *Handlers {
	return &Handlers{svc: svc, hub: hub, logger: logger}
}

// Register wires every event this backend understands onto the router.
func (h *Handlers) Register(r *Router) {
	r.Register(EventJoinUserRoom, h.JoinUserRoom)
	r.Register(EventJoinTeamRoom, h.JoinTeamRoom)
	r.Register(EventAddComment, h.AddComment)
	r.Register(EventEditComment, h.EditComment)
	r.Register(EventDeleteComment, h.DeleteComment)
}

// ---------------------------------------------------------------------------
// Room joins
// ---------------------------------------------------------------------------

type joinUserRoomRequest struct {
	UserID string `json:"userId"`
}

type joinTeamRoomRequest struct {
	TeamID string `json:"teamId"`
}

// JoinUserRoom adds the connection to the room named after the user id. The
// id is a plain label: nothing checks that the user exists.
func (h *Handlers) JoinUserRoom(ctx context.Context, c *Client, data json.RawMessage) error {
	var req joinUserRoomRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return fmt.Errorf("failed to decode joinUserRoom payload: %w", err)
	}
	if req.UserID == "" {
		return nil
	}

	h.hub.Join(c, req.UserID)
	h.logger.WithFields(logrus.Fields{
		"client_id": c.ID,
		"user_id":   req.UserID,
	}).Info("User joined their room")
	return nil
}

// JoinTeamRoom adds the connection to the team's broadcast room.
func (h *Handlers) JoinTeamRoom(ctx context.Context, c *Client, data json.RawMessage) error {
	var req joinTeamRoomRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return fmt.Errorf("failed to decode joinTeamRoom payload: %w", err)
	}
	if req.TeamID == "" {
		return nil
	}

	h.hub.Join(c, TeamRoom(req.TeamID))
	h.logger.WithFields(logrus.Fields{
		"client_id": c.ID,
		"team_id":   req.TeamID,
	}).Info("Client joined team room")
	return nil
}

// ---------------------------------------------------------------------------
// Comment CRUD
// ---------------------------------------------------------------------------

type addCommentRequest struct {
	TodoID  string `json:"todoId"`
	Comment string `json:"comment"`
	TeamID  string `json:"teamId"`
	UserID  string `json:"userId"`
}

type editCommentRequest struct {
	TodoID      string `json:"todoId"`
	EditContent string `json:"editContent"`
	TeamID      string `json:"teamId"`
	UserID      string `json:"userId"`
	CommentID   string `json:"commentId"`
}

type deleteCommentRequest struct {
	TodoID    string `json:"todoId"`
	TeamID    string `json:"teamId"`
	UserID    string `json:"userId"`
	CommentID string `json:"commentId"`
}

// AddComment creates a comment, broadcasts it to the team room, and
// acknowledges the sender.
func (h *Handlers) AddComment(ctx context.Context, c *Client, data json.RawMessage) error {
	var req addCommentRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return fmt.Errorf("failed to decode addCommentToTodo payload: %w", err)
	}

	comment, err := h.svc.AddComment(ctx, service.AddCommentInput{
		TodoID:  req.TodoID,
		Comment: req.Comment,
		TeamID:  req.TeamID,
		UserID:  req.UserID,
	})
	if err != nil {
		return h.reject(c, EventAddComment, err)
	}

	h.hub.Broadcast(TeamRoom(req.TeamID), EventCommentTodoAdded, CommentPayload{
		Success: true,
		Comment: comment,
		TodoID:  req.TodoID,
	})
	c.Emit(EventCommentAdded, AckPayload{Success: true, Message: "Comment added successfully"})
	return nil
}

// EditComment updates a comment's content, broadcasts the edited comment to
// the team room, and acknowledges the sender.
func (h *Handlers) EditComment(ctx context.Context, c *Client, data json.RawMessage) error {
	var req editCommentRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return fmt.Errorf("failed to decode editTodoComment payload: %w", err)
	}

	comment, err := h.svc.EditComment(ctx, service.EditCommentInput{
		TodoID:      req.TodoID,
		EditContent: req.EditContent,
		TeamID:      req.TeamID,
		UserID:      req.UserID,
		CommentID:   req.CommentID,
	})
	if err != nil {
		return h.reject(c, EventEditComment, err)
	}

	h.hub.Broadcast(TeamRoom(req.TeamID), EventTodoCommentEdited, CommentPayload{
		Success: true,
		Comment: comment,
		TodoID:  req.TodoID,
	})
	c.Emit(EventCommentEditSuccess, AckPayload{Success: true, Message: "Comment updated successfully"})
	return nil
}

// DeleteComment removes a comment, broadcasts the deletion to the team room,
// and acknowledges the sender.
func (h *Handlers) DeleteComment(ctx context.Context, c *Client, data json.RawMessage) error {
	var req deleteCommentRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return fmt.Errorf("failed to decode deleteTodoComment payload: %w", err)
	}

	err := h.svc.DeleteComment(ctx, service.DeleteCommentInput{
		TodoID:    req.TodoID,
		TeamID:    req.TeamID,
		UserID:    req.UserID,
		CommentID: req.CommentID,
	})
	if err != nil {
		return h.reject(c, EventDeleteComment, err)
	}

	h.hub.Broadcast(TeamRoom(req.TeamID), EventTodoCommentDeleted, DeletePayload{
		Success:   true,
		CommentID: req.CommentID,
		TodoID:    req.TodoID,
	})
	c.Emit(EventCommentDeleteSuccess, AckPayload{Success: true, Message: "Comment deleted successfully"})
	return nil
}

// reject answers the sender directly when the service refused the operation
// for a reason the client should see verbatim. Anything else goes back to the
// router boundary, which logs it and emits the generic failure message; the
// raw cause is never forwarded to the client.
func (h *Handlers) reject(c *Client, event string, err error) error {
	if errors.Is(err, service.ErrTodoNotFound) ||
		errors.Is(err, service.ErrCommentNotFound) ||
		errors.Is(err, service.ErrNotCommentAuthor) ||
		errors.Is(err, service.ErrMissingFields) {
		h.logger.WithFields(logrus.Fields{
			"client_id": c.ID,
			"event":     event,
			"reason":    err.Error(),
		}).Info("Request rejected")
		metrics.EventErrors.WithLabelValues(event).Inc()
		c.Emit(EventError, ErrorPayload{Success: false, Message: err.Error()})
		return nil
	}
	return err
}
