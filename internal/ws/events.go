package ws

import (
	"encoding/json"

	"github.com/sudha-chandrann/WorkTrackBackend/internal/models"
)

// Inbound event names.
const (
	EventJoinUserRoom  = "joinUserRoom"
	EventJoinTeamRoom  = "joinTeamRoom"
	EventAddComment    = "addCommentToTodo"
	EventEditComment   = "editTodoComment"
	EventDeleteComment = "deleteTodoComment"
)

// Outbound event names. The casing is uneven because deployed clients already
// listen on these exact strings.
const (
	EventError                = "error"
	EventCommentTodoAdded     = "commenttodoAdded"
	EventCommentAdded         = "commentAdded"
	EventTodoCommentEdited    = "todoCommentEdited"
	EventCommentEditSuccess   = "TodocommentEditSuccess"
	EventTodoCommentDeleted   = "todoCommentDeleted"
	EventCommentDeleteSuccess = "commentDeleteSuccess"
)

// Envelope is the wire format in both directions: an event name plus a bare
// JSON record.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// TeamRoom returns the room key for a team id.
func TeamRoom(teamID string) string {
	return "team:" + teamID
}

// ErrorPayload is sent to the originating connection when an operation fails.
type ErrorPayload struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// AckPayload acknowledges a successful operation to the sender.
type AckPayload struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// CommentPayload is broadcast to a team room when a comment is added or
// edited. The comment carries its populated author.
type CommentPayload struct {
	Success bool            `json:"success"`
	Comment *models.Comment `json:"comment"`
	TodoID  string          `json:"todoId"`
}

// DeletePayload is broadcast to a team room when a comment is deleted.
type DeletePayload struct {
	Success   bool   `json:"success"`
	CommentID string `json:"commentId"`
	TodoID    string `json:"todoId"`
}

// failureMessage is the generic error text for an event whose handler failed
// unexpectedly. Specific failures (not found, authorization, validation) are
// emitted by the handlers themselves.
func failureMessage(event string) string {
	switch event {
	case EventAddComment:
		return "Failed to add comment"
	case EventEditComment:
		return "Failed to edit comment"
	case EventDeleteComment:
		return "Failed to delete comment"
	default:
		return "Something went wrong"
	}
}
