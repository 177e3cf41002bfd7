package service

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sudha-chandrann/WorkTrackBackend/internal/models"
	"github.com/sudha-chandrann/WorkTrackBackend/internal/repository"
)

// ---------------------------------------------------------------------------
// In-memory fakes
// ---------------------------------------------------------------------------

type fakeTodoRepo struct {
	todos map[primitive.ObjectID]*models.Todo
	gets  int
}

func newFakeTodoRepo() *fakeTodoRepo {
	return &fakeTodoRepo{todos: make(map[primitive.ObjectID]*models.Todo)}
}

func (r *fakeTodoRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.Todo, error) {
	r.gets++
	todo, ok := r.todos[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *todo
	cp.Comments = append([]primitive.ObjectID(nil), todo.Comments...)
	return &cp, nil
}

func (r *fakeTodoRepo) PushComment(_ context.Context, todoID, commentID primitive.ObjectID) error {
	todo, ok := r.todos[todoID]
	if !ok {
		return repository.ErrNotFound
	}
	todo.Comments = append(todo.Comments, commentID)
	return nil
}

func (r *fakeTodoRepo) PullComment(_ context.Context, todoID, commentID primitive.ObjectID) error {
	todo, ok := r.todos[todoID]
	if !ok {
		return repository.ErrNotFound
	}
	kept := todo.Comments[:0]
	for _, id := range todo.Comments {
		if id != commentID {
			kept = append(kept, id)
		}
	}
	todo.Comments = kept
	return nil
}

type fakeCommentRepo struct {
	comments map[primitive.ObjectID]*models.Comment
	gets     int
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{comments: make(map[primitive.ObjectID]*models.Comment)}
}

func (r *fakeCommentRepo) Create(_ context.Context, comment *models.Comment) (*models.Comment, error) {
	comment.ID = primitive.NewObjectID()
	comment.CreatedAt = time.Now()
	comment.UpdatedAt = comment.CreatedAt
	cp := *comment
	r.comments[comment.ID] = &cp
	return comment, nil
}

func (r *fakeCommentRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.Comment, error) {
	r.gets++
	comment, ok := r.comments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *comment
	return &cp, nil
}

func (r *fakeCommentRepo) UpdateContent(_ context.Context, id primitive.ObjectID, content string) error {
	comment, ok := r.comments[id]
	if !ok {
		return repository.ErrNotFound
	}
	comment.Content = content
	return nil
}

func (r *fakeCommentRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := r.comments[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.comments, id)
	return nil
}

type fakeTeamRepo struct {
	teams map[primitive.ObjectID]*models.Team
}

func newFakeTeamRepo() *fakeTeamRepo {
	return &fakeTeamRepo{teams: make(map[primitive.ObjectID]*models.Team)}
}

func (r *fakeTeamRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.Team, error) {
	team, ok := r.teams[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return team, nil
}

type fakeUserRepo struct {
	users map[primitive.ObjectID]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[primitive.ObjectID]*models.User)}
}

func (r *fakeUserRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return user, nil
}

// ---------------------------------------------------------------------------
// Fixture
// ---------------------------------------------------------------------------

type fixture struct {
	svc      *Service
	logs     *test.Hook
	todos    *fakeTodoRepo
	comments *fakeCommentRepo
	teams    *fakeTeamRepo
	users    *fakeUserRepo

	todoID primitive.ObjectID
	teamID primitive.ObjectID
	author *models.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	todos := newFakeTodoRepo()
	comments := newFakeCommentRepo()
	teams := newFakeTeamRepo()
	users := newFakeUserRepo()

	logger, hook := test.NewNullLogger()

	f := &fixture{
		svc:      New(logger, todos, comments, teams, users),
		logs:     hook,
		todos:    todos,
		comments: comments,
		teams:    teams,
		users:    users,
		todoID:   primitive.NewObjectID(),
		teamID:   primitive.NewObjectID(),
	}

	todos.todos[f.todoID] = &models.Todo{ID: f.todoID, Title: "Ship the release"}
	teams.teams[f.teamID] = &models.Team{ID: f.teamID, Name: "Platform"}

	f.author = &models.User{
		ID:       primitive.NewObjectID(),
		Username: "jsmith",
		FullName: "Jo Smith",
		Email:    "jo@example.com",
	}
	users.users[f.author.ID] = f.author

	return f
}

func (f *fixture) addComment(t *testing.T, content string) *models.Comment {
	t.Helper()
	comment, err := f.svc.AddComment(context.Background(), AddCommentInput{
		TodoID:  f.todoID.Hex(),
		Comment: content,
		TeamID:  f.teamID.Hex(),
		UserID:  f.author.ID.Hex(),
	})
	require.NoError(t, err)
	return comment
}

// ---------------------------------------------------------------------------
// Add
// ---------------------------------------------------------------------------

func TestAddComment_AppendsToTodoList(t *testing.T) {
	f := newFixture(t)

	first := f.addComment(t, "hello")
	second := f.addComment(t, "world")

	todo := f.todos.todos[f.todoID]
	require.Len(t, todo.Comments, 2)
	assert.Equal(t, first.ID, todo.Comments[0])
	assert.Equal(t, second.ID, todo.Comments[1], "new comment ids append at the end")
}

func TestAddComment_PopulatesAuthor(t *testing.T) {
	f := newFixture(t)

	comment := f.addComment(t, "hello")

	require.NotNil(t, comment.Author)
	assert.Equal(t, "jsmith", comment.Author.Username)
	assert.Equal(t, "Jo Smith", comment.Author.FullName)
	assert.Equal(t, "jo@example.com", comment.Author.Email)
	assert.Equal(t, models.CommentTargetTodo, comment.OnModel)
	assert.Equal(t, f.todoID, comment.TaskRef)
	assert.False(t, comment.CreatedAt.IsZero())
}

func TestAddComment_TodoNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.AddComment(context.Background(), AddCommentInput{
		TodoID:  primitive.NewObjectID().Hex(),
		Comment: "hello",
		TeamID:  f.teamID.Hex(),
		UserID:  f.author.ID.Hex(),
	})

	assert.ErrorIs(t, err, ErrTodoNotFound)
	assert.Empty(t, f.comments.comments, "no comment record is created")
}

func TestAddComment_InvalidTodoIDReadsAsNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.AddComment(context.Background(), AddCommentInput{
		TodoID:  "not-a-hex-id",
		Comment: "hello",
		TeamID:  f.teamID.Hex(),
		UserID:  f.author.ID.Hex(),
	})

	assert.ErrorIs(t, err, ErrTodoNotFound)
}

func TestAddComment_MissingTeamDoesNotFail(t *testing.T) {
	f := newFixture(t)

	comment, err := f.svc.AddComment(context.Background(), AddCommentInput{
		TodoID:  f.todoID.Hex(),
		Comment: "hello",
		TeamID:  primitive.NewObjectID().Hex(),
		UserID:  f.author.ID.Hex(),
	})

	require.NoError(t, err)
	assert.NotNil(t, comment)
}

func TestAddComment_MissingAuthorLeavesPopulateEmpty(t *testing.T) {
	f := newFixture(t)
	stranger := primitive.NewObjectID()

	comment, err := f.svc.AddComment(context.Background(), AddCommentInput{
		TodoID:  f.todoID.Hex(),
		Comment: "hello",
		TeamID:  f.teamID.Hex(),
		UserID:  stranger.Hex(),
	})

	require.NoError(t, err)
	assert.Nil(t, comment.Author)
}

// ---------------------------------------------------------------------------
// Edit
// ---------------------------------------------------------------------------

func TestEditComment_UpdatesContent(t *testing.T) {
	f := newFixture(t)
	comment := f.addComment(t, "hello")

	edited, err := f.svc.EditComment(context.Background(), EditCommentInput{
		TodoID:      f.todoID.Hex(),
		EditContent: "hello, edited",
		TeamID:      f.teamID.Hex(),
		UserID:      f.author.ID.Hex(),
		CommentID:   comment.ID.Hex(),
	})

	require.NoError(t, err)
	assert.Equal(t, "hello, edited", edited.Content)
	require.NotNil(t, edited.Author)
	assert.Equal(t, "jsmith", edited.Author.Username)
	assert.Equal(t, "hello, edited", f.comments.comments[comment.ID].Content)
}

func TestEditComment_NonAuthorRejected(t *testing.T) {
	f := newFixture(t)
	comment := f.addComment(t, "hello")

	_, err := f.svc.EditComment(context.Background(), EditCommentInput{
		TodoID:      f.todoID.Hex(),
		EditContent: "hijacked",
		TeamID:      f.teamID.Hex(),
		UserID:      primitive.NewObjectID().Hex(),
		CommentID:   comment.ID.Hex(),
	})

	assert.ErrorIs(t, err, ErrNotCommentAuthor)
	assert.Equal(t, "hello", f.comments.comments[comment.ID].Content, "content is unchanged")
}

func TestEditComment_MissingFieldsShortCircuits(t *testing.T) {
	f := newFixture(t)
	comment := f.addComment(t, "hello")

	getsBefore := f.comments.gets + f.todos.gets
	_, err := f.svc.EditComment(context.Background(), EditCommentInput{
		TodoID:      f.todoID.Hex(),
		EditContent: "", // missing
		TeamID:      f.teamID.Hex(),
		UserID:      f.author.ID.Hex(),
		CommentID:   comment.ID.Hex(),
	})

	assert.ErrorIs(t, err, ErrMissingFields)
	assert.Equal(t, getsBefore, f.comments.gets+f.todos.gets, "no reads happen after validation fails")
	assert.Equal(t, "hello", f.comments.comments[comment.ID].Content)
}

func TestEditComment_CommentNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.EditComment(context.Background(), EditCommentInput{
		TodoID:      f.todoID.Hex(),
		EditContent: "anything",
		TeamID:      f.teamID.Hex(),
		UserID:      f.author.ID.Hex(),
		CommentID:   primitive.NewObjectID().Hex(),
	})

	assert.ErrorIs(t, err, ErrCommentNotFound)
}

func TestEditComment_TodoNotFound(t *testing.T) {
	f := newFixture(t)
	comment := f.addComment(t, "hello")

	_, err := f.svc.EditComment(context.Background(), EditCommentInput{
		TodoID:      primitive.NewObjectID().Hex(),
		EditContent: "anything",
		TeamID:      f.teamID.Hex(),
		UserID:      f.author.ID.Hex(),
		CommentID:   comment.ID.Hex(),
	})

	assert.ErrorIs(t, err, ErrTodoNotFound)
}

// ---------------------------------------------------------------------------
// Delete
// ---------------------------------------------------------------------------

func TestDeleteComment_RemovesRecordAndReference(t *testing.T) {
	f := newFixture(t)
	comment := f.addComment(t, "hello")

	err := f.svc.DeleteComment(context.Background(), DeleteCommentInput{
		TodoID:    f.todoID.Hex(),
		TeamID:    f.teamID.Hex(),
		UserID:    f.author.ID.Hex(),
		CommentID: comment.ID.Hex(),
	})

	require.NoError(t, err)
	assert.NotContains(t, f.comments.comments, comment.ID, "comment record no longer resolves")
	assert.NotContains(t, f.todos.todos[f.todoID].Comments, comment.ID)
}

func TestDeleteComment_DanglingListEntryIsIdempotent(t *testing.T) {
	f := newFixture(t)
	comment := f.addComment(t, "hello")

	// Simulate a list that lost the reference some other way.
	f.todos.todos[f.todoID].Comments = nil

	err := f.svc.DeleteComment(context.Background(), DeleteCommentInput{
		TodoID:    f.todoID.Hex(),
		TeamID:    f.teamID.Hex(),
		UserID:    f.author.ID.Hex(),
		CommentID: comment.ID.Hex(),
	})

	require.NoError(t, err, "absent list entry does not block the delete")
	assert.NotContains(t, f.comments.comments, comment.ID)

	var warned bool
	for _, entry := range f.logs.AllEntries() {
		if entry.Level == logrus.WarnLevel &&
			entry.Message == "Comment missing from the todo's list on delete" {
			warned = true
		}
	}
	assert.True(t, warned, "the dangling reference is logged")
}

func TestDeleteComment_NonAuthorRejected(t *testing.T) {
	f := newFixture(t)
	comment := f.addComment(t, "hello")

	err := f.svc.DeleteComment(context.Background(), DeleteCommentInput{
		TodoID:    f.todoID.Hex(),
		TeamID:    f.teamID.Hex(),
		UserID:    primitive.NewObjectID().Hex(),
		CommentID: comment.ID.Hex(),
	})

	assert.ErrorIs(t, err, ErrNotCommentAuthor)
	assert.Contains(t, f.comments.comments, comment.ID)
	assert.Contains(t, f.todos.todos[f.todoID].Comments, comment.ID)
}

func TestDeleteComment_MissingFieldsShortCircuits(t *testing.T) {
	f := newFixture(t)
	comment := f.addComment(t, "hello")

	err := f.svc.DeleteComment(context.Background(), DeleteCommentInput{
		TodoID:    f.todoID.Hex(),
		TeamID:    "",
		UserID:    f.author.ID.Hex(),
		CommentID: comment.ID.Hex(),
	})

	assert.ErrorIs(t, err, ErrMissingFields)
	assert.Contains(t, f.comments.comments, comment.ID)
}

func TestDeleteComment_TodoNotFound(t *testing.T) {
	f := newFixture(t)
	comment := f.addComment(t, "hello")

	err := f.svc.DeleteComment(context.Background(), DeleteCommentInput{
		TodoID:    primitive.NewObjectID().Hex(),
		TeamID:    f.teamID.Hex(),
		UserID:    f.author.ID.Hex(),
		CommentID: comment.ID.Hex(),
	})

	assert.ErrorIs(t, err, ErrTodoNotFound)
	assert.Contains(t, f.comments.comments, comment.ID)
}
