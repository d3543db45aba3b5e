package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pratihub/pratihub_bot/internal/api"
	"github.com/pratihub/pratihub_bot/internal/model"
)

func TestNotificationPoll_FirstFetchOnlySeeds(t *testing.T) {
	backend, client := newFakeBackend(t)
	backend.notifications = []model.Notification{
		{ID: "1", UserID: "2", Title: "Bem-vinda", Message: "Olá"},
	}

	svc := NewNotificationService(client, NewValidator(), zap.NewNop())
	sessions := staticSessions{{ChatID: 200, UserID: "2"}}
	notifier := newRecordingNotifier()
	ctx := context.Background()

	require.NoError(t, svc.Poll(ctx, sessions, notifier))
	assert.Empty(t, notifier.notifications[200])

	backend.mu.Lock()
	backend.notifications = append(backend.notifications,
		model.Notification{ID: "2", UserID: "2", Title: "Reunião", Message: "Nova reunião"},
		model.Notification{ID: "3", UserID: "2", Title: "Lida", Message: "já lida", Read: true},
	)
	backend.mu.Unlock()

	require.NoError(t, svc.Poll(ctx, sessions, notifier))
	require.NoError(t, svc.Poll(ctx, sessions, notifier))

	require.Len(t, notifier.notifications[200], 1)
	assert.Equal(t, model.ID("2"), notifier.notifications[200][0].ID)
}

func TestNotificationSend(t *testing.T) {
	_, client := newFakeBackend(t)
	svc := NewNotificationService(client, NewValidator(), zap.NewNop())
	ctx := context.Background()

	student := &model.Session{UserID: "2", UserType: model.UserTypeStudent}
	_, err := svc.Send(ctx, api.StaticToken("t"), student, model.NewNotification{UserID: "3", Title: "Aviso", Message: "x"})
	assert.ErrorIs(t, err, ErrAdminOnly)

	admin := &model.Session{UserID: "1", UserType: model.UserTypeAdmin}
	_, err = svc.Send(ctx, api.StaticToken("t"), admin, model.NewNotification{UserID: "3", Title: "A", Message: "x"})
	assert.ErrorIs(t, err, ErrValidation)

	created, err := svc.Send(ctx, api.StaticToken("t"), admin, model.NewNotification{UserID: "3", Title: "Aviso", Message: "Entrega amanhã"})
	require.NoError(t, err)
	assert.Equal(t, model.ID("3"), created.UserID)
}

func TestUnread(t *testing.T) {
	items := []model.Notification{{Read: true}, {}, {}}
	assert.Equal(t, 2, Unread(items))
}

func TestTeams(t *testing.T) {
	backend, client := newFakeBackend(t)
	backend.seedUsers()
	svc := NewTeamService(client, NewValidator(), zap.NewNop())
	ctx := context.Background()
	ts := api.StaticToken("t")
	owner := &model.Session{UserID: "2", UserName: "Ana"}

	_, err := svc.Create(ctx, ts, owner, "ab")
	assert.ErrorIs(t, err, ErrValidation)

	team, err := svc.Create(ctx, ts, owner, "Equipe Azul")
	require.NoError(t, err)
	assert.True(t, team.HasMember("2"))

	_, err = svc.Create(ctx, ts, owner, "Outra equipe")
	assert.ErrorIs(t, err, ErrAlreadyInTeam)

	team, err = svc.AddMember(ctx, ts, team.ID, model.User{ID: "3", Name: "Caio"})
	require.NoError(t, err)
	assert.True(t, team.HasMember("3"))

	mine, err := svc.MyTeam(ctx, ts, "3")
	require.NoError(t, err)
	require.NotNil(t, mine)
	assert.Equal(t, team.ID, mine.ID)

	none, err := svc.MyTeam(ctx, ts, "99")
	require.NoError(t, err)
	assert.Nil(t, none)

	err = svc.RemoveMember(ctx, ts, *team, "99")
	assert.ErrorIs(t, err, ErrNotTeamMember)
}

func TestProgress_CreatesBoardAndAdvances(t *testing.T) {
	backend, client := newFakeBackend(t)
	svc := NewProgressService(client, zap.NewNop())
	ctx := context.Background()
	ts := api.StaticToken("t")

	board, err := svc.Board(ctx, ts, "50")
	require.NoError(t, err)
	require.Len(t, board.Phases, len(model.DefaultPhases))
	for _, ph := range board.Phases {
		assert.Equal(t, model.PhaseStatusTodo, ph.Status)
	}
	assert.Equal(t, 1, backend.count("POST /projectProgress"))

	again, err := svc.Board(ctx, ts, "50")
	require.NoError(t, err)
	assert.Equal(t, board.ID, again.ID)
	assert.Equal(t, 1, backend.count("POST /projectProgress"))

	board, err = svc.Advance(ctx, ts, *board, 0)
	require.NoError(t, err)
	assert.Equal(t, model.PhaseStatusInProgress, board.Phases[0].Status)

	board, err = svc.Advance(ctx, ts, *board, 0)
	require.NoError(t, err)
	assert.Equal(t, model.PhaseStatusDone, board.Phases[0].Status)
	assert.Equal(t, 20, board.Percent())

	_, err = svc.Advance(ctx, ts, *board, 10)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestForum_ValidatesInput(t *testing.T) {
	backend, client := newFakeBackend(t)
	svc := NewForumService(client, NewValidator(), zap.NewNop())
	ctx := context.Background()
	ts := api.StaticToken("t")
	author := &model.Session{UserID: "2"}

	tests := []struct {
		name    string
		title   string
		content string
		wantErr bool
	}{
		{name: "valid", title: "Dúvida sobre o sprint", content: "Quando é a entrega?"},
		{name: "short title", title: "Oi", content: "texto", wantErr: true},
		{name: "blank content", title: "Título válido", content: "   ", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Publish(ctx, ts, author, tt.title, tt.content)
			if tt.wantErr {
				var verr *ValidationError
				require.True(t, errors.As(err, &verr))
				assert.NotEmpty(t, verr.Message)
				return
			}
			require.NoError(t, err)
		})
	}
	assert.Equal(t, 1, backend.count("POST /posts"))

	posts, err := svc.Posts(ctx, ts)
	require.NoError(t, err)
	require.Len(t, posts, 1)

	_, err = svc.Comment(ctx, ts, author, posts[0].ID, "Sexta-feira")
	require.NoError(t, err)
	comments, err := svc.Comments(ctx, ts, posts[0].ID)
	require.NoError(t, err)
	assert.Len(t, comments, 1)
}

func TestUsers(t *testing.T) {
	backend, client := newFakeBackend(t)
	backend.seedUsers()
	svc := NewUserService(client, NewValidator(), zap.NewNop())
	ctx := context.Background()
	ts := api.StaticToken("t")

	students, err := svc.Students(ctx, ts)
	require.NoError(t, err)
	assert.Len(t, students, 2)

	student := &model.Session{UserID: "2", UserType: model.UserTypeStudent}
	assert.ErrorIs(t, svc.SetActive(ctx, ts, student, "3", false), ErrAdminOnly)

	admin := &model.Session{UserID: "1", UserType: model.UserTypeAdmin}
	require.NoError(t, svc.SetActive(ctx, ts, admin, "3", false))
	backend.mu.Lock()
	assert.False(t, backend.users[2].Active)
	backend.mu.Unlock()

	assert.ErrorIs(t, svc.SetEmotionalStatus(ctx, ts, "2", "FELIZ"), ErrValidation)
	require.NoError(t, svc.SetEmotionalStatus(ctx, ts, "2", model.EmotionalStatusTired))
	backend.mu.Lock()
	assert.Equal(t, model.EmotionalStatusTired, backend.users[1].EmotionalStatus)
	backend.mu.Unlock()
}

func TestValidator_Messages(t *testing.T) {
	v := NewValidator()

	err := v.Struct(model.Credentials{Email: "not-an-email", Password: "123"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "email")
	assert.Contains(t, err.Error(), "senha")

	assert.NoError(t, v.Struct(model.Credentials{Email: "ana@pratihub.dev", Password: "segredo"}))
}
