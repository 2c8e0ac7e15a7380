package session

import (
	"context"
	"testing"

	"adventure_shop/prompts"
	"adventure_shop/relay"
	"adventure_shop/story"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockTransport struct {
	mock.Mock
}

func (m *mockTransport) Complete(ctx context.Context, req relay.Request) ([]byte, error) {
	args := m.Called(ctx, req)
	raw, _ := args.Get(0).([]byte)
	return raw, args.Error(1)
}

type transportFunc func(ctx context.Context, req relay.Request) ([]byte, error)

func (f transportFunc) Complete(ctx context.Context, req relay.Request) ([]byte, error) {
	return f(ctx, req)
}

const (
	testModel  = "gpt-4o-mini"
	testCourse = "adventure"
	testKey    = "secret"
	wolfReply  = `{"Event":"A wolf bites you.","Choices":["Fight","Flee","Hide"],"HP":-3,"DEF":1,"ATK":0}`
	fatalReply = `{"Event":"The ceiling collapses.","Choices":["Pray","Dig","Wait"],"HP":-15,"DEF":0,"ATK":0}`
)

func newTestController(tr Transport) *Controller {
	return NewController(tr, Options{
		Model:       testModel,
		Temperature: 0.7,
		CourseName:  testCourse,
		APIKey:      testKey,
	})
}

func userRequest(text string) relay.Request {
	return relay.Request{
		Model:       testModel,
		Messages:    []relay.Message{{Role: relay.RoleUser, Content: text}},
		Temperature: 0.7,
		CourseName:  testCourse,
		APIKey:      testKey,
	}
}

func TestNewSession(t *testing.T) {
	ctrl := newTestController(&mockTransport{})
	s := ctrl.NewSession("Haunted Village")

	v := s.View()
	assert.NotEmpty(t, v.ID)
	assert.Equal(t, "Haunted Village", v.Theme)
	assert.Equal(t, DefaultStats, v.Stats)
	assert.Empty(t, v.Turns)
	assert.Equal(t, PhaseIdle, v.Phase)
	assert.False(t, v.Pending())
}

func TestController_Start(t *testing.T) {
	tr := &mockTransport{}
	ctrl := newTestController(tr)
	s := ctrl.NewSession("Sunken Temple")
	s.appendTurns(story.Turn{Text: "old"})

	want := relay.Request{
		Model: testModel,
		Messages: []relay.Message{
			{Role: relay.RoleSystem, Content: prompts.SystemPrompt("Sunken Temple")},
			{Role: relay.RoleUser, Content: prompts.BeginInstruction},
		},
		Temperature: 0.7,
		CourseName:  testCourse,
		APIKey:      testKey,
	}
	tr.On("Complete", mock.Anything, want).Return([]byte(wolfReply), nil).Once().Run(func(args mock.Arguments) {
		v := s.View()
		assert.Equal(t, []story.Turn{{Text: prompts.StartingPlaceholder, IsBot: true}}, v.Turns)
		assert.True(t, v.Pending())
	})

	require.NoError(t, ctrl.Start(context.Background(), s, "Sunken Temple"))
	tr.AssertExpectations(t)

	v := s.View()
	assert.Equal(t, story.Stats{HP: 7, DEF: 11, ATK: 10}, v.Stats)
	require.Len(t, v.Turns, 2)
	assert.Equal(t, "A wolf bites you.\n\nHP: 7 | DEF: 11 | ATK: 10\n\n1. Fight\n2. Flee\n3. Hide", v.Turns[1].Text)
	assert.True(t, v.Turns[1].IsBot)
	assert.Equal(t, PhaseIdle, v.Phase)
	assert.Equal(t, PhasePresenting, v.Outcome)
	assert.Empty(t, v.Error)
}

func TestController_StartResetsStats(t *testing.T) {
	tr := &mockTransport{}
	tr.On("Complete", mock.Anything, mock.Anything).Return([]byte(wolfReply), nil)
	ctrl := newTestController(tr)
	s := ctrl.NewSession("x")

	require.NoError(t, ctrl.Start(context.Background(), s, "x"))
	require.NoError(t, ctrl.Start(context.Background(), s, "x"))

	assert.Equal(t, story.Stats{HP: 7, DEF: 11, ATK: 10}, s.View().Stats)
}

func TestController_SubmitBlankIsNoop(t *testing.T) {
	tr := &mockTransport{}
	ctrl := newTestController(tr)
	s := ctrl.NewSession("x")
	before := s.View()

	for _, text := range []string{"", "   ", "\n\t "} {
		require.NoError(t, ctrl.Submit(context.Background(), s, text))
	}

	tr.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
	assert.Equal(t, before, s.View())
}

func TestController_Submit(t *testing.T) {
	tr := &mockTransport{}
	tr.On("Complete", mock.Anything, userRequest("attack the wolf")).Return([]byte(wolfReply), nil).Once()
	ctrl := newTestController(tr)
	s := ctrl.NewSession("x")

	require.NoError(t, ctrl.Submit(context.Background(), s, "attack the wolf"))
	tr.AssertExpectations(t)

	v := s.View()
	require.Len(t, v.Turns, 2)
	assert.Equal(t, story.Turn{Text: "attack the wolf", IsBot: false}, v.Turns[0])
	assert.True(t, v.Turns[1].IsBot)
	assert.Equal(t, story.Stats{HP: 7, DEF: 11, ATK: 10}, v.Stats)
}

func TestController_SubmitFailureKeepsStats(t *testing.T) {
	cases := []struct {
		name string
		raw  []byte
		err  error
		want error
	}{
		{"network", nil, errors.Wrap(story.ErrNetworkFailure, "connection refused"), story.ErrNetworkFailure},
		{"relay error", nil, errors.Wrap(story.ErrUpstreamCallFailed, "Failed to process the request"), story.ErrUpstreamCallFailed},
		{"bad shape", []byte(`{"Event":"x","Choices":["a"],"HP":0,"DEF":0,"ATK":0}`), nil, story.ErrInvalidReplyShape},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tr := &mockTransport{}
			tr.On("Complete", mock.Anything, mock.Anything).Return(tc.raw, tc.err).Once()
			ctrl := newTestController(tr)
			s := ctrl.NewSession("x")

			err := ctrl.Submit(context.Background(), s, "open the door")
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.want))

			v := s.View()
			assert.Equal(t, DefaultStats, v.Stats)
			require.Len(t, v.Turns, 1)
			assert.Equal(t, story.Turn{Text: "open the door"}, v.Turns[0])
			assert.Equal(t, PhaseError, v.Outcome)
			assert.Equal(t, UserMessage(err), v.Error)
			assert.False(t, v.Pending())
		})
	}
}

func TestController_ErrorClearsOnNextSuccess(t *testing.T) {
	tr := &mockTransport{}
	tr.On("Complete", mock.Anything, userRequest("a")).Return(nil, story.ErrNetworkFailure).Once()
	tr.On("Complete", mock.Anything, userRequest("b")).Return([]byte(wolfReply), nil).Once()
	ctrl := newTestController(tr)
	s := ctrl.NewSession("x")

	require.Error(t, ctrl.Submit(context.Background(), s, "a"))
	assert.NotEmpty(t, s.View().Error)

	require.NoError(t, ctrl.Submit(context.Background(), s, "b"))
	assert.Empty(t, s.View().Error)
}

func TestController_ApplyReplyRejectionChangesNothing(t *testing.T) {
	ctrl := newTestController(&mockTransport{})
	s := ctrl.NewSession("x")
	before := s.View()

	for _, raw := range []string{
		`{"Choices":["a","b","c"],"HP":1,"DEF":1,"ATK":1}`,
		`{"Event":"x","Choices":["a","b"],"HP":1,"DEF":1,"ATK":1}`,
		`{"Event":"x","Choices":["a","b","c"],"HP":"1","DEF":1,"ATK":1}`,
	} {
		err := ctrl.ApplyReply(s, []byte(raw))
		assert.True(t, errors.Is(err, story.ErrInvalidReplyShape))
		assert.Equal(t, before, s.View())
	}
}

func TestController_ApplyReplyHugeGainIsNotFatal(t *testing.T) {
	ctrl := newTestController(&mockTransport{})
	s := ctrl.NewSession("x")

	require.NoError(t, ctrl.ApplyReply(s, []byte(`{"Event":"You find a potion.","Choices":["a","b","c"],"HP":1e19,"DEF":-1e19,"ATK":0}`)))

	v := s.View()
	assert.Equal(t, story.Stats{HP: story.MaxStat, DEF: 0, ATK: 10}, v.Stats)
	assert.False(t, v.GameOver())
	require.Len(t, v.Turns, 1)
}

func TestController_GameOver(t *testing.T) {
	tr := &mockTransport{}
	tr.On("Complete", mock.Anything, mock.Anything).Return([]byte(fatalReply), nil).Twice()
	ctrl := newTestController(tr)
	s := ctrl.NewSession("x")

	require.NoError(t, ctrl.Submit(context.Background(), s, "pull the lever"))

	v := s.View()
	assert.Equal(t, story.Stats{HP: 0, DEF: 10, ATK: 10}, v.Stats)
	assert.True(t, v.GameOver())
	require.Len(t, v.Turns, 3)
	assert.Contains(t, v.Turns[1].Text, "The ceiling collapses.")
	assert.Contains(t, v.Turns[1].Text, "HP: 0 | DEF: 10 | ATK: 10")
	assert.Equal(t, story.Turn{Text: story.GameOverText, IsBot: true}, v.Turns[2])

	// Game over does not lock the session.
	require.NoError(t, ctrl.Submit(context.Background(), s, "try again"))
	tr.AssertExpectations(t)
}

func TestController_RejectsOverlappingCalls(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	calls := 0
	tr := transportFunc(func(ctx context.Context, req relay.Request) ([]byte, error) {
		calls++
		close(entered)
		<-release
		return []byte(wolfReply), nil
	})
	ctrl := newTestController(tr)
	s := ctrl.NewSession("x")

	done := make(chan error, 1)
	go func() { done <- ctrl.Submit(context.Background(), s, "first") }()
	<-entered

	assert.True(t, s.View().Pending())
	assert.ErrorIs(t, ctrl.Submit(context.Background(), s, "second"), ErrBusy)
	assert.ErrorIs(t, ctrl.Start(context.Background(), s, "x"), ErrBusy)

	close(release)
	require.NoError(t, <-done)

	v := s.View()
	assert.Equal(t, 1, calls)
	require.Len(t, v.Turns, 2)
	assert.Equal(t, "first", v.Turns[0].Text)
	assert.False(t, v.Pending())
}

func TestController_DefaultsInitialStats(t *testing.T) {
	ctrl := NewController(&mockTransport{}, Options{InitialStats: story.Stats{HP: 3, DEF: 2, ATK: 1}})
	assert.Equal(t, story.Stats{HP: 3, DEF: 2, ATK: 1}, ctrl.NewSession("x").View().Stats)
}
