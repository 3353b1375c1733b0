package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/pal-assistant/internal/domain"
)

func TestMemoryTurnRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryTurnRepository()

	first := &domain.Turn{ID: "a", SessionID: "s1", Text: "hi", Speaker: domain.SpeakerUser, Timestamp: time.Now()}
	second := &domain.Turn{ID: "b", SessionID: "s1", Text: "hello", Speaker: domain.SpeakerAssistant, FollowUps: []string{"x"}}
	other := &domain.Turn{ID: "c", SessionID: "s2", Text: "yo", Speaker: domain.SpeakerUser}
	require.NoError(t, repo.Append(ctx, first))
	require.NoError(t, repo.Append(ctx, other))
	require.NoError(t, repo.Append(ctx, second))
	assert.Less(t, first.Seq, second.Seq)

	turns, err := repo.ListBySession(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, turns, 2)
	assert.Equal(t, "a", turns[0].ID)
	assert.Equal(t, "b", turns[1].ID)

	turns[1].FollowUps[0] = "mutated"
	again, _ := repo.ListBySession(ctx, "s1")
	assert.Equal(t, "x", again[1].FollowUps[0])

	require.NoError(t, repo.DeleteBySession(ctx, "s1"))
	turns, err = repo.ListBySession(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, turns)

	remaining, _ := repo.ListBySession(ctx, "s2")
	assert.Len(t, remaining, 1)
}

func TestNewTurnRepositoryWithoutPool(t *testing.T) {
	assert.IsType(t, &MemoryTurnRepository{}, NewTurnRepository(nil))
}

func TestMemoryAppendAllKeepsOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryTurnRepository()

	question := &domain.Turn{ID: "q", SessionID: "s", Speaker: domain.SpeakerUser}
	answer := &domain.Turn{ID: "r", SessionID: "s", Speaker: domain.SpeakerAssistant}
	require.NoError(t, repo.AppendAll(ctx, question, answer))
	assert.Equal(t, question.Seq+1, answer.Seq)

	turns, err := repo.ListBySession(ctx, "s")
	require.NoError(t, err)
	require.Len(t, turns, 2)
	assert.Equal(t, []string{"q", "r"}, []string{turns[0].ID, turns[1].ID})
}
