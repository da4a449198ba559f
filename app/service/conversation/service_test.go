package conversation

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T) *Service {
	t.Helper()

	svc, err := New(nil)
	require.NoError(t, err)

	return svc
}

func TestMessages_UnknownUser(t *testing.T) {
	svc := newService(t)

	assert.Nil(t, svc.Messages("u1"))
	assert.Zero(t, svc.Len("u1"))
}

func TestAppend_PreservesOrder(t *testing.T) {
	svc := newService(t)

	svc.Append("u1", Message{Role: RoleSystem, Content: "persona"})
	svc.Append("u1", Message{Role: RoleSystem, Content: "context"})
	svc.Append("u1", Message{Role: RoleUser, Content: "hi"})

	assert.Equal(t, []Message{
		{Role: RoleSystem, Content: "persona"},
		{Role: RoleSystem, Content: "context"},
		{Role: RoleUser, Content: "hi"},
	}, svc.Messages("u1"))
}

func TestMessages_ReturnsCopy(t *testing.T) {
	svc := newService(t)

	svc.Append("u1", Message{Role: RoleUser, Content: "hi"})

	snapshot := svc.Messages("u1")
	snapshot[0].Content = "mutated"

	assert.Equal(t, "hi", svc.Messages("u1")[0].Content)
}

func TestAppend_TrimsOldestNonSystem(t *testing.T) {
	svc := newService(t)

	svc.Append("u1", Message{Role: RoleSystem, Content: "persona"})
	svc.Append("u1", Message{Role: RoleSystem, Content: "context"})

	for i := 0; i < maxHistoryMessages+10; i++ {
		svc.Append("u1", Message{Role: RoleUser, Content: fmt.Sprintf("msg-%d", i)})
	}

	history := svc.Messages("u1")
	require.Len(t, history, 2+maxHistoryMessages)

	// System prefix survives trimming, oldest turns are gone.
	assert.Equal(t, RoleSystem, history[0].Role)
	assert.Equal(t, RoleSystem, history[1].Role)
	assert.Equal(t, "msg-10", history[2].Content)
	assert.Equal(t, fmt.Sprintf("msg-%d", maxHistoryMessages+9), history[len(history)-1].Content)
}

func TestRemoveLast(t *testing.T) {
	svc := newService(t)

	svc.RemoveLast("u1")
	assert.Zero(t, svc.Len("u1"))

	svc.Append("u1", Message{Role: RoleUser, Content: "hi"})
	svc.Append("u1", Message{Role: RoleAssistant, Content: "hello"})
	svc.RemoveLast("u1")

	history := svc.Messages("u1")
	require.Len(t, history, 1)
	assert.Equal(t, RoleUser, history[0].Role)
}

func TestLastReply_PerUser(t *testing.T) {
	svc := newService(t)

	assert.Empty(t, svc.LastReply("u1"))

	svc.SetLastReply("u1", "hello")
	svc.SetLastReply("u2", "other")

	assert.Equal(t, "hello", svc.LastReply("u1"))
	assert.Equal(t, "other", svc.LastReply("u2"))
}
