package broadcast

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizlive/quiz-services/internal/comm"
	"github.com/quizlive/quiz-services/internal/gamesvc/models"
)

func TestRoomSubject(t *testing.T) {
	assert.Equal(t, "room.42.events", RoomSubject(42))
}

func TestBusDeliversToRoomSubscribers(t *testing.T) {
	b := NewBus()
	ch := b.Subscribe(1)
	other := b.Subscribe(2)

	b.RoomStatusChanged(1, models.RoomLive)

	e := <-ch
	assert.Equal(t, comm.EventRoomStatusChanged, e.Type)
	assert.Equal(t, int64(1), e.RoomId)

	var data comm.RoomStatusChangedData
	require.NoError(t, json.Unmarshal(e.Data, &data))
	assert.Equal(t, models.RoomLive, data.Status)

	// room 2 never sees room 1 traffic
	select {
	case e := <-other:
		t.Fatalf("unexpected event for room 2: %+v", e)
	default:
	}
}

func TestBusUnsubscribeStopsDelivery(t *testing.T) {
	b := NewBus()
	ch := b.Subscribe(1)
	b.Unsubscribe(1, ch)

	b.PlayersChanged(1, []*models.Player{{ID: 5, DisplayName: "bob"}})

	select {
	case e := <-ch:
		t.Fatalf("unexpected event after unsubscribe: %+v", e)
	default:
	}
}

func TestBusDropsWhenSubscriberIsFull(t *testing.T) {
	b := NewBus()
	ch := b.Subscribe(1)

	// the channel buffers 16; the rest must be dropped, never block
	for i := 0; i < 40; i++ {
		b.QuestionAnsweredBy(1, 10, []int64{int64(i)})
	}

	assert.Len(t, ch, 16)
}

func TestBusFansOut(t *testing.T) {
	b := NewBus()
	a := b.Subscribe(1)
	c := b.Subscribe(1)

	b.StandingsChanged(1, []*models.PlayerStanding{{PlayerID: 5, Points: 900}})

	for _, ch := range []chan comm.RoomEvent{a, c} {
		e := <-ch
		assert.Equal(t, comm.EventStandingsChanged, e.Type)

		var data comm.StandingsChangedData
		require.NoError(t, json.Unmarshal(e.Data, &data))
		require.Len(t, data.Standings, 1)
		assert.Equal(t, 900, data.Standings[0].Points)
	}
}
