package push

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"courtside/internal/app/notify"
	"courtside/internal/domain/user"
	"courtside/internal/infra/storage/memory"
)

func TestRegistryDeliversToRecipients(t *testing.T) {
	r := NewRegistry()

	owner, cancelOwner := r.Subscribe("us-owner")
	defer cancelOwner()
	other, cancelOther := r.Subscribe("us-other")
	defer cancelOther()

	r.Publish(notify.Event{Kind: "booking_created", Recipients: []user.UserID{"us-owner"}, Message: "new booking"})

	select {
	case ev := <-owner:
		assert.Equal(t, "booking_created", ev.Kind)
	default:
		t.Fatal("recipient did not receive the event")
	}
	select {
	case <-other:
		t.Fatal("non-recipient must not receive the event")
	default:
	}
}

func TestRegistryVenueRoom(t *testing.T) {
	r := NewRegistry()
	room, cancel := r.JoinVenue("vn-1")
	defer cancel()

	r.Publish(notify.Event{Kind: "venue_updated", VenueID: "vn-1"})
	r.Publish(notify.Event{Kind: "venue_updated", VenueID: "vn-2"})

	require.Len(t, room, 1, "only the matching room sees the event")
}

func TestRegistryDropsWhenSubscriberFull(t *testing.T) {
	r := NewRegistry()
	ch, cancel := r.Subscribe("us-1")
	defer cancel()

	for i := 0; i < subscriberBuffer+5; i++ {
		r.Publish(notify.Event{Kind: "tick", Recipients: []user.UserID{"us-1"}})
	}
	assert.Len(t, ch, subscriberBuffer, "overflow is dropped, publisher never blocks")
}

func TestRegistryCancelAndOnline(t *testing.T) {
	r := NewRegistry()
	assert.False(t, r.Online("us-1"))

	_, cancel := r.Subscribe("us-1")
	assert.True(t, r.Online("us-1"))

	cancel()
	assert.False(t, r.Online("us-1"))
}

func TestHubPersistsPerRecipient(t *testing.T) {
	repo := memory.NewNotificationRepository()
	hub := NewHub(NewRegistry(), repo, nil)
	ctx := context.Background()

	hub.Emit(ctx, notify.Event{
		Kind:       "booking_created",
		Recipients: []user.UserID{"us-a", "us-b"},
		Title:      "New booking request",
		Data:       map[string]any{"booking_id": "bk-1"},
	})

	forA, err := repo.ListByUser(ctx, "us-a", false)
	require.NoError(t, err)
	require.Len(t, forA, 1)
	assert.Equal(t, "New booking request", forA[0].Title)
	assert.Equal(t, "bk-1", forA[0].Data["booking_id"])

	forB, err := repo.ListByUser(ctx, "us-b", false)
	require.NoError(t, err)
	assert.Len(t, forB, 1)

	forC, err := repo.ListByUser(ctx, "us-c", false)
	require.NoError(t, err)
	assert.Empty(t, forC)
}
