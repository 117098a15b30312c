// pkg/event/event_test.go
package event

import "testing"

func TestPublishReachesSubscribers(t *testing.T) {
	bus := NewEventBus()

	var got []uint64
	bus.Subscribe(EntitySpawned, func(e Event) {
		entityEvent, ok := e.(*EntityEvent)
		if !ok {
			t.Fatalf("event = %T, expected *EntityEvent", e)
		}
		got = append(got, entityEvent.EntityID)
	})

	bus.Publish(NewEntityEvent(EntitySpawned, nil, 7, "asteroid"))
	bus.Publish(NewEntityEvent(EntitySpawned, nil, 8, "bullet"))

	if len(got) != 2 || got[0] != 7 || got[1] != 8 {
		t.Errorf("received entity ids %v, expected [7 8]", got)
	}
}

func TestPublishSkipsOtherTypes(t *testing.T) {
	bus := NewEventBus()

	calls := 0
	bus.Subscribe(WaveStarted, func(e Event) { calls++ })

	bus.Publish(NewEntityEvent(EntityDespawned, nil, 1, "asteroid"))
	bus.Publish(NewWaveEvent(WaveCompleted, nil, 1, 0))

	if calls != 0 {
		t.Errorf("handler called %d times for unsubscribed types", calls)
	}
}

func TestMultipleSubscribersAllCalled(t *testing.T) {
	bus := NewEventBus()

	first, second := 0, 0
	bus.Subscribe(EntityFractured, func(e Event) { first++ })
	bus.Subscribe(EntityFractured, func(e Event) { second++ })

	bus.Publish(NewFractureEvent(nil, 3, []uint64{4, 5}, 3, 0))

	if first != 1 || second != 1 {
		t.Errorf("subscriber calls = %d/%d, expected 1/1", first, second)
	}
}

func TestFractureEventCarriesChildren(t *testing.T) {
	bus := NewEventBus()

	var received *FractureEvent
	bus.Subscribe(EntityFractured, func(e Event) {
		received = e.(*FractureEvent)
	})

	bus.Publish(NewFractureEvent(nil, 3, []uint64{4, 5}, 3, 1))

	if received == nil {
		t.Fatal("fracture event not delivered")
	}
	if received.ParentID != 3 || len(received.ChildIDs) != 2 || received.SizeTier != 3 || received.Generation != 1 {
		t.Errorf("event = %+v", received)
	}
}

func TestPublishWithNoSubscribers(t *testing.T) {
	bus := NewEventBus()
	bus.Publish(NewCollisionEvent(nil, 1, 2))
}
