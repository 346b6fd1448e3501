package aggregate

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/example/storefront/internal/infrastructure/store"
)

// Aggregate is anything rebuilt by replaying its event stream. The cart,
// selection and order types all qualify.
type Aggregate interface {
	GetID() string
	GetVersion() int
	SetVersion(int)
	ApplyEvent(store.Event) error
}

// Load rebuilds an aggregate from the event store. When a snapshot exists
// the replay starts from it instead of from scratch. The found flag is false
// when the stream has neither events nor a snapshot, letting callers tell a
// fresh aggregate from an empty one.
func Load[T Aggregate](
	ctx context.Context,
	eventStore store.EventStoreInterface,
	id string,
	newAggregate func() T,
) (agg T, found bool, err error) {
	agg = newAggregate()

	snapshot, err := eventStore.GetSnapshot(ctx, id)
	if err != nil {
		err = fmt.Errorf("failed to get snapshot: %w", err)
		return
	}

	var events []store.Event
	switch {
	case snapshot != nil:
		if jsonErr := json.Unmarshal(snapshot.State, agg); jsonErr != nil {
			err = fmt.Errorf("failed to unmarshal snapshot: %w", jsonErr)
			return
		}
		found = true
		events = eventStore.GetEventsFromVersion(ctx, id, snapshot.Version)
	default:
		events = eventStore.GetEvents(id)
	}

	found = found || len(events) > 0

	for _, event := range events {
		if applyErr := agg.ApplyEvent(event); applyErr != nil {
			err = fmt.Errorf("failed to apply event: %w", applyErr)
			return
		}
	}

	return agg, found, nil
}

// MaybeCreateSnapshot records the aggregate's full state every
// store.SnapshotThreshold versions so long streams do not replay from zero.
func MaybeCreateSnapshot(
	ctx context.Context,
	eventStore store.EventStoreInterface,
	agg Aggregate,
	aggregateType string,
) error {
	version := agg.GetVersion()
	if version <= 0 || version%store.SnapshotThreshold != 0 {
		return nil
	}

	state, err := json.Marshal(agg)
	if err != nil {
		return fmt.Errorf("failed to marshal aggregate state: %w", err)
	}

	return eventStore.SaveSnapshot(ctx, &store.Snapshot{
		AggregateID:   agg.GetID(),
		AggregateType: aggregateType,
		Version:       version,
		State:         state,
		CreatedAt:     time.Now(),
	})
}
