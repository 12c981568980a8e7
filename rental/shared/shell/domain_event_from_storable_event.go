package shell

import (
	"errors"

	jsoniter "github.com/json-iterator/go"

	"github.com/onelib/rentalengine/eventstore"
	"github.com/onelib/rentalengine/rental/shared/core"
)

var (
	// ErrMappingToDomainEventFailed is returned when domain event conversion fails.
	ErrMappingToDomainEventFailed = errors.New("mapping to domain event failed")

	// ErrMappingToDomainEventUnknownEventType is returned for unrecognized event types.
	ErrMappingToDomainEventUnknownEventType = errors.New("unknown event type")
)

// DomainEventsFrom converts multiple StorableEvents to DomainEvents.
func DomainEventsFrom(storableEvents eventstore.StorableEvents) (core.DomainEvents, error) {
	domainEvents := make(core.DomainEvents, 0, len(storableEvents))

	for _, storableEvent := range storableEvents {
		domainEvent, err := DomainEventFrom(storableEvent)
		if err != nil {
			return nil, err
		}

		domainEvents = append(domainEvents, domainEvent)
	}

	return domainEvents, nil
}

// DomainEventFrom converts a StorableEvent to its corresponding DomainEvent.
func DomainEventFrom(storableEvent eventstore.StorableEvent) (core.DomainEvent, error) {
	switch storableEvent.EventType {
	case core.RentalRequestedEventType:
		return unmarshalPayload[core.RentalRequested](storableEvent.PayloadJSON)

	case core.RentalApprovedEventType:
		return unmarshalPayload[core.RentalApproved](storableEvent.PayloadJSON)

	case core.RentalDispatchedEventType:
		return unmarshalPayload[core.RentalDispatched](storableEvent.PayloadJSON)

	case core.RentalDeliveredEventType:
		return unmarshalPayload[core.RentalDelivered](storableEvent.PayloadJSON)

	case core.RentalReturnRequestedEventType:
		return unmarshalPayload[core.RentalReturnRequested](storableEvent.PayloadJSON)

	case core.RentalReturnScheduledEventType:
		return unmarshalPayload[core.RentalReturnScheduled](storableEvent.PayloadJSON)

	case core.RentalReturnedEventType:
		return unmarshalPayload[core.RentalReturned](storableEvent.PayloadJSON)

	case core.RentalRejectedEventType:
		return unmarshalPayload[core.RentalRejected](storableEvent.PayloadJSON)

	case core.RentalHoldExpiredEventType:
		return unmarshalPayload[core.RentalHoldExpired](storableEvent.PayloadJSON)

	case core.RentalRenewedEventType:
		return unmarshalPayload[core.RentalRenewed](storableEvent.PayloadJSON)
	}

	return nil, errors.Join(ErrMappingToDomainEventFailed, ErrMappingToDomainEventUnknownEventType)
}

func unmarshalPayload[E core.DomainEvent](payloadJSON []byte) (core.DomainEvent, error) {
	var event E

	if err := jsoniter.ConfigFastest.Unmarshal(payloadJSON, &event); err != nil {
		return nil, errors.Join(ErrMappingToDomainEventFailed, err)
	}

	return event, nil
}
