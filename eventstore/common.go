package eventstore

import (
	"errors"
)

var (
	// ErrConcurrencyConflict is returned by Append when the stream selected by the filter has moved past
	// the expected MaxSequenceNumberUint since it was queried.
	ErrConcurrencyConflict = errors.New("concurrency error, no rows were affected")

	// ErrNilDatabaseConnection is returned by engine constructors that are handed a nil connection.
	ErrNilDatabaseConnection = errors.New("database connection must not be nil")

	// ErrEmptyEventsTableName is returned when an empty events table name is configured.
	ErrEmptyEventsTableName = errors.New("events table name must not be empty")

	// ErrQueryingEventsFailed wraps errors raised while reading events.
	ErrQueryingEventsFailed = errors.New("querying events failed")

	// ErrScanningDBRowFailed wraps errors raised while scanning an events row.
	ErrScanningDBRowFailed = errors.New("scanning db row failed")

	// ErrBuildingStorableEventFailed wraps errors raised while rebuilding a StorableEvent from storage.
	ErrBuildingStorableEventFailed = errors.New("building storable event failed")

	// ErrAppendingEventFailed wraps errors raised while appending events.
	ErrAppendingEventFailed = errors.New("appending the event failed")

	// ErrGettingRowsAffectedFailed wraps errors raised while reading the affected row count of an append.
	ErrGettingRowsAffectedFailed = errors.New("getting rows affected failed")

	// ErrBuildingQueryFailed wraps errors raised by the SQL builder.
	ErrBuildingQueryFailed = errors.New("building the query failed")

	// ErrNoEventsToAppend is returned when Append is called without events.
	ErrNoEventsToAppend = errors.New("no events to append")
)

// MaxSequenceNumberUint is a type alias for uint, representing the maximum sequence number for a "dynamic event stream".
type MaxSequenceNumberUint = uint
