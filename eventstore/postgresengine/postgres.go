package postgresengine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	jsoniter "github.com/json-iterator/go"

	"github.com/onelib/rentalengine/eventstore"
	"github.com/onelib/rentalengine/eventstore/postgresengine/internal/adapters"
)

const (
	engineName            = "postgres"
	defaultEventTableName = "events"

	logMsgRoundTrip       = "eventstore round trip"
	logMsgRoundTripFailed = "eventstore round trip failed"
	logMsgStreamMoved     = "eventstore stream moved since it was read"
	logMsgCloseRowsFailed = "closing rows failed"
	logMsgSchemaCreated   = "eventstore schema ready"
	logAttrAction         = "action"
	logAttrTable          = "table"
	logAttrEvents         = "events"
	logAttrDurationMS     = "duration_ms"
	logAttrQuery          = "query"
	logAttrError          = "error"
	actionQuery           = "query"
	actionAppend          = "append"

	colEventType      = "event_type"
	colOccurredAt     = "occurred_at"
	colPayload        = "payload"
	colMetadata       = "metadata"
	colSequenceNumber = "sequence_number"
	cteContext        = "context"
	cteVals           = "vals"
	dialectPostgres   = "postgres"
	aliasMaxSeq       = "max_seq"
	castText          = "?::text"
	castTimestamp     = "?::timestamp with time zone"
	castJsonb         = "?::jsonb"
	payloadContains   = colPayload + " @> ?::jsonb"
)

// schemaTemplate creates the events table and the indexes the generated queries rely on.
const schemaTemplate = `
CREATE TABLE IF NOT EXISTS %[1]s (
	sequence_number BIGSERIAL PRIMARY KEY,
	occurred_at TIMESTAMP WITH TIME ZONE NOT NULL,
	event_type TEXT NOT NULL,
	payload JSONB NOT NULL,
	metadata JSONB NOT NULL DEFAULT '{}'::jsonb,
	append_timestamp TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS %[1]s_event_type_idx ON %[1]s (event_type);
CREATE INDEX IF NOT EXISTS %[1]s_payload_idx ON %[1]s USING GIN (payload jsonb_path_ops);
`

type sqlQueryString = string

// EventStore appends and queries events in a PostgreSQL table.
type EventStore struct {
	db               adapters.DBAdapter
	eventTableName   string
	logger           eventstore.Logger
	metricsCollector eventstore.MetricsCollector
}

// roundTrip is one statement sent to the database, as seen by logs and metrics.
type roundTrip struct {
	action string
	sql    sqlQueryString
	events int
	took   time.Duration
}

type eventRow struct {
	eventType      string
	payload        []byte
	metadata       []byte
	occurredAt     time.Time
	sequenceNumber eventstore.MaxSequenceNumberUint
}

// NewEventStoreFromPGXPool creates an EventStore on a pgx pool.
func NewEventStoreFromPGXPool(db *pgxpool.Pool, options ...Option) (EventStore, error) {
	if db == nil {
		return EventStore{}, eventstore.ErrNilDatabaseConnection
	}

	return newEventStore(adapters.NewPGXAdapter(db), options...)
}

// NewEventStoreFromPGXPoolAndReplica creates an EventStore that sends eventually consistent reads to the replica.
func NewEventStoreFromPGXPoolAndReplica(db *pgxpool.Pool, replica *pgxpool.Pool, options ...Option) (EventStore, error) {
	if db == nil || replica == nil {
		return EventStore{}, eventstore.ErrNilDatabaseConnection
	}

	return newEventStore(adapters.NewPGXAdapterWithReplica(db, replica), options...)
}

// NewEventStoreFromSQLDB creates an EventStore on a database/sql handle opened with lib/pq.
func NewEventStoreFromSQLDB(db *sql.DB, options ...Option) (EventStore, error) {
	if db == nil {
		return EventStore{}, eventstore.ErrNilDatabaseConnection
	}

	return newEventStore(adapters.NewSQLAdapter(db), options...)
}

// NewEventStoreFromSQLX creates an EventStore on a sqlx handle.
func NewEventStoreFromSQLX(db *sqlx.DB, options ...Option) (EventStore, error) {
	if db == nil {
		return EventStore{}, eventstore.ErrNilDatabaseConnection
	}

	return newEventStore(adapters.NewSQLXAdapter(db), options...)
}

func newEventStore(db adapters.DBAdapter, options ...Option) (EventStore, error) {
	es := EventStore{
		db:             db,
		eventTableName: defaultEventTableName,
	}

	for _, option := range options {
		if err := option(&es); err != nil {
			return EventStore{}, err
		}
	}

	return es, nil
}

// CreateSchema creates the events table and its indexes if they do not exist yet.
func (es EventStore) CreateSchema(ctx context.Context) error {
	if _, err := es.db.Exec(ctx, fmt.Sprintf(schemaTemplate, es.eventTableName)); err != nil {
		return errors.Join(eventstore.ErrAppendingEventFailed, err)
	}

	if es.logger != nil {
		es.logger.Info(logMsgSchemaCreated, logAttrTable, es.eventTableName)
	}

	return nil
}

// Query reads the events matching filter in sequence order,
// together with the highest sequence number among them. Append expects that number back.
func (es EventStore) Query(ctx context.Context, filter eventstore.Filter) (
	eventstore.StorableEvents,
	eventstore.MaxSequenceNumberUint,
	error,
) {

	sqlQuery, err := es.buildSelectQuery(filter)
	if err != nil {
		return nil, 0, err
	}

	startedAt := time.Now()
	events, maxSequenceNumber, err := es.selectEvents(ctx, sqlQuery)
	es.observe(roundTrip{action: actionQuery, sql: sqlQuery, events: len(events), took: time.Since(startedAt)}, err)

	if err != nil {
		return nil, 0, err
	}

	return events, maxSequenceNumber, nil
}

func (es EventStore) selectEvents(ctx context.Context, sqlQuery sqlQueryString) (
	eventstore.StorableEvents,
	eventstore.MaxSequenceNumberUint,
	error,
) {

	rows, err := es.db.Query(ctx, sqlQuery)
	if err != nil {
		return nil, 0, errors.Join(eventstore.ErrQueryingEventsFailed, err)
	}

	defer func() {
		if closeErr := rows.Close(); closeErr != nil && es.logger != nil {
			es.logger.Warn(logMsgCloseRowsFailed, logAttrError, closeErr.Error())
		}
	}()

	events := make(eventstore.StorableEvents, 0)
	maxSequenceNumber := eventstore.MaxSequenceNumberUint(0)

	var row eventRow
	for rows.Next() {
		if err := rows.Scan(&row.eventType, &row.occurredAt, &row.payload, &row.metadata, &row.sequenceNumber); err != nil {
			return nil, 0, errors.Join(eventstore.ErrScanningDBRowFailed, err)
		}

		event, err := eventstore.BuildStorableEvent(row.eventType, row.occurredAt, row.payload, row.metadata)
		if err != nil {
			return nil, 0, errors.Join(eventstore.ErrBuildingStorableEventFailed, err)
		}

		events = append(events, event)
		maxSequenceNumber = row.sequenceNumber
	}

	return events, maxSequenceNumber, nil
}

// Append writes the events in one statement, but only if no event matching filter was stored
// after expectedMaxSequenceNumber. Otherwise nothing is written and ErrConcurrencyConflict is returned.
// Pass the filter the decision was made on.
func (es EventStore) Append(
	ctx context.Context,
	filter eventstore.Filter,
	expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
	event eventstore.StorableEvent,
	additionalEvents ...eventstore.StorableEvent,
) error {

	allEvents := append(eventstore.StorableEvents{event}, additionalEvents...)

	var (
		sqlQuery sqlQueryString
		err      error
	)

	if len(allEvents) == 1 {
		sqlQuery, err = es.buildInsertQueryForSingleEvent(event, filter, expectedMaxSequenceNumber)
	} else {
		sqlQuery, err = es.buildInsertQueryForMultipleEvents(allEvents, filter, expectedMaxSequenceNumber)
	}

	if err != nil {
		return err
	}

	startedAt := time.Now()
	err = es.insertEvents(ctx, sqlQuery, len(allEvents))
	es.observe(roundTrip{action: actionAppend, sql: sqlQuery, events: len(allEvents), took: time.Since(startedAt)}, err)

	return err
}

// insertEvents runs the guarded insert. The guard yields no rows when the stream moved.
func (es EventStore) insertEvents(ctx context.Context, sqlQuery sqlQueryString, eventCount int) error {
	tag, err := es.db.Exec(ctx, sqlQuery)
	if err != nil {
		return errors.Join(eventstore.ErrAppendingEventFailed, err)
	}

	rowsAffected, err := tag.RowsAffected()
	if err != nil {
		return errors.Join(eventstore.ErrGettingRowsAffectedFailed, err)
	}

	if rowsAffected < int64(eventCount) {
		return eventstore.ErrConcurrencyConflict
	}

	return nil
}

func (es EventStore) buildSelectQuery(filter eventstore.Filter) (sqlQueryString, error) {
	selectStmt := goqu.Dialect(dialectPostgres).
		From(es.eventTableName).
		Select(colEventType, colOccurredAt, colPayload, colMetadata, colSequenceNumber).
		Order(goqu.I(colSequenceNumber).Asc())

	selectStmt, whereErr := es.addWhereClause(filter, selectStmt)
	if whereErr != nil {
		return "", whereErr
	}

	sqlQuery, _, toSQLErr := selectStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(eventstore.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

func (es EventStore) buildContextCTE(builder goqu.DialectWrapper, filter eventstore.Filter) (*goqu.SelectDataset, error) {
	cteStmt := builder.
		From(es.eventTableName).
		Select(goqu.MAX(colSequenceNumber).As(aliasMaxSeq))

	return es.addWhereClause(filter, cteStmt)
}

func (es EventStore) buildInsertQueryForSingleEvent(
	event eventstore.StorableEvent,
	filter eventstore.Filter,
	expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
) (sqlQueryString, error) {

	builder := goqu.Dialect(dialectPostgres)

	cteStmt, cteErr := es.buildContextCTE(builder, filter)
	if cteErr != nil {
		return "", cteErr
	}

	selectStmt := builder.
		From(cteContext).
		Select(
			goqu.L(castText, event.EventType),
			goqu.L(castTimestamp, event.OccurredAt),
			goqu.L(castJsonb, string(event.PayloadJSON)),
			goqu.L(castJsonb, string(event.MetadataJSON)),
		).
		Where(goqu.COALESCE(goqu.C(aliasMaxSeq), 0).Eq(goqu.V(expectedMaxSequenceNumber)))

	insertStmt := builder.
		Insert(es.eventTableName).
		Cols(colEventType, colOccurredAt, colPayload, colMetadata).
		FromQuery(selectStmt).
		With(cteContext, cteStmt)

	sqlQuery, _, toSQLErr := insertStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(eventstore.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

func (es EventStore) buildInsertQueryForMultipleEvents(
	events eventstore.StorableEvents,
	filter eventstore.Filter,
	expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
) (sqlQueryString, error) {

	builder := goqu.Dialect(dialectPostgres)

	cteStmt, cteErr := es.buildContextCTE(builder, filter)
	if cteErr != nil {
		return "", cteErr
	}

	valuesStmt := es.selectEventValues(builder, events[0])
	for _, event := range events[1:] {
		valuesStmt = valuesStmt.UnionAll(es.selectEventValues(builder, event))
	}

	valsEventType := fmt.Sprintf("%s.%s", cteVals, colEventType)
	valsOccurredAt := fmt.Sprintf("%s.%s", cteVals, colOccurredAt)
	valsPayload := fmt.Sprintf("%s.%s", cteVals, colPayload)
	valsMetadata := fmt.Sprintf("%s.%s", cteVals, colMetadata)

	insertStmt := builder.
		Insert(es.eventTableName).
		Cols(colEventType, colOccurredAt, colPayload, colMetadata).
		With(cteContext, cteStmt).
		With(cteVals, valuesStmt).
		FromQuery(
			builder.From(cteContext, cteVals).
				Select(valsEventType, valsOccurredAt, valsPayload, valsMetadata).
				Where(goqu.COALESCE(goqu.C(aliasMaxSeq), 0).Eq(goqu.V(expectedMaxSequenceNumber))),
		)

	sqlQuery, _, toSQLErr := insertStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(eventstore.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

func (es EventStore) selectEventValues(builder goqu.DialectWrapper, event eventstore.StorableEvent) *goqu.SelectDataset {
	return builder.Select(
		goqu.L(castText, event.EventType).As(colEventType),
		goqu.L(castTimestamp, event.OccurredAt).As(colOccurredAt),
		goqu.L(castJsonb, string(event.PayloadJSON)).As(colPayload),
		goqu.L(castJsonb, string(event.MetadataJSON)).As(colMetadata),
	)
}

// addWhereClause translates the filter. Predicates become jsonb containment checks whose JSON document is passed
// as an escaped literal, so payload values never end up in the SQL text unquoted.
func (es EventStore) addWhereClause(filter eventstore.Filter, selectStmt *goqu.SelectDataset) (*goqu.SelectDataset, error) {
	if len(filter.Items()) == 0 {
		return selectStmt, nil
	}

	itemsExpressions := make([]goqu.Expression, 0, len(filter.Items()))

	for _, item := range filter.Items() {
		eventTypeExpressions := make([]goqu.Expression, 0, len(item.EventTypes()))
		predicateExpressions := make([]goqu.Expression, 0, len(item.Predicates()))

		for _, eventType := range item.EventTypes() {
			eventTypeExpressions = append(eventTypeExpressions, goqu.Ex{colEventType: eventType})
		}

		for _, predicate := range item.Predicates() {
			document, marshalErr := jsoniter.ConfigFastest.MarshalToString(map[string]string{predicate.Key(): predicate.Val()})
			if marshalErr != nil {
				return nil, errors.Join(eventstore.ErrBuildingQueryFailed, marshalErr)
			}

			predicateExpressions = append(predicateExpressions, goqu.L(payloadContains, document))
		}

		var predicatesExpressionList exp.ExpressionList

		if item.AllPredicatesMustMatch() {
			predicatesExpressionList = goqu.And(predicateExpressions...)
		} else {
			predicatesExpressionList = goqu.Or(predicateExpressions...)
		}

		itemsExpressions = append(
			itemsExpressions,
			goqu.And(goqu.Or(eventTypeExpressions...), predicatesExpressionList),
		)
	}

	return selectStmt.Where(goqu.Or(itemsExpressions...)), nil
}

// observe feeds a finished round trip to the metrics collector and the logger, both optional.
// A moved stream is routine under contention and is logged at info, other failures at error.
func (es EventStore) observe(rt roundTrip, err error) {
	conflict := errors.Is(err, eventstore.ErrConcurrencyConflict)

	if es.metricsCollector != nil {
		labels := map[string]string{eventstore.LabelEngine: engineName}

		metric := eventstore.MetricQueryDuration
		if rt.action == actionAppend {
			metric = eventstore.MetricAppendDuration
		}

		es.metricsCollector.RecordDuration(metric, rt.took, labels)

		switch {
		case conflict:
			es.metricsCollector.IncrementCounter(eventstore.MetricConcurrencyConflicts, labels)
		case err == nil && rt.action == actionAppend:
			es.metricsCollector.RecordValue(eventstore.MetricEventsAppended, float64(rt.events), labels)
		}
	}

	if es.logger == nil {
		return
	}

	args := []any{logAttrAction, rt.action, logAttrEvents, rt.events, logAttrDurationMS, milliseconds(rt.took)}

	switch {
	case conflict:
		es.logger.Info(logMsgStreamMoved, args...)
	case err != nil:
		es.logger.Error(logMsgRoundTripFailed, append(args, logAttrError, err.Error(), logAttrQuery, rt.sql)...)
	default:
		es.logger.Debug(logMsgRoundTrip, append(args, logAttrQuery, rt.sql)...)
	}
}

func milliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Microseconds())) / 1000
}
