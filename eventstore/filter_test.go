package eventstore_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/onelib/rentalengine/eventstore"
)

func Test_FilterBuilder_ValidCombinations(t *testing.T) {
	tests := []struct {
		name     string
		build    func() eventstore.Filter
		validate func(t *testing.T, filter eventstore.Filter)
	}{
		{
			name: "matching_any_event_creates_empty_filter",
			build: func() eventstore.Filter {
				return eventstore.BuildEventFilter().MatchingAnyEvent()
			},
			validate: func(t *testing.T, f eventstore.Filter) {
				assert.Empty(t, f.Items())
			},
		},
		{
			name: "event_types_are_sorted_and_deduplicated",
			build: func() eventstore.Filter {
				return eventstore.BuildEventFilter().
					Matching().
					AnyEventTypeOf("RentalRejected", "", "RentalApproved", "RentalRejected").
					Finalize()
			},
			validate: func(t *testing.T, f eventstore.Filter) {
				assert.Len(t, f.Items(), 1)
				assert.Equal(t, []string{"RentalApproved", "RentalRejected"}, f.Items()[0].EventTypes())
				assert.Empty(t, f.Items()[0].Predicates())
			},
		},
		{
			name: "partial_predicates_are_removed",
			build: func() eventstore.Filter {
				return eventstore.BuildEventFilter().
					Matching().
					AnyPredicateOf(eventstore.P("UserID", "u-1"), eventstore.P("", "x"), eventstore.P("TitleID", "")).
					Finalize()
			},
			validate: func(t *testing.T, f eventstore.Filter) {
				assert.Len(t, f.Items()[0].Predicates(), 1)
				assert.Equal(t, "UserID", f.Items()[0].Predicates()[0].Key())
				assert.False(t, f.Items()[0].AllPredicatesMustMatch())
			},
		},
		{
			name: "all_predicates_with_event_types",
			build: func() eventstore.Filter {
				return eventstore.BuildEventFilter().
					Matching().
					AnyEventTypeOf("RentalRequested").
					AndAllPredicatesOf(eventstore.P("UserID", "u-1"), eventstore.P("TitleID", "t-1")).
					Finalize()
			},
			validate: func(t *testing.T, f eventstore.Filter) {
				assert.True(t, f.Items()[0].AllPredicatesMustMatch())
				assert.Equal(t, "TitleID", f.Items()[0].Predicates()[0].Key())
				assert.Equal(t, "UserID", f.Items()[0].Predicates()[1].Key())
			},
		},
		{
			name: "or_matching_creates_multiple_items",
			build: func() eventstore.Filter {
				return eventstore.BuildEventFilter().
					Matching().
					AnyEventTypeOf("RentalRequested").
					OrMatching().
					AnyPredicateOf(eventstore.P("Tenant", "Delhi Public Library")).
					Finalize()
			},
			validate: func(t *testing.T, f eventstore.Filter) {
				assert.Len(t, f.Items(), 2)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.validate(t, tt.build())
		})
	}
}

func Test_Filter_Matches(t *testing.T) {
	fields := map[string]string{"RentalID": "r-1", "UserID": "u-1", "TitleID": "t-1"}

	tests := []struct {
		name      string
		filter    eventstore.Filter
		eventType string
		expected  bool
	}{
		{
			name:      "empty_filter_matches_everything",
			filter:    eventstore.BuildEventFilter().MatchingAnyEvent(),
			eventType: "RentalApproved",
			expected:  true,
		},
		{
			name:      "event_type_mismatch",
			filter:    eventstore.BuildEventFilter().Matching().AnyEventTypeOf("RentalRejected").Finalize(),
			eventType: "RentalApproved",
			expected:  false,
		},
		{
			name: "any_predicate_one_matches",
			filter: eventstore.BuildEventFilter().Matching().
				AnyPredicateOf(eventstore.P("RentalID", "other"), eventstore.P("UserID", "u-1")).
				Finalize(),
			eventType: "RentalApproved",
			expected:  true,
		},
		{
			name: "all_predicates_one_misses",
			filter: eventstore.BuildEventFilter().Matching().
				AllPredicatesOf(eventstore.P("TitleID", "t-2"), eventstore.P("UserID", "u-1")).
				Finalize(),
			eventType: "RentalApproved",
			expected:  false,
		},
		{
			name: "all_predicates_and_event_type_match",
			filter: eventstore.BuildEventFilter().Matching().
				AnyEventTypeOf("RentalApproved").
				AndAllPredicatesOf(eventstore.P("TitleID", "t-1"), eventstore.P("UserID", "u-1")).
				Finalize(),
			eventType: "RentalApproved",
			expected:  true,
		},
		{
			name: "second_item_matches",
			filter: eventstore.BuildEventFilter().Matching().
				AnyEventTypeOf("RentalRejected").
				OrMatching().
				AnyPredicateOf(eventstore.P("RentalID", "r-1")).
				Finalize(),
			eventType: "RentalApproved",
			expected:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.filter.Matches(tt.eventType, fields))
		})
	}
}
