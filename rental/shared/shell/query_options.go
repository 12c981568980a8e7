package shell

// QueryOptions holds the observability dependencies of a query handler. Both may be nil.
type QueryOptions struct {
	Logger           Logger
	MetricsCollector MetricsCollector
}

// QueryOption configures QueryOptions.
type QueryOption func(*QueryOptions)

// WithQueryLogger sets the logger of a query handler.
func WithQueryLogger(logger Logger) QueryOption {
	return func(o *QueryOptions) {
		o.Logger = logger
	}
}

// WithQueryMetrics sets the metrics collector of a query handler.
func WithQueryMetrics(collector MetricsCollector) QueryOption {
	return func(o *QueryOptions) {
		o.MetricsCollector = collector
	}
}

// BuildQueryOptions applies opts to empty QueryOptions.
func BuildQueryOptions(opts ...QueryOption) QueryOptions {
	options := QueryOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	return options
}
