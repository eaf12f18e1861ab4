package metrics

// Package metrics defines the sinks that observe scheduling runs. Every sink
// records the outcome of a solve; optional recorder interfaces cover job
// issues and search progress. Sinks like PromSink are registered by
// infra/metrics and combined with NewMultiSink when several are configured.
