// Package infra contains technical adapters: run stores, metrics sinks, the
// MQTT schedule publisher and error monitoring. These packages should depend
// only on the interfaces defined in the core packages.
package infra
