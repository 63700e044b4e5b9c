// Package messaging publishes domain events to Kafka or NATS. Event
// delivery is best effort: callers log a failed publish and carry on, since
// the chain is the system of record.
package messaging
