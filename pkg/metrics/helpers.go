package metrics

import (
	"time"
)

type DbOperation string

const (
	DbOpFind   DbOperation = "find"
	DbOpInsert DbOperation = "insert"
)

// DbTimer измеряет длительность запроса к MongoDB
type DbTimer struct {
	service    string
	operation  DbOperation
	collection string
	start      time.Time
}

func NewDbTimer(service string, op DbOperation, collection string) *DbTimer {
	return &DbTimer{
		service:    service,
		operation:  op,
		collection: collection,
		start:      time.Now(),
	}
}

func (dt *DbTimer) ObserveDuration() {
	duration := time.Since(dt.start).Seconds()
	DbQueryDuration.WithLabelValues(dt.service, string(dt.operation), dt.collection).Observe(duration)
}

func RecordDbError(service string, op DbOperation) {
	DbErrors.WithLabelValues(service, string(op)).Inc()
}

func RecordCacheHit(service, keyPrefix string) {
	RedisCacheHits.WithLabelValues(service, keyPrefix).Inc()
}

func RecordCacheMiss(service, keyPrefix string) {
	RedisCacheMisses.WithLabelValues(service, keyPrefix).Inc()
}

func RecordRedisError(service, operation string) {
	RedisErrors.WithLabelValues(service, operation).Inc()
}

func RecordKafkaMessageProduced(service, topic string, duration time.Duration) {
	KafkaMessagesProduced.WithLabelValues(service, topic).Inc()
	KafkaProduceDuration.WithLabelValues(service, topic).Observe(duration.Seconds())
}

func RecordKafkaError(service, topic, operation string) {
	KafkaErrors.WithLabelValues(service, topic, operation).Inc()
}

// CompletionTimer измеряет длительность вызова генеративного API
type CompletionTimer struct {
	service   string
	operation string
	start     time.Time
}

func NewCompletionTimer(service, operation string) *CompletionTimer {
	return &CompletionTimer{
		service:   service,
		operation: operation,
		start:     time.Now(),
	}
}

func (ct *CompletionTimer) ObserveDuration() {
	duration := time.Since(ct.start).Seconds()
	CompletionRequestDuration.WithLabelValues(ct.service, ct.operation).Observe(duration)
}

func RecordCompletionError(service, operation string) {
	CompletionErrors.WithLabelValues(service, operation).Inc()
}
