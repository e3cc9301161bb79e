package config

// MQ 공통 상수.
const (
	// MQBatchSize: 메시지 큐 배치 크기
	MQBatchSize = 5
	// MQReadTimeoutMS: 메시지 큐 읽기 타임아웃(ms)
	MQReadTimeoutMS = 5000
	// MQConsumerConcurrency: 메시지 큐 소비 동시성
	MQConsumerConcurrency = 5
)
