package config

import "fmt"

// TelemetryConfig: OpenTelemetry 분산 추적 설정입니다.
type TelemetryConfig struct {
	Enabled     bool   // 추적 활성화 여부
	ServiceName string // 리소스 서비스 이름
}

// ReadTelemetryConfigFromEnv: 환경 변수에서 Telemetry 설정을 읽습니다.
func ReadTelemetryConfigFromEnv(defaultServiceName string) (TelemetryConfig, error) {
	enabled, err := BoolFromEnv("OTEL_ENABLED", false)
	if err != nil {
		return TelemetryConfig{}, fmt.Errorf("read OTEL_ENABLED failed: %w", err)
	}
	return TelemetryConfig{
		Enabled:     enabled,
		ServiceName: StringFromEnv("OTEL_SERVICE_NAME", defaultServiceName),
	}, nil
}
