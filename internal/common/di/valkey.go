package di

import "github.com/valkey-io/valkey-go"

// DataValkeyClient 는 락/캐시 등 데이터 용도의 Valkey 클라이언트 wrapper 타입이다.
// 스트림 용도와 동일 타입(valkey.Client)으로 섞이지 않도록 분리해 의존성 그래프를 명확히 한다.
type DataValkeyClient struct{ valkey.Client }

// MQValkeyClient 는 스트림(MQ) 용도의 Valkey 클라이언트 wrapper 타입이다.
// 클라이언트 사이드 캐싱이 꺼진 연결을 사용한다.
type MQValkeyClient struct{ valkey.Client }
