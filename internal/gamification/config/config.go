package config

import (
	"fmt"

	commonconfig "github.com/park285/eco-report-bots/gamification-go/internal/common/config"
)

// ServerConfig: HTTP 서버 설정 (포트 등) alias
type ServerConfig = commonconfig.ServerConfig

// ServerTuningConfig: 서버 튜닝 설정 (Timeouts, Limits 등) alias
type ServerTuningConfig = commonconfig.ServerTuningConfig

// RedisConfig: Redis/Valkey 연결 설정 alias
type RedisConfig = commonconfig.RedisConfig

// LogConfig: 로깅 설정 (디렉터리, 로테이션 등) alias
type LogConfig = commonconfig.LogConfig

// ValkeyMQConfig: 스트림(MQ) 전용 Valkey 연결/소비 설정 alias
type ValkeyMQConfig = commonconfig.ValkeyMQConfig

// PostgresConfig: PostgreSQL 데이터베이스 설정
type PostgresConfig struct {
	Host       string
	Port       int
	SocketPath string // UDS 경로 (비어있으면 TCP 사용)
	Name       string
	User       string
	Password   string
	SSLMode    string
}

// EngineConfig: 진행 엔진 동작 설정
type EngineConfig struct {
	UserLockEnabled        bool // 사용자 락 직렬화 사용 여부 (끄면 CAS 재시도만)
	LeaderboardCacheEnable bool // 리더보드 Valkey 캐시 사용 여부
	TriggerConsumerEnable  bool // 트리거 소비 루프 활성화 여부
}

// Config: 전체 애플리케이션 설정 구조체
// Valkey.StreamKey는 인바운드 트리거 스트림, Valkey.ReplyStreamKey는
// 아웃바운드 진행 이벤트 스트림으로 쓴다.
type Config struct {
	Server       ServerConfig
	ServerTuning ServerTuningConfig
	Redis        RedisConfig
	Valkey       ValkeyMQConfig
	Postgres     PostgresConfig
	Engine       EngineConfig
	Log          LogConfig
	Telemetry    commonconfig.TelemetryConfig // OpenTelemetry 분산 추적
}

// LoadFromEnv: 환경 변수로부터 전체 애플리케이션 설정을 로드합니다.
func LoadFromEnv() (*Config, error) {
	server, err := readServerConfig()
	if err != nil {
		return nil, err
	}
	serverTuning, err := readServerTuningConfig()
	if err != nil {
		return nil, err
	}
	redisCfg, err := readRedisConfig()
	if err != nil {
		return nil, err
	}
	valkeyMQ, err := readValkeyMQConfig()
	if err != nil {
		return nil, err
	}
	postgres, err := readPostgresConfig()
	if err != nil {
		return nil, err
	}
	engine, err := readEngineConfig()
	if err != nil {
		return nil, err
	}
	log, err := readLogConfig()
	if err != nil {
		return nil, err
	}
	telemetry, err := commonconfig.ReadTelemetryConfigFromEnv("gamification-engine")
	if err != nil {
		return nil, fmt.Errorf("read telemetry config: %w", err)
	}

	return &Config{
		Server:       server,
		ServerTuning: serverTuning,
		Redis:        redisCfg,
		Valkey:       valkeyMQ,
		Postgres:     postgres,
		Engine:       engine,
		Log:          log,
		Telemetry:    telemetry,
	}, nil
}

func readServerConfig() (ServerConfig, error) {
	cfg, err := commonconfig.ReadServerConfigFromEnv(40310)
	if err != nil {
		return ServerConfig{}, fmt.Errorf("read server config failed: %w", err)
	}
	return cfg, nil
}

func readServerTuningConfig() (ServerTuningConfig, error) {
	cfg, err := commonconfig.ReadServerTuningConfigFromEnv()
	if err != nil {
		return ServerTuningConfig{}, fmt.Errorf("read server tuning config failed: %w", err)
	}
	return cfg, nil
}

func readRedisConfig() (RedisConfig, error) {
	cfg, err := commonconfig.ReadRedisConfigFromEnv(
		[]string{"CACHE_HOST", "REDIS_HOST"},
		[]string{"CACHE_PORT", "REDIS_PORT"},
		[]string{"CACHE_PASSWORD", "REDIS_PASSWORD"},
		[]string{"CACHE_SOCKET_PATH", "REDIS_SOCKET_PATH"},
		"localhost",
		6379,
		"",
	)
	if err != nil {
		return RedisConfig{}, fmt.Errorf("read redis config failed: %w", err)
	}
	return cfg, nil
}

func readPostgresConfig() (PostgresConfig, error) {
	port, err := commonconfig.IntFromEnv("DB_PORT", 5432)
	if err != nil {
		return PostgresConfig{}, fmt.Errorf("read DB_PORT failed: %w", err)
	}

	return PostgresConfig{
		Host:       commonconfig.StringFromEnv("DB_HOST", "localhost"),
		Port:       port,
		SocketPath: commonconfig.StringFromEnv("DB_SOCKET_PATH", ""),
		Name:       commonconfig.StringFromEnv("DB_NAME", "gamification"),
		User:       commonconfig.StringFromEnv("DB_USER", "gamification_app"),
		Password:   commonconfig.StringFromEnv("DB_PASSWORD", ""),
		SSLMode:    commonconfig.StringFromEnv("DB_SSLMODE", "disable"),
	}, nil
}

func readValkeyMQConfig() (ValkeyMQConfig, error) {
	cfg, err := commonconfig.ReadValkeyMQConfigFromEnv(commonconfig.ValkeyMQConfigEnvOptions{
		HostKeys:     []string{"MQ_HOST", "VALKEY_MQ_HOST"},
		PortKeys:     []string{"MQ_PORT", "VALKEY_MQ_PORT"},
		PasswordKeys: []string{"MQ_PASSWORD", "VALKEY_MQ_PASSWORD"},

		TimeoutMillisKeys: []string{"MQ_TIMEOUT", "VALKEY_MQ_TIMEOUT"},
		PoolSizeKeys:      []string{"MQ_CONNECTION_POOL_SIZE", "VALKEY_MQ_CONNECTION_POOL_SIZE"},
		MinIdleKeys:       []string{"MQ_CONNECTION_MIN_IDLE_SIZE", "VALKEY_MQ_CONNECTION_MIN_IDLE_SIZE"},

		ConsumerGroupKeys: []string{"TRIGGER_CONSUMER_GROUP", "MQ_CONSUMER_GROUP"},
		ConsumerNameKeys:  []string{"TRIGGER_CONSUMER_NAME", "MQ_CONSUMER_NAME"},
		ResetConsumerGroupOnStartupKeys: []string{
			"MQ_RESET_CONSUMER_GROUP_ON_STARTUP",
			"VALKEY_MQ_RESET_CONSUMER_GROUP_ON_STARTUP",
		},
		StreamKeyKeys:      []string{"TRIGGER_STREAM_KEY", "MQ_STREAM_KEY"},
		ReplyStreamKeyKeys: []string{"EVENT_STREAM_KEY", "MQ_REPLY_STREAM_KEY"},
		BatchSizeKeys:      []string{"MQ_BATCH_SIZE", "VALKEY_MQ_BATCH_SIZE"},
		BlockTimeoutMillisKeys: []string{
			"MQ_READ_TIMEOUT_MS",
			"VALKEY_MQ_READ_TIMEOUT_MS",
		},
		ConcurrencyKeys:  []string{"MQ_CONCURRENCY", "VALKEY_MQ_CONCURRENCY"},
		StreamMaxLenKeys: []string{"EVENT_STREAM_MAX_LEN", "MQ_STREAM_MAX_LEN"},

		DefaultHost:          "localhost",
		DefaultPort:          6379,
		DefaultPassword:      "",
		DefaultTimeoutMillis: 5000,
		DefaultPoolSize:      64,
		DefaultMinIdle:       10,

		DefaultConsumerGroup:               DefaultTriggerGroup,
		DefaultConsumerName:                "consumer-1",
		DefaultResetConsumerGroupOnStartup: false,
		DefaultStreamKey:                   DefaultTriggerStreamKey,
		DefaultReplyStreamKey:              DefaultEventStreamKey,
		DefaultBatchSize:                   commonconfig.MQBatchSize,
		DefaultBlockTimeoutMillis:          commonconfig.MQReadTimeoutMS,
		DefaultConcurrency:                 commonconfig.MQConsumerConcurrency,
		DefaultStreamMaxLen:                10000,
	})
	if err != nil {
		return ValkeyMQConfig{}, fmt.Errorf("read valkey mq config failed: %w", err)
	}
	return cfg, nil
}

func readEngineConfig() (EngineConfig, error) {
	lockEnabled, err := commonconfig.BoolFromEnv("USER_LOCK_ENABLED", true)
	if err != nil {
		return EngineConfig{}, fmt.Errorf("read USER_LOCK_ENABLED failed: %w", err)
	}
	cacheEnabled, err := commonconfig.BoolFromEnv("LEADERBOARD_CACHE_ENABLED", true)
	if err != nil {
		return EngineConfig{}, fmt.Errorf("read LEADERBOARD_CACHE_ENABLED failed: %w", err)
	}
	consumerEnabled, err := commonconfig.BoolFromEnv("TRIGGER_CONSUMER_ENABLED", true)
	if err != nil {
		return EngineConfig{}, fmt.Errorf("read TRIGGER_CONSUMER_ENABLED failed: %w", err)
	}

	return EngineConfig{
		UserLockEnabled:        lockEnabled,
		LeaderboardCacheEnable: cacheEnabled,
		TriggerConsumerEnable:  consumerEnabled,
	}, nil
}

func readLogConfig() (LogConfig, error) {
	cfg, err := commonconfig.ReadLogConfigFromEnv()
	if err != nil {
		return LogConfig{}, fmt.Errorf("read log config failed: %w", err)
	}
	return cfg, nil
}
