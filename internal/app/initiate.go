package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	libOTP "github.com/pquerna/otp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"github.com/shandysiswandi/evoting/internal/pkg/clock"
	"github.com/shandysiswandi/evoting/internal/pkg/config"
	"github.com/shandysiswandi/evoting/internal/pkg/evoting"
	"github.com/shandysiswandi/evoting/internal/pkg/goroutine"
	"github.com/shandysiswandi/evoting/internal/pkg/hash"
	"github.com/shandysiswandi/evoting/internal/pkg/idempotency"
	"github.com/shandysiswandi/evoting/internal/pkg/instrument"
	"github.com/shandysiswandi/evoting/internal/pkg/jwt"
	"github.com/shandysiswandi/evoting/internal/pkg/mail"
	"github.com/shandysiswandi/evoting/internal/pkg/messaging"
	"github.com/shandysiswandi/evoting/internal/pkg/otp"
	"github.com/shandysiswandi/evoting/internal/pkg/router"
	"github.com/shandysiswandi/evoting/internal/pkg/uid"
	"github.com/shandysiswandi/evoting/internal/pkg/validator"
	"github.com/shandysiswandi/evoting/internal/voter/outbound/store"
)

// configPath prefers CONFIG_PATH, then the container mount, then the repo
// copy when LOCAL=true.
func configPath() string {
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		return path
	}
	if os.Getenv("LOCAL") == "true" {
		return "./config/config.yaml"
	}
	return "/config/config.yaml"
}

func (a *App) initConfig() error {
	cfg, err := config.NewViper(configPath())
	if err != nil {
		return err
	}
	a.config = cfg
	a.onClose("config", func(context.Context) error { return cfg.Close() })

	// voter event timestamps and logs use this zone
	if tz := a.config.GetString("app.tz"); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return fmt.Errorf("load time zone %q: %w", tz, err)
		}
		time.Local = loc
	}

	return nil
}

func (a *App) initInstrument() error {
	ins, err := instrument.New(a.ctx, &instrument.Config{
		Enabled:          a.config.GetBool("instrument.enabled"),
		ServiceName:      a.config.GetString("instrument.service_name"),
		ServiceVersion:   a.config.GetString("instrument.service_version"),
		Environment:      a.config.GetString("instrument.env"),
		OTLPEndpoint:     a.config.GetString("instrument.otlp_endpoint"),
		OTLPSecure:       a.config.GetBool("instrument.otlp_secure"),
		TraceSampleRatio: a.config.GetFloat64("instrument.trace_sample_ratio"),
		MetricsInterval:  a.config.GetSecond("instrument.metric_interval_seconds"),
		MaskFields:       a.config.GetArray("instrument.log_mask_fields"),
	})
	if err != nil {
		return err
	}
	a.ins = ins
	a.onClose("instrument", ins.Shutdown)
	return nil
}

func (a *App) initLibraries() error {
	a.clock = clock.New()
	a.uuid = uid.NewUUID()
	a.goroutine = goroutine.NewManager(a.config.GetInt("app.server.max_goroutine"))
	a.argon2id = hash.NewArgon2id(a.config.GetString("hash.argon2id.pepper"))

	if secret := strings.TrimSpace(a.config.GetString("hash.identifier.secret")); secret != "" {
		a.identifierHash = hash.NewHMACSHA256(secret)
	} else {
		slog.Warn("hash.identifier.secret is empty, identifier digests are unkeyed")
		a.identifierHash = hash.NewSHA256()
	}

	v, err := validator.NewV10Validator()
	if err != nil {
		return fmt.Errorf("validator: %w", err)
	}
	a.validator = v

	snow, err := uid.NewSnowflake()
	if err != nil {
		return fmt.Errorf("snowflake: %w", err)
	}
	a.uid = snow

	digits := libOTP.DigitsSix
	if a.config.GetInt("modules.voter.otp.digits") == libOTP.DigitsEight.Length() {
		digits = libOTP.DigitsEight
	}
	a.otp = otp.NewNumeric(digits)

	return nil
}

func (a *App) initJWT() error {
	j, err := jwt.NewHS512(jwt.Config{
		Secret:    []byte(a.config.GetString("jwt.secret")),
		Issuer:    a.config.GetString("jwt.issuer"),
		Audiences: a.config.GetArray("jwt.audiences"),
		TTL:       a.config.GetMinute("modules.voter.session_ttl_minutes"),
		Clock:     a.clock,
		UUID:      a.uuid,
	})
	if err != nil {
		return err
	}
	a.jwt = j
	return nil
}

// initCache connects to Redis only when the voter store runs on it. Without
// Redis, voter state lives in memory and votes have no idempotency guard.
func (a *App) initCache() error {
	if a.config.GetString("store.driver") != store.DriverRedis {
		slog.Info("redis disabled, using in-memory voter store")
		return nil
	}

	opt, err := redis.ParseURL(a.config.GetString("redis.url"))
	if err != nil {
		return fmt.Errorf("parse url: %w", err)
	}

	rdb := redis.NewClient(opt)
	a.onClose("redis", func(context.Context) error { return rdb.Close() })

	pingCtx, cancel := context.WithTimeout(a.ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		return fmt.Errorf("ping: %w", err)
	}

	a.cacheConn = rdb
	a.idemp = idempotency.New(rdb)
	return nil
}

func (a *App) initContract() error {
	dialCtx, cancel := context.WithTimeout(a.ctx, 10*time.Second)
	defer cancel()

	client, err := evoting.Dial(dialCtx, evoting.Config{
		RPCURL:         a.config.GetString("contract.rpc_url"),
		PrivateKey:     a.config.GetString("contract.private_key"),
		Address:        a.config.GetString("contract.address"),
		ChainID:        a.config.GetInt64("contract.chain_id"),
		ReceiptTimeout: a.config.GetSecond("contract.receipt_timeout_seconds"),
	})
	if err != nil {
		return err
	}
	a.contract = client
	a.onClose("contract", func(context.Context) error { return client.Close() })
	return nil
}

func (a *App) initMail() error {
	m, err := mail.NewSMTP(mail.SMTPConfig{
		Host:     a.config.GetString("mail.host"),
		Port:     a.config.GetInt("mail.port"),
		Username: a.config.GetString("mail.username"),
		Password: a.config.GetString("mail.password"),
		From:     a.config.GetString("mail.from"),
		Timeout:  a.config.GetSecond("mail.timeout_seconds"),
	})
	if err != nil {
		return err
	}
	a.mail = m
	a.onClose("mail", func(context.Context) error { return m.Close() })
	return nil
}

func (a *App) initMessaging() error {
	driver := a.config.GetString("messaging.driver")
	client, err := messaging.New(driver, messaging.Config{
		NATS: messaging.NATSConfig{
			URL: a.config.GetString("messaging.nats.url"),
			Options: []nats.Option{
				nats.Name(a.config.GetString("messaging.nats.name")),
				nats.MaxReconnects(a.config.GetInt("messaging.nats.max_reconnects")),
				nats.Timeout(a.config.GetSecond("messaging.nats.timeout_seconds")),
				nats.ReconnectWait(a.config.GetSecond("messaging.nats.reconnect_wait_seconds")),
				nats.PingInterval(a.config.GetSecond("messaging.nats.ping_interval_seconds")),
				nats.MaxPingsOutstanding(a.config.GetInt("messaging.nats.max_pings_outstanding")),
				nats.RetryOnFailedConnect(a.config.GetBool("messaging.nats.retry_on_failed_connect")),
			},
		},
		Kafka: messaging.KafkaConfig{
			Brokers:      a.config.GetArray("messaging.kafka.brokers"),
			ClientID:     a.config.GetString("messaging.kafka.client_id"),
			DialTimeout:  a.config.GetSecond("messaging.kafka.dial_timeout_seconds"),
			BatchTimeout: a.config.GetSecond("messaging.kafka.batch_timeout_seconds"),
			RequiredAcks: a.config.GetInt("messaging.kafka.required_acks"),
		},
	})
	if err != nil {
		return fmt.Errorf("driver %q: %w", driver, err)
	}
	a.messaging = client
	a.onClose("messaging", func(context.Context) error { return client.Close() })
	return nil
}

func (a *App) initHTTPServer() error {
	a.router = router.NewRouter(router.Config{
		Config:     a.config,
		UUID:       a.uuid,
		Instrument: a.ins,
	})

	// browser clients send the session token and, for admins, the key header
	handler := cors.New(cors.Options{
		AllowedOrigins:   a.config.GetArray("app.server.cors"),
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", router.HeaderAdminKey, router.HeaderCorrelationID, router.HeaderRequestID, "traceparent"},
		AllowCredentials: true,
	}).Handler(a.router)

	a.httpServer = &http.Server{
		Addr:              a.config.GetString("app.server.http.address"),
		Handler:           handler,
		ReadTimeout:       a.config.GetSecond("app.server.http.read_timeout_seconds"),
		ReadHeaderTimeout: a.config.GetSecond("app.server.http.read_header_timeout_seconds"),
		WriteTimeout:      a.config.GetSecond("app.server.http.write_timeout_seconds"),
		IdleTimeout:       a.config.GetSecond("app.server.http.idle_timeout_seconds"),
	}
	return nil
}
