package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/evoting/internal/pkg/goerror"
	"github.com/shandysiswandi/evoting/internal/pkg/instrument"
	"github.com/shandysiswandi/evoting/internal/voter/entity"
)

const (
	keyIdentifier = "evoting:voter:identifier:"
	keyOTP        = "evoting:voter:otp:"
	keyCredential = "evoting:voter:credential:"

	// otp keys outlive their logical expiry so the sweep, not Redis, decides
	otpKeyGrace = time.Minute

	maxTxRetries = 3
	scanCount    = 100
)

// Redis stores records as JSON strings. Identifier creation relies on SETNX
// and OTP consumption on an optimistic WATCH transaction.
type Redis struct {
	tracer

	client *redis.Client
}

func NewRedis(client *redis.Client, ins instrument.Instrumentation) *Redis {
	return &Redis{
		tracer: tracer{ins: ins, name: "voter.outbound.store.redis"},
		client: client,
	}
}

func (r *Redis) CreateIdentifier(ctx context.Context, in entity.Identifier) (err error) {
	ctx, span := r.startSpan(ctx, "CreateIdentifier")
	defer func() { r.endSpan(span, err) }()

	body, err := json.Marshal(in)
	if err != nil {
		return err
	}

	ok, err := r.client.SetNX(ctx, keyIdentifier+in.Hash, body, 0).Result()
	if err != nil {
		return err
	}
	if !ok {
		return goerror.ErrConflict
	}

	return nil
}

func (r *Redis) GetIdentifier(ctx context.Context, hash string) (_ *entity.Identifier, err error) {
	ctx, span := r.startSpan(ctx, "GetIdentifier")
	defer func() { r.endSpan(span, err) }()

	var rec entity.Identifier
	if err := r.getJSON(ctx, keyIdentifier+hash, &rec); err != nil {
		return nil, err
	}

	return &rec, nil
}

func (r *Redis) DeleteIdentifier(ctx context.Context, hash string) (err error) {
	ctx, span := r.startSpan(ctx, "DeleteIdentifier")
	defer func() { r.endSpan(span, err) }()

	return r.client.Del(ctx, keyIdentifier+hash).Err()
}

func (r *Redis) SaveOTP(ctx context.Context, in entity.OTPEntry) (err error) {
	ctx, span := r.startSpan(ctx, "SaveOTP")
	defer func() { r.endSpan(span, err) }()

	body, err := json.Marshal(in)
	if err != nil {
		return err
	}

	ttl := in.ExpiresAt.Sub(in.IssuedAt) + otpKeyGrace

	return r.client.Set(ctx, keyOTP+in.ContactKey, body, ttl).Err()
}

func (r *Redis) ConsumeOTP(
	ctx context.Context,
	contactKey string,
	fn func(entity.OTPEntry) (entity.OTPEntry, error),
) (_ entity.OTPEntry, err error) {
	ctx, span := r.startSpan(ctx, "ConsumeOTP")
	defer func() { r.endSpan(span, err) }()

	key := keyOTP + contactKey

	var (
		next entity.OTPEntry
		verr error
	)

	txf := func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return goerror.ErrNotFound
		}
		if err != nil {
			return err
		}

		var cur entity.OTPEntry
		if err := json.Unmarshal(raw, &cur); err != nil {
			return fmt.Errorf("decode otp entry: %w", err)
		}

		next, verr = fn(cur)
		if next.State == entity.OTPStateActive {
			return nil
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, key)
			return nil
		})
		return err
	}

	for range maxTxRetries {
		err = r.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return entity.OTPEntry{}, err
		}
		return next, verr
	}

	return entity.OTPEntry{}, goerror.ErrConflict
}

func (r *Redis) SweepOTP(ctx context.Context, now time.Time) (_ int, err error) {
	ctx, span := r.startSpan(ctx, "SweepOTP")
	defer func() { r.endSpan(span, err) }()

	removed := 0
	iter := r.client.Scan(ctx, 0, keyOTP+"*", scanCount).Iterator()
	for iter.Next(ctx) {
		ok, err := r.deleteIfExpired(ctx, iter.Val(), now)
		if err != nil {
			return removed, err
		}
		if ok {
			removed++
		}
	}
	if err := iter.Err(); err != nil {
		return removed, err
	}

	return removed, nil
}

// deleteIfExpired re-reads the entry under WATCH so a concurrent re-issue is
// never swept.
func (r *Redis) deleteIfExpired(ctx context.Context, key string, now time.Time) (bool, error) {
	deleted := false

	err := r.client.Watch(ctx, func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil
		}
		if err != nil {
			return err
		}

		var e entity.OTPEntry
		if err := json.Unmarshal(raw, &e); err != nil {
			return fmt.Errorf("decode otp entry: %w", err)
		}
		if !e.IsExpired(now) {
			return nil
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, key)
			return nil
		})
		if err == nil {
			deleted = true
		}
		return err
	}, key)
	if errors.Is(err, redis.TxFailedErr) {
		return false, nil
	}

	return deleted, err
}

func (r *Redis) SaveCredential(ctx context.Context, in entity.Credential) (err error) {
	ctx, span := r.startSpan(ctx, "SaveCredential")
	defer func() { r.endSpan(span, err) }()

	body, err := json.Marshal(in)
	if err != nil {
		return err
	}

	return r.client.Set(ctx, keyCredential+strings.ToLower(in.Address), body, 0).Err()
}

func (r *Redis) GetCredential(ctx context.Context, address string) (_ *entity.Credential, err error) {
	ctx, span := r.startSpan(ctx, "GetCredential")
	defer func() { r.endSpan(span, err) }()

	var c entity.Credential
	if err := r.getJSON(ctx, keyCredential+strings.ToLower(address), &c); err != nil {
		return nil, err
	}

	return &c, nil
}

func (r *Redis) getJSON(ctx context.Context, key string, dst any) error {
	raw, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return goerror.ErrNotFound
	}
	if err != nil {
		return err
	}

	return json.Unmarshal(raw, dst)
}
