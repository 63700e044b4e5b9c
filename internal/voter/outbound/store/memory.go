package store

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/shandysiswandi/evoting/internal/pkg/goerror"
	"github.com/shandysiswandi/evoting/internal/pkg/instrument"
	"github.com/shandysiswandi/evoting/internal/voter/entity"
)

// Memory is the in-process store. Each table has its own lock and every
// operation on a table is a single critical section.
type Memory struct {
	tracer

	idMu        sync.Mutex
	identifiers map[string]entity.Identifier

	otpMu sync.Mutex
	otps  map[string]entity.OTPEntry

	credMu      sync.RWMutex
	credentials map[string]entity.Credential
}

func NewMemory(ins instrument.Instrumentation) *Memory {
	return &Memory{
		tracer:      tracer{ins: ins, name: "voter.outbound.store.memory"},
		identifiers: make(map[string]entity.Identifier),
		otps:        make(map[string]entity.OTPEntry),
		credentials: make(map[string]entity.Credential),
	}
}

func (m *Memory) CreateIdentifier(ctx context.Context, in entity.Identifier) (err error) {
	_, span := m.startSpan(ctx, "CreateIdentifier")
	defer func() { m.endSpan(span, err) }()

	m.idMu.Lock()
	defer m.idMu.Unlock()

	if _, ok := m.identifiers[in.Hash]; ok {
		return goerror.ErrConflict
	}
	m.identifiers[in.Hash] = in

	return nil
}

func (m *Memory) GetIdentifier(ctx context.Context, hash string) (_ *entity.Identifier, err error) {
	_, span := m.startSpan(ctx, "GetIdentifier")
	defer func() { m.endSpan(span, err) }()

	m.idMu.Lock()
	defer m.idMu.Unlock()

	rec, ok := m.identifiers[hash]
	if !ok {
		return nil, goerror.ErrNotFound
	}

	return &rec, nil
}

func (m *Memory) DeleteIdentifier(ctx context.Context, hash string) (err error) {
	_, span := m.startSpan(ctx, "DeleteIdentifier")
	defer func() { m.endSpan(span, err) }()

	m.idMu.Lock()
	defer m.idMu.Unlock()

	delete(m.identifiers, hash)

	return nil
}

func (m *Memory) SaveOTP(ctx context.Context, in entity.OTPEntry) (err error) {
	_, span := m.startSpan(ctx, "SaveOTP")
	defer func() { m.endSpan(span, err) }()

	m.otpMu.Lock()
	defer m.otpMu.Unlock()

	m.otps[in.ContactKey] = in

	return nil
}

func (m *Memory) ConsumeOTP(
	ctx context.Context,
	contactKey string,
	fn func(entity.OTPEntry) (entity.OTPEntry, error),
) (_ entity.OTPEntry, err error) {
	_, span := m.startSpan(ctx, "ConsumeOTP")
	defer func() { m.endSpan(span, err) }()

	m.otpMu.Lock()
	defer m.otpMu.Unlock()

	cur, ok := m.otps[contactKey]
	if !ok {
		return entity.OTPEntry{}, goerror.ErrNotFound
	}

	next, verr := fn(cur)
	if next.State != entity.OTPStateActive {
		delete(m.otps, contactKey)
	}

	return next, verr
}

func (m *Memory) SweepOTP(ctx context.Context, now time.Time) (_ int, err error) {
	_, span := m.startSpan(ctx, "SweepOTP")
	defer func() { m.endSpan(span, err) }()

	m.otpMu.Lock()
	defer m.otpMu.Unlock()

	removed := 0
	for key, e := range m.otps {
		if e.IsExpired(now) {
			delete(m.otps, key)
			removed++
		}
	}

	return removed, nil
}

func (m *Memory) SaveCredential(ctx context.Context, in entity.Credential) (err error) {
	_, span := m.startSpan(ctx, "SaveCredential")
	defer func() { m.endSpan(span, err) }()

	m.credMu.Lock()
	defer m.credMu.Unlock()

	m.credentials[strings.ToLower(in.Address)] = in

	return nil
}

func (m *Memory) GetCredential(ctx context.Context, address string) (_ *entity.Credential, err error) {
	_, span := m.startSpan(ctx, "GetCredential")
	defer func() { m.endSpan(span, err) }()

	m.credMu.RLock()
	defer m.credMu.RUnlock()

	c, ok := m.credentials[strings.ToLower(address)]
	if !ok {
		return nil, goerror.ErrNotFound
	}

	return &c, nil
}
