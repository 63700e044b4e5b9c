package email

import (
	"context"

	"github.com/shandysiswandi/evoting/internal/pkg/instrument"
	"github.com/shandysiswandi/evoting/internal/pkg/mail"
	"go.opentelemetry.io/otel/codes"
)

const (
	otpSubject = "Your Voting OTP"
	otpBody    = "Your OTP for e-voting is: "
)

type Mail struct {
	client mail.Mail
	ins    instrument.Instrumentation
}

func New(client mail.Mail, ins instrument.Instrumentation) *Mail {
	return &Mail{client: client, ins: ins}
}

func (m *Mail) SendOTP(ctx context.Context, to, code string) error {
	ctx, span := m.ins.Tracer("voter.outbound.email").Start(ctx, "SendOTP")
	defer span.End()

	if err := m.client.Send(ctx, mail.Message{
		To:      to,
		Subject: otpSubject,
		Body:    otpBody + code,
	}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}
