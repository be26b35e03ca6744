package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/nabyrahkigenyi-design/Komtifix/libs/mailer"
)

const (
	sendStageLead    = "lead"
	sendStageConfirm = "confirm"
)

// ErrServerMisconfigured is returned before any send when contact config is incomplete.
var ErrServerMisconfigured = errors.New("contact: server misconfigured")

// SendError reports which outbound message could not be delivered to the provider.
type SendError struct {
	Stage string
	Err   error
}

func (e *SendError) Error() string {
	return fmt.Sprintf("contact: %s email send failed: %v", e.Stage, e.Err)
}

func (e *SendError) Unwrap() error { return e.Err }

// DispatchResult carries provider ids of the messages that went out.
// ConfirmationID is nil when the auto-reply could not be sent.
type DispatchResult struct {
	LeadID         string
	ConfirmationID *string
}

type dispatchStage int

const (
	stageConfigGate dispatchStage = iota
	stageSendLead
	stageSendConfirmation
	stageDone
)

func (s dispatchStage) String() string {
	switch s {
	case stageConfigGate:
		return "config_gate"
	case stageSendLead:
		return "send_lead"
	case stageSendConfirmation:
		return "send_confirmation"
	case stageDone:
		return "done"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// Dispatcher sends the lead notification and the customer auto-reply, in
// that order. Only the lead is allowed to fail the request.
type Dispatcher struct {
	cfg         ContactConfig
	brand       Brand
	mailer      *mailer.Mailer
	sendTimeout time.Duration
	log         *slog.Logger
	now         func() time.Time
}

func NewDispatcher(cfg ContactConfig, brand Brand, provider mailer.Provider, sendTimeout time.Duration, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		cfg:         cfg,
		brand:       brand,
		mailer:      mailer.New(provider, cfg.SenderAddress),
		sendTimeout: sendTimeout,
		log:         logger,
		now:         time.Now,
	}
}

// Dispatch walks config gate, lead send and confirmation send. Each stage
// either names its successor or ends the run with an error.
func (d *Dispatcher) Dispatch(ctx context.Context, sub Submission) (DispatchResult, error) {
	var result DispatchResult
	stage := stageConfigGate
	for stage != stageDone {
		next, err := d.step(ctx, stage, sub, &result)
		if err != nil {
			return DispatchResult{}, err
		}
		stage = next
	}
	return result, nil
}

func (d *Dispatcher) step(ctx context.Context, stage dispatchStage, sub Submission, result *DispatchResult) (dispatchStage, error) {
	switch stage {
	case stageConfigGate:
		if missing := d.cfg.Missing(); len(missing) > 0 {
			d.log.ErrorContext(ctx, "contact config incomplete", "missing", strings.Join(missing, ","))
			return stageDone, fmt.Errorf("%w: missing %s", ErrServerMisconfigured, strings.Join(missing, ", "))
		}
		return stageSendLead, nil

	case stageSendLead:
		msg := buildLeadEmail(sub, d.brand, d.cfg.SenderAddress, d.cfg.RecipientAddress, d.now())
		id, err := d.send(ctx, sendStageLead, msg)
		if err != nil {
			d.log.ErrorContext(ctx, "lead email send failed",
				"provider", d.mailer.ProviderName(),
				"reply_to", sub.Email,
				"err", err,
			)
			return stageDone, &SendError{Stage: sendStageLead, Err: err}
		}
		result.LeadID = id
		return stageSendConfirmation, nil

	case stageSendConfirmation:
		msg := buildConfirmationEmail(sub, d.brand, d.cfg.SenderAddress)
		id, err := d.send(ctx, sendStageConfirm, msg)
		if err != nil {
			// Lead already delivered; a missing auto-reply is not fatal.
			d.log.WarnContext(ctx, "confirmation email send failed",
				"provider", d.mailer.ProviderName(),
				"to", sub.Email,
				"lead_id", result.LeadID,
				"err", err,
			)
			return stageDone, nil
		}
		result.ConfirmationID = &id
		return stageDone, nil
	}

	return stageDone, fmt.Errorf("contact: unknown dispatch stage %s", stage)
}

func (d *Dispatcher) send(ctx context.Context, kind string, msg mailer.Message) (string, error) {
	sendCtx := ctx
	if d.sendTimeout > 0 {
		var cancel context.CancelFunc
		sendCtx, cancel = context.WithTimeout(ctx, d.sendTimeout)
		defer cancel()
	}

	res, err := d.mailer.Send(sendCtx, msg)
	if err != nil {
		recordEmailSend(kind, false)
		return "", err
	}
	recordEmailSend(kind, true)
	d.log.InfoContext(ctx, "contact email sent",
		"kind", kind,
		"provider", d.mailer.ProviderName(),
		"message_id", res.ProviderMessageID,
	)
	return res.ProviderMessageID, nil
}
