package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/khanhnv2901/sitecheck-bot/internal/application/report"
	"github.com/khanhnv2901/sitecheck-bot/internal/checker"
	"github.com/khanhnv2901/sitecheck-bot/internal/domain/access"
	"github.com/khanhnv2901/sitecheck-bot/internal/domain/view"
	sharedErrors "github.com/khanhnv2901/sitecheck-bot/internal/shared/errors"
)

// Event outcomes, used for metrics labels.
const (
	OutcomeOK           = "ok"
	OutcomeUnauthorized = "unauthorized"
	OutcomeIgnored      = "ignored"
	OutcomeError        = "error"
)

// Config wires a Router.
type Config struct {
	Guard     *access.Guard
	Pipeline  *Pipeline
	Transport Transport
	Logger    *zap.Logger
	Recorder  Recorder
}

// Router turns inbound events into replies. It keeps no per-chat state: the
// URL a button refers to travels in the button's payload.
type Router struct {
	guard     *access.Guard
	pipeline  *Pipeline
	transport Transport
	logger    *zap.Logger
	recorder  Recorder
}

// NewRouter builds a router from cfg.
func NewRouter(cfg Config) *Router {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	recorder := cfg.Recorder
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &Router{
		guard:     cfg.Guard,
		pipeline:  cfg.Pipeline,
		transport: cfg.Transport,
		logger:    logger,
		recorder:  recorder,
	}
}

// HandleCommand answers /start. Other commands are ignored.
func (r *Router) HandleCommand(ctx context.Context, cmd Command) (err error) {
	log := r.eventLogger(KindCommand, cmd.SenderID).With(zap.String("command", cmd.Name))
	defer func() { err = r.finish(KindCommand, log, err) }()

	if !r.guard.Authorize(access.Principal(cmd.SenderID)) {
		return r.reject(ctx, KindCommand, cmd.ChatID, cmd.MessageID)
	}
	if cmd.Name != CommandStart {
		log.Debug("ignoring unknown command")
		return errIgnored
	}

	if _, err := r.transport.SendText(ctx, cmd.ChatID, cmd.MessageID, report.WelcomeText, nil); err != nil {
		return fmt.Errorf("%w: send welcome: %v", sharedErrors.ErrTransportFailure, err)
	}
	return nil
}

// HandleText treats the message as a URL, runs every lookup and replies
// with the summary view, attaching the screenshot when one was produced.
func (r *Router) HandleText(ctx context.Context, msg TextMessage) (err error) {
	log := r.eventLogger(KindText, msg.SenderID)
	defer func() { err = r.finish(KindText, log, err) }()

	if !r.guard.Authorize(access.Principal(msg.SenderID)) {
		return r.reject(ctx, KindText, msg.ChatID, msg.MessageID)
	}

	url := checker.NormalizeURL(msg.Text)
	log = log.With(zap.String("url", url))

	placeholder, err := r.transport.SendText(ctx, msg.ChatID, msg.MessageID, report.ProcessingText, nil)
	if err != nil {
		return fmt.Errorf("%w: send placeholder: %v", sharedErrors.ErrTransportFailure, err)
	}

	placeholderLive := true
	if err := r.replyWithSummary(ctx, log, msg, url, placeholder, &placeholderLive); err != nil {
		r.reportFailure(ctx, log, msg, placeholder, placeholderLive, err)
		return err
	}
	return nil
}

func (r *Router) replyWithSummary(ctx context.Context, log *zap.Logger, msg TextMessage, url string, placeholder MessageRef, placeholderLive *bool) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic while checking %s: %v", url, rec)
		}
	}()

	outcome, err := r.pipeline.Run(ctx, url)
	defer func() {
		if rmErr := outcome.Screenshot.Remove(); rmErr != nil {
			log.Warn("failed to remove screenshot", zap.Error(rmErr))
		}
	}()
	if err != nil {
		return err
	}
	logOutcome(log, outcome)

	reply, err := report.SummaryView(url, outcome.Probe)
	if err != nil {
		if !errors.Is(err, sharedErrors.ErrPayloadTooLong) {
			return err
		}
		log.Warn("sending summary without button", zap.Error(err))
	}

	if err := r.transport.Delete(ctx, placeholder); err != nil {
		log.Warn("failed to delete placeholder", zap.Error(err))
	} else {
		*placeholderLive = false
	}

	if path, ok := outcome.Screenshot.Path.Get(); ok {
		if _, err := r.transport.SendPhoto(ctx, msg.ChatID, msg.MessageID, path, reply.Text, reply.Button); err != nil {
			return fmt.Errorf("%w: send photo: %v", sharedErrors.ErrTransportFailure, err)
		}
		return nil
	}

	if _, err := r.transport.SendText(ctx, msg.ChatID, msg.MessageID, report.WithoutScreenshot(reply.Text), reply.Button); err != nil {
		return fmt.Errorf("%w: send summary: %v", sharedErrors.ErrTransportFailure, err)
	}
	return nil
}

// reportFailure shows err to the user, in the placeholder while it still exists.
func (r *Router) reportFailure(ctx context.Context, log *zap.Logger, msg TextMessage, placeholder MessageRef, placeholderLive bool, cause error) {
	text := report.ErrorText(cause)
	if placeholderLive {
		err := r.transport.EditText(ctx, placeholder, text, nil)
		if err == nil {
			return
		}
		log.Warn("failed to edit placeholder", zap.Error(err))
	}
	if _, err := r.transport.SendText(ctx, msg.ChatID, msg.MessageID, text, nil); err != nil {
		log.Error("failed to report error to user", zap.Error(err))
	}
}

// HandleCallback switches a message between its summary and detail views.
// The relevant lookup is re-run on every press.
func (r *Router) HandleCallback(ctx context.Context, press CallbackPress) (err error) {
	log := r.eventLogger(KindCallback, press.SenderID)
	defer func() { err = r.finish(KindCallback, log, err) }()

	if !r.guard.Authorize(access.Principal(press.SenderID)) {
		r.recorder.CountEvent(KindCallback, OutcomeUnauthorized)
		if err := r.transport.AnswerCallback(ctx, press.QueryID, report.RejectionText, true); err != nil {
			log.Warn("failed to answer rejected callback", zap.Error(err))
		}
		return sharedErrors.ErrUnauthorized
	}

	if err := r.transport.AnswerCallback(ctx, press.QueryID, "", false); err != nil {
		log.Warn("failed to answer callback", zap.Error(err))
	}

	payload, err := view.Decode(press.Payload)
	if err != nil {
		return err
	}
	log = log.With(zap.String("url", payload.URL), zap.Stringer("view", payload.Tag.Target()))

	var reply report.Reply
	switch payload.Tag.Target() {
	case view.Detail:
		reg := r.pipeline.Lookup(ctx, payload.URL)
		logRegistration(log, reg.Err, reg.WhoisErr)
		reply, err = report.DetailView(payload.URL, reg)
	default:
		probe := r.pipeline.Probe(ctx, payload.URL)
		if probe.Err != nil {
			log.Warn("probe failed", zap.Error(probe.Err))
		}
		reply, err = report.SummaryView(payload.URL, probe)
		if !press.HasMedia {
			reply.Text = report.WithoutScreenshot(reply.Text)
		}
	}
	if err != nil {
		return err
	}

	if press.HasMedia {
		err = r.transport.EditCaption(ctx, press.Message, reply.Text, reply.Button)
	} else {
		err = r.transport.EditText(ctx, press.Message, reply.Text, reply.Button)
	}
	if err != nil {
		return fmt.Errorf("%w: edit message: %v", sharedErrors.ErrTransportFailure, err)
	}
	return nil
}

var errIgnored = errors.New("event ignored")

func (r *Router) reject(ctx context.Context, kind string, chatID int64, replyTo int) error {
	r.recorder.CountEvent(kind, OutcomeUnauthorized)
	if _, err := r.transport.SendText(ctx, chatID, replyTo, report.RejectionText, nil); err != nil {
		return fmt.Errorf("%w: %w: send rejection: %v", sharedErrors.ErrUnauthorized, sharedErrors.ErrTransportFailure, err)
	}
	return sharedErrors.ErrUnauthorized
}

func (r *Router) eventLogger(kind string, sender int64) *zap.Logger {
	return r.logger.With(
		zap.String("event_id", uuid.NewString()),
		zap.String("kind", kind),
		zap.Int64("sender_id", sender),
	)
}

// finish logs and counts the outcome of one event. Unauthorized and ignored
// events are expected and logged below error level. Ignored events are not
// reported to the caller.
func (r *Router) finish(kind string, log *zap.Logger, err error) error {
	switch {
	case err == nil:
		r.recorder.CountEvent(kind, OutcomeOK)
		log.Info("event handled")
	case errors.Is(err, errIgnored):
		r.recorder.CountEvent(kind, OutcomeIgnored)
		return nil
	case errors.Is(err, sharedErrors.ErrUnauthorized):
		log.Warn("unauthorized sender", zap.Error(err))
	default:
		r.recorder.CountEvent(kind, OutcomeError)
		log.Error("event failed", zap.Error(err))
	}
	return err
}

func logOutcome(log *zap.Logger, out Outcome) {
	if out.Probe.Err != nil {
		log.Warn("probe failed", zap.Error(out.Probe.Err))
	}
	logRegistration(log, out.Registration.Err, out.Registration.WhoisErr)
	if out.Screenshot.Err != nil {
		log.Warn("screenshot failed", zap.Error(out.Screenshot.Err))
	}
}

func logRegistration(log *zap.Logger, dnsErr, whoisErr error) {
	if dnsErr != nil {
		log.Warn("registration lookup failed", zap.Error(dnsErr))
	}
	if whoisErr != nil {
		log.Warn("whois degraded", zap.Error(whoisErr))
	}
}
