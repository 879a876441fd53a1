package service

import (
	"context"
	"errors"
	"net/http"
	"time"

	"cognitoidp/internal/cognito"
	"cognitoidp/internal/config"
	"cognitoidp/internal/idp"
	"cognitoidp/internal/metrics"

	"github.com/sirupsen/logrus"
)

var ErrInvalidInput = errors.New("invalid input")

// Options wires a service to its Cognito pool and ambient collaborators.
type Options struct {
	Cognito   config.Cognito
	Clients   cognito.Provider
	Logger    logrus.FieldLogger
	Metrics   *metrics.Metrics
	MFAIssuer string
}

type base struct {
	cfg     config.Cognito
	clients cognito.Provider
	log     logrus.FieldLogger
	metrics *metrics.Metrics
}

func newBase(opts Options, component string) base {
	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return base{
		cfg:     opts.Cognito,
		clients: opts.Clients,
		log:     logger.WithField("component", component),
		metrics: opts.Metrics,
	}
}

// call runs fn against the shared client under the per-call deadline and
// returns the provider status classification of its error.
func (b *base) call(ctx context.Context, op string, fn func(ctx context.Context, api cognito.API) error) (int, error) {
	start := time.Now()
	api, err := b.clients.Client(ctx)
	if err == nil {
		callCtx := ctx
		if b.cfg.RequestTimeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, b.cfg.RequestTimeout)
			defer cancel()
		}
		err = fn(callCtx, api)
	}
	status := cognito.Classify(err)
	b.metrics.Observe(op, status, time.Since(start))
	return status, err
}

// logFailure logs expected negative outcomes at warn and everything else at error.
func (b *base) logFailure(entry *logrus.Entry, status int, err error, msg string) {
	entry = entry.WithError(err).WithField("status", status)
	if code := cognito.ErrorCode(err); code != "" {
		entry = entry.WithField("code", code)
	}
	if status == http.StatusUnauthorized || status == http.StatusNotFound {
		entry.Warn(msg)
		return
	}
	entry.Error(msg)
}

func (b *base) opError(op string, status int, err error) error {
	return &idp.Error{Op: op, Status: status, Err: err}
}
