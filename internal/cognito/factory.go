package cognito

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"

	"cognitoidp/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	cip "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
)

var ErrFactoryClosed = errors.New("cognito client factory is closed")

// Builder constructs a client from settings and the factory's HTTP client.
type Builder func(ctx context.Context, cfg config.Cognito, httpClient *awshttp.BuildableClient) (API, error)

type FactoryOption func(*ClientFactory)

// WithBuilder replaces the SDK-backed builder, mostly for tests.
func WithBuilder(b Builder) FactoryOption {
	return func(f *ClientFactory) { f.build = b }
}

type handle struct {
	api API
}

// ClientFactory builds the Cognito client on first use and returns the same
// handle to every caller until Destroy.
type ClientFactory struct {
	cfg        config.Cognito
	build      Builder
	httpClient *awshttp.BuildableClient
	// transport is the one the HTTP client built on first request, if any.
	transport atomic.Pointer[http.Transport]

	mu     sync.Mutex
	cur    atomic.Pointer[handle]
	closed atomic.Bool
	builds atomic.Int64
}

var _ Provider = (*ClientFactory)(nil)

func NewClientFactory(cfg config.Cognito, opts ...FactoryOption) *ClientFactory {
	f := &ClientFactory{
		cfg:   cfg,
		build: NewSDKClient,
	}
	// The config loader may append transport options of its own, such as a
	// custom CA bundle.
	f.httpClient = awshttp.NewBuildableClient().
		WithTimeout(cfg.ConnectionTimeout).
		WithTransportOptions(func(tr *http.Transport) {
			f.transport.Store(tr)
		})
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Client returns the shared handle, constructing it if needed. A failed
// construction is not remembered; the next call tries again.
func (f *ClientFactory) Client(ctx context.Context) (API, error) {
	if f.closed.Load() {
		return nil, ErrFactoryClosed
	}
	if h := f.cur.Load(); h != nil {
		return h.api, nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed.Load() {
		return nil, ErrFactoryClosed
	}
	if h := f.cur.Load(); h != nil {
		return h.api, nil
	}

	api, err := f.build(ctx, f.cfg, f.httpClient)
	if err != nil {
		return nil, fmt.Errorf("build cognito client: %w", err)
	}
	f.builds.Add(1)
	f.cur.Store(&handle{api: api})
	return api, nil
}

// Builds reports how many handles have been constructed.
func (f *ClientFactory) Builds() int64 {
	return f.builds.Load()
}

// Destroy releases pooled connections. Safe to call more than once.
func (f *ClientFactory) Destroy() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed.Swap(true) {
		return
	}
	f.cur.Store(nil)
	if tr := f.transport.Load(); tr != nil {
		tr.CloseIdleConnections()
	}
}

// NewSDKClient is the default Builder.
func NewSDKClient(ctx context.Context, cfg config.Cognito, httpClient *awshttp.BuildableClient) (API, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithHTTPClient(httpClient),
	}
	if cfg.MaxAttempts > 0 {
		loadOpts = append(loadOpts, awsconfig.WithRetryMaxAttempts(cfg.MaxAttempts))
	}
	if cfg.HasStaticCredentials() {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return cip.NewFromConfig(awsCfg, func(o *cip.Options) {
		if cfg.EndpointOverride != "" {
			o.BaseEndpoint = aws.String(cfg.EndpointOverride)
		}
	}), nil
}
