package publish

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/vk/ridgegrow/internal/ctxlog"
	"github.com/vk/ridgegrow/internal/geom"
	"github.com/vk/ridgegrow/internal/growth"
	"github.com/vk/ridgegrow/internal/grower"
	"github.com/vk/ridgegrow/internal/output"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// Event names emitted by the publisher.
const (
	EventRidge   = "ridge"
	EventFailure = "ridge_failed"
	EventSummary = "summary"
)

// DefaultTimeout bounds the initial connection.
const DefaultTimeout = 10 * time.Second

// Options configures a Publisher.
type Options struct {
	URL                string
	Namespace          string
	Timeout            time.Duration
	InsecureSkipVerify bool
}

// Publisher is an executor.Listener that emits every task outcome.
type Publisher struct {
	opts      Options
	io        *socket.Socket
	connected atomic.Bool
	emitted   atomic.Int64
}

// Connect dials the server and waits until the namespace is joined.
func Connect(ctx context.Context, opts Options) (*Publisher, error) {
	logger := ctxlog.FromContext(ctx).With("publisher", "socketio", "url", opts.URL, "namespace", opts.Namespace)
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Namespace == "" {
		opts.Namespace = "/"
	}

	parsedURL, err := url.Parse(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, fmt.Errorf("publish URL %q must be absolute", opts.URL)
	}

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	sockOpts := socket.DefaultOptions()
	if parsedURL.Path != "" {
		sockOpts.SetPath(parsedURL.Path)
	}
	if opts.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		sockOpts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	sockOpts.SetTransports(types.NewSet(transports.WebSocket))

	manager := socket.NewManager(baseURL, sockOpts)
	io := manager.Socket(opts.Namespace, sockOpts)
	p := &Publisher{opts: opts, io: io}

	done := make(chan error, 1)
	io.On(types.EventName("connect"), func(...any) {
		p.connected.Store(true)
		logger.Info("Publisher connected", "sid", io.Id())
		select {
		case done <- nil:
		default:
		}
	})
	io.On(types.EventName("connect_error"), func(errs ...any) {
		err := errors.New("connect_error")
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				err = e
			}
		}
		select {
		case done <- err:
		default:
		}
	})
	io.On(types.EventName("disconnect"), func(reason ...any) {
		p.connected.Store(false)
		logger.Debug("Publisher disconnected", "reason", reason)
	})

	io.Connect()

	timer := time.NewTimer(opts.Timeout)
	defer timer.Stop()
	select {
	case err := <-done:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("connecting to %s: %w", opts.URL, err)
		}
		return p, nil
	case <-timer.C:
		io.Disconnect()
		return nil, fmt.Errorf("timed out after %s while waiting for initial connection to %s", opts.Timeout, opts.URL)
	case <-ctx.Done():
		io.Disconnect()
		return nil, ctx.Err()
	}
}

// RidgeGrown emits the ridge of task.
func (p *Publisher) RidgeGrown(task *growth.Task, ridge geom.Polyline) {
	p.emit(EventRidge, RidgePayload(task, ridge))
}

// GrowthFailed emits the failure of task.
func (p *Publisher) GrowthFailed(task *growth.Task, err error) {
	p.emit(EventFailure, FailurePayload(task, err))
}

// Summary emits the run summary.
func (p *Publisher) Summary(s grower.Summary) {
	p.emit(EventSummary, SummaryPayload(s))
}

// Emitted returns the number of events handed to the socket.
func (p *Publisher) Emitted() int64 {
	return p.emitted.Load()
}

// Close disconnects from the server.
func (p *Publisher) Close() {
	p.io.Disconnect()
}

func (p *Publisher) emit(event string, payload map[string]any) {
	if err := p.io.Emit(event, payload); err != nil {
		return
	}
	p.emitted.Add(1)
}

// RidgePayload is the body of a ridge event.
func RidgePayload(task *growth.Task, ridge geom.Polyline) map[string]any {
	payload := taskPayload(task)
	payload["coordinates"] = output.Coordinates(ridge)
	payload["length"] = ridge.Length()
	return payload
}

// FailurePayload is the body of a ridge_failed event.
func FailurePayload(task *growth.Task, err error) map[string]any {
	payload := taskPayload(task)
	payload["error"] = err.Error()
	payload["fatal"] = growth.IsFatal(err)
	return payload
}

// SummaryPayload is the body of a summary event.
func SummaryPayload(s grower.Summary) map[string]any {
	return map[string]any{
		"confluences":   s.Confluences,
		"lakes":         s.Lakes,
		"tasks":         s.Tasks,
		"grown":         s.Grown,
		"failed":        s.Failed,
		"seed_failures": s.SeedFailures,
	}
}

func taskPayload(task *growth.Task) map[string]any {
	payload := map[string]any{
		"task": task.String(),
		"seq":  task.Seq,
		"kind": task.Kind.String(),
		"seed": []float64{task.Seed.X, task.Seed.Y, task.Seed.Z},
	}
	if task.AdjacentWater != nil {
		payload["left_water"] = string(task.AdjacentWater.Left)
		payload["right_water"] = string(task.AdjacentWater.Right)
	}
	return payload
}
