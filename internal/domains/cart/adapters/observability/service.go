package observability

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	carttypes "github.com/Apurer/go-gin-cart-server/internal/domains/cart/application/types"
	"github.com/Apurer/go-gin-cart-server/internal/domains/cart/ports"
)

const tracerName = "github.com/Apurer/go-gin-cart-server/internal/domains/cart/adapters/observability/service"

// Service decorates the cart application port with tracing, logging, and metrics.
type Service struct {
	inner   ports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

// WithLogger injects a slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithTracer injects a tracer implementation.
func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

// WithMeter injects the meter used to create service metrics instruments.
func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wires a decorator around the core service.
func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  defaultLogger(),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	if s.logger == nil {
		s.logger = defaultLogger()
	}
	return s
}

// AddItem adds one unit of a product with instrumentation.
func (s *Service) AddItem(ctx context.Context, input carttypes.AddItemInput) (*carttypes.CartProjection, error) {
	ctx, span := s.startSpan(ctx, "Service.AddItem",
		attribute.String("cart.id", input.CartID),
		attribute.String("cart.item.id", input.ItemID),
	)
	defer span.End()

	s.logInfo(ctx, "adding cart item", slog.String("cart.id", input.CartID), slog.String("item.id", input.ItemID))
	result, err := s.inner.AddItem(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to add cart item", slog.String("cart.id", input.CartID))
	}
	if result != nil && result.Cart != nil {
		s.metrics.recordItemAdded(ctx)
		span.SetAttributes(attribute.Int("cart.total_quantity", result.Cart.TotalQuantity))
		s.logInfo(ctx, "cart item added", slog.String("cart.id", result.Cart.ID), slog.Int("total_quantity", result.Cart.TotalQuantity))
	}
	return result, nil
}

// RemoveItem removes one unit of a product with instrumentation.
func (s *Service) RemoveItem(ctx context.Context, input carttypes.RemoveItemInput) (*carttypes.CartProjection, error) {
	ctx, span := s.startSpan(ctx, "Service.RemoveItem",
		attribute.String("cart.id", input.CartID),
		attribute.String("cart.item.id", input.ItemID),
	)
	defer span.End()

	s.logInfo(ctx, "removing cart item", slog.String("cart.id", input.CartID), slog.String("item.id", input.ItemID))
	result, err := s.inner.RemoveItem(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to remove cart item", slog.String("cart.id", input.CartID))
	}
	if result != nil && result.Cart != nil {
		s.metrics.recordItemRemoved(ctx)
		span.SetAttributes(attribute.Int("cart.total_quantity", result.Cart.TotalQuantity))
		s.logInfo(ctx, "cart item removed", slog.String("cart.id", result.Cart.ID), slog.Int("total_quantity", result.Cart.TotalQuantity))
	}
	return result, nil
}

// Replace overwrites a cart wholesale.
func (s *Service) Replace(ctx context.Context, input carttypes.ReplaceCartInput) (*carttypes.CartProjection, error) {
	ctx, span := s.startSpan(ctx, "Service.Replace",
		attribute.String("cart.id", input.CartID),
		attribute.Int("cart.total_quantity", input.TotalQuantity),
	)
	defer span.End()

	s.logInfo(ctx, "replacing cart", slog.String("cart.id", input.CartID), slog.Int("total_quantity", input.TotalQuantity))
	result, err := s.inner.Replace(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to replace cart", slog.String("cart.id", input.CartID))
	}
	s.metrics.recordReplaced(ctx)
	return result, nil
}

// GetByID loads a single cart.
func (s *Service) GetByID(ctx context.Context, input carttypes.CartIdentifier) (*carttypes.CartProjection, error) {
	ctx, span := s.startSpan(ctx, "Service.GetByID", attribute.String("cart.id", input.CartID))
	defer span.End()

	result, err := s.inner.GetByID(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load cart", slog.String("cart.id", input.CartID))
	}
	return result, nil
}

// MarkSynced clears the dirty flag after a successful remote push.
func (s *Service) MarkSynced(ctx context.Context, input carttypes.CartIdentifier) error {
	ctx, span := s.startSpan(ctx, "Service.MarkSynced", attribute.String("cart.id", input.CartID))
	defer span.End()

	if err := s.inner.MarkSynced(ctx, input); err != nil {
		return s.handleError(ctx, span, err, "failed to mark cart synced", slog.String("cart.id", input.CartID))
	}
	s.metrics.recordSynced(ctx)
	s.logInfo(ctx, "cart marked synced", slog.String("cart.id", input.CartID))
	return nil
}

// List exposes all carts.
func (s *Service) List(ctx context.Context) ([]*carttypes.CartProjection, error) {
	ctx, span := s.startSpan(ctx, "Service.List")
	defer span.End()

	result, err := s.inner.List(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list carts")
	}
	span.SetAttributes(attribute.Int("cart.result.count", len(result)))
	return result, nil
}

func (s *Service) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer := s.tracer
	if tracer == nil {
		tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if err == nil {
		return nil
	}
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	if s.logger != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
		s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
	}
	return err
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type serviceMetrics struct {
	itemsAdded    metric.Int64Counter
	itemsRemoved  metric.Int64Counter
	cartsReplaced metric.Int64Counter
	cartsSynced   metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	itemsAdded, _ := m.Int64Counter("carts.service.items_added", metric.WithDescription("Number of cart items added"))
	itemsRemoved, _ := m.Int64Counter("carts.service.items_removed", metric.WithDescription("Number of cart items removed"))
	cartsReplaced, _ := m.Int64Counter("carts.service.replaced", metric.WithDescription("Number of wholesale cart replacements"))
	cartsSynced, _ := m.Int64Counter("carts.service.synced", metric.WithDescription("Number of carts acknowledged by the remote store"))
	return serviceMetrics{
		itemsAdded:    itemsAdded,
		itemsRemoved:  itemsRemoved,
		cartsReplaced: cartsReplaced,
		cartsSynced:   cartsSynced,
	}
}

func (m serviceMetrics) recordItemAdded(ctx context.Context)   { addCounter(ctx, m.itemsAdded, 1) }
func (m serviceMetrics) recordItemRemoved(ctx context.Context) { addCounter(ctx, m.itemsRemoved, 1) }
func (m serviceMetrics) recordReplaced(ctx context.Context)    { addCounter(ctx, m.cartsReplaced, 1) }
func (m serviceMetrics) recordSynced(ctx context.Context)      { addCounter(ctx, m.cartsSynced, 1) }

func addCounter(ctx context.Context, counter metric.Int64Counter, value int64, attrs ...attribute.KeyValue) {
	if counter == nil {
		return
	}
	counter.Add(ctx, value, metric.WithAttributes(attrs...))
}

var _ ports.Service = (*Service)(nil)
