package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/invisiedge/Atreo-sub001/internal/platform/logger"
	"github.com/nats-io/nats.go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

const (
	connectTimeout = 10 * time.Second

	headerContentType = "Content-Type"
	// headerMsgID lets JetStream streams drop duplicates on redelivery.
	headerMsgID = nats.MsgIdHdr
)

var tracer = otel.Tracer("atreo/events")

// Publisher sends domain events as JSON with trace context carried in the headers.
type Publisher struct {
	conn   *nats.Conn
	logger *logger.Logger
}

// NewPublisher connects to url. appName shows up in the server's connection list.
func NewPublisher(url string, log *logger.Logger, appName string) (*Publisher, error) {
	log = log.Named("EventPublisher")

	conn, err := nats.Connect(url, connectionOptions(appName, log)...)
	if err != nil {
		return nil, fmt.Errorf("connect to nats at %s: %w", url, err)
	}
	log.Info("Connected to NATS", zap.String("url", conn.ConnectedUrl()))
	return &Publisher{conn: conn, logger: log}, nil
}

func connectionOptions(appName string, log *logger.Logger) []nats.Option {
	return []nats.Option{
		nats.Name(appName + " events"),
		nats.Timeout(connectTimeout),
		nats.MaxReconnects(-1),
		nats.ErrorHandler(func(_ *nats.Conn, sub *nats.Subscription, err error) {
			fields := []zap.Field{zap.Error(err)}
			if sub != nil {
				fields = append(fields, zap.String("subject", sub.Subject))
			}
			log.Error("NATS async error", fields...)
		}),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Warn("NATS disconnected", zap.Error(err))
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info("NATS reconnected", zap.String("url", nc.ConnectedUrl()))
		}),
		nats.ClosedHandler(func(*nats.Conn) {
			log.Info("NATS connection closed")
		}),
	}
}

// encodeMessage builds the message for data and injects the trace context of ctx.
func encodeMessage(ctx context.Context, subject string, data interface{}) (*nats.Msg, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode event for %s: %w", subject, err)
	}
	msg := nats.NewMsg(subject)
	msg.Data = payload
	msg.Header.Set(headerContentType, "application/json")
	msg.Header.Set(headerMsgID, uuid.NewString())
	otel.GetTextMapPropagator().Inject(ctx, NATSHeaderCarrier(msg.Header))
	return msg, nil
}

// Publish sends data on subject. The call does not wait for subscribers.
func (p *Publisher) Publish(ctx context.Context, subject string, data interface{}) error {
	ctx, span := tracer.Start(ctx, "publish "+subject)
	defer span.End()
	span.SetAttributes(attribute.String("messaging.system", "nats"), attribute.String("messaging.destination.name", subject))

	msg, err := encodeMessage(ctx, subject, data)
	if err == nil {
		err = p.conn.PublishMsg(msg)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "publish failed")
		return fmt.Errorf("publish %s: %w", subject, err)
	}

	p.logger.Debug("Event published", zap.String("subject", subject), zap.Int("bytes", len(msg.Data)))
	return nil
}

// Close flushes pending messages and closes the connection.
func (p *Publisher) Close() {
	if p.conn == nil || p.conn.IsClosed() {
		return
	}
	if err := p.conn.Drain(); err != nil {
		p.logger.Error("Failed to drain NATS connection", zap.Error(err))
		p.conn.Close()
	}
}

// NATSHeaderCarrier exposes nats.Header as an OpenTelemetry TextMapCarrier.
type NATSHeaderCarrier nats.Header

func (c NATSHeaderCarrier) Get(key string) string { return nats.Header(c).Get(key) }

func (c NATSHeaderCarrier) Set(key, value string) { nats.Header(c).Set(key, value) }

func (c NATSHeaderCarrier) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	return keys
}

// NoopPublisher drops every event. Used when NATS_URL is empty.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, string, interface{}) error { return nil }

func (NoopPublisher) Close() {}
