package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/LERACHI/isartesanatos-seu-portal-de-sonhos/pkg/logging"
	"github.com/LERACHI/isartesanatos-seu-portal-de-sonhos/pkg/metrics"
)

// InstrumentedCollection wraps a collection with metrics, tracing and query logging
type InstrumentedCollection struct {
	collection *mongo.Collection
	name       string
	database   string
	metrics    *metrics.Metrics
	logger     *logging.Logger
	tracer     trace.Tracer
}

// NewInstrumentedCollection wraps the named collection. m may be nil.
func NewInstrumentedCollection(client *Client, name string, m *metrics.Metrics, logger *logging.Logger) *InstrumentedCollection {
	return &InstrumentedCollection{
		collection: client.Collection(name),
		name:       name,
		database:   client.DatabaseName(),
		metrics:    m,
		logger:     logger,
		tracer:     otel.Tracer("mongodb"),
	}
}

// Name returns the collection name
func (c *InstrumentedCollection) Name() string {
	return c.name
}

func (c *InstrumentedCollection) startSpan(ctx context.Context, operation string) (context.Context, trace.Span) {
	return c.tracer.Start(ctx, "mongodb."+operation,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			semconv.DBSystemMongoDB,
			semconv.DBNameKey.String(c.database),
			semconv.DBMongoDBCollectionKey.String(c.name),
			attribute.String("db.operation", operation),
		),
	)
}

// finish records the outcome. ErrNoDocuments is a normal miss, not a failure.
func (c *InstrumentedCollection) finish(ctx context.Context, span trace.Span, operation string, start time.Time, err error) {
	success := err == nil || err == mongo.ErrNoDocuments
	duration := time.Since(start)

	if success {
		span.SetStatus(codes.Ok, "")
	} else {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()

	if c.metrics != nil {
		c.metrics.RecordMongoDBOperation(c.name, operation, success, duration)
	}
	c.logger.DatabaseQuery(ctx, c.name, operation, duration, success)
}

// FindOne decodes the first match into result
func (c *InstrumentedCollection) FindOne(ctx context.Context, filter interface{}, result interface{}, opts ...*options.FindOneOptions) error {
	ctx, span := c.startSpan(ctx, "findOne")
	start := time.Now()

	err := c.collection.FindOne(ctx, filter, opts...).Decode(result)
	c.finish(ctx, span, "findOne", start, err)
	return err
}

// ReplaceOne replaces a document
func (c *InstrumentedCollection) ReplaceOne(ctx context.Context, filter interface{}, replacement interface{}, opts ...*options.ReplaceOptions) (*mongo.UpdateResult, error) {
	ctx, span := c.startSpan(ctx, "replaceOne")
	start := time.Now()

	result, err := c.collection.ReplaceOne(ctx, filter, replacement, opts...)
	c.finish(ctx, span, "replaceOne", start, err)
	return result, err
}

// DeleteOne removes a document
func (c *InstrumentedCollection) DeleteOne(ctx context.Context, filter interface{}) (*mongo.DeleteResult, error) {
	ctx, span := c.startSpan(ctx, "deleteOne")
	start := time.Now()

	result, err := c.collection.DeleteOne(ctx, filter)
	c.finish(ctx, span, "deleteOne", start, err)
	return result, err
}

// CreateIndexes creates the given indexes
func (c *InstrumentedCollection) CreateIndexes(ctx context.Context, models []mongo.IndexModel) error {
	ctx, span := c.startSpan(ctx, "createIndexes")
	start := time.Now()

	_, err := c.collection.Indexes().CreateMany(ctx, models)
	c.finish(ctx, span, "createIndexes", start, err)
	return err
}
