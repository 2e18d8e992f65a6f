package database

import (
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"LeafPanel/config"
)

var (
	dbQueriesTotal  metric.Int64Counter
	dbQueryDuration metric.Float64Histogram
)

// gormTracer GORM OpenTelemetry 插件，给每次数据库操作打 span 和指标
type gormTracer struct {
	tracer       trace.Tracer
	maxSQLLength int
}

func newGormTracer() (*gormTracer, error) {
	meter := otel.Meter("leafpanel.gorm")

	var err error
	dbQueriesTotal, err = meter.Int64Counter(
		"db.queries.total",
		metric.WithDescription("Total number of database queries"),
		metric.WithUnit("{query}"),
	)
	if err != nil {
		return nil, err
	}

	dbQueryDuration, err = meter.Float64Histogram(
		"db.query.duration",
		metric.WithDescription("Database query duration"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0),
	)
	if err != nil {
		return nil, err
	}

	return &gormTracer{
		tracer:       otel.Tracer(config.Cfg.ServiceName + ".gorm"),
		maxSQLLength: 500,
	}, nil
}

func (p *gormTracer) Name() string {
	return "otel_plugin"
}

// Initialize 注册各类操作的前后回调
func (p *gormTracer) Initialize(db *gorm.DB) error {
	callbacks := db.Callback()

	callbacks.Query().Before("gorm:query").Register("otel:before_query", p.beforeCallback)
	callbacks.Query().After("gorm:query").Register("otel:after_query", p.afterCallback)

	callbacks.Create().Before("gorm:create").Register("otel:before_create", p.beforeCallback)
	callbacks.Create().After("gorm:create").Register("otel:after_create", p.afterCallback)

	callbacks.Update().Before("gorm:update").Register("otel:before_update", p.beforeCallback)
	callbacks.Update().After("gorm:update").Register("otel:after_update", p.afterCallback)

	callbacks.Delete().Before("gorm:delete").Register("otel:before_delete", p.beforeCallback)
	callbacks.Delete().After("gorm:delete").Register("otel:after_delete", p.afterCallback)

	callbacks.Row().Before("gorm:row").Register("otel:before_row", p.beforeCallback)
	callbacks.Row().After("gorm:row").Register("otel:after_row", p.afterCallback)

	callbacks.Raw().Before("gorm:raw").Register("otel:before_raw", p.beforeCallback)
	callbacks.Raw().After("gorm:raw").Register("otel:after_raw", p.afterCallback)

	return nil
}

func (p *gormTracer) beforeCallback(db *gorm.DB) {
	ctx := db.Statement.Context

	ctx, span := p.tracer.Start(ctx, operationName(db),
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(p.spanAttributes(db)...),
	)

	db.InstanceSet("otel:start_time", time.Now())
	db.InstanceSet("otel:span", span)
	db.Statement.Context = ctx
}

func (p *gormTracer) afterCallback(db *gorm.DB) {
	spanI, exists := db.InstanceGet("otel:span")
	if !exists {
		return
	}
	startTimeI, exists := db.InstanceGet("otel:start_time")
	if !exists {
		return
	}

	span, ok := spanI.(trace.Span)
	if !ok {
		return
	}
	defer span.End()

	startTime, ok := startTimeI.(time.Time)
	if !ok {
		return
	}
	duration := time.Since(startTime).Seconds()

	if db.Statement.RowsAffected >= 0 {
		span.SetAttributes(attribute.Int64("db.rows_affected", db.Statement.RowsAffected))
	}
	if db.Error != nil && db.Error != gorm.ErrRecordNotFound {
		span.SetStatus(codes.Error, db.Error.Error())
		span.RecordError(db.Error)
	} else {
		span.SetStatus(codes.Ok, "")
	}

	status := "success"
	if db.Error != nil && db.Error != gorm.ErrRecordNotFound {
		status = "error"
	}
	labels := metric.WithAttributes(
		attribute.String("db.operation", operationName(db)),
		attribute.String("db.status", status),
	)
	dbQueriesTotal.Add(db.Statement.Context, 1, labels)
	dbQueryDuration.Record(db.Statement.Context, duration, labels)
}

func operationName(db *gorm.DB) string {
	sql := strings.ToUpper(strings.TrimSpace(db.Statement.SQL.String()))
	switch {
	case sql == "":
		return "db.unknown"
	case strings.HasPrefix(sql, "SELECT"):
		return "db.select"
	case strings.HasPrefix(sql, "INSERT"):
		return "db.insert"
	case strings.HasPrefix(sql, "UPDATE"):
		return "db.update"
	case strings.HasPrefix(sql, "DELETE"):
		return "db.delete"
	default:
		return "db.query"
	}
}

func (p *gormTracer) spanAttributes(db *gorm.DB) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		semconv.DBSystemPostgreSQL,
		attribute.String("db.name", config.Cfg.PostgreSQLDatabase),
	}

	if table := db.Statement.Table; table != "" {
		attrs = append(attrs, attribute.String("db.table", table))
	}

	// 只记录截断后的 SQL 文本，参数不上报
	sql := db.Statement.SQL.String()
	if len(sql) > p.maxSQLLength {
		sql = sql[:p.maxSQLLength] + "..."
	}
	attrs = append(attrs, semconv.DBStatement(sql))

	return attrs
}

// registerTracing 把 OTEL 插件挂到 gorm 上，TracingEnabled 时调用
func registerTracing(db *gorm.DB) error {
	plugin, err := newGormTracer()
	if err != nil {
		return err
	}
	return db.Use(plugin)
}
