package telemetry

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/droidcfg/internal/core/ports"
)

var _ sdktrace.SpanProcessor = (*LogProcessor)(nil)

// LogProcessor implements sdktrace.SpanProcessor by logging each finished span
// with its duration and attributes.
type LogProcessor struct {
	log ports.Logger
}

// NewLogProcessor returns a new LogProcessor.
func NewLogProcessor(log ports.Logger) *LogProcessor {
	return &LogProcessor{log: log}
}

// OnStart does nothing.
func (p *LogProcessor) OnStart(context.Context, sdktrace.ReadWriteSpan) {}

// OnEnd logs the span. Failed spans are logged as warnings.
func (p *LogProcessor) OnEnd(s sdktrace.ReadOnlySpan) {
	if p.log == nil || !s.SpanContext().IsValid() {
		return
	}

	msg := FormatSpan(s.Name(), s.EndTime().Sub(s.StartTime()), attributes(s))
	if s.Status().Code == codes.Error {
		p.log.Warn(msg + ": " + s.Status().Description)
		return
	}
	p.log.Info(msg)
}

// ForceFlush does nothing.
func (p *LogProcessor) ForceFlush(context.Context) error {
	return nil
}

// Shutdown does nothing.
func (p *LogProcessor) Shutdown(context.Context) error {
	return nil
}

// FormatSpan renders a span as "trace name 12ms key=value ...".
func FormatSpan(name string, d time.Duration, attrs map[string]string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "trace %s %s", name, d.Round(time.Microsecond))

	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%s", k, attrs[k])
	}
	return b.String()
}

func attributes(s sdktrace.ReadOnlySpan) map[string]string {
	kvs := s.Attributes()
	attrs := make(map[string]string, len(kvs))
	for _, kv := range kvs {
		attrs[string(kv.Key)] = kv.Value.Emit()
	}
	return attrs
}
