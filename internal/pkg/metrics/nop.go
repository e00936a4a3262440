package metrics

import (
	"context"
	"time"
)

// NopCollector ничего не записывает.
type NopCollector struct{}

// NewNopCollector создаёт NopCollector.
func NewNopCollector() *NopCollector { return &NopCollector{} }

func (*NopCollector) RecordCommandStart(string)                           {}
func (*NopCollector) RecordCommandEnd(string, time.Duration, bool)        {}
func (*NopCollector) RecordTransfer(string, string, int64)                {}
func (*NopCollector) RecordPhysicalIO(string, int64, time.Duration, bool) {}
func (*NopCollector) RecordSlurp(int64, time.Duration, bool)              {}
func (*NopCollector) RecordDirScan(time.Duration, bool)                   {}
func (*NopCollector) Push(context.Context) error                          { return nil }
