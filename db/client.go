package db

import (
	"context"

	"github.com/zeptools/gw-pgconn/dbg"
)

type Closer interface {
	Close(ctx context.Context) error
}

// CloseClient closes c, logging the outcome to sink, and returns the close error.
func CloseClient(ctx context.Context, name string, c Closer, sink dbg.Sink) error {
	if sink == nil {
		sink = dbg.Discard
	}
	if c == nil {
		sink.Printf("[INFO] `%s` Nothing to Close", name)
		return nil
	}
	if err := c.Close(ctx); err != nil {
		sink.Printf("[WARN] Failed to Close `%s`: %v", name, err)
		return err
	}
	sink.Printf("[INFO] `%s` Closed", name)
	return nil
}
