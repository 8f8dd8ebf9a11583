package sqldb

import (
	"context"
	"fmt"
	"log"
)

func ScanRowsToItems[
	M any, // Model struct
	MP Scannable[M], // *Model Implementing Scannable[M]
](rows Rows) ([]*M, error) { // Returns a Slice of Model-Pointers
	var itemptrs []*M
	for rows.Next() {
		var item M     // struct with zero values for the fields
		p := MP(&item) // p is *M, which satisfies targetFieldsProvider interface
		if err := rows.Scan(p.TargetFields()...); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		itemptrs = append(itemptrs, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during iterating rows: %w", err)
	}
	return itemptrs, nil
}

// ScanRowToItem scans the first row only. ErrNoRows if there is none.
func ScanRowToItem[
	M any,
	MP Scannable[M],
](rows Rows) (*M, error) {
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, ErrNoRows
	}
	var item M
	p := MP(&item)
	if err := rows.Scan(p.TargetFields()...); err != nil {
		return nil, fmt.Errorf("scan failed: %w", err)
	}
	return &item, nil
}

// QueryItems runs query on conn and scans all rows.
func QueryItems[
	M any,
	MP Scannable[M],
](ctx context.Context, conn Conn, query string) ([]*M, error) {
	rows, err := conn.Select(ctx, query)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Printf("[WARN] rows.Close() failed: %v", err)
		}
	}()
	return ScanRowsToItems[M, MP](rows)
}
