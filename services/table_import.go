package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"frontdesk/entity"
)

// Import reads a CSV with a header containing "name" and "capacity" and
// creates every row in one transaction. Any bad row rejects the batch.
func (s *TableService) Import(ctx context.Context, r io.Reader) ([]entity.Table, error) {
	tables, err := ParseTablesCSV(r)
	if err != nil {
		return nil, err
	}
	return s.createBatch(ctx, tables)
}

func ParseTablesCSV(r io.Reader) ([]entity.Table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, invalid("file", "csv is empty")
	}
	if err != nil {
		return nil, invalid("file", err.Error())
	}
	nameCol, capCol := -1, -1
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))) {
		case "name":
			nameCol = i
		case "capacity":
			capCol = i
		}
	}
	if nameCol < 0 || capCol < 0 {
		return nil, invalid("file", "csv needs name and capacity columns")
	}

	var (
		tables []entity.Table
		seen   = map[string]bool{}
		line   = 1
	)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, invalid("file", err.Error())
		}
		if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" {
			continue
		}
		if nameCol >= len(rec) || capCol >= len(rec) {
			return nil, invalid("file", fmt.Sprintf("line %d: missing columns", line))
		}
		name := strings.TrimSpace(rec[nameCol])
		if name == "" {
			return nil, invalid("file", fmt.Sprintf("line %d: name is empty", line))
		}
		if seen[name] {
			return nil, invalid("file", fmt.Sprintf("line %d: duplicate table %q", line, name))
		}
		capacity, err := parseCapacity(rec[capCol])
		if err != nil {
			return nil, invalid("file", fmt.Sprintf("line %d: %v", line, err))
		}
		seen[name] = true
		tables = append(tables, entity.Table{Name: name, Capacity: capacity})
	}
	if len(tables) == 0 {
		return nil, invalid("file", "csv has no rows")
	}
	return tables, nil
}

// parseCapacity accepts "4" as well as "4.0".
func parseCapacity(v string) (int, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil || f != math.Trunc(f) {
		return 0, fmt.Errorf("capacity %q is not a whole number", v)
	}
	if f < 1 {
		return 0, fmt.Errorf("capacity must be at least 1")
	}
	return int(f), nil
}
