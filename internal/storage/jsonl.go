package storage

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"farmScope/internal/model"
)

const (
	recordKindPosition = "position"
	recordKindFailure  = "failure"
)

type jsonlRecord struct {
	Kind     string                `json:"kind"`
	Position *model.Position       `json:"position,omitempty"`
	Failure  *model.BalanceFailure `json:"failure,omitempty"`
}

// JsonlStorage appends positions and failures to a JSONL file.
type JsonlStorage struct {
	path string
	mu   sync.Mutex
}

func NewJsonlStorage(path string) *JsonlStorage {
	return &JsonlStorage{path: path}
}

// PutPositions appends a batch of positions as JSON lines.
func (s *JsonlStorage) PutPositions(_ context.Context, positions []model.Position) error {
	records := make([]jsonlRecord, 0, len(positions))
	for i := range positions {
		records = append(records, jsonlRecord{Kind: recordKindPosition, Position: &positions[i]})
	}
	return s.write(records)
}

// PutFailures appends a batch of failures as JSON lines.
func (s *JsonlStorage) PutFailures(_ context.Context, failures []model.BalanceFailure) error {
	records := make([]jsonlRecord, 0, len(failures))
	for i := range failures {
		records = append(records, jsonlRecord{Kind: recordKindFailure, Failure: &failures[i]})
	}
	return s.write(records)
}

func (s *JsonlStorage) write(records []jsonlRecord) error {
	if len(records) == 0 {
		return nil
	}

	dir := filepath.Dir(s.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open output file: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	for _, record := range records {
		line, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("marshal %s record: %w", record.Kind, err)
		}
		if _, err := writer.Write(line); err != nil {
			return fmt.Errorf("write %s record: %w", record.Kind, err)
		}
		if err := writer.WriteByte('\n'); err != nil {
			return fmt.Errorf("write newline: %w", err)
		}
	}

	if err := writer.Flush(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}

	return nil
}
