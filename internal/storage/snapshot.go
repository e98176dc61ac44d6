package storage

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"farmScope/internal/model"
)

// Snapshot reads pools and farms from static JSON files. Each file is read
// once and reused for later calls.
type Snapshot struct {
	poolsPath string
	farmsPath string

	poolsOnce sync.Once
	pools     []model.PoolRecord
	poolsErr  error

	farmsOnce sync.Once
	farms     []model.FarmRecord
	farmsErr  error
}

func NewSnapshot(poolsPath, farmsPath string) *Snapshot {
	return &Snapshot{poolsPath: poolsPath, farmsPath: farmsPath}
}

func (s *Snapshot) ListPools(_ context.Context) ([]model.PoolRecord, error) {
	s.poolsOnce.Do(func() {
		s.poolsErr = readJSONFile(s.poolsPath, &s.pools)
	})
	return s.pools, s.poolsErr
}

func (s *Snapshot) ListFarms(_ context.Context) ([]model.FarmRecord, error) {
	s.farmsOnce.Do(func() {
		s.farmsErr = readJSONFile(s.farmsPath, &s.farms)
	})
	return s.farms, s.farmsErr
}

func readJSONFile(path string, out any) error {
	if path == "" {
		return fmt.Errorf("snapshot path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// LoadUsers reads user identifiers from a JSON array of strings or from a
// plain list with one identifier per line. Blank lines and lines starting
// with # are skipped.
func LoadUsers(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read users: %w", err)
	}
	return ParseUsers(data)
}

func ParseUsers(data []byte) ([]string, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}

	if trimmed[0] == '[' {
		var users []string
		if err := json.Unmarshal(trimmed, &users); err != nil {
			return nil, fmt.Errorf("parse users: %w", err)
		}
		return cleanUsers(users), nil
	}

	var users []string
	scanner := bufio.NewScanner(bytes.NewReader(trimmed))
	for scanner.Scan() {
		users = append(users, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan users: %w", err)
	}
	return cleanUsers(users), nil
}

func cleanUsers(users []string) []string {
	out := make([]string, 0, len(users))
	for _, user := range users {
		user = strings.TrimSpace(user)
		if user == "" || strings.HasPrefix(user, "#") {
			continue
		}
		out = append(out, user)
	}
	return out
}
