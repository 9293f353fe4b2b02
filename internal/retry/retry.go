// Copyright (c) 2026 John Earle
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package retry provides a single exponential-backoff decorator applied
// uniformly to transient collaborator failures, instead of per-service
// retry loops.
package retry

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Policy describes a bounded exponential backoff: attempt n (0-based) waits
// BaseDelay * 2^n before retrying.
type Policy struct {
	Attempts  int
	BaseDelay time.Duration
}

// DefaultPolicy matches the processor-wide retry contract: three attempts
// with delays doubling from a one-second base.
var DefaultPolicy = Policy{Attempts: 3, BaseDelay: time.Second}

// Do runs fn until it succeeds, the attempt budget is exhausted, or the
// context is cancelled. The label only appears in logs.
func (p Policy) Do(ctx context.Context, label string, fn func(ctx context.Context) error) error {
	attempts := p.Attempts
	if attempts <= 0 {
		attempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			delay := p.BaseDelay << (attempt - 1)
			slog.Debug("retrying after backoff",
				"op", label,
				"attempt", attempt+1,
				"delay", delay,
			)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}

		if err := fn(ctx); err != nil {
			lastErr = err
			slog.Warn("operation failed",
				"op", label,
				"attempt", attempt+1,
				"error", err,
			)
			continue
		}
		return nil
	}

	return fmt.Errorf("%s: %d attempts exhausted: %w", label, attempts, lastErr)
}

// DoValue is Do for operations that return a value alongside the error.
func DoValue[T any](ctx context.Context, p Policy, label string, fn func(ctx context.Context) (T, error)) (T, error) {
	var out T
	err := p.Do(ctx, label, func(ctx context.Context) error {
		v, err := fn(ctx)
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	return out, err
}
