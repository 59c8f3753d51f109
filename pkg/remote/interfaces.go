/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package remote runs probe commands on monitored hosts.
package remote

//go:generate mockgen -destination=mock_executor.go -package=remote github.com/mfreeman451/meshmon/pkg/remote Executor

import (
	"context"
	"time"
)

// Executor runs a shell command on host and returns its standard output.
// A command that ran but exited non-zero returns its output together with an
// error wrapping ErrNonZeroExit; every other error means no usable output.
type Executor interface {
	Run(ctx context.Context, host, command string, timeout time.Duration) (string, error)
}
