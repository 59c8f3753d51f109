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

package notifications

import "errors"

// Common errors that can be returned by notification operations
var (
	// ErrUnknownChannel is returned for a channel name that has no sender.
	ErrUnknownChannel = errors.New("unknown notification channel")

	// ErrRateLimited is returned when a channel exceeded its per-minute rate.
	ErrRateLimited = errors.New("channel rate limit exceeded")

	// ErrSenderPanic is returned when a sender panicked during delivery.
	ErrSenderPanic = errors.New("sender panicked")

	// ErrConfigurationError is returned when a channel lacks required settings.
	ErrConfigurationError = errors.New("configuration error")

	// ErrDeliveryFailed is returned when the remote end rejected the message.
	ErrDeliveryFailed = errors.New("delivery failed")

	errUnexpectedStatus = errors.New("unexpected response status")
	errMarshalPayload   = errors.New("failed to marshal payload")
	errCreateRequest    = errors.New("failed to create request")
	errSendRequest      = errors.New("failed to send request")
	errSMTP             = errors.New("smtp exchange failed")
	errUnsupportedVerb  = errors.New("unsupported webhook method")
)
