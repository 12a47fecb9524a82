// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package events publishes observed phase transitions. NATSPublisher is used
// when NATS_URL is set; LogPublisher otherwise.
package events
