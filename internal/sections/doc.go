// MotorMatch - Car Marketplace Personalization Engine
// Copyright 2026 MotorMatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/motormatch/motormatch

// Package sections holds the sectioned recommendation state served to
// clients: six fixed sections, the set currently enabled, the feedback
// trail, and the refresh bookkeeping the scheduler drives.
//
// The refresh-in-progress flag is the single gate for recomputation:
// TryStartRefresh is the only way to flip it on, and it refuses while a
// refresh is already running. Callers that lose that race drop their
// trigger rather than queueing it.
//
// Feedback is applied synchronously. A dislike or not-interested removes
// the vehicle from every section immediately, without waiting for the next
// refresh to rescore it.
package sections
