// MotorMatch - Car Marketplace Personalization Engine
// Copyright 2026 MotorMatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/motormatch/motormatch

// Package scheduler decides when recommendation sections are recomputed.
//
// Three triggers feed one refresh path: a debounced activity trigger that
// fires once behavior counts move past a threshold, a staleness trigger
// the refresh service polls on an interval, and a manual trigger exposed
// over the API. Every path claims the section store's refresh gate before
// doing any work; a trigger that loses the race, or lands inside the
// cooldown window, is dropped rather than queued. The cooldown is anchored
// to the completion time of the previous refresh.
package scheduler
