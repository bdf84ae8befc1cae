// MotorMatch - Car Marketplace Personalization Engine
// Copyright 2026 MotorMatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/motormatch/motormatch

// Package recommend scores catalog vehicles against observed user behavior.
//
// The Engine is stateless between calls: every scoring pass reads the
// current behavior snapshot through the BehaviorSource interface and walks
// the catalog, so it never holds derived state that could go stale. Each
// section category maps to a strategy (personalized, popular, trending, or
// a filtered view of personalized), and strategies attach human-readable
// reasons alongside each score.
//
// Scores carry a small random jitter for result variety. The Engine owns a
// single seeded source behind a mutex, so a fixed seed makes a scoring pass
// reproducible in tests.
package recommend
