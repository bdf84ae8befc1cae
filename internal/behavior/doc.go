// MotorMatch - Car Marketplace Personalization Engine
// Copyright 2026 MotorMatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/motormatch/motormatch

// Package behavior tracks user activity for the recommendation engine.
//
// The Log is an append-only, size-bounded store of view, search, wishlist,
// and compare events plus an inferred preference profile. Each event list
// keeps its newest entry first and trims from the tail once the cap is
// exceeded, so a reader never observes more than the configured history:
//
//	views     100
//	searches   50
//	wishlist   50
//	compares   20
//
// Every record operation is a no-op while tracking is disabled (the privacy
// toggle). The log trusts its inputs: malformed events are the caller's
// responsibility and no record operation returns an error.
//
// Preference inference is an explicit pass over the view history. It only
// runs once at least five views exist, and only overwrites the fields it
// computes (budget range, brand ranking, fuel ranking) so user-set values
// for the remaining fields survive.
package behavior
