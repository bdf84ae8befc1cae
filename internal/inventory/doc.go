// MotorMatch - Car Marketplace Personalization Engine
// Copyright 2026 MotorMatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/motormatch/motormatch

// Package inventory provides the static vehicle catalog consumed by the
// recommendation engine.
//
// The catalog is an immutable, in-memory snapshot: it is loaded once (from a
// JSON file or the built-in sample set) and treated as fixed for the lifetime
// of a scoring call. There is no live-update subscription; callers that need
// fresher data construct a new Catalog.
//
// Beyond raw access, the package offers the attribute search and filter
// queries the browse screens use (free-text search, make/fuel/price/category
// filters). These are simple linear scans; the catalog is small enough that
// an index would not pay for itself.
package inventory
