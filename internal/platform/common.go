// SPDX-FileCopyrightText: 2025 The Pacsift Authors
// SPDX-License-Identifier: EUPL-1.2

// Package platform provides platform utilities for pacsift: XDG paths,
// proxy-aware HTTP clients and small file helpers.
package platform

// AppName names the per-user config and state directories.
const AppName = "pacsift"
