// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth guards the admin-only endpoints.

# Admin Key

A single shared secret (ADMIN_KEY) authorizes POST /refresh. Clients send
it as X-Admin-Key or as an Authorization bearer token:

	key := auth.AdminKeyFromRequest(r)
	err := auth.ValidateAdminKey(key, cfg.AdminKey)

Both values are hashed with SHA-256 before a constant-time comparison.

# Middleware

RequireAdmin wraps a handler and reports failures through a callback so the
caller controls the error body:

	mux.HandleFunc("POST /refresh", auth.RequireAdmin(cfg.AdminKey, onAuthError, h.Refresh))

User authentication and sessions belong to the election API and are not
handled here.
*/
package auth
