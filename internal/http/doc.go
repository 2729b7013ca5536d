// Package http exposes the shift manager API over chi.
//
// Every route lives under /api/v1 and exchanges JSON. Authenticated routes
// expect `Authorization: Bearer <token>` carrying the access token issued by
// POST /api/v1/auth/login.
//
//   - /auth: register, login (form or JSON body) and the current user.
//   - /shift-requests: a user's own availability ledger, filtered by
//     ?year=&month=. Creation is gated on the weekday settings.
//   - /confirmed-shifts: the caller's confirmed shifts, and /all for the whole
//     roster.
//   - /settings/dow: the weekday flags, readable by any user.
//   - /admin: every user's shift requests, confirmed shift maintenance, user
//     management and the weekday flags.
//
// /health and /metrics sit outside /api/v1 and need no token.
//
// Request/response DTOs live alongside their respective handlers so tests and
// documentation share the same ground truth.
package http
