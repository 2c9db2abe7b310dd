// Package http provides HTTP handlers and middleware for the scheduling API.
//
// The router exposes the following endpoints:
//   - POST /auth/login: authenticates a user. Body: {"email","password"}.
//     Response: {"token","user":{"id","name","email","role"}}.
//   - GET /schedule-entries, POST /schedule-entries: schedule listing and batch
//     creation. The create body accepts either a single entry object or an
//     array of entries; both forms resolve to one batch insert.
//   - PUT /schedule-entries/edit: batch rewrite of entry start/end times.
//   - DELETE /schedule-entries/{id}: removes one entry.
//   - GET /users, POST /users, PUT /users/{id}, DELETE /users/{id}:
//     administrator controlled user management exchanging the `userDTO`
//     payload defined in user_handler.go. Stored password hashes are never
//     returned; listings carry a fixed mask instead.
//   - POST /upload: stores a multipart photo and returns its public URL.
//   - GET /reports/schedule.pdf: renders the weekly schedule as a PDF,
//     filtered by `semana` plus exactly one of `loja` or `utilizador`.
//   - GET /healthz: liveness and database reachability probe.
//   - GET /uploads/{file}: serves previously uploaded photos.
//
// Request/response DTOs live alongside their respective handlers so tests and
// documentation share the same ground truth.
package http
