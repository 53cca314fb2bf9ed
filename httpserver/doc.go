/*
Package httpserver implements the HTTP API over the catalog backend.

It exposes entity routes for hackathons, authentication routes for user
accounts and sessions, an administrative mirror-resync route, and health and
diagnostics endpoints.

API Endpoints:

  - POST /api/hackathons - Create a hackathon
  - GET /api/hackathons - List active hackathons
  - GET /api/hackathons/{id} - Get a hackathon by id
  - GET /api/hackathons/slug/{slug} - Get a hackathon by slug
  - PUT /api/hackathons/{id} - Update a hackathon
  - DELETE /api/hackathons/{id} - Archive a hackathon
  - POST /api/auth/register - Register an account
  - POST /api/auth/login - Authenticate and issue a session token
  - GET /api/auth/session - Verify a session token
  - POST /api/auth/logout - Archive the token's session
  - POST /api/admin/resync/{collection} - Rebuild the Redis mirror
  - GET /api/status - Report the selected catalog tier
  - GET /livez - Liveness check
  - GET /readyz - Readiness check
  - GET /drain - Gracefully mark server as not ready
  - GET /undrain - Mark server as ready

Every API response body is the uniform envelope: {"success":true,"data":...}
on success, {"success":false,"error":{"code","message"}} on failure. The
degradation chain behind the handler decides once per process whether requests
are served by the networked catalog, the in-process simulation, or the static
record set.
*/
package httpserver
