package api

import "net/http"

// RequireLeader rejects a request with 403 when this node is a replication
// follower (spec.md §6.4: "Follower rejects write requests with 403").
// isFollower is evaluated per-request so a config reload takes effect
// immediately.
func RequireLeader(isFollower func() bool, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if isFollower() {
			RespondError(w, http.StatusForbidden, "this node is a replication follower and does not accept this request")
			return
		}
		next(w, r)
	}
}
