// Package service holds the business rules of the forum: users, posts,
// comments and the vote aggregation over posts and comments.
package service

import (
	"github.com/hamidadj13/syncvote-api/internal/models"
)

// isOwnerOrAdmin reports whether the caller may modify a resource created by ownerID.
func isOwnerOrAdmin(ownerID, callerID string, callerRole models.Role) bool {
	return callerRole == models.RoleAdmin || (callerID != "" && ownerID == callerID)
}
