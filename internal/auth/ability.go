package auth

import "github.com/spec-kit/library-catalog/internal/domain"

// Action is an operation attempted on a resource.
type Action string

const (
	ActionRead   Action = "read"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Resource is a gated resource type.
type Resource string

const (
	ResourceBooks   Resource = "books"
	ResourceReviews Resource = "reviews"
	ResourceUsers   Resource = "users"
)

// Can evaluates the role decision table. actor is nil for anonymous
// callers. ownerID is the owning user's ID for ownership-scoped
// resources (the review's author, or the user record being read) and
// is ignored for books.
//
//	role      | books r/w | reviews r / write-own / write-others | users read own/others
//	anonymous | allow/deny| allow /  deny  / deny                | deny  / deny
//	member    | allow/deny| allow /  allow / deny                | allow / deny
//	librarian | allow/allow| allow / allow / deny                | allow / allow
//	admin     | allow/allow| allow / allow / allow               | allow / allow
func Can(actor *domain.User, action Action, resource Resource, ownerID string) bool {
	switch resource {
	case ResourceBooks:
		if action == ActionRead {
			return true
		}
		return actor != nil && (actor.Role == domain.RoleLibrarian || actor.Role == domain.RoleAdmin)

	case ResourceReviews:
		switch action {
		case ActionRead:
			return true
		case ActionCreate:
			return actor != nil
		case ActionUpdate, ActionDelete:
			if actor == nil {
				return false
			}
			if actor.Role == domain.RoleAdmin {
				return true
			}
			return actor.ID == ownerID
		}
		return false

	case ResourceUsers:
		if actor == nil || action != ActionRead {
			return false
		}
		if actor.Role == domain.RoleLibrarian || actor.Role == domain.RoleAdmin {
			return true
		}
		return actor.ID == ownerID
	}

	return false
}
