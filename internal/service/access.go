package service

// Action is an access-controlled operation class on a content entity.
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// MayActOnPost reports whether the actor may mutate a post. All post
// mutations are owner-only.
func MayActOnPost(actorID, postOwnerID uint, _ Action) bool {
	return actorID == postOwnerID
}

// MayActOnComment reports whether the actor may mutate a comment. The post
// owner may delete any comment on their post; otherwise delete and update
// are reserved for the comment's own author.
func MayActOnComment(actorID, commentOwnerID, postOwnerID uint, action Action) bool {
	switch action {
	case ActionDelete:
		return actorID == postOwnerID || actorID == commentOwnerID
	case ActionUpdate:
		return actorID == commentOwnerID
	case ActionCreate:
		return true
	default:
		return false
	}
}
