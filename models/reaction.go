package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Reaction names one of the two mutually exclusive vote sets.
type Reaction string

const (
	ReactionLike    Reaction = "like"
	ReactionDislike Reaction = "dislike"
)

// Toggle applies like/dislike semantics to a pair of vote sets. If the user is
// already in the target set they are removed (un-vote); otherwise they are
// added to the target set and pulled from the opposite one, so a user is never
// in both sets at once. Works on any entity exposing the two sets; the caller
// persists the containing post.
func Toggle(action Reaction, likes, dislikes *[]primitive.ObjectID, userID primitive.ObjectID) {
	target, opposite := likes, dislikes
	if action == ReactionDislike {
		target, opposite = dislikes, likes
	}

	if pull(target, userID) {
		return
	}
	*target = append(*target, userID)
	pull(opposite, userID)
}

// ToggleBookmark is the single-set variant: present removes, absent adds.
// Reports whether the user is in the set afterwards.
func ToggleBookmark(set *[]primitive.ObjectID, userID primitive.ObjectID) bool {
	if pull(set, userID) {
		return false
	}
	*set = append(*set, userID)
	return true
}

func pull(set *[]primitive.ObjectID, userID primitive.ObjectID) bool {
	for i, id := range *set {
		if id == userID {
			*set = append((*set)[:i], (*set)[i+1:]...)
			return true
		}
	}
	return false
}
