package models

// Follow is a directed edge: FollowerID receives FollowedID's posts.
type Follow struct {
	FollowerID int `json:"follower_id"`
	FollowedID int `json:"followed_id"`
}
