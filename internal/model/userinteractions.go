package model

// UserInteractions is the legacy per user cache of reactions. Current readers
// derive reaction state from the likedBy/bookmarkedBy sets instead.
type UserInteractions struct {
	LikedComments   []string `firestore:"likedComments" json:"likedComments"`
	BookmarkedVideo bool     `firestore:"bookmarkedVideo" json:"bookmarkedVideo"`
	LikedVideo      bool     `firestore:"likedVideo" json:"likedVideo"`
}

func EmptyUserInteractions() UserInteractions {
	return UserInteractions{LikedComments: []string{}}
}
