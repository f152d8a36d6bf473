package model

import "time"

type User struct {
	Username        string    `firestore:"username" json:"username"`
	ProfileImageUrl string    `firestore:"pfp" json:"profileImageUrl"`
	CreatedAt       time.Time `firestore:"createdAt,omitempty" json:"createdAt"`
}
