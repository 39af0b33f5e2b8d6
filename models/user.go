package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// DefaultProfilePicture is used when a user registers without uploading one.
const DefaultProfilePicture = "https://cdn.pixabay.com/photo/2016/08/08/09/17/avatar-1577909_1280.png"

// ValidGenders holds the accepted values for the gender field.
var ValidGenders = map[string]bool{
	"male":              true,
	"female":            true,
	"other":             true,
	"prefer not to say": true,
}

type User struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username       string             `bson:"username" json:"username"`
	Email          string             `bson:"email" json:"email"`
	Password       string             `bson:"password" json:"-"`
	Gender         string             `bson:"gender" json:"gender"`
	Bio            string             `bson:"bio,omitempty" json:"bio"`
	ProfilePicture string             `bson:"profilePicture" json:"profilePicture"`
	GithubID       *string            `bson:"githubId,omitempty" json:"githubId,omitempty"`
}
