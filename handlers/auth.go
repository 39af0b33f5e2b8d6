package handlers

import (
	"context"
	"net/http"
	"strings"

	"scribe/database"
	"scribe/middleware"
	"scribe/models"
	"scribe/storage"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

// userExists reports whether the username or email is already taken.
func userExists(ctx context.Context, username, email string) (bool, error) {
	count, err := database.Users.CountDocuments(ctx, bson.M{
		"$or": []bson.M{{"username": username}, {"email": email}},
	})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Register creates a user from a multipart form with an optional profile
// picture. The picture is staged before validation, so every failure path has
// to remove it again.
func Register(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")
	email := c.PostForm("email")
	gender := c.PostForm("gender")
	bio := c.PostForm("bio")

	picture := ""
	if fh, err := c.FormFile("profilePicture"); err == nil {
		locator, err := store.SaveProfilePicture(fh)
		if err == storage.ErrPictureTooLarge || err == storage.ErrFileType {
			fail(c, http.StatusBadRequest, err.Error())
			return
		}
		if err != nil {
			c.Error(err)
			return
		}
		picture = locator
	}

	if username == "" || password == "" || email == "" || gender == "" {
		store.Delete(picture)
		fail(c, http.StatusBadRequest, "Enter all the fields")
		return
	}
	if !models.ValidGenders[gender] {
		store.Delete(picture)
		fail(c, http.StatusBadRequest, "Invalid gender")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	exists, err := userExists(ctx, username, email)
	if err != nil {
		store.Delete(picture)
		c.Error(err)
		return
	}
	if exists {
		store.Delete(picture)
		fail(c, http.StatusBadRequest, "Username or Email is already taken")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		store.Delete(picture)
		c.Error(err)
		return
	}

	user := models.User{
		ID:             primitive.NewObjectID(),
		Username:       username,
		Email:          email,
		Password:       string(hashed),
		Gender:         gender,
		Bio:            bio,
		ProfilePicture: picture,
	}
	if user.ProfilePicture == "" {
		user.ProfilePicture = models.DefaultProfilePicture
	}

	if _, err := database.Users.InsertOne(ctx, user); err != nil {
		store.Delete(picture)
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "User " + strings.ToUpper(username) + " created"})
}

type loginRequest struct {
	UsernameOrEmail string `json:"usernameOrEmail" form:"usernameOrEmail"`
	Password        string `json:"password" form:"password"`
}

// Login checks credentials against the stored hash and responds with a signed
// token carrying the caller identity.
func Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil || req.UsernameOrEmail == "" || req.Password == "" {
		fail(c, http.StatusBadRequest, "Please provide both username/email and password.")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	var user models.User
	err := database.Users.FindOne(ctx, bson.M{
		"$or": []bson.M{{"username": req.UsernameOrEmail}, {"email": req.UsernameOrEmail}},
	}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		fail(c, http.StatusBadRequest, "Invalid credentials")
		return
	}
	if err != nil {
		c.Error(err)
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		fail(c, http.StatusBadRequest, "Invalid credentials")
		return
	}

	token, err := middleware.NewToken(&user)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword" form:"oldPassword"`
	NewPassword string `json:"newPassword" form:"newPassword"`
}

func ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBind(&req); err != nil || req.OldPassword == "" || req.NewPassword == "" {
		fail(c, http.StatusBadRequest, "Enter all the fields")
		return
	}

	userID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		fail(c, http.StatusBadRequest, "Invalid Id")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	var user models.User
	err = database.Users.FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		fail(c, http.StatusBadRequest, "Invalid Id")
		return
	}
	if err != nil {
		c.Error(err)
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.OldPassword)) != nil {
		fail(c, http.StatusBadRequest, "Invalid password")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		c.Error(err)
		return
	}

	_, err = database.Users.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$set": bson.M{"password": string(hashed)}})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password Changed for " + strings.ToUpper(user.Username)})
}

// UpdateProfile partially updates a user: empty fields keep their stored
// value. A new profile picture replaces the old file on disk.
func UpdateProfile(c *gin.Context) {
	username := c.PostForm("username")
	email := c.PostForm("email")
	gender := c.PostForm("gender")
	bio := c.PostForm("bio")

	picture := ""
	if fh, err := c.FormFile("profilePicture"); err == nil {
		locator, err := store.SaveProfilePicture(fh)
		if err == storage.ErrPictureTooLarge || err == storage.ErrFileType {
			fail(c, http.StatusBadRequest, err.Error())
			return
		}
		if err != nil {
			c.Error(err)
			return
		}
		picture = locator
	}

	userID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		store.Delete(picture)
		fail(c, http.StatusBadRequest, "Invalid Id")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	var user models.User
	err = database.Users.FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		store.Delete(picture)
		fail(c, http.StatusBadRequest, "Invalid Id")
		return
	}
	if err != nil {
		store.Delete(picture)
		c.Error(err)
		return
	}

	if username != "" && username != user.Username {
		exists, err := userExists(ctx, username, email)
		if err != nil {
			store.Delete(picture)
			c.Error(err)
			return
		}
		if exists {
			store.Delete(picture)
			fail(c, http.StatusBadRequest, "Username or Email is already taken")
			return
		}
	}

	if username != "" {
		user.Username = username
	}
	if email != "" {
		user.Email = email
	}
	if gender != "" {
		if !models.ValidGenders[gender] {
			store.Delete(picture)
			fail(c, http.StatusBadRequest, "Invalid gender")
			return
		}
		user.Gender = gender
	}
	if bio != "" {
		user.Bio = bio
	}
	if picture != "" {
		if user.ProfilePicture != "" && user.ProfilePicture != models.DefaultProfilePicture {
			store.Delete(user.ProfilePicture)
		}
		user.ProfilePicture = picture
	}

	if _, err := database.Users.ReplaceOne(ctx, bson.M{"_id": userID}, user); err != nil {
		store.Delete(picture)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": strings.ToUpper(user.Username) + " updated"})
}
