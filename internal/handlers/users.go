package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"placeshare/internal/auth"
	"placeshare/internal/config"
	"placeshare/internal/httperr"
	"placeshare/internal/models"
)

const placeholderAvatar = "https://static.toiimg.com/thumb/resizemode-4,msid-76729750,imgsize-249247,width-720/76729750.jpg"

type signupRequest struct {
	Name     string `json:"name" form:"name" binding:"required"`
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required,min=6"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// GetUsers lists every account without its password hash.
func GetUsers(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout*time.Second)
		defer cancel()

		cursor, err := db.Collection("users").Find(ctx, bson.M{})
		if err != nil {
			log.Println("[USER] [ERROR] list users failed:", err)
			fail(c, httperr.Internal("Error fetching users, try again"))
			return
		}
		defer cursor.Close(ctx)

		users := make([]models.User, 0)
		if err := cursor.All(ctx, &users); err != nil {
			log.Println("[USER] [ERROR] decode users failed:", err)
			fail(c, httperr.Internal("Error fetching users, try again"))
			return
		}

		if len(users) == 0 {
			fail(c, httperr.NotFound("No users found"))
			return
		}

		c.JSON(http.StatusOK, gin.H{"users": users})
	}
}

// Signup registers a new account and returns a fresh bearer token. The
// request may be JSON or multipart form data with an optional avatar image.
func Signup(db *mongo.Database, cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req signupRequest
		if err := c.ShouldBind(&req); err != nil {
			failValidation(c, err)
			return
		}

		image, err := maybeSaveImage(c, cfg.UploadDir)
		if err != nil {
			fail(c, err)
			return
		}
		if image == "" {
			image = placeholderAvatar
		}

		email := strings.ToLower(strings.TrimSpace(req.Email))
		name := strings.TrimSpace(req.Name)

		ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout*time.Second)
		defer cancel()

		count, err := db.Collection("users").CountDocuments(ctx, bson.M{"email": email})
		if err != nil {
			log.Println("[USER] [ERROR] signup lookup failed:", err)
			fail(c, httperr.Internal("Signup failed, try again later"))
			return
		}
		if count > 0 {
			log.Println("[USER] [ERROR] signup email exists:", email)
			fail(c, httperr.Validation("Email already registered"))
			return
		}

		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			log.Println("[USER] [ERROR] signup password hash failed:", err)
			fail(c, httperr.Internal("Cannot create user"))
			return
		}

		now := time.Now()
		user := models.User{
			Name:         name,
			Email:        email,
			PasswordHash: hash,
			Image:        image,
			Places:       []primitive.ObjectID{},
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		res, err := db.Collection("users").InsertOne(ctx, user)
		if err != nil {
			log.Println("[USER] [ERROR] signup insert failed:", err)
			fail(c, httperr.Internal("Could not create user"))
			return
		}
		userID, _ := res.InsertedID.(primitive.ObjectID)

		token, err := auth.IssueToken(userID, email, cfg.JWTSecret, cfg.TokenTTL)
		if err != nil {
			log.Println("[USER] [ERROR] signup token generation failed:", err)
			fail(c, httperr.Internal("Signup failed"))
			return
		}

		log.Println("[USER] [INFO] user registered:", email)
		c.JSON(http.StatusCreated, gin.H{
			"userId": userID.Hex(),
			"email":  email,
			"token":  token,
		})
	}
}

// Login checks the credentials against the stored hash and returns a fresh
// bearer token.
func Login(db *mongo.Database, cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			failValidation(c, err)
			return
		}

		email := strings.ToLower(strings.TrimSpace(req.Email))

		ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout*time.Second)
		defer cancel()

		var user models.User
		if err := db.Collection("users").FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
			if err == mongo.ErrNoDocuments {
				log.Println("[USER] [ERROR] login unknown email")
				fail(c, httperr.Unauthorized("Invalid credentials"))
				return
			}
			log.Println("[USER] [ERROR] login lookup failed:", err)
			fail(c, httperr.Internal("Login failed, try again later"))
			return
		}

		if !auth.CheckPassword(req.Password, user.PasswordHash) {
			log.Println("[USER] [ERROR] login invalid password")
			fail(c, httperr.Unauthorized("Invalid credentials"))
			return
		}

		token, err := auth.IssueToken(user.ID, user.Email, cfg.JWTSecret, cfg.TokenTTL)
		if err != nil {
			log.Println("[USER] [ERROR] login token generation failed:", err)
			fail(c, httperr.Internal("Login failed"))
			return
		}

		log.Println("[USER] [INFO] user login succeeded:", user.Email)
		c.JSON(http.StatusOK, gin.H{
			"userId": user.ID.Hex(),
			"email":  user.Email,
			"token":  token,
		})
	}
}
