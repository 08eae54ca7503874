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

	"placeshare/internal/config"
	"placeshare/internal/geocode"
	"placeshare/internal/httperr"
	"placeshare/internal/models"
)

const placeholderPlaceImage = "https://imganuncios.mitula.net/end_your_search_for_house_here_and_sale_now_1440076623501565834.jpg"

type createPlaceRequest struct {
	Title       string `json:"title" form:"title" binding:"required"`
	Description string `json:"description" form:"description" binding:"required,min=5"`
	Address     string `json:"address" form:"address" binding:"required"`
}

type updatePlaceRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description" binding:"required,min=5"`
}

// GetPlaceByID returns a single place.
func GetPlaceByID(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		placeID, err := primitive.ObjectIDFromHex(strings.TrimSpace(c.Param("pid")))
		if err != nil {
			fail(c, httperr.NotFound("Could not find place against the entered id"))
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout*time.Second)
		defer cancel()

		var place models.Place
		if err := db.Collection("places").FindOne(ctx, bson.M{"_id": placeID}).Decode(&place); err != nil {
			if err == mongo.ErrNoDocuments {
				fail(c, httperr.NotFound("Could not find place against the entered id"))
				return
			}
			log.Println("[PLACE] [ERROR] place lookup failed:", err)
			fail(c, httperr.Internal("Something went wrong"))
			return
		}

		c.JSON(http.StatusOK, gin.H{"place": place})
	}
}

// GetPlacesByUser expands a user's owned places.
func GetPlacesByUser(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := primitive.ObjectIDFromHex(strings.TrimSpace(c.Param("uid")))
		if err != nil {
			fail(c, httperr.NotFound("Could not find places against the entered user id"))
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout*time.Second)
		defer cancel()

		var user models.User
		if err := db.Collection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
			if err == mongo.ErrNoDocuments {
				fail(c, httperr.NotFound("Could not find places against the entered user id"))
				return
			}
			log.Println("[PLACE] [ERROR] user lookup failed:", err)
			fail(c, httperr.Internal("Something went wrong"))
			return
		}

		if len(user.Places) == 0 {
			fail(c, httperr.NotFound("Could not find places against the entered user id"))
			return
		}

		cursor, err := db.Collection("places").Find(ctx, bson.M{"_id": bson.M{"$in": user.Places}})
		if err != nil {
			log.Println("[PLACE] [ERROR] list places failed:", err)
			fail(c, httperr.Internal("Something went wrong"))
			return
		}
		defer cursor.Close(ctx)

		places := make([]models.Place, 0, len(user.Places))
		if err := cursor.All(ctx, &places); err != nil {
			log.Println("[PLACE] [ERROR] decode places failed:", err)
			fail(c, httperr.Internal("Something went wrong"))
			return
		}

		c.JSON(http.StatusOK, gin.H{"places": places})
	}
}

// CreatePlace geocodes the address and persists the new place together with
// the creator's owned-set update in a single transaction. The request may be
// JSON or multipart form data with an optional image.
func CreatePlace(db *mongo.Database, geo *geocode.Client, cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		creatorID, ok := requesterID(c)
		if !ok {
			fail(c, httperr.Unauthorized("Authentication failed"))
			return
		}

		var req createPlaceRequest
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
			image = placeholderPlaceImage
		}

		address := strings.TrimSpace(req.Address)
		location, err := geo.Resolve(c.Request.Context(), address)
		if err != nil {
			fail(c, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout*time.Second)
		defer cancel()

		if err := db.Collection("users").FindOne(ctx, bson.M{"_id": creatorID}).Err(); err != nil {
			if err == mongo.ErrNoDocuments {
				fail(c, httperr.NotFound("User does not exist"))
				return
			}
			log.Println("[PLACE] [ERROR] creator lookup failed:", err)
			fail(c, httperr.Internal("Failed creating the place"))
			return
		}

		now := time.Now()
		place := models.Place{
			ID:          primitive.NewObjectID(),
			Title:       strings.TrimSpace(req.Title),
			Description: strings.TrimSpace(req.Description),
			Address:     address,
			Location:    location,
			Image:       image,
			Creator:     creatorID,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		// Both writes commit together or neither does.
		session, err := db.Client().StartSession()
		if err != nil {
			log.Println("[PLACE] [ERROR] start session failed:", err)
			fail(c, httperr.Internal("Failed to create new place"))
			return
		}
		defer session.EndSession(ctx)

		_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
			if _, err := db.Collection("places").InsertOne(sc, place); err != nil {
				return nil, err
			}
			_, err := db.Collection("users").UpdateByID(sc, creatorID, bson.M{
				"$push": bson.M{"places": place.ID},
				"$set":  bson.M{"updatedAt": now},
			})
			return nil, err
		})
		if err != nil {
			log.Println("[PLACE] [ERROR] create transaction failed:", err)
			fail(c, httperr.Internal("Failed to create new place"))
			return
		}

		log.Println("[PLACE] [INFO] place created:", place.ID.Hex())
		c.JSON(http.StatusCreated, gin.H{"place": place})
	}
}

// UpdatePlace lets the creator change a place's title and description.
func UpdatePlace(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requesterID(c)
		if !ok {
			fail(c, httperr.Unauthorized("Authentication failed"))
			return
		}

		var req updatePlaceRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			failValidation(c, err)
			return
		}

		placeID, err := primitive.ObjectIDFromHex(strings.TrimSpace(c.Param("pid")))
		if err != nil {
			fail(c, httperr.NotFound("Could not find place against the entered id"))
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout*time.Second)
		defer cancel()

		var place models.Place
		if err := db.Collection("places").FindOne(ctx, bson.M{"_id": placeID}).Decode(&place); err != nil {
			if err == mongo.ErrNoDocuments {
				fail(c, httperr.NotFound("Could not find place against the entered id"))
				return
			}
			log.Println("[PLACE] [ERROR] place lookup failed:", err)
			fail(c, httperr.Internal("Could not update place"))
			return
		}

		if place.Creator != userID {
			fail(c, httperr.Unauthorized("You are not allowed to update this place"))
			return
		}

		place.Title = strings.TrimSpace(req.Title)
		place.Description = strings.TrimSpace(req.Description)
		place.UpdatedAt = time.Now()

		_, err = db.Collection("places").UpdateByID(ctx, placeID, bson.M{
			"$set": bson.M{
				"title":       place.Title,
				"description": place.Description,
				"updatedAt":   place.UpdatedAt,
			},
		})
		if err != nil {
			log.Println("[PLACE] [ERROR] update place failed:", err)
			fail(c, httperr.Internal("Could not update place"))
			return
		}

		log.Println("[PLACE] [INFO] place updated:", placeID.Hex())
		c.JSON(http.StatusOK, gin.H{"place": place})
	}
}

// DeletePlace removes a place and pulls it from the creator's owned-set in a
// single transaction, then disposes of its uploaded image if it had one.
func DeletePlace(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requesterID(c)
		if !ok {
			fail(c, httperr.Unauthorized("Authentication failed"))
			return
		}

		placeID, err := primitive.ObjectIDFromHex(strings.TrimSpace(c.Param("pid")))
		if err != nil {
			fail(c, httperr.NotFound("Could not find the place for this id"))
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout*time.Second)
		defer cancel()

		var place models.Place
		if err := db.Collection("places").FindOne(ctx, bson.M{"_id": placeID}).Decode(&place); err != nil {
			if err == mongo.ErrNoDocuments {
				fail(c, httperr.NotFound("Could not find the place for this id"))
				return
			}
			log.Println("[PLACE] [ERROR] place lookup failed:", err)
			fail(c, httperr.Internal("Could not delete place"))
			return
		}

		if place.Creator != userID {
			fail(c, httperr.Unauthorized("You are not allowed to delete this place"))
			return
		}

		session, err := db.Client().StartSession()
		if err != nil {
			log.Println("[PLACE] [ERROR] start session failed:", err)
			fail(c, httperr.Internal("Could not delete place"))
			return
		}
		defer session.EndSession(ctx)

		_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
			if _, err := db.Collection("places").DeleteOne(sc, bson.M{"_id": placeID}); err != nil {
				return nil, err
			}
			_, err := db.Collection("users").UpdateByID(sc, place.Creator, bson.M{
				"$pull": bson.M{"places": placeID},
				"$set":  bson.M{"updatedAt": time.Now()},
			})
			return nil, err
		})
		if err != nil {
			log.Println("[PLACE] [ERROR] delete transaction failed:", err)
			fail(c, httperr.Internal("Could not delete place"))
			return
		}

		if strings.HasPrefix(place.Image, "uploads/") {
			if err := RemoveUpload(place.Image); err != nil {
				log.Println("[PLACE] [ERROR] image cleanup failed:", err)
			}
		}

		log.Println("[PLACE] [INFO] place deleted:", placeID.Hex())
		c.JSON(http.StatusOK, gin.H{"message": "Place deleted successfully"})
	}
}
