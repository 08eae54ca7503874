package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"placeshare/internal/config"
	"placeshare/internal/geocode"
	"placeshare/internal/handlers"
	"placeshare/internal/httperr"
	"placeshare/internal/middleware"
)

// Route is one entry of the declarative routing table. Auth marks routes
// behind the bearer-token guard.
type Route struct {
	Method  string
	Path    string
	Auth    bool
	Handler gin.HandlerFunc
}

// Routes builds the full routing table for the API.
func Routes(db *mongo.Database, geo *geocode.Client, cfg config.Config) []Route {
	return []Route{
		{Method: http.MethodGet, Path: "/api/places/user/:uid", Handler: handlers.GetPlacesByUser(db)},
		{Method: http.MethodGet, Path: "/api/places/:pid", Handler: handlers.GetPlaceByID(db)},
		{Method: http.MethodPost, Path: "/api/places", Auth: true, Handler: handlers.CreatePlace(db, geo, cfg)},
		{Method: http.MethodPatch, Path: "/api/places/:pid", Auth: true, Handler: handlers.UpdatePlace(db)},
		{Method: http.MethodDelete, Path: "/api/places/:pid", Auth: true, Handler: handlers.DeletePlace(db)},
		{Method: http.MethodGet, Path: "/api/users", Handler: handlers.GetUsers(db)},
		{Method: http.MethodPost, Path: "/api/users/signup", Handler: handlers.Signup(db, cfg)},
		{Method: http.MethodPost, Path: "/api/users/login", Handler: handlers.Login(db, cfg)},
	}
}

// New assembles the engine: CORS and the error formatter wrap everything,
// authenticated routes additionally get the bearer-token guard, uploaded
// images are served statically, and unmatched routes get the generic 404.
func New(db *mongo.Database, geo *geocode.Client, cfg config.Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(middleware.CORS())
	r.Use(httperr.Formatter(handlers.RemoveUpload))

	authGuard := middleware.UserAuth(cfg.JWTSecret)
	for _, route := range Routes(db, geo, cfg) {
		if route.Auth {
			r.Handle(route.Method, route.Path, authGuard, route.Handler)
		} else {
			r.Handle(route.Method, route.Path, route.Handler)
		}
	}

	r.Static("/uploads/images", cfg.UploadDir)
	r.NoRoute(httperr.NoRoute())

	return r
}
