package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"placeshare/internal/auth"
	"placeshare/internal/httperr"
)

const testSecret = "test-secret"

func protectedEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(httperr.Formatter(nil))
	r.POST("/protected", UserAuth(testSecret), func(c *gin.Context) {
		id, _ := c.Get(UserIDKey)
		c.JSON(http.StatusOK, gin.H{"userId": id.(primitive.ObjectID).Hex()})
	})
	r.OPTIONS("/protected", UserAuth(testSecret), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func doRequest(r *gin.Engine, method, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestUserAuthAcceptsValidToken(t *testing.T) {
	r := protectedEngine(t)
	userID := primitive.NewObjectID()

	token, err := auth.IssueToken(userID, "a@x.com", testSecret, time.Hour)
	if err != nil {
		t.Fatalf("IssueToken returned error: %v", err)
	}

	w := doRequest(r, http.MethodPost, "Bearer "+token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), userID.Hex()) {
		t.Fatalf("expected userId %s in body, got %s", userID.Hex(), w.Body.String())
	}
}

func TestUserAuthRejectsBadTokens(t *testing.T) {
	r := protectedEngine(t)

	expired, err := auth.IssueToken(primitive.NewObjectID(), "a@x.com", testSecret, -time.Minute)
	if err != nil {
		t.Fatalf("IssueToken returned error: %v", err)
	}
	valid, err := auth.IssueToken(primitive.NewObjectID(), "a@x.com", testSecret, time.Hour)
	if err != nil {
		t.Fatalf("IssueToken returned error: %v", err)
	}
	tampered := valid[:len(valid)-4] + "AAAA"

	cases := map[string]string{
		"missing header":   "",
		"malformed header": "Token abc",
		"not a token":      "Bearer garbage",
		"expired":          "Bearer " + expired,
		"tampered":         "Bearer " + tampered,
	}

	for name, header := range cases {
		w := doRequest(r, http.MethodPost, header)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %d: %s", name, w.Code, w.Body.String())
		}
		if !strings.Contains(w.Body.String(), "message") {
			t.Fatalf("%s: expected error body, got %s", name, w.Body.String())
		}
	}
}

func TestUserAuthBypassesOptionsPreflight(t *testing.T) {
	r := protectedEngine(t)

	w := doRequest(r, http.MethodOptions, "")
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected OPTIONS to bypass auth with 204, got %d", w.Code)
	}
}
