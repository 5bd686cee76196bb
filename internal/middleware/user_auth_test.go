package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const testSecret = "test-secret"

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("failed to sign test token: %v", err)
	}
	return signed
}

func runGuard(t *testing.T, authorization string) (*httptest.ResponseRecorder, interface{}, bool) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	reached := false
	var injected interface{}

	r := gin.New()
	r.GET("/dashboard/cars", UserAuth(testSecret), func(c *gin.Context) {
		reached = true
		injected, _ = c.Get("userId")
		c.JSON(200, gin.H{"ok": true})
	})

	req := httptest.NewRequest("GET", "/dashboard/cars", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}

	recorder := httptest.NewRecorder()
	r.ServeHTTP(recorder, req)

	return recorder, injected, reached
}

func TestUserAuthMissingToken(t *testing.T) {
	recorder, _, reached := runGuard(t, "")
	if recorder.Code != 401 {
		t.Fatalf("expected 401 without token, got %d", recorder.Code)
	}
	if reached {
		t.Fatal("protected handler must not run without a token")
	}
}

func TestUserAuthMalformedHeader(t *testing.T) {
	recorder, _, reached := runGuard(t, "Token abc")
	if recorder.Code != 401 || reached {
		t.Fatalf("expected 401 for malformed header, got %d reached=%v", recorder.Code, reached)
	}
}

func TestUserAuthExpiredToken(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{
		"userId": primitive.NewObjectID().Hex(),
		"exp":    time.Now().Add(-time.Minute).Unix(),
	})

	recorder, _, reached := runGuard(t, "Bearer "+token)
	if recorder.Code != 401 || reached {
		t.Fatalf("expected 401 for expired token, got %d reached=%v", recorder.Code, reached)
	}
}

func TestUserAuthInvalidUserIDClaim(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{
		"userId": "not-an-object-id",
		"exp":    time.Now().Add(time.Minute).Unix(),
	})

	recorder, _, reached := runGuard(t, "Bearer "+token)
	if recorder.Code != 401 || reached {
		t.Fatalf("expected 401 for invalid userId claim, got %d reached=%v", recorder.Code, reached)
	}
}

func TestUserAuthValidTokenInjectsUserID(t *testing.T) {
	userID := primitive.NewObjectID()
	token := signedToken(t, jwt.MapClaims{
		"userId": userID.Hex(),
		"exp":    time.Now().Add(time.Minute).Unix(),
	})

	recorder, injected, reached := runGuard(t, "Bearer "+token)
	if recorder.Code != 200 {
		t.Fatalf("expected guard to pass, got %d", recorder.Code)
	}
	if !reached {
		t.Fatal("expected protected handler to run")
	}
	if got, ok := injected.(primitive.ObjectID); !ok || got != userID {
		t.Fatalf("expected userId %s in context, got %v", userID.Hex(), injected)
	}
}
