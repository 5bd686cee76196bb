package handlers

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"webcars/internal/models"
)

func validCarRequest() CreateCarRequest {
	return CreateCarRequest{
		Name:        "Onix 1.0",
		Model:       "1.0 Flex PLUS MANUAL",
		Year:        "2016/2016",
		KM:          "23.900",
		Price:       "69.000",
		City:        "Campo Grande - MS",
		WhatsApp:    "55889999999",
		Description: "Well kept, single owner",
		Images: []CarImageInput{
			{Name: "img-1", URL: "http://storage.local/webcars-images/images/u1/img-1"},
		},
	}
}

func TestOwnerCarsFilterScopesToSingleOwner(t *testing.T) {
	filter := ownerCarsFilter("u1")

	if len(filter) != 1 {
		t.Fatalf("expected filter on uid only, got %+v", filter)
	}
	if filter["uid"] != "u1" {
		t.Fatalf("expected uid=u1, got %v", filter["uid"])
	}

	// given cars {A: owner=u1, B: owner=u2}, only A satisfies the filter
	cars := []models.Car{
		{Name: "ONIX 1.0", UID: "u1"},
		{Name: "CIVIC", UID: "u2"},
	}
	matched := make([]string, 0)
	for _, car := range cars {
		if car.UID == filter["uid"] {
			matched = append(matched, car.Name)
		}
	}
	if len(matched) != 1 || matched[0] != "ONIX 1.0" {
		t.Fatalf("expected only u1's car to match, got %v", matched)
	}
}

func TestValidateNewCarRejectsZeroImages(t *testing.T) {
	req := validCarRequest()
	req.Images = nil

	if err := validateNewCar(req); err == nil {
		t.Fatal("expected validation error for a car with no images")
	}
}

func TestValidateNewCarRejectsBadWhatsApp(t *testing.T) {
	tests := []string{"", "12345", "abc99999999", "1234567890123"}
	for _, phone := range tests {
		req := validCarRequest()
		req.WhatsApp = phone
		if err := validateNewCar(req); err == nil {
			t.Fatalf("expected validation error for whatsapp %q", phone)
		}
	}
}

func TestValidateNewCarRejectsImageWithoutURL(t *testing.T) {
	req := validCarRequest()
	req.Images = []CarImageInput{{Name: "img-1", URL: "  "}}

	if err := validateNewCar(req); err == nil {
		t.Fatal("expected validation error for an image without a url")
	}
}

func TestValidateNewCarAcceptsValidRequest(t *testing.T) {
	if err := validateNewCar(validCarRequest()); err != nil {
		t.Fatalf("expected valid request to pass, got %v", err)
	}
}

// CreateCar must reject a zero-image draft before any persistence call;
// the nil database would panic if the handler reached it.
func TestCreateCarZeroImagesNeverTouchesDatabase(t *testing.T) {
	gin.SetMode(gin.TestMode)

	body := []byte(`{
		"name": "Onix 1.0",
		"model": "1.0 Flex",
		"year": "2016/2016",
		"km": "23.900",
		"price": "69.000",
		"city": "Campo Grande - MS",
		"whatsapp": "55889999999",
		"description": "ok",
		"images": []
	}`)

	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Request = httptest.NewRequest("POST", "/dashboard/cars", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set("userId", primitive.NewObjectID())

	CreateCar(nil)(c)

	if recorder.Code != 400 {
		t.Fatalf("expected 400 for zero-image draft, got %d", recorder.Code)
	}
}

type stubStorage struct {
	deleted   []string
	failKeys  map[string]bool
	uploadErr error
}

func (s *stubStorage) Upload(ctx context.Context, uid, key string, reader io.Reader, size int64, contentType string) (string, error) {
	if s.uploadErr != nil {
		return "", s.uploadErr
	}
	return "http://storage.local/images/" + uid + "/" + key, nil
}

func (s *stubStorage) Delete(ctx context.Context, uid, key string) error {
	s.deleted = append(s.deleted, key)
	if s.failKeys[key] {
		return errors.New("storage unavailable")
	}
	return nil
}

func TestCleanupCarImagesAttemptsEveryDeletion(t *testing.T) {
	store := &stubStorage{failKeys: map[string]bool{"img-1": true}}
	images := []models.CarImage{
		{Name: "img-1", UID: "u1"},
		{Name: "img-2", UID: "u1"},
	}

	failed := cleanupCarImages(context.Background(), store, images)

	if len(store.deleted) != 2 {
		t.Fatalf("expected both deletions attempted, got %v", store.deleted)
	}
	if len(failed) != 1 || failed[0].image.Name != "img-1" {
		t.Fatalf("expected only img-1 to be reported as orphaned, got %+v", failed)
	}
}

func TestCleanupCarImagesNoFailures(t *testing.T) {
	store := &stubStorage{}
	images := []models.CarImage{
		{Name: "img-1", UID: "u1"},
		{Name: "img-2", UID: "u1"},
	}

	if failed := cleanupCarImages(context.Background(), store, images); len(failed) != 0 {
		t.Fatalf("expected no orphans, got %+v", failed)
	}
}
