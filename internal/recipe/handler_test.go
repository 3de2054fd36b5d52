package recipe

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joshu-sajeev/cookbook/common"
	"github.com/joshu-sajeev/cookbook/internal/dto"
	"github.com/joshu-sajeev/cookbook/internal/mocks"
	"github.com/joshu-sajeev/cookbook/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newRouter(svc *mocks.RecipeServiceMock) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewRecipeHandler(svc)

	r := gin.New()
	r.Use(middleware.TimeoutMiddleware(5*time.Second), middleware.ErrorHandler())
	r.POST("/api/recipes", h.Create)
	r.POST("/api/recipes/images", h.UploadImage)
	r.GET("/api/recipes/:id", h.Get)
	return r
}

func TestRecipeHandler_Create(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setupMock      func(*mocks.RecipeServiceMock)
		expectedStatus int
	}{
		{
			name: "recipe with image",
			body: `{"group_id":1,"guest_name":"Ana","name":"Paella","image_url":"https://img.example.com/p.jpg"}`,
			setupMock: func(m *mocks.RecipeServiceMock) {
				qid := uint(9)
				m.On("Create", mock.Anything, mock.MatchedBy(func(req *dto.RecipeCreateDTO) bool {
					return req.GroupID == 1 && req.ImageURL != nil
				})).Return(&dto.RecipeResponseDTO{ID: 5, QueueItemID: &qid, QueueStatus: "pending"}, nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "missing name",
			body:           `{"group_id":1,"guest_name":"Ana"}`,
			setupMock:      func(*mocks.RecipeServiceMock) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "bad image url",
			body:           `{"group_id":1,"guest_name":"Ana","name":"x","image_url":"not a url"}`,
			setupMock:      func(*mocks.RecipeServiceMock) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "invalid json",
			body:           `{`,
			setupMock:      func(*mocks.RecipeServiceMock) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "unknown group",
			body: `{"group_id":42,"guest_name":"Ana","name":"Soup"}`,
			setupMock: func(m *mocks.RecipeServiceMock) {
				m.On("Create", mock.Anything, mock.Anything).Return(nil, common.Errf(http.StatusNotFound, "group not found"))
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mocks.RecipeServiceMock)
			tt.setupMock(svc)

			req := httptest.NewRequest(http.MethodPost, "/api/recipes", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			newRouter(svc).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
			svc.AssertExpectations(t)
		})
	}
}

func TestRecipeHandler_Get(t *testing.T) {
	tests := []struct {
		name           string
		id             string
		setupMock      func(*mocks.RecipeServiceMock)
		expectedStatus int
	}{
		{
			name: "found",
			id:   "5",
			setupMock: func(m *mocks.RecipeServiceMock) {
				m.On("Get", mock.Anything, uint(5)).Return(&dto.RecipeResponseDTO{ID: 5}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "invalid id",
			id:             "abc",
			setupMock:      func(*mocks.RecipeServiceMock) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "missing",
			id:   "6",
			setupMock: func(m *mocks.RecipeServiceMock) {
				m.On("Get", mock.Anything, uint(6)).Return(nil, common.Errf(http.StatusNotFound, "recipe not found"))
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mocks.RecipeServiceMock)
			tt.setupMock(svc)

			w := httptest.NewRecorder()
			newRouter(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/recipes/"+tt.id, nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			svc.AssertExpectations(t)
		})
	}
}

func TestRecipeHandler_UploadImage(t *testing.T) {
	t.Run("multipart image", func(t *testing.T) {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		part, err := mw.CreateFormFile("image", "photo.png")
		require.NoError(t, err)
		_, err = part.Write(pngHeader)
		require.NoError(t, err)
		require.NoError(t, mw.Close())

		svc := new(mocks.RecipeServiceMock)
		svc.On("UploadImage", mock.Anything, mock.Anything, int64(len(pngHeader))).
			Return(&dto.ImageUploadResponseDTO{URL: "https://cdn.example.com/recipes/a.png", Key: "recipes/a.png"}, nil)

		req := httptest.NewRequest(http.MethodPost, "/api/recipes/images", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		w := httptest.NewRecorder()
		newRouter(svc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.JSONEq(t, `{"url":"https://cdn.example.com/recipes/a.png","key":"recipes/a.png"}`, w.Body.String())
		svc.AssertExpectations(t)
	})

	t.Run("missing file field", func(t *testing.T) {
		svc := new(mocks.RecipeServiceMock)

		req := httptest.NewRequest(http.MethodPost, "/api/recipes/images", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		newRouter(svc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "UploadImage", mock.Anything, mock.Anything, mock.Anything)
	})
}
