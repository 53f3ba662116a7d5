package router

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	apperrors "github.com/swipefolio/landing-api/pkg/errors"
)

func TestServiceResult_ToJSON(t *testing.T) {
	tests := []struct {
		name   string
		result *ServiceResult
		want   any
	}{
		{
			name:   "message only",
			result: OKResult(nil, "ok"),
			want:   gin.H{"message": "ok"},
		},
		{
			name:   "default data key",
			result: OKResult(42, "ok"),
			want:   gin.H{"message": "ok", "data": 42},
		},
		{
			name:   "renamed data key",
			result: CreatedResult("x", "made").WithDataKey("subscriber"),
			want:   gin.H{"message": "made", "subscriber": "x"},
		},
		{
			name:   "bad request lists errors",
			result: BadRequestResult("bad", []string{"e"}),
			want:   gin.H{"message": "bad", "errors": []string{"e"}},
		},
		{
			name:   "raw body",
			result: RawResult(http.StatusOK, []int{1, 2}),
			want:   []int{1, 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.result.ToJSON())
		})
	}
}

func TestErrorResultFromError_HidesServerFaults(t *testing.T) {
	result := ErrorResultFromError(apperrors.NewDatabaseError("unable to reach store", nil))

	assert.Equal(t, http.StatusInternalServerError, result.StatusCode)
	assert.Equal(t, "Something went wrong. Please try again later.", result.Message)
	assert.True(t, result.IsError())
}
