package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSecureToken(t *testing.T) {
	a, err := GenerateSecureToken(16)
	require.NoError(t, err)
	assert.Len(t, a, 32)

	b, err := GenerateSecureToken(16)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)

	_, err = GenerateSecureToken(0)
	assert.Error(t, err)
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("HD_STR", "  value ")
	t.Setenv("HD_INT", "12")
	t.Setenv("HD_BAD_INT", "twelve")
	t.Setenv("HD_BOOL", "true")
	t.Setenv("HD_DUR", "90s")

	assert.Equal(t, "value", EnvOrDefault("HD_STR", "x"))
	assert.Equal(t, "x", EnvOrDefault("HD_UNSET", "x"))
	assert.Equal(t, 12, EnvInt("HD_INT", 1))
	assert.Equal(t, 1, EnvInt("HD_BAD_INT", 1))
	assert.True(t, EnvBool("HD_BOOL", false))
	assert.Equal(t, 90*time.Second, EnvDuration("HD_DUR", time.Second))
	assert.Equal(t, time.Second, EnvDuration("HD_UNSET", time.Second))
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, SplitList(" a, ,b ,"))
	assert.Empty(t, SplitList(""))
}

func TestJSONEnvelopes(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	JSONSuccess(c, http.StatusOK, gin.H{"id": 1})
	assert.JSONEq(t, `{"success":true,"data":{"id":1}}`, w.Body.String())

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	JSONError(c, http.StatusBadRequest, "VALIDATION_ERROR", "bad", map[string]string{"guestName": "required"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"success":false,"error":"bad","code":"VALIDATION_ERROR","fields":{"guestName":"required"}}`, w.Body.String())

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	JSONError(c, http.StatusNotFound, "NOT_FOUND", "booking not found", nil)
	assert.NotContains(t, w.Body.String(), "fields")
}
