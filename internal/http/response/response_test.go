package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/bazaarlane/admin-backend/internal/platform/apierr"
)

func respond(t *testing.T, err error) (*httptest.ResponseRecorder, *gin.Context) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	RespondAPIError(c, err)
	return w, c
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) ErrorEnvelope {
	t.Helper()
	var env ErrorEnvelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return env
}

func TestRespondAPIErrorMasksServerFailures(t *testing.T) {
	cause := fmt.Errorf("set default address: %w", errors.New("deadlock detected on user_address"))
	w, c := respond(t, apierr.InvariantFailed(cause))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	env := decodeEnvelope(t, w)
	if strings.Contains(env.Error.Message, "deadlock") || strings.Contains(env.Error.Message, "user_address") {
		t.Fatalf("storage detail leaked to client: %q", env.Error.Message)
	}
	if env.Error.Code != apierr.CodeInvariantFailed {
		t.Fatalf("code = %q, want %q", env.Error.Code, apierr.CodeInvariantFailed)
	}
	// The detail still has to reach the request log.
	if len(c.Errors) == 0 || !strings.Contains(c.Errors.String(), "deadlock") {
		t.Fatalf("full error not recorded on the context: %v", c.Errors)
	}
}

func TestRespondAPIErrorMasksUnclassifiedErrors(t *testing.T) {
	w, c := respond(t, errors.New("dial tcp 10.0.0.3:5432: connection refused"))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	env := decodeEnvelope(t, w)
	if env.Error.Code != "internal_error" {
		t.Fatalf("code = %q", env.Error.Code)
	}
	if strings.Contains(env.Error.Message, "5432") {
		t.Fatalf("connection detail leaked to client: %q", env.Error.Message)
	}
	if len(c.Errors) == 0 {
		t.Fatal("full error not recorded on the context")
	}
}

func TestRespondAPIErrorKeepsClientErrorDetail(t *testing.T) {
	w, c := respond(t, apierr.Validation(errors.New("city is required")))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	env := decodeEnvelope(t, w)
	if env.Error.Message != "city is required" {
		t.Fatalf("validation message mangled: %q", env.Error.Message)
	}
	if len(c.Errors) != 0 {
		t.Fatalf("client errors should not pollute the request log: %v", c.Errors)
	}
}
