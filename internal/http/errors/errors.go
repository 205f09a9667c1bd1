package errors

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
)

// JSON writes an error object in the shape the admin UI consumes.
func JSON(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

func InternalError(w http.ResponseWriter, r *http.Request, err error, message string) {
	requestID := middleware.GetReqID(r.Context())

	// Log the actual error with request ID for debugging
	if requestID != "" {
		log.Printf("[ERROR] RequestID=%s: %s: %v", requestID, message, err)
	} else {
		log.Printf("[ERROR] %s: %v", message, err)
	}

	// Return generic error to client
	JSON(w, http.StatusInternalServerError, "internal server error")
}

func BadRequestError(w http.ResponseWriter, r *http.Request, err error, clientMessage string) {
	requestID := middleware.GetReqID(r.Context())

	if requestID != "" {
		log.Printf("[WARN] RequestID=%s: bad request: %v", requestID, err)
	} else {
		log.Printf("[WARN] bad request: %v", err)
	}

	JSON(w, http.StatusBadRequest, clientMessage)
}

func UnauthorizedError(w http.ResponseWriter, clientMessage string) {
	JSON(w, http.StatusUnauthorized, clientMessage)
}

func LogError(r *http.Request, message string, err error) {
	requestID := middleware.GetReqID(r.Context())

	if requestID != "" {
		log.Printf("[ERROR] RequestID=%s: %s: %v", requestID, message, err)
	} else {
		log.Printf("[ERROR] %s: %v", message, err)
	}
}

func LogInfo(r *http.Request, message string) {
	requestID := middleware.GetReqID(r.Context())

	if requestID != "" {
		log.Printf("[INFO] RequestID=%s: %s", requestID, message)
	} else {
		log.Printf("[INFO] %s", message)
	}
}
