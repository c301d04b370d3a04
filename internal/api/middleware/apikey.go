package middleware

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jinyang756/jijinjiaoyizhongduan/internal/api/response"
)

// timeTokenWindow bounds how old a time token may be before it is
// rejected as replayed.
const timeTokenWindow = 5 * time.Minute

// APIKeyMiddleware guards administrative endpoints. Requests must carry a
// valid X-API-Key matching INTERNAL_API_KEY and a fresh X-Time-Token
// derived from it.
func APIKeyMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		expectedKey := os.Getenv("INTERNAL_API_KEY")
		if expectedKey == "" {
			response.RespondError(w, http.StatusInternalServerError, "authentication failed", "Authentication not loaded")
			return
		}

		apiKey := r.Header.Get("X-API-Key")
		if apiKey == "" {
			response.RespondError(w, http.StatusUnauthorized, "authentication failed", "Missing API key")
			return
		}
		if subtle.ConstantTimeCompare([]byte(apiKey), []byte(expectedKey)) != 1 {
			response.RespondError(w, http.StatusUnauthorized, "authentication failed", "Invalid API key")
			return
		}

		timeToken := r.Header.Get("X-Time-Token")
		if timeToken == "" {
			response.RespondError(w, http.StatusUnauthorized, "authentication failed", "Missing Time token")
			return
		}
		if !validateTimeToken(expectedKey, timeToken) {
			response.RespondError(w, http.StatusUnauthorized, "authentication failed", "Time token is invalid or expired")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// GenerateTimeToken builds a time token for the given API key. The token
// is the current unix timestamp plus an HMAC-SHA256 over it keyed with
// the API key.
func GenerateTimeToken(apiKey string) string {
	timestamp := strconv.FormatInt(time.Now().Unix(), 10)
	return fmt.Sprintf("%s.%s", timestamp, signTimestamp(apiKey, timestamp))
}

func validateTimeToken(apiKey, token string) bool {
	parts := strings.SplitN(token, ".", 2)
	if len(parts) != 2 {
		return false
	}

	unix, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return false
	}

	age := time.Since(time.Unix(unix, 0))
	if age > timeTokenWindow || age < -timeTokenWindow {
		return false
	}

	expected := signTimestamp(apiKey, parts[0])
	return hmac.Equal([]byte(expected), []byte(parts[1]))
}

func signTimestamp(apiKey, timestamp string) string {
	mac := hmac.New(sha256.New, []byte(apiKey))
	mac.Write([]byte(timestamp))
	return hex.EncodeToString(mac.Sum(nil))
}
