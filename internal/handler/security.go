package handler

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"net/http"

	"github.com/tixgate/promo-service/internal/domain/auth"
)

// Security authenticates API requests via HMAC-SHA256 hashed API keys
// carried in the api_key header.
type Security struct {
	apikeys auth.Repository
	pepper  []byte
}

// NewSecurity creates a Security with the given API key repository and HMAC
// pepper.
func NewSecurity(apikeys auth.Repository, pepper []byte) *Security {
	return &Security{
		apikeys: apikeys,
		pepper:  pepper,
	}
}

// Require wraps a handler so it only runs for authenticated requests. The
// incoming key is HMAC-hashed, looked up, and compared in constant time to
// guard against timing side-channels even when the lookup already matched.
func (s *Security) Require(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get("api_key")
		if key == "" {
			writeError(w, http.StatusUnauthorized, "api key required")
			return
		}

		mac := hmac.New(sha256.New, s.pepper)
		mac.Write([]byte(key))
		hash := mac.Sum(nil)

		info, err := s.apikeys.FindByHash(r.Context(), hex.EncodeToString(hash))
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		stored, err := hex.DecodeString(info.KeyHash)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		if subtle.ConstantTimeCompare(hash, stored) != 1 {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		next(w, r)
	}
}
