// Package auth verifies Telegram Mini App identities and issues session
// tokens for the HTTP API.
package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"cinegram/internal/timeutil"
)

var (
	ErrInitDataMalformed = errors.New("init data is malformed")
	ErrInitDataBadHash   = errors.New("init data hash mismatch")
	ErrInitDataExpired   = errors.New("init data is too old")
)

// maxInitDataAge rejects handshakes replayed long after Telegram signed
// them.
const maxInitDataAge = 24 * time.Hour

// TelegramUser is the profile payload Telegram embeds in initData.
type TelegramUser struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username"`
	PhotoURL  string `json:"photo_url"`
}

// InitDataVerifier checks the HMAC signature Telegram attaches to Mini App
// launch parameters, per the Web App auth scheme: the secret key is
// HMAC-SHA256("WebAppData", botToken) and the hash covers every field
// except "hash" itself, sorted and newline-joined.
type InitDataVerifier struct {
	secretKey []byte
}

// NewInitDataVerifier derives the verification key from the bot token.
func NewInitDataVerifier(botToken string) *InitDataVerifier {
	mac := hmac.New(sha256.New, []byte("WebAppData"))
	mac.Write([]byte(botToken))
	return &InitDataVerifier{secretKey: mac.Sum(nil)}
}

// Verify validates the raw initData query string and returns the embedded
// Telegram user on success.
func (v *InitDataVerifier) Verify(initData string) (*TelegramUser, error) {
	values, err := url.ParseQuery(initData)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInitDataMalformed, err)
	}

	gotHash := values.Get("hash")
	if gotHash == "" {
		return nil, fmt.Errorf("%w: missing hash", ErrInitDataMalformed)
	}
	values.Del("hash")

	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, key := range keys {
		pairs = append(pairs, key+"="+values.Get(key))
	}
	checkString := strings.Join(pairs, "\n")

	mac := hmac.New(sha256.New, v.secretKey)
	mac.Write([]byte(checkString))
	wantHash := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(gotHash), []byte(wantHash)) {
		return nil, ErrInitDataBadHash
	}

	if authDate := values.Get("auth_date"); authDate != "" {
		unix, err := strconv.ParseInt(authDate, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: bad auth_date", ErrInitDataMalformed)
		}
		if timeutil.Now().Sub(time.Unix(unix, 0)) > maxInitDataAge {
			return nil, ErrInitDataExpired
		}
	}

	userJSON := values.Get("user")
	if userJSON == "" {
		return nil, fmt.Errorf("%w: missing user", ErrInitDataMalformed)
	}

	var user TelegramUser
	if err := json.Unmarshal([]byte(userJSON), &user); err != nil {
		return nil, fmt.Errorf("%w: bad user payload", ErrInitDataMalformed)
	}
	if user.ID <= 0 {
		return nil, fmt.Errorf("%w: missing user id", ErrInitDataMalformed)
	}

	return &user, nil
}

// SignInitData computes the hash for a set of initData fields. Exported
// for tests that need to fabricate valid launch parameters.
func SignInitData(botToken string, values url.Values) string {
	verifier := NewInitDataVerifier(botToken)

	keys := make([]string, 0, len(values))
	for key := range values {
		if key == "hash" {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, key := range keys {
		pairs = append(pairs, key+"="+values.Get(key))
	}

	mac := hmac.New(sha256.New, verifier.secretKey)
	mac.Write([]byte(strings.Join(pairs, "\n")))
	return hex.EncodeToString(mac.Sum(nil))
}
