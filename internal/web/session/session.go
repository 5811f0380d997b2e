// Package session implements the server side session store.
package session

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"

	"github.com/Kinetic639/coreframe-boilerplate-sub007/internal/db/models"
)

// Store is the global session store instance.
var Store *session.Store

// LocalsKey is the fiber locals key under which the auth middleware
// stores the session data of the current request.
const LocalsKey = "SessionData"

// Data represents the session data structure.
// ActiveOrgID and ActiveBranchID carry the organization context the user
// is currently working in. All permission lookups are scoped to them.
type Data struct {
	User           models.User
	ActiveOrgID    uint
	ActiveBranchID uint
}

// Write writes the session data for the given session ID with an expiration duration.
func (s *Data) Write(sessionID string, exp time.Duration) error {
	out, err := json.Marshal(s)
	if err != nil {
		return err
	}

	return Store.Storage.Set(sessionID, out, exp)
}

// Read reads the session data for the given session ID.
func (s *Data) Read(sessionID string) error {
	byteData, err := Store.Storage.Get(sessionID)
	if err != nil {
		return err
	}

	return json.Unmarshal(byteData, s)
}

// FromCtx returns the session data placed into locals by the auth middleware.
func FromCtx(c *fiber.Ctx) (*Data, bool) {
	sessData, ok := c.Locals(LocalsKey).(*Data)
	if !ok || sessData == nil || sessData.User.ID == 0 {
		return nil, false
	}

	return sessData, true
}

// Destroy removes the session data for the given session ID.
func Destroy(sessionID string) error {
	return Store.Storage.Delete(sessionID)
}

// Init initializes the session store with the provided storage backend.
func Init(storage fiber.Storage) {
	if storage == nil {
		panic("storage is nil")
	}

	Store = session.New(session.Config{
		Storage: storage,
	})
}

// GenerateSessionID generates a new secure random session ID.
func GenerateSessionID() (string, error) {
	// 32 bytes = 256 bits
	b := make([]byte, 32) //nolint:mnd
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
