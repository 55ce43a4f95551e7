package identity

import (
	"fmt"

	"github.com/google/uuid"
)

// Identity is the authenticated principal.
//
// CredentialSecret is the one-way hash of the user's password. It is used to
// verify login attempts and, snapshotted at session creation, to detect that
// the password changed underneath an existing session. It must never reach
// logs or a client.
type Identity struct {
	ID               uuid.UUID
	Username         string
	DisplayName      string
	CredentialSecret string
	HashVersion      string
}

// String redacts the credential secret so accidental logging is harmless.
func (i Identity) String() string {
	return fmt.Sprintf(
		"Identity{id=%s username=%s secret=[redacted]}",
		i.ID, i.Username,
	)
}
