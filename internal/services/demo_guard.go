package services

import (
	"errors"

	"github.com/yukikurage/meal-attendance-api/internal/constants"
)

// ErrDemoWriteBlocked is returned when the read-only demo account attempts
// any mutation.
var ErrDemoWriteBlocked = errors.New("the demo account is read-only; log in with a real administrator account to make changes")

// CheckNotDemoUser rejects mutations attempted under the demo identity.
// Every service calls this before any write.
func CheckNotDemoUser(username string) error {
	if username == constants.DemoUsername {
		return ErrDemoWriteBlocked
	}
	return nil
}
