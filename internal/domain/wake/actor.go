package wake

import (
	"fmt"
	"os"
	"os/user"
)

// Actor identifies who dismissed an alarm on which machine. History rows
// from several synced machines stay attributable.
type Actor struct {
	Hostname string `json:"hostname"`
	Username string `json:"username"`
}

// DetectActor gathers host and user information for the history trail.
func DetectActor() (Actor, error) {
	hostname, err := os.Hostname()
	if err != nil {
		return Actor{}, fmt.Errorf("hostname: %w", err)
	}

	currentUser, err := user.Current()
	if err != nil {
		return Actor{}, fmt.Errorf("current user: %w", err)
	}

	return Actor{
		Hostname: hostname,
		Username: currentUser.Username,
	}, nil
}
