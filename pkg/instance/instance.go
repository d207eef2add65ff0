package instance

import "os"

// GetID identifies this process in logs: DYNO on Heroku, then INSTANCE_ID,
// then the hostname.
func GetID() string {
	for _, key := range []string{"DYNO", "INSTANCE_ID"} {
		if id := os.Getenv(key); id != "" {
			return id
		}
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return "local"
}
