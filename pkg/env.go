package pkg

import "os"

// Getenv returns value of the environment variable or defaultValue if the key is not present.
// Note that an empty but present variable is returned as is.
func Getenv(key, defaultValue string) string {
	value, ok := os.LookupEnv(key)
	if !ok {
		return defaultValue
	}

	return value
}
