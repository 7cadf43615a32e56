package redis

import "fmt"

// Key prefix for all rcon data
const keyPrefix = "rcon"

// lockKey returns the Redis key for a named lock
func lockKey(name string) string {
	return fmt.Sprintf("%s:lock:%s", keyPrefix, name)
}
