package redisstore

import "math/rand"

const idChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// newID draws n alphanumeric characters from the package-level rand
// source, which is seeded at startup and safe for concurrent use.
func newID(n int) string {
	id := make([]byte, n)
	for i := range id {
		id[i] = idChars[rand.Intn(len(idChars))]
	}
	return string(id)
}
