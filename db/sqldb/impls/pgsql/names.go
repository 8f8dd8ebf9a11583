package pgsql

import "math/rand/v2"

const (
	stmtNameLen     = 6
	stmtNameCharset = "0123456789" +
		"ABCDEFGHIJKLMNOPQRSTUVWXYZ" +
		"abcdefghijklmnopqrstuvwxyz"
)

// randomStmtName draws from the runtime-seeded global generator, so every call
// sees fresh randomness.
func randomStmtName() string {
	b := make([]byte, stmtNameLen)
	for i := range b {
		b[i] = stmtNameCharset[rand.IntN(len(stmtNameCharset))]
	}
	return string(b)
}
