package helpers

import (
	"crypto/rand"
	"encoding/hex"
	"strconv"
	"strings"
	"time"
)

// PhotoExt is the extension every stored photo carries
const PhotoExt = ".jpg"

// RandomToken returns n random bytes, hex encoded
func RandomToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// PhotoID names a photo after its capture time in milliseconds
func PhotoID(captured time.Time) string {
	return strconv.FormatInt(captured.UnixMilli(), 10) + PhotoExt
}

// PhotoTime reads the capture time back out of a photo id. Ids that do not parse
// read as zero and sort first.
func PhotoTime(id string) int64 {
	ms, err := strconv.ParseInt(strings.TrimSuffix(id, PhotoExt), 10, 64)
	if err != nil {
		return 0
	}
	return ms
}
