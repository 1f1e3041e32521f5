// Command generate_api_key creates a random API key and its bcrypt hash.
// The plain key goes to the client; the hash goes into API_KEY_HASHES.
package main

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		fmt.Fprintln(os.Stderr, "generating key:", err)
		os.Exit(1)
	}
	key := base64.RawURLEncoding.EncodeToString(raw)

	hash, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	if err != nil {
		fmt.Fprintln(os.Stderr, "hashing key:", err)
		os.Exit(1)
	}

	fmt.Println("API key (give to client):", key)
	fmt.Println("bcrypt hash (API_KEY_HASHES):", string(hash))
}
