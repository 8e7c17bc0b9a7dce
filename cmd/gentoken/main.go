// Command gentoken generates the secrets the settings service reads from the
// environment: a bcrypt hash of the admin access token (ADMIN_TOKEN_HASH) and
// a fresh base64 AES-256 key for apiKey-at-rest (SETTINGS_ENCRYPTION_KEY).
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/mandalnilabja/BrowserOS/internal/auth"
	"github.com/mandalnilabja/BrowserOS/internal/crypto"
)

func main() {
	token := flag.String("token", "", "admin access token to hash")
	genKey := flag.Bool("key", false, "also generate an encryption key")
	flag.Parse()

	if *token == "" && !*genKey {
		log.Fatal("nothing to do: pass -token and/or -key")
	}

	if *token != "" {
		hash, err := auth.HashAccessToken(*token)
		if err != nil {
			log.Fatalf("Failed to hash token: %v", err)
		}
		fmt.Printf("ADMIN_TOKEN_HASH=%s\n", hash)
	}

	if *genKey {
		key, err := crypto.GenerateKey(32)
		if err != nil {
			log.Fatalf("Failed to generate key: %v", err)
		}
		fmt.Printf("SETTINGS_ENCRYPTION_KEY=%s\n", key)
	}
}
