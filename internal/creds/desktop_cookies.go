package creds

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha1"
	"database/sql"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"golang.org/x/crypto/pbkdf2"
)

// DesktopSessionCookie extracts a session cookie from a Chromium-based
// desktop app's cookie store. The app encrypts cookie values with a key
// held in the OS keychain; macOS only.
func DesktopSessionCookie(appName, hostSuffix, cookieName string) (string, error) {
	if runtime.GOOS != "darwin" {
		return "", fmt.Errorf("desktop cookie extraction only supported on macOS")
	}

	encKey, err := chromiumEncryptionKey(appName)
	if err != nil {
		return "", fmt.Errorf("getting encryption key: %w", err)
	}

	cookiesPath := filepath.Join(os.Getenv("HOME"), "Library", "Application Support", appName, "Cookies")
	if _, err := os.Stat(cookiesPath); os.IsNotExist(err) {
		return "", fmt.Errorf("%s cookie DB not found: %s", appName, cookiesPath)
	}

	// the app holds a lock on the live DB; query a copy
	tmpFile, err := os.CreateTemp("", "openquota-cookies-*.db")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	tmpFile.Close()
	defer os.Remove(tmpPath)

	srcData, err := os.ReadFile(cookiesPath)
	if err != nil {
		return "", fmt.Errorf("reading cookie DB: %w", err)
	}
	if err := os.WriteFile(tmpPath, srcData, 0600); err != nil {
		return "", fmt.Errorf("writing temp cookie DB: %w", err)
	}

	db, err := sql.Open("sqlite3", tmpPath+"?mode=ro")
	if err != nil {
		return "", fmt.Errorf("opening cookie DB: %w", err)
	}
	defer db.Close()

	rows, err := db.Query(
		`SELECT encrypted_value FROM cookies WHERE host_key LIKE ? AND name = ?`,
		"%"+hostSuffix+"%", cookieName,
	)
	if err != nil {
		return "", fmt.Errorf("querying cookies: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var encValue []byte
		if err := rows.Scan(&encValue); err != nil {
			continue
		}
		decrypted, err := decryptChromiumCookie(encValue, encKey)
		if err != nil {
			continue
		}
		if decrypted != "" {
			return decrypted, nil
		}
	}

	return "", fmt.Errorf("%s cookie not found (app may not be logged in)", cookieName)
}

func chromiumEncryptionKey(appName string) ([]byte, error) {
	cmd := exec.Command("security", "find-generic-password", "-w",
		"-s", appName+" Safe Storage", "-a", appName)
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("keychain lookup failed: %w", err)
	}
	password := strings.TrimSpace(string(out))

	return pbkdf2.Key([]byte(password), []byte("saltysalt"), 1003, 16, sha1.New), nil
}

func decryptChromiumCookie(encrypted []byte, key []byte) (string, error) {
	if len(encrypted) < 3 {
		return "", fmt.Errorf("encrypted value too short")
	}

	prefix := string(encrypted[:3])
	if prefix != "v10" {
		return "", fmt.Errorf("unexpected cookie encryption version: %q", prefix)
	}
	ciphertext := encrypted[3:]
	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return "", fmt.Errorf("ciphertext not aligned to block size")
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", fmt.Errorf("creating AES cipher: %w", err)
	}

	iv := []byte("                ") // 16 spaces
	mode := cipher.NewCBCDecrypter(block, iv)
	plaintext := make([]byte, len(ciphertext))
	mode.CryptBlocks(plaintext, ciphertext)

	if len(plaintext) == 0 {
		return "", fmt.Errorf("empty plaintext")
	}
	padLen := int(plaintext[len(plaintext)-1])
	if padLen == 0 || padLen > aes.BlockSize || padLen > len(plaintext) {
		return "", fmt.Errorf("invalid PKCS7 padding")
	}
	plaintext = plaintext[:len(plaintext)-padLen]

	// Chromium prepends a 32-byte SHA256 of the host key
	const chromiumPrefixLen = 32
	if len(plaintext) <= chromiumPrefixLen {
		return "", fmt.Errorf("decrypted value too short (len=%d)", len(plaintext))
	}
	return string(plaintext[chromiumPrefixLen:]), nil
}
