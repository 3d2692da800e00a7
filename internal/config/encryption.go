package config

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"strings"

	"martforge/pkg/models"
)

const (
	encryptedPrefix = "ENC["
	encryptedSuffix = "]"
)

// getEncryptionKey derives an encryption key from environment or machine ID
func getEncryptionKey() []byte {
	// First check for explicit encryption key
	if key := os.Getenv("MARTFORGE_ENCRYPTION_KEY"); key != "" {
		hash := sha256.Sum256([]byte(key))
		return hash[:]
	}

	// Fall back to machine-specific key
	// In production, this should use a proper key management service
	hostname, _ := os.Hostname()
	homeDir, _ := os.UserHomeDir()
	machineID := fmt.Sprintf("%s-%s-martforge", hostname, homeDir)
	hash := sha256.Sum256([]byte(machineID))
	return hash[:]
}

// EncryptPassword encrypts a password using AES-256-GCM
func EncryptPassword(password string) (string, error) {
	if password == "" {
		return "", nil
	}

	// Check if already encrypted
	if IsEncrypted(password) {
		return password, nil
	}

	key := getEncryptionKey()

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", fmt.Errorf("failed to create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("failed to create GCM: %w", err)
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	ciphertext := gcm.Seal(nonce, nonce, []byte(password), nil)
	encoded := base64.StdEncoding.EncodeToString(ciphertext)

	return fmt.Sprintf("%s%s%s", encryptedPrefix, encoded, encryptedSuffix), nil
}

// DecryptPassword decrypts a password encrypted with EncryptPassword
func DecryptPassword(encrypted string) (string, error) {
	if encrypted == "" {
		return "", nil
	}

	// Check if not encrypted
	if !IsEncrypted(encrypted) {
		return encrypted, nil
	}

	encoded := strings.TrimPrefix(encrypted, encryptedPrefix)
	encoded = strings.TrimSuffix(encoded, encryptedSuffix)

	ciphertext, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("failed to decode encrypted password: %w", err)
	}

	key := getEncryptionKey()

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", fmt.Errorf("failed to create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("failed to create GCM: %w", err)
	}

	nonceSize := gcm.NonceSize()
	if len(ciphertext) < nonceSize {
		return "", fmt.Errorf("ciphertext too short")
	}

	nonce, ciphertext := ciphertext[:nonceSize], ciphertext[nonceSize:]
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt password: %w", err)
	}

	return string(plaintext), nil
}

// IsEncrypted checks if a string is encrypted
func IsEncrypted(value string) bool {
	return strings.HasPrefix(value, encryptedPrefix) && strings.HasSuffix(value, encryptedSuffix)
}

// EncryptConfigPasswords encrypts all passwords in a config
func EncryptConfigPasswords(config *models.Config) error {
	if config.Warehouse.Password != "" && !IsEncrypted(config.Warehouse.Password) {
		encrypted, err := EncryptPassword(config.Warehouse.Password)
		if err != nil {
			return fmt.Errorf("failed to encrypt warehouse password: %w", err)
		}
		config.Warehouse.Password = encrypted
	}

	for i := range config.Environments {
		env := &config.Environments[i]
		if env.Password == "" || IsEncrypted(env.Password) {
			continue
		}
		encrypted, err := EncryptPassword(env.Password)
		if err != nil {
			return fmt.Errorf("failed to encrypt password for environment %s: %w", env.Name, err)
		}
		env.Password = encrypted
	}

	return nil
}

// DecryptConfigPasswords decrypts all passwords in a config for use
func DecryptConfigPasswords(config *models.Config) error {
	if IsEncrypted(config.Warehouse.Password) {
		decrypted, err := DecryptPassword(config.Warehouse.Password)
		if err != nil {
			return fmt.Errorf("failed to decrypt warehouse password: %w", err)
		}
		config.Warehouse.Password = decrypted
	}

	for i := range config.Environments {
		env := &config.Environments[i]
		if !IsEncrypted(env.Password) {
			continue
		}
		decrypted, err := DecryptPassword(env.Password)
		if err != nil {
			return fmt.Errorf("failed to decrypt password for environment %s: %w", env.Name, err)
		}
		env.Password = decrypted
	}

	return nil
}
