package utils

import (
	"strconv"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// ParseInt converts string to int with default value
func ParseInt(value string, defaultValue int) int {
	if value == "" {
		return defaultValue
	}

	result, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	if result < 1 {
		return defaultValue
	}

	return result
}

// ParseOptional returns nil for an empty query value
func ParseOptional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

// ==================== TOKEN ====================

func GenerateSessionToken() uuid.UUID {
	return uuid.New()
}

// ==================== SEQUENCE ====================

// NextSequence returns the number following the current stored maximum.
// An empty table starts at seed.
func NextSequence(currentMax *int64, seed int64) int64 {
	if currentMax == nil || *currentMax < seed {
		return seed
	}
	return *currentMax + 1
}

// ==================== PASSWORD ====================

func HashPassword(plain string, cost int) (string, error) {
	if cost < bcrypt.MinCost {
		cost = bcrypt.DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func CheckPasswordHash(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
