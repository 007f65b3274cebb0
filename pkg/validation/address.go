package validation

import (
	"encoding/base64"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

const (
	// friendlyAddressLength is the length of a base64 user-friendly TON address
	friendlyAddressLength = 48
	// friendlyAddressBytes is flags(1) + workchain(1) + hash(32) + crc16(2)
	friendlyAddressBytes = 36

	tagBounceable    = 0x11
	tagNonBounceable = 0x51
	tagTestnet       = 0x80

	crc16Poly = 0x1021
)

// ValidateAddress validates a TON address in user-friendly (EQ.../UQ...) or raw (0:<hex>) form
func ValidateAddress(addr string) error {
	if addr == "" {
		return fmt.Errorf("address cannot be empty")
	}

	if strings.Contains(addr, ":") {
		return validateRawAddress(addr)
	}
	return validateFriendlyAddress(addr)
}

func validateFriendlyAddress(addr string) error {
	if len(addr) != friendlyAddressLength {
		return fmt.Errorf("invalid address length: expected %d characters, got %d", friendlyAddressLength, len(addr))
	}

	data, err := base64.RawURLEncoding.DecodeString(toURLAlphabet(addr))
	if err != nil {
		return fmt.Errorf("invalid base64 address: %w", err)
	}
	if len(data) != friendlyAddressBytes {
		return fmt.Errorf("invalid address payload: expected %d bytes, got %d", friendlyAddressBytes, len(data))
	}

	tag := data[0] &^ tagTestnet
	if tag != tagBounceable && tag != tagNonBounceable {
		return fmt.Errorf("invalid address tag: 0x%02x", data[0])
	}
	if data[1] != 0x00 && data[1] != 0xff {
		return fmt.Errorf("invalid workchain: 0x%02x", data[1])
	}

	want := binary.BigEndian.Uint16(data[34:])
	if got := crc16(data[:34]); got != want {
		return fmt.Errorf("invalid address checksum: expected 0x%04x, got 0x%04x", got, want)
	}

	return nil
}

// crc16 is CRC-16/XMODEM (poly 0x1021, init 0).
func crc16(data []byte) uint16 {
	var crc uint16
	for _, b := range data {
		crc ^= uint16(b) << 8
		for i := 0; i < 8; i++ {
			if crc&0x8000 != 0 {
				crc = crc<<1 ^ crc16Poly
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}

func validateRawAddress(addr string) error {
	parts := strings.SplitN(addr, ":", 2)
	workchain, err := strconv.Atoi(parts[0])
	if err != nil || (workchain != 0 && workchain != -1) {
		return fmt.Errorf("invalid workchain: %q", parts[0])
	}
	if len(parts[1]) != 64 {
		return fmt.Errorf("invalid address hash length: expected 64 hex characters, got %d", len(parts[1]))
	}
	if _, err := hex.DecodeString(parts[1]); err != nil {
		return fmt.Errorf("invalid hex address: %w", err)
	}
	return nil
}

// NormalizeAddress converts a user-friendly address to the url-safe alphabet.
// Raw addresses are lowercased.
func NormalizeAddress(addr string) string {
	if strings.Contains(addr, ":") {
		return strings.ToLower(addr)
	}
	return toURLAlphabet(addr)
}

// ValidateAndNormalizeAddress validates an address and returns its normalized form
func ValidateAndNormalizeAddress(addr string) (string, error) {
	if err := ValidateAddress(addr); err != nil {
		return "", err
	}
	return NormalizeAddress(addr), nil
}

func toURLAlphabet(addr string) string {
	return strings.NewReplacer("+", "-", "/", "_").Replace(addr)
}
