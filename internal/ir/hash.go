package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainParams = "masa/params/v1"
	DomainCheck  = "masa/check/v1"
)

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
// The null byte (0x00) separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// ParamsHash computes a content-addressed identity for a parameter
// snapshot of one kind in one precision. Two instances with equal values
// hash identically regardless of the order parameters were set in.
func ParamsHash(precision Precision, kind KindName, params map[string]float64) (string, error) {
	obj := map[string]any{
		"precision": precision,
		"kind":      kind,
		"params":    params,
	}

	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("ParamsHash: failed to marshal: %w", err)
	}

	return hashWithDomain(DomainParams, canonical), nil
}

// CheckID computes the identity of one verification result row.
func CheckID(runID string, user UserName, check string, seq int64) (string, error) {
	obj := map[string]any{
		"run_id": runID,
		"user":   user,
		"check":  check,
		"seq":    seq,
	}

	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("CheckID: failed to marshal: %w", err)
	}

	return hashWithDomain(DomainCheck, canonical), nil
}

// MustParamsHash is like ParamsHash but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustParamsHash(precision Precision, kind KindName, params map[string]float64) string {
	h, err := ParamsHash(precision, kind, params)
	if err != nil {
		panic(err)
	}
	return h
}
