package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// The version suffix leaves room for algorithm migration.
const (
	DomainSet  = "paramset/set/v1"
	DomainSpec = "paramset/spec/v1"
)

// hashWithDomain computes SHA256(domain + 0x00 + data).
// The null separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// SetID computes the content-addressed ID of a set. Equal sets share an ID
// regardless of which parameter or run produced them.
func SetID(rec SetRecord) (string, error) {
	canonical, err := MarshalCanonical(rec.IRValue())
	if err != nil {
		return "", fmt.Errorf("SetID: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainSet, canonical), nil
}

// SpecHash identifies a list of parameter declarations. Order matters:
// declaration order decides evaluation order among independent parameters.
func SpecHash(specs []ParamSpec) (string, error) {
	arr := make(IRArray, len(specs))
	for i, s := range specs {
		arr[i] = s.IRValue()
	}
	canonical, err := MarshalCanonical(arr)
	if err != nil {
		return "", fmt.Errorf("SpecHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainSpec, canonical), nil
}

// MustSetID is like SetID but panics on error.
// Use only in tests or when the record is known to be valid.
func MustSetID(rec SetRecord) string {
	id, err := SetID(rec)
	if err != nil {
		panic(err)
	}
	return id
}

// MustSpecHash is like SpecHash but panics on error.
func MustSpecHash(specs []ParamSpec) string {
	h, err := SpecHash(specs)
	if err != nil {
		panic(err)
	}
	return h
}
