// SPDX-License-Identifier: Apache-2.0

// Package crypto implements the vendor's signed envelope codec: a canonical
// MD5 signature over payload fields plus SM2 (C1C3C2) asymmetric encryption
// of the JSON envelope.
//
// The codec is deterministic and side-effect-free apart from the randomness
// SM2 encryption itself requires. Decryption fails closed: a payload whose
// embedded signature does not reproduce under the response salt is never
// returned to the caller.
package crypto

import (
	"crypto/md5"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/tjfoc/gmsm/sm2"
	"github.com/tjfoc/gmsm/x509"

	"github.com/Moyanplus/HuaMeiJiChangJieXi/internal/config"
	"github.com/Moyanplus/HuaMeiJiChangJieXi/models"
)

// pointMarker is the fixed two-character uncompressed-curve-point marker the
// vendor's wire format requires in front of every hex ciphertext.
const pointMarker = "04"

// signField is the payload field carrying the canonical signature.
const signField = "sign"

// Codec signs, encrypts, decrypts, and verifies vendor envelopes. All state
// is read-only after construction; a Codec is safe for concurrent use.
type Codec struct {
	requestSalt  string
	responseSalt string

	publicKey  *sm2.PublicKey
	privateKey *sm2.PrivateKey
}

// NewCodec parses the hex-encoded SM2 key pair from cfg and returns a ready
// codec. Key parsing happens once here so malformed key material fails the
// process at startup instead of on the first vendor call.
func NewCodec(cfg config.Crypto) (*Codec, error) {
	publicKey, err := x509.ReadPublicKeyFromHex(strings.TrimSpace(cfg.SM2PublicKey))
	if err != nil {
		return nil, fmt.Errorf("parse SM2 public key: %w", err)
	}

	privateKey, err := x509.ReadPrivateKeyFromHex(strings.TrimSpace(cfg.SM2PrivateKey))
	if err != nil {
		return nil, fmt.Errorf("parse SM2 private key: %w", err)
	}

	return &Codec{
		requestSalt:  cfg.RequestSalt,
		responseSalt: cfg.ResponseSalt,
		publicKey:    publicKey,
		privateKey:   privateKey,
	}, nil
}

// ComputeSign builds the canonical sign input over payload and hashes it.
//
// Canonical form: non-empty fields only, keys lower-cased and sorted
// lexicographically, object- and list-valued fields JSON-serialized, values
// trimmed, joined as `key=value` pairs with `&`, salted with the
// direction-specific salt, MD5-hashed, uppercased. Field order of the source
// map never affects the result.
func (c *Codec) ComputeSign(payload map[string]any, salt string) string {
	keys := make([]string, 0, len(payload))
	for key := range payload {
		if key == signField {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys)+1)
	for _, key := range keys {
		value, ok := formatSignValue(payload[key])
		if !ok {
			continue
		}
		parts = append(parts, strings.ToLower(key)+"="+value)
	}
	parts = append(parts, salt)

	sum := md5.Sum([]byte(strings.Join(parts, "&")))
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}

// ComputeStringSign hashes a raw string payload directly, without the
// canonical-form or salting logic. The vendor expects this digest lowercased.
// It is the string branch of [Codec.SignFor], which every envelope seal and
// verification goes through.
func (c *Codec) ComputeStringSign(payload string) string {
	sum := md5.Sum([]byte(payload))
	return hex.EncodeToString(sum[:])
}

// SignFor applies the protocol's sign rule to either payload shape an
// envelope can carry: objects go through the canonical salted form, raw
// strings hash directly. Anything else signs to an empty string.
func (c *Codec) SignFor(payload any, salt string) string {
	switch v := payload.(type) {
	case string:
		return c.ComputeStringSign(v)
	case map[string]any:
		return c.ComputeSign(v, salt)
	default:
		return ""
	}
}

// formatSignValue renders a payload value for the canonical sign input.
// Empty strings, nils, and whitespace-only values are skipped entirely.
func formatSignValue(v any) (string, bool) {
	if v == nil {
		return "", false
	}

	var s string
	switch value := v.(type) {
	case string:
		s = value
	case bool:
		s = strconv.FormatBool(value)
	case int:
		s = strconv.Itoa(value)
	case int64:
		s = strconv.FormatInt(value, 10)
	case float64:
		s = strconv.FormatFloat(value, 'f', -1, 64)
	case json.Number:
		s = value.String()
	default:
		// Objects and lists are serialized before concatenation.
		raw, err := json.Marshal(value)
		if err != nil {
			return "", false
		}
		s = string(raw)
	}

	s = strings.TrimSpace(s)
	return s, s != ""
}

// EncryptEnvelope signs payload with the request salt, serializes it, and
// SM2-encrypts the JSON into the vendor's hex wire format. A payload that
// already carries a pre-built ciphertext in its sdData field is passed
// through unchanged.
func (c *Codec) EncryptEnvelope(payload map[string]any) (string, error) {
	if prebuilt, ok := payload[models.CipherField].(string); ok && prebuilt != "" {
		return prebuilt, nil
	}

	signed := make(map[string]any, len(payload)+1)
	for key, value := range payload {
		signed[key] = value
	}
	signed[signField] = c.SignFor(payload, c.requestSalt)

	plain, err := json.Marshal(signed)
	if err != nil {
		return "", fmt.Errorf("marshal envelope payload: %w", err)
	}

	ciphertext, err := sm2.Encrypt(c.publicKey, plain, rand.Reader, sm2.C1C3C2)
	if err != nil {
		return "", fmt.Errorf("sm2 encrypt: %w", err)
	}

	cipherHex := hex.EncodeToString(ciphertext)
	if !strings.HasPrefix(cipherHex, pointMarker) {
		cipherHex = pointMarker + cipherHex
	}

	return cipherHex, nil
}

// DecryptEnvelope decrypts a vendor ciphertext and verifies its embedded
// signature against the response salt. On signature mismatch it returns
// [ErrSignatureMismatch] and no payload; unverified data is never exposed.
// After verification a string-valued data field is parsed one level deep; a
// data string that is not valid JSON is kept as-is.
func (c *Codec) DecryptEnvelope(cipherHex string) (models.VendorResult, error) {
	cipherHex = strings.TrimSpace(cipherHex)
	if cipherHex == "" {
		return nil, ErrEmptyCiphertext
	}
	if !strings.HasPrefix(cipherHex, pointMarker) {
		cipherHex = pointMarker + cipherHex
	}

	ciphertext, err := hex.DecodeString(cipherHex)
	if err != nil {
		return nil, fmt.Errorf("decode ciphertext hex: %w", err)
	}

	plain, err := sm2.Decrypt(c.privateKey, ciphertext, sm2.C1C3C2)
	if err != nil {
		return nil, fmt.Errorf("sm2 decrypt: %w", err)
	}

	var payload map[string]any
	if err := json.Unmarshal(plain, &payload); err != nil {
		return nil, fmt.Errorf("parse decrypted payload: %w", err)
	}

	sign, _ := payload[signField].(string)
	delete(payload, signField)

	if !c.VerifyResponseSign(payload, sign) {
		return nil, ErrSignatureMismatch
	}

	if data, ok := payload["data"].(string); ok {
		payload["data"] = models.Normalize(data)
	}

	return models.VendorResult(payload), nil
}

// VerifyResponseSign reports whether sign reproduces under the response salt
// for the given payload (sign field excluded).
func (c *Codec) VerifyResponseSign(payload map[string]any, sign string) bool {
	return sign != "" && c.SignFor(payload, c.responseSalt) == sign
}
