package models

// CipherField is the single body field the vendor exchanges in both
// directions: every request and every response is `{"sdData": <ciphertext>}`.
const CipherField = "sdData"

// Envelope is the outer wire object carrying an SM2 ciphertext.
type Envelope struct {
	SDData string `json:"sdData"`
}
