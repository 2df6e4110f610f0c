package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"net/url"
	"sort"
	"strings"
)

/* Carrier request signing
 * The telephony provider signs every webhook it sends: the full request
 * URL is concatenated with the sorted request parameters and HMAC'd with
 * the account's shared secret. We recompute the signature on our side and
 * compare in constant time.
 */

// Header is the request header carrying the carrier signature
const Header = "X-Carrier-Signature"

// Compute calculates the expected signature for a request.
// The canonical form is: url + key1 + value1 + key2 + value2 ... with
// keys in lexicographic order, HMAC-SHA256'd and base64-encoded.
func Compute(secret, rawURL string, params url.Values) string {
	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteString(rawURL)
	for _, key := range keys {
		for _, value := range params[key] {
			sb.WriteString(key)
			sb.WriteString(value)
		}
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(sb.String()))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// Verify checks a signature using constant-time comparison
func Verify(secret, rawURL string, params url.Values, given string) bool {
	expected := Compute(secret, rawURL, params)
	return subtle.ConstantTimeCompare([]byte(expected), []byte(given)) == 1
}
