// Package sign builds the canonical query strings the exchange signs over and
// computes the HMAC-SHA256 request signature.
package sign

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"nakula/pkg/core"
)

// Params is an unordered parameter set. Serialization always sorts keys
// lexicographically, which is the canonical order the exchange expects; the
// signature is computed over exactly the serialized string that is sent, so
// any reordering after signing invalidates the request.
type Params map[string]string

// Clock supplies the current time. Injectable so signed-request construction
// is testable against a fixed instant.
type Clock func() time.Time

// BuildQuery serializes params as k1=v1&k2=v2 in lexicographic key order,
// with no trailing separator.
func BuildQuery(params Params) string {
	if len(params) == 0 {
		return ""
	}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(params[k])
	}
	return b.String()
}

// Sign computes the hex-encoded HMAC-SHA256 of query using secret as key.
// Deterministic and infallible: hmac accepts keys of any length.
func Sign(query, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(query))
	return hex.EncodeToString(mac.Sum(nil))
}

// SignedQuery appends the signature parameter to an already-canonical query
// string. The signature must stay last and the query must not be reordered
// afterwards.
func SignedQuery(query, secret string) string {
	return query + "&signature=" + Sign(query, secret)
}

// BuildSignedQuery injects recvWindow (only when positive) and the current
// timestamp in milliseconds, then serializes canonically. The result is ready
// for SignedQuery. Fails with core.ErrClock only if now yields a pre-epoch
// instant, which conformant clocks never do.
func BuildSignedQuery(params Params, recvWindow int64, now Clock) (string, error) {
	merged := make(Params, len(params)+2)
	for k, v := range params {
		merged[k] = v
	}
	if recvWindow > 0 {
		merged["recvWindow"] = strconv.FormatInt(recvWindow, 10)
	}
	ts, err := timestamp(now)
	if err != nil {
		return "", err
	}
	merged["timestamp"] = strconv.FormatInt(ts, 10)
	return BuildQuery(merged), nil
}

func timestamp(now Clock) (int64, error) {
	t := now()
	ms := t.UnixMilli()
	if ms < 0 {
		return 0, fmt.Errorf("%w: %s is before the unix epoch", core.ErrClock, t)
	}
	return ms, nil
}
