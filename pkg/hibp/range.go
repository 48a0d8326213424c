// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package hibp

import (
	"bufio"
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"strconv"
)

const (
	// First 5 characters, k-anonymity needs the hash like this
	prefixLen = 5
	suffixLen = 2*sha1.Size - prefixLen
)

var errMalformedRange = errors.New("malformed range response")

// hashPassword returns the uppercase hexadecimal SHA-1 of password. The caller owns the
// buffer and must zero it once done.
func hashPassword(password string) []byte {
	raw := []byte(password)
	digest := sha1.Sum(raw)
	zero(raw)

	out := make([]byte, hex.EncodedLen(len(digest)))
	hex.Encode(out, digest[:])
	zero(digest[:])

	for i, b := range out {
		if b >= 'a' && b <= 'f' {
			out[i] = b - ('a' - 'A')
		}
	}
	return out
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// findSuffix scans a range response for suffix. Lines look like
// "0018A45C4D1DEF81644B54AB7F969B88D65:21" and are separated by CRLF. Padding lines have a
// count of 0 and never match.
func findSuffix(body []byte, suffix []byte) (int64, error) {
	scanner := bufio.NewScanner(bytes.NewReader(body))
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		sep := bytes.IndexByte(line, ':')
		if sep < 0 {
			return 0, errMalformedRange
		}

		lineSuffix := line[:sep]
		if len(lineSuffix) != suffixLen || !isHex(lineSuffix) {
			return 0, errMalformedRange
		}

		count, err := strconv.ParseInt(string(bytes.TrimSpace(line[sep+1:])), 10, 64)
		if err != nil || count < 0 {
			return 0, errMalformedRange
		}

		if count > 0 && bytes.EqualFold(lineSuffix, suffix) {
			return count, nil
		}
	}

	if err := scanner.Err(); err != nil {
		return 0, errMalformedRange
	}

	return 0, nil
}

func isHex(b []byte) bool {
	for _, c := range b {
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
