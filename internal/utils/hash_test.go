// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"
)

func TestHashString_MatchesHMAC(t *testing.T) {
	data := "1700000000.{\"id\":\"evt_1\"}"
	key := "whsec_test"

	h := hmac.New(sha256.New, []byte(key))
	h.Write([]byte(data))
	expected := hex.EncodeToString(h.Sum(nil))

	if got := HashString(data, key); got != expected {
		t.Fatalf("unexpected hash value\nwant: %s\ngot:  %s", expected, got)
	}
}

func TestHashString_DifferentKeys(t *testing.T) {
	if HashString("payload", "k1") == HashString("payload", "k2") {
		t.Fatal("different keys must produce different signatures")
	}
}

func TestEqualHex(t *testing.T) {
	sig := HashString("payload", "key")

	if !EqualHex(sig, sig) {
		t.Error("expected equal signatures to match")
	}
	if EqualHex(sig, HashString("payload2", "key")) {
		t.Error("expected different signatures not to match")
	}
	if EqualHex(sig, "zz-not-hex") {
		t.Error("expected invalid hex not to match")
	}
}
