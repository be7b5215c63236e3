// Copyright 2026 The Asset Hatch Authors
// SPDX-License-Identifier: Apache-2.0

package journal

import (
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// Digest is a 32-byte BLAKE3 digest of an encoded roster document.
type Digest [32]byte

// domainKey is a 32-byte key for BLAKE3 keyed hashing. Domain
// separation ensures the same bytes hash differently in different
// contexts.
type domainKey [32]byte

// documentDomainKey is the fixed key for roster document digests.
// Changing it invalidates every digest already recorded in journals.
// The byte values are the ASCII encoding of the domain name,
// zero-padded to 32 bytes, so the key is readable in hex dumps.
var documentDomainKey = domainKey{
	'h', 'a', 't', 'c', 'h', '.', 'r', 'o', 's', 't', 'e', 'r', '.',
	'd', 'o', 'c', 'u', 'm', 'e', 'n', 't', 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
}

// DocumentDigest computes the document-domain BLAKE3 keyed hash of an
// encoded roster document. Journal entries store this digest so that
// any entry can be checked against the document bytes it recorded.
func DocumentDigest(data []byte) Digest {
	// NewKeyed requires exactly 32 bytes, which domainKey guarantees.
	hasher, err := blake3.NewKeyed(documentDomainKey[:])
	if err != nil {
		panic("journal: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	hasher.Write(data)
	var digest Digest
	copy(digest[:], hasher.Sum(nil))
	return digest
}

// String returns the hex encoding of the digest. This is the form
// stored in journal entries and shown in log output.
func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// Short returns the first 8 hex characters of the digest, used in
// snapshot identifiers and terse listings.
func (d Digest) Short() string {
	return hex.EncodeToString(d[:4])
}
