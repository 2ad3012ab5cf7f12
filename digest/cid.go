package digest

import (
	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
)

var multihashCodes = map[string]uint64{
	"":      multihash.SHA2_256,
	SHA256:  multihash.SHA2_256,
	SHA3256: multihash.SHA3_256,
	BLAKE3:  multihash.BLAKE3,
}

// ContentID returns a CIDv1 string using the "raw" multicodec over the alg
// digest of data. Two blobs share a ContentID iff they share a digest.
func ContentID(alg string, data []byte) (string, error) {
	id, err := ContentCID(alg, data)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// ContentCID is ContentID returning the parsed CID.
func ContentCID(alg string, data []byte) (cid.Cid, error) {
	raw, err := digestFor(alg, data)
	if err != nil {
		return cid.Undef, err
	}
	mh, err := multihash.Encode(raw, multihashCodes[alg])
	if err != nil {
		return cid.Undef, err
	}
	return cid.NewCidV1(cid.Raw, mh), nil
}

// DigestFromContentID extracts the hex digest embedded in a raw CIDv1.
func DigestFromContentID(s string) (string, error) {
	id, err := cid.Decode(s)
	if err != nil {
		return "", err
	}
	dec, err := multihash.Decode(id.Hash())
	if err != nil {
		return "", err
	}
	return hexString(dec.Digest), nil
}
