package model

import (
	"encoding/json"
	"testing"
)

func TestSnapshot_EncodeNumeralResponse_JSONShape(t *testing.T) {
	resp := EncodeNumeralResponse{
		Text:       "1234",
		Base:       10,
		DigitCount: 4,
		Original: ContentInfo{
			Hash:      "abc",
			Alg:       "sha256",
			Size:      3,
			Filename:  "a.txt",
			ContentID: "bafk-1",
		},
	}

	b, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		t.Fatalf("MarshalIndent failed: %v", err)
	}

	const want = "{\n" +
		"  \"text\": \"1234\",\n" +
		"  \"base\": 10,\n" +
		"  \"digitCount\": 4,\n" +
		"  \"original\": {\n" +
		"    \"hash\": \"abc\",\n" +
		"    \"alg\": \"sha256\",\n" +
		"    \"size\": 3,\n" +
		"    \"filename\": \"a.txt\",\n" +
		"    \"contentID\": \"bafk-1\"\n" +
		"  }\n" +
		"}"

	if string(b) != want {
		t.Fatalf("snapshot mismatch:\n%s", string(b))
	}
}

func TestSnapshot_DecodeResponse_JSONShape(t *testing.T) {
	resp := DecodeResponse{
		Data:         []byte("hi"),
		Decoded:      ContentInfo{Hash: "h", Alg: "sha256", Size: 2},
		EmbeddedHash: "h",
	}

	b, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	const want = `{"data":"aGk=","decoded":{"hash":"h","alg":"sha256","size":2},"embeddedHash":"h"}`
	if string(b) != want {
		t.Fatalf("snapshot mismatch:\n%s", string(b))
	}
}

func TestSnapshot_VerifyResponse_JSONShape(t *testing.T) {
	b, err := json.Marshal(VerifyResponse{Verified: false, Match: true})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(b) != `{"verified":false,"match":true}` {
		t.Fatalf("snapshot mismatch:\n%s", string(b))
	}
}

func TestSnapshot_CodedError_JSONShape(t *testing.T) {
	b, err := json.Marshal(NewError(ErrEmptyInput, "input is empty"))
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(b) != `{"code":"EMPTY_INPUT","message":"input is empty"}` {
		t.Fatalf("snapshot mismatch:\n%s", string(b))
	}
}
