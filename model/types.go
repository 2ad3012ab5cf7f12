package model

// ContentInfo describes a byte payload on either side of a codec.
//
// JSON note: []byte fields elsewhere in this package encode as base64.
type ContentInfo struct {
	Hash      string `json:"hash"`
	Alg       string `json:"alg"`
	Size      int    `json:"size"`
	Filename  string `json:"filename,omitempty"`
	ContentID string `json:"contentID,omitempty"`
}

type EncodeNotesRequest struct {
	Data     []byte `json:"data"`
	Filename string `json:"filename,omitempty"`
	// Mode is "raw" (default) or "musical".
	Mode string `json:"mode,omitempty"`
}

type EncodeNotesResponse struct {
	Carrier        []byte      `json:"carrier"`
	OutputFilename string      `json:"outputFilename"`
	Mode           string      `json:"mode"`
	Tracks         int         `json:"tracks"`
	Original       ContentInfo `json:"original"`
}

type DecodeNotesRequest struct {
	Carrier []byte `json:"carrier"`
}

type EncodeNumeralRequest struct {
	Data     []byte `json:"data"`
	Filename string `json:"filename,omitempty"`
}

type EncodeNumeralResponse struct {
	Text       string      `json:"text"`
	Base       int         `json:"base"`
	DigitCount int         `json:"digitCount"`
	Original   ContentInfo `json:"original"`
}

type DecodeNumeralRequest struct {
	Text string `json:"text"`
}

type EncodeQRRequest struct {
	Data     []byte `json:"data"`
	Filename string `json:"filename,omitempty"`
}

type EncodeQRResponse struct {
	Image          []byte      `json:"image"`
	OutputFilename string      `json:"outputFilename"`
	Version        int         `json:"version"`
	Original       ContentInfo `json:"original"`
}

// DecodeQRRequest carries the image either as bytes or as base64 text with
// an optional data URL prefix. Image wins when both are set.
type DecodeQRRequest struct {
	Image     []byte `json:"image,omitempty"`
	ImageData string `json:"imageData,omitempty"`
}

// DecodeResponse is shared by every decode operation.
type DecodeResponse struct {
	Data    []byte      `json:"data"`
	Decoded ContentInfo `json:"decoded"`
	// Layout is "framed" or "legacy" for numeral carriers.
	Layout string `json:"layout,omitempty"`
	// EmbeddedHash is the digest a QR record carried.
	EmbeddedHash string `json:"embeddedHash,omitempty"`
}

type VerifyRequest struct {
	OriginalHash string `json:"originalHash"`
	DecodedHash  string `json:"decodedHash"`
}

type VerifyResponse struct {
	Verified bool `json:"verified"`
	Match    bool `json:"match"`
}

type PipelineStep struct {
	Operation  string         `json:"operation"`
	Parameters map[string]any `json:"parameters,omitempty"`
}

type PipelineRequest struct {
	Data     []byte         `json:"data"`
	Filename string         `json:"filename,omitempty"`
	Steps    []PipelineStep `json:"steps"`
}

type PipelineStepResult struct {
	Operation  string         `json:"operation"`
	Status     string         `json:"status"`
	Parameters map[string]any `json:"parameters"`
}

type PipelineResponse struct {
	Steps  []PipelineStepResult `json:"steps"`
	Status string               `json:"status"`
	Stub   bool                 `json:"stub"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}
