package model

import (
	"context"
	"encoding/base64"
	"strings"

	"xdao.co/transcode/codec"
	"xdao.co/transcode/digest"
	"xdao.co/transcode/notes"
	"xdao.co/transcode/numeral"
	"xdao.co/transcode/pipeline"
	"xdao.co/transcode/qr"
	"xdao.co/transcode/verify"
)

// DefaultFilename names uploads that arrive without one.
const DefaultFilename = "unknown"

// Options configures Local. Zero values select each codec's defaults.
type Options struct {
	// Digest is the algorithm for reported hashes and QR records.
	Digest  string
	Numeral numeral.Options
	QR      qr.Options
	Notes   notes.Options
}

// Local runs codecs in the calling goroutine. It holds no mutable state and
// is safe for concurrent use.
type Local struct {
	opts Options
}

var _ Service = (*Local)(nil)

func NewLocal(opts Options) *Local {
	if opts.QR.Digest == "" {
		opts.QR.Digest = opts.Digest
	}
	return &Local{opts: opts}
}

func (l *Local) EncodeNotes(ctx context.Context, req *EncodeNotesRequest) (*EncodeNotesResponse, error) {
	if err := begin(ctx, req == nil || len(req.Data) == 0); err != nil {
		return nil, err
	}
	mode, err := notes.ParseMode(req.Mode)
	if err != nil {
		return nil, FromError(err)
	}
	carrier, err := notes.Encode(req.Data, mode, l.opts.Notes)
	if err != nil {
		return nil, FromError(err)
	}
	info, err := l.describe(req.Data, req.Filename)
	if err != nil {
		return nil, FromError(err)
	}
	tracks := 1
	if mode == notes.Musical {
		tracks = 4
	}
	return &EncodeNotesResponse{
		Carrier:        carrier,
		OutputFilename: outputName(req.Filename, ".mid"),
		Mode:           string(mode),
		Tracks:         tracks,
		Original:       info,
	}, nil
}

func (l *Local) DecodeNotes(ctx context.Context, req *DecodeNotesRequest) (*DecodeResponse, error) {
	if err := begin(ctx, req == nil || len(req.Carrier) == 0); err != nil {
		return nil, err
	}
	payload, err := notes.Decode(req.Carrier)
	if err != nil {
		return nil, FromError(err)
	}
	info, err := l.describe(payload, "")
	if err != nil {
		return nil, FromError(err)
	}
	return &DecodeResponse{Data: payload, Decoded: info}, nil
}

func (l *Local) EncodeNumeral(ctx context.Context, req *EncodeNumeralRequest) (*EncodeNumeralResponse, error) {
	if err := begin(ctx, req == nil || len(req.Data) == 0); err != nil {
		return nil, err
	}
	name := filenameOr(req.Filename, DefaultFilename)
	enc, err := numeral.Encode(req.Data, name, l.opts.Numeral)
	if err != nil {
		return nil, FromError(err)
	}
	info, err := l.describe(req.Data, name)
	if err != nil {
		return nil, FromError(err)
	}
	return &EncodeNumeralResponse{
		Text:       enc.Text,
		Base:       enc.Base,
		DigitCount: len(enc.Text),
		Original:   info,
	}, nil
}

func (l *Local) DecodeNumeral(ctx context.Context, req *DecodeNumeralRequest) (*DecodeResponse, error) {
	if err := begin(ctx, req == nil || strings.TrimSpace(req.Text) == ""); err != nil {
		return nil, err
	}
	res, err := numeral.Decode(req.Text, l.opts.Numeral)
	if err != nil {
		return nil, FromError(err)
	}
	info, err := l.describe(res.Payload, res.Filename)
	if err != nil {
		return nil, FromError(err)
	}
	return &DecodeResponse{Data: res.Payload, Decoded: info, Layout: res.Layout.String()}, nil
}

func (l *Local) EncodeQR(ctx context.Context, req *EncodeQRRequest) (*EncodeQRResponse, error) {
	if err := begin(ctx, req == nil || len(req.Data) == 0); err != nil {
		return nil, err
	}
	name := filenameOr(req.Filename, DefaultFilename)
	img, err := qr.Encode(req.Data, name, l.opts.QR)
	if err != nil {
		return nil, FromError(err)
	}
	info, err := l.describe(req.Data, name)
	if err != nil {
		return nil, FromError(err)
	}
	return &EncodeQRResponse{
		Image:          img.PNG,
		OutputFilename: outputName(req.Filename, ".png"),
		Version:        img.Version,
		Original:       info,
	}, nil
}

func (l *Local) DecodeQR(ctx context.Context, req *DecodeQRRequest) (*DecodeResponse, error) {
	if err := begin(ctx, req == nil || (len(req.Image) == 0 && req.ImageData == "")); err != nil {
		return nil, err
	}
	img := req.Image
	if len(img) == 0 {
		var err error
		if img, err = DecodeImageData(req.ImageData); err != nil {
			return nil, FromError(err)
		}
	}
	dec, err := qr.Decode(img)
	if err != nil {
		return nil, FromError(err)
	}
	cidStr, err := digest.ContentID(dec.Alg, dec.Payload)
	if err != nil {
		return nil, FromError(err)
	}
	return &DecodeResponse{
		Data: dec.Payload,
		Decoded: ContentInfo{
			Hash:      dec.Hash,
			Alg:       dec.Alg,
			Size:      len(dec.Payload),
			Filename:  dec.Filename,
			ContentID: cidStr,
		},
		EmbeddedHash: dec.EmbeddedHash,
	}, nil
}

func (l *Local) Verify(ctx context.Context, req *VerifyRequest) (*VerifyResponse, error) {
	if err := begin(ctx, req == nil); err != nil {
		return nil, err
	}
	r := verify.Verify(req.OriginalHash, req.DecodedHash)
	return &VerifyResponse{Verified: r.Verified, Match: r.Match}, nil
}

// Pipeline echoes the requested steps. Data is not inspected, so an empty
// upload is accepted.
func (l *Local) Pipeline(ctx context.Context, req *PipelineRequest) (*PipelineResponse, error) {
	if err := begin(ctx, false); err != nil {
		return nil, err
	}
	if req == nil {
		req = &PipelineRequest{}
	}
	steps := make([]pipeline.Step, 0, len(req.Steps))
	for _, s := range req.Steps {
		steps = append(steps, pipeline.Step{Operation: s.Operation, Parameters: s.Parameters})
	}
	res := pipeline.Run(steps)
	out := &PipelineResponse{
		Steps:  make([]PipelineStepResult, 0, len(res.Steps)),
		Status: res.Status,
		Stub:   res.Stub,
	}
	for _, s := range res.Steps {
		out.Steps = append(out.Steps, PipelineStepResult{Operation: s.Operation, Status: s.Status, Parameters: s.Parameters})
	}
	return out, nil
}

func (l *Local) Health(ctx context.Context) (*HealthResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, FromError(err)
	}
	return &HealthResponse{Status: "healthy", Service: ServiceName}, nil
}

func (l *Local) describe(data []byte, filename string) (ContentInfo, error) {
	alg := l.opts.Digest
	if alg == "" {
		alg = digest.Default
	}
	sum, err := digest.SumAlg(alg, data)
	if err != nil {
		return ContentInfo{}, err
	}
	cidStr, err := digest.ContentID(alg, data)
	if err != nil {
		return ContentInfo{}, err
	}
	return ContentInfo{Hash: sum, Alg: alg, Size: len(data), Filename: filename, ContentID: cidStr}, nil
}

// begin rejects canceled contexts and empty input before any codec runs.
func begin(ctx context.Context, empty bool) error {
	if err := ctx.Err(); err != nil {
		return FromError(err)
	}
	if empty {
		return &CodedError{Code: ErrEmptyInput, Message: "input is empty", RuleID: codec.RuleEmptyInput}
	}
	return nil
}

// DecodeImageData decodes base64 image text, dropping everything up to the
// first comma so data URLs are accepted.
func DecodeImageData(s string) ([]byte, error) {
	if i := strings.IndexByte(s, ','); i >= 0 {
		s = s[i+1:]
	}
	b, err := base64.StdEncoding.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return nil, codec.Wrap(codec.KindMalformedCarrier, codec.RuleQRImage, "image data is not base64", err)
	}
	return b, nil
}

func filenameOr(name, def string) string {
	if name == "" {
		return def
	}
	return name
}

func outputName(filename, ext string) string {
	return "encoded_" + filenameOr(filename, "file") + ext
}
