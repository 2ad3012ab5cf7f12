package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"xdao.co/transcode/config"
	"xdao.co/transcode/digest"
	"xdao.co/transcode/model"
	"xdao.co/transcode/pipeline"
	"xdao.co/transcode/transport/grpccodec"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, out io.Writer, errOut io.Writer) int {
	if len(args) == 0 {
		printUsage(errOut)
		return 2
	}

	switch args[0] {
	case "encode":
		return cmdEncode(args[1:], out, errOut)
	case "decode":
		return cmdDecode(args[1:], out, errOut)
	case "verify":
		return cmdVerify(args[1:], out, errOut)
	case "digest":
		return cmdDigest(args[1:], out, errOut)
	case "pipeline":
		return cmdPipeline(args[1:], out, errOut)
	case "help", "-h", "--help":
		printUsage(out)
		return 0
	default:
		fmt.Fprintf(errOut, "unknown command: %s\n\n", args[0])
		printUsage(errOut)
		return 2
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "transcode: binary-to-carrier codecs")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  transcode encode notes [--mode raw|musical] [--name <n>] [--out <file>] <file>")
	fmt.Fprintln(w, "  transcode encode numeral [--name <n>] [--out <file>] <file>")
	fmt.Fprintln(w, "  transcode encode qr [--name <n>] [--out <file>] <file>")
	fmt.Fprintln(w, "  transcode decode notes|numeral|qr [--out <file>] <file>")
	fmt.Fprintln(w, "  transcode verify <original-hash> <decoded-hash>")
	fmt.Fprintln(w, "  transcode digest [--alg sha256|sha3-256|blake3] [--cid] <file>")
	fmt.Fprintln(w, "  transcode pipeline --step <op>[:k=v,...] [--step ...] <file>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Common flags:")
	fmt.Fprintln(w, "  --config <file>    config file (default $"+config.EnvPath+")")
	fmt.Fprintln(w, "  --remote <addr>    use a transcoded daemon instead of running in-process")
	fmt.Fprintln(w, "  --timeout <dur>    per-request timeout for --remote")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Notes:")
	fmt.Fprintln(w, "  - encode prints response metadata as JSON on stdout; carriers go to --out")
	fmt.Fprintln(w, "    (default: the suggested encoded_<name> file; numeral text defaults to stdout)")
	fmt.Fprintln(w, "  - decode writes the payload to --out (default stdout) and metadata to stderr")
	fmt.Fprintln(w, "  - <file> may be - for stdin")
	fmt.Fprintln(w, "  - verify exits 1 unless both hashes are well-formed and equal")
}

// common holds the flags shared by codec subcommands.
type common struct {
	configPath string
	remote     string
	timeout    time.Duration
}

func (c *common) register(fs *pflag.FlagSet) {
	fs.StringVar(&c.configPath, "config", "", "config file")
	fs.StringVar(&c.remote, "remote", "", "transcoded address")
	fs.DurationVar(&c.timeout, "timeout", 30*time.Second, "per-request timeout for --remote")
}

func (c *common) service() (model.Service, func() error, error) {
	var (
		cfg *config.Config
		err error
	)
	if c.configPath != "" {
		cfg, err = config.LoadFile(c.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, nil, err
	}
	if c.remote == "" {
		return model.NewLocal(cfg.Options()), func() error { return nil }, nil
	}
	client, err := grpccodec.Dial(c.remote, grpccodec.DialOptions{Timeout: c.timeout, MaxMsgBytes: cfg.GRPC.MaxMsgBytes})
	if err != nil {
		return nil, nil, err
	}
	client.Timeout = c.timeout
	return client, client.Close, nil
}

func newFlagSet(name string, errOut io.Writer) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(errOut)
	return fs
}

// parseFlags returns -1 to continue, or an exit code.
func parseFlags(fs *pflag.FlagSet, args []string) int {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}
	return -1
}

func cmdEncode(args []string, out io.Writer, errOut io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(errOut, "usage: transcode encode notes|numeral|qr [flags] <file>")
		return 2
	}
	kind := args[0]
	fs := newFlagSet("encode "+kind, errOut)
	var c common
	c.register(fs)
	name := fs.String("name", "", "filename to record (default: base name of <file>)")
	outPath := fs.String("out", "", "carrier output path")
	mode := fs.String("mode", "raw", "note mode: raw or musical")
	if code := parseFlags(fs, args[1:]); code >= 0 {
		return code
	}
	if fs.NArg() != 1 {
		fmt.Fprintf(errOut, "usage: transcode encode %s [flags] <file>\n", kind)
		return 2
	}

	data, err := readInput(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(errOut, "read input: %v\n", err)
		return 1
	}
	filename := orDefault(*name, baseName(fs.Arg(0)))

	svc, closeFn, err := c.service()
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 2
	}
	defer closeFn()
	ctx := context.Background()

	switch kind {
	case "notes":
		resp, err := svc.EncodeNotes(ctx, &model.EncodeNotesRequest{Data: data, Filename: filename, Mode: *mode})
		if err != nil {
			return fail(errOut, "encode notes", err)
		}
		path := orDefault(*outPath, resp.OutputFilename)
		if err := writeOutput(path, out, resp.Carrier); err != nil {
			return fail(errOut, "write carrier", err)
		}
		resp.Carrier = nil
		return printJSON(out, errOut, path, resp)
	case "numeral":
		resp, err := svc.EncodeNumeral(ctx, &model.EncodeNumeralRequest{Data: data, Filename: filename})
		if err != nil {
			return fail(errOut, "encode numeral", err)
		}
		if *outPath == "" || *outPath == "-" {
			fmt.Fprintln(out, resp.Text)
			return 0
		}
		if err := writeOutput(*outPath, out, []byte(resp.Text)); err != nil {
			return fail(errOut, "write carrier", err)
		}
		resp.Text = ""
		return printJSON(out, errOut, *outPath, resp)
	case "qr":
		resp, err := svc.EncodeQR(ctx, &model.EncodeQRRequest{Data: data, Filename: filename})
		if err != nil {
			return fail(errOut, "encode qr", err)
		}
		path := orDefault(*outPath, resp.OutputFilename)
		if err := writeOutput(path, out, resp.Image); err != nil {
			return fail(errOut, "write carrier", err)
		}
		resp.Image = nil
		return printJSON(out, errOut, path, resp)
	default:
		fmt.Fprintf(errOut, "unknown codec: %s (want notes, numeral, or qr)\n", kind)
		return 2
	}
}

func cmdDecode(args []string, out io.Writer, errOut io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(errOut, "usage: transcode decode notes|numeral|qr [flags] <file>")
		return 2
	}
	kind := args[0]
	fs := newFlagSet("decode "+kind, errOut)
	var c common
	c.register(fs)
	outPath := fs.String("out", "-", "payload output path")
	if code := parseFlags(fs, args[1:]); code >= 0 {
		return code
	}
	if fs.NArg() != 1 {
		fmt.Fprintf(errOut, "usage: transcode decode %s [flags] <file>\n", kind)
		return 2
	}

	input, err := readInput(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(errOut, "read input: %v\n", err)
		return 1
	}

	svc, closeFn, err := c.service()
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 2
	}
	defer closeFn()
	ctx := context.Background()

	var resp *model.DecodeResponse
	switch kind {
	case "notes":
		resp, err = svc.DecodeNotes(ctx, &model.DecodeNotesRequest{Carrier: input})
	case "numeral":
		resp, err = svc.DecodeNumeral(ctx, &model.DecodeNumeralRequest{Text: string(input)})
	case "qr":
		resp, err = svc.DecodeQR(ctx, &model.DecodeQRRequest{Image: input})
	default:
		fmt.Fprintf(errOut, "unknown codec: %s (want notes, numeral, or qr)\n", kind)
		return 2
	}
	if err != nil {
		return fail(errOut, "decode "+kind, err)
	}
	if err := writeOutput(*outPath, out, resp.Data); err != nil {
		return fail(errOut, "write payload", err)
	}

	fmt.Fprintf(errOut, "hash=%s alg=%s size=%d", resp.Decoded.Hash, resp.Decoded.Alg, resp.Decoded.Size)
	if resp.Decoded.Filename != "" {
		fmt.Fprintf(errOut, " filename=%q", resp.Decoded.Filename)
	}
	if resp.Layout != "" {
		fmt.Fprintf(errOut, " layout=%s", resp.Layout)
	}
	if resp.EmbeddedHash != "" {
		fmt.Fprintf(errOut, " embedded=%s intact=%t", resp.EmbeddedHash, digest.Equal(resp.EmbeddedHash, resp.Decoded.Hash))
	}
	fmt.Fprintln(errOut)
	return 0
}

func cmdVerify(args []string, out io.Writer, errOut io.Writer) int {
	fs := newFlagSet("verify", errOut)
	var c common
	c.register(fs)
	if code := parseFlags(fs, args); code >= 0 {
		return code
	}
	if fs.NArg() != 2 {
		fmt.Fprintln(errOut, "usage: transcode verify <original-hash> <decoded-hash>")
		return 2
	}
	svc, closeFn, err := c.service()
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 2
	}
	defer closeFn()

	resp, err := svc.Verify(context.Background(), &model.VerifyRequest{OriginalHash: fs.Arg(0), DecodedHash: fs.Arg(1)})
	if err != nil {
		return fail(errOut, "verify", err)
	}
	if code := printJSON(out, errOut, "", resp); code != 0 {
		return code
	}
	if resp.Verified && resp.Match {
		return 0
	}
	return 1
}

func cmdDigest(args []string, out io.Writer, errOut io.Writer) int {
	fs := newFlagSet("digest", errOut)
	alg := fs.String("alg", digest.Default, "digest algorithm")
	withCID := fs.Bool("cid", false, "also print the CIDv1 content ID")
	if code := parseFlags(fs, args); code >= 0 {
		return code
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: transcode digest [--alg a] [--cid] <file>")
		return 2
	}
	data, err := readInput(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(errOut, "read input: %v\n", err)
		return 1
	}
	sum, err := digest.SumAlg(*alg, data)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 2
	}
	if !*withCID {
		fmt.Fprintln(out, sum)
		return 0
	}
	id, err := digest.ContentID(*alg, data)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	fmt.Fprintf(out, "%s\t%s\n", sum, id)
	return 0
}

func cmdPipeline(args []string, out io.Writer, errOut io.Writer) int {
	fs := newFlagSet("pipeline", errOut)
	var c common
	c.register(fs)
	steps := fs.StringArray("step", nil, "operation, optionally with parameters: op:key=value,key=value")
	if code := parseFlags(fs, args); code >= 0 {
		return code
	}
	if fs.NArg() != 1 || len(*steps) == 0 {
		fmt.Fprintln(errOut, "usage: transcode pipeline --step <op>[:k=v,...] [--step ...] <file>")
		fmt.Fprintf(errOut, "operations: %s\n", strings.Join(pipeline.Operations(), ", "))
		return 2
	}
	parsed := make([]model.PipelineStep, 0, len(*steps))
	for _, s := range *steps {
		step, err := parseStep(s)
		if err != nil {
			fmt.Fprintln(errOut, err)
			return 2
		}
		parsed = append(parsed, step)
	}
	data, err := readInput(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(errOut, "read input: %v\n", err)
		return 1
	}

	svc, closeFn, err := c.service()
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 2
	}
	defer closeFn()

	resp, err := svc.Pipeline(context.Background(), &model.PipelineRequest{Data: data, Filename: baseName(fs.Arg(0)), Steps: parsed})
	if err != nil {
		return fail(errOut, "pipeline", err)
	}
	return printJSON(out, errOut, "", resp)
}

// parseStep parses "op" or "op:key=value,key=value". The operation must be
// one pipeline.Canonical knows.
func parseStep(s string) (model.PipelineStep, error) {
	op, rest, hasParams := strings.Cut(s, ":")
	step := model.PipelineStep{Operation: strings.TrimSpace(op)}
	if step.Operation == "" {
		return step, fmt.Errorf("invalid --step %q: missing operation", s)
	}
	if _, ok := pipeline.Canonical(step.Operation); !ok {
		return step, fmt.Errorf("invalid --step %q: unknown operation %q", s, step.Operation)
	}
	if !hasParams || rest == "" {
		return step, nil
	}
	step.Parameters = map[string]any{}
	for _, kv := range strings.Split(rest, ",") {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return step, fmt.Errorf("invalid --step %q: parameter %q is not key=value", s, kv)
		}
		step.Parameters[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	return step, nil
}

func fail(errOut io.Writer, what string, err error) int {
	ce := model.FromError(err)
	if ce.RuleID != "" {
		fmt.Fprintf(errOut, "%s: %s [%s]\n", what, ce.Error(), ce.RuleID)
	} else {
		fmt.Fprintf(errOut, "%s: %s\n", what, ce.Error())
	}
	return 1
}

// printJSON prints v unless the carrier itself went to stdout.
func printJSON(out, errOut io.Writer, path string, v any) int {
	if path == "-" {
		return 0
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(errOut, "encode output: %v\n", err)
		return 1
	}
	if path != "" {
		fmt.Fprintf(errOut, "wrote %s\n", path)
	}
	fmt.Fprintln(out, string(b))
	return 0
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func writeOutput(path string, stdout io.Writer, b []byte) error {
	if path == "-" {
		_, err := stdout.Write(b)
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

func baseName(path string) string {
	if path == "-" {
		return ""
	}
	return filepath.Base(path)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
