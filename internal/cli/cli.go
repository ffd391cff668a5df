// Package cli implements the qpb command line tool.
package cli

import (
	"encoding/base64"
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"math/big"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/qpbtools/qpb"
	"github.com/qpbtools/qpb/internal/jsonvalue"
	"github.com/qpbtools/qpb/internal/literal"
	qpbzap "github.com/qpbtools/qpb/log/zap"
	"github.com/qpbtools/qpb/value"
	"github.com/qpbtools/qpb/wire"
)

const usage = `qpb: a tool to help de-/encode protobuf without a schema

Usage: qpb [options] <command> [arguments]

Commands:
  enc [-json] <literal...>  : encode a python literal (or JSON) as protobuf
  dec [-hex] [-json] <data> : decode a base64 (or hex) protobuf message
  int2zig <integer>         : encode a signed integer as zigzag
  zig2int <integer>         : decode a signed integer from zigzag
  untag <hex>               : decode a tag into field number and wire type

Options:
  -v                  : debug logging to stderr
  -max-depth n        : deepest nesting tried as a sub-message  (default: 100)
  -max-input-size n   : reject larger inputs to dec, 0 = no limit
  -no-infer           : never reinterpret bytes as sub-messages

En-/decoding makes assumptions and does not round trip; lists are encoded
packed.
`

// Exit codes returned by Run.
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

type usageError struct{ msg string }

func (e usageError) Error() string { return e.msg }

func usagef(format string, args ...interface{}) error {
	return usageError{msg: fmt.Sprintf(format, args...)}
}

type app struct {
	stdout io.Writer
	codec  *qpb.Codec
	log    *zap.Logger
}

// Run executes the tool with args (without the program name) and returns the
// process exit code.
func Run(args []string, stdout, stderr io.Writer) int {
	cfg := wire.CurrentConfig()

	fs := flag.NewFlagSet("qpb", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { fmt.Fprint(stderr, usage) }
	verbose := fs.Bool("v", false, "")
	fs.IntVar(&cfg.MaxDepth, "max-depth", cfg.MaxDepth, "")
	fs.IntVar(&cfg.MaxInputSize, "max-input-size", cfg.MaxInputSize, "")
	fs.BoolVar(&cfg.DisableInference, "no-infer", cfg.DisableInference, "")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitOK
		}
		return ExitUsage
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return ExitUsage
	}

	a := &app{stdout: stdout, log: newLogger(*verbose, stderr)}
	defer func() { _ = a.log.Sync() }()
	a.codec = qpb.New(qpb.Options{
		Logger: qpbzap.ZapLogger{L: a.log},
		Config: &cfg,
	})

	cmd, rest := fs.Arg(0), fs.Args()[1:]
	a.log.Debug("running command", zap.String("command", cmd), zap.Int("args", len(rest)))

	var err error
	switch cmd {
	case "enc":
		err = a.enc(rest)
	case "dec":
		err = a.dec(rest)
	case "int2zig":
		err = a.int2zig(rest)
	case "zig2int":
		err = a.zig2int(rest)
	case "untag":
		err = a.untag(rest)
	case "help":
		fmt.Fprint(stdout, usage)
	default:
		err = usagef("unknown command %q", cmd)
	}
	if err == nil {
		return ExitOK
	}

	fmt.Fprintf(stderr, "qpb %s: %v\n", cmd, err)
	var uerr usageError
	if errors.As(err, &uerr) {
		return ExitUsage
	}
	return ExitError
}

func newLogger(verbose bool, stderr io.Writer) *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.AddSync(stderr),
		zapcore.DebugLevel,
	)
	return zap.New(core)
}

// subFlags parses per-command flags; a parse failure is a usage error.
func subFlags(name string, args []string, define func(fs *flag.FlagSet)) (*flag.FlagSet, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	define(fs)
	if err := fs.Parse(args); err != nil {
		return nil, usagef("%v", err)
	}
	return fs, nil
}

func (a *app) enc(args []string) error {
	var asJSON bool
	fs, err := subFlags("enc", args, func(fs *flag.FlagSet) {
		fs.BoolVar(&asJSON, "json", false, "")
	})
	if err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return usagef("missing data to encode")
	}
	src := strings.Join(fs.Args(), " ")

	var in value.Value
	if asJSON {
		in, err = jsonvalue.Parse([]byte(src))
	} else {
		in, err = literal.Parse(src)
	}
	if err != nil {
		return usagef("invalid input: %v", err)
	}

	out, err := a.codec.Encode(in)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "hex: %s\nb64: %s\n", hex.EncodeToString(out), base64.StdEncoding.EncodeToString(out))
	return nil
}

func (a *app) dec(args []string) error {
	var asHex, asJSON bool
	fs, err := subFlags("dec", args, func(fs *flag.FlagSet) {
		fs.BoolVar(&asHex, "hex", false, "")
		fs.BoolVar(&asJSON, "json", false, "")
	})
	if err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return usagef("expected exactly one message, got %d arguments", fs.NArg())
	}

	var data []byte
	if asHex {
		data, err = hex.DecodeString(strings.TrimSpace(fs.Arg(0)))
	} else {
		data, err = decodeBase64(fs.Arg(0))
	}
	if err != nil {
		return usagef("invalid input: %v", err)
	}

	msg, err := a.codec.Decode(data)
	if err != nil {
		return err
	}
	if asJSON {
		_, err = a.stdout.Write(jsonvalue.Marshal(msg))
		return err
	}
	fmt.Fprintf(a.stdout, "hex: %s\nmsg: %s\n", hex.EncodeToString(data), msg)
	return nil
}

// decodeBase64 accepts standard and URL-safe alphabets, padded or not.
func decodeBase64(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	var firstErr error
	for _, enc := range []*base64.Encoding{
		base64.StdEncoding,
		base64.RawStdEncoding,
		base64.URLEncoding,
		base64.RawURLEncoding,
	} {
		data, err := enc.DecodeString(s)
		if err == nil {
			return data, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return nil, firstErr
}

func (a *app) int2zig(args []string) error {
	n, err := oneInteger(args)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, qpb.IntToZigZag(n))
	return nil
}

func (a *app) zig2int(args []string) error {
	n, err := oneInteger(args)
	if err != nil {
		return err
	}
	out, err := qpb.ZigZagToInt(n)
	if err != nil {
		return usagef("%v", err)
	}
	fmt.Fprintln(a.stdout, out)
	return nil
}

func oneInteger(args []string) (*big.Int, error) {
	if len(args) != 1 {
		return nil, usagef("expected exactly one integer, got %d arguments", len(args))
	}
	s := strings.ReplaceAll(strings.TrimSpace(args[0]), "_", "")
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, usagef("invalid integer %q", args[0])
	}
	return n, nil
}

func (a *app) untag(args []string) error {
	if len(args) != 1 {
		return usagef("expected exactly one tag, got %d arguments", len(args))
	}
	data, err := hex.DecodeString(strings.ReplaceAll(args[0], " ", ""))
	if err != nil {
		return usagef("invalid hex %q: %v", args[0], err)
	}

	field, wt, err := qpb.Untag(data)
	switch {
	case errors.Is(err, wire.ErrEndOfStream):
		return usagef("invalid tag: %s", hex.EncodeToString(data))
	case err != nil:
		return errors.Wrapf(err, "invalid tag: %s", hex.EncodeToString(data))
	}
	fmt.Fprintf(a.stdout, "%d: %s\n", field, wt)
	return nil
}
