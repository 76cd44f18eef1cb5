// Command swecodec encodes, decodes and validates SWE Common data streams.
//
// Usage:
//
//	swecodec encode   --schema FILE [--encoding FILE] [flags] [VALUES]
//	swecodec decode   --schema FILE [--encoding FILE] [flags] [DATA]
//	swecodec validate --schema FILE [--encoding FILE] [flags] [DATA]
//
// Without --encoding, the schema file is read as a datastream schema document
// holding both "recordSchema" and "encoding". Input is read from the named file,
// or from stdin when the file is omitted or "-".
package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/arloliu/swecodec/bincodec"
	"github.com/arloliu/swecodec/component"
	"github.com/arloliu/swecodec/encoding"
	"github.com/arloliu/swecodec/format"
	"github.com/arloliu/swecodec/internal/logging"
	"github.com/arloliu/swecodec/internal/render"
	"github.com/arloliu/swecodec/loader"
	"github.com/arloliu/swecodec/textcodec"
	"github.com/arloliu/swecodec/validate"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

var errUsage = errors.New("usage error")

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

type cliOptions struct {
	schema   string
	encoding string
	out      string
	output   string
	logLevel string
	count    int
	base64   bool
	lenient  bool
	input    string
}

type command struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	opts   cliOptions
	logger *zap.Logger
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		printUsage(stderr)
		return exitUsage
	}

	name := args[0]
	var action func(*command) error
	switch name {
	case "encode":
		action = (*command).encode
	case "decode":
		action = (*command).decode
	case "validate":
		action = (*command).validate
	case "help", "-h", "--help":
		printUsage(stdout)
		return exitOK
	default:
		fmt.Fprintf(stderr, "error: unknown command %q\n", name)
		printUsage(stderr)
		return exitUsage
	}

	opts, err := parseFlags(name, args[1:], stderr)
	if errors.Is(err, pflag.ErrHelp) {
		return exitOK
	}
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitUsage
	}

	logger, err := logging.New(opts.logLevel, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitUsage
	}
	defer func() { _ = logger.Sync() }()

	cmd := &command{stdin: stdin, stdout: stdout, stderr: stderr, opts: opts, logger: logger}
	if err := action(cmd); err != nil {
		var failed *validationFailure
		if errors.As(err, &failed) {
			return exitFailure
		}
		fmt.Fprintf(stderr, "error: %v\n", err)
		if errors.Is(err, errUsage) {
			return exitUsage
		}

		return exitFailure
	}

	return exitOK
}

func parseFlags(name string, args []string, stderr io.Writer) (cliOptions, error) {
	var opts cliOptions

	flagSet := pflag.NewFlagSet(name, pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.StringVarP(&opts.schema, "schema", "s", "", "component schema, or datastream schema when --encoding is omitted")
	flagSet.StringVarP(&opts.encoding, "encoding", "e", "", "encoding descriptor file")
	flagSet.StringVarP(&opts.out, "out", "o", "", "write output to this file instead of stdout")
	flagSet.StringVar(&opts.output, "output", "json", "decoded value format: json, yaml or cbor")
	flagSet.StringVar(&opts.logLevel, "log-level", "none", "log level: none, debug, info, warn or error")
	flagSet.IntVarP(&opts.count, "count", "n", -1, "number of records to decode, or the exact number expected by validate")
	flagSet.BoolVar(&opts.base64, "base64", false, "binary data is Base64 text")
	flagSet.BoolVar(&opts.lenient, "lenient", false, "decode invalid text numbers as NaN instead of failing")

	if err := flagSet.Parse(args); err != nil {
		return opts, err
	}

	rest := flagSet.Args()
	if len(rest) > 1 {
		return opts, fmt.Errorf("%w: unexpected argument %q", errUsage, rest[1])
	}
	if len(rest) == 1 {
		opts.input = rest[0]
	}
	if opts.schema == "" {
		return opts, fmt.Errorf("%w: --schema is required", errUsage)
	}
	if _, err := render.ParseFormat(opts.output); err != nil {
		return opts, fmt.Errorf("%w: %v", errUsage, err)
	}

	return opts, nil
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, `swecodec encodes, decodes and validates SWE Common data streams.

Usage:
  swecodec encode   --schema FILE [--encoding FILE] [flags] [VALUES]
  swecodec decode   --schema FILE [--encoding FILE] [flags] [DATA]
  swecodec validate --schema FILE [--encoding FILE] [flags] [DATA]

Flags:
  -s, --schema FILE     component schema, or datastream schema when --encoding is omitted
  -e, --encoding FILE   encoding descriptor
  -o, --out FILE        output file (default stdout)
      --output FORMAT   decoded value format: json, yaml or cbor (default json)
  -n, --count N         records to decode, or records expected by validate
      --base64          binary data is Base64 text
      --lenient         decode invalid text numbers as NaN
      --log-level LEVEL none, debug, info, warn or error (default none)
`)
}

// load returns the schema and descriptor named by the flags.
func (c *command) load() (component.Component, encoding.Descriptor, error) {
	if c.opts.encoding == "" {
		stream, err := loader.LoadStreamSchema(c.opts.schema)
		if err != nil {
			return nil, nil, err
		}
		c.logger.Debug("loaded datastream schema",
			zap.String("path", c.opts.schema),
			zap.String("obsFormat", stream.ObsFormat),
			zap.Stringer("kind", stream.RecordSchema.Kind()))

		return stream.RecordSchema, stream.Encoding, nil
	}

	schema, err := loader.LoadComponent(c.opts.schema)
	if err != nil {
		return nil, nil, err
	}
	desc, err := loader.LoadDescriptor(c.opts.encoding)
	if err != nil {
		return nil, nil, err
	}
	c.logger.Debug("loaded schema and encoding",
		zap.String("schema", c.opts.schema),
		zap.String("encoding", c.opts.encoding),
		zap.Stringer("kind", schema.Kind()))

	return schema, desc, nil
}

func (c *command) readInput() ([]byte, error) {
	if c.opts.input == "" || c.opts.input == "-" {
		return io.ReadAll(c.stdin)
	}

	return os.ReadFile(c.opts.input)
}

func (c *command) readValues() (any, error) {
	if c.opts.input == "" || c.opts.input == "-" {
		data, err := io.ReadAll(c.stdin)
		if err != nil {
			return nil, err
		}

		return loader.DecodeValues(data)
	}

	return loader.LoadValues(c.opts.input)
}

func (c *command) writeOutput(data []byte) error {
	if c.opts.out == "" {
		_, err := c.stdout.Write(data)
		return err
	}

	return os.WriteFile(c.opts.out, data, 0o644)
}

func (c *command) encode() error {
	schema, desc, err := c.load()
	if err != nil {
		return err
	}
	values, err := c.readValues()
	if err != nil {
		return err
	}

	var out []byte
	switch d := desc.(type) {
	case encoding.TextEncoding:
		text, err := textcodec.Encode(values, d, schema, textcodec.WithLogger(c.logger))
		if err != nil {
			return err
		}
		out = []byte(text)
	case encoding.BinaryEncoding:
		mode := format.OutputRaw
		if c.opts.base64 {
			mode = format.OutputBase64
		}
		out, err = bincodec.Encode(values, d, mode, bincodec.WithSchema(schema), bincodec.WithLogger(c.logger))
		if err != nil {
			return err
		}
	}
	c.logger.Info("encoded", zap.Int("bytes", len(out)))

	return c.writeOutput(out)
}

func (c *command) decode() error {
	schema, desc, err := c.load()
	if err != nil {
		return err
	}
	data, err := c.readInput()
	if err != nil {
		return err
	}

	var values any
	switch d := desc.(type) {
	case encoding.TextEncoding:
		opts := []textcodec.Option{textcodec.WithLogger(c.logger)}
		if c.opts.count >= 0 {
			opts = append(opts, textcodec.WithElementCount(c.opts.count))
		}
		if c.opts.lenient {
			opts = append(opts, textcodec.WithLenientParsing())
		}
		values, err = textcodec.Decode(string(data), d, schema, opts...)
	case encoding.BinaryEncoding:
		opts := []bincodec.Option{bincodec.WithLogger(c.logger)}
		if c.opts.count >= 0 {
			opts = append(opts, bincodec.WithElementCount(c.opts.count))
		}
		if c.opts.base64 {
			opts = append(opts, bincodec.WithBase64Input())
		}
		values, err = bincodec.Decode(data, d, schema, opts...)
	}
	if err != nil {
		return err
	}

	f, _ := render.ParseFormat(c.opts.output)
	var buf bytes.Buffer
	if err := render.Write(&buf, values, f); err != nil {
		return err
	}
	c.logger.Info("decoded", zap.Stringer("format", f), zap.Int("bytes", len(data)))

	return c.writeOutput(buf.Bytes())
}

// validationFailure reports that validate found problems; the messages are
// already written to stdout.
type validationFailure struct {
	count int
}

func (e *validationFailure) Error() string {
	return fmt.Sprintf("%d validation errors", e.count)
}

func (c *command) validate() error {
	schema, desc, err := c.load()
	if err != nil {
		return err
	}

	var messages []string
	messages = append(messages, validate.Schema(schema).Errors...)

	switch d := desc.(type) {
	case encoding.TextEncoding:
		messages = append(messages, validate.TextEncoding(d).Errors...)
		if c.opts.input != "" {
			data, err := c.readInput()
			if err != nil {
				return err
			}
			record := schema
			if elem, _, ok := component.ElementOf(schema); ok {
				record = elem
			}
			messages = append(messages, validate.TextDataStructure(string(data), d, record).Errors...)
			if c.opts.count >= 0 {
				messages = append(messages, validate.TextDataLength(string(data), d, c.opts.count).Errors...)
			}
		}
	case encoding.BinaryEncoding:
		messages = append(messages, validate.BinaryEncoding(d).Errors...)
	}

	if len(messages) == 0 {
		fmt.Fprintln(c.stdout, "valid")
		return nil
	}
	for _, msg := range messages {
		fmt.Fprintf(c.stdout, "invalid: %s\n", msg)
	}

	return &validationFailure{count: len(messages)}
}
