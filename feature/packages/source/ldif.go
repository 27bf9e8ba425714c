package source

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"package-migrator/core/storage"
	"package-migrator/feature/packages/decode"
	"package-migrator/feature/packages/models"

	"go.uber.org/zap"
)

// LDIFLoader reads directory interchange text. Each blank-line separated
// block is one object; blocks without a uuid are not packages and are skipped.
type LDIFLoader struct {
	location string
	client   storage.Client
	logger   *zap.Logger
}

// NewLDIFLoader creates a loader for location (path or s3://bucket/key).
func NewLDIFLoader(location string, client storage.Client, logger *zap.Logger) *LDIFLoader {
	return &LDIFLoader{location: location, client: client, logger: logger}
}

func (l *LDIFLoader) Name() string {
	return "ldif"
}

func (l *LDIFLoader) Load(ctx context.Context, out chan<- Entry) error {
	r, err := Open(ctx, l.client, l.location)
	if err != nil {
		return &Error{Loader: l.Name(), Op: "open " + l.location, Err: err}
	}
	defer r.Close()

	em := &emitter{out: out}
	err = parseLDIF(r, func(b *ldifBlock) error {
		if b.err != nil {
			l.logger.Warn("Skipping malformed LDIF entry",
				zap.String("source", l.location),
				zap.Int("line", b.start),
				zap.Error(b.err),
			)
			return nil
		}

		pkg, warnings := decode.Decode(b.attrs)
		if !pkg.Has(models.FieldUUID) {
			l.logger.Debug("Skipping LDIF entry without uuid",
				zap.String("source", l.location),
				zap.Int("line", b.start),
			)
			return nil
		}
		return em.send(ctx, pkg, warnings)
	})
	if err != nil {
		if ctx.Err() != nil {
			return err
		}
		return &Error{Loader: l.Name(), Op: "read " + l.location, Err: err}
	}
	return nil
}

// ldifBlock is one object assembled from consecutive attribute lines.
type ldifBlock struct {
	attrs models.RawRecord
	start int
	err   error
}

func (b *ldifBlock) fail(line int, format string, args ...any) {
	if b.err == nil {
		b.err = fmt.Errorf("line %d: "+format, append([]any{line}, args...)...)
	}
}

// add parses one logical line ("name: value" or "name:: base64") and
// accumulates repeated names into a list.
func (b *ldifBlock) add(line string, lineNo int) {
	idx := strings.IndexByte(line, ':')
	if idx <= 0 {
		b.fail(lineNo, "missing attribute separator")
		return
	}

	name := strings.ToLower(strings.TrimSpace(line[:idx]))
	if semi := strings.IndexByte(name, ';'); semi >= 0 {
		name = name[:semi]
	}
	rest := line[idx+1:]

	var value string
	switch {
	case strings.HasPrefix(rest, ":"):
		decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(rest[1:]))
		if err != nil {
			b.fail(lineNo, "invalid base64 value for %s: %v", name, err)
			return
		}
		value = string(decoded)
	case strings.HasPrefix(rest, "<"):
		b.fail(lineNo, "URL value for %s is not supported", name)
		return
	default:
		value = strings.TrimLeft(rest, " ")
	}

	if b.attrs == nil {
		b.attrs = models.RawRecord{}
	}
	switch existing := b.attrs[name].(type) {
	case nil:
		b.attrs[name] = value
	case string:
		b.attrs[name] = []string{existing, value}
	case []string:
		b.attrs[name] = append(existing, value)
	}
}

// parseLDIF splits r into blocks and calls fn for each, in order. It handles
// comments, folded lines, CRLF endings and a leading version line.
func parseLDIF(r io.Reader, fn func(*ldifBlock) error) error {
	lines := newLineReader(r, maxLineSize)

	var (
		block     = &ldifBlock{}
		logical   strings.Builder
		logicalNo int
		pending   bool
		inComment bool
		firstLine = true
		lineNo    int
	)

	flushLine := func() {
		if !pending {
			return
		}
		line := logical.String()
		logical.Reset()
		pending = false

		if firstLine {
			firstLine = false
			if strings.HasPrefix(strings.ToLower(line), "version:") {
				return
			}
		}
		if block.start == 0 {
			block.start = logicalNo
		}
		block.add(line, logicalNo)
	}

	flushBlock := func() error {
		flushLine()
		if block.attrs == nil && block.err == nil {
			block = &ldifBlock{}
			return nil
		}
		current := block
		block = &ldifBlock{}
		return fn(current)
	}

	for {
		raw, tooLong, err := lines.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		lineNo++

		if tooLong {
			inComment = false
			if block.start == 0 {
				block.start = lineNo
			}
			block.fail(lineNo, "line exceeds %d bytes", maxLineSize)
			continue
		}
		line := strings.TrimSuffix(string(raw), "\r")

		switch {
		case line == "":
			inComment = false
			if err := flushBlock(); err != nil {
				return err
			}
		case strings.HasPrefix(line, " "):
			if inComment {
				continue
			}
			if !pending {
				if block.start == 0 {
					block.start = lineNo
				}
				block.fail(lineNo, "continuation line without attribute")
				continue
			}
			logical.WriteString(line[1:])
		case strings.HasPrefix(line, "#"):
			flushLine()
			inComment = true
		default:
			inComment = false
			flushLine()
			logical.WriteString(line)
			logicalNo = lineNo
			pending = true
		}
	}
	return flushBlock()
}
