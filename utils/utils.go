package utils

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/pgzip"
)

type Sample struct {
	Name string
	Dir  string
}

type Config struct {
	Reference   string
	OutputDir   string
	MinDepth    int
	MinFraction float64
	Threads     int
	SplitAt     []int
	Samples     []Sample

	set map[string]bool
}

// Has reports whether key appeared in the config file, so an explicit zero can be
// told apart from a missing line.
func (c Config) Has(key string) bool {
	return c.set[key]
}

// ReadConfig reads a "key: value" sample sheet. Unknown keys are ignored so the
// same file can be shared with other pipeline steps.
func ReadConfig(configPath string) (Config, error) {
	configFile, err := os.Open(configPath)
	if err != nil {
		return Config{}, err
	}
	defer configFile.Close()
	cfg := Config{set: make(map[string]bool)}

	scanner := bufio.NewScanner(configFile)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, ":", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		switch key {
		case "Reference", "OutputDir", "MinDepth", "MinFraction", "threads", "SplitAt", "Sample":
			cfg.set[key] = true
		}

		switch key {
		case "Reference":
			cfg.Reference = value
		case "OutputDir":
			cfg.OutputDir = value
		case "MinDepth":
			n, aErr := strconv.Atoi(value)
			if aErr != nil {
				return cfg, fmt.Errorf("line %d: MinDepth %q: %w", lineNo, value, aErr)
			}
			cfg.MinDepth = n
		case "MinFraction":
			f, fErr := strconv.ParseFloat(value, 64)
			if fErr != nil {
				return cfg, fmt.Errorf("line %d: MinFraction %q: %w", lineNo, value, fErr)
			}
			cfg.MinFraction = f
		case "threads":
			n, aErr := strconv.Atoi(value)
			if aErr != nil {
				return cfg, fmt.Errorf("line %d: threads %q: %w", lineNo, value, aErr)
			}
			cfg.Threads = n
		case "SplitAt":
			for _, f := range strings.Fields(value) {
				n, aErr := strconv.Atoi(f)
				if aErr != nil {
					return cfg, fmt.Errorf("line %d: SplitAt %q: %w", lineNo, f, aErr)
				}
				cfg.SplitAt = append(cfg.SplitAt, n)
			}
		case "Sample":
			fields := strings.Fields(value)
			if len(fields) != 2 {
				return cfg, fmt.Errorf("line %d: Sample needs <name> <dir>, got %q", lineNo, value)
			}
			cfg.Samples = append(cfg.Samples, Sample{Name: fields[0], Dir: fields[1]})
		}
	}

	if err := scanner.Err(); err != nil {
		return cfg, err
	}

	return cfg, nil

}

// CheckFiles returns an error naming the first path that is not a regular file.
func CheckFiles(paths ...string) error {
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return fmt.Errorf("%s is not a valid file: %w", p, err)
		}
		if info.IsDir() {
			return fmt.Errorf("%s is a directory", p)
		}
	}
	return nil
}

type multiCloser []io.Closer

func (m multiCloser) Close() error {
	var first error
	for i := len(m) - 1; i >= 0; i-- {
		if err := m[i].Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

type readCloser struct {
	io.Reader
	io.Closer
}

// OpenMaybeGzip opens path and transparently decompresses it when it starts
// with the gzip magic bytes. bgzip output is multi-member gzip and reads the same way.
func OpenMaybeGzip(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	br := bufio.NewReader(f)
	magic, err := br.Peek(2)
	if err != nil && err != io.EOF {
		f.Close()
		return nil, err
	}
	if !bytes.Equal(magic, []byte{0x1f, 0x8b}) {
		return readCloser{Reader: br, Closer: f}, nil
	}
	gz, err := pgzip.NewReader(br)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("gzip %s: %w", path, err)
	}
	return readCloser{Reader: gz, Closer: multiCloser{f, gz}}, nil
}
