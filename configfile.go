package shellscript

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/paulrentschler/pwrentch.shellscript/internal/normalize"
)

// ParseConfigFile reads key=value lines from path and writes matching value
// options into store (the resolver's store when nil). Passing a different store
// lets one schema populate independent option sets from different files.
//
// A missing file returns a *ConfigFileError wrapping ErrConfigNotFound; a file
// that cannot be opened or read wraps ErrConfigUnreadable. Neither is fatal to
// the caller, and in both cases the store is left unchanged.
func (r *Resolver) ParseConfigFile(path string, store *Store) (*ParseResult, error) {
	r.Debug(fmt.Sprintf("ParseConfigFile(%s) called", path), 1)
	defer r.Debug("ParseConfigFile() ended", 1)

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, r.fileError(path, ErrConfigNotFound, nil)
		}
		return nil, r.fileError(path, ErrConfigUnreadable, err)
	}
	if info.IsDir() {
		return nil, r.fileError(path, ErrConfigUnreadable, errors.New("is a directory"))
	}

	r.Debug(fmt.Sprintf("config file (%s) exists, opening it for reading", path), 2)
	f, err := os.Open(path)
	if err != nil {
		return nil, r.fileError(path, ErrConfigUnreadable, err)
	}
	defer f.Close()

	res, err := r.ParseConfig(f, filepath.Base(path), store)
	if err != nil {
		var cfe *ConfigFileError
		if errors.As(err, &cfe) {
			cfe.Path = path
		}
	}
	return res, err
}

// ParseConfig reads key=value lines from src. name labels the provenance of
// each write (e.g. "file:<name>:<line>").
//
// Blank lines and lines starting with '#' are skipped. Lines without '=' and
// tags that match no file tag are ignored. Only value options are applied.
//
// src is read to the end before anything is applied, so a read error leaves
// the store unchanged. Lines have no length limit.
func (r *Resolver) ParseConfig(src io.Reader, name string, store *Store) (*ParseResult, error) {
	if store == nil {
		store = r.store
	}

	lines, err := readLines(src)
	if err != nil {
		return nil, r.fileError(name, ErrConfigUnreadable, err)
	}

	res := &ParseResult{}
	for i, raw := range lines {
		lineNo := i + 1
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		tag, value, found := strings.Cut(line, "=")
		if !found {
			r.Debug(fmt.Sprintf("line %d has no '=', ignoring it", lineNo), 2)
			res.Unresolved = append(res.Unresolved, line)
			continue
		}
		tag = normalize.FileTag(tag)
		value = strings.TrimSpace(value)

		opt, ok := r.schema.LookupFileTag(tag)
		if !ok {
			r.Debug(fmt.Sprintf("tag (%s) is not a valid file tag, ignoring it", tag), 2)
			res.Unresolved = append(res.Unresolved, line)
			continue
		}
		if opt.Kind != KindValue {
			r.Debug(fmt.Sprintf("tag (%s) is not a value option, ignoring it", tag), 2)
			continue
		}

		r.Debug(fmt.Sprintf("tag (%s) is a value option", tag), 2)
		r.applyValue(opt, value, fmt.Sprintf("file:%s:%d", name, lineNo), store, res)
	}

	return res, r.Finish(res)
}

func readLines(src io.Reader) ([]string, error) {
	br := bufio.NewReader(src)
	var lines []string
	for {
		line, err := br.ReadString('\n')
		if line != "" {
			lines = append(lines, line)
		}
		if errors.Is(err, io.EOF) {
			return lines, nil
		}
		if err != nil {
			return nil, err
		}
	}
}

func (r *Resolver) fileError(path string, kind error, cause error) error {
	err := &ConfigFileError{Path: path, Err: kind, Cause: cause}
	r.Debug(err.Error(), 0)
	return err
}
