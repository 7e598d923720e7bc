// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command membytesctl inspects a membytes-managed mapped file from outside
// the owning process: chunk layout, a content hash pass, and (best-effort,
// since reference counts are per-process) refcount state of whatever the
// current process has open. It is a small flag-driven operational tool,
// generalized from a benchmark-runner shape to a set of read-only
// diagnostic subcommands.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/jcorbin/membytes"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	cmd := os.Args[1]
	args := os.Args[2:]

	var err error
	switch cmd {
	case "chunks":
		err = runChunks(args)
	case "verify":
		err = runVerify(args)
	case "refs":
		err = runRefs(args)
	case "-h", "--help", "help":
		usage()
		return
	default:
		fmt.Fprintf(os.Stderr, "membytesctl: unknown subcommand %q\n", cmd)
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "membytesctl %s: %v\n", cmd, err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: membytesctl <chunks|verify|refs> [flags] <file>

  chunks  report chunk size, overlap and how many chunks a file's current
          length implies
  verify  map every chunk and compute a running FastHash/ByteCheckSum
  refs    open a cursor, report the mapped file's RefCount before closing`)
}

func commonFlags(fs *pflag.FlagSet) (chunkSize, overlapSize *int64) {
	chunkSize = fs.Int64("chunk-size", 64<<20, "chunk size in bytes")
	overlapSize = fs.Int64("overlap", 0, "trailing overlap size in bytes")
	return
}

func runChunks(args []string) error {
	fs := pflag.NewFlagSet("chunks", pflag.ContinueOnError)
	chunkSize, overlapSize := commonFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	path := requirePath(fs)
	if path == "" {
		return fmt.Errorf("missing file path")
	}
	fi, err := os.Stat(path)
	if err != nil {
		return err
	}
	n := (fi.Size() + *chunkSize - 1) / *chunkSize
	fmt.Printf("%s: size=%d chunkSize=%d overlap=%d chunks=%d\n", path, fi.Size(), *chunkSize, *overlapSize, n)
	return nil
}

func runVerify(args []string) error {
	fs := pflag.NewFlagSet("verify", pflag.ContinueOnError)
	chunkSize, overlapSize := commonFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	path := requirePath(fs)
	if path == "" {
		return fmt.Errorf("missing file path")
	}

	log := membytes.NewDefaultLogger(zerolog.InfoLevel)
	mf, err := membytes.OpenMappedFile(path,
		membytes.WithChunkSize(*chunkSize),
		membytes.WithOverlapSize(*overlapSize),
		membytes.WithReadOnly(true),
		membytes.WithLogger(log),
	)
	if err != nil {
		return err
	}
	defer mf.Close()

	fi, err := os.Stat(path)
	if err != nil {
		return err
	}
	owner := &struct{ name string }{"membytesctl-verify"}
	var sum byte
	var hash int32
	for off := int64(0); off < fi.Size(); off += *chunkSize {
		chunk, err := mf.AcquireChunk(off)
		if err != nil {
			return err
		}
		if err := chunk.Reserve(owner); err != nil {
			return err
		}
		n := *chunkSize
		if off+n > fi.Size() {
			n = fi.Size() - off
		}
		cs, err := chunk.ByteCheckSum(0, n)
		if err != nil {
			_ = chunk.Release(owner)
			return err
		}
		h, err := chunk.FastHash(0, n)
		if err != nil {
			_ = chunk.Release(owner)
			return err
		}
		sum += cs
		hash ^= h
		_ = chunk.Release(owner)
	}
	fmt.Printf("%s: checksum=%d hash=%08x\n", path, sum, hash)
	return nil
}

func runRefs(args []string) error {
	fs := pflag.NewFlagSet("refs", pflag.ContinueOnError)
	chunkSize, overlapSize := commonFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	path := requirePath(fs)
	if path == "" {
		return fmt.Errorf("missing file path")
	}

	mf, err := membytes.OpenMappedFile(path,
		membytes.WithChunkSize(*chunkSize),
		membytes.WithOverlapSize(*overlapSize),
		membytes.WithReadOnly(true),
	)
	if err != nil {
		return err
	}
	defer mf.Close()

	cursor, err := membytes.NewMappedBytes(mf)
	if err != nil {
		return err
	}
	defer cursor.Close()

	fmt.Printf("%s: mappedFile refCount=%d\n", path, mf.RefCount())
	return nil
}

func requirePath(fs *pflag.FlagSet) string {
	if fs.NArg() < 1 {
		return ""
	}
	return fs.Arg(0)
}
