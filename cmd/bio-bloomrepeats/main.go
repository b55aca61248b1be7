// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// bio-bloomrepeats finds exact repeats shared by a set of sequences and
// prints them as blocks of fragments.
//
// Usage:
//
//   bio-bloomrepeats find -anchor-size 20 -out anchors.fa -rio anchors.rio genome1.fa genome2.fa.gz
//   bio-bloomrepeats view anchors.rio
package main

import (
	"fmt"
	"os"

	"github.com/grailbio/base/cmdutil"
	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/bloomrepeats/anchor"
	"github.com/grailbio/bloomrepeats/encoding/fasta"
	"github.com/grailbio/bloomrepeats/sequence"
	"v.io/x/lib/cmdline"
)

func newCmdFind() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "find",
		Short:    "Find anchors in FASTA files",
		ArgsName: "fasta...",
	}
	flags := findFlags{opts: anchor.DefaultOpts}
	cmd.Flags.IntVar(&flags.opts.AnchorSize, "anchor-size", anchor.DefaultOpts.AnchorSize, "Length of anchors")
	cmd.Flags.IntVar(&flags.opts.Workers, "workers", anchor.DefaultOpts.Workers, "Number of goroutines searching for anchors")
	cmd.Flags.BoolVar(&flags.opts.PalindromeElimination, "palindromes", anchor.DefaultOpts.PalindromeElimination,
		"If true, report an anchor and its reverse complement as a single block")
	onlyOri := cmd.Flags.Int("only-ori", 0, `If 1 or -1, only search the forward or the reverse
strand. 0 (default) searches both strands.`)
	cmd.Flags.IntVar(&flags.minFragmentLength, "min-fragment-length", 0, "Drop fragments shorter than this")
	cmd.Flags.IntVar(&flags.minBlockSize, "min-block-size", 2, "Drop blocks with fewer fragments than this after filtering")
	cmd.Flags.Int64Var(&flags.seed, "seed", 1, "Seed of the random block names given to blocks with clashing names")
	cmd.Flags.StringVar(&flags.out, "out", "", `FASTA output path. The output is gzipped if the path ends in ".gz".
If empty, blocks are written to stdout.`)
	cmd.Flags.StringVar(&flags.rio, "rio", "", "If nonempty, also dump the blocks into this recordio file, to be read by \"view\"")
	cmd.Flags.IntVar(&flags.lineWidth, "line-width", fasta.DefaultLineWidth, "Bases per FASTA output line; 0 disables wrapping")
	cmd.Flags.BoolVar(&flags.fai, "fai", false, "If true, also write a samtools faidx index of the FASTA output to <out>.fai")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) == 0 {
			return fmt.Errorf("find takes one or more FASTA paths, but got none")
		}
		flags.opts.OnlyOri = sequence.Ori(*onlyOri)
		_, err := find(vcontext.Background(), env.Stdout, flags, argv)
		return err
	})
	return cmd
}

func newCmdView() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "view",
		Short:    "Print the blocks of a recordio file written by \"find -rio\"",
		ArgsName: "path",
	}
	flags := viewFlags{}
	cmd.Flags.StringVar(&flags.out, "out", "", "FASTA output path. If empty, blocks are written to stdout")
	cmd.Flags.BoolVar(&flags.stats, "stats", false, "Print the finder options and statistics instead of the blocks")
	cmd.Flags.IntVar(&flags.lineWidth, "line-width", fasta.DefaultLineWidth, "Bases per FASTA output line; 0 disables wrapping")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 1 {
			return fmt.Errorf("view takes one pathname argument, but got %v", argv)
		}
		return view(vcontext.Background(), env.Stdout, flags, argv[0])
	})
	return cmd
}

func main() {
	shutdown := grail.Init()
	cmdline.HideGlobalFlagsExcept()
	root := &cmdline.Command{
		Name:     "bio-bloomrepeats",
		Short:    "Find exact repeats in a set of sequences",
		LookPath: false,
		Children: []*cmdline.Command{
			newCmdFind(),
			newCmdView(),
		},
	}
	env := cmdline.EnvFromOS()
	err := cmdline.ParseAndRun(root, env, os.Args[1:])
	shutdown()
	os.Exit(cmdline.ExitCode(err, env.Stderr))
}
